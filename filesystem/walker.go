package filesystem

import (
	"iter"

	"github.com/brettbedarf/vtree/vpath"
)

type walkerOptions struct {
	filter      NodeTypeFilter
	recursive   bool
	followLinks bool
	// resolveBase follows a link at the base path itself.
	resolveBase bool
	// patterns restricts the walk to paths whose segments below the base
	// match one pattern each. Nil disables pattern mode.
	patterns []string
}

// Walker enumerates a subtree lazily, depth-first in view order. Call Next
// until it returns false, then check Err.
//
// Abandoning a Walker midway is safe. Mutating the tree while a Walker is
// live is not supported.
type Walker struct {
	t    *tree
	base vpath.Path
	opts walkerOptions

	started bool
	done    bool
	stack   []*walkFrame
	active  *cycleDetector
	cur     *NodeContext
	err     error
}

type walkFrame struct {
	dir      *Directory
	nodes    []Node
	pos      int
	rel      vpath.Path // dir relative to the walk base
	depth    int
	resolved vpath.Path // physical path of dir
	viaLink  bool       // dir was reached through a followed link
	link     *SymbolicLink
}

func (t *tree) walk(base vpath.Path, opts walkerOptions) *Walker {
	return &Walker{t: t, base: base, opts: opts, active: newCycleDetector()}
}

// Node returns the context produced by the last successful Next.
func (w *Walker) Node() *NodeContext {
	return w.cur
}

// Err returns the error that stopped the walk, if any.
func (w *Walker) Err() error {
	return w.err
}

// Next advances to the next node.
func (w *Walker) Next() bool {
	if w.done {
		return false
	}
	w.cur = nil
	if !w.started {
		w.started = true
		if err := w.start(); err != nil {
			return w.fail(err)
		}
		if w.cur != nil {
			return true
		}
	}

	for len(w.stack) > 0 {
		top := w.stack[len(w.stack)-1]
		if top.pos >= len(top.nodes) {
			w.pop()
			continue
		}
		idx := top.pos
		top.pos++
		ctx, err := w.visit(top, top.nodes[idx], idx)
		if err != nil {
			return w.fail(err)
		}
		if ctx != nil {
			w.cur = ctx
			return true
		}
	}
	w.done = true
	return false
}

// All adapts the walker to a range-over-func sequence. A walk error is
// yielded last with a nil context.
func (w *Walker) All() iter.Seq2[*NodeContext, error] {
	return func(yield func(*NodeContext, error) bool) {
		for w.Next() {
			if !yield(w.Node(), nil) {
				return
			}
		}
		if err := w.Err(); err != nil {
			yield(nil, err)
		}
	}
}

// Collect drains the walker.
func (w *Walker) Collect() ([]*NodeContext, error) {
	var out []*NodeContext
	for w.Next() {
		out = append(out, w.Node())
	}
	return out, w.Err()
}

func (w *Walker) fail(err error) bool {
	w.err = err
	w.done = true
	w.stack = nil
	return false
}

func (w *Walker) start() error {
	ctx, err := w.t.lookup(w.base, w.opts.resolveBase, true)
	if err != nil {
		return err
	}
	ctx.TraversalPath = vpath.Path{}
	ctx.Depth = 0

	patternMode := w.opts.patterns != nil
	if (!patternMode || len(w.opts.patterns) == 0) && w.opts.filter.Allows(ctx.Node.Type()) {
		w.cur = ctx
	}
	if dir, ok := ctx.Node.(*Directory); ok && (!patternMode || len(w.opts.patterns) > 0) {
		w.push(&walkFrame{
			dir:      dir,
			rel:      vpath.Path{},
			resolved: ctx.ResolvedPath,
			viaLink:  ctx.ResolvedLink != nil,
		})
	}
	return nil
}

func (w *Walker) push(f *walkFrame) {
	f.nodes = w.t.view(f.dir)
	w.stack = append(w.stack, f)
}

func (w *Walker) pop() {
	top := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	if top.link != nil {
		w.active.leave(top.link)
	}
}

// visit builds the context of child and pushes its frame when the walk
// descends into it. A nil context means child is not yielded.
func (w *Walker) visit(f *walkFrame, child Node, idx int) (*NodeContext, error) {
	depth := f.depth + 1
	patternMode := w.opts.patterns != nil
	if patternMode && !w.t.matcher.Match(child.Name(), w.opts.patterns[depth-1]) {
		return nil, nil
	}

	rel := f.rel.Join(child.Name())
	physical := f.resolved.Join(child.Name())
	ctx := &NodeContext{
		Node:          child,
		TraversalPath: rel,
		Parent:        f.dir,
		Depth:         depth,
		Index:         idx,
		ResolvedPath:  physical,
		Resolved:      f.viaLink,
		throughLink:   f.viaLink,
	}

	descend := w.opts.recursive
	if patternMode {
		descend = depth < len(w.opts.patterns)
	}

	if link, ok := child.(*SymbolicLink); ok && w.opts.followLinks && link.HasTarget() {
		sub, err := w.t.resolveLinkNode(link, physical)
		if err != nil {
			return nil, err
		}
		if sub.Found() {
			ctx.Node = sub.Node
			ctx.ResolvedPath = sub.ResolvedPath
			ctx.Resolved = true
			ctx.ResolvedLink = link
			if dir, ok := sub.Node.(*Directory); ok && descend {
				if err := w.active.enter(link, physical); err != nil {
					return nil, err
				}
				w.push(&walkFrame{dir: dir, rel: rel, depth: depth, resolved: sub.ResolvedPath, viaLink: true, link: link})
			}
		}
	} else if dir, ok := child.(*Directory); ok && descend {
		w.push(&walkFrame{dir: dir, rel: rel, depth: depth, resolved: physical, viaLink: f.viaLink})
	}

	if patternMode && depth != len(w.opts.patterns) {
		return nil, nil
	}
	if !w.opts.filter.Allows(ctx.Node.Type()) {
		return nil, nil
	}
	return ctx, nil
}
