package filesystem

import (
	"github.com/brettbedarf/vtree/errors"
	"github.com/brettbedarf/vtree/vpath"
)

// walkOptions controls walkToTarget.
type walkOptions struct {
	// onVisit is called for every node passed on the way, the target included.
	onVisit func(ctx *NodeContext)
	// onMissing may create the missing child name under parent and return
	// true to have the lookup retried.
	onMissing      func(parent *Directory, name string, soFar vpath.Path) (bool, error)
	followLinks    bool
	throwOnMissing bool
}

func (o walkOptions) visit(ctx *NodeContext) {
	if o.onVisit != nil {
		o.onVisit(ctx)
	}
}

// walkToTarget resolves the absolute normalized target segment by segment
// from the root.
//
// With throwOnMissing unset a missing segment yields a context without a
// node instead of an error. Items in the middle of the path always fail.
func (t *tree) walkToTarget(target vpath.Path, opts walkOptions) (*NodeContext, error) {
	if !target.IsAbsolute() {
		return nil, errors.New(errors.ErrInvalidArgument, "path is not absolute").WithPath(t.fmt(target))
	}
	return t.walkPath(target, opts, newCycleDetector())
}

func (t *tree) walkPath(target vpath.Path, opts walkOptions, cd *cycleDetector) (*NodeContext, error) {
	if target.IsRoot() {
		return &NodeContext{Node: t.root, TraversalPath: target, ResolvedPath: target}, nil
	}

	segs := target.Segments()
	dir := t.root
	traversal := vpath.Root()
	resolved := vpath.Root()
	wasResolved := false

	missing := func(i int) *NodeContext {
		return &NodeContext{
			TraversalPath: target,
			Parent:        dir,
			Depth:         i + 1,
			ResolvedPath:  resolved.Join(segs[i:]...),
			Resolved:      wasResolved,
		}
	}

	for i, name := range segs {
		last := i == len(segs)-1
		traversal = traversal.Join(name)

		node, ok := dir.Get(name)
		if !ok && opts.onMissing != nil {
			retry, err := opts.onMissing(dir, name, traversal)
			if err != nil {
				return nil, err
			}
			if retry {
				node, ok = dir.Get(name)
			}
		}
		if !ok {
			if opts.throwOnMissing {
				return nil, t.notFound(traversal)
			}
			return missing(i), nil
		}

		switch nd := node.(type) {
		case *Directory:
			resolved = resolved.Join(name)
			ctx := &NodeContext{Node: nd, TraversalPath: traversal, Parent: dir, Depth: i + 1, ResolvedPath: resolved, Resolved: wasResolved}
			opts.visit(ctx)
			if last {
				return ctx, nil
			}
			dir = nd

		case *SymbolicLink:
			if !opts.followLinks || !nd.HasTarget() {
				resolved = resolved.Join(name)
				ctx := &NodeContext{Node: nd, TraversalPath: traversal, Parent: dir, Depth: i + 1, ResolvedPath: resolved, Resolved: wasResolved}
				opts.visit(ctx)
				if last {
					return ctx, nil
				}
				if !opts.throwOnMissing {
					return &NodeContext{TraversalPath: target, Depth: i + 2, ResolvedPath: resolved.Join(segs[i+1:]...), Resolved: wasResolved}, nil
				}
				return nil, errors.New(errors.ErrTraverseLink, "cannot traverse through symbolic link").WithPath(t.fmt(traversal))
			}

			linkTarget, err := t.linkTarget(nd, resolved.Join(name))
			if err != nil {
				return nil, err
			}
			if err := cd.enter(nd, traversal); err != nil {
				return nil, err
			}
			sub, err := t.walkPath(linkTarget, walkOptions{followLinks: true, throwOnMissing: opts.throwOnMissing}, cd)
			cd.leave(nd)
			if err != nil {
				return nil, err
			}
			wasResolved = true
			if !sub.Found() {
				return &NodeContext{
					TraversalPath: target,
					Parent:        sub.Parent,
					Depth:         i + 1,
					ResolvedPath:  sub.ResolvedPath.Join(segs[i+1:]...),
					Resolved:      true,
				}, nil
			}

			resolved = sub.ResolvedPath
			if last {
				ctx := &NodeContext{Node: sub.Node, TraversalPath: traversal, Parent: sub.Parent, Depth: i + 1, ResolvedPath: resolved, Resolved: true, ResolvedLink: nd}
				opts.visit(ctx)
				return ctx, nil
			}
			opts.visit(&NodeContext{Node: sub.Node, TraversalPath: traversal, Parent: sub.Parent, Depth: i + 1, ResolvedPath: resolved, Resolved: true, ResolvedLink: nd})
			next, isDir := sub.Node.(*Directory)
			if !isDir {
				if sub.Node.Type() == NodeTypeItem {
					return nil, errors.New(errors.ErrTraverseItem, "cannot traverse through item").WithPath(t.fmt(traversal))
				}
				return nil, errors.New(errors.ErrTraverseLink, "cannot traverse through symbolic link").WithPath(t.fmt(traversal))
			}
			dir = next

		default:
			resolved = resolved.Join(name)
			ctx := &NodeContext{Node: nd, TraversalPath: traversal, Parent: dir, Depth: i + 1, ResolvedPath: resolved, Resolved: wasResolved}
			opts.visit(ctx)
			if last {
				return ctx, nil
			}
			return nil, errors.New(errors.ErrTraverseItem, "cannot traverse through item").WithPath(t.fmt(traversal))
		}
	}
	panic("unreachable")
}

// lookup resolves p with intermediate links followed. followFinal decides
// whether a link at the last segment is replaced by its target.
func (t *tree) lookup(p vpath.Path, followFinal, mustExist bool) (*NodeContext, error) {
	if followFinal || p.IsRoot() {
		return t.walkToTarget(p, walkOptions{followLinks: true, throwOnMissing: mustExist})
	}

	parentCtx, err := t.walkToTarget(p.Dir(), walkOptions{followLinks: true, throwOnMissing: mustExist})
	if err != nil {
		return nil, err
	}
	name := p.Name()
	if !parentCtx.Found() {
		return &NodeContext{TraversalPath: p, Depth: p.Len(), ResolvedPath: parentCtx.ResolvedPath.Join(name), Resolved: parentCtx.Resolved}, nil
	}
	dir, ok := parentCtx.Node.(*Directory)
	if !ok {
		if parentCtx.Node.Type() == NodeTypeItem {
			return nil, errors.New(errors.ErrTraverseItem, "cannot traverse through item").WithPath(t.fmt(p.Dir()))
		}
		return nil, errors.New(errors.ErrTraverseLink, "cannot traverse through symbolic link").WithPath(t.fmt(p.Dir()))
	}

	ctx := &NodeContext{
		TraversalPath: p,
		Parent:        dir,
		Depth:         p.Len(),
		ResolvedPath:  parentCtx.ResolvedPath.Join(name),
		Resolved:      parentCtx.Resolved,
	}
	node, ok := dir.Get(name)
	if !ok {
		if mustExist {
			return nil, t.notFound(p)
		}
		return ctx, nil
	}
	ctx.Node = node
	return ctx, nil
}

// resolveLinkNode resolves the target of link, which lives at linkPath, to
// its final node. A dangling target yields a context without a node.
func (t *tree) resolveLinkNode(link *SymbolicLink, linkPath vpath.Path) (*NodeContext, error) {
	target, err := t.linkTarget(link, linkPath)
	if err != nil {
		return nil, err
	}
	cd := newCycleDetector()
	if err := cd.enter(link, linkPath); err != nil {
		return nil, err
	}
	return t.walkPath(target, walkOptions{followLinks: true}, cd)
}
