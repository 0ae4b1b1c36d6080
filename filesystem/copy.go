package filesystem

import (
	"github.com/brettbedarf/vtree/errors"
	"github.com/brettbedarf/vtree/vpath"
)

// copy clones source, and with recursive its whole subtree, to destination.
// It returns the physical paths written. Every precondition, including the
// cycle checks of the source walk, is verified before the first insert.
func (t *tree) copy(src, dst vpath.Path, overwrite, recursive, followLinks bool) ([]vpath.Path, error) {
	if src.IsRoot() {
		return nil, errors.New(errors.ErrIllegalStructuralEdit, "cannot copy the root")
	}
	srcCtx, err := t.lookup(src, followLinks, true)
	if err != nil {
		return nil, err
	}
	from := srcCtx.ResolvedPath

	dstCtx, err := t.lookup(dst, true, false)
	if err != nil {
		return nil, err
	}
	if dstCtx.Node == srcCtx.Node || dstCtx.ResolvedPath.Equal(from) {
		return nil, errors.New(errors.ErrInvalidArgument, "source and destination are the same").WithPath(t.fmt(src))
	}

	base, err := t.copyDestination(dst, src.Name(), newCycleDetector())
	if err != nil {
		return nil, err
	}
	if recursive && (base.HasPrefix(from) || from.HasPrefix(base)) {
		return nil, errors.New(errors.ErrIllegalStructuralEdit, "source and destination are nested").
			WithPath(t.fmt(src)).
			WithDetail("destination", t.fmt(base))
	}

	contexts, err := t.walk(from, walkerOptions{
		filter:      FilterAll,
		recursive:   recursive,
		followLinks: followLinks,
	}).Collect()
	if err != nil {
		return nil, err
	}
	if !recursive {
		contexts = contexts[:1]
	}

	copied := make([]vpath.Path, 0, len(contexts))
	cd := newCycleDetector()
	for _, ctx := range contexts {
		at, err := t.copyOne(ctx.Node, base.Append(ctx.TraversalPath), overwrite, cd)
		if err != nil {
			t.refreshAllLinkTypes()
			return copied, err
		}
		copied = append(copied, at)
	}
	t.refreshAllLinkTypes()
	return copied, nil
}

// copyDestination computes where a source named name lands when copied to
// dst: into dst if it is a directory, at dst otherwise. A link at dst is
// followed to its target.
func (t *tree) copyDestination(dst vpath.Path, name string, cd *cycleDetector) (vpath.Path, error) {
	ctx, err := t.lookup(dst, false, false)
	if err != nil {
		return vpath.Path{}, err
	}
	if !ctx.Found() {
		if ctx.Parent == nil {
			return vpath.Path{}, t.notFound(dst.Dir())
		}
		return ctx.ResolvedPath, nil
	}
	switch nd := ctx.Node.(type) {
	case *Directory:
		return ctx.ResolvedPath.Join(name), nil
	case *SymbolicLink:
		if !nd.HasTarget() {
			return ctx.ResolvedPath, nil
		}
		if err := cd.enter(nd, ctx.ResolvedPath); err != nil {
			return vpath.Path{}, err
		}
		target, err := t.linkTarget(nd, ctx.ResolvedPath)
		if err != nil {
			return vpath.Path{}, err
		}
		if tc, err := t.lookup(target, true, false); err == nil && !tc.Found() {
			// dangling: the copy takes the target's place
			return tc.ResolvedPath, nil
		}
		return t.copyDestination(target, name, cd)
	}
	return ctx.ResolvedPath, nil
}

// copyOne inserts a clone of node at p and returns where it landed.
func (t *tree) copyOne(node Node, p vpath.Path, overwrite bool, cd *cycleDetector) (vpath.Path, error) {
	parentCtx, err := t.lookup(p.Dir(), true, true)
	if err != nil {
		return p, err
	}
	parent, ok := parentCtx.Node.(*Directory)
	if !ok {
		return p, t.wrongKind(p.Dir(), NodeTypeDirectory, parentCtx.Node.Type())
	}
	parentPath := parentCtx.ResolvedPath
	name := p.Name()
	at := parentPath.Join(name)

	if existing, ok := parent.Get(name); ok {
		if existing == node {
			return at, errors.New(errors.ErrInvalidArgument, "source and destination are the same").WithPath(t.fmt(at))
		}
		switch ex := existing.(type) {
		case *Directory:
			if node.Type() == NodeTypeDirectory {
				ex.touch()
				return at, nil
			}
			return t.copyOne(node, at.Join(name), overwrite, cd)
		case *SymbolicLink:
			if ex.HasTarget() {
				if err := cd.enter(ex, at); err != nil {
					return at, err
				}
				target, err := t.linkTarget(ex, at)
				if err != nil {
					return at, err
				}
				res, err := t.copyOne(node, target, overwrite, cd)
				cd.leave(ex)
				return res, err
			}
			if !overwrite {
				return at, errors.New(errors.ErrAlreadyExists, "node already exists").WithPath(t.fmt(at))
			}
			t.detach(parent, ex, at)
		default:
			if !overwrite {
				return at, errors.New(errors.ErrAlreadyExists, "node already exists").WithPath(t.fmt(at))
			}
			t.detach(parent, ex, at)
		}
	}

	clone := shallowClone(node)
	clone.meta().name = name
	t.attach(parent, parentPath, clone)
	return at, nil
}
