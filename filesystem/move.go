package filesystem

import (
	"github.com/brettbedarf/vtree/errors"
	"github.com/brettbedarf/vtree/vpath"
)

type linkFix struct {
	link      *SymbolicLink
	oldPath   vpath.Path
	newPath   vpath.Path
	newTarget vpath.Path
}

// relocate moves node from the physical path from to the physical path to,
// updating the registry for links inside the moved subtree and for links
// elsewhere that point into it. The registry is updated before the tree.
func (t *tree) relocate(srcParent *Directory, node Node, from vpath.Path, dstParent *Directory, to vpath.Path) {
	fixes := make(map[string]*linkFix)
	var order []string

	forEachLink(node, from, func(link *SymbolicLink, at vpath.Path) {
		if !link.HasTarget() {
			return
		}
		target, err := t.linkTarget(link, at)
		if err != nil {
			return
		}
		fixes[at.Key()] = &linkFix{link: link, oldPath: at, newPath: at.Rebase(from, to), newTarget: target.Rebase(from, to)}
		order = append(order, at.Key())
	})
	for _, target := range t.links.targetsUnder(from) {
		for _, at := range t.links.lookup(target) {
			if _, ok := fixes[at.Key()]; ok {
				continue
			}
			ctx, err := t.lookup(at, false, false)
			if err != nil || !ctx.Found() {
				continue
			}
			link, ok := ctx.Node.(*SymbolicLink)
			if !ok {
				continue
			}
			fixes[at.Key()] = &linkFix{link: link, oldPath: at, newPath: at, newTarget: target.Rebase(from, to)}
			order = append(order, at.Key())
		}
	}

	for _, key := range order {
		t.links.unregisterLink(fixes[key].oldPath)
	}
	for _, key := range order {
		fix := fixes[key]
		fix.link.setTarget(t.storedTarget(fix.link, fix.newTarget, fix.newPath))
		t.links.register(fix.newTarget, fix.newPath)
	}

	if srcParent == dstParent {
		srcParent.renameChild(node.Name(), to.Name())
	} else {
		srcParent.removeChild(node.Name())
		node.meta().name = to.Name()
		dstParent.addChild(node)
	}
	srcParent.touch()
	dstParent.touch()
	node.meta().touch()
	t.refreshAllLinkTypes()
}

// move relocates source to destination. An existing directory at the
// destination receives the source under its own name; any other existing
// entry is replaced only with overwrite and a compatible kind.
func (t *tree) move(src, dst vpath.Path, overwrite, resolveLinks bool) error {
	if src.IsRoot() {
		return errors.New(errors.ErrIllegalStructuralEdit, "cannot move the root")
	}
	srcCtx, err := t.lookup(src, resolveLinks, true)
	if err != nil {
		return err
	}
	node := srcCtx.Node
	from := srcCtx.ResolvedPath
	if from.IsRoot() {
		return errors.New(errors.ErrIllegalStructuralEdit, "cannot move the root").WithPath(t.fmt(src))
	}

	dstCtx, err := t.lookup(dst, true, false)
	if err != nil {
		return err
	}
	if dstCtx.Node == node {
		return errors.New(errors.ErrInvalidArgument, "source and destination are the same node").WithPath(t.fmt(src))
	}

	var dstParent *Directory
	var to vpath.Path
	if dir, ok := dstCtx.Node.(*Directory); ok {
		dstParent = dir
		to = dstCtx.ResolvedPath.Join(node.Name())
	} else {
		parentCtx, err := t.lookup(dst.Dir(), true, true)
		if err != nil {
			return err
		}
		parent, ok := parentCtx.Node.(*Directory)
		if !ok {
			return t.wrongKind(dst.Dir(), NodeTypeDirectory, parentCtx.Node.Type())
		}
		dstParent = parent
		to = parentCtx.ResolvedPath.Join(dst.Name())
	}

	if to.Equal(from) {
		return errors.New(errors.ErrInvalidArgument, "move to the same location").WithPath(t.fmt(src))
	}
	if to.HasPrefix(from) {
		return errors.New(errors.ErrIllegalStructuralEdit, "cannot move a node into itself").
			WithPath(t.fmt(src)).
			WithDetail("destination", t.fmt(dst))
	}
	if err := t.cfg.ValidateName(to.Name()); err != nil {
		return errors.Wrap(err, errors.ErrInvalidArgument, "invalid node name").WithPath(t.fmt(dst))
	}

	if existing, ok := dstParent.Get(to.Name()); ok {
		if !overwrite {
			return errors.New(errors.ErrAlreadyExists, "node already exists").WithPath(t.fmt(to))
		}
		if !canReplace(existing, node.Type()) {
			return errors.Newf(errors.ErrWrongKind, "cannot replace %s with %s", existing.Type(), node.Type()).WithPath(t.fmt(to))
		}
		t.detach(dstParent, existing, to)
	}

	t.relocate(srcCtx.Parent, node, from, dstParent, to)
	return nil
}

// rename renames the node at p within its directory. With resolveLinks
// intermediate links are followed; a link at p is renamed itself.
func (t *tree) rename(p vpath.Path, newName string, resolveLinks bool) error {
	if p.IsRoot() {
		return errors.New(errors.ErrIllegalStructuralEdit, "cannot rename the root")
	}
	var ctx *NodeContext
	var err error
	if resolveLinks {
		ctx, err = t.lookup(p, false, true)
	} else {
		ctx, err = t.walkToTarget(p, walkOptions{throwOnMissing: true})
	}
	if err != nil {
		return err
	}
	if err := t.cfg.ValidateName(newName); err != nil {
		return errors.Wrap(err, errors.ErrInvalidArgument, "invalid node name").WithPath(newName)
	}
	if newName == ctx.Node.Name() {
		return errors.New(errors.ErrInvalidArgument, "new name equals the current name").WithPath(t.fmt(p))
	}
	if ctx.Parent.Has(newName) {
		return errors.New(errors.ErrAlreadyExists, "node already exists").WithPath(t.fmt(ctx.ResolvedPath.Dir().Join(newName)))
	}

	from := ctx.ResolvedPath
	t.relocate(ctx.Parent, ctx.Node, from, ctx.Parent, from.Dir().Join(newName))
	return nil
}
