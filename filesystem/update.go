package filesystem

import (
	"github.com/brettbedarf/vtree/errors"
	"github.com/brettbedarf/vtree/vpath"
)

// update applies node onto the existing node of the same kind at p.
// Directories merge children recursively, items take the new payload and
// links take the new target.
func (t *tree) update(p vpath.Path, node Node) error {
	ctx, err := t.lookup(p, node.Type() != NodeTypeSymbolicLink, true)
	if err != nil {
		return err
	}
	if ctx.Node.Type() != node.Type() {
		return t.wrongKind(p, node.Type(), ctx.Node.Type())
	}
	if err := t.updateNode(ctx.Node, ctx.ResolvedPath, node); err != nil {
		return err
	}
	t.refreshAllLinkTypes()
	return nil
}

func (t *tree) updateNode(existing Node, at vpath.Path, src Node) error {
	switch ex := existing.(type) {
	case *Directory:
		return t.mergeDirectory(ex, at, src.(*Directory))
	case *SymbolicLink:
		target, _ := src.(*SymbolicLink).Target()
		t.retargetLink(ex, at, target)
		return nil
	case assigner:
		return ex.assign(src)
	}
	return t.wrongKind(at, src.Type(), existing.Type())
}

// mergeDirectory merges the children of src into dst. New children are
// attached as clones; src stays with the caller.
func (t *tree) mergeDirectory(dst *Directory, at vpath.Path, src *Directory) error {
	if err := t.validateChildren(src, at); err != nil {
		return err
	}
	for _, child := range src.Nodes() {
		childPath := at.Join(child.Name())
		ex, ok := dst.Get(child.Name())
		if !ok {
			t.attach(dst, at, child.cloneNode())
			continue
		}
		if ex.Type() == child.Type() {
			if err := t.updateNode(ex, childPath, child); err != nil {
				return err
			}
			continue
		}
		t.detach(dst, ex, childPath)
		t.attach(dst, at, child.cloneNode())
	}
	dst.touch()
	return nil
}

// setNode updates the node at p when one of the same kind exists, replaces
// a node of another kind and otherwise adds node, creating missing parents.
func (t *tree) setNode(p vpath.Path, node Node) error {
	if p.IsRoot() {
		if dir, ok := node.(*Directory); ok {
			return t.update(p, dir)
		}
		return errors.New(errors.ErrIllegalStructuralEdit, "cannot replace the root")
	}
	ctx, err := t.lookup(p, node.Type() != NodeTypeSymbolicLink, false)
	if err != nil {
		return err
	}
	if ctx.Found() {
		if ctx.Node.Type() == node.Type() {
			if err := t.updateNode(ctx.Node, ctx.ResolvedPath, node); err != nil {
				return err
			}
			t.refreshAllLinkTypes()
			return nil
		}
		if ctx.ResolvedPath.IsRoot() {
			return errors.New(errors.ErrIllegalStructuralEdit, "cannot replace the root")
		}
		t.detach(ctx.Parent, ctx.Node, ctx.ResolvedPath)
		_, err := t.add(ctx.ResolvedPath, node, false, false)
		return err
	}
	_, err = t.add(p, node, false, true)
	return err
}
