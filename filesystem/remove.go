package filesystem

import (
	"github.com/brettbedarf/vtree/errors"
	"github.com/brettbedarf/vtree/vpath"
)

// remove deletes the node at p. With resolveLinks a link at p is removed
// together with its target; with followLinks the same applies to links met
// inside a recursive removal.
func (t *tree) remove(p vpath.Path, recursive, followLinks, resolveLinks bool) error {
	if p.IsRoot() {
		return errors.New(errors.ErrIllegalStructuralEdit, "cannot remove the root")
	}
	ctx, err := t.lookup(p, false, true)
	if err != nil {
		return err
	}
	if link, ok := ctx.Node.(*SymbolicLink); ok && resolveLinks && link.HasTarget() {
		if err := t.removeThroughLink(ctx.Parent, link, ctx.ResolvedPath, recursive, followLinks); err != nil {
			return err
		}
		t.refreshAllLinkTypes()
		return nil
	}

	base := ctx.ResolvedPath
	contexts, err := t.walk(base, walkerOptions{
		filter:      FilterAll,
		recursive:   recursive,
		followLinks: followLinks && recursive,
	}).Collect()
	if err != nil {
		return err
	}
	if !recursive && len(contexts) > 1 {
		return errors.New(errors.ErrNotEmpty, "directory is not empty").WithPath(t.fmt(p))
	}

	for i := len(contexts) - 1; i >= 0; i-- {
		c := contexts[i]
		switch {
		case c.throughLink:
			// handled when the link itself is removed
		case c.ResolvedLink != nil:
			at := base.Append(c.TraversalPath)
			if err := t.removeThroughLink(c.Parent, c.ResolvedLink, at, true, followLinks); err != nil {
				t.refreshAllLinkTypes()
				return err
			}
		default:
			t.detach(c.Parent, c.Node, c.ResolvedPath)
		}
	}
	t.refreshAllLinkTypes()
	return nil
}

// removeThroughLink removes link, living at at, and then whatever its target
// resolves to. A dangling target leaves just the link removal.
func (t *tree) removeThroughLink(parent *Directory, link *SymbolicLink, at vpath.Path, recursive, followLinks bool) error {
	target, err := t.resolveLinkNode(link, at)
	if err != nil {
		return err
	}
	if target.Found() {
		if target.ResolvedPath.IsRoot() {
			return errors.New(errors.ErrIllegalStructuralEdit, "cannot remove the root").WithPath(t.fmt(at))
		}
		if dir, ok := target.Node.(*Directory); ok && !recursive && dir.Len() > 0 {
			return errors.New(errors.ErrNotEmpty, "directory is not empty").WithPath(t.fmt(target.ResolvedPath))
		}
	}

	t.detach(parent, link, at)
	if !target.Found() {
		return nil
	}
	if cur, err := t.lookup(target.ResolvedPath, false, false); err != nil || cur.Node != target.Node {
		return nil
	}
	return t.remove(target.ResolvedPath, recursive, followLinks, false)
}
