package filesystem

import (
	"strconv"

	"github.com/brettbedarf/vtree/errors"
	"github.com/brettbedarf/vtree/vpath"
)

// canReplace reports whether existing may be overwritten by a node of kind
// incoming. Items are always replaceable; other kinds only by their own kind.
func canReplace(existing Node, incoming NodeType) bool {
	return existing.Type() == NodeTypeItem || existing.Type() == incoming
}

// add inserts node at p, which must be absolute and normalized. The node is
// renamed to the last segment of p. With createParents missing intermediate
// directories are created.
func (t *tree) add(p vpath.Path, node Node, overwrite, createParents bool) (Node, error) {
	if p.IsRoot() {
		return nil, errors.New(errors.ErrIllegalStructuralEdit, "cannot add the root")
	}
	name := p.Name()
	if err := t.cfg.ValidateName(name); err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidArgument, "invalid node name").WithPath(t.fmt(p))
	}
	if err := t.validateChildren(node, p); err != nil {
		return nil, err
	}
	if node.IsOwned() {
		node = node.cloneNode()
	}
	node.meta().name = name

	opts := walkOptions{followLinks: true, throwOnMissing: true}
	if createParents {
		opts.onMissing = t.createMissing
	}
	parentCtx, err := t.walkToTarget(p.Dir(), opts)
	if err != nil {
		return nil, err
	}
	parent, ok := parentCtx.Node.(*Directory)
	if !ok {
		return nil, t.wrongKind(p.Dir(), NodeTypeDirectory, parentCtx.Node.Type())
	}
	parentPath := parentCtx.ResolvedPath

	if existing, ok := parent.Get(name); ok {
		if !overwrite {
			return nil, errors.New(errors.ErrAlreadyExists, "node already exists").WithPath(t.fmt(p))
		}
		if !canReplace(existing, node.Type()) {
			return nil, errors.Newf(errors.ErrWrongKind, "cannot replace %s with %s", existing.Type(), node.Type()).WithPath(t.fmt(p))
		}
		t.detach(parent, existing, parentPath.Join(name))
	}

	attached := t.attach(parent, parentPath, node)
	t.refreshAllLinkTypes()
	return attached, nil
}

// addDirectory creates an empty directory at p. With createParents it acts
// like mkdir -p and an existing directory at p is not an error.
func (t *tree) addDirectory(p vpath.Path, createParents bool) (*Directory, error) {
	if createParents {
		ctx, err := t.lookup(p, true, false)
		if err == nil && ctx.Found() {
			if dir, ok := ctx.Node.(*Directory); ok {
				return dir, nil
			}
		}
	}
	n, err := t.add(p, NewDirectory(p.Name()), false, createParents)
	if err != nil {
		return nil, err
	}
	return n.(*Directory), nil
}

// generateName returns the first "<prefix><n>" free in dir, n counting from 1.
func (t *tree) generateName(dir *Directory, kind NodeType) (string, error) {
	var prefix string
	switch kind {
	case NodeTypeDirectory:
		prefix = t.cfg.DirectoryPrefix
	case NodeTypeItem:
		prefix = t.cfg.ItemPrefix
	case NodeTypeSymbolicLink:
		prefix = t.cfg.SymbolicLinkPrefix
	default:
		return "", errors.Newf(errors.ErrInvalidArgument, "cannot name a node of kind %s", kind)
	}
	for n := 1; ; n++ {
		name := prefix + strconv.Itoa(n)
		if !dir.Has(name) {
			return name, nil
		}
	}
}

// validateChildren checks the names below a detached directory.
func (t *tree) validateChildren(n Node, p vpath.Path) error {
	d, ok := n.(*Directory)
	if !ok {
		return nil
	}
	for _, child := range d.Nodes() {
		at := p.Join(child.Name())
		if err := t.cfg.ValidateName(child.Name()); err != nil {
			return errors.Wrap(err, errors.ErrInvalidArgument, "invalid node name").WithPath(t.fmt(at))
		}
		if err := t.validateChildren(child, at); err != nil {
			return err
		}
	}
	return nil
}
