package filesystem

import (
	"github.com/brettbedarf/vtree/config"
	"github.com/brettbedarf/vtree/errors"
	"github.com/brettbedarf/vtree/internal/util"
	"github.com/brettbedarf/vtree/matchers"
	"github.com/brettbedarf/vtree/vpath"
)

// tree is the path-addressed engine behind [Storage]. It works on absolute
// normalized paths only and knows nothing about payload types.
type tree struct {
	cfg        *config.Config
	syntax     vpath.Syntax
	root       *Directory
	links      *linkRegistry
	matcher    matchers.Matcher
	viewFilter NodeTypeFilter
}

func newTree(cfg *config.Config) (*tree, error) {
	m, err := matchers.Builtins().Get(cfg.Matcher)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidArgument, "unknown matcher").WithPath(cfg.Matcher)
	}
	filter, err := parseViewFilter(cfg.View.Filter)
	if err != nil {
		return nil, err
	}
	for _, key := range cfg.View.SortBy {
		switch key.Field {
		case config.SortByName, config.SortByCreated, config.SortByUpdated:
		default:
			return nil, errors.Newf(errors.ErrInvalidArgument, "unknown sort field %q", key.Field)
		}
	}

	sx := cfg.Syntax()
	root := NewDirectory(sx.Separator)
	root.owned = true
	return &tree{
		cfg:        cfg,
		syntax:     sx,
		root:       root,
		links:      newLinkRegistry(),
		matcher:    m,
		viewFilter: filter,
	}, nil
}

func parseViewFilter(kinds []string) (NodeTypeFilter, error) {
	if len(kinds) == 0 {
		return FilterAll, nil
	}
	var f NodeTypeFilter
	for _, kind := range kinds {
		t, err := ParseNodeType(kind)
		if err != nil {
			return FilterNone, err
		}
		f |= FilterOf(t)
	}
	return f, nil
}

// fmt renders p with the configured syntax.
func (t *tree) fmt(p vpath.Path) string {
	return p.Format(t.syntax)
}

func (t *tree) notFound(p vpath.Path) *errors.TreeError {
	return errors.New(errors.ErrNotFound, "node not found").WithPath(t.fmt(p))
}

func (t *tree) wrongKind(p vpath.Path, want NodeType, got NodeType) *errors.TreeError {
	return errors.Newf(errors.ErrWrongKind, "expected %s, found %s", want, got).WithPath(t.fmt(p))
}

// linkTarget returns the absolute normalized target of link, which lives at
// linkPath.
func (t *tree) linkTarget(link *SymbolicLink, linkPath vpath.Path) (vpath.Path, error) {
	target, ok := link.Target()
	if !ok {
		return vpath.Path{}, errors.New(errors.ErrNotFound, "symbolic link has no target").WithPath(t.fmt(linkPath))
	}
	abs, err := vpath.Combine(linkPath.Dir(), target)
	if err != nil {
		return vpath.Path{}, errors.Wrap(err, errors.ErrInvalidArgument, "invalid symbolic link target").WithPath(t.fmt(linkPath))
	}
	return abs, nil
}

// storedTarget expresses newTarget in the form the link already uses:
// relative to the new link directory for relative targets, absolute
// otherwise.
func (t *tree) storedTarget(link *SymbolicLink, newTarget, newLinkPath vpath.Path) vpath.Path {
	old, _ := link.Target()
	if old.IsAbsolute() {
		return newTarget
	}
	base := newLinkPath.Dir()
	rel, err := vpath.Rel(newTarget, base)
	if err != nil {
		return newTarget
	}
	if rel.IsAbsolute() {
		// no common prefix: climb to the root and descend again
		segs := make([]string, 0, base.Len()+newTarget.Len())
		for range base.Len() {
			segs = append(segs, "..")
		}
		rel = vpath.New(false, append(segs, newTarget.Segments()...)...)
	}
	if rel.IsEmpty() {
		// a link to its own directory
		return vpath.New(false, ".")
	}
	return rel
}

// attach inserts node into parent, which lives at parentPath. An owned node
// is cloned first. Links in the inserted subtree are registered.
func (t *tree) attach(parent *Directory, parentPath vpath.Path, node Node) Node {
	if node.IsOwned() {
		node = node.cloneNode()
	}
	parent.addChild(node)
	parent.touch()
	setOwned(node, true)
	forEachLink(node, parentPath.Join(node.Name()), func(link *SymbolicLink, at vpath.Path) {
		t.registerLink(link, at)
	})
	return node
}

// detach removes node, living at p, from parent. Its links leave the
// registry and its payloads are disposed. A node no longer held by parent is
// left alone.
func (t *tree) detach(parent *Directory, node Node, p vpath.Path) {
	if cur, ok := parent.Get(node.Name()); !ok || cur != node {
		return
	}
	logger := util.GetLogger("Tree.detach")

	parent.removeChild(node.Name())
	parent.touch()
	forEachLink(node, p, func(_ *SymbolicLink, at vpath.Path) {
		t.links.unregisterLink(at)
	})
	for _, err := range disposeSubtree(node) {
		logger.Warn().Err(err).Str("path", t.fmt(p)).Msg("Failed to dispose payload")
	}
	setOwned(node, false)
}

// createMissing is the mkdir -p hook for walkToTarget.
func (t *tree) createMissing(parent *Directory, name string, soFar vpath.Path) (bool, error) {
	if err := t.cfg.ValidateName(name); err != nil {
		return false, err
	}
	logger := util.GetLogger("Tree.createMissing")
	logger.Trace().Str("path", t.fmt(soFar)).Msg("Creating intermediate directory")
	dir := NewDirectory(name)
	parent.addChild(dir)
	parent.touch()
	setOwned(dir, true)
	return true, nil
}
