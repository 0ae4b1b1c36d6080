package filesystem

import "github.com/brettbedarf/vtree/vpath"

// WalkOptions selects what a walk enumerates.
type WalkOptions struct {
	Filter      NodeTypeFilter // zero means FilterAll
	Recursive   bool
	FollowLinks bool
	// ResolveBase follows a link at the base path itself.
	ResolveBase bool
}

func (o WalkOptions) internal() walkerOptions {
	filter := o.Filter
	if filter == FilterNone {
		filter = FilterAll
	}
	return walkerOptions{
		filter:      filter,
		recursive:   o.Recursive,
		followLinks: o.FollowLinks,
		resolveBase: o.ResolveBase,
	}
}

// Walk returns a lazy walker over path: the base node followed by its
// children, or all descendants when recursive. Paths in the contexts are
// relative to the base. Errors surface through the walker.
func (fs *Storage[T]) Walk(path string, opts WalkOptions) *Walker {
	p, err := fs.abs(path)
	if err != nil {
		return &Walker{done: true, err: err}
	}
	return fs.t.walk(p, opts.internal())
}

// ListNodes collects a walk of path.
func (fs *Storage[T]) ListNodes(path string, opts WalkOptions) ([]*NodeContext, error) {
	return fs.Walk(path, opts).Collect()
}

// ListPaths collects the absolute paths of a walk of path, as reached.
func (fs *Storage[T]) ListPaths(path string, opts WalkOptions) ([]string, error) {
	base, err := fs.abs(path)
	if err != nil {
		return nil, err
	}
	nodes, err := fs.t.walk(base, opts.internal()).Collect()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(nodes))
	for _, ctx := range nodes {
		out = append(out, fs.format(base.Append(ctx.TraversalPath)))
	}
	return out, nil
}

// ExpandPath returns the paths matching a wildcard pattern. The walk starts
// at the pattern's fixed prefix and only descends as deep as the pattern.
func (fs *Storage[T]) ExpandPath(pattern string, filter NodeTypeFilter, followLinks bool) ([]string, error) {
	p, err := fs.abs(pattern)
	if err != nil {
		return nil, err
	}
	prefix, rest := p.SplitFixed(fs.t.matcher.HasWildcard)
	if rest.IsEmpty() {
		if !fs.NodeExists(fs.format(p), followLinks) {
			return nil, nil
		}
	} else if !fs.DirectoryExists(fs.format(prefix), true) {
		return nil, nil
	}
	if filter == FilterNone {
		filter = FilterAll
	}
	patterns := rest.Segments()
	if patterns == nil {
		patterns = []string{}
	}
	nodes, err := fs.t.walk(prefix, walkerOptions{
		filter:      filter,
		followLinks: followLinks,
		resolveBase: followLinks || !rest.IsEmpty(),
		patterns:    patterns,
	}).Collect()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(nodes))
	for _, ctx := range nodes {
		out = append(out, fs.format(prefix.Append(ctx.TraversalPath)))
	}
	return out, nil
}

// Children returns the directory view of path: filtered, grouped and sorted
// as configured.
func (fs *Storage[T]) Children(path string, followLinks bool) ([]Node, error) {
	dir, err := fs.GetDirectory(path, followLinks)
	if err != nil {
		return nil, err
	}
	return fs.t.view(dir), nil
}

// TreePaths lists every path below the root, in walk order. Links are not
// followed.
func (fs *Storage[T]) TreePaths() ([]string, error) {
	return fs.ListPaths(fs.format(vpath.Root()), WalkOptions{Recursive: true})
}
