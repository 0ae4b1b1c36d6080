package filesystem

import (
	"github.com/brettbedarf/vtree/config"
	"github.com/brettbedarf/vtree/errors"
	"github.com/brettbedarf/vtree/internal/util"
	"github.com/brettbedarf/vtree/matchers"
	"github.com/brettbedarf/vtree/vpath"
)

// Storage is an in-memory namespace of directories, items carrying payloads
// of type T and symbolic links.
//
// Paths are strings in the configured syntax. Relative paths resolve against
// the current directory, which starts at the root. A Storage is not safe for
// concurrent use.
type Storage[T any] struct {
	t   *tree
	cwd vpath.Path
}

// NewStorage creates an empty namespace. A nil cfg uses the defaults.
func NewStorage[T any](cfg *config.Config) (*Storage[T], error) {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	t, err := newTree(cfg)
	if err != nil {
		return nil, err
	}
	return &Storage[T]{t: t, cwd: vpath.Root()}, nil
}

// Config returns the configuration the storage was built with.
func (fs *Storage[T]) Config() *config.Config {
	return fs.t.cfg
}

// Root returns the root directory.
func (fs *Storage[T]) Root() *Directory {
	return fs.t.root
}

// SetMatcher replaces the wildcard matcher used by pattern walks.
func (fs *Storage[T]) SetMatcher(m matchers.Matcher) {
	fs.t.matcher = m
}

// abs parses p and resolves it against the current directory.
func (fs *Storage[T]) abs(p string) (vpath.Path, error) {
	if p == "" {
		return vpath.Path{}, errors.New(errors.ErrInvalidArgument, "path is empty")
	}
	out, err := vpath.Combine(fs.cwd, fs.t.syntax.Parse(p))
	if err != nil {
		return vpath.Path{}, errors.Wrap(err, errors.ErrInvalidArgument, "invalid path").WithPath(p)
	}
	return out, nil
}

func (fs *Storage[T]) format(p vpath.Path) string {
	return fs.t.fmt(p)
}

// CurrentPath returns the current directory.
func (fs *Storage[T]) CurrentPath() string {
	return fs.format(fs.cwd)
}

// ChangeDirectory moves the current directory cursor. The path must resolve
// to a directory; the cursor keeps the path as given, links included.
func (fs *Storage[T]) ChangeDirectory(path string) error {
	logger := util.GetLogger("Storage.ChangeDirectory")
	p, err := fs.abs(path)
	if err != nil {
		return err
	}
	ctx, err := fs.t.lookup(p, true, true)
	if err != nil {
		logger.Debug().Err(err).Str("path", path).Msg("Failed to change directory")
		return err
	}
	if ctx.Type() != NodeTypeDirectory {
		return fs.t.wrongKind(p, NodeTypeDirectory, ctx.Type())
	}
	fs.cwd = p
	logger.Trace().Str("path", fs.format(p)).Msg("Changed directory")
	return nil
}

// ConvertToAbsolute resolves path against base, or against the current
// directory when base is empty. The result is normalized.
func (fs *Storage[T]) ConvertToAbsolute(path, base string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidArgument, "path is empty")
	}
	b := fs.cwd
	if base != "" {
		b = fs.t.syntax.Parse(base)
		if !b.IsAbsolute() {
			return "", errors.New(errors.ErrInvalidArgument, "base path is not absolute").WithPath(base)
		}
	}
	p, err := vpath.Combine(b, fs.t.syntax.Parse(path))
	if err != nil {
		return "", err
	}
	return fs.format(p), nil
}

// Resolve returns the traversal context of path. followLinks decides whether
// a link at the last segment is replaced by its target; links on the way are
// always followed.
func (fs *Storage[T]) Resolve(path string, followLinks bool) (*NodeContext, error) {
	p, err := fs.abs(path)
	if err != nil {
		return nil, err
	}
	return fs.t.lookup(p, followLinks, true)
}

// ResolvePath returns the physical path of path with every link replaced by
// its target.
func (fs *Storage[T]) ResolvePath(path string) (string, error) {
	ctx, err := fs.Resolve(path, true)
	if err != nil {
		return "", err
	}
	return fs.format(ctx.ResolvedPath), nil
}

func (fs *Storage[T]) exists(path string, followLinks bool, kind NodeType) bool {
	p, err := fs.abs(path)
	if err != nil {
		return false
	}
	ctx, err := fs.t.lookup(p, followLinks, false)
	if err != nil || !ctx.Found() {
		return false
	}
	return kind == NodeTypeNone || ctx.Node.Type() == kind
}

func (fs *Storage[T]) NodeExists(path string, followLinks bool) bool {
	return fs.exists(path, followLinks, NodeTypeNone)
}

func (fs *Storage[T]) DirectoryExists(path string, followLinks bool) bool {
	return fs.exists(path, followLinks, NodeTypeDirectory)
}

func (fs *Storage[T]) ItemExists(path string, followLinks bool) bool {
	return fs.exists(path, followLinks, NodeTypeItem)
}

// SymbolicLinkExists reports whether path names a link. Links on the way are
// always followed. Following the last one as well means it is never reported.
func (fs *Storage[T]) SymbolicLinkExists(path string, followLinks bool) bool {
	return fs.exists(path, followLinks, NodeTypeSymbolicLink)
}

// GetNode returns the node at path.
func (fs *Storage[T]) GetNode(path string, followLinks bool) (Node, error) {
	ctx, err := fs.Resolve(path, followLinks)
	if err != nil {
		return nil, err
	}
	return ctx.Node, nil
}

func (fs *Storage[T]) GetDirectory(path string, followLinks bool) (*Directory, error) {
	ctx, err := fs.Resolve(path, followLinks)
	if err != nil {
		return nil, err
	}
	dir, ok := ctx.Node.(*Directory)
	if !ok {
		return nil, fs.t.wrongKind(ctx.TraversalPath, NodeTypeDirectory, ctx.Node.Type())
	}
	return dir, nil
}

func (fs *Storage[T]) GetItem(path string, followLinks bool) (*Item[T], error) {
	ctx, err := fs.Resolve(path, followLinks)
	if err != nil {
		return nil, err
	}
	item, ok := ctx.Node.(*Item[T])
	if !ok {
		return nil, fs.t.wrongKind(ctx.TraversalPath, NodeTypeItem, ctx.Node.Type())
	}
	return item, nil
}

// GetSymbolicLink returns the link at path itself, never its target.
func (fs *Storage[T]) GetSymbolicLink(path string) (*SymbolicLink, error) {
	ctx, err := fs.Resolve(path, false)
	if err != nil {
		return nil, err
	}
	link, ok := ctx.Node.(*SymbolicLink)
	if !ok {
		return nil, fs.t.wrongKind(ctx.TraversalPath, NodeTypeSymbolicLink, ctx.Node.Type())
	}
	return link, nil
}

// tryGet downgrades a NOT_FOUND error to a zero result.
func tryGet[N any](n N, err error) (N, error) {
	if errors.IsErrorCode(err, errors.ErrNotFound) {
		var zero N
		return zero, nil
	}
	return n, err
}

// TryGetNode is GetNode returning nil instead of a NOT_FOUND error.
func (fs *Storage[T]) TryGetNode(path string, followLinks bool) (Node, error) {
	return tryGet(fs.GetNode(path, followLinks))
}

func (fs *Storage[T]) TryGetDirectory(path string, followLinks bool) (*Directory, error) {
	return tryGet(fs.GetDirectory(path, followLinks))
}

func (fs *Storage[T]) TryGetItem(path string, followLinks bool) (*Item[T], error) {
	return tryGet(fs.GetItem(path, followLinks))
}

func (fs *Storage[T]) TryGetSymbolicLink(path string) (*SymbolicLink, error) {
	return tryGet(fs.GetSymbolicLink(path))
}

// Add inserts node at path under the name of the last segment. A node
// already attached somewhere is cloned.
func (fs *Storage[T]) Add(path string, node Node, overwrite bool) (Node, error) {
	logger := util.GetLogger("Storage.Add")
	p, err := fs.abs(path)
	if err != nil {
		return nil, err
	}
	n, err := fs.t.add(p, node, overwrite, false)
	if err != nil {
		logger.Debug().Err(err).Str("path", path).Msg("Failed to add node")
		return nil, err
	}
	logger.Debug().Str("path", fs.format(p)).Str("type", n.Type().String()).Msg("Added node")
	return n, nil
}

// AddDirectory creates a directory. With createSubdirectories missing
// parents are created and an existing directory is returned as is.
func (fs *Storage[T]) AddDirectory(path string, createSubdirectories bool) (*Directory, error) {
	logger := util.GetLogger("Storage.AddDirectory")
	p, err := fs.abs(path)
	if err != nil {
		return nil, err
	}
	dir, err := fs.t.addDirectory(p, createSubdirectories)
	if err != nil {
		logger.Debug().Err(err).Str("path", path).Msg("Failed to add directory")
		return nil, err
	}
	logger.Debug().Str("path", fs.format(p)).Msg("Added directory")
	return dir, nil
}

func (fs *Storage[T]) AddItem(path string, payload T, overwrite bool) (*Item[T], error) {
	logger := util.GetLogger("Storage.AddItem")
	p, err := fs.abs(path)
	if err != nil {
		return nil, err
	}
	n, err := fs.t.add(p, NewItem(p.Name(), payload), overwrite, false)
	if err != nil {
		logger.Debug().Err(err).Str("path", path).Msg("Failed to add item")
		return nil, err
	}
	logger.Debug().Str("path", fs.format(p)).Msg("Added item")
	return n.(*Item[T]), nil
}

// AddSymbolicLink creates a link at path pointing at target. A relative
// target is kept relative to the link's directory. An empty target creates
// a link without a target.
func (fs *Storage[T]) AddSymbolicLink(path, target string, overwrite bool) (*SymbolicLink, error) {
	logger := util.GetLogger("Storage.AddSymbolicLink")
	p, err := fs.abs(path)
	if err != nil {
		return nil, err
	}
	n, err := fs.t.add(p, NewSymbolicLink(p.Name(), fs.t.syntax.Parse(target)), overwrite, false)
	if err != nil {
		logger.Debug().Err(err).Str("path", path).Str("target", target).Msg("Failed to add symbolic link")
		return nil, err
	}
	logger.Debug().Str("path", fs.format(p)).Str("target", target).Msg("Added symbolic link")
	return n.(*SymbolicLink), nil
}

// Update applies node onto the existing node of the same kind at path:
// directories merge children, items take the payload, links the target.
func (fs *Storage[T]) Update(path string, node Node) error {
	logger := util.GetLogger("Storage.Update")
	p, err := fs.abs(path)
	if err != nil {
		return err
	}
	if err := fs.t.update(p, node); err != nil {
		logger.Debug().Err(err).Str("path", path).Msg("Failed to update node")
		return err
	}
	logger.Debug().Str("path", fs.format(p)).Msg("Updated node")
	return nil
}

// SetNode updates the node at path, replaces it when the kind differs, or
// adds it with any missing parents.
func (fs *Storage[T]) SetNode(path string, node Node) error {
	logger := util.GetLogger("Storage.SetNode")
	p, err := fs.abs(path)
	if err != nil {
		return err
	}
	if err := fs.t.setNode(p, node); err != nil {
		logger.Debug().Err(err).Str("path", path).Msg("Failed to set node")
		return err
	}
	logger.Debug().Str("path", fs.format(p)).Msg("Set node")
	return nil
}

// RetargetLink points the link at path at a new target.
func (fs *Storage[T]) RetargetLink(path, target string) error {
	return fs.Update(path, NewSymbolicLink("", fs.t.syntax.Parse(target)))
}

// Rename gives the node at path a new name within its directory.
// resolveLinks allows links on the way; a link at path is renamed itself.
func (fs *Storage[T]) Rename(path, newName string, resolveLinks bool) error {
	logger := util.GetLogger("Storage.Rename")
	p, err := fs.abs(path)
	if err != nil {
		return err
	}
	if err := fs.t.rename(p, newName, resolveLinks); err != nil {
		logger.Debug().Err(err).Str("path", path).Str("name", newName).Msg("Failed to rename node")
		return err
	}
	logger.Debug().Str("path", fs.format(p)).Str("name", newName).Msg("Renamed node")
	return nil
}

// Move relocates source to destination. resolveLinks moves the target of a
// link at source instead of the link.
func (fs *Storage[T]) Move(source, destination string, overwrite, resolveLinks bool) error {
	logger := util.GetLogger("Storage.Move")
	src, err := fs.abs(source)
	if err != nil {
		return err
	}
	dst, err := fs.abs(destination)
	if err != nil {
		return err
	}
	if err := fs.t.move(src, dst, overwrite, resolveLinks); err != nil {
		logger.Debug().Err(err).Str("source", source).Str("destination", destination).Msg("Failed to move node")
		return err
	}
	logger.Debug().Str("source", fs.format(src)).Str("destination", fs.format(dst)).Msg("Moved node")
	return nil
}

// Copy clones source to destination and returns the paths written.
// followLinks copies link targets instead of the links.
func (fs *Storage[T]) Copy(source, destination string, overwrite, recursive, followLinks bool) ([]string, error) {
	logger := util.GetLogger("Storage.Copy")
	src, err := fs.abs(source)
	if err != nil {
		return nil, err
	}
	dst, err := fs.abs(destination)
	if err != nil {
		return nil, err
	}
	copied, err := fs.t.copy(src, dst, overwrite, recursive, followLinks)
	out := fs.formatAll(copied)
	if err != nil {
		logger.Debug().Err(err).Str("source", source).Str("destination", destination).Int("copied", len(out)).Msg("Failed to copy node")
		return out, err
	}
	logger.Debug().Str("source", fs.format(src)).Str("destination", fs.format(dst)).Int("copied", len(out)).Msg("Copied node")
	return out, nil
}

// Remove deletes the node at path. A directory with children needs
// recursive. resolveLinks removes a link at path together with its target;
// followLinks does the same for links met during a recursive removal.
func (fs *Storage[T]) Remove(path string, recursive, followLinks, resolveLinks bool) error {
	logger := util.GetLogger("Storage.Remove")
	p, err := fs.abs(path)
	if err != nil {
		return err
	}
	if err := fs.t.remove(p, recursive, followLinks, resolveLinks); err != nil {
		logger.Debug().Err(err).Str("path", path).Msg("Failed to remove node")
		return err
	}
	logger.Debug().Str("path", fs.format(p)).Bool("recursive", recursive).Msg("Removed node")
	return nil
}

// GenerateName returns the first free auto name for a node of kind in the
// directory at path.
func (fs *Storage[T]) GenerateName(path string, kind NodeType) (string, error) {
	dir, err := fs.GetDirectory(path, true)
	if err != nil {
		return "", err
	}
	return fs.t.generateName(dir, kind)
}

// Links returns the paths of the links pointing at target.
func (fs *Storage[T]) Links(target string) ([]string, error) {
	p, err := fs.abs(target)
	if err != nil {
		return nil, err
	}
	return fs.formatAll(fs.t.links.lookup(p)), nil
}

// LinkIndex returns a copy of the link registry keyed by target path.
func (fs *Storage[T]) LinkIndex() map[string][]string {
	return fs.t.links.snapshot(fs.t.syntax)
}

func (fs *Storage[T]) formatAll(paths []vpath.Path) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, fs.format(p))
	}
	return out
}
