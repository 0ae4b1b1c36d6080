package filesystem

import (
	"slices"
	"strings"

	"github.com/brettbedarf/vtree/internal/util"
	"github.com/brettbedarf/vtree/vpath"
)

// linkRegistry is the reverse index from absolute link targets to the paths
// of the links pointing there. A link path belongs to at most one target.
type linkRegistry struct {
	byTarget map[string]*linkSet
	byLink   map[string]string // link key -> target key
}

type linkSet struct {
	target vpath.Path
	links  map[string]vpath.Path
}

func newLinkRegistry() *linkRegistry {
	return &linkRegistry{
		byTarget: make(map[string]*linkSet),
		byLink:   make(map[string]string),
	}
}

// register records that the link at link points at target, dropping any
// previous target of that link.
func (r *linkRegistry) register(target, link vpath.Path) {
	r.unregisterLink(link)
	tk := target.Key()
	set, ok := r.byTarget[tk]
	if !ok {
		set = &linkSet{target: target, links: make(map[string]vpath.Path)}
		r.byTarget[tk] = set
	}
	set.links[link.Key()] = link
	r.byLink[link.Key()] = tk
}

// unregister removes link from the set of target. Empty sets are pruned.
func (r *linkRegistry) unregister(target, link vpath.Path) bool {
	tk := target.Key()
	set, ok := r.byTarget[tk]
	if !ok {
		return false
	}
	lk := link.Key()
	if _, ok := set.links[lk]; !ok {
		return false
	}
	delete(set.links, lk)
	delete(r.byLink, lk)
	if len(set.links) == 0 {
		delete(r.byTarget, tk)
	}
	return true
}

// unregisterLink removes link from whatever set holds it.
func (r *linkRegistry) unregisterLink(link vpath.Path) (vpath.Path, bool) {
	tk, ok := r.byLink[link.Key()]
	if !ok {
		return vpath.Path{}, false
	}
	target := r.byTarget[tk].target
	r.unregister(target, link)
	return target, true
}

// lookup returns the links pointing at target, sorted.
func (r *linkRegistry) lookup(target vpath.Path) []vpath.Path {
	set, ok := r.byTarget[target.Key()]
	if !ok {
		return nil
	}
	return sortedPaths(set.links)
}

// targets returns every registered target, sorted.
func (r *linkRegistry) targets() []vpath.Path {
	out := make([]vpath.Path, 0, len(r.byTarget))
	for _, set := range r.byTarget {
		out = append(out, set.target)
	}
	slices.SortFunc(out, comparePaths)
	return out
}

// targetsUnder returns the registered targets at or below prefix.
func (r *linkRegistry) targetsUnder(prefix vpath.Path) []vpath.Path {
	var out []vpath.Path
	for _, set := range r.byTarget {
		if set.target.HasPrefix(prefix) {
			out = append(out, set.target)
		}
	}
	slices.SortFunc(out, comparePaths)
	return out
}

// snapshot renders the registry with sx for inspection.
func (r *linkRegistry) snapshot(sx vpath.Syntax) map[string][]string {
	out := make(map[string][]string, len(r.byTarget))
	for _, set := range r.byTarget {
		links := make([]string, 0, len(set.links))
		for _, p := range sortedPaths(set.links) {
			links = append(links, p.Format(sx))
		}
		out[set.target.Format(sx)] = links
	}
	return out
}

func sortedPaths(m map[string]vpath.Path) []vpath.Path {
	out := make([]vpath.Path, 0, len(m))
	for _, p := range m {
		out = append(out, p)
	}
	slices.SortFunc(out, comparePaths)
	return out
}

func comparePaths(a, b vpath.Path) int {
	return strings.Compare(a.Key(), b.Key())
}

// registerLink indexes link, living at at, under its absolute target.
// Links without a target or with a target above the root are not indexed.
func (t *tree) registerLink(link *SymbolicLink, at vpath.Path) {
	if !link.HasTarget() {
		t.links.unregisterLink(at)
		return
	}
	target, err := t.linkTarget(link, at)
	if err != nil {
		logger := util.GetLogger("Tree.registerLink")
		logger.Debug().Err(err).Str("link", t.fmt(at)).Msg("Symbolic link not indexed")
		t.links.unregisterLink(at)
		return
	}
	t.links.register(target, at)
}

// retargetLink points link, living at at, at newTarget and reindexes it.
func (t *tree) retargetLink(link *SymbolicLink, at vpath.Path, newTarget vpath.Path) {
	link.setTarget(newTarget)
	t.registerLink(link, at)
	t.refreshLinkType(link, at)
}

// refreshLinkType recomputes the cached target kind of one link.
func (t *tree) refreshLinkType(link *SymbolicLink, at vpath.Path) {
	link.targetType = NodeTypeNone
	if !link.HasTarget() {
		return
	}
	ctx, err := t.resolveLinkNode(link, at)
	if err != nil || !ctx.Found() {
		return
	}
	link.targetType = ctx.Node.Type()
}

// refreshLinkTypes recomputes the cached kinds of the links aimed at target.
func (t *tree) refreshLinkTypes(target vpath.Path) {
	for _, at := range t.links.lookup(target) {
		ctx, err := t.lookup(at, false, false)
		if err != nil || !ctx.Found() {
			continue
		}
		if link, ok := ctx.Node.(*SymbolicLink); ok {
			t.refreshLinkType(link, at)
		}
	}
}

// refreshAllLinkTypes recomputes every cached link target kind.
func (t *tree) refreshAllLinkTypes() {
	for _, target := range t.links.targets() {
		t.refreshLinkTypes(target)
	}
}
