package filesystem

import (
	"cmp"
	"slices"
	"strings"

	"github.com/brettbedarf/vtree/config"
)

// view returns the children of d as presented: filtered by the configured
// kinds, grouped by resolved kind and sorted by the configured keys.
func (t *tree) view(d *Directory) []Node {
	nodes := make([]Node, 0, d.Len())
	for _, n := range d.Nodes() {
		if t.viewFilter.Allows(n.Type()) {
			nodes = append(nodes, n)
		}
	}

	v := t.cfg.View
	if !v.GroupByType && len(v.SortBy) == 0 {
		return nodes
	}
	slices.SortStableFunc(nodes, func(a, b Node) int {
		if v.GroupByType {
			if c := cmp.Compare(resolvedType(a), resolvedType(b)); c != 0 {
				return c
			}
		}
		for _, key := range v.SortBy {
			var c int
			switch key.Field {
			case config.SortByName:
				c = strings.Compare(a.Name(), b.Name())
			case config.SortByCreated:
				c = a.CreatedAt().Compare(b.CreatedAt())
			case config.SortByUpdated:
				c = a.UpdatedAt().Compare(b.UpdatedAt())
			}
			if key.Descending {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
	return nodes
}
