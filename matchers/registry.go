// Package matchers provides the wildcard strategies used to expand path
// patterns. The namespace never matches names itself; it asks the
// [Matcher] selected by configuration.
package matchers

import (
	"fmt"

	"github.com/puzpuzpuz/xsync/v4"
)

// Matcher decides whether a single node name matches a single pattern
// segment. Implementations must be safe for concurrent use.
type Matcher interface {
	// Match reports whether name matches pattern
	Match(name, pattern string) bool
	// HasWildcard reports whether segment contains any wildcard token
	HasWildcard(segment string) bool
	// Wildcards returns the matcher's wildcard token set
	Wildcards() []string
}

// Registry maps matcher names to implementations.
type Registry struct {
	matchers *xsync.Map[string, Matcher]
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{matchers: xsync.NewMap[string, Matcher]()}
}

// Register ties a matcher to a name. The first registration of a name wins.
func (r *Registry) Register(name string, m Matcher) {
	r.matchers.LoadOrStore(name, m)
}

// Get returns the matcher registered under name.
func (r *Registry) Get(name string) (Matcher, error) {
	m, ok := r.matchers.Load(name)
	if !ok {
		return nil, fmt.Errorf("no matcher registered as %q", name)
	}
	return m, nil
}

// Names returns the registered matcher names in no particular order.
func (r *Registry) Names() []string {
	names := make([]string, 0, r.matchers.Size())
	r.matchers.Range(func(name string, _ Matcher) bool {
		names = append(names, name)
		return true
	})
	return names
}
