package matchers

import (
	"path"
	"strings"

	"github.com/gobwas/glob"
	"github.com/puzpuzpuz/xsync/v4"
)

var globWildcards = []string{"*", "?", "[", "{"}

// GlobMatcher matches with gobwas/glob syntax: "*", "?", "[a-z]", "[!a]"
// and "{alt1,alt2}". Compiled patterns are cached; a pattern that does not
// compile matches nothing.
type GlobMatcher struct {
	compiled *xsync.Map[string, glob.Glob]
}

func NewGlobMatcher() *GlobMatcher {
	return &GlobMatcher{compiled: xsync.NewMap[string, glob.Glob]()}
}

func (m *GlobMatcher) Match(name, pattern string) bool {
	g, ok := m.compiled.Load(pattern)
	if !ok {
		var err error
		if g, err = glob.Compile(pattern); err != nil {
			g = nil
		}
		m.compiled.Store(pattern, g)
	}
	if g == nil {
		return false
	}
	return g.Match(name)
}

func (m *GlobMatcher) HasWildcard(segment string) bool {
	return strings.ContainsAny(segment, "*?[{")
}

func (m *GlobMatcher) Wildcards() []string {
	return globWildcards
}

var pathWildcards = []string{"*", "?", "["}

// PathMatcher matches with the shell syntax of the standard path.Match.
type PathMatcher struct{}

func (PathMatcher) Match(name, pattern string) bool {
	ok, err := path.Match(pattern, name)
	return err == nil && ok
}

func (PathMatcher) HasWildcard(segment string) bool {
	return strings.ContainsAny(segment, "*?[")
}

func (PathMatcher) Wildcards() []string {
	return pathWildcards
}
