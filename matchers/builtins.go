package matchers

type BuiltInMatcherType = string

const (
	GlobMatcherType BuiltInMatcherType = "glob"
	PathMatcherType BuiltInMatcherType = "path"
)

// RegisterBuiltins registers all built-in matchers by default
// or only the specific ones if keys are provided
func RegisterBuiltins(r *Registry, matchers ...BuiltInMatcherType) {
	if len(matchers) == 0 {
		// Include all built-in matchers here when adding implementations
		matchers = append(matchers, GlobMatcherType, PathMatcherType)
	}

	for _, key := range matchers {
		switch key {
		case GlobMatcherType:
			r.Register(GlobMatcherType, NewGlobMatcher())
		case PathMatcherType:
			r.Register(PathMatcherType, PathMatcher{})
		}
	}
}

var builtins = func() *Registry {
	r := NewRegistry()
	RegisterBuiltins(r)
	return r
}()

// Builtins returns a shared registry holding every built-in matcher.
func Builtins() *Registry {
	return builtins
}
