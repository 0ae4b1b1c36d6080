package matchers

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exactMatcher is a minimal Matcher for registry tests
type exactMatcher struct{ id int }

func (exactMatcher) Match(name, pattern string) bool { return name == pattern }
func (exactMatcher) HasWildcard(string) bool         { return false }
func (exactMatcher) Wildcards() []string             { return nil }

func TestRegister_SingleMatcher(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	m := exactMatcher{id: 1}

	r.Register("exact", m)
	got, err := r.Get("exact")

	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestRegister_MultipleMatchers(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	m1 := exactMatcher{id: 1}
	m2 := exactMatcher{id: 2}

	r.Register("test1", m1)
	r.Register("test2", m2)

	got1, err := r.Get("test1")
	require.NoError(t, err)
	assert.Equal(t, m1, got1)

	got2, err := r.Get("test2")
	require.NoError(t, err)
	assert.Equal(t, m2, got2)
	assert.ElementsMatch(t, []string{"test1", "test2"}, r.Names())
}

func TestRegister_DuplicateMatcher(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register("test", exactMatcher{id: 1})
	r.Register("test", exactMatcher{id: 2})

	got, err := r.Get("test")
	require.NoError(t, err)
	assert.Equal(t, exactMatcher{id: 1}, got, "first registration must win")
}

func TestRegister_Concurrent(t *testing.T) {
	t.Parallel()
	var wg sync.WaitGroup
	r := NewRegistry()

	for i := range 100 {
		wg.Go(func() {
			name := fmt.Sprintf("test%d", i)
			m := exactMatcher{id: i}
			r.Register(name, m)
			got, err := r.Get(name)
			require.NoError(t, err)
			assert.Equal(t, m, got)
			// Small delay to increase chance of race conditions
			time.Sleep(time.Microsecond)
		})
	}
	wg.Wait()
	assert.Len(t, r.Names(), 100)
}

func TestGet_NonExistentMatcher(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	_, err := r.Get("nonexistent")
	assert.Error(t, err)
}

func TestRegisterBuiltins(t *testing.T) {
	t.Parallel()

	t.Run("All", func(t *testing.T) {
		t.Parallel()
		r := NewRegistry()
		RegisterBuiltins(r)
		assert.ElementsMatch(t, []string{GlobMatcherType, PathMatcherType}, r.Names())
	})

	t.Run("Selected", func(t *testing.T) {
		t.Parallel()
		r := NewRegistry()
		RegisterBuiltins(r, PathMatcherType)
		assert.Equal(t, []string{PathMatcherType}, r.Names())
	})

	t.Run("Shared", func(t *testing.T) {
		t.Parallel()
		m, err := Builtins().Get(GlobMatcherType)
		require.NoError(t, err)
		assert.IsType(t, &GlobMatcher{}, m)
	})
}
