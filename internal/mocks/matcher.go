package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockMatcher implements matchers.Matcher for testing across packages
type MockMatcher struct {
	mock.Mock
}

func (m *MockMatcher) Match(name, pattern string) bool {
	args := m.Called(name, pattern)

	// Handle function return types (for complex tests)
	if fn, ok := args.Get(0).(func(string, string) bool); ok {
		return fn(name, pattern)
	}
	return args.Bool(0)
}

func (m *MockMatcher) HasWildcard(segment string) bool {
	args := m.Called(segment)
	if fn, ok := args.Get(0).(func(string) bool); ok {
		return fn(segment)
	}
	return args.Bool(0)
}

func (m *MockMatcher) Wildcards() []string {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

// Disposable is an item payload recording whether it was closed
type Disposable struct {
	mock.Mock
	Value int
}

func (d *Disposable) Close() error {
	args := d.Called()
	return args.Error(0)
}
