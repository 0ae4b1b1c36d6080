package util

// Pointer returns a pointer to a copy of v
func Pointer[T any](v T) *T {
	return &v
}

// ValueOr dereferences ptr, or returns def when ptr is nil.
func ValueOr[T any](ptr *T, def T) T {
	if ptr != nil {
		return *ptr
	}
	return def
}
