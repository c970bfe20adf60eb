// Package common holds small generic helpers shared across packages.
package common

// IsEmpty returns true if the slice is empty.
func IsEmpty[S ~[]E, E any](s S) bool {
	return len(s) == 0
}

// Take returns at most n leading elements of s. A negative n keeps all.
func Take[S ~[]E, E any](s S, n int) S {
	if n < 0 || n >= len(s) {
		return s
	}

	return s[:n]
}
