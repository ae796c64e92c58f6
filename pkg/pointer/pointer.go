// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pointer helps with the optional fields of request payloads and
aggregates, where nil means "not supplied".

Key Functions:
  - To: Creates a pointer from a value literal.
  - Val: Dereferences, returning the zero value if nil.
  - Fallback: Dereferences, returning a fallback value if nil.
  - Coalesce: Picks the first non-nil pointer.
*/
package pointer

// To returns a pointer to the provided value (e.g. pointer.To("https://...")).
func To[T any](v T) *T {
	return &v
}

// Val dereferences p, or returns the zero value of T when p is nil.
func Val[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// Fallback dereferences p, or returns fallback when p is nil.
func Fallback[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}

// Coalesce returns the first non-nil pointer, or nil when all are nil.
func Coalesce[T any](pointers ...*T) *T {
	for _, p := range pointers {
		if p != nil {
			return p
		}
	}
	return nil
}
