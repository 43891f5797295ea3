package filter

import (
	"strings"
)

// Predicate defines a function that returns true if the given item matches a query value.
type Predicate[T any] func(item T, query string) bool

// StringValueProvider extracts a single string value from an item of type T.
type StringValueProvider[T any] func(T) string

// StringValuesProvider extracts a slice of string values from an item of type T.
type StringValuesProvider[T any] func(T) []string

// NormalizeString can be used to normalize a string value for filtering/comparison.
// The value is made lowercase and has any leading and/or trailing whitespace removed.
func NormalizeString(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Equals returns a Predicate that checks if the value extracted by the provider
// exactly matches the query value (case-insensitive, normalized).
//
// Example:
//
// predicate := Equals(func(s registry.Server) string { return s.Name })
// result := predicate(server, "io.github.org/tool") // true if server.Name equals "io.github.org/tool" in any case
func Equals[T any](provider StringValueProvider[T]) Predicate[T] {
	return func(item T, query string) bool {
		return NormalizeString(provider(item)) == NormalizeString(query)
	}
}

// Partial returns a Predicate that checks if the value extracted by the provider
// contains the query value as a substring (case-insensitive, normalized).
// An empty query never matches.
func Partial[T any](provider StringValueProvider[T]) Predicate[T] {
	return func(item T, query string) bool {
		q := NormalizeString(query)
		if q == "" {
			return false
		}
		return strings.Contains(NormalizeString(provider(item)), q)
	}
}

// EqualsAny returns a Predicate that checks if *ANY* of the values extracted by the provider
// equal the query value (case-insensitive, normalized).
func EqualsAny[T any](provider StringValuesProvider[T]) Predicate[T] {
	return func(item T, query string) bool {
		q := NormalizeString(query)
		for _, v := range provider(item) {
			if NormalizeString(v) == q {
				return true
			}
		}
		return false
	}
}

// Or combines predicates, returning true when any of them matches.
func Or[T any](predicates ...Predicate[T]) Predicate[T] {
	return func(item T, query string) bool {
		for _, p := range predicates {
			if p(item, query) {
				return true
			}
		}
		return false
	}
}

// Filter returns the items matching the predicate for the query, preserving order.
func Filter[T any](items []T, query string, predicate Predicate[T]) []T {
	var matches []T
	for _, item := range items {
		if predicate(item, query) {
			matches = append(matches, item)
		}
	}
	return matches
}
