// Package sets provides small helpers for the identifier sets that appear
// throughout the audit domain: exception lists, child-id lists, responsable
// lists. Order is always preserved; the store keeps insertion order and the
// API contract depends on it.
package sets

import "strings"

// Dedupe removes duplicate values from a slice, preserving first-seen order.
func Dedupe[T comparable](values []T) []T {
	if len(values) == 0 {
		return values
	}
	seen := make(map[T]struct{}, len(values))
	result := make([]T, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}

// Contains reports membership by value. Exception checks must compare ids
// by value, never by reference identity.
func Contains[T comparable](values []T, want T) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

// Remove returns values without any occurrence of unwanted, preserving order.
func Remove[T comparable](values []T, unwanted T) []T {
	result := make([]T, 0, len(values))
	for _, v := range values {
		if v != unwanted {
			result = append(result, v)
		}
	}
	return result
}

// NormalizeName lowercases and trims a name for case-insensitive uniqueness
// comparisons. All name/description uniqueness checks go through this so
// memory and postgres stores agree on what "equal" means.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
