package service

import "strings"

// FilterByName returns the items whose name contains query, ignoring case,
// in their original order. An empty query returns items unchanged.
func FilterByName[T any](items []T, query string, name func(T) string) []T {
	if query == "" {
		return items
	}
	needle := strings.ToLower(query)
	out := make([]T, 0, len(items))
	for _, it := range items {
		if strings.Contains(strings.ToLower(name(it)), needle) {
			out = append(out, it)
		}
	}
	return out
}
