package domain

import (
	"fmt"
	"strings"
)

// SearchMode selects which collection the search box filters.
type SearchMode string

const (
	SearchProduct  SearchMode = "Product"
	SearchCategory SearchMode = "Category"
)

// SearchModes lists the modes in the order the navigation bar offers them.
var SearchModes = []SearchMode{SearchProduct, SearchCategory}

// ParseSearchMode accepts a mode name in any case. An empty string selects
// product search.
func ParseSearchMode(s string) (SearchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "product":
		return SearchProduct, nil
	case "category":
		return SearchCategory, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSearchMode, s)
	}
}

// SearchQuery is the state behind the search box.
type SearchQuery struct {
	Mode SearchMode
	Text string
}

// SearchEntry is one row of the result list. Route is where selecting it leads.
type SearchEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Route string `json:"route"`
}
