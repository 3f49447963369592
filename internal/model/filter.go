package model

import "strings"

// FilterItems narrows an already-fetched item list by a free-text query and a
// category. Filtering happens in memory, not in the store, so the fetched
// ordering is preserved. An empty query matches everything; an empty category
// matches all categories.
func FilterItems(items []Item, query, category string) []Item {
	if query == "" && category == "" {
		return items
	}

	q := strings.ToLower(strings.TrimSpace(query))
	var out []Item
	for _, item := range items {
		if category != "" && item.Category != category {
			continue
		}
		if q != "" && !matchesQuery(item, q) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// matchesQuery reports whether the lowercased query is a substring of the
// item's title, description, or location.
func matchesQuery(item Item, q string) bool {
	return strings.Contains(strings.ToLower(item.Title), q) ||
		strings.Contains(strings.ToLower(item.Description), q) ||
		strings.Contains(strings.ToLower(item.Location), q)
}
