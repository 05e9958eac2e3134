package store

import "strings"

// Page selects a 1-based page of a fixed size. A non-positive size disables
// pagination.
type Page struct {
	Number int
	Size   int
}

// ViewSlice is one derived page of a filtered collection. It is recomputed
// from scratch on every read; nothing here is cached or kept in sync
// incrementally.
type ViewSlice[T any] struct {
	Items      []T
	Total      int // matches after filtering, across all pages
	Page       int // clamped to [1, TotalPages]
	TotalPages int
}

// DeriveView filters items with keep (nil keeps everything) and slices out
// the requested page. The input is never mutated.
func DeriveView[T any](items []T, keep func(T) bool, page Page) ViewSlice[T] {
	var filtered []T
	if keep == nil {
		filtered = append(filtered, items...)
	} else {
		for _, item := range items {
			if keep(item) {
				filtered = append(filtered, item)
			}
		}
	}

	total := len(filtered)
	if page.Size <= 0 {
		return ViewSlice[T]{Items: filtered, Total: total, Page: 1, TotalPages: 1}
	}

	totalPages := (total + page.Size - 1) / page.Size
	if totalPages < 1 {
		totalPages = 1
	}
	number := page.Number
	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	start := (number - 1) * page.Size
	end := start + page.Size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return ViewSlice[T]{
		Items:      filtered[start:end],
		Total:      total,
		Page:       number,
		TotalPages: totalPages,
	}
}

// MatchFold reports whether any field contains query, case-insensitively.
// An empty query matches everything.
func MatchFold(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
