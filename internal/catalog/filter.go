// Package catalog narrows content lists by category label.
package catalog

import (
	"strings"
)

// All is the pseudo-category that selects every item.
const All = "All"

// Categorized is implemented by records tagged with exactly one category.
type Categorized interface {
	CategoryLabel() string
}

// Filter returns the items whose category equals category, in source order.
// All (or an empty selection) returns a copy of the whole list. An unknown
// label yields an empty, non-nil slice.
func Filter[T Categorized](items []T, category string) []T {
	if category == "" || category == All {
		out := make([]T, len(items))
		copy(out, items)
		return out
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		if item.CategoryLabel() == category {
			out = append(out, item)
		}
	}
	return out
}

// Categories returns All followed by the distinct labels of items in
// first-appearance order.
func Categories[T Categorized](items []T) []string {
	labels := []string{All}
	seen := map[string]bool{All: true}
	for _, item := range items {
		label := item.CategoryLabel()
		if !seen[label] {
			seen[label] = true
			labels = append(labels, label)
		}
	}
	return labels
}

// Normalize maps user input (a label, its slug, or a case variant) onto
// one of labels. Anything unrecognised becomes All, so the active
// selection always stays within the enumerated set.
func Normalize(labels []string, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return All
	}
	want := Slug(raw)
	for _, label := range labels {
		if label == raw || Slug(label) == want {
			return label
		}
	}
	return All
}

// Slug lowercases a label and joins its words with hyphens:
// "Web Design" -> "web-design", "E-Commerce" -> "e-commerce".
func Slug(label string) string {
	fields := strings.FieldsFunc(strings.ToLower(label), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	return strings.Join(fields, "-")
}
