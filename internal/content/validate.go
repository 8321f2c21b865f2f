package content

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError lists every problem found in a content document.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid content: " + e.Problems[0]
	}
	return fmt.Sprintf("invalid content (%d problems):\n  - %s",
		len(e.Problems), strings.Join(e.Problems, "\n  - "))
}

// Validate checks the invariants the pages rely on: every list is
// non-empty and every categorised record carries a category.
func (c *Content) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if strings.TrimSpace(c.Site.Name) == "" {
		add("site.name is required")
	}

	for name, n := range map[string]int{
		"packages":            len(c.Packages),
		"projects":            len(c.Projects),
		"team":                len(c.Team),
		"services":            len(c.Services),
		"faqs":                len(c.FAQs),
		"cities":              len(c.Cities),
		"quote.project_types": len(c.Quote.ProjectTypes),
		"quote.budgets":       len(c.Quote.Budgets),
		"quote.timelines":     len(c.Quote.Timelines),
	} {
		if n == 0 {
			add("%s must not be empty", name)
		}
	}

	for i, p := range c.Packages {
		if p.Name == "" {
			add("packages[%d]: name is required", i)
		}
		if p.Category == "" {
			add("packages[%d] %q: category is required", i, p.Name)
		}
		if p.Price <= 0 {
			add("packages[%d] %q: price must be positive", i, p.Name)
		}
	}

	projectSlugs := make(map[string]bool)
	for i, p := range c.Projects {
		if p.Title == "" {
			add("projects[%d]: title is required", i)
		}
		if p.Category == "" {
			add("projects[%d] %q: category is required", i, p.Title)
		}
		if p.Slug == "" {
			add("projects[%d] %q: slug is required", i, p.Title)
		} else if projectSlugs[p.Slug] {
			add("projects[%d]: duplicate slug %q", i, p.Slug)
		}
		projectSlugs[p.Slug] = true
	}

	citySlugs := make(map[string]bool)
	for i, city := range c.Cities {
		if city.Slug == "" || city.Name == "" {
			add("cities[%d]: slug and name are required", i)
			continue
		}
		if citySlugs[city.Slug] {
			add("cities[%d]: duplicate slug %q", i, city.Slug)
		}
		citySlugs[city.Slug] = true
	}

	if len(problems) > 0 {
		// map iteration above is unordered; keep messages stable
		sort.Strings(problems)
		return &ValidationError{Problems: problems}
	}
	return nil
}
