// Package common provides the page shell, navigation and error pages
// shared by every feature.
package common

import "github.com/lmstudios/lmsite/internal/ui/views"

// navLinks is the fixed, enumerable set of top-level pages.
var navLinks = []views.NavItem{
	{Label: "Home", Path: "/"},
	{Label: "About", Path: "/about"},
	{Label: "Services", Path: "/services"},
	{Label: "Projects", Path: "/projects"},
	{Label: "Pricing", Path: "/pricing"},
	{Label: "Team", Path: "/team"},
	{Label: "FAQ", Path: "/faq"},
}

// Nav returns the navigation links with the one matching path marked active.
func Nav(path string) []views.NavItem {
	items := make([]views.NavItem, len(navLinks))
	copy(items, navLinks)
	for i := range items {
		items[i].Active = isActive(items[i].Path, path)
	}
	return items
}

func isActive(link, path string) bool {
	if link == "/" {
		return path == "/"
	}
	return path == link || len(path) > len(link) && path[:len(link)] == link && path[len(link)] == '/'
}
