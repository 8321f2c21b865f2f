package views

import (
	"github.com/lmstudios/lmsite/internal/content"
	"github.com/lmstudios/lmsite/internal/state"
	"github.com/lmstudios/lmsite/internal/wizard"
)

// PageMeta is per-page SEO metadata.
type PageMeta struct {
	Title       string
	Description string
	Canonical   string
	Image       string
	NoIndex     bool
}

// NavItem is one link in the site header.
type NavItem struct {
	Label  string
	Path   string
	Active bool
}

// Page is the data passed to the layout.
type Page struct {
	Meta     PageMeta
	Site     content.Site
	Nav      []NavItem
	Cities   []content.City
	Path     string
	Template string
	IsDev    bool
	Year     int
	// Refresh, when positive, reloads Path after that many seconds.
	Refresh int
	Body    any
}

// HomeBody feeds the landing page.
type HomeBody struct {
	Services []content.Service
	Featured []content.Project
	Packages []content.Package
	Team     []content.TeamMember
	FAQs     []content.FAQ
}

// AboutBody feeds the about page.
type AboutBody struct {
	Team     []content.TeamMember
	Services []content.Service
}

// ServicesBody feeds the services page.
type ServicesBody struct {
	Services []content.Service
	Packages []content.Package
}

// TeamBody feeds the team page.
type TeamBody struct {
	Team []content.TeamMember
}

// FAQBody feeds the FAQ page.
type FAQBody struct {
	FAQs []content.FAQ
}

// CityBody feeds a city landing page.
type CityBody struct {
	City     content.City
	Services []content.Service
	Featured []content.Project
	Packages []content.Package
	FAQs     []content.FAQ
}

// FilterOption is one category button.
type FilterOption struct {
	Label  string
	Slug   string
	Active bool
}

// Filter is a category filter bar. Endpoint is the SSE URL that re-renders
// the grid; ID is the element ID the bar is patched into.
type Filter struct {
	ID       string
	Endpoint string
	Active   string
	Options  []FilterOption
}

// ProjectGrid is the filtered project list.
type ProjectGrid struct {
	Category string
	Projects []content.Project
}

// ProjectsBody feeds the portfolio page.
type ProjectsBody struct {
	Filter Filter
	Grid   ProjectGrid
}

// PackageGrid is the filtered package list.
type PackageGrid struct {
	Category string
	Packages []content.Package
}

// PricingBody feeds the pricing page.
type PricingBody struct {
	Filter Filter
	Grid   PackageGrid
}

// StepInfo describes one wizard step in the progress indicator.
type StepInfo struct {
	Number  int
	Title   string
	Current bool
	Done    bool
}

// QuoteBody feeds the quote wizard page.
type QuoteBody struct {
	Step         wizard.Step
	StepNumber   int
	Steps        []StepInfo
	Draft        wizard.Draft
	Problems     map[string]string
	Notice       string
	Options      content.QuoteOptions
	Packages     []content.Package
	Submitted    bool
	ResetSeconds int
	First        bool
	Last         bool
}

// QuoteTable is the admin list of stored quotes.
type QuoteTable struct {
	Quotes []*state.Quote
	Total  int
}

// AdminBody feeds the admin dashboard.
type AdminBody struct {
	Table QuoteTable
}

// NotFoundBody feeds the 404 page.
type NotFoundBody struct {
	Path string
}
