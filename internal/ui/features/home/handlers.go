package home

import (
	"cmp"
	"net/http"
	"slices"

	"github.com/lmstudios/lmsite/internal/content"
	"github.com/lmstudios/lmsite/internal/ui/features"
	"github.com/lmstudios/lmsite/internal/ui/features/common"
	"github.com/lmstudios/lmsite/internal/ui/views"
)

// featuredCount is how many projects the home page shows.
const featuredCount = 3

// Handlers provides HTTP handlers for the brochure pages.
type Handlers struct {
	deps features.Deps
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps features.Deps) *Handlers {
	return &Handlers{deps: deps}
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, page string, meta views.PageMeta, body any) {
	common.Render(w, r, views.Render(page, common.NewPage(h.deps, r, meta, body)))
}

// HomePage renders the landing page.
func (h *Handlers) HomePage(w http.ResponseWriter, r *http.Request) {
	c := h.deps.Content.Get()
	h.render(w, r, views.PageHome, views.PageMeta{
		Title:       c.Site.Name + " | Web design in Gauteng and Limpopo",
		Description: c.Site.Tagline,
	}, views.HomeBody{
		Services: c.Services,
		Featured: Featured(c, featuredCount),
		Packages: popularFirst(c.Packages),
		Team:     c.Team,
		FAQs:     c.FAQs,
	})
}

// AboutPage renders the about page.
func (h *Handlers) AboutPage(w http.ResponseWriter, r *http.Request) {
	c := h.deps.Content.Get()
	h.render(w, r, views.PageAbout, views.PageMeta{
		Title:       "About us",
		Description: "Meet the team behind " + c.Site.Name + " and how we work.",
	}, views.AboutBody{Team: c.Team, Services: c.Services})
}

// ServicesPage renders the services page.
func (h *Handlers) ServicesPage(w http.ResponseWriter, r *http.Request) {
	c := h.deps.Content.Get()
	h.render(w, r, views.PageServices, views.PageMeta{
		Title:       "Services",
		Description: "Web design, online stores, web apps and website care plans.",
	}, views.ServicesBody{Services: c.Services, Packages: c.Packages})
}

// TeamPage renders the team page.
func (h *Handlers) TeamPage(w http.ResponseWriter, r *http.Request) {
	c := h.deps.Content.Get()
	h.render(w, r, views.PageTeam, views.PageMeta{
		Title:       "Our team",
		Description: "The designers and developers at " + c.Site.Name + ".",
	}, views.TeamBody{Team: c.Team})
}

// FAQPage renders the FAQ page.
func (h *Handlers) FAQPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, views.PageFAQ, views.PageMeta{
		Title:       "Frequently asked questions",
		Description: "Answers about pricing, timelines, hosting and support.",
	}, views.FAQBody{FAQs: h.deps.Content.Get().FAQs})
}

// Health reports liveness.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// Featured returns up to n projects, most recent year first, keeping
// source order among equal years.
func Featured(c *content.Content, n int) []content.Project {
	projects := make([]content.Project, len(c.Projects))
	copy(projects, c.Projects)
	slices.SortStableFunc(projects, func(a, b content.Project) int {
		return cmp.Compare(b.Year, a.Year)
	})
	if len(projects) > n {
		projects = projects[:n]
	}
	return projects
}

// popularFirst moves popular packages to the front, keeping order otherwise.
func popularFirst(pkgs []content.Package) []content.Package {
	out := make([]content.Package, 0, len(pkgs))
	for _, p := range pkgs {
		if p.Popular {
			out = append(out, p)
		}
	}
	for _, p := range pkgs {
		if !p.Popular {
			out = append(out, p)
		}
	}
	return out
}
