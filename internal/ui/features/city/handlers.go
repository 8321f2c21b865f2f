package city

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lmstudios/lmsite/internal/content"
	"github.com/lmstudios/lmsite/internal/ui/features"
	"github.com/lmstudios/lmsite/internal/ui/features/common"
	"github.com/lmstudios/lmsite/internal/ui/features/home"
	"github.com/lmstudios/lmsite/internal/ui/views"
)

// Handlers provides HTTP handlers for city landing pages.
type Handlers struct {
	deps     features.Deps
	notFound http.HandlerFunc
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps features.Deps) *Handlers {
	return &Handlers{deps: deps, notFound: common.NotFound(deps)}
}

// CityPage renders the landing page for the {city} slug.
func (h *Handlers) CityPage(w http.ResponseWriter, r *http.Request) {
	c := h.deps.Content.Get()

	city, ok := c.City(strings.ToLower(chi.URLParam(r, "city")))
	if !ok {
		h.notFound(w, r)
		return
	}

	common.Render(w, r, views.Render(views.PageCity, common.NewPage(h.deps, r, Meta(c, city), views.CityBody{
		City:     city,
		Services: c.Services,
		Featured: home.Featured(c, 3),
		Packages: c.Packages,
		FAQs:     c.FAQs,
	})))
}

// Meta builds the SEO metadata for a city page.
func Meta(c *content.Content, city content.City) views.PageMeta {
	description := city.MetaDescription
	if description == "" {
		description = "Affordable, professional web design for businesses in " + city.Name + " by " + c.Site.Name + "."
	}
	return views.PageMeta{
		Title:       "Web Design " + city.Name,
		Description: description,
	}
}
