package common

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/lmstudios/lmsite/internal/catalog"
	"github.com/lmstudios/lmsite/internal/ui/features"
	"github.com/lmstudios/lmsite/internal/ui/views"
)

// NewPage fills the layout fields shared by every page. Titles get the
// site name appended and the canonical URL defaults to base URL + path.
func NewPage(d features.Deps, r *http.Request, meta views.PageMeta, body any) views.Page {
	c := d.Content.Get()

	if meta.Title == "" {
		meta.Title = c.Site.Name
	} else if !strings.Contains(meta.Title, c.Site.Name) {
		meta.Title += " | " + c.Site.Name
	}
	if meta.Description == "" {
		meta.Description = c.Site.Tagline
	}
	if meta.Canonical == "" && c.Site.BaseURL != "" {
		meta.Canonical = strings.TrimRight(c.Site.BaseURL, "/") + r.URL.Path
	}

	return views.Page{
		Meta:   meta,
		Site:   c.Site,
		Nav:    Nav(r.URL.Path),
		Cities: c.Cities,
		Path:   r.URL.Path,
		IsDev:  d.IsDev,
		Year:   d.Clock().Year(),
		Body:   body,
	}
}

// Render writes a component with status 200.
func Render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	RenderStatus(w, r, http.StatusOK, c)
}

// RenderStatus buffers the component so a template error becomes a clean
// 500 instead of a half-written page.
func RenderStatus(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// NotFound renders the 404 page.
func NotFound(d features.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := NewPage(d, r, views.PageMeta{
			Title:       "Page not found",
			Description: "The page you were looking for does not exist.",
			NoIndex:     true,
		}, views.NotFoundBody{Path: r.URL.Path})
		page.Meta.Canonical = ""
		RenderStatus(w, r, http.StatusNotFound, views.Render(views.PageNotFound, page))
	}
}

// FilterSignals are the datastar signals sent by a category filter bar.
type FilterSignals struct {
	Category string `json:"category"`
}

// NewFilter builds a filter bar over labels with active selected.
func NewFilter(id, endpoint string, labels []string, active string) views.Filter {
	opts := make([]views.FilterOption, len(labels))
	for i, l := range labels {
		opts[i] = views.FilterOption{Label: l, Slug: catalog.Slug(l), Active: l == active}
	}
	return views.Filter{ID: id, Endpoint: endpoint, Active: active, Options: opts}
}
