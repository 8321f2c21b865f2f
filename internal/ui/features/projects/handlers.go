package projects

import (
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/lmstudios/lmsite/internal/catalog"
	"github.com/lmstudios/lmsite/internal/ui/features"
	"github.com/lmstudios/lmsite/internal/ui/features/common"
	"github.com/lmstudios/lmsite/internal/ui/views"
)

const (
	filterID       = "project-filter"
	filterEndpoint = "/projects/filter"
)

// Handlers provides HTTP handlers for the portfolio.
type Handlers struct {
	deps features.Deps
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps features.Deps) *Handlers {
	return &Handlers{deps: deps}
}

// ProjectsPage renders the gallery filtered by the ?category= query, so
// the page works without JavaScript.
func (h *Handlers) ProjectsPage(w http.ResponseWriter, r *http.Request) {
	filter, grid := h.build(r.URL.Query().Get("category"))

	page := common.NewPage(h.deps, r, views.PageMeta{
		Title:       "Our work",
		Description: "Websites, online stores and web apps built by " + h.deps.Content.Get().Site.Name + ".",
	}, views.ProjectsBody{Filter: filter, Grid: grid})

	common.Render(w, r, views.Render(views.PageProjects, page))
}

// FilterProjects re-renders the filter bar and grid for the category signal.
func (h *Handlers) FilterProjects(w http.ResponseWriter, r *http.Request) {
	var signals common.FilterSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(err)
		return
	}

	filter, grid := h.build(signals.Category)

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(views.Fragment("filter-bar", filter)); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if err := sse.PatchElementTempl(views.Fragment("project-grid", grid)); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if err := sse.MarshalAndPatchSignals(common.FilterSignals{Category: filter.Active}); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// build normalises the requested category and filters the projects.
func (h *Handlers) build(requested string) (views.Filter, views.ProjectGrid) {
	all := h.deps.Content.Get().Projects
	labels := catalog.Categories(all)
	active := catalog.Normalize(labels, requested)

	return common.NewFilter(filterID, filterEndpoint, labels, active),
		views.ProjectGrid{Category: active, Projects: catalog.Filter(all, active)}
}
