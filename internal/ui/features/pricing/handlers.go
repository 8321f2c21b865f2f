package pricing

import (
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/lmstudios/lmsite/internal/catalog"
	"github.com/lmstudios/lmsite/internal/ui/features"
	"github.com/lmstudios/lmsite/internal/ui/features/common"
	"github.com/lmstudios/lmsite/internal/ui/views"
)

const (
	filterID       = "package-filter"
	filterEndpoint = "/pricing/filter"
)

// Handlers provides HTTP handlers for pricing.
type Handlers struct {
	deps features.Deps
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps features.Deps) *Handlers {
	return &Handlers{deps: deps}
}

// PricingPage renders the packages filtered by ?category=.
func (h *Handlers) PricingPage(w http.ResponseWriter, r *http.Request) {
	filter, grid := h.build(r.URL.Query().Get("category"))

	page := common.NewPage(h.deps, r, views.PageMeta{
		Title:       "Pricing",
		Description: "Fixed-price website, e-commerce and web app packages in South African rand.",
	}, views.PricingBody{Filter: filter, Grid: grid})

	common.Render(w, r, views.Render(views.PagePricing, page))
}

// FilterPackages re-renders the filter bar and package grid for the
// category signal.
func (h *Handlers) FilterPackages(w http.ResponseWriter, r *http.Request) {
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
	if err := sse.PatchElementTempl(views.Fragment("package-grid", grid)); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if err := sse.MarshalAndPatchSignals(common.FilterSignals{Category: filter.Active}); err != nil {
		_ = sse.ConsoleError(err)
	}
}

func (h *Handlers) build(requested string) (views.Filter, views.PackageGrid) {
	all := h.deps.Content.Get().Packages
	labels := catalog.Categories(all)
	active := catalog.Normalize(labels, requested)

	return common.NewFilter(filterID, filterEndpoint, labels, active),
		views.PackageGrid{Category: active, Packages: catalog.Filter(all, active)}
}
