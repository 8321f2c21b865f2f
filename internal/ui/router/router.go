// Package router sets up HTTP routes for the site server.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/lmstudios/lmsite/internal/ui/features"
	adminFeature "github.com/lmstudios/lmsite/internal/ui/features/admin"
	cityFeature "github.com/lmstudios/lmsite/internal/ui/features/city"
	"github.com/lmstudios/lmsite/internal/ui/features/common"
	homeFeature "github.com/lmstudios/lmsite/internal/ui/features/home"
	pricingFeature "github.com/lmstudios/lmsite/internal/ui/features/pricing"
	projectsFeature "github.com/lmstudios/lmsite/internal/ui/features/projects"
	quoteFeature "github.com/lmstudios/lmsite/internal/ui/features/quote"
	"github.com/lmstudios/lmsite/internal/ui/notifier"
	"github.com/lmstudios/lmsite/internal/ui/resources"
)

type setupFunc func(chi.Router, features.Deps) error

var featureRoutes = []setupFunc{
	homeFeature.SetupRoutes,
	cityFeature.SetupRoutes,
	projectsFeature.SetupRoutes,
	pricingFeature.SetupRoutes,
	quoteFeature.SetupRoutes,
	adminFeature.SetupRoutes,
}

// SetupRoutes configures all routes for the site server.
func SetupRoutes(router chi.Router, deps features.Deps) error {
	// Hot reload endpoint for dev mode
	if deps.IsDev && deps.Notifier != nil {
		setupReload(router, deps.Notifier)
	}

	// Static assets
	router.Handle("/static/*", resources.Handler())

	for _, setup := range featureRoutes {
		if err := setup(router, deps); err != nil {
			return err
		}
	}

	router.NotFound(common.NotFound(deps))

	return nil
}

// setupReload serves /reload, which tells the browser to reload whenever
// content changes, and /hotreload, which triggers that by hand.
func setupReload(router chi.Router, n *notifier.Notifier) {
	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		sse := datastar.NewSSE(w, r)

		updates := n.Subscribe(notifier.TopicContent)
		defer n.Unsubscribe(updates)

		select {
		case <-updates:
			_ = sse.ExecuteScript("window.location.reload()")
		case <-r.Context().Done():
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		n.Publish(notifier.TopicContent)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
