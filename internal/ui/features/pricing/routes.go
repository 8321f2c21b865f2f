// Package pricing serves the package comparison page.
package pricing

import (
	"github.com/go-chi/chi/v5"

	"github.com/lmstudios/lmsite/internal/ui/features"
)

// SetupRoutes configures routes for pricing.
func SetupRoutes(router chi.Router, deps features.Deps) error {
	handlers := NewHandlers(deps)

	router.Get("/pricing", handlers.PricingPage)
	router.Get("/pricing/filter", handlers.FilterPackages)

	return nil
}
