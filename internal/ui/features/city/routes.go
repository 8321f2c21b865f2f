// Package city serves the per-city web design landing pages.
package city

import (
	"github.com/go-chi/chi/v5"

	"github.com/lmstudios/lmsite/internal/ui/features"
)

// SetupRoutes configures routes for the city landing pages.
func SetupRoutes(router chi.Router, deps features.Deps) error {
	handlers := NewHandlers(deps)

	router.Get("/web-design/{city}", handlers.CityPage)

	return nil
}
