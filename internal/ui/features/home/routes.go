// Package home serves the brochure pages: home, about, services, team and FAQ.
package home

import (
	"github.com/go-chi/chi/v5"

	"github.com/lmstudios/lmsite/internal/ui/features"
)

// SetupRoutes configures routes for the brochure pages.
func SetupRoutes(router chi.Router, deps features.Deps) error {
	handlers := NewHandlers(deps)

	router.Get("/", handlers.HomePage)
	router.Get("/about", handlers.AboutPage)
	router.Get("/services", handlers.ServicesPage)
	router.Get("/team", handlers.TeamPage)
	router.Get("/faq", handlers.FAQPage)
	router.Get("/healthz", handlers.Health)

	return nil
}
