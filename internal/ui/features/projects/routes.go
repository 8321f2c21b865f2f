// Package projects serves the portfolio gallery and its category filter.
package projects

import (
	"github.com/go-chi/chi/v5"

	"github.com/lmstudios/lmsite/internal/ui/features"
)

// SetupRoutes configures routes for the portfolio.
func SetupRoutes(router chi.Router, deps features.Deps) error {
	handlers := NewHandlers(deps)

	router.Get("/projects", handlers.ProjectsPage)
	router.Get("/projects/filter", handlers.FilterProjects)

	return nil
}
