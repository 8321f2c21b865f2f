// Package quote serves the three-step quote request wizard.
//
// The wizard lives in the visitor's session cookie. Every step is a plain
// form post answered with a redirect, so the flow works without JavaScript.
package quote

import (
	"github.com/go-chi/chi/v5"

	"github.com/lmstudios/lmsite/internal/ui/features"
)

// SetupRoutes configures routes for the quote wizard.
func SetupRoutes(router chi.Router, deps features.Deps) error {
	handlers := NewHandlers(deps)

	router.Get("/quote", handlers.QuotePage)
	router.Post("/quote/next", handlers.Next)
	router.Post("/quote/back", handlers.Back)
	router.Post("/quote/submit", handlers.Submit)

	return nil
}
