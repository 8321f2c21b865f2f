// Package admin serves the password-protected list of quote requests.
package admin

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lmstudios/lmsite/internal/ui/features"
)

// DefaultUsername is used when only a password is configured.
const DefaultUsername = "admin"

// SetupRoutes configures the admin routes. Nothing is mounted when no
// admin password is configured, so the paths fall through to 404.
func SetupRoutes(router chi.Router, deps features.Deps) error {
	if !deps.Admin.Enabled() {
		return nil
	}

	user := deps.Admin.Username
	if user == "" {
		user = DefaultUsername
	}

	handlers := NewHandlers(deps)

	router.Route("/admin", func(r chi.Router) {
		r.Use(middleware.BasicAuth("lmsite admin", map[string]string{user: deps.Admin.Password}))
		r.Get("/quotes", handlers.QuotesPage)
		r.Get("/quotes/updates", handlers.QuotesUpdates)
	})

	return nil
}
