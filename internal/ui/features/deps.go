// Package features holds what every page feature shares: the dependency
// bundle handed to each feature's SetupRoutes, and test fixtures.
package features

import (
	"log/slog"
	"time"

	"github.com/gorilla/sessions"

	"github.com/lmstudios/lmsite/internal/content"
	"github.com/lmstudios/lmsite/internal/notify"
	"github.com/lmstudios/lmsite/internal/state"
	"github.com/lmstudios/lmsite/internal/ui/notifier"
	"github.com/lmstudios/lmsite/internal/wizard"
)

// SessionName is the cookie name of the visitor session.
const SessionName = "lmsite"

// AdminAuth holds the basic-auth credentials for the admin pages.
type AdminAuth struct {
	Username string
	Password string
}

// Enabled reports whether the admin pages are served at all.
func (a AdminAuth) Enabled() bool {
	return a.Password != ""
}

// Deps are the dependencies shared by all features.
type Deps struct {
	Content  *content.Holder
	Store    state.Store
	Notify   notify.Notifier // outbound quote notifications; may be nil
	Sessions sessions.Store
	Notifier *notifier.Notifier
	Wizard   wizard.Options
	Admin    AdminAuth
	Logger   *slog.Logger
	IsDev    bool
	Now      func() time.Time
}

// Clock returns the current time from Now, or time.Now when unset.
func (d Deps) Clock() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Log returns the logger, or a discarding one when unset.
func (d Deps) Log() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.New(slog.DiscardHandler)
}
