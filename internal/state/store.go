// Package state persists submitted quote requests.
// SQLite is the default backend; Postgres is available through pgx.
package state

import (
	"context"
	"errors"
	"time"

	"github.com/lmstudios/lmsite/internal/wizard"
)

// ErrQuoteNotFound is returned when a quote ID does not exist.
var ErrQuoteNotFound = errors.New("quote not found")

// Quote sources.
const (
	SourceWeb = "web"
	SourceCLI = "cli"
)

// Quote is a submitted quote request.
type Quote struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Company     string    `json:"company,omitempty"`
	ProjectType string    `json:"project_type"`
	Package     string    `json:"package,omitempty"`
	Budget      string    `json:"budget"`
	Timeline    string    `json:"timeline"`
	Message     string    `json:"message,omitempty"`
	Source      string    `json:"source"`
	CreatedAt   time.Time `json:"created_at"`
}

// QuoteFromDraft builds an unsaved quote from a submitted wizard draft.
func QuoteFromDraft(d wizard.Draft, source string) *Quote {
	return &Quote{
		Name:        d.Name,
		Email:       d.Email,
		Phone:       d.Phone,
		Company:     d.Company,
		ProjectType: d.ProjectType,
		Package:     d.Package,
		Budget:      d.Budget,
		Timeline:    d.Timeline,
		Message:     d.Message,
		Source:      source,
	}
}

// Store is the quote persistence interface.
type Store interface {
	// CreateQuote saves q, assigning ID and CreatedAt when they are unset.
	CreateQuote(ctx context.Context, q *Quote) error
	GetQuote(ctx context.Context, id string) (*Quote, error)
	// ListQuotes returns up to limit quotes, newest first. limit <= 0 means no limit.
	ListQuotes(ctx context.Context, limit int) ([]*Quote, error)
	CountQuotes(ctx context.Context) (int, error)
	// DeleteQuotesBefore removes quotes created before cutoff and returns how many went.
	DeleteQuotesBefore(ctx context.Context, cutoff time.Time) (int64, error)
	Close() error
}
