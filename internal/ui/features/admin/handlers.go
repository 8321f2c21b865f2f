package admin

import (
	"context"
	"fmt"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/lmstudios/lmsite/internal/ui/features"
	"github.com/lmstudios/lmsite/internal/ui/features/common"
	"github.com/lmstudios/lmsite/internal/ui/notifier"
	"github.com/lmstudios/lmsite/internal/ui/views"
)

// listLimit caps the rows shown on the dashboard.
const listLimit = 100

// Handlers provides HTTP handlers for the admin pages.
type Handlers struct {
	deps features.Deps
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps features.Deps) *Handlers {
	return &Handlers{deps: deps}
}

// QuotesPage renders the stored quote requests, newest first.
func (h *Handlers) QuotesPage(w http.ResponseWriter, r *http.Request) {
	table, err := h.table(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	page := common.NewPage(h.deps, r, views.PageMeta{
		Title:   "Quote requests",
		NoIndex: true,
	}, views.AdminBody{Table: table})
	page.Meta.Canonical = ""

	common.Render(w, r, views.Render(views.PageAdmin, page))
}

// QuotesUpdates streams a fresh quote table whenever a quote is stored
// or purged.
func (h *Handlers) QuotesUpdates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates := h.deps.Notifier.Subscribe(notifier.TopicQuotes)
	defer h.deps.Notifier.Unsubscribe(updates)

	// No initial send; the page already holds the current table.
	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			if err := h.sendTable(ctx, sse); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

func (h *Handlers) sendTable(ctx context.Context, sse *datastar.ServerSentEventGenerator) error {
	table, err := h.table(ctx)
	if err != nil {
		return err
	}
	return sse.PatchElementTempl(views.Fragment("quote-table", table))
}

func (h *Handlers) table(ctx context.Context) (views.QuoteTable, error) {
	quotes, err := h.deps.Store.ListQuotes(ctx, listLimit)
	if err != nil {
		return views.QuoteTable{}, fmt.Errorf("failed to list quotes: %w", err)
	}
	total, err := h.deps.Store.CountQuotes(ctx)
	if err != nil {
		return views.QuoteTable{}, fmt.Errorf("failed to count quotes: %w", err)
	}
	return views.QuoteTable{Quotes: quotes, Total: total}, nil
}
