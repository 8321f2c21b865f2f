package features

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/lmstudios/lmsite/internal/content"
	"github.com/lmstudios/lmsite/internal/state"
	"github.com/lmstudios/lmsite/internal/testutil"
	"github.com/lmstudios/lmsite/internal/ui/notifier"
	"github.com/lmstudios/lmsite/internal/wizard"
)

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Deps     Deps
	Store    *state.SQLStore
	Notifier *notifier.Notifier
	Clock    *testutil.Clock
	Sent     *SentQuotes
}

// SentQuotes records quotes passed to the outbound notifier.
type SentQuotes struct {
	mu     sync.Mutex
	quotes []*state.Quote
	Err    error
}

// Notify implements notify.Notifier.
func (s *SentQuotes) Notify(_ context.Context, q *state.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes = append(s.quotes, q)
	return s.Err
}

// All returns the recorded quotes.
func (s *SentQuotes) All() []*state.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*state.Quote(nil), s.quotes...)
}

// SetupTestFixture creates a fixture backed by the embedded content, an
// in-memory store, a fake clock and gated wizard options.
func SetupTestFixture(t *testing.T) *TestFixture {
	t.Helper()

	store := testutil.OpenTestStore(t)
	clock := testutil.NewClock(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
	sent := &SentQuotes{}
	n := notifier.New()

	return &TestFixture{
		Deps: Deps{
			Content:  content.NewHolder(content.Default()),
			Store:    store,
			Notify:   sent,
			Sessions: NewTestSessionStore(),
			Notifier: n,
			Wizard:   wizard.DefaultOptions(),
			Admin:    AdminAuth{Username: "admin", Password: "secret"},
			Logger:   testutil.NewTestLogger(t),
			Now:      clock.Now,
		},
		Store:    store,
		Notifier: n,
		Clock:    clock,
		Sent:     sent,
	}
}

// RequestWithPathParam wraps a request with chi URL params.
func RequestWithPathParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// NewTestSessionStore creates a session store for testing. Cookies are not
// marked Secure so clients of a plain-HTTP httptest server send them back.
func NewTestSessionStore() *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
	store.Options.Path = "/"
	store.Options.Secure = false
	return store
}
