package admin

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmstudios/lmsite/internal/state"
	"github.com/lmstudios/lmsite/internal/ui/features"
	"github.com/lmstudios/lmsite/internal/ui/notifier"
)

func newServer(t *testing.T, deps features.Deps) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	require.NoError(t, SetupRoutes(r, deps))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, ctx context.Context, url, user, pass string) *http.Response {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	require.NoError(t, err)
	if user != "" {
		req.SetBasicAuth(user, pass)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestQuotesPage_Auth(t *testing.T) {
	tests := []struct {
		name       string
		user, pass string
		wantStatus int
	}{
		{"no credentials", "", "", http.StatusUnauthorized},
		{"wrong password", "admin", "guess", http.StatusUnauthorized},
		{"valid", "admin", "secret", http.StatusOK},
	}

	fixture := features.SetupTestFixture(t)
	srv := newServer(t, fixture.Deps)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := get(t, context.Background(), srv.URL+"/admin/quotes", tt.user, tt.pass)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestQuotesPage_Disabled(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	fixture.Deps.Admin = features.AdminAuth{}
	srv := newServer(t, fixture.Deps)

	resp := get(t, context.Background(), srv.URL+"/admin/quotes", "admin", "")
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestQuotesPage_ListsQuotes(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	ctx := context.Background()
	require.NoError(t, fixture.Store.CreateQuote(ctx, &state.Quote{
		Name: "Sipho Dlamini", Email: "sipho@example.com", Company: "Kasi Kicks",
		ProjectType: "Online store", Budget: "Over R50,000", Timeline: "Within a month",
	}))

	h := NewHandlers(fixture.Deps)
	rec := httptest.NewRecorder()
	h.QuotesPage(rec, httptest.NewRequest(http.MethodGet, "/admin/quotes", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<meta name="robots" content="noindex, nofollow">`)
	assert.NotContains(t, body, `rel="canonical"`)
	assert.Contains(t, body, "1 quote request(s) stored.")
	assert.Contains(t, body, "Sipho Dlamini")
	assert.Contains(t, body, "<small>Kasi Kicks</small>")
	assert.Contains(t, body, `href="mailto:sipho@example.com"`)
	assert.Contains(t, body, `data-init="@get('/admin/quotes/updates')"`)
}

func TestQuotesPage_Empty(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	h := NewHandlers(fixture.Deps)

	rec := httptest.NewRecorder()
	h.QuotesPage(rec, httptest.NewRequest(http.MethodGet, "/admin/quotes", nil))

	assert.Contains(t, rec.Body.String(), "No quote requests yet.")
}

func TestQuotesUpdates_PatchesTableOnPublish(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	srv := newServer(t, fixture.Deps)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp := get(t, ctx, srv.URL+"/admin/quotes/updates", "admin", "secret")
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	require.Eventually(t, func() bool { return fixture.Notifier.Listeners() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, fixture.Store.CreateQuote(ctx, &state.Quote{
		Name: "Naledi Khumalo", Email: "naledi@example.com",
		ProjectType: "New website", Budget: "Under R5,000", Timeline: "Just exploring",
	}))
	fixture.Notifier.Publish(notifier.TopicContent)
	fixture.Notifier.Publish(notifier.TopicQuotes)

	event := readUntil(t, resp.Body, "Naledi Khumalo")
	assert.Contains(t, event, "event: datastar-patch-elements")
	assert.Contains(t, event, `id="quote-table"`)

	cancel()
	require.Eventually(t, func() bool { return fixture.Notifier.Listeners() == 0 }, time.Second, 10*time.Millisecond)
}

// readUntil reads SSE lines until one contains want and returns what was read.
func readUntil(t *testing.T, r io.Reader, want string) string {
	t.Helper()
	var sb strings.Builder
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		sb.WriteString(scanner.Text())
		sb.WriteByte('\n')
		if strings.Contains(scanner.Text(), want) {
			return sb.String()
		}
	}
	t.Fatalf("stream ended before %q: %v\n%s", want, scanner.Err(), sb.String())
	return ""
}
