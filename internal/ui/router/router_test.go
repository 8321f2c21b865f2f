package router

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmstudios/lmsite/internal/ui/features"
)

func setupRouter(t *testing.T, isDev bool) (*chi.Mux, *features.TestFixture) {
	t.Helper()
	fixture := features.SetupTestFixture(t)
	fixture.Deps.IsDev = isDev

	r := chi.NewRouter()
	require.NoError(t, SetupRoutes(r, fixture.Deps))
	return r, fixture
}

func TestSetupRoutes_Pages(t *testing.T) {
	r, _ := setupRouter(t, false)

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{"/", http.StatusOK, "<!doctype html>"},
		{"/about", http.StatusOK, "About us"},
		{"/services", http.StatusOK, "Services"},
		{"/pricing", http.StatusOK, `id="package-grid"`},
		{"/pricing?category=maintenance", http.StatusOK, "Care Plan"},
		{"/projects", http.StatusOK, `id="project-grid"`},
		{"/quote", http.StatusOK, "Request a quote"},
		{"/team", http.StatusOK, "Our team"},
		{"/faq", http.StatusOK, "How long does a website take?"},
		{"/web-design/polokwane", http.StatusOK, "Web design in Polokwane"},
		{"/web-design/durban", http.StatusNotFound, "Page not found"},
		{"/no-such-page", http.StatusNotFound, "Page not found"},
		{"/healthz", http.StatusOK, "ok"},
		{"/static/css/site.css", http.StatusOK, ""},
		{"/static/img/projects/kasi-kicks.jpg", http.StatusOK, "<svg"},
		{"/static/js/missing.js", http.StatusNotFound, ""},
		{"/admin/quotes", http.StatusUnauthorized, ""},
		{"/reload", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestSetupRoutes_DevLayoutSubscribesToReload(t *testing.T) {
	r, _ := setupRouter(t, true)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, rec.Body.String(), `data-init="@get('/reload')"`)
}

func TestReload_HotReloadTriggersScript(t *testing.T) {
	r, fixture := setupRouter(t, true)
	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/reload", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Eventually(t, func() bool { return fixture.Notifier.Listeners() == 1 }, time.Second, 10*time.Millisecond)

	hot, err := http.Get(srv.URL + "/hotreload")
	require.NoError(t, err)
	_ = hot.Body.Close()
	assert.Equal(t, http.StatusOK, hot.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "window.location.reload()")
}
