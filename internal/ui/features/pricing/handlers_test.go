package pricing

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lmstudios/lmsite/internal/ui/features"
)

func setupTestHandlers(t *testing.T) *Handlers {
	t.Helper()
	return NewHandlers(features.SetupTestFixture(t).Deps)
}

func TestPricingPage(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    []string
		notWant []string
	}{
		{
			name: "all packages",
			want: []string{"Starter", "Business", "Online Store", "Custom Platform", "Care Plan", "Most popular", `data-category="All"`},
		},
		{
			name:    "websites only",
			query:   "?category=websites",
			want:    []string{"Starter", "Business", `data-category="Websites"`},
			notWant: []string{"Custom Platform", "Care Plan"},
		},
		{
			name:  "category label accepted",
			query: "?category=Web+Apps",
			want:  []string{"Custom Platform", `data-category="Web Apps"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := setupTestHandlers(t)

			rec := httptest.NewRecorder()
			h.PricingPage(rec, httptest.NewRequest(http.MethodGet, "/pricing"+tt.query, nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			body := rec.Body.String()
			assert.Contains(t, body, "<title>Pricing | LM Studios</title>")
			assert.Contains(t, body, `href="/quote?package=`)
			for _, want := range tt.want {
				assert.Contains(t, body, want)
			}
			for _, notWant := range tt.notWant {
				assert.NotContains(t, body, notWant)
			}
		})
	}
}

func TestFilterPackages(t *testing.T) {
	h := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/pricing/filter?datastar="+url.QueryEscape(`{"category":"maintenance"}`), nil)
	rec := httptest.NewRecorder()
	h.FilterPackages(rec, req)

	body := rec.Body.String()
	assert.Equal(t, 2, strings.Count(body, "event: datastar-patch-elements"))
	assert.Contains(t, body, `id="package-filter"`)
	assert.Contains(t, body, `id="package-grid"`)
	assert.Contains(t, body, "Care Plan")
	assert.NotContains(t, body, "Online Store")
	assert.Contains(t, body, `"category":"Maintenance"`)
}

func TestFilterPackages_BadSignals(t *testing.T) {
	h := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/pricing/filter?datastar=%7Bnope", nil)
	rec := httptest.NewRecorder()
	h.FilterPackages(rec, req)

	assert.Contains(t, rec.Body.String(), "console.error")
	assert.NotContains(t, rec.Body.String(), "package-grid")
}
