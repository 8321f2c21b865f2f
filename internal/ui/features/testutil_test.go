package features

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTestSessionStore_CookieWorksOverHTTP(t *testing.T) {
	store := NewTestSessionStore()

	req := httptest.NewRequest(http.MethodGet, "http://example.test/quote", nil)
	rec := httptest.NewRecorder()
	session, err := store.Get(req, SessionName)
	require.NoError(t, err)
	session.Values["k"] = "v"
	require.NoError(t, session.Save(req, rec))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.False(t, cookies[0].Secure, "a Secure cookie is dropped by clients of an http:// test server")
	assert.Equal(t, "/", cookies[0].Path)
}
