package ui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/lmstudios/lmsite/internal/content"
	"github.com/lmstudios/lmsite/internal/testutil"
	"github.com/lmstudios/lmsite/internal/ui/notifier"
	"github.com/lmstudios/lmsite/internal/wizard"
)

func newTestServer(t *testing.T, contentPath string) *Server {
	t.Helper()
	holder := content.NewHolder(content.Default())
	if contentPath != "" {
		c, err := content.LoadFile(contentPath)
		require.NoError(t, err)
		holder.Set(c)
	}
	return NewServer(Config{
		Content:       holder,
		Store:         testutil.OpenTestStore(t),
		Wizard:        wizard.DefaultOptions(),
		Watch:         true,
		ContentPath:   contentPath,
		SessionSecret: "test-secret-key-32-bytes-long!!",
		Logger:        testutil.NewTestLogger(t),
	})
}

func writeContent(t *testing.T, path, siteName string) {
	t.Helper()
	c := content.Default()
	c.Site.Name = siteName
	data, err := yaml.Marshal(c)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))
}

func TestServer_Handler(t *testing.T) {
	s := newTestServer(t, "")
	h, err := s.Handler()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "LM Studios")
	assert.NotEmpty(t, rec.Header().Get("Content-Type"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_WatchContentReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yaml")
	writeContent(t, path, "LM Studios")

	s := newTestServer(t, path)
	updates := s.Notifier().Subscribe(notifier.TopicContent)
	defer s.Notifier().Unsubscribe(updates)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.watchContent(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// Give the watcher a moment to register.
	time.Sleep(50 * time.Millisecond)
	writeContent(t, path, "LM Studios Polokwane")

	require.Eventually(t, func() bool {
		return s.Content().Get().Site.Name == "LM Studios Polokwane"
	}, 5*time.Second, 20*time.Millisecond)

	select {
	case <-updates:
	case <-time.After(time.Second):
		t.Fatal("content topic was not published")
	}
}

func TestServer_WatchContentKeepsOldOnInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yaml")
	writeContent(t, path, "LM Studios")

	s := newTestServer(t, path)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.watchContent(ctx) }()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("packages: [}"), 0o600))
	time.Sleep(4 * reloadDebounce)

	assert.Equal(t, "LM Studios", s.Content().Get().Site.Name)

	cancel()
	assert.NoError(t, <-done)
}
