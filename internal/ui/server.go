// Package ui provides the LM Studios site server.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/lmstudios/lmsite/internal/content"
	"github.com/lmstudios/lmsite/internal/notify"
	"github.com/lmstudios/lmsite/internal/state"
	"github.com/lmstudios/lmsite/internal/ui/features"
	"github.com/lmstudios/lmsite/internal/ui/notifier"
	"github.com/lmstudios/lmsite/internal/ui/router"
	"github.com/lmstudios/lmsite/internal/wizard"
)

// reloadDebounce coalesces the burst of events an editor save produces.
const reloadDebounce = 100 * time.Millisecond

// Server is the site server.
type Server struct {
	deps        features.Deps
	port        int
	watch       bool
	contentPath string
	logger      *slog.Logger
	notifier    *notifier.Notifier
}

// Config holds configuration for the site server.
type Config struct {
	Content       *content.Holder
	Store         state.Store
	Notify        notify.Notifier
	Wizard        wizard.Options
	Admin         features.AdminAuth
	Port          int
	Watch         bool
	ContentPath   string // override file to watch; empty uses the embedded content
	SessionSecret string
	SecureCookies bool
	IsDev         bool
	Logger        *slog.Logger
}

// NewServer creates a new site server instance.
func NewServer(cfg Config) *Server {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400) // 1 day
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode
	sessionStore.Options.Secure = cfg.SecureCookies

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	holder := cfg.Content
	if holder == nil {
		holder = content.NewHolder(content.Default())
	}
	n := notifier.New()

	return &Server{
		deps: features.Deps{
			Content:  holder,
			Store:    cfg.Store,
			Notify:   cfg.Notify,
			Sessions: sessionStore,
			Notifier: n,
			Wizard:   cfg.Wizard,
			Admin:    cfg.Admin,
			Logger:   logger,
			IsDev:    cfg.IsDev,
		},
		port:        cfg.Port,
		watch:       cfg.Watch,
		contentPath: cfg.ContentPath,
		logger:      logger,
		notifier:    n,
	}
}

// Handler builds the routed HTTP handler with middleware.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	if err := router.SetupRoutes(r, s.deps); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting site server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	handler, err := s.Handler()
	if err != nil {
		return err
	}

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch && s.contentPath != "" {
		eg.Go(func() error {
			return s.watchContent(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down site server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// Content returns the live content holder.
func (s *Server) Content() *content.Holder {
	return s.deps.Content
}

// watchContent reloads the content override file when it changes.
// The parent directory is watched because editors often replace the file
// rather than write it in place.
func (s *Server) watchContent(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	target := filepath.Clean(s.contentPath)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		s.logger.Error("failed to watch content file", "path", target, "error", err)
		// Keep serving without reloads.
		<-ctx.Done()
		return nil
	}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(reloadDebounce, s.reloadContent)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// reloadContent swaps in the override file. Invalid content is logged and
// the previous content keeps serving.
func (s *Server) reloadContent() {
	c, err := content.LoadFile(s.contentPath)
	if err != nil {
		s.logger.Error("content reload failed", "path", s.contentPath, "error", err)
		return
	}
	s.deps.Content.Set(c)
	s.logger.Info("content reloaded", "path", s.contentPath)
	s.notifier.Publish(notifier.TopicContent)
}
