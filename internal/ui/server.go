// Package ui provides the web dashboard of watermgmt.
package ui

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.977 generate -path ./features

import (
	"context"
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

	"github.com/leapstack-labs/watermgmt/internal/config"
	"github.com/leapstack-labs/watermgmt/internal/nav"
	"github.com/leapstack-labs/watermgmt/internal/panel"
	"github.com/leapstack-labs/watermgmt/internal/panel/catalog"
	"github.com/leapstack-labs/watermgmt/internal/ui/notifier"
	"github.com/leapstack-labs/watermgmt/internal/ui/resources"
	"github.com/leapstack-labs/watermgmt/internal/ui/router"
	"github.com/leapstack-labs/watermgmt/internal/ui/workspace"
)

// sweepInterval is how often idle workspaces are collected.
const sweepInterval = time.Minute

// Server is the main UI server.
type Server struct {
	store      *workspace.Store
	live       *config.Live
	port       int
	watch      bool
	isDev      bool
	configPath string
	reload     func() (*config.Endpoints, error)
	logger     *slog.Logger
	notifier   *notifier.Notifier
}

// Config holds configuration for the UI server.
type Config struct {
	Port          int
	Watch         bool
	SessionSecret string
	// SecureCookie marks the session cookie Secure; HTTPS origins only.
	SecureCookie bool
	IdleTimeout  time.Duration
	Logger       *slog.Logger
	Registry     *catalog.Registry
	Client       panel.Fetcher
	// Live holds the endpoint map; Reload replaces its content.
	Live *config.Live
	// ConfigPath is the watched config file; empty disables watching.
	ConfigPath string
	Reload     func() (*config.Endpoints, error)
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = cfg.SecureCookie
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	live := cfg.Live
	if live == nil {
		live = config.NewLive(config.DefaultEndpoints())
	}

	return &Server{
		store: workspace.NewStore(workspace.Config{
			Sessions:    sessionStore,
			Registry:    cfg.Registry,
			Navigator:   nav.NewNavigator(nav.Default),
			Client:      cfg.Client,
			Backends:    live,
			Logger:      logger,
			IdleTimeout: cfg.IdleTimeout,
		}),
		live:       live,
		port:       cfg.Port,
		watch:      cfg.Watch,
		isDev:      resources.IsDev(),
		configPath: cfg.ConfigPath,
		reload:     cfg.Reload,
		logger:     logger,
		notifier:   notifier.New(),
	}
}

// Handler builds the HTTP handler with all routes and middleware.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	if err := router.SetupRoutes(r, s.store, s.notifier, s.logger, s.isDev); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting UI server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

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

	if s.watch && s.configPath != "" && s.reload != nil {
		eg.Go(func() error {
			return s.watchConfig(egctx)
		})
	}

	eg.Go(func() error {
		return s.store.Run(egctx, sweepInterval)
	})

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		err := srv.Shutdown(shutdownCtx)
		s.store.Close()
		return err
	})

	return eg.Wait()
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// Reload re-reads the configuration, swaps the endpoint map and re-renders
// every open page.
func (s *Server) Reload() error {
	if s.reload == nil {
		return nil
	}
	endpoints, err := s.reload()
	if err != nil {
		return err
	}
	s.live.Store(endpoints)
	s.logger.Info("configuration reloaded", "backends", endpoints.Names())
	s.notifier.Broadcast()
	return nil
}

// watchConfig reloads the configuration when the config file changes. The
// parent directory is watched because editors often replace files by rename.
func (s *Server) watchConfig(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	target := filepath.Clean(s.configPath)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		s.logger.Error("failed to watch config", "path", target, "error", err)
		// Don't fail - continue without watching
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
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				s.logger.Debug("config file changed", "file", event.Name)
				if err := s.Reload(); err != nil {
					s.logger.Error("config reload failed", "error", err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}
