// Package router sets up HTTP routes for the UI server.
package router

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/watermgmt/internal/panel/catalog"
	homeFeature "github.com/leapstack-labs/watermgmt/internal/ui/features/home"
	navigationFeature "github.com/leapstack-labs/watermgmt/internal/ui/features/navigation"
	panelsFeature "github.com/leapstack-labs/watermgmt/internal/ui/features/panels"
	"github.com/leapstack-labs/watermgmt/internal/ui/features/shell"
	"github.com/leapstack-labs/watermgmt/internal/ui/notifier"
	"github.com/leapstack-labs/watermgmt/internal/ui/resources"
	"github.com/leapstack-labs/watermgmt/internal/ui/workspace"
)

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(
	router chi.Router,
	store *workspace.Store,
	notify *notifier.Notifier,
	logger *slog.Logger,
	isDev bool,
) error {
	// Hot reload endpoint for dev mode
	if isDev {
		setupReload(router)
	}

	router.Handle("/static/*", resources.Handler())

	renderer := shell.NewRenderer(store.Navigator(), catalog.Home())

	if err := homeFeature.SetupRoutes(router, store, renderer, notify, isDev); err != nil {
		return err
	}

	if err := navigationFeature.SetupRoutes(router, store, renderer, notify, logger); err != nil {
		return err
	}

	if err := panelsFeature.SetupRoutes(router, store, notify, logger); err != nil {
		return err
	}

	return nil
}

func setupReload(router chi.Router) {
	reloadChan := make(chan struct{}, 1)
	var hotReloadOnce sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		sse := datastar.NewSSE(w, r)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		hotReloadOnce.Do(reload)
		select {
		case <-reloadChan:
			reload()
		case <-r.Context().Done():
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		select {
		case reloadChan <- struct{}{}:
		default:
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
