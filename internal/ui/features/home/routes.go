// Package home serves the dashboard page and its update stream.
package home

import (
	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/watermgmt/internal/ui/features/shell"
	"github.com/leapstack-labs/watermgmt/internal/ui/notifier"
	"github.com/leapstack-labs/watermgmt/internal/ui/workspace"
)

// SetupRoutes configures routes for the home feature.
func SetupRoutes(
	router chi.Router,
	store *workspace.Store,
	renderer *shell.Renderer,
	notify *notifier.Notifier,
	isDev bool,
) error {
	handlers := NewHandlers(store, renderer, notify, isDev)

	router.Get("/", handlers.HomePage)
	router.Get("/updates", handlers.HomePageUpdates)

	return nil
}
