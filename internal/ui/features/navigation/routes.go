package navigation

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/watermgmt/internal/ui/features/shell"
	"github.com/leapstack-labs/watermgmt/internal/ui/notifier"
	"github.com/leapstack-labs/watermgmt/internal/ui/workspace"
)

// SetupRoutes configures routes for navigation.
func SetupRoutes(
	router chi.Router,
	store *workspace.Store,
	renderer *shell.Renderer,
	notify *notifier.Notifier,
	logger *slog.Logger,
) error {
	handlers := NewHandlers(store, renderer, notify, logger)

	router.Route("/nav", func(r chi.Router) {
		r.Post("/home", handlers.GoHome)
		r.Post("/category/{id}", handlers.SelectCategory)
		r.Post("/tab/{id}", handlers.SelectTab)
		r.Post("/quick/{id}", handlers.QuickAccess)
	})

	return nil
}
