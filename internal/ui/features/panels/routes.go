package panels

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/watermgmt/internal/ui/notifier"
	"github.com/leapstack-labs/watermgmt/internal/ui/workspace"
)

// SetupRoutes configures routes for panel actions.
func SetupRoutes(
	router chi.Router,
	store *workspace.Store,
	notify *notifier.Notifier,
	logger *slog.Logger,
) error {
	handlers := NewHandlers(store, notify, logger)

	router.Route("/panels/{id}", func(r chi.Router) {
		r.Post("/predict", handlers.Predict)
		r.Post("/randomize", handlers.Randomize)
		r.Post("/reset", handlers.Reset)
		r.Post("/field", handlers.Field)
		r.Post("/chart-kind/{kind}", handlers.ChartKind)
	})

	return nil
}
