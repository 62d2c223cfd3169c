package panels

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/watermgmt/internal/chart"
	"github.com/leapstack-labs/watermgmt/internal/panel"
	"github.com/leapstack-labs/watermgmt/internal/ui/notifier"
	"github.com/leapstack-labs/watermgmt/internal/ui/workspace"
)

// Handlers provides HTTP handlers for panel actions.
type Handlers struct {
	store    *workspace.Store
	notifier *notifier.Notifier
	logger   *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store *workspace.Store, notify *notifier.Notifier, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		store:    store,
		notifier: notify,
		logger:   logger,
	}
}

// action is the body of a panel endpoint. It runs after the posted signals
// have been applied to p.
type action func(r *http.Request, sse *datastar.ServerSentEventGenerator, p *panel.Panel) error

// serve resolves the workspace panel named in the URL, applies the posted
// signals and runs act. Other tabs of the session are notified afterwards.
func (h *Handlers) serve(w http.ResponseWriter, r *http.Request, act action) {
	ws, err := h.store.Get(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Read signals BEFORE creating SSE (SSE consumes the request body)
	var signals Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(fmt.Errorf("failed to read signals: %w", err))
		return
	}

	sse := datastar.NewSSE(w, r)

	id := chi.URLParam(r, "id")
	p, ok := ws.PanelFor(id)
	if !ok {
		_ = sse.ConsoleError(fmt.Errorf("panel %s is not open", id))
		return
	}
	if err := p.ApplySignals(signals.Panel.Form, signals.Panel.Model); err != nil {
		h.logger.Debug("some signals were rejected", "panel", id, "error", err)
	}

	if err := act(r, sse, p); err != nil {
		switch {
		case errors.Is(err, panel.ErrUnmounted):
			return
		case errors.Is(err, panel.ErrBusy):
			_ = sse.ConsoleError(err)
			return
		}
		h.logger.Debug("panel action failed", "panel", id, "path", r.URL.Path, "error", err)
	}
	if err := sse.PatchElementTempl(View(p.Snapshot())); err != nil {
		_ = sse.ConsoleError(err)
	}
	h.notifier.Notify(ws.ID)
}

// Predict validates the form and runs a prediction. The loading state is
// patched while the backend is working.
func (h *Handlers) Predict(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(r *http.Request, sse *datastar.ServerSentEventGenerator, p *panel.Panel) error {
		return p.Predict(r.Context(), func(v panel.View) {
			_ = sse.PatchElementTempl(View(v))
		})
	})
}

// Randomize fills the form with sample values and pushes them to the browser.
func (h *Handlers) Randomize(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(r *http.Request, sse *datastar.ServerSentEventGenerator, p *panel.Panel) error {
		err := p.Randomize(r.Context())
		if err == nil {
			err = sse.MarshalAndPatchSignals(SignalsFor(p.Snapshot()))
		}
		return err
	})
}

// Reset restores the form defaults and clears the result.
func (h *Handlers) Reset(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(_ *http.Request, sse *datastar.ServerSentEventGenerator, p *panel.Panel) error {
		p.Reset()
		return sse.MarshalAndPatchSignals(SignalsFor(p.Snapshot()))
	})
}

// Field stores the posted form values without predicting.
func (h *Handlers) Field(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(*http.Request, *datastar.ServerSentEventGenerator, *panel.Panel) error {
		return nil
	})
}

// ChartKind switches the panel's charts to the kind in the URL.
func (h *Handlers) ChartKind(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(r *http.Request, _ *datastar.ServerSentEventGenerator, p *panel.Panel) error {
		return p.SetChartKind(chart.Kind(chi.URLParam(r, "kind")))
	})
}
