// Package navigation handles top bar and sidebar actions.
package navigation

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/watermgmt/internal/nav"
	"github.com/leapstack-labs/watermgmt/internal/panel"
	"github.com/leapstack-labs/watermgmt/internal/ui/features/panels"
	"github.com/leapstack-labs/watermgmt/internal/ui/features/shell"
	"github.com/leapstack-labs/watermgmt/internal/ui/notifier"
	"github.com/leapstack-labs/watermgmt/internal/ui/workspace"
)

// Handlers provides HTTP handlers for navigation.
type Handlers struct {
	store    *workspace.Store
	renderer *shell.Renderer
	notifier *notifier.Notifier
	logger   *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store *workspace.Store, renderer *shell.Renderer, notify *notifier.Notifier, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		store:    store,
		renderer: renderer,
		notifier: notify,
		logger:   logger,
	}
}

// SelectCategory switches the active category.
func (h *Handlers) SelectCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.navigate(w, r, func(n *nav.Navigator, s nav.Selection) nav.Selection {
		return n.SelectCategory(s, id)
	})
}

// SelectTab opens a tab.
func (h *Handlers) SelectTab(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.navigate(w, r, func(n *nav.Navigator, s nav.Selection) nav.Selection {
		return n.SelectTab(s, id)
	})
}

// GoHome returns to the landing page.
func (h *Handlers) GoHome(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, func(n *nav.Navigator, s nav.Selection) nav.Selection {
		return n.GoHome(s)
	})
}

// QuickAccess opens a category's first tab from the landing page.
func (h *Handlers) QuickAccess(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.navigate(w, r, func(n *nav.Navigator, s nav.Selection) nav.Selection {
		return n.QuickAccess(s, id)
	})
}

// navigate applies step, patches the frame and, when a panel was mounted,
// loads it and patches the loaded panel.
func (h *Handlers) navigate(w http.ResponseWriter, r *http.Request, step func(*nav.Navigator, nav.Selection) nav.Selection) {
	ws, err := h.store.Get(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	n := h.store.Navigator()
	mounted := ws.Navigate(func(s nav.Selection) nav.Selection { return step(n, s) })

	sse := datastar.NewSSE(w, r)
	defer h.notifier.Notify(ws.ID)

	if mounted != nil {
		_ = sse.MarshalAndPatchSignals(panels.ClearSignals())
		_ = sse.MarshalAndPatchSignals(panels.SignalsFor(mounted.Snapshot()))
	}
	if err := sse.PatchElementTempl(h.renderer.App(ws)); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if mounted == nil {
		return
	}

	if err := mounted.Init(r.Context()); err != nil {
		if errors.Is(err, panel.ErrUnmounted) {
			return
		}
		h.logger.Debug("panel loaded with errors", "panel", mounted.ID(), "error", err)
	}
	v := mounted.Snapshot()
	if err := sse.MarshalAndPatchSignals(panels.SignalsFor(v)); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if err := sse.PatchElementTempl(panels.View(v)); err != nil {
		_ = sse.ConsoleError(err)
	}
}
