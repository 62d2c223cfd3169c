package home

import (
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/watermgmt/internal/ui/features/common"
	"github.com/leapstack-labs/watermgmt/internal/ui/features/shell"
	"github.com/leapstack-labs/watermgmt/internal/ui/notifier"
	"github.com/leapstack-labs/watermgmt/internal/ui/workspace"
)

// Handlers provides HTTP handlers for the home feature.
type Handlers struct {
	store    *workspace.Store
	renderer *shell.Renderer
	notifier *notifier.Notifier
	isDev    bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store *workspace.Store, renderer *shell.Renderer, notify *notifier.Notifier, isDev bool) *Handlers {
	return &Handlers{
		store:    store,
		renderer: renderer,
		notifier: notify,
		isDev:    isDev,
	}
}

// HomePage renders the full page. A page load always starts from the
// initial selection, unmounting whatever panel the session had open.
func (h *Handlers) HomePage(w http.ResponseWriter, r *http.Request) {
	ws, err := h.store.Get(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	ws.Restart()

	page := common.Page(h.renderer.Title(ws), h.isDev, h.renderer.App(ws))
	if err := page.Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// HomePageUpdates is the long-lived SSE endpoint of the page. It sends no
// initial state; the app is re-rendered whenever the session's workspace
// changes or the configuration is reloaded.
func (h *Handlers) HomePageUpdates(w http.ResponseWriter, r *http.Request) {
	ws, err := h.store.Get(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	detach := ws.Attach()
	defer detach()

	sse := datastar.NewSSE(w, r)

	updates := h.notifier.Subscribe(ws.ID)
	defer h.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			if err := sse.PatchElementTempl(h.renderer.App(ws)); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}
