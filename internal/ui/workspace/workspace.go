// Package workspace keeps the per-session dashboard state: the navigation
// selection and the mounted prediction panel.
package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/watermgmt/internal/nav"
	"github.com/leapstack-labs/watermgmt/internal/panel"
	"github.com/leapstack-labs/watermgmt/internal/panel/catalog"
)

const (
	// SessionName is the cookie holding the workspace id.
	SessionName = "watermgmt"
	sessionKey  = "workspace"
)

// DefaultIdleTimeout is how long an unused workspace survives.
const DefaultIdleTimeout = 30 * time.Minute

// BackendResolver picks the backend a panel talks to.
type BackendResolver interface {
	BackendFor(panelID, fallback string) string
}

// Config holds the dependencies of a Store.
type Config struct {
	Sessions    sessions.Store
	Registry    *catalog.Registry
	Navigator   *nav.Navigator
	Client      panel.Fetcher
	Backends    BackendResolver
	Logger      *slog.Logger
	IdleTimeout time.Duration
	Now         func() time.Time
}

// Store maps session ids to workspaces.
type Store struct {
	sessions sessions.Store
	registry *catalog.Registry
	nav      *nav.Navigator
	client   panel.Fetcher
	backends BackendResolver
	logger   *slog.Logger
	idle     time.Duration
	now      func() time.Time

	// ctx parents every mounted panel; Close cancels it.
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	spaces map[string]*Workspace
}

// NewStore creates an empty store.
func NewStore(cfg Config) *Store {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		sessions: cfg.Sessions,
		registry: cfg.Registry,
		nav:      cfg.Navigator,
		client:   cfg.Client,
		backends: cfg.Backends,
		logger:   cfg.Logger,
		idle:     cfg.IdleTimeout,
		now:      cfg.Now,
		ctx:      ctx,
		cancel:   cancel,
		spaces:   make(map[string]*Workspace),
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.nav == nil {
		s.nav = nav.NewNavigator(nil)
	}
	if s.registry == nil {
		s.registry = catalog.Default()
	}
	if s.idle <= 0 {
		s.idle = DefaultIdleTimeout
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Navigator returns the navigator used for every workspace.
func (s *Store) Navigator() *nav.Navigator {
	return s.nav
}

// Registry returns the panel registry.
func (s *Store) Registry() *catalog.Registry {
	return s.registry
}

// Get returns the workspace of the request's session, creating the session
// cookie and the workspace when either is missing. A cookie that no longer
// decodes, e.g. after the secret changed, starts a new workspace.
func (s *Store) Get(w http.ResponseWriter, r *http.Request) (*Workspace, error) {
	sess, err := s.sessions.Get(r, SessionName)
	if err != nil {
		s.logger.Debug("session cookie rejected", "error", err)
	}
	id, _ := sess.Values[sessionKey].(string)
	if id == "" {
		id = uuid.NewString()
		sess.Values[sessionKey] = id
		if err := sess.Save(r, w); err != nil {
			return nil, fmt.Errorf("failed to save session: %w", err)
		}
	}
	return s.lookup(id), nil
}

func (s *Store) lookup(id string) *Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws, ok := s.spaces[id]
	if !ok {
		ws = &Workspace{ID: id, store: s, sel: s.nav.Initial()}
		s.spaces[id] = ws
		s.logger.Debug("workspace created", "workspace", id)
	}
	ws.lastSeen.Store(s.now().UnixNano())
	return ws
}

// Len returns the number of live workspaces.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.spaces)
}

// Sweep drops workspaces idle since before now minus the idle timeout and
// unmounts their panels. Workspaces with an open update stream are kept.
func (s *Store) Sweep(now time.Time) int {
	cutoff := now.Add(-s.idle).UnixNano()

	s.mu.Lock()
	var stale []*Workspace
	for id, ws := range s.spaces {
		if ws.streams.Load() > 0 || ws.lastSeen.Load() >= cutoff {
			continue
		}
		delete(s.spaces, id)
		stale = append(stale, ws)
	}
	s.mu.Unlock()

	for _, ws := range stale {
		ws.close()
	}
	if len(stale) > 0 {
		s.logger.Debug("idle workspaces swept", "count", len(stale))
	}
	return len(stale)
}

// Run sweeps every interval until ctx ends.
func (s *Store) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep(s.now())
		}
	}
}

// Close unmounts every panel and forgets all workspaces.
func (s *Store) Close() {
	s.mu.Lock()
	spaces := s.spaces
	s.spaces = make(map[string]*Workspace)
	s.mu.Unlock()

	for _, ws := range spaces {
		ws.close()
	}
	s.cancel()
}

func (s *Store) mount(id string, spec *panel.Spec) *panel.Panel {
	backend := spec.Backend
	if s.backends != nil {
		backend = s.backends.BackendFor(spec.ID, spec.Backend)
	}
	return panel.New(s.ctx, spec, s.client, panel.Options{
		Backend: backend,
		Logger:  s.logger.With("workspace", id),
	})
}

// Workspace is one browser session's dashboard.
type Workspace struct {
	ID    string
	store *Store

	lastSeen atomic.Int64
	streams  atomic.Int32

	mu    sync.Mutex
	sel   nav.Selection
	panel *panel.Panel
}

// Selection returns the current navigation state.
func (w *Workspace) Selection() nav.Selection {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sel
}

// Panel returns the mounted panel, or nil on the home page.
func (w *Workspace) Panel() *panel.Panel {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.panel
}

// PanelFor returns the mounted panel when its id is id.
func (w *Workspace) PanelFor(id string) (*panel.Panel, bool) {
	p := w.Panel()
	if p == nil || p.ID() != id {
		return nil, false
	}
	return p, true
}

// Navigate applies step to the selection. When the tab changes the old panel
// is unmounted and, if the new tab names a panel, a fresh one is mounted and
// returned so the caller can Init it. Staying on the same tab, for example
// when switching to another category that also lists it, keeps the panel.
func (w *Workspace) Navigate(step func(nav.Selection) nav.Selection) *panel.Panel {
	w.mu.Lock()
	defer w.mu.Unlock()

	next := step(w.sel)
	if next == w.sel {
		return nil
	}
	prevTab := w.sel.Tab
	w.sel = next
	if next.Tab == prevTab {
		return nil
	}

	if w.panel != nil {
		w.panel.Unmount()
		w.panel = nil
	}
	spec, ok := w.store.registry.Resolve(next.Tab)
	if !ok {
		return nil
	}
	w.panel = w.store.mount(w.ID, spec)
	return w.panel
}

// Restart returns to the initial selection, as on a full page load.
func (w *Workspace) Restart() {
	initial := w.store.nav.Initial()
	w.Navigate(func(nav.Selection) nav.Selection { return initial })
}

// Attach marks an open update stream, which keeps the workspace from being
// swept. Call the returned function when the stream ends.
func (w *Workspace) Attach() func() {
	w.streams.Add(1)
	return func() {
		w.streams.Add(-1)
		w.lastSeen.Store(w.store.now().UnixNano())
	}
}

func (w *Workspace) close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.panel != nil {
		w.panel.Unmount()
		w.panel = nil
	}
}
