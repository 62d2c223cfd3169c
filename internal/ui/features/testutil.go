// Package features provides shared test utilities for UI feature tests.
package features

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/watermgmt/internal/backend"
	"github.com/leapstack-labs/watermgmt/internal/config"
	"github.com/leapstack-labs/watermgmt/internal/nav"
	"github.com/leapstack-labs/watermgmt/internal/panel/catalog"
	"github.com/leapstack-labs/watermgmt/internal/testutil"
	"github.com/leapstack-labs/watermgmt/internal/ui/features/shell"
	"github.com/leapstack-labs/watermgmt/internal/ui/notifier"
	"github.com/leapstack-labs/watermgmt/internal/ui/workspace"
)

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Backend  *testutil.Backend
	Store    *workspace.Store
	Renderer *shell.Renderer
	Notifier *notifier.Notifier

	// Cookie is the session cookie of the fixture's browser, set by the
	// first request made through Do.
	Cookie *http.Cookie

	t *testing.T
}

// SetupTestFixture creates a workspace store whose backends all point at a
// fake prediction server.
func SetupTestFixture(t *testing.T) *TestFixture {
	t.Helper()

	logger := testutil.NewTestLogger(t)
	fake := testutil.NewBackend(t)
	live := config.NewLive(fake.Endpoints())
	client := backend.NewClient(live, backend.Options{Timeout: 5 * time.Second, Logger: logger})

	navigator := nav.NewNavigator(nav.Default)
	store := workspace.NewStore(workspace.Config{
		Sessions:  NewTestSessionStore(),
		Registry:  catalog.Default(),
		Navigator: navigator,
		Client:    client,
		Backends:  live,
		Logger:    logger,
	})
	t.Cleanup(store.Close)

	return &TestFixture{
		Backend:  fake,
		Store:    store,
		Renderer: shell.NewRenderer(navigator, catalog.Home()),
		Notifier: notifier.New(),
		t:        t,
	}
}

// Do serves req with handler, carrying the fixture's session cookie, and
// returns the recorder. The cookie set by the first response is kept.
func (f *TestFixture) Do(handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	f.t.Helper()
	if f.Cookie != nil {
		req.AddCookie(f.Cookie)
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	if f.Cookie == nil {
		for _, c := range rec.Result().Cookies() {
			if c.Name == workspace.SessionName {
				f.Cookie = c
			}
		}
	}
	return rec
}

// Workspace returns the fixture browser's workspace.
func (f *TestFixture) Workspace() *workspace.Workspace {
	f.t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if f.Cookie != nil {
		req.AddCookie(f.Cookie)
	}
	rec := httptest.NewRecorder()
	ws, err := f.Store.Get(rec, req)
	require.NoError(f.t, err)
	if f.Cookie == nil {
		for _, c := range rec.Result().Cookies() {
			if c.Name == workspace.SessionName {
				f.Cookie = c
			}
		}
	}
	return ws
}

// SignalsRequest builds a datastar POST carrying signals as its JSON body.
func SignalsRequest(t *testing.T, path string, signals any) *http.Request {
	t.Helper()
	if signals == nil {
		signals = map[string]any{}
	}
	body, err := json.Marshal(signals)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Datastar-Request", "true")
	return req
}

// RequestWithPathParam wraps a request with chi URL params.
func RequestWithPathParam(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
}
