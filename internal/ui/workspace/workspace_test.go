package workspace

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/watermgmt/internal/nav"
	"github.com/leapstack-labs/watermgmt/internal/testutil"
)

// offline fails every backend call; these tests never Init a panel.
type offline struct{}

func (offline) GetJSON(context.Context, string, string, any) error {
	return errors.New("offline")
}

func (offline) PostJSON(context.Context, string, string, any, any) error {
	return errors.New("offline")
}

type fixedBackend string

func (b fixedBackend) BackendFor(string, string) string { return string(b) }

func newTestStore(t *testing.T, now *time.Time) *Store {
	t.Helper()
	s := NewStore(Config{
		Sessions:    sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!")),
		Client:      offline{},
		Backends:    fixedBackend("west"),
		Logger:      testutil.NewTestLogger(t),
		IdleTimeout: time.Minute,
		Now:         func() time.Time { return *now },
	})
	t.Cleanup(s.Close)
	return s
}

func TestStore_GetSetsCookieAndReusesWorkspace(t *testing.T) {
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	s := newTestStore(t, &now)

	rec := httptest.NewRecorder()
	ws, err := s.Get(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, nav.Selection{Category: "wsd", Tab: nav.HomeTab}, ws.Selection())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionName, cookies[0].Name)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	again, err := s.Get(rec, req)
	require.NoError(t, err)
	assert.Same(t, ws, again)
	assert.Empty(t, rec.Result().Cookies(), "existing session must not be rewritten")

	other, err := s.Get(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.NotEqual(t, ws.ID, other.ID)
	assert.Equal(t, 2, s.Len())
}

func TestWorkspace_NavigateMountsPanels(t *testing.T) {
	now := time.Now()
	s := newTestStore(t, &now)
	n := s.Navigator()
	ws := s.lookup("ws-1")

	assert.Nil(t, ws.Panel())

	leakage := ws.Navigate(func(sel nav.Selection) nav.Selection { return n.SelectTab(sel, "leakage") })
	require.NotNil(t, leakage)
	assert.Equal(t, "leakage", leakage.ID())
	assert.Same(t, leakage, ws.Panel())

	p, ok := ws.PanelFor("leakage")
	assert.True(t, ok)
	assert.Same(t, leakage, p)
	_, ok = ws.PanelFor("algae")
	assert.False(t, ok)

	// water-prediction is listed under two categories; switching between
	// them keeps the mounted panel
	wp := ws.Navigate(func(sel nav.Selection) nav.Selection { return n.SelectCategory(sel, "wqeh") })
	require.NotNil(t, wp)
	assert.Equal(t, "algae", wp.ID())
	assert.False(t, leakage.Mounted())

	wp = ws.Navigate(func(sel nav.Selection) nav.Selection { return n.SelectTab(sel, "water-prediction") })
	require.NotNil(t, wp)
	kept := ws.Navigate(func(sel nav.Selection) nav.Selection { return n.SelectCategory(sel, "gs") })
	assert.Nil(t, kept)
	assert.Equal(t, nav.Selection{Category: "gs", Tab: "water-prediction"}, ws.Selection())
	assert.Same(t, wp, ws.Panel())
	assert.True(t, wp.Mounted())

	// unknown tabs render the home page
	assert.Nil(t, ws.Navigate(func(sel nav.Selection) nav.Selection { return n.SelectTab(sel, "nope") }))
	assert.Nil(t, ws.Panel())
	assert.False(t, wp.Mounted())
}

func TestWorkspace_RestartUnmounts(t *testing.T) {
	now := time.Now()
	s := newTestStore(t, &now)
	ws := s.lookup("ws-1")

	p := ws.Navigate(func(sel nav.Selection) nav.Selection { return s.Navigator().QuickAccess(sel, "io") })
	require.NotNil(t, p)
	assert.Equal(t, "predictive-maintenance", p.ID())

	ws.Restart()
	assert.Equal(t, s.Navigator().Initial(), ws.Selection())
	assert.Nil(t, ws.Panel())
	assert.False(t, p.Mounted())
}

func TestStore_Sweep(t *testing.T) {
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	s := newTestStore(t, &now)

	idle := s.lookup("idle")
	p := idle.Navigate(func(sel nav.Selection) nav.Selection { return s.Navigator().SelectTab(sel, "drought") })
	require.NotNil(t, p)

	streaming := s.lookup("streaming")
	detach := streaming.Attach()

	now = now.Add(30 * time.Second)
	s.lookup("fresh")

	now = now.Add(45 * time.Second)
	assert.Equal(t, 1, s.Sweep(now))
	assert.False(t, p.Mounted())
	assert.Equal(t, 2, s.Len())

	detach()
	now = now.Add(2 * time.Minute)
	assert.Equal(t, 2, s.Sweep(now))
	assert.Equal(t, 0, s.Len())
}

func TestStore_RunStopsWithContext(t *testing.T) {
	now := time.Now()
	s := newTestStore(t, &now)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, time.Millisecond) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestStore_CloseUnmountsPanels(t *testing.T) {
	now := time.Now()
	s := newTestStore(t, &now)
	ws := s.lookup("ws-1")
	p := ws.Navigate(func(sel nav.Selection) nav.Selection { return s.Navigator().SelectTab(sel, "rainfall") })
	require.NotNil(t, p)

	s.Close()
	assert.False(t, p.Mounted())
	assert.Equal(t, 0, s.Len())
}
