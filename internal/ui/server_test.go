package ui

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/watermgmt/internal/backend"
	"github.com/leapstack-labs/watermgmt/internal/config"
	"github.com/leapstack-labs/watermgmt/internal/testutil"
)

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	fake := testutil.NewBackend(t)
	if cfg.Live == nil {
		cfg.Live = config.NewLive(fake.Endpoints())
	}
	cfg.Logger = testutil.NewTestLogger(t)
	cfg.SessionSecret = "test-secret-key-32-bytes-long!!"
	cfg.Client = backend.NewClient(cfg.Live, backend.Options{Timeout: 5 * time.Second})
	return NewServer(cfg)
}

func get(t *testing.T, c *http.Client, url string) (*http.Response, string) {
	t.Helper()
	resp, err := c.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestServer_Routes(t *testing.T) {
	s := newTestServer(t, Config{})
	h, err := s.Handler()
	require.NoError(t, err)
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar, Timeout: 10 * time.Second}

	resp, body := get(t, client, ts.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Quick Access")
	assert.Contains(t, body, "/static/app.css")

	resp, body = get(t, client, ts.URL+"/static/app.css")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Cache-Control"), "immutable")
	assert.Contains(t, body, ".topbar")

	resp, err = client.Post(ts.URL+"/nav/category/ced", "application/json", nil)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), `data-panel="weather"`)
	assert.Equal(t, 1, s.store.Len(), "the cookie keeps one workspace across requests")
}

func TestServer_SessionCookie(t *testing.T) {
	tests := []struct {
		name   string
		secure bool
	}{
		{name: "plain http", secure: false},
		{name: "behind https", secure: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, Config{SecureCookie: tt.secure})
			h, err := s.Handler()
			require.NoError(t, err)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			cookies := rec.Result().Cookies()
			require.Len(t, cookies, 1)
			assert.True(t, cookies[0].HttpOnly)
			assert.Equal(t, tt.secure, cookies[0].Secure)
		})
	}
}

func TestServer_PlainHTTPKeepsWorkspace(t *testing.T) {
	s := newTestServer(t, Config{})
	h, err := s.Handler()
	require.NoError(t, err)
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar, Timeout: 10 * time.Second}

	get(t, client, ts.URL+"/")
	get(t, client, ts.URL+"/")
	assert.Equal(t, 1, s.store.Len(), "the browser resends its session cookie over http")
}

func TestServer_Reload(t *testing.T) {
	next := config.NewEndpoints(&config.EndpointConfig{
		Backends: map[string]string{"local": "http://reloaded.example.test"},
	})
	s := newTestServer(t, Config{
		Reload: func() (*config.Endpoints, error) { return next, nil },
	})
	updates := s.Notifier().Subscribe("any-session")
	defer s.Notifier().Unsubscribe(updates)

	require.NoError(t, s.Reload())

	u, err := s.live.URL("local", "/models")
	require.NoError(t, err)
	assert.Equal(t, "http://reloaded.example.test/models", u)
	select {
	case <-updates:
	default:
		t.Fatal("open pages were not told to re-render")
	}
}

func TestServer_ReloadErrorKeepsEndpoints(t *testing.T) {
	s := newTestServer(t, Config{
		Reload: func() (*config.Endpoints, error) { return nil, errors.New("bad yaml") },
	})
	before := s.live.Load()

	assert.EqualError(t, s.Reload(), "bad yaml")
	assert.Same(t, before, s.live.Load())
}

func TestServer_ServeWatchesConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "watermgmt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backends: {}\n"), 0o600))

	var reloads atomic.Int32
	s := newTestServer(t, Config{
		Watch:      true,
		ConfigPath: path,
		Reload: func() (*config.Endpoints, error) {
			reloads.Add(1)
			return config.DefaultEndpoints(), nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()

	// rewrite until the watcher is up and has seen a change
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("backends: {}\n"), 0o600)
		return reloads.Load() > 0
	}, 5*time.Second, 150*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Serve did not stop")
	}
}
