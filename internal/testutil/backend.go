package testutil

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/leapstack-labs/watermgmt/internal/config"
)

// Call records one request received by a Backend.
type Call struct {
	Method string
	Path   string
	Body   map[string]any
}

// Backend is an httptest server standing in for every prediction backend.
// Unregistered routes answer 404 with an error body.
type Backend struct {
	Server *httptest.Server

	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	calls  []Call
}

// NewBackend starts a fake backend that is closed when the test ends.
func NewBackend(t testing.TB) *Backend {
	t.Helper()
	b := &Backend{routes: make(map[string]http.HandlerFunc)}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Server.Close)
	return b
}

// Handle registers h for method and path.
func (b *Backend) Handle(method, path string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[method+" "+path] = h
}

// JSON registers a route answering with status and body encoded as JSON.
func (b *Backend) JSON(method, path string, status int, body any) {
	b.Handle(method, path, func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, status, body)
	})
}

// Calls returns the recorded requests for method and path.
func (b *Backend) Calls(method, path string) []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Call
	for _, c := range b.calls {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

// Endpoints maps every built-in backend name to this server.
func (b *Backend) Endpoints() *config.Endpoints {
	backends := make(map[string]string)
	for name := range config.DefaultBackends() {
		backends[name] = b.Server.URL
	}
	return config.NewEndpoints(&config.EndpointConfig{Backends: backends})
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	call := Call{Method: r.Method, Path: r.URL.Path}
	if data, err := io.ReadAll(r.Body); err == nil && len(data) > 0 {
		_ = json.Unmarshal(data, &call.Body)
		r.Body = io.NopCloser(bytes.NewReader(data))
	}

	b.mu.Lock()
	b.calls = append(b.calls, call)
	h, ok := b.routes[r.Method+" "+r.URL.Path]
	b.mu.Unlock()

	if !ok {
		WriteJSON(w, http.StatusNotFound, map[string]string{"error": "no route " + r.URL.Path})
		return
	}
	h(w, r)
}

// WriteJSON writes body as a JSON response.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
