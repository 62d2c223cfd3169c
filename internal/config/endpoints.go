package config

import (
	"maps"
	"net/url"
	"slices"
	"strings"
	"sync/atomic"
)

// Endpoints is an immutable, resolved view of an EndpointConfig.
type Endpoints struct {
	backends map[string]string
	panels   map[string]string
}

// NewEndpoints resolves cfg. Missing built-in backends get their defaults.
func NewEndpoints(cfg *EndpointConfig) *Endpoints {
	c := EndpointConfig{}
	if cfg != nil {
		c.Backends = maps.Clone(cfg.Backends)
		c.Panels = cfg.Panels
	}
	ApplyDefaults(&c)

	e := &Endpoints{
		backends: make(map[string]string, len(c.Backends)),
		panels:   make(map[string]string, len(c.Panels)),
	}
	for name, origin := range c.Backends {
		e.backends[name] = strings.TrimRight(origin, "/")
	}
	for id, p := range c.Panels {
		if p.Backend != "" {
			e.panels[id] = p.Backend
		}
	}
	return e
}

// DefaultEndpoints returns the built-in endpoint map.
func DefaultEndpoints() *Endpoints {
	return NewEndpoints(nil)
}

// BaseURL returns the origin configured for backend.
func (e *Endpoints) BaseURL(backend string) (string, error) {
	origin, ok := e.backends[backend]
	if !ok {
		return "", &UnknownBackendError{Name: backend, Available: e.Names()}
	}
	return origin, nil
}

// URL joins the backend origin with path.
func (e *Endpoints) URL(backend, path string) (string, error) {
	origin, err := e.BaseURL(backend)
	if err != nil {
		return "", err
	}
	return url.JoinPath(origin, path)
}

// BackendFor returns the backend a panel should use, or fallback when the
// panel has no override.
func (e *Endpoints) BackendFor(panelID, fallback string) string {
	if b, ok := e.panels[panelID]; ok {
		return b
	}
	return fallback
}

// Names returns the configured backend names, sorted.
func (e *Endpoints) Names() []string {
	return slices.Sorted(maps.Keys(e.backends))
}

// Live holds the current Endpoints and lets a config reload swap them
// while requests are resolving URLs.
type Live struct {
	p atomic.Pointer[Endpoints]
}

// NewLive returns a Live seeded with e.
func NewLive(e *Endpoints) *Live {
	l := &Live{}
	l.Store(e)
	return l
}

// Load returns the current endpoints.
func (l *Live) Load() *Endpoints {
	if e := l.p.Load(); e != nil {
		return e
	}
	return DefaultEndpoints()
}

// Store replaces the current endpoints.
func (l *Live) Store(e *Endpoints) {
	l.p.Store(e)
}

// URL resolves against the current endpoints.
func (l *Live) URL(backend, path string) (string, error) {
	return l.Load().URL(backend, path)
}

// BackendFor resolves against the current endpoints.
func (l *Live) BackendFor(panelID, fallback string) string {
	return l.Load().BackendFor(panelID, fallback)
}
