// Package config provides the endpoint configuration shared by the CLI,
// the UI server and the backend client.
// It is decoupled from CLI concerns so the server can re-resolve endpoints
// when the config file changes.
package config

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"
)

// PanelConfig holds per-panel overrides.
type PanelConfig struct {
	Backend string `koanf:"backend"`
}

// EndpointConfig maps backend names to origins and panels to backends.
type EndpointConfig struct {
	Backends map[string]string      `koanf:"backends"`
	Panels   map[string]PanelConfig `koanf:"panels"`
}

// UnknownBackendError is returned when a backend name has no configured origin.
type UnknownBackendError struct {
	Name      string
	Available []string
}

func (e *UnknownBackendError) Error() string {
	return fmt.Sprintf("unknown backend %q (available: %s)", e.Name, strings.Join(e.Available, ", "))
}

// Validate checks that every origin is an absolute http(s) URL and every
// panel override names a configured backend.
func (c *EndpointConfig) Validate() error {
	for _, name := range slices.Sorted(maps.Keys(c.Backends)) {
		raw := c.Backends[name]
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("backend %s: invalid url %q: %w", name, raw, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("backend %s: url %q must use http or https", name, raw)
		}
		if u.Host == "" {
			return fmt.Errorf("backend %s: url %q has no host", name, raw)
		}
	}
	for _, id := range slices.Sorted(maps.Keys(c.Panels)) {
		b := c.Panels[id].Backend
		if b == "" {
			continue
		}
		if _, ok := c.Backends[b]; !ok {
			return fmt.Errorf("panel %s: %w", id, &UnknownBackendError{
				Name:      b,
				Available: slices.Sorted(maps.Keys(c.Backends)),
			})
		}
	}
	return nil
}
