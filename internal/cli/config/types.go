// Package config provides configuration management for the watermgmt CLI.
//
// The endpoint map (backends and per-panel overrides) is defined in
// internal/config and embedded here so the UI server can re-resolve it
// without depending on the CLI.
package config

import (
	"time"

	sharedcfg "github.com/leapstack-labs/watermgmt/internal/config"
)

// PanelConfig is an alias for the shared per-panel configuration.
type PanelConfig = sharedcfg.PanelConfig

// UIConfig holds configuration for the UI server.
type UIConfig struct {
	Port          int           `koanf:"port"`
	AutoOpen      bool          `koanf:"auto_open"`
	Watch         bool          `koanf:"watch"`
	SessionSecret string        `koanf:"session_secret"`
	IdleTimeout   time.Duration `koanf:"idle_timeout"`
	// SecureCookie marks the session cookie Secure; enable it behind HTTPS.
	SecureCookie bool `koanf:"secure_cookie"`
}

// DefaultUIConfig returns a UIConfig with default values.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		Port:          DefaultPort,
		AutoOpen:      true,
		Watch:         true,
		SessionSecret: DefaultSessionSecret,
		IdleTimeout:   DefaultIdleTimeout,
	}
}

// GetUIConfig returns the UI config with defaults applied for any unset values.
func (c *Config) GetUIConfig() *UIConfig {
	if c.UI == nil {
		return DefaultUIConfig()
	}
	ui := c.UI
	if ui.Port == 0 {
		ui.Port = DefaultPort
	}
	if ui.SessionSecret == "" {
		ui.SessionSecret = DefaultSessionSecret
	}
	if ui.IdleTimeout == 0 {
		ui.IdleTimeout = DefaultIdleTimeout
	}
	return ui
}

// HTTPConfig configures the prediction backend client.
type HTTPConfig struct {
	Timeout time.Duration `koanf:"timeout"`
}

// Config holds all CLI configuration options.
type Config struct {
	LogLevel     string                 `koanf:"log_level"`
	Verbose      bool                   `koanf:"verbose"`
	OutputFormat string                 `koanf:"output"`
	UI           *UIConfig              `koanf:"ui"`
	HTTP         HTTPConfig             `koanf:"http"`
	Backends     map[string]string      `koanf:"backends"`
	Panels       map[string]PanelConfig `koanf:"panels"`
}

// EndpointConfig returns the endpoint part of the configuration.
func (c *Config) EndpointConfig() *sharedcfg.EndpointConfig {
	return &sharedcfg.EndpointConfig{
		Backends: c.Backends,
		Panels:   c.Panels,
	}
}

// Endpoints resolves the configured endpoint map.
func (c *Config) Endpoints() *sharedcfg.Endpoints {
	return sharedcfg.NewEndpoints(c.EndpointConfig())
}

// Default configuration values.
const (
	DefaultPort          = 8765
	DefaultIdleTimeout   = 30 * time.Minute
	DefaultHTTPTimeout   = 30 * time.Second
	DefaultLogLevel      = "info"
	DefaultOutput        = "text"
	DefaultSessionSecret = "watermgmt-dev-secret-change-in-production" //nolint:gosec

	// ConfigFileName is the config file looked up in the working directory.
	ConfigFileName = "watermgmt.yaml"
	// EnvPrefix prefixes environment overrides, e.g. WATERMGMT_UI__PORT.
	EnvPrefix = "WATERMGMT_"
)

// Output formats accepted by --output.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)
