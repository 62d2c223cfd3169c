package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.OutputFormat {
	case OutputText, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("invalid output format %q (use text, json or yaml)", c.OutputFormat)
	}
	if ui := c.GetUIConfig(); ui.Port < 1 || ui.Port > 65535 {
		return fmt.Errorf("ui.port %d is out of range", ui.Port)
	}
	if c.HTTP.Timeout < 0 {
		return fmt.Errorf("http.timeout must not be negative")
	}
	if err := c.EndpointConfig().Validate(); err != nil {
		return fmt.Errorf("invalid endpoint configuration: %w\nHint: check the backends and panels sections of %s", err, ConfigFileName)
	}
	return nil
}

// ParseLogLevel maps a config log level to a slog level.
// Empty means info.
func ParseLogLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid log_level %q (use debug, info, warn or error)", s)
	}
	return l, nil
}
