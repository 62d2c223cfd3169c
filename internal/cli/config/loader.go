package config

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	sharedcfg "github.com/leapstack-labs/watermgmt/internal/config"
)

// loggerKey is used to store logger in context.
// This key is shared with root.go via both using the same type.
type loggerKey struct{}

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config // Stores the loaded config for access by commands
)

// configNames are the file names looked up, in order.
var configNames = []string{ConfigFileName, "watermgmt.yml"}

// configIn returns the config file in dir, or "".
func configIn(dir string) string {
	for _, name := range configNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// findConfigUpward searches upward from startDir for a config file.
// Returns empty string if not found within maxUpwardSearchLevels.
func findConfigUpward(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if p := configIn(dir); p != "" {
			return p
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}
	return ""
}

// findConfigFile finds the config file to use.
// Priority: explicit path > watermgmt.yaml/.yml in CWD or a parent directory.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return findConfigUpward(cwd)
}

// defaults is the lowest configuration layer.
func defaults() map[string]any {
	d := map[string]any{
		"log_level":         DefaultLogLevel,
		"verbose":           false,
		"output":            DefaultOutput,
		"ui.port":           DefaultPort,
		"ui.auto_open":      true,
		"ui.watch":          true,
		"ui.session_secret": DefaultSessionSecret,
		"ui.idle_timeout":   DefaultIdleTimeout.String(),
		"ui.secure_cookie":  false,
		"http.timeout":      DefaultHTTPTimeout.String(),
	}
	for name, origin := range sharedcfg.DefaultBackends() {
		d["backends."+name] = origin
	}
	return d
}

// envKey transforms WATERMGMT_UI__PORT into ui.port.
// A double underscore separates levels, so single underscores survive in
// keys like log_level.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// flagKeys maps persistent flags to config keys where the names differ.
var flagKeys = map[string]string{
	"log-level": "log_level",
}

// load fills kk from defaults, the config file, the environment and flags,
// in increasing priority. It returns the config file used, if any.
func load(kk *koanf.Koanf, cfgFile string, flags *pflag.FlagSet) (string, error) {
	// 1. Load defaults
	if err := kk.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return "", fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	used := findConfigFile(cfgFile)
	if used != "" {
		if err := kk.Load(file.Provider(used), yaml.Parser()); err != nil {
			return "", fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Load environment variables (WATERMGMT_ prefix)
	if err := kk.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return "", fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := kk.Load(posflag.ProviderWithFlag(flags, ".", kk, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return "", fmt.Errorf("failed to load flags: %w", err)
		}
	}
	return used, nil
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	// Reset koanf for fresh load
	k = koanf.New(".")

	used, err := load(k, cfgFile, flags)
	if err != nil {
		return nil, err
	}
	configFileUsed = used

	cfg, err := decode(k)
	if err != nil {
		return nil, err
	}

	// Store config for access by commands
	currentConfig = cfg
	return cfg, nil
}

// LoadEndpoints re-reads only the endpoint map from cfgFile and the
// environment. The UI server calls it when the config file changes; the
// package-level configuration is left alone.
func LoadEndpoints(cfgFile string) (*sharedcfg.Endpoints, error) {
	kk := koanf.New(".")
	if _, err := load(kk, cfgFile, nil); err != nil {
		return nil, err
	}
	cfg, err := decode(kk)
	if err != nil {
		return nil, err
	}
	return cfg.Endpoints(), nil
}

func decode(kk *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := kk.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if cfg.Verbose {
		cfg.LogLevel = "debug"
	}

	// Expand environment variables in values that commonly hold secrets or hosts
	cfg.Backends = maps.Clone(cfg.Backends)
	for name, origin := range cfg.Backends {
		cfg.Backends[name] = expandEnvVars(origin)
	}
	if cfg.UI != nil {
		cfg.UI.SessionSecret = expandEnvVars(cfg.UI.SessionSecret)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
// This is available after LoadConfig is called.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR}
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // Return original if not found
	})
}
