package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/watermgmt/internal/backend"
	"github.com/leapstack-labs/watermgmt/internal/cli/config"
	sharedcfg "github.com/leapstack-labs/watermgmt/internal/config"
	"github.com/leapstack-labs/watermgmt/internal/panel/catalog"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Registry *catalog.Registry
	Live     *sharedcfg.Live
	Client   *backend.Client
}

// NewCommandContext resolves the loaded configuration into the endpoint
// map and a backend client.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	live := sharedcfg.NewLive(cfg.Endpoints())

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Registry: catalog.Default(),
		Live:     live,
		Client: backend.NewClient(live, backend.Options{
			Timeout: cfg.HTTP.Timeout,
			Logger:  logger,
		}),
	}
}

// getConfig returns the loaded configuration, or defaults when a command
// runs without the root command (as in tests).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{
		LogLevel:     config.DefaultLogLevel,
		OutputFormat: config.DefaultOutput,
		UI:           config.DefaultUIConfig(),
		HTTP:         config.HTTPConfig{Timeout: config.DefaultHTTPTimeout},
		Backends:     sharedcfg.DefaultBackends(),
	}
}

// backendOf returns the backend a panel resolves to.
func (c *CommandContext) backendOf(id, fallback string) string {
	if fallback == "" {
		fallback = sharedcfg.BackendLocal
	}
	return c.Live.BackendFor(id, fallback)
}
