package commands

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/watermgmt/internal/cli/config"
	sharedcfg "github.com/leapstack-labs/watermgmt/internal/config"
	"github.com/leapstack-labs/watermgmt/internal/ui"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port      int
	NoBrowser bool
	Watch     bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"ui"},
		Short:   "Start the water management dashboard",
		Long: `Start a local web server providing the water management dashboard.

The dashboard provides:
- Water supply, quality, hazard, groundwater, infrastructure, climate
  and governance prediction panels
- Charts and maps of the backend data
- Live endpoint reload when the config file changes`,
		Example: `  # Start the dashboard on the default port
  watermgmt serve

  # Start on a custom port
  watermgmt serve --port 3000

  # Start without auto-opening the browser
  watermgmt ui --no-browser`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, fmt.Sprintf("Port to serve on (default: %d)", config.DefaultPort))
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Reload endpoints when the config file changes")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cc := NewCommandContext(cmd)

	// Get UI config with defaults
	uiCfg := cc.Cfg.GetUIConfig()

	// CLI flags override config file
	port := uiCfg.Port
	if opts.Port != 0 {
		port = opts.Port
	}

	autoOpen := uiCfg.AutoOpen
	if opts.NoBrowser {
		autoOpen = false
	}

	watch := uiCfg.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}

	configPath := config.GetConfigFileUsed()
	server := ui.NewServer(ui.Config{
		Port:          port,
		Watch:         watch,
		SessionSecret: uiCfg.SessionSecret,
		SecureCookie:  uiCfg.SecureCookie,
		IdleTimeout:   uiCfg.IdleTimeout,
		Logger:        cc.Logger,
		Registry:      cc.Registry,
		Client:        cc.Client,
		Live:          cc.Live,
		ConfigPath:    configPath,
		Reload: func() (*sharedcfg.Endpoints, error) {
			return config.LoadEndpoints(configPath)
		},
	})

	url := fmt.Sprintf("http://localhost:%d", port)
	if autoOpen {
		go openBrowser(url)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Starting dashboard on %s\n", url)
	if configPath != "" && watch {
		_, _ = fmt.Fprintf(out, "Watching %s for endpoint changes\n", configPath)
	}
	_, _ = fmt.Fprintln(out, "Press Ctrl+C to stop")

	return server.Serve(cmd.Context())
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
