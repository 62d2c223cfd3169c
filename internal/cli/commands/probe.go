package commands

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/watermgmt/internal/backend"
	"github.com/leapstack-labs/watermgmt/internal/panel"
)

// Probe statuses.
const (
	ProbeOK   = "ok"
	ProbeFail = "fail"
	ProbeSkip = "skip"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	skipStyle = lipgloss.NewStyle().Faint(true)
)

// ProbeOptions holds options for the probe command.
type ProbeOptions struct {
	Concurrency int
}

// ProbeResult is the outcome of probing one panel's backend.
type ProbeResult struct {
	Panel   string        `json:"panel" yaml:"panel"`
	Backend string        `json:"backend" yaml:"backend"`
	Path    string        `json:"path,omitempty" yaml:"path,omitempty"`
	Status  string        `json:"status" yaml:"status"`
	Latency time.Duration `json:"latency_ns" yaml:"latency"`
	Error   string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewProbeCommand creates the probe command.
func NewProbeCommand() *cobra.Command {
	opts := &ProbeOptions{}
	cmd := &cobra.Command{
		Use:   "probe [panel...]",
		Short: "Check that every panel's backend answers",
		Long: `Issue a read-only request to each panel's backend (its model list, feature
list or first graph) and report which ones answer. Panels are probed
concurrently. The command fails when any backend is unreachable.`,
		Example: `  # Probe every panel
  watermgmt probe

  # Probe two panels
  watermgmt probe algae drought`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbe(cmd, args, opts)
		},
	}
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 4, "Maximum concurrent requests")
	return cmd
}

// probePath picks a cheap GET endpoint for spec.
func probePath(spec *panel.Spec) string {
	switch {
	case spec.Endpoints.Models != "":
		return spec.Endpoints.Models
	case spec.Endpoints.Features != "":
		return spec.Endpoints.Features
	case len(spec.Endpoints.Graphs) > 0:
		names := make([]string, 0, len(spec.Endpoints.Graphs))
		for name := range spec.Endpoints.Graphs {
			names = append(names, name)
		}
		slices.Sort(names)
		return spec.Endpoints.Graphs[names[0]]
	}
	return ""
}

// Probe checks the given specs concurrently. Results keep the order of specs.
func (c *CommandContext) Probe(ctx context.Context, specs []*panel.Spec, concurrency int) []ProbeResult {
	results := make([]ProbeResult, len(specs))
	g, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, spec := range specs {
		res := ProbeResult{
			Panel:   spec.ID,
			Backend: c.backendOf(spec.ID, spec.Backend),
			Path:    probePath(spec),
		}
		if res.Path == "" {
			res.Status = ProbeSkip
			results[i] = res
			continue
		}
		g.Go(func() error {
			start := time.Now()
			var discard any
			err := c.Client.GetJSON(ctx, res.Backend, res.Path, &discard)
			res.Latency = time.Since(start)
			res.Status = ProbeOK
			if err != nil {
				res.Status = ProbeFail
				res.Error = backend.Message(err, err.Error())
				c.Logger.Debug("probe failed", "panel", res.Panel, "error", err)
			}
			results[i] = res
			// failures are recorded, never returned
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func runProbe(cmd *cobra.Command, args []string, opts *ProbeOptions) error {
	cc := NewCommandContext(cmd)

	specs := cc.Registry.All()
	if len(args) > 0 {
		specs = specs[:0:0]
		for _, id := range args {
			spec, ok := cc.Registry.Get(id)
			if !ok {
				return fmt.Errorf("unknown panel %q (see 'watermgmt panels')", id)
			}
			specs = append(specs, spec)
		}
	}

	results := cc.Probe(cmd.Context(), specs, opts.Concurrency)
	failed := 0
	for _, r := range results {
		if r.Status == ProbeFail {
			failed++
		}
	}

	w := cmd.OutOrStdout()
	if done, err := renderStructured(w, cc.Cfg.OutputFormat, results); done {
		if err != nil {
			return err
		}
	} else {
		t := newTable(w)
		t.AppendHeader(table.Row{"Panel", "Backend", "Path", "Status", "Latency", "Error"})
		for _, r := range results {
			latency := ""
			if r.Status != ProbeSkip {
				latency = r.Latency.Round(time.Millisecond).String()
			}
			t.AppendRow(table.Row{r.Panel, r.Backend, r.Path, styleStatus(r.Status), latency, r.Error})
		}
		t.Render()
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d panels unreachable", failed, len(results))
	}
	return nil
}

func styleStatus(s string) string {
	switch s {
	case ProbeOK:
		return okStyle.Render(s)
	case ProbeFail:
		return failStyle.Render(s)
	default:
		return skipStyle.Render(s)
	}
}
