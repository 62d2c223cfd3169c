package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/watermgmt/internal/nav"
)

// PanelRow describes where one dashboard tab lives and which backend serves it.
type PanelRow struct {
	Category string `json:"category" yaml:"category"`
	Tab      string `json:"tab" yaml:"tab"`
	Label    string `json:"label" yaml:"label"`
	Title    string `json:"title" yaml:"title"`
	Backend  string `json:"backend" yaml:"backend"`
	Origin   string `json:"origin" yaml:"origin"`
}

// NewPanelsCommand creates the panels command.
func NewPanelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "panels",
		Short: "List dashboard panels and their backends",
		Long: `List every category and tab of the dashboard with the prediction panel it
shows and the backend origin that panel calls, after config overrides.`,
		Example: `  # Table of panels
  watermgmt panels

  # Machine-readable output
  watermgmt panels -o json
  watermgmt panels -o yaml`,
		Args: cobra.NoArgs,
		RunE: runPanels,
	}
}

// PanelRows resolves the taxonomy against the panel registry and endpoints.
func (c *CommandContext) PanelRows() []PanelRow {
	endpoints := c.Live.Load()
	var rows []PanelRow
	for _, p := range nav.Default.Pairs() {
		row := PanelRow{Category: p.Category, Tab: p.Item.ID, Label: p.Item.Label}
		if spec, ok := c.Registry.Resolve(p.Item.ID); ok {
			row.Title = spec.Title
			row.Backend = c.backendOf(spec.ID, spec.Backend)
			if origin, err := endpoints.BaseURL(row.Backend); err == nil {
				row.Origin = origin
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func runPanels(cmd *cobra.Command, _ []string) error {
	cc := NewCommandContext(cmd)
	rows := cc.PanelRows()
	w := cmd.OutOrStdout()

	if done, err := renderStructured(w, cc.Cfg.OutputFormat, rows); done {
		return err
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Category", "Tab", "Panel", "Backend", "Origin"})
	for _, r := range rows {
		t.AppendRow(table.Row{r.Category, r.Label, r.Title, r.Backend, r.Origin})
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d tabs)\n", len(rows))
	return nil
}
