package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/watermgmt/internal/panel"
	"github.com/leapstack-labs/watermgmt/internal/panel/catalog"
)

// PredictOptions holds options for the predict command.
type PredictOptions struct {
	Set   []string
	Model string
}

// NewPredictCommand creates the predict command.
func NewPredictCommand() *cobra.Command {
	opts := &PredictOptions{}
	cmd := &cobra.Command{
		Use:   "predict <panel>",
		Short: "Run one prediction from the command line",
		Long: `Run a single prediction against a panel's backend, the same way the
dashboard does. Fields start from the panel's defaults (fetched from the
backend where the panel does that) and can be overridden with --set.`,
		Example: `  # Algae bloom risk with two overrides
  watermgmt predict algae --set temperature=30 --set ph=7.5

  # Pick a model
  watermgmt predict drought --model random_forest

  # Raw result as JSON
  watermgmt predict flood-risk -o json`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return catalog.Default().IDs(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPredict(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringArrayVar(&opts.Set, "set", nil, "Field override as name=value (repeatable)")
	cmd.Flags().StringVar(&opts.Model, "model", "", "Model to predict with")
	return cmd
}

// parseAssignments splits name=value pairs.
func parseAssignments(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --set %q: want name=value", p)
		}
		out[name] = value
	}
	return out, nil
}

// fieldName resolves a user supplied name against the field names and
// their lower-cased keys.
func fieldName(spec *panel.Spec, name string) (string, bool) {
	for _, f := range spec.Fields {
		if f.Name == name || f.Key() == strings.ToLower(name) {
			return f.Name, true
		}
	}
	return "", false
}

func runPredict(cmd *cobra.Command, id string, opts *PredictOptions) error {
	cc := NewCommandContext(cmd)
	ctx := cmd.Context()

	spec, ok := cc.Registry.Get(id)
	if !ok {
		return fmt.Errorf("unknown panel %q (see 'watermgmt panels')", id)
	}
	if spec.Endpoints.Predict == "" {
		return fmt.Errorf("panel %s has no prediction endpoint", id)
	}
	sets, err := parseAssignments(opts.Set)
	if err != nil {
		return err
	}

	p := panel.New(ctx, spec, cc.Client, panel.Options{
		Backend: cc.backendOf(spec.ID, spec.Backend),
		Logger:  cc.Logger,
	})
	defer p.Unmount()

	if err := p.Init(ctx); err != nil {
		cc.Logger.Warn("using built-in defaults", "panel", id, "error", err)
	}

	for name, value := range sets {
		field, ok := fieldName(spec, name)
		if !ok {
			return fmt.Errorf("panel %s has no field %q", id, name)
		}
		if err := p.SetField(field, value); err != nil {
			return fmt.Errorf("--set %s: %w", name, err)
		}
	}
	if opts.Model != "" {
		if !spec.HasModels() {
			return fmt.Errorf("panel %s has no model choice", id)
		}
		model := opts.Model
		if err := p.ApplySignals(nil, &model); err != nil {
			return err
		}
	}

	if err := p.Predict(ctx, nil); err != nil {
		if msg := p.Snapshot().Error; msg != "" && !errors.Is(err, panel.ErrUnmounted) {
			return fmt.Errorf("%s: %s", id, msg)
		}
		return fmt.Errorf("%s: %w", id, err)
	}

	return renderPrediction(cmd, cc.Cfg.OutputFormat, p.Snapshot())
}

func renderPrediction(cmd *cobra.Command, format string, v panel.View) error {
	w := cmd.OutOrStdout()
	if done, err := renderStructured(w, format, map[string]any(v.Result)); done {
		return err
	}

	_, _ = fmt.Fprintln(w, strings.TrimSpace(v.Icon()+" "+v.Spec.Title))
	if h := v.Headline(); h != "" {
		_, _ = fmt.Fprintln(w, h)
	}
	if items := v.Items(); len(items) > 0 {
		t := newTable(w)
		for _, it := range items {
			t.AppendRow(table.Row{it.Label, it.Value})
		}
		t.Render()
	}
	for _, line := range v.Summary {
		_, _ = fmt.Fprintln(w, line)
	}
	if cols, rows := v.TableRows(); len(rows) > 0 {
		t := newTable(w)
		header := make(table.Row, len(cols))
		for i, c := range cols {
			header[i] = c
		}
		t.AppendHeader(header)
		for _, r := range rows {
			row := make(table.Row, len(r))
			for i, cell := range r {
				row[i] = cell
			}
			t.AppendRow(row)
		}
		t.Render()
	}
	return nil
}
