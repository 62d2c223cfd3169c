package commands

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/watermgmt/internal/cli/config"
)

// newTable returns a table writer mirrored to w in the CLI's style.
func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// renderStructured writes v as JSON or YAML. It reports false for text
// output so the caller renders its table.
func renderStructured(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case config.OutputJSON:
		return true, renderJSON(w, v)
	case config.OutputYAML:
		return true, renderYAML(w, v)
	case config.OutputText, "":
		return false, nil
	default:
		return true, fmt.Errorf("unsupported output format %q", format)
	}
}
