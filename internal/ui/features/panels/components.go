package panels

import (
	"fmt"
	"io"
	"strconv"

	"github.com/leapstack-labs/watermgmt/internal/chart"
	"github.com/leapstack-labs/watermgmt/internal/geo"
	"github.com/leapstack-labs/watermgmt/internal/panel"
	"github.com/leapstack-labs/watermgmt/internal/ui/features/common"
)

// ElementID is the id of the panel section patched by every panel action.
const ElementID = "panel"

// Map size in pixels.
const (
	mapWidth  = 800
	mapHeight = 400
)

var kindLabels = map[chart.Kind]string{
	chart.Bar:     "Bar Chart",
	chart.Line:    "Line Chart",
	chart.Pie:     "Pie Chart",
	chart.Scatter: "Scatter Plot",
}

// postTo is the click handler posting to one of v's panel routes.
func postTo(v panel.View, name string) string {
	return common.Post("/panels/" + v.Spec.ID + "/" + name)
}

func fieldID(f panel.Field) string {
	return "f-" + f.Key()
}

func fieldLabel(f panel.Field) string {
	label := f.Label
	if label == "" {
		label = panel.FeatureLabel(f.Name)
	}
	if f.Unit != "" {
		label += " (" + f.Unit + ")"
	}
	if f.Required {
		label += " *"
	}
	return label
}

func optionLabel(o panel.Option) string {
	if o.Label != "" {
		return o.Label
	}
	return inputValue(o.Value)
}

// step is the input step: explicit, whole numbers for integers and sliders,
// otherwise any.
func step(f panel.Field) string {
	switch {
	case f.Step > 0:
		return num(f.Step)
	case f.Kind == panel.KindInteger || f.Kind == panel.KindSlider:
		return "1"
	default:
		return "any"
	}
}

func headlineLabel(v panel.View) string {
	if l := v.Spec.Result.HeadlineLabel; l != "" {
		return l
	}
	return "Prediction"
}

func withIcon(v panel.View, headline string) string {
	if icon := v.Icon(); icon != "" {
		return icon + " " + headline
	}
	return headline
}

// chartSVG renders a chart or a placeholder saying why there is none.
func chartSVG(c panel.ChartView) string {
	placeholder := func(text string) string {
		out, _ := common.InlineSVG(func(w io.Writer) error {
			chart.Placeholder(w, 0, 0, text)
			return nil
		})
		return out
	}
	switch {
	case c.Config != nil:
		out, err := common.InlineSVG(func(w io.Writer) error {
			return chart.RenderSVG(w, c.Config, 0, 0)
		})
		if err != nil {
			return placeholder("Chart unavailable")
		}
		return out
	case c.Loading:
		return placeholder("Loading chart data...")
	case c.Failed:
		return placeholder("Failed to load chart data")
	default:
		return placeholder("No data available")
	}
}

func mapSVG(m *panel.MapView) string {
	svg, _ := common.InlineSVG(func(w io.Writer) error {
		geo.RenderSVG(w, m.Markers, m.View, m.Palette, mapWidth, mapHeight)
		return nil
	})
	return svg
}

func inputValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return num(x)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
