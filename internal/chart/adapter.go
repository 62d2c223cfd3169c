// Package chart turns backend chart payloads into render-ready configs and
// renders them as SVG.
package chart

// Kind is a chart type.
type Kind string

// Chart kinds.
const (
	Line    Kind = "line"
	Bar     Kind = "bar"
	Pie     Kind = "pie"
	Scatter Kind = "scatter"
)

// DefaultPalette is used when a spec names no colors.
var DefaultPalette = []string{"#0F2C59", "#3D5B90", "#45B7D1", "#96CEB4", "#F59E0B", "#EF4444"}

// Spec describes how one chart presents its source.
type Spec struct {
	ID    string
	Kind  Kind
	Title string
	// DatasetLabel names a single-values dataset.
	DatasetLabel string
	// Palette colors datasets (line, scatter) or bars and slices by index.
	Palette []string
	// LabelColors colors bars and slices by label, ahead of Palette.
	LabelColors map[string]string
	XTitle      string
	YTitle      string
	BeginAtZero bool
	// YMax pins the top of the value axis when positive.
	YMax  float64
	Shape Shape
}

// Point is one scatter point.
type Point struct {
	X, Y float64
}

// Dataset is one drawn data set.
type Dataset struct {
	Label  string
	Data   []float64
	Points []Point
	// Color is the stroke color of lines and points.
	Color string
	// Colors holds one fill color per bar or slice.
	Colors []string
	Dashed bool
}

// Config is a render-ready chart.
type Config struct {
	Kind        Kind
	Title       string
	Labels      []string
	Datasets    []Dataset
	XTitle      string
	YTitle      string
	BeginAtZero bool
	YMax        float64
}

// Adapt maps src to a Config. It returns nil when there is nothing to draw.
func Adapt(spec Spec, src *Source) *Config {
	if src == nil {
		return nil
	}

	kind := spec.Kind
	if kind == "" {
		kind = Line
	}
	title := src.Title
	if title == "" {
		title = spec.Title
	}
	cfg := &Config{
		Kind:        kind,
		Title:       title,
		Labels:      src.Labels,
		XTitle:      spec.XTitle,
		YTitle:      spec.YTitle,
		BeginAtZero: spec.BeginAtZero,
		YMax:        spec.YMax,
	}

	switch kind {
	case Scatter:
		if len(src.X) == 0 || len(src.X) != len(src.Y) {
			return nil
		}
		cfg.Labels = nil
		cfg.Datasets = scatterDatasets(spec, src)
	case Bar, Pie:
		if len(src.Labels) == 0 {
			return nil
		}
		values := src.Values
		if len(values) == 0 && len(src.Series) > 0 {
			values = src.Series[0].Values
		}
		if len(values) == 0 {
			return nil
		}
		cfg.Datasets = []Dataset{{
			Label:  datasetLabel(spec, src),
			Data:   values,
			Colors: labelColors(spec, src.Labels),
		}}
	default:
		if len(src.Labels) == 0 {
			return nil
		}
		if len(src.Series) > 0 {
			for i, s := range src.Series {
				cfg.Datasets = append(cfg.Datasets, Dataset{
					Label:  s.Name,
					Data:   s.Values,
					Color:  paletteColor(spec.Palette, i),
					Dashed: s.Dashed,
				})
			}
		} else if len(src.Values) > 0 {
			cfg.Datasets = []Dataset{{
				Label: datasetLabel(spec, src),
				Data:  src.Values,
				Color: paletteColor(spec.Palette, 0),
			}}
		} else {
			return nil
		}
	}
	return cfg
}

// scatterDatasets groups points by label in first-seen order.
func scatterDatasets(spec Spec, src *Source) []Dataset {
	index := make(map[string]int)
	var out []Dataset
	for i := range src.X {
		label := spec.DatasetLabel
		if i < len(src.Labels) {
			label = src.Labels[i]
		}
		j, ok := index[label]
		if !ok {
			j = len(out)
			index[label] = j
			color := spec.LabelColors[label]
			if color == "" {
				color = paletteColor(spec.Palette, j)
			}
			out = append(out, Dataset{Label: label, Color: color})
		}
		out[j].Points = append(out[j].Points, Point{X: src.X[i], Y: src.Y[i]})
	}
	return out
}

func datasetLabel(spec Spec, src *Source) string {
	if spec.DatasetLabel != "" {
		return spec.DatasetLabel
	}
	if len(src.Series) > 0 && src.Series[0].Name != "" {
		return src.Series[0].Name
	}
	return spec.Title
}

func labelColors(spec Spec, labels []string) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		if c, ok := spec.LabelColors[l]; ok {
			out[i] = c
			continue
		}
		out[i] = paletteColor(spec.Palette, i)
	}
	return out
}

func paletteColor(palette []string, i int) string {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	return palette[i%len(palette)]
}
