package chart

import (
	"errors"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Default render size in pixels.
const (
	DefaultWidth  = 640
	DefaultHeight = 320
)

// maxTicks bounds the category labels drawn on the x axis.
const maxTicks = 10

// ErrEmpty is returned when asked to render a nil config.
var ErrEmpty = errors.New("chart: nothing to render")

// RenderSVG draws cfg as SVG. A zero width or height uses the defaults.
func RenderSVG(w io.Writer, cfg *Config, width, height int) error {
	if cfg == nil || len(cfg.Datasets) == 0 {
		return ErrEmpty
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	switch cfg.Kind {
	case Bar:
		return renderBar(w, cfg, width, height)
	case Pie:
		return renderPie(w, cfg, width, height)
	case Scatter:
		return renderScatter(w, cfg, width, height)
	default:
		return renderLine(w, cfg, width, height)
	}
}

func renderLine(w io.Writer, cfg *Config, width, height int) error {
	n := 0
	var series []gochart.Series
	for _, ds := range cfg.Datasets {
		if len(ds.Data) == 0 {
			continue
		}
		xs := make([]float64, len(ds.Data))
		for i := range xs {
			xs[i] = float64(i)
		}
		style := gochart.Style{
			StrokeWidth: 2,
			StrokeColor: color(ds.Color),
			DotWidth:    2.5,
			DotColor:    color(ds.Color),
		}
		if len(ds.Data) == 1 {
			style.DotWidth = 5
		}
		if ds.Dashed {
			style.StrokeDashArray = []float64{6, 4}
		}
		series = append(series, gochart.ContinuousSeries{
			Name:    ds.Label,
			XValues: xs,
			YValues: ds.Data,
			Style:   style,
		})
		n = max(n, len(ds.Data))
	}
	if len(series) == 0 {
		return ErrEmpty
	}

	lo, hi := 0.0, float64(n-1)
	if n == 1 {
		// one sample sits centred on a padded axis
		lo, hi = -1, 1
	}

	ch := gochart.Chart{
		Title:      cfg.Title,
		Width:      width,
		Height:     height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: gochart.XAxis{
			Name:  cfg.XTitle,
			Range: &gochart.ContinuousRange{Min: lo, Max: hi},
			Ticks: spanTicks(categoryTicks(cfg.Labels, n), lo, hi),
		},
		YAxis: gochart.YAxis{
			Name:  cfg.YTitle,
			Range: valueRange(cfg),
		},
		Series: series,
	}
	if len(series) > 1 {
		ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}
	}
	return ch.Render(gochart.SVG, w)
}

func renderScatter(w io.Writer, cfg *Config, width, height int) error {
	var (
		series                 []gochart.Series
		minX, maxX, minY, maxY = math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)
	)
	for _, ds := range cfg.Datasets {
		if len(ds.Points) == 0 {
			continue
		}
		xs := make([]float64, len(ds.Points))
		ys := make([]float64, len(ds.Points))
		for i, p := range ds.Points {
			xs[i], ys[i] = p.X, p.Y
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
		series = append(series, gochart.ContinuousSeries{
			Name:    ds.Label,
			XValues: xs,
			YValues: ys,
			Style: gochart.Style{
				StrokeWidth: gochart.Disabled,
				DotWidth:    4,
				DotColor:    color(ds.Color),
			},
		})
	}
	if len(series) == 0 {
		return ErrEmpty
	}

	ch := gochart.Chart{
		Title:      cfg.Title,
		Width:      width,
		Height:     height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      gochart.XAxis{Name: cfg.XTitle, Range: padRange(minX, maxX)},
		YAxis:      gochart.YAxis{Name: cfg.YTitle, Range: padRange(minY, maxY)},
		Series:     series,
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}
	return ch.Render(gochart.SVG, w)
}

func renderBar(w io.Writer, cfg *Config, width, height int) error {
	ds := cfg.Datasets[0]
	bars := make([]gochart.Value, 0, len(ds.Data))
	for i, v := range ds.Data {
		label := ""
		if i < len(cfg.Labels) {
			label = cfg.Labels[i]
		}
		fill := paletteColor(nil, i)
		if i < len(ds.Colors) {
			fill = ds.Colors[i]
		}
		bars = append(bars, gochart.Value{
			Label: label,
			Value: v,
			Style: gochart.Style{FillColor: color(fill), StrokeColor: color(fill)},
		})
	}
	if len(bars) == 0 {
		return ErrEmpty
	}

	barWidth := (width - 80) / (2 * len(bars))
	bc := gochart.BarChart{
		Title:      cfg.Title,
		Width:      width,
		Height:     height,
		BarWidth:   max(barWidth, 4),
		Background: gochart.Style{Padding: gochart.Box{Top: 40}},
		XAxis:      gochart.Shown(),
		YAxis: gochart.YAxis{
			Name:  cfg.YTitle,
			Range: valueRange(cfg),
		},
		Bars: bars,
	}
	return bc.Render(gochart.SVG, w)
}

func renderPie(w io.Writer, cfg *Config, width, height int) error {
	ds := cfg.Datasets[0]
	values := make([]gochart.Value, 0, len(ds.Data))
	total := 0.0
	for i, v := range ds.Data {
		if v <= 0 {
			continue
		}
		label := ""
		if i < len(cfg.Labels) {
			label = cfg.Labels[i]
		}
		fill := paletteColor(nil, i)
		if i < len(ds.Colors) {
			fill = ds.Colors[i]
		}
		values = append(values, gochart.Value{
			Label: label,
			Value: v,
			Style: gochart.Style{FillColor: color(fill)},
		})
		total += v
	}
	if total == 0 {
		return ErrEmpty
	}

	pc := gochart.PieChart{
		Title:  cfg.Title,
		Width:  width,
		Height: height,
		Values: values,
	}
	return pc.Render(gochart.SVG, w)
}

// valueRange fixes the value axis so flat or single-point data still renders.
func valueRange(cfg *Config) *gochart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, ds := range cfg.Datasets {
		for _, v := range ds.Data {
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) {
		lo, hi = 0, 1
	}
	if cfg.BeginAtZero || cfg.Kind == Bar {
		lo = math.Min(lo, 0)
	}
	if cfg.YMax > 0 {
		hi = cfg.YMax
	}
	if hi <= lo {
		hi = lo + 1
	}
	return &gochart.ContinuousRange{Min: lo, Max: hi}
}

func padRange(lo, hi float64) *gochart.ContinuousRange {
	if hi <= lo {
		return &gochart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}
	pad := (hi - lo) * 0.05
	return &gochart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

// categoryTicks places at most maxTicks labels along an index axis.
func categoryTicks(labels []string, n int) []gochart.Tick {
	if len(labels) == 0 || n == 0 {
		return nil
	}
	n = min(n, len(labels))
	step := int(math.Ceil(float64(n) / maxTicks))
	ticks := make([]gochart.Tick, 0, maxTicks+1)
	for i := 0; i < n; i += step {
		ticks = append(ticks, gochart.Tick{Value: float64(i), Label: shorten(labels[i])})
	}
	return ticks
}

// spanTicks adds unlabelled ticks at lo and hi. go-chart derives the x range
// from the ticks whenever any are set.
func spanTicks(ticks []gochart.Tick, lo, hi float64) []gochart.Tick {
	if len(ticks) == 0 {
		return nil
	}
	if ticks[0].Value > lo {
		ticks = append([]gochart.Tick{{Value: lo}}, ticks...)
	}
	if ticks[len(ticks)-1].Value < hi {
		ticks = append(ticks, gochart.Tick{Value: hi})
	}
	return ticks
}

func shorten(s string) string {
	const limit = 16
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}

// color parses #rrggbb. Anything else is the default navy.
func color(hex string) drawing.Color {
	h := strings.TrimPrefix(hex, "#")
	if len(h) != 6 {
		return drawing.ColorFromHex("0F2C59")
	}
	return drawing.ColorFromHex(h)
}

// Placeholder writes a small SVG used when a chart cannot be rendered.
func Placeholder(w io.Writer, width, height int, text string) {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:#F3F4F6")
	canvas.Text(width/2, height/2, text, "text-anchor:middle;fill:#6B7280;font-family:sans-serif;font-size:14px")
	canvas.End()
}
