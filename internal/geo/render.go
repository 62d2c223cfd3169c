package geo

import (
	"fmt"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"
)

// View is the visible map window: a center and the longitude span in degrees.
type View struct {
	Center LatLon
	Span   float64
}

// WorldView shows the whole globe.
var WorldView = View{Center: WorldCenter, Span: 360}

// minSpan keeps a single marker from filling the canvas.
const minSpan = 0.5

// Fit centers the view on the markers' centroid and spans their extent.
// With no markers it shows fallback at span.
func Fit(markers []Marker, fallback LatLon, span float64) View {
	points := make([]Point, len(markers))
	for i, m := range markers {
		points[i] = m.Point
	}
	c := Center(points, fallback)
	if len(markers) == 0 {
		return View{Center: c, Span: span}
	}

	extent := 0.0
	for _, p := range points {
		extent = math.Max(extent, 2*math.Abs(p.Lon-c.Lon))
		extent = math.Max(extent, 4*math.Abs(p.Lat-c.Lat))
	}
	return View{Center: c, Span: math.Min(math.Max(extent*1.4, minSpan), 360)}
}

// RenderSVG draws markers on an equirectangular canvas. Each marker carries
// a <title> popup with its label and attributes.
func RenderSVG(w io.Writer, markers []Marker, view View, legend Palette, width, height int) {
	if view.Span <= 0 {
		view.Span = 360
	}
	scale := float64(width) / view.Span
	project := func(lat, lon float64) (int, int) {
		x := float64(width)/2 + (lon-view.Center.Lon)*scale
		y := float64(height)/2 - (lat-view.Center.Lat)*scale
		return int(math.Round(x)), int(math.Round(y))
	}

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:#DBEAFE")

	step := gridStep(view.Span)
	for lon := -180.0; lon <= 180; lon += step {
		x1, y1 := project(90, lon)
		x2, y2 := project(-90, lon)
		canvas.Line(x1, y1, x2, y2, "stroke:#BFDBFE;stroke-width:1")
	}
	for lat := -90.0; lat <= 90; lat += step {
		x1, y1 := project(lat, -180)
		x2, y2 := project(lat, 180)
		canvas.Line(x1, y1, x2, y2, "stroke:#BFDBFE;stroke-width:1")
	}
	ex1, ey := project(0, -180)
	ex2, _ := project(0, 180)
	canvas.Line(ex1, ey, ex2, ey, "stroke:#93C5FD;stroke-width:1.5")

	for _, m := range markers {
		x, y := project(m.Lat, m.Lon)
		canvas.Group(`class="marker"`)
		canvas.Title(strings.Join(m.Popup(), "\n"))
		canvas.Circle(x, y, 7, fmt.Sprintf("fill:%s;fill-opacity:0.85;stroke:#FFFFFF;stroke-width:2", m.Color))
		canvas.Gend()
	}

	if len(legend.Order) > 0 {
		drawLegend(canvas, legend, height)
	}
	canvas.End()
}

func drawLegend(canvas *svg.SVG, legend Palette, height int) {
	rowH := 18
	boxH := rowH*len(legend.Order) + 12
	y := height - boxH - 10
	canvas.Roundrect(10, y, 130, boxH, 6, 6, "fill:#FFFFFF;fill-opacity:0.9;stroke:#D1D5DB")
	for i, status := range legend.Order {
		cy := y + 15 + i*rowH
		canvas.Circle(24, cy, 6, "fill:"+legend.Color(status))
		canvas.Text(36, cy+4, status, "fill:#374151;font-size:12px;font-family:sans-serif")
	}
}

func gridStep(span float64) float64 {
	switch {
	case span > 90:
		return 30
	case span > 20:
		return 10
	case span > 5:
		return 2
	case span > 1:
		return 0.5
	default:
		return 0.1
	}
}
