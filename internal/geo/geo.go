// Package geo turns located records into map markers and draws them.
package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// LatLon is a WGS84 coordinate in degrees.
type LatLon struct {
	Lat float64
	Lon float64
}

// Attr is one popup line.
type Attr struct {
	Key   string
	Value string
}

// Point is a located record.
type Point struct {
	Lat    float64
	Lon    float64
	Label  string
	Status string
	Attrs  []Attr
}

// Marker is a Point with its resolved color.
type Marker struct {
	Point
	Color string
}

// Popup returns the marker's popup lines.
func (m Marker) Popup() []string {
	var lines []string
	if m.Label != "" {
		lines = append(lines, m.Label)
	}
	for _, a := range m.Attrs {
		lines = append(lines, a.Key+": "+a.Value)
	}
	return lines
}

// Palette maps a status to a color.
type Palette struct {
	Colors  map[string]string
	Order   []string
	Default string
}

// Color returns the color for status, matching case-insensitively.
func (p Palette) Color(status string) string {
	if c, ok := p.Colors[status]; ok {
		return c
	}
	for k, c := range p.Colors {
		if strings.EqualFold(k, status) {
			return c
		}
	}
	if p.Default != "" {
		return p.Default
	}
	return "#6B7280"
}

// Center returns the centroid of points, or fallback when there are none.
func Center(points []Point, fallback LatLon) LatLon {
	if len(points) == 0 {
		return fallback
	}
	lats := make([]float64, len(points))
	lons := make([]float64, len(points))
	for i, p := range points {
		lats[i], lons[i] = p.Lat, p.Lon
	}
	return LatLon{Lat: stat.Mean(lats, nil), Lon: stat.Mean(lons, nil)}
}

// Markers resolves one marker per point.
func Markers(points []Point, palette Palette) []Marker {
	out := make([]Marker, len(points))
	for i, p := range points {
		out[i] = Marker{Point: p, Color: palette.Color(p.Status)}
	}
	return out
}

// Keys names the record fields Decode reads.
type Keys struct {
	Lat    string
	Lon    string
	Status string
	Label  string
	Attrs  []string
}

// Decode reads a list of records into points. Rows without a numeric
// latitude and longitude are skipped.
func Decode(raw any, keys Keys) []Point {
	rows, ok := raw.([]any)
	if !ok {
		return nil
	}
	if keys.Lat == "" {
		keys.Lat = "lat"
	}
	if keys.Lon == "" {
		keys.Lon = "lon"
	}

	var out []Point
	for _, r := range rows {
		row, ok := r.(map[string]any)
		if !ok {
			continue
		}
		lat, okLat := number(row[keys.Lat])
		lon, okLon := number(row[keys.Lon])
		if !okLat || !okLon {
			continue
		}
		p := Point{Lat: lat, Lon: lon}
		if keys.Status != "" {
			p.Status = text(row[keys.Status])
		}
		if keys.Label != "" {
			p.Label = text(row[keys.Label])
		}
		for _, k := range keys.Attrs {
			if v, ok := row[k]; ok && v != nil {
				p.Attrs = append(p.Attrs, Attr{Key: k, Value: text(v)})
			}
		}
		out = append(out, p)
	}
	return out
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n)
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func text(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(s)
	}
}
