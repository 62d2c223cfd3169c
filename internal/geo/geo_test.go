package geo

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCenter(t *testing.T) {
	tests := []struct {
		name     string
		points   []Point
		fallback LatLon
		want     LatLon
	}{
		{name: "empty uses fallback", fallback: LatLon{0, 0}, want: LatLon{0, 0}},
		{name: "single", points: []Point{{Lat: -33.9, Lon: 151.2}}, want: LatLon{-33.9, 151.2}},
		{
			name:   "centroid",
			points: []Point{{Lat: 10, Lon: 20}, {Lat: 20, Lon: 40}},
			want:   LatLon{15, 30},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Center(tt.points, tt.fallback)
			assert.InDelta(t, tt.want.Lat, got.Lat, 1e-9)
			assert.InDelta(t, tt.want.Lon, got.Lon, 1e-9)
		})
	}
}

func TestDecodeAndMarkers(t *testing.T) {
	raw := []any{
		map[string]any{"lat": -33.9, "lon": 151.2, "severity": "HIGH", "anomaly_score": 0.91},
		map[string]any{"lat": "-34.1", "lon": 150.9, "severity": "low"},
		map[string]any{"lat": nil, "lon": 1.0},
		"junk",
	}
	points := Decode(raw, Keys{Status: "severity", Attrs: []string{"severity", "anomaly_score"}})
	require.Len(t, points, 2)
	assert.Equal(t, []Attr{{"severity", "HIGH"}, {"anomaly_score", "0.91"}}, points[0].Attrs)

	palette := Palette{Colors: map[string]string{"HIGH": "#FF4C4C", "LOW": "#3B82F6"}}
	markers := Markers(points, palette)
	assert.Equal(t, "#FF4C4C", markers[0].Color)
	assert.Equal(t, "#3B82F6", markers[1].Color, "status matches case-insensitively")

	assert.Nil(t, Decode(map[string]any{}, Keys{}))
}

func TestPalette_Default(t *testing.T) {
	assert.Equal(t, "#6B7280", StressPalette.Color("Unknown"))
	assert.Equal(t, "#6B7280", Palette{}.Color("x"))
	assert.Equal(t, "#EF4444", StressPalette.Color("High"))
}

func TestWorldWaterStress(t *testing.T) {
	assert.Len(t, WorldWaterStress, 20)
	counts := map[string]int{}
	for _, p := range WorldWaterStress {
		counts[p.Status]++
	}
	assert.Equal(t, map[string]int{StressLow: 6, StressModerate: 7, StressHigh: 7}, counts)
	assert.Equal(t, "Argentina", Countries()[0])
}

func TestFit(t *testing.T) {
	v := Fit(nil, LatLon{0, 0}, 20)
	assert.Equal(t, View{Center: LatLon{0, 0}, Span: 20}, v)

	one := Markers([]Point{{Lat: -33.9, Lon: 151.2}}, Palette{})
	v = Fit(one, LatLon{}, 20)
	assert.InDelta(t, -33.9, v.Center.Lat, 1e-9)
	assert.Equal(t, minSpan, v.Span)
}

func TestRenderSVG(t *testing.T) {
	var buf bytes.Buffer
	markers := Markers(WorldWaterStress, StressPalette)
	RenderSVG(&buf, markers, WorldView, StressPalette, 720, 360)

	out := buf.String()
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "<?xml"))
	assert.Equal(t, 20, strings.Count(out, `class="marker"`))
	assert.Contains(t, out, "<title>Saudi Arabia")
	assert.Contains(t, out, "Water Stress: High</title>")
	assert.Contains(t, out, "Moderate")
}
