package geo

// Water stress levels used by the world map.
const (
	StressLow      = "Low"
	StressModerate = "Moderate"
	StressHigh     = "High"
)

// WorldCenter is where the world map is centered.
var WorldCenter = LatLon{Lat: 20, Lon: 0}

// StressPalette colors water stress levels.
var StressPalette = Palette{
	Colors: map[string]string{
		StressLow:      "#10B981",
		StressModerate: "#F59E0B",
		StressHigh:     "#EF4444",
	},
	Order:   []string{StressLow, StressModerate, StressHigh},
	Default: "#6B7280",
}

// WorldWaterStress is the static country list shown on the home page.
var WorldWaterStress = []Point{
	country("Argentina", -38.4161, -63.6167, StressModerate),
	country("Australia", -25.2744, 133.7751, StressHigh),
	country("Brazil", -14.2350, -51.9253, StressLow),
	country("Canada", 56.1304, -106.3468, StressLow),
	country("China", 35.8617, 104.1954, StressHigh),
	country("France", 46.2276, 2.2137, StressLow),
	country("Germany", 51.1657, 10.4515, StressLow),
	country("India", 20.5937, 78.9629, StressHigh),
	country("Indonesia", -0.7893, 113.9213, StressModerate),
	country("Italy", 41.8719, 12.5674, StressModerate),
	country("Japan", 36.2048, 138.2529, StressModerate),
	country("Mexico", 23.6345, -102.5528, StressHigh),
	country("Russia", 61.5240, 105.3188, StressLow),
	country("Saudi Arabia", 23.8859, 45.0792, StressHigh),
	country("South Africa", -30.5595, 22.9375, StressHigh),
	country("South Korea", 35.9078, 127.7669, StressModerate),
	country("Spain", 40.4637, -3.7492, StressModerate),
	country("Turkey", 38.9637, 35.2433, StressHigh),
	country("UK", 55.3781, -3.4360, StressLow),
	country("USA", 37.0902, -95.7129, StressModerate),
}

// Countries returns the country names of WorldWaterStress in order.
func Countries() []string {
	out := make([]string, len(WorldWaterStress))
	for i, p := range WorldWaterStress {
		out[i] = p.Label
	}
	return out
}

func country(name string, lat, lon float64, stress string) Point {
	return Point{
		Lat:    lat,
		Lon:    lon,
		Label:  name,
		Status: stress,
		Attrs:  []Attr{{Key: "Water Stress", Value: stress}},
	}
}
