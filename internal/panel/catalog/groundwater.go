package catalog

import (
	"github.com/leapstack-labs/watermgmt/internal/chart"
	"github.com/leapstack-labs/watermgmt/internal/config"
	"github.com/leapstack-labs/watermgmt/internal/geo"
	"github.com/leapstack-labs/watermgmt/internal/panel"
)

// SoilMoisture simulates sensor readings and recommends irrigation.
func SoilMoisture() *panel.Spec {
	return &panel.Spec{
		ID:      "soil-moisture",
		Title:   "Soil Moisture Simulation & Forecasting",
		Icon:    "🌱",
		Summary: "Simulate soil conditions, forecast moisture, and plan irrigation with multi-model analysis",
		Backend: config.BackendEast,
		Endpoints: panel.Endpoints{
			Models:  "/soil-moisture/models",
			Predict: "/soil-moisture/predict",
		},
		Fields: []panel.Field{
			{
				Name:        "dryness_threshold",
				Label:       "Dryness Threshold",
				Kind:        panel.KindSlider,
				Default:     750.0,
				DefaultFrom: "default_threshold",
				Min:         500,
				Max:         1000,
				Step:        10,
				Help:        "If the average predicted sensor reading exceeds this value, irrigation is recommended.",
			},
			{Name: "samples", Label: "Number of Simulated Samples", Kind: panel.KindSlider, Default: 100.0, Min: 10, Max: 500, Step: 10},
		},
		RequireModel:      true,
		ModelMessage:      "Please select a model before predicting.",
		SurfaceLoadErrors: true,
		Result: panel.ResultView{
			Headline:      "recommendation",
			HeadlineLabel: "Irrigation Recommendation",
			Table:         "preview",
		},
		Charts: []panel.ChartSpec{
			{
				Spec: chart.Spec{
					ID:      "soil-trend",
					Kind:    chart.Line,
					Title:   "Predicted Soil Moisture Trend",
					Palette: []string{navy, coral, sage, blueSteel},
					XTitle:  "Timestamp",
					YTitle:  "Sensor Value",
				},
				Source: panel.SourceResult,
				Path:   "line",
			},
			{
				Spec: chart.Spec{
					ID:           "soil-condition",
					Kind:         chart.Pie,
					Title:        "Average Soil Condition Distribution",
					DatasetLabel: "Soil Condition",
					Palette:      []string{"#4CAF50", "#FF9800"},
				},
				Source: panel.SourceResult,
				Path:   "pie",
			},
		},
		InitialPredict: true,
	}
}

// WaterStress classifies national water stress from consumption figures.
func WaterStress() *panel.Spec {
	countries := geo.Countries()
	options := make([]panel.Option, 0, len(countries))
	for _, c := range countries {
		options = append(options, panel.Option{Value: c, Label: c})
	}
	num := func(name string) panel.Field {
		return panel.Field{Name: name, Label: name, Kind: panel.KindNumber, Step: 0.01, Required: true}
	}
	return &panel.Spec{
		ID:      "water-stress",
		Title:   "Water Stress Prediction System",
		Icon:    "🌍",
		Summary: "Classify water stress levels (Low, Moderate, High) for different countries",
		Backend: config.BackendLocal,
		Endpoints: panel.Endpoints{
			Predict: "/predict-water-stress",
			Graphs:  map[string]string{"graphs": "/water-stress/graphs"},
		},
		Fields: []panel.Field{
			{Name: "Country", Label: "Country", Kind: panel.KindSelect, Options: options, Placeholder: "Select Country", Required: true},
			{Name: "Year", Label: "Year", Kind: panel.KindInteger, Default: 2025.0, Min: 2000, Max: 2100, Step: 1, Required: true},
			num("Total Water Consumption (Billion Cubic Meters)"),
			num("Per Capita Water Use (Liters per Day)"),
			num("Agricultural Water Use (%)"),
			num("Industrial Water Use (%)"),
			num("Household Water Use (%)"),
			num("Rainfall Impact (Annual Precipitation in mm)"),
			num("Groundwater Depletion Rate (%)"),
		},
		Result: panel.ResultView{
			Headline:      "prediction",
			HeadlineLabel: "Water Stress Level",
			Tones: map[string]panel.Tone{
				geo.StressLow:      panel.ToneGood,
				geo.StressModerate: panel.ToneWarn,
				geo.StressHigh:     panel.ToneBad,
			},
			Items: []panel.ResultItem{
				{Label: "Model Type", Path: "model_type"},
				{Label: "Data Source", Path: "data_source"},
				{Label: "Server", Path: "server_timestamp"},
				{Label: "Input Features", Path: "input_features", Format: panel.FormatJSON},
			},
		},
		Charts: []panel.ChartSpec{
			{
				Spec: chart.Spec{
					ID:          "stress-trend",
					Kind:        chart.Line,
					Palette:     trioPalette,
					XTitle:      "Sample Index",
					YTitle:      "Value",
					BeginAtZero: true,
				},
				Source: "graphs",
				Path:   "trend",
			},
			{
				Spec: chart.Spec{
					ID:           "stress-levels",
					Kind:         chart.Bar,
					DatasetLabel: "Count",
					Palette:      []string{"#22C55E", "#EAB308", "#EF4444"},
					XTitle:       "Stress Level",
					YTitle:       "Samples",
					BeginAtZero:  true,
				},
				Source: "graphs",
				Path:   "bar",
			},
		},
		RefreshAfterPredict: true,
	}
}
