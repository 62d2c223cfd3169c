package catalog

import (
	"fmt"

	"github.com/leapstack-labs/watermgmt/internal/chart"
	"github.com/leapstack-labs/watermgmt/internal/config"
	"github.com/leapstack-labs/watermgmt/internal/panel"
)

var sensorPalette = []string{navy, blueSteel, "#7390D8", "#A2C5FD", sage, teal, coral, "#EADFB4", "#F4A261", "#E76F51"}

// PredictiveMaintenance estimates remaining useful life of an asset from
// sensor features published by the backend.
func PredictiveMaintenance() *panel.Spec {
	charts := make([]panel.ChartSpec, 0, 6)
	for i := 1; i <= 6; i++ {
		charts = append(charts, panel.ChartSpec{
			Spec: chart.Spec{
				ID:      fmt.Sprintf("sensor-graph%d", i),
				Kind:    chart.Line,
				Palette: sensorPalette,
				XTitle:  "Time",
				YTitle:  "Value",
			},
			Source:     "graphs",
			Path:       fmt.Sprintf("graphs.graph%d", i),
			LabelsPath: "labels",
		})
	}
	return &panel.Spec{
		ID:      "predictive-maintenance",
		Title:   "Predictive Maintenance / Asset Health",
		Icon:    "🔧",
		Summary: "Monitor asset health and predict maintenance needs using Remaining-Useful-Life models",
		Backend: config.BackendWest,
		Endpoints: panel.Endpoints{
			Features: "/predictive-maintenance/features",
			Predict:  "/predictive-maintenance/predict",
			Graphs:   map[string]string{"graphs": "/predictive-maintenance/graphs"},
		},
		Random: panel.Random{Mode: panel.RandomJitter, Spread: 0.3, Fallback: 1, Precision: 4},
		Result: panel.ResultView{
			Headline:      "health_status",
			HeadlineLabel: "Asset Health",
			Tones: map[string]panel.Tone{
				"CRITICAL":          panel.ToneBad,
				"Minor Degradation": panel.ToneWarn,
				"Healthy":           panel.ToneGood,
			},
			Items: []panel.ResultItem{
				{Label: "Remaining Useful Life", Path: "rul", Unit: "cycles"},
				{Label: "Failure Probability", Path: "failure_probability", Format: panel.FormatPercent},
			},
		},
		Charts:              charts,
		RefreshAfterPredict: true,
	}
}

// EnergyOptimization predicts the monthly operating cost of a dam.
func EnergyOptimization() *panel.Spec {
	num := func(name, label string) panel.Field {
		return panel.Field{Name: name, Label: label, Kind: panel.KindNumber, Step: 0.01, Required: true}
	}
	return &panel.Spec{
		ID:      "energy-optimization",
		Title:   "Energy Optimization - Dam Cost Prediction",
		Icon:    "⚡",
		Summary: "Predict monthly total cost for dam operations using machine learning models",
		Backend: config.BackendLocal,
		Endpoints: panel.Endpoints{
			Predict: "/energy-optimization/predict",
			Random:  "/energy-optimization/random",
		},
		Fields: []panel.Field{
			num("Rainfall_mm", "Rainfall (mm)"),
			num("Inflow_million_m3", "Inflow (million m³)"),
			num("Evaporation_million_m3", "Evaporation (million m³)"),
			num("ReservoirVolume_m3", "Reservoir Volume (m³)"),
			num("GeneratorFlow_m3", "Generator Flow (m³)"),
			num("SpillwayFlow_m3", "Spillway Flow (m³)"),
			num("EnergyGenerated_MWh", "Energy Generated (MWh)"),
			num("MaintenanceCost_USD", "Maintenance Cost (USD)"),
			num("EnergyRevenue_USD", "Energy Revenue (USD)"),
		},
		ValidationMessage: "Please fill in all fields.",
		Random:            panel.Random{Mode: panel.RandomServer},
		Result: panel.ResultView{
			Headline:      "formatted_prediction",
			HeadlineLabel: "Predicted Monthly Total Cost",
			Items: []panel.ResultItem{
				{Label: "Message", Path: "message"},
			},
		},
	}
}
