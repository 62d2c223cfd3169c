package catalog

import (
	"github.com/leapstack-labs/watermgmt/internal/chart"
	"github.com/leapstack-labs/watermgmt/internal/config"
	"github.com/leapstack-labs/watermgmt/internal/panel"
)

var riskScale = []string{"#22C55E", "#EAB308", "#F97316", "#EF4444"}

var levelTones = map[string]panel.Tone{
	"low":      panel.ToneGood,
	"moderate": panel.ToneWarn,
	"medium":   panel.ToneWarn,
	"high":     panel.ToneBad,
	"severe":   panel.ToneBad,
}

// Algae predicts bloom risk from water quality readings.
func Algae() *panel.Spec {
	return &panel.Spec{
		ID:      "algae",
		Title:   "Algae Bloom Prediction",
		Icon:    "🌿",
		Summary: "Predict bloom risk based on water quality parameters and visualize trends and risk distribution",
		Backend: config.BackendLocal,
		Endpoints: panel.Endpoints{
			Predict: "/algae/predict",
			Graphs:  map[string]string{"graphs": "/algae/graphs"},
		},
		Fields: []panel.Field{
			{Name: "temperature", Label: "TEMPERATURE", Kind: panel.KindNumber, Default: 27.5, Step: 0.1, Required: true},
			{Name: "ph", Label: "PH", Kind: panel.KindNumber, Default: 8.0, Step: 0.1, Required: true},
			{Name: "turbidity", Label: "TURBIDITY", Kind: panel.KindNumber, Default: 10.0, Step: 0.1, Required: true},
			{Name: "dissolved_oxygen", Label: "DISSOLVED OXYGEN", Kind: panel.KindNumber, Default: 5.0, Step: 0.1, Required: true},
			{Name: "nitrate", Label: "NITRATE", Kind: panel.KindNumber, Default: 6.0, Step: 0.1, Required: true},
			{Name: "phosphate", Label: "PHOSPHATE", Kind: panel.KindNumber, Default: 3.0, Step: 0.1, Required: true},
		},
		Result: panel.ResultView{
			Headline:      "risk_level",
			HeadlineLabel: "Risk",
			Tones:         levelTones,
			Items: []panel.ResultItem{
				{Label: "Prediction", Path: "prediction"},
				{Label: "Saved to", Path: "results_file"},
			},
		},
		Charts: []panel.ChartSpec{
			{
				Spec: chart.Spec{
					ID:          "algae-trend",
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
					ID:           "algae-risk",
					Kind:         chart.Bar,
					DatasetLabel: "Count",
					Palette:      riskScale,
					XTitle:       "Risk Category",
					YTitle:       "Samples",
					BeginAtZero:  true,
				},
				Source: "graphs",
				Path:   "risk_bar",
			},
		},
		RefreshAfterPredict: true,
	}
}

// WaterPrediction estimates groundwater levels from well measurements.
// It is listed under both water quality and groundwater.
func WaterPrediction() *panel.Spec {
	field := func(name, label, placeholder string) panel.Field {
		return panel.Field{
			Name:        name,
			Label:       label,
			Kind:        panel.KindNumber,
			Step:        0.01,
			Required:    true,
			Placeholder: placeholder,
		}
	}
	return &panel.Spec{
		ID:      "water-prediction",
		Title:   "Ground Water Prediction",
		Icon:    "💧",
		Summary: "Advanced Linear Regression Model for Water Level and Environmental Metrics Prediction",
		Backend: config.BackendWest,
		Endpoints: panel.Endpoints{
			Predict: "/predict",
		},
		Fields: []panel.Field{
			field("WLM_RPE_QC", "Water Level Measurement - RPE Quality Control", "Enter RPE QC value"),
			field("WLM_GSE", "Water Level Measurement - Ground Surface Elevation", "Enter GSE value"),
			field("WLM_GSE_QC", "Water Level Measurement - GSE Quality Control", "Enter GSE QC value"),
			field("RPE_WSE", "RPE Water Surface Elevation", "Enter RPE WSE value"),
			field("RPE_WSE_QC", "RPE Water Surface Elevation Quality Control", "Enter RPE WSE QC value"),
			field("GSE_WSE", "Ground Surface Elevation Water Surface Elevation", "Enter GSE WSE value"),
			field("GSE_WSE_QC", "GSE Water Surface Elevation Quality Control", "Enter GSE WSE QC value"),
			field("WSE", "Water Surface Elevation", "Enter WSE value"),
			field("WSE_QC", "Water Surface Elevation Quality Control", "Enter WSE QC value"),
		},
		Result: panel.ResultView{
			Headline:      "prediction",
			HeadlineLabel: "Predicted Value",
			HeadlineFmt:   panel.FormatFixed4,
			Items: []panel.ResultItem{
				{Label: "Model Type", Path: "model_type"},
				{Label: "Data Source", Path: "data_source"},
				{Label: "Server", Path: "server_timestamp"},
				{Label: "Input Features", Path: "input_features", Format: panel.FormatJSON},
			},
		},
	}
}
