package catalog

import (
	"fmt"
	"time"

	"github.com/leapstack-labs/watermgmt/internal/chart"
	"github.com/leapstack-labs/watermgmt/internal/config"
	"github.com/leapstack-labs/watermgmt/internal/geo"
	"github.com/leapstack-labs/watermgmt/internal/panel"
)

// mondayFirst maps a weekday to 0=Monday .. 6=Sunday.
func mondayFirst(now time.Time) any {
	return float64((int(now.Weekday()) + 6) % 7)
}

// WeeklyDemand forecasts daily demand and checks reservoir levels.
func WeeklyDemand() *panel.Spec {
	return &panel.Spec{
		ID:      "weekly-demand",
		Title:   "Demand Forecast Model",
		Icon:    "📅",
		Summary: "Predict future water consumption using time-series models for optimal reservoir and pumping operations",
		Backend: config.BackendEast,
		Endpoints: panel.Endpoints{
			Models:  "/weekly-demand/models",
			Predict: "/weekly-demand/predict",
			Graphs:  map[string]string{"lines": "/weekly-demand/graphs"},
		},
		Fields: []panel.Field{
			{Name: "day_of_week", Label: "Day of Week (0=Mon, 6=Sun)", Kind: panel.KindInteger, DefaultFunc: mondayFirst, Min: 0, Max: 6, Step: 1, Required: true},
			{Name: "current_level", Label: "Current Level (L)", Kind: panel.KindNumber, Default: 850000.0, Step: 1000, Required: true},
			{Name: "target_level", Label: "Target Level (L)", Kind: panel.KindNumber, Default: 900000.0, Step: 1000, Required: true},
			{Name: "max_capacity", Label: "Max Capacity (L)", Kind: panel.KindNumber, Default: 1000000.0, Step: 1000, Required: true},
		},
		Result: panel.ResultView{
			Headline:      "predicted_demand",
			HeadlineLabel: "Predicted Demand (L)",
			HeadlineFmt:   panel.FormatNumber,
			ToneKey:       "reservoir_status",
			Tones: map[string]panel.Tone{
				"CRITICAL_OVERFLOW": panel.ToneBad,
				"LOW":               panel.ToneWarn,
				"BELOW_TARGET":      panel.ToneWarn,
			},
			Items: []panel.ResultItem{
				{Label: "Reservoir Status", Path: "reservoir_status"},
				{Label: "Required Pump Volume", Path: "required_pump_volume", Format: panel.FormatNumber, Unit: "L"},
				{Label: "Saved", Path: "results_file"},
			},
			Summary: DemandSummary,
		},
		Charts: []panel.ChartSpec{{
			Spec: chart.Spec{
				ID:          "weekly-lines",
				Kind:        chart.Line,
				Title:       "Weekly Water Demand & Reservoir Levels",
				Palette:     []string{navy, blueSteel, teal, sage},
				XTitle:      "Date",
				YTitle:      "Liters",
				BeginAtZero: true,
			},
			Source: "lines",
		}},
		RefreshAfterPredict: true,
	}
}

// DemandSummary renders the operational report for a weekly demand result.
func DemandSummary(r panel.Result) []string {
	demand, _ := r.Number("predicted_demand")
	pump, _ := r.Number("required_pump_volume")
	current, _ := r.Number("current_level")
	target, _ := r.Number("target_level")
	capacity, _ := r.Number("max_capacity")

	var status string
	switch r.String("reservoir_status") {
	case "CRITICAL_OVERFLOW":
		status = "🔴 CRITICAL: OVERFLOW RISK"
	case "LOW":
		status = "🟠 LOW: BELOW 20% CAPACITY"
	case "BELOW_TARGET":
		status = "🟡 BELOW TARGET"
	default:
		status = "🟢 ABOVE TARGET"
	}

	pumping := "✅ PUMPING NOT REQUIRED: Current reservoir supply is sufficient."
	if pump > 0 {
		reason := "to cover the predicted demand."
		if pump > demand {
			reason = "to cover the demand and fill the reservoir to the target level."
		}
		pumping = fmt.Sprintf("💧 PUMPING REQUIRED: Pump %s liters %s", panel.FormatThousands(pump), reason)
	}

	return []string{
		"Demand Forecast & Operational Alert for North Region",
		fmt.Sprintf("1. Predicted Water Demand (Model: %s)", r.String("model_name")),
		fmt.Sprintf("Predicted Consumption: %s liters", panel.FormatThousands(demand)),
		"",
		"2. Reservoir Status Check",
		fmt.Sprintf("Current: %s L   Target: %s L   Capacity: %s L   Status: %s",
			panel.FormatThousands(current), panel.FormatThousands(target), panel.FormatThousands(capacity), status),
		"",
		"3. Pumping Recommendation",
		pumping,
	}
}

var severityColors = map[string]string{
	"HIGH":   "#FF4C4C",
	"MEDIUM": "#FFAA00",
	"LOW":    "#3B82F6",
}

// Leakage scores pipeline readings for anomalies and maps past alerts.
func Leakage() *panel.Spec {
	return &panel.Spec{
		ID:      "leakage",
		Title:   "Leakage Detection Dashboard",
		Icon:    "🔍",
		Summary: "Real-time pipeline monitoring using unsupervised anomaly detection for leak and theft identification",
		Backend: config.BackendLocal,
		Endpoints: panel.Endpoints{
			Models:  "/leakage/models",
			Predict: "/leakage/predict",
			Graphs:  map[string]string{"summary": "/leakage/summary"},
		},
		Fields: []panel.Field{
			{Name: "pressure", Label: "Pressure (kPa)", Kind: panel.KindNumber, Default: 500.0, Step: 0.01, Required: true},
			{Name: "flow", Label: "Flow (L/s)", Kind: panel.KindNumber, Default: 100.0, Step: 0.01, Required: true},
			{Name: "lat", Label: "Latitude", Kind: panel.KindNumber, Default: -33.9, Step: 0.00001, Required: true},
			{Name: "lon", Label: "Longitude", Kind: panel.KindNumber, Default: 151.2, Step: 0.00001, Required: true},
			{Name: "timestamp", Label: "Timestamp (ISO)", Kind: panel.KindTimestamp, Required: true},
		},
		Random: panel.Random{
			Mode: panel.RandomUniform,
			Ranges: map[string]panel.Range{
				"pressure": {Min: 200, Max: 700, Precision: 2},
				"flow":     {Min: 50, Max: 300, Precision: 2},
				"lat":      {Min: -35, Max: -30, Precision: 5},
				"lon":      {Min: 140, Max: 145, Precision: 5},
			},
		},
		Result: panel.ResultView{
			Headline:      "severity",
			HeadlineLabel: "Severity",
			Tones: map[string]panel.Tone{
				"HIGH":   panel.ToneBad,
				"MEDIUM": panel.ToneWarn,
				"LOW":    panel.ToneInfo,
			},
			Items: []panel.ResultItem{
				{Label: "Anomaly Score", Path: "anomaly_score", Format: panel.FormatFixed4},
				{Label: "Model", Path: "model"},
				{Label: "Timestamp", Path: "timestamp"},
				{Label: "Report", Path: "report"},
			},
		},
		Charts: []panel.ChartSpec{
			{
				Spec: chart.Spec{
					ID:           "severity-counts",
					Kind:         chart.Bar,
					Title:        "Severity Distribution",
					DatasetLabel: "Count",
					LabelColors:  severityColors,
					Palette:      []string{"#3B82F6"},
					XTitle:       "Severity",
					YTitle:       "Count",
					BeginAtZero:  true,
					Shape:        chart.Shape{Kind: chart.ShapeCounts, Order: []string{"HIGH", "MEDIUM", "LOW"}},
				},
				Source: "summary",
				Path:   "severity_counts",
			},
			{
				Spec: chart.Spec{
					ID:           "score-history",
					Kind:         chart.Line,
					Title:        "Anomaly Score Over Time",
					DatasetLabel: "Anomaly Score",
					Palette:      []string{navy},
					XTitle:       "Timestamp",
					YTitle:       "Score (0-1)",
					BeginAtZero:  true,
					YMax:         1,
					Shape:        chart.Shape{Kind: chart.ShapeRecords, LabelKey: "timestamp", ValueKeys: []string{"score"}},
				},
				Source: "summary",
				Path:   "score_history",
			},
		},
		Map: &panel.MapSpec{
			Title:  "Leak Locations",
			Source: "summary",
			Path:   "map_markers",
			Keys: geo.Keys{
				Lat:    "lat",
				Lon:    "lon",
				Status: "severity",
				Label:  "model",
				Attrs:  []string{"severity", "timestamp"},
			},
			Palette: geo.Palette{
				Colors:  severityColors,
				Order:   []string{"HIGH", "MEDIUM", "LOW"},
				Default: "#3B82F6",
			},
			ResultKeys: &geo.Keys{
				Lat:    "lat",
				Lon:    "lon",
				Status: "severity",
				Label:  "model",
				Attrs:  []string{"severity", "timestamp"},
			},
			ResultColor: "#FF0000",
		},
		RefreshAfterPredict: true,
	}
}
