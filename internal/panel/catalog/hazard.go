package catalog

import (
	"strings"
	"unicode"

	"github.com/leapstack-labs/watermgmt/internal/chart"
	"github.com/leapstack-labs/watermgmt/internal/config"
	"github.com/leapstack-labs/watermgmt/internal/panel"
)

var floodFactors = []string{
	"MonsoonIntensity", "TopographyDrainage", "RiverManagement", "Deforestation", "Urbanization",
	"ClimateChange", "DamsQuality", "Siltation", "AgriculturalPractices", "Encroachments",
	"IneffectiveDisasterPreparedness", "DrainageSystems", "CoastalVulnerability", "Landslides",
	"Watersheds", "DeterioratingInfrastructure", "PopulationScore", "WetlandLoss",
	"InadequatePlanning", "PoliticalFactors",
}

// splitCamel inserts a space before each interior capital.
func splitCamel(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FloodRisk scores flood probability from twenty 0-10 risk factors.
func FloodRisk() *panel.Spec {
	fields := make([]panel.Field, 0, len(floodFactors))
	for _, name := range floodFactors {
		fields = append(fields, panel.Field{
			Name:    name,
			Label:   splitCamel(name),
			Kind:    panel.KindSlider,
			Default: 5.0,
			Min:     0,
			Max:     10,
			Step:    1,
		})
	}
	return &panel.Spec{
		ID:      "flood-risk",
		Title:   "Flood Risk Monitoring System",
		Icon:    "🌊",
		Summary: "Assess flood risk probability using 20 environmental factors",
		Backend: config.BackendEast,
		Endpoints: panel.Endpoints{
			Predict: "/predict-flood",
			Graphs:  map[string]string{"factors": "/flood-chart-data"},
		},
		Fields: fields,
		Result: panel.ResultView{
			Headline:      "prediction",
			HeadlineLabel: "Flood Probability",
			Items: []panel.ResultItem{
				{Label: "Model Type", Path: "model_type"},
				{Label: "Data Source", Path: "data_source"},
			},
		},
		Charts: []panel.ChartSpec{{
			Spec: chart.Spec{
				ID:           "flood-factors",
				Kind:         chart.Bar,
				DatasetLabel: "Average Factor Scores",
				Palette:      factorColors[:10],
				XTitle:       "Flood Factors",
				YTitle:       "Average Score (1-10)",
				BeginAtZero:  true,
				Shape:        chart.Shape{Kind: chart.ShapeColumns, LabelKey: "factors", ValueKeys: []string{"values"}},
			},
			Source: "factors",
			Titles: map[chart.Kind]string{
				chart.Bar:  "Average Score of Top 10 Flood Factors",
				chart.Line: "Trend of Average Factor Scores",
				chart.Pie:  "Relative Distribution of Average Factor Scores",
			},
			Note: &panel.ResultItem{Label: "Average Flood Probability in Dataset", Path: "avg_flood_prob", Format: panel.FormatRatio},
		}},
		ChartKinds: []chart.Kind{chart.Bar, chart.Line, chart.Pie},
	}
}

// Drought classes reported by the drought model.
var droughtNames = map[string]string{
	"0": "Abnormally Dry",
	"1": "Moderate Drought",
	"2": "Severe Drought",
	"3": "Extreme Drought",
	"4": "Exceptional Drought",
}

// Drought classifies drought severity from NASA POWER style weather readings.
func Drought() *panel.Spec {
	num := func(name, label string, def float64) panel.Field {
		return panel.Field{Name: name, Label: label, Kind: panel.KindNumber, Default: def, Step: 0.1}
	}
	return &panel.Spec{
		ID:      "drought",
		Title:   "Drought Prediction System",
		Icon:    "🌵",
		Summary: "Assess drought severity using Random Forest classification",
		Backend: config.BackendWest,
		Endpoints: panel.Endpoints{
			Predict: "/predict-drought",
			Graphs: map[string]string{
				"timeseries": "/drought-timeseries-data",
				"variables":  "/drought-variable-data",
			},
		},
		Fields: []panel.Field{
			num("PS", "Surface Pressure (PS)", 1010),
			num("QV2M", "Specific Humidity (QV2M)", 10),
			num("T2M", "Mean Temperature (T2M)", 25),
			num("T2MDEW", "Dew Temperature (T2MDEW)", 20),
			num("T2M_MAX", "Max Temperature (T2M_MAX)", 30),
			num("T2M_MIN", "Min Temperature (T2M_MIN)", 15),
			num("T2M_RANGE", "Temperature Range (T2M_RANGE)", 15),
			num("TS", "Surface Temperature (TS)", 25),
			num("WS10M", "Wind Speed at 10m (WS10M)", 5),
			num("WS10M_RANGE", "Wind Speed Range at 10m (WS10M_RANGE)", 2),
			num("WS50M", "Wind Speed at 50m (WS50M)", 8),
			num("WS50M_MAX", "Max Wind Speed at 50m (WS50M_MAX)", 10),
			num("WS50M_RANGE", "Wind Speed Range at 50m (WS50M_RANGE)", 3),
			num("YEAR", "Year", 2025),
			num("DATE", "Day of Year", 1),
		},
		Result: panel.ResultView{
			Headline:      "prediction",
			HeadlineLabel: "Drought Category",
			Names:         droughtNames,
			Tones: map[string]panel.Tone{
				"0": panel.ToneGood,
				"1": panel.ToneWarn,
				"2": panel.ToneWarn,
				"3": panel.ToneBad,
				"4": panel.ToneBad,
			},
			Icons: map[string]string{
				"0": "🌱",
				"1": "⚠️",
				"2": "🔥",
				"3": "💧",
				"4": "🚨",
			},
			Items: []panel.ResultItem{
				{Label: "Model Type", Path: "model_type"},
				{Label: "Data Source", Path: "data_source"},
			},
		},
		Charts: []panel.ChartSpec{
			{
				Spec: chart.Spec{
					ID:           "drought-timeseries",
					Kind:         chart.Line,
					Title:        "Drought Score Over Time",
					DatasetLabel: "Drought Score",
					Palette:      []string{navy},
					XTitle:       "Date",
					YTitle:       "Drought Score",
				},
				Source: "timeseries",
			},
			{
				Spec: chart.Spec{
					ID:           "drought-variables",
					Kind:         chart.Bar,
					Title:        "Environmental Variables Distribution",
					DatasetLabel: "Variable Values",
					Palette:      factorColors,
					XTitle:       "Environmental Variables",
					YTitle:       "Variable Value",
					BeginAtZero:  true,
				},
				Source: "variables",
			},
		},
	}
}
