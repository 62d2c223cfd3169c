package catalog

import (
	"github.com/leapstack-labs/watermgmt/internal/chart"
	"github.com/leapstack-labs/watermgmt/internal/config"
	"github.com/leapstack-labs/watermgmt/internal/panel"
)

// weatherTail is how many recent days the weather charts show.
const weatherTail = 50

// Weather classifies the day's weather from temperature, rain and wind.
func Weather() *panel.Spec {
	series := func(id, column, label, color string) panel.ChartSpec {
		return panel.ChartSpec{
			Spec: chart.Spec{
				ID:           id,
				Kind:         chart.Line,
				Title:        label,
				DatasetLabel: label,
				Palette:      []string{color},
				XTitle:       "Date",
				YTitle:       label,
				Shape: chart.Shape{
					Kind:      chart.ShapeColumns,
					LabelKey:  "dates",
					ValueKeys: []string{column},
					Tail:      weatherTail,
				},
			},
			Source: "weather",
		}
	}
	return &panel.Spec{
		ID:      "weather",
		Title:   "Weather & Rainfall Prediction",
		Icon:    "🌦️",
		Summary: "Forecast weather conditions and rainfall patterns using machine learning models",
		Backend: config.BackendLocal,
		Endpoints: panel.Endpoints{
			Predict: "/predict-weather",
			Graphs:  map[string]string{"weather": "/weather-chart-data"},
		},
		Fields: []panel.Field{
			{Name: "temp_min", Label: "Minimum Temperature (°C)", Kind: panel.KindNumber, Step: 0.1, Required: true, Placeholder: "Enter minimum temperature"},
			{Name: "temp_max", Label: "Maximum Temperature (°C)", Kind: panel.KindNumber, Step: 0.1, Required: true, Placeholder: "Enter maximum temperature"},
			{Name: "precipitation", Label: "Precipitation (mm)", Kind: panel.KindNumber, Step: 0.1, Required: true, Placeholder: "Enter precipitation amount"},
			{Name: "wind", Label: "Wind Speed (m/s)", Kind: panel.KindNumber, Step: 0.1, Required: true, Placeholder: "Enter wind speed"},
		},
		FailureMessage: "Failed to get weather prediction",
		Result: panel.ResultView{
			Headline:      "prediction",
			HeadlineLabel: "Predicted Weather",
			Tones: map[string]panel.Tone{
				"sun":   panel.ToneGood,
				"clear": panel.ToneGood,
				"rain":  panel.ToneInfo,
				"storm": panel.ToneBad,
				"snow":  panel.ToneInfo,
				"fog":   panel.ToneWarn,
			},
			Icons: map[string]string{
				"sunny":    "☀️",
				"clear":    "☀️",
				"cloudy":   "☁️",
				"overcast": "☁️",
				"rain":     "🌧️",
				"drizzle":  "🌧️",
				"storm":    "⛈️",
				"thunder":  "⛈️",
				"snow":     "❄️",
				"fog":      "🌫️",
				"mist":     "🌫️",
			},
			Items: []panel.ResultItem{
				{Label: "Model Type", Path: "model_type"},
				{Label: "Data Source", Path: "data_source"},
				{Label: "Server", Path: "server_timestamp"},
				{Label: "Minimum Temperature", Path: "input_features.temp_min", Unit: "°C"},
				{Label: "Maximum Temperature", Path: "input_features.temp_max", Unit: "°C"},
				{Label: "Precipitation", Path: "input_features.precipitation", Unit: "mm"},
				{Label: "Wind Speed", Path: "input_features.wind", Unit: "m/s"},
			},
		},
		Charts: []panel.ChartSpec{
			series("weather-temp-min", "temp_min", "Minimum Temperature (°C)", coral),
			series("weather-temp-max", "temp_max", "Maximum Temperature (°C)", "#4ECDC4"),
			series("weather-precipitation", "precipitation", "Precipitation (mm)", teal),
			series("weather-wind", "wind", "Wind Speed (m/s)", sage),
		},
	}
}

// RainfallAdvice explains a rainfall prediction.
func RainfallAdvice(r panel.Result) []string {
	if r.String("prediction") == "Rain" {
		return []string{"Carry an umbrella and monitor advisories."}
	}
	return []string{"Low rainfall probability detected."}
}

// Rainfall predicts whether it will rain and how much, from backend
// published features.
func Rainfall() *panel.Spec {
	return &panel.Spec{
		ID:      "rainfall",
		Title:   "Rainfall Prediction",
		Icon:    "☔",
		Summary: "Predict rainfall occurrence and amount from recent weather observations",
		Backend: config.BackendLocal,
		Endpoints: panel.Endpoints{
			Features: "/rainfall/features",
			Predict:  "/rainfall/predict",
			Graphs:   map[string]string{"graphs": "/rainfall/graphs"},
		},
		Random: panel.Random{Mode: panel.RandomJitter, Spread: 0.4, Fallback: 5, Precision: 2},
		Result: panel.ResultView{
			Headline:      "prediction",
			HeadlineLabel: "Outlook",
			Tones: map[string]panel.Tone{
				"Rain":    panel.ToneInfo,
				"No Rain": panel.ToneWarn,
			},
			Items: []panel.ResultItem{
				{Label: "Estimated Rainfall", Path: "rainfall_mm", Unit: "mm"},
			},
			Summary: RainfallAdvice,
		},
		Charts: []panel.ChartSpec{
			{
				Spec: chart.Spec{
					ID:           "rainfall-trend",
					Kind:         chart.Line,
					DatasetLabel: "Rainfall (mm)",
					Palette:      []string{navy},
					XTitle:       "Timestamp",
					YTitle:       "mm",
					BeginAtZero:  true,
				},
				Source: "graphs",
				Path:   "trend",
			},
			{
				Spec: chart.Spec{
					ID:           "rainfall-outcomes",
					Kind:         chart.Bar,
					DatasetLabel: "Predictions",
					Palette:      []string{blueSteel, sage},
					XTitle:       "Outcome",
					YTitle:       "Count",
					BeginAtZero:  true,
				},
				Source: "graphs",
				Path:   "dist",
			},
		},
		RefreshAfterPredict: true,
	}
}
