package catalog

import (
	"github.com/leapstack-labs/watermgmt/internal/chart"
	"github.com/leapstack-labs/watermgmt/internal/config"
	"github.com/leapstack-labs/watermgmt/internal/panel"
)

// BillingForecast predicts a customer's bill from consumption and tariff.
func BillingForecast() *panel.Spec {
	return &panel.Spec{
		ID:      "billing-forecast",
		Title:   "Consumption Segmentation & Billing Forecast",
		Icon:    "💰",
		Summary: "Cluster customers by usage patterns and predict future revenue using advanced ML models",
		Backend: config.BackendEast,
		Endpoints: panel.Endpoints{
			Models:  "/billing-forecast/models",
			Predict: "/billing-forecast/predict",
			Graphs:  map[string]string{"graphs": "/billing-forecast/graphs"},
		},
		Fields: []panel.Field{
			{Name: "Consumption_HCF", Label: "Consumption (HCF)", Kind: panel.KindNumber, Default: 10.0, Step: 0.01},
			{Name: "days_in_period", Label: "Days in Period", Kind: panel.KindInteger, Default: 30.0, Step: 1},
			{Name: "borough", Label: "Borough", Kind: panel.KindText, Default: "MANHATTAN"},
			{Name: "rate_class", Label: "Rate Class", Kind: panel.KindText, Default: "DOMESTIC"},
			{Name: "funding_source", Label: "Funding Source", Kind: panel.KindText, Default: "CITY"},
			{Name: "month", Label: "Month", Kind: panel.KindInteger, Default: 1.0, Min: 1, Max: 12, Step: 1},
		},
		Result: panel.ResultView{
			Headline:      "prediction",
			HeadlineLabel: "Predicted Charge",
			HeadlineFmt:   panel.FormatCurrency,
			Items: []panel.ResultItem{
				{Label: "Saved to", Path: "results_file"},
			},
		},
		Charts: []panel.ChartSpec{
			{
				Spec: chart.Spec{
					ID:           "billing-monthly",
					Kind:         chart.Line,
					DatasetLabel: "Avg Predicted Charges ($)",
					Palette:      []string{navy},
					XTitle:       "Month",
					YTitle:       "Charge ($)",
					BeginAtZero:  true,
				},
				Source: "graphs",
				Path:   "line",
			},
			{
				Spec: chart.Spec{
					ID:      "billing-share",
					Kind:    chart.Pie,
					Palette: []string{navy, blueSteel, "#7390D8", "#A2C5FD", "#EADFB4", sage, teal, coral},
				},
				Source: "graphs",
				Path:   "pie",
			},
			{
				Spec: chart.Spec{
					ID:          "billing-scatter",
					Kind:        chart.Scatter,
					Palette:     []string{navy, blueSteel, "#7390D8", "#A2C5FD", sage, teal, coral, "#EADFB4"},
					XTitle:      "Consumption (HCF)",
					YTitle:      "Predicted Charge ($)",
					BeginAtZero: true,
				},
				Source: "graphs",
				Path:   "scatter",
			},
		},
		RefreshAfterPredict: true,
	}
}

// CitizenReport classifies free-text citizen reports.
func CitizenReport() *panel.Spec {
	return &panel.Spec{
		ID:      "citizen-report",
		Title:   "Citizen Report NLP Classifier",
		Icon:    "📱",
		Summary: "Automatically classify citizen reports using NLP models and extract key entities for incident management",
		Backend: config.BackendWest,
		Endpoints: panel.Endpoints{
			Models:  "/citizen-report/models",
			Predict: "/citizen-report/predict",
			Random:  "/citizen-report/random",
		},
		Fields: []panel.Field{
			{Name: "report_text", Label: "Citizen Report", Kind: panel.KindTextArea, Required: true, Placeholder: "Describe the issue, e.g. a burst pipe on Main Street"},
		},
		RequireModel:      true,
		ValidationMessage: "Please enter a report to classify.",
		ModelMessage:      "Please select a model.",
		FailureMessage:    "Classification failed",
		ModelLabels: map[string]string{
			"LR":  "Logistic Regression",
			"NB":  "Naive Bayes",
			"RM":  "Random Forest",
			"SVM": "Support Vector Machine",
		},
		Random: panel.Random{Mode: panel.RandomServer},
		Result: panel.ResultView{
			Headline:      "category",
			HeadlineLabel: "Category",
			Tones: map[string]panel.Tone{
				"Leakage":               panel.ToneInfo,
				"Pollution":             panel.ToneBad,
				"Maintenance Required":  panel.ToneWarn,
				"Flooding":              panel.ToneBad,
				"Infrastructure Damage": panel.ToneWarn,
				"Water Shortage":        panel.ToneWarn,
			},
			Items: []panel.ResultItem{
				{Label: "Urgency", Path: "urgency"},
				{Label: "Extracted Entities (Locations)", Path: "entities", Format: panel.FormatList},
				{Label: "Summary", Path: "summary"},
				{Label: "Model Used", Path: "model_name"},
				{Label: "Saved to", Path: "results_file"},
			},
		},
	}
}
