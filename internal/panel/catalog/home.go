package catalog

import "github.com/leapstack-labs/watermgmt/internal/geo"

// Card is one feature tile on the home page. Tab is the navigation tab it
// opens.
type Card struct {
	Tab     string
	Icon    string
	Title   string
	Summary string
}

// HomePage is the content of the home tab.
type HomePage struct {
	Intro string
	Cards []Card
	// World is the static water stress map.
	World   []geo.Point
	Palette geo.Palette
}

// Home returns the home page content.
func Home() HomePage {
	return HomePage{
		Intro: "Comprehensive water data analysis platform featuring Linear Regression and Classification models " +
			"for accurate water level predictions and stress assessment across different regions.",
		Cards: []Card{
			{Tab: "water-prediction", Icon: "🌊", Title: "Water Data Linear Regression Prediction", Summary: "Predict water levels and environmental metrics using advanced Linear Regression models"},
			{Tab: "water-stress", Icon: "🌍", Title: "Water Stress Prediction System", Summary: "Classify water stress levels (Low, Moderate, High) for different countries"},
			{Tab: "flood-risk", Icon: "🌊", Title: "Flood Risk Monitoring System", Summary: "Assess flood risk probability using 20 environmental factors"},
			{Tab: "drought", Icon: "🌵", Title: "Drought Prediction System", Summary: "Assess drought severity using Random Forest classification"},
			{Tab: "soil-moisture", Icon: "🌱", Title: "Soil Moisture Simulation & Forecasting", Summary: "Simulate soil conditions, forecast moisture, and plan irrigation with multi-model analysis"},
			{Tab: "weekly-demand", Icon: "📅", Title: "Demand Forecast Model", Summary: "Predict future water consumption using time-series models for optimal reservoir and pumping operations"},
			{Tab: "leakage", Icon: "🔍", Title: "Leak/Anomaly Detection", Summary: "Real-time pipeline monitoring using unsupervised anomaly detection for leak and theft identification"},
			{Tab: "algae", Icon: "🌿", Title: "Algae Bloom Prediction", Summary: "Predict bloom risk based on water quality parameters and visualize trends and risk distribution"},
			{Tab: "predictive-maintenance", Icon: "🔧", Title: "Predictive Maintenance / Asset Health", Summary: "Monitor asset health and predict maintenance needs using Remaining-Useful-Life models"},
			{Tab: "billing-forecast", Icon: "💰", Title: "Consumption Segmentation & Billing Forecast", Summary: "Cluster customers by usage patterns and predict future revenue using advanced ML models"},
			{Tab: "citizen-report", Icon: "📱", Title: "Citizen Report NLP Classifier", Summary: "Automatically classify citizen reports using NLP models and extract key entities for incident management"},
			{Tab: "weather", Icon: "🌦️", Title: "Weather & Rainfall Prediction", Summary: "Forecast weather conditions and rainfall patterns using machine learning models"},
		},
		World:   geo.WorldWaterStress,
		Palette: geo.StressPalette,
	}
}
