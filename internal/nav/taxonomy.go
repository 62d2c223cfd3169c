// Package nav holds the dashboard taxonomy and the selection state machine
// behind the top bar and sidebar.
package nav

// HomeTab is the pseudo-tab showing the dashboard landing page.
const HomeTab = "home"

// Item is one sub-view (tab) inside a category.
type Item struct {
	ID    string
	Label string
}

// Category groups related tabs.
type Category struct {
	ID       string
	Label    string
	FullName string
	Items    []Item
}

// Has reports whether tabID is one of the category's items.
func (c Category) Has(tabID string) bool {
	for _, it := range c.Items {
		if it.ID == tabID {
			return true
		}
	}
	return false
}

// Taxonomy is the ordered, immutable category list.
type Taxonomy []Category

// Category returns the category with id.
func (t Taxonomy) Category(id string) (Category, bool) {
	for _, c := range t {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// Contains reports whether tabID belongs to categoryID.
func (t Taxonomy) Contains(categoryID, tabID string) bool {
	c, ok := t.Category(categoryID)
	return ok && c.Has(tabID)
}

// Pair is a (category, tab) combination present in the taxonomy.
type Pair struct {
	Category string
	Item     Item
}

// Pairs flattens the taxonomy in display order.
func (t Taxonomy) Pairs() []Pair {
	var out []Pair
	for _, c := range t {
		for _, it := range c.Items {
			out = append(out, Pair{Category: c.ID, Item: it})
		}
	}
	return out
}

// TabIDs returns the distinct tab ids in display order.
func (t Taxonomy) TabIDs() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range t.Pairs() {
		if !seen[p.Item.ID] {
			seen[p.Item.ID] = true
			out = append(out, p.Item.ID)
		}
	}
	return out
}

// Default is the dashboard taxonomy.
// water-prediction appears under two categories with different labels.
var Default = Taxonomy{
	{
		ID: "wsd", Label: "Water Supply", FullName: "Water Supply & Distribution",
		Items: []Item{
			{ID: "weekly-demand", Label: "Demand Forecast"},
			{ID: "leakage", Label: "Leak Detection"},
		},
	},
	{
		ID: "wqeh", Label: "Water Quality", FullName: "Water Quality & Environmental Health",
		Items: []Item{
			{ID: "algae", Label: "Algae Bloom Prediction"},
			{ID: "water-prediction", Label: "Water Prediction"},
		},
	},
	{
		ID: "rhm", Label: "Risk & Hazard", FullName: "Rainfall & Hydrological Management",
		Items: []Item{
			{ID: "flood-risk", Label: "Flood Forecasting"},
			{ID: "drought", Label: "Drought"},
		},
	},
	{
		ID: "gs", Label: "Groundwater", FullName: "Groundwater & Soil",
		Items: []Item{
			{ID: "water-prediction", Label: "Ground Water Level"},
			{ID: "soil-moisture", Label: "Soil Moisture"},
			{ID: "water-stress", Label: "Water Stress"},
		},
	},
	{
		ID: "io", Label: "Infrastructure", FullName: "Infrastructure & Operations",
		Items: []Item{
			{ID: "predictive-maintenance", Label: "Predictive Maintenance"},
			{ID: "energy-optimization", Label: "Energy Optimization"},
		},
	},
	{
		ID: "ced", Label: "Climate", FullName: "Climate & Environmental Data",
		Items: []Item{
			{ID: "weather", Label: "Seasonal Climate"},
			{ID: "rainfall", Label: "Rainfall Prediction"},
		},
	},
	{
		ID: "ugl", Label: "User & Governance", FullName: "Utilities & Government Liaison",
		Items: []Item{
			{ID: "billing-forecast", Label: "Billing Forecast"},
			{ID: "citizen-report", Label: "Citizen Report"},
		},
	},
}
