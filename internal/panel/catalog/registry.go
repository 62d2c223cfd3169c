// Package catalog holds the declarative description of every prediction
// panel in the dashboard, keyed by the navigation tab that shows it.
package catalog

import (
	"fmt"
	"slices"

	"github.com/leapstack-labs/watermgmt/internal/config"
	"github.com/leapstack-labs/watermgmt/internal/nav"
	"github.com/leapstack-labs/watermgmt/internal/panel"
)

// Shared chart colors.
var (
	navy      = "#0F2C59"
	blueSteel = "#3D5B90"
	teal      = "#45B7D1"
	sage      = "#96CEB4"
	coral     = "#FF6B6B"

	trioPalette  = []string{navy, teal, sage}
	factorColors = []string{navy, blueSteel, "#7390D8", "#A2C5FD", "#F8F0E5", "#EADFB4", "#F4EBDA", "#E5DDC8", "#D6C8A1", "#C7B97A", "#A8C8A1", "#8BB88A", "#6CA873", "#4D985C", "#2E8845"}
)

// Registry maps tab ids to panel specs.
type Registry struct {
	specs map[string]*panel.Spec
	order []string
}

// New builds a registry. Panel ids must be unique.
func New(specs ...*panel.Spec) (*Registry, error) {
	r := &Registry{specs: make(map[string]*panel.Spec, len(specs))}
	for _, s := range specs {
		if s.ID == "" || s.ID == nav.HomeTab {
			return nil, fmt.Errorf("invalid panel id %q", s.ID)
		}
		if _, dup := r.specs[s.ID]; dup {
			return nil, fmt.Errorf("duplicate panel id %q", s.ID)
		}
		r.specs[s.ID] = s
		r.order = append(r.order, s.ID)
	}
	return r, nil
}

// Default returns the registry of every built-in panel.
func Default() *Registry {
	r, err := New(
		WeeklyDemand(),
		Leakage(),
		Algae(),
		WaterPrediction(),
		FloodRisk(),
		Drought(),
		SoilMoisture(),
		WaterStress(),
		PredictiveMaintenance(),
		EnergyOptimization(),
		Weather(),
		Rainfall(),
		BillingForecast(),
		CitizenReport(),
	)
	if err != nil {
		panic(err)
	}
	return r
}

// Get returns the spec for a panel id.
func (r *Registry) Get(id string) (*panel.Spec, bool) {
	s, ok := r.specs[id]
	return s, ok
}

// Resolve maps a navigation tab to the panel it shows. The home tab and
// unknown tabs resolve to no panel, which renders the home page.
func (r *Registry) Resolve(tab string) (*panel.Spec, bool) {
	if tab == nav.HomeTab {
		return nil, false
	}
	return r.Get(tab)
}

// All returns every spec in registration order.
func (r *Registry) All() []*panel.Spec {
	out := make([]*panel.Spec, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.specs[id])
	}
	return out
}

// IDs returns the panel ids in registration order.
func (r *Registry) IDs() []string {
	return slices.Clone(r.order)
}

// Backends returns the distinct default backends in use.
func (r *Registry) Backends() []string {
	var out []string
	for _, id := range r.order {
		b := r.specs[id].Backend
		if b == "" {
			b = config.BackendLocal
		}
		if !slices.Contains(out, b) {
			out = append(out, b)
		}
	}
	slices.Sort(out)
	return out
}
