package catalog

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/watermgmt/internal/backend"
	"github.com/leapstack-labs/watermgmt/internal/config"
	"github.com/leapstack-labs/watermgmt/internal/nav"
	"github.com/leapstack-labs/watermgmt/internal/panel"
	"github.com/leapstack-labs/watermgmt/internal/testutil"
)

func TestDefault_CoversTaxonomy(t *testing.T) {
	r := Default()
	for _, tab := range nav.Default.TabIDs() {
		s, ok := r.Resolve(tab)
		require.True(t, ok, "tab %s has no panel", tab)
		assert.Equal(t, tab, s.ID)
	}
	assert.Len(t, r.All(), len(nav.Default.TabIDs()))
}

func TestRegistry_Resolve(t *testing.T) {
	r := Default()

	_, ok := r.Resolve(nav.HomeTab)
	assert.False(t, ok)

	_, ok = r.Resolve("no-such-tab")
	assert.False(t, ok)

	s, ok := r.Resolve("leakage")
	require.True(t, ok)
	assert.Equal(t, "Leakage Detection Dashboard", s.Title)
}

func TestNew_RejectsDuplicates(t *testing.T) {
	_, err := New(Algae(), Algae())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")

	_, err = New(&panel.Spec{ID: nav.HomeTab})
	require.Error(t, err)
}

func TestSpecs_WellFormed(t *testing.T) {
	known := config.DefaultBackends()
	for _, s := range Default().All() {
		t.Run(s.ID, func(t *testing.T) {
			assert.NotEmpty(t, s.Title)
			assert.NotEmpty(t, s.Endpoints.Predict)
			assert.Contains(t, known, s.Backend)

			keys := make(map[string]string)
			for _, f := range s.Fields {
				prev, dup := keys[f.Key()]
				assert.False(t, dup, "fields %q and %q share signal key %q", prev, f.Name, f.Key())
				keys[f.Key()] = f.Name
				assert.NotEqual(t, panel.SignalKey(panel.ModelKey), f.Key())
			}

			// every chart must read a declared graph or the result
			for _, c := range s.Charts {
				if c.Source == panel.SourceResult {
					continue
				}
				assert.Contains(t, s.Endpoints.Graphs, c.Source, "chart %s", c.ID)
			}
			if s.Map != nil && s.Map.Source != panel.SourceResult {
				assert.Contains(t, s.Endpoints.Graphs, s.Map.Source)
			}
			if s.Random.Mode == panel.RandomServer {
				assert.NotEmpty(t, s.Endpoints.Random)
			}
			if s.RequireModel {
				assert.True(t, s.HasModels())
			}
			if len(s.Fields) == 0 {
				assert.NotEmpty(t, s.Endpoints.Features, "panel without fields must load features")
			}
		})
	}
}

func TestHome_CardsResolve(t *testing.T) {
	r := Default()
	h := Home()
	require.NotEmpty(t, h.Cards)
	for _, c := range h.Cards {
		_, ok := r.Resolve(c.Tab)
		assert.True(t, ok, "card %q", c.Title)
	}
	assert.Len(t, h.World, 20)
}

func TestMondayFirst(t *testing.T) {
	tests := []struct {
		day  time.Time
		want float64
	}{
		{time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC), 0}, // Monday
		{time.Date(2026, 10, 24, 12, 0, 0, 0, time.UTC), 5}, // Saturday
		{time.Date(2026, 10, 25, 12, 0, 0, 0, time.UTC), 6}, // Sunday
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mondayFirst(tt.day), tt.day.Weekday().String())
	}
}

func TestDemandSummary(t *testing.T) {
	tests := []struct {
		name       string
		result     panel.Result
		wantStatus string
		wantPump   string
	}{
		{
			name: "pump to target",
			result: panel.Result{
				"model_name":           "Prophet",
				"predicted_demand":     120000.0,
				"required_pump_volume": 170000.0,
				"current_level":        850000.0,
				"target_level":         900000.0,
				"max_capacity":         1000000.0,
				"reservoir_status":     "BELOW_TARGET",
			},
			wantStatus: "Status: 🟡 BELOW TARGET",
			wantPump:   "💧 PUMPING REQUIRED: Pump 170,000 liters to cover the demand and fill the reservoir to the target level.",
		},
		{
			name: "pump for demand only",
			result: panel.Result{
				"predicted_demand":     120000.0,
				"required_pump_volume": 20000.0,
				"reservoir_status":     "LOW",
			},
			wantStatus: "Status: 🟠 LOW: BELOW 20% CAPACITY",
			wantPump:   "💧 PUMPING REQUIRED: Pump 20,000 liters to cover the predicted demand.",
		},
		{
			name: "no pumping",
			result: panel.Result{
				"predicted_demand":     1000.0,
				"required_pump_volume": 0.0,
				"reservoir_status":     "OK",
			},
			wantStatus: "Status: 🟢 ABOVE TARGET",
			wantPump:   "✅ PUMPING NOT REQUIRED: Current reservoir supply is sufficient.",
		},
		{
			name:       "overflow",
			result:     panel.Result{"reservoir_status": "CRITICAL_OVERFLOW"},
			wantStatus: "Status: 🔴 CRITICAL: OVERFLOW RISK",
			wantPump:   "✅ PUMPING NOT REQUIRED: Current reservoir supply is sufficient.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := DemandSummary(tt.result)
			require.Len(t, lines, 9)
			assert.Equal(t, "Demand Forecast & Operational Alert for North Region", lines[0])
			assert.True(t, strings.HasSuffix(lines[5], tt.wantStatus), lines[5])
			assert.Equal(t, tt.wantPump, lines[8])
		})
	}

	lines := DemandSummary(tests[0].result)
	assert.Equal(t, "1. Predicted Water Demand (Model: Prophet)", lines[1])
	assert.Equal(t, "Predicted Consumption: 120,000 liters", lines[2])
	assert.Equal(t, "Current: 850,000 L   Target: 900,000 L   Capacity: 1,000,000 L   Status: 🟡 BELOW TARGET", lines[5])
}

func TestRainfallAdvice(t *testing.T) {
	assert.Equal(t, []string{"Carry an umbrella and monitor advisories."}, RainfallAdvice(panel.Result{"prediction": "Rain"}))
	assert.Equal(t, []string{"Low rainfall probability detected."}, RainfallAdvice(panel.Result{"prediction": "No Rain"}))
}

func TestSplitCamel(t *testing.T) {
	assert.Equal(t, "Ineffective Disaster Preparedness", splitCamel("IneffectiveDisasterPreparedness"))
	assert.Equal(t, "Siltation", splitCamel("Siltation"))
}

func TestWeeklyDemand_EchoesReservoirLevels(t *testing.T) {
	b := testutil.NewBackend(t)
	b.JSON(http.MethodGet, "/weekly-demand/models", http.StatusOK, map[string]any{
		"models":  []string{"Prophet", "SARIMA"},
		"default": "Prophet",
	})
	b.Handle(http.MethodPost, "/weekly-demand/predict", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]any
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			testutil.WriteJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
			return
		}
		testutil.WriteJSON(w, http.StatusOK, map[string]any{
			"model_name":           in["model_name"],
			"predicted_demand":     123456.0,
			"current_level":        in["current_level"],
			"target_level":         in["target_level"],
			"max_capacity":         in["max_capacity"],
			"reservoir_status":     "BELOW_TARGET",
			"required_pump_volume": 173456.0,
		})
	})

	monday := time.Date(2026, 3, 16, 8, 0, 0, 0, time.UTC)
	client := backend.NewClient(b.Endpoints(), backend.Options{Logger: testutil.NewTestLogger(t)})
	p := panel.New(context.Background(), WeeklyDemand(), client, panel.Options{
		Logger: testutil.NewTestLogger(t),
		Now:    func() time.Time { return monday },
	})
	t.Cleanup(p.Unmount)
	require.NoError(t, p.Init(context.Background()))
	assert.Equal(t, 0.0, p.Snapshot().Form["day_of_week"], "Monday is day 0")

	require.NoError(t, p.Predict(context.Background(), nil), "day 0 counts as filled in")

	calls := b.Calls(http.MethodPost, "/weekly-demand/predict")
	require.Len(t, calls, 1)
	assert.Equal(t, map[string]any{
		"day_of_week":   0.0,
		"current_level": 850000.0,
		"target_level":  900000.0,
		"max_capacity":  1000000.0,
		"model_name":    "Prophet",
	}, calls[0].Body)

	v := p.Snapshot()
	assert.Empty(t, v.Error)
	assert.Equal(t, 850000.0, v.Result["current_level"])
	assert.Equal(t, 900000.0, v.Result["target_level"])
	assert.Equal(t, 1000000.0, v.Result["max_capacity"])
	assert.Equal(t, "123,456", v.Headline())
	assert.Equal(t, panel.ToneWarn, v.Tone())
	assert.Contains(t, v.Summary, "Current: 850,000 L   Target: 900,000 L   Capacity: 1,000,000 L   Status: 🟡 BELOW TARGET")
	assert.Contains(t, v.Summary, "💧 PUMPING REQUIRED: Pump 173,456 liters to cover the demand and fill the reservoir to the target level.")
}
