package panel

import (
	"context"
	"math"
	"math/rand/v2"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/leapstack-labs/watermgmt/internal/backend"
	"github.com/leapstack-labs/watermgmt/internal/chart"
	"github.com/leapstack-labs/watermgmt/internal/config"
	"github.com/leapstack-labs/watermgmt/internal/geo"
	"github.com/leapstack-labs/watermgmt/internal/testutil"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func reservoirSpec() *Spec {
	return &Spec{
		ID:      "reservoir",
		Title:   "Reservoir",
		Backend: config.BackendEast,
		Endpoints: Endpoints{
			Models:  "/reservoir/models",
			Predict: "/reservoir/predict",
			Graphs:  map[string]string{"lines": "/reservoir/graphs"},
		},
		Fields: []Field{
			{Name: "level", Label: "Level", Kind: KindNumber, Default: 850.0, Required: true},
			{Name: "day", Label: "Day", Kind: KindInteger, Default: 2.0},
			{Name: "note", Label: "Note", Kind: KindText},
		},
		RequireModel: true,
		Result:       ResultView{Headline: "demand", HeadlineFmt: FormatNumber},
		Charts: []ChartSpec{{
			Spec:   chart.Spec{ID: "lines", Kind: chart.Line},
			Source: "lines",
		}},
		RefreshAfterPredict: true,
	}
}

func newTestPanel(t *testing.T, spec *Spec, b *testutil.Backend) *Panel {
	t.Helper()
	client := backend.NewClient(b.Endpoints(), backend.Options{Logger: testutil.NewTestLogger(t)})
	p := New(context.Background(), spec, client, Options{
		Logger: testutil.NewTestLogger(t),
		Rand:   rand.New(rand.NewPCG(1, 2)),
		Now:    func() time.Time { return fixedNow },
	})
	t.Cleanup(p.Unmount)
	return p
}

func reservoirBackend(t *testing.T) *testutil.Backend {
	b := testutil.NewBackend(t)
	b.JSON(http.MethodGet, "/reservoir/models", http.StatusOK, map[string]any{
		"models":   []string{"arima", "prophet"},
		"default":  "prophet",
		"defaults": map[string]any{"level": 900},
	})
	b.JSON(http.MethodGet, "/reservoir/graphs", http.StatusOK, map[string]any{
		"title":  "Levels",
		"labels": []string{"Mon", "Tue"},
		"values": []float64{1, 2},
	})
	b.JSON(http.MethodPost, "/reservoir/predict", http.StatusOK, map[string]any{"demand": 1234.0})
	return b
}

func TestPanel_InitLoadsModelsDefaultsAndGraphs(t *testing.T) {
	b := reservoirBackend(t)
	p := newTestPanel(t, reservoirSpec(), b)

	require.NoError(t, p.Init(context.Background()))

	v := p.Snapshot()
	assert.Equal(t, []string{"arima", "prophet"}, v.Models)
	assert.Equal(t, "prophet", v.Model)
	assert.Equal(t, 900.0, v.Form["level"])
	assert.Equal(t, 2.0, v.Form["day"])
	assert.Nil(t, v.Form["note"])
	assert.False(t, v.GraphsLoading)

	require.Len(t, v.Charts, 1)
	require.NotNil(t, v.Charts[0].Config)
	assert.Equal(t, "Levels", v.Charts[0].Title)
	assert.Equal(t, []string{"Mon", "Tue"}, v.Charts[0].Config.Labels)
}

func TestPanel_InitFailuresKeepHardcodedDefaults(t *testing.T) {
	b := testutil.NewBackend(t)
	b.JSON(http.MethodGet, "/reservoir/models", http.StatusInternalServerError, map[string]any{"error": "db down"})
	p := newTestPanel(t, reservoirSpec(), b)

	err := p.Init(context.Background())
	require.Error(t, err)

	v := p.Snapshot()
	assert.Equal(t, 850.0, v.Form["level"])
	assert.Empty(t, v.Models)
	assert.Empty(t, v.Error, "load errors stay silent unless the spec surfaces them")
	require.Len(t, v.Charts, 1)
	assert.True(t, v.Charts[0].Failed)
	assert.Nil(t, v.Charts[0].Config)
}

func TestPanel_SurfaceLoadErrors(t *testing.T) {
	b := testutil.NewBackend(t)
	b.JSON(http.MethodGet, "/reservoir/models", http.StatusInternalServerError, map[string]any{"error": "Failed to load soil moisture models"})
	spec := reservoirSpec()
	spec.SurfaceLoadErrors = true
	p := newTestPanel(t, spec, b)

	require.Error(t, p.Init(context.Background()))
	assert.Equal(t, "Failed to load soil moisture models", p.Snapshot().Error)
}

func TestPanel_PredictPostsFormAndModel(t *testing.T) {
	b := reservoirBackend(t)
	p := newTestPanel(t, reservoirSpec(), b)
	require.NoError(t, p.Init(context.Background()))

	require.NoError(t, p.SetField("level", "875.5"))
	require.NoError(t, p.SetField(ModelKey, "arima"))

	var progressed bool
	err := p.Predict(context.Background(), func(v View) {
		progressed = true
		assert.True(t, v.Loading)
	})
	require.NoError(t, err)
	assert.True(t, progressed)

	calls := b.Calls(http.MethodPost, "/reservoir/predict")
	require.Len(t, calls, 1)
	assert.Equal(t, map[string]any{
		"level":      875.5,
		"day":        2.0,
		"note":       nil,
		"model_name": "arima",
	}, calls[0].Body)

	v := p.Snapshot()
	assert.False(t, v.Loading)
	assert.Empty(t, v.Error)
	assert.Equal(t, "1,234", v.Headline())

	// graphs reload after a successful prediction
	assert.Len(t, b.Calls(http.MethodGet, "/reservoir/graphs"), 2)
}

func TestPanel_ValidationStopsRequest(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(p *Panel)
		field   string
		message string
	}{
		{
			name:    "required field empty",
			prepare: func(p *Panel) { require.NoError(t, p.SetField("level", "")) },
			field:   "level",
			message: "Please fill in all required fields.",
		},
		{
			name:    "no model selected",
			prepare: func(p *Panel) { require.NoError(t, p.SetField(ModelKey, nil)) },
			field:   ModelKey,
			message: "Please select a model.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := reservoirBackend(t)
			p := newTestPanel(t, reservoirSpec(), b)
			require.NoError(t, p.Init(context.Background()))
			tt.prepare(p)

			err := p.Predict(context.Background(), nil)
			var verr *backend.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.message, p.Snapshot().Error)
			assert.Empty(t, b.Calls(http.MethodPost, "/reservoir/predict"))
		})
	}
}

func TestPanel_FailureKeepsPreviousResult(t *testing.T) {
	b := reservoirBackend(t)
	p := newTestPanel(t, reservoirSpec(), b)
	require.NoError(t, p.Init(context.Background()))
	require.NoError(t, p.Predict(context.Background(), nil))

	b.JSON(http.MethodPost, "/reservoir/predict", http.StatusBadRequest, map[string]any{"error": "level out of range"})
	err := p.Predict(context.Background(), nil)
	var apiErr *backend.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)

	v := p.Snapshot()
	assert.Equal(t, "level out of range", v.Error)
	assert.Equal(t, "1,234", v.Headline())

	// no refresh after a failed prediction
	assert.Len(t, b.Calls(http.MethodGet, "/reservoir/graphs"), 2)
}

func TestPanel_FailureFallbackMessage(t *testing.T) {
	b := reservoirBackend(t)
	b.JSON(http.MethodPost, "/reservoir/predict", http.StatusInternalServerError, map[string]any{})
	spec := reservoirSpec()
	spec.FailureMessage = "Classification failed"
	p := newTestPanel(t, spec, b)
	require.NoError(t, p.Init(context.Background()))

	require.Error(t, p.Predict(context.Background(), nil))
	assert.Equal(t, "Classification failed", p.Snapshot().Error)
}

func TestPanel_PredictWhileBusy(t *testing.T) {
	b := reservoirBackend(t)
	started := make(chan struct{})
	release := make(chan struct{})
	b.Handle(http.MethodPost, "/reservoir/predict", func(w http.ResponseWriter, r *http.Request) {
		close(started)
		select {
		case <-release:
		case <-r.Context().Done():
			return
		}
		testutil.WriteJSON(w, http.StatusOK, map[string]any{"demand": 1.0})
	})
	p := newTestPanel(t, reservoirSpec(), b)
	require.NoError(t, p.Init(context.Background()))

	done := make(chan error, 1)
	go func() { done <- p.Predict(context.Background(), nil) }()
	<-started

	assert.ErrorIs(t, p.Predict(context.Background(), nil), ErrBusy)
	assert.True(t, p.Snapshot().Loading)

	close(release)
	require.NoError(t, <-done)
	assert.Len(t, b.Calls(http.MethodPost, "/reservoir/predict"), 1)
}

func TestPanel_UnmountDiscardsInFlightResponse(t *testing.T) {
	ignore := goleak.IgnoreCurrent()
	t.Cleanup(func() { goleak.VerifyNone(t, ignore) })

	b := reservoirBackend(t)
	started := make(chan struct{})
	b.Handle(http.MethodPost, "/reservoir/predict", func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	})

	transport := &http.Transport{}
	t.Cleanup(transport.CloseIdleConnections)
	client := backend.NewClient(b.Endpoints(), backend.Options{HTTPClient: &http.Client{Transport: transport}})
	p := New(context.Background(), reservoirSpec(), client, Options{Logger: testutil.NewTestLogger(t)})
	require.NoError(t, p.Init(context.Background()))

	done := make(chan error, 1)
	go func() { done <- p.Predict(context.Background(), nil) }()
	<-started

	p.Unmount()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrUnmounted)
	case <-time.After(5 * time.Second):
		t.Fatal("predict did not return after unmount")
	}

	v := p.Snapshot()
	assert.Nil(t, v.Result)
	assert.False(t, p.Mounted())
	assert.ErrorIs(t, p.Predict(context.Background(), nil), ErrUnmounted)
}

func TestPanel_ParentContextEndsLifetime(t *testing.T) {
	b := reservoirBackend(t)
	client := backend.NewClient(b.Endpoints(), backend.Options{})
	spec := reservoirSpec()
	spec.RequireModel = false
	parent, cancel := context.WithCancel(context.Background())
	p := New(parent, spec, client, Options{})
	t.Cleanup(p.Unmount)

	cancel()
	err := p.Predict(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, "Request cancelled", p.Snapshot().Error)
}

func TestPanel_ResetRestoresLoadedDefaults(t *testing.T) {
	b := reservoirBackend(t)
	spec := reservoirSpec()
	spec.ChartKinds = []chart.Kind{chart.Line, chart.Bar}
	p := newTestPanel(t, spec, b)
	require.NoError(t, p.Init(context.Background()))
	require.NoError(t, p.Predict(context.Background(), nil))

	require.NoError(t, p.SetField("level", 1.0))
	require.NoError(t, p.SetField(ModelKey, "arima"))
	require.NoError(t, p.SetChartKind(chart.Bar))
	p.Reset()

	v := p.Snapshot()
	assert.Equal(t, 900.0, v.Form["level"])
	assert.Equal(t, "prophet", v.Model)
	assert.Nil(t, v.Result)
	assert.Empty(t, v.Error)
	assert.Equal(t, chart.Line, v.ChartKind)
}

func TestPanel_SetField(t *testing.T) {
	b := reservoirBackend(t)
	p := newTestPanel(t, reservoirSpec(), b)

	assert.ErrorIs(t, p.SetField("nope", 1), ErrUnknownField)
	assert.ErrorIs(t, p.SetField("level", "high"), ErrInvalidValue)
	assert.Equal(t, 850.0, p.Snapshot().Form["level"], "invalid value leaves the field unchanged")

	require.NoError(t, p.SetField("day", "3.7"))
	assert.Equal(t, 4.0, p.Snapshot().Form["day"])
}

func TestPanel_ApplySignals(t *testing.T) {
	b := reservoirBackend(t)
	p := newTestPanel(t, reservoirSpec(), b)

	model := "arima"
	err := p.ApplySignals(map[string]any{
		"level":   "910",
		"note":    "spring",
		"unknown": 1,
	}, &model)
	require.NoError(t, err)

	v := p.Snapshot()
	assert.Equal(t, 910.0, v.Form["level"])
	assert.Equal(t, "spring", v.Form["note"])
	assert.Equal(t, "arima", v.Model)

	err = p.ApplySignals(map[string]any{"day": "x"}, nil)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestPanel_SetChartKind(t *testing.T) {
	b := reservoirBackend(t)
	spec := reservoirSpec()
	spec.ChartKinds = []chart.Kind{chart.Bar, chart.Pie}
	spec.Charts[0].Titles = map[chart.Kind]string{chart.Pie: "Share"}
	p := newTestPanel(t, spec, b)
	require.NoError(t, p.Init(context.Background()))

	assert.Equal(t, chart.Bar, p.Snapshot().ChartKind)
	assert.Error(t, p.SetChartKind(chart.Scatter))

	require.NoError(t, p.SetChartKind(chart.Pie))
	v := p.Snapshot()
	require.NotNil(t, v.Charts[0].Config)
	assert.Equal(t, chart.Pie, v.Charts[0].Config.Kind)
}

func TestPanel_RandomizeJitter(t *testing.T) {
	b := testutil.NewBackend(t)
	spec := &Spec{
		ID:        "jitter",
		Endpoints: Endpoints{Predict: "/p"},
		Fields: []Field{
			{Name: "a", Kind: KindNumber, Default: 100.0},
			{Name: "b", Kind: KindNumber, Default: 0.0},
			{Name: "label", Kind: KindText, Default: "keep"},
		},
		Random: Random{Mode: RandomJitter, Spread: 0.3, Fallback: 1, Precision: 4},
	}
	p := newTestPanel(t, spec, b)

	for range 50 {
		require.NoError(t, p.Randomize(context.Background()))
		v := p.Snapshot()

		a := v.Form["a"].(float64)
		assert.InDelta(t, 100, a, 30)
		assert.Equal(t, roundTo(a, 4), a)

		bv := v.Form["b"].(float64)
		assert.InDelta(t, 0, bv, 1)
		assert.GreaterOrEqual(t, bv, 0.0, "a non-negative default stays non-negative")
		assert.Equal(t, "keep", v.Form["label"])
	}
	assert.Empty(t, b.Calls(http.MethodGet, "/p"))
}

func TestPanel_RandomizeJitterRespectsFieldBounds(t *testing.T) {
	b := testutil.NewBackend(t)
	spec := &Spec{
		ID:        "bounded",
		Endpoints: Endpoints{Predict: "/p"},
		Fields: []Field{
			{Name: "day_of_week", Kind: KindInteger, Default: 6.0, Min: 0, Max: 6},
			{Name: "threshold", Kind: KindSlider, Default: 700.0, Min: 600, Max: 800},
			{Name: "offset", Kind: KindNumber, Default: -2.0},
		},
		Random: Random{Mode: RandomJitter, Spread: 0.4, Fallback: 5, Precision: 2},
	}
	p := newTestPanel(t, spec, b)

	for range 100 {
		require.NoError(t, p.Randomize(context.Background()))
		v := p.Snapshot()

		day := v.Form["day_of_week"].(float64)
		assert.GreaterOrEqual(t, day, 0.0)
		assert.LessOrEqual(t, day, 6.0)
		assert.Equal(t, math.Round(day), day)

		threshold := v.Form["threshold"].(float64)
		assert.GreaterOrEqual(t, threshold, 600.0)
		assert.LessOrEqual(t, threshold, 800.0)
		assert.Equal(t, math.Round(threshold), threshold)

		offset := v.Form["offset"].(float64)
		assert.InDelta(t, -2, offset, 0.8, "unbounded negative defaults jitter freely")
	}
}

func TestField_Clamp(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		in    float64
		want  float64
	}{
		{"below range", Field{Kind: KindNumber, Min: 0, Max: 6}, -1.5, 0},
		{"above range", Field{Kind: KindNumber, Min: 0, Max: 6}, 7.3, 6},
		{"integer rounds", Field{Kind: KindInteger, Min: 0, Max: 6}, 3.6, 4},
		{"no range", Field{Kind: KindNumber}, -12.25, -12.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.field.Clamp(tt.in))
		})
	}
}

func TestPanel_RandomizeUniform(t *testing.T) {
	b := testutil.NewBackend(t)
	spec := &Spec{
		ID:        "uniform",
		Endpoints: Endpoints{Predict: "/p"},
		Fields: []Field{
			{Name: "lat", Kind: KindNumber, Default: -33.9},
			{Name: "pressure", Kind: KindNumber, Default: 500.0},
			{Name: "timestamp", Kind: KindTimestamp},
		},
		Random: Random{Mode: RandomUniform, Ranges: map[string]Range{
			"lat":      {Min: -35, Max: -30, Precision: 5},
			"pressure": {Min: 200, Max: 700, Precision: 2},
		}},
	}
	p := newTestPanel(t, spec, b)
	assert.Equal(t, "2026-03-14T09:30:00.000Z", p.Snapshot().Form["timestamp"])

	for range 50 {
		require.NoError(t, p.Randomize(context.Background()))
		v := p.Snapshot()
		lat := v.Form["lat"].(float64)
		assert.GreaterOrEqual(t, lat, -35.0)
		assert.LessOrEqual(t, lat, -30.0)
		pressure := v.Form["pressure"].(float64)
		assert.GreaterOrEqual(t, pressure, 200.0)
		assert.LessOrEqual(t, pressure, 700.0)
		assert.Equal(t, math.Round(pressure*100)/100, pressure)
	}
}

func TestPanel_RandomizeFromServer(t *testing.T) {
	b := testutil.NewBackend(t)
	b.JSON(http.MethodGet, "/energy/random", http.StatusOK, map[string]any{
		"Rainfall_mm": 12.5,
		"Inflow":      "3.2",
		"Unrelated":   "ignored",
	})
	spec := &Spec{
		ID:        "energy",
		Backend:   config.BackendLocal,
		Endpoints: Endpoints{Predict: "/energy/predict", Random: "/energy/random"},
		Fields: []Field{
			{Name: "Rainfall_mm", Kind: KindNumber},
			{Name: "Inflow", Kind: KindNumber},
			{Name: "Spillway", Kind: KindNumber, Default: 7.0},
		},
		Random: Random{Mode: RandomServer},
	}
	p := newTestPanel(t, spec, b)

	require.NoError(t, p.Randomize(context.Background()))
	v := p.Snapshot()
	assert.Equal(t, FormState{"Rainfall_mm": 12.5, "Inflow": 3.2, "Spillway": 7.0}, v.Form)
	assert.False(t, v.Sampling)

	b.JSON(http.MethodGet, "/energy/random", http.StatusInternalServerError, map[string]any{"error": "no samples"})
	require.Error(t, p.Randomize(context.Background()))
	assert.Equal(t, "no samples", p.Snapshot().Error)
	assert.Equal(t, 12.5, p.Snapshot().Form["Rainfall_mm"])
}

func TestPanel_FeaturesBuildFields(t *testing.T) {
	b := testutil.NewBackend(t)
	b.JSON(http.MethodGet, "/maint/features", http.StatusOK, map[string]any{
		"features": []string{"sensor_2", "op_setting_1"},
		"defaults": map[string]any{"sensor_2": 641.82},
	})
	spec := &Spec{
		ID:        "maint",
		Backend:   config.BackendLocal,
		Endpoints: Endpoints{Features: "/maint/features", Predict: "/maint/predict"},
	}
	p := newTestPanel(t, spec, b)
	require.NoError(t, p.Init(context.Background()))

	v := p.Snapshot()
	require.Len(t, v.Fields, 2)
	assert.Equal(t, "Sensor 2", v.Fields[0].Label)
	assert.Equal(t, "Op Setting 1", v.Fields[1].Label)
	assert.Equal(t, FormState{"sensor_2": 641.82, "op_setting_1": 0.0}, v.Form)
}

func TestPanel_InitialPredict(t *testing.T) {
	b := testutil.NewBackend(t)
	b.JSON(http.MethodGet, "/soil/models", http.StatusOK, map[string]any{
		"models":            []string{"Linear Regression (Best)"},
		"default_model":     "Linear Regression (Best)",
		"default_threshold": 720,
	})
	b.JSON(http.MethodPost, "/soil/predict", http.StatusOK, map[string]any{
		"recommendation": "Irrigation recommended",
		"pie":            map[string]any{"labels": []string{"Dry", "Wet"}, "values": []float64{3, 7}},
	})
	spec := &Spec{
		ID:        "soil",
		Backend:   config.BackendLocal,
		Endpoints: Endpoints{Models: "/soil/models", Predict: "/soil/predict"},
		Fields: []Field{
			{Name: "dryness_threshold", Kind: KindSlider, Default: 750.0, DefaultFrom: "default_threshold"},
		},
		Result:         ResultView{Headline: "recommendation"},
		Charts:         []ChartSpec{{Spec: chart.Spec{ID: "pie", Kind: chart.Pie}, Source: SourceResult, Path: "pie"}},
		InitialPredict: true,
	}
	p := newTestPanel(t, spec, b)
	require.NoError(t, p.Init(context.Background()))

	calls := b.Calls(http.MethodPost, "/soil/predict")
	require.Len(t, calls, 1)
	assert.Equal(t, 720.0, calls[0].Body["dryness_threshold"])
	assert.Equal(t, "Linear Regression (Best)", calls[0].Body[ModelKey])

	v := p.Snapshot()
	assert.Equal(t, "Irrigation recommended", v.Headline())
	require.NotNil(t, v.Charts[0].Config)
	assert.Equal(t, []string{"Dry", "Wet"}, v.Charts[0].Config.Labels)
}

func TestPanel_InitialPredictBlocksUserPredict(t *testing.T) {
	b := testutil.NewBackend(t)
	b.JSON(http.MethodGet, "/soil/models", http.StatusOK, map[string]any{
		"models":        []string{"Linear Regression (Best)"},
		"default_model": "Linear Regression (Best)",
	})
	var posts atomic.Int32
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	b.Handle(http.MethodPost, "/soil/predict", func(w http.ResponseWriter, r *http.Request) {
		posts.Add(1)
		select {
		case started <- struct{}{}:
		default:
		}
		select {
		case <-release:
		case <-r.Context().Done():
			return
		}
		testutil.WriteJSON(w, http.StatusOK, map[string]any{"recommendation": "Irrigate"})
	})
	spec := &Spec{
		ID:             "soil",
		Backend:        config.BackendLocal,
		Endpoints:      Endpoints{Models: "/soil/models", Predict: "/soil/predict"},
		Fields:         []Field{{Name: "dryness_threshold", Kind: KindSlider, Default: 750.0}},
		Result:         ResultView{Headline: "recommendation"},
		InitialPredict: true,
	}
	p := newTestPanel(t, spec, b)

	done := make(chan error, 1)
	go func() { done <- p.Init(context.Background()) }()
	<-started

	assert.ErrorIs(t, p.Predict(context.Background(), nil), ErrBusy)
	assert.True(t, p.Snapshot().Loading)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), posts.Load(), "one prediction in flight at a time")

	v := p.Snapshot()
	assert.False(t, v.Loading)
	assert.Equal(t, "Irrigate", v.Headline())
}

func TestPanel_MapWithResultMarker(t *testing.T) {
	b := testutil.NewBackend(t)
	b.JSON(http.MethodGet, "/leak/summary", http.StatusOK, map[string]any{
		"map_markers": []map[string]any{
			{"lat": -33.0, "lon": 151.0, "severity": "HIGH"},
			{"lat": -34.0, "lon": 150.0, "severity": "LOW"},
		},
	})
	b.JSON(http.MethodPost, "/leak/predict", http.StatusOK, map[string]any{"lat": -33.5, "lon": 150.5, "severity": "MEDIUM"})
	keys := geo.Keys{Status: "severity"}
	spec := &Spec{
		ID:        "leak",
		Backend:   config.BackendLocal,
		Endpoints: Endpoints{Predict: "/leak/predict", Graphs: map[string]string{"summary": "/leak/summary"}},
		Map: &MapSpec{
			Source:      "summary",
			Path:        "map_markers",
			Keys:        keys,
			Palette:     geo.Palette{Colors: map[string]string{"HIGH": "#FF4C4C"}, Default: "#3B82F6"},
			ResultKeys:  &keys,
			ResultColor: "#FF0000",
		},
	}
	p := newTestPanel(t, spec, b)
	require.NoError(t, p.Init(context.Background()))

	v := p.Snapshot()
	require.NotNil(t, v.Map)
	require.Len(t, v.Map.Markers, 2)
	assert.Equal(t, "#FF4C4C", v.Map.Markers[0].Color)
	assert.Equal(t, "#3B82F6", v.Map.Markers[1].Color)

	require.NoError(t, p.Predict(context.Background(), nil))
	v = p.Snapshot()
	require.Len(t, v.Map.Markers, 3)
	assert.Equal(t, "#FF0000", v.Map.Markers[2].Color)
	assert.Equal(t, "MEDIUM", v.Map.Markers[2].Status)
}

func TestView_HeadlineNamesTonesIcons(t *testing.T) {
	spec := &Spec{Result: ResultView{
		Headline: "prediction",
		Names:    map[string]string{"2": "Severe Drought"},
		Tones:    map[string]Tone{"2": ToneBad, "storm": ToneWarn},
		Icons:    map[string]string{"rain": "🌧️"},
		Items: []ResultItem{
			{Label: "RUL", Path: "rul", Unit: "cycles"},
			{Label: "Missing", Path: "missing"},
		},
	}}

	v := View{Spec: spec, Result: Result{"prediction": 2.0, "rul": 112.0}}
	assert.Equal(t, "Severe Drought", v.Headline())
	assert.Equal(t, ToneBad, v.Tone())
	assert.Equal(t, []ResultLine{{Label: "RUL", Value: "112 cycles"}}, v.Items())

	v.Result = Result{"prediction": "Heavy Rain"}
	assert.Equal(t, "Heavy Rain", v.Headline())
	assert.Equal(t, ToneNeutral, v.Tone())
	assert.Equal(t, "🌧️", v.Icon())

	v.Result = Result{"prediction": "Thunderstorm"}
	assert.Equal(t, ToneWarn, v.Tone())

	v.Result = nil
	assert.Empty(t, v.Headline())
	assert.Nil(t, v.Items())
}

func TestView_TableRows(t *testing.T) {
	spec := &Spec{Result: ResultView{Table: "preview"}}
	v := View{Spec: spec, Result: Result{"preview": []any{
		map[string]any{"timestamp": "t1", "value": 701.0},
		map[string]any{"timestamp": "t2", "value": nil},
	}}}

	cols, rows := v.TableRows()
	assert.Equal(t, []string{"timestamp", "value"}, cols)
	assert.Equal(t, [][]string{{"t1", "701"}, {"t2", ""}}, rows)
}
