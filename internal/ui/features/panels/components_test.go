package panels

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/watermgmt/internal/chart"
	"github.com/leapstack-labs/watermgmt/internal/panel"
)

func renderView(t *testing.T, v panel.View) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, View(v).Render(context.Background(), &buf))
	return buf.String()
}

func formSpec() *panel.Spec {
	return &panel.Spec{
		ID:          "leak",
		Title:       "Leak Detection",
		Icon:        "🔍",
		Endpoints:   panel.Endpoints{Models: "/leak/models", Predict: "/leak/predict"},
		ModelLabels: map[string]string{"xgb": "XGBoost"},
		Fields: []panel.Field{
			{Name: "threshold", Label: "Threshold", Kind: panel.KindSlider, Min: 600, Max: 800, Unit: "L", Required: true},
			{Name: "days", Label: "Days", Kind: panel.KindInteger},
			{Name: "soil", Label: "Soil", Kind: panel.KindSelect, Options: []panel.Option{
				{Value: "clay", Label: "Clay"},
				{Value: "sand"},
			}},
			{Name: "report", Label: "Report", Kind: panel.KindTextArea, Placeholder: "Describe the issue"},
		},
	}
}

func TestView_Form(t *testing.T) {
	spec := formSpec()
	html := renderView(t, panel.View{
		Spec:   spec,
		Fields: spec.Fields,
		Models: []string{"rf", "xgb"},
		Model:  "xgb",
		Form: panel.FormState{
			"threshold": 700.0,
			"days":      3.0,
			"soil":      "sand",
			"report":    `<b>burst</b> on "Main St"`,
		},
	})

	assert.Contains(t, html, `<section id="panel" class="panel" data-panel="leak">`)
	assert.Contains(t, html, `<option value="xgb" selected>XGBoost</option>`)
	assert.Contains(t, html, `<option value="rf">rf</option>`)
	assert.Contains(t, html, `<label for="f-threshold">Threshold (L) *</label>`)
	assert.Contains(t, html, `type="range" data-bind="panel.form.threshold" value="700" min="600" max="800" step="1">`)
	assert.Contains(t, html, `<output data-text="$panel.form.threshold">700</output>`)
	assert.Contains(t, html, `type="number" data-bind="panel.form.days" value="3" placeholder="" step="1">`)
	assert.Contains(t, html, `<option value="sand" selected>sand</option>`)
	assert.Contains(t, html, `<option value="clay">Clay</option>`)
	assert.Contains(t, html, `<div class="field wide">`)
	assert.Contains(t, html, `placeholder="Describe the issue">&lt;b&gt;burst&lt;/b&gt; on &#34;Main St&#34;</textarea>`)
	assert.NotContains(t, html, `class="card result"`)
}

func TestView_Actions(t *testing.T) {
	spec := formSpec()
	spec.Random = panel.Random{Mode: panel.RandomJitter}

	html := renderView(t, panel.View{Spec: spec, Loading: true})
	assert.Contains(t, html, `data-on:click="@post(&#39;/panels/leak/predict&#39;)" disabled>Predicting...</button>`)
	assert.Contains(t, html, `data-on:click="@post(&#39;/panels/leak/randomize&#39;)">Random Values</button>`)
	assert.Contains(t, html, `@post(&#39;/panels/leak/reset&#39;)`)

	spec.Random = panel.Random{}
	html = renderView(t, panel.View{Spec: spec, Sampling: true})
	assert.Contains(t, html, `>Predict</button>`)
	assert.NotContains(t, html, "randomize")
	assert.NotContains(t, html, " disabled")
}

func TestView_ResultAndCharts(t *testing.T) {
	spec := &panel.Spec{
		ID: "flood",
		Result: panel.ResultView{
			Headline: "risk",
			Tones:    map[string]panel.Tone{"High": panel.ToneBad},
			Icons:    map[string]string{"High": "🔴"},
		},
		ChartKinds: []chart.Kind{chart.Bar, chart.Line},
	}
	html := renderView(t, panel.View{
		Spec:      spec,
		Result:    panel.Result{"risk": "High"},
		Summary:   []string{"Rainfall & runoff above normal"},
		ChartKind: chart.Line,
		Charts:    []panel.ChartView{{ID: "rain", Title: "Rainfall", Loading: true}},
		Error:     "model <offline>",
	})

	assert.Contains(t, html, `<div class="headline-label">Prediction</div>`)
	assert.Contains(t, html, `<div class="headline tone-bad">🔴 High</div>`)
	assert.Contains(t, html, `<p>Rainfall &amp; runoff above normal</p>`)
	assert.Contains(t, html, `<div class="alert alert-error" role="alert">model &lt;offline&gt;</div>`)
	assert.Equal(t, 1, strings.Count(html, `class="btn btn-secondary active"`))
	assert.Contains(t, html, `/panels/flood/chart-kind/line`)
	assert.Contains(t, html, `<figure class="chart-box" id="chart-rain"><figcaption>Rainfall</figcaption><svg`)
	assert.Contains(t, html, "Loading chart data...")
	assert.NotContains(t, html, `class="card map"`)
}
