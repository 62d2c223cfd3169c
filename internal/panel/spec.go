// Package panel implements the generic prediction panel: a declarative
// Spec per feature plus the Panel runtime that loads models and graphs,
// holds the form, validates, predicts and refreshes.
package panel

import (
	"time"

	"github.com/leapstack-labs/watermgmt/internal/chart"
	"github.com/leapstack-labs/watermgmt/internal/geo"
)

// ModelKey is the request field carrying the selected model.
const ModelKey = "model_name"

// SourceResult is the ChartSpec/MapSpec source naming the last prediction
// result instead of a graph endpoint.
const SourceResult = "@result"

// FieldKind selects input widget and value coercion.
type FieldKind string

// Field kinds.
const (
	KindNumber    FieldKind = "number"
	KindInteger   FieldKind = "integer"
	KindSlider    FieldKind = "slider"
	KindText      FieldKind = "text"
	KindTextArea  FieldKind = "textarea"
	KindSelect    FieldKind = "select"
	KindTimestamp FieldKind = "timestamp"
)

// Numeric reports whether values of this kind are numbers.
func (k FieldKind) Numeric() bool {
	return k == KindNumber || k == KindInteger || k == KindSlider
}

// Option is one select choice.
type Option struct {
	Value any
	Label string
}

// Field is one form input. Name is the request key.
type Field struct {
	Name  string
	Label string
	Kind  FieldKind
	// Default is the hardcoded initial value; nil means empty.
	Default any
	// DefaultFunc computes the initial value from the current time and
	// wins over Default.
	DefaultFunc func(now time.Time) any
	// DefaultFrom names a key of the models response that overrides Default.
	DefaultFrom string
	Min         float64
	Max         float64
	Step        float64
	Options     []Option
	Required    bool
	Placeholder string
	Unit        string
	// Help is a hint shown under the input.
	Help string
}

// Key is the field's identifier in browser signals.
func (f Field) Key() string {
	return SignalKey(f.Name)
}

// RandomMode selects how Randomize produces values.
type RandomMode int

// Randomize modes.
const (
	RandomNone RandomMode = iota
	// RandomJitter perturbs each numeric default by ±Spread·|base|.
	RandomJitter
	// RandomUniform draws each ranged field uniformly.
	RandomUniform
	// RandomServer asks the backend for a sample.
	RandomServer
)

// Range bounds a uniform draw and its rounding.
type Range struct {
	Min       float64
	Max       float64
	Precision int
}

// Random configures Randomize.
type Random struct {
	Mode RandomMode
	// Spread is the jitter fraction of the base value.
	Spread float64
	// Fallback is the absolute spread used when the base is zero.
	Fallback  float64
	Precision int
	Ranges    map[string]Range
}

// Format controls how a result value is displayed.
type Format string

// Result formats. FormatRatio shows a 0-1 fraction as a percentage.
const (
	FormatText     Format = ""
	FormatNumber   Format = "number"
	FormatCurrency Format = "currency"
	FormatPercent  Format = "percent"
	FormatRatio    Format = "ratio"
	FormatFixed2   Format = "fixed2"
	FormatFixed4   Format = "fixed4"
	FormatList     Format = "list"
	FormatJSON     Format = "json"
)

// ResultItem is one labelled line of the result card.
type ResultItem struct {
	Label  string
	Path   string
	Format Format
	Unit   string
}

// Tone is the severity styling of a headline value.
type Tone string

// Tones.
const (
	ToneNeutral Tone = "neutral"
	ToneGood    Tone = "good"
	ToneWarn    Tone = "warn"
	ToneBad     Tone = "bad"
	ToneInfo    Tone = "info"
)

// ResultView maps a prediction result onto the result card.
type ResultView struct {
	// Headline is the path of the main value.
	Headline      string
	HeadlineLabel string
	HeadlineFmt   Format
	// Names renames headline values, e.g. drought class 2 to "Severe Drought".
	Names map[string]string
	// Tones colors headline values. Keys match the raw value or, failing
	// that, any substring of it case-insensitively.
	Tones map[string]Tone
	// ToneKey is the path Tones and Icons match against instead of Headline.
	ToneKey string
	// Icons decorates headline values, matched like Tones.
	Icons map[string]string
	Items []ResultItem
	// Summary derives narrative lines from the result.
	Summary func(Result) []string
	// Table is the path of a list of row objects shown as a preview table.
	Table string
}

// ChartSpec places a chart and says where its payload lives.
type ChartSpec struct {
	chart.Spec
	// Source is a graph endpoint name or SourceResult.
	Source string
	// Path is the dotted path to the chart payload within the source.
	Path string
	// LabelsPath supplies labels from elsewhere in the source when the
	// payload itself has none.
	LabelsPath string
	// Titles overrides the title per chart kind when the kind is switchable.
	Titles map[chart.Kind]string
	// Note is a caption read from the same source, shown under the chart.
	Note *ResultItem
}

// MapSpec places a marker map.
type MapSpec struct {
	Source   string
	Path     string
	Keys     geo.Keys
	Palette  geo.Palette
	Fallback geo.LatLon
	// Span is the longitude span shown when there are no markers.
	Span  float64
	Title string
	// ResultKeys, when set, adds a marker for the last prediction result.
	ResultKeys  *geo.Keys
	ResultColor string
}

// Endpoints lists a panel's backend paths. Empty means not used.
type Endpoints struct {
	Models   string
	Features string
	Predict  string
	Random   string
	// Graphs maps a graph name to its GET path.
	Graphs map[string]string
}

// Spec is the declarative description of one prediction panel.
type Spec struct {
	ID      string
	Title   string
	Icon    string
	Summary string
	// Backend is the default backend name; config may override it per panel.
	Backend   string
	Endpoints Endpoints
	Fields    []Field
	// RequireModel rejects predictions without a selected model.
	RequireModel bool
	ModelLabels  map[string]string
	// ValidationMessage replaces the generic required-fields message.
	ValidationMessage string
	ModelMessage      string
	// FailureMessage replaces "Prediction failed" for error responses
	// without a message.
	FailureMessage string
	// SurfaceLoadErrors shows model or feature load failures inline.
	SurfaceLoadErrors bool
	Random            Random
	Result            ResultView
	Charts            []ChartSpec
	// ChartKinds lets the user switch every chart between these kinds.
	ChartKinds []chart.Kind
	Map        *MapSpec
	// RefreshAfterPredict reloads graphs after each successful prediction.
	RefreshAfterPredict bool
	// InitialPredict runs a silent prediction once the panel is loaded.
	InitialPredict bool
}

// Field returns the spec field named name.
func (s *Spec) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// HasModels reports whether the panel offers a model selector.
func (s *Spec) HasModels() bool {
	return s.Endpoints.Models != ""
}

// ModelLabel returns the display name of a model.
func (s *Spec) ModelLabel(model string) string {
	if l, ok := s.ModelLabels[model]; ok {
		return l
	}
	return model
}
