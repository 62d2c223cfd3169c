package panel

import (
	"slices"
	"strings"

	"github.com/leapstack-labs/watermgmt/internal/chart"
	"github.com/leapstack-labs/watermgmt/internal/geo"
)

// ChartView is one chart ready to render. A nil Config means there is no
// data to draw.
type ChartView struct {
	ID      string
	Title   string
	Note    string
	Config  *chart.Config
	Failed  bool
	Loading bool
}

// MapView is the marker map ready to render.
type MapView struct {
	Title   string
	Markers []geo.Marker
	View    geo.View
	Palette geo.Palette
}

// View is an immutable snapshot of a panel for rendering.
type View struct {
	Spec          *Spec
	Fields        []Field
	Form          FormState
	Models        []string
	Model         string
	Result        Result
	Error         string
	Loading       bool
	Sampling      bool
	GraphsLoading bool
	ChartKind     chart.Kind
	Charts        []ChartView
	Map           *MapView
	Summary       []string
}

type memoKey struct {
	gen  uint64
	kind chart.Kind
}

// Snapshot captures the current state.
func (p *Panel) Snapshot() View {
	p.mu.Lock()
	defer p.mu.Unlock()

	v := View{
		Spec:          p.spec,
		Fields:        slices.Clone(p.fields),
		Form:          p.form.Clone(),
		Models:        slices.Clone(p.models),
		Model:         p.model,
		Result:        p.result,
		Error:         p.errMsg,
		Loading:       p.loading,
		Sampling:      p.sampling,
		GraphsLoading: p.graphsLoading,
		ChartKind:     p.chartKind,
	}

	for i, cs := range p.spec.Charts {
		v.Charts = append(v.Charts, p.chartLocked(i, cs))
	}
	if p.spec.Map != nil {
		v.Map = p.mapLocked(*p.spec.Map)
	}
	if p.result != nil && p.spec.Result.Summary != nil {
		v.Summary = p.spec.Result.Summary(p.result)
	}
	return v
}

// sourceLocked returns the payload named by source and its generation.
func (p *Panel) sourceLocked(source string) (any, uint64, bool) {
	if source == SourceResult {
		if p.result == nil {
			return nil, 0, false
		}
		return map[string]any(p.result), p.resultGen, false
	}
	g, ok := p.graphs[source]
	if !ok {
		return nil, 0, false
	}
	return g.data, g.gen, g.failed
}

func (p *Panel) chartLocked(i int, cs ChartSpec) ChartView {
	spec := cs.Spec
	if p.chartKind != "" {
		spec.Kind = p.chartKind
	}
	if t, ok := cs.Titles[spec.Kind]; ok {
		spec.Title = t
	}
	cv := ChartView{ID: cs.ID, Title: spec.Title}

	data, gen, failed := p.sourceLocked(cs.Source)
	cv.Failed = failed
	if data == nil {
		_, fetched := p.graphs[cs.Source]
		cv.Loading = p.graphsLoading && !fetched && cs.Source != SourceResult
		return cv
	}

	cv.Config = p.memos[i].Derive(memoKey{gen: gen, kind: spec.Kind}, func() *chart.Config {
		raw, _ := lookup(data, cs.Path)
		src, err := chart.Normalize(raw, spec.Shape)
		if err != nil {
			p.logger.Debug("chart payload rejected", "chart", cs.ID, "error", err)
			return nil
		}
		if src != nil && len(src.Labels) == 0 && cs.LabelsPath != "" {
			if labels, ok := lookup(data, cs.LabelsPath); ok {
				if list, ok := labels.([]any); ok {
					for _, l := range list {
						src.Labels = append(src.Labels, plain(l))
					}
				}
			}
		}
		return chart.Adapt(spec, src)
	})
	if cv.Config != nil && cv.Config.Title != "" {
		cv.Title = cv.Config.Title
	}
	if cs.Note != nil {
		if raw, ok := lookup(data, cs.Note.Path); ok {
			cv.Note = cs.Note.Label + ": " + FormatValue(raw, cs.Note.Format)
		}
	}
	return cv
}

func (p *Panel) mapLocked(ms MapSpec) *MapView {
	mv := &MapView{Title: ms.Title, Palette: ms.Palette}
	span := ms.Span
	if span <= 0 {
		span = 360
	}
	data, _, _ := p.sourceLocked(ms.Source)
	if data != nil {
		raw, _ := lookup(data, ms.Path)
		mv.Markers = geo.Markers(geo.Decode(raw, ms.Keys), ms.Palette)
	}
	if ms.ResultKeys != nil && p.result != nil {
		for _, pt := range geo.Decode([]any{map[string]any(p.result)}, *ms.ResultKeys) {
			m := geo.Marker{Point: pt, Color: ms.ResultColor}
			if m.Color == "" {
				m.Color = ms.Palette.Color(pt.Status)
			}
			mv.Markers = append(mv.Markers, m)
		}
	}
	mv.View = geo.Fit(mv.Markers, ms.Fallback, span)
	return mv
}

// Headline returns the display text of the result's headline value.
func (v View) Headline() string {
	rv := v.Spec.Result
	if v.Result == nil || rv.Headline == "" {
		return ""
	}
	raw, ok := v.Result.Lookup(rv.Headline)
	if !ok {
		return ""
	}
	key := plain(raw)
	if n, ok := rv.Names[key]; ok {
		return n
	}
	return FormatValue(raw, rv.HeadlineFmt)
}

// Tone returns the severity styling of the headline value.
func (v View) Tone() Tone {
	if t, ok := matchTable(v.Spec.Result.Tones, v.toneKey()); ok {
		return t
	}
	return ToneNeutral
}

// Icon returns the decoration of the headline value.
func (v View) Icon() string {
	icon, _ := matchTable(v.Spec.Result.Icons, v.toneKey())
	return icon
}

func (v View) toneKey() string {
	path := v.Spec.Result.ToneKey
	if path == "" {
		path = v.Spec.Result.Headline
	}
	if v.Result == nil || path == "" {
		return ""
	}
	return v.Result.String(path)
}

// matchTable looks key up exactly, then by case-insensitive substring in
// the table's sorted key order.
func matchTable[T any](table map[string]T, key string) (T, bool) {
	var zero T
	if key == "" || len(table) == 0 {
		return zero, false
	}
	if t, ok := table[key]; ok {
		return t, true
	}
	lower := strings.ToLower(key)
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if strings.Contains(lower, strings.ToLower(k)) {
			return table[k], true
		}
	}
	return zero, false
}

// Items returns the formatted result lines.
func (v View) Items() []ResultLine {
	if v.Result == nil {
		return nil
	}
	var out []ResultLine
	for _, it := range v.Spec.Result.Items {
		raw, ok := v.Result.Lookup(it.Path)
		if !ok {
			continue
		}
		text := FormatValue(raw, it.Format)
		if it.Unit != "" {
			text += " " + it.Unit
		}
		out = append(out, ResultLine{Label: it.Label, Value: text})
	}
	return out
}

// ResultLine is a formatted result item.
type ResultLine struct {
	Label string
	Value string
}

// TableRows returns the preview table rows and their column order.
func (v View) TableRows() ([]string, [][]string) {
	if v.Result == nil || v.Spec.Result.Table == "" {
		return nil, nil
	}
	raw, ok := v.Result.Lookup(v.Spec.Result.Table)
	if !ok {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok || len(list) == 0 {
		return nil, nil
	}
	first, ok := list[0].(map[string]any)
	if !ok {
		return nil, nil
	}
	cols := make([]string, 0, len(first))
	for k := range first {
		cols = append(cols, k)
	}
	slices.Sort(cols)

	rows := make([][]string, 0, len(list))
	for _, r := range list {
		m, ok := r.(map[string]any)
		if !ok {
			continue
		}
		row := make([]string, len(cols))
		for i, c := range cols {
			if m[c] != nil {
				row[i] = plain(m[c])
			}
		}
		rows = append(rows, row)
	}
	return cols, rows
}
