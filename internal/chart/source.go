package chart

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/go-viper/mapstructure/v2"
)

// Series is one named value list sharing the source labels.
type Series struct {
	Name   string    `mapstructure:"name"`
	Values []float64 `mapstructure:"values"`
	Dashed bool      `mapstructure:"dashed"`
}

// Source is the normalized chart payload: labels plus either a single value
// list, several series, or x/y pairs for scatter plots.
type Source struct {
	Title  string    `mapstructure:"title"`
	Labels []string  `mapstructure:"labels"`
	Values []float64 `mapstructure:"values"`
	Series []Series  `mapstructure:"series"`
	X      []float64 `mapstructure:"x"`
	Y      []float64 `mapstructure:"y"`
}

// ShapeKind names a payload layout.
type ShapeKind string

// Payload layouts.
const (
	// ShapeSeries is {title?, labels, values | series | x,y}.
	ShapeSeries ShapeKind = ""
	// ShapeCounts is an object of label to count, e.g. {"HIGH": 3}.
	ShapeCounts ShapeKind = "counts"
	// ShapeRecords is a list of objects, e.g. [{timestamp, score}].
	ShapeRecords ShapeKind = "records"
	// ShapeColumns is an object of parallel arrays, e.g. {dates, temp_min}
	// or {factors, values}.
	ShapeColumns ShapeKind = "columns"
)

// Shape tells Normalize how to read a payload.
type Shape struct {
	Kind ShapeKind
	// LabelKey names the label column (records, columns).
	LabelKey string
	// ValueKeys names the value columns. More than one yields series.
	ValueKeys []string
	// Order lists preferred label order for counts; the rest follow sorted.
	Order []string
	// Tail keeps only the last Tail points when positive.
	Tail int
}

// Normalize converts a decoded JSON value into a Source. It returns nil,
// nil when raw is absent.
func Normalize(raw any, shape Shape) (*Source, error) {
	if raw == nil {
		return nil, nil
	}

	var (
		src *Source
		err error
	)
	switch shape.Kind {
	case ShapeSeries:
		src, err = decodeSeries(raw)
	case ShapeCounts:
		src, err = decodeCounts(raw, shape.Order)
	case ShapeRecords:
		src, err = decodeRecords(raw, shape)
	case ShapeColumns:
		src, err = decodeColumns(raw, shape)
	default:
		return nil, fmt.Errorf("unknown chart shape %q", shape.Kind)
	}
	if err != nil || src == nil {
		return src, err
	}
	if shape.Tail > 0 {
		src.tail(shape.Tail)
	}
	return src, nil
}

func decodeSeries(raw any) (*Source, error) {
	if _, ok := raw.(map[string]any); !ok {
		return nil, fmt.Errorf("chart payload: expected object, got %T", raw)
	}
	var src Source
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &src,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("chart payload: %w", err)
	}
	return &src, nil
}

func decodeCounts(raw any, order []string) (*Source, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("counts payload: expected object, got %T", raw)
	}

	var labels []string
	for _, k := range order {
		if _, ok := m[k]; ok {
			labels = append(labels, k)
		}
	}
	for _, k := range slices.Sorted(maps.Keys(m)) {
		if !slices.Contains(labels, k) {
			labels = append(labels, k)
		}
	}

	src := &Source{Labels: labels, Values: make([]float64, len(labels))}
	for i, k := range labels {
		v, err := toFloat(m[k])
		if err != nil {
			return nil, fmt.Errorf("counts payload %q: %w", k, err)
		}
		src.Values[i] = v
	}
	return src, nil
}

func decodeRecords(raw any, shape Shape) (*Source, error) {
	rows, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("records payload: expected list, got %T", raw)
	}
	if len(shape.ValueKeys) == 0 {
		return nil, fmt.Errorf("records payload: no value key")
	}

	src := &Source{}
	for _, r := range rows {
		row, ok := r.(map[string]any)
		if !ok {
			continue
		}
		v, err := toFloat(row[shape.ValueKeys[0]])
		if err != nil {
			continue
		}
		src.Labels = append(src.Labels, toLabel(row[shape.LabelKey]))
		src.Values = append(src.Values, v)
	}
	return src, nil
}

func decodeColumns(raw any, shape Shape) (*Source, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("columns payload: expected object, got %T", raw)
	}
	labelCol, ok := m[shape.LabelKey].([]any)
	if !ok {
		return nil, nil
	}

	src := &Source{Labels: make([]string, len(labelCol))}
	for i, l := range labelCol {
		src.Labels[i] = toLabel(l)
	}
	if t, ok := m["title"].(string); ok {
		src.Title = t
	}

	for _, key := range shape.ValueKeys {
		col, ok := m[key].([]any)
		if !ok {
			continue
		}
		values := make([]float64, len(col))
		for i, v := range col {
			values[i], _ = toFloat(v)
		}
		src.Series = append(src.Series, Series{Name: key, Values: values})
	}
	if len(src.Series) == 0 {
		return nil, nil
	}
	if len(src.Series) == 1 {
		src.Values = src.Series[0].Values
		src.Series = nil
	}
	return src, nil
}

func (s *Source) tail(n int) {
	cut := func(l int) int {
		if l > n {
			return l - n
		}
		return 0
	}
	s.Labels = s.Labels[cut(len(s.Labels)):]
	s.Values = s.Values[cut(len(s.Values)):]
	for i := range s.Series {
		s.Series[i].Values = s.Series[i].Values[cut(len(s.Series[i].Values)):]
	}
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		return strconv.ParseFloat(n, 64)
	case nil:
		return 0, fmt.Errorf("missing value")
	default:
		return 0, fmt.Errorf("unsupported value %T", v)
	}
}

func toLabel(v any) string {
	switch l := v.(type) {
	case string:
		return l
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(l, 'f', -1, 64)
	default:
		return fmt.Sprint(l)
	}
}
