package panel

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Sentinel errors.
var (
	// ErrBusy is returned when a prediction or sample request is already in flight.
	ErrBusy = errors.New("panel: request already in flight")
	// ErrUnmounted is returned once the panel's view is gone.
	ErrUnmounted = errors.New("panel: unmounted")
	// ErrUnknownField is returned for keys the panel does not define.
	ErrUnknownField = errors.New("panel: unknown field")
	// ErrInvalidValue is returned when a value cannot be coerced to the field kind.
	ErrInvalidValue = errors.New("panel: invalid value")
)

// FormState maps field names to values. Empty values are nil.
type FormState map[string]any

// Clone returns a shallow copy.
func (f FormState) Clone() FormState {
	return maps.Clone(f)
}

// Empty reports whether the value for name is missing or blank.
func (f FormState) Empty(name string) bool {
	return isEmpty(f[name])
}

func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	default:
		return false
	}
}

// SignalKey turns a backend field name into an identifier usable as a
// browser signal key.
func SignalKey(name string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(name) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore && b.Len() > 0 {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	key := strings.TrimRight(b.String(), "_")
	if key == "" || unicode.IsDigit(rune(key[0])) {
		key = "f_" + key
	}
	return key
}

// Coerce converts a raw value (from JSON signals, a CLI flag or a server
// sample) to the type the field kind holds.
func Coerce(f Field, raw any) (any, error) {
	if isEmpty(raw) {
		return nil, nil
	}

	switch {
	case f.Kind.Numeric():
		n, err := toNumber(raw)
		if err != nil {
			return nil, fmt.Errorf("%w for %s: %v", ErrInvalidValue, f.Name, err)
		}
		if f.Kind == KindInteger || f.Kind == KindSlider {
			n = math.Round(n)
		}
		return n, nil
	case f.Kind == KindSelect:
		return coerceOption(f, raw)
	default:
		switch v := raw.(type) {
		case string:
			return v, nil
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		default:
			return fmt.Sprint(v), nil
		}
	}
}

// coerceOption maps a raw value onto one of the options, keeping the
// option's own type so numeric selects submit numbers.
func coerceOption(f Field, raw any) (any, error) {
	if len(f.Options) == 0 {
		return raw, nil
	}
	s := fmt.Sprint(raw)
	if n, ok := raw.(float64); ok {
		s = strconv.FormatFloat(n, 'f', -1, 64)
	}
	for _, o := range f.Options {
		candidate := fmt.Sprint(o.Value)
		if n, ok := o.Value.(float64); ok {
			candidate = strconv.FormatFloat(n, 'f', -1, 64)
		}
		if candidate == s {
			return o.Value, nil
		}
	}
	return nil, fmt.Errorf("%w for %s: %q is not an option", ErrInvalidValue, f.Name, s)
}

func toNumber(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

// Clamp limits n to [Min, Max] when the field declares a range and rounds
// integer and slider values to whole numbers.
func (f Field) Clamp(n float64) float64 {
	if f.Max > f.Min {
		n = min(max(n, f.Min), f.Max)
	}
	if f.Kind == KindInteger || f.Kind == KindSlider {
		n = math.Round(n)
	}
	return n
}

// roundTo rounds v to precision decimal places.
func roundTo(v float64, precision int) float64 {
	p := math.Pow10(precision)
	return math.Round(v*p) / p
}
