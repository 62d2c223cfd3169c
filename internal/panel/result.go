package panel

import (
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Result is a decoded prediction response.
type Result map[string]any

// Lookup resolves a dotted path such as "summary.severity_counts".
func (r Result) Lookup(path string) (any, bool) {
	return lookup(map[string]any(r), path)
}

// Number returns the value at path as a float.
func (r Result) Number(path string) (float64, bool) {
	v, ok := r.Lookup(path)
	if !ok {
		return 0, false
	}
	n, err := toNumber(v)
	return n, err == nil
}

// String returns the value at path rendered as text.
func (r Result) String(path string) string {
	v, ok := r.Lookup(path)
	if !ok || v == nil {
		return ""
	}
	return plain(v)
}

func lookup(v any, path string) (any, bool) {
	if path == "" {
		return v, v != nil
	}
	cur := v
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			if r, isResult := cur.(Result); isResult {
				m = r
			} else {
				return nil, false
			}
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

var printer = message.NewPrinter(language.English)

// FormatValue renders v for display.
func FormatValue(v any, f Format) string {
	if v == nil {
		return "-"
	}
	switch f {
	case FormatNumber:
		if n, err := toNumber(v); err == nil {
			return FormatThousands(n)
		}
	case FormatCurrency:
		if n, err := toNumber(v); err == nil {
			return "$" + printer.Sprint(number.Decimal(n, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
		}
	case FormatPercent:
		if n, err := toNumber(v); err == nil {
			return printer.Sprint(number.Decimal(n, number.MaxFractionDigits(2))) + "%"
		}
	case FormatRatio:
		if n, err := toNumber(v); err == nil {
			return strconv.FormatFloat(n*100, 'f', 1, 64) + "%"
		}
	case FormatFixed2:
		if n, err := toNumber(v); err == nil {
			return strconv.FormatFloat(n, 'f', 2, 64)
		}
	case FormatFixed4:
		if n, err := toNumber(v); err == nil {
			return strconv.FormatFloat(n, 'f', 4, 64)
		}
	case FormatList:
		if items, ok := v.([]any); ok {
			parts := make([]string, 0, len(items))
			for _, it := range items {
				parts = append(parts, plain(it))
			}
			return strings.Join(parts, ", ")
		}
	case FormatJSON:
		if data, err := json.Marshal(v); err == nil {
			return string(data)
		}
	}
	return plain(v)
}

// FormatThousands renders n with thousands separators.
func FormatThousands(n float64) string {
	return printer.Sprint(number.Decimal(n, number.MaxFractionDigits(3)))
}

func plain(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case []any, map[string]any:
		data, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(data)
	default:
		return fmt.Sprint(x)
	}
}
