package panel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResult_Lookup(t *testing.T) {
	r := Result{
		"prediction": 0.42,
		"input_features": map[string]any{
			"temp_min": 3.5,
		},
	}

	v, ok := r.Lookup("input_features.temp_min")
	assert.True(t, ok)
	assert.Equal(t, 3.5, v)

	_, ok = r.Lookup("input_features.missing")
	assert.False(t, ok)

	_, ok = r.Lookup("prediction.deeper")
	assert.False(t, ok)

	n, ok := r.Number("prediction")
	assert.True(t, ok)
	assert.Equal(t, 0.42, n)
	assert.Equal(t, "0.42", r.String("prediction"))
	assert.Empty(t, r.String("nothing"))
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name   string
		v      any
		format Format
		want   string
	}{
		{"nil", nil, FormatText, "-"},
		{"text", "Rain", FormatText, "Rain"},
		{"float text", 2.0, FormatText, "2"},
		{"number groups thousands", 1234567.0, FormatNumber, "1,234,567"},
		{"number keeps fraction", 1234.5, FormatNumber, "1,234.5"},
		{"currency", 1234.5, FormatCurrency, "$1,234.50"},
		{"percent", 12.5, FormatPercent, "12.5%"},
		{"ratio", 0.4567, FormatRatio, "45.7%"},
		{"fixed2", 3.14159, FormatFixed2, "3.14"},
		{"fixed4", 0.5, FormatFixed4, "0.5000"},
		{"fixed4 from string", "0.25", FormatFixed4, "0.2500"},
		{"list", []any{"Main St", "Elm Rd"}, FormatList, "Main St, Elm Rd"},
		{"json", map[string]any{"a": 1.0}, FormatJSON, `{"a":1}`},
		{"non-number falls back", "n/a", FormatNumber, "n/a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.v, tt.format))
		})
	}
}

func TestFormatThousands(t *testing.T) {
	assert.Equal(t, "850,000", FormatThousands(850000))
	assert.Equal(t, "-1,234.5", FormatThousands(-1234.5))
	assert.Equal(t, "0", FormatThousands(0))
}
