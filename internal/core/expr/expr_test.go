package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr error
	}{
		{
			name: "arithmetic",
			src:  "row.a + row.b * 2",
		},
		{
			name: "string template",
			src:  `"${row.first} ${row.last}"`,
		},
		{
			name: "conditional",
			src:  `row.age >= 18 ? "adult" : "minor"`,
		},
		{
			name:    "empty expression",
			src:     "",
			wantErr: ErrEmptyExpression,
		},
		{
			name:    "function call rejected",
			src:     "upper(row.name)",
			wantErr: ErrFunctionsNotAllowed,
		},
		{
			name:    "nested function call rejected",
			src:     `row.a + max(row.b, 3)`,
			wantErr: ErrFunctionsNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := Parse(tt.src)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.src, parsed.String())
		})
	}

	t.Run("syntax error", func(t *testing.T) {
		_, err := Parse("row.")
		require.Error(t, err)
		var perr *ParseError
		assert.ErrorAs(t, err, &perr)
	})
}

func TestExpression_Fields(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "single field",
			src:  "row.email",
			want: []string{"email"},
		},
		{
			name: "unique and sorted",
			src:  "row.b + row.a + row.b",
			want: []string{"a", "b"},
		},
		{
			name: "source aliases count",
			src:  "source1.price * source2.qty",
			want: []string{"price", "qty"},
		},
		{
			name: "unknown roots ignored",
			src:  "other.x + row.a",
			want: []string{"a"},
		},
		{
			name: "literal only",
			src:  "1 + 2",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := Parse(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, parsed.Fields())
		})
	}
}

func TestExpression_Evaluate(t *testing.T) {
	record := map[string]interface{}{
		"first": "Ada",
		"last":  "Lovelace",
		"a":     float64(2),
		"b":     float64(3),
		"age":   float64(36),
		"vip":   true,
		"tags":  []interface{}{"x", "y"},
	}

	tests := []struct {
		name string
		src  string
		want interface{}
	}{
		{
			name: "arithmetic",
			src:  "row.a + row.b * 2",
			want: float64(8),
		},
		{
			name: "string template",
			src:  `"${row.first} ${row.last}"`,
			want: "Ada Lovelace",
		},
		{
			name: "comparison",
			src:  "row.a == 2",
			want: true,
		},
		{
			name: "conditional",
			src:  `row.age >= 18 ? "adult" : "minor"`,
			want: "adult",
		},
		{
			name: "logical",
			src:  "row.vip && row.age > 30",
			want: true,
		},
		{
			name: "index access",
			src:  "row.tags[1]",
			want: "y",
		},
		{
			name: "source alias binds same record",
			src:  "source1.a + source2.b",
			want: float64(5),
		},
		{
			name: "literal without references",
			src:  `"fixed"`,
			want: "fixed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := Parse(tt.src)
			require.NoError(t, err)
			got, err := parsed.Evaluate(record)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpression_EvaluateErrors(t *testing.T) {
	t.Run("missing field", func(t *testing.T) {
		parsed, err := Parse("row.phone")
		require.NoError(t, err)
		_, err = parsed.Evaluate(map[string]interface{}{"email": "x"})
		require.Error(t, err)
		var everr *EvalError
		assert.ErrorAs(t, err, &everr)
	})

	t.Run("type mismatch", func(t *testing.T) {
		parsed, err := Parse("row.name * 2")
		require.NoError(t, err)
		_, err = parsed.Evaluate(map[string]interface{}{"name": "abc"})
		assert.Error(t, err)
	})

	t.Run("input record is not mutated", func(t *testing.T) {
		record := map[string]interface{}{"a": float64(1)}
		parsed, err := Parse("row.a + 1")
		require.NoError(t, err)
		_, err = parsed.Evaluate(record)
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{"a": float64(1)}, record)
	})
}
