package generator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseConstraints(t *testing.T) {
	one := map[string]any{"a": json.Number("1")}

	tests := []struct {
		name  string
		input any
		want  map[string]any
	}{
		{name: "strict json", input: `{"a": 1}`, want: one},
		{name: "single quotes", input: `{'a': 1}`, want: one},
		{name: "map passes through", input: map[string]any{"a": 1}, want: map[string]any{"a": 1}},
		{name: "json string literal", input: `"{\"a\": 1}"`, want: one},
		{name: "escaped without outer quotes", input: `{\"a\": 1}`, want: one},
		{name: "single-quoted wrapper", input: `'{"a": 1}'`, want: one},
		{name: "python literals", input: `{'x': True, 'y': None, 'z': False}`, want: map[string]any{"x": true, "y": nil, "z": false}},
		{name: "surrounding whitespace", input: "  {\"a\": 1}\n", want: one},
		{name: "not json", input: "not json", want: map[string]any{}},
		{name: "json array is not constraints", input: `[1, 2]`, want: map[string]any{}},
		{name: "trailing garbage", input: `{"a": 1} extra`, want: map[string]any{}},
		{name: "empty string", input: "", want: map[string]any{}},
		{name: "nil", input: nil, want: map[string]any{}},
		{name: "unsupported type", input: 42, want: map[string]any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseConstraints(tt.input))
		})
	}
}
