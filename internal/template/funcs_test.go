package template

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trap-engine/trap-docs/internal/settings"
)

func TestPyLiteral(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{name: "nil", input: nil, want: "None"},
		{name: "true", input: true, want: "True"},
		{name: "false", input: false, want: "False"},
		{name: "string", input: "TRAP", want: `"TRAP"`},
		{name: "escaped string", input: "say \"hi\"\n", want: `"say \"hi\"\n"`},
		{name: "int", input: 42, want: "42"},
		{name: "whole float", input: 2.0, want: "2.0"},
		{name: "float", input: 0.5, want: "0.5"},
		{name: "inf", input: math.Inf(1), want: `float("inf")`},
		{name: "string list", input: []string{"breathe", "exhale"}, want: `["breathe", "exhale"]`},
		{name: "empty list", input: []any{}, want: "[]"},
		{name: "mixed list", input: []any{1, "a", false}, want: `[1, "a", False]`},
		{
			name:  "options",
			input: settings.Options{{Name: "b", Value: 1}, {Name: "a", Value: settings.Options{{Name: "c", Value: nil}}}},
			want:  `{"b": 1, "a": {"c": None}}`,
		},
		{name: "map sorted", input: map[string]any{"z": 1, "a": 2}, want: `{"a": 2, "z": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PyLiteral(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := PyLiteral(struct{}{})
	require.Error(t, err)
}

func TestIndent(t *testing.T) {
	assert.Equal(t, "  a\n\n  b", indent(2, "a\n\nb"))
}

func TestEngine_LoadConf(t *testing.T) {
	e := New()
	require.NoError(t, e.LoadConf(""))

	_, err := e.Render("missing", nil)
	require.Error(t, err)

	require.Error(t, e.LoadConf("/nonexistent/conf.py.tmpl"))
}
