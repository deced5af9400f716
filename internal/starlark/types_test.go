package starlark

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"
)

func TestGoToStarlark(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		wantStr string
		wantErr bool
	}{
		{name: "string", input: "hello", wantStr: `"hello"`},
		{name: "int", input: 42, wantStr: "42"},
		{name: "float64", input: 1.25, wantStr: "1.25"},
		{name: "json integer", input: json.Number("24"), wantStr: "24"},
		{name: "json float", input: json.Number("0.5"), wantStr: "0.5"},
		{name: "bool", input: true, wantStr: "True"},
		{name: "nil", input: nil, wantStr: "None"},
		{name: "string slice", input: []string{"a", "b"}, wantStr: `["a", "b"]`},
		{name: "any slice", input: []any{"x", 1, false}, wantStr: `["x", 1, False]`},
		{
			name:    "map keys sorted",
			input:   map[string]any{"width": 24, "body": "<path/>", "height": 24},
			wantStr: `{"body": "<path/>", "height": 24, "width": 24}`,
		},
		{name: "string map", input: map[string]string{"b": "2", "a": "1"}, wantStr: `{"a": "1", "b": "2"}`},
		{name: "unsupported", input: struct{}{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GoToStarlark(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStr, got.String())
		})
	}
}

func TestToGo(t *testing.T) {
	dict := starlark.NewDict(2)
	require.NoError(t, dict.SetKey(starlark.String("color"), starlark.String("red")))
	require.NoError(t, dict.SetKey(starlark.String("scale"), starlark.Float(1.2)))

	badKey := starlark.NewDict(1)
	require.NoError(t, badKey.SetKey(starlark.MakeInt(1), starlark.True))

	tests := []struct {
		name    string
		input   starlark.Value
		want    any
		wantErr bool
	}{
		{name: "string", input: starlark.String("hello"), want: "hello"},
		{name: "int", input: starlark.MakeInt(42), want: int64(42)},
		{name: "float", input: starlark.Float(3.5), want: 3.5},
		{name: "none", input: starlark.None, want: nil},
		{name: "tuple", input: starlark.Tuple{starlark.String("a"), starlark.MakeInt(1)}, want: []any{"a", int64(1)}},
		{name: "list", input: starlark.NewList([]starlark.Value{starlark.True}), want: []any{true}},
		{name: "dict", input: dict, want: map[string]any{"color": "red", "scale": 1.2}},
		{
			name:  "struct",
			input: Namespace("m", starlark.StringDict{"a": starlark.String("x")}),
			want:  map[string]any{"a": "x"},
		},
		{name: "non-string key", input: badKey, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToGo(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
