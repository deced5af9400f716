package uno

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	theme := DefaultTheme()
	tests := []struct {
		body string
		want string
		ok   bool
	}{
		{"red", "rgb(248 113 113)", true},
		{"red-500", "rgb(239 68 68)", true},
		{"red-500/50", "rgb(239 68 68 / 0.5)", true},
		{"white", "rgb(255 255 255)", true},
		{"hex-00ff00", "rgb(0 255 0)", true},
		{"[#0a0]", "rgb(0 170 0)", true},
		{"$brand", "var(--brand)", true},
		{"nope", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			c, ok := ParseColor(theme, tt.body)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, c.CSS(""))
			}
		})
	}
}

func TestColorEntries(t *testing.T) {
	c, ok := ParseColor(DefaultTheme(), "blue-500")
	require.True(t, ok)
	assert.Equal(t, "--un-bg-opacity:1;background-color:rgb(59 130 246 / var(--un-bg-opacity));",
		colorEntries("background-color", "bg", c).String())

	c, ok = ParseColor(DefaultTheme(), "blue-500/25")
	require.True(t, ok)
	assert.Equal(t, "background-color:rgb(59 130 246 / 0.25);", colorEntries("background-color", "bg", c).String())
}

func TestHandlers(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) (string, bool)
		in   string
		want string
		ok   bool
	}{
		{"rem number", rem, "4", "1rem", true},
		{"rem fraction step", rem, "0.5", "0.125rem", true},
		{"rem zero", rem, "0", "0", true},
		{"rem full", rem, "full", "100%", true},
		{"rem unit", rem, "3px", "3px", true},
		{"rem fraction", rem, "1/3", "33.33333333333333%", true},
		{"rem bracket", rem, "[calc(100%_-_2rem)]", "calc(100% - 2rem)", true},
		{"rem var", rem, "$gap", "var(--gap)", true},
		{"rem junk", rem, "abc", "", false},
		{"px", px, "2", "2px", true},
		{"percent", percent, "50", "0.5", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.fn(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTheme_MergeAndLookup(t *testing.T) {
	base := DefaultTheme()
	override, err := DecodeTheme(map[string]any{
		"colors":      map[string]any{"red": map[string]any{"500": "#ff0000"}, "brand": "#123456"},
		"breakpoints": map[string]any{"tablet": "900px"},
		"fontSize":    map[string]any{"huge": []any{"10rem", "1"}},
	})
	require.NoError(t, err)

	merged := base.Merge(override)

	v, ok := merged.Color("red-500")
	require.True(t, ok)
	assert.Equal(t, "#ff0000", v)
	v, ok = merged.Color("red-600")
	require.True(t, ok, "unrelated shades survive a merge")
	assert.Equal(t, "#dc2626", v)

	v, ok = merged.Lookup("colors.brand")
	require.True(t, ok)
	assert.Equal(t, "#123456", v)

	v, ok = merged.Lookup("fontSize.huge")
	require.True(t, ok)
	assert.Equal(t, "10rem", v)

	bps := merged.SortedBreakpoints()
	var names []string
	for _, bp := range bps {
		names = append(names, bp.Name)
	}
	assert.Equal(t, []string{"sm", "md", "tablet", "lg", "xl", "2xl"}, names)

	_, ok = base.Color("brand")
	assert.False(t, ok, "merge does not mutate the receiver")
}

func TestAutocomplete_Suggest(t *testing.T) {
	auto := NewAutocomplete(ResolveConfig(&Config{Preset: Preset{Presets: []*Preset{PresetUno()}}}))

	tests := []struct {
		name      string
		text      string
		cursor    int
		wantFirst string
		nilHint   bool
	}{
		{name: "utility prefix", text: "mt-", cursor: 3, wantFirst: "mt-0"},
		{name: "variant kept", text: "hover:mt-", cursor: 9, wantFirst: "hover:mt-0"},
		{name: "empty token", text: `class=""`, cursor: 7, nilHint: true},
		{name: "out of range", text: "mt", cursor: 10, nilHint: true},
		{name: "no match", text: "zzzzqqq", cursor: 7, nilHint: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := auto.Suggest(tt.text, tt.cursor)
			if tt.nilHint {
				assert.Nil(t, h)
				return
			}
			require.NotNil(t, h)
			require.NotEmpty(t, h.Suggestions)
			assert.Equal(t, tt.wantFirst, h.Suggestions[0].Value)
			assert.LessOrEqual(t, len(h.Suggestions), maxSuggestions)
		})
	}
}
