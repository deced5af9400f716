package uno

import (
	"context"
	"testing"

	lstar "github.com/leapstack-labs/leapslides/internal/starlark"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalConfig(t *testing.T, source string) *Config {
	t.Helper()
	ev := lstar.NewEvaluator(Bundle(), lstar.WithCache(lstar.NewModuleCache()), lstar.WithFetcher(newFakeFetcher(nil)))
	v, err := ev.Evaluate(context.Background(), source)
	require.NoError(t, err)
	cfg, err := ConvertConfig(v, nil)
	require.NoError(t, err)
	return cfg
}

func TestConvertConfig_CallableRulesAndShortcuts(t *testing.T) {
	cfg := evalConfig(t, `
def font_size(m):
    return {"font-size": m[1] + "px"}

def tagged(m, ctx):
    return "outline:1px solid " + ctx["body"].removeprefix("tag-")

export default {
  "rules": [
    ["^fs-(\\d+)$", font_size, {"autocomplete": "fs-<num>"}],
    ["red-box", "color:red;border:1px solid red"],
    ["^tag-(\\w+)$", tagged],
  ],
  "shortcuts": [["^stack-(.+)$", lambda m: "flex gap-" + m[1]]],
  "layers": {"custom": 5},
  "safelist": "red-box",
}
`)
	require.Len(t, cfg.Rules, 3)
	assert.Equal(t, []string{"fs-<num>"}, cfg.Rules[0].Meta.Autocomplete)
	assert.Equal(t, "red-box", cfg.Rules[1].Static)
	assert.Equal(t, map[string]int{"custom": 5}, cfg.Layers)

	cfg.Presets = append(cfg.Presets, PresetUno())
	gen := NewGenerator(ResolveConfig(cfg), nil, nil)
	res, err := gen.generate(context.Background(), "fs-12 stack-4 tag-blue", generateOptions{id: "test.html"})
	require.NoError(t, err)

	assert.Equal(t, "/* layer: shortcuts */\n.stack-4{display:flex;gap:1rem;}", res.GetLayer("shortcuts"))
	assert.Equal(t, "/* layer: default */\n"+
		".fs-12{font-size:12px;}\n"+
		".red-box{color:red;border:1px solid red;}\n"+
		".tag-blue{outline:1px solid blue;}",
		res.GetLayer(""))
}

func TestConvertConfig_ShortcutForms(t *testing.T) {
	cfg := evalConfig(t, `
export default {
  "shortcuts": [
    {"btn": "px-4 py-1", "card": ["p-2", "hover:(m-1 p-3)"]},
    ["chip", "rounded px-1", {"layer": "chips"}],
  ],
}
`)
	require.Len(t, cfg.Shortcuts, 3)
	assert.Equal(t, "btn", cfg.Shortcuts[0].Static)
	assert.Equal(t, []string{"px-4", "py-1"}, cfg.Shortcuts[0].Expand)
	assert.Equal(t, []string{"p-2", "hover:m-1", "hover:p-3"}, cfg.Shortcuts[1].Expand)
	assert.Equal(t, "chips", cfg.Shortcuts[2].Layer)
}

func TestConvertConfig_PreflightsThemeAndBlocklist(t *testing.T) {
	cfg := evalConfig(t, `
def dynamic():
    return ".dyn{color:blue}"

export default {
  "preflights": [
    {"css": ".static{}"},
    {"layer": "base", "getCSS": dynamic},
  ],
  "theme": {"colors": {"brand": "#ff0000"}},
  "blocklist": ["mt-1", "^p-"],
}
`)
	require.Len(t, cfg.Preflights, 2)
	css, err := cfg.Preflights[1].GetCSS(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ".dyn{color:blue}", css)
	assert.Equal(t, "base", cfg.Preflights[1].Layer)

	require.NotNil(t, cfg.Theme)
	assert.Equal(t, "#ff0000", cfg.Theme.Colors["brand"])

	require.Len(t, cfg.Blocklist, 2)
	assert.True(t, cfg.Blocklist[0].MatchString("mt-1"))
	assert.False(t, cfg.Blocklist[0].MatchString("mt-10"))
	assert.True(t, cfg.Blocklist[1].MatchString("p-4"))
}

func TestConvertConfig_ScriptTransformer(t *testing.T) {
	cfg := evalConfig(t, `
export default {
  "transformers": [
    {
      "name": "shout",
      "enforce": "post",
      "transform": lambda code, id: code.upper(),
      "idFilter": lambda id: id.endswith(".html"),
    },
  ],
}
`)
	require.Len(t, cfg.Transformers, 1)
	tr := cfg.Transformers[0]
	assert.Equal(t, "shout", tr.Name())
	assert.Equal(t, EnforcePost, tr.Enforce())
	assert.True(t, tr.IDFilter(MarkupID))
	assert.False(t, tr.IDFilter(StyleID))

	buf := NewBuffer("abc")
	_, err := tr.Transform(context.Background(), buf, MarkupID, nil)
	require.NoError(t, err)
	assert.Equal(t, "ABC", buf.String())
}

func TestConvertConfig_Builtins(t *testing.T) {
	cfg := evalConfig(t, `
import { defineConfig, presetUno, presetIcons, transformerDirectives } from "unocss"
import presetAttributify from "@unocss/preset-attributify"

export default defineConfig({
  "presets": [presetUno(), presetAttributify({"prefix": "un-"}), presetIcons(scale = 2)],
  "transformers": [transformerDirectives()],
})
`)
	require.Len(t, cfg.Presets, 3)
	assert.Equal(t, "@unocss/preset-uno", cfg.Presets[0].Name)
	assert.Equal(t, "@unocss/preset-attributify", cfg.Presets[1].Name)
	assert.Equal(t, "@unocss/preset-icons", cfg.Presets[2].Name)
	require.Len(t, cfg.Transformers, 1)
	assert.Equal(t, DirectivesTransformer, cfg.Transformers[0].Name())
}

func TestConvertConfig_Errors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{name: "rule too short", source: `export default {"rules": [["x"]]}`},
		{name: "bad regex", source: `export default {"rules": [["^(unclosed$", "color:red"]]}`},
		{name: "bad body", source: `export default {"rules": [["x", 42]]}`},
		{name: "transformer without function", source: `export default {"transformers": [{"name": "t"}]}`},
		{name: "layers not a dict", source: `export default {"layers": ["a"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := lstar.NewEvaluator(Bundle(), lstar.WithCache(lstar.NewModuleCache()))
			v, err := ev.Evaluate(context.Background(), tt.source)
			require.NoError(t, err)
			_, err = ConvertConfig(v, nil)
			assert.Error(t, err)
		})
	}
}

func TestConvertConfig_NoneIsEmpty(t *testing.T) {
	cfg, err := ConvertConfig(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, cfg.Rules)
}
