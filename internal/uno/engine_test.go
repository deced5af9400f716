package uno

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	lstar "github.com/leapstack-labs/leapslides/internal/starlark"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const slideMarkup = `<div><h1 class="mt-5">Hello</h1>
<p>This is a slide</p>
<p>Compiled in the <strong>browser</strong></p>
<card><span style="color: green;" class="custom-class green"><span style="color: green;" class="custom-class green">The content of the card</span></span>!</card>
<test/></div>`

func newTestEngine(t *testing.T, source string) *Engine {
	t.Helper()
	return NewEngine(EngineConfig{
		ConfigSource: source,
		ModuleCache:  lstar.NewModuleCache(),
		Fetcher:      newFakeFetcher(nil),
	})
}

func TestPreflightCSS_MatchesReset(t *testing.T) {
	golden, err := os.ReadFile("testdata/preflights.css")
	require.NoError(t, err)
	assert.Equal(t, string(golden), PreflightCSS)
}

func TestCleanCSS(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "comments and indentation", in: "/* a */\n  .x {\n    color: red;\n  }\n", want: ".x {\ncolor: red;\n}"},
		{name: "blank lines collapse", in: ".a{}\n\n\n.b{}", want: ".a{}\n.b{}"},
		{name: "multiline comment", in: "/*\n * banner\n */.a{}", want: ".a{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanCSS(tt.in))
		})
	}
}

func TestGenerateCSS_DefaultConfig(t *testing.T) {
	out := GenerateCSS(context.Background(), GenerateOptions{Markup: slideMarkup})
	require.NoError(t, out.CustomConfigError)
	require.NoError(t, out.CustomCSSWarn)
	require.NotNil(t, out.Output)

	assert.Equal(t, "/* layer: preflights */\n"+PreflightCSS+"\n/* layer: default */\n.mt-5{margin-top:1.25rem;}", out.Output.CSS)
	assert.Equal(t, "/* layer: default */\n.mt-5{margin-top:1.25rem;}", out.Output.GetLayer(""))
	assert.Equal(t, []string{"preflights", "default"}, out.Output.Layers)
	assert.Equal(t, []string{"mt-5"}, out.Output.Matched)
	assert.Empty(t, out.Output.GetLayer("slides"), "empty custom css must not produce a layer")
}

func TestEngine_GenerateIsDeterministic(t *testing.T) {
	e := newTestEngine(t, "")
	opts := GenerateOptions{
		Markup:    `<div class="p-4 hover:text-red sm:mt-2 flex custom-shortcut !m-0 dark:bg-gray-900" text="sm blue"></div>`,
		CustomCSS: ".card { @apply p-2 rounded; }",
	}
	first := e.Generate(context.Background(), opts)
	require.NoError(t, first.CustomConfigError)
	for range 3 {
		again := e.Generate(context.Background(), opts)
		require.NoError(t, again.CustomConfigError)
		assert.Equal(t, first.Output.CSS, again.Output.CSS)
	}
}

func TestEngine_CustomCSSReplacesConfigPreflight(t *testing.T) {
	source := `export default {
  "preflights": [
    {"layer": "slides", "css": ".a{}"},
    {"layer": "other", "css": ".b{color:red}"},
  ],
}`
	e := newTestEngine(t, source)
	out := e.Generate(context.Background(), GenerateOptions{
		CustomCSS: "/* theme */\n.x {\n  color: blue;\n}",
	})
	require.NoError(t, out.CustomConfigError)
	require.NotNil(t, out.Output)

	assert.ErrorIs(t, out.CustomCSSWarn, ErrMissingDirectives)
	assert.Equal(t, "/* layer: other */\n.b{color:red}\n/* layer: slides */\n.x {\ncolor: blue;\n}", out.Output.CSS)
	assert.Equal(t, 1, strings.Count(out.Output.CSS, "/* layer: slides */"))
	assert.NotContains(t, out.Output.CSS, ".a{}")
}

func TestEngine_CustomLayerName(t *testing.T) {
	e := newTestEngine(t, "")
	out := e.Generate(context.Background(), GenerateOptions{
		CustomCSS: ".deck { color: red; }",
		LayerName: "deck",
	})
	require.NoError(t, out.CustomConfigError)
	assert.Contains(t, out.Output.GetLayer("deck"), ".deck")
	assert.Empty(t, out.Output.GetLayer("slides"))
}

func TestEngine_ApplyDirective(t *testing.T) {
	e := newTestEngine(t, "")
	out := e.Generate(context.Background(), GenerateOptions{
		CustomCSS: "/* note */\n.btn {\n  @apply mt-5 hover:text-red;\n}\n",
	})
	require.NoError(t, out.CustomConfigError)
	require.NoError(t, out.CustomCSSWarn)

	layer := out.Output.GetLayer("slides")
	assert.Contains(t, layer, ".btn:hover")
	assert.Contains(t, layer, "1.25rem")
	assert.NotContains(t, layer, "@apply")
	assert.NotContains(t, layer, "note")
	require.NotEmpty(t, out.Annotations)
	assert.Equal(t, "directive", out.Annotations[0].ClassName)
}

func TestEngine_ApplyUnknownUtility(t *testing.T) {
	e := newTestEngine(t, "")
	out := e.Generate(context.Background(), GenerateOptions{
		CustomCSS: ".btn { @apply definitely-not-a-utility; }",
	})
	require.Error(t, out.CustomConfigError)
	assert.Nil(t, out.Output)
	assert.Contains(t, out.CustomConfigError.Error(), "definitely-not-a-utility")
}

func TestEngine_ConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		stage  string
	}{
		{name: "syntax error", source: "export default {", stage: "evaluate"},
		{name: "unknown module", source: `import { nope } from "not-allowed"` + "\nexport default {}", stage: "evaluate"},
		{name: "bad rule", source: `export default {"rules": [["only-name"]]}`, stage: "convert"},
		{name: "not a dict", source: `export default 42`, stage: "convert"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, tt.source)
			out := e.Generate(context.Background(), GenerateOptions{Markup: `<div class="mt-5">`})
			require.Error(t, out.CustomConfigError)
			assert.Nil(t, out.Output)

			var cfgErr *ConfigError
			require.True(t, errors.As(out.CustomConfigError, &cfgErr))
			assert.Equal(t, tt.stage, cfgErr.Stage)
			assert.False(t, e.Initialized())
		})
	}
}

func TestEngine_PerCallConfigSource(t *testing.T) {
	e := newTestEngine(t, "")
	require.NoError(t, e.Init(context.Background()))

	out := e.Generate(context.Background(), GenerateOptions{
		Markup:       `<div class="brand">`,
		ConfigSource: `export default {"rules": [["brand", {"color": "hotpink"}]]}`,
	})
	require.NoError(t, out.CustomConfigError)
	assert.Equal(t, "/* layer: default */\n.brand{color:hotpink;}", out.Output.CSS)

	// the engine's own configuration is untouched
	out = e.Generate(context.Background(), GenerateOptions{Markup: `<div class="custom-rule">`})
	require.NoError(t, out.CustomConfigError)
	assert.Contains(t, out.Output.GetLayer(""), ".custom-rule{color:red;}")
}

func TestEngine_Hint(t *testing.T) {
	e := newTestEngine(t, "")

	hint, err := e.Hint(`<div class="mt-">`, 15)
	require.NoError(t, err)
	assert.Nil(t, hint, "no hints before init")

	require.NoError(t, e.Init(context.Background()))
	assert.True(t, e.Initialized())

	text := `<div class="mt-">`
	hint, err = e.Hint(text, strings.Index(text, "mt-")+3)
	require.NoError(t, err)
	require.NotNil(t, hint)
	assert.Equal(t, strings.Index(text, "mt-"), hint.Start)
	assert.Equal(t, strings.Index(text, "mt-")+3, hint.End)
	require.NotEmpty(t, hint.Suggestions)
	assert.True(t, strings.HasPrefix(hint.Suggestions[0].Value, "mt-"), hint.Suggestions[0].Value)

	var values []string
	for _, s := range hint.Suggestions {
		values = append(values, s.Value)
	}
	assert.Contains(t, values, "mt-4")
}

func TestEngine_InitIsIdempotent(t *testing.T) {
	e := newTestEngine(t, "")
	require.NoError(t, e.Init(context.Background()))
	e.mu.RLock()
	base := e.base
	e.mu.RUnlock()

	require.NoError(t, e.Init(context.Background()))
	e.mu.RLock()
	defer e.mu.RUnlock()
	assert.Same(t, base, e.base)
}
