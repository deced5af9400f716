package slides

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapslides/internal/component"
	"github.com/leapstack-labs/leapslides/internal/deck"
	"github.com/leapstack-labs/leapslides/internal/module"
	lstar "github.com/leapstack-labs/leapslides/internal/starlark"
	"github.com/leapstack-labs/leapslides/internal/testutil"
	"github.com/leapstack-labs/leapslides/internal/uno"
)

func newRenderer(t *testing.T, cfg Config) *Renderer {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = testutil.NewTestLogger(t)
	}
	if cfg.Engine == nil {
		cfg.Engine = uno.NewEngine(uno.EngineConfig{ModuleCache: lstar.NewModuleCache(), Logger: cfg.Logger})
	}
	if cfg.Delay == 0 {
		cfg.Delay = time.Hour
	}
	r, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func render(t *testing.T, r *Renderer, sources ...deck.SlideSource) []*Slide {
	t.Helper()
	slides, err := r.Render(context.Background(), sources)
	require.NoError(t, err)
	require.Len(t, slides, len(sources))
	return slides
}

func TestRenderer_CSSEndToEnd(t *testing.T) {
	r := newRenderer(t, Config{})

	sources, err := r.Parse("# Hello\n\nThis is a slide{.mt-5}")
	require.NoError(t, err)
	slides := render(t, r, sources...)

	out, err := slides[0].CSS(context.Background())
	require.NoError(t, err)
	require.NoError(t, out.CustomConfigError)
	require.NotNil(t, out.Output)

	assert.Equal(t, "/* layer: preflights */\n"+uno.PreflightCSS+"\n/* layer: default */\n.mt-5{margin-top:1.25rem;}", out.Output.CSS)
	assert.Equal(t, []string{"mt-5"}, out.Output.Matched)

	again, err := slides[0].CSS(context.Background())
	require.NoError(t, err)
	assert.Same(t, out, again, "css is memoized per slide")
}

func TestSlide_CSSCustomLayer(t *testing.T) {
	r := newRenderer(t, Config{CustomCSS: ".deck { color: red; }"})
	slides := render(t, r,
		deck.SlideSource{Content: "plain", Frontmatter: map[string]any{"css": ".one { color: blue; }"}},
		deck.SlideSource{Content: "<b class=\"p-1\">pure</b>", Frontmatter: map[string]any{"pureHTML": true}},
	)

	out, err := slides[0].CSS(context.Background())
	require.NoError(t, err)
	layer := out.Output.GetLayer(uno.DefaultLayerName)
	assert.Contains(t, layer, ".deck { color: red; }")
	assert.Contains(t, layer, ".one { color: blue; }")

	out, err = slides[1].CSS(context.Background())
	require.NoError(t, err)
	assert.Contains(t, out.Output.GetLayer(""), ".p-1{padding:0.25rem;}")
	assert.NotContains(t, out.Output.GetLayer(uno.DefaultLayerName), ".one")
}

func TestSlide_Meta(t *testing.T) {
	r := newRenderer(t, Config{})
	slides := render(t, r,
		deck.SlideSource{Content: "# Intro", Note: "first [click] then [click:2] done"},
		deck.SlideSource{Content: "body", Frontmatter: map[string]any{"title": "Second", "layout": "center"}},
	)

	first := slides[0]
	assert.Equal(t, 1, first.No)
	assert.Equal(t, 1, first.Meta.No)
	assert.Equal(t, 0, first.Meta.Index)
	assert.Equal(t, "/slides.md__slide_0.md", first.Meta.Filepath)
	assert.Equal(t, "Intro", first.Meta.Title)
	assert.Equal(t, 3, first.Meta.Clicks)
	assert.Contains(t, first.Meta.NoteHTML, `data-clicks="3"`)

	second := slides[1]
	assert.Equal(t, 2, second.No)
	assert.Equal(t, "Second", second.Meta.Title)
	assert.Equal(t, "center", second.Meta.Frontmatter["layout"])
	assert.Empty(t, second.Meta.NoteHTML)
	assert.Zero(t, second.Meta.Clicks)
}

func TestSlide_LoadLinksOnce(t *testing.T) {
	var links sync.Map
	mc := module.NewContext(module.WithLinkHook(func(u *module.Unit) {
		n, _ := links.LoadOrStore(u.Label, new(atomic.Int32))
		n.(*atomic.Int32).Add(1)
	}))
	r := newRenderer(t, Config{Modules: mc})
	slides := render(t, r, deck.SlideSource{Content: "# Hi"})

	const callers = 8
	mods := make([]*module.Module, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mod, err := slides[0].Load(context.Background())
			assert.NoError(t, err)
			mods[i] = mod
		}()
	}
	wg.Wait()

	for _, mod := range mods {
		assert.Same(t, mods[0], mod)
	}
	n, ok := links.Load(deck.SlideID(0))
	require.True(t, ok)
	assert.Equal(t, int32(1), n.(*atomic.Int32).Load(), "slide is linked exactly once")

	unit := mods[0].Default.(*module.Unit)
	assert.Contains(t, unit.Template, "<h1>Hi</h1>")
	layout, ok := unit.Bindings["InjectedLayout"].(*module.Unit)
	require.True(t, ok)
	assert.Equal(t, "layout:default", layout.Label)
}

func TestSlide_LoadComponents(t *testing.T) {
	r := newRenderer(t, Config{
		Components: map[string]any{"card": "CardValue"},
		InlineComponents: []*component.Source{
			{Name: "Badge", Code: `<template><span class="badge"><slot /></span></template>`},
		},
	})
	assert.Equal(t, []string{"card", "Badge"}, r.Components())

	slides := render(t, r, deck.SlideSource{Content: "<card/> <Badge>new</Badge>"})
	source, err := slides[0].Source()
	require.NoError(t, err)
	assert.Contains(t, source, `import card from "custom:card"`)
	assert.Contains(t, source, `import Badge from "custom:Badge"`)

	mod, err := slides[0].Load(context.Background())
	require.NoError(t, err)
	unit := mod.Default.(*module.Unit)
	assert.Equal(t, "CardValue", unit.Bindings["card"])
	assert.Equal(t, "custom:Badge", unit.Bindings["Badge"].(*module.Unit).Label)
}

func TestSlide_CompileErrorIsRetriedAndIsolated(t *testing.T) {
	logger, logs := testutil.NewCaptureLogger()
	r := newRenderer(t, Config{Logger: logger, Error: "ErrorView"})
	slides := render(t, r,
		deck.SlideSource{Content: "broken", Frontmatter: map[string]any{"bad": func() {}}},
		deck.SlideSource{Content: "# Fine"},
	)

	for range 2 {
		_, err := slides[0].Load(context.Background())
		var compileErr *CompileError
		require.ErrorAs(t, err, &compileErr)
		assert.Equal(t, 1, compileErr.No)
	}
	assert.Equal(t, 2, logs.Count(slog.LevelError, "failed to compile slide"), "failures are not cached")

	_, err := slides[1].Load(context.Background())
	require.NoError(t, err)

	var views []View
	for v := range slides[0].Component.Resolve(context.Background()) {
		views = append(views, v)
	}
	require.Len(t, views, 1)
	assert.Equal(t, ViewError, views[0].State)
	assert.Equal(t, "ErrorView", views[0].Component)
	assert.Equal(t, 1, logs.Count(slog.LevelError, "failed to load slide"))
}

func TestSlide_BrokenInlineComponent(t *testing.T) {
	r := newRenderer(t, Config{InlineComponents: []*component.Source{
		{Name: "Broken", Code: "<script setup>\nconst = ;\n</script>\n<template><div /></template>"},
	}})
	slides := render(t, r, deck.SlideSource{Content: "# Hi"})

	_, err := slides[0].Load(context.Background())
	var loadErr *component.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "Broken.vue", loadErr.File)
}

func TestRenderer_UnknownLayoutFallsBack(t *testing.T) {
	logger, logs := testutil.NewCaptureLogger()
	r := newRenderer(t, Config{Logger: logger})
	slides := render(t, r, deck.SlideSource{Content: "x", Frontmatter: map[string]any{"layout": "covr"}})

	source, err := slides[0].Source()
	require.NoError(t, err)
	assert.Contains(t, source, `import InjectedLayout from "layout:default"`)
	require.Equal(t, 1, logs.Count(slog.LevelError, "unknown layout"))
}

func TestRenderer_UserLayouts(t *testing.T) {
	r := newRenderer(t, Config{Layouts: []*component.Source{
		{Name: "intro", Code: "<template><header><slot /></header></template>"},
	}})
	assert.Contains(t, r.Layouts(), "intro")
	assert.Contains(t, r.Layouts(), "default")

	slides := render(t, r, deck.SlideSource{Content: "x", Frontmatter: map[string]any{"layout": "intro"}})
	mod, err := slides[0].Load(context.Background())
	require.NoError(t, err)
	layout := mod.Default.(*module.Unit).Bindings["InjectedLayout"].(*module.Unit)
	assert.Equal(t, "<header><slot /></header>", layout.Template)
}

func TestRenderer_BadCSSConfig(t *testing.T) {
	logger, logs := testutil.NewCaptureLogger()
	engine := uno.NewEngine(uno.EngineConfig{ConfigSource: "export default {", ModuleCache: lstar.NewModuleCache()})
	r := newRenderer(t, Config{Engine: engine, Logger: logger})

	slides := render(t, r, deck.SlideSource{Content: "# Hi"})
	assert.Equal(t, 1, logs.Count(slog.LevelWarn, "css engine initialization failed"))

	out, err := slides[0].CSS(context.Background())
	require.NoError(t, err)
	assert.Nil(t, out.Output)
	assert.Error(t, out.CustomConfigError)

	_, err = slides[0].Load(context.Background())
	assert.NoError(t, err, "a css configuration error does not stop slides from loading")
}

func TestRenderer_ParseAndSlidesInfo(t *testing.T) {
	r := newRenderer(t, Config{})
	sources, err := r.Parse("---\nlayout: cover\n---\n# One\n---\n# Two\n<!-- note -->\n")
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "cover", sources[0].Frontmatter["layout"])

	infos := r.SlidesInfo(sources)
	require.Len(t, infos, 2)
	assert.Equal(t, "/slides.md__slide_1.md", infos[1].ID)
	assert.Equal(t, "Two", infos[1].Title)
	assert.Empty(t, r.SlideInfos(), "SlidesInfo does not replace the deck")

	render(t, r, sources...)
	assert.Len(t, r.SlideInfos(), 2)
}

func TestRenderer_Close(t *testing.T) {
	r := newRenderer(t, Config{})
	slides := render(t, r, deck.SlideSource{Content: "# Hi"})
	require.NoError(t, r.Close())

	_, err := slides[0].Load(context.Background())
	assert.ErrorIs(t, err, module.ErrDisposed)
}

func TestNew_RejectsComponentCycle(t *testing.T) {
	_, err := New(Config{InlineComponents: []*component.Source{
		{Name: "A", Code: "<script setup>\nimport B from \"custom:B\"\n</script>"},
		{Name: "B", Code: "<script setup>\nimport A from \"custom:A\"\n</script>"},
	}})
	var cycleErr *component.CycleError
	require.ErrorAs(t, err, &cycleErr)
}

func TestSlide_CompileAndLayout(t *testing.T) {
	r := newRenderer(t, Config{})
	slides := render(t, r,
		deck.SlideSource{Content: "# One", Frontmatter: map[string]any{"layout": "cover"}},
		deck.SlideSource{Content: "# Two"},
	)

	assert.Equal(t, "cover", slides[0].Layout())
	assert.Equal(t, deck.DefaultLayout, slides[1].Layout())

	res := slides[1].Compile()
	require.False(t, res.Failed())
	assert.Contains(t, res.ComponentCode, "__template")
}

func TestSlide_KeepsItsDeckAfterRerender(t *testing.T) {
	r := newRenderer(t, Config{})
	first := render(t, r,
		deck.SlideSource{Content: "# One", Frontmatter: map[string]any{"default": map[string]any{"layout": "center"}}},
		deck.SlideSource{Content: "# Two"},
	)
	second := render(t, r,
		deck.SlideSource{Content: "# Uno", Frontmatter: map[string]any{"layout": "cover"}},
		deck.SlideSource{Content: "# Dos"},
	)

	assert.Equal(t, "center", first[1].Layout())
	assert.Equal(t, deck.DefaultLayout, second[1].Layout())

	source, err := first[1].Source()
	require.NoError(t, err)
	assert.Contains(t, source, `import InjectedLayout from "layout:center"`)

	source, err = second[1].Source()
	require.NoError(t, err)
	assert.Contains(t, source, `import InjectedLayout from "layout:default"`)

	_, err = first[1].Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, r.SlideInfos(), 2)
	assert.Equal(t, "cover", r.SlideInfos()[0].Frontmatter["layout"])
}
