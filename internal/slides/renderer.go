// Package slides turns a deck of slide sources into lazily compiled slides.
// Each slide carries its metadata, a memoized loader that compiles and links
// the slide once, an async wrapper around that loader and a memoized CSS
// generator bound to the slide's markup.
package slides

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/leapstack-labs/leapslides/internal/compiler"
	"github.com/leapstack-labs/leapslides/internal/component"
	"github.com/leapstack-labs/leapslides/internal/deck"
	"github.com/leapstack-labs/leapslides/internal/markdown"
	"github.com/leapstack-labs/leapslides/internal/memo"
	"github.com/leapstack-labs/leapslides/internal/module"
	"github.com/leapstack-labs/leapslides/internal/sfc"
	"github.com/leapstack-labs/leapslides/internal/transform"
	"github.com/leapstack-labs/leapslides/internal/uno"
)

// DefaultDelay is how long a slide may take to load before the loading
// placeholder is shown.
const DefaultDelay = 300 * time.Millisecond

// Config holds the configuration for creating a Renderer.
type Config struct {
	// Modules is the module context slides are linked against. Nil creates
	// a context owned by the renderer.
	Modules *module.Context
	// Engine generates slide CSS. Nil creates an engine with the default
	// configuration.
	Engine *uno.Engine
	// Markdown renders slide content and notes. Nil uses the default parser.
	Markdown *markdown.Parser
	SFC      sfc.CompileOptions

	// Components are ready component values registered as custom:<name>.
	Components map[string]any
	// InlineComponents are component sources compiled on first use.
	InlineComponents []*component.Source
	// Layouts are added to the built-in layouts, replacing built-ins of
	// the same name.
	Layouts []*component.Source

	// Loading and Error are the placeholders the async wrapper shows.
	Loading any
	Error   any
	// Delay before the loading placeholder is shown. Zero selects
	// DefaultDelay; a negative delay shows it immediately.
	Delay time.Duration

	// CustomCSS is added to every slide's stylesheet.
	CustomCSS string
	Logger    *slog.Logger
}

// Renderer produces slides for a deck.
type Renderer struct {
	modules   *module.Context
	engine    *uno.Engine
	md        *markdown.Parser
	compiler  *compiler.Compiler
	registry  *component.Registry
	sfcOpts   sfc.CompileOptions
	loading   any
	errorView any
	delay     time.Duration
	customCSS string
	logger    *slog.Logger

	init *memo.Group[struct{}]

	mu    sync.RWMutex
	infos []deck.SlideInfo
}

// New creates a renderer and registers its components and layouts.
func New(cfg Config) (*Renderer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := &Renderer{
		modules:   cfg.Modules,
		engine:    cfg.Engine,
		md:        cfg.Markdown,
		loading:   cfg.Loading,
		errorView: cfg.Error,
		delay:     cfg.Delay,
		customCSS: cfg.CustomCSS,
		logger:    logger,
		init:      memo.New[struct{}](memo.RetryErrors),
	}
	if r.modules == nil {
		r.modules = module.NewContext(module.WithLogger(logger))
	}
	if r.engine == nil {
		r.engine = uno.NewEngine(uno.EngineConfig{Logger: logger})
	}
	if r.md == nil {
		md, err := markdown.New(markdown.DefaultOptions())
		if err != nil {
			return nil, fmt.Errorf("failed to create markdown parser: %w", err)
		}
		r.md = md
	}
	if r.delay == 0 {
		r.delay = DefaultDelay
	}

	if err := r.modules.Init(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to initialize modules: %w", err)
	}

	r.registry = component.NewRegistry(r.modules, cfg.SFC, logger)
	if err := r.registry.RegisterComponents(cfg.Components); err != nil {
		return nil, err
	}
	if err := r.registry.RegisterInline(cfg.InlineComponents); err != nil {
		return nil, err
	}
	if err := r.registry.RegisterLayouts(component.MergeLayouts(component.BuiltinLayouts(), cfg.Layouts)); err != nil {
		return nil, err
	}

	r.sfcOpts = cfg.SFC
	comp, err := r.newCompiler(r.SlideInfos)
	if err != nil {
		return nil, err
	}
	r.compiler = comp

	return r, nil
}

func (r *Renderer) newCompiler(slides func() []deck.SlideInfo) (*compiler.Compiler, error) {
	pipeline := transform.Default(transform.Config{
		Layout: &transform.LayoutInjector{
			Layouts: r.registry.Layouts,
			Slides:  slides,
			Logger:  r.logger,
		},
		Components:       r.registry.Components,
		InlineComponents: r.registry.InlineComponents,
	})
	comp, err := compiler.New(compiler.Options{Markdown: r.md, Pipeline: pipeline, SFC: r.sfcOpts})
	if err != nil {
		return nil, fmt.Errorf("failed to create compiler: %w", err)
	}
	return comp, nil
}

// Render initializes the CSS engine, replaces the deck with sources and
// returns one slide per source. The engine is initialized once per
// renderer; a failed initialization is logged and retried by the next
// Render. Slides keep the deck they were rendered from: layouts and
// frontmatter inherited from other slides resolve against that deck even
// after a later Render.
func (r *Renderer) Render(ctx context.Context, sources []deck.SlideSource) ([]*Slide, error) {
	_, err := r.init.Do(ctx, "engine", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, r.engine.Init(ctx)
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		// Each slide's CSS reports the configuration error.
		r.logger.Warn("css engine initialization failed", "error", err)
	}

	infos := deck.SlidesInfo(sources)
	comp, err := r.newCompiler(func() []deck.SlideInfo { return infos })
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.infos = infos
	r.mu.Unlock()

	slides := make([]*Slide, len(infos))
	for i, info := range infos {
		slides[i] = r.newSlide(info, infos, comp)
	}
	r.logger.Debug("deck rendered", "slides", len(slides))
	return slides, nil
}

// Parse splits deck markup into slide sources.
func (r *Renderer) Parse(markup string) ([]deck.SlideSource, error) {
	sources, _, err := deck.Parse(markup)
	return sources, err
}

// SlidesInfo derives the info records for sources without changing the
// current deck.
func (r *Renderer) SlidesInfo(sources []deck.SlideSource) []deck.SlideInfo {
	return deck.SlidesInfo(sources)
}

// SlideInfos returns the info records of the deck last rendered.
func (r *Renderer) SlideInfos() []deck.SlideInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.infos
}

// Layouts returns the registered layout names.
func (r *Renderer) Layouts() []string { return r.registry.Layouts() }

// Components returns the names of all registered custom components.
func (r *Renderer) Components() []string {
	return append(r.registry.Components(), r.registry.InlineComponents()...)
}

// Compiler returns a compiler that resolves layouts against the deck last
// rendered.
func (r *Renderer) Compiler() *compiler.Compiler { return r.compiler }

// Engine returns the CSS engine.
func (r *Renderer) Engine() *uno.Engine { return r.engine }

// Modules returns the module context.
func (r *Renderer) Modules() *module.Context { return r.modules }

// Close disposes the module context. Slides loaded afterwards fail.
func (r *Renderer) Close() error {
	r.modules.Dispose()
	return nil
}
