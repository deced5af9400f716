// Package project builds the slide pipeline for a project configuration:
// the CSS engine, the markdown parser, the project's components and
// layouts, and the renderer that ties them together.
package project

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/leapstack-labs/leapslides/internal/component"
	"github.com/leapstack-labs/leapslides/internal/config"
	"github.com/leapstack-labs/leapslides/internal/markdown"
	"github.com/leapstack-labs/leapslides/internal/sfc"
	"github.com/leapstack-labs/leapslides/internal/slides"
	lstar "github.com/leapstack-labs/leapslides/internal/starlark"
	"github.com/leapstack-labs/leapslides/internal/uno"
)

// NewEngine creates a CSS engine for cfg. The engine is not initialized.
func NewEngine(cfg *config.ProjectConfig, logger *slog.Logger) (*uno.Engine, error) {
	source, err := cfg.CSSConfigSource()
	if err != nil {
		return nil, fmt.Errorf("failed to read css config: %w", err)
	}
	return uno.NewEngine(uno.EngineConfig{
		ConfigSource: source,
		LayerName:    cfg.CSS.LayerName,
		Fetcher:      lstar.NewHTTPFetcher(cfg.CSS.FetchRate, cfg.CSS.FetchBurst),
		CDN:          cfg.CSS.CDN,
		Logger:       logger,
	}), nil
}

// NewMarkdown creates the markdown parser configured by cfg.
func NewMarkdown(cfg *config.ProjectConfig) (*markdown.Parser, error) {
	opts := markdown.DefaultOptions()
	opts.Quotes = cfg.Markdown.Quotes
	opts.Linkify = cfg.Markdown.Linkify
	opts.Footnote = cfg.Markdown.Footnote
	md, err := markdown.New(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown parser: %w", err)
	}
	return md, nil
}

// NewRenderer creates a slide renderer with the project's components,
// layouts and custom CSS.
func NewRenderer(cfg *config.ProjectConfig, logger *slog.Logger) (*slides.Renderer, error) {
	engine, err := NewEngine(cfg, logger)
	if err != nil {
		return nil, err
	}

	customCSS, err := cfg.CustomCSSSource()
	if err != nil {
		return nil, fmt.Errorf("failed to read custom css: %w", err)
	}

	md, err := NewMarkdown(cfg)
	if err != nil {
		return nil, err
	}

	inline, err := component.NewLoader(cfg.ComponentsDir).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load components: %w", err)
	}
	layouts, err := component.NewLoader(cfg.LayoutsDir).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load layouts: %w", err)
	}

	return slides.New(slides.Config{
		Engine:           engine,
		Markdown:         md,
		SFC:              sfc.CompileOptions{Minify: cfg.Render.Minify},
		InlineComponents: inline,
		Layouts:          layouts,
		Delay:            cfg.Render.Delay,
		CustomCSS:        customCSS,
		Logger:           logger,
	})
}

// LoadDeck reads and parses the deck at path and renders it with r.
func LoadDeck(ctx context.Context, r *slides.Renderer, path string) ([]*slides.Slide, error) {
	markup, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read deck: %w", err)
	}
	sources, err := r.Parse(string(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse deck %s: %w", path, err)
	}
	return r.Render(ctx, sources)
}
