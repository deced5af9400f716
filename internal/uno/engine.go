package uno

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"runtime/debug"
	"slices"
	"strings"
	"sync"

	lstar "github.com/leapstack-labs/leapslides/internal/starlark"
)

// Buffer ids the transformer passes see.
const (
	MarkupID = "input.html"
	StyleID  = "input.css"
)

// ErrPanic wraps a panic recovered during generation.
var ErrPanic = errors.New("css generation panicked")

var (
	blockCommentRE = regexp.MustCompile(`/\*[\s\S]*?\*/`)
	indentRE       = regexp.MustCompile(`\n\s+`)
)

// CleanCSS strips block comments, drops indentation after newlines and
// trims the result.
func CleanCSS(css string) string {
	css = blockCommentRE.ReplaceAllString(css, "")
	css = indentRE.ReplaceAllString(css, "\n")
	return strings.TrimSpace(css)
}

// GenerateOptions is one generation request.
type GenerateOptions struct {
	Markup       string
	ConfigSource string
	CustomCSS    string
	LayerName    string
}

// GenerateOutput is the result of a generation request. Output and
// CustomConfigError are mutually exclusive; CustomCSSWarn may accompany
// either.
type GenerateOutput struct {
	Output            *GenerateResult
	Annotations       []Annotation
	CustomConfigError error
	CustomCSSWarn     error
}

// EngineConfig configures an Engine.
type EngineConfig struct {
	// ConfigSource is the configuration program. Empty selects
	// DefaultConfigSource.
	ConfigSource string
	// LayerName is the layer custom CSS is emitted in.
	LayerName   string
	Fetcher     lstar.Fetcher
	CDN         string
	ModuleCache *lstar.ModuleCache
	Logger      *slog.Logger
}

// Engine generates CSS and completions for one configuration.
type Engine struct {
	cfg       EngineConfig
	evaluator *lstar.Evaluator
	icons     *IconCache
	pool      *lstar.ThreadPool
	logger    *slog.Logger

	mu   sync.RWMutex
	base *ResolvedConfig
	auto *Autocomplete
}

// NewEngine creates an engine. Init must succeed before Hint returns
// suggestions; Generate initializes on demand.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.ConfigSource == "" {
		cfg.ConfigSource = DefaultConfigSource
	}
	if cfg.LayerName == "" {
		cfg.LayerName = DefaultLayerName
	}

	opts := []lstar.Option{lstar.WithLogger(cfg.Logger)}
	if cfg.ModuleCache != nil {
		opts = append(opts, lstar.WithCache(cfg.ModuleCache))
	}
	if cfg.Fetcher != nil {
		opts = append(opts, lstar.WithFetcher(cfg.Fetcher))
	}
	if cfg.CDN != "" {
		opts = append(opts, lstar.WithCDN(cfg.CDN))
	}
	evaluator := lstar.NewEvaluator(Bundle(), opts...)

	return &Engine{
		cfg:       cfg,
		evaluator: evaluator,
		icons:     NewIconCache(evaluator, cfg.Logger),
		pool:      lstar.NewThreadPool(0),
		logger:    cfg.Logger,
	}
}

// Init evaluates the engine's configuration. It is a no-op once it has
// succeeded; a failed Init may be retried.
func (e *Engine) Init(ctx context.Context) error {
	e.mu.RLock()
	done := e.base != nil
	e.mu.RUnlock()
	if done {
		return nil
	}

	rc, err := e.loadConfig(ctx, e.cfg.ConfigSource)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.base == nil {
		e.base = rc
		e.auto = NewAutocomplete(rc)
		e.logger.Debug("css engine initialized", "rules", len(rc.Rules), "variants", len(rc.Variants))
	}
	return nil
}

// Initialized reports whether Init has succeeded.
func (e *Engine) Initialized() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.base != nil
}

func (e *Engine) loadConfig(ctx context.Context, source string) (*ResolvedConfig, error) {
	v, err := e.evaluator.Evaluate(ctx, source)
	if err != nil {
		return nil, &ConfigError{Stage: "evaluate", Err: err}
	}
	cfg, err := ConvertConfig(v, e.pool)
	if err != nil {
		return nil, &ConfigError{Stage: "convert", Err: err}
	}
	return ResolveConfig(cfg), nil
}

// Hint returns completions for the token at cursor. It returns nil, nil
// before Init.
func (e *Engine) Hint(text string, cursor int) (*Hint, error) {
	e.mu.RLock()
	auto := e.auto
	e.mu.RUnlock()
	if auto == nil {
		return nil, nil
	}
	return auto.Suggest(text, cursor), nil
}

// Generate runs one generation. Failures are reported in the output rather
// than returned.
func (e *Engine) Generate(ctx context.Context, opts GenerateOptions) (out *GenerateOutput) {
	out = &GenerateOutput{}
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("css generation panicked", "panic", r, "stack", string(debug.Stack()))
			out.Output = nil
			out.CustomConfigError = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()

	if err := e.generate(ctx, opts, out); err != nil {
		e.logger.Error("css generation failed", "error", err)
		out.Output = nil
		out.CustomConfigError = err
	}
	return out
}

func (e *Engine) generate(ctx context.Context, opts GenerateOptions, out *GenerateOutput) error {
	if err := e.Init(ctx); err != nil {
		return err
	}
	source := opts.ConfigSource
	if source == "" {
		source = e.cfg.ConfigSource
	}
	layerName := opts.LayerName
	if layerName == "" {
		layerName = e.cfg.LayerName
	}

	var rc *ResolvedConfig
	if source == e.cfg.ConfigSource {
		e.mu.RLock()
		base := *e.base
		e.mu.RUnlock()
		rc = &base
	} else {
		loaded, err := e.loadConfig(ctx, source)
		if err != nil {
			return err
		}
		rc = loaded
	}

	css := NewBuffer(opts.CustomCSS)
	rc.Preflights = slices.DeleteFunc(slices.Clone(rc.Preflights), func(p *Preflight) bool {
		return p.Layer == layerName
	})
	rc.Preflights = append(rc.Preflights, &Preflight{
		Layer: layerName,
		GetCSS: func(context.Context) (string, error) {
			return CleanCSS(css.String()), nil
		},
	})

	gen := NewGenerator(rc, e.icons, e.logger)
	tc := &TransformContext{Generator: gen}

	markup := NewBuffer(opts.Markup)
	anns, err := TransformAll(ctx, rc.Transformers, markup, MarkupID, tc)
	if err != nil {
		return err
	}
	out.Annotations = append(out.Annotations, anns...)

	if !rc.HasTransformer(DirectivesTransformer) {
		out.CustomCSSWarn = ErrMissingDirectives
		e.logger.Warn("custom css left untransformed", "error", ErrMissingDirectives)
	} else {
		anns, err := TransformAll(ctx, rc.Transformers, css, StyleID, tc)
		if err != nil {
			return err
		}
		out.Annotations = append(out.Annotations, anns...)
	}

	result, err := gen.Generate(ctx, markup.String())
	if err != nil {
		return err
	}
	out.Output = result
	return nil
}

// GenerateCSS generates CSS with a fresh engine for opts.ConfigSource.
func GenerateCSS(ctx context.Context, opts GenerateOptions) *GenerateOutput {
	e := NewEngine(EngineConfig{ConfigSource: opts.ConfigSource, LayerName: opts.LayerName})
	return e.Generate(ctx, opts)
}
