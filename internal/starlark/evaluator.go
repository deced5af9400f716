package starlark

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/leapstack-labs/leapslides/internal/memo"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// ModuleFactory builds an allow-listed module on first import.
type ModuleFactory func(ctx context.Context) (starlark.StringDict, error)

// ModuleMap lists the modules that configuration code may import without a
// network round trip.
type ModuleMap map[string]ModuleFactory

// ModuleCache memoizes resolved modules by specifier.
type ModuleCache struct {
	group *memo.Group[starlark.StringDict]
}

// NewModuleCache creates an empty cache.
func NewModuleCache() *ModuleCache {
	return &ModuleCache{group: memo.New[starlark.StringDict](memo.CacheErrors)}
}

// Len returns the number of resolved specifiers.
func (c *ModuleCache) Len() int {
	return c.group.Len()
}

// Clear drops every resolved module.
func (c *ModuleCache) Clear() {
	c.group.Clear()
}

var sharedCache = NewModuleCache()

// ClearModuleCache empties the process-wide module cache.
func ClearModuleCache() {
	sharedCache.Clear()
}

var fileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
}

// Evaluator executes configuration programs.
type Evaluator struct {
	modules ModuleMap
	cache   *ModuleCache
	fetcher Fetcher
	cdn     string
	logger  *slog.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithCache uses cache instead of the process-wide cache.
func WithCache(cache *ModuleCache) Option {
	return func(e *Evaluator) {
		e.cache = cache
	}
}

// WithFetcher sets the fetcher used for data files and remote modules.
func WithFetcher(f Fetcher) Option {
	return func(e *Evaluator) {
		e.fetcher = f
	}
}

// WithCDN sets the origin prefixed to remote specifiers.
func WithCDN(origin string) Option {
	return func(e *Evaluator) {
		if origin != "" && !strings.HasSuffix(origin, "/") {
			origin += "/"
		}
		e.cdn = origin
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		e.logger = logger
	}
}

// NewEvaluator creates an evaluator serving modules from the given map.
func NewEvaluator(modules ModuleMap, opts ...Option) *Evaluator {
	e := &Evaluator{
		modules: modules,
		cache:   sharedCache,
		cdn:     DefaultCDN,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.fetcher == nil {
		e.fetcher = NewHTTPFetcher(0, 0)
	}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	return e
}

// Evaluate runs source and returns its default export, or nil when the
// program exports nothing. The returned value is frozen and safe to share.
func (e *Evaluator) Evaluate(ctx context.Context, source string) (starlark.Value, error) {
	globals, err := e.exec(ctx, "config.star", source, nil)
	if err != nil {
		return nil, err
	}
	if v, ok := globals[DefaultGlobal]; ok {
		return v, nil
	}
	return nil, nil
}

// Import resolves a specifier the same way load does inside configuration code.
func (e *Evaluator) Import(ctx context.Context, spec string) (starlark.StringDict, error) {
	return e.importWith(ctx, spec, nil)
}

func (e *Evaluator) exec(ctx context.Context, filename, source string, stack []string) (starlark.StringDict, error) {
	thread := newThread(filename)
	thread.Load = func(_ *starlark.Thread, spec string) (starlark.StringDict, error) {
		return e.importWith(ctx, spec, stack)
	}

	stop := context.AfterFunc(ctx, func() {
		thread.Cancel(ctx.Err().Error())
	})
	defer stop()

	globals, err := starlark.ExecFileOptions(fileOptions, thread, filename, RewriteImports(source), nil)
	if err != nil {
		return nil, wrapEvalError(filename, err)
	}
	globals.Freeze()
	return globals, nil
}

func (e *Evaluator) importWith(ctx context.Context, spec string, stack []string) (starlark.StringDict, error) {
	if slices.Contains(stack, spec) {
		return nil, &LoadError{Specifier: spec, Err: fmt.Errorf("%w: %s", ErrLoadCycle, strings.Join(append(stack, spec), " -> "))}
	}

	return e.cache.group.Do(ctx, spec, func(ctx context.Context) (starlark.StringDict, error) {
		exports, err := e.resolve(ctx, spec, append(slices.Clone(stack), spec))
		if err != nil {
			e.logger.Debug("import failed", "specifier", spec, "error", err)
			return nil, &LoadError{Specifier: spec, Err: err}
		}
		e.logger.Debug("import resolved", "specifier", spec, "exports", len(exports))
		return exports, nil
	})
}

func (e *Evaluator) resolve(ctx context.Context, spec string, stack []string) (starlark.StringDict, error) {
	if factory, ok := e.modules[spec]; ok {
		exports, err := factory(ctx)
		if err != nil {
			return nil, err
		}
		return withNamespace(spec, exports), nil
	}

	data, err := e.fetcher.Fetch(ctx, e.url(spec))
	if err != nil {
		return nil, err
	}

	if strings.HasSuffix(spec, ".json") {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", spec, err)
		}
		sv, err := GoToStarlark(v)
		if err != nil {
			return nil, err
		}
		return withNamespace(spec, starlark.StringDict{"default": sv}), nil
	}

	globals, err := e.exec(ctx, spec, string(data), stack)
	if err != nil {
		return nil, err
	}
	exports := starlark.StringDict{}
	for name, v := range globals {
		switch {
		case name == DefaultGlobal:
			exports["default"] = v
		case strings.HasPrefix(name, "_"):
		default:
			exports[name] = v
		}
	}
	return withNamespace(spec, exports), nil
}

func (e *Evaluator) url(spec string) string {
	if strings.HasPrefix(spec, "https://") || strings.HasPrefix(spec, "http://") {
		return spec
	}
	return e.cdn + strings.TrimPrefix(spec, "/")
}

func withNamespace(spec string, exports starlark.StringDict) starlark.StringDict {
	out := make(starlark.StringDict, len(exports)+1)
	for k, v := range exports {
		out[k] = v
	}
	out[NamespaceExport] = Namespace(spec, exports)
	out.Freeze()
	return out
}
