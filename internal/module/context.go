package module

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/leapstack-labs/leapslides/internal/memo"
)

// Context owns a module registry and its cache. Independent decks use
// independent contexts.
type Context struct {
	id     string
	logger *slog.Logger
	onLink func(*Unit)

	mu        sync.RWMutex
	factories map[string]Factory
	disposed  bool

	initOnce sync.Once
	cache    *memo.Group[*Module]
}

// Option configures a Context.
type Option func(*Context)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Context) { c.logger = logger }
}

// WithLinkHook registers a function called once for every unit linked by
// an evaluated thunk.
func WithLinkHook(fn func(*Unit)) Option {
	return func(c *Context) { c.onLink = fn }
}

// NewContext creates an empty context. Call Init to register the built-ins.
func NewContext(opts ...Option) *Context {
	c := &Context{
		id:        uuid.NewString(),
		factories: make(map[string]Factory),
		cache:     memo.New[*Module](memo.CacheErrors),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	c.logger = c.logger.With("module_context", c.id)
	return c
}

// ID returns the context's unique identifier.
func (c *Context) ID() string { return c.id }

// Init registers the built-in modules. It is safe to call more than once.
func (c *Context) Init(_ context.Context) error {
	var err error
	c.initOnce.Do(func() {
		if err = c.Register(RuntimeSpecifier, Value(&Runtime{Name: "leapslides", Version: Version})); err != nil {
			return
		}
		err = c.Register(RemoteSpecifier, Value(remoteComponent))
	})
	return err
}

// Register adds a factory for spec. Registering a specifier twice fails.
func (c *Context) Register(spec string, factory Factory) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return ErrDisposed
	}
	if _, ok := c.factories[spec]; ok {
		return &RegistryError{Specifier: spec}
	}
	c.factories[spec] = factory
	c.logger.Debug("module registered", "specifier", spec)
	return nil
}

// RegisterComponent registers value as the default export of custom:<name>.
func (c *Context) RegisterComponent(name string, value any) error {
	return c.Register(ComponentSpecifier(name), Value(value))
}

// Has reports whether spec is registered.
func (c *Context) Has(spec string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.factories[spec]
	return ok
}

// Specifiers returns the registered specifiers with the given prefix, sorted.
func (c *Context) Specifiers(prefix string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []string
	for spec := range c.factories {
		if strings.HasPrefix(spec, prefix) {
			out = append(out, spec)
		}
	}
	sort.Strings(out)
	return out
}

// Resolve returns the module for spec, invoking its factory at most once.
func (c *Context) Resolve(ctx context.Context, spec string) (*Module, error) {
	c.mu.RLock()
	factory, ok := c.factories[spec]
	disposed := c.disposed
	c.mu.RUnlock()

	if disposed {
		return nil, &ResolveError{Specifier: spec, Err: ErrDisposed}
	}
	if !ok {
		return nil, &ResolveError{Specifier: spec, Err: ErrUnknownSpecifier}
	}

	mod, err := c.cache.Do(ctx, spec, func(ctx context.Context) (*Module, error) {
		c.logger.Debug("module resolving", "specifier", spec)
		return factory(ctx)
	})
	if err != nil {
		return nil, &ResolveError{Specifier: spec, Err: err}
	}
	return mod, nil
}

// ClearCache drops every resolved module so factories run again. Clearing
// while compiles are in flight is the caller's responsibility.
func (c *Context) ClearCache() {
	c.cache.Clear()
}

// CacheLen returns the number of resolved modules.
func (c *Context) CacheLen() int {
	return c.cache.Len()
}

// Dispose clears the cache and rejects later registrations and resolves.
func (c *Context) Dispose() {
	c.mu.Lock()
	c.disposed = true
	c.mu.Unlock()
	c.cache.Clear()
}
