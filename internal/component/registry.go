package component

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/leapstack-labs/leapslides/internal/module"
	"github.com/leapstack-labs/leapslides/internal/sfc"
)

var errDuplicate = errors.New("duplicate name")

// Registry registers components and layouts in a module context and
// remembers their names for the transform pipeline.
type Registry struct {
	modules *module.Context
	opts    sfc.CompileOptions
	logger  *slog.Logger

	mu         sync.RWMutex
	layouts    []string
	components []string
	inline     []string
}

// NewRegistry creates a registry over modules. Inline components and
// layouts are compiled with opts when first resolved.
func NewRegistry(modules *module.Context, opts sfc.CompileOptions, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{modules: modules, opts: opts, logger: logger}
}

// RegisterComponents registers ready component values under custom:<name>.
func (r *Registry) RegisterComponents(components map[string]any) error {
	names := make([]string, 0, len(components))
	for name := range components {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := r.modules.RegisterComponent(name, components[name]); err != nil {
			return &RegistryError{Kind: "component", Name: name, Err: err}
		}
		r.add(&r.components, name)
	}
	return nil
}

// RegisterInline registers component sources under custom:<name>. Each is
// compiled and linked on first resolution. Sources importing each other in
// a cycle are rejected before anything is registered.
func (r *Registry) RegisterInline(sources []*Source) error {
	byName := make(map[string]*Source, len(sources))
	for _, src := range sources {
		if err := ValidateName(src.Name); err != nil {
			return &RegistryError{Kind: "inline component", Name: src.Name, Err: err}
		}
		if _, dup := byName[src.Name]; dup {
			return &RegistryError{Kind: "inline component", Name: src.Name, Err: errDuplicate}
		}
		byName[src.Name] = src
	}

	order, err := Order(sources)
	if err != nil {
		return err
	}
	for _, name := range order {
		src := byName[name]
		spec := module.ComponentSpecifier(name)
		if err := r.modules.Register(spec, r.compileFactory(spec, src)); err != nil {
			return &RegistryError{Kind: "inline component", Name: name, Err: err}
		}
		r.add(&r.inline, name)
	}
	return nil
}

// RegisterLayouts registers layout sources under layout:<name>.
func (r *Registry) RegisterLayouts(sources []*Source) error {
	for _, src := range sources {
		if err := ValidateName(src.Name); err != nil {
			return &RegistryError{Kind: "layout", Name: src.Name, Err: err}
		}
		spec := module.LayoutSpecifier(src.Name)
		if err := r.modules.Register(spec, r.compileFactory(spec, src)); err != nil {
			return &RegistryError{Kind: "layout", Name: src.Name, Err: err}
		}
		r.add(&r.layouts, src.Name)
	}
	return nil
}

// Layouts returns the registered layout names, sorted.
func (r *Registry) Layouts() []string { return r.names(&r.layouts) }

// Components returns the names of registered component values, sorted.
func (r *Registry) Components() []string { return r.names(&r.components) }

// InlineComponents returns the names of registered inline components,
// sorted.
func (r *Registry) InlineComponents() []string { return r.names(&r.inline) }

func (r *Registry) compileFactory(spec string, src *Source) module.Factory {
	return func(ctx context.Context) (*module.Module, error) {
		res := sfc.Compile(src.Filename(), src.Code, r.opts)
		if res.Failed() {
			err := errors.Join(res.Errors...)
			r.logger.Error("component compile failed", "specifier", spec, "error", err)
			return nil, &LoadError{File: src.Filename(), Message: "failed to compile component", Err: err}
		}
		return r.modules.Evaluate(res, spec)(ctx)
	}
}

func (r *Registry) add(list *[]string, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	*list = append(*list, name)
	sort.Strings(*list)
}

func (r *Registry) names(list *[]string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), (*list)...)
}
