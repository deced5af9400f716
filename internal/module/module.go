// Package module is the virtual module space compiled slides are linked
// against. Symbolic specifiers (runtime, built-ins, layouts, custom
// components) map to lazily produced modules, each produced at most once
// per Context until its cache is cleared.
package module

import (
	"context"
	"strings"
)

// Well-known specifiers.
const (
	RuntimeSpecifier = "runtime"
	RemoteSpecifier  = "built-in:remote"

	layoutPrefix    = "layout:"
	componentPrefix = "custom:"
)

// Version is reported by the runtime module.
var Version = "dev"

// LayoutSpecifier returns the specifier for a named layout.
func LayoutSpecifier(name string) string { return layoutPrefix + name }

// ComponentSpecifier returns the specifier for a custom component.
func ComponentSpecifier(name string) string { return componentPrefix + name }

// ComponentName returns the component name of a custom specifier.
func ComponentName(spec string) (string, bool) {
	return strings.CutPrefix(spec, componentPrefix)
}

// Module is a resolved module. Default is its default export; Named holds
// the other exports.
type Module struct {
	Default any
	Named   map[string]any
}

// Export returns the named export, "default" included.
func (m *Module) Export(name string) (any, bool) {
	if name == "default" {
		return m.Default, m.Default != nil
	}
	v, ok := m.Named[name]
	return v, ok
}

// Factory produces a module on first resolution.
type Factory func(ctx context.Context) (*Module, error)

// Value wraps a ready value as a factory of a default-export module.
func Value(v any) Factory {
	mod := &Module{Default: v}
	return func(context.Context) (*Module, error) { return mod, nil }
}

// Import is one import of a linked unit.
type Import struct {
	Specifier string
	Default   string
	Namespace string
	Named     map[string]string // local -> exported
}

// Unit is a compiled and linked component.
type Unit struct {
	Label    string
	Template string
	Style    string
	Code     string
	Imports  []Import
	// Bindings maps each imported local name to its resolved value.
	Bindings map[string]any
}

// Runtime is the default export of the runtime module.
type Runtime struct {
	Name    string
	Version string
}

// remoteComponent is the default export of the remote-embed built-in.
var remoteComponent = &Unit{
	Label:    RemoteSpecifier,
	Template: `<iframe class="slides-remote" :src="src" :title="title" frameborder="0" allowfullscreen></iframe>`,
}
