package transform

import (
	"sort"

	"github.com/leapstack-labs/leapslides/internal/module"
	"github.com/leapstack-labs/leapslides/internal/sfc"
)

// ComponentImports binds each named component to its custom:<name> module.
type ComponentImports struct {
	Label string
	// Names returns the component names to import.
	Names func() []string
}

func (c *ComponentImports) Name() string { return c.Label }

func (c *ComponentImports) Transform(doc *sfc.Document, _ string) error {
	if doc.Setup == nil || c.Names == nil {
		return nil
	}
	names := append([]string(nil), c.Names()...)
	sort.Strings(names)

	stmts := make([]sfc.Stmt, 0, len(names))
	for _, n := range names {
		stmts = append(stmts, &sfc.ImportStmt{Default: n, Specifier: module.ComponentSpecifier(n)})
	}
	doc.Setup.Prepend(stmts...)
	return nil
}

// BuiltinImports binds the built-in components. It runs last so later
// bindings of the same names are replaced.
type BuiltinImports struct{}

func (BuiltinImports) Name() string { return "built-in-imports" }

func (BuiltinImports) Transform(doc *sfc.Document, _ string) error {
	if doc.Setup == nil {
		return nil
	}
	doc.Setup.Prepend(&sfc.ImportStmt{Default: "remote", Specifier: module.RemoteSpecifier})
	return nil
}

// Config holds the collaborators of the default pipeline.
type Config struct {
	Layout           *LayoutInjector
	Components       func() []string
	InlineComponents func() []string
}

// Default builds the four-step slide pipeline.
func Default(cfg Config) *Pipeline {
	return NewPipeline(
		cfg.Layout,
		&ComponentImports{Label: "custom-components", Names: cfg.Components},
		&ComponentImports{Label: "inline-components", Names: cfg.InlineComponents},
		BuiltinImports{},
	)
}
