package module

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leapslides/internal/memo"
	"github.com/leapstack-labs/leapslides/internal/sfc"
)

// ErrNoComponentCode is returned when a compile result carries no code.
var ErrNoComponentCode = errors.New("compile result has no component code")

// Thunk runs a linked unit. Every invocation returns the first result.
type Thunk func(ctx context.Context) (*Module, error)

// Evaluate turns compiled component code into a thunk that links the code
// against the context's modules. Linking happens once; concurrent and
// repeated invocations share its result.
func (c *Context) Evaluate(result *sfc.CompileResult, label string) Thunk {
	once := memo.New[*Module](memo.CacheErrors)
	return func(ctx context.Context) (*Module, error) {
		return once.Do(ctx, label, func(ctx context.Context) (*Module, error) {
			unit, err := c.link(ctx, result, label)
			if err != nil {
				return nil, err
			}
			return &Module{Default: unit}, nil
		})
	}
}

func (c *Context) link(ctx context.Context, result *sfc.CompileResult, label string) (*Unit, error) {
	if result == nil {
		return nil, fmt.Errorf("%s: %w", label, ErrNoComponentCode)
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("%s: compile failed: %w", label, errors.Join(result.Errors...))
	}
	if strings.TrimSpace(result.ComponentCode) == "" {
		return nil, fmt.Errorf("%s: %w", label, ErrNoComponentCode)
	}

	code, template, err := splitTemplate(result.ComponentCode)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}

	var stmts []*sfc.ImportStmt
	for _, st := range sfc.ParseStatements(code) {
		if imp, ok := st.(*sfc.ImportStmt); ok {
			stmts = append(stmts, imp)
		}
	}

	mods := make([]*Module, len(stmts))
	g, gctx := errgroup.WithContext(ctx)
	for i, imp := range stmts {
		g.Go(func() error {
			mod, err := c.Resolve(gctx, imp.Specifier)
			if err != nil {
				var rerr *ResolveError
				if errors.As(err, &rerr) && rerr.Label == "" {
					rerr.Label = label
				}
				return err
			}
			mods[i] = mod
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	unit := &Unit{
		Label:    label,
		Template: template,
		Style:    result.StyleCode,
		Code:     code,
		Bindings: make(map[string]any),
	}
	for i, imp := range stmts {
		link, err := bind(unit.Bindings, imp, mods[i])
		if err != nil {
			return nil, &ResolveError{Specifier: imp.Specifier, Label: label, Err: err}
		}
		unit.Imports = append(unit.Imports, link)
	}

	if c.onLink != nil {
		c.onLink(unit)
	}
	c.logger.Debug("unit linked", "label", label, "imports", len(unit.Imports))
	return unit, nil
}

func bind(bindings map[string]any, imp *sfc.ImportStmt, mod *Module) (Import, error) {
	link := Import{Specifier: imp.Specifier, Default: imp.Default, Namespace: imp.Namespace}
	if imp.Default != "" {
		bindings[imp.Default] = mod.Default
	}
	if imp.Namespace != "" {
		ns := make(map[string]any, len(mod.Named)+1)
		for k, v := range mod.Named {
			ns[k] = v
		}
		ns["default"] = mod.Default
		bindings[imp.Namespace] = ns
	}
	for _, spec := range imp.Named {
		v, ok := mod.Export(spec.Name)
		if !ok {
			return link, fmt.Errorf("no export named %q", spec.Name)
		}
		local := spec.Local
		if local == "" {
			local = spec.Name
		}
		if link.Named == nil {
			link.Named = make(map[string]string)
		}
		link.Named[local] = spec.Name
		bindings[local] = v
	}
	return link, nil
}

// splitTemplate separates the exported template markup from the code.
func splitTemplate(code string) (string, string, error) {
	marker := "export const " + sfc.TemplateExport + " = "
	at := strings.LastIndex(code, marker)
	if at < 0 {
		return code, "", nil
	}
	raw := strings.TrimSpace(code[at+len(marker):])
	raw = strings.TrimSuffix(raw, ";")
	var template string
	if err := json.Unmarshal([]byte(raw), &template); err != nil {
		return "", "", fmt.Errorf("decode template export: %w", err)
	}
	return code[:at], template, nil
}
