package uno

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	lstar "github.com/leapstack-labs/leapslides/internal/starlark"
	"go.starlark.net/starlark"
)

// converter turns an evaluated configuration value into a Config. User
// callables are invoked on threads from pool.
type converter struct {
	pool *lstar.ThreadPool
}

// ConvertConfig converts the default export of a configuration program.
// A nil or None value is an empty configuration.
func ConvertConfig(v starlark.Value, pool *lstar.ThreadPool) (*Config, error) {
	if pool == nil {
		pool = lstar.NewThreadPool(0)
	}
	c := &converter{pool: pool}
	if v == nil || v == starlark.None {
		return &Config{}, nil
	}
	p, err := c.preset(v)
	if err != nil {
		return nil, err
	}
	return &Config{Preset: *p}, nil
}

func (c *converter) preset(v starlark.Value) (*Preset, error) {
	switch v := v.(type) {
	case *presetValue:
		return v.preset, nil
	case *starlark.Dict:
		return c.dict(v)
	}
	return nil, fmt.Errorf("config must be a dict, got %s", v.Type())
}

func (c *converter) dict(d *starlark.Dict) (*Preset, error) {
	p := &Preset{}
	for _, item := range d.Items() {
		key, ok := starlark.AsString(item[0])
		if !ok {
			return nil, fmt.Errorf("config keys must be strings, got %s", item[0].Type())
		}
		var err error
		switch key {
		case "name":
			p.Name, _ = starlark.AsString(item[1])
		case "rules":
			p.Rules, err = c.rules(item[1])
		case "shortcuts":
			p.Shortcuts, err = c.shortcuts(item[1])
		case "presets":
			p.Presets, err = c.presets(item[1])
		case "transformers":
			p.Transformers, err = c.transformers(item[1])
		case "preflights":
			p.Preflights, err = c.preflights(item[1])
		case "layers":
			p.Layers, err = layers(item[1])
		case "theme":
			p.Theme, err = theme(item[1])
		case "safelist":
			p.Safelist, err = stringList(item[1])
		case "blocklist":
			p.Blocklist, err = blocklist(item[1])
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
	}
	return p, nil
}

func elems(v starlark.Value) ([]starlark.Value, error) {
	it, ok := v.(starlark.Indexable)
	if !ok {
		return nil, fmt.Errorf("expected a list, got %s", v.Type())
	}
	out := make([]starlark.Value, it.Len())
	for i := range out {
		out[i] = it.Index(i)
	}
	return out, nil
}

func stringList(v starlark.Value) ([]string, error) {
	if s, ok := starlark.AsString(v); ok {
		return strings.Fields(s), nil
	}
	items, err := elems(v)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := starlark.AsString(item)
		if !ok {
			return nil, fmt.Errorf("index %d: expected a string, got %s", i, item.Type())
		}
		out = append(out, s)
	}
	return out, nil
}

func isPattern(s string) bool {
	return strings.HasPrefix(s, "^") || strings.HasSuffix(s, "$")
}

func (c *converter) rules(v starlark.Value) ([]*Rule, error) {
	items, err := elems(v)
	if err != nil {
		return nil, err
	}
	out := make([]*Rule, 0, len(items))
	for i, item := range items {
		r, err := c.rule(item)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func (c *converter) rule(v starlark.Value) (*Rule, error) {
	parts, err := elems(v)
	if err != nil {
		return nil, err
	}
	if len(parts) < 2 || len(parts) > 3 {
		return nil, fmt.Errorf("expected [name, body] or [name, body, meta], got %d elements", len(parts))
	}
	name, ok := starlark.AsString(parts[0])
	if !ok {
		return nil, fmt.Errorf("rule name must be a string, got %s", parts[0].Type())
	}

	r := &Rule{}
	if len(parts) == 3 {
		if r.Meta, err = ruleMeta(parts[2]); err != nil {
			return nil, err
		}
	}

	fn, callable := parts[1].(starlark.Callable)
	if isPattern(name) || callable {
		pattern := name
		if !isPattern(name) {
			pattern = "^" + regexp.QuoteMeta(name) + "$"
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, err
		}
		r.Pattern = re
	} else {
		r.Static = name
	}

	if callable {
		r.Fn = c.ruleFunc(name, fn)
		return r, nil
	}
	entries, err := toEntries(parts[1])
	if err != nil {
		return nil, err
	}
	r.Entries = entries
	return r, nil
}

func ruleMeta(v starlark.Value) (RuleMeta, error) {
	var meta RuleMeta
	d, ok := v.(*starlark.Dict)
	if !ok {
		return meta, fmt.Errorf("rule meta must be a dict, got %s", v.Type())
	}
	for _, item := range d.Items() {
		key, _ := starlark.AsString(item[0])
		switch key {
		case "layer":
			meta.Layer, _ = starlark.AsString(item[1])
		case "autocomplete":
			list, err := stringList(item[1])
			if err != nil {
				return meta, fmt.Errorf("autocomplete: %w", err)
			}
			meta.Autocomplete = list
		case "internal":
			meta.Internal = bool(item[1].Truth())
		}
	}
	return meta, nil
}

// toEntries converts a rule body: a dict of declarations or declaration text.
func toEntries(v starlark.Value) (CSSEntries, error) {
	switch v := v.(type) {
	case starlark.NoneType:
		return nil, nil
	case starlark.String:
		return ParseEntries(string(v)), nil
	case *starlark.Dict:
		out := make(CSSEntries, 0, v.Len())
		for _, item := range v.Items() {
			prop, ok := starlark.AsString(item[0])
			if !ok {
				return nil, fmt.Errorf("property names must be strings, got %s", item[0].Type())
			}
			if item[1] == starlark.None {
				continue
			}
			value, ok := starlark.AsString(item[1])
			if !ok {
				value = item[1].String()
			}
			out = append(out, CSSEntry{Prop: prop, Value: value})
		}
		return out, nil
	}
	return nil, fmt.Errorf("rule body must be a dict or string, got %s", v.Type())
}

func matchTuple(m []string) starlark.Tuple {
	t := make(starlark.Tuple, len(m))
	for i, s := range m {
		t[i] = starlark.String(s)
	}
	return t
}

// wantsContext reports whether a user function declares a second parameter.
func wantsContext(fn starlark.Callable) bool {
	f, ok := fn.(*starlark.Function)
	return ok && f.NumParams() >= 2
}

func (c *converter) ruleFunc(name string, fn starlark.Callable) RuleFunc {
	withCtx := wantsContext(fn)
	return func(rc *RuleContext, m []string) (CSSEntries, error) {
		args := starlark.Tuple{matchTuple(m)}
		if withCtx {
			ctx := starlark.NewDict(2)
			_ = ctx.SetKey(starlark.String("raw"), starlark.String(rc.Raw))
			_ = ctx.SetKey(starlark.String("body"), starlark.String(rc.Body))
			args = append(args, ctx)
		}
		v, err := c.pool.Call("rule "+name, fn, args, nil)
		if err != nil {
			return nil, err
		}
		return toEntries(v)
	}
}

func (c *converter) shortcuts(v starlark.Value) ([]*Shortcut, error) {
	if d, ok := v.(*starlark.Dict); ok {
		return c.shortcutDict(d)
	}
	items, err := elems(v)
	if err != nil {
		return nil, err
	}
	var out []*Shortcut
	for i, item := range items {
		if d, ok := item.(*starlark.Dict); ok {
			s, err := c.shortcutDict(d)
			if err != nil {
				return nil, fmt.Errorf("shortcut %d: %w", i, err)
			}
			out = append(out, s...)
			continue
		}
		s, err := c.shortcutEntry(item)
		if err != nil {
			return nil, fmt.Errorf("shortcut %d: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func (c *converter) shortcutDict(d *starlark.Dict) ([]*Shortcut, error) {
	out := make([]*Shortcut, 0, d.Len())
	for _, item := range d.Items() {
		s, err := c.shortcutEntry(starlark.Tuple{item[0], item[1]})
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (c *converter) shortcutEntry(v starlark.Value) (*Shortcut, error) {
	parts, err := elems(v)
	if err != nil {
		return nil, err
	}
	if len(parts) < 2 {
		return nil, fmt.Errorf("expected [name, utilities]")
	}
	name, ok := starlark.AsString(parts[0])
	if !ok {
		return nil, fmt.Errorf("shortcut name must be a string, got %s", parts[0].Type())
	}
	s := &Shortcut{}
	if len(parts) == 3 {
		meta, err := ruleMeta(parts[2])
		if err != nil {
			return nil, err
		}
		s.Layer = meta.Layer
	}

	fn, callable := parts[1].(starlark.Callable)
	if isPattern(name) || callable {
		pattern := name
		if !isPattern(name) {
			pattern = "^" + regexp.QuoteMeta(name) + "$"
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, err
		}
		s.Pattern = re
	} else {
		s.Static = name
	}

	if callable {
		s.Fn = func(m []string) ([]string, error) {
			v, err := c.pool.Call("shortcut "+name, fn, starlark.Tuple{matchTuple(m)}, nil)
			if err != nil {
				return nil, err
			}
			if v == starlark.None {
				return nil, nil
			}
			list, err := stringList(v)
			if err != nil {
				return nil, err
			}
			return expandFields(list), nil
		}
		return s, nil
	}
	list, err := stringList(parts[1])
	if err != nil {
		return nil, err
	}
	s.Expand = expandFields(list)
	return s, nil
}

// expandFields applies variant groups and splits on whitespace.
func expandFields(list []string) []string {
	var out []string
	for _, s := range list {
		out = append(out, strings.Fields(ExpandVariantGroups(s))...)
	}
	return out
}

func (c *converter) presets(v starlark.Value) ([]*Preset, error) {
	items, err := elems(v)
	if err != nil {
		return nil, err
	}
	out := make([]*Preset, 0, len(items))
	for i, item := range items {
		if item == starlark.None {
			continue
		}
		p, err := c.preset(item)
		if err != nil {
			return nil, fmt.Errorf("preset %d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (c *converter) transformers(v starlark.Value) ([]Transformer, error) {
	items, err := elems(v)
	if err != nil {
		return nil, err
	}
	out := make([]Transformer, 0, len(items))
	for i, item := range items {
		switch item := item.(type) {
		case *transformerValue:
			out = append(out, item.t)
		case *starlark.Dict:
			t, err := c.transformerDict(item)
			if err != nil {
				return nil, fmt.Errorf("transformer %d: %w", i, err)
			}
			out = append(out, t)
		default:
			return nil, fmt.Errorf("transformer %d: unsupported %s", i, item.Type())
		}
	}
	return out, nil
}

func (c *converter) transformerDict(d *starlark.Dict) (Transformer, error) {
	t := &scriptTransformer{pool: c.pool}
	for _, item := range d.Items() {
		key, _ := starlark.AsString(item[0])
		switch key {
		case "name":
			t.name, _ = starlark.AsString(item[1])
		case "enforce":
			s, _ := starlark.AsString(item[1])
			t.enforce = ParseEnforce(s)
		case "transform":
			fn, ok := item[1].(starlark.Callable)
			if !ok {
				return nil, fmt.Errorf("transform must be callable, got %s", item[1].Type())
			}
			t.fn = fn
		case "idFilter":
			fn, ok := item[1].(starlark.Callable)
			if !ok {
				return nil, fmt.Errorf("idFilter must be callable, got %s", item[1].Type())
			}
			t.filter = fn
		}
	}
	if t.fn == nil {
		return nil, fmt.Errorf("missing transform function")
	}
	if t.name == "" {
		t.name = "custom-transformer"
	}
	return t, nil
}

// scriptTransformer is a transformer defined in configuration code. Its
// transform function receives the code and id and returns the new code or
// None.
type scriptTransformer struct {
	pool    *lstar.ThreadPool
	name    string
	enforce Enforce
	fn      starlark.Callable
	filter  starlark.Callable
}

func (t *scriptTransformer) Name() string     { return t.name }
func (t *scriptTransformer) Enforce() Enforce { return t.enforce }

func (t *scriptTransformer) IDFilter(id string) bool {
	if t.filter == nil {
		return true
	}
	v, err := t.pool.Call(t.name+" idFilter", t.filter, starlark.Tuple{starlark.String(id)}, nil)
	return err == nil && bool(v.Truth())
}

func (t *scriptTransformer) Transform(_ context.Context, buf *Buffer, id string, _ *TransformContext) ([]Annotation, error) {
	v, err := t.pool.Call(t.name, t.fn, starlark.Tuple{starlark.String(buf.String()), starlark.String(id)}, nil)
	if err != nil {
		return nil, err
	}
	if v == starlark.None {
		return nil, nil
	}
	s, ok := starlark.AsString(v)
	if !ok {
		return nil, fmt.Errorf("transform must return a string or None, got %s", v.Type())
	}
	buf.Set(s)
	return nil, nil
}

func (c *converter) preflights(v starlark.Value) ([]*Preflight, error) {
	items, err := elems(v)
	if err != nil {
		return nil, err
	}
	out := make([]*Preflight, 0, len(items))
	for i, item := range items {
		d, ok := item.(*starlark.Dict)
		if !ok {
			return nil, fmt.Errorf("preflight %d: expected a dict, got %s", i, item.Type())
		}
		p := &Preflight{}
		for _, kv := range d.Items() {
			key, _ := starlark.AsString(kv[0])
			switch key {
			case "layer":
				p.Layer, _ = starlark.AsString(kv[1])
			case "css":
				css, _ := starlark.AsString(kv[1])
				p.GetCSS = func(context.Context) (string, error) { return css, nil }
			case "getCSS":
				fn, ok := kv[1].(starlark.Callable)
				if !ok {
					return nil, fmt.Errorf("preflight %d: getCSS must be callable", i)
				}
				p.GetCSS = func(context.Context) (string, error) {
					v, err := c.pool.Call("preflight", fn, nil, nil)
					if err != nil {
						return "", err
					}
					if v == starlark.None {
						return "", nil
					}
					s, ok := starlark.AsString(v)
					if !ok {
						return "", fmt.Errorf("getCSS must return a string, got %s", v.Type())
					}
					return s, nil
				}
			}
		}
		out = append(out, p)
	}
	return out, nil
}

func layers(v starlark.Value) (map[string]int, error) {
	d, ok := v.(*starlark.Dict)
	if !ok {
		return nil, fmt.Errorf("expected a dict, got %s", v.Type())
	}
	out := make(map[string]int, d.Len())
	for _, item := range d.Items() {
		name, _ := starlark.AsString(item[0])
		var n int
		if err := starlark.AsInt(item[1], &n); err != nil {
			return nil, fmt.Errorf("layer %q: %w", name, err)
		}
		out[name] = n
	}
	return out, nil
}

func theme(v starlark.Value) (*Theme, error) {
	raw, err := lstar.ToGo(v)
	if err != nil {
		return nil, err
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected a dict, got %s", v.Type())
	}
	return DecodeTheme(m)
}

func blocklist(v starlark.Value) ([]*regexp.Regexp, error) {
	list, err := stringList(v)
	if err != nil {
		return nil, err
	}
	out := make([]*regexp.Regexp, 0, len(list))
	for _, s := range list {
		pattern := s
		if !isPattern(s) {
			pattern = "^" + regexp.QuoteMeta(s) + "$"
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, err
		}
		out = append(out, re)
	}
	return out, nil
}
