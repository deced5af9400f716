package uno

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"regexp"
	"slices"
	"sort"
	"strings"
	"sync"
)

// maxShortcutDepth bounds shortcut expansion so self-referencing shortcuts
// terminate.
const maxShortcutDepth = 5

// ResolvedConfig is a configuration with its presets flattened.
type ResolvedConfig struct {
	Rules        []*Rule
	Shortcuts    []*Shortcut
	Variants     []*Variant
	Preflights   []*Preflight
	Extractors   []Extractor
	Mappers      []Mapper
	Transformers []Transformer
	Layers       map[string]int
	Theme        *Theme
	Safelist     []string
	Blocklist    []*regexp.Regexp

	staticRules     map[string]int
	staticShortcuts map[string]int
}

// ResolveConfig flattens presets depth first, in order, followed by the
// config's own entries.
func ResolveConfig(cfg *Config) *ResolvedConfig {
	rc := &ResolvedConfig{
		Layers: DefaultLayers(),
		Theme:  &Theme{},
	}
	if cfg != nil {
		rc.apply(&cfg.Preset)
	}
	if len(rc.Extractors) == 0 || !slices.ContainsFunc(rc.Extractors, func(e Extractor) bool { return e.Name() == "split" }) {
		rc.Extractors = append([]Extractor{SplitExtractor{}}, rc.Extractors...)
	}

	rc.staticRules = make(map[string]int)
	for i, r := range rc.Rules {
		if r.Static != "" {
			rc.staticRules[r.Static] = i
		}
	}
	rc.staticShortcuts = make(map[string]int)
	for i, s := range rc.Shortcuts {
		if s.Static != "" {
			rc.staticShortcuts[s.Static] = i
		}
	}
	return rc
}

func (rc *ResolvedConfig) apply(p *Preset) {
	for _, sub := range p.Presets {
		rc.apply(sub)
	}
	rc.Rules = append(rc.Rules, p.Rules...)
	rc.Shortcuts = append(rc.Shortcuts, p.Shortcuts...)
	rc.Variants = append(rc.Variants, p.Variants...)
	rc.Preflights = append(rc.Preflights, p.Preflights...)
	rc.Extractors = append(rc.Extractors, p.Extractors...)
	rc.Mappers = append(rc.Mappers, p.Mappers...)
	rc.Transformers = append(rc.Transformers, p.Transformers...)
	rc.Safelist = append(rc.Safelist, p.Safelist...)
	rc.Blocklist = append(rc.Blocklist, p.Blocklist...)
	maps.Copy(rc.Layers, p.Layers)
	if p.Theme != nil {
		rc.Theme = rc.Theme.Merge(p.Theme)
	}
}

// HasTransformer reports whether a transformer with the given name is
// configured.
func (rc *ResolvedConfig) HasTransformer(name string) bool {
	return slices.ContainsFunc(rc.Transformers, func(t Transformer) bool { return t.Name() == name })
}

// Generator turns tokens into CSS under a resolved configuration.
type Generator struct {
	config *ResolvedConfig
	icons  *IconCache
	logger *slog.Logger

	mu    sync.Mutex
	cache map[string][]*utility
}

// NewGenerator creates a generator. icons may be nil, in which case icon
// rules never match.
func NewGenerator(config *ResolvedConfig, icons *IconCache, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Generator{
		config: config,
		icons:  icons,
		logger: logger,
		cache:  make(map[string][]*utility),
	}
}

// Config returns the generator's configuration.
func (g *Generator) Config() *ResolvedConfig {
	return g.config
}

type utility struct {
	index     int
	sort      int
	layer     string
	selector  string
	pseudo    string
	parents   []string
	order     int
	important bool
	entries   CSSEntries
}

func (u *utility) fullSelector() string {
	return u.selector + u.pseudo
}

func (u *utility) body() string {
	if !u.important {
		return u.entries.String()
	}
	var b strings.Builder
	for _, e := range u.entries {
		b.WriteString(e.Prop)
		b.WriteByte(':')
		b.WriteString(e.Value)
		if !strings.HasSuffix(e.Value, "!important") {
			b.WriteString(" !important")
		}
		b.WriteByte(';')
	}
	return b.String()
}

func (u *utility) parentKey() string {
	return strings.Join(u.parents, "{")
}

// GenerateResult is a generated stylesheet.
type GenerateResult struct {
	CSS     string
	Layers  []string
	Matched []string

	layerCSS map[string]string
}

// GetLayer returns one layer including its header comment, or the default
// layer when name is empty. A missing layer yields "".
func (r *GenerateResult) GetLayer(name string) string {
	if name == "" {
		name = LayerDefault
	}
	return r.layerCSS[name]
}

// generateOptions controls a single generate call.
type generateOptions struct {
	id         string
	preflights bool
}

// Generate extracts tokens from code and emits the layered stylesheet.
func (g *Generator) Generate(ctx context.Context, code string) (*GenerateResult, error) {
	return g.generate(ctx, code, generateOptions{id: "input.html", preflights: true})
}

func (g *Generator) generate(ctx context.Context, code string, opts generateOptions) (*GenerateResult, error) {
	tokens, err := extractAll(ctx, g.config.Extractors, code, opts.id)
	if err != nil {
		return nil, err
	}
	for _, s := range g.config.Safelist {
		if !slices.Contains(tokens, s) {
			tokens = append(tokens, s)
		}
	}

	var utils []*utility
	var matched []string
	for _, token := range tokens {
		us, err := g.parseToken(ctx, token)
		if err != nil {
			return nil, err
		}
		if len(us) == 0 {
			continue
		}
		matched = append(matched, token)
		utils = append(utils, us...)
	}
	sort.Strings(matched)

	layerOrder, layerCSS, err := g.assemble(ctx, utils, opts.preflights)
	if err != nil {
		return nil, err
	}

	res := &GenerateResult{Matched: matched, layerCSS: make(map[string]string, len(layerCSS))}
	var parts []string
	for _, name := range layerOrder {
		block := "/* layer: " + name + " */\n" + layerCSS[name]
		res.layerCSS[name] = block
		res.Layers = append(res.Layers, name)
		parts = append(parts, block)
	}
	res.CSS = strings.Join(parts, "\n")
	return res, nil
}

// assemble orders layers and renders each one.
func (g *Generator) assemble(ctx context.Context, utils []*utility, withPreflights bool) ([]string, map[string]string, error) {
	var order []string
	preflightCSS := map[string][]string{}
	if withPreflights {
		for _, p := range g.config.Preflights {
			if p.GetCSS == nil {
				continue
			}
			css, err := p.GetCSS(ctx)
			if err != nil {
				return nil, nil, &ConfigError{Stage: "preflight", Err: err}
			}
			if strings.TrimSpace(css) == "" {
				continue
			}
			layer := p.Layer
			if layer == "" {
				layer = LayerPreflights
			}
			if _, ok := preflightCSS[layer]; !ok {
				order = append(order, layer)
			}
			preflightCSS[layer] = append(preflightCSS[layer], css)
		}
	}

	byLayer := map[string][]*utility{}
	var ruleLayers []string
	for _, u := range utils {
		if _, ok := byLayer[u.layer]; !ok {
			ruleLayers = append(ruleLayers, u.layer)
		}
		byLayer[u.layer] = append(byLayer[u.layer], u)
	}
	sort.SliceStable(ruleLayers, func(i, j int) bool {
		return g.config.Layers[ruleLayers[i]] < g.config.Layers[ruleLayers[j]]
	})
	for _, l := range ruleLayers {
		if _, ok := preflightCSS[l]; !ok {
			order = append(order, l)
		}
	}

	out := make(map[string]string, len(order))
	for _, l := range order {
		var chunks []string
		if css, ok := preflightCSS[l]; ok {
			chunks = append(chunks, strings.Join(css, "\n"))
		}
		if us := byLayer[l]; len(us) > 0 {
			chunks = append(chunks, renderLayer(us))
		}
		out[l] = strings.Join(chunks, "\n")
	}
	return order, out, nil
}

type parentGroup struct {
	key   string
	depth int
	order int
	utils []*utility
}

func renderLayer(utils []*utility) string {
	groups := map[string]*parentGroup{}
	var keys []string
	for _, u := range utils {
		key := u.parentKey()
		grp, ok := groups[key]
		if !ok {
			grp = &parentGroup{key: key, depth: len(u.parents), order: u.order}
			groups[key] = grp
			keys = append(keys, key)
		}
		grp.utils = append(grp.utils, u)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := groups[keys[i]], groups[keys[j]]
		if (a.key == "") != (b.key == "") {
			return a.key == ""
		}
		if a.order != b.order {
			return a.order < b.order
		}
		return a.key < b.key
	})

	var blocks []string
	for _, k := range keys {
		grp := groups[k]
		css := renderRules(grp.utils)
		if grp.key == "" {
			blocks = append(blocks, css)
			continue
		}
		blocks = append(blocks, grp.key+"{\n"+css+"\n"+strings.Repeat("}", grp.depth))
	}
	return strings.Join(blocks, "\n")
}

type ruleLine struct {
	selectors []string
	body      string
}

// renderRules sorts one parent group and merges rules with identical bodies.
func renderRules(utils []*utility) string {
	sort.SliceStable(utils, func(i, j int) bool {
		a, b := utils[i], utils[j]
		if a.index != b.index {
			return a.index < b.index
		}
		if a.sort != b.sort {
			return a.sort < b.sort
		}
		if sa, sb := a.fullSelector(), b.fullSelector(); sa != sb {
			return sa < sb
		}
		return a.body() < b.body()
	})

	var lines []*ruleLine
	byBody := map[string]*ruleLine{}
	for _, u := range utils {
		body := u.body()
		if body == "" {
			continue
		}
		sel := u.fullSelector()
		if line, ok := byBody[body]; ok {
			if !slices.Contains(line.selectors, sel) {
				line.selectors = append(line.selectors, sel)
			}
			continue
		}
		line := &ruleLine{selectors: []string{sel}, body: body}
		byBody[body] = line
		lines = append(lines, line)
	}

	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, strings.Join(l.selectors, ",")+"{"+l.body+"}")
	}
	return strings.Join(out, "\n")
}

// parseToken resolves one raw token to the utilities it produces. A token
// that matches nothing yields nil.
func (g *Generator) parseToken(ctx context.Context, raw string) ([]*utility, error) {
	g.mu.Lock()
	if us, ok := g.cache[raw]; ok {
		g.mu.Unlock()
		return us, nil
	}
	g.mu.Unlock()

	for _, re := range g.config.Blocklist {
		if re.MatchString(raw) {
			return nil, nil
		}
	}

	body, selector := raw, toSelector(raw)
	for _, m := range g.config.Mappers {
		if b, s, ok := m(raw); ok {
			body, selector = b, s
			break
		}
	}

	us, err := g.expand(ctx, raw, body, selector, false, 0)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	g.cache[raw] = us
	g.mu.Unlock()
	return us, nil
}

// matchVariants strips variant prefixes from body until none match.
func (g *Generator) matchVariants(body string) (string, []*VariantMatch) {
	var matches []*VariantMatch
	for range 16 {
		var hit *VariantMatch
		for _, v := range g.config.Variants {
			if m := v.Match(body, g.config.Theme); m != nil && m.Rest != body {
				hit = m
				break
			}
		}
		if hit == nil {
			break
		}
		matches = append(matches, hit)
		body = hit.Rest
	}
	return body, matches
}

func applyVariants(u *utility, matches []*VariantMatch) {
	var parents []string
	for _, m := range matches {
		if m.Selector != nil {
			u.selector = m.Selector(u.selector)
		}
		if m.PseudoElement != "" {
			u.pseudo += m.PseudoElement
		}
		if m.Parent != "" {
			parents = append(parents, m.Parent)
			if m.ParentOrder > u.order {
				u.order = m.ParentOrder
			}
		}
		u.important = u.important || m.Important
		u.sort += m.Sort
	}
	u.parents = append(parents, u.parents...)
}

func (g *Generator) expand(ctx context.Context, raw, body, selector string, fromShortcut bool, depth int) ([]*utility, error) {
	body, matches := g.matchVariants(body)

	if depth < maxShortcutDepth {
		expanded, idx, layer, err := g.findShortcut(body)
		if err != nil {
			return nil, err
		}
		if expanded != nil {
			return g.expandShortcut(ctx, raw, selector, expanded, idx, layer, matches, depth)
		}
	}

	entries, idx, meta, err := g.matchRule(ctx, raw, body, fromShortcut)
	if err != nil || entries == nil {
		return nil, err
	}
	u := &utility{
		index:    idx,
		layer:    meta.Layer,
		selector: selector,
		entries:  entries,
	}
	if u.layer == "" {
		u.layer = LayerDefault
	}
	applyVariants(u, matches)
	return []*utility{u}, nil
}

func (g *Generator) expandShortcut(ctx context.Context, raw, selector string, expanded []string, idx int, layer string, matches []*VariantMatch, depth int) ([]*utility, error) {
	var inner []*utility
	for _, e := range expanded {
		us, err := g.expand(ctx, raw, e, selector, true, depth+1)
		if err != nil {
			return nil, err
		}
		if us == nil {
			g.logger.Debug("shortcut part matched nothing", "shortcut", raw, "utility", e)
		}
		inner = append(inner, us...)
	}
	if len(inner) == 0 {
		return nil, nil
	}

	// merge declarations sharing a selector and parent into one rule
	var merged []*utility
	byKey := map[string]*utility{}
	for _, u := range inner {
		applyVariants(u, matches)
		key := u.fullSelector() + "\x00" + u.parentKey() + "\x00" + fmt.Sprint(u.important)
		if m, ok := byKey[key]; ok {
			m.entries = appendUnique(m.entries, u.entries)
			continue
		}
		u.index = len(g.config.Rules) + idx
		if layer != "" {
			u.layer = layer
		} else if u.layer == LayerDefault {
			u.layer = LayerShortcuts
		}
		byKey[key] = u
		merged = append(merged, u)
	}
	return merged, nil
}

func appendUnique(dst, src CSSEntries) CSSEntries {
	for _, e := range src {
		if !slices.Contains(dst, e) {
			dst = append(dst, e)
		}
	}
	return dst
}

func (g *Generator) findShortcut(body string) ([]string, int, string, error) {
	if i, ok := g.config.staticShortcuts[body]; ok {
		s := g.config.Shortcuts[i]
		return s.Expand, i, s.Layer, nil
	}
	for i := len(g.config.Shortcuts) - 1; i >= 0; i-- {
		s := g.config.Shortcuts[i]
		if s.Pattern == nil {
			continue
		}
		m := s.Pattern.FindStringSubmatch(body)
		if m == nil {
			continue
		}
		if s.Fn != nil {
			out, err := s.Fn(m)
			if err != nil {
				return nil, 0, "", &ConfigError{Stage: "shortcut " + s.Pattern.String(), Err: err}
			}
			if len(out) == 0 {
				continue
			}
			return out, i, s.Layer, nil
		}
		return s.Expand, i, s.Layer, nil
	}
	return nil, 0, "", nil
}

func (g *Generator) matchRule(ctx context.Context, raw, body string, fromShortcut bool) (CSSEntries, int, RuleMeta, error) {
	if i, ok := g.config.staticRules[body]; ok {
		r := g.config.Rules[i]
		if !r.Meta.Internal || fromShortcut {
			return r.Entries, i, r.Meta, nil
		}
	}

	rc := &RuleContext{
		Context: ctx,
		Raw:     raw,
		Body:    body,
		Theme:   g.config.Theme,
		Icons:   g.icons,
	}
	for i := len(g.config.Rules) - 1; i >= 0; i-- {
		r := g.config.Rules[i]
		if r.Pattern == nil || (r.Meta.Internal && !fromShortcut) {
			continue
		}
		m := r.Pattern.FindStringSubmatch(body)
		if m == nil {
			continue
		}
		if r.Fn == nil {
			return r.Entries, i, r.Meta, nil
		}
		entries, err := r.Fn(rc, m)
		if err != nil {
			return nil, 0, RuleMeta{}, &ConfigError{Stage: "rule " + r.Pattern.String(), Err: err}
		}
		if len(entries) > 0 {
			return entries, i, r.Meta, nil
		}
	}
	return nil, 0, RuleMeta{}, nil
}

// Expand renders the declarations a list of utilities produces under
// selector, as used by @apply. Utilities that match nothing are returned
// in unknown.
func (g *Generator) Expand(ctx context.Context, selector string, tokens []string) (rules []AppliedRule, unknown []string, err error) {
	for _, t := range tokens {
		us, err := g.expand(ctx, t, t, selector, true, 0)
		if err != nil {
			return nil, nil, err
		}
		if len(us) == 0 {
			unknown = append(unknown, t)
			continue
		}
		for _, u := range us {
			rules = append(rules, AppliedRule{
				Selector: u.fullSelector(),
				Parents:  u.parents,
				Body:     u.body(),
			})
		}
	}
	return rules, unknown, nil
}

// AppliedRule is one rule produced by Expand.
type AppliedRule struct {
	Selector string
	Parents  []string
	Body     string
}
