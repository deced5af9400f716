// Package uno is an on-demand atomic CSS engine. It extracts utility tokens
// from markup, matches them against rules, shortcuts and variants drawn from
// presets and a sandboxed user configuration, and emits a layered stylesheet
// containing only what the markup uses.
package uno

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Well-known layer names.
const (
	LayerPreflights = "preflights"
	LayerShortcuts  = "shortcuts"
	LayerDefault    = "default"
)

// DefaultLayerName is the layer custom CSS is emitted in.
const DefaultLayerName = "slides"

// DirectivesTransformer is the name of the transformer that must be present
// for custom CSS to be transformed.
const DirectivesTransformer = "@unocss/transformer-directives"

// ErrMissingDirectives is reported when custom CSS is supplied but no
// directives transformer is configured.
var ErrMissingDirectives = errors.New("custom CSS directives need the '" + DirectivesTransformer + "' transformer")

// DefaultLayers are the built-in layer weights.
func DefaultLayers() map[string]int {
	return map[string]int{
		LayerPreflights: -100,
		LayerShortcuts:  -10,
		LayerDefault:    0,
	}
}

// CSSEntry is one declaration.
type CSSEntry struct {
	Prop  string
	Value string
}

// CSSEntries is an ordered declaration list.
type CSSEntries []CSSEntry

// String renders the entries as `prop:value;` pairs.
func (e CSSEntries) String() string {
	var b strings.Builder
	for _, d := range e {
		b.WriteString(d.Prop)
		b.WriteByte(':')
		b.WriteString(d.Value)
		b.WriteByte(';')
	}
	return b.String()
}

// ParseEntries parses `a:b;c:d` declaration text.
func ParseEntries(s string) CSSEntries {
	var out CSSEntries
	for _, decl := range strings.Split(s, ";") {
		prop, value, ok := strings.Cut(decl, ":")
		prop, value = strings.TrimSpace(prop), strings.TrimSpace(value)
		if !ok || prop == "" {
			continue
		}
		out = append(out, CSSEntry{Prop: prop, Value: value})
	}
	return out
}

// RuleContext is passed to dynamic rules.
type RuleContext struct {
	Context context.Context
	// Raw is the full token, Body the token without variants.
	Raw   string
	Body  string
	Theme *Theme
	Icons *IconCache
}

// RuleFunc produces declarations for a regex match. A nil result means the
// rule does not apply.
type RuleFunc func(rc *RuleContext, match []string) (CSSEntries, error)

// RuleMeta carries optional rule settings.
type RuleMeta struct {
	Layer        string
	Autocomplete []string
	// Internal rules are only reachable through shortcuts.
	Internal bool
}

// Rule maps a token to declarations, either statically or by pattern.
type Rule struct {
	Static  string
	Pattern *regexp.Regexp
	Entries CSSEntries
	Fn      RuleFunc
	Meta    RuleMeta
}

// StaticRule is a rule matching exactly name.
func StaticRule(name string, entries ...CSSEntry) *Rule {
	return &Rule{Static: name, Entries: entries}
}

// DynamicRule is a rule matching pattern.
func DynamicRule(pattern string, fn RuleFunc, autocomplete ...string) *Rule {
	return &Rule{Pattern: regexp.MustCompile(pattern), Fn: fn, Meta: RuleMeta{Autocomplete: autocomplete}}
}

// Shortcut expands one token into several utilities.
type Shortcut struct {
	Static  string
	Pattern *regexp.Regexp
	Expand  []string
	Fn      func(match []string) ([]string, error)
	Layer   string
}

// Preflight contributes unconditional CSS to a layer.
type Preflight struct {
	Layer  string
	GetCSS func(ctx context.Context) (string, error)
}

// Annotation marks a span of a transformed buffer.
type Annotation struct {
	Offset    int    `json:"offset"`
	Length    int    `json:"length"`
	ClassName string `json:"className"`
}

// Mapper rewrites a token before variants are matched. It returns the
// utility body and the selector to emit it under.
type Mapper func(token string) (body, selector string, ok bool)

// Preset bundles rules, variants and the rest of a configuration.
type Preset struct {
	Name         string
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
	Presets      []*Preset
}

// Config is a user configuration. Its fields take precedence over presets.
type Config struct {
	Preset
}

// ConfigError wraps an error raised while building or applying a config.
type ConfigError struct {
	Stage string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("uno config (%s): %v", e.Stage, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
