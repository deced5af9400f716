package uno

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// Enforce selects the pass a transformer runs in.
type Enforce int

const (
	EnforceDefault Enforce = iota
	EnforcePre
	EnforcePost
)

func (e Enforce) String() string {
	switch e {
	case EnforcePre:
		return "pre"
	case EnforcePost:
		return "post"
	default:
		return "default"
	}
}

// ParseEnforce maps "pre" and "post" to their passes; anything else is the
// default pass.
func ParseEnforce(s string) Enforce {
	switch s {
	case "pre":
		return EnforcePre
	case "post":
		return EnforcePost
	}
	return EnforceDefault
}

// Buffer is the mutable text a transformer pipeline works on.
type Buffer struct {
	original string
	current  string
}

// NewBuffer creates a buffer holding s.
func NewBuffer(s string) *Buffer {
	return &Buffer{original: s, current: s}
}

func (b *Buffer) String() string   { return b.current }
func (b *Buffer) Original() string { return b.original }

// Set replaces the buffer contents.
func (b *Buffer) Set(s string) { b.current = s }

// Changed reports whether any transformer modified the buffer.
func (b *Buffer) Changed() bool { return b.current != b.original }

// TransformContext gives transformers access to the generator.
type TransformContext struct {
	Generator *Generator
}

// Transformer rewrites a source buffer before generation.
type Transformer interface {
	Name() string
	Enforce() Enforce
	// IDFilter reports whether the transformer applies to the buffer id.
	IDFilter(id string) bool
	Transform(ctx context.Context, buf *Buffer, id string, tc *TransformContext) ([]Annotation, error)
}

// ApplyTransformers runs the transformers of one pass, in order.
func ApplyTransformers(ctx context.Context, transformers []Transformer, enforce Enforce, buf *Buffer, id string, tc *TransformContext) ([]Annotation, error) {
	var annotations []Annotation
	for _, t := range transformers {
		if t.Enforce() != enforce || !t.IDFilter(id) {
			continue
		}
		anns, err := t.Transform(ctx, buf, id, tc)
		if err != nil {
			return nil, &ConfigError{Stage: "transformer " + t.Name(), Err: err}
		}
		annotations = append(annotations, anns...)
	}
	return annotations, nil
}

// TransformAll runs the pre, default and post passes.
func TransformAll(ctx context.Context, transformers []Transformer, buf *Buffer, id string, tc *TransformContext) ([]Annotation, error) {
	var annotations []Annotation
	for _, pass := range []Enforce{EnforcePre, EnforceDefault, EnforcePost} {
		anns, err := ApplyTransformers(ctx, transformers, pass, buf, id, tc)
		if err != nil {
			return nil, err
		}
		annotations = append(annotations, anns...)
	}
	return annotations, nil
}

// VariantGroup expands `hover:(a b)` into `hover:a hover:b`.
type VariantGroup struct{}

// VariantGroupName is the name the variant group transformer registers under.
const VariantGroupName = "@unocss/transformer-variant-group"

func (VariantGroup) Name() string         { return VariantGroupName }
func (VariantGroup) Enforce() Enforce     { return EnforcePre }
func (VariantGroup) IDFilter(string) bool { return true }

var variantGroupRE = regexp.MustCompile(`((?:[!@\w+:_/-]|\[[^\]]*\])+?)([:-])\(((?:[~!<>\w\s:/\\,%#.$?-]|\[[^\]]*\])*?)\)`)

func (VariantGroup) Transform(_ context.Context, buf *Buffer, _ string, _ *TransformContext) ([]Annotation, error) {
	src := buf.String()
	var annotations []Annotation
	out, changed := expandVariantGroups(src, &annotations)
	if changed {
		buf.Set(out)
	}
	return annotations, nil
}

// ExpandVariantGroups expands every group in s.
func ExpandVariantGroups(s string) string {
	out, _ := expandVariantGroups(s, nil)
	return out
}

func expandVariantGroups(s string, annotations *[]Annotation) (string, bool) {
	changed := false
	// nested groups expand from the inside out
	for range 5 {
		locs := variantGroupRE.FindAllStringSubmatchIndex(s, -1)
		if len(locs) == 0 {
			break
		}
		var b strings.Builder
		last := 0
		for _, loc := range locs {
			prefix := s[loc[2]:loc[3]]
			sep := s[loc[4]:loc[5]]
			body := s[loc[6]:loc[7]]
			var parts []string
			for _, item := range strings.Fields(body) {
				if item == "~" {
					parts = append(parts, prefix)
					continue
				}
				important := ""
				if strings.HasPrefix(item, "!") {
					important, item = "!", item[1:]
				}
				parts = append(parts, important+prefix+sep+item)
			}
			expanded := strings.Join(parts, " ")
			b.WriteString(s[last:loc[0]])
			if annotations != nil {
				*annotations = append(*annotations, Annotation{
					Offset:    b.Len(),
					Length:    len(expanded),
					ClassName: "variant-group",
				})
			}
			b.WriteString(expanded)
			last = loc[1]
		}
		b.WriteString(s[last:])
		s = b.String()
		changed = true
	}
	return s, changed
}

// Directives expands @apply, --at-apply and theme() in CSS.
type Directives struct {
	// Target controls nesting lowering. Zero means chrome 100.
	Target []api.Engine
}

func (Directives) Name() string     { return DirectivesTransformer }
func (Directives) Enforce() Enforce { return EnforcePre }

func (Directives) IDFilter(id string) bool {
	return strings.HasSuffix(id, ".css")
}

var (
	themeFnRE = regexp.MustCompile(`theme\(\s*['"]?([^'")]+?)['"]?\s*\)`)
	applyRE   = regexp.MustCompile(`(?m)(?:@apply|--at-apply:)[ \t]*([^;}\n]+);?`)
)

func (d Directives) Transform(ctx context.Context, buf *Buffer, _ string, tc *TransformContext) ([]Annotation, error) {
	src := buf.String()
	if !strings.Contains(src, "@apply") && !strings.Contains(src, "--at-apply") && !strings.Contains(src, "theme(") {
		return nil, nil
	}
	if tc == nil || tc.Generator == nil {
		return nil, fmt.Errorf("directives need a generator")
	}
	gen := tc.Generator

	var themeErr error
	src = themeFnRE.ReplaceAllStringFunc(src, func(m string) string {
		path := themeFnRE.FindStringSubmatch(m)[1]
		v, ok := gen.config.Theme.Lookup(strings.TrimSpace(path))
		if !ok {
			themeErr = fmt.Errorf("theme of %q not found", path)
			return m
		}
		return v
	})
	if themeErr != nil {
		return nil, themeErr
	}

	var annotations []Annotation
	var b strings.Builder
	last := 0
	for _, loc := range applyRE.FindAllStringSubmatchIndex(src, -1) {
		tokens := strings.Fields(ExpandVariantGroups(strings.Trim(src[loc[2]:loc[3]], `'" `)))
		rules, unknown, err := gen.Expand(ctx, "&", tokens)
		if err != nil {
			return nil, err
		}
		if len(unknown) > 0 {
			return nil, fmt.Errorf("@apply: unknown utilities %s", strings.Join(unknown, ", "))
		}
		b.WriteString(src[last:loc[0]])
		annotations = append(annotations, Annotation{Offset: b.Len(), Length: loc[1] - loc[0], ClassName: "directive"})
		b.WriteString(nestedRules(rules))
		last = loc[1]
	}
	b.WriteString(src[last:])

	lowered, err := d.lower(b.String())
	if err != nil {
		return nil, err
	}
	buf.Set(lowered)
	return annotations, nil
}

// nestedRules renders applied rules as declarations of the enclosing rule,
// with variant rules as nested blocks.
func nestedRules(rules []AppliedRule) string {
	var b strings.Builder
	for _, r := range rules {
		if r.Selector == "&" && len(r.Parents) == 0 {
			b.WriteString(r.Body)
			continue
		}
		for _, p := range r.Parents {
			b.WriteString(p)
			b.WriteByte('{')
		}
		b.WriteString(r.Selector)
		b.WriteByte('{')
		b.WriteString(r.Body)
		b.WriteByte('}')
		b.WriteString(strings.Repeat("}", len(r.Parents)))
	}
	return b.String()
}

// lower flattens CSS nesting with esbuild.
func (d Directives) lower(css string) (string, error) {
	engines := d.Target
	if len(engines) == 0 {
		engines = []api.Engine{{Name: api.EngineChrome, Version: "100"}}
	}
	result := api.Transform(css, api.TransformOptions{
		Loader:  api.LoaderCSS,
		Engines: engines,
	})
	if len(result.Errors) > 0 {
		msgs := make([]string, 0, len(result.Errors))
		for _, m := range result.Errors {
			msgs = append(msgs, m.Text)
		}
		return "", fmt.Errorf("lower css: %s", strings.Join(msgs, "; "))
	}
	return string(result.Code), nil
}
