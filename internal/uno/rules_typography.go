package uno

import "strings"

var fontWeights = map[string]string{
	"thin":       "100",
	"extralight": "200",
	"light":      "300",
	"normal":     "400",
	"medium":     "500",
	"semibold":   "600",
	"bold":       "700",
	"extrabold":  "800",
	"black":      "900",
}

func typographyRules() []*Rule {
	rules := statics(map[string]CSSEntries{
		"text-left":           decl("text-align", "left"),
		"text-center":         decl("text-align", "center"),
		"text-right":          decl("text-align", "right"),
		"text-justify":        decl("text-align", "justify"),
		"italic":              decl("font-style", "italic"),
		"not-italic":          decl("font-style", "normal"),
		"underline":           decl("text-decoration-line", "underline"),
		"line-through":        decl("text-decoration-line", "line-through"),
		"no-underline":        decl("text-decoration", "none"),
		"uppercase":           decl("text-transform", "uppercase"),
		"lowercase":           decl("text-transform", "lowercase"),
		"capitalize":          decl("text-transform", "capitalize"),
		"normal-case":         decl("text-transform", "none"),
		"truncate":            decl("overflow", "hidden", "text-overflow", "ellipsis", "white-space", "nowrap"),
		"break-words":         decl("overflow-wrap", "break-word"),
		"break-all":           decl("word-break", "break-all"),
		"antialiased":         decl("-webkit-font-smoothing", "antialiased", "-moz-osx-font-smoothing", "grayscale"),
		"whitespace-normal":   decl("white-space", "normal"),
		"whitespace-nowrap":   decl("white-space", "nowrap"),
		"whitespace-pre":      decl("white-space", "pre"),
		"whitespace-pre-wrap": decl("white-space", "pre-wrap"),
	})
	return append(rules,
		DynamicRule(`^(?:text|font)-size-(.+)$`, func(rc *RuleContext, m []string) (CSSEntries, error) {
			return fontSize(rc.Theme, m[1]), nil
		}),
		DynamicRule(`^text-(.+)$`, func(rc *RuleContext, m []string) (CSSEntries, error) {
			if e := fontSize(rc.Theme, m[1]); e != nil {
				return e, nil
			}
			c, ok := ParseColor(rc.Theme, m[1])
			if !ok {
				return nil, nil
			}
			return colorEntries("color", "text", c), nil
		}, "text-<color>", "text-xs", "text-sm", "text-base", "text-lg", "text-xl", "text-2xl", "text-3xl", "text-4xl", "text-5xl"),
		DynamicRule(`^(?:c|color)-(.+)$`, func(rc *RuleContext, m []string) (CSSEntries, error) {
			c, ok := ParseColor(rc.Theme, m[1])
			if !ok {
				return nil, nil
			}
			return colorEntries("color", "text", c), nil
		}),
		DynamicRule(`^font-(.+)$`, func(rc *RuleContext, m []string) (CSSEntries, error) {
			if w, ok := fontWeights[m[1]]; ok {
				return decl("font-weight", w), nil
			}
			if rc.Theme != nil {
				if f, ok := rc.Theme.FontFamily[m[1]]; ok {
					return decl("font-family", f), nil
				}
			}
			if numberRE.MatchString(m[1]) {
				return decl("font-weight", m[1]), nil
			}
			if v, ok := bracket(m[1]); ok {
				return decl("font-family", v), nil
			}
			return nil, nil
		}, "font-sans", "font-serif", "font-mono", "font-bold", "font-semibold", "font-medium", "font-light", "font-normal"),
		DynamicRule(`^(?:leading|lh)-(.+)$`, func(rc *RuleContext, m []string) (CSSEntries, error) {
			if rc.Theme != nil {
				if v, ok := rc.Theme.LineHeight[m[1]]; ok {
					return decl("line-height", v), nil
				}
			}
			v, ok := rem(m[1])
			if !ok {
				return nil, nil
			}
			return decl("line-height", v), nil
		}, "leading-<num>", "leading-none", "leading-tight", "leading-normal", "leading-relaxed", "leading-loose"),
		DynamicRule(`^tracking-(.+)$`, func(rc *RuleContext, m []string) (CSSEntries, error) {
			if rc.Theme != nil {
				if v, ok := rc.Theme.LetterSpacing[m[1]]; ok {
					return decl("letter-spacing", v), nil
				}
			}
			v, ok := arbitrary(m[1])
			if !ok {
				return nil, nil
			}
			return decl("letter-spacing", v), nil
		}, "tracking-tight", "tracking-normal", "tracking-wide", "tracking-wider", "tracking-widest"),
		DynamicRule(`^line-clamp-(\d+)$`, func(_ *RuleContext, m []string) (CSSEntries, error) {
			return decl("overflow", "hidden", "display", "-webkit-box", "-webkit-box-orient", "vertical", "-webkit-line-clamp", m[1], "line-clamp", m[1]), nil
		}, "line-clamp-<num>"),
	)
}

// fontSize resolves theme sizes and length values. Colors fall through.
func fontSize(theme *Theme, s string) CSSEntries {
	if theme != nil {
		if v, ok := theme.FontSize[s]; ok && len(v) > 0 {
			if len(v) > 1 {
				return decl("font-size", v[0], "line-height", v[1])
			}
			return decl("font-size", v[0])
		}
	}
	if strings.HasPrefix(s, "[") {
		v, ok := bracket(s)
		if ok && unitRE.MatchString(v) {
			return decl("font-size", v)
		}
		return nil
	}
	if unitRE.MatchString(s) {
		return decl("font-size", s)
	}
	return nil
}
