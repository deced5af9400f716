package uno

import "strings"

const transformValue = "translateX(var(--un-translate-x)) translateY(var(--un-translate-y)) translateZ(var(--un-translate-z)) " +
	"rotate(var(--un-rotate)) rotateX(var(--un-rotate-x)) rotateY(var(--un-rotate-y)) rotateZ(var(--un-rotate-z)) " +
	"skewX(var(--un-skew-x)) skewY(var(--un-skew-y)) " +
	"scaleX(var(--un-scale-x)) scaleY(var(--un-scale-y)) scaleZ(var(--un-scale-z))"

const filterValue = "var(--un-blur) var(--un-brightness) var(--un-contrast) var(--un-drop-shadow) var(--un-grayscale) " +
	"var(--un-hue-rotate) var(--un-invert) var(--un-saturate) var(--un-sepia)"

const transitionProperties = "color,background-color,border-color,text-decoration-color,fill,stroke,opacity,box-shadow,transform,filter,backdrop-filter"

func effectRules() []*Rule {
	rules := statics(map[string]CSSEntries{
		"transition": decl(
			"transition-property", transitionProperties,
			"transition-timing-function", "cubic-bezier(0.4, 0, 0.2, 1)",
			"transition-duration", "150ms",
		),
		"transition-all":    decl("transition-property", "all", "transition-timing-function", "cubic-bezier(0.4, 0, 0.2, 1)", "transition-duration", "150ms"),
		"transition-colors": decl("transition-property", "color,background-color,border-color,text-decoration-color,fill,stroke", "transition-timing-function", "cubic-bezier(0.4, 0, 0.2, 1)", "transition-duration", "150ms"),
		"transition-none":   decl("transition-property", "none"),
		"ease-linear":       decl("transition-timing-function", "linear"),
		"ease-in":           decl("transition-timing-function", "cubic-bezier(0.4, 0, 1, 1)"),
		"ease-out":          decl("transition-timing-function", "cubic-bezier(0, 0, 0.2, 1)"),
		"ease-in-out":       decl("transition-timing-function", "cubic-bezier(0.4, 0, 0.2, 1)"),
		"grayscale":         decl("--un-grayscale", "grayscale(1)", "filter", filterValue),
		"invert":            decl("--un-invert", "invert(1)", "filter", filterValue),
		"shadow-inset":      decl("--un-shadow-inset", "inset"),
	})
	return append(rules,
		DynamicRule(`^(duration|delay)-(.+)$`, func(_ *RuleContext, m []string) (CSSEntries, error) {
			v := m[2]
			if numberRE.MatchString(v) {
				v += "ms"
			} else if b, ok := arbitrary(v); ok {
				v = b
			} else {
				return nil, nil
			}
			return decl("transition-"+m[1], v), nil
		}, "duration-<num>", "delay-<num>"),
		DynamicRule(`^shadow(?:-(.+))?$`, func(rc *RuleContext, m []string) (CSSEntries, error) {
			key := m[1]
			if key == "" {
				key = "DEFAULT"
			}
			if rc.Theme != nil {
				if v, ok := rc.Theme.BoxShadow[key]; ok {
					return decl(
						"--un-shadow", v,
						"box-shadow", "var(--un-ring-offset-shadow),var(--un-ring-shadow),var(--un-shadow)",
					), nil
				}
			}
			c, ok := ParseColor(rc.Theme, m[1])
			if !ok {
				return nil, nil
			}
			return decl("--un-shadow-color", c.CSS("var(--un-shadow-opacity, 1)")), nil
		}, "shadow", "shadow-sm", "shadow-md", "shadow-lg", "shadow-xl", "shadow-none"),
		DynamicRule(`^blur(?:-(.+))?$`, func(rc *RuleContext, m []string) (CSSEntries, error) {
			key := m[1]
			if key == "" {
				key = "DEFAULT"
			}
			v, ok := "", false
			if rc.Theme != nil {
				v, ok = rc.Theme.Blur[key]
			}
			if !ok {
				if v, ok = px(m[1]); !ok {
					return nil, nil
				}
			}
			return decl("--un-blur", "blur("+v+")", "filter", filterValue), nil
		}, "blur", "blur-sm", "blur-md", "blur-lg"),
		DynamicRule(`^(brightness|contrast|saturate)-(.+)$`, func(_ *RuleContext, m []string) (CSSEntries, error) {
			v, ok := percent(m[2])
			if !ok {
				return nil, nil
			}
			return decl("--un-"+m[1], m[1]+"("+v+")", "filter", filterValue), nil
		}, "brightness-<percent>", "contrast-<percent>", "saturate-<percent>"),
	)
}

func transformRules() []*Rule {
	rules := statics(map[string]CSSEntries{
		"transform":      decl("transform", transformValue),
		"transform-none": decl("transform", "none"),
	})
	axes := func(axis string) []string {
		if axis == "" {
			return []string{"x", "y"}
		}
		return []string{axis}
	}
	return append(rules,
		DynamicRule(`^(-?)rotate-(?:([xyz])-)?(.+)$`, func(_ *RuleContext, m []string) (CSSEntries, error) {
			v := m[3]
			if numberRE.MatchString(v) {
				v += "deg"
			} else if b, ok := arbitrary(v); ok {
				v = b
			} else {
				return nil, nil
			}
			name := "--un-rotate"
			if m[2] != "" {
				name += "-" + m[2]
			}
			return decl(name, withNeg(m[1], v), "transform", transformValue), nil
		}, "rotate-<num>"),
		DynamicRule(`^(-?)translate-([xyz])-(.+)$`, func(_ *RuleContext, m []string) (CSSEntries, error) {
			v, ok := rem(m[3])
			if !ok {
				return nil, nil
			}
			return decl("--un-translate-"+m[2], withNeg(m[1], v), "transform", transformValue), nil
		}, "translate-x-<num>", "translate-y-<num>"),
		DynamicRule(`^scale-(?:([xy])-)?(.+)$`, func(_ *RuleContext, m []string) (CSSEntries, error) {
			v, ok := percent(m[2])
			if !ok {
				return nil, nil
			}
			var out CSSEntries
			for _, a := range axes(m[1]) {
				out = append(out, CSSEntry{"--un-scale-" + a, v})
			}
			return append(out, CSSEntry{"transform", transformValue}), nil
		}, "scale-<percent>"),
		DynamicRule(`^origin-(.+)$`, func(_ *RuleContext, m []string) (CSSEntries, error) {
			switch m[1] {
			case "center", "top", "bottom", "left", "right":
				return decl("transform-origin", m[1]), nil
			}
			if parts := strings.SplitN(m[1], "-", 2); len(parts) == 2 {
				return decl("transform-origin", parts[0]+" "+parts[1]), nil
			}
			return nil, nil
		}, "origin-center", "origin-top", "origin-bottom-left"),
	)
}
