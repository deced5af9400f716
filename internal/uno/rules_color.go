package uno

var gradientDirections = map[string]string{
	"t":  "top",
	"tr": "top right",
	"r":  "right",
	"br": "bottom right",
	"b":  "bottom",
	"bl": "bottom left",
	"l":  "left",
	"tl": "top left",
}

func colorRules() []*Rule {
	return []*Rule{
		DynamicRule(`^bg-(.+)$`, func(rc *RuleContext, m []string) (CSSEntries, error) {
			switch m[1] {
			case "cover", "contain", "auto":
				return decl("background-size", m[1]), nil
			case "center", "top", "bottom", "left", "right":
				return decl("background-position", m[1]), nil
			case "no-repeat", "repeat":
				return decl("background-repeat", m[1]), nil
			}
			c, ok := ParseColor(rc.Theme, m[1])
			if !ok {
				return nil, nil
			}
			return colorEntries("background-color", "bg", c), nil
		}, "bg-<color>", "bg-cover", "bg-contain", "bg-center"),
		DynamicRule(`^(?:bg-gradient|bg-linear)-to-([trbl]{1,2})$`, func(_ *RuleContext, m []string) (CSSEntries, error) {
			dir, ok := gradientDirections[m[1]]
			if !ok {
				return nil, nil
			}
			return decl(
				"--un-gradient-shape", "to "+dir,
				"--un-gradient", "var(--un-gradient-shape), var(--un-gradient-stops)",
				"background-image", "linear-gradient(var(--un-gradient))",
			), nil
		}, "bg-gradient-to-r", "bg-gradient-to-b", "bg-gradient-to-br"),
		DynamicRule(`^(from|via|to)-(.+)$`, func(rc *RuleContext, m []string) (CSSEntries, error) {
			c, ok := ParseColor(rc.Theme, m[2])
			if !ok {
				return nil, nil
			}
			clear := c
			clear.Alpha = "0"
			switch m[1] {
			case "from":
				return decl(
					"--un-gradient-from", c.CSS("var(--un-from-opacity, 1)"),
					"--un-gradient-to", clear.CSS(""),
					"--un-gradient-stops", "var(--un-gradient-from), var(--un-gradient-to)",
				), nil
			case "via":
				return decl(
					"--un-gradient-to", clear.CSS(""),
					"--un-gradient-stops", "var(--un-gradient-from), "+c.CSS("var(--un-via-opacity, 1)")+", var(--un-gradient-to)",
				), nil
			}
			return decl("--un-gradient-to", c.CSS("var(--un-to-opacity, 1)")), nil
		}, "from-<color>", "via-<color>", "to-<color>"),
		DynamicRule(`^op(?:acity)?-?(.+)$`, func(_ *RuleContext, m []string) (CSSEntries, error) {
			v, ok := percent(m[1])
			if !ok {
				return nil, nil
			}
			return decl("opacity", v), nil
		}, "opacity-<percent>", "op-<percent>"),
		DynamicRule(`^(text|bg|border)-op(?:acity)?-?(.+)$`, func(_ *RuleContext, m []string) (CSSEntries, error) {
			v, ok := percent(m[2])
			if !ok {
				return nil, nil
			}
			return decl("--un-"+m[1]+"-opacity", v), nil
		}, "text-opacity-<percent>", "bg-opacity-<percent>"),
	}
}

func borderRules() []*Rule {
	rules := statics(map[string]CSSEntries{
		"border-solid":  decl("border-style", "solid"),
		"border-dashed": decl("border-style", "dashed"),
		"border-dotted": decl("border-style", "dotted"),
		"border-double": decl("border-style", "double"),
		"border-none":   decl("border-style", "none"),
	})
	return append(rules,
		DynamicRule(`^(?:border|b)(?:-([trblxy]))?(?:-(.+))?$`, func(rc *RuleContext, m []string) (CSSEntries, error) {
			if m[2] == "" {
				return directional("border", m[1], "").withSuffix("-width", "1px", "-style", "solid"), nil
			}
			if v, ok := px(m[2]); ok && (m[2][0] != '[' || unitRE.MatchString(v)) {
				return directional("border", m[1], "").withSuffix("-width", v, "-style", "solid"), nil
			}
			c, ok := ParseColor(rc.Theme, m[2])
			if !ok {
				return nil, nil
			}
			return directional("border", m[1], "").withColor(c), nil
		}, "border", "border-<num>", "border-<color>", "border-t", "border-b"),
		DynamicRule(`^rounded(?:-(t|r|b|l|tl|tr|bl|br))?(?:-(.+))?$`, func(rc *RuleContext, m []string) (CSSEntries, error) {
			key := m[2]
			if key == "" {
				key = "DEFAULT"
			}
			v, ok := "", false
			if rc.Theme != nil {
				v, ok = rc.Theme.BorderRadius[key]
			}
			if !ok {
				if v, ok = px(m[2]); !ok {
					if v, ok = rem(m[2]); !ok {
						return nil, nil
					}
				}
			}
			corners := cornerMap[m[1]]
			out := make(CSSEntries, 0, len(corners))
			for _, c := range corners {
				prop := "border-radius"
				if c != "" {
					prop = "border" + c + "-radius"
				}
				out = append(out, CSSEntry{prop, v})
			}
			return out, nil
		}, "rounded", "rounded-sm", "rounded-md", "rounded-lg", "rounded-xl", "rounded-full", "rounded-none"),
		DynamicRule(`^(?:outline|ring)-(?:width-)?(\d+)$`, func(_ *RuleContext, m []string) (CSSEntries, error) {
			return decl("outline-width", m[1]+"px", "outline-style", "solid"), nil
		}, "outline-<num>"),
	)
}

// withSuffix expands border side entries into width and style pairs.
func (e CSSEntries) withSuffix(kv ...string) CSSEntries {
	var out CSSEntries
	for i := 0; i+1 < len(kv); i += 2 {
		for _, side := range e {
			out = append(out, CSSEntry{Prop: side.Prop + kv[i], Value: kv[i+1]})
		}
	}
	return out
}

func (e CSSEntries) withColor(c Color) CSSEntries {
	var out CSSEntries
	if c.RGB != nil && c.Alpha == "" {
		out = append(out, CSSEntry{"--un-border-opacity", "1"})
	}
	for _, side := range e {
		out = append(out, CSSEntry{side.Prop + "-color", c.CSS("var(--un-border-opacity)")})
	}
	return out
}
