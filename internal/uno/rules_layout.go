package uno

func layoutRules() []*Rule {
	rules := statics(map[string]CSSEntries{
		"block":               decl("display", "block"),
		"inline-block":        decl("display", "inline-block"),
		"inline":              decl("display", "inline"),
		"flex":                decl("display", "flex"),
		"inline-flex":         decl("display", "inline-flex"),
		"grid":                decl("display", "grid"),
		"inline-grid":         decl("display", "inline-grid"),
		"table":               decl("display", "table"),
		"contents":            decl("display", "contents"),
		"hidden":              decl("display", "none"),
		"relative":            decl("position", "relative"),
		"absolute":            decl("position", "absolute"),
		"fixed":               decl("position", "fixed"),
		"sticky":              decl("position", "sticky"),
		"static":              decl("position", "static"),
		"visible":             decl("visibility", "visible"),
		"invisible":           decl("visibility", "hidden"),
		"box-border":          decl("box-sizing", "border-box"),
		"box-content":         decl("box-sizing", "content-box"),
		"float-left":          decl("float", "left"),
		"float-right":         decl("float", "right"),
		"float-none":          decl("float", "none"),
		"isolate":             decl("isolation", "isolate"),
		"object-cover":        decl("object-fit", "cover"),
		"object-contain":      decl("object-fit", "contain"),
		"pointer-events-none": decl("pointer-events", "none"),
		"select-none":         decl("user-select", "none"),
	})
	return append(rules,
		DynamicRule(`^(-?)(inset|top|right|bottom|left)-(.+)$`, func(_ *RuleContext, m []string) (CSSEntries, error) {
			v, ok := rem(m[3])
			if !ok {
				return nil, nil
			}
			v = withNeg(m[1], v)
			if m[2] == "inset" {
				return decl("inset", v), nil
			}
			return decl(m[2], v), nil
		}, "inset-<num>", "top-<num>", "right-<num>", "bottom-<num>", "left-<num>"),
		DynamicRule(`^(-?)z-(.+)$`, func(_ *RuleContext, m []string) (CSSEntries, error) {
			if m[2] == "auto" {
				return decl("z-index", "auto"), nil
			}
			v, ok := number(m[2])
			if !ok {
				return nil, nil
			}
			return decl("z-index", withNeg(m[1], v)), nil
		}, "z-<num>"),
		DynamicRule(`^overflow-(?:([xy])-)?(auto|hidden|clip|visible|scroll)$`, func(_ *RuleContext, m []string) (CSSEntries, error) {
			if m[1] != "" {
				return decl("overflow-"+m[1], m[2]), nil
			}
			return decl("overflow", m[2]), nil
		}, "overflow-hidden", "overflow-auto", "overflow-scroll", "overflow-visible"),
		DynamicRule(`^cursor-(.+)$`, func(_ *RuleContext, m []string) (CSSEntries, error) {
			if v, ok := arbitrary(m[1]); ok {
				return decl("cursor", v), nil
			}
			switch m[1] {
			case "auto", "default", "pointer", "wait", "text", "move", "help", "not-allowed",
				"none", "progress", "crosshair", "grab", "grabbing", "zoom-in", "zoom-out":
				return decl("cursor", m[1]), nil
			}
			return nil, nil
		}, "cursor-pointer", "cursor-default", "cursor-not-allowed", "cursor-wait", "cursor-text", "cursor-move"),
	)
}

func spacingRules() []*Rule {
	return []*Rule{
		DynamicRule(`^(-?)m([trblxyse]?)-(.+)$`, func(_ *RuleContext, m []string) (CSSEntries, error) {
			v, ok := rem(m[3])
			if !ok {
				return nil, nil
			}
			return directional("margin", m[2], withNeg(m[1], v)), nil
		}, "m-<num>", "mt-<num>", "mr-<num>", "mb-<num>", "ml-<num>", "mx-<num>", "my-<num>"),
		DynamicRule(`^p([trblxyse]?)-(.+)$`, func(_ *RuleContext, m []string) (CSSEntries, error) {
			v, ok := rem(m[2])
			if !ok {
				return nil, nil
			}
			return directional("padding", m[1], v), nil
		}, "p-<num>", "pt-<num>", "pr-<num>", "pb-<num>", "pl-<num>", "px-<num>", "py-<num>"),
		DynamicRule(`^gap-(?:([xy])-)?(.+)$`, func(_ *RuleContext, m []string) (CSSEntries, error) {
			v, ok := rem(m[2])
			if !ok {
				return nil, nil
			}
			switch m[1] {
			case "x":
				return decl("column-gap", v), nil
			case "y":
				return decl("row-gap", v), nil
			}
			return decl("gap", v), nil
		}, "gap-<num>", "gap-x-<num>", "gap-y-<num>"),
	}
}

func sizingRules() []*Rule {
	size := func(axis, s string) (string, bool) {
		switch s {
		case "screen":
			if axis == "w" {
				return "100vw", true
			}
			return "100vh", true
		case "min", "max", "fit":
			return s + "-content", true
		case "prose":
			return "65ch", true
		}
		return rem(s)
	}
	return []*Rule{
		DynamicRule(`^(min-|max-)?([wh])-(.+)$`, func(_ *RuleContext, m []string) (CSSEntries, error) {
			v, ok := size(m[2], m[3])
			if !ok {
				return nil, nil
			}
			prop := "width"
			if m[2] == "h" {
				prop = "height"
			}
			return decl(m[1]+prop, v), nil
		}, "w-<num>", "h-<num>", "w-full", "h-full", "w-screen", "h-screen", "min-w-<num>", "max-w-<num>", "min-h-<num>", "max-h-<num>"),
		DynamicRule(`^size-(.+)$`, func(_ *RuleContext, m []string) (CSSEntries, error) {
			v, ok := size("w", m[1])
			if !ok {
				return nil, nil
			}
			return decl("width", v, "height", v), nil
		}, "size-<num>"),
	}
}

func flexGridRules() []*Rule {
	rules := statics(map[string]CSSEntries{
		"flex-row":             decl("flex-direction", "row"),
		"flex-row-reverse":     decl("flex-direction", "row-reverse"),
		"flex-col":             decl("flex-direction", "column"),
		"flex-col-reverse":     decl("flex-direction", "column-reverse"),
		"flex-wrap":            decl("flex-wrap", "wrap"),
		"flex-wrap-reverse":    decl("flex-wrap", "wrap-reverse"),
		"flex-nowrap":          decl("flex-wrap", "nowrap"),
		"flex-1":               decl("flex", "1 1 0%"),
		"flex-auto":            decl("flex", "1 1 auto"),
		"flex-initial":         decl("flex", "0 1 auto"),
		"flex-none":            decl("flex", "none"),
		"grow":                 decl("flex-grow", "1"),
		"grow-0":               decl("flex-grow", "0"),
		"shrink":               decl("flex-shrink", "1"),
		"shrink-0":             decl("flex-shrink", "0"),
		"place-content-center": decl("place-content", "center"),
		"place-items-center":   decl("place-items", "center"),
	})
	align := map[string]string{
		"start":    "flex-start",
		"end":      "flex-end",
		"center":   "center",
		"between":  "space-between",
		"around":   "space-around",
		"evenly":   "space-evenly",
		"stretch":  "stretch",
		"baseline": "baseline",
	}
	return append(rules,
		DynamicRule(`^(justify|items|self|content)-(.+)$`, func(_ *RuleContext, m []string) (CSSEntries, error) {
			v, ok := align[m[2]]
			if !ok {
				return nil, nil
			}
			switch m[1] {
			case "justify":
				return decl("justify-content", v), nil
			case "items":
				return decl("align-items", v), nil
			case "self":
				return decl("align-self", v), nil
			}
			return decl("align-content", v), nil
		}, "justify-center", "justify-between", "justify-start", "justify-end", "items-center", "items-start", "items-end", "self-center"),
		DynamicRule(`^grid-(cols|rows)-(.+)$`, func(_ *RuleContext, m []string) (CSSEntries, error) {
			prop := "grid-template-columns"
			if m[1] == "rows" {
				prop = "grid-template-rows"
			}
			if m[2] == "none" {
				return decl(prop, "none"), nil
			}
			if v, ok := arbitrary(m[2]); ok {
				return decl(prop, v), nil
			}
			if !numberRE.MatchString(m[2]) {
				return nil, nil
			}
			return decl(prop, "repeat("+m[2]+",minmax(0,1fr))"), nil
		}, "grid-cols-<num>", "grid-rows-<num>"),
		DynamicRule(`^(col|row)-span-(.+)$`, func(_ *RuleContext, m []string) (CSSEntries, error) {
			prop := "grid-column"
			if m[1] == "row" {
				prop = "grid-row"
			}
			if m[2] == "full" {
				return decl(prop, "1/-1"), nil
			}
			if !numberRE.MatchString(m[2]) {
				return nil, nil
			}
			return decl(prop, "span "+m[2]+"/span "+m[2]), nil
		}, "col-span-<num>", "row-span-<num>"),
		DynamicRule(`^order-(.+)$`, func(_ *RuleContext, m []string) (CSSEntries, error) {
			switch m[1] {
			case "first":
				return decl("order", "-9999"), nil
			case "last":
				return decl("order", "9999"), nil
			case "none":
				return decl("order", "0"), nil
			}
			v, ok := number(m[1])
			if !ok {
				return nil, nil
			}
			return decl("order", v), nil
		}, "order-<num>", "order-first", "order-last"),
	)
}
