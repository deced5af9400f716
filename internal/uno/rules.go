package uno

import "strings"

func decl(kv ...string) CSSEntries {
	out := make(CSSEntries, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, CSSEntry{Prop: kv[i], Value: kv[i+1]})
	}
	return out
}

// statics builds one static rule per name.
func statics(m map[string]CSSEntries) []*Rule {
	out := make([]*Rule, 0, len(m))
	for _, name := range sortedKeys(m) {
		out = append(out, &Rule{Static: name, Entries: m[name]})
	}
	return out
}

var directionMap = map[string][]string{
	"":  {""},
	"t": {"-top"},
	"r": {"-right"},
	"b": {"-bottom"},
	"l": {"-left"},
	"x": {"-left", "-right"},
	"y": {"-top", "-bottom"},
	"s": {"-inline-start"},
	"e": {"-inline-end"},
}

func directional(prop, dir, value string) CSSEntries {
	sides, ok := directionMap[dir]
	if !ok {
		return nil
	}
	out := make(CSSEntries, 0, len(sides))
	for _, side := range sides {
		out = append(out, CSSEntry{Prop: prop + side, Value: value})
	}
	return out
}

var cornerMap = map[string][]string{
	"":   {""},
	"t":  {"-top-left", "-top-right"},
	"r":  {"-top-right", "-bottom-right"},
	"b":  {"-bottom-left", "-bottom-right"},
	"l":  {"-top-left", "-bottom-left"},
	"tl": {"-top-left"},
	"tr": {"-top-right"},
	"bl": {"-bottom-left"},
	"br": {"-bottom-right"},
}

// presetUnoRules are the built-in utilities in match order.
func presetUnoRules() []*Rule {
	var rules []*Rule
	rules = append(rules, layoutRules()...)
	rules = append(rules, spacingRules()...)
	rules = append(rules, sizingRules()...)
	rules = append(rules, flexGridRules()...)
	rules = append(rules, typographyRules()...)
	rules = append(rules, colorRules()...)
	rules = append(rules, borderRules()...)
	rules = append(rules, effectRules()...)
	rules = append(rules, transformRules()...)
	rules = append(rules, arbitraryRule())
	return rules
}

// arbitraryRule handles `[prop:value]` escapes.
func arbitraryRule() *Rule {
	return DynamicRule(`^\[([a-z-]+):(.+)\]$`, func(_ *RuleContext, m []string) (CSSEntries, error) {
		v, ok := bracket("[" + m[2] + "]")
		if !ok {
			return nil, nil
		}
		return decl(m[1], v), nil
	})
}

func withNeg(neg, v string) string {
	if neg == "-" {
		return negate(v)
	}
	return v
}

func trimDash(s string) string {
	return strings.TrimSuffix(strings.TrimPrefix(s, "-"), "-")
}
