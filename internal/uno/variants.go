package uno

import (
	"strconv"
	"strings"
)

// VariantMatch describes how a matched variant changes the emitted rule.
type VariantMatch struct {
	// Rest is the token with the variant prefix removed.
	Rest string
	// Selector rewrites the selector. Nil leaves it unchanged.
	Selector func(string) string
	// PseudoElement is appended after every selector rewrite.
	PseudoElement string
	// Parent wraps the rule, e.g. in a media query.
	Parent      string
	ParentOrder int
	Important   bool
	Sort        int
}

// Variant matches a prefix of a token.
type Variant struct {
	Name         string
	Match        func(token string, theme *Theme) *VariantMatch
	Autocomplete []string
}

// VariantPrefix is a convenience for `name:`-style variants.
func VariantPrefix(name string, sort int, selector func(string) string) *Variant {
	prefix := name + ":"
	return &Variant{
		Name: name,
		Match: func(token string, _ *Theme) *VariantMatch {
			rest, ok := strings.CutPrefix(token, prefix)
			if !ok || rest == "" {
				return nil
			}
			return &VariantMatch{Rest: rest, Selector: selector, Sort: sort}
		},
		Autocomplete: []string{prefix},
	}
}

var pseudoClasses = map[string]string{
	"hover":             ":hover",
	"focus":             ":focus",
	"focus-visible":     ":focus-visible",
	"focus-within":      ":focus-within",
	"active":            ":active",
	"visited":           ":visited",
	"target":            ":target",
	"disabled":          ":disabled",
	"enabled":           ":enabled",
	"checked":           ":checked",
	"required":          ":required",
	"invalid":           ":invalid",
	"empty":             ":empty",
	"first":             ":first-child",
	"last":              ":last-child",
	"only":              ":only-child",
	"odd":               ":nth-child(odd)",
	"even":              ":nth-child(even)",
	"first-of-type":     ":first-of-type",
	"last-of-type":      ":last-of-type",
	"placeholder-shown": ":placeholder-shown",
}

// pseudo-class sort weights follow the usual link ordering.
var pseudoSort = map[string]int{
	"visited": 10,
	"focus":   20,
	"hover":   30,
	"active":  40,
}

var pseudoElements = map[string]string{
	"before":       "::before",
	"after":        "::after",
	"placeholder":  "::placeholder",
	"selection":    "::selection",
	"marker":       "::marker",
	"first-letter": "::first-letter",
	"first-line":   "::first-line",
	"file":         "::file-selector-button",
	"backdrop":     "::backdrop",
}

func variantImportant() *Variant {
	return &Variant{
		Name: "important",
		Match: func(token string, _ *Theme) *VariantMatch {
			if rest, ok := strings.CutPrefix(token, "!"); ok && rest != "" {
				return &VariantMatch{Rest: rest, Important: true}
			}
			if rest, ok := strings.CutSuffix(token, "!"); ok && rest != "" {
				return &VariantMatch{Rest: rest, Important: true}
			}
			return nil
		},
		Autocomplete: []string{"!"},
	}
}

func variantPseudoClasses() *Variant {
	names := sortedKeys(pseudoClasses)
	auto := make([]string, 0, len(names))
	for _, n := range names {
		auto = append(auto, n+":")
	}
	return &Variant{
		Name: "pseudo",
		Match: func(token string, _ *Theme) *VariantMatch {
			name, rest, ok := strings.Cut(token, ":")
			if !ok || rest == "" {
				return nil
			}
			pc, ok := pseudoClasses[name]
			if !ok {
				return nil
			}
			return &VariantMatch{
				Rest:     rest,
				Selector: func(s string) string { return s + pc },
				Sort:     100 + pseudoSort[name],
			}
		},
		Autocomplete: auto,
	}
}

// variantGroupPeer handles group-* and peer-* relations.
func variantGroupPeer() *Variant {
	var auto []string
	for _, n := range sortedKeys(pseudoClasses) {
		auto = append(auto, "group-"+n+":", "peer-"+n+":")
	}
	return &Variant{
		Name: "group-peer",
		Match: func(token string, _ *Theme) *VariantMatch {
			name, rest, ok := strings.Cut(token, ":")
			if !ok || rest == "" {
				return nil
			}
			for _, rel := range []string{"group", "peer"} {
				pseudo, ok := strings.CutPrefix(name, rel+"-")
				if !ok {
					continue
				}
				pc, ok := pseudoClasses[pseudo]
				if !ok {
					return nil
				}
				if rel == "group" {
					return &VariantMatch{
						Rest:     rest,
						Selector: func(s string) string { return ".group" + pc + " " + s },
						Sort:     200,
					}
				}
				return &VariantMatch{
					Rest:     rest,
					Selector: func(s string) string { return ".peer" + pc + "~" + s },
					Sort:     210,
				}
			}
			return nil
		},
		Autocomplete: auto,
	}
}

func variantPseudoElements() *Variant {
	var auto []string
	for _, n := range sortedKeys(pseudoElements) {
		auto = append(auto, n+":")
	}
	return &Variant{
		Name: "pseudo-element",
		Match: func(token string, _ *Theme) *VariantMatch {
			name, rest, ok := strings.Cut(token, ":")
			if !ok || rest == "" {
				return nil
			}
			pe, ok := pseudoElements[name]
			if !ok {
				return nil
			}
			return &VariantMatch{Rest: rest, PseudoElement: pe, Sort: 50}
		},
		Autocomplete: auto,
	}
}

func variantColorScheme() []*Variant {
	return []*Variant{
		VariantPrefix("dark", 300, func(s string) string { return ".dark " + s }),
		VariantPrefix("light", 300, func(s string) string { return ".light " + s }),
	}
}

func variantMedia() []*Variant {
	media := func(name, query string, order int) *Variant {
		prefix := name + ":"
		return &Variant{
			Name: name,
			Match: func(token string, _ *Theme) *VariantMatch {
				rest, ok := strings.CutPrefix(token, prefix)
				if !ok || rest == "" {
					return nil
				}
				return &VariantMatch{Rest: rest, Parent: "@media " + query, ParentOrder: order}
			},
			Autocomplete: []string{prefix},
		}
	}
	return []*Variant{
		media("print", "print", 2000),
		media("motion-safe", "(prefers-reduced-motion: no-preference)", 2001),
		media("motion-reduce", "(prefers-reduced-motion: reduce)", 2002),
	}
}

// variantBreakpoints handles `sm:`, `lt-sm:` and `at-sm:` against the
// theme's breakpoints.
func variantBreakpoints() *Variant {
	return &Variant{
		Name: "breakpoints",
		Match: func(token string, theme *Theme) *VariantMatch {
			name, rest, ok := strings.Cut(token, ":")
			if !ok || rest == "" || theme == nil {
				return nil
			}
			mode := "min"
			if n, ok := strings.CutPrefix(name, "lt-"); ok {
				mode, name = "lt", n
			} else if n, ok := strings.CutPrefix(name, "at-"); ok {
				mode, name = "at", n
			}
			bps := theme.SortedBreakpoints()
			for i, bp := range bps {
				if bp.Name != name {
					continue
				}
				var parent string
				order := 1000 + i
				switch mode {
				case "min":
					parent = "@media (min-width: " + bp.Size + ")"
				case "lt":
					parent = "@media (max-width: " + maxWidth(bp) + ")"
					order = 900 + i
				case "at":
					parent = "@media (min-width: " + bp.Size + ")"
					if i+1 < len(bps) {
						parent += " and (max-width: " + maxWidth(bps[i+1]) + ")"
					}
					order = 1100 + i
				}
				return &VariantMatch{Rest: rest, Parent: parent, ParentOrder: order}
			}
			return nil
		},
		Autocomplete: []string{"sm:", "md:", "lg:", "xl:", "2xl:", "lt-", "at-"},
	}
}

func maxWidth(bp Breakpoint) string {
	if strings.HasSuffix(bp.Size, "px") && bp.px > 0 {
		return strconv.FormatFloat(bp.px-0.1, 'f', -1, 64) + "px"
	}
	return "calc(" + bp.Size + " - 0.1px)"
}

// defaultVariants are the variants presetUno contributes.
func defaultVariants() []*Variant {
	out := []*Variant{
		variantImportant(),
		variantBreakpoints(),
		variantGroupPeer(),
		variantPseudoElements(),
		variantPseudoClasses(),
	}
	out = append(out, variantColorScheme()...)
	out = append(out, variantMedia()...)
	return out
}
