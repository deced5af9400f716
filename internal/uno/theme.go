package uno

import (
	"fmt"
	"maps"
	"sort"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// Theme holds design tokens rules draw from. Colors map a family either to
// a single color string or to a shade map with an optional DEFAULT shade.
type Theme struct {
	Colors        map[string]any      `mapstructure:"colors"`
	Breakpoints   map[string]string   `mapstructure:"breakpoints"`
	FontSize      map[string][]string `mapstructure:"fontSize"`
	FontFamily    map[string]string   `mapstructure:"fontFamily"`
	LineHeight    map[string]string   `mapstructure:"lineHeight"`
	LetterSpacing map[string]string   `mapstructure:"letterSpacing"`
	BorderRadius  map[string]string   `mapstructure:"borderRadius"`
	BoxShadow     map[string]string   `mapstructure:"boxShadow"`
	Blur          map[string]string   `mapstructure:"blur"`
	Spacing       map[string]string   `mapstructure:"spacing"`
}

// DecodeTheme decodes a theme from configuration values.
func DecodeTheme(raw map[string]any) (*Theme, error) {
	t := &Theme{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           t,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode theme: %w", err)
	}
	return t, nil
}

// Merge returns a copy of t with other's entries layered on top. Color
// families present in both are merged shade by shade.
func (t *Theme) Merge(other *Theme) *Theme {
	out := &Theme{
		Colors:        maps.Clone(t.Colors),
		Breakpoints:   maps.Clone(t.Breakpoints),
		FontSize:      maps.Clone(t.FontSize),
		FontFamily:    maps.Clone(t.FontFamily),
		LineHeight:    maps.Clone(t.LineHeight),
		LetterSpacing: maps.Clone(t.LetterSpacing),
		BorderRadius:  maps.Clone(t.BorderRadius),
		BoxShadow:     maps.Clone(t.BoxShadow),
		Blur:          maps.Clone(t.Blur),
		Spacing:       maps.Clone(t.Spacing),
	}
	if other == nil {
		return out
	}
	if out.Colors == nil {
		out.Colors = map[string]any{}
	}
	for name, v := range other.Colors {
		base, okBase := out.Colors[name].(map[string]any)
		shades, okShades := v.(map[string]any)
		if okBase && okShades {
			merged := maps.Clone(base)
			maps.Copy(merged, shades)
			out.Colors[name] = merged
			continue
		}
		out.Colors[name] = v
	}
	out.Breakpoints = mergeMap(out.Breakpoints, other.Breakpoints)
	out.FontSize = mergeMap(out.FontSize, other.FontSize)
	out.FontFamily = mergeMap(out.FontFamily, other.FontFamily)
	out.LineHeight = mergeMap(out.LineHeight, other.LineHeight)
	out.LetterSpacing = mergeMap(out.LetterSpacing, other.LetterSpacing)
	out.BorderRadius = mergeMap(out.BorderRadius, other.BorderRadius)
	out.BoxShadow = mergeMap(out.BoxShadow, other.BoxShadow)
	out.Blur = mergeMap(out.Blur, other.Blur)
	out.Spacing = mergeMap(out.Spacing, other.Spacing)
	return out
}

func mergeMap[V any](dst, src map[string]V) map[string]V {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]V, len(src))
	}
	maps.Copy(dst, src)
	return dst
}

// Breakpoint is a named minimum width.
type Breakpoint struct {
	Name string
	Size string
	px   float64
}

// SortedBreakpoints returns the breakpoints ordered by width.
func (t *Theme) SortedBreakpoints() []Breakpoint {
	out := make([]Breakpoint, 0, len(t.Breakpoints))
	for name, size := range t.Breakpoints {
		px, _ := strconv.ParseFloat(strings.TrimSuffix(size, "px"), 64)
		if strings.HasSuffix(size, "rem") || strings.HasSuffix(size, "em") {
			v, _ := strconv.ParseFloat(strings.TrimRight(size, "rem"), 64)
			px = v * 16
		}
		out = append(out, Breakpoint{Name: name, Size: size, px: px})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].px != out[j].px {
			return out[i].px < out[j].px
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Color looks up a color by `family` or `family-shade`. It returns the raw
// color string.
func (t *Theme) Color(name string) (string, bool) {
	if v, ok := t.Colors[name]; ok {
		switch v := v.(type) {
		case string:
			return v, true
		case map[string]any:
			if d, ok := v["DEFAULT"].(string); ok {
				return d, true
			}
		}
		return "", false
	}
	family, shade, ok := cutLast(name, "-")
	if !ok {
		return "", false
	}
	shades, ok := t.Colors[family].(map[string]any)
	if !ok {
		return "", false
	}
	c, ok := shades[shade].(string)
	return c, ok
}

// ColorNames returns every addressable color name, sorted.
func (t *Theme) ColorNames() []string {
	var out []string
	for family, v := range t.Colors {
		switch v := v.(type) {
		case string:
			out = append(out, family)
		case map[string]any:
			for shade := range v {
				if shade == "DEFAULT" {
					out = append(out, family)
					continue
				}
				out = append(out, family+"-"+shade)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Lookup resolves a dotted path such as `colors.red.500` or
// `fontSize.lg`.
func (t *Theme) Lookup(path string) (string, bool) {
	section, rest, _ := strings.Cut(path, ".")
	switch section {
	case "colors":
		return t.Color(strings.ReplaceAll(rest, ".", "-"))
	case "breakpoints":
		v, ok := t.Breakpoints[rest]
		return v, ok
	case "fontSize":
		v, ok := t.FontSize[rest]
		if !ok || len(v) == 0 {
			return "", false
		}
		return v[0], true
	case "fontFamily":
		v, ok := t.FontFamily[rest]
		return v, ok
	case "lineHeight":
		v, ok := t.LineHeight[rest]
		return v, ok
	case "letterSpacing":
		v, ok := t.LetterSpacing[rest]
		return v, ok
	case "borderRadius":
		v, ok := t.BorderRadius[rest]
		return v, ok
	case "boxShadow":
		v, ok := t.BoxShadow[rest]
		return v, ok
	case "blur":
		v, ok := t.Blur[rest]
		return v, ok
	case "spacing":
		v, ok := t.Spacing[rest]
		return v, ok
	}
	return "", false
}

func cutLast(s, sep string) (string, string, bool) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+len(sep):], true
}

func shades(values ...string) map[string]any {
	keys := []string{"50", "100", "200", "300", "400", "500", "600", "700", "800", "900", "950"}
	m := make(map[string]any, len(keys)+1)
	for i, k := range keys {
		m[k] = values[i]
	}
	m["DEFAULT"] = m["400"]
	return m
}

// DefaultTheme returns the built-in design tokens.
func DefaultTheme() *Theme {
	return &Theme{
		Colors: map[string]any{
			"inherit":     "inherit",
			"current":     "currentColor",
			"transparent": "transparent",
			"black":       "#000",
			"white":       "#fff",
			"slate":       shades("#f8fafc", "#f1f5f9", "#e2e8f0", "#cbd5e1", "#94a3b8", "#64748b", "#475569", "#334155", "#1e293b", "#0f172a", "#020617"),
			"gray":        shades("#f9fafb", "#f3f4f6", "#e5e7eb", "#d1d5db", "#9ca3af", "#6b7280", "#4b5563", "#374151", "#1f2937", "#111827", "#030712"),
			"red":         shades("#fef2f2", "#fee2e2", "#fecaca", "#fca5a5", "#f87171", "#ef4444", "#dc2626", "#b91c1c", "#991b1b", "#7f1d1d", "#450a0a"),
			"orange":      shades("#fff7ed", "#ffedd5", "#fed7aa", "#fdba74", "#fb923c", "#f97316", "#ea580c", "#c2410c", "#9a3412", "#7c2d12", "#431407"),
			"amber":       shades("#fffbeb", "#fef3c7", "#fde68a", "#fcd34d", "#fbbf24", "#f59e0b", "#d97706", "#b45309", "#92400e", "#78350f", "#451a03"),
			"yellow":      shades("#fefce8", "#fef9c3", "#fef08a", "#fde047", "#facc15", "#eab308", "#ca8a04", "#a16207", "#854d0e", "#713f12", "#422006"),
			"green":       shades("#f0fdf4", "#dcfce7", "#bbf7d0", "#86efac", "#4ade80", "#22c55e", "#16a34a", "#15803d", "#166534", "#14532d", "#052e16"),
			"emerald":     shades("#ecfdf5", "#d1fae5", "#a7f3d0", "#6ee7b7", "#34d399", "#10b981", "#059669", "#047857", "#065f46", "#064e3b", "#022c22"),
			"teal":        shades("#f0fdfa", "#ccfbf1", "#99f6e4", "#5eead4", "#2dd4bf", "#14b8a6", "#0d9488", "#0f766e", "#115e59", "#134e4a", "#042f2e"),
			"cyan":        shades("#ecfeff", "#cffafe", "#a5f3fc", "#67e8f9", "#22d3ee", "#06b6d4", "#0891b2", "#0e7490", "#155e75", "#164e63", "#083344"),
			"sky":         shades("#f0f9ff", "#e0f2fe", "#bae6fd", "#7dd3fc", "#38bdf8", "#0ea5e9", "#0284c7", "#0369a1", "#075985", "#0c4a6e", "#082f49"),
			"blue":        shades("#eff6ff", "#dbeafe", "#bfdbfe", "#93c5fd", "#60a5fa", "#3b82f6", "#2563eb", "#1d4ed8", "#1e40af", "#1e3a8a", "#172554"),
			"indigo":      shades("#eef2ff", "#e0e7ff", "#c7d2fe", "#a5b4fc", "#818cf8", "#6366f1", "#4f46e5", "#4338ca", "#3730a3", "#312e81", "#1e1b4b"),
			"violet":      shades("#f5f3ff", "#ede9fe", "#ddd6fe", "#c4b5fd", "#a78bfa", "#8b5cf6", "#7c3aed", "#6d28d9", "#5b21b6", "#4c1d95", "#2e1065"),
			"purple":      shades("#faf5ff", "#f3e8ff", "#e9d5ff", "#d8b4fe", "#c084fc", "#a855f7", "#9333ea", "#7e22ce", "#6b21a8", "#581c87", "#3b0764"),
			"pink":        shades("#fdf2f8", "#fce7f3", "#fbcfe8", "#f9a8d4", "#f472b6", "#ec4899", "#db2777", "#be185d", "#9d174d", "#831843", "#500724"),
			"rose":        shades("#fff1f2", "#ffe4e6", "#fecdd3", "#fda4af", "#fb7185", "#f43f5e", "#e11d48", "#be123c", "#9f1239", "#881337", "#4c0519"),
		},
		Breakpoints: map[string]string{
			"sm":  "640px",
			"md":  "768px",
			"lg":  "1024px",
			"xl":  "1280px",
			"2xl": "1536px",
		},
		FontSize: map[string][]string{
			"xs":   {"0.75rem", "1rem"},
			"sm":   {"0.875rem", "1.25rem"},
			"base": {"1rem", "1.5rem"},
			"lg":   {"1.125rem", "1.75rem"},
			"xl":   {"1.25rem", "1.75rem"},
			"2xl":  {"1.5rem", "2rem"},
			"3xl":  {"1.875rem", "2.25rem"},
			"4xl":  {"2.25rem", "2.5rem"},
			"5xl":  {"3rem", "1"},
			"6xl":  {"3.75rem", "1"},
			"7xl":  {"4.5rem", "1"},
			"8xl":  {"6rem", "1"},
			"9xl":  {"8rem", "1"},
		},
		FontFamily: map[string]string{
			"sans":  `ui-sans-serif,system-ui,-apple-system,BlinkMacSystemFont,"Segoe UI",Roboto,"Helvetica Neue",Arial,"Noto Sans",sans-serif,"Apple Color Emoji","Segoe UI Emoji","Segoe UI Symbol","Noto Color Emoji"`,
			"serif": `ui-serif,Georgia,Cambria,"Times New Roman",Times,serif`,
			"mono":  `ui-monospace,SFMono-Regular,Menlo,Monaco,Consolas,"Liberation Mono","Courier New",monospace`,
		},
		LineHeight: map[string]string{
			"none":    "1",
			"tight":   "1.25",
			"snug":    "1.375",
			"normal":  "1.5",
			"relaxed": "1.625",
			"loose":   "2",
		},
		LetterSpacing: map[string]string{
			"tighter": "-0.05em",
			"tight":   "-0.025em",
			"normal":  "0em",
			"wide":    "0.025em",
			"wider":   "0.05em",
			"widest":  "0.1em",
		},
		BorderRadius: map[string]string{
			"DEFAULT": "0.25rem",
			"none":    "0",
			"sm":      "0.125rem",
			"md":      "0.375rem",
			"lg":      "0.5rem",
			"xl":      "0.75rem",
			"2xl":     "1rem",
			"3xl":     "1.5rem",
			"full":    "9999px",
		},
		BoxShadow: map[string]string{
			"DEFAULT": "var(--un-shadow-inset) 0 1px 3px 0 rgb(0 0 0 / 0.1),var(--un-shadow-inset) 0 1px 2px -1px rgb(0 0 0 / 0.1)",
			"none":    "0 0 rgb(0 0 0 / 0)",
			"sm":      "var(--un-shadow-inset) 0 1px 2px 0 rgb(0 0 0 / 0.05)",
			"md":      "var(--un-shadow-inset) 0 4px 6px -1px rgb(0 0 0 / 0.1),var(--un-shadow-inset) 0 2px 4px -2px rgb(0 0 0 / 0.1)",
			"lg":      "var(--un-shadow-inset) 0 10px 15px -3px rgb(0 0 0 / 0.1),var(--un-shadow-inset) 0 4px 6px -4px rgb(0 0 0 / 0.1)",
			"xl":      "var(--un-shadow-inset) 0 20px 25px -5px rgb(0 0 0 / 0.1),var(--un-shadow-inset) 0 8px 10px -6px rgb(0 0 0 / 0.1)",
			"2xl":     "var(--un-shadow-inset) 0 25px 50px -12px rgb(0 0 0 / 0.25)",
			"inner":   "inset 0 2px 4px 0 rgb(0 0 0 / 0.05)",
		},
		Blur: map[string]string{
			"DEFAULT": "8px",
			"0":       "0",
			"sm":      "4px",
			"md":      "12px",
			"lg":      "16px",
			"xl":      "24px",
			"2xl":     "40px",
			"3xl":     "64px",
		},
	}
}
