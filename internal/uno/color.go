package uno

import (
	"strconv"
	"strings"
)

// Color is a parsed color utility value.
type Color struct {
	// Value is the CSS color when it could not be split into channels.
	Value string
	RGB   []int
	// Alpha is the explicit opacity from a `/NN` suffix.
	Alpha string
}

// CSS renders the color with the given opacity expression.
func (c Color) CSS(opacity string) string {
	if c.RGB == nil {
		return c.Value
	}
	if c.Alpha != "" {
		opacity = c.Alpha
	}
	rgb := strconv.Itoa(c.RGB[0]) + " " + strconv.Itoa(c.RGB[1]) + " " + strconv.Itoa(c.RGB[2])
	if opacity == "" {
		return "rgb(" + rgb + ")"
	}
	return "rgb(" + rgb + " / " + opacity + ")"
}

// ParseColor resolves a color utility body such as `red-500/50`, `white`,
// `[#0a0]`, `hex-ff0000` or `$brand`.
func ParseColor(theme *Theme, body string) (Color, bool) {
	main, alpha := splitAlpha(body)
	if main == "" {
		return Color{}, false
	}
	var c Color
	switch {
	case strings.HasPrefix(main, "["):
		v, ok := bracket(main)
		if !ok {
			return Color{}, false
		}
		c = colorFromString(v)
	case strings.HasPrefix(main, "$"):
		v, _ := cssVar(main)
		c = Color{Value: v}
	case strings.HasPrefix(main, "hex-"):
		rgb, ok := parseHex(main[4:])
		if !ok {
			return Color{}, false
		}
		c = Color{RGB: rgb}
	default:
		if theme == nil {
			return Color{}, false
		}
		v, ok := theme.Color(main)
		if !ok {
			return Color{}, false
		}
		c = colorFromString(v)
	}
	if alpha != "" {
		a, ok := percent(alpha)
		if !ok {
			return Color{}, false
		}
		c.Alpha = a
	}
	return c, true
}

func splitAlpha(body string) (string, string) {
	i := strings.LastIndex(body, "/")
	if i < 0 || i < strings.LastIndex(body, "]") {
		return body, ""
	}
	return body[:i], body[i+1:]
}

func colorFromString(v string) Color {
	if strings.HasPrefix(v, "#") {
		if rgb, ok := parseHex(v[1:]); ok {
			return Color{RGB: rgb}
		}
	}
	return Color{Value: v}
}

func parseHex(s string) ([]int, bool) {
	switch len(s) {
	case 3, 4:
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	case 6, 8:
		s = s[:6]
	default:
		return nil, false
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return nil, false
	}
	return []int{int(n >> 16 & 0xff), int(n >> 8 & 0xff), int(n & 0xff)}, true
}

// colorEntries emits a color declaration with its opacity variable.
func colorEntries(prop, name string, c Color) CSSEntries {
	if c.RGB == nil || c.Alpha != "" {
		return CSSEntries{{prop, c.CSS("")}}
	}
	opacityVar := "--un-" + name + "-opacity"
	return CSSEntries{
		{opacityVar, "1"},
		{prop, c.CSS("var(" + opacityVar + ")")},
	}
}
