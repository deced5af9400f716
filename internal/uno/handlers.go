package uno

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	numberRE   = regexp.MustCompile(`^(-?\d*\.?\d+)$`)
	unitRE     = regexp.MustCompile(`^(-?\d*\.?\d+)(px|rem|em|%|vh|vw|vmin|vmax|ch|ex|pt|deg|s|ms)$`)
	fractionRE = regexp.MustCompile(`^(\d+)/(\d+)$`)
)

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// bracket returns the content of an arbitrary value such as `[2px_4px]`,
// with underscores turned into spaces.
func bracket(s string) (string, bool) {
	if len(s) < 3 || s[0] != '[' || s[len(s)-1] != ']' {
		return "", false
	}
	inner := s[1 : len(s)-1]
	// a type hint like [length:2px] is dropped
	if hint, rest, ok := strings.Cut(inner, ":"); ok && isTypeHint(hint) {
		inner = rest
	}
	var b strings.Builder
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		switch {
		case c == '\\' && i+1 < len(inner) && inner[i+1] == '_':
			b.WriteByte('_')
			i++
		case c == '_':
			b.WriteByte(' ')
		default:
			b.WriteByte(c)
		}
	}
	out := b.String()
	if strings.TrimSpace(out) == "" {
		return "", false
	}
	return out, true
}

func isTypeHint(s string) bool {
	switch s {
	case "length", "color", "number", "percentage", "position", "image", "url", "size":
		return true
	}
	return false
}

// cssVar maps `$name` to `var(--name)`.
func cssVar(s string) (string, bool) {
	if len(s) < 2 || s[0] != '$' {
		return "", false
	}
	return "var(--" + s[1:] + ")", true
}

func fraction(s string) (string, bool) {
	m := fractionRE.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	a, _ := strconv.ParseFloat(m[1], 64)
	b, _ := strconv.ParseFloat(m[2], 64)
	if b == 0 {
		return "", false
	}
	return formatNumber(a/b*100) + "%", true
}

func arbitrary(s string) (string, bool) {
	if v, ok := bracket(s); ok {
		return v, true
	}
	return cssVar(s)
}

// rem interprets a spacing value. Bare numbers are quarter rems.
func rem(s string) (string, bool) {
	if v, ok := arbitrary(s); ok {
		return v, true
	}
	switch s {
	case "auto":
		return "auto", true
	case "full":
		return "100%", true
	case "px":
		return "1px", true
	case "0":
		return "0", true
	}
	if m := numberRE.FindStringSubmatch(s); m != nil {
		f, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return "", false
		}
		if f == 0 {
			return "0", true
		}
		return formatNumber(f/4) + "rem", true
	}
	if unitRE.MatchString(s) {
		return s, true
	}
	return fraction(s)
}

// px interprets a value as pixels when it is a bare number.
func px(s string) (string, bool) {
	if v, ok := arbitrary(s); ok {
		return v, true
	}
	if m := numberRE.FindStringSubmatch(s); m != nil {
		if m[1] == "0" {
			return "0", true
		}
		return m[1] + "px", true
	}
	if unitRE.MatchString(s) {
		return s, true
	}
	return "", false
}

func percent(s string) (string, bool) {
	if v, ok := arbitrary(s); ok {
		return v, true
	}
	if m := numberRE.FindStringSubmatch(s); m != nil {
		f, _ := strconv.ParseFloat(m[1], 64)
		return formatNumber(f / 100), true
	}
	if strings.HasSuffix(s, "%") {
		return s, true
	}
	return "", false
}

func number(s string) (string, bool) {
	if v, ok := arbitrary(s); ok {
		return v, true
	}
	if numberRE.MatchString(s) {
		return s, true
	}
	return "", false
}

// negate prefixes a value with a minus sign, folding zero.
func negate(v string) string {
	if v == "0" || strings.HasPrefix(v, "var(") || strings.HasPrefix(v, "calc(") {
		if v == "0" {
			return v
		}
		return "calc(" + v + " * -1)"
	}
	if strings.HasPrefix(v, "-") {
		return v[1:]
	}
	return "-" + v
}
