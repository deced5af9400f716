package uno

import (
	"fmt"
	"sort"
	"strings"
)

// EscapeSelector escapes a class name for use in a CSS selector.
func EscapeSelector(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == 0:
			b.WriteString(`\fffd `)
		case r >= '0' && r <= '9' && (i == 0 || (i == 1 && s[0] == '-')):
			fmt.Fprintf(&b, `\%x `, r)
		case r == '-' && i == 0 && len(s) == 1:
			b.WriteString(`\-`)
		case r >= 0x80, r == '-', r == '_',
			r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\%x `, r)
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
	}
	return b.String()
}

// toSelector returns the class selector for a raw token. Attribute tokens
// such as `[text~="red"]` are used verbatim.
func toSelector(raw string) string {
	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") && strings.ContainsAny(raw, "=") {
		return raw
	}
	return "." + EscapeSelector(raw)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
