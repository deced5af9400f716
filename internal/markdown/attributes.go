package markdown

import (
	"strings"

	"github.com/yuin/goldmark/ast"
)

// Attribute is one name/value pair from an `{...}` attribute list.
type Attribute struct {
	Name  string
	Value string
}

// Attributes keeps attribute order as written; class tokens are merged into
// a single class attribute at the position of the first one.
type Attributes []Attribute

// Get returns the value of name.
func (a Attributes) Get(name string) (string, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

func (a Attributes) applyTo(n ast.Node) {
	for _, attr := range a {
		n.SetAttributeString(attr.Name, []byte(attr.Value))
	}
}

func (a *Attributes) set(name, value string) {
	for i := range *a {
		if (*a)[i].Name == name {
			(*a)[i].Value = value
			return
		}
	}
	*a = append(*a, Attribute{Name: name, Value: value})
}

func (a *Attributes) addClass(class string) {
	for i := range *a {
		if (*a)[i].Name == "class" {
			(*a)[i].Value += " " + class
			return
		}
	}
	*a = append(*a, Attribute{Name: "class", Value: class})
}

// ParseAttributes parses an attribute list starting at b[0] == '{'.
// It returns the attributes, the number of bytes consumed and whether the
// input was a well-formed, non-empty list. Supported forms: `.class`, `#id`,
// `name`, `name=value`, `name="value"` and `name='value'`.
func ParseAttributes(b []byte) (Attributes, int, bool) {
	if len(b) < 2 || b[0] != '{' {
		return nil, 0, false
	}

	var attrs Attributes
	i := 1
	for {
		for i < len(b) && (b[i] == ' ' || b[i] == '\t') {
			i++
		}
		if i >= len(b) {
			return nil, 0, false
		}

		switch c := b[i]; {
		case c == '}':
			if len(attrs) == 0 {
				return nil, 0, false
			}
			return attrs, i + 1, true

		case c == '.' || c == '#':
			j := i + 1
			for j < len(b) && isTokenChar(b[j]) {
				j++
			}
			if j == i+1 {
				return nil, 0, false
			}
			if c == '.' {
				attrs.addClass(string(b[i+1 : j]))
			} else {
				attrs.set("id", string(b[i+1:j]))
			}
			i = j

		case isNameStart(c):
			j := i + 1
			for j < len(b) && isNameChar(b[j]) {
				j++
			}
			name := string(b[i:j])
			i = j
			if i < len(b) && b[i] == '=' {
				value, n, ok := parseValue(b[i+1:])
				if !ok {
					return nil, 0, false
				}
				i += 1 + n
				if name == "class" {
					for _, cls := range strings.Fields(value) {
						attrs.addClass(cls)
					}
				} else {
					attrs.set(name, value)
				}
			} else {
				attrs.set(name, "")
			}

		default:
			return nil, 0, false
		}

		if i < len(b) && b[i] != ' ' && b[i] != '\t' && b[i] != '}' {
			return nil, 0, false
		}
	}
}

func parseValue(b []byte) (string, int, bool) {
	if len(b) == 0 {
		return "", 0, false
	}
	if q := b[0]; q == '"' || q == '\'' {
		for j := 1; j < len(b); j++ {
			if b[j] == q {
				return string(b[1:j]), j + 1, true
			}
			if b[j] == '\n' {
				return "", 0, false
			}
		}
		return "", 0, false
	}
	j := 0
	for j < len(b) && b[j] != ' ' && b[j] != '\t' && b[j] != '}' && b[j] != '\n' {
		if b[j] == '"' || b[j] == '\'' || b[j] == '=' || b[j] == '<' || b[j] == '>' {
			return "", 0, false
		}
		j++
	}
	if j == 0 {
		return "", 0, false
	}
	return string(b[:j]), j, true
}

// isTokenChar accepts utility class characters such as `m-2.5`, `w-1/2` and `hover:bg-red`.
func isTokenChar(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '{', '}', '"', '\'', '<', '>', '=':
		return false
	}
	return true
}

func isNameStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c == ':' || c == '@'
}

func isNameChar(c byte) bool {
	return isNameStart(c) || c >= '0' && c <= '9' || c == '-' || c == '.'
}
