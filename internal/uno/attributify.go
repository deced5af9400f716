package uno

import (
	"context"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// AttributifyOptions configures PresetAttributify.
type AttributifyOptions struct {
	// Prefix is stripped from attribute names, e.g. "un-".
	Prefix string `mapstructure:"prefix"`
	// PrefixedOnly ignores attributes without Prefix.
	PrefixedOnly bool `mapstructure:"prefixedOnly"`
	// NonValuedAttribute enables bare attributes such as `<div flex>`.
	NonValuedAttribute *bool    `mapstructure:"nonValuedAttribute"`
	Ignore             []string `mapstructure:"ignoreAttributes"`
}

var defaultIgnoredAttributes = []string{"class", "classname", "style", "id", "href", "src", "alt", "title", "name", "type", "value", "for"}

// PresetAttributify lets utilities be written as attributes:
// `<div text="sm red" flex>`.
func PresetAttributify(opts AttributifyOptions) *Preset {
	ex := &attributifyExtractor{opts: opts}
	return &Preset{
		Name:       "@unocss/preset-attributify",
		Extractors: []Extractor{ex},
		Mappers:    []Mapper{attributifyMapper(opts.Prefix)},
	}
}

type attributifyExtractor struct {
	opts AttributifyOptions
}

func (e *attributifyExtractor) Name() string { return "attributify" }

func (e *attributifyExtractor) ignored(name string) bool {
	name = strings.ToLower(name)
	if strings.HasPrefix(name, ":") || strings.HasPrefix(name, "@") || strings.HasPrefix(name, "v-") ||
		strings.HasPrefix(name, "on") || strings.HasPrefix(name, "data-") || strings.HasPrefix(name, "aria-") {
		return true
	}
	for _, ig := range defaultIgnoredAttributes {
		if name == ig {
			return true
		}
	}
	for _, ig := range e.opts.Ignore {
		if strings.EqualFold(name, ig) {
			return true
		}
	}
	return false
}

// Extract walks the tags of code and turns attributes into
// `[name~="value"]` tokens, or `[name=""]` for bare attributes.
func (e *attributifyExtractor) Extract(_ context.Context, code, _ string) ([]string, error) {
	nonValued := e.opts.NonValuedAttribute == nil || *e.opts.NonValuedAttribute
	z := html.NewTokenizer(strings.NewReader(code))
	var out []string
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// io.EOF or malformed trailing markup; either way we are done
			return out, nil
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		for _, a := range z.Token().Attr {
			name := a.Key
			if e.ignored(name) {
				continue
			}
			if e.opts.PrefixedOnly && !strings.HasPrefix(name, e.opts.Prefix) {
				continue
			}
			if strings.TrimSpace(a.Val) == "" {
				if nonValued {
					out = append(out, `[`+name+`=""]`)
				}
				continue
			}
			for _, v := range strings.Fields(a.Val) {
				out = append(out, `[`+name+`~="`+v+`"]`)
			}
		}
	}
}

var attributeTokenRE = regexp.MustCompile(`^\[([^~=\]\s]+)(~?=)"([^"]*)"\]$`)

// attributifyMapper maps attribute tokens back to utility bodies.
func attributifyMapper(prefix string) Mapper {
	return func(token string) (string, string, bool) {
		m := attributeTokenRE.FindStringSubmatch(token)
		if m == nil {
			return "", "", false
		}
		name, op, value := strings.TrimPrefix(m[1], prefix), m[2], m[3]
		if op == "=" {
			if value != "" {
				return "", "", false
			}
			return name, token, true
		}
		if value == "~" {
			return name, token, true
		}
		// variants live in the value: text="hover:red" is hover:text-red
		variants := ""
		if i := strings.LastIndex(value, ":"); i >= 0 && !strings.HasPrefix(value, "[") {
			variants, value = value[:i+1], value[i+1:]
		}
		important := ""
		if strings.HasPrefix(value, "!") {
			important, value = "!", value[1:]
		}
		if strings.HasPrefix(value, "-") {
			return variants + important + "-" + name + value, token, true
		}
		return variants + important + name + "-" + value, token, true
	}
}
