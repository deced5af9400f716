package sfc

import (
	"regexp"
	"strings"
)

var reAttr = regexp.MustCompile(`([^\s=]+)(?:\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'>]+)))?`)

// Parse reads component source into a Document. Template content is kept
// as raw markup; script blocks are split into statements.
func Parse(src, file string) (*Document, error) {
	tokens, err := NewLexer(src, file).Tokenize()
	if err != nil {
		return nil, err
	}

	doc := &Document{File: file}
	for _, tok := range tokens {
		switch tok.Type {
		case TokenTemplate:
			if doc.Template != nil {
				return nil, NewParseErrorf(tok.Pos, "multiple <template> blocks")
			}
			raw := NewRaw(strings.Trim(tok.Value, "\r\n"))
			raw.pos = tok.Pos
			doc.Template = &Template{Attrs: ParseAttrs(tok.Attrs), Nodes: []Node{raw}, pos: tok.Pos}

		case TokenScript:
			s := &Script{Attrs: ParseAttrs(tok.Attrs), Body: ParseStatements(tok.Value), pos: tok.Pos}
			if s.IsSetup() {
				if doc.Setup != nil {
					return nil, NewParseErrorf(tok.Pos, "multiple <script setup> blocks")
				}
				doc.Setup = s
			} else {
				if doc.Script != nil {
					return nil, NewParseErrorf(tok.Pos, "multiple <script> blocks")
				}
				doc.Script = s
			}

		case TokenStyle:
			doc.Styles = append(doc.Styles, &Style{
				Attrs: ParseAttrs(tok.Attrs),
				CSS:   strings.Trim(tok.Value, "\r\n"),
				pos:   tok.Pos,
			})

		case TokenText, TokenEOF:
		}
	}
	return doc, nil
}

// ParseAttrs parses the attribute text of an opening tag.
func ParseAttrs(s string) []Attr {
	var attrs []Attr
	for _, m := range reAttr.FindAllStringSubmatch(s, -1) {
		attrs = append(attrs, Attr{Name: m[1], Value: m[2] + m[3] + m[4]})
	}
	return attrs
}
