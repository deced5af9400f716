// Package markdown renders slide markup to HTML with goldmark, including
// container directives, inline attribute lists, footnotes and auto-links.
package markdown

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"golang.org/x/text/unicode/norm"
)

// DefaultQuotes leaves straight quotes as typed.
const DefaultQuotes = `""''`

// Options configures a Parser.
type Options struct {
	// Quotes holds four runes: left double, right double, left single, right single.
	Quotes   string
	HTML     bool
	XHTML    bool
	Linkify  bool
	Footnote bool
	// Extensions are appended after the built-in ones.
	Extensions []goldmark.Extender
}

// DefaultOptions returns the options used for slide content.
func DefaultOptions() Options {
	return Options{
		Quotes:   DefaultQuotes,
		HTML:     true,
		XHTML:    true,
		Linkify:  true,
		Footnote: true,
	}
}

// Parser renders markup. It is safe for concurrent use.
type Parser struct {
	md goldmark.Markdown
}

// New creates a parser from opts.
func New(opts Options) (*Parser, error) {
	exts := []goldmark.Extender{extension.Table, extension.Strikethrough, Directives}

	if opts.Quotes != "" {
		typographer, err := quoteSubstitutions(opts.Quotes)
		if err != nil {
			return nil, err
		}
		exts = append(exts, typographer)
	}
	if opts.Linkify {
		exts = append(exts, extension.Linkify)
	}
	if opts.Footnote {
		exts = append(exts, extension.Footnote)
	}
	exts = append(exts, opts.Extensions...)

	var rendererOpts []renderer.Option
	if opts.HTML {
		rendererOpts = append(rendererOpts, html.WithUnsafe())
	}
	if opts.XHTML {
		rendererOpts = append(rendererOpts, html.WithXHTML())
	}

	md := goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parser.WithHeadingAttribute()),
		goldmark.WithRendererOptions(rendererOpts...),
	)

	return &Parser{md: md}, nil
}

// Render converts markup to HTML. The source is NFC-normalized first.
func (p *Parser) Render(source string) (string, error) {
	src := norm.NFC.Bytes([]byte(source))
	var buf bytes.Buffer
	if err := p.md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

func quoteSubstitutions(quotes string) (goldmark.Extender, error) {
	if utf8.RuneCountInString(quotes) != 4 {
		return nil, fmt.Errorf("quotes must have 4 characters, got %q", quotes)
	}
	r := []rune(quotes)
	return extension.NewTypographer(extension.WithTypographicSubstitutions(extension.TypographicSubstitutions{
		extension.LeftDoubleQuote:  []byte(string(r[0])),
		extension.RightDoubleQuote: []byte(string(r[1])),
		extension.LeftSingleQuote:  []byte(string(r[2])),
		extension.RightSingleQuote: []byte(string(r[3])),
		extension.Apostrophe:       []byte(string(r[3])),
		extension.EnDash:           nil,
		extension.EmDash:           nil,
		extension.Ellipsis:         nil,
		extension.LeftAngleQuote:   nil,
		extension.RightAngleQuote:  nil,
	})), nil
}
