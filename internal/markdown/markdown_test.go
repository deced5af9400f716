package markdown

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newParser(t *testing.T) *Parser {
	t.Helper()
	p, err := New(DefaultOptions())
	require.NoError(t, err)
	return p
}

func render(t *testing.T, src string) string {
	t.Helper()
	p := newParser(t)
	out, err := p.Render(src)
	require.NoError(t, err)
	return out
}

func TestRender_Basics(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
	}{
		{
			name:     "heading",
			input:    "# Hello",
			contains: []string{"<h1>Hello</h1>"},
		},
		{
			name:     "raw html passthrough",
			input:    "<div class=\"grid\">\n<b>x</b>\n</div>",
			contains: []string{`<div class="grid">`, "<b>x</b>"},
		},
		{
			name:     "embedded component tag",
			input:    "<test/>",
			contains: []string{"<test/>"},
		},
		{
			name:     "linkify",
			input:    "see https://sli.dev for docs",
			contains: []string{`<a href="https://sli.dev">https://sli.dev</a>`},
		},
		{
			name:     "footnote",
			input:    "claim[^1]\n\n[^1]: source",
			contains: []string{`class="footnote-ref"`, "source"},
		},
		{
			name:     "xhtml breaks",
			input:    "a  \nb",
			contains: []string{"<br />"},
		},
		{
			name:     "heading attributes",
			input:    "## Title {#intro .big}",
			contains: []string{`<h2 id="intro" class="big">Title</h2>`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := render(t, tt.input)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestRender_QuotesStayStraight(t *testing.T) {
	out := render(t, `say "hi" and 'bye'`)
	assert.NotContains(t, out, "\u201c")
	assert.NotContains(t, out, "\u2018")
	assert.Contains(t, out, "hi")
}

func TestRender_InlineAttributes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "class on text",
			input: "Text{.mt-5}",
			want:  "<p><span class=\"mt-5\">Text</span></p>\n",
		},
		{
			name:  "style and classes merged",
			input: `card{style="color: green;" .custom-class .green}!`,
			want:  "<p><span style=\"color: green;\" class=\"custom-class green\">card</span>!</p>\n",
		},
		{
			name:  "code span",
			input: "`x`{.hl}",
			want:  "<p><code class=\"hl\">x</code></p>\n",
		},
		{
			name:  "mustache is not an attribute list",
			input: "{{ count }}",
			want:  "<p>{{ count }}</p>\n",
		},
		{
			name:  "detached list stays literal",
			input: "word {.a}",
			want:  "<p>word {.a}</p>\n",
		},
		{
			name:  "empty braces stay literal",
			input: "fn(){}",
			want:  "<p>fn(){}</p>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(t, tt.input))
		})
	}
}

func TestRender_Container(t *testing.T) {
	want := "<card>\n<p><span style=\"color: green;\" class=\"custom-class green\">The content of the card</span>!</p>\n</card>\n"

	inputs := map[string]string{
		"indented":    "::card\n  The content of the card{style=\"color: green;\" .custom-class .green}!\n  ::\n",
		"flush":       "::card\nThe content of the card{style=\"color: green;\" .custom-class .green}!\n::",
		"blank lines": "::card\n\nThe content of the card{style=\"color: green;\" .custom-class .green}!\n\n::\n",
	}
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, want, render(t, input))
		})
	}
}

func TestRender_ContainerInterruptsParagraph(t *testing.T) {
	out := render(t, "Compiled in the **browser**\n::card{.p-4}\nbody\n::\n<test/>")

	assert.Contains(t, out, "<p>Compiled in the <strong>browser</strong></p>")
	assert.Contains(t, out, "<card class=\"p-4\">\n<p>body</p>\n</card>")
	assert.Contains(t, out, "<test/>")
}

func TestRender_NestedContainers(t *testing.T) {
	out := render(t, ":::grid\n::cell\none\n::\n::cell\ntwo\n::\n:::\n")

	assert.Equal(t, "<grid>\n<cell>\n<p>one</p>\n</cell>\n<cell>\n<p>two</p>\n</cell>\n</grid>\n", out)
}

func TestRender_Normalization(t *testing.T) {
	// "e" followed by a combining acute accent becomes a single code point.
	out := render(t, "café")
	assert.Contains(t, out, "café")
}

func TestParseAttributes(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   Attributes
		wantN  int
		wantOK bool
	}{
		{
			name:   "classes and id",
			input:  "{.a .b #main}",
			want:   Attributes{{Name: "class", Value: "a b"}, {Name: "id", Value: "main"}},
			wantN:  13,
			wantOK: true,
		},
		{
			name:   "quoted, unquoted and bare",
			input:  `{title='hi there' size=3 hidden}rest`,
			want:   Attributes{{Name: "title", Value: "hi there"}, {Name: "size", Value: "3"}, {Name: "hidden"}},
			wantN:  32,
			wantOK: true,
		},
		{
			name:   "vue binding",
			input:  `{:value="x" @click="go"}`,
			want:   Attributes{{Name: ":value", Value: "x"}, {Name: "@click", Value: "go"}},
			wantN:  24,
			wantOK: true,
		},
		{
			name:   "utility class characters",
			input:  "{.m-2.5 .w-1/2 .hover:bg-red}",
			want:   Attributes{{Name: "class", Value: "m-2.5 w-1/2 hover:bg-red"}},
			wantN:  29,
			wantOK: true,
		},
		{name: "unterminated", input: "{.a", wantOK: false},
		{name: "empty", input: "{}", wantOK: false},
		{name: "mustache", input: "{{ x }}", wantOK: false},
		{name: "unterminated quote", input: `{a="x}`, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n, ok := ParseAttributes([]byte(tt.input))
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantN, n)
		})
	}
}

func TestRenderNote(t *testing.T) {
	p := newParser(t)

	html, clicks, err := p.RenderNote("intro [click] then [CLICK:2] done")
	require.NoError(t, err)

	assert.Equal(t, 3, clicks)
	assert.Contains(t, html, `<span class="slidev-note-click-mark" data-clicks="1"></span>`)
	assert.Contains(t, html, `<span class="slidev-note-click-mark" data-clicks="3"></span>`)
	assert.Equal(t, 2, strings.Count(html, ClickMarkClass))

	html, clicks, err = p.RenderNote("  ")
	require.NoError(t, err)
	assert.Empty(t, html)
	assert.Zero(t, clicks)
}

func TestRenderNote_OversizedClickCount(t *testing.T) {
	p := newParser(t)

	html, clicks, err := p.RenderNote("a [click] b [click:99999999999999999999] c [click:2]")
	require.NoError(t, err)
	assert.Equal(t, 3, clicks)
	assert.Contains(t, html, "[click:99999999999999999999]")
	assert.Contains(t, html, `data-clicks="3"`)
	assert.NotContains(t, html, `data-clicks="-`)

	_, clicks, err = p.RenderNote("[click:9223372036854775807] [click]")
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, clicks)
}

func TestNew_InvalidQuotes(t *testing.T) {
	_, err := New(Options{Quotes: "ab"})
	assert.Error(t, err)
}
