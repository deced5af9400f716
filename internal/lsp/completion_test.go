package lsp

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionLabels(items []CompletionItem) []string {
	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.Label
	}
	return labels
}

func complete(s *Server, uri string, line, char uint32) []CompletionItem {
	return s.getCompletions(CompletionParams{TextDocumentPositionParams: TextDocumentPositionParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Position:     Position{Line: line, Character: char},
	}})
}

func TestDetectContext(t *testing.T) {
	s, dir := newTestServer(t, projectFiles())

	tests := []struct {
		name       string
		content    string
		pos        Position
		wantType   CompletionContextType
		wantPrefix string
	}{
		{"class attribute", `<div class="p-4 te`, Position{Line: 0, Character: 18}, ContextClass, "te"},
		{"empty class attribute", `<div class="`, Position{Line: 0, Character: 12}, ContextClass, ""},
		{"className", `<div className='m`, Position{Line: 0, Character: 17}, ContextClass, "m"},
		{"closed attribute", `<div class="p-4">`, Position{Line: 0, Character: 17}, ContextUnknown, ""},
		{"layout value", "---\nlayout: wi", Position{Line: 1, Character: 10}, ContextLayout, "wi"},
		{"layout outside frontmatter", "# A\n\nlayout: wi", Position{Line: 2, Character: 10}, ContextUnknown, ""},
		{"frontmatter key", "---\ntitle: A\nla", Position{Line: 2, Character: 2}, ContextFrontmatterKey, "la"},
		{"component tag", "# A\n\n<Ca", Position{Line: 2, Character: 3}, ContextComponentTag, "Ca"},
		{"lower case tag", "# A\n\n<di", Position{Line: 2, Character: 3}, ContextUnknown, ""},
		{"heading", "# A", Position{Line: 0, Character: 3}, ContextUnknown, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uri := openDoc(s, dir, "slides.md", tt.content)
			gotType, gotPrefix := s.detectContext(s.documents.Get(uri), tt.pos)
			if gotType != tt.wantType || gotPrefix != tt.wantPrefix {
				t.Errorf("detectContext() = (%v, %q), want (%v, %q)", gotType, gotPrefix, tt.wantType, tt.wantPrefix)
			}
		})
	}
}

func TestCompletion_Classes(t *testing.T) {
	s, dir := newTestServer(t, projectFiles())
	content := `<div class="p-4 mt-">`
	uri := openDoc(s, dir, "slides.md", content)

	items := complete(s, uri, 0, uint32(strings.Index(content, `">`)))
	require.NotEmpty(t, items)
	assert.True(t, strings.HasPrefix(items[0].Label, "mt-"), "unexpected suggestion %q", items[0].Label)
	for _, item := range items {
		assert.Equal(t, CompletionItemKindClass, item.Kind)
		require.NotNil(t, item.TextEdit)
		assert.Equal(t, Position{Line: 0, Character: 16}, item.TextEdit.Range.Start)
		assert.Equal(t, Position{Line: 0, Character: 19}, item.TextEdit.Range.End)
	}
}

func TestCompletion_Layouts(t *testing.T) {
	s, dir := newTestServer(t, projectFiles())
	uri := openDoc(s, dir, "slides.md", "---\nlayout: \n---\n")

	items := complete(s, uri, 1, 8)
	assert.Subset(t, completionLabels(items), []string{"default", "center", "wide"})
	for _, item := range items {
		if item.Label == "wide" {
			assert.Equal(t, filepath.Join("layouts", "wide.vue"), item.Detail)
		}
		if item.Label == "default" {
			assert.Equal(t, "built-in layout", item.Detail)
		}
	}

	uri = openDoc(s, dir, "slides.md", "---\nlayout: c\n---\n")
	assert.Subset(t, completionLabels(complete(s, uri, 1, 9)), []string{"center", "cover"})
	assert.NotContains(t, completionLabels(complete(s, uri, 1, 9)), "wide")
}

func TestCompletion_Components(t *testing.T) {
	s, dir := newTestServer(t, projectFiles())
	uri := openDoc(s, dir, "slides.md", "# A\n\n<")

	items := complete(s, uri, 2, 1)
	assert.Equal(t, []string{"Badge", "Card"}, completionLabels(items))
	assert.Equal(t, filepath.Join("components", "Badge.vue"), items[0].Detail)
}

func TestCompletion_FrontmatterKeys(t *testing.T) {
	s, dir := newTestServer(t, projectFiles())
	uri := openDoc(s, dir, "slides.md", "---\nt\n---\n")

	items := complete(s, uri, 1, 1)
	require.Len(t, items, 1)
	assert.Equal(t, "title", items[0].Label)
	assert.Equal(t, "title: ", items[0].InsertText)
}

func TestHover(t *testing.T) {
	s, dir := newTestServer(t, projectFiles())
	content := "---\nlayout: wide\n---\n\n<Card>\n<div class=\"p-4 nope\">x</div>\n</Card>\n"
	uri := openDoc(s, dir, "slides.md", content)

	hover := func(line, char uint32) *Hover {
		return s.getHover(HoverParams{TextDocumentPositionParams: TextDocumentPositionParams{
			TextDocument: TextDocumentIdentifier{URI: uri},
			Position:     Position{Line: line, Character: char},
		}})
	}

	t.Run("component", func(t *testing.T) {
		h := hover(4, 2)
		require.NotNil(t, h)
		assert.Contains(t, h.Contents.Value, "**Card** (component)")
		assert.Contains(t, h.Contents.Value, filepath.Join("components", "Card.vue"))
		require.NotNil(t, h.Range)
		assert.Equal(t, Position{Line: 4, Character: 1}, h.Range.Start)
	})

	t.Run("closing tag", func(t *testing.T) {
		h := hover(6, 3)
		require.NotNil(t, h)
		assert.Contains(t, h.Contents.Value, "**Card**")
	})

	t.Run("layout", func(t *testing.T) {
		h := hover(1, 10)
		require.NotNil(t, h)
		assert.Contains(t, h.Contents.Value, "**wide** (layout)")
	})

	t.Run("class", func(t *testing.T) {
		h := hover(5, 13)
		require.NotNil(t, h)
		assert.Equal(t, MarkupKindMarkdown, h.Contents.Kind)
		assert.True(t, strings.HasPrefix(h.Contents.Value, "```css\n"))
		assert.Contains(t, h.Contents.Value, "padding")
	})

	t.Run("unmatched class", func(t *testing.T) {
		assert.Nil(t, hover(5, 18))
	})

	t.Run("plain text", func(t *testing.T) {
		assert.Nil(t, hover(5, 23))
	})
}

func TestDefinition(t *testing.T) {
	s, dir := newTestServer(t, projectFiles())
	uri := openDoc(s, dir, "slides.md", "---\nlayout: wide\n---\n\n<Card>x</Card>\n<Missing />\n")

	definition := func(line, char uint32) *Location {
		return s.getDefinition(DefinitionParams{TextDocumentPositionParams: TextDocumentPositionParams{
			TextDocument: TextDocumentIdentifier{URI: uri},
			Position:     Position{Line: line, Character: char},
		}})
	}

	loc := definition(4, 2)
	require.NotNil(t, loc)
	assert.Equal(t, PathToURI(filepath.Join(dir, "components", "Card.vue")), loc.URI)

	loc = definition(1, 9)
	require.NotNil(t, loc)
	assert.Equal(t, PathToURI(filepath.Join(dir, "layouts", "wide.vue")), loc.URI)

	assert.Nil(t, definition(5, 3))
}

func TestCodeActions_UnknownLayout(t *testing.T) {
	s, dir := newTestServer(t, projectFiles())
	uri := openDoc(s, dir, "slides.md", "# One\n\n---\nlayout: centerd\n---\n\n# Two\n")
	s.publishDiagnostics(uri)

	diags := s.diagnose(t.Context(), s.documents.Get(uri))
	require.Len(t, diags, 1)

	actions := s.getCodeActions(CodeActionParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Range:        diags[0].Range,
		Context:      CodeActionContext{Diagnostics: diags},
	})
	require.NotEmpty(t, actions)
	assert.Equal(t, `Change layout to "center"`, actions[0].Title)
	assert.True(t, actions[0].IsPreferred)
	edits := actions[0].Edit.Changes[uri]
	require.Len(t, edits, 1)
	assert.Equal(t, "center", edits[0].NewText)
	assert.Equal(t, diags[0].Range, edits[0].Range)

	none := s.getCodeActions(CodeActionParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Context:      CodeActionContext{Diagnostics: diags, Only: []CodeActionKind{"refactor"}},
	})
	assert.Empty(t, none)
}

func TestLayoutFixes(t *testing.T) {
	layouts := []string{"center", "cover", "default", "wide"}
	r := Range{Start: Position{Line: 1, Character: 8}, End: Position{Line: 1, Character: 11}}

	tests := []struct {
		name string
		want []string
	}{
		{"wid", []string{"wide"}},
		{"co", []string{"cover"}},
		{"e", []string{"wide", "cover", "center"}},
		{"centerd", []string{"center"}},
		{"xyz", []string{"default"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixes := layoutFixes(tt.name, layouts, r)
			got := make([]string, len(fixes))
			for i, f := range fixes {
				require.Len(t, f.Edits, 1)
				assert.Equal(t, r, f.Edits[0].Range)
				got[i] = f.Edits[0].NewText
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
