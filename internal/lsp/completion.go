package lsp

import (
	"context"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/leapstack-labs/leapslides/internal/uno"
)

// CompletionContextType describes what kind of completion context we're in.
type CompletionContextType int

// Completion context type constants.
const (
	ContextUnknown        CompletionContextType = iota
	ContextClass                                // Inside class="..."
	ContextLayout                               // After "layout:" in frontmatter
	ContextComponentTag                         // After "<" followed by an upper case letter
	ContextFrontmatterKey                       // Start of a frontmatter line
)

var (
	reClassAttr     = regexp.MustCompile(`\bclass(?:Name)?=["']([^"']*)$`)
	reLayoutPrefix  = regexp.MustCompile(`^layout:[ \t]*["']?([\w-]*)$`)
	reComponentTag  = regexp.MustCompile(`<([A-Z][\w-]*)?$`)
	reFrontmatterKV = regexp.MustCompile(`^(\s+\S|[\w-]+:)`)
	reKeyPrefix     = regexp.MustCompile(`^[A-Za-z]*$`)
	reTagAt         = regexp.MustCompile(`</?([A-Z][\w-]*)$`)
)

// frontmatterKeys are the slide frontmatter keys with documentation.
var frontmatterKeys = []CompletionItem{
	{Label: "layout", Kind: CompletionItemKindProperty, Detail: "string", Documentation: "Layout the slide is wrapped in. Unknown names fall back to the default layout."},
	{Label: "title", Kind: CompletionItemKindProperty, Detail: "string", Documentation: "Slide title. Defaults to the first heading."},
	{Label: "css", Kind: CompletionItemKindProperty, Detail: "string", Documentation: "Extra CSS added to the slide's custom layer."},
	{Label: "pureHTML", Kind: CompletionItemKindProperty, Detail: "bool", Documentation: "Treat the slide content as markup and skip the markdown renderer."},
	{Label: "default", Kind: CompletionItemKindProperty, Detail: "map", Documentation: "Deck defaults, read from the first slide only. Supports `layout`."},
}

// getCompletions returns completion items for the given position.
func (s *Server) getCompletions(params CompletionParams) []CompletionItem {
	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil {
		return nil
	}

	p := s.currentProject()
	items := []CompletionItem{}

	ctxType, prefix := s.detectContext(doc, params.Position)
	switch ctxType {
	case ContextClass:
		items = append(items, s.classCompletions(doc, params.Position)...)

	case ContextLayout:
		for _, name := range p.layoutNames {
			if !strings.HasPrefix(name, prefix) {
				continue
			}
			detail := "built-in layout"
			if path, ok := p.layoutPaths[name]; ok {
				detail = relPath(p.root, path)
			}
			items = append(items, CompletionItem{Label: name, Kind: CompletionItemKindValue, Detail: detail})
		}

	case ContextComponentTag:
		for _, name := range p.componentNames() {
			if !strings.HasPrefix(name, prefix) {
				continue
			}
			items = append(items, CompletionItem{
				Label:  name,
				Kind:   CompletionItemKindModule,
				Detail: relPath(p.root, p.components[name]),
			})
		}

	case ContextFrontmatterKey:
		for _, key := range frontmatterKeys {
			if strings.HasPrefix(key.Label, prefix) {
				item := key
				item.InsertText = key.Label + ": "
				items = append(items, item)
			}
		}
	}

	return items
}

// detectContext determines the completion context at pos.
func (s *Server) detectContext(doc *Document, pos Position) (CompletionContextType, string) {
	line := doc.Line(int(pos.Line))
	if int(pos.Character) < len(line) {
		line = line[:pos.Character]
	}

	if m := reClassAttr.FindStringSubmatch(line); m != nil {
		return ContextClass, lastField(m[1])
	}

	if s.kindOf(doc.URI) == kindDeck {
		if inFrontmatter(doc, int(pos.Line)) {
			if m := reLayoutPrefix.FindStringSubmatch(line); m != nil {
				return ContextLayout, m[1]
			}
			if reKeyPrefix.MatchString(line) {
				return ContextFrontmatterKey, line
			}
		}
	}

	if m := reComponentTag.FindStringSubmatch(line); m != nil {
		return ContextComponentTag, m[1]
	}

	return ContextUnknown, ""
}

// inFrontmatter reports whether line sits in a frontmatter block: every
// line above it up to a separator reads as a YAML entry.
func inFrontmatter(doc *Document, line int) bool {
	for l := line - 1; l >= 0; l-- {
		text := doc.Line(l)
		if isSeparator(text) {
			return true
		}
		if !reFrontmatterKV.MatchString(text) {
			return false
		}
	}
	return false
}

// classCompletions asks the CSS engine for utilities matching the token
// under the cursor.
func (s *Server) classCompletions(doc *Document, pos Position) []CompletionItem {
	engine := s.currentProject().engine()
	if engine == nil {
		return nil
	}

	offset := doc.PositionToOffset(pos)
	hint, err := engine.Hint(doc.Content, offset)
	if err != nil || hint == nil {
		return nil
	}

	r := Range{Start: doc.OffsetToPosition(hint.Start), End: doc.OffsetToPosition(hint.End)}
	items := make([]CompletionItem, 0, len(hint.Suggestions))
	for i, sug := range hint.Suggestions {
		items = append(items, CompletionItem{
			Label:    sug.Value,
			Kind:     CompletionItemKindClass,
			Detail:   sug.Label,
			SortText: fmt.Sprintf("%04d", i),
			TextEdit: &TextEdit{Range: r, NewText: sug.Value},
		})
	}
	return items
}

// getHover returns hover information for the position.
func (s *Server) getHover(params HoverParams) *Hover {
	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil {
		return nil
	}

	p := s.currentProject()
	line := doc.Line(int(params.Position.Line))
	before := line[:min(int(params.Position.Character), len(line))]

	if name, r := tagAt(doc, params.Position); name != "" {
		path, ok := p.components[name]
		if !ok {
			return nil
		}
		return &Hover{
			Contents: MarkupContent{
				Kind:  MarkupKindMarkdown,
				Value: fmt.Sprintf("**%s** (component)\n\n`%s`", name, relPath(p.root, path)),
			},
			Range: &r,
		}
	}

	if s.kindOf(doc.URI) == kindDeck && reLayoutLine.MatchString(line) {
		word, r := doc.WordAt(params.Position)
		if word == "" || word == "layout" || !p.hasLayout(word) {
			return nil
		}
		where := "built-in layout"
		if path, ok := p.layoutPaths[word]; ok {
			where = "`" + relPath(p.root, path) + "`"
		}
		return &Hover{
			Contents: MarkupContent{Kind: MarkupKindMarkdown, Value: fmt.Sprintf("**%s** (layout)\n\n%s", word, where)},
			Range:    &r,
		}
	}

	if reClassAttr.MatchString(before) {
		class, r := doc.ClassAt(params.Position)
		if class == "" {
			return nil
		}
		css := s.classCSS(p, class)
		if css == "" {
			return nil
		}
		return &Hover{
			Contents: MarkupContent{Kind: MarkupKindMarkdown, Value: "```css\n" + css + "\n```"},
			Range:    &r,
		}
	}

	return nil
}

// classCSS generates the CSS of one class token without preflights.
func (s *Server) classCSS(p *projectState, class string) string {
	engine := p.engine()
	if engine == nil {
		return ""
	}
	out := engine.Generate(context.Background(), uno.GenerateOptions{
		Markup: fmt.Sprintf(`<div class="%s"></div>`, html.EscapeString(class)),
	})
	if out.Output == nil || len(out.Output.Matched) == 0 {
		return ""
	}
	return uno.CleanCSS(out.Output.GetLayer(""))
}

// getDefinition returns the definition location for the position.
func (s *Server) getDefinition(params DefinitionParams) *Location {
	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil {
		return nil
	}

	p := s.currentProject()

	if name, _ := tagAt(doc, params.Position); name != "" {
		if path, ok := p.components[name]; ok {
			return fileLocation(path)
		}
		return nil
	}

	line := doc.Line(int(params.Position.Line))
	if s.kindOf(doc.URI) == kindDeck && reLayoutLine.MatchString(line) {
		word, _ := doc.WordAt(params.Position)
		if path, ok := p.layoutPaths[word]; ok {
			return fileLocation(path)
		}
	}
	return nil
}

// tagAt returns the component tag name under pos, if any.
func tagAt(doc *Document, pos Position) (string, Range) {
	word, r := doc.WordAt(pos)
	if word == "" {
		return "", r
	}
	start := doc.PositionToOffset(r.Start)
	if !reTagAt.MatchString(doc.Content[:start] + word) {
		return "", r
	}
	return word, r
}

func fileLocation(path string) *Location {
	return &Location{URI: PathToURI(path)}
}

func relPath(root, path string) string {
	if root == "" {
		return path
	}
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

func lastField(s string) string {
	if i := strings.LastIndexAny(s, " \t"); i >= 0 {
		return s[i+1:]
	}
	return s
}
