package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindContainer is the node kind of a `::name{attrs}` block.
var KindContainer = ast.NewNodeKind("Container")

// KindSpan is the node kind of text carrying an inline attribute list.
var KindSpan = ast.NewNodeKind("Span")

// Container is a block directive rendered as an element named after the directive.
type Container struct {
	ast.BaseBlock
	Name  string
	Fence int
}

// Kind implements ast.Node.
func (n *Container) Kind() ast.NodeKind {
	return KindContainer
}

// Dump implements ast.Node.
func (n *Container) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Name":  n.Name,
		"Fence": fmt.Sprint(n.Fence),
	}, nil)
}

// Span wraps text that had an attribute list attached.
type Span struct {
	ast.BaseInline
}

// Kind implements ast.Node.
func (n *Span) Kind() ast.NodeKind {
	return KindSpan
}

// Dump implements ast.Node.
func (n *Span) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

type containerParser struct{}

func (p *containerParser) Trigger() []byte {
	return []byte{':'}
}

func (p *containerParser) Open(_ ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || pos >= len(line) || line[pos] != ':' {
		return nil, parser.NoChildren
	}

	i := pos
	for i < len(line) && line[i] == ':' {
		i++
	}
	fence := i - pos
	if fence < 2 {
		return nil, parser.NoChildren
	}

	j := i
	for j < len(line) && isNameChar(line[j]) && line[j] != '.' {
		j++
	}
	if j == i {
		return nil, parser.NoChildren
	}

	node := &Container{Name: string(line[i:j]), Fence: fence}
	rest := line[j:]
	if len(rest) > 0 && rest[0] == '{' {
		attrs, n, ok := ParseAttributes(rest)
		if !ok {
			return nil, parser.NoChildren
		}
		attrs.applyTo(node)
		rest = rest[n:]
	}
	if !util.IsBlank(rest) {
		return nil, parser.NoChildren
	}

	reader.Advance(segment.Stop - segment.Start - newlineWidth(line) + segment.Padding)
	return node, parser.HasChildren
}

func (p *containerParser) Continue(node ast.Node, reader text.Reader, _ parser.Context) parser.State {
	line, segment := reader.PeekLine()
	fence := node.(*Container).Fence

	trimmed := util.TrimRightSpace(util.TrimLeftSpace(line))
	if len(trimmed) == fence && bytes.Count(trimmed, []byte{':'}) == fence {
		reader.Advance(segment.Stop - segment.Start - newlineWidth(line) + segment.Padding)
		return parser.Close
	}
	return parser.Continue | parser.HasChildren
}

func (p *containerParser) Close(_ ast.Node, _ text.Reader, _ parser.Context) {}

func (p *containerParser) CanInterruptParagraph() bool {
	return true
}

func (p *containerParser) CanAcceptIndentedLine() bool {
	return false
}

func newlineWidth(line []byte) int {
	if len(line) > 0 && line[len(line)-1] == '\n' {
		return 1
	}
	return 0
}

// attributeParser attaches a trailing `{...}` list to the inline node before it.
type attributeParser struct{}

func (p *attributeParser) Trigger() []byte {
	return []byte{'{'}
}

func (p *attributeParser) Parse(parent ast.Node, block text.Reader, _ parser.Context) ast.Node {
	prev := parent.LastChild()
	if prev == nil {
		return nil
	}
	line, _ := block.PeekLine()
	attrs, n, ok := ParseAttributes(line)
	if !ok || (n < len(line) && line[n] == '}') {
		return nil
	}

	switch prev := prev.(type) {
	case *ast.Text:
		if prev.SoftLineBreak() || prev.HardLineBreak() || prev.Segment.Len() == 0 {
			return nil
		}
		// `{{ expr }}` interpolation and detached `word {...}` stay literal.
		if last := block.Source()[prev.Segment.Stop-1]; last == '{' || last == ' ' || last == '\t' {
			return nil
		}
		block.Advance(n)
		parent.RemoveChild(parent, prev)
		span := &Span{}
		span.AppendChild(span, prev)
		attrs.applyTo(span)
		return span
	case *ast.CodeSpan, *ast.Link, *ast.Image, *ast.AutoLink, *ast.Emphasis, *Span:
		block.Advance(n)
		parent.RemoveChild(parent, prev)
		attrs.applyTo(prev)
		return prev
	}
	return nil
}

type nodeRenderer struct{}

func (r *nodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindContainer, r.renderContainer)
	reg.Register(KindSpan, r.renderSpan)
}

func (r *nodeRenderer) renderContainer(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*Container)
	if entering {
		_, _ = w.WriteString("<" + n.Name)
		html.RenderAttributes(w, n, nil)
		_, _ = w.WriteString(">\n")
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString("</" + n.Name + ">\n")
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderSpan(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("<span")
		html.RenderAttributes(w, node, nil)
		_ = w.WriteByte('>')
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString("</span>")
	return ast.WalkContinue, nil
}

// directives is the goldmark extension for container blocks and inline attributes.
type directives struct{}

// Directives enables `::name{attrs}` containers and inline `{...}` attribute lists.
var Directives goldmark.Extender = &directives{}

func (e *directives) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(util.Prioritized(&containerParser{}, 150)),
		parser.WithInlineParsers(util.Prioritized(&attributeParser{}, 950)),
	)
	m.Renderer().AddOptions(renderer.WithNodeRenderers(util.Prioritized(&nodeRenderer{}, 500)))
}
