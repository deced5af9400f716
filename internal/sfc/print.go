package sfc

import (
	"html"
	"strings"
)

// String serializes the document. The layout is stable: template first, then
// the plain script, the setup script and styles, separated by blank lines.
func (d *Document) String() string {
	var blocks []string
	if d.Template != nil {
		blocks = append(blocks, "<template"+printAttrs(d.Template.Attrs)+">\n"+PrintNodes(d.Template.Nodes)+"\n</template>")
	}
	if d.Script != nil {
		blocks = append(blocks, printScript(d.Script))
	}
	if d.Setup != nil {
		blocks = append(blocks, printScript(d.Setup))
	}
	for _, st := range d.Styles {
		blocks = append(blocks, "<style"+printAttrs(st.Attrs)+">\n"+st.CSS+"\n</style>")
	}
	return strings.Join(blocks, "\n\n")
}

// Markup returns the serialized template content, or "" without a template.
func (d *Document) Markup() string {
	if d.Template == nil {
		return ""
	}
	return PrintNodes(d.Template.Nodes)
}

// ScriptCode returns the plain script followed by the setup script body.
func (d *Document) ScriptCode() string {
	var parts []string
	for _, s := range []*Script{d.Script, d.Setup} {
		if s == nil {
			continue
		}
		for _, st := range s.Body {
			parts = append(parts, st.String())
		}
	}
	return strings.Join(parts, "\n")
}

// PrintNodes serializes template nodes, one per line.
func PrintNodes(nodes []Node) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		parts = append(parts, printNode(n))
	}
	return strings.Join(parts, "\n")
}

func printNode(n Node) string {
	switch n := n.(type) {
	case *Raw:
		return strings.Trim(n.Markup, "\r\n")
	case *Element:
		return "<" + n.Tag + printAttrs(n.Attrs) + ">\n" + PrintNodes(n.Children) + "\n</" + n.Tag + ">"
	}
	return ""
}

func printScript(s *Script) string {
	var b strings.Builder
	b.WriteString("<script" + printAttrs(s.Attrs) + ">\n")
	for _, st := range s.Body {
		b.WriteString(st.String())
		b.WriteByte('\n')
	}
	b.WriteString("</script>")
	return b.String()
}

func printAttrs(attrs []Attr) string {
	var b strings.Builder
	for _, a := range attrs {
		b.WriteByte(' ')
		b.WriteString(a.Name)
		if a.Value != "" {
			b.WriteString(`="`)
			b.WriteString(html.EscapeString(a.Value))
			b.WriteByte('"')
		}
	}
	return b.String()
}
