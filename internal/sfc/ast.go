// Package sfc models single-file component source: a template block, an
// optional plain script, a setup script and style blocks. Documents are
// edited structurally and serialized once.
package sfc

import "strings"

// Position tracks source location for error reporting.
type Position struct {
	File   string
	Line   int
	Column int
}

// Node is a template node.
type Node interface {
	Pos() Position
	node()
}

type nodeBase struct {
	pos Position
}

func (n *nodeBase) Pos() Position { return n.pos }
func (n *nodeBase) node()         {}

// Attr is an attribute on an element or block tag. An empty Value is
// printed as a bare attribute.
type Attr struct {
	Name  string
	Value string
}

// Element is a template element whose children are other nodes.
type Element struct {
	nodeBase
	Tag      string
	Attrs    []Attr
	Children []Node
}

// NewElement creates an element.
func NewElement(tag string, attrs []Attr, children ...Node) *Element {
	return &Element{Tag: tag, Attrs: attrs, Children: children}
}

// Raw is verbatim template markup.
type Raw struct {
	nodeBase
	Markup string
}

// NewRaw creates a raw markup node.
func NewRaw(markup string) *Raw {
	return &Raw{Markup: markup}
}

// Template is the `<template>` block.
type Template struct {
	Attrs []Attr
	Nodes []Node
	pos   Position
}

// Pos returns where the block starts.
func (t *Template) Pos() Position { return t.pos }

// Unwrap returns the children of a lone attribute-free root element with the
// given tag, or the template nodes unchanged when there is no such root.
func (t *Template) Unwrap(tag string) []Node {
	if len(t.Nodes) != 1 {
		return t.Nodes
	}
	switch root := t.Nodes[0].(type) {
	case *Element:
		if root.Tag == tag && len(root.Attrs) == 0 {
			return root.Children
		}
	case *Raw:
		open, closing := "<"+tag+">", "</"+tag+">"
		body := strings.TrimSpace(root.Markup)
		if strings.HasPrefix(body, open) && strings.HasSuffix(body, closing) {
			inner := body[len(open) : len(body)-len(closing)]
			if !strings.Contains(inner, open) {
				return []Node{NewRaw(inner)}
			}
		}
	}
	return t.Nodes
}

// Stmt is one top-level statement of a script block.
type Stmt interface {
	stmt()
	String() string
}

// ImportSpec is one `name as local` entry of a named import.
type ImportSpec struct {
	Name  string
	Local string
}

// ImportStmt is an import declaration.
type ImportStmt struct {
	Default   string
	Namespace string
	Named     []ImportSpec
	Specifier string
}

func (*ImportStmt) stmt() {}

// Bindings returns the local names introduced by the import.
func (s *ImportStmt) Bindings() []string {
	var out []string
	if s.Default != "" {
		out = append(out, s.Default)
	}
	if s.Namespace != "" {
		out = append(out, s.Namespace)
	}
	for _, n := range s.Named {
		out = append(out, n.local())
	}
	return out
}

func (n ImportSpec) local() string {
	if n.Local != "" {
		return n.Local
	}
	return n.Name
}

// ConstStmt is `const Name = Value`, where Value is expression source.
type ConstStmt struct {
	Name  string
	Value string
}

func (*ConstStmt) stmt() {}

// RawStmt is script source kept verbatim.
type RawStmt struct {
	Code string
}

func (*RawStmt) stmt() {}

// Script is a `<script>` or `<script setup>` block.
type Script struct {
	Attrs []Attr
	Body  []Stmt
	pos   Position
}

// Pos returns where the block starts.
func (s *Script) Pos() Position { return s.pos }

// IsSetup reports whether the block carries the setup attribute.
func (s *Script) IsSetup() bool {
	return hasAttr(s.Attrs, "setup")
}

// Lang returns the lang attribute, "js" when absent.
func (s *Script) Lang() string {
	if v, ok := attrValue(s.Attrs, "lang"); ok && v != "" {
		return v
	}
	return "js"
}

// Prepend inserts stmts at the top of the block, in order. Any existing
// import or const that declares a name bound by the new statements is
// removed first, so the most recently prepended binding wins.
func (s *Script) Prepend(stmts ...Stmt) {
	bound := map[string]bool{}
	for _, st := range stmts {
		for _, name := range declared(st) {
			bound[name] = true
		}
	}

	kept := make([]Stmt, 0, len(s.Body)+len(stmts))
	kept = append(kept, stmts...)
	for _, st := range s.Body {
		shadowed := false
		for _, name := range declared(st) {
			if bound[name] {
				shadowed = true
				break
			}
		}
		if !shadowed {
			kept = append(kept, st)
		}
	}
	s.Body = kept
}

// Imports returns the import statements of the block in order.
func (s *Script) Imports() []*ImportStmt {
	var out []*ImportStmt
	for _, st := range s.Body {
		if imp, ok := st.(*ImportStmt); ok {
			out = append(out, imp)
		}
	}
	return out
}

// Binds reports whether a statement of the block declares name.
func (s *Script) Binds(name string) bool {
	for _, st := range s.Body {
		for _, n := range declared(st) {
			if n == name {
				return true
			}
		}
	}
	return false
}

func declared(st Stmt) []string {
	switch st := st.(type) {
	case *ImportStmt:
		return st.Bindings()
	case *ConstStmt:
		return []string{st.Name}
	}
	return nil
}

// Style is a `<style>` block.
type Style struct {
	Attrs []Attr
	CSS   string
	pos   Position
}

// Pos returns where the block starts.
func (s *Style) Pos() Position { return s.pos }

// Document is a parsed or generated component source.
type Document struct {
	File     string
	Template *Template
	Script   *Script
	Setup    *Script
	Styles   []*Style
}

// NewDocument returns the skeleton used for generated slides: the body inside
// a root div, followed by an empty setup block.
func NewDocument(body string) *Document {
	return &Document{
		Template: &Template{Nodes: []Node{NewElement("div", nil, NewRaw(body))}},
		Setup:    &Script{Attrs: []Attr{{Name: "setup"}}},
	}
}

// HasSetup reports whether the document has a setup block.
func (d *Document) HasSetup() bool {
	return d.Setup != nil
}

func hasAttr(attrs []Attr, name string) bool {
	_, ok := attrValue(attrs, name)
	return ok
}

func attrValue(attrs []Attr, name string) (string, bool) {
	for _, a := range attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}
