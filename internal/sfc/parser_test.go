package sfc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Document(t *testing.T) {
	src := `<template>
<div>{{ msg }}</div>
</template>

<script>
export const meta = { a: 1 }
</script>

<script setup lang="ts">
import Foo, { bar as baz, qux } from "./foo"
import * as ns from './ns'
import "./side.css"
const msg = "hi"
</script>

<style scoped>
.a { color: red }
</style>
`
	doc, err := Parse(src, "comp.vue")
	require.NoError(t, err)

	require.NotNil(t, doc.Template)
	assert.Equal(t, "<div>{{ msg }}</div>", doc.Markup())

	require.NotNil(t, doc.Script)
	assert.False(t, doc.Script.IsSetup())
	require.NotNil(t, doc.Setup)
	assert.Equal(t, "ts", doc.Setup.Lang())

	imports := doc.Setup.Imports()
	require.Len(t, imports, 3)
	assert.Equal(t, &ImportStmt{
		Default:   "Foo",
		Named:     []ImportSpec{{Name: "bar", Local: "baz"}, {Name: "qux"}},
		Specifier: "./foo",
	}, imports[0])
	assert.Equal(t, "ns", imports[1].Namespace)
	assert.Equal(t, "./side.css", imports[2].Specifier)
	assert.Empty(t, imports[2].Bindings())

	assert.True(t, doc.Setup.Binds("baz"))
	assert.False(t, doc.Setup.Binds("bar"))

	require.Len(t, doc.Styles, 1)
	assert.Equal(t, ".a { color: red }", doc.Styles[0].CSS)
	assert.Equal(t, []Attr{{Name: "scoped"}}, doc.Styles[0].Attrs)
}

func TestParse_DuplicateBlocks(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"template", "<template>a</template><template>b</template>"},
		{"setup", "<script setup></script><script setup></script>"},
		{"script", "<script></script><script></script>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src, "x.vue")
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
		})
	}
}

func TestParseAttrs(t *testing.T) {
	tests := []struct {
		in   string
		want []Attr
	}{
		{"", nil},
		{"setup", []Attr{{Name: "setup"}}},
		{`setup lang="ts"`, []Attr{{Name: "setup"}, {Name: "lang", Value: "ts"}}},
		{`lang='scss' scoped`, []Attr{{Name: "lang", Value: "scss"}, {Name: "scoped"}}},
		{`v-bind="$frontmatter" data-x=1`, []Attr{{Name: "v-bind", Value: "$frontmatter"}, {Name: "data-x", Value: "1"}}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAttrs(tt.in))
		})
	}
}

func TestParseStatements(t *testing.T) {
	code := `import type { Props } from "./types"
import a from 'a'
const x = import.meta.env

import {
  b,
  c as d,
} from "bc"
console.log(x)`
	stmts := ParseStatements(code)
	require.Len(t, stmts, 5)

	assert.Equal(t, &RawStmt{Code: `import type { Props } from "./types"`}, stmts[0])
	assert.Equal(t, &ImportStmt{Default: "a", Specifier: "a"}, stmts[1])
	assert.Equal(t, &RawStmt{Code: "const x = import.meta.env"}, stmts[2])
	assert.Equal(t, &ImportStmt{Named: []ImportSpec{{Name: "b"}, {Name: "c", Local: "d"}}, Specifier: "bc"}, stmts[3])
	assert.Equal(t, &RawStmt{Code: "console.log(x)"}, stmts[4])
}

func TestTemplate_Unwrap(t *testing.T) {
	tests := []struct {
		name string
		tmpl *Template
		want string
	}{
		{
			name: "element root",
			tmpl: &Template{Nodes: []Node{NewElement("div", nil, NewRaw("body"))}},
			want: "body",
		},
		{
			name: "raw root",
			tmpl: &Template{Nodes: []Node{NewRaw("<div>\n<p>x</p>\n</div>")}},
			want: "<p>x</p>",
		},
		{
			name: "root with attrs",
			tmpl: &Template{Nodes: []Node{NewElement("div", []Attr{{Name: "class", Value: "a"}}, NewRaw("body"))}},
			want: "<div class=\"a\">\nbody\n</div>",
		},
		{
			name: "sibling roots",
			tmpl: &Template{Nodes: []Node{NewRaw("<div>a</div><div>b</div>")}},
			want: "<div>a</div><div>b</div>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PrintNodes(tt.tmpl.Unwrap("div")))
		})
	}
}
