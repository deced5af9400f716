package sfc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_StringSkeleton(t *testing.T) {
	doc := NewDocument("<h1>Hello</h1>")
	assert.Equal(t, "<template>\n<div>\n<h1>Hello</h1>\n</div>\n</template>\n\n<script setup>\n</script>", doc.String())
}

func TestScript_Prepend(t *testing.T) {
	doc := NewDocument("x")
	doc.Setup.Body = ParseStatements("import Foo from \"./old\"\nconst n = 1")

	doc.Setup.Prepend(&ImportStmt{Default: "Foo", Specifier: "./new"})
	doc.Setup.Prepend(&ImportStmt{Default: "remote", Specifier: "built-in:remote"})

	want := "<script setup>\n" +
		"import remote from \"built-in:remote\"\n" +
		"import Foo from \"./new\"\n" +
		"const n = 1\n" +
		"</script>"
	assert.Contains(t, doc.String(), want)
}

func TestStmt_String(t *testing.T) {
	tests := []struct {
		stmt Stmt
		want string
	}{
		{&ImportStmt{Specifier: "./a.css"}, `import "./a.css"`},
		{&ImportStmt{Default: "A", Specifier: "a"}, `import A from "a"`},
		{&ImportStmt{Namespace: "ns", Specifier: "n"}, `import * as ns from "n"`},
		{&ImportStmt{Default: "A", Named: []ImportSpec{{Name: "b"}, {Name: "c", Local: "d"}}, Specifier: "a"}, `import A, { b, c as d } from "a"`},
		{&ConstStmt{Name: "$frontmatter", Value: `{"a":1}`}, `const $frontmatter = {"a":1}`},
		{&RawStmt{Code: "foo()"}, "foo()"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.stmt.String())
		})
	}
}

func TestDocument_RoundTrip(t *testing.T) {
	src := "<template>\n<p>a</p>\n</template>\n\n<script setup>\nimport A from \"a\"\n</script>\n\n<style>\n.a{}\n</style>"
	doc, err := Parse(src, "x.vue")
	require.NoError(t, err)
	assert.Equal(t, src, doc.String())
}

func TestPrintAttrs_Escapes(t *testing.T) {
	el := NewElement("Layout", []Attr{{Name: "title", Value: `a "b"`}, {Name: "bare"}}, NewRaw("x"))
	assert.Equal(t, "<Layout title=\"a &#34;b&#34;\" bare>\nx\n</Layout>", PrintNodes([]Node{el}))
}
