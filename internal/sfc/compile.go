package sfc

import (
	"encoding/json"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// TemplateExport is the export name carrying the template markup in
// compiled component code.
const TemplateExport = "__template"

// tsconfig keeps imports that are only referenced from the template.
const tsconfig = `{"compilerOptions":{"verbatimModuleSyntax":true}}`

// CompileOptions configures Compile.
type CompileOptions struct {
	// Minify enables whitespace minification of script and style output.
	Minify bool
}

// CompileResult holds compiled component output. Errors is non-empty when
// any block failed; the code fields are then incomplete.
type CompileResult struct {
	ComponentCode string
	StyleCode     string
	Markup        string
	Errors        []error
}

// Failed reports whether compilation produced errors.
func (r *CompileResult) Failed() bool {
	return len(r.Errors) > 0
}

// Compile parses component source and turns it into an ES module plus a
// stylesheet. The template markup is exported as a JSON string.
func Compile(filename, source string, opts CompileOptions) *CompileResult {
	res := &CompileResult{}
	doc, err := Parse(source, filename)
	if err != nil {
		res.Errors = append(res.Errors, err)
		return res
	}
	if doc.Template == nil && doc.Script == nil && doc.Setup == nil {
		res.Errors = append(res.Errors, ErrEmptyComponent)
		return res
	}
	return CompileDocument(doc, opts)
}

// CompileDocument compiles an already parsed document.
func CompileDocument(doc *Document, opts CompileOptions) *CompileResult {
	res := &CompileResult{Markup: doc.Markup()}

	lang := "js"
	pos := Position{File: doc.File, Line: 1, Column: 1}
	if doc.Setup != nil {
		lang, pos = doc.Setup.Lang(), doc.Setup.Pos()
	} else if doc.Script != nil {
		lang, pos = doc.Script.Lang(), doc.Script.Pos()
	}

	topts := api.TransformOptions{
		Loader:           api.LoaderJS,
		Format:           api.FormatESModule,
		Target:           api.ES2020,
		Sourcefile:       doc.File,
		MinifyWhitespace: opts.Minify,
	}
	if lang == "ts" {
		topts.Loader = api.LoaderTS
		topts.TsconfigRaw = tsconfig
	}

	out := api.Transform(doc.ScriptCode(), topts)
	res.Errors = append(res.Errors, convertMessages(out.Errors, pos)...)

	var b strings.Builder
	b.Write(out.Code)
	b.WriteString("export const " + TemplateExport + " = ")
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(res.Markup)
	res.ComponentCode = strings.TrimSuffix(b.String(), "\n") + ";\n"

	var css []string
	for _, st := range doc.Styles {
		cout := api.Transform(st.CSS, api.TransformOptions{
			Loader:           api.LoaderCSS,
			Sourcefile:       doc.File,
			MinifyWhitespace: opts.Minify,
			Engines:          []api.Engine{{Name: api.EngineChrome, Version: "100"}},
		})
		if len(cout.Errors) > 0 {
			res.Errors = append(res.Errors, convertMessages(cout.Errors, st.Pos())...)
			continue
		}
		css = append(css, string(cout.Code))
	}
	res.StyleCode = strings.Join(css, "")
	return res
}

// convertMessages maps esbuild diagnostics to CompileErrors. Lines are
// offset by the block start so they point into the component file.
func convertMessages(msgs []api.Message, block Position) []error {
	errs := make([]error, 0, len(msgs))
	for _, m := range msgs {
		pos := block
		text := ""
		if m.Location != nil {
			pos.Line = block.Line + m.Location.Line
			pos.Column = m.Location.Column + 1
			text = m.Location.LineText
		}
		errs = append(errs, NewCompileError(pos, m.Text, text))
	}
	return errs
}
