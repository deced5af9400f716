package lsp

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/leapstack-labs/leapslides/internal/component"
	"github.com/leapstack-labs/leapslides/internal/deck"
	"github.com/leapstack-labs/leapslides/internal/sfc"
	lstar "github.com/leapstack-labs/leapslides/internal/starlark"
)

const diagnosticSource = "leapslides"

// Diagnostic codes.
const (
	codeFrontmatter   = "frontmatter"
	codeUnknownLayout = "unknown-layout"
	codeCompile       = "compile"
	codeComponentName = "component-name"
	codeCSSConfig     = "css-config"
)

var reLayoutLine = regexp.MustCompile(`^layout:[ \t]*["']?([^"'#\s]*)`)

// publishDiagnostics validates the document and publishes the result.
func (s *Server) publishDiagnostics(uri string) {
	doc := s.documents.Get(uri)
	if doc == nil {
		return
	}

	diagnostics := s.diagnose(context.Background(), doc)
	if diagnostics == nil {
		diagnostics = []Diagnostic{}
	}

	s.sendNotification("textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// diagnose returns the diagnostics for one document.
func (s *Server) diagnose(ctx context.Context, doc *Document) []Diagnostic {
	s.fixes.clearURI(doc.URI)

	switch s.kindOf(doc.URI) {
	case kindDeck:
		return s.diagnoseDeck(ctx, doc)
	case kindComponent:
		return diagnoseComponent(doc)
	case kindCSSConfig:
		return s.diagnoseCSSConfig(ctx, doc)
	default:
		return nil
	}
}

func (s *Server) diagnoseDeck(ctx context.Context, doc *Document) []Diagnostic {
	sources, infos, err := deck.Parse(doc.Content)
	if err != nil {
		var fmErr *deck.FrontmatterParseError
		if errors.As(err, &fmErr) {
			return []Diagnostic{lineDiagnostic(doc, fmErr.Line-1, DiagnosticSeverityError, codeFrontmatter, fmErr.Message)}
		}
		return []Diagnostic{lineDiagnostic(doc, 0, DiagnosticSeverityError, codeFrontmatter, err.Error())}
	}

	p := s.currentProject()
	var diagnostics []Diagnostic

	for i, src := range sources {
		name, ok := src.Frontmatter["layout"].(string)
		if !ok || name == "" || p.hasLayout(name) {
			continue
		}
		r, found := findLayoutValue(doc, infos[i])
		if !found {
			r = lineRange(doc, infos[i].Start)
		}
		diag := Diagnostic{
			Range:    r,
			Severity: DiagnosticSeverityWarning,
			Code:     codeUnknownLayout,
			Source:   diagnosticSource,
			Message:  fmt.Sprintf("Unknown layout %q, slide %d uses %q instead", name, i+1, deck.DefaultLayout),
		}
		diagnostics = append(diagnostics, diag)
		if found {
			s.fixes.add(doc.URI, diag, layoutFixes(name, p.layoutNames, r))
		}
	}

	if p.renderer == nil {
		return diagnostics
	}
	slides, err := p.renderer.Render(ctx, sources)
	if err != nil {
		return diagnostics
	}
	for i, slide := range slides {
		res := slide.Compile()
		if !res.Failed() {
			continue
		}
		for _, cerr := range res.Errors {
			diagnostics = append(diagnostics, lineDiagnostic(doc, contentLine(doc, infos[i], sources[i].Frontmatter != nil), DiagnosticSeverityError, codeCompile,
				fmt.Sprintf("Slide %d: %v", slide.No, cerr)))
		}
	}

	return diagnostics
}

// findLayoutValue locates the layout value in a slide's frontmatter.
func findLayoutValue(doc *Document, info deck.SourceInfo) (Range, bool) {
	for line := info.Start; line < info.End && line < doc.LineCount(); line++ {
		text := doc.Line(line)
		m := reLayoutLine.FindStringSubmatchIndex(text)
		if m == nil || m[2] == m[3] {
			continue
		}
		return Range{
			Start: Position{Line: uint32(line), Character: uint32(m[2])}, //nolint:gosec // G115: non-negative
			End:   Position{Line: uint32(line), Character: uint32(m[3])}, //nolint:gosec // G115: non-negative
		}, true
	}
	return Range{}, false
}

// contentLine returns the first non-blank line of a slide after its
// separator and frontmatter.
func contentLine(doc *Document, info deck.SourceInfo, hasFrontmatter bool) int {
	end := min(info.End, doc.LineCount())
	line := info.Start
	if line < end && isSeparator(doc.Line(line)) {
		line++
		if hasFrontmatter {
			for line < end && !isSeparator(doc.Line(line)) {
				line++
			}
			line++
		}
	}
	for ; line < end; line++ {
		if strings.TrimSpace(doc.Line(line)) != "" {
			return line
		}
	}
	return info.Start
}

func isSeparator(line string) bool {
	line = strings.TrimRight(line, " \t")
	return len(line) >= 3 && strings.Trim(line, "-") == ""
}

func diagnoseComponent(doc *Document) []Diagnostic {
	path := URIToPath(doc.URI)
	var diagnostics []Diagnostic

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if err := component.ValidateName(name); err != nil {
		diagnostics = append(diagnostics, lineDiagnostic(doc, 0, DiagnosticSeverityWarning, codeComponentName, err.Error()))
	}

	res := sfc.Compile(filepath.Base(path), doc.Content, sfc.CompileOptions{})
	for _, err := range res.Errors {
		var serr sfc.Error
		if errors.As(err, &serr) {
			pos := serr.Position()
			diagnostics = append(diagnostics, pointDiagnostic(doc, pos.Line-1, pos.Column-1, codeCompile, err.Error()))
			continue
		}
		diagnostics = append(diagnostics, lineDiagnostic(doc, 0, DiagnosticSeverityError, codeCompile, err.Error()))
	}
	return diagnostics
}

// diagnoseCSSConfig evaluates the unsaved configuration program.
func (s *Server) diagnoseCSSConfig(ctx context.Context, doc *Document) []Diagnostic {
	p := s.currentProject()
	engine := p.newConfigEngine(doc.Content, s.logger)
	err := engine.Init(ctx)
	if err == nil {
		return nil
	}

	var evalErr *lstar.EvalError
	if errors.As(err, &evalErr) && evalErr.Line > 0 {
		return []Diagnostic{pointDiagnostic(doc, evalErr.Line-1, evalErr.Col-1, codeCSSConfig, evalErr.Message)}
	}
	return []Diagnostic{lineDiagnostic(doc, 0, DiagnosticSeverityError, codeCSSConfig, err.Error())}
}

// lineDiagnostic covers a whole line.
func lineDiagnostic(doc *Document, line int, severity DiagnosticSeverity, code, message string) Diagnostic {
	return Diagnostic{
		Range:    lineRange(doc, line),
		Severity: severity,
		Code:     code,
		Source:   diagnosticSource,
		Message:  message,
	}
}

// pointDiagnostic is an error from a column to the end of its line.
func pointDiagnostic(doc *Document, line, col int, code, message string) Diagnostic {
	r := lineRange(doc, line)
	if col > 0 && uint32(col) < r.End.Character { //nolint:gosec // G115: checked positive
		r.Start.Character = uint32(col) //nolint:gosec // G115: checked positive
	}
	return Diagnostic{
		Range:    r,
		Severity: DiagnosticSeverityError,
		Code:     code,
		Source:   diagnosticSource,
		Message:  message,
	}
}

func lineRange(doc *Document, line int) Range {
	line = max(line, 0)
	if n := doc.LineCount(); line >= n {
		line = max(n-1, 0)
	}
	return Range{
		Start: Position{Line: uint32(line)},                                         //nolint:gosec // G115: non-negative
		End:   Position{Line: uint32(line), Character: uint32(len(doc.Line(line)))}, //nolint:gosec // G115: non-negative
	}
}
