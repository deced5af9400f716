package lsp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapslides/internal/deck"
	"github.com/leapstack-labs/leapslides/internal/uno"
)

func TestDiagnoseDeck(t *testing.T) {
	s, dir := newTestServer(t, projectFiles())

	tests := []struct {
		name     string
		content  string
		code     string
		severity DiagnosticSeverity
		line     uint32
	}{
		{
			name:    "valid deck",
			content: "# Hello\n\n<Card>hi</Card>\n\n---\nlayout: wide\n---\n\n# Wide\n",
		},
		{
			name:     "invalid headmatter",
			content:  "---\ntitle: [oops\n---\n\n# Hi\n",
			code:     codeFrontmatter,
			severity: DiagnosticSeverityError,
			line:     1,
		},
		{
			name:     "unknown layout",
			content:  "# One\n\n---\nlayout: centerd\n---\n\n# Two\n",
			code:     codeUnknownLayout,
			severity: DiagnosticSeverityWarning,
			line:     3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uri := openDoc(s, dir, "slides.md", tt.content)
			diags := s.diagnose(context.Background(), s.documents.Get(uri))
			if tt.code == "" {
				assert.Empty(t, diags)
				return
			}
			require.Len(t, diags, 1)
			assert.Equal(t, tt.code, diags[0].Code)
			assert.Equal(t, tt.severity, diags[0].Severity)
			assert.Equal(t, tt.line, diags[0].Range.Start.Line)
			assert.Equal(t, diagnosticSource, diags[0].Source)
		})
	}
}

func TestDiagnoseDeck_UnknownLayoutRange(t *testing.T) {
	s, dir := newTestServer(t, projectFiles())
	uri := openDoc(s, dir, "slides.md", "# One\n\n---\nlayout: \"centerd\"\n---\n\n# Two\n")

	diags := s.diagnose(context.Background(), s.documents.Get(uri))
	require.Len(t, diags, 1)
	assert.Equal(t, Range{
		Start: Position{Line: 3, Character: 9},
		End:   Position{Line: 3, Character: 16},
	}, diags[0].Range)
	assert.Contains(t, diags[0].Message, `"centerd"`)
}

func TestDiagnoseComponent(t *testing.T) {
	s, dir := newTestServer(t, projectFiles())

	t.Run("valid", func(t *testing.T) {
		uri := openDoc(s, dir, "components/Card.vue", cardComponent)
		assert.Empty(t, s.diagnose(context.Background(), s.documents.Get(uri)))
	})

	t.Run("invalid name", func(t *testing.T) {
		uri := openDoc(s, dir, "components/1card.vue", "<template><div /></template>")
		diags := s.diagnose(context.Background(), s.documents.Get(uri))
		require.Len(t, diags, 1)
		assert.Equal(t, codeComponentName, diags[0].Code)
		assert.Equal(t, DiagnosticSeverityWarning, diags[0].Severity)
	})

	t.Run("script error", func(t *testing.T) {
		uri := openDoc(s, dir, "components/Broken.vue", "<script setup>\nconst x = ;\n</script>\n\n<template><div /></template>\n")
		diags := s.diagnose(context.Background(), s.documents.Get(uri))
		require.NotEmpty(t, diags)
		assert.Equal(t, codeCompile, diags[0].Code)
		assert.Equal(t, DiagnosticSeverityError, diags[0].Severity)
	})
}

func TestDiagnoseCSSConfig(t *testing.T) {
	s, dir := newTestServer(t, projectFiles())

	uri := openDoc(s, dir, "uno.config.star", uno.DefaultConfigSource)
	assert.Empty(t, s.diagnose(context.Background(), s.documents.Get(uri)))

	s.documents.Update(uri, "x = (\n", 2)
	diags := s.diagnose(context.Background(), s.documents.Get(uri))
	require.Len(t, diags, 1)
	assert.Equal(t, codeCSSConfig, diags[0].Code)
	assert.Equal(t, DiagnosticSeverityError, diags[0].Severity)
}

func TestDiagnose_OtherFiles(t *testing.T) {
	s, dir := newTestServer(t, projectFiles())
	uri := openDoc(s, dir, "notes.txt", "---\nlayout: nope\n---\n")
	assert.Nil(t, s.diagnose(context.Background(), s.documents.Get(uri)))
}

func TestContentLine(t *testing.T) {
	doc := newDoc("---\ntitle: A\n---\n\n# A\n\n---\n\n# B\n")
	tests := []struct {
		start, end     int
		hasFrontmatter bool
		want           int
	}{
		{0, 6, true, 4},
		{6, 10, false, 8},
	}
	for _, tt := range tests {
		got := contentLine(doc, deck.SourceInfo{Start: tt.start, End: tt.end}, tt.hasFrontmatter)
		if got != tt.want {
			t.Errorf("contentLine(%d..%d) = %d, want %d", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestLineRange(t *testing.T) {
	doc := newDoc("abc\nde")
	tests := []struct {
		line int
		want Range
	}{
		{0, Range{Start: Position{Line: 0}, End: Position{Line: 0, Character: 3}}},
		{1, Range{Start: Position{Line: 1}, End: Position{Line: 1, Character: 2}}},
		{9, Range{Start: Position{Line: 1}, End: Position{Line: 1, Character: 2}}},
		{-1, Range{Start: Position{Line: 0}, End: Position{Line: 0, Character: 3}}},
	}
	for _, tt := range tests {
		if got := lineRange(doc, tt.line); got != tt.want {
			t.Errorf("lineRange(%d) = %+v, want %+v", tt.line, got, tt.want)
		}
	}
}
