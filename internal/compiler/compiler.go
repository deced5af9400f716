// Package compiler turns slide markup into component source and runnable
// compile results.
package compiler

import (
	"fmt"

	"github.com/leapstack-labs/leapslides/internal/markdown"
	"github.com/leapstack-labs/leapslides/internal/sfc"
	"github.com/leapstack-labs/leapslides/internal/transform"
)

// Renderer renders markup to HTML. Markup is passed through unchanged; the
// default markdown parser applies NFC normalization itself.
type Renderer interface {
	Render(source string) (string, error)
}

// Options configures a Compiler.
type Options struct {
	// Markdown renders slide markup. Defaults to the standard markup parser.
	Markdown Renderer
	// Pipeline rewrites generated documents. Nil runs no transforms.
	Pipeline *transform.Pipeline
	// SFC is passed to the component compiler.
	SFC sfc.CompileOptions
}

// Compiler generates and compiles slide component sources.
type Compiler struct {
	md       Renderer
	pipeline *transform.Pipeline
	sfcOpts  sfc.CompileOptions
}

// New creates a compiler.
func New(opts Options) (*Compiler, error) {
	md := opts.Markdown
	if md == nil {
		p, err := markdown.New(markdown.DefaultOptions())
		if err != nil {
			return nil, err
		}
		md = p
	}
	return &Compiler{md: md, pipeline: opts.Pipeline, sfcOpts: opts.SFC}, nil
}

// Input is one slide to compile.
type Input struct {
	// ID is the slide identifier transforms route on.
	ID      string
	Content string
	// Pure treats Content as rendered markup and skips parsing.
	Pure bool
}

// Render returns the rendered markup of raw. In pure mode raw is returned
// as-is.
func (c *Compiler) Render(raw string, pure bool) (string, error) {
	if pure {
		return raw, nil
	}
	return c.md.Render(raw)
}

// Generate wraps the rendered markup in the slide document skeleton. Parser
// errors are returned unchanged.
func (c *Compiler) Generate(raw string, pure bool) (*sfc.Document, error) {
	html, err := c.Render(raw, pure)
	if err != nil {
		return nil, err
	}
	return sfc.NewDocument(html), nil
}

// GenerateSource is Generate serialized.
func (c *Compiler) GenerateSource(raw string, pure bool) (string, error) {
	doc, err := c.Generate(raw, pure)
	if err != nil {
		return "", err
	}
	return doc.String(), nil
}

// ComponentDocument generates the slide document and runs the pipeline on it.
func (c *Compiler) ComponentDocument(in Input) (*sfc.Document, error) {
	doc, err := c.Generate(in.Content, in.Pure)
	if err != nil {
		return nil, err
	}
	doc.File = in.ID
	if c.pipeline != nil {
		if err := c.pipeline.Run(doc, in.ID); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// ComponentSource returns the transformed component source of a slide.
func (c *Compiler) ComponentSource(in Input) (string, error) {
	doc, err := c.ComponentDocument(in)
	if err != nil {
		return "", err
	}
	return doc.String(), nil
}

// RunnableUnit compiles a slide down to component code and styles.
func (c *Compiler) RunnableUnit(in Input) *sfc.CompileResult {
	doc, err := c.ComponentDocument(in)
	if err != nil {
		return &sfc.CompileResult{Errors: []error{fmt.Errorf("%s: %w", in.ID, err)}}
	}
	return sfc.CompileDocument(doc, c.sfcOpts)
}
