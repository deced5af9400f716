// Package transform rewrites generated slide documents before they are
// compiled: it wraps the body in its layout and injects component and
// built-in imports into the setup block.
package transform

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/leapslides/internal/sfc"
)

// ErrNoSetupBlock is returned when a slide document has no setup block.
var ErrNoSetupBlock = errors.New("<script setup> block not found")

// Transform is one step of the pipeline. A step that does not apply to the
// document returns nil and leaves it untouched.
type Transform interface {
	Name() string
	Transform(doc *sfc.Document, id string) error
}

// Pipeline runs transforms in order.
type Pipeline struct {
	steps []Transform
}

// NewPipeline creates a pipeline.
func NewPipeline(steps ...Transform) *Pipeline {
	return &Pipeline{steps: steps}
}

// Steps returns the step names in order.
func (p *Pipeline) Steps() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name()
	}
	return names
}

// Run applies every step to doc. The first failing step stops the run.
func (p *Pipeline) Run(doc *sfc.Document, id string) error {
	for _, s := range p.steps {
		if err := s.Transform(doc, id); err != nil {
			return fmt.Errorf("%s: %w", s.Name(), err)
		}
	}
	return nil
}
