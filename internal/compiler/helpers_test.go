package compiler

import (
	"errors"

	"github.com/leapstack-labs/leapslides/internal/sfc"
)

type failingStep struct{}

func (failingStep) Name() string                          { return "failing" }
func (failingStep) Transform(*sfc.Document, string) error { return errors.New("nope") }
