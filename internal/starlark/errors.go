package starlark

import (
	"errors"
	"fmt"

	"go.starlark.net/resolve"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// EvalError represents an error while executing configuration source.
type EvalError struct {
	File    string
	Line    int
	Col     int
	Message string
	cause   error
}

func (e *EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Col, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

func (e *EvalError) Unwrap() error {
	return e.cause
}

// LoadError is returned when an import specifier cannot be resolved.
type LoadError struct {
	Specifier string
	Err       error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %q: %v", e.Specifier, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// FetchError reports a non-success response from the module origin.
type FetchError struct {
	URL        string
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
}

// ErrLoadCycle is returned when remote modules import each other.
var ErrLoadCycle = errors.New("import cycle")

func wrapEvalError(file string, err error) error {
	var evalErr *starlark.EvalError
	if errors.As(err, &evalErr) {
		e := &EvalError{File: file, Message: evalErr.Msg, cause: err}
		if len(evalErr.CallStack) > 0 {
			pos := evalErr.CallStack.At(0).Pos
			e.Line, e.Col = int(pos.Line), int(pos.Col)
		}
		return e
	}

	var synErr syntax.Error
	if errors.As(err, &synErr) {
		return &EvalError{File: file, Line: int(synErr.Pos.Line), Col: int(synErr.Pos.Col), Message: synErr.Msg, cause: err}
	}

	var resolveErrs resolve.ErrorList
	if errors.As(err, &resolveErrs) && len(resolveErrs) > 0 {
		first := resolveErrs[0]
		return &EvalError{File: file, Line: int(first.Pos.Line), Col: int(first.Pos.Col), Message: first.Msg, cause: err}
	}

	return &EvalError{File: file, Message: err.Error(), cause: err}
}
