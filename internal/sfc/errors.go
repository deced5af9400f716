package sfc

import (
	"errors"
	"fmt"
)

// Error is the interface for position-aware component source errors.
type Error interface {
	error
	Position() Position
}

type baseError struct {
	pos Position
	msg string
}

func (e *baseError) Position() Position { return e.pos }
func (e *baseError) Error() string {
	if e.pos.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.pos.File, e.pos.Line, e.pos.Column, e.msg)
	}
	return fmt.Sprintf("%d:%d: %s", e.pos.Line, e.pos.Column, e.msg)
}

// LexError is returned when block boundaries cannot be found.
type LexError struct {
	baseError
}

// NewLexError creates a new lexer error.
func NewLexError(pos Position, msg string) *LexError {
	return &LexError{baseError: baseError{pos: pos, msg: msg}}
}

// ParseError is returned for structurally invalid documents.
type ParseError struct {
	baseError
}

// NewParseErrorf creates a new parser error with formatting.
func NewParseErrorf(pos Position, format string, args ...any) *ParseError {
	return &ParseError{baseError: baseError{pos: pos, msg: fmt.Sprintf(format, args...)}}
}

// CompileError is a diagnostic reported while transforming script or style code.
type CompileError struct {
	baseError
	LineText string
}

// NewCompileError creates a compile diagnostic.
func NewCompileError(pos Position, msg, lineText string) *CompileError {
	return &CompileError{baseError: baseError{pos: pos, msg: msg}, LineText: lineText}
}

// ErrEmptyComponent is returned when a source has neither template nor script.
var ErrEmptyComponent = errors.New("component has no template or script block")
