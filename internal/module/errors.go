package module

import (
	"errors"
	"fmt"
)

var (
	// ErrDisposed is returned by a context after Dispose.
	ErrDisposed = errors.New("module context disposed")
	// ErrUnknownSpecifier is returned for specifiers with no registered factory.
	ErrUnknownSpecifier = errors.New("unknown module specifier")
)

// ResolveError reports a failed resolution of one specifier.
type ResolveError struct {
	Specifier string
	Label     string
	Err       error
}

func (e *ResolveError) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("%s: resolve %q: %v", e.Label, e.Specifier, e.Err)
	}
	return fmt.Sprintf("resolve %q: %v", e.Specifier, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// RegistryError is returned when a specifier is registered twice.
type RegistryError struct {
	Specifier string
}

func (e *RegistryError) Error() string {
	return fmt.Sprintf("module %q is already registered", e.Specifier)
}
