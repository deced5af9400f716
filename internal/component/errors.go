package component

import (
	"fmt"
	"strings"
)

// RegistryError is returned when a component or layout cannot be
// registered.
type RegistryError struct {
	Kind string // "component", "inline component" or "layout"
	Name string
	Err  error
}

func (e *RegistryError) Error() string {
	return fmt.Sprintf("register %s %q: %v", e.Kind, e.Name, e.Err)
}

func (e *RegistryError) Unwrap() error {
	return e.Err
}

// CycleError reports inline components that import each other. Path
// starts and ends with the same component.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "component import cycle: " + strings.Join(e.Path, " -> ")
}
