// Package component loads inline-source components and layouts and
// registers them in a module context. Components are named after their
// file: Card.vue is the component Card.
package component

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Ext is the extension of component source files.
const Ext = ".vue"

// Source is one component's source code.
type Source struct {
	// Name is derived from the filename (e.g., "Card" from "Card.vue").
	Name string
	// Path is where the source was read from. Empty for sources supplied
	// in memory.
	Path string
	Code string
}

// Filename returns the name the source is compiled under.
func (s *Source) Filename() string {
	if s.Path != "" {
		return s.Path
	}
	return s.Name + Ext
}

// Loader scans a directory for component files.
type Loader struct {
	dir string
}

// NewLoader creates a new component loader for the specified directory.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Load reads every component file of the directory, sorted by name. A
// missing directory yields no components.
func (l *Loader) Load() ([]*Source, error) {
	info, err := os.Stat(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to access components directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("components path is not a directory: %s", l.dir)
	}
	return LoadFS(os.DirFS(l.dir), ".", l.dir)
}

// LoadFS reads the component files of dir in fsys. Paths of the returned
// sources are joined onto base.
func LoadFS(fsys fs.FS, dir, base string) ([]*Source, error) {
	files, err := fs.Glob(fsys, path.Join(dir, "*"+Ext))
	if err != nil {
		return nil, fmt.Errorf("failed to scan components directory: %w", err)
	}
	sort.Strings(files)

	sources := make([]*Source, 0, len(files))
	for _, file := range files {
		src, err := loadFile(fsys, file, filepath.Join(base, path.Base(file)))
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func loadFile(fsys fs.FS, file, display string) (*Source, error) {
	content, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, &LoadError{File: display, Message: fmt.Sprintf("failed to read file: %v", err)}
	}

	name := strings.TrimSuffix(path.Base(file), Ext)
	if err := ValidateName(name); err != nil {
		return nil, &LoadError{File: display, Message: err.Error()}
	}
	return &Source{Name: name, Path: display, Code: string(content)}, nil
}

// ValidateName checks that name can be used as a component or layout name.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("component name cannot be empty")
	}
	for i, r := range name {
		if i == 0 {
			if !isLetter(r) {
				return fmt.Errorf("component name must start with a letter: %s", name)
			}
		} else if !isLetter(r) && !isDigit(r) && r != '_' && r != '-' {
			return fmt.Errorf("component name contains invalid character: %s", name)
		}
	}
	return nil
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// LoadError represents an error loading a component file.
type LoadError struct {
	File    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.File, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
