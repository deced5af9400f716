package lsp

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/leapstack-labs/leapslides/internal/component"
	"github.com/leapstack-labs/leapslides/internal/config"
	"github.com/leapstack-labs/leapslides/internal/project"
	"github.com/leapstack-labs/leapslides/internal/slides"
	lstar "github.com/leapstack-labs/leapslides/internal/starlark"
	"github.com/leapstack-labs/leapslides/internal/uno"
)

// projectState is what the server knows about the project on disk.
type projectState struct {
	root       string
	cfg        *config.ProjectConfig
	configFile string
	hasConfig  bool

	renderer *slides.Renderer
	fetcher  lstar.Fetcher

	// Component and layout sources by name. Built-in layouts have no path.
	components  map[string]string
	layoutPaths map[string]string
	layoutNames []string

	// Problems found while loading, shown once the client is initialized.
	warnings []string
}

// loadProject loads the project rooted at root. It never fails: problems
// are recorded as warnings and the parts that loaded are used.
func loadProject(ctx context.Context, root string, logger *slog.Logger) *projectState {
	p := &projectState{
		root:        root,
		components:  make(map[string]string),
		layoutPaths: make(map[string]string),
	}

	cfg, err := config.LoadFromDir(root)
	if err != nil {
		p.warnings = append(p.warnings, fmt.Sprintf("Failed to load project config: %v", err))
	}
	if cfg != nil {
		p.hasConfig = true
		p.configFile = config.FindConfigFile(root)
	} else {
		cfg = &config.ProjectConfig{}
		config.ApplyDefaults(cfg)
		cfg.ResolvePaths(root)
	}
	p.cfg = cfg
	p.fetcher = lstar.NewHTTPFetcher(cfg.CSS.FetchRate, cfg.CSS.FetchBurst)

	r, err := project.NewRenderer(cfg, logger)
	if err != nil {
		p.warnings = append(p.warnings, fmt.Sprintf("Failed to load project: %v", err))
		r, err = slides.New(slides.Config{Logger: logger})
		if err != nil {
			logger.Error("Failed to create fallback renderer", "error", err)
		}
	}
	p.renderer = r

	if r != nil {
		if err := r.Engine().Init(ctx); err != nil {
			p.warnings = append(p.warnings, fmt.Sprintf("CSS config failed to evaluate: %v", err))
		}
		p.layoutNames = r.Layouts()
	}

	if sources, err := component.NewLoader(cfg.ComponentsDir).Load(); err == nil {
		for _, src := range sources {
			p.components[src.Name] = src.Path
		}
	}
	if sources, err := component.NewLoader(cfg.LayoutsDir).Load(); err == nil {
		for _, src := range sources {
			p.layoutPaths[src.Name] = src.Path
		}
	}

	return p
}

func (p *projectState) engine() *uno.Engine {
	if p.renderer == nil {
		return nil
	}
	return p.renderer.Engine()
}

// componentNames returns the project's component names, sorted.
func (p *projectState) componentNames() []string {
	names := make([]string, 0, len(p.components))
	for name := range p.components {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (p *projectState) hasLayout(name string) bool {
	return slices.Contains(p.layoutNames, name)
}

// affects reports whether saving path changes the loaded project.
func (p *projectState) affects(path string) bool {
	switch filepath.Base(path) {
	case config.ConfigFileName, config.ConfigFileNameAlt:
		return true
	}
	if filepath.Ext(path) == ".star" || path == p.cfg.CSS.ConfigFile || path == p.cfg.CSS.CustomCSS {
		return true
	}
	return within(path, p.cfg.ComponentsDir) || within(path, p.cfg.LayoutsDir)
}

// newConfigEngine creates an engine for an unsaved configuration program.
func (p *projectState) newConfigEngine(source string, logger *slog.Logger) *uno.Engine {
	return uno.NewEngine(uno.EngineConfig{
		ConfigSource: source,
		LayerName:    p.cfg.CSS.LayerName,
		Fetcher:      p.fetcher,
		CDN:          p.cfg.CSS.CDN,
		Logger:       logger,
	})
}

func (p *projectState) close() {
	if p.renderer != nil {
		_ = p.renderer.Close()
	}
}

func within(path, dir string) bool {
	if dir == "" {
		return false
	}
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != "." && !strings.HasPrefix(rel, "..")
}
