package slides

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapslides/internal/compiler"
	"github.com/leapstack-labs/leapslides/internal/deck"
	"github.com/leapstack-labs/leapslides/internal/memo"
	"github.com/leapstack-labs/leapslides/internal/module"
	"github.com/leapstack-labs/leapslides/internal/sfc"
	"github.com/leapstack-labs/leapslides/internal/uno"
)

// Meta is the metadata of one slide.
type Meta struct {
	No          int            `json:"no"`
	Index       int            `json:"index"`
	Filepath    string         `json:"filepath"`
	Title       string         `json:"title,omitempty"`
	Frontmatter map[string]any `json:"frontmatter"`
	Content     string         `json:"content"`
	Note        string         `json:"note,omitempty"`
	NoteHTML    string         `json:"noteHTML,omitempty"`
	// Clicks is the number of click steps marked in the note.
	Clicks int `json:"clicks"`
}

// Slide is one slide of a rendered deck. Load and CSS compute their result
// once; concurrent callers share it.
type Slide struct {
	No        int
	Meta      Meta
	Component *AsyncComponent

	r        *Renderer
	info     deck.SlideInfo
	infos    []deck.SlideInfo
	compiler *compiler.Compiler

	loaded *memo.Group[*module.Module]
	css    *memo.Group[*uno.GenerateOutput]
}

// CompileError reports a slide that did not compile.
type CompileError struct {
	No     int
	Errors []error
}

func (e *CompileError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("slide %d: %v", e.No, module.ErrNoComponentCode)
	}
	return fmt.Sprintf("slide %d: %v", e.No, errors.Join(e.Errors...))
}

func (e *CompileError) Unwrap() []error {
	return e.Errors
}

func (r *Renderer) newSlide(info deck.SlideInfo, infos []deck.SlideInfo, comp *compiler.Compiler) *Slide {
	s := &Slide{
		No:       info.Index + 1,
		r:        r,
		info:     info,
		infos:    infos,
		compiler: comp,
		loaded:   memo.New[*module.Module](memo.RetryErrors),
		css:      memo.New[*uno.GenerateOutput](memo.RetryErrors),
	}

	noteHTML, clicks, err := r.md.RenderNote(info.Note)
	if err != nil {
		r.logger.Warn("failed to render note", "slide", s.No, "error", err)
	}
	s.Meta = Meta{
		No:          s.No,
		Index:       info.Index,
		Filepath:    info.Source.Filepath,
		Title:       info.Title,
		Frontmatter: info.Frontmatter,
		Content:     info.Content,
		Note:        info.Note,
		NoteHTML:    noteHTML,
		Clicks:      clicks,
	}
	s.Component = &AsyncComponent{
		load:      s.Load,
		delay:     r.delay,
		loading:   r.loading,
		errorView: r.errorView,
		onError: func(err error) {
			r.logger.Error("failed to load slide", "slide", s.No, "error", err)
		},
	}
	return s
}

// Load compiles the slide and links it against the module context. The
// module's default export is the linked *module.Unit. A successful load is
// kept; a failed one is retried by the next call.
func (s *Slide) Load(ctx context.Context) (*module.Module, error) {
	return s.loaded.Do(ctx, "load", func(ctx context.Context) (*module.Module, error) {
		res := s.Compile()
		if res.Failed() || strings.TrimSpace(res.ComponentCode) == "" {
			err := &CompileError{No: s.No, Errors: res.Errors}
			s.r.logger.Error("failed to compile slide", "slide", s.No, "error", err)
			return nil, err
		}
		mod, err := s.r.modules.Evaluate(res, s.info.ID)(ctx)
		if err != nil {
			return nil, fmt.Errorf("slide %d: %w", s.No, err)
		}
		return mod, nil
	})
}

// Source returns the transformed component source of the slide.
func (s *Slide) Source() (string, error) {
	return s.compiler.ComponentSource(s.input())
}

// Compile compiles the slide into a runnable unit without linking it.
func (s *Slide) Compile() *sfc.CompileResult {
	return s.compiler.RunnableUnit(s.input())
}

// Layout returns the layout name the slide asks for, or the default.
// Names that are not registered fall back when the slide is compiled.
func (s *Slide) Layout() string {
	if name := deck.ResolveLayout(s.infos, s.info.Index); name != "" {
		return name
	}
	return deck.DefaultLayout
}

// CSS generates the slide's stylesheet from its rendered markup. The deck's
// custom CSS and the slide's `css` frontmatter are emitted in the custom
// layer. Configuration errors are reported in the output.
func (s *Slide) CSS(ctx context.Context) (*uno.GenerateOutput, error) {
	return s.css.Do(ctx, "css", func(ctx context.Context) (*uno.GenerateOutput, error) {
		markup, err := s.compiler.Render(s.info.Content, s.pure())
		if err != nil {
			return nil, fmt.Errorf("slide %d: %w", s.No, err)
		}
		return s.r.engine.Generate(ctx, uno.GenerateOptions{
			Markup:    markup,
			CustomCSS: s.customCSS(),
		}), nil
	})
}

func (s *Slide) input() compiler.Input {
	return compiler.Input{ID: s.info.ID, Content: s.info.Content, Pure: s.pure()}
}

func (s *Slide) pure() bool {
	pure, _ := s.info.Frontmatter["pureHTML"].(bool)
	return pure
}

func (s *Slide) customCSS() string {
	var parts []string
	if s.r.customCSS != "" {
		parts = append(parts, s.r.customCSS)
	}
	if css, ok := s.info.Frontmatter["css"].(string); ok && css != "" {
		parts = append(parts, css)
	}
	return strings.Join(parts, "\n")
}
