package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leapslides/internal/cli/output"
	"github.com/leapstack-labs/leapslides/internal/slides"
)

// RenderOptions holds options for the render command.
type RenderOptions struct {
	Slides   []int // 1-based slide numbers; empty selects all
	Runnable bool  // print compiled code instead of component source
	Link     bool  // also resolve every import of the compiled slide
}

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	opts := &RenderOptions{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render slides to component source",
		Long: `Render each slide of the deck to its component source, with the layout,
component and built-in imports injected.

With --runnable the component source is compiled and the runnable unit is
printed instead. With --link the compiled slide is also linked against the
module registry, which loads every layout and component it imports.

Slides are rendered concurrently; a failing slide does not stop the others.

Output adapts to environment:
  - Terminal: Plain source per slide
  - Piped/Scripted: Markdown with code blocks
  - JSON: Machine-readable format`,
		Example: `  # Render every slide
  leapslides render

  # Render slides 2 and 3 as runnable units
  leapslides render --slide 2 --slide 3 --runnable

  # Check that every slide links
  leapslides render --link --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, opts)
		},
	}

	cmd.Flags().IntSliceVarP(&opts.Slides, "slide", "s", nil, "Slide numbers to render (repeatable)")
	cmd.Flags().BoolVar(&opts.Runnable, "runnable", false, "Print the compiled runnable unit")
	cmd.Flags().BoolVar(&opts.Link, "link", false, "Link each slide against the module registry")

	return cmd
}

func runRender(cmd *cobra.Command, opts *RenderOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	all, err := cmdCtx.LoadDeck(cmd)
	if err != nil {
		return err
	}
	selected, err := selectSlides(all, opts.Slides)
	if err != nil {
		return err
	}

	results := make([]output.SlideOutput, len(selected))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(cmdCtx.Cfg.Render.Concurrency)
	for i, s := range selected {
		g.Go(func() error {
			results[i] = renderSlide(ctx, s, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := output.RenderOutput{Slides: results}
	for _, res := range results {
		if res.Error != "" {
			out.Failed++
		}
	}

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		if err := r.JSON(out); err != nil {
			return err
		}
	default:
		lang := "vue"
		if opts.Runnable {
			lang = "js"
		}
		for _, res := range out.Slides {
			r.Header(2, slideHeading(res.No, res.Title))
			if res.Error != "" {
				r.Error(fmt.Sprintf("slide %d: %s", res.No, res.Error))
				continue
			}
			if opts.Runnable {
				r.Code(lang, res.Code)
			} else {
				r.Code(lang, res.Source)
			}
			r.Println("")
		}
	}

	if out.Failed > 0 {
		return fmt.Errorf("%d of %d slides failed", out.Failed, len(out.Slides))
	}
	return nil
}

func renderSlide(ctx context.Context, s *slides.Slide, opts *RenderOptions) output.SlideOutput {
	res := output.SlideOutput{
		No:          s.No,
		ID:          s.Meta.Filepath,
		Title:       s.Meta.Title,
		Layout:      s.Layout(),
		Clicks:      s.Meta.Clicks,
		Frontmatter: s.Meta.Frontmatter,
	}

	if opts.Runnable {
		compiled := s.Compile()
		if compiled.Failed() || strings.TrimSpace(compiled.ComponentCode) == "" {
			res.Error = joinErrors(compiled.Errors)
			return res
		}
		res.Code = compiled.ComponentCode
	} else {
		src, err := s.Source()
		if err != nil {
			res.Error = err.Error()
			return res
		}
		res.Source = src
	}

	if opts.Link {
		if _, err := s.Load(ctx); err != nil {
			res.Error = err.Error()
		}
	}
	return res
}

// selectSlides picks slides by 1-based number, keeping the requested order.
func selectSlides(all []*slides.Slide, nos []int) ([]*slides.Slide, error) {
	if len(nos) == 0 {
		return all, nil
	}
	selected := make([]*slides.Slide, 0, len(nos))
	for _, no := range nos {
		if no < 1 || no > len(all) {
			return nil, fmt.Errorf("slide %d out of range (deck has %d slides)", no, len(all))
		}
		selected = append(selected, all[no-1])
	}
	return selected, nil
}

func slideHeading(no int, title string) string {
	if title == "" {
		return fmt.Sprintf("Slide %d", no)
	}
	return fmt.Sprintf("Slide %d: %s", no, title)
}

func joinErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	if len(msgs) == 0 {
		return "no component code"
	}
	return strings.Join(msgs, "; ")
}
