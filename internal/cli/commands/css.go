package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leapslides/internal/cli/output"
	"github.com/leapstack-labs/leapslides/internal/slides"
)

// CSSOptions holds options for the css command.
type CSSOptions struct {
	Slides []int
	Layer  string // print one layer only
}

// NewCSSCommand creates the css command.
func NewCSSCommand() *cobra.Command {
	opts := &CSSOptions{}
	cmd := &cobra.Command{
		Use:   "css",
		Short: "Generate the atomic CSS of each slide",
		Long: `Generate the stylesheet of each slide from the utility classes its
rendered markup uses, the project's CSS configuration and custom CSS.

A configuration error is reported per slide; slides without one still
print their CSS.`,
		Example: `  # CSS for every slide
  leapslides css

  # Only the custom layer of slide 1
  leapslides css --slide 1 --layer slides

  # JSON with the matched utilities
  leapslides css --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCSS(cmd, opts)
		},
	}

	cmd.Flags().IntSliceVarP(&opts.Slides, "slide", "s", nil, "Slide numbers (repeatable)")
	cmd.Flags().StringVar(&opts.Layer, "layer", "", "Print only this layer")

	return cmd
}

func runCSS(cmd *cobra.Command, opts *CSSOptions) error {
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

	results := make([]output.CSSOutput, len(selected))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(cmdCtx.Cfg.Render.Concurrency)
	for i, s := range selected {
		g.Go(func() error {
			res, err := slideCSS(ctx, s, opts.Layer)
			results[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	r := cmdCtx.Renderer
	failed := 0
	for _, res := range results {
		if res.ConfigError != "" {
			failed++
		}
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		if err := r.JSON(results); err != nil {
			return err
		}
	default:
		for _, res := range results {
			r.Header(2, fmt.Sprintf("Slide %d", res.No))
			if res.ConfigError != "" {
				r.Error(res.ConfigError)
				continue
			}
			if res.Warning != "" {
				r.Warning(res.Warning)
			}
			r.Code("css", res.CSS)
			r.Println("")
		}
	}

	if failed > 0 {
		return fmt.Errorf("css configuration failed for %d slides", failed)
	}
	return nil
}

func slideCSS(ctx context.Context, s *slides.Slide, layer string) (output.CSSOutput, error) {
	res := output.CSSOutput{No: s.No}
	gen, err := s.CSS(ctx)
	if err != nil {
		return res, err
	}
	if gen.CustomCSSWarn != nil {
		res.Warning = gen.CustomCSSWarn.Error()
	}
	if gen.CustomConfigError != nil {
		res.ConfigError = gen.CustomConfigError.Error()
		return res, nil
	}
	res.Matched = gen.Output.Matched
	res.CSS = gen.Output.CSS
	if layer != "" {
		res.CSS = gen.Output.GetLayer(layer)
	}
	return res, nil
}
