package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapslides/internal/cli/output"
)

// NewLayoutsCommand creates the layouts command.
func NewLayoutsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layouts",
		Short: "List registered layouts and components",
		Long: `List the layouts slides can name in their frontmatter (built-in layouts
and those in the layouts directory) and the components slides can use.`,
		Example: `  leapslides layouts
  leapslides layouts --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLayouts(cmd)
		},
	}
	return cmd
}

func runLayouts(cmd *cobra.Command) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	out := output.LayoutsOutput{
		Layouts:    cmdCtx.Deck.Layouts(),
		Components: cmdCtx.Deck.Components(),
	}
	if out.Components == nil {
		out.Components = []string{}
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(out)
	}

	rows := make([][]string, 0, len(out.Layouts)+len(out.Components))
	for _, name := range out.Layouts {
		rows = append(rows, []string{name, "layout"})
	}
	for _, name := range out.Components {
		rows = append(rows, []string{name, "component"})
	}
	r.Table([]string{"Name", "Kind"}, rows)
	return nil
}
