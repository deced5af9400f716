package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapslides/internal/cli/output"
	"github.com/leapstack-labs/leapslides/internal/slides"
)

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "parse",
		Aliases: []string{"list"},
		Short:   "List the slides of the deck",
		Long: `Split the deck into slides and list each slide's number, title, layout,
frontmatter keys and click steps.

Output adapts to environment:
  - Terminal: Table
  - Piped/Scripted: Markdown table
  - JSON: Slide metadata including frontmatter and rendered notes`,
		Example: `  # List slides
  leapslides parse

  # Slide metadata as JSON
  leapslides parse --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runParse(cmd)
		},
	}

	return cmd
}

func runParse(cmd *cobra.Command) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	deck, err := cmdCtx.LoadDeck(cmd)
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		metas := make([]slides.Meta, len(deck))
		for i, s := range deck {
			metas[i] = s.Meta
		}
		return r.JSON(metas)
	}

	r.Header(1, fmt.Sprintf("Slides (%d total)", len(deck)))
	rows := make([][]string, len(deck))
	for i, s := range deck {
		rows[i] = []string{
			fmt.Sprintf("%d", s.No),
			s.Meta.Title,
			s.Layout(),
			strings.Join(frontmatterKeys(s.Meta.Frontmatter), ", "),
			fmt.Sprintf("%d", s.Meta.Clicks),
		}
	}
	r.Table([]string{"No", "Title", "Layout", "Frontmatter", "Clicks"}, rows)
	return nil
}

func frontmatterKeys(fm map[string]any) []string {
	keys := make([]string, 0, len(fm))
	for k := range fm {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
