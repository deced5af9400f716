package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapslides/internal/cli/output"
	"github.com/leapstack-labs/leapslides/internal/uno"
)

// HintOptions holds options for the hint command.
type HintOptions struct {
	Cursor int
}

// NewHintCommand creates the hint command.
func NewHintCommand() *cobra.Command {
	opts := &HintOptions{}
	cmd := &cobra.Command{
		Use:   "hint <text>",
		Short: "Suggest utility classes for a partial class list",
		Long: `Suggest utility classes completing the token under the cursor.

The project's CSS config is evaluated first, so shortcuts, rules and
theme values it defines are suggested too. The cursor defaults to the
end of the text.`,
		Example: `  # Complete the last token
  leapslides hint "flex text-re"

  # Complete the token at byte offset 4
  leapslides hint "p-4 bg-" --cursor 7`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHint(cmd, args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.Cursor, "cursor", -1, "Byte offset of the cursor (default: end of text)")

	return cmd
}

func runHint(cmd *cobra.Command, text string, opts *HintOptions) error {
	cmdCtx := NewCommandContextWithoutDeck(cmd)
	r := cmdCtx.Renderer

	cursor := opts.Cursor
	if cursor < 0 || cursor > len(text) {
		cursor = len(text)
	}

	engine, err := newEngine(&cmdCtx.Cfg.ProjectConfig, cmdCtx.Logger)
	if err != nil {
		return err
	}
	if err := engine.Init(cmd.Context()); err != nil {
		return fmt.Errorf("failed to evaluate css config: %w", err)
	}

	hint, err := engine.Hint(text, cursor)
	if err != nil {
		return err
	}
	if hint == nil {
		hint = &uno.Hint{Start: cursor, End: cursor}
	}
	if hint.Suggestions == nil {
		hint.Suggestions = []uno.Suggestion{}
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(hint)
	}

	if len(hint.Suggestions) == 0 {
		r.Muted(fmt.Sprintf("no suggestions for %q", text[hint.Start:hint.End]))
		return nil
	}
	rows := make([][]string, len(hint.Suggestions))
	for i, s := range hint.Suggestions {
		rows[i] = []string{s.Value, s.Label}
	}
	r.Table([]string{"Class", "Label"}, rows)
	return nil
}
