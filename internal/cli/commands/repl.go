package commands

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapslides/internal/cli/output"
	"github.com/leapstack-labs/leapslides/internal/uno"
)

const replPrompt = "uno> "

// NewReplCommand creates the repl command.
func NewReplCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactively generate CSS for utility classes",
		Long: `Start an interactive session with the project's CSS engine.

Each line is a list of classes; the CSS generated for an element carrying
them is printed. Tab completes the class under the cursor.`,
		Example: `  leapslides repl`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRepl(cmd)
		},
	}
	return cmd
}

func runRepl(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cmdCtx := NewCommandContextWithoutDeck(cmd)

	engine, err := newEngine(&cmdCtx.Cfg.ProjectConfig, cmdCtx.Logger)
	if err != nil {
		return err
	}
	if err := engine.Init(ctx); err != nil {
		return fmt.Errorf("failed to evaluate css config: %w", err)
	}

	historyDir := filepath.Join(cmdCtx.Cfg.ProjectRoot, ".leapslides")
	historyFile := ""
	if err := os.MkdirAll(historyDir, 0750); err == nil {
		historyFile = filepath.Join(historyDir, "repl_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    &classCompleter{engine: engine},
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "leapslides CSS REPL")
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	session := &replSession{engine: engine, r: cmdCtx.Renderer}
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		if quit := session.handle(ctx, line); quit {
			break
		}
	}

	return nil
}

// replSession evaluates REPL lines against an initialized engine.
type replSession struct {
	engine *uno.Engine
	r      *output.Renderer
	layer  string
}

// handle evaluates one line and reports whether the session should end.
func (s *replSession) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if strings.HasPrefix(line, ".") {
		return s.dotCommand(line)
	}

	out := s.engine.Generate(ctx, uno.GenerateOptions{
		Markup: fmt.Sprintf(`<div class="%s"></div>`, html.EscapeString(line)),
	})
	if out.CustomConfigError != nil {
		s.r.Error(out.CustomConfigError.Error())
		return false
	}

	if len(out.Output.Matched) == 0 {
		s.r.Warning(fmt.Sprintf("no rule matched %q", line))
		return false
	}

	css := out.Output.CSS
	if s.layer != "" {
		css = out.Output.GetLayer(s.layer)
	}
	s.r.Println(css)
	return false
}

func (s *replSession) dotCommand(line string) bool {
	parts := strings.Fields(line)
	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit":
		return true
	case ".help":
		printREPLHelp(s.r.Writer())
	case ".layer":
		if len(parts) < 2 {
			s.layer = ""
			s.r.Muted("printing all layers")
			return false
		}
		s.layer = parts[1]
		s.r.Muted(fmt.Sprintf("printing layer %q", s.layer))
	case ".clear":
		s.r.Printf("\033[H\033[2J")
	default:
		s.r.Error(fmt.Sprintf("Unknown command: %s (type .help for commands)", parts[0]))
	}
	return false
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .layer [name]   Print only one layer (no name: all layers)
  .clear          Clear the screen
  .quit / .exit   Exit the REPL

Tips:
  - Enter a space separated list of classes, e.g. "p-4 text-red-500"
  - Variant groups work: "hover:(bg-gray-200 shadow)"
  - Tab completion suggests classes from the CSS config
`
	_, _ = fmt.Fprintln(w, help)
}

// classCompleter completes the class under the cursor with the engine's
// suggestions. Only suggestions extending the typed prefix are offered.
type classCompleter struct {
	engine *uno.Engine
}

// Do implements readline.AutoCompleter.
func (c *classCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])
	if strings.HasPrefix(strings.TrimSpace(text), ".") {
		return completeDotCommand(strings.TrimSpace(text))
	}

	hint, err := c.engine.Hint(text, len(text))
	if err != nil || hint == nil || hint.Start > len(text) {
		return nil, 0
	}
	prefix := text[hint.Start:len(text)]

	var out [][]rune
	for _, s := range hint.Suggestions {
		if rest, ok := strings.CutPrefix(s.Value, prefix); ok && rest != "" {
			out = append(out, []rune(rest+" "))
		}
	}
	return out, len([]rune(prefix))
}

var dotCommands = []string{".help", ".layer", ".clear", ".quit", ".exit"}

func completeDotCommand(prefix string) ([][]rune, int) {
	var out [][]rune
	for _, c := range dotCommands {
		if rest, ok := strings.CutPrefix(c, prefix); ok {
			out = append(out, []rune(rest))
		}
	}
	return out, len([]rune(prefix))
}
