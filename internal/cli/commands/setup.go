package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapslides/internal/cli/config"
	"github.com/leapstack-labs/leapslides/internal/cli/output"
	intconfig "github.com/leapstack-labs/leapslides/internal/config"
	"github.com/leapstack-labs/leapslides/internal/project"
	"github.com/leapstack-labs/leapslides/internal/slides"
	"github.com/leapstack-labs/leapslides/internal/uno"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	// Deck renders the project's slides. It is nil for commands created
	// with NewCommandContextWithoutDeck.
	Deck *slides.Renderer
}

// NewCommandContext creates a CommandContext with a slide renderer.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	deck, err := createDeckRenderer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	cleanup := func() {
		_ = deck.Close()
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
		Deck:     deck,
	}, cleanup, nil
}

// NewCommandContextWithoutDeck creates a CommandContext without a slide
// renderer. Useful for commands that do not compile slides.
func NewCommandContextWithoutDeck(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// LoadDeck reads, parses and renders the project's deck.
func (c *CommandContext) LoadDeck(cmd *cobra.Command) ([]*slides.Slide, error) {
	if err := c.Cfg.ValidateDeck(); err != nil {
		return nil, err
	}
	return project.LoadDeck(cmd.Context(), c.Deck, c.Cfg.Deck)
}

// getConfig returns the current configuration, loading it from the
// working directory when no command has loaded it yet.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	if cfg, err := config.LoadConfig("", nil); err == nil {
		return cfg
	}

	var cfg config.Config
	intconfig.ApplyDefaults(&cfg.ProjectConfig)
	cfg.OutputFormat = config.DefaultOutput
	cfg.Watch.Debounce = config.DefaultDebounce
	return &cfg
}

// newEngine creates a CSS engine for the project configuration.
func newEngine(cfg *intconfig.ProjectConfig, logger *slog.Logger) (*uno.Engine, error) {
	return project.NewEngine(cfg, logger)
}

func createDeckRenderer(cfg *config.Config, logger *slog.Logger) (*slides.Renderer, error) {
	return project.NewRenderer(&cfg.ProjectConfig, logger)
}
