package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapslides/internal/cli/output"
	intconfig "github.com/leapstack-labs/leapslides/internal/config"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var example bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new slide deck project",
		Long: `Initialize a new slide deck project with a starter deck and configuration.

This creates:
  - slides.md with two starter slides
  - leapslides.yaml configuration file

Use --example to create a full demo project with a custom component, a
custom layout, a CSS engine config with shortcuts and a custom stylesheet.`,
		Example: `  # Initialize in current directory
  leapslides init

  # Initialize with a full example
  leapslides init --example

  # Initialize in a new directory
  leapslides init my-talk --example

  # Force overwrite existing config
  leapslides init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfg := getConfig()
			mode := output.Mode(cfg.OutputFormat)
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

			if example {
				return runInitExample(r, dir, force)
			}
			return runInit(r, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	cmd.Flags().BoolVar(&example, "example", false, "Create a full example project with components, layouts and styles")

	return cmd
}

func prepareInitDir(dir string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, intconfig.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", intconfig.ConfigFileName)
	}
	return nil
}

func runInit(r *output.Renderer, dir string, force bool) error {
	if err := prepareInitDir(dir, force); err != nil {
		return err
	}

	if err := copyTemplate("minimal", dir, force); err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	files, _ := listTemplateFiles("minimal")
	for _, f := range files {
		r.StatusLine(f, "success", "")
	}

	r.Println("")
	r.Success("Slide deck initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Write your slides in slides.md")
	r.Println("  2. Run 'leapslides parse' to list the slides")
	r.Println("  3. Run 'leapslides render' to see the generated components")
	r.Println("  4. Run 'leapslides watch' to re-render on every change")

	return nil
}

func runInitExample(r *output.Renderer, dir string, force bool) error {
	if err := prepareInitDir(dir, force); err != nil {
		return err
	}

	if err := copyTemplate("example", dir, force); err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	files, _ := listTemplateFiles("example")
	groups := groupTemplateFiles(files)

	title := cases.Title(language.English)
	for i, group := range templateGroups {
		if i > 0 {
			r.Println("")
		}
		r.Header(2, title.String(group))
		for _, f := range groups[group] {
			r.StatusLine(f, "success", "")
		}
	}

	r.Println("")
	r.Success("Slide deck initialized with examples!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  leapslides parse     List slides, layouts and click steps")
	r.Println("  leapslides render    Print each slide's generated component")
	r.Println("  leapslides css       Generate each slide's stylesheet")
	r.Println("  leapslides doctor    Check the project for problems")

	return nil
}
