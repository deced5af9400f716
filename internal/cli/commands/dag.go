package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapslides/internal/cli/output"
	"github.com/leapstack-labs/leapslides/internal/component"
	intconfig "github.com/leapstack-labs/leapslides/internal/config"
)

// layoutPrefix marks layout nodes so they never collide with a component
// of the same name.
const layoutPrefix = "layout:"

// GraphQuerier provides read-only access to the import graph.
type GraphQuerier interface {
	Dependencies(string) []string
	Dependents(string) []string
	NodeCount() int
	EdgeCount() int
}

// NewDAGCommand creates the dag command.
func NewDAGCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dag",
		Short: "Show the component import graph",
		Long: `Display the import graph of the project's components and layouts.

Components are grouped by depth: level 0 imports no other component,
level N imports at least one component of level N-1. Layouts are shown
with a "layout:" prefix.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format (agent-friendly)`,
		Example: `  # Show the graph
  leapslides dag

  # Output as JSON
  leapslides dag --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDAG(cmd)
		},
	}

	return cmd
}

func runDAG(cmd *cobra.Command) error {
	cmdCtx := NewCommandContextWithoutDeck(cmd)
	r := cmdCtx.Renderer

	sources, err := projectSources(&cmdCtx.Cfg.ProjectConfig)
	if err != nil {
		return err
	}

	graph, err := component.Graph(sources)
	if err != nil {
		return fmt.Errorf("failed to build import graph: %w", err)
	}
	levels, err := graph.Levels()
	if err != nil {
		return fmt.Errorf("failed to get graph levels: %w", err)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return dagJSON(r, graph, levels)
	case output.ModeMarkdown:
		return dagMarkdown(r, graph, levels)
	default:
		return dagText(r, graph, levels)
	}
}

// projectSources loads the components and layouts of the project. Layout
// names carry layoutPrefix.
func projectSources(cfg *intconfig.ProjectConfig) ([]*component.Source, error) {
	components, err := component.NewLoader(cfg.ComponentsDir).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load components: %w", err)
	}
	layouts, err := component.NewLoader(cfg.LayoutsDir).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load layouts: %w", err)
	}

	sources := make([]*component.Source, 0, len(components)+len(layouts))
	sources = append(sources, components...)
	for _, l := range layouts {
		sources = append(sources, &component.Source{Name: layoutPrefix + l.Name, Path: l.Path, Code: l.Code})
	}
	return sources, nil
}

func dagText(r *output.Renderer, graph GraphQuerier, levels [][]string) error {
	styles := r.Styles()

	r.Header(1, "Import Graph")

	for i, level := range levels {
		r.Println(styles.Header2.Render(fmt.Sprintf("Level %d:", i)))
		for _, name := range level {
			deps := graph.Dependencies(name)
			users := graph.Dependents(name)

			r.Printf("  %s\n", styles.Code.Render(name))
			if len(deps) > 0 {
				r.Printf("    %s %s\n", styles.Muted.Render("imports:"), strings.Join(deps, ", "))
			}
			if len(users) > 0 {
				r.Printf("    %s %s\n", styles.Muted.Render("used by:"), strings.Join(users, ", "))
			}
		}
		r.Println("")
	}

	r.Println(styles.Muted.Render(fmt.Sprintf("Total: %d components, %d imports", graph.NodeCount(), graph.EdgeCount())))

	return nil
}

func dagMarkdown(r *output.Renderer, graph GraphQuerier, levels [][]string) error {
	r.Println(output.FormatHeader(1, "Import Graph"))
	r.Println("")

	for i, level := range levels {
		levelName := fmt.Sprintf("Level %d", i)
		if i == 0 {
			levelName = "Level 0 (Leaves)"
		}
		r.Println(output.FormatHeader(2, levelName))

		for _, name := range level {
			deps := graph.Dependencies(name)
			users := graph.Dependents(name)

			r.Printf("- %s\n", name)
			if len(deps) > 0 {
				r.Printf("  - imports: %s\n", strings.Join(deps, ", "))
			}
			if len(users) > 0 {
				r.Printf("  - used by: %s\n", strings.Join(users, ", "))
			}
		}
		r.Println("")
	}

	r.Println(output.FormatHeader(2, "Summary"))
	r.Println(output.FormatKeyValue("Total Components", fmt.Sprintf("%d", graph.NodeCount())))
	r.Println(output.FormatKeyValue("Total Imports", fmt.Sprintf("%d", graph.EdgeCount())))

	return nil
}

func dagJSON(r *output.Renderer, graph GraphQuerier, levels [][]string) error {
	out := output.DAGOutput{
		Levels:          make([]output.DAGLevel, 0, len(levels)),
		TotalComponents: graph.NodeCount(),
		TotalEdges:      graph.EdgeCount(),
	}

	for i, level := range levels {
		dagLevel := output.DAGLevel{
			Level:      i,
			Components: make([]output.DAGNode, 0, len(level)),
		}
		for _, name := range level {
			dagLevel.Components = append(dagLevel.Components, output.DAGNode{
				Name:      name,
				DependsOn: graph.Dependencies(name),
				UsedBy:    graph.Dependents(name),
			})
		}
		out.Levels = append(out.Levels, dagLevel)
	}

	return r.JSON(out)
}
