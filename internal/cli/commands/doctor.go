package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapslides/internal/cli/config"
	"github.com/leapstack-labs/leapslides/internal/cli/output"
	"github.com/leapstack-labs/leapslides/internal/component"
	"github.com/leapstack-labs/leapslides/internal/project"
	"github.com/leapstack-labs/leapslides/internal/slides"
)

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	Format string // Output format: text, markdown, json
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	opts := &DoctorOptions{}
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run a comprehensive project health check",
		Long: `Analyze your slide deck project for problems.

The doctor command loads the project the way render does, one step at a
time, and reports:
- Project summary (slides, components, layouts, click steps)
- Health checks grouped by category (Config, Components, Slides, CSS)
- Health score (0-100)
- Actionable recommendations

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Run health check
  leapslides doctor

  # Output as JSON
  leapslides doctor --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")

	return cmd
}

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	Summary         ProjectSummary `json:"summary"`
	HealthChecks    []HealthCheck  `json:"health_checks"`
	Score           int            `json:"score"`
	Recommendations []string       `json:"recommendations"`
	IssueCount      int            `json:"issue_count"`
}

// ProjectSummary contains project-level statistics.
type ProjectSummary struct {
	Slides      int `json:"slides"`
	Components  int `json:"components"`
	Layouts     int `json:"layouts"`
	Clicks      int `json:"clicks"`
	ImportDepth int `json:"import_depth"`
}

// HealthCheck is the result of one check.
type HealthCheck struct {
	RuleID     string   `json:"rule_id"`
	Name       string   `json:"name"`
	Group      string   `json:"group"`
	Status     string   `json:"status"` // "pass", "warn", "error", "skip"
	IssueCount int      `json:"issue_count"`
	Details    []string `json:"details,omitempty"`
}

type doctorRule struct {
	ID       string
	Name     string
	Group    string
	Severity string // "warn" or "error"
}

var doctorRules = []doctorRule{
	{ID: "CF01", Name: "Project config file", Group: "config", Severity: "warn"},
	{ID: "CP01", Name: "Components load", Group: "components", Severity: "error"},
	{ID: "CP02", Name: "Layouts load", Group: "components", Severity: "error"},
	{ID: "CP03", Name: "No component import cycles", Group: "components", Severity: "error"},
	{ID: "SL01", Name: "Deck parses", Group: "slides", Severity: "error"},
	{ID: "SL02", Name: "Slide layouts are registered", Group: "slides", Severity: "warn"},
	{ID: "SL03", Name: "Slides compile", Group: "slides", Severity: "error"},
	{ID: "CS01", Name: "CSS config evaluates", Group: "css", Severity: "error"},
	{ID: "CS02", Name: "Custom CSS is processed", Group: "css", Severity: "warn"},
}

// doctorFindings collects the issues of each rule. Rules that could not run
// are recorded in skipped.
type doctorFindings struct {
	issues  map[string][]string
	skipped map[string]bool
}

func (f *doctorFindings) add(id string, details ...string) {
	f.issues[id] = append(f.issues[id], details...)
}

func (f *doctorFindings) skip(ids ...string) {
	for _, id := range ids {
		f.skipped[id] = true
	}
}

func runDoctor(cmd *cobra.Command, opts *DoctorOptions) error {
	cmdCtx := NewCommandContextWithoutDeck(cmd)
	r := cmdCtx.Renderer
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	summary, findings := diagnose(cmd.Context(), cmdCtx.Cfg, cmdCtx.Logger)
	out := buildDoctorOutput(summary, findings)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(out)
	case output.ModeMarkdown:
		return renderDoctorMarkdown(r, out)
	default:
		return renderDoctorText(r, out)
	}
}

// diagnose loads the project step by step. A step that fails skips the
// checks depending on it.
func diagnose(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ProjectSummary, *doctorFindings) {
	f := &doctorFindings{issues: map[string][]string{}, skipped: map[string]bool{}}
	var summary ProjectSummary

	if config.GetConfigFileUsed() == "" {
		f.add("CF01", "no leapslides.yaml found, using defaults")
	}

	components, err := component.NewLoader(cfg.ComponentsDir).Load()
	if err != nil {
		f.add("CP01", err.Error())
		f.skip("CP03")
	} else {
		summary.Components = len(components)
		if _, err := component.Order(components); err != nil {
			f.add("CP03", err.Error())
		}
	}

	layouts, err := component.NewLoader(cfg.LayoutsDir).Load()
	if err != nil {
		f.add("CP02", err.Error())
	}

	sources, err := projectSources(&cfg.ProjectConfig)
	if err == nil {
		if g, err := component.Graph(sources); err == nil {
			if levels, err := g.Levels(); err == nil {
				summary.ImportDepth = len(levels)
			}
		}
	}

	deck, err := createDeckRenderer(cfg, logger)
	if err != nil {
		// Loader errors are already reported above.
		var loadErr *component.LoadError
		if !errors.As(err, &loadErr) && len(f.issues["CP03"]) == 0 {
			f.add("CP01", err.Error())
		}
		f.skip("SL01", "SL02", "SL03", "CS02")
		if engine, err := newEngine(&cfg.ProjectConfig, logger); err != nil {
			f.add("CS01", err.Error())
		} else if err := engine.Init(ctx); err != nil {
			f.add("CS01", err.Error())
		}
		summary.Layouts = len(layouts)
		return summary, f
	}
	defer func() { _ = deck.Close() }()
	summary.Layouts = len(deck.Layouts())

	if err := deck.Engine().Init(ctx); err != nil {
		f.add("CS01", err.Error())
	}

	all, err := loadDeckSlides(ctx, cfg, deck)
	if err != nil {
		f.add("SL01", err.Error())
		f.skip("SL02", "SL03", "CS02")
		return summary, f
	}
	summary.Slides = len(all)

	known := deck.Layouts()
	warnings := map[string]bool{}
	for _, s := range all {
		summary.Clicks += s.Meta.Clicks

		if layout := s.Layout(); !slices.Contains(known, layout) {
			f.add("SL02", fmt.Sprintf("slide %d: unknown layout %q, falling back to %q", s.No, layout, "default"))
		}

		if res := s.Compile(); res.Failed() {
			f.add("SL03", fmt.Sprintf("slide %d: %s", s.No, joinErrors(res.Errors)))
		}

		gen, err := s.CSS(ctx)
		if err != nil {
			f.add("SL03", err.Error())
			continue
		}
		if gen.CustomCSSWarn != nil && !warnings[gen.CustomCSSWarn.Error()] {
			warnings[gen.CustomCSSWarn.Error()] = true
			f.add("CS02", gen.CustomCSSWarn.Error())
		}
	}

	return summary, f
}

func loadDeckSlides(ctx context.Context, cfg *config.Config, deck *slides.Renderer) ([]*slides.Slide, error) {
	if err := cfg.ValidateDeck(); err != nil {
		return nil, err
	}
	return project.LoadDeck(ctx, deck, cfg.Deck)
}

func buildDoctorOutput(summary ProjectSummary, f *doctorFindings) *DoctorOutput {
	checks := make([]HealthCheck, 0, len(doctorRules))
	issueCount := 0
	for _, rule := range doctorRules {
		details := f.issues[rule.ID]
		status := "pass"
		switch {
		case len(details) > 0:
			status = rule.Severity
		case f.skipped[rule.ID]:
			status = "skip"
		}
		issueCount += len(details)
		checks = append(checks, HealthCheck{
			RuleID:     rule.ID,
			Name:       rule.Name,
			Group:      rule.Group,
			Status:     status,
			IssueCount: len(details),
			Details:    details,
		})
	}

	sort.SliceStable(checks, func(i, j int) bool {
		if checks[i].Group != checks[j].Group {
			return checks[i].Group < checks[j].Group
		}
		return checks[i].RuleID < checks[j].RuleID
	})

	return &DoctorOutput{
		Summary:         summary,
		HealthChecks:    checks,
		Score:           calculateHealthScore(checks, summary.Slides),
		Recommendations: generateRecommendations(checks),
		IssueCount:      issueCount,
	}
}

// calculateHealthScore computes a health score from 0-100. Errors count
// double; with more slides each issue weighs less.
func calculateHealthScore(checks []HealthCheck, slideCount int) int {
	if len(checks) == 0 {
		return 100
	}

	score := 100.0

	basePenalty := 5.0
	if slideCount > 10 {
		basePenalty = 3.0
	}
	if slideCount > 50 {
		basePenalty = 2.0
	}

	for _, check := range checks {
		switch check.Status {
		case "error":
			score -= float64(check.IssueCount) * basePenalty * 2
		case "warn":
			score -= float64(check.IssueCount) * basePenalty
		case "skip":
			score -= basePenalty
		}
	}

	if score < 0 {
		score = 0
	}
	return int(score)
}

func generateRecommendations(checks []HealthCheck) []string {
	var recommendations []string
	for _, check := range checks {
		if check.IssueCount == 0 {
			continue
		}
		if rec := getRecommendation(check.RuleID); rec != "" {
			recommendations = append(recommendations, rec)
		}
	}
	if len(recommendations) > 5 {
		recommendations = recommendations[:5]
	}
	return recommendations
}

func getRecommendation(ruleID string) string {
	switch ruleID {
	case "CF01":
		return "Run 'leapslides init' to create a leapslides.yaml"
	case "CP01":
		return "Fix component files so each parses and has a valid name"
	case "CP02":
		return "Fix layout files so each parses and has a valid name"
	case "CP03":
		return "Break component import cycles by moving shared markup into a leaf component"
	case "SL01":
		return "Check the deck's frontmatter blocks and slide separators"
	case "SL02":
		return "Add the missing layouts to the layouts directory or fix the layout names"
	case "SL03":
		return "Run 'leapslides render' on the failing slides to see the compile errors"
	case "CS01":
		return "Fix the CSS engine config; slides are styled with defaults until then"
	case "CS02":
		return "Add transformerDirectives() to the CSS config to process @apply in custom CSS"
	default:
		return ""
	}
}

func statusIcon(styles *output.Styles, status string) string {
	switch status {
	case "warn":
		return styles.Warning.Render("!")
	case "error":
		return styles.Error.Render("✗")
	case "skip":
		return styles.Muted.Render("-")
	default:
		return styles.Success.Render("✓")
	}
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render("leapslides Project Health Report"))
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	r.Println("")

	r.Println(styles.Header2.Render("Project Summary"))
	r.Printf("   Slides: %d | Clicks: %d\n", out.Summary.Slides, out.Summary.Clicks)
	r.Printf("   Components: %d | Layouts: %d | Import Depth: %d\n", out.Summary.Components, out.Summary.Layouts, out.Summary.ImportDepth)
	r.Println("")

	r.Println(styles.Header2.Render("Health Checks"))
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println(styles.Bold.Render("   " + titleCaser.String(currentGroup)))
			r.Println(styles.Muted.Render("   " + strings.Repeat("-", 40)))
		}

		status := fmt.Sprintf("%s %s: %s", statusIcon(styles, check.Status), check.RuleID, check.Name)
		if check.IssueCount > 0 {
			status += fmt.Sprintf(" (%d issues)", check.IssueCount)
		}
		r.Println("   " + status)

		for i, detail := range check.Details {
			if i >= 3 {
				r.Println(styles.Muted.Render(fmt.Sprintf("       ... and %d more", len(check.Details)-3)))
				break
			}
			r.Println(styles.Muted.Render("       - " + detail))
		}
	}
	r.Println("")

	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	scoreStyle := styles.Success
	if out.Score < 70 {
		scoreStyle = styles.Warning
	}
	if out.Score < 50 {
		scoreStyle = styles.Error
	}
	r.Printf("   Health Score: %s\n", scoreStyle.Render(fmt.Sprintf("%d/100", out.Score)))
	r.Println("")

	if len(out.Recommendations) > 0 {
		r.Println(styles.Header2.Render("Recommendations"))
		for i, rec := range out.Recommendations {
			r.Printf("   %d. %s\n", i+1, rec)
		}
		r.Println("")
	}

	return nil
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) error {
	r.Println("# leapslides Project Health Report")
	r.Println("")

	r.Println("## Project Summary")
	r.Println("")
	r.Println(output.FormatKeyValue("Slides", fmt.Sprintf("%d", out.Summary.Slides)))
	r.Println(output.FormatKeyValue("Clicks", fmt.Sprintf("%d", out.Summary.Clicks)))
	r.Println(output.FormatKeyValue("Components", fmt.Sprintf("%d", out.Summary.Components)))
	r.Println(output.FormatKeyValue("Layouts", fmt.Sprintf("%d", out.Summary.Layouts)))
	r.Println(output.FormatKeyValue("Import Depth", fmt.Sprintf("%d levels", out.Summary.ImportDepth)))
	r.Println("")

	r.Println("## Health Checks")
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println("### " + titleCaser.String(currentGroup))
			r.Println("")
		}

		r.Printf("- **[%s]** %s: %s", strings.ToUpper(check.Status), check.RuleID, check.Name)
		if check.IssueCount > 0 {
			r.Printf(" (%d issues)", check.IssueCount)
		}
		r.Println("")

		for _, detail := range check.Details {
			r.Printf("  - %s\n", detail)
		}
	}
	r.Println("")

	r.Println("## Health Score")
	r.Println("")
	r.Printf("**%d/100**\n", out.Score)
	r.Println("")

	if len(out.Recommendations) > 0 {
		r.Println("## Recommendations")
		r.Println("")
		for i, rec := range out.Recommendations {
			r.Printf("%d. %s\n", i+1, rec)
		}
		r.Println("")
	}

	return nil
}
