package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapslides/internal/cli/config"
	"github.com/leapstack-labs/leapslides/internal/cli/output"
	"github.com/leapstack-labs/leapslides/internal/slides"
)

// WatchOptions holds options for the watch command.
type WatchOptions struct {
	Slides []int
	CSS    bool
}

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	opts := &WatchOptions{}
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-render the deck whenever a project file changes",
		Long: `Watch the deck, components, layouts and stylesheets and recompile every
slide after each change. Changes arriving within the debounce interval
(watch.debounce in leapslides.yaml) are handled by a single rebuild.

Changes to leapslides.yaml itself need a restart.`,
		Example: `  # Watch and report compile status
  leapslides watch

  # Also generate each slide's CSS
  leapslides watch --css`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, opts)
		},
	}

	cmd.Flags().IntSliceVarP(&opts.Slides, "slide", "s", nil, "Slide numbers to rebuild (repeatable)")
	cmd.Flags().BoolVar(&opts.CSS, "css", false, "Generate CSS on every rebuild")

	return cmd
}

func runWatch(cmd *cobra.Command, opts *WatchOptions) error {
	ctx := cmd.Context()
	cmdCtx := NewCommandContextWithoutDeck(cmd)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	if err := cfg.ValidateDeck(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	for _, dir := range watchDirs(cfg) {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		cmdCtx.Logger.Debug("watching", "dir", dir)
	}

	rebuild := func() {
		report, err := rebuildDeck(ctx, cmdCtx, opts)
		if err != nil {
			r.Error(err.Error())
			return
		}
		printWatchReport(r, report)
	}

	rebuild()
	r.Muted("Watching for changes. Press Ctrl+C to stop.")

	trigger := make(chan string, 1)
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !isWatchedFile(cfg, event.Name) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			name := event.Name
			debounceTimer = time.AfterFunc(cfg.Watch.Debounce, func() {
				select {
				case trigger <- name:
				default:
				}
			})
		case name := <-trigger:
			r.Println("")
			r.Muted(fmt.Sprintf("Change detected: %s", filepath.Base(name)))
			rebuild()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cmdCtx.Logger.Warn("watcher error", "error", err)
		}
	}
}

// watchDirs returns the existing directories holding project files.
// fsnotify watches directories so editors that replace files are seen.
func watchDirs(cfg *config.Config) []string {
	candidates := []string{
		filepath.Dir(cfg.Deck),
		cfg.ComponentsDir,
		cfg.LayoutsDir,
	}
	if cfg.CSS.ConfigFile != "" {
		candidates = append(candidates, filepath.Dir(cfg.CSS.ConfigFile))
	}
	if cfg.CSS.CustomCSS != "" {
		candidates = append(candidates, filepath.Dir(cfg.CSS.CustomCSS))
	}

	var dirs []string
	for _, dir := range candidates {
		dir = filepath.Clean(dir)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		if !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// isWatchedFile reports whether a change to name affects the deck.
func isWatchedFile(cfg *config.Config, name string) bool {
	name = filepath.Clean(name)
	switch name {
	case filepath.Clean(cfg.Deck):
		return true
	case filepath.Clean(cfg.CSS.ConfigFile), filepath.Clean(cfg.CSS.CustomCSS):
		return name != "."
	}
	if filepath.Ext(name) != ".vue" {
		return false
	}
	dir := filepath.Dir(name)
	return dir == filepath.Clean(cfg.ComponentsDir) || dir == filepath.Clean(cfg.LayoutsDir)
}

// watchReport is the outcome of one rebuild.
type watchReport struct {
	Slides []watchSlide
	Took   time.Duration
}

type watchSlide struct {
	No      int
	Title   string
	Err     string
	Classes int
}

// rebuildDeck creates a fresh renderer, so component and layout edits are
// picked up, and compiles the selected slides.
func rebuildDeck(ctx context.Context, cmdCtx *CommandContext, opts *WatchOptions) (*watchReport, error) {
	start := time.Now()

	deck, err := createDeckRenderer(cmdCtx.Cfg, cmdCtx.Logger)
	if err != nil {
		return nil, err
	}
	defer func() { _ = deck.Close() }()

	all, err := loadDeckSlides(ctx, cmdCtx.Cfg, deck)
	if err != nil {
		return nil, err
	}
	selected, err := selectSlides(all, opts.Slides)
	if err != nil {
		return nil, err
	}

	report := &watchReport{Slides: make([]watchSlide, 0, len(selected))}
	for _, s := range selected {
		report.Slides = append(report.Slides, rebuildSlide(ctx, s, opts.CSS))
	}
	report.Took = time.Since(start)
	return report, nil
}

func rebuildSlide(ctx context.Context, s *slides.Slide, css bool) watchSlide {
	res := watchSlide{No: s.No, Title: s.Meta.Title}
	if compiled := s.Compile(); compiled.Failed() || strings.TrimSpace(compiled.ComponentCode) == "" {
		res.Err = joinErrors(compiled.Errors)
		return res
	}
	if !css {
		return res
	}
	gen, err := s.CSS(ctx)
	switch {
	case err != nil:
		res.Err = err.Error()
	case gen.CustomConfigError != nil:
		res.Err = gen.CustomConfigError.Error()
	default:
		res.Classes = len(gen.Output.Matched)
	}
	return res
}

func printWatchReport(r *output.Renderer, report *watchReport) {
	failed := 0
	for _, s := range report.Slides {
		name := slideHeading(s.No, s.Title)
		switch {
		case s.Err != "":
			failed++
			r.StatusLine(name, "failed", s.Err)
		case s.Classes > 0:
			r.StatusLine(name, "success", fmt.Sprintf("%d classes", s.Classes))
		default:
			r.StatusLine(name, "success", "")
		}
	}

	summary := fmt.Sprintf("%d slides rebuilt in %s", len(report.Slides), report.Took.Round(time.Millisecond))
	if failed > 0 {
		r.Warning(fmt.Sprintf("%s, %d failed", summary, failed))
		return
	}
	r.Success(summary)
}
