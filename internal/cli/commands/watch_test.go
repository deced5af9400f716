package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapslides/internal/cli/config"
	"github.com/leapstack-labs/leapslides/internal/cli/output"
	"github.com/leapstack-labs/leapslides/internal/testutil"
)

func TestWatchDirs(t *testing.T) {
	dir := setupProject(t, defaultProject("markdown"))
	cfg := config.GetCurrentConfig()
	require.NotNil(t, cfg)

	dirs := watchDirs(cfg)
	assert.Equal(t, []string{
		dir,
		filepath.Join(dir, "components"),
		filepath.Join(dir, "layouts"),
	}, dirs)
}

func TestIsWatchedFile(t *testing.T) {
	dir := setupProject(t, defaultProject("markdown"))
	cfg := config.GetCurrentConfig()

	tests := []struct {
		name string
		want bool
	}{
		{name: "slides.md", want: true},
		{name: "uno.config.star", want: true},
		{name: "components/Card.vue", want: true},
		{name: "layouts/wide.vue", want: true},
		{name: "components/notes.txt", want: false},
		{name: "other.vue", want: false},
		{name: "leapslides.yaml", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isWatchedFile(cfg, filepath.Join(dir, filepath.FromSlash(tt.name))))
		})
	}
}

func TestRebuildDeck(t *testing.T) {
	setupProject(t, defaultProject("markdown"))
	cmdCtx := &CommandContext{
		Cfg:    config.GetCurrentConfig(),
		Logger: testutil.NewTestLogger(t),
	}

	report, err := rebuildDeck(context.Background(), cmdCtx, &WatchOptions{CSS: true})
	require.NoError(t, err)
	require.Len(t, report.Slides, 2)
	assert.Empty(t, report.Slides[0].Err)
	assert.Equal(t, "Intro", report.Slides[0].Title)
	assert.Positive(t, report.Slides[0].Classes)

	report, err = rebuildDeck(context.Background(), cmdCtx, &WatchOptions{Slides: []int{2}})
	require.NoError(t, err)
	require.Len(t, report.Slides, 1)
	assert.Equal(t, 2, report.Slides[0].No)
	assert.Zero(t, report.Slides[0].Classes)
}

func TestPrintWatchReport(t *testing.T) {
	var out, errOut bytes.Buffer
	r := output.NewRenderer(&out, &errOut, output.ModeMarkdown)

	printWatchReport(r, &watchReport{
		Slides: []watchSlide{
			{No: 1, Title: "Intro", Classes: 3},
			{No: 2, Err: "boom"},
		},
		Took: 12 * time.Millisecond,
	})

	assert.Contains(t, out.String(), "✓ Slide 1: Intro 3 classes")
	assert.Contains(t, out.String(), "✗ Slide 2 boom")
	assert.Contains(t, errOut.String(), "2 slides rebuilt in 12ms, 1 failed")
}

func TestWatchCommand_StopsOnCancel(t *testing.T) {
	setupProject(t, defaultProject("markdown"))

	ctx, cancel := context.WithTimeout(config.WithLogger(context.Background(), testutil.NewTestLogger(t)), 300*time.Millisecond)
	defer cancel()

	cmd := NewWatchCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.ExecuteContext(ctx))
	assert.Contains(t, out.String(), "Slide 1: Intro")
	assert.Contains(t, out.String(), "Watching for changes")
}
