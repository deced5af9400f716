package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapslides/internal/cli/config"
	intconfig "github.com/leapstack-labs/leapslides/internal/config"
)

func TestNewInitCommand(t *testing.T) {
	tests := []struct {
		name      string
		setupDir  func(t *testing.T, dir string)
		args      []string
		wantErr   bool
		wantFiles []string
	}{
		{
			name:      "init empty directory",
			args:      []string{},
			wantFiles: []string{"leapslides.yaml", "slides.md", ".gitignore"},
		},
		{
			name: "init existing config without force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, "leapslides.yaml"), []byte("existing"), 0600)
			},
			args:    []string{},
			wantErr: true,
		},
		{
			name: "init existing config with force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, "leapslides.yaml"), []byte("existing"), 0600)
			},
			args:      []string{"--force"},
			wantFiles: []string{"leapslides.yaml", "slides.md"},
		},
		{
			name: "init example",
			args: []string{"--example"},
			wantFiles: []string{
				"leapslides.yaml",
				"slides.md",
				"uno.config.star",
				"components/Badge.vue",
				"layouts/intro.vue",
				"styles/deck.css",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config.ResetConfig()
			tmpDir := t.TempDir()
			t.Chdir(tmpDir)

			if tt.setupDir != nil {
				tt.setupDir(t, tmpDir)
			}

			cmd := NewInitCommand()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			for _, f := range tt.wantFiles {
				_, err := os.Stat(filepath.Join(tmpDir, f))
				assert.False(t, os.IsNotExist(err), "expected file %q to exist", f)
			}
		})
	}
}

func TestInitCommandMetadata(t *testing.T) {
	cmd := NewInitCommand()

	assert.Equal(t, "init [directory]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("force"), "--force flag should exist")
	assert.NotNil(t, cmd.Flags().Lookup("example"), "--example flag should exist")
}

func TestInitCreatesLoadableConfig(t *testing.T) {
	config.ResetConfig()
	tmpDir := t.TempDir()

	cmd := NewInitCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{tmpDir, "--example"})
	require.NoError(t, cmd.Execute())

	cfg, err := intconfig.LoadFromDir(tmpDir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, filepath.Join(tmpDir, "slides.md"), cfg.Deck)
	assert.Equal(t, filepath.Join(tmpDir, "components"), cfg.ComponentsDir)
	assert.Equal(t, "“”‘’", cfg.Markdown.Quotes)

	css, err := cfg.CSSConfigSource()
	require.NoError(t, err)
	assert.Contains(t, css, "badge")
}

func TestGroupTemplateFiles(t *testing.T) {
	files, err := listTemplateFiles("example")
	require.NoError(t, err)

	groups := groupTemplateFiles(files)
	assert.Contains(t, groups["deck"], "leapslides.yaml")
	assert.Contains(t, groups["deck"], ".gitignore")
	assert.Equal(t, []string{"components/Badge.vue"}, groups["components"])
	assert.Equal(t, []string{"layouts/intro.vue"}, groups["layouts"])
	assert.ElementsMatch(t, []string{"styles/deck.css", "uno.config.star"}, groups["styles"])
}

func TestRenameSpecialFiles(t *testing.T) {
	assert.Equal(t, ".gitignore", renameSpecialFiles("gitignore"))
	assert.Equal(t, "sub/.gitignore", renameSpecialFiles("sub/gitignore"))
	assert.Equal(t, "slides.md", renameSpecialFiles("slides.md"))
}
