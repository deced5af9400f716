package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapslides/internal/cli/output"
)

func TestDAGCommand_JSON(t *testing.T) {
	setupProject(t, defaultProject("json"))

	stdout, _, err := execute(t, NewDAGCommand())
	require.NoError(t, err)

	var out output.DAGOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, 4, out.TotalComponents)
	assert.Equal(t, 2, out.TotalEdges)
	require.Len(t, out.Levels, 2)

	level0 := out.Levels[0].Components
	require.Len(t, level0, 2)
	assert.Equal(t, "Badge", level0[0].Name)
	assert.Equal(t, []string{"Card", "layout:Fancy"}, level0[0].UsedBy)
	assert.Equal(t, "layout:wide", level0[1].Name)

	level1 := out.Levels[1].Components
	require.Len(t, level1, 2)
	assert.Equal(t, "Card", level1[0].Name)
	assert.Equal(t, []string{"Badge"}, level1[0].DependsOn)
	assert.Equal(t, "layout:Fancy", level1[1].Name)
}

func TestDAGCommand_Markdown(t *testing.T) {
	setupProject(t, defaultProject("markdown"))

	stdout, _, err := execute(t, NewDAGCommand())
	require.NoError(t, err)
	assert.Contains(t, stdout, "# Import Graph")
	assert.Contains(t, stdout, "## Level 0 (Leaves)")
	assert.Contains(t, stdout, "  - imports: Badge")
	assert.Contains(t, stdout, "- **Total Imports**: 2")
}

func TestDAGCommand_Empty(t *testing.T) {
	setupProject(t, map[string]string{
		"leapslides.yaml": "output: json\n",
		"slides.md":       "# Only\n",
	})

	stdout, _, err := execute(t, NewDAGCommand())
	require.NoError(t, err)

	var out output.DAGOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Zero(t, out.TotalComponents)
	assert.Empty(t, out.Levels)
}
