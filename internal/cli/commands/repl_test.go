package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapslides/internal/cli/output"
	"github.com/leapstack-labs/leapslides/internal/testutil"
	"github.com/leapstack-labs/leapslides/internal/uno"
)

func newTestSession(t *testing.T) (*replSession, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	engine := uno.NewEngine(uno.EngineConfig{Logger: testutil.NewTestLogger(t)})
	require.NoError(t, engine.Init(context.Background()))

	var out, errOut bytes.Buffer
	r := output.NewRenderer(&out, &errOut, output.ModeText)
	return &replSession{engine: engine, r: r}, &out, &errOut
}

func TestReplSession_Generate(t *testing.T) {
	s, out, errOut := newTestSession(t)

	assert.False(t, s.handle(context.Background(), "p-4 text-red-500"))
	assert.Contains(t, out.String(), ".p-4")
	assert.Contains(t, out.String(), ".text-red-500")
	assert.Empty(t, errOut.String())
}

func TestReplSession_NoMatch(t *testing.T) {
	s, _, errOut := newTestSession(t)

	assert.False(t, s.handle(context.Background(), "not-a-utility"))
	assert.Contains(t, errOut.String(), `no rule matched "not-a-utility"`)
}

func TestReplSession_DotCommands(t *testing.T) {
	s, out, errOut := newTestSession(t)
	ctx := context.Background()

	assert.False(t, s.handle(ctx, ""))
	assert.False(t, s.handle(ctx, ".help"))
	assert.Contains(t, out.String(), ".layer [name]")

	assert.False(t, s.handle(ctx, ".layer default"))
	assert.Equal(t, "default", s.layer)
	assert.False(t, s.handle(ctx, ".layer"))
	assert.Empty(t, s.layer)

	assert.False(t, s.handle(ctx, ".bogus"))
	assert.Contains(t, errOut.String(), "Unknown command: .bogus")

	assert.True(t, s.handle(ctx, ".quit"))
	assert.True(t, s.handle(ctx, ".exit"))
}

func TestClassCompleter(t *testing.T) {
	engine := uno.NewEngine(uno.EngineConfig{Logger: testutil.NewTestLogger(t)})
	require.NoError(t, engine.Init(context.Background()))
	c := &classCompleter{engine: engine}

	line := []rune("p-4 mt-")
	candidates, length := c.Do(line, len(line))
	assert.Equal(t, 3, length)
	require.NotEmpty(t, candidates)
	for _, cand := range candidates {
		assert.NotEmpty(t, strings.TrimSpace(string(cand)))
	}

	candidates, length = c.Do([]rune("p-4 "), 4)
	assert.Empty(t, candidates)
	assert.Zero(t, length)
}

func TestCompleteDotCommand(t *testing.T) {
	candidates, length := completeDotCommand(".q")
	assert.Equal(t, 2, length)
	assert.Equal(t, [][]rune{[]rune("uit")}, candidates)

	candidates, _ = completeDotCommand(".")
	assert.Len(t, candidates, len(dotCommands))
}
