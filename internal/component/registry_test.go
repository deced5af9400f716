package component

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapslides/internal/module"
	"github.com/leapstack-labs/leapslides/internal/sfc"
	"github.com/leapstack-labs/leapslides/internal/testutil"
)

var sfcOptions = sfc.CompileOptions{}

const cardSource = `<script setup>
import Badge from "custom:Badge"
</script>

<template>
  <div class="card"><Badge /><slot /></div>
</template>
`

const badgeSource = `<template><span class="badge">new</span></template>`

func newRegistry(t *testing.T) (*Registry, *module.Context) {
	t.Helper()
	mc := module.NewContext()
	return NewRegistry(mc, sfcOptions, testutil.NewTestLogger(t)), mc
}

func TestImports(t *testing.T) {
	names, err := Imports(&Source{Name: "Card", Code: `<script setup>
import Badge from "custom:Badge"
import { ref } from "runtime"
import Badge2 from "custom:Badge"
import Icon from "custom:Icon"
</script>`})
	require.NoError(t, err)
	assert.Equal(t, []string{"Badge", "Icon"}, names)
}

func TestOrder(t *testing.T) {
	order, err := Order([]*Source{
		{Name: "Card", Code: cardSource},
		{Name: "Badge", Code: badgeSource},
		{Name: "Panel", Code: `<script setup>
import Card from "custom:Card"
import Outside from "custom:Outside"
</script>`},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Badge", "Card", "Panel"}, order)
}

func TestOrder_Cycle(t *testing.T) {
	_, err := Order([]*Source{
		{Name: "A", Code: "<script setup>\nimport B from \"custom:B\"\n</script>"},
		{Name: "B", Code: "<script setup>\nimport A from \"custom:A\"\n</script>"},
	})

	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, []string{"A", "B", "A"}, cycleErr.Path)
	assert.Equal(t, "component import cycle: A -> B -> A", cycleErr.Error())
}

func TestRegistry_RegisterInline(t *testing.T) {
	reg, mc := newRegistry(t)
	require.NoError(t, reg.RegisterInline([]*Source{
		{Name: "Card", Code: cardSource},
		{Name: "Badge", Code: badgeSource},
	}))
	assert.Equal(t, []string{"Badge", "Card"}, reg.InlineComponents())
	assert.Zero(t, mc.CacheLen(), "inline components compile lazily")

	mod, err := mc.Resolve(context.Background(), "custom:Card")
	require.NoError(t, err)

	card, ok := mod.Default.(*module.Unit)
	require.True(t, ok)
	assert.Equal(t, "custom:Card", card.Label)
	assert.Contains(t, card.Template, `class="card"`)

	badge, ok := card.Bindings["Badge"].(*module.Unit)
	require.True(t, ok, "the imported component is linked")
	assert.Equal(t, "custom:Badge", badge.Label)
}

func TestRegistry_RegisterInline_CycleRegistersNothing(t *testing.T) {
	reg, mc := newRegistry(t)
	err := reg.RegisterInline([]*Source{
		{Name: "Loop", Code: "<script setup>\nimport Loop from \"custom:Loop\"\n</script>"},
	})

	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.False(t, mc.Has("custom:Loop"))
	assert.Empty(t, reg.InlineComponents())
}

func TestRegistry_RegisterInline_Duplicate(t *testing.T) {
	reg, _ := newRegistry(t)
	err := reg.RegisterInline([]*Source{
		{Name: "Badge", Code: badgeSource},
		{Name: "Badge", Code: badgeSource},
	})

	var regErr *RegistryError
	require.ErrorAs(t, err, &regErr)
	assert.Equal(t, "Badge", regErr.Name)
	assert.ErrorIs(t, err, errDuplicate)
}

func TestRegistry_NameClashWithComponentValue(t *testing.T) {
	reg, _ := newRegistry(t)
	require.NoError(t, reg.RegisterComponents(map[string]any{"Badge": "BadgeValue"}))
	assert.Equal(t, []string{"Badge"}, reg.Components())

	err := reg.RegisterInline([]*Source{{Name: "Badge", Code: badgeSource}})

	var regErr *RegistryError
	require.ErrorAs(t, err, &regErr)
	var modErr *module.RegistryError
	require.ErrorAs(t, err, &modErr)
	assert.Equal(t, "custom:Badge", modErr.Specifier)
}

func TestRegistry_CompileFailure(t *testing.T) {
	logger, logs := testutil.NewCaptureLogger()
	mc := module.NewContext()
	reg := NewRegistry(mc, sfcOptions, logger)
	require.NoError(t, reg.RegisterInline([]*Source{
		{Name: "Broken", Code: "<script setup>\nconst = ;\n</script>\n<template><div /></template>"},
	}))

	_, err := mc.Resolve(context.Background(), "custom:Broken")
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "Broken.vue", loadErr.File)
	assert.Equal(t, 1, logs.Count(slog.LevelError, "component compile failed"))
}

func TestRegistry_RegisterLayouts(t *testing.T) {
	reg, mc := newRegistry(t)
	require.NoError(t, reg.RegisterLayouts(MergeLayouts(BuiltinLayouts(), []*Source{
		{Name: "intro", Code: "<template><header><slot /></header></template>"},
	})))
	assert.Equal(t, []string{"center", "cover", "default", "end", "intro", "two-cols"}, reg.Layouts())

	mod, err := mc.Resolve(context.Background(), module.LayoutSpecifier("intro"))
	require.NoError(t, err)
	assert.Equal(t, "<header><slot /></header>", mod.Default.(*module.Unit).Template)

	err = reg.RegisterLayouts([]*Source{{Name: "intro", Code: ""}})
	var regErr *RegistryError
	require.ErrorAs(t, err, &regErr)
	assert.Equal(t, "layout", regErr.Kind)
}
