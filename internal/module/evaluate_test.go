package module

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapslides/internal/sfc"
)

const compiledSlide = `import remote from "built-in:remote";
import InjectedLayout from "layout:default";
import * as rt from "runtime";
import { palette as colors } from "custom:theme";
import "custom:side";
const $frontmatter = {};
export const __template = "<InjectedLayout v-bind=\"$frontmatter\">\n<h1>Hi</h1>\n</InjectedLayout>";
`

func newTestContext(t *testing.T, opts ...Option) *Context {
	t.Helper()
	c := NewContext(opts...)
	require.NoError(t, c.Init(context.Background()))
	require.NoError(t, c.Register(LayoutSpecifier("default"), Value("DefaultLayout")))
	require.NoError(t, c.Register("custom:theme", func(context.Context) (*Module, error) {
		return &Module{Named: map[string]any{"palette": []string{"red"}}}, nil
	}))
	require.NoError(t, c.Register("custom:side", Value(nil)))
	return c
}

func TestEvaluate_Links(t *testing.T) {
	c := newTestContext(t)
	thunk := c.Evaluate(&sfc.CompileResult{ComponentCode: compiledSlide, StyleCode: ".a{}"}, "slide 1")

	mod, err := thunk(context.Background())
	require.NoError(t, err)
	unit := mod.Default.(*Unit)

	assert.Equal(t, "slide 1", unit.Label)
	assert.Equal(t, "<InjectedLayout v-bind=\"$frontmatter\">\n<h1>Hi</h1>\n</InjectedLayout>", unit.Template)
	assert.Equal(t, ".a{}", unit.Style)
	assert.NotContains(t, unit.Code, "__template")
	require.Len(t, unit.Imports, 5)

	assert.Equal(t, "DefaultLayout", unit.Bindings["InjectedLayout"])
	assert.Same(t, remoteComponent, unit.Bindings["remote"])
	assert.Equal(t, []string{"red"}, unit.Bindings["colors"])
	assert.Equal(t, map[string]string{"colors": "palette"}, unit.Imports[3].Named)
	ns := unit.Bindings["rt"].(map[string]any)
	assert.IsType(t, &Runtime{}, ns["default"])
	assert.Equal(t, "custom:side", unit.Imports[4].Specifier)
}

func TestEvaluate_SetupRunsOnce(t *testing.T) {
	var links atomic.Int32
	c := newTestContext(t, WithLinkHook(func(*Unit) { links.Add(1) }))
	thunk := c.Evaluate(&sfc.CompileResult{ComponentCode: compiledSlide}, "slide 1")

	var wg sync.WaitGroup
	mods := make([]*Module, 8)
	for i := range mods {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mods[i], _ = thunk(context.Background())
		}()
	}
	wg.Wait()

	again, err := thunk(context.Background())
	require.NoError(t, err)
	for _, m := range mods {
		assert.Same(t, again, m)
	}
	assert.Equal(t, int32(1), links.Load())
}

func TestEvaluate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		result  *sfc.CompileResult
		wantErr string
	}{
		{"nil result", nil, "compile result has no component code"},
		{"empty code", &sfc.CompileResult{}, "compile result has no component code"},
		{"compile errors", &sfc.CompileResult{ComponentCode: "x", Errors: []error{assert.AnError}}, "compile failed"},
		{"unknown import", &sfc.CompileResult{ComponentCode: `import card from "custom:card";`}, `slide 2: resolve "custom:card": unknown module specifier`},
		{"missing export", &sfc.CompileResult{ComponentCode: `import { nope } from "custom:theme";`}, `no export named "nope"`},
		{"bad template", &sfc.CompileResult{ComponentCode: "export const __template = nope;"}, "decode template export"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestContext(t)
			_, err := c.Evaluate(tt.result, "slide 2")(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEvaluate_CompiledComponent(t *testing.T) {
	c := newTestContext(t)
	res := sfc.Compile("slide.vue", "<template>\n<p>x</p>\n</template>\n\n<script setup>\nimport InjectedLayout from \"layout:default\"\n</script>", sfc.CompileOptions{})
	require.False(t, res.Failed(), "%v", res.Errors)

	mod, err := c.Evaluate(res, "slide 1")(context.Background())
	require.NoError(t, err)
	unit := mod.Default.(*Unit)
	assert.Equal(t, "<p>x</p>", unit.Template)
	assert.Equal(t, "DefaultLayout", unit.Bindings["InjectedLayout"])
}
