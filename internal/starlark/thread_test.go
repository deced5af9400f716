package starlark

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"
)

func TestThreadPool_Reuse(t *testing.T) {
	pool := NewThreadPool(2)

	thread := pool.Get("rule")
	require.NotNil(t, thread)
	assert.Equal(t, "rule", thread.Name)
	thread.Load = func(*starlark.Thread, string) (starlark.StringDict, error) { return nil, nil }

	pool.Put(thread)
	assert.Equal(t, 1, pool.Size())

	again := pool.Get("shortcut")
	assert.Same(t, thread, again)
	assert.Equal(t, "shortcut", again.Name)
	assert.Nil(t, again.Load, "load must not leak between uses")

	for range 3 {
		pool.Put(pool.Get("x"))
		pool.Put(newThread("extra"))
	}
	assert.LessOrEqual(t, pool.Size(), 2)
}

func TestThreadPool_Call(t *testing.T) {
	pool := NewThreadPool(4)
	ev := NewEvaluator(nil, WithCache(NewModuleCache()))

	v, err := ev.Evaluate(t.Context(), `
def double(m):
    return int(m) * 2

export default double
`)
	require.NoError(t, err)
	fn, ok := v.(starlark.Callable)
	require.True(t, ok, "default export should be callable, got %s", v.Type())

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := pool.Call("double", fn, starlark.Tuple{starlark.String(string(rune('0' + i%10)))}, nil)
			assert.NoError(t, err)
			n, _ := starlark.AsInt32(got)
			assert.Equal(t, (i%10)*2, n)
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, pool.Size(), 4)
}

func TestThreadPool_CallError(t *testing.T) {
	pool := NewThreadPool(1)
	ev := NewEvaluator(nil, WithCache(NewModuleCache()))

	v, err := ev.Evaluate(t.Context(), "def broken():\n    return 1 // 0\n\nexport default broken\n")
	require.NoError(t, err)

	_, err = pool.Call("broken", v.(starlark.Callable), nil, nil)
	require.Error(t, err)

	var evalErr *EvalError
	require.ErrorAs(t, err, &evalErr)
	assert.Contains(t, evalErr.Message, "division by zero")
}
