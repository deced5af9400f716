package slides

import (
	"context"
	"time"

	"github.com/leapstack-labs/leapslides/internal/module"
)

// ViewState says which view an AsyncComponent shows.
type ViewState int

const (
	ViewLoading ViewState = iota
	ViewLoaded
	ViewError
)

func (s ViewState) String() string {
	switch s {
	case ViewLoading:
		return "loading"
	case ViewLoaded:
		return "loaded"
	case ViewError:
		return "error"
	default:
		return "unknown"
	}
}

// View is one state of an AsyncComponent. Component is the loading
// placeholder, the loaded unit or the error placeholder.
type View struct {
	State     ViewState
	Component any
	Err       error
}

// AsyncComponent wraps a slide loader for a host that displays slides.
type AsyncComponent struct {
	load      func(context.Context) (*module.Module, error)
	delay     time.Duration
	loading   any
	errorView any
	onError   func(error)
}

// Resolve starts loading and returns the views to show, in order. If the
// load outlasts the delay the loading placeholder comes first. The last
// view is the loaded unit or the error placeholder. The channel is closed
// after the last view.
func (a *AsyncComponent) Resolve(ctx context.Context) <-chan View {
	views := make(chan View, 2)

	type outcome struct {
		mod *module.Module
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		mod, err := a.load(ctx)
		done <- outcome{mod, err}
	}()

	go func() {
		defer close(views)

		var wait <-chan time.Time
		if a.delay <= 0 {
			views <- View{State: ViewLoading, Component: a.loading}
		} else {
			timer := time.NewTimer(a.delay)
			defer timer.Stop()
			wait = timer.C
		}

		var res outcome
	loop:
		for {
			select {
			case res = <-done:
				break loop
			case <-wait:
				views <- View{State: ViewLoading, Component: a.loading}
				wait = nil
			case <-ctx.Done():
				res.err = ctx.Err()
				break loop
			}
		}

		if res.err != nil {
			if a.onError != nil {
				a.onError(res.err)
			}
			views <- View{State: ViewError, Component: a.errorView, Err: res.err}
			return
		}
		views <- View{State: ViewLoaded, Component: res.mod.Default}
	}()

	return views
}
