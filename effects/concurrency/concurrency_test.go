package concurrency_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/on-the-ground/effect_ive_ui/effects/concurrency"
	"github.com/on-the-ground/effect_ive_ui/effects/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// supervised installs the log and concurrency handlers over parent.
// The returned teardown ends the concurrency handler; the log handler ends with the test.
func supervised(t *testing.T, parent context.Context) (context.Context, func() context.Context) {
	ctx, endOfLogHandler := log.WithTestEffectHandler(parent)
	t.Cleanup(func() { endOfLogHandler() })
	return concurrency.WithEffectHandler(ctx, 10)
}

func within(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal(what)
	}
}

func TestEffect_RunsEveryChild(t *testing.T) {
	ctx, end := supervised(t, context.Background())
	defer end()

	var ran atomic.Int32
	done := make(chan struct{}, 3)
	child := func(context.Context) {
		ran.Add(1)
		done <- struct{}{}
	}
	concurrency.Effect(ctx, child, child, child)

	for i := 0; i < 3; i++ {
		within(t, done, "child did not run")
	}
	assert.EqualValues(t, 3, ran.Load())
}

func TestEffect_ParentCancelReachesChildren(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	ctx, end := supervised(t, parent)
	defer end()

	waiting := make(chan struct{})
	stopped := make(chan struct{})
	concurrency.Effect(ctx, func(ctx context.Context) {
		close(waiting)
		<-ctx.Done()
		close(stopped)
	})

	within(t, waiting, "child did not start")
	cancel()
	within(t, stopped, "child ignored the parent cancel")
}

func TestEffect_PanickingChildDoesNotTakeDownSiblings(t *testing.T) {
	ctx, end := supervised(t, context.Background())
	defer end()

	done := make(chan struct{})
	concurrency.Effect(ctx,
		func(context.Context) { panic("decode users") },
		func(context.Context) { close(done) },
	)
	within(t, done, "sibling did not finish")

	again := make(chan struct{})
	concurrency.Effect(ctx, func(context.Context) { close(again) })
	within(t, again, "supervisor stopped accepting work after a panic")
}

func TestTeardown_CancelsAndWaitsForChildren(t *testing.T) {
	ctx, end := supervised(t, context.Background())

	var finished atomic.Int32
	started := make(chan struct{}, 2)
	lingering := func(ctx context.Context) {
		started <- struct{}{}
		<-ctx.Done()
		time.Sleep(10 * time.Millisecond)
		finished.Add(1)
	}
	concurrency.Effect(ctx, lingering, lingering)
	within(t, started, "first child did not start")
	within(t, started, "second child did not start")

	upper := end()
	require.NotNil(t, upper)
	assert.EqualValues(t, 2, finished.Load())
}

func TestGo_FallsBackToGoroutine(t *testing.T) {
	done := make(chan struct{})
	concurrency.Go(context.Background(), func(context.Context) { close(done) })
	within(t, done, "routine did not run")
}

func TestGo_UsesSupervisorWhenInstalled(t *testing.T) {
	ctx, end := supervised(t, context.Background())

	stopped := make(chan struct{})
	concurrency.Go(ctx, func(ctx context.Context) {
		<-ctx.Done()
		close(stopped)
	})
	end()
	within(t, stopped, "supervised routine outlived teardown")
}
