package task

import (
	"context"
	"sync"

	"github.com/on-the-ground/effect_ive_ui/effects"
	effectmodel "github.com/on-the-ground/effect_ive_ui/effects/model"
)

// Result is what a task resolves to.
type Result[R any] = effectmodel.ResumableResult[R]

// Payload carries a job to the task handler. The job runs with a context derived
// from the caller's context that also ends with the handler.
type Payload struct {
	ctx context.Context
	run func(context.Context)
}

// WithEffectHandler registers a task effect handler.
//
// Every task runs in its own goroutine, so a slow task never holds back the next one.
// The handler only acknowledges that the task was started; the result travels
// through the channel returned by Effect.
// The teardown cancels running tasks and waits for them to return.
func WithEffectHandler(
	ctx context.Context,
	bufferSize int,
) (context.Context, func() context.Context) {
	r := &runner{}
	return effects.WithResumableEffectHandler(
		ctx,
		bufferSize,
		effectmodel.EffectTask,
		r.start,
		r.wait,
	)
}

// Effect performs fn as a task and returns a channel with its single result.
//
// If the task could not be started the channel yields the reason instead.
// Panics if no task handler is registered.
func Effect[R any](ctx context.Context, fn func(context.Context) (R, error)) <-chan Result[R] {
	out := make(chan Result[R], 1)
	var once sync.Once
	settle := func(res Result[R]) {
		once.Do(func() {
			out <- res
			close(out)
		})
	}

	payload := Payload{
		ctx: ctx,
		run: func(runCtx context.Context) {
			settle(effectmodel.ResumableResultFrom(fn(runCtx)))
		},
	}
	// a payload queued before ctx ended may still start; settle keeps the first outcome
	if _, err := effects.AwaitResumableEffect[Payload, struct{}](ctx, effectmodel.EffectTask, payload); err != nil {
		settle(Result[R]{Err: err})
	}
	return out
}

// Run is Effect when a task handler is installed in ctx, and a bare goroutine otherwise.
func Run[R any](ctx context.Context, fn func(context.Context) (R, error)) <-chan Result[R] {
	if effects.HasHandler(ctx, effectmodel.EffectTask) {
		return Effect(ctx, fn)
	}
	out := make(chan Result[R], 1)
	go func() {
		out <- effectmodel.ResumableResultFrom(fn(ctx))
		close(out)
	}()
	return out
}

type runner struct {
	mu     sync.Mutex
	wg     sync.WaitGroup
	closed bool
}

func (r *runner) start(handlerCtx context.Context, payload Payload) (struct{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return struct{}{}, effectmodel.ErrNoEffectHandler
	}

	runCtx, cancel := context.WithCancel(payload.ctx)
	stop := context.AfterFunc(handlerCtx, cancel)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer cancel()
		defer stop()
		payload.run(runCtx)
	}()
	return struct{}{}, nil
}

func (r *runner) wait() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.wg.Wait()
}
