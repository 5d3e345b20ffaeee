package handlers

import (
	"context"

	effectmodel "github.com/on-the-ground/effect_ive_ui/effects/model"
)

// request carries a payload to its worker and the result back to the caller.
// reply is buffered so the worker never waits on a caller that gave up.
type request[P any, R any] struct {
	payload P
	reply   chan effectmodel.ResumableResult[R]
}

// PartitionKey routes the request by its payload; payloads without a key share worker 0.
func (r request[P, R]) PartitionKey() string {
	if p, ok := any(r.payload).(effectmodel.Partitionable); ok {
		return p.PartitionKey()
	}
	return ""
}

func answer[P any, R any](handleFn func(context.Context, P) (R, error)) func(context.Context, request[P, R]) {
	return func(ctx context.Context, r request[P, R]) {
		r.reply <- effectmodel.ResumableResultFrom(handleFn(ctx, r.payload))
		close(r.reply)
	}
}

type ResumableHandler[P any, R any] struct {
	*effectScope[request[P, R]]
}

func NewResumableHandler[P any, R any](
	ctx context.Context,
	bufferSize int,
	handleFn func(context.Context, P) (R, error),
	teardown func(),
) ResumableHandler[P, R] {
	ctx, cancel := context.WithCancel(ctx)
	dispatcher := NewSingleQueue(ctx, bufferSize, answer(handleFn))
	return ResumableHandler[P, R]{newEffectScope(dispatcher, cancel, teardown)}
}

func NewPartitionableResumableHandler[P effectmodel.Partitionable, R any](
	ctx context.Context,
	config effectmodel.EffectScopeConfig,
	handleFn func(context.Context, P) (R, error),
	teardown func(),
) ResumableHandler[P, R] {
	ctx, cancel := context.WithCancel(ctx)
	dispatcher := NewPartitionedQueue(ctx, config.NumWorkers, config.BufferSize, answer(handleFn))
	return ResumableHandler[P, R]{newEffectScope(dispatcher, cancel, teardown)}
}

// PerformEffect hands the payload to the worker owning it.
// The returned channel yields exactly one result, or is closed without one
// when the caller's context or the handler ended before the payload was handled.
func (rh ResumableHandler[P, R]) PerformEffect(ctx context.Context, payload P) <-chan effectmodel.ResumableResult[R] {
	reply := make(chan effectmodel.ResumableResult[R], 1)
	if !rh.send(ctx, request[P, R]{payload: payload, reply: reply}) {
		close(reply)
	}
	return reply
}
