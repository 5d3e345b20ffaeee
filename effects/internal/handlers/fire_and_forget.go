package handlers

import "context"

type FireAndForgetHandler[P any] struct {
	*effectScope[P]
}

func NewFireAndForgetHandler[P any](
	ctx context.Context,
	bufferSize int,
	handleFn func(context.Context, P),
	teardown func(),
) FireAndForgetHandler[P] {
	ctx, cancel := context.WithCancel(ctx)
	dispatcher := NewSingleQueue(ctx, bufferSize, handleFn)
	return FireAndForgetHandler[P]{newEffectScope(dispatcher, cancel, teardown)}
}

// FireAndForgetEffect enqueues the payload without waiting for it to be handled.
// It reports false when the payload was dropped because ctx or the handler ended.
func (ffh FireAndForgetHandler[P]) FireAndForgetEffect(ctx context.Context, payload P) bool {
	return ffh.send(ctx, payload)
}
