package handlers

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// effectScope owns the workers of one registered handler.
// Close cancels the workers and runs the teardown exactly once.
type effectScope[T any] struct {
	EffectId   string
	dispatcher WorkerDispatcher[T]
	closeOnce  sync.Once
	closeFn    func()
}

func (es *effectScope[T]) Close() {
	es.closeOnce.Do(es.closeFn)
}

// send delivers msg to its worker unless the caller gives up or the scope is closed.
func (es *effectScope[T]) send(ctx context.Context, msg T) bool {
	select {
	case <-es.dispatcher.Done():
		return false
	default:
	}
	select {
	case <-ctx.Done():
		return false
	case <-es.dispatcher.Done():
		return false
	case es.dispatcher.GetChannelOf(msg) <- msg:
		return true
	}
}

func newEffectScope[T any](
	dispatcher WorkerDispatcher[T],
	cancelFn context.CancelFunc,
	teardown func(),
) *effectScope[T] {
	return &effectScope[T]{
		EffectId:   uuid.New().String(),
		dispatcher: dispatcher,
		closeFn: func() {
			cancelFn()
			teardown()
		},
	}
}
