package handlers

import (
	"context"
	"sync"

	effectmodel "github.com/on-the-ground/effect_ive_ui/effects/model"
	"github.com/on-the-ground/effect_ive_ui/shared/partition"
)

// WorkerDispatcher routes a message to the inbox of the worker that owns it.
// Done is closed once the workers stopped consuming.
type WorkerDispatcher[T any] interface {
	GetChannelOf(msg T) chan<- T
	Done() <-chan struct{}
}

// --- single queue ---

type singleQueue[T any] struct {
	effectCh chan T
	done     <-chan struct{}
}

func (q singleQueue[T]) GetChannelOf(_ T) chan<- T {
	return q.effectCh
}

func (q singleQueue[T]) Done() <-chan struct{} {
	return q.done
}

// NewSingleQueue starts one worker; messages are handled in arrival order.
func NewSingleQueue[T any](
	ctx context.Context,
	bufferSize int,
	handleFn func(context.Context, T),
) WorkerDispatcher[T] {
	effCh := make(chan T, bufferSize)
	ready := make(chan struct{})

	go func() {
		close(ready)
		work(ctx, effCh, handleFn)
	}()
	<-ready

	return singleQueue[T]{effectCh: effCh, done: ctx.Done()}
}

// --- partitioned queue ---

type partitionedQueue[T effectmodel.Partitionable] struct {
	effectChs []chan T
	done      <-chan struct{}
}

func (pq partitionedQueue[T]) GetChannelOf(msg T) chan<- T {
	return pq.effectChs[partition.Of(msg.PartitionKey(), len(pq.effectChs))]
}

func (pq partitionedQueue[T]) Done() <-chan struct{} {
	return pq.done
}

// NewPartitionedQueue starts numWorkers workers. Messages sharing a partition key
// always land on the same worker, so they are handled in arrival order.
func NewPartitionedQueue[T effectmodel.Partitionable](
	ctx context.Context,
	numWorkers, bufferSize int,
	handleFn func(context.Context, T),
) WorkerDispatcher[T] {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	channels := make([]chan T, numWorkers)
	ready := sync.WaitGroup{}
	for i := range channels {
		ready.Add(1)
		ch := make(chan T, bufferSize)
		go func() {
			ready.Done()
			work(ctx, ch, handleFn)
		}()
		channels[i] = ch
	}
	ready.Wait()
	return partitionedQueue[T]{effectChs: channels, done: ctx.Done()}
}

func work[T any](ctx context.Context, ch <-chan T, handleFn func(context.Context, T)) {
	for {
		select {
		case msg := <-ch:
			handleFn(ctx, msg)
		case <-ctx.Done():
			return
		}
	}
}
