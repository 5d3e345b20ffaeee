package concurrency

import (
	"context"
	"sync"

	"github.com/on-the-ground/effect_ive_ui/effects"
	"github.com/on-the-ground/effect_ive_ui/effects/log"
	effectmodel "github.com/on-the-ground/effect_ive_ui/effects/model"
)

// WithEffectHandler installs a fire-and-forget concurrency effect handler.
//
// It allows `Effect(ctx, fns...)` to spawn goroutines under a managed scope.
//
//   - Each child runs with a context derived from the caller's context.
//   - Children are cancelled when the registration context ends.
//   - The returned teardown cancels the remaining children and waits for them.
func WithEffectHandler(
	ctx context.Context,
	bufferSize int,
) (context.Context, func() context.Context) {
	sv := &supervisor{
		cancels: make(map[uint64]context.CancelFunc),
		doneCh:  make(chan struct{}),
	}
	sv.watchParentCancel(ctx)

	return effects.WithFireAndForgetEffectHandler(
		ctx,
		bufferSize,
		effectmodel.EffectConcurrency,
		sv.spawnConcurrentChildren,
		func() {
			sv.cancelChildren()
			sv.waitChildren(ctx)
			close(sv.doneCh)
		},
	)
}

// Effect spawns every fn in its own goroutine under the installed supervisor.
// Panics if no concurrency handler is registered.
func Effect(ctx context.Context, fns ...func(context.Context)) {
	effects.FireAndForgetEffect(ctx, effectmodel.EffectConcurrency, Payload{ctx: ctx, fns: fns})
}

// Go spawns fn under the supervisor when one is installed in ctx,
// or as a bare goroutine otherwise.
func Go(ctx context.Context, fn func(context.Context)) {
	if effects.HasHandler(ctx, effectmodel.EffectConcurrency) {
		Effect(ctx, fn)
		return
	}
	go fn(ctx)
}

type Payload struct {
	ctx context.Context
	fns []func(context.Context)
}

// supervisor tracks the children spawned through the concurrency effect.
// Panics in children are recovered and logged.
type supervisor struct {
	mu      sync.Mutex
	wg      sync.WaitGroup
	nextId  uint64
	cancels map[uint64]context.CancelFunc
	closed  bool
	doneCh  chan struct{}
}

// watchParentCancel cancels every child once the registration context ends.
func (s *supervisor) watchParentCancel(parentContext context.Context) {
	ready := make(chan struct{})
	go func() {
		close(ready)
		select {
		case <-parentContext.Done():
			log.TryEffect(parentContext, log.LogInfo, "context cancelled, cancelling all routines", nil)
			s.cancelChildren()
		case <-s.doneCh:
		}
	}()
	<-ready
}

func (s *supervisor) cancelChildren() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for _, cancelFn := range s.cancels {
		cancelFn()
	}
}

// spawnConcurrentChildren starts each function in its own goroutine with its own context.
func (s *supervisor) spawnConcurrentChildren(_ context.Context, payload Payload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		log.TryEffect(payload.ctx, log.LogWarn, "supervisor closed, routines dropped", map[string]interface{}{
			"dropped": len(payload.fns),
		})
		return
	}

	for _, fn := range payload.fns {
		childCtx, cancel := context.WithCancel(payload.ctx)
		id := s.nextId
		s.nextId++
		s.cancels[id] = cancel
		s.wg.Add(1)
		go s.run(childCtx, id, fn)
	}
}

func (s *supervisor) run(ctx context.Context, id uint64, fn func(context.Context)) {
	defer s.wg.Done()
	defer s.forget(id)
	defer func() {
		if r := recover(); r != nil {
			log.TryEffect(ctx, log.LogError, "panic in child routine", map[string]interface{}{
				"error": r,
			})
		}
	}()
	fn(ctx)
}

func (s *supervisor) forget(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cancel, ok := s.cancels[id]; ok {
		cancel()
		delete(s.cancels, id)
	}
}

// waitChildren blocks until all child goroutines complete.
func (s *supervisor) waitChildren(ctx context.Context) {
	log.TryEffect(ctx, log.LogDebug, "waiting for all routines to finish", nil)
	s.wg.Wait()
	log.TryEffect(ctx, log.LogDebug, "all routines finished", nil)
}
