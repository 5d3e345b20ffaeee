package fetch

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/on-the-ground/effect_ive_ui/effects/binding"
	"github.com/on-the-ground/effect_ive_ui/effects/concurrency"
	"github.com/on-the-ground/effect_ive_ui/effects/configkeys"
	"github.com/on-the-ground/effect_ive_ui/effects/log"
)

const DefaultMaxAge = 5 * time.Minute

// Binding keeps a consumer attached to the state of one key.
//
// Bind starts a load right away; Rebind starts over on another key or max age;
// Cancel ends the lifecycle. Loads run under the concurrency effect when one is
// installed in the bind context.
type Binding[T any] struct {
	Id string

	ctx    context.Context
	cancel context.CancelFunc
	deps   Deps
	opts   []Option

	mu          sync.Mutex
	ctrl        *Controller[T]
	loadCtx     context.Context
	loadCancel  context.CancelFunc
	unsubscribe func()
	updates     chan State[T]
	closed      bool
}

// Bind attaches to key. A maxAge <= 0 falls back to DefaultMaxAgeOf(ctx).
func Bind[T any](ctx context.Context, key string, maxAge time.Duration, deps Deps, opts ...Option) *Binding[T] {
	opts = append(optionsFromBindings(ctx), opts...)
	ctx, cancel := context.WithCancel(ctx)
	b := &Binding[T]{
		Id:      uuid.NewString(),
		ctx:     ctx,
		cancel:  cancel,
		deps:    deps,
		opts:    opts,
		updates: make(chan State[T], 1),
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.startLocked(key, maxAge)
	return b
}

// DefaultMaxAgeOf reads the default max age from the binding effect, either as a
// time.Duration or as a string for time.ParseDuration, and falls back to DefaultMaxAge.
func DefaultMaxAgeOf(ctx context.Context) time.Duration {
	if !binding.HasHandler(ctx) {
		return DefaultMaxAge
	}
	v, err := binding.Effect(ctx, configkeys.ConfigFetchDefaultMaxAge)
	if err != nil {
		return DefaultMaxAge
	}
	switch v := v.(type) {
	case time.Duration:
		if v > 0 {
			return v
		}
	case string:
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
		log.TryEffect(ctx, log.LogWarn, "invalid default max age", map[string]interface{}{
			"value": v,
		})
	}
	return DefaultMaxAge
}

func optionsFromBindings(ctx context.Context) []Option {
	if binding.GetOrDefault(ctx, configkeys.ConfigFetchKeepStaleData, false) {
		return []Option{KeepStaleData()}
	}
	return nil
}

func (b *Binding[T]) Key() string {
	return b.current().Key()
}

func (b *Binding[T]) MaxAge() time.Duration {
	return b.current().MaxAge()
}

func (b *Binding[T]) State() State[T] {
	return b.current().State()
}

// Updates carries the latest state of the current key. It is closed by Cancel.
func (b *Binding[T]) Updates() <-chan State[T] {
	return b.updates
}

// Refresh refetches the current key in the background.
func (b *Binding[T]) Refresh() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	ctrl := b.ctrl
	concurrency.Go(b.loadCtx, func(ctx context.Context) {
		ctrl.Refresh(ctx)
	})
}

// Rebind discards the current key's request and loads key from scratch.
func (b *Binding[T]) Rebind(key string, maxAge time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.stopLocked()
	b.startLocked(key, maxAge)
}

// Cancel ends the binding. Outstanding requests are discarded and Updates is closed.
func (b *Binding[T]) Cancel() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	log.TryEffect(b.ctx, log.LogDebug, "fetch binding cancelled", map[string]interface{}{
		"binding": b.Id,
		"key":     b.ctrl.Key(),
	})
	b.closed = true
	b.stopLocked()
	b.cancel()
	close(b.updates)
}

func (b *Binding[T]) current() *Controller[T] {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ctrl
}

func (b *Binding[T]) startLocked(key string, maxAge time.Duration) {
	if maxAge <= 0 {
		maxAge = DefaultMaxAgeOf(b.ctx)
	}
	ctrl := NewController[T](key, maxAge, b.deps, b.opts...)
	states, unsubscribe := ctrl.Subscribe()
	loadCtx, loadCancel := context.WithCancel(b.ctx)

	b.ctrl = ctrl
	b.loadCtx = loadCtx
	b.loadCancel = loadCancel
	b.unsubscribe = unsubscribe

	concurrency.Go(loadCtx, func(ctx context.Context) {
		b.forward(ctx, ctrl, states)
	})
	concurrency.Go(loadCtx, func(ctx context.Context) {
		ctrl.Load(ctx)
	})
}

func (b *Binding[T]) stopLocked() {
	b.ctrl.Abandon()
	b.unsubscribe()
	b.loadCancel()
}

// forward copies the states of ctrl to Updates for as long as ctrl is current.
func (b *Binding[T]) forward(ctx context.Context, ctrl *Controller[T], states <-chan State[T]) {
	for {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-states:
			if !ok {
				return
			}
			b.mu.Lock()
			if !b.closed && b.ctrl == ctrl {
				select {
				case <-b.updates:
				default:
				}
				b.updates <- s
			}
			b.mu.Unlock()
		}
	}
}
