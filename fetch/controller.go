package fetch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/on-the-ground/effect_ive_ui/cache"
	"github.com/on-the-ground/effect_ive_ui/effects/log"
	"github.com/on-the-ground/effect_ive_ui/effects/task"
	"github.com/on-the-ground/effect_ive_ui/metrics"
	"github.com/on-the-ground/effect_ive_ui/transport"
)

// Deps are the collaborators a Controller works with. Cache and Fetcher are required.
type Deps struct {
	Cache   *cache.TimedCache
	Fetcher transport.Fetcher
	Dedup   *Dedup
	Metrics *metrics.Metrics
}

// Controller loads one key through the cache and exposes the outcome as State.
//
// Every request is tagged with a generation. Only the newest generation may settle
// the state or write the cache, so a slow request finishing after a newer one is dropped.
// Transport calls run through the task effect when one is installed in the request context.
type Controller[T any] struct {
	key    string
	maxAge time.Duration
	deps   Deps
	opts   Options

	mu             sync.Mutex
	state          State[T]
	generation     uint64
	cancelInflight context.CancelFunc
	subs           map[uint64]chan State[T]
	nextSub        uint64
}

func NewController[T any](key string, maxAge time.Duration, deps Deps, opts ...Option) *Controller[T] {
	return &Controller[T]{
		key:    key,
		maxAge: maxAge,
		deps:   deps,
		opts:   newOptions(opts),
		subs:   make(map[uint64]chan State[T]),
	}
}

func (c *Controller[T]) Key() string { return c.key }

func (c *Controller[T]) MaxAge() time.Duration { return c.maxAge }

// Load settles from the cache when it holds a fresh T for the key, without ever
// reporting Loading. Otherwise it fetches, and returns once the request settled
// or was superseded. A Load whose ctx is already done changes nothing.
func (c *Controller[T]) Load(ctx context.Context) State[T] {
	if ctx.Err() != nil {
		return c.State()
	}
	if v, ok := c.fresh(); ok {
		return c.settleCached(ctx, v)
	}
	return c.fetch(ctx)
}

// Refresh drops the cached entry and fetches unconditionally.
func (c *Controller[T]) Refresh(ctx context.Context) State[T] {
	c.deps.Cache.Invalidate(c.key)
	c.deps.Dedup.Forget(c.key)
	return c.fetch(ctx)
}

// Abandon discards the outstanding request, if any, and clears Loading.
func (c *Controller[T]) Abandon() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.supersedeLocked()
	if c.state.Loading {
		c.state.Loading = false
		c.state.Generation = c.generation
		c.publishLocked()
	}
}

func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe delivers the current state, then every transition.
// A slow reader only sees the latest state. cancel closes the channel.
func (c *Controller[T]) Subscribe() (<-chan State[T], func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++
	ch := make(chan State[T], 1)
	ch <- c.state
	c.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subs, id)
			close(ch)
		})
	}
}

func (c *Controller[T]) fresh() (T, bool) {
	var zero T
	if !c.deps.Cache.IsValid(c.key, c.maxAge) {
		return zero, false
	}
	e, ok := c.deps.Cache.Get(c.key)
	if !ok {
		return zero, false
	}
	v, ok := e.Value.(T)
	return v, ok
}

func (c *Controller[T]) settleCached(ctx context.Context, v T) State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.supersedeLocked()
	c.state = State[T]{Data: &v, Generation: c.generation}
	c.publishLocked()
	c.deps.Metrics.RecordFetch(metrics.FetchCached, 0)
	log.TryEffect(ctx, log.LogDebug, "served from cache", map[string]interface{}{
		"key": c.key,
	})
	return c.state
}

func (c *Controller[T]) fetch(ctx context.Context) State[T] {
	c.mu.Lock()
	c.supersedeLocked()
	g := c.generation
	runCtx, cancel := context.WithCancel(ctx)
	c.cancelInflight = cancel
	c.state.Loading = true
	c.state.Err = ""
	c.state.Generation = g
	c.publishLocked()
	c.mu.Unlock()
	defer cancel()

	start := time.Now()
	v, err := c.retrieve(runCtx)
	return c.settle(ctx, g, v, err, time.Since(start))
}

// supersedeLocked starts a new generation and cancels the request of the previous one.
func (c *Controller[T]) supersedeLocked() {
	c.generation++
	if c.cancelInflight != nil {
		c.cancelInflight()
		c.cancelInflight = nil
	}
}

func (c *Controller[T]) retrieve(ctx context.Context) (T, error) {
	var zero T
	var res *transport.Response
	select {
	case r := <-task.Run(ctx, c.roundTrip):
		if r.Err != nil {
			return zero, r.Err
		}
		res = r.Value
	case <-ctx.Done():
		return zero, fmt.Errorf("%w: %v", ErrFetchFailed, ctx.Err())
	}

	var v T
	if err := res.JSON(&v); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return v, nil
}

func (c *Controller[T]) roundTrip(ctx context.Context) (*transport.Response, error) {
	res, shared, err := c.deps.Dedup.Fetch(ctx, c.deps.Fetcher, c.key)
	if shared {
		c.deps.Metrics.RecordSharedFetch()
	}
	switch {
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	case res == nil:
		return nil, fmt.Errorf("%w: empty response", ErrFetchFailed)
	case !res.OK():
		return nil, fmt.Errorf("%w: %s", ErrFetchFailed, statusOf(res))
	}
	return res, nil
}

func (c *Controller[T]) settle(ctx context.Context, g uint64, v T, err error, took time.Duration) State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	if g != c.generation {
		c.deps.Metrics.RecordFetch(metrics.FetchSuperseded, took)
		log.TryEffect(ctx, log.LogDebug, "superseded fetch discarded", map[string]interface{}{
			"key":        c.key,
			"generation": g,
			"current":    c.generation,
		})
		return c.state
	}
	c.cancelInflight = nil

	if err != nil {
		c.deps.Metrics.RecordFetch(metrics.FetchFailure, took)
		log.TryEffect(ctx, log.LogWarn, "fetch failed", map[string]interface{}{
			"key":   c.key,
			"error": err.Error(),
		})
		data := c.state.Data
		if !c.opts.KeepStaleData {
			data = nil
		}
		c.state = State[T]{Data: data, Err: err.Error(), Generation: g}
		c.publishLocked()
		return c.state
	}

	c.deps.Cache.Set(c.key, v)
	c.deps.Metrics.RecordFetch(metrics.FetchSuccess, took)
	c.state = State[T]{Data: &v, Generation: g}
	c.publishLocked()
	return c.state
}

// publishLocked hands the state to every subscriber, replacing what it has not read yet.
func (c *Controller[T]) publishLocked() {
	for _, ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- c.state:
		default:
		}
	}
}

func statusOf(res *transport.Response) string {
	if res.Status != "" {
		return res.Status
	}
	return fmt.Sprintf("status %d", res.StatusCode)
}
