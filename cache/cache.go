package cache

import (
	"time"

	"github.com/on-the-ground/effect_ive_ui/effects"
	"github.com/on-the-ground/effect_ive_ui/metrics"
	"go.uber.org/zap"
)

// Op names the change an Event reports.
type Op string

const (
	OpSet        Op = "set"
	OpInvalidate Op = "invalidate"
)

// Event reports a change of one key, stamped with the instant it happened.
type Event struct {
	Op   Op
	Key  string
	Span effects.TimeSpan
}

var _ effects.TimeBounded = Event{}

func (e Event) TimeSpan() effects.TimeSpan { return e.Span }

// TimedCache is a keyed memoization store whose entries carry their creation time.
//
// Freshness is decided by the reader through IsValid; nothing is ever evicted
// automatically, so the cache grows until keys are invalidated.
// Store failures are logged and behave as a miss or a no-op.
type TimedCache struct {
	store   Store
	clock   Clock
	metrics *metrics.Metrics
	logger  *zap.Logger
	sink    chan Event
}

type Option func(*TimedCache)

func WithStore(store Store) Option {
	return func(tc *TimedCache) { tc.store = store }
}

func WithClock(clock Clock) Option {
	return func(tc *TimedCache) { tc.clock = clock }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(tc *TimedCache) { tc.metrics = m }
}

func WithLogger(logger *zap.Logger) Option {
	return func(tc *TimedCache) { tc.logger = logger }
}

// WithEventSink makes every Set and Invalidate publish an Event on a channel
// of the given size. Events are dropped while the channel is full.
func WithEventSink(size int) Option {
	return func(tc *TimedCache) {
		if size > 0 {
			tc.sink = make(chan Event, size)
		}
	}
}

func New(opts ...Option) *TimedCache {
	tc := &TimedCache{}
	for _, opt := range opts {
		opt(tc)
	}
	if tc.store == nil {
		tc.store = NewShardedStore(1)
	}
	if tc.clock == nil {
		tc.clock = SystemClock
	}
	if tc.logger == nil {
		tc.logger = zap.NewNop()
	}
	return tc
}

// Events is the event channel, nil unless WithEventSink was given.
func (tc *TimedCache) Events() <-chan Event {
	return tc.sink
}

func (tc *TimedCache) Get(key string) (Entry, bool) {
	e, ok := tc.load(metrics.OpGet, key)
	if ok {
		tc.metrics.RecordCacheOp(metrics.OpGet, metrics.ResultHit)
	} else {
		tc.metrics.RecordCacheOp(metrics.OpGet, metrics.ResultMiss)
	}
	return e, ok
}

// IsValid reports whether key holds an entry younger than maxAge.
func (tc *TimedCache) IsValid(key string, maxAge time.Duration) bool {
	e, ok := tc.load(metrics.OpIsValid, key)
	switch {
	case !ok:
		tc.metrics.RecordCacheOp(metrics.OpIsValid, metrics.ResultMiss)
		return false
	case e.FreshAt(tc.clock.Now(), maxAge):
		tc.metrics.RecordCacheOp(metrics.OpIsValid, metrics.ResultFresh)
		return true
	default:
		tc.metrics.RecordCacheOp(metrics.OpIsValid, metrics.ResultStale)
		return false
	}
}

// Set stores value under key stamped with the current time, replacing any entry.
func (tc *TimedCache) Set(key string, value any) {
	now := tc.clock.Now()
	if err := tc.store.Store(key, Entry{Value: value, CreatedAt: now}); err != nil {
		tc.storeFailed(metrics.OpSet, key, err)
		return
	}
	tc.metrics.RecordCacheOp(metrics.OpSet, metrics.ResultOK)
	tc.changed(OpSet, key, now)
}

// Invalidate removes key. Removing an absent key is a no-op.
func (tc *TimedCache) Invalidate(key string) {
	if err := tc.store.Delete(key); err != nil {
		tc.storeFailed(metrics.OpInvalidate, key, err)
		return
	}
	tc.metrics.RecordCacheOp(metrics.OpInvalidate, metrics.ResultOK)
	tc.changed(OpInvalidate, key, tc.clock.Now())
}

func (tc *TimedCache) Len() int {
	return len(tc.Keys())
}

func (tc *TimedCache) Keys() []string {
	keys, err := tc.store.Keys()
	if err != nil {
		tc.logger.Warn("fail to list cache keys", zap.Error(err))
		return nil
	}
	return keys
}

func (tc *TimedCache) load(op, key string) (Entry, bool) {
	e, ok, err := tc.store.Load(key)
	if err != nil {
		tc.storeFailed(op, key, err)
		return Entry{}, false
	}
	return e, ok
}

func (tc *TimedCache) storeFailed(op, key string, err error) {
	tc.metrics.RecordCacheOp(op, metrics.ResultFailed)
	tc.logger.Warn("cache store failure",
		zap.String("op", op),
		zap.String("key", key),
		zap.Error(err),
	)
}

func (tc *TimedCache) changed(op Op, key string, at time.Time) {
	if tc.metrics != nil {
		tc.metrics.SetCacheEntries(tc.Len())
	}
	if tc.sink == nil {
		return
	}
	select {
	case tc.sink <- Event{Op: op, Key: key, Span: effects.InstantSpan(at)}:
		tc.metrics.RecordCacheEvent(true)
	default:
		tc.metrics.RecordCacheEvent(false)
		tc.logger.Debug("cache event dropped", zap.String("op", string(op)), zap.String("key", key))
	}
}
