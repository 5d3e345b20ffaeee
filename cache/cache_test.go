package cache_test

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/on-the-ground/effect_ive_ui/cache"
	"github.com/on-the-ground/effect_ive_ui/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestTimedCache_ValidityFollowsClock(t *testing.T) {
	clock := newManualClock()
	tc := cache.New(cache.WithClock(clock))

	tc.Set("k", 1)
	assert.True(t, tc.IsValid("k", time.Second))

	clock.Advance(1001 * time.Millisecond)
	assert.False(t, tc.IsValid("k", time.Second))

	e, ok := tc.Get("k")
	require.True(t, ok, "a stale entry is still readable")
	assert.Equal(t, 1, e.Value)
}

func TestTimedCache_EntryExactlyMaxAgeIsStale(t *testing.T) {
	clock := newManualClock()
	tc := cache.New(cache.WithClock(clock))

	tc.Set("k", "v")
	clock.Advance(time.Minute)

	assert.False(t, tc.IsValid("k", time.Minute))
	assert.True(t, tc.IsValid("k", time.Minute+time.Nanosecond))
}

func TestTimedCache_AbsentKeyIsNeverValid(t *testing.T) {
	tc := cache.New()

	assert.False(t, tc.IsValid("missing", time.Hour))
	_, ok := tc.Get("missing")
	assert.False(t, ok)
}

func TestTimedCache_SetOverwritesAndRestamps(t *testing.T) {
	clock := newManualClock()
	tc := cache.New(cache.WithClock(clock))

	tc.Set("k", "old")
	first, _ := tc.Get("k")

	clock.Advance(10 * time.Second)
	tc.Set("k", "new")

	e, ok := tc.Get("k")
	require.True(t, ok)
	assert.Equal(t, "new", e.Value)
	assert.Equal(t, first.CreatedAt.Add(10*time.Second), e.CreatedAt)
	assert.True(t, tc.IsValid("k", 5*time.Second))
}

func TestTimedCache_InvalidateIsIdempotent(t *testing.T) {
	tc := cache.New()
	tc.Set("k", 1)
	tc.Set("other", 2)

	tc.Invalidate("k")
	tc.Invalidate("k")
	tc.Invalidate("never-set")

	_, ok := tc.Get("k")
	assert.False(t, ok)
	assert.Equal(t, []string{"other"}, tc.Keys())
	assert.Equal(t, 1, tc.Len())
}

func TestTimedCache_EventsAreStampedAndDroppedWhenFull(t *testing.T) {
	clock := newManualClock()
	m := metrics.New()
	tc := cache.New(cache.WithClock(clock), cache.WithEventSink(1), cache.WithMetrics(m))

	tc.Set("a", 1)
	tc.Invalidate("a")

	ev := <-tc.Events()
	assert.Equal(t, cache.OpSet, ev.Op)
	assert.Equal(t, "a", ev.Key)
	assert.True(t, ev.TimeSpan().Contains(clock.Now()))

	select {
	case ev := <-tc.Events():
		t.Fatalf("second event should have been dropped, got %+v", ev)
	default:
	}

	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(`
# HELP ui_cache_events_total Cache change events by delivery
# TYPE ui_cache_events_total counter
ui_cache_events_total{delivery="delivered"} 1
ui_cache_events_total{delivery="dropped"} 1
`), "ui_cache_events_total"))
}

type failingStore struct{}

var errBroken = errors.New("broken store")

func (failingStore) Load(string) (cache.Entry, bool, error) { return cache.Entry{}, false, errBroken }
func (failingStore) Store(string, cache.Entry) error       { return errBroken }
func (failingStore) Delete(string) error                   { return errBroken }
func (failingStore) Keys() ([]string, error)               { return nil, errBroken }

func TestTimedCache_StoreFailuresAreLoggedAsMiss(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	tc := cache.New(cache.WithStore(failingStore{}), cache.WithLogger(zap.New(core)))

	assert.NotPanics(t, func() {
		tc.Set("k", 1)
		tc.Invalidate("k")
	})
	assert.False(t, tc.IsValid("k", time.Hour))
	_, ok := tc.Get("k")
	assert.False(t, ok)
	assert.Zero(t, tc.Len())

	assert.Equal(t, 4, logs.FilterMessage("cache store failure").Len())
	assert.Equal(t, 1, logs.FilterMessage("fail to list cache keys").Len())
}

func TestEntry_Window(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	e := cache.Entry{Value: 1, CreatedAt: at}

	w := e.Window(5 * time.Minute)
	assert.Equal(t, at, w.Start())
	assert.Equal(t, at.Add(5*time.Minute), w.End())
	assert.Equal(t, 90*time.Second, e.Age(at.Add(90*time.Second)))
}
