package cache

import (
	"time"

	"github.com/on-the-ground/effect_ive_ui/effects"
)

// Entry is a cached value and the instant it was written.
// Entries are replaced, never mutated.
type Entry struct {
	Value     any
	CreatedAt time.Time
}

func (e Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.CreatedAt)
}

// FreshAt reports whether the entry is strictly younger than maxAge at now.
// An entry exactly maxAge old is stale.
func (e Entry) FreshAt(now time.Time, maxAge time.Duration) bool {
	return e.Age(now) < maxAge
}

// Window is the span during which the entry counts as fresh for maxAge.
func (e Entry) Window(maxAge time.Duration) effects.TimeSpan {
	return effects.SpanBetween(e.CreatedAt, e.CreatedAt.Add(maxAge))
}

// Clock is the time source of a TimedCache.
type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)
