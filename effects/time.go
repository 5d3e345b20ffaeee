package effects

import (
	"time"

	"github.com/rickb777/date/v2/timespan"
)

// TimeSpan is the window an effect outcome is known to hold for.
type TimeSpan = timespan.TimeSpan

// ClockTolerance widens an instant into a span when ordering events from different clocks.
const ClockTolerance = time.Millisecond

// SpanBetween covers [from, to).
func SpanBetween(from, to time.Time) TimeSpan {
	return timespan.BetweenTimes(from, to)
}

// InstantSpan is t widened by ClockTolerance on both sides.
func InstantSpan(t time.Time) TimeSpan {
	return SpanBetween(t.Add(-ClockTolerance), t.Add(ClockTolerance))
}

// TimeBounded is implemented by outcomes that carry their TimeSpan.
type TimeBounded interface {
	TimeSpan() TimeSpan
}
