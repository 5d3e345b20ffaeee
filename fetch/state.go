package fetch

// State is what a consumer renders for one key.
//
// Loading is true exactly while a request of the current generation is outstanding.
// Data is replaced on success only; whether a failure clears it depends on KeepStaleData.
type State[T any] struct {
	Data       *T
	Loading    bool
	Err        string
	Generation uint64
}

func (s State[T]) Failed() bool {
	return s.Err != ""
}

type Options struct {
	// KeepStaleData leaves the last good Data in place when a request fails.
	KeepStaleData bool
}

type Option func(*Options)

func KeepStaleData() Option {
	return func(o *Options) { o.KeepStaleData = true }
}

func newOptions(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
