package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cache operation labels.
const (
	OpGet        = "get"
	OpIsValid    = "is_valid"
	OpSet        = "set"
	OpInvalidate = "invalidate"

	ResultHit    = "hit"
	ResultMiss   = "miss"
	ResultFresh  = "fresh"
	ResultStale  = "stale"
	ResultOK     = "ok"
	ResultFailed = "store_error"
)

// Fetch outcomes.
const (
	FetchCached     = "cached"
	FetchSuccess    = "success"
	FetchFailure    = "failure"
	FetchSuperseded = "superseded"
)

// Metrics holds the collectors of one cache/fetch stack on a private registry.
// All methods are safe on a nil receiver.
type Metrics struct {
	registry      *prometheus.Registry
	cacheOps      *prometheus.CounterVec
	cacheEntries  prometheus.Gauge
	cacheEvents   *prometheus.CounterVec
	fetches       *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	fetchShared   prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	cacheOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ui_cache_operations_total",
		Help: "Total timed cache operations",
	}, []string{"op", "result"})

	cacheEntries := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ui_cache_entries",
		Help: "Entries currently held by the timed cache",
	})

	cacheEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ui_cache_events_total",
		Help: "Cache change events by delivery",
	}, []string{"delivery"})

	fetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ui_fetch_total",
		Help: "Cached fetch loads by outcome",
	}, []string{"outcome"})

	fetchDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ui_fetch_duration_seconds",
		Help:    "Transport round trip of cached fetch loads",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})

	fetchShared := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ui_fetch_shared_total",
		Help: "Loads answered by a transport call already in flight",
	})

	registry.MustRegister(cacheOps, cacheEntries, cacheEvents, fetches, fetchDuration, fetchShared)

	return &Metrics{
		registry:      registry,
		cacheOps:      cacheOps,
		cacheEntries:  cacheEntries,
		cacheEvents:   cacheEvents,
		fetches:       fetches,
		fetchDuration: fetchDuration,
		fetchShared:   fetchShared,
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordCacheOp(op, result string) {
	if m == nil {
		return
	}
	m.cacheOps.WithLabelValues(op, result).Inc()
}

func (m *Metrics) SetCacheEntries(n int) {
	if m == nil {
		return
	}
	m.cacheEntries.Set(float64(n))
}

// RecordCacheEvent counts a change event as delivered or dropped on a full sink.
func (m *Metrics) RecordCacheEvent(delivered bool) {
	if m == nil {
		return
	}
	delivery := "delivered"
	if !delivered {
		delivery = "dropped"
	}
	m.cacheEvents.WithLabelValues(delivery).Inc()
}

func (m *Metrics) RecordFetch(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(outcome).Inc()
	if outcome != FetchCached {
		m.fetchDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	}
}

func (m *Metrics) RecordSharedFetch() {
	if m == nil {
		return
	}
	m.fetchShared.Inc()
}
