package fetch_test

//go:generate mockgen -destination mock_transport_test.go -package fetch_test -write_package_comment=false github.com/on-the-ground/effect_ive_ui/transport Fetcher

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/on-the-ground/effect_ive_ui/cache"
	"github.com/on-the-ground/effect_ive_ui/metrics"
	"github.com/on-the-ground/effect_ive_ui/transport"
	"github.com/stretchr/testify/require"
)

const usersURL = "https://jsonplaceholder.typicode.com/users"

type user struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

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

func newCache(clock cache.Clock) *cache.TimedCache {
	return cache.New(cache.WithClock(clock))
}

func jsonResponse(status int, body string) *transport.Response {
	return &transport.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       []byte(body),
	}
}

func names(users *[]user) []string {
	if users == nil {
		return nil
	}
	out := make([]string, 0, len(*users))
	for _, u := range *users {
		out = append(out, u.Name)
	}
	return out
}

// counterValue reads counter name from the registry of m. An empty label matches
// the series without labels, otherwise the series carrying that label value.
func counterValue(t *testing.T, m *metrics.Metrics, name, label string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			if label == "" && len(metric.GetLabel()) == 0 {
				return metric.GetCounter().GetValue()
			}
			for _, pair := range metric.GetLabel() {
				if pair.GetValue() == label {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}
