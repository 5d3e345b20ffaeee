package cache

import "time"

// Payload is a sealed interface for cache operations performed as effects.
// Payloads are partitioned by key, so operations on one key run in issue order.
type Payload interface {
	PartitionKey() string
	payload()
}

var (
	_ Payload = Get{}
	_ Payload = IsValid{}
	_ Payload = Set{}
	_ Payload = Invalidate{}
)

// Get looks up the entry stored under Key.
type Get struct {
	Key string
}

func (p Get) PartitionKey() string { return p.Key }
func (p Get) payload()             {}

// IsValid checks whether Key holds an entry younger than MaxAge.
type IsValid struct {
	Key    string
	MaxAge time.Duration
}

func (p IsValid) PartitionKey() string { return p.Key }
func (p IsValid) payload()             {}

// Set replaces the entry under Key with Value stamped now.
type Set struct {
	Key   string
	Value any
}

func (p Set) PartitionKey() string { return p.Key }
func (p Set) payload()             {}

// Invalidate removes Key.
type Invalidate struct {
	Key string
}

func (p Invalidate) PartitionKey() string { return p.Key }
func (p Invalidate) payload()             {}

type lookup struct {
	entry Entry
	found bool
}
