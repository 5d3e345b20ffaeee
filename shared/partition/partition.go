// Package partition maps string keys onto a fixed number of slots.
//
// Effect workers and cache shards both use it, so a key lands on the same slot
// index in either as long as the slot counts match.
package partition

import "github.com/cespare/xxhash/v2"

// Of is the slot of key among n slots. n <= 1 always yields 0.
func Of(key string, n int) int {
	if n <= 1 {
		return 0
	}
	return int(xxhash.Sum64String(key) % uint64(n))
}
