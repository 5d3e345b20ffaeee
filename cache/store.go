package cache

import (
	"slices"
	"sync"

	"github.com/on-the-ground/effect_ive_ui/shared/partition"
)

// Store is the storage backend of a TimedCache.
// Implementations must be safe for concurrent use and must not evict on their own.
type Store interface {
	Load(key string) (Entry, bool, error)
	Store(key string, entry Entry) error
	Delete(key string) error
	Keys() ([]string, error)
}

type shard struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// ShardedStore is an in-memory Store split over lock-striped shards.
type ShardedStore struct {
	shards []*shard
}

var _ Store = (*ShardedStore)(nil)

// NewShardedStore creates a store with n shards; n <= 0 means one shard.
func NewShardedStore(n int) *ShardedStore {
	if n <= 0 {
		n = 1
	}
	shards := make([]*shard, n)
	for i := range shards {
		shards[i] = &shard{entries: make(map[string]Entry)}
	}
	return &ShardedStore{shards: shards}
}

func (s *ShardedStore) shardOf(key string) *shard {
	return s.shards[partition.Of(key, len(s.shards))]
}

func (s *ShardedStore) Load(key string) (Entry, bool, error) {
	sh := s.shardOf(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	e, ok := sh.entries[key]
	return e, ok, nil
}

func (s *ShardedStore) Store(key string, entry Entry) error {
	sh := s.shardOf(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.entries[key] = entry
	return nil
}

func (s *ShardedStore) Delete(key string) error {
	sh := s.shardOf(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	delete(sh.entries, key)
	return nil
}

// Keys returns every key in ascending order.
func (s *ShardedStore) Keys() ([]string, error) {
	var keys []string
	for _, sh := range s.shards {
		sh.mu.RLock()
		for k := range sh.entries {
			keys = append(keys, k)
		}
		sh.mu.RUnlock()
	}
	slices.Sort(keys)
	return keys, nil
}
