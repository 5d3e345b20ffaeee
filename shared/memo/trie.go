package memo

import "sync"

// Trie maps key paths to values. It keeps two generations of at most maxSize
// entries each; when the current one is full it becomes the previous one and the
// older previous generation is dropped. A hit in the previous generation is
// promoted to the current one.
type Trie[O any] struct {
	mu       sync.Mutex
	current  *node
	previous *node
	size     uint32
	maxSize  uint32
}

type node struct {
	children map[any]*node
	value    any
	hasValue bool
}

func newNode() *node {
	return &node{children: make(map[any]*node)}
}

func NewTrie[O any](maxSize uint32) *Trie[O] {
	if maxSize == 0 {
		panic("maxSize should be greater than 0")
	}
	return &Trie[O]{
		current:  newNode(),
		previous: newNode(),
		maxSize:  maxSize,
	}
}

func (t *Trie[O]) Load(keys []any) (O, bool) {
	mustHaveKeys(keys)
	t.mu.Lock()
	defer t.mu.Unlock()

	if n := find(t.current, keys); n != nil && n.hasValue {
		return n.value.(O), true
	}
	if n := find(t.previous, keys); n != nil && n.hasValue {
		v := n.value.(O)
		t.storeLocked(keys, v)
		return v, true
	}
	var zero O
	return zero, false
}

func (t *Trie[O]) Store(keys []any, value O) {
	mustHaveKeys(keys)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.storeLocked(keys, value)
}

// Len is the number of entries in the current generation.
func (t *Trie[O]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return int(t.size)
}

func (t *Trie[O]) storeLocked(keys []any, value O) {
	if t.size >= t.maxSize {
		t.previous = t.current
		t.current = newNode()
		t.size = 0
	}
	n := t.current
	for _, k := range keys {
		child, ok := n.children[k]
		if !ok {
			child = newNode()
			n.children[k] = child
		}
		n = child
	}
	if !n.hasValue {
		t.size++
	}
	n.value = value
	n.hasValue = true
}

func find(n *node, keys []any) *node {
	for _, k := range keys {
		child, ok := n.children[k]
		if !ok {
			return nil
		}
		n = child
	}
	return n
}

func mustHaveKeys(keys []any) {
	if len(keys) == 0 {
		panic("memo: empty key path")
	}
}
