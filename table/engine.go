package table

import (
	"slices"
	"sync"

	"github.com/on-the-ground/effect_ive_ui/shared/memo"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// sortedViewTableSize bounds how many sorted projections are kept per engine.
const sortedViewTableSize = 8

// Engine holds the sort and selection state of a table over caller-supplied rows.
//
// Row ids must be unique; duplicates are not detected. Callbacks run after the
// state change, outside the engine's lock.
type Engine[T any, ID comparable] struct {
	mu       sync.Mutex
	data     []T
	version  uint64
	columns  []Column[T]
	idOf     func(T) ID
	sort     *SortConfig
	selected []ID
	index    map[ID]struct{}
	rows     map[ID]struct{}

	onSort   func(SortConfig)
	onSelect func([]ID)
	lang     language.Tag
	collator *collate.Collator
	sorted   func(uint64, string, Direction) []T
}

type Option[T any, ID comparable] func(*Engine[T, ID])

func OnSort[T any, ID comparable](fn func(SortConfig)) Option[T, ID] {
	return func(e *Engine[T, ID]) { e.onSort = fn }
}

func OnSelect[T any, ID comparable](fn func([]ID)) Option[T, ID] {
	return func(e *Engine[T, ID]) { e.onSelect = fn }
}

// WithLanguage sets the collation used for string columns. Default: language.Und.
func WithLanguage[T any, ID comparable](tag language.Tag) Option[T, ID] {
	return func(e *Engine[T, ID]) { e.lang = tag }
}

func New[T any, ID comparable](data []T, columns []Column[T], idOf func(T) ID, opts ...Option[T, ID]) *Engine[T, ID] {
	e := &Engine[T, ID]{
		data:    data,
		columns: columns,
		idOf:    idOf,
		index:   make(map[ID]struct{}),
		lang:    language.Und,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.rows = e.rowIDs(data)
	e.collator = collate.New(e.lang)
	e.sorted = memo.MemoizeI3O1(e.sortData, sortedViewTableSize)
	return e
}

func (e *Engine[T, ID]) Columns() []Column[T] {
	return e.columns
}

func (e *Engine[T, ID]) Data() []T {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.data
}

// SortedView is the rows in display order. Without a sort it is the data slice
// itself; otherwise a stable-sorted copy, shared between calls until the data or
// the sort changes, so callers must not modify it. The data slice is never reordered.
func (e *Engine[T, ID]) SortedView() []T {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sort == nil {
		return e.data
	}
	return e.sorted(e.version, e.sort.Key, e.sort.Direction)
}

// sortData is memoized by (version, key, direction); it is only called with e.mu held.
func (e *Engine[T, ID]) sortData(_ uint64, key string, dir Direction) []T {
	col, ok := e.column(key)
	if !ok {
		return e.data
	}
	out := slices.Clone(e.data)
	slices.SortStableFunc(out, func(a, b T) int {
		c := e.compare(col.valueOf(a), col.valueOf(b))
		if dir == Desc {
			return -c
		}
		return c
	})
	return out
}

func (e *Engine[T, ID]) compare(a, b any) int {
	as, aIsString := a.(string)
	bs, bIsString := b.(string)
	if aIsString && bIsString {
		return e.collator.CompareString(as, bs)
	}
	return compareNumbers(toNumber(a), toNumber(b))
}

func (e *Engine[T, ID]) column(key string) (Column[T], bool) {
	for _, c := range e.columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column[T]{}, false
}

// ToggleSort sorts by column ascending, or flips the direction when the table is
// already sorted by it. A non-sortable column changes nothing and reports nothing.
func (e *Engine[T, ID]) ToggleSort(column Column[T]) *SortConfig {
	e.mu.Lock()
	if !column.Sortable {
		current := e.sortConfigLocked()
		e.mu.Unlock()
		return current
	}
	next := SortConfig{Key: column.Key, Direction: Asc}
	if e.sort != nil && e.sort.Key == column.Key {
		next.Direction = e.sort.Direction.flip()
	}
	e.sort = &next
	onSort := e.onSort
	e.mu.Unlock()

	if onSort != nil {
		onSort(next)
	}
	return &next
}

func (e *Engine[T, ID]) SortConfig() *SortConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sortConfigLocked()
}

func (e *Engine[T, ID]) sortConfigLocked() *SortConfig {
	if e.sort == nil {
		return nil
	}
	c := *e.sort
	return &c
}

// SortIndicator is "▲" or "▼" for the column the table is sorted by, empty otherwise.
func (e *Engine[T, ID]) SortIndicator(column Column[T]) string {
	s := e.SortConfig()
	if s == nil || s.Key != column.Key {
		return ""
	}
	if s.Direction == Asc {
		return "▲"
	}
	return "▼"
}

func (e *Engine[T, ID]) Cell(row T, column Column[T]) string {
	return column.Text(row)
}

// ToggleRowSelection adds id to the selection, or removes it if present.
// An id without a row in the data is never added; the call changes nothing and reports nothing.
func (e *Engine[T, ID]) ToggleRowSelection(id ID) []ID {
	e.mu.Lock()
	if _, ok := e.index[id]; ok {
		delete(e.index, id)
		e.selected = slices.DeleteFunc(e.selected, func(s ID) bool { return s == id })
		return e.notifySelectUnlock()
	}
	if _, ok := e.rows[id]; !ok {
		defer e.mu.Unlock()
		return slices.Clone(e.selected)
	}
	e.index[id] = struct{}{}
	e.selected = append(e.selected, id)
	return e.notifySelectUnlock()
}

// ToggleSelectAll clears the selection when every row is selected, and otherwise
// replaces it with all row ids in data order.
func (e *Engine[T, ID]) ToggleSelectAll() []ID {
	e.mu.Lock()
	if len(e.selected) == len(e.data) {
		e.selected = nil
		clear(e.index)
	} else {
		e.selected = make([]ID, 0, len(e.data))
		clear(e.index)
		for _, row := range e.data {
			id := e.idOf(row)
			e.selected = append(e.selected, id)
			e.index[id] = struct{}{}
		}
	}
	return e.notifySelectUnlock()
}

// SetData replaces the rows. Selected ids without a row in data are dropped,
// and OnSelect fires only if that changed the selection.
func (e *Engine[T, ID]) SetData(data []T) {
	e.mu.Lock()
	e.data = data
	e.version++

	e.rows = e.rowIDs(data)
	before := len(e.selected)
	e.selected = slices.DeleteFunc(e.selected, func(id ID) bool {
		if _, ok := e.rows[id]; ok {
			return false
		}
		delete(e.index, id)
		return true
	})
	if len(e.selected) == before {
		e.mu.Unlock()
		return
	}
	e.notifySelectUnlock()
}

func (e *Engine[T, ID]) rowIDs(data []T) map[ID]struct{} {
	ids := make(map[ID]struct{}, len(data))
	for _, row := range data {
		ids[e.idOf(row)] = struct{}{}
	}
	return ids
}

func (e *Engine[T, ID]) Selected() []ID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.selected)
}

func (e *Engine[T, ID]) IsSelected(id ID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.index[id]
	return ok
}

// AllSelected mirrors the header checkbox: true when the selection is as large as the data.
func (e *Engine[T, ID]) AllSelected() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.selected) == len(e.data)
}

// notifySelectUnlock releases e.mu and reports the selection to OnSelect.
func (e *Engine[T, ID]) notifySelectUnlock() []ID {
	selection := slices.Clone(e.selected)
	onSelect := e.onSelect
	e.mu.Unlock()
	if onSelect != nil {
		onSelect(slices.Clone(selection))
	}
	return selection
}
