package table_test

import (
	"testing"

	"github.com/on-the-ground/effect_ive_ui/table"
	"github.com/stretchr/testify/assert"
)

func TestToggleSelectAll(t *testing.T) {
	var reported [][]int
	e := newPeople(table.OnSelect[person, int](func(ids []int) { reported = append(reported, ids) }))

	assert.Equal(t, []int{1, 2, 3}, e.ToggleSelectAll())
	assert.True(t, e.AllSelected())

	assert.Empty(t, e.ToggleSelectAll())
	assert.Empty(t, e.Selected())

	e.ToggleRowSelection(2)
	assert.Equal(t, []int{1, 2, 3}, e.ToggleSelectAll(), "a partial selection becomes all rows")

	assert.Len(t, reported, 4)
	assert.Equal(t, []int{1, 2, 3}, reported[0])
	assert.Empty(t, reported[1])
}

func TestToggleSelectAll_EmptyData(t *testing.T) {
	calls := 0
	e := table.New[person, int](nil, []table.Column[person]{nameColumn}, personID,
		table.OnSelect[person, int](func([]int) { calls++ }))

	assert.True(t, e.AllSelected())
	assert.Empty(t, e.ToggleSelectAll())
	assert.Empty(t, e.ToggleSelectAll())
	assert.Equal(t, 2, calls, "the callback still fires")
}

func TestToggleRowSelection(t *testing.T) {
	var last []int
	e := newPeople(table.OnSelect[person, int](func(ids []int) { last = ids }))

	assert.Equal(t, []int{3}, e.ToggleRowSelection(3))
	assert.Equal(t, []int{3, 1}, e.ToggleRowSelection(1), "insertion order")
	assert.True(t, e.IsSelected(1))
	assert.False(t, e.AllSelected())

	assert.Equal(t, []int{1}, e.ToggleRowSelection(3))
	assert.False(t, e.IsSelected(3))
	assert.Equal(t, []int{1}, last)

	assert.Empty(t, e.ToggleRowSelection(1))
}

func TestSelected_IsACopy(t *testing.T) {
	e := newPeople()
	e.ToggleRowSelection(1)

	got := e.Selected()
	got[0] = 99
	assert.Equal(t, []int{1}, e.Selected())
}

func TestSetData_PrunesSelection(t *testing.T) {
	calls := 0
	var last []int
	e := newPeople(table.OnSelect[person, int](func(ids []int) {
		calls++
		last = ids
	}))
	e.ToggleRowSelection(1)
	e.ToggleRowSelection(3)
	calls = 0

	e.SetData([]person{{ID: 1, Name: "John"}, {ID: 3, Name: "Bob"}, {ID: 4, Name: "Ann"}})
	assert.Zero(t, calls, "nothing pruned, nothing reported")
	assert.Equal(t, []int{1, 3}, e.Selected())

	e.SetData([]person{{ID: 3, Name: "Bob"}})
	assert.Equal(t, 1, calls)
	assert.Equal(t, []int{3}, last)
	assert.False(t, e.IsSelected(1))
	assert.True(t, e.AllSelected())
}

func TestSetData_KeepsSort(t *testing.T) {
	e := newPeople()
	e.ToggleSort(ageColumn)
	e.SetData([]person{{ID: 7, Age: 40}, {ID: 8, Age: 10}})

	assert.Equal(t, []int{8, 7}, ids(e.SortedView()))
	assert.Equal(t, "▲", e.SortIndicator(ageColumn))
}

func TestToggleRowSelection_IgnoresIDWithoutRow(t *testing.T) {
	calls := 0
	e := newPeople(table.OnSelect[person, int](func([]int) { calls++ }))

	e.ToggleRowSelection(1)
	e.ToggleRowSelection(2)
	assert.Equal(t, []int{1, 2}, e.ToggleRowSelection(99))
	assert.False(t, e.IsSelected(99))
	assert.Equal(t, 2, calls, "an unknown id reports nothing")

	assert.Equal(t, []int{1, 2, 3}, e.ToggleSelectAll(), "select-all still selects every row")
	assert.True(t, e.AllSelected())
}

func TestToggleRowSelection_FollowsSetData(t *testing.T) {
	e := newPeople()
	assert.Empty(t, e.ToggleRowSelection(4))

	e.SetData([]person{{ID: 4, Name: "Ann"}})
	assert.Equal(t, []int{4}, e.ToggleRowSelection(4))
	assert.Empty(t, e.ToggleRowSelection(1), "rows of the previous data are gone")
}
