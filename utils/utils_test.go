package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type namedRow struct {
	Id   int
	Name string
}

func TestResolveOrCreateOnlyCreatesMissingNames(t *testing.T) {
	index := map[string]*namedRow{
		"Barter": {Id: 1, Name: "Barter"},
	}
	toCreate, updated := ResolveOrCreate(index, []string{"Barter", "Keys", "Keys", "", "Ammo"}, func(name string) *namedRow {
		return &namedRow{Name: name}
	})

	assert.Equal(t, []string{"Ammo", "Keys"}, Map(toCreate, func(r *namedRow) string { return r.Name }))
	assert.Len(t, updated, 3)
	assert.Equal(t, 1, updated["Barter"].Id)
	assert.Same(t, toCreate[1], updated["Keys"], "created rows are shared with the index so ids written back are visible")
	assert.Len(t, index, 1, "input index must not be mutated")
}

func TestResolveOrCreateNothingMissing(t *testing.T) {
	index := map[string]string{"a": "a"}
	toCreate, updated := ResolveOrCreate(index, []string{"a"}, func(name string) string { return name })
	assert.Empty(t, toCreate)
	assert.Equal(t, index, updated)
}

func TestSortedUniques(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SortedUniques([]string{"c", "a", "", "b", "a"}))
	assert.Empty(t, SortedUniques(nil))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 100, Clamp(100000, 1, 100))
	assert.Equal(t, 1, Clamp(-4, 1, 100))
	assert.Equal(t, 30, Clamp(30, 1, 100))
}

func TestBatchIterator(t *testing.T) {
	batches := make([][]int, 0)
	for batch := range BatchIterator([]int{1, 2, 3, 4, 5}, 2) {
		batches = append(batches, batch)
	}
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, batches)
}
