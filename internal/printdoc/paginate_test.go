package printdoc

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textile-trade-tracker/internal/order"
	"textile-trade-tracker/internal/shade"
)

func entryWithShades(id int64, nonEmpty int) order.DBEntry {
	e := order.DBEntry{ID: id}
	for i := 0; i < nonEmpty; i++ {
		e.Shades = append(e.Shades, shade.Entry{Name: strconv.Itoa(i + 1), Qty: "50"})
	}
	return e
}

func TestEntryRows(t *testing.T) {
	assert.Equal(t, 0, EntryRows(entryWithShades(1, 0)))
	assert.Equal(t, 1, EntryRows(entryWithShades(1, 4)))
	assert.Equal(t, 1, EntryRows(entryWithShades(1, 8)))
	assert.Equal(t, 2, EntryRows(entryWithShades(1, 9)))
	assert.Equal(t, 13, EntryRows(entryWithShades(1, 97)))
}

func TestPaginateThirtySingleRowEntries(t *testing.T) {
	var entries []order.DBEntry
	for i := 1; i <= 30; i++ {
		entries = append(entries, entryWithShades(int64(i), 4))
	}

	pages := Paginate(entries)

	require.Len(t, pages, 3)
	assert.Len(t, pages[0].Entries, 12)
	assert.Len(t, pages[1].Entries, 12)
	assert.Len(t, pages[2].Entries, 6)
}

func TestPaginatePreservesOrder(t *testing.T) {
	var entries []order.DBEntry
	sizes := []int{4, 90, 16, 1, 33, 8, 8, 70, 2, 95}
	for i, n := range sizes {
		entries = append(entries, entryWithShades(int64(i+1), n))
	}

	pages := Paginate(entries)

	var flat []int64
	for _, p := range pages {
		if len(p.Entries) > 1 {
			assert.LessOrEqual(t, p.Rows, RowsPerPage)
		}
		for _, e := range p.Entries {
			flat = append(flat, e.ID)
		}
	}
	var want []int64
	for i := range sizes {
		want = append(want, int64(i+1))
	}
	assert.Equal(t, want, flat, "concatenated pages reproduce the input")
}

func TestPaginateOversizedEntryAlone(t *testing.T) {
	entries := []order.DBEntry{
		entryWithShades(1, 4),
		entryWithShades(2, 100), // 13 rows, taller than a page
		entryWithShades(3, 4),
	}

	pages := Paginate(entries)

	require.Len(t, pages, 3)
	assert.Len(t, pages[1].Entries, 1)
	assert.Equal(t, int64(2), pages[1].Entries[0].ID)
	assert.Greater(t, pages[1].Rows, RowsPerPage)
}

func TestPaginateEmpty(t *testing.T) {
	assert.Empty(t, Paginate(nil))
}
