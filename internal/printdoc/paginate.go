package printdoc

import (
	"textile-trade-tracker/internal/order"
)

// Page capacity of printed order forms and challans. An entry's shade
// block wraps every ShadesPerRow shades onto a new row.
const (
	ShadesPerRow = 8
	RowsPerPage  = 12
)

type Page struct {
	Entries []order.DBEntry
	Rows    int
}

// EntryRows is the printed height of one entry in rows.
func EntryRows(e order.DBEntry) int {
	count := e.Shades.NonEmptyCount()
	return (count + ShadesPerRow - 1) / ShadesPerRow
}

// Paginate splits the ordered entry list into pages of at most
// RowsPerPage rows. Entries are never split: one taller than a whole
// page goes alone on an oversized page. Concatenating the pages yields
// the input list unchanged.
func Paginate(entries []order.DBEntry) []Page {
	var pages []Page
	var current Page

	for _, e := range entries {
		rows := EntryRows(e)
		if len(current.Entries) > 0 && current.Rows+rows > RowsPerPage {
			pages = append(pages, current)
			current = Page{}
		}
		current.Entries = append(current.Entries, e)
		current.Rows += rows
	}
	if len(current.Entries) > 0 {
		pages = append(pages, current)
	}
	return pages
}
