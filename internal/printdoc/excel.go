package printdoc

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/xuri/excelize/v2"

	"textile-trade-tracker/internal/order"
)

// OrderRef carries the header fields an exported row needs from the
// entry's owning order, keyed by order id at the call site.
type OrderRef struct {
	No    int
	Party string
}

// ExportDispatchList writes the dispatch (or bhiwandi) list as an xlsx
// sheet: one row per entry, with the compact shade summary in a single
// cell the way the printed forms show it.
func ExportDispatchList(w io.Writer, title string, entries []order.DBEntry, orders map[int64]OrderRef) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	headers := []string{"Order No", "Party", "Design", "Shades", "Rate", "Bhiwandi", "Dispatch"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for row, e := range entries {
		values := []any{
			orders[e.OrderID].No,
			orders[e.OrderID].Party,
			e.DesignCode,
			shadeSummary(e),
			e.Price,
			formatDate(e.BhiwandiDate),
			formatDate(e.DispatchDate),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	if err := f.SetSheetName(sheet, title); err != nil {
		return err
	}
	return f.Write(w)
}

func shadeSummary(e order.DBEntry) string {
	var parts []string
	for _, g := range e.Shades.GroupByQuantity() {
		parts = append(parts, fmt.Sprintf("%s: %sm", strings.Join(g.Names, "-"), g.Qty))
	}
	return strings.Join(parts, "  ")
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("02-01-2006")
}

// DocumentName builds a filesystem-safe document file name.
func DocumentName(title string, at time.Time, ext string) string {
	return slug.Make(strings.Join([]string{title, at.Format("2006-01-02")}, " ")) + ext
}
