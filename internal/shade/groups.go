package shade

import "sort"

type QtyGroup struct {
	Qty   string
	Names []string
}

// GroupByQuantity collects shades sharing the same non-empty quantity,
// smallest groups first, for compact "101-102-103: 50m" style summaries.
func (l Ledger) GroupByQuantity() []QtyGroup {
	order := make([]string, 0)
	byQty := make(map[string][]string)
	for _, e := range l.Sorted() {
		if e.Qty == "" {
			continue
		}
		if _, seen := byQty[e.Qty]; !seen {
			order = append(order, e.Qty)
		}
		byQty[e.Qty] = append(byQty[e.Qty], e.Name)
	}

	groups := make([]QtyGroup, 0, len(order))
	for _, qty := range order {
		groups = append(groups, QtyGroup{Qty: qty, Names: byQty[qty]})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return len(groups[i].Names) < len(groups[j].Names)
	})
	return groups
}
