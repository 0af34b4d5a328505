package shade

import (
	"sort"
	"strconv"
	"strings"
)

// AllColours is the broadcast pseudonym: its quantity can be fanned out
// over the numeric shades with ApplyBroadcast.
const AllColours = "All Colours"

const defaultShadeCount = 30

type Entry struct {
	Name string
	Qty  string
}

// Ledger is an ordered list of name-unique shade entries. Quantities are
// kept as strings; the empty string means unset. Uniqueness is enforced
// only by AddCustom, matching what the store already contains.
type Ledger []Entry

func NewDefault() Ledger {
	l := make(Ledger, 0, defaultShadeCount+1)
	l = append(l, Entry{Name: AllColours})
	for i := 1; i <= defaultShadeCount; i++ {
		l = append(l, Entry{Name: strconv.Itoa(i)})
	}
	return l
}

func (l Ledger) index(name string) int {
	for i, e := range l {
		if e.Name == name {
			return i
		}
	}
	return -1
}

func (l Ledger) Get(name string) (string, bool) {
	if i := l.index(name); i >= 0 {
		return l[i].Qty, true
	}
	return "", false
}

// AddCustom inserts a custom-named shade right after "All Colours", or at
// the head when the ledger has no broadcast row. Names are compared
// case-insensitively.
func (l *Ledger) AddCustom(name string) error {
	upper := strings.ToUpper(name)
	for _, e := range *l {
		if strings.ToUpper(e.Name) == upper {
			return &ErrDuplicateShade{Name: name}
		}
	}

	at := 0
	if i := l.index(AllColours); i >= 0 {
		at = i + 1
	}
	*l = append(*l, Entry{})
	copy((*l)[at+1:], (*l)[at:])
	(*l)[at] = Entry{Name: name}
	return nil
}

func (l *Ledger) SetQuantity(name, value string) {
	if i := l.index(name); i >= 0 {
		(*l)[i].Qty = value
	}
}

// Increment adds delta metres to the named shade. A quantity that does not
// parse as an integer counts as zero.
func (l *Ledger) Increment(name string, delta int) {
	i := l.index(name)
	if i < 0 {
		return
	}
	current, err := strconv.Atoi((*l)[i].Qty)
	if err != nil {
		current = 0
	}
	(*l)[i].Qty = strconv.Itoa(current + delta)
}

// Clear resets the quantity of each given shade to unset, keeping the
// shade itself in the ledger.
func (l *Ledger) Clear(names ...string) {
	for _, name := range names {
		if i := l.index(name); i >= 0 {
			(*l)[i].Qty = ""
		}
	}
}

// ApplyBroadcast fans the "All Colours" quantity out over numeric shades
// 1..totalCount. Every existing numeric-named shade is dropped, including
// ones above totalCount, and the range is recreated with the broadcast
// value; custom names keep their quantities. A missing or non-numeric
// broadcast value makes this a no-op.
func (l *Ledger) ApplyBroadcast(totalCount int) {
	value, ok := l.Get(AllColours)
	if !ok || value == "" || totalCount < 1 {
		return
	}
	if _, err := strconv.ParseFloat(value, 64); err != nil {
		return
	}

	kept := make(Ledger, 0, len(*l)+totalCount)
	for _, e := range *l {
		if isNumericName(e.Name) {
			continue
		}
		kept = append(kept, e)
	}
	for i := 1; i <= totalCount; i++ {
		kept = append(kept, Entry{Name: strconv.Itoa(i), Qty: value})
	}
	if i := kept.index(AllColours); i >= 0 {
		kept[i].Qty = ""
	}
	*l = kept
}

// Sorted returns the ledger in canonical display order: "All Colours"
// first, custom names in insertion order, numeric names ascending.
func (l Ledger) Sorted() Ledger {
	var all, custom, numeric Ledger
	for _, e := range l {
		switch {
		case e.Name == AllColours:
			all = append(all, e)
		case isNumericName(e.Name):
			numeric = append(numeric, e)
		default:
			custom = append(custom, e)
		}
	}
	sort.SliceStable(numeric, func(i, j int) bool {
		a, _ := strconv.Atoi(numeric[i].Name)
		b, _ := strconv.Atoi(numeric[j].Name)
		return a < b
	})

	out := make(Ledger, 0, len(l))
	out = append(out, all...)
	out = append(out, custom...)
	out = append(out, numeric...)
	return out
}

// NonEmptyCount reports how many shades carry a quantity; the layout of
// printed documents depends on it.
func (l Ledger) NonEmptyCount() int {
	count := 0
	for _, e := range l {
		if e.Qty != "" {
			count++
		}
	}
	return count
}

// MaxQuantity returns the largest single-shade quantity in metres.
// Non-numeric quantities are ignored.
func (l Ledger) MaxQuantity() float64 {
	max := 0.0
	for _, e := range l {
		if e.Qty == "" {
			continue
		}
		q, err := strconv.ParseFloat(e.Qty, 64)
		if err != nil {
			continue
		}
		if q > max {
			max = q
		}
	}
	return max
}

func isNumericName(name string) bool {
	_, err := strconv.Atoi(name)
	return err == nil
}

// Pending is the partial-fulfillment arithmetic shared by the order ledger
// and the dyeing program workflow: total minus the sum of received lots.
func Pending(total int, received ...int) int {
	for _, r := range received {
		total -= r
	}
	return total
}
