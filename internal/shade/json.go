package shade

import (
	"encoding/json"
	"fmt"
)

// The persisted wire format is an ordered array of singleton objects,
// e.g. [{"All Colours": ""}, {"1": "50"}, {"101A": "20"}]. External
// reporting tools read this shape directly, so it must not collapse
// into a flat map.

func (l Ledger) MarshalJSON() ([]byte, error) {
	items := make([]map[string]string, len(l))
	for i, e := range l {
		items[i] = map[string]string{e.Name: e.Qty}
	}
	return json.Marshal(items)
}

func (l *Ledger) UnmarshalJSON(data []byte) error {
	var items []map[string]string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}

	out := make(Ledger, 0, len(items))
	for i, item := range items {
		if len(item) != 1 {
			return fmt.Errorf("ledger element %d: expected a single-key object, got %d keys", i, len(item))
		}
		for name, qty := range item {
			out = append(out, Entry{Name: name, Qty: qty})
		}
	}
	*l = out
	return nil
}
