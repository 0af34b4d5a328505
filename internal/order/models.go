package order

import (
	"time"

	"textile-trade-tracker/internal/shade"
)

type DBParty struct {
	ID      int64  `db:"party_id" json:"id"`
	Name    string `db:"name" json:"name"`
	Address string `db:"address" json:"address"`
	GSTIN   string `db:"gstin" json:"gstin"`
}

type DBOrder struct {
	ID        int64     `db:"order_id" json:"id"`
	OrderNo   int       `db:"order_no" json:"order_no"`
	Date      time.Time `db:"order_date" json:"date"`
	BillToID  int64     `db:"bill_to_id" json:"bill_to_id"`
	ShipToID  int64     `db:"ship_to_id" json:"ship_to_id"`
	Broker    string    `db:"broker" json:"broker"`
	Transport string    `db:"transport" json:"transport"`
	Remark    string    `db:"remark" json:"remark"`
	Canceled  bool      `db:"canceled" json:"canceled"`
}

type DBEntry struct {
	ID           int64        `db:"entry_id" json:"id"`
	OrderID      int64        `db:"order_id" json:"order_id"`
	DesignCode   string       `db:"design_code" json:"design_code"`
	Price        string       `db:"price" json:"price"`
	Remark       string       `db:"remark" json:"remark"`
	Part         bool         `db:"part" json:"part"`
	BhiwandiDate *time.Time   `db:"bhiwandi_date" json:"bhiwandi_date"`
	DispatchDate *time.Time   `db:"dispatch_date" json:"dispatch_date"`
	Shades       shade.Ledger `db:"shades" json:"shades"`
}

type RequestNewEntry struct {
	DesignCode string       `json:"design_code"`
	Price      string       `json:"price"`
	Remark     string       `json:"remark"`
	Shades     shade.Ledger `json:"shades"`
}

type RequestNewOrder struct {
	Date      time.Time         `json:"date"`
	BillToID  int64             `json:"bill_to_id"`
	ShipToID  int64             `json:"ship_to_id"`
	Broker    string            `json:"broker"`
	Transport string            `json:"transport"`
	Remark    string            `json:"remark"`
	Entries   []RequestNewEntry `json:"entries"`
}

type ResponseOrder struct {
	ID        int64     `json:"id"`
	OrderNo   int       `json:"order_no"`
	Date      time.Time `json:"date"`
	BillTo    DBParty   `json:"bill_to"`
	ShipTo    DBParty   `json:"ship_to"`
	Broker    string    `json:"broker"`
	Transport string    `json:"transport"`
	Remark    string    `json:"remark"`
	Canceled  bool      `json:"canceled"`
	Entries   []DBEntry `json:"entries"`
}

// EntryFilter narrows ListEntries. Nil pointer fields mean "don't care";
// a set pointer requires the matching timestamp to be present (true) or
// absent (false).
type EntryFilter struct {
	OrderID          *int64
	PartyID          *int64
	DesignCode       string
	Staged           *bool
	Dispatched       *bool
	IncludeCancelled bool
}

type DesignCount struct {
	Design  string `json:"design"`
	Count   int    `json:"count"`
	HasPart bool   `json:"has_part"`
}

type PartyCount struct {
	Party string `json:"party"`
	Count int    `json:"count"`
}

type PriceRow struct {
	DesignCode string    `json:"design_code"`
	Price      string    `json:"price"`
	Date       time.Time `json:"date"`
}
