package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"textile-trade-tracker/pkg"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo interface {
	CreateOrder(ctx context.Context, order DBOrder, entries []DBEntry) (*DBOrder, error)
	GetOrder(ctx context.Context, orderID int64) (*DBOrder, error)
	ListOrders(ctx context.Context, includeCancelled bool) ([]DBOrder, error)
	SetOrderCanceled(ctx context.Context, orderID int64, canceled bool) error
	DeleteOrder(ctx context.Context, orderID int64) error

	GetParty(ctx context.Context, partyID int64) (*DBParty, error)
	ListParties(ctx context.Context) ([]DBParty, error)

	GetEntry(ctx context.Context, entryID int64) (*DBEntry, error)
	InsertEntry(ctx context.Context, entry DBEntry) (*DBEntry, error)
	UpdateEntry(ctx context.Context, entry DBEntry) error
	DeleteEntry(ctx context.Context, entryID int64) error
	ListEntries(ctx context.Context, filter EntryFilter) ([]DBEntry, error)

	SetDispatchDates(ctx context.Context, entryIDs []int64, at *time.Time) error
	RewriteBhiwandiDates(ctx context.Context, batches []time.Time, to time.Time) error

	CountByDesign(ctx context.Context) ([]DesignCount, error)
	CountByParty(ctx context.Context) ([]PartyCount, error)
	PriceHistory(ctx context.Context, partyID int64) ([]PriceRow, error)
}

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type DefaultRepo struct {
	pool *pgxpool.Pool
}

func NewDefaultRepo(pool *pgxpool.Pool) Repo {
	return &DefaultRepo{pool: pool}
}

const entryColumns = "entry_id, order_id, design_code, price, remark, part, bhiwandi_date, dispatch_date, shades"

func (d *DefaultRepo) CreateOrder(ctx context.Context, order DBOrder, entries []DBEntry) (*DBOrder, error) {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return nil, &pkg.ErrStoreProcedure{Cause: "failed to begin transaction", Err: err}
	}
	defer tx.Rollback(ctx)

	query, args, err := qb.Insert("orders").
		Columns("order_date", "bill_to_id", "ship_to_id", "broker", "transport", "remark", "canceled").
		Values(order.Date, order.BillToID, order.ShipToID, order.Broker, order.Transport, order.Remark, false).
		Suffix("returning order_id, order_no").
		ToSql()
	if err != nil {
		return nil, &pkg.ErrStoreProcedure{Cause: "failed to build order insert", Err: err}
	}
	if err := tx.QueryRow(ctx, query, args...).Scan(&order.ID, &order.OrderNo); err != nil {
		return nil, &pkg.ErrStoreProcedure{
			Cause: "failed to insert order",
			Info:  fmt.Sprintf("query: %s", query),
			Err:   err,
		}
	}

	for _, entry := range entries {
		entry.OrderID = order.ID
		if err := insertEntryTx(ctx, tx, entry); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, &pkg.ErrStoreProcedure{Cause: "failed to commit transaction", Err: err}
	}
	return &order, nil
}

func insertEntryTx(ctx context.Context, tx pgx.Tx, entry DBEntry) error {
	shades, err := json.Marshal(entry.Shades)
	if err != nil {
		return &pkg.ErrStoreProcedure{Cause: "failed to encode shade ledger", Err: err}
	}
	query, args, err := qb.Insert("design_entries").
		Columns("order_id", "design_code", "price", "remark", "part", "bhiwandi_date", "dispatch_date", "shades").
		Values(entry.OrderID, entry.DesignCode, entry.Price, entry.Remark, entry.Part, entry.BhiwandiDate, entry.DispatchDate, shades).
		ToSql()
	if err != nil {
		return &pkg.ErrStoreProcedure{Cause: "failed to build entry insert", Err: err}
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return &pkg.ErrStoreProcedure{
			Cause: "failed to insert design entry",
			Info:  fmt.Sprintf("query: %s", query),
			Err:   err,
		}
	}
	return nil
}

func (d *DefaultRepo) GetOrder(ctx context.Context, orderID int64) (*DBOrder, error) {
	query, args, err := qb.Select("order_id", "order_no", "order_date", "bill_to_id", "ship_to_id", "broker", "transport", "remark", "canceled").
		From("orders").
		Where(sq.Eq{"order_id": orderID}).
		ToSql()
	if err != nil {
		return nil, &pkg.ErrStoreProcedure{Cause: "failed to build order select", Err: err}
	}

	var o DBOrder
	err = d.pool.QueryRow(ctx, query, args...).
		Scan(&o.ID, &o.OrderNo, &o.Date, &o.BillToID, &o.ShipToID, &o.Broker, &o.Transport, &o.Remark, &o.Canceled)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, pkg.ErrNotFound{What: "order", ID: orderID}
	}
	if err != nil {
		return nil, &pkg.ErrStoreProcedure{
			Cause: "failed to select order",
			Info:  fmt.Sprintf("query: %s", query),
			Err:   err,
		}
	}
	return &o, nil
}

func (d *DefaultRepo) ListOrders(ctx context.Context, includeCancelled bool) ([]DBOrder, error) {
	builder := qb.Select("order_id", "order_no", "order_date", "bill_to_id", "ship_to_id", "broker", "transport", "remark", "canceled").
		From("orders").
		OrderBy("order_id asc")
	if !includeCancelled {
		builder = builder.Where(sq.Eq{"canceled": false})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, &pkg.ErrStoreProcedure{Cause: "failed to build orders select", Err: err}
	}

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, &pkg.ErrStoreProcedure{Cause: "failed to select orders", Err: err}
	}
	defer rows.Close()

	var orders []DBOrder
	for rows.Next() {
		var o DBOrder
		if err := rows.Scan(&o.ID, &o.OrderNo, &o.Date, &o.BillToID, &o.ShipToID, &o.Broker, &o.Transport, &o.Remark, &o.Canceled); err != nil {
			return nil, &pkg.ErrStoreProcedure{Cause: "failed to scan order row", Err: err}
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (d *DefaultRepo) SetOrderCanceled(ctx context.Context, orderID int64, canceled bool) error {
	query, args, err := qb.Update("orders").
		Set("canceled", canceled).
		Where(sq.Eq{"order_id": orderID}).
		ToSql()
	if err != nil {
		return &pkg.ErrStoreProcedure{Cause: "failed to build order update", Err: err}
	}
	if _, err := d.pool.Exec(ctx, query, args...); err != nil {
		return &pkg.ErrStoreProcedure{
			Cause: "failed to update order cancellation flag",
			Info:  fmt.Sprintf("orderID: %d", orderID),
			Err:   err,
		}
	}
	return nil
}

func (d *DefaultRepo) DeleteOrder(ctx context.Context, orderID int64) error {
	query, args, err := qb.Delete("orders").Where(sq.Eq{"order_id": orderID}).ToSql()
	if err != nil {
		return &pkg.ErrStoreProcedure{Cause: "failed to build order delete", Err: err}
	}
	if _, err := d.pool.Exec(ctx, query, args...); err != nil {
		return &pkg.ErrStoreProcedure{
			Cause: "failed to delete order",
			Info:  fmt.Sprintf("orderID: %d", orderID),
			Err:   err,
		}
	}
	return nil
}

func (d *DefaultRepo) GetParty(ctx context.Context, partyID int64) (*DBParty, error) {
	query, args, err := qb.Select("party_id", "name", "address", "gstin").
		From("parties").
		Where(sq.Eq{"party_id": partyID}).
		ToSql()
	if err != nil {
		return nil, &pkg.ErrStoreProcedure{Cause: "failed to build party select", Err: err}
	}

	var p DBParty
	err = d.pool.QueryRow(ctx, query, args...).Scan(&p.ID, &p.Name, &p.Address, &p.GSTIN)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, pkg.ErrNotFound{What: "party", ID: partyID}
	}
	if err != nil {
		return nil, &pkg.ErrStoreProcedure{
			Cause: "failed to select party",
			Info:  fmt.Sprintf("partyID: %d", partyID),
			Err:   err,
		}
	}
	return &p, nil
}

func (d *DefaultRepo) ListParties(ctx context.Context) ([]DBParty, error) {
	query, args, err := qb.Select("party_id", "name", "address", "gstin").
		From("parties").
		OrderBy("name asc").
		ToSql()
	if err != nil {
		return nil, &pkg.ErrStoreProcedure{Cause: "failed to build parties select", Err: err}
	}

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, &pkg.ErrStoreProcedure{Cause: "failed to select parties", Err: err}
	}
	defer rows.Close()

	var parties []DBParty
	for rows.Next() {
		var p DBParty
		if err := rows.Scan(&p.ID, &p.Name, &p.Address, &p.GSTIN); err != nil {
			return nil, &pkg.ErrStoreProcedure{Cause: "failed to scan party row", Err: err}
		}
		parties = append(parties, p)
	}
	return parties, rows.Err()
}

func (d *DefaultRepo) GetEntry(ctx context.Context, entryID int64) (*DBEntry, error) {
	query, args, err := qb.Select(entryColumns).
		From("design_entries").
		Where(sq.Eq{"entry_id": entryID}).
		ToSql()
	if err != nil {
		return nil, &pkg.ErrStoreProcedure{Cause: "failed to build entry select", Err: err}
	}

	var e DBEntry
	var shades []byte
	err = d.pool.QueryRow(ctx, query, args...).
		Scan(&e.ID, &e.OrderID, &e.DesignCode, &e.Price, &e.Remark, &e.Part, &e.BhiwandiDate, &e.DispatchDate, &shades)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, pkg.ErrNotFound{What: "design entry", ID: entryID}
	}
	if err != nil {
		return nil, &pkg.ErrStoreProcedure{
			Cause: "failed to select design entry",
			Info:  fmt.Sprintf("entryID: %d", entryID),
			Err:   err,
		}
	}
	if err := json.Unmarshal(shades, &e.Shades); err != nil {
		return nil, &pkg.ErrStoreProcedure{Cause: "failed to decode shade ledger", Err: err}
	}
	return &e, nil
}

func (d *DefaultRepo) InsertEntry(ctx context.Context, entry DBEntry) (*DBEntry, error) {
	shades, err := json.Marshal(entry.Shades)
	if err != nil {
		return nil, &pkg.ErrStoreProcedure{Cause: "failed to encode shade ledger", Err: err}
	}
	query, args, err := qb.Insert("design_entries").
		Columns("order_id", "design_code", "price", "remark", "part", "bhiwandi_date", "dispatch_date", "shades").
		Values(entry.OrderID, entry.DesignCode, entry.Price, entry.Remark, entry.Part, entry.BhiwandiDate, entry.DispatchDate, shades).
		Suffix("returning entry_id").
		ToSql()
	if err != nil {
		return nil, &pkg.ErrStoreProcedure{Cause: "failed to build entry insert", Err: err}
	}
	if err := d.pool.QueryRow(ctx, query, args...).Scan(&entry.ID); err != nil {
		return nil, &pkg.ErrStoreProcedure{
			Cause: "failed to insert design entry",
			Info:  fmt.Sprintf("query: %s", query),
			Err:   err,
		}
	}
	return &entry, nil
}

func (d *DefaultRepo) UpdateEntry(ctx context.Context, entry DBEntry) error {
	shades, err := json.Marshal(entry.Shades)
	if err != nil {
		return &pkg.ErrStoreProcedure{Cause: "failed to encode shade ledger", Err: err}
	}
	query, args, err := qb.Update("design_entries").
		Set("design_code", entry.DesignCode).
		Set("price", entry.Price).
		Set("remark", entry.Remark).
		Set("part", entry.Part).
		Set("bhiwandi_date", entry.BhiwandiDate).
		Set("dispatch_date", entry.DispatchDate).
		Set("shades", shades).
		Where(sq.Eq{"entry_id": entry.ID}).
		ToSql()
	if err != nil {
		return &pkg.ErrStoreProcedure{Cause: "failed to build entry update", Err: err}
	}
	if _, err := d.pool.Exec(ctx, query, args...); err != nil {
		return &pkg.ErrStoreProcedure{
			Cause: "failed to update design entry",
			Info:  fmt.Sprintf("entryID: %d", entry.ID),
			Err:   err,
		}
	}
	return nil
}

func (d *DefaultRepo) DeleteEntry(ctx context.Context, entryID int64) error {
	query, args, err := qb.Delete("design_entries").Where(sq.Eq{"entry_id": entryID}).ToSql()
	if err != nil {
		return &pkg.ErrStoreProcedure{Cause: "failed to build entry delete", Err: err}
	}
	if _, err := d.pool.Exec(ctx, query, args...); err != nil {
		return &pkg.ErrStoreProcedure{
			Cause: "failed to delete design entry",
			Info:  fmt.Sprintf("entryID: %d", entryID),
			Err:   err,
		}
	}
	return nil
}

func (d *DefaultRepo) ListEntries(ctx context.Context, filter EntryFilter) ([]DBEntry, error) {
	builder := qb.Select(
		"e.entry_id", "e.order_id", "e.design_code", "e.price", "e.remark", "e.part",
		"e.bhiwandi_date", "e.dispatch_date", "e.shades").
		From("design_entries e").
		Join("orders o on o.order_id = e.order_id").
		OrderBy("e.entry_id asc")

	if !filter.IncludeCancelled {
		builder = builder.Where(sq.Eq{"o.canceled": false})
	}
	if filter.OrderID != nil {
		builder = builder.Where(sq.Eq{"e.order_id": *filter.OrderID})
	}
	if filter.PartyID != nil {
		builder = builder.Where(sq.Eq{"o.bill_to_id": *filter.PartyID})
	}
	if filter.DesignCode != "" {
		builder = builder.Where(sq.Eq{"e.design_code": filter.DesignCode})
	}
	if filter.Staged != nil {
		if *filter.Staged {
			builder = builder.Where("e.bhiwandi_date is not null")
		} else {
			builder = builder.Where("e.bhiwandi_date is null")
		}
	}
	if filter.Dispatched != nil {
		if *filter.Dispatched {
			builder = builder.Where("e.dispatch_date is not null")
		} else {
			builder = builder.Where("e.dispatch_date is null")
		}
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, &pkg.ErrStoreProcedure{Cause: "failed to build entries select", Err: err}
	}

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, &pkg.ErrStoreProcedure{
			Cause: "failed to select design entries",
			Info:  fmt.Sprintf("query: %s", query),
			Err:   err,
		}
	}
	defer rows.Close()

	var entries []DBEntry
	for rows.Next() {
		var e DBEntry
		var shades []byte
		if err := rows.Scan(&e.ID, &e.OrderID, &e.DesignCode, &e.Price, &e.Remark, &e.Part, &e.BhiwandiDate, &e.DispatchDate, &shades); err != nil {
			return nil, &pkg.ErrStoreProcedure{Cause: "failed to scan entry row", Err: err}
		}
		if err := json.Unmarshal(shades, &e.Shades); err != nil {
			return nil, &pkg.ErrStoreProcedure{Cause: "failed to decode shade ledger", Err: err}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SetDispatchDates is a single-statement bulk update: either every given
// entry gets the new dispatch date or none does.
func (d *DefaultRepo) SetDispatchDates(ctx context.Context, entryIDs []int64, at *time.Time) error {
	query, args, err := qb.Update("design_entries").
		Set("dispatch_date", at).
		Where(sq.Eq{"entry_id": entryIDs}).
		ToSql()
	if err != nil {
		return &pkg.ErrStoreProcedure{Cause: "failed to build dispatch update", Err: err}
	}
	if _, err := d.pool.Exec(ctx, query, args...); err != nil {
		return &pkg.ErrStoreProcedure{
			Cause: "failed to update dispatch dates",
			Info:  fmt.Sprintf("entryIDs: %v", entryIDs),
			Err:   err,
		}
	}
	return nil
}

// RewriteBhiwandiDates merges staging batches: every entry whose
// bhiwandi_date is one of the given timestamps is moved to the new shared
// one, in one statement.
func (d *DefaultRepo) RewriteBhiwandiDates(ctx context.Context, batches []time.Time, to time.Time) error {
	query, args, err := qb.Update("design_entries").
		Set("bhiwandi_date", to).
		Where(sq.Eq{"bhiwandi_date": batches}).
		ToSql()
	if err != nil {
		return &pkg.ErrStoreProcedure{Cause: "failed to build batch merge update", Err: err}
	}
	if _, err := d.pool.Exec(ctx, query, args...); err != nil {
		return &pkg.ErrStoreProcedure{
			Cause: "failed to merge staging batches",
			Info:  fmt.Sprintf("query: %s", query),
			Err:   err,
		}
	}
	return nil
}

func (d *DefaultRepo) CountByDesign(ctx context.Context) ([]DesignCount, error) {
	query, args, err := qb.Select("e.design_code", "count(*)", "bool_or(e.part)").
		From("design_entries e").
		Join("orders o on o.order_id = e.order_id").
		Where(sq.Eq{"o.canceled": false}).
		GroupBy("e.design_code").
		ToSql()
	if err != nil {
		return nil, &pkg.ErrStoreProcedure{Cause: "failed to build design count select", Err: err}
	}

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, &pkg.ErrStoreProcedure{Cause: "failed to count by design", Err: err}
	}
	defer rows.Close()

	var counts []DesignCount
	for rows.Next() {
		var c DesignCount
		if err := rows.Scan(&c.Design, &c.Count, &c.HasPart); err != nil {
			return nil, &pkg.ErrStoreProcedure{Cause: "failed to scan design count row", Err: err}
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (d *DefaultRepo) CountByParty(ctx context.Context) ([]PartyCount, error) {
	query, args, err := qb.Select("p.name", "count(*)").
		From("design_entries e").
		Join("orders o on o.order_id = e.order_id").
		Join("parties p on p.party_id = o.bill_to_id").
		Where(sq.Eq{"o.canceled": false}).
		GroupBy("p.name").
		OrderBy("p.name asc").
		ToSql()
	if err != nil {
		return nil, &pkg.ErrStoreProcedure{Cause: "failed to build party count select", Err: err}
	}

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, &pkg.ErrStoreProcedure{Cause: "failed to count by party", Err: err}
	}
	defer rows.Close()

	var counts []PartyCount
	for rows.Next() {
		var c PartyCount
		if err := rows.Scan(&c.Party, &c.Count); err != nil {
			return nil, &pkg.ErrStoreProcedure{Cause: "failed to scan party count row", Err: err}
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (d *DefaultRepo) PriceHistory(ctx context.Context, partyID int64) ([]PriceRow, error) {
	query, args, err := qb.Select("e.design_code", "e.price", "o.order_date").
		From("design_entries e").
		Join("orders o on o.order_id = e.order_id").
		Where(sq.Eq{"o.bill_to_id": partyID}).
		Where("e.price <> ''").
		OrderBy("o.order_date desc", "e.entry_id desc").
		ToSql()
	if err != nil {
		return nil, &pkg.ErrStoreProcedure{Cause: "failed to build price history select", Err: err}
	}

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, &pkg.ErrStoreProcedure{
			Cause: "failed to select price history",
			Info:  fmt.Sprintf("partyID: %d", partyID),
			Err:   err,
		}
	}
	defer rows.Close()

	var history []PriceRow
	for rows.Next() {
		var r PriceRow
		if err := rows.Scan(&r.DesignCode, &r.Price, &r.Date); err != nil {
			return nil, &pkg.ErrStoreProcedure{Cause: "failed to scan price row", Err: err}
		}
		history = append(history, r)
	}
	return history, rows.Err()
}
