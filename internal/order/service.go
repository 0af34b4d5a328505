package order

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"textile-trade-tracker/internal/shade"
	"textile-trade-tracker/pkg"
)

type Service interface {
	NewOrder(ctx context.Context, req RequestNewOrder) (*ResponseOrder, error)
	GetOrder(ctx context.Context, orderID int64) (*ResponseOrder, error)
	ListOrders(ctx context.Context, includeCancelled bool) ([]DBOrder, error)
	CancelOrder(ctx context.Context, orderID int64) error
	RestoreOrder(ctx context.Context, orderID int64) error
	DeleteOrder(ctx context.Context, orderID int64) error

	UpdateShades(ctx context.Context, entryID int64, ledger shade.Ledger) error
	Stage(ctx context.Context, entryID int64) error
	Unstage(ctx context.Context, entryID int64) error
	Dispatch(ctx context.Context, entryIDs []int64) error
	UnDispatch(ctx context.Context, entryID int64) error
	CombineBatches(ctx context.Context, batches []time.Time) (time.Time, error)
	SplitPart(ctx context.Context, sourceEntryID int64) (*DBEntry, error)
	CancelEntry(ctx context.Context, entryID int64) error
	DeleteEntry(ctx context.Context, entryID int64) error
}

type DefaultService struct {
	repo Repo
}

func NewDefaultService(repo Repo) Service {
	return &DefaultService{
		repo: repo,
	}
}

func (d *DefaultService) NewOrder(ctx context.Context, req RequestNewOrder) (*ResponseOrder, error) {
	if len(req.Entries) == 0 {
		return nil, pkg.ErrValidation{Cause: "an order needs at least one design entry"}
	}
	for _, e := range req.Entries {
		if e.Price == "" {
			return nil, pkg.ErrValidation{Cause: fmt.Sprintf("design %q has no price", e.DesignCode)}
		}
	}

	billTo, err := d.repo.GetParty(ctx, req.BillToID)
	if err != nil {
		slog.Error("Failed to resolve bill-to party", "error", err, "partyID", req.BillToID)
		return nil, err
	}
	shipTo := billTo
	if req.ShipToID != 0 && req.ShipToID != req.BillToID {
		shipTo, err = d.repo.GetParty(ctx, req.ShipToID)
		if err != nil {
			slog.Error("Failed to resolve ship-to party", "error", err, "partyID", req.ShipToID)
			return nil, err
		}
	}

	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}

	entries := make([]DBEntry, len(req.Entries))
	for i, e := range req.Entries {
		ledger := e.Shades
		if ledger == nil {
			ledger = shade.NewDefault()
		}
		entries[i] = DBEntry{
			DesignCode: e.DesignCode,
			Price:      e.Price,
			Remark:     e.Remark,
			Shades:     ledger,
		}
	}

	created, err := d.repo.CreateOrder(ctx, DBOrder{
		Date:      date,
		BillToID:  billTo.ID,
		ShipToID:  shipTo.ID,
		Broker:    req.Broker,
		Transport: req.Transport,
		Remark:    req.Remark,
	}, entries)
	if err != nil {
		slog.Error("Failed to create new order", "error", err)
		return nil, err
	}

	return d.GetOrder(ctx, created.ID)
}

func (d *DefaultService) GetOrder(ctx context.Context, orderID int64) (*ResponseOrder, error) {
	dbOrder, err := d.repo.GetOrder(ctx, orderID)
	if err != nil {
		slog.Error("Error retrieving order", "error", err, "orderID", orderID)
		return nil, err
	}

	billTo, err := d.repo.GetParty(ctx, dbOrder.BillToID)
	if err != nil {
		return nil, err
	}
	shipTo := billTo
	if dbOrder.ShipToID != dbOrder.BillToID {
		if shipTo, err = d.repo.GetParty(ctx, dbOrder.ShipToID); err != nil {
			return nil, err
		}
	}

	entries, err := d.repo.ListEntries(ctx, EntryFilter{OrderID: &orderID, IncludeCancelled: true})
	if err != nil {
		slog.Error("Error retrieving order entries", "error", err, "orderID", orderID)
		return nil, err
	}

	return &ResponseOrder{
		ID:        dbOrder.ID,
		OrderNo:   dbOrder.OrderNo,
		Date:      dbOrder.Date,
		BillTo:    *billTo,
		ShipTo:    *shipTo,
		Broker:    dbOrder.Broker,
		Transport: dbOrder.Transport,
		Remark:    dbOrder.Remark,
		Canceled:  dbOrder.Canceled,
		Entries:   entries,
	}, nil
}

func (d *DefaultService) ListOrders(ctx context.Context, includeCancelled bool) ([]DBOrder, error) {
	orders, err := d.repo.ListOrders(ctx, includeCancelled)
	if err != nil {
		slog.Error("Error listing orders", "error", err)
		return nil, err
	}
	return orders, nil
}

// CancelOrder is the primary cancellation path: the order-level flag
// excludes the order and all its entries from counts and reports.
func (d *DefaultService) CancelOrder(ctx context.Context, orderID int64) error {
	if err := d.repo.SetOrderCanceled(ctx, orderID, true); err != nil {
		slog.Error("Error cancelling order", "error", err, "orderID", orderID)
		return err
	}
	return nil
}

func (d *DefaultService) RestoreOrder(ctx context.Context, orderID int64) error {
	if err := d.repo.SetOrderCanceled(ctx, orderID, false); err != nil {
		slog.Error("Error restoring order", "error", err, "orderID", orderID)
		return err
	}
	return nil
}

// DeleteOrder removes the order and its entries outright. The document
// folder on disk is picked up by the reconciler's next sweep.
func (d *DefaultService) DeleteOrder(ctx context.Context, orderID int64) error {
	if err := d.repo.DeleteOrder(ctx, orderID); err != nil {
		slog.Error("Error deleting order", "error", err, "orderID", orderID)
		return err
	}
	return nil
}

// UpdateShades persists interactive ledger edits. A dispatched entry is
// closed for further edits.
func (d *DefaultService) UpdateShades(ctx context.Context, entryID int64, ledger shade.Ledger) error {
	entry, err := d.repo.GetEntry(ctx, entryID)
	if err != nil {
		slog.Error("Error retrieving entry", "error", err, "entryID", entryID)
		return err
	}
	if entry.DispatchDate != nil {
		return pkg.ErrValidation{Cause: "entry is dispatched and closed for shade edits"}
	}

	entry.Shades = ledger
	if err := d.repo.UpdateEntry(ctx, *entry); err != nil {
		slog.Error("Failed to update shade ledger", "error", err, "entryID", entryID)
		return err
	}
	return nil
}

func (d *DefaultService) Stage(ctx context.Context, entryID int64) error {
	return d.transition(ctx, entryID, EventStage, func(e *DBEntry, now time.Time) {
		e.BhiwandiDate = &now
	})
}

func (d *DefaultService) Unstage(ctx context.Context, entryID int64) error {
	return d.transition(ctx, entryID, EventUnstage, func(e *DBEntry, _ time.Time) {
		e.BhiwandiDate = nil
	})
}

func (d *DefaultService) UnDispatch(ctx context.Context, entryID int64) error {
	return d.transition(ctx, entryID, EventUnDispatch, func(e *DBEntry, _ time.Time) {
		e.DispatchDate = nil
	})
}

// CancelEntry is the secondary, entry-scoped cancellation used from list
// views: both dates are stamped and the remark is overwritten. It is
// destructive and deliberately distinct from CancelOrder.
func (d *DefaultService) CancelEntry(ctx context.Context, entryID int64) error {
	return d.transition(ctx, entryID, EventCancel, func(e *DBEntry, now time.Time) {
		e.BhiwandiDate = &now
		e.DispatchDate = &now
		e.Remark = CancelMarker
	})
}

func (d *DefaultService) transition(ctx context.Context, entryID int64, event string, apply func(*DBEntry, time.Time)) error {
	entry, err := d.repo.GetEntry(ctx, entryID)
	if err != nil {
		slog.Error("Error retrieving entry", "error", err, "entryID", entryID)
		return err
	}
	if !canApply(*entry, event) {
		return pkg.ErrValidation{
			Cause: fmt.Sprintf("entry %d is %s and cannot %s", entryID, StateOf(*entry), event),
		}
	}

	apply(entry, time.Now())
	if err := d.repo.UpdateEntry(ctx, *entry); err != nil {
		slog.Error("Failed to apply lifecycle transition", "error", err, "entryID", entryID, "event", event)
		return err
	}
	return nil
}

// Dispatch stamps a shared dispatch date on all given entries in one
// atomic bulk write. Staging is not a prerequisite.
func (d *DefaultService) Dispatch(ctx context.Context, entryIDs []int64) error {
	if len(entryIDs) == 0 {
		return pkg.ErrValidation{Cause: "no entries selected for dispatch"}
	}
	now := time.Now()
	if err := d.repo.SetDispatchDates(ctx, entryIDs, &now); err != nil {
		slog.Error("Failed to dispatch entries", "error", err, "entryIDs", entryIDs)
		return err
	}
	return nil
}

// CombineBatches merges previously distinct staging batches into one,
// identified by their shared new timestamp.
func (d *DefaultService) CombineBatches(ctx context.Context, batches []time.Time) (time.Time, error) {
	distinct := distinctTimes(batches)
	if len(distinct) < 2 {
		return time.Time{}, pkg.ErrConflict{Cause: "combining batches needs at least two distinct timestamps"}
	}

	merged := time.Now()
	if err := d.repo.RewriteBhiwandiDates(ctx, distinct, merged); err != nil {
		slog.Error("Failed to combine staging batches", "error", err)
		return time.Time{}, err
	}
	return merged, nil
}

// SplitPart creates a part order on the same order as the source entry:
// design, price and remark are copied, the ledger starts fresh. The
// source entry is not touched.
func (d *DefaultService) SplitPart(ctx context.Context, sourceEntryID int64) (*DBEntry, error) {
	source, err := d.repo.GetEntry(ctx, sourceEntryID)
	if err != nil {
		slog.Error("Error retrieving source entry", "error", err, "entryID", sourceEntryID)
		return nil, err
	}

	created, err := d.repo.InsertEntry(ctx, DBEntry{
		OrderID:    source.OrderID,
		DesignCode: source.DesignCode,
		Price:      source.Price,
		Remark:     source.Remark,
		Part:       true,
		Shades:     shade.NewDefault(),
	})
	if err != nil {
		slog.Error("Failed to create part order", "error", err, "sourceEntryID", sourceEntryID)
		return nil, err
	}
	return created, nil
}

// DeleteEntry is a hard removal, not a state transition. Callers surface
// their own confirmation step before invoking it.
func (d *DefaultService) DeleteEntry(ctx context.Context, entryID int64) error {
	if err := d.repo.DeleteEntry(ctx, entryID); err != nil {
		slog.Error("Error deleting entry", "error", err, "entryID", entryID)
		return err
	}
	return nil
}

func distinctTimes(ts []time.Time) []time.Time {
	seen := make(map[int64]struct{}, len(ts))
	out := make([]time.Time, 0, len(ts))
	for _, t := range ts {
		key := t.UnixNano()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}
