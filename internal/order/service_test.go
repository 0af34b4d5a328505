package order

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textile-trade-tracker/internal/shade"
	"textile-trade-tracker/pkg"
)

// memRepo keeps everything in maps; bulk writes either apply to every row
// or, when failBulk is set, to none, mirroring the single-statement
// contract of the real store.
type memRepo struct {
	orders   map[int64]DBOrder
	entries  map[int64]DBEntry
	parties  map[int64]DBParty
	nextID   int64
	failBulk bool
}

func newMemRepo() *memRepo {
	return &memRepo{
		orders:  make(map[int64]DBOrder),
		entries: make(map[int64]DBEntry),
		parties: map[int64]DBParty{
			1: {ID: 1, Name: "Keshav Textiles"},
			2: {ID: 2, Name: "Apex Fabrics"},
		},
		nextID: 100,
	}
}

func (m *memRepo) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memRepo) CreateOrder(_ context.Context, order DBOrder, entries []DBEntry) (*DBOrder, error) {
	order.ID = m.id()
	order.OrderNo = int(order.ID)
	m.orders[order.ID] = order
	for _, e := range entries {
		e.ID = m.id()
		e.OrderID = order.ID
		m.entries[e.ID] = e
	}
	return &order, nil
}

func (m *memRepo) GetOrder(_ context.Context, id int64) (*DBOrder, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, pkg.ErrNotFound{What: "order", ID: id}
	}
	return &o, nil
}

func (m *memRepo) ListOrders(_ context.Context, includeCancelled bool) ([]DBOrder, error) {
	var orders []DBOrder
	for _, o := range m.orders {
		if !includeCancelled && o.Canceled {
			continue
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (m *memRepo) SetOrderCanceled(_ context.Context, id int64, canceled bool) error {
	o, ok := m.orders[id]
	if !ok {
		return pkg.ErrNotFound{What: "order", ID: id}
	}
	o.Canceled = canceled
	m.orders[id] = o
	return nil
}

func (m *memRepo) DeleteOrder(_ context.Context, id int64) error {
	delete(m.orders, id)
	return nil
}

func (m *memRepo) GetParty(_ context.Context, id int64) (*DBParty, error) {
	p, ok := m.parties[id]
	if !ok {
		return nil, pkg.ErrNotFound{What: "party", ID: id}
	}
	return &p, nil
}

func (m *memRepo) ListParties(_ context.Context) ([]DBParty, error) {
	var out []DBParty
	for _, p := range m.parties {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memRepo) GetEntry(_ context.Context, id int64) (*DBEntry, error) {
	e, ok := m.entries[id]
	if !ok {
		return nil, pkg.ErrNotFound{What: "design entry", ID: id}
	}
	return &e, nil
}

func (m *memRepo) InsertEntry(_ context.Context, e DBEntry) (*DBEntry, error) {
	e.ID = m.id()
	m.entries[e.ID] = e
	return &e, nil
}

func (m *memRepo) UpdateEntry(_ context.Context, e DBEntry) error {
	if _, ok := m.entries[e.ID]; !ok {
		return pkg.ErrNotFound{What: "design entry", ID: e.ID}
	}
	m.entries[e.ID] = e
	return nil
}

func (m *memRepo) DeleteEntry(_ context.Context, id int64) error {
	delete(m.entries, id)
	return nil
}

func (m *memRepo) ListEntries(_ context.Context, f EntryFilter) ([]DBEntry, error) {
	var out []DBEntry
	for _, e := range m.entries {
		o := m.orders[e.OrderID]
		if !f.IncludeCancelled && o.Canceled {
			continue
		}
		if f.OrderID != nil && e.OrderID != *f.OrderID {
			continue
		}
		if f.PartyID != nil && o.BillToID != *f.PartyID {
			continue
		}
		if f.DesignCode != "" && e.DesignCode != f.DesignCode {
			continue
		}
		if f.Staged != nil && (e.BhiwandiDate != nil) != *f.Staged {
			continue
		}
		if f.Dispatched != nil && (e.DispatchDate != nil) != *f.Dispatched {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memRepo) SetDispatchDates(_ context.Context, ids []int64, at *time.Time) error {
	if m.failBulk {
		return &pkg.ErrStoreProcedure{Cause: "failed to update dispatch dates", Err: errors.New("connection reset")}
	}
	for _, id := range ids {
		e := m.entries[id]
		e.DispatchDate = at
		m.entries[id] = e
	}
	return nil
}

func (m *memRepo) RewriteBhiwandiDates(_ context.Context, batches []time.Time, to time.Time) error {
	if m.failBulk {
		return &pkg.ErrStoreProcedure{Cause: "failed to merge staging batches", Err: errors.New("connection reset")}
	}
	for id, e := range m.entries {
		if e.BhiwandiDate == nil {
			continue
		}
		for _, b := range batches {
			if e.BhiwandiDate.Equal(b) {
				at := to
				e.BhiwandiDate = &at
				m.entries[id] = e
				break
			}
		}
	}
	return nil
}

func (m *memRepo) CountByDesign(_ context.Context) ([]DesignCount, error) {
	byDesign := make(map[string]*DesignCount)
	for _, e := range m.entries {
		if m.orders[e.OrderID].Canceled {
			continue
		}
		c, ok := byDesign[e.DesignCode]
		if !ok {
			c = &DesignCount{Design: e.DesignCode}
			byDesign[e.DesignCode] = c
		}
		c.Count++
		c.HasPart = c.HasPart || e.Part
	}
	var out []DesignCount
	for _, c := range byDesign {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Design < out[j].Design })
	return out, nil
}

func (m *memRepo) CountByParty(_ context.Context) ([]PartyCount, error) {
	byParty := make(map[string]int)
	for _, e := range m.entries {
		o := m.orders[e.OrderID]
		if o.Canceled {
			continue
		}
		byParty[m.parties[o.BillToID].Name]++
	}
	var out []PartyCount
	for name, n := range byParty {
		out = append(out, PartyCount{Party: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Party < out[j].Party })
	return out, nil
}

func (m *memRepo) PriceHistory(_ context.Context, partyID int64) ([]PriceRow, error) {
	var out []PriceRow
	for _, e := range m.entries {
		o := m.orders[e.OrderID]
		if o.BillToID != partyID || e.Price == "" {
			continue
		}
		out = append(out, PriceRow{DesignCode: e.DesignCode, Price: e.Price, Date: o.Date})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func seedOrder(t *testing.T, svc Service, entries ...RequestNewEntry) *ResponseOrder {
	t.Helper()
	resp, err := svc.NewOrder(context.Background(), RequestNewOrder{
		BillToID: 1,
		Entries:  entries,
	})
	require.NoError(t, err)
	return resp
}

func TestNewOrderValidatesPrice(t *testing.T) {
	repo := newMemRepo()
	svc := NewDefaultService(repo)

	_, err := svc.NewOrder(context.Background(), RequestNewOrder{
		BillToID: 1,
		Entries:  []RequestNewEntry{{DesignCode: "FLORA-102"}},
	})

	var verr pkg.ErrValidation
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, repo.orders, "nothing written on validation failure")
	assert.Empty(t, repo.entries)
}

func TestNewOrderPopulatesDefaultLedger(t *testing.T) {
	svc := NewDefaultService(newMemRepo())

	resp := seedOrder(t, svc, RequestNewEntry{DesignCode: "FLORA-102", Price: "88"})

	require.Len(t, resp.Entries, 1)
	assert.Len(t, resp.Entries[0].Shades, 31)
	assert.Equal(t, StateOrdered, StateOf(resp.Entries[0]))
}

func TestStageUnstage(t *testing.T) {
	repo := newMemRepo()
	svc := NewDefaultService(repo)
	resp := seedOrder(t, svc, RequestNewEntry{DesignCode: "FLORA-102", Price: "88"})
	entryID := resp.Entries[0].ID
	ctx := context.Background()

	require.NoError(t, svc.Stage(ctx, entryID))
	staged, _ := repo.GetEntry(ctx, entryID)
	assert.NotNil(t, staged.BhiwandiDate)

	err := svc.Stage(ctx, entryID)
	var verr pkg.ErrValidation
	assert.ErrorAs(t, err, &verr, "staging twice is rejected")

	require.NoError(t, svc.Unstage(ctx, entryID))
	unstaged, _ := repo.GetEntry(ctx, entryID)
	assert.Nil(t, unstaged.BhiwandiDate)
}

func TestDispatchBulk(t *testing.T) {
	repo := newMemRepo()
	svc := NewDefaultService(repo)
	resp := seedOrder(t, svc,
		RequestNewEntry{DesignCode: "FLORA-102", Price: "88"},
		RequestNewEntry{DesignCode: "D-501", Price: "95"},
	)
	ids := []int64{resp.Entries[0].ID, resp.Entries[1].ID}
	ctx := context.Background()

	require.NoError(t, svc.Dispatch(ctx, ids))

	a, _ := repo.GetEntry(ctx, ids[0])
	b, _ := repo.GetEntry(ctx, ids[1])
	require.NotNil(t, a.DispatchDate)
	require.NotNil(t, b.DispatchDate)
	assert.True(t, a.DispatchDate.Equal(*b.DispatchDate), "one shared dispatch timestamp")
}

func TestDispatchFailureLeavesNothingApplied(t *testing.T) {
	repo := newMemRepo()
	svc := NewDefaultService(repo)
	resp := seedOrder(t, svc,
		RequestNewEntry{DesignCode: "FLORA-102", Price: "88"},
		RequestNewEntry{DesignCode: "D-501", Price: "95"},
	)
	ids := []int64{resp.Entries[0].ID, resp.Entries[1].ID}
	ctx := context.Background()

	repo.failBulk = true
	err := svc.Dispatch(ctx, ids)
	require.Error(t, err)

	for _, id := range ids {
		e, _ := repo.GetEntry(ctx, id)
		assert.Nil(t, e.DispatchDate, "no partial application")
	}
}

func TestCombineBatches(t *testing.T) {
	repo := newMemRepo()
	svc := NewDefaultService(repo)
	resp := seedOrder(t, svc,
		RequestNewEntry{DesignCode: "A-101", Price: "10"},
		RequestNewEntry{DesignCode: "B-202", Price: "20"},
		RequestNewEntry{DesignCode: "C-303", Price: "30"},
	)
	ctx := context.Background()

	t1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	t3 := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	for i, ts := range []time.Time{t1, t2, t3} {
		e, _ := repo.GetEntry(ctx, resp.Entries[i].ID)
		at := ts
		e.BhiwandiDate = &at
		require.NoError(t, repo.UpdateEntry(ctx, *e))
	}

	merged, err := svc.CombineBatches(ctx, []time.Time{t1, t2})
	require.NoError(t, err)

	a, _ := repo.GetEntry(ctx, resp.Entries[0].ID)
	b, _ := repo.GetEntry(ctx, resp.Entries[1].ID)
	c, _ := repo.GetEntry(ctx, resp.Entries[2].ID)
	assert.True(t, a.BhiwandiDate.Equal(merged))
	assert.True(t, b.BhiwandiDate.Equal(merged))
	assert.True(t, c.BhiwandiDate.Equal(t3), "third batch untouched")
}

func TestCombineBatchesNeedsTwoDistinct(t *testing.T) {
	svc := NewDefaultService(newMemRepo())
	t1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	_, err := svc.CombineBatches(context.Background(), []time.Time{t1, t1})

	var cerr pkg.ErrConflict
	assert.ErrorAs(t, err, &cerr)
}

func TestSplitPart(t *testing.T) {
	repo := newMemRepo()
	svc := NewDefaultService(repo)
	resp := seedOrder(t, svc, RequestNewEntry{DesignCode: "FLORA-102", Price: "88", Remark: "rush"})
	source := resp.Entries[0]
	ctx := context.Background()

	require.NoError(t, svc.UpdateShades(ctx, source.ID, shade.Ledger{{Name: "1", Qty: "40"}}))

	part, err := svc.SplitPart(ctx, source.ID)
	require.NoError(t, err)

	assert.Equal(t, source.OrderID, part.OrderID)
	assert.Equal(t, "FLORA-102", part.DesignCode)
	assert.Equal(t, "88", part.Price)
	assert.True(t, part.Part)
	assert.Len(t, part.Shades, 31, "fresh default ledger, not a copy")

	unchanged, _ := repo.GetEntry(ctx, source.ID)
	assert.False(t, unchanged.Part)
	assert.Equal(t, shade.Ledger{{Name: "1", Qty: "40"}}, unchanged.Shades)
}

func TestUpdateShadesRejectedAfterDispatch(t *testing.T) {
	repo := newMemRepo()
	svc := NewDefaultService(repo)
	resp := seedOrder(t, svc, RequestNewEntry{DesignCode: "FLORA-102", Price: "88"})
	ctx := context.Background()

	require.NoError(t, svc.Dispatch(ctx, []int64{resp.Entries[0].ID}))

	err := svc.UpdateShades(ctx, resp.Entries[0].ID, shade.NewDefault())
	var verr pkg.ErrValidation
	assert.ErrorAs(t, err, &verr)
}

func TestCancelEntryOverwrites(t *testing.T) {
	repo := newMemRepo()
	svc := NewDefaultService(repo)
	resp := seedOrder(t, svc, RequestNewEntry{DesignCode: "FLORA-102", Price: "88", Remark: "keep me"})
	ctx := context.Background()

	require.NoError(t, svc.CancelEntry(ctx, resp.Entries[0].ID))

	e, _ := repo.GetEntry(ctx, resp.Entries[0].ID)
	assert.Equal(t, CancelMarker, e.Remark)
	assert.NotNil(t, e.BhiwandiDate)
	assert.NotNil(t, e.DispatchDate)
	assert.Equal(t, StateCancelled, StateOf(*e))
}

func TestCancelOrderExcludesFromCounts(t *testing.T) {
	repo := newMemRepo()
	svc := NewDefaultService(repo)
	resp := seedOrder(t, svc, RequestNewEntry{DesignCode: "FLORA-102", Price: "88"})
	ctx := context.Background()

	require.NoError(t, svc.CancelOrder(ctx, resp.ID))

	counts, err := repo.CountByDesign(ctx)
	require.NoError(t, err)
	assert.Empty(t, counts)

	require.NoError(t, svc.RestoreOrder(ctx, resp.ID))
	counts, _ = repo.CountByDesign(ctx)
	assert.Len(t, counts, 1)
}
