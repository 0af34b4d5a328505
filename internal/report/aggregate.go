package report

import (
	"context"
	"log/slog"
	"sync"

	"textile-trade-tracker/internal/designcode"
	"textile-trade-tracker/internal/order"
)

// Store is the slice of the persistence collaborator the aggregation
// engine needs.
type Store interface {
	ListEntries(ctx context.Context, filter order.EntryFilter) ([]order.DBEntry, error)
	CountByDesign(ctx context.Context) ([]order.DesignCount, error)
	CountByParty(ctx context.Context) ([]order.PartyCount, error)
	GetEntry(ctx context.Context, entryID int64) (*order.DBEntry, error)
	GetOrder(ctx context.Context, orderID int64) (*order.DBOrder, error)
	GetParty(ctx context.Context, partyID int64) (*order.DBParty, error)
}

type Service interface {
	CountByDesign(ctx context.Context) ([]order.DesignCount, error)
	CountByParty(ctx context.Context) ([]order.PartyCount, error)
	EntriesForParty(ctx context.Context, partyID int64) ([]order.DBEntry, error)
	Refresh(partyID int64)
	BhiwandiList(ctx context.Context) ([]order.DBEntry, error)
	DispatchList(ctx context.Context) ([]order.DBEntry, error)
	DesignsInCategory(ctx context.Context, category designcode.Category) ([]order.DesignCount, error)
	DesignsWithPrefix(ctx context.Context, prefix string) ([]order.DesignCount, error)
	Program(ctx context.Context, entryIDs []int64, colourCounts map[string]int) ([]ProgramLine, error)
}

type DefaultService struct {
	store Store

	mu           sync.Mutex
	partyEntries map[int64][]order.DBEntry
}

func NewDefaultService(store Store) Service {
	return &DefaultService{
		store:        store,
		partyEntries: make(map[int64][]order.DBEntry),
	}
}

func (d *DefaultService) CountByDesign(ctx context.Context) ([]order.DesignCount, error) {
	counts, err := d.store.CountByDesign(ctx)
	if err != nil {
		slog.Error("Failed to count entries by design", "error", err)
		return nil, err
	}
	return counts, nil
}

func (d *DefaultService) CountByParty(ctx context.Context) ([]order.PartyCount, error) {
	counts, err := d.store.CountByParty(ctx)
	if err != nil {
		slog.Error("Failed to count entries by party", "error", err)
		return nil, err
	}
	return counts, nil
}

// EntriesForParty fetches a party's entries lazily, on first expansion of
// the party group, and memoizes the result until Refresh is called for
// that party.
func (d *DefaultService) EntriesForParty(ctx context.Context, partyID int64) ([]order.DBEntry, error) {
	d.mu.Lock()
	if cached, ok := d.partyEntries[partyID]; ok {
		d.mu.Unlock()
		return cached, nil
	}
	d.mu.Unlock()

	entries, err := d.store.ListEntries(ctx, order.EntryFilter{PartyID: &partyID})
	if err != nil {
		slog.Error("Failed to list entries for party", "error", err, "partyID", partyID)
		return nil, err
	}

	d.mu.Lock()
	d.partyEntries[partyID] = entries
	d.mu.Unlock()
	return entries, nil
}

func (d *DefaultService) Refresh(partyID int64) {
	d.mu.Lock()
	delete(d.partyEntries, partyID)
	d.mu.Unlock()
}

// BhiwandiList holds entries staged for regional transfer but not yet
// dispatched.
func (d *DefaultService) BhiwandiList(ctx context.Context) ([]order.DBEntry, error) {
	staged, notDispatched := true, false
	return d.store.ListEntries(ctx, order.EntryFilter{
		Staged:     &staged,
		Dispatched: &notDispatched,
	})
}

func (d *DefaultService) DispatchList(ctx context.Context) ([]order.DBEntry, error) {
	dispatched := true
	return d.store.ListEntries(ctx, order.EntryFilter{Dispatched: &dispatched})
}

func (d *DefaultService) DesignsInCategory(ctx context.Context, category designcode.Category) ([]order.DesignCount, error) {
	counts, err := d.CountByDesign(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]order.DesignCount, 0, len(counts))
	codes := make([]string, 0, len(counts))
	byCode := make(map[string]order.DesignCount, len(counts))
	for _, c := range counts {
		if designcode.Classify(c.Design) != category {
			continue
		}
		codes = append(codes, c.Design)
		byCode[c.Design] = c
	}
	designcode.SortCodes(category, codes)
	for _, code := range codes {
		filtered = append(filtered, byCode[code])
	}
	return filtered, nil
}

func (d *DefaultService) DesignsWithPrefix(ctx context.Context, prefix string) ([]order.DesignCount, error) {
	counts, err := d.CountByDesign(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]order.DesignCount, 0, len(counts))
	codes := make([]string, 0, len(counts))
	byCode := make(map[string]order.DesignCount, len(counts))
	for _, c := range counts {
		if !designcode.MatchesPrefix(c.Design, prefix) {
			continue
		}
		codes = append(codes, c.Design)
		byCode[c.Design] = c
	}
	designcode.SortCodes(CategoryPrefix, codes)
	for _, code := range codes {
		filtered = append(filtered, byCode[code])
	}
	return filtered, nil
}

// CategoryPrefix sorts like regular codes: alphabetically.
const CategoryPrefix = designcode.CategoryRegular
