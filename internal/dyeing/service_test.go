package dyeing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textile-trade-tracker/pkg"
)

type memRepo struct {
	programs map[int64]DBProgram
	receipts map[int64][]DBReceipt
	nextID   int64
}

func newMemRepo() *memRepo {
	return &memRepo{
		programs: map[int64]DBProgram{},
		receipts: map[int64][]DBReceipt{},
		nextID:   1,
	}
}

func (m *memRepo) InsertProgram(_ context.Context, program DBProgram) (*DBProgram, error) {
	program.ID = m.nextID
	m.nextID++
	m.programs[program.ID] = program
	return &program, nil
}

func (m *memRepo) GetProgram(_ context.Context, programID int64) (*DBProgram, error) {
	p, ok := m.programs[programID]
	if !ok {
		return nil, pkg.ErrNotFound{What: "dyeing program", ID: programID}
	}
	return &p, nil
}

func (m *memRepo) ListPrograms(_ context.Context, includeCompleted bool) ([]DBProgram, error) {
	var programs []DBProgram
	for id := int64(1); id < m.nextID; id++ {
		p, ok := m.programs[id]
		if !ok {
			continue
		}
		if !includeCompleted && p.CompletedAt != nil {
			continue
		}
		programs = append(programs, p)
	}
	return programs, nil
}

func (m *memRepo) SetCompleted(_ context.Context, programID int64, at time.Time) error {
	p := m.programs[programID]
	p.CompletedAt = &at
	m.programs[programID] = p
	return nil
}

func (m *memRepo) InsertReceipt(_ context.Context, receipt DBReceipt) (*DBReceipt, error) {
	receipt.ID = m.nextID
	m.nextID++
	m.receipts[receipt.ProgramID] = append(m.receipts[receipt.ProgramID], receipt)
	return &receipt, nil
}

func (m *memRepo) ListReceipts(_ context.Context, programID int64) ([]DBReceipt, error) {
	return m.receipts[programID], nil
}

func TestCreateValidation(t *testing.T) {
	svc := NewDefaultService(newMemRepo())

	_, err := svc.Create(context.Background(), "", "Navy", 10, "")
	assert.IsType(t, pkg.ErrValidation{}, err)

	_, err = svc.Create(context.Background(), "ABD-1205", "Navy", 0, "")
	assert.IsType(t, pkg.ErrValidation{}, err)
}

func TestReceiptsReducePending(t *testing.T) {
	svc := NewDefaultService(newMemRepo())

	program, err := svc.Create(context.Background(), "ABD-1205", "Navy", 12, "urgent")
	require.NoError(t, err)

	resp, err := svc.Get(context.Background(), program.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, resp.Pending)

	resp, err = svc.AddReceipt(context.Background(), program.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 7, resp.Pending)

	resp, err = svc.AddReceipt(context.Background(), program.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Pending)
	assert.Len(t, resp.Receipts, 2)
}

func TestOverReceiptRejected(t *testing.T) {
	svc := NewDefaultService(newMemRepo())

	program, err := svc.Create(context.Background(), "ABD-1205", "Navy", 10, "")
	require.NoError(t, err)

	_, err = svc.AddReceipt(context.Background(), program.ID, 8)
	require.NoError(t, err)

	_, err = svc.AddReceipt(context.Background(), program.ID, 3)
	assert.IsType(t, pkg.ErrValidation{}, err)

	resp, err := svc.Get(context.Background(), program.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Pending)
	assert.Len(t, resp.Receipts, 1)
}

func TestCompletedProgramRejectsReceipts(t *testing.T) {
	svc := NewDefaultService(newMemRepo())

	program, err := svc.Create(context.Background(), "SILK-204", "Rust", 6, "")
	require.NoError(t, err)
	require.NoError(t, svc.Complete(context.Background(), program.ID))

	_, err = svc.AddReceipt(context.Background(), program.ID, 1)
	assert.IsType(t, pkg.ErrValidation{}, err)
}

func TestListSkipsCompleted(t *testing.T) {
	svc := NewDefaultService(newMemRepo())

	first, err := svc.Create(context.Background(), "ABD-1205", "Navy", 10, "")
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), "SILK-204", "Rust", 6, "")
	require.NoError(t, err)
	require.NoError(t, svc.Complete(context.Background(), second.ID))

	open, err := svc.List(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, first.ID, open[0].ID)

	all, err := svc.List(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
