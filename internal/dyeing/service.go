package dyeing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"textile-trade-tracker/internal/shade"
	"textile-trade-tracker/pkg"
)

// Service tracks dyeing programs sent to the mill and the takas that
// come back against them.
type Service interface {
	Create(ctx context.Context, designCode, colour string, totalTakas int, remark string) (*DBProgram, error)
	Get(ctx context.Context, programID int64) (*ResponseProgram, error)
	List(ctx context.Context, includeCompleted bool) ([]DBProgram, error)
	AddReceipt(ctx context.Context, programID int64, takas int) (*ResponseProgram, error)
	Complete(ctx context.Context, programID int64) error
}

type DefaultService struct {
	repo Repo
}

func NewDefaultService(repo Repo) Service {
	return &DefaultService{repo: repo}
}

func (d *DefaultService) Create(ctx context.Context, designCode, colour string, totalTakas int, remark string) (*DBProgram, error) {
	if designCode == "" {
		return nil, pkg.ErrValidation{Cause: "design code is required"}
	}
	if totalTakas < 1 {
		return nil, pkg.ErrValidation{Cause: "total takas must be positive"}
	}

	program, err := d.repo.InsertProgram(ctx, DBProgram{
		DesignCode: designCode,
		Colour:     colour,
		TotalTakas: totalTakas,
		Remark:     remark,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		slog.Error("failed to create dyeing program", "error", err, "designCode", designCode)
		return nil, err
	}
	return program, nil
}

func (d *DefaultService) Get(ctx context.Context, programID int64) (*ResponseProgram, error) {
	program, err := d.repo.GetProgram(ctx, programID)
	if err != nil {
		slog.Error("failed to get dyeing program", "error", err, "programID", programID)
		return nil, err
	}
	receipts, err := d.repo.ListReceipts(ctx, programID)
	if err != nil {
		slog.Error("failed to list dyeing receipts", "error", err, "programID", programID)
		return nil, err
	}
	return &ResponseProgram{
		Program:  *program,
		Receipts: receipts,
		Pending:  pending(program.TotalTakas, receipts),
	}, nil
}

func (d *DefaultService) List(ctx context.Context, includeCompleted bool) ([]DBProgram, error) {
	programs, err := d.repo.ListPrograms(ctx, includeCompleted)
	if err != nil {
		slog.Error("failed to list dyeing programs", "error", err)
		return nil, err
	}
	return programs, nil
}

func (d *DefaultService) AddReceipt(ctx context.Context, programID int64, takas int) (*ResponseProgram, error) {
	if takas < 1 {
		return nil, pkg.ErrValidation{Cause: "received takas must be positive"}
	}

	resp, err := d.Get(ctx, programID)
	if err != nil {
		return nil, err
	}
	if resp.Program.CompletedAt != nil {
		return nil, pkg.ErrValidation{Cause: "dyeing program is already completed"}
	}
	if takas > resp.Pending {
		return nil, pkg.ErrValidation{
			Cause: fmt.Sprintf("receipt of %d takas exceeds pending %d", takas, resp.Pending),
		}
	}

	receipt, err := d.repo.InsertReceipt(ctx, DBReceipt{
		ProgramID: programID,
		Takas:     takas,
		Date:      time.Now(),
	})
	if err != nil {
		slog.Error("failed to add dyeing receipt", "error", err, "programID", programID)
		return nil, err
	}

	resp.Receipts = append(resp.Receipts, *receipt)
	resp.Pending = pending(resp.Program.TotalTakas, resp.Receipts)
	return resp, nil
}

func (d *DefaultService) Complete(ctx context.Context, programID int64) error {
	if _, err := d.repo.GetProgram(ctx, programID); err != nil {
		slog.Error("failed to get dyeing program", "error", err, "programID", programID)
		return err
	}
	if err := d.repo.SetCompleted(ctx, programID, time.Now()); err != nil {
		slog.Error("failed to complete dyeing program", "error", err, "programID", programID)
		return err
	}
	return nil
}

func pending(total int, receipts []DBReceipt) int {
	received := make([]int, 0, len(receipts))
	for _, r := range receipts {
		received = append(received, r.Takas)
	}
	return shade.Pending(total, received...)
}
