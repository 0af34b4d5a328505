package dyeing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"textile-trade-tracker/pkg"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo interface {
	InsertProgram(ctx context.Context, program DBProgram) (*DBProgram, error)
	GetProgram(ctx context.Context, programID int64) (*DBProgram, error)
	ListPrograms(ctx context.Context, includeCompleted bool) ([]DBProgram, error)
	SetCompleted(ctx context.Context, programID int64, at time.Time) error

	InsertReceipt(ctx context.Context, receipt DBReceipt) (*DBReceipt, error)
	ListReceipts(ctx context.Context, programID int64) ([]DBReceipt, error)
}

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type DefaultRepo struct {
	pool *pgxpool.Pool
}

func NewDefaultRepo(pool *pgxpool.Pool) Repo {
	return &DefaultRepo{pool: pool}
}

func (d *DefaultRepo) InsertProgram(ctx context.Context, program DBProgram) (*DBProgram, error) {
	query, args, err := qb.Insert("dyeing_programs").
		Columns("design_code", "colour", "total_takas", "remark", "created_at").
		Values(program.DesignCode, program.Colour, program.TotalTakas, program.Remark, program.CreatedAt).
		Suffix("returning program_id").
		ToSql()
	if err != nil {
		return nil, &pkg.ErrStoreProcedure{Cause: "failed to build program insert", Err: err}
	}
	if err := d.pool.QueryRow(ctx, query, args...).Scan(&program.ID); err != nil {
		return nil, &pkg.ErrStoreProcedure{
			Cause: "failed to insert dyeing program",
			Info:  fmt.Sprintf("query: %s", query),
			Err:   err,
		}
	}
	return &program, nil
}

func (d *DefaultRepo) GetProgram(ctx context.Context, programID int64) (*DBProgram, error) {
	query, args, err := qb.Select("program_id", "design_code", "colour", "total_takas", "remark", "created_at", "completed_at").
		From("dyeing_programs").
		Where(sq.Eq{"program_id": programID}).
		ToSql()
	if err != nil {
		return nil, &pkg.ErrStoreProcedure{Cause: "failed to build program select", Err: err}
	}

	var p DBProgram
	err = d.pool.QueryRow(ctx, query, args...).
		Scan(&p.ID, &p.DesignCode, &p.Colour, &p.TotalTakas, &p.Remark, &p.CreatedAt, &p.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, pkg.ErrNotFound{What: "dyeing program", ID: programID}
	}
	if err != nil {
		return nil, &pkg.ErrStoreProcedure{
			Cause: "failed to select dyeing program",
			Info:  fmt.Sprintf("programID: %d", programID),
			Err:   err,
		}
	}
	return &p, nil
}

func (d *DefaultRepo) ListPrograms(ctx context.Context, includeCompleted bool) ([]DBProgram, error) {
	builder := qb.Select("program_id", "design_code", "colour", "total_takas", "remark", "created_at", "completed_at").
		From("dyeing_programs").
		OrderBy("program_id asc")
	if !includeCompleted {
		builder = builder.Where("completed_at is null")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, &pkg.ErrStoreProcedure{Cause: "failed to build programs select", Err: err}
	}

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, &pkg.ErrStoreProcedure{Cause: "failed to select dyeing programs", Err: err}
	}
	defer rows.Close()

	var programs []DBProgram
	for rows.Next() {
		var p DBProgram
		if err := rows.Scan(&p.ID, &p.DesignCode, &p.Colour, &p.TotalTakas, &p.Remark, &p.CreatedAt, &p.CompletedAt); err != nil {
			return nil, &pkg.ErrStoreProcedure{Cause: "failed to scan program row", Err: err}
		}
		programs = append(programs, p)
	}
	return programs, rows.Err()
}

func (d *DefaultRepo) SetCompleted(ctx context.Context, programID int64, at time.Time) error {
	query, args, err := qb.Update("dyeing_programs").
		Set("completed_at", at).
		Where(sq.Eq{"program_id": programID}).
		ToSql()
	if err != nil {
		return &pkg.ErrStoreProcedure{Cause: "failed to build program update", Err: err}
	}
	if _, err := d.pool.Exec(ctx, query, args...); err != nil {
		return &pkg.ErrStoreProcedure{
			Cause: "failed to complete dyeing program",
			Info:  fmt.Sprintf("programID: %d", programID),
			Err:   err,
		}
	}
	return nil
}

func (d *DefaultRepo) InsertReceipt(ctx context.Context, receipt DBReceipt) (*DBReceipt, error) {
	query, args, err := qb.Insert("dyeing_receipts").
		Columns("program_id", "takas", "received_on").
		Values(receipt.ProgramID, receipt.Takas, receipt.Date).
		Suffix("returning receipt_id").
		ToSql()
	if err != nil {
		return nil, &pkg.ErrStoreProcedure{Cause: "failed to build receipt insert", Err: err}
	}
	if err := d.pool.QueryRow(ctx, query, args...).Scan(&receipt.ID); err != nil {
		return nil, &pkg.ErrStoreProcedure{
			Cause: "failed to insert dyeing receipt",
			Info:  fmt.Sprintf("programID: %d", receipt.ProgramID),
			Err:   err,
		}
	}
	return &receipt, nil
}

func (d *DefaultRepo) ListReceipts(ctx context.Context, programID int64) ([]DBReceipt, error) {
	query, args, err := qb.Select("receipt_id", "program_id", "takas", "received_on").
		From("dyeing_receipts").
		Where(sq.Eq{"program_id": programID}).
		OrderBy("receipt_id asc").
		ToSql()
	if err != nil {
		return nil, &pkg.ErrStoreProcedure{Cause: "failed to build receipts select", Err: err}
	}

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, &pkg.ErrStoreProcedure{
			Cause: "failed to select dyeing receipts",
			Info:  fmt.Sprintf("programID: %d", programID),
			Err:   err,
		}
	}
	defer rows.Close()

	var receipts []DBReceipt
	for rows.Next() {
		var r DBReceipt
		if err := rows.Scan(&r.ID, &r.ProgramID, &r.Takas, &r.Date); err != nil {
			return nil, &pkg.ErrStoreProcedure{Cause: "failed to scan receipt row", Err: err}
		}
		receipts = append(receipts, r)
	}
	return receipts, rows.Err()
}
