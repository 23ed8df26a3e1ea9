package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fieldops/internal/domain/meters"
)

var _ meters.Repository = (*MeterRepo)(nil)

// MeterRepo is the PostgreSQL implementation of meters.Repository.
type MeterRepo struct {
	txManager *TxManager
}

func NewMeterRepo(txManager *TxManager) *MeterRepo {
	return &MeterRepo{txManager: txManager}
}

var readingColumns = []string{
	"id", "asset_id", "ticket_id", "read_at", "mono", "color", "note", "created_at",
}

func (r *MeterRepo) Create(ctx context.Context, reading *meters.Reading) error {
	sql, args, err := builder().
		Insert("meter_readings").
		Columns("asset_id", "ticket_id", "read_at", "mono", "color", "note").
		Values(reading.AssetID, reading.TicketID, reading.ReadAt, reading.Mono, reading.Color, reading.Note).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert reading: %w", err)
	}

	q := r.txManager.GetQuerier(ctx)
	if err := q.QueryRow(ctx, sql, args...).Scan(&reading.ID, &reading.CreatedAt); err != nil {
		return fmt.Errorf("insert reading: %w", err)
	}
	return nil
}

func (r *MeterRepo) LastForAsset(ctx context.Context, assetID int64) (*meters.Reading, error) {
	sql, args, err := builder().
		Select(readingColumns...).
		From("meter_readings").
		Where(squirrel.Eq{"asset_id": assetID}).
		OrderBy("read_at DESC", "id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select last reading: %w", err)
	}

	var reading meters.Reading
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &reading, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("select last reading: %w", err)
	}
	return &reading, nil
}

func (r *MeterRepo) ListByAsset(ctx context.Context, assetID int64, limit int) ([]meters.Reading, error) {
	sql, args, err := builder().
		Select(readingColumns...).
		From("meter_readings").
		Where(squirrel.Eq{"asset_id": assetID}).
		OrderBy("read_at DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list readings: %w", err)
	}

	var result []meters.Reading
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &result, sql, args...); err != nil {
		return nil, fmt.Errorf("list readings: %w", err)
	}
	return result, nil
}
