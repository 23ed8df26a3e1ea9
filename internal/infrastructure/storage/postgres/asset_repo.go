package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fieldops/internal/core/apperror"
	"fieldops/internal/domain/assets"
)

var _ assets.Repository = (*AssetRepo)(nil)

// AssetRepo is the PostgreSQL implementation of assets.Repository.
type AssetRepo struct {
	txManager *TxManager
}

func NewAssetRepo(txManager *TxManager) *AssetRepo {
	return &AssetRepo{txManager: txManager}
}

var assetColumns = []string{
	"id", "client_id", "site_id", "kind", "brand", "model", "serial",
	"install_date", "rental_end", "cadence", "baseline_mono", "baseline_color",
	"included_mono_per_month", "included_color_per_month",
	"overage_mono_rate", "overage_color_rate",
	"version", "created_at", "updated_at",
}

func (r *AssetRepo) Create(ctx context.Context, a *assets.RentalAsset) error {
	sql, args, err := builder().
		Insert("rental_assets").
		Columns("client_id", "site_id", "kind", "brand", "model", "serial",
			"install_date", "rental_end", "cadence", "baseline_mono", "baseline_color",
			"included_mono_per_month", "included_color_per_month",
			"overage_mono_rate", "overage_color_rate", "version").
		Values(a.ClientID, a.SiteID, a.Kind, a.Brand, a.Model, a.Serial,
			a.InstallDate, a.RentalEnd, a.Cadence, a.BaselineMono, a.BaselineColor,
			a.IncludedMonoPerMonth, a.IncludedColorPerMonth,
			a.OverageMonoRate, a.OverageColorRate, a.Version).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert asset: %w", err)
	}

	q := r.txManager.GetQuerier(ctx)
	if err := q.QueryRow(ctx, sql, args...).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return fmt.Errorf("insert asset: %w", err)
	}
	return nil
}

func (r *AssetRepo) Update(ctx context.Context, a *assets.RentalAsset) error {
	sql, args, err := builder().
		Update("rental_assets").
		Set("site_id", a.SiteID).
		Set("kind", a.Kind).
		Set("brand", a.Brand).
		Set("model", a.Model).
		Set("serial", a.Serial).
		Set("install_date", a.InstallDate).
		Set("rental_end", a.RentalEnd).
		Set("cadence", a.Cadence).
		Set("baseline_mono", a.BaselineMono).
		Set("baseline_color", a.BaselineColor).
		Set("included_mono_per_month", a.IncludedMonoPerMonth).
		Set("included_color_per_month", a.IncludedColorPerMonth).
		Set("overage_mono_rate", a.OverageMonoRate).
		Set("overage_color_rate", a.OverageColorRate).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": a.ID, "version": a.Version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update asset: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update asset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, a.ID); err != nil {
			return err
		}
		return apperror.NewStateConflict("asset", a.ID)
	}
	a.Version++
	return nil
}

func (r *AssetRepo) GetByID(ctx context.Context, id int64) (*assets.RentalAsset, error) {
	return r.getByID(ctx, id, false)
}

func (r *AssetRepo) GetByIDForUpdate(ctx context.Context, id int64) (*assets.RentalAsset, error) {
	return r.getByID(ctx, id, true)
}

func (r *AssetRepo) getByID(ctx context.Context, id int64, forUpdate bool) (*assets.RentalAsset, error) {
	q := builder().
		Select(assetColumns...).
		From("rental_assets").
		Where(squirrel.Eq{"id": id})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select asset: %w", err)
	}

	var a assets.RentalAsset
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &a, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("asset", id)
		}
		return nil, fmt.Errorf("select asset: %w", err)
	}
	return &a, nil
}

func (r *AssetRepo) ListByClient(ctx context.Context, clientID int64) ([]assets.RentalAsset, error) {
	sql, args, err := builder().
		Select(assetColumns...).
		From("rental_assets").
		Where(squirrel.Eq{"client_id": clientID}).
		OrderBy("rental_end DESC NULLS FIRST", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list assets: %w", err)
	}

	var result []assets.RentalAsset
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &result, sql, args...); err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	return result, nil
}

func (r *AssetRepo) Delete(ctx context.Context, id int64) error {
	sql, args, err := builder().
		Delete("rental_assets").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete asset: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("asset", id)
	}
	return nil
}
