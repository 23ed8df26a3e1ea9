package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"

	"fieldops/internal/domain/scheduler"
)

var _ scheduler.Repository = (*ScanRepo)(nil)

// ScanRepo provides the scheduler scan queries.
type ScanRepo struct {
	txManager *TxManager
}

func NewScanRepo(txManager *TxManager) *ScanRepo {
	return &ScanRepo{txManager: txManager}
}

func (r *ScanRepo) ExpiringContracts(ctx context.Context, from, to time.Time, limit int) ([]scheduler.ExpiringContract, error) {
	sql := `
		SELECT id AS client_id, business_name, admin_email, contract_end
		FROM clients
		WHERE has_service_contract
		  AND contract_end BETWEEN $1 AND $2
		ORDER BY contract_end, id
		LIMIT $3
	`

	var result []scheduler.ExpiringContract
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &result, sql, from, to, limit); err != nil {
		return nil, fmt.Errorf("select expiring contracts: %w", err)
	}
	return result, nil
}

func (r *ScanRepo) ExpiringRentals(ctx context.Context, from, to time.Time, limit int) ([]scheduler.ExpiringRental, error) {
	sql := `
		SELECT a.id AS asset_id, a.client_id, c.business_name, c.admin_email,
		       a.brand, a.model, a.serial, a.rental_end
		FROM rental_assets a
		JOIN clients c ON c.id = a.client_id
		WHERE a.rental_end BETWEEN $1 AND $2
		ORDER BY a.rental_end, a.id
		LIMIT $3
	`

	var result []scheduler.ExpiringRental
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &result, sql, from, to, limit); err != nil {
		return nil, fmt.Errorf("select expiring rentals: %w", err)
	}
	return result, nil
}

// MeterReadingsDue computes the next due date per active printing
// asset as the last reading date, or the install date, plus the
// cadence interval.
func (r *ScanRepo) MeterReadingsDue(ctx context.Context, from, to time.Time, limit int) ([]scheduler.MeterDue, error) {
	sql := `
		SELECT asset_id, client_id, business_name, admin_email,
		       brand, model, cadence, ref_date, due_date
		FROM (
			SELECT a.id AS asset_id, a.client_id, c.business_name, c.admin_email,
			       a.brand, a.model, a.cadence,
			       COALESCE(lr.read_at, a.install_date) AS ref_date,
			       COALESCE(lr.read_at, a.install_date) + make_interval(days =>
			           CASE a.cadence
			               WHEN 'monthly'    THEN 30
			               WHEN 'bimonthly'  THEN 60
			               WHEN 'semiannual' THEN 180
			               ELSE 90
			           END) AS due_date
			FROM rental_assets a
			JOIN clients c ON c.id = a.client_id
			LEFT JOIN LATERAL (
				SELECT read_at
				FROM meter_readings
				WHERE asset_id = a.id
				ORDER BY read_at DESC, id DESC
				LIMIT 1
			) lr ON TRUE
			WHERE a.kind = 'Printing'
			  AND (a.rental_end IS NULL OR a.rental_end > NOW())
		) due
		WHERE due_date BETWEEN $1 AND $2
		ORDER BY due_date, asset_id
		LIMIT $3
	`

	var result []scheduler.MeterDue
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &result, sql, from, to, limit); err != nil {
		return nil, fmt.Errorf("select meter readings due: %w", err)
	}
	return result, nil
}
