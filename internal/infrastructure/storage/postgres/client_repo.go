package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fieldops/internal/core/apperror"
	"fieldops/internal/domain/clients"
)

// builder returns a squirrel builder with PostgreSQL placeholders.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

var _ clients.Repository = (*ClientRepo)(nil)

// ClientRepo is the PostgreSQL implementation of clients.Repository.
type ClientRepo struct {
	txManager *TxManager
}

func NewClientRepo(txManager *TxManager) *ClientRepo {
	return &ClientRepo{txManager: txManager}
}

var clientColumns = []string{
	"id", "business_name", "address", "city", "postal_code", "vat_number",
	"admin_email", "has_service_contract", "contract_start", "contract_end",
	"contract_call_limit", "calls_used", "overage_call_rate",
	"has_rental_assets", "version", "created_at", "updated_at",
}

func (r *ClientRepo) Create(ctx context.Context, c *clients.Client) error {
	sql, args, err := builder().
		Insert("clients").
		Columns("business_name", "address", "city", "postal_code", "vat_number",
			"admin_email", "has_service_contract", "contract_start", "contract_end",
			"contract_call_limit", "calls_used", "overage_call_rate",
			"has_rental_assets", "version").
		Values(c.BusinessName, c.Address, c.City, c.PostalCode, c.VATNumber,
			c.AdminEmail, c.HasServiceContract, c.ContractStart, c.ContractEnd,
			c.ContractCallLimit, c.CallsUsed, c.OverageCallRate,
			c.HasRentalAssets, c.Version).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert client: %w", err)
	}

	q := r.txManager.GetQuerier(ctx)
	if err := q.QueryRow(ctx, sql, args...).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

func (r *ClientRepo) Update(ctx context.Context, c *clients.Client) error {
	sql, args, err := builder().
		Update("clients").
		Set("business_name", c.BusinessName).
		Set("address", c.Address).
		Set("city", c.City).
		Set("postal_code", c.PostalCode).
		Set("vat_number", c.VATNumber).
		Set("admin_email", c.AdminEmail).
		Set("has_service_contract", c.HasServiceContract).
		Set("contract_start", c.ContractStart).
		Set("contract_end", c.ContractEnd).
		Set("contract_call_limit", c.ContractCallLimit).
		Set("overage_call_rate", c.OverageCallRate).
		Set("has_rental_assets", c.HasRentalAssets).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": c.ID, "version": c.Version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update client: %w", err)
	}

	q := r.txManager.GetQuerier(ctx)
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, c.ID); err != nil {
			return err
		}
		return apperror.NewStateConflict("client", c.ID)
	}
	c.Version++
	return nil
}

func (r *ClientRepo) GetByID(ctx context.Context, id int64) (*clients.Client, error) {
	return r.getByID(ctx, id, false)
}

func (r *ClientRepo) GetByIDForUpdate(ctx context.Context, id int64) (*clients.Client, error) {
	return r.getByID(ctx, id, true)
}

func (r *ClientRepo) getByID(ctx context.Context, id int64, forUpdate bool) (*clients.Client, error) {
	q := builder().
		Select(clientColumns...).
		From("clients").
		Where(squirrel.Eq{"id": id})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select client: %w", err)
	}

	var c clients.Client
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &c, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("client", id)
		}
		return nil, fmt.Errorf("select client: %w", err)
	}
	return &c, nil
}

func (r *ClientRepo) UpdateCallsUsed(ctx context.Context, id int64, callsUsed int) error {
	sql, args, err := builder().
		Update("clients").
		Set("calls_used", callsUsed).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update calls_used: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update calls_used: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("client", id)
	}
	return nil
}

func (r *ClientRepo) List(ctx context.Context, f clients.Filter) ([]clients.Client, error) {
	q := builder().
		Select(clientColumns...).
		From("clients").
		OrderBy("business_name").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset))

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"business_name": pattern},
			squirrel.ILike{"vat_number": pattern},
		})
	}
	if f.OnlyWithContract {
		q = q.Where(squirrel.Eq{"has_service_contract": true})
	}
	if f.OnlyWithRentals {
		q = q.Where(squirrel.Eq{"has_rental_assets": true})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list clients: %w", err)
	}

	var result []clients.Client
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &result, sql, args...); err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return result, nil
}

func (r *ClientRepo) CreateSite(ctx context.Context, s *clients.Site) error {
	sql, args, err := builder().
		Insert("client_sites").
		Columns("client_id", "name", "address").
		Values(s.ClientID, s.Name, s.Address).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert site: %w", err)
	}

	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&s.ID); err != nil {
		return fmt.Errorf("insert site: %w", err)
	}
	return nil
}

func (r *ClientRepo) GetSite(ctx context.Context, id int64) (*clients.Site, error) {
	sql, args, err := builder().
		Select("id", "client_id", "name", "address").
		From("client_sites").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select site: %w", err)
	}

	var s clients.Site
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("site", id)
		}
		return nil, fmt.Errorf("select site: %w", err)
	}
	return &s, nil
}

func (r *ClientRepo) ListSites(ctx context.Context, clientID int64) ([]clients.Site, error) {
	sql, args, err := builder().
		Select("id", "client_id", "name", "address").
		From("client_sites").
		Where(squirrel.Eq{"client_id": clientID}).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list sites: %w", err)
	}

	var result []clients.Site
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &result, sql, args...); err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	return result, nil
}

func (r *ClientRepo) DeleteSite(ctx context.Context, id int64) error {
	sql, args, err := builder().
		Delete("client_sites").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete site: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete site: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("site", id)
	}
	return nil
}
