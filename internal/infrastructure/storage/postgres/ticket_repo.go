package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fieldops/internal/core/apperror"
	"fieldops/internal/domain/tickets"
)

var _ tickets.Repository = (*TicketRepo)(nil)

// TicketRepo is the PostgreSQL implementation of tickets.Repository.
// Detail and part lines live in child tables and are rewritten as a
// whole on update.
type TicketRepo struct {
	txManager *TxManager
}

func NewTicketRepo(txManager *TxManager) *TicketRepo {
	return &TicketRepo{txManager: txManager}
}

var ticketColumns = []string{
	"id", "number", "year", "client_id", "site_id",
	"client_name", "client_address", "site_name", "site_address",
	"date", "category", "is_contract", "is_rental_pickup", "call_fee_flag",
	"start_time", "end_time", "reported_defect", "work_performed", "technician_name",
	"extra_costs", "call_fee_applied", "hourly_rate_applied",
	"calls_used_at_ticket", "calls_remaining_at_ticket", "contract_limit_at_ticket",
	"version", "created_at", "updated_at",
}

func (r *TicketRepo) Create(ctx context.Context, t *tickets.Ticket) error {
	sql, args, err := builder().
		Insert("tickets").
		Columns("number", "year", "client_id", "site_id",
			"client_name", "client_address", "site_name", "site_address",
			"date", "category", "is_contract", "is_rental_pickup", "call_fee_flag",
			"start_time", "end_time", "reported_defect", "work_performed", "technician_name",
			"extra_costs", "call_fee_applied", "hourly_rate_applied",
			"calls_used_at_ticket", "calls_remaining_at_ticket", "contract_limit_at_ticket",
			"version").
		Values(t.Number, t.Year, t.ClientID, t.SiteID,
			t.ClientName, t.ClientAddress, t.SiteName, t.SiteAddress,
			t.Date, t.Category, t.IsContract, t.IsRentalPickup, t.CallFeeFlag,
			t.StartTime, t.EndTime, t.ReportedDefect, t.WorkPerformed, t.TechnicianName,
			t.ExtraCosts, t.CallFeeApplied, t.HourlyRateApplied,
			t.CallsUsedAtTicket, t.CallsRemainingAtTicket, t.ContractLimitAtTicket,
			t.Version).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert ticket: %w", err)
	}

	q := r.txManager.GetQuerier(ctx)
	if err := q.QueryRow(ctx, sql, args...).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return fmt.Errorf("insert ticket: %w", err)
	}

	return r.insertLines(ctx, t)
}

func (r *TicketRepo) Update(ctx context.Context, t *tickets.Ticket) error {
	sql, args, err := builder().
		Update("tickets").
		Set("site_id", t.SiteID).
		Set("site_name", t.SiteName).
		Set("site_address", t.SiteAddress).
		Set("category", t.Category).
		Set("is_contract", t.IsContract).
		Set("is_rental_pickup", t.IsRentalPickup).
		Set("call_fee_flag", t.CallFeeFlag).
		Set("start_time", t.StartTime).
		Set("end_time", t.EndTime).
		Set("reported_defect", t.ReportedDefect).
		Set("work_performed", t.WorkPerformed).
		Set("technician_name", t.TechnicianName).
		Set("extra_costs", t.ExtraCosts).
		Set("call_fee_applied", t.CallFeeApplied).
		Set("hourly_rate_applied", t.HourlyRateApplied).
		Set("calls_used_at_ticket", t.CallsUsedAtTicket).
		Set("calls_remaining_at_ticket", t.CallsRemainingAtTicket).
		Set("contract_limit_at_ticket", t.ContractLimitAtTicket).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": t.ID, "version": t.Version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update ticket: %w", err)
	}

	q := r.txManager.GetQuerier(ctx)
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update ticket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, t.ID); err != nil {
			return err
		}
		return apperror.NewStateConflict("ticket", t.ID)
	}
	t.Version++

	for _, table := range []string{"ticket_details", "ticket_parts"} {
		if _, err := q.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE ticket_id = $1", table), t.ID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return r.insertLines(ctx, t)
}

func (r *TicketRepo) insertLines(ctx context.Context, t *tickets.Ticket) error {
	q := r.txManager.GetQuerier(ctx)

	if len(t.Details) > 0 {
		ins := builder().
			Insert("ticket_details").
			Columns("ticket_id", "position", "brand_model", "serial", "part_number", "description")
		for i, d := range t.Details {
			ins = ins.Values(t.ID, i, d.BrandModel, d.Serial, d.PartNumber, d.Description)
		}
		sql, args, err := ins.ToSql()
		if err != nil {
			return fmt.Errorf("build insert ticket details: %w", err)
		}
		if _, err := q.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("insert ticket details: %w", err)
		}
	}

	if len(t.Parts) > 0 {
		ins := builder().
			Insert("ticket_parts").
			Columns("ticket_id", "position", "description", "quantity", "unit_price")
		for i, p := range t.Parts {
			ins = ins.Values(t.ID, i, p.Description, p.Quantity, p.UnitPrice)
		}
		sql, args, err := ins.ToSql()
		if err != nil {
			return fmt.Errorf("build insert ticket parts: %w", err)
		}
		if _, err := q.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("insert ticket parts: %w", err)
		}
	}
	return nil
}

func (r *TicketRepo) GetByID(ctx context.Context, id int64) (*tickets.Ticket, error) {
	return r.getByID(ctx, id, false)
}

func (r *TicketRepo) GetByIDForUpdate(ctx context.Context, id int64) (*tickets.Ticket, error) {
	return r.getByID(ctx, id, true)
}

func (r *TicketRepo) getByID(ctx context.Context, id int64, forUpdate bool) (*tickets.Ticket, error) {
	q := builder().
		Select(ticketColumns...).
		From("tickets").
		Where(squirrel.Eq{"id": id})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select ticket: %w", err)
	}

	var t tickets.Ticket
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &t, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("ticket", id)
		}
		return nil, fmt.Errorf("select ticket: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &t.Details,
		"SELECT brand_model, serial, part_number, description FROM ticket_details WHERE ticket_id = $1 ORDER BY position", id); err != nil {
		return nil, fmt.Errorf("select ticket details: %w", err)
	}
	if err := pgxscan.Select(ctx, querier, &t.Parts,
		"SELECT description, quantity, unit_price FROM ticket_parts WHERE ticket_id = $1 ORDER BY position", id); err != nil {
		return nil, fmt.Errorf("select ticket parts: %w", err)
	}
	return &t, nil
}

func (r *TicketRepo) List(ctx context.Context, f tickets.Filter) ([]tickets.Ticket, error) {
	q := builder().
		Select(ticketColumns...).
		From("tickets").
		OrderBy("date DESC", "id DESC").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset))

	if f.ClientID != nil {
		q = q.Where(squirrel.Eq{"client_id": *f.ClientID})
	}
	if f.Year != nil {
		q = q.Where(squirrel.Eq{"year": *f.Year})
	}
	if f.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *f.DateFrom})
	}
	if f.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *f.DateTo})
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"number": pattern},
			squirrel.ILike{"client_name": pattern},
			squirrel.ILike{"reported_defect": pattern},
		})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list tickets: %w", err)
	}

	var result []tickets.Ticket
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &result, sql, args...); err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return result, nil
}
