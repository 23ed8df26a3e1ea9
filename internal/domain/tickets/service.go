package tickets

import (
	"context"
	"encoding/json"
	"time"

	"fieldops/internal/core/apperror"
	appctx "fieldops/internal/core/context"
	"fieldops/internal/core/tx"
	"fieldops/internal/domain/assets"
	"fieldops/internal/domain/audit"
	"fieldops/internal/domain/clients"
	"fieldops/internal/domain/quota"
	"fieldops/internal/domain/tariffs"
	"fieldops/pkg/logger"
)

// Service implements ticket operations: creation with numbering and
// quota accounting, edits with billing idempotency, and queries.
type Service struct {
	repo      Repository
	sequencer Sequencer
	clients   clients.Repository
	assets    assets.Repository
	txManager tx.Manager
	tariffs   tariffs.Table
	audit     audit.Logger
}

func NewService(
	repo Repository,
	sequencer Sequencer,
	clientRepo clients.Repository,
	assetRepo assets.Repository,
	txManager tx.Manager,
	tariffTable tariffs.Table,
	auditLog audit.Logger,
) *Service {
	return &Service{
		repo:      repo,
		sequencer: sequencer,
		clients:   clientRepo,
		assets:    assetRepo,
		txManager: txManager,
		tariffs:   tariffTable,
		audit:     auditLog,
	}
}

// Create issues a new ticket. Inside one transaction it locks the
// client row, resolves the call cost against the contract ledger,
// assigns the next yearly number and stores the ticket with registry
// snapshots.
func (s *Service) Create(ctx context.Context, t *Ticket) (*Ticket, error) {
	if err := s.validate(t); err != nil {
		return nil, err
	}
	if t.Date.IsZero() {
		t.Date = time.Now()
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		client, err := s.clients.GetByIDForUpdate(ctx, t.ClientID)
		if err != nil {
			return err
		}
		if t.IsContract && !client.HasServiceContract {
			return apperror.NewBusinessRule(apperror.CodeBusinessRule, "client has no assistance contract").
				WithDetail("client_id", t.ClientID)
		}

		if err := s.snapshotRegistry(ctx, t, client); err != nil {
			return err
		}

		decision, err := s.resolveBilling(ctx, t, client)
		if err != nil {
			return err
		}
		s.applyDecision(ctx, t, decision)
		if m := decision.Mutation; m != nil {
			if err := s.clients.UpdateCallsUsed(ctx, client.ID, m.UsedAfter); err != nil {
				return err
			}
		}

		t.Year = t.Date.Year()
		seq, err := s.sequencer.NextSequence(ctx, t.Year)
		if err != nil {
			return err
		}
		t.Number = FormatNumber(t.Year, seq)
		t.Version = 1

		if err := s.repo.Create(ctx, t); err != nil {
			return err
		}
		s.recordAudit(ctx, t, audit.ActionCreate)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "ticket created",
		"ticket_id", t.ID, "number", t.Number, "client_id", t.ClientID,
		"contract", t.IsContract, "call_fee", t.CallFeeApplied.String())
	return t, nil
}

// Update edits a ticket. The number, year and client never change.
// Quota accounting is idempotent: once a ticket has consumed a contract
// call its billing snapshots are frozen, while a ticket that was not
// chargeable at creation charges on the first update that makes it so.
func (s *Service) Update(ctx context.Context, t *Ticket) (*Ticket, error) {
	if t.ID == 0 {
		return nil, apperror.NewValidation("ticket id is required")
	}
	if err := s.validate(t); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetByIDForUpdate(ctx, t.ID)
		if err != nil {
			return err
		}
		if t.ClientID != current.ClientID {
			return apperror.NewBusinessRule(apperror.CodeBusinessRule, "ticket cannot move between clients")
		}

		t.Number = current.Number
		t.Year = current.Year
		t.Date = current.Date
		t.Version = current.Version
		t.ClientName = current.ClientName
		t.ClientAddress = current.ClientAddress

		client, err := s.clients.GetByIDForUpdate(ctx, t.ClientID)
		if err != nil {
			return err
		}
		if t.IsContract && !client.HasServiceContract {
			return apperror.NewBusinessRule(apperror.CodeBusinessRule, "client has no assistance contract").
				WithDetail("client_id", t.ClientID)
		}
		if err := s.snapshotSite(ctx, t); err != nil {
			return err
		}

		if current.CallsUsedAtTicket != nil {
			// Already charged against the quota: freeze the billing.
			t.CallFeeApplied = current.CallFeeApplied
			t.HourlyRateApplied = current.HourlyRateApplied
			t.CallsUsedAtTicket = current.CallsUsedAtTicket
			t.CallsRemainingAtTicket = current.CallsRemainingAtTicket
			t.ContractLimitAtTicket = current.ContractLimitAtTicket
		} else {
			decision, err := s.resolveBilling(ctx, t, client)
			if err != nil {
				return err
			}
			s.applyDecision(ctx, t, decision)
			if m := decision.Mutation; m != nil {
				if err := s.clients.UpdateCallsUsed(ctx, client.ID, m.UsedAfter); err != nil {
					return err
				}
				logger.Info(ctx, "ticket charged on update",
					"ticket_id", t.ID, "calls_used", m.UsedAfter)
			}
		}

		if err := s.repo.Update(ctx, t); err != nil {
			return err
		}
		s.recordAudit(ctx, t, audit.ActionUpdate)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Ticket, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter) ([]Ticket, error) {
	if f.Limit <= 0 || f.Limit > 500 {
		f.Limit = 100
	}
	return s.repo.List(ctx, f)
}

// resolveBilling computes the call cost for the ticket's current state,
// including the rental-fleet check for printing work.
func (s *Service) resolveBilling(ctx context.Context, t *Ticket, client *clients.Client) (quota.Decision, error) {
	rentalHit := false
	if t.Category == tariffs.CategoryPrinting && client.HasRentalAssets {
		fleet, err := s.assets.ListByClient(ctx, client.ID)
		if err != nil {
			return quota.Decision{}, err
		}
		active := fleet[:0]
		for _, a := range fleet {
			if a.Metered() && a.Active(t.Date) {
				active = append(active, a)
			}
		}
		rentalHit = MatchesRentalAsset(t.Details, active)
	}

	rate := s.tariffs.For(t.Category)
	return quota.ResolveCallCost(client, t.IsContract, rentalHit, t.Category, t.CallFeeFlag, rate), nil
}

func (s *Service) applyDecision(ctx context.Context, t *Ticket, d quota.Decision) {
	t.CallFeeApplied = d.CallFee
	t.HourlyRateApplied = d.HourlyRate
	t.CallsUsedAtTicket = nil
	t.CallsRemainingAtTicket = nil
	t.ContractLimitAtTicket = nil
	if m := d.Mutation; m != nil {
		used, remaining, limit := m.UsedAfter, m.Remaining, m.Limit
		t.CallsUsedAtTicket = &used
		t.CallsRemainingAtTicket = &remaining
		t.ContractLimitAtTicket = &limit
	}
}

func (s *Service) snapshotRegistry(ctx context.Context, t *Ticket, client *clients.Client) error {
	t.ClientName = client.BusinessName
	t.ClientAddress = client.Address
	if client.City != "" {
		t.ClientAddress = client.Address + ", " + client.City
	}
	return s.snapshotSite(ctx, t)
}

func (s *Service) snapshotSite(ctx context.Context, t *Ticket) error {
	t.SiteName = ""
	t.SiteAddress = ""
	if t.SiteID == nil {
		return nil
	}
	site, err := s.clients.GetSite(ctx, *t.SiteID)
	if err != nil {
		return err
	}
	if site.ClientID != t.ClientID {
		return apperror.NewValidation("site belongs to a different client").
			WithDetail("site_id", *t.SiteID)
	}
	t.SiteName = site.Name
	t.SiteAddress = site.Address
	return nil
}

func (s *Service) recordAudit(ctx context.Context, t *Ticket, action audit.Action) {
	if s.audit == nil {
		return
	}
	changes, err := json.Marshal(t)
	if err != nil {
		logger.Warn(ctx, "failed to serialize ticket for audit", "error", err)
		changes = nil
	}
	entry := audit.Entry{
		EntityType: "ticket",
		EntityID:   t.ID,
		Action:     action,
		Actor:      appctx.GetUserEmail(ctx),
		Changes:    changes,
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		logger.Warn(ctx, "failed to record audit entry", "ticket_id", t.ID, "error", err)
	}
}

func (s *Service) validate(t *Ticket) error {
	if t.ClientID == 0 {
		return apperror.NewValidation("client id is required")
	}
	if !t.Category.Valid() {
		return apperror.NewValidationf("unknown category %q", t.Category)
	}
	if t.ExtraCosts.IsNegative() {
		return apperror.NewValidation("extra costs must not be negative")
	}
	for i, p := range t.Parts {
		if p.Quantity <= 0 {
			return apperror.NewValidation("part quantity must be positive").
				WithDetail("line", i+1)
		}
		if p.UnitPrice.IsNegative() {
			return apperror.NewValidation("part unit price must not be negative").
				WithDetail("line", i+1)
		}
	}
	if (t.StartTime == nil) != (t.EndTime == nil) {
		return apperror.NewValidation("start and end time must be set together")
	}
	return nil
}
