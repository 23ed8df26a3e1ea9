package clients

import (
	"context"
	"strings"

	"fieldops/internal/core/apperror"
	"fieldops/internal/core/tx"
	"fieldops/pkg/logger"
)

// Service implements client registry operations.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// Create registers a new client after validating contract coherence.
func (s *Service) Create(ctx context.Context, c *Client) (*Client, error) {
	if err := s.validate(c); err != nil {
		return nil, err
	}
	c.CallsUsed = 0
	c.Version = 1

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "client created", "client_id", c.ID, "business_name", c.BusinessName)
	return c, nil
}

// Update replaces the editable fields of a client. The quota counter is
// never written here; it only moves through ticket billing.
func (s *Service) Update(ctx context.Context, c *Client) (*Client, error) {
	if c.ID == 0 {
		return nil, apperror.NewValidation("client id is required")
	}
	if err := s.validate(c); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetByIDForUpdate(ctx, c.ID)
		if err != nil {
			return err
		}
		// The counter belongs to the billing flow.
		c.CallsUsed = current.CallsUsed
		c.Version = current.Version
		return s.repo.Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Client, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter) ([]Client, error) {
	if f.Limit <= 0 || f.Limit > 500 {
		f.Limit = 100
	}
	return s.repo.List(ctx, f)
}

// ResetQuota zeroes the call counter, typically at contract renewal.
func (s *Service) ResetQuota(ctx context.Context, id int64) (*Client, error) {
	var c *Client
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		c, err = s.repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !c.HasServiceContract {
			return apperror.NewBusinessRule(apperror.CodeBusinessRule, "client has no assistance contract")
		}
		c.CallsUsed = 0
		return s.repo.UpdateCallsUsed(ctx, id, 0)
	})
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "contract quota reset", "client_id", id)
	return c, nil
}

// AddSite attaches an operational location to a client.
func (s *Service) AddSite(ctx context.Context, site *Site) (*Site, error) {
	if strings.TrimSpace(site.Name) == "" {
		return nil, apperror.NewValidation("site name is required")
	}
	if _, err := s.repo.GetByID(ctx, site.ClientID); err != nil {
		return nil, err
	}
	if err := s.repo.CreateSite(ctx, site); err != nil {
		return nil, err
	}
	return site, nil
}

func (s *Service) ListSites(ctx context.Context, clientID int64) ([]Site, error) {
	return s.repo.ListSites(ctx, clientID)
}

func (s *Service) RemoveSite(ctx context.Context, id int64) error {
	return s.repo.DeleteSite(ctx, id)
}

func (s *Service) validate(c *Client) error {
	if strings.TrimSpace(c.BusinessName) == "" {
		return apperror.NewValidation("business name is required")
	}
	if c.HasServiceContract {
		if c.ContractStart != nil && c.ContractEnd != nil && c.ContractEnd.Before(*c.ContractStart) {
			return apperror.NewValidation("contract end precedes contract start")
		}
		if c.ContractCallLimit != nil {
			if *c.ContractCallLimit < 0 {
				return apperror.NewValidation("contract call limit must not be negative")
			}
			if c.OverageCallRate == nil {
				return apperror.NewValidation("overage call rate is required when the contract has a call limit")
			}
			if c.OverageCallRate.IsNegative() {
				return apperror.NewValidation("overage call rate must not be negative")
			}
		}
	} else {
		if c.ContractCallLimit != nil || c.ContractStart != nil || c.ContractEnd != nil {
			return apperror.NewValidation("contract fields set on a client without an assistance contract")
		}
	}
	return nil
}
