package assets

import (
	"context"
	"strings"

	"fieldops/internal/core/apperror"
	"fieldops/internal/core/cadence"
	"fieldops/internal/core/tx"
	"fieldops/internal/domain/clients"
	"fieldops/pkg/logger"
)

// Service implements rental fleet operations.
type Service struct {
	repo      Repository
	clients   clients.Repository
	txManager tx.Manager
}

func NewService(repo Repository, clientRepo clients.Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, clients: clientRepo, txManager: txManager}
}

// Create registers a device in the rental fleet and flags the owning
// client as a rental customer.
func (s *Service) Create(ctx context.Context, a *RentalAsset) (*RentalAsset, error) {
	if err := s.validate(a); err != nil {
		return nil, err
	}
	a.Cadence = cadence.Normalize(a.Cadence)
	a.Version = 1

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		owner, err := s.clients.GetByIDForUpdate(ctx, a.ClientID)
		if err != nil {
			return err
		}
		if err := s.repo.Create(ctx, a); err != nil {
			return err
		}
		if !owner.HasRentalAssets {
			owner.HasRentalAssets = true
			if err := s.clients.Update(ctx, owner); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "rental asset created",
		"asset_id", a.ID, "client_id", a.ClientID, "kind", string(a.Kind))
	return a, nil
}

func (s *Service) Update(ctx context.Context, a *RentalAsset) (*RentalAsset, error) {
	if a.ID == 0 {
		return nil, apperror.NewValidation("asset id is required")
	}
	if err := s.validate(a); err != nil {
		return nil, err
	}
	a.Cadence = cadence.Normalize(a.Cadence)

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetByIDForUpdate(ctx, a.ID)
		if err != nil {
			return err
		}
		if current.ClientID != a.ClientID {
			return apperror.NewBusinessRule(apperror.CodeBusinessRule, "asset cannot move between clients")
		}
		a.Version = current.Version
		return s.repo.Update(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*RentalAsset, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByClient(ctx context.Context, clientID int64) ([]RentalAsset, error) {
	return s.repo.ListByClient(ctx, clientID)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	})
}

func (s *Service) validate(a *RentalAsset) error {
	if a.ClientID == 0 {
		return apperror.NewValidation("client id is required")
	}
	if !a.Kind.Valid() {
		return apperror.NewValidationf("unknown asset kind %q", a.Kind)
	}
	if strings.TrimSpace(a.Brand) == "" && strings.TrimSpace(a.Model) == "" {
		return apperror.NewValidation("brand or model is required")
	}
	if a.InstallDate.IsZero() {
		return apperror.NewValidation("install date is required")
	}
	if a.RentalEnd != nil && a.RentalEnd.Before(a.InstallDate) {
		return apperror.NewValidation("rental end precedes install date")
	}
	if a.Kind == KindPrinting {
		if a.BaselineMono < 0 || a.BaselineColor < 0 {
			return apperror.NewValidation("meter baselines must not be negative")
		}
		if a.IncludedMonoPerMonth != nil && *a.IncludedMonoPerMonth < 0 {
			return apperror.NewValidation("included mono pages must not be negative")
		}
		if a.IncludedColorPerMonth != nil && *a.IncludedColorPerMonth < 0 {
			return apperror.NewValidation("included color pages must not be negative")
		}
		if a.OverageMonoRate != nil && a.OverageMonoRate.IsNegative() {
			return apperror.NewValidation("mono overage rate must not be negative")
		}
		if a.OverageColorRate != nil && a.OverageColorRate.IsNegative() {
			return apperror.NewValidation("color overage rate must not be negative")
		}
	}
	return nil
}
