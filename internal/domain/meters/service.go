package meters

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fieldops/internal/core/apperror"
	"fieldops/internal/core/cadence"
	"fieldops/internal/core/tx"
	"fieldops/internal/core/types"
	"fieldops/internal/domain/assets"
	"fieldops/pkg/logger"
)

// RecordInput is the client-supplied part of a reading. The timestamp
// is never accepted from the caller.
type RecordInput struct {
	AssetID  int64  `json:"assetId"`
	TicketID *int64 `json:"ticketId,omitempty"`
	Mono     int    `json:"mono"`
	Color    *int   `json:"color,omitempty"`
	Note     string `json:"note"`
}

// Service implements meter reading operations.
type Service struct {
	repo      Repository
	assets    assets.Repository
	txManager tx.Manager
	now       func() time.Time
}

func NewService(repo Repository, assetRepo assets.Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, assets: assetRepo, txManager: txManager, now: time.Now}
}

// Record stores a counter reading and closes the billing period it
// ends. The asset row is locked for the duration so concurrent
// readings serialize. Counters must never regress; the color counter is
// only gated when a reference exists (the baseline for a first reading,
// or a previous reading that carried a color value). The cadence
// interval applies between readings, so a first reading is accepted at
// any time after installation.
func (s *Service) Record(ctx context.Context, in RecordInput) (*Reading, *PeriodBill, error) {
	if in.AssetID == 0 {
		return nil, nil, apperror.NewValidation("asset id is required")
	}
	if in.Mono < 0 || (in.Color != nil && *in.Color < 0) {
		return nil, nil, apperror.NewValidation("counter values must not be negative")
	}

	var (
		reading *Reading
		bill    *PeriodBill
	)
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		asset, err := s.assets.GetByIDForUpdate(ctx, in.AssetID)
		if err != nil {
			return err
		}
		if !asset.Metered() {
			return apperror.NewBusinessRule(apperror.CodeBusinessRule,
				"meter readings apply to printing assets only").
				WithDetail("asset_id", asset.ID).
				WithDetail("kind", string(asset.Kind))
		}

		last, err := s.repo.LastForAsset(ctx, asset.ID)
		if err != nil {
			return err
		}

		refMono := asset.BaselineMono
		refColor := asset.BaselineColor
		refColorKnown := last == nil
		refDate := asset.InstallDate
		if last != nil {
			refMono = last.Mono
			if last.Color != nil {
				refColor = *last.Color
				refColorKnown = true
			}
			refDate = last.ReadAt
		}

		readAt := s.now()

		if in.Mono < refMono {
			return counterRegression("mono", in.Mono, refMono, asset.ID)
		}
		if in.Color != nil && refColorKnown && *in.Color < refColor {
			return counterRegression("color", *in.Color, refColor, asset.ID)
		}

		if last != nil {
			earliest := last.ReadAt.AddDate(0, 0, cadence.Days(asset.Cadence))
			if readAt.Before(earliest) {
				return &apperror.AppError{
					Code: apperror.CodeCadenceNotDue,
					Message: fmt.Sprintf("reading interval not elapsed, next reading allowed from %s",
						earliest.Format("2006-01-02")),
					HTTPStatus: http.StatusUnprocessableEntity,
					Details: map[string]any{
						"asset_id":      asset.ID,
						"cadence":       string(cadence.Normalize(asset.Cadence)),
						"last_read_at":  last.ReadAt.Format(time.RFC3339),
						"earliest_date": earliest.Format("2006-01-02"),
					},
				}
			}
		}

		bill = computeBill(asset, refMono, refColor, refDate, readAt, in.Mono, in.Color)

		reading = &Reading{
			AssetID:  asset.ID,
			TicketID: in.TicketID,
			ReadAt:   readAt,
			Mono:     in.Mono,
			Color:    in.Color,
			Note:     composeNote(in.Note, bill),
		}
		return s.repo.Create(ctx, reading)
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Info(ctx, "meter reading recorded",
		"asset_id", reading.AssetID, "mono", reading.Mono,
		"overage_mono", bill.OverageMono, "period_total", bill.Total.String())
	return reading, bill, nil
}

// History returns the most recent readings of an asset.
func (s *Service) History(ctx context.Context, assetID int64, limit int) ([]Reading, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.ListByAsset(ctx, assetID, limit)
}

func counterRegression(counter string, got, last int, assetID int64) *apperror.AppError {
	return &apperror.AppError{
		Code: apperror.CodeCounterRegress,
		Message: fmt.Sprintf("%s counter %d is below the previous value %d",
			counter, got, last),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"asset_id": assetID,
			"counter":  counter,
			"got":      got,
			"previous": last,
		},
	}
}

func computeBill(
	asset *assets.RentalAsset,
	refMono, refColor int,
	periodStart, periodEnd time.Time,
	mono int, color *int,
) *PeriodBill {
	months := cadence.Months(asset.Cadence)

	bill := &PeriodBill{
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Months:      months,
		CostMono:    types.Zero(),
		CostColor:   types.Zero(),
	}

	bill.PrintedMono = mono - refMono
	if asset.IncludedMonoPerMonth != nil {
		bill.IncludedMono = *asset.IncludedMonoPerMonth * months
	}
	bill.OverageMono = overage(bill.PrintedMono, bill.IncludedMono)
	if asset.OverageMonoRate != nil {
		bill.CostMono = asset.OverageMonoRate.Mul(types.NewMoneyFromInt(int64(bill.OverageMono)))
	}

	if color != nil {
		bill.PrintedColor = *color - refColor
		if asset.IncludedColorPerMonth != nil {
			bill.IncludedColor = *asset.IncludedColorPerMonth * months
		}
		bill.OverageColor = overage(bill.PrintedColor, bill.IncludedColor)
		if asset.OverageColorRate != nil {
			bill.CostColor = asset.OverageColorRate.Mul(types.NewMoneyFromInt(int64(bill.OverageColor)))
		}
	}

	bill.Total = bill.CostMono.Add(bill.CostColor)
	return bill
}

// composeNote appends the period summary to the operator's note.
func composeNote(userNote string, bill *PeriodBill) string {
	summary := fmt.Sprintf("period %s to %s: mono printed %d, included %d, overage %d (cost %s)",
		bill.PeriodStart.Format("2006-01-02"), bill.PeriodEnd.Format("2006-01-02"),
		bill.PrintedMono, bill.IncludedMono, bill.OverageMono, bill.CostMono.StringFixed(2))
	if bill.PrintedColor > 0 || bill.IncludedColor > 0 {
		summary += fmt.Sprintf("; color printed %d, included %d, overage %d (cost %s)",
			bill.PrintedColor, bill.IncludedColor, bill.OverageColor, bill.CostColor.StringFixed(2))
	}
	if strings.TrimSpace(userNote) == "" {
		return summary
	}
	return userNote + " | " + summary
}

func overage(printed, included int) int {
	if printed > included {
		return printed - included
	}
	return 0
}
