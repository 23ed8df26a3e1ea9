package scheduler

import (
	"context"
	"fmt"
	"time"

	"fieldops/pkg/logger"
)

const scanBatchSize = 200

// Warning windows. Expiry scans look a month ahead; the meter scan
// warns six to seven days before a reading comes due so the daily run
// fires exactly once per cycle even with dedup expiry.
const (
	expiryWindowFrom = 24 * time.Hour
	expiryWindowTo   = 30 * 24 * time.Hour

	meterDueFrom = 6 * 24 * time.Hour
	meterDueTo   = 7 * 24 * time.Hour
)

// Jobs bundles the scan implementations behind the Runner.
type Jobs struct {
	repo     Repository
	notifier Notifier
	dedup    Deduper
	now      func() time.Time
}

func NewJobs(repo Repository, notifier Notifier, dedup Deduper) *Jobs {
	return &Jobs{repo: repo, notifier: notifier, dedup: dedup, now: time.Now}
}

// RunContractExpiryScan notifies administrators of assistance contracts
// ending within the next month. Returns the number of notifications
// sent.
func (j *Jobs) RunContractExpiryScan(ctx context.Context) (int, error) {
	now := j.now()
	rows, err := j.repo.ExpiringContracts(ctx, now.Add(expiryWindowFrom), now.Add(expiryWindowTo), scanBatchSize)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, row := range rows {
		key := fmt.Sprintf("contract-expiry:%d:%s", row.ClientID, row.ContractEnd.Format("2006-01-02"))
		if !j.dedup.Acquire(key) {
			continue
		}
		daysLeft := daysUntil(now, row.ContractEnd)
		subject := fmt.Sprintf("Assistance contract for %s expires in %d days", row.BusinessName, daysLeft)
		body := fmt.Sprintf("The assistance contract for %s ends on %s.",
			row.BusinessName, row.ContractEnd.Format("2006-01-02"))
		if err := j.notifier.Dispatch(ctx, row.AdminEmail, subject, body); err != nil {
			logger.Error(ctx, "contract expiry notification failed",
				"client_id", row.ClientID, "error", err)
			continue
		}
		sent++
	}

	logger.Info(ctx, "contract expiry scan finished", "candidates", len(rows), "sent", sent)
	return sent, nil
}

// RunRentalExpiryScan notifies administrators of rental agreements
// ending within the next month.
func (j *Jobs) RunRentalExpiryScan(ctx context.Context) (int, error) {
	now := j.now()
	rows, err := j.repo.ExpiringRentals(ctx, now.Add(expiryWindowFrom), now.Add(expiryWindowTo), scanBatchSize)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, row := range rows {
		key := fmt.Sprintf("rental-expiry:%d:%s", row.AssetID, row.RentalEnd.Format("2006-01-02"))
		if !j.dedup.Acquire(key) {
			continue
		}
		daysLeft := daysUntil(now, row.RentalEnd)
		subject := fmt.Sprintf("Rental of %s %s for %s expires in %d days",
			row.Brand, row.Model, row.BusinessName, daysLeft)
		body := fmt.Sprintf("The rental of %s %s (serial %s) at %s ends on %s.",
			row.Brand, row.Model, row.Serial, row.BusinessName, row.RentalEnd.Format("2006-01-02"))
		if err := j.notifier.Dispatch(ctx, row.AdminEmail, subject, body); err != nil {
			logger.Error(ctx, "rental expiry notification failed",
				"asset_id", row.AssetID, "error", err)
			continue
		}
		sent++
	}

	logger.Info(ctx, "rental expiry scan finished", "candidates", len(rows), "sent", sent)
	return sent, nil
}

// RunMeterDueScan notifies administrators of printing assets whose next
// counter reading comes due within a week.
func (j *Jobs) RunMeterDueScan(ctx context.Context) (int, error) {
	now := j.now()
	rows, err := j.repo.MeterReadingsDue(ctx, now.Add(meterDueFrom), now.Add(meterDueTo), scanBatchSize)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, row := range rows {
		key := fmt.Sprintf("meter-due:%d:%s", row.AssetID, row.DueDate.Format("2006-01-02"))
		if !j.dedup.Acquire(key) {
			continue
		}
		subject := fmt.Sprintf("Meter reading due for %s %s at %s", row.Brand, row.Model, row.BusinessName)
		body := fmt.Sprintf("The %s counter reading for %s %s at %s is due on %s (last reference %s).",
			row.Cadence, row.Brand, row.Model, row.BusinessName,
			row.DueDate.Format("2006-01-02"), row.RefDate.Format("2006-01-02"))
		if err := j.notifier.Dispatch(ctx, row.AdminEmail, subject, body); err != nil {
			logger.Error(ctx, "meter due notification failed",
				"asset_id", row.AssetID, "error", err)
			continue
		}
		sent++
	}

	logger.Info(ctx, "meter due scan finished", "candidates", len(rows), "sent", sent)
	return sent, nil
}

func daysUntil(now, t time.Time) int {
	return int(t.Sub(now).Hours() / 24)
}
