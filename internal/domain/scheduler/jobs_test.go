package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldops/internal/core/cadence"
)

type fakeSchedRepo struct {
	contracts []ExpiringContract
	rentals   []ExpiringRental
	meters    []MeterDue

	contractsFrom, contractsTo time.Time
	metersFrom, metersTo       time.Time
}

func (f *fakeSchedRepo) ExpiringContracts(ctx context.Context, from, to time.Time, limit int) ([]ExpiringContract, error) {
	f.contractsFrom, f.contractsTo = from, to
	return f.contracts, nil
}

func (f *fakeSchedRepo) ExpiringRentals(ctx context.Context, from, to time.Time, limit int) ([]ExpiringRental, error) {
	return f.rentals, nil
}

func (f *fakeSchedRepo) MeterReadingsDue(ctx context.Context, from, to time.Time, limit int) ([]MeterDue, error) {
	f.metersFrom, f.metersTo = from, to
	return f.meters, nil
}

type sentMail struct{ recipient, subject, body string }

type fakeNotifier struct{ sent []sentMail }

func (f *fakeNotifier) Dispatch(ctx context.Context, recipient, subject, body string) error {
	f.sent = append(f.sent, sentMail{recipient, subject, body})
	return nil
}

type mapDeduper struct{ taken map[string]bool }

func newMapDeduper() *mapDeduper { return &mapDeduper{taken: map[string]bool{}} }

func (d *mapDeduper) Acquire(key string) bool {
	if d.taken[key] {
		return false
	}
	d.taken[key] = true
	return true
}

func TestContractExpiryScanNotifiesOnce(t *testing.T) {
	end := time.Now().AddDate(0, 0, 10)
	repo := &fakeSchedRepo{contracts: []ExpiringContract{
		{ClientID: 1, BusinessName: "Rossi S.r.l.", AdminEmail: "admin@rossi.it", ContractEnd: end},
	}}
	notifier := &fakeNotifier{}
	jobs := NewJobs(repo, notifier, newMapDeduper())

	sent, err := jobs.RunContractExpiryScan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "admin@rossi.it", notifier.sent[0].recipient)
	assert.Contains(t, notifier.sent[0].subject, "Rossi S.r.l.")

	// Second run inside the dedup window stays quiet.
	sent, err = jobs.RunContractExpiryScan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
	assert.Len(t, notifier.sent, 1)
}

func TestContractExpiryScanWindow(t *testing.T) {
	repo := &fakeSchedRepo{}
	jobs := NewJobs(repo, &fakeNotifier{}, newMapDeduper())

	_, err := jobs.RunContractExpiryScan(context.Background())
	require.NoError(t, err)

	window := repo.contractsTo.Sub(repo.contractsFrom)
	assert.Equal(t, 29*24*time.Hour, window, "scan looks from one day to thirty days ahead")
}

func TestRentalExpiryScan(t *testing.T) {
	end := time.Now().AddDate(0, 0, 5)
	repo := &fakeSchedRepo{rentals: []ExpiringRental{
		{AssetID: 7, ClientID: 1, BusinessName: "Bianchi", AdminEmail: "it@bianchi.it",
			Brand: "Kyocera", Model: "TASKalfa 3554ci", Serial: "W7F1", RentalEnd: end},
	}}
	notifier := &fakeNotifier{}
	jobs := NewJobs(repo, notifier, newMapDeduper())

	sent, err := jobs.RunRentalExpiryScan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Contains(t, notifier.sent[0].body, "W7F1")
}

func TestMeterDueScanWindow(t *testing.T) {
	due := time.Now().AddDate(0, 0, 6)
	repo := &fakeSchedRepo{meters: []MeterDue{
		{AssetID: 3, ClientID: 1, BusinessName: "Rossi S.r.l.", AdminEmail: "admin@rossi.it",
			Brand: "Kyocera", Model: "TASKalfa 3554ci", Cadence: cadence.Quarterly,
			RefDate: due.AddDate(0, 0, -90), DueDate: due},
	}}
	notifier := &fakeNotifier{}
	jobs := NewJobs(repo, notifier, newMapDeduper())

	sent, err := jobs.RunMeterDueScan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Contains(t, notifier.sent[0].subject, "Meter reading due")

	assert.Equal(t, 24*time.Hour, repo.metersTo.Sub(repo.metersFrom),
		"scan warns six to seven days ahead")
}
