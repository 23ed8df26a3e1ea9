package meters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldops/internal/core/apperror"
	"fieldops/internal/core/cadence"
	"fieldops/internal/core/types"
	"fieldops/internal/domain/assets"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeAssetRepo struct{ asset *assets.RentalAsset }

func (f *fakeAssetRepo) Create(ctx context.Context, a *assets.RentalAsset) error { return nil }
func (f *fakeAssetRepo) Update(ctx context.Context, a *assets.RentalAsset) error { return nil }
func (f *fakeAssetRepo) GetByID(ctx context.Context, id int64) (*assets.RentalAsset, error) {
	return f.GetByIDForUpdate(ctx, id)
}
func (f *fakeAssetRepo) GetByIDForUpdate(ctx context.Context, id int64) (*assets.RentalAsset, error) {
	if f.asset == nil || f.asset.ID != id {
		return nil, apperror.NewNotFound("asset", id)
	}
	cp := *f.asset
	return &cp, nil
}
func (f *fakeAssetRepo) ListByClient(ctx context.Context, clientID int64) ([]assets.RentalAsset, error) {
	return nil, nil
}
func (f *fakeAssetRepo) Delete(ctx context.Context, id int64) error { return nil }

type fakeReadingRepo struct {
	nextID   int64
	readings []Reading
}

func (f *fakeReadingRepo) Create(ctx context.Context, r *Reading) error {
	f.nextID++
	r.ID = f.nextID
	f.readings = append(f.readings, *r)
	return nil
}

func (f *fakeReadingRepo) LastForAsset(ctx context.Context, assetID int64) (*Reading, error) {
	for i := len(f.readings) - 1; i >= 0; i-- {
		if f.readings[i].AssetID == assetID {
			cp := f.readings[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeReadingRepo) ListByAsset(ctx context.Context, assetID int64, limit int) ([]Reading, error) {
	return f.readings, nil
}

func intPtr(i int) *int { return &i }

func quarterlyAsset(installedDaysAgo int) *assets.RentalAsset {
	return &assets.RentalAsset{
		ID:                   3,
		ClientID:             1,
		Kind:                 assets.KindPrinting,
		Brand:                "Kyocera",
		Model:                "TASKalfa 3554ci",
		InstallDate:          time.Now().AddDate(0, 0, -installedDaysAgo),
		Cadence:              cadence.Quarterly,
		BaselineMono:         1000,
		IncludedMonoPerMonth: intPtr(500),
		OverageMonoRate:      types.MoneyPtr(types.MustMoney("0.05")),
	}
}

func newTestService(asset *assets.RentalAsset) (*Service, *fakeReadingRepo) {
	repo := &fakeReadingRepo{}
	svc := NewService(repo, &fakeAssetRepo{asset: asset}, fakeTxManager{})
	return svc, repo
}

func TestRecordFirstReadingBillsAgainstBaseline(t *testing.T) {
	svc, repo := newTestService(quarterlyAsset(95))

	reading, bill, err := svc.Record(context.Background(), RecordInput{AssetID: 3, Mono: 3200})
	require.NoError(t, err)

	assert.Equal(t, 2200, bill.PrintedMono)
	assert.Equal(t, 1500, bill.IncludedMono, "three months of 500 included pages")
	assert.Equal(t, 700, bill.OverageMono)
	assert.True(t, bill.CostMono.Equal(types.MustMoney("35.00")))
	assert.True(t, bill.Total.Equal(types.MustMoney("35.00")))

	assert.Equal(t, 3200, reading.Mono)
	assert.False(t, reading.ReadAt.IsZero(), "timestamp comes from the server")
	assert.Contains(t, reading.Note, "mono printed 2200, included 1500, overage 700")
	assert.Len(t, repo.readings, 1)
}

func TestRecordWithinIncludedPagesCostsNothing(t *testing.T) {
	svc, _ := newTestService(quarterlyAsset(100))

	_, bill, err := svc.Record(context.Background(), RecordInput{AssetID: 3, Mono: 2400})
	require.NoError(t, err)

	assert.Equal(t, 1400, bill.PrintedMono)
	assert.Equal(t, 0, bill.OverageMono)
	assert.True(t, bill.Total.IsZero())
}

func TestRecordRejectsCounterRegression(t *testing.T) {
	svc, _ := newTestService(quarterlyAsset(95))

	_, _, err := svc.Record(context.Background(), RecordInput{AssetID: 3, Mono: 900})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeCounterRegress, appErr.Code)
	assert.Contains(t, appErr.Message, "900")
	assert.Contains(t, appErr.Message, "1000")
}

func TestRecordRejectsEarlyReading(t *testing.T) {
	svc, repo := newTestService(quarterlyAsset(200))
	repo.readings = append(repo.readings, Reading{
		ID: 1, AssetID: 3, Mono: 2000,
		ReadAt: time.Now().AddDate(0, 0, -40),
	})
	repo.nextID = 1

	_, _, err := svc.Record(context.Background(), RecordInput{AssetID: 3, Mono: 2500})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeCadenceNotDue, appErr.Code)
	assert.NotEmpty(t, appErr.Details["earliest_date"])
}

func TestRecordAcceptsFirstReadingBeforeCadenceElapsed(t *testing.T) {
	svc, repo := newTestService(quarterlyAsset(40))

	reading, bill, err := svc.Record(context.Background(), RecordInput{AssetID: 3, Mono: 2000})
	require.NoError(t, err, "no previous reading, so no interval to enforce")

	assert.Equal(t, 1000, bill.PrintedMono)
	assert.Equal(t, 1500, bill.IncludedMono)
	assert.Equal(t, 0, bill.OverageMono)
	assert.True(t, bill.Total.IsZero())
	assert.Equal(t, 2000, reading.Mono)
	assert.Len(t, repo.readings, 1)
}

func TestRecordRejectsNonPrintingAsset(t *testing.T) {
	asset := quarterlyAsset(95)
	asset.Kind = assets.KindIT
	svc, _ := newTestService(asset)

	_, _, err := svc.Record(context.Background(), RecordInput{AssetID: 3, Mono: 2000})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
}

func TestRecordSecondReadingUsesPreviousAsReference(t *testing.T) {
	svc, _ := newTestService(quarterlyAsset(200))

	_, _, err := svc.Record(context.Background(), RecordInput{AssetID: 3, Mono: 3000})
	require.NoError(t, err)

	// Same day again: the cadence gate now counts from the new reading.
	_, _, err = svc.Record(context.Background(), RecordInput{AssetID: 3, Mono: 3100})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeCadenceNotDue, appErr.Code)
}

func TestRecordColorBilling(t *testing.T) {
	asset := quarterlyAsset(95)
	asset.BaselineColor = 200
	asset.IncludedColorPerMonth = intPtr(100)
	asset.OverageColorRate = types.MoneyPtr(types.MustMoney("0.10"))
	svc, _ := newTestService(asset)

	_, bill, err := svc.Record(context.Background(), RecordInput{
		AssetID: 3, Mono: 2000, Color: intPtr(700),
	})
	require.NoError(t, err)

	assert.Equal(t, 500, bill.PrintedColor)
	assert.Equal(t, 300, bill.IncludedColor)
	assert.Equal(t, 200, bill.OverageColor)
	assert.True(t, bill.CostColor.Equal(types.MustMoney("20.00")))
	assert.True(t, bill.Total.Equal(types.MustMoney("20.00")))
}

func TestRecordColorAfterMonoOnlyReadingSkipsColorGate(t *testing.T) {
	asset := quarterlyAsset(300)
	asset.BaselineColor = 200
	svc, repo := newTestService(asset)
	repo.readings = append(repo.readings, Reading{
		ID: 1, AssetID: 3, Mono: 2000,
		ReadAt: time.Now().AddDate(0, 0, -100),
	})
	repo.nextID = 1

	// The previous reading carried no color counter, so there is no
	// reference to regress against.
	_, _, err := svc.Record(context.Background(), RecordInput{
		AssetID: 3, Mono: 2500, Color: intPtr(150),
	})
	require.NoError(t, err)
}

func TestRecordRejectsColorBelowBaselineOnFirstReading(t *testing.T) {
	asset := quarterlyAsset(95)
	asset.BaselineColor = 200
	svc, _ := newTestService(asset)

	_, _, err := svc.Record(context.Background(), RecordInput{
		AssetID: 3, Mono: 2000, Color: intPtr(150),
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeCounterRegress, appErr.Code)
	assert.Equal(t, "color", appErr.Details["counter"])
}
