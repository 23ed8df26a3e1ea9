package tickets

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldops/internal/core/apperror"
	"fieldops/internal/core/types"
	"fieldops/internal/domain/assets"
	"fieldops/internal/domain/clients"
	"fieldops/internal/domain/tariffs"
)

type fakeTxManager struct{ mu sync.Mutex }

func (f *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(ctx)
}

type fakeClientRepo struct {
	clients map[int64]*clients.Client
	sites   map[int64]*clients.Site
}

func (f *fakeClientRepo) Create(ctx context.Context, c *clients.Client) error { return nil }
func (f *fakeClientRepo) Update(ctx context.Context, c *clients.Client) error { return nil }

func (f *fakeClientRepo) GetByID(ctx context.Context, id int64) (*clients.Client, error) {
	c, ok := f.clients[id]
	if !ok {
		return nil, apperror.NewNotFound("client", id)
	}
	cp := *c
	return &cp, nil
}

func (f *fakeClientRepo) GetByIDForUpdate(ctx context.Context, id int64) (*clients.Client, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeClientRepo) UpdateCallsUsed(ctx context.Context, id int64, callsUsed int) error {
	c, ok := f.clients[id]
	if !ok {
		return apperror.NewNotFound("client", id)
	}
	c.CallsUsed = callsUsed
	return nil
}

func (f *fakeClientRepo) List(ctx context.Context, fl clients.Filter) ([]clients.Client, error) {
	return nil, nil
}

func (f *fakeClientRepo) CreateSite(ctx context.Context, s *clients.Site) error { return nil }

func (f *fakeClientRepo) GetSite(ctx context.Context, id int64) (*clients.Site, error) {
	s, ok := f.sites[id]
	if !ok {
		return nil, apperror.NewNotFound("site", id)
	}
	return s, nil
}

func (f *fakeClientRepo) ListSites(ctx context.Context, clientID int64) ([]clients.Site, error) {
	return nil, nil
}
func (f *fakeClientRepo) DeleteSite(ctx context.Context, id int64) error { return nil }

type fakeAssetRepo struct{ fleet []assets.RentalAsset }

func (f *fakeAssetRepo) Create(ctx context.Context, a *assets.RentalAsset) error { return nil }
func (f *fakeAssetRepo) Update(ctx context.Context, a *assets.RentalAsset) error { return nil }
func (f *fakeAssetRepo) GetByID(ctx context.Context, id int64) (*assets.RentalAsset, error) {
	return nil, apperror.NewNotFound("asset", id)
}
func (f *fakeAssetRepo) GetByIDForUpdate(ctx context.Context, id int64) (*assets.RentalAsset, error) {
	return nil, apperror.NewNotFound("asset", id)
}
func (f *fakeAssetRepo) ListByClient(ctx context.Context, clientID int64) ([]assets.RentalAsset, error) {
	return append([]assets.RentalAsset(nil), f.fleet...), nil
}
func (f *fakeAssetRepo) Delete(ctx context.Context, id int64) error { return nil }

type fakeTicketRepo struct {
	nextID  int64
	tickets map[int64]*Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[int64]*Ticket{}}
}

func (f *fakeTicketRepo) Create(ctx context.Context, t *Ticket) error {
	f.nextID++
	t.ID = f.nextID
	cp := *t
	f.tickets[t.ID] = &cp
	return nil
}

func (f *fakeTicketRepo) Update(ctx context.Context, t *Ticket) error {
	if _, ok := f.tickets[t.ID]; !ok {
		return apperror.NewNotFound("ticket", t.ID)
	}
	cp := *t
	f.tickets[t.ID] = &cp
	return nil
}

func (f *fakeTicketRepo) GetByID(ctx context.Context, id int64) (*Ticket, error) {
	t, ok := f.tickets[id]
	if !ok {
		return nil, apperror.NewNotFound("ticket", id)
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTicketRepo) GetByIDForUpdate(ctx context.Context, id int64) (*Ticket, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeTicketRepo) List(ctx context.Context, fl Filter) ([]Ticket, error) { return nil, nil }

type fakeSequencer struct {
	mu   sync.Mutex
	last map[int]int
}

func (f *fakeSequencer) NextSequence(ctx context.Context, year int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.last == nil {
		f.last = map[int]int{}
	}
	f.last[year]++
	return f.last[year], nil
}

func newTestService(clientRepo *fakeClientRepo, assetRepo *fakeAssetRepo) (*Service, *fakeTicketRepo) {
	repo := newFakeTicketRepo()
	svc := NewService(repo, &fakeSequencer{}, clientRepo, assetRepo, &fakeTxManager{}, tariffs.Default(), nil)
	return svc, repo
}

func contractClient(limit, used int) *fakeClientRepo {
	rate := types.MustMoney("40")
	return &fakeClientRepo{
		clients: map[int64]*clients.Client{
			1: {
				ID:                 1,
				BusinessName:       "Rossi S.r.l.",
				Address:            "Via Roma 1",
				City:               "Milano",
				HasServiceContract: true,
				ContractCallLimit:  &limit,
				CallsUsed:          used,
				OverageCallRate:    &rate,
			},
		},
		sites: map[int64]*clients.Site{},
	}
}

func TestCreateAssignsSequentialNumbers(t *testing.T) {
	svc, _ := newTestService(contractClient(10, 0), &fakeAssetRepo{})
	ctx := context.Background()

	date := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	first, err := svc.Create(ctx, &Ticket{ClientID: 1, Category: tariffs.CategoryIT, Date: date, IsContract: true})
	require.NoError(t, err)
	second, err := svc.Create(ctx, &Ticket{ClientID: 1, Category: tariffs.CategoryIT, Date: date, IsContract: true})
	require.NoError(t, err)

	assert.Equal(t, "RIT-2026-001", first.Number)
	assert.Equal(t, "RIT-2026-002", second.Number)
	assert.Equal(t, "Rossi S.r.l.", first.ClientName)
	assert.Equal(t, "Via Roma 1, Milano", first.ClientAddress)
}

func TestCreateConsumesQuotaAndBillsOverage(t *testing.T) {
	repo := contractClient(5, 4)
	svc, _ := newTestService(repo, &fakeAssetRepo{})
	ctx := context.Background()

	fifth, err := svc.Create(ctx, &Ticket{ClientID: 1, Category: tariffs.CategoryIT, IsContract: true})
	require.NoError(t, err)
	require.NotNil(t, fifth.CallsUsedAtTicket)
	assert.Equal(t, 5, *fifth.CallsUsedAtTicket)
	assert.Equal(t, 0, *fifth.CallsRemainingAtTicket)
	assert.True(t, fifth.CallFeeApplied.IsZero())

	sixth, err := svc.Create(ctx, &Ticket{ClientID: 1, Category: tariffs.CategoryIT, IsContract: true})
	require.NoError(t, err)
	require.NotNil(t, sixth.CallsUsedAtTicket)
	assert.Equal(t, 6, *sixth.CallsUsedAtTicket)
	assert.True(t, sixth.CallFeeApplied.Equal(types.MustMoney("40")))
	assert.Equal(t, 6, repo.clients[1].CallsUsed)
}

func TestCreateRentalPrintingSkipsQuota(t *testing.T) {
	repo := contractClient(5, 4)
	repo.clients[1].HasRentalAssets = true
	fleet := &fakeAssetRepo{fleet: []assets.RentalAsset{
		{ID: 7, ClientID: 1, Kind: assets.KindPrinting, Brand: "Kyocera", Model: "TASKalfa 3554ci", Serial: "W7F1"},
	}}
	svc, _ := newTestService(repo, fleet)

	tk, err := svc.Create(context.Background(), &Ticket{
		ClientID:   1,
		Category:   tariffs.CategoryPrinting,
		IsContract: true,
		Details:    []DetailLine{{BrandModel: "Kyocera TASKalfa 3554ci"}},
	})
	require.NoError(t, err)

	assert.Nil(t, tk.CallsUsedAtTicket)
	assert.True(t, tk.CallFeeApplied.IsZero())
	assert.Equal(t, 4, repo.clients[1].CallsUsed, "rental printing work must not move the counter")
}

func TestCreateRejectsContractFlagWithoutContract(t *testing.T) {
	repo := &fakeClientRepo{
		clients: map[int64]*clients.Client{1: {ID: 1, BusinessName: "Bianchi", Address: "Via Po 2"}},
		sites:   map[int64]*clients.Site{},
	}
	svc, _ := newTestService(repo, &fakeAssetRepo{})

	_, err := svc.Create(context.Background(), &Ticket{ClientID: 1, Category: tariffs.CategoryIT, IsContract: true})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
}

func TestCreateRejectsForeignSite(t *testing.T) {
	repo := contractClient(5, 0)
	repo.sites[9] = &clients.Site{ID: 9, ClientID: 2, Name: "Magazzino"}
	svc, _ := newTestService(repo, &fakeAssetRepo{})

	siteID := int64(9)
	_, err := svc.Create(context.Background(), &Ticket{
		ClientID: 1, SiteID: &siteID, Category: tariffs.CategoryIT, IsContract: true,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestUpdateDoesNotChargeTwice(t *testing.T) {
	repo := contractClient(5, 0)
	svc, _ := newTestService(repo, &fakeAssetRepo{})
	ctx := context.Background()

	tk, err := svc.Create(ctx, &Ticket{ClientID: 1, Category: tariffs.CategoryIT, IsContract: true})
	require.NoError(t, err)
	require.Equal(t, 1, repo.clients[1].CallsUsed)

	tk.WorkPerformed = "Sostituito alimentatore"
	updated, err := svc.Update(ctx, tk)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.clients[1].CallsUsed, "second save must not consume quota again")
	require.NotNil(t, updated.CallsUsedAtTicket)
	assert.Equal(t, 1, *updated.CallsUsedAtTicket)
}

func TestUpdateChargesWhenTicketBecomesContractWork(t *testing.T) {
	repo := contractClient(5, 0)
	svc, _ := newTestService(repo, &fakeAssetRepo{})
	ctx := context.Background()

	tk, err := svc.Create(ctx, &Ticket{ClientID: 1, Category: tariffs.CategoryIT, IsContract: false})
	require.NoError(t, err)
	assert.Nil(t, tk.CallsUsedAtTicket)
	assert.Equal(t, 0, repo.clients[1].CallsUsed)

	tk.IsContract = true
	updated, err := svc.Update(ctx, tk)
	require.NoError(t, err)

	require.NotNil(t, updated.CallsUsedAtTicket)
	assert.Equal(t, 1, *updated.CallsUsedAtTicket)
	assert.Equal(t, 1, repo.clients[1].CallsUsed)
	assert.True(t, updated.HourlyRateApplied.IsZero())
}

func TestUpdatePreservesNumberAndYear(t *testing.T) {
	repo := contractClient(5, 0)
	svc, _ := newTestService(repo, &fakeAssetRepo{})
	ctx := context.Background()

	date := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	tk, err := svc.Create(ctx, &Ticket{ClientID: 1, Category: tariffs.CategoryIT, Date: date, IsContract: true})
	require.NoError(t, err)

	tk.Number = "RIT-2099-999"
	tk.Year = 2099
	updated, err := svc.Update(ctx, tk)
	require.NoError(t, err)

	assert.Equal(t, "RIT-2026-001", updated.Number)
	assert.Equal(t, 2026, updated.Year)
}
