package service

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rental-manager/internal/clock"
	"rental-manager/internal/domain"
)

// MockSnapshotStore
type MockSnapshotStore struct {
	mock.Mock
}

func (m *MockSnapshotStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Snapshot), args.Error(1)
}

func (m *MockSnapshotStore) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

const (
	deviceSony    = "dev-sony"
	deviceSigma   = "dev-sigma"
	deviceMonitor = "dev-monitor"
	customerZhang = "cus-zhang"
	customerLi    = "cus-li"
)

// fixtureSnapshot has three devices (the monitor in maintenance) and two
// customers, with no rentals.
func fixtureSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		Devices: []domain.Device{
			{ID: deviceSony, Name: "Sony A7M4", Category: "相机", DailyRate: 100, Status: domain.DeviceStatusAvailable},
			{ID: deviceSigma, Name: "Sigma 24-70mm", Category: "镜头", DailyRate: 80, Status: domain.DeviceStatusAvailable},
			{ID: deviceMonitor, Name: "Atomos Ninja V", Category: "监视器", DailyRate: 120, Status: domain.DeviceStatusMaintenance},
		},
		Customers: []domain.Customer{
			{ID: customerZhang, Name: "张三丰", Phone: "13800000000", Email: "zhang@example.com"},
			{ID: customerLi, Name: "李雷", Phone: "18800000000", Email: "lilei@example.com"},
		},
		Rentals: []domain.Rental{},
	}
}

func activeRental(id, deviceID, customerID, start, end string) domain.Rental {
	return domain.Rental{
		ID:             id,
		DeviceID:       deviceID,
		CustomerID:     customerID,
		StartDate:      domain.MustParseDate(start),
		PlannedEndDate: domain.MustParseDate(end),
		Status:         domain.RentalStatusActive,
	}
}

type fixture struct {
	svcs  *Services
	store *MockSnapshotStore
	clock *clock.MockClock
}

// newFixture loads snapshot into a registry whose store accepts every save.
func newFixture(t *testing.T, today string, snapshot *domain.Snapshot) *fixture {
	t.Helper()
	return newFixtureWithSaveError(t, today, snapshot, nil)
}

func newFixtureWithSaveError(t *testing.T, today string, snapshot *domain.Snapshot, saveErr error) *fixture {
	t.Helper()

	store := new(MockSnapshotStore)
	store.On("Load", mock.Anything).Return(snapshot, nil).Once()
	store.On("Save", mock.Anything, mock.Anything).Return(saveErr)

	reg, err := LoadRegistry(context.Background(), store)
	require.NoError(t, err)

	clk := clock.NewMockClockOn(domain.MustParseDate(today))
	svcs := NewServices(reg, clk, Options{MaxSearchDays: 3650, PromptFallbackDays: 3})
	return &fixture{svcs: svcs, store: store, clock: clk}
}

func (f *fixture) device(t *testing.T, id string) *domain.Device {
	t.Helper()
	d, err := f.svcs.Devices.GetDevice(context.Background(), id)
	require.NoError(t, err)
	return d
}

func assertKind(t *testing.T, err error, kind error) {
	t.Helper()
	require.Error(t, err)
	assert.Truef(t, errors.Is(err, kind), "expected %v error, got %v", kind, err)
}

func date(s string) domain.Date {
	return domain.MustParseDate(s)
}

func datePtr(s string) *domain.Date {
	d := domain.MustParseDate(s)
	return &d
}
