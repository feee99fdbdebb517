package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rental-manager/internal/domain"
)

func TestAddDevice(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t, "2024-01-01", fixtureSnapshot())

		device, err := f.svcs.Devices.AddDevice(ctx, "  DJI RS3  ", "", 50.5)
		require.NoError(t, err)
		assert.NotEmpty(t, device.ID)
		assert.Equal(t, "DJI RS3", device.Name)
		assert.Equal(t, "unknown", device.Category)
		assert.Equal(t, domain.DeviceStatusAvailable, device.Status)
		f.store.AssertCalled(t, "Save", mock.Anything, mock.MatchedBy(func(s *domain.Snapshot) bool {
			return len(s.Devices) == 4 && s.Devices[3].ID == device.ID
		}))
	})

	t.Run("Validation", func(t *testing.T) {
		f := newFixture(t, "2024-01-01", fixtureSnapshot())

		_, err := f.svcs.Devices.AddDevice(ctx, " ", "相机", 10)
		assertKind(t, err, domain.ErrInvalidInput)

		_, err = f.svcs.Devices.AddDevice(ctx, "Sony FX3", "相机", -1)
		assertKind(t, err, domain.ErrInvalidInput)
		f.store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestListDevices(t *testing.T) {
	f := newFixture(t, "2024-01-01", fixtureSnapshot())
	ctx := context.Background()

	devices, err := f.svcs.Devices.ListDevices(ctx, "")
	require.NoError(t, err)
	require.Len(t, devices, 3)
	assert.Equal(t, "Atomos Ninja V", devices[0].Name)
	assert.Equal(t, "Sony A7M4", devices[2].Name)

	maintenance, err := f.svcs.Devices.ListDevices(ctx, domain.DeviceStatusMaintenance)
	require.NoError(t, err)
	require.Len(t, maintenance, 1)
	assert.Equal(t, deviceMonitor, maintenance[0].ID)

	_, err = f.svcs.Devices.GetDevice(ctx, "nope")
	assertKind(t, err, domain.ErrNotFound)
}

func TestSetMaintenance(t *testing.T) {
	ctx := context.Background()
	snapshot := fixtureSnapshot()
	snapshot.Rentals = []domain.Rental{
		activeRental("r1", deviceMonitor, customerZhang, "2024-01-01", "2024-01-03"),
	}
	f := newFixture(t, "2024-01-02", snapshot)

	device, err := f.svcs.Devices.SetMaintenance(ctx, deviceMonitor, false)
	require.NoError(t, err)
	assert.Equal(t, domain.DeviceStatusRented, device.Status, "status re-derived from rentals")

	device, err = f.svcs.Devices.SetMaintenance(ctx, deviceMonitor, true)
	require.NoError(t, err)
	assert.Equal(t, domain.DeviceStatusMaintenance, device.Status)

	_, err = f.svcs.Devices.SetMaintenance(ctx, "nope", true)
	assertKind(t, err, domain.ErrNotFound)
}

func TestCustomers(t *testing.T) {
	f := newFixture(t, "2024-01-01", fixtureSnapshot())
	ctx := context.Background()

	customer, err := f.svcs.Customers.AddCustomer(ctx, "王五", " 13900000000 ", "wang@example.com")
	require.NoError(t, err)
	assert.Equal(t, "13900000000", customer.Phone)

	got, err := f.svcs.Customers.GetCustomer(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, customer, got)

	customers, err := f.svcs.Customers.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Len(t, customers, 3)

	_, err = f.svcs.Customers.AddCustomer(ctx, "", "", "")
	assertKind(t, err, domain.ErrInvalidInput)

	_, err = f.svcs.Customers.GetCustomer(ctx, "nope")
	assertKind(t, err, domain.ErrNotFound)
}
