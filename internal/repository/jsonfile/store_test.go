package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-manager/internal/domain"
)

func sampleSnapshot() *domain.Snapshot {
	cost := 500.0
	end := domain.MustParseDate("2024-01-05")
	return &domain.Snapshot{
		Devices: []domain.Device{
			{ID: "d2", Name: "Sony A7M4", Category: "camera", DailyRate: 100, Status: domain.DeviceStatusAvailable},
			{ID: "d1", Name: "Atomos Ninja V", Category: "monitor", DailyRate: 60, Status: domain.DeviceStatusMaintenance},
		},
		Customers: []domain.Customer{
			{ID: "c1", Name: "张三", Phone: "13800000000", Email: "zhang@example.com"},
		},
		Rentals: []domain.Rental{
			{
				ID: "r1", DeviceID: "d2", CustomerID: "c1",
				StartDate:      domain.MustParseDate("2024-01-01"),
				PlannedEndDate: domain.MustParseDate("2024-01-05"),
				EndDate:        &end,
				Status:         domain.RentalStatusClosed,
				Notes:          "婚礼拍摄",
				TotalCost:      &cost,
				Address:        "天河区",
			},
		},
	}
}

func TestStore_LoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "none.json"))

	snapshot, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snapshot.Devices)
	assert.NotNil(t, snapshot.Devices)
	assert.NotNil(t, snapshot.Rentals)
}

func TestStore_SaveCreatesDirectoriesAndRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "rentals.json")
	store := NewStore(path)
	ctx := context.Background()

	want := sampleSnapshot()
	require.NoError(t, store.Save(ctx, want))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "张三", "non-ASCII text is written unescaped")
	assert.Contains(t, string(raw), "\n  \"devices\": [")

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, "d2", got.Devices[0].ID, "insertion order is kept")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestStore_SaveEmptyWritesArrays(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rentals.json")
	store := NewStore(path)

	require.NoError(t, store.Save(context.Background(), &domain.Snapshot{}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"rentals": []`)
}

func TestStore_LoadLegacyRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rentals.json")
	legacy := `{
  "devices": [{"id": "d1", "name": "Sony A7M4"}],
  "customers": [],
  "rentals": [{"id": "r1", "device_id": "d1", "customer_id": "c1", "start_date": "2024-01-01", "end_date": "2024-01-03"}]
}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	snapshot, err := NewStore(path).Load(context.Background())
	require.NoError(t, err)

	require.Len(t, snapshot.Devices, 1)
	assert.Equal(t, "unknown", snapshot.Devices[0].Category)
	assert.Equal(t, domain.DeviceStatusAvailable, snapshot.Devices[0].Status)
	assert.Equal(t, 0.0, snapshot.Devices[0].DailyRate)

	require.Len(t, snapshot.Rentals, 1)
	assert.Equal(t, domain.RentalStatusActive, snapshot.Rentals[0].Status)
	assert.Equal(t, "2024-01-03", snapshot.Rentals[0].PlannedEndDate.String())
}

func TestStore_LoadErrors(t *testing.T) {
	t.Run("Blank file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rentals.json")
		require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o644))

		snapshot, err := NewStore(path).Load(context.Background())
		require.NoError(t, err)
		assert.Empty(t, snapshot.Customers)
	})

	t.Run("Corrupt file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rentals.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

		_, err := NewStore(path).Load(context.Background())
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "decode data file"))
	})
}
