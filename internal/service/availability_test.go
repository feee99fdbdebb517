package service

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-manager/internal/domain"
)

func TestIsAvailable_NoRentals(t *testing.T) {
	f := newFixture(t, "2024-01-01", fixtureSnapshot())

	ranges := [][2]string{
		{"2024-01-01", "2024-01-01"},
		{"2023-12-25", "2024-03-01"},
		{"2030-06-01", "2030-06-30"},
	}
	for _, r := range ranges {
		assert.True(t, f.svcs.Availability.IsAvailable(deviceSony, date(r[0]), date(r[1])), "%v", r)
	}
}

func TestIsAvailable_Overlap(t *testing.T) {
	snapshot := fixtureSnapshot()
	snapshot.Rentals = []domain.Rental{
		activeRental("r1", deviceSony, customerZhang, "2024-01-01", "2024-01-10"),
	}
	f := newFixture(t, "2024-01-01", snapshot)
	avail := f.svcs.Availability

	tests := []struct {
		name  string
		start string
		end   string
		want  bool
	}{
		{"Ends on rental start", "2023-12-25", "2024-01-01", false},
		{"Starts on rental end", "2024-01-10", "2024-01-12", false},
		{"Inside", "2024-01-05", "2024-01-06", false},
		{"Encloses", "2023-12-31", "2024-01-11", false},
		{"Day after end", "2024-01-11", "2024-01-12", true},
		{"Day before start", "2023-12-20", "2023-12-31", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, avail.IsAvailable(deviceSony, date(tt.start), date(tt.end)))
		})
	}

	assert.True(t, avail.IsAvailable(deviceSigma, date("2024-01-05"), date("2024-01-06")), "other devices are not blocked")
}

func TestIsAvailable_ClosedRentalNeverBlocks(t *testing.T) {
	snapshot := fixtureSnapshot()
	closed := activeRental("r1", deviceSony, customerZhang, "2024-01-01", "2024-01-10")
	closed.Status = domain.RentalStatusClosed
	closed.EndDate = datePtr("2024-01-03")
	snapshot.Rentals = []domain.Rental{closed}
	f := newFixture(t, "2024-01-01", snapshot)

	assert.True(t, f.svcs.Availability.IsAvailable(deviceSony, date("2024-01-02"), date("2024-01-02")))
	assert.True(t, f.svcs.Availability.IsAvailable(deviceSony, date("2024-01-05"), date("2024-01-08")))
}

func TestFindNextAvailable(t *testing.T) {
	snapshot := fixtureSnapshot()
	snapshot.Rentals = []domain.Rental{
		activeRental("r1", deviceSony, customerZhang, "2024-01-01", "2024-01-03"),
		activeRental("r2", deviceSony, customerLi, "2024-01-06", "2024-01-10"),
	}
	f := newFixture(t, "2024-01-01", snapshot)
	avail := f.svcs.Availability
	ctx := context.Background()

	tests := []struct {
		name      string
		desired   string
		days      int
		wantStart string
		wantEnd   string
	}{
		{"Free at desired start", "2024-01-20", 3, "2024-01-20", "2024-01-22"},
		{"Fits the gap", "2024-01-01", 2, "2024-01-04", "2024-01-05"},
		{"Too long for the gap", "2024-01-01", 3, "2024-01-11", "2024-01-13"},
		{"Blocked inside second rental", "2024-01-07", 1, "2024-01-11", "2024-01-11"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := avail.FindNextAvailable(ctx, deviceSony, date(tt.desired), tt.days)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, start.String())
			assert.Equal(t, tt.wantEnd, end.String())

			assert.True(t, avail.IsAvailable(deviceSony, start, end), "slot is itself available")
			for s := date(tt.desired); s.Before(start); s = s.AddDays(1) {
				assert.False(t, avail.IsAvailable(deviceSony, s, s.AddDays(tt.days-1)), "earlier start %s must be blocked", s)
			}
		})
	}
}

func TestFindNextAvailable_Errors(t *testing.T) {
	snapshot := fixtureSnapshot()
	snapshot.Rentals = []domain.Rental{
		activeRental("r1", deviceSony, customerZhang, "2024-01-01", "2024-01-10"),
	}
	ctx := context.Background()

	t.Run("Unknown device", func(t *testing.T) {
		f := newFixture(t, "2024-01-01", snapshot)
		_, _, err := f.svcs.Availability.FindNextAvailable(ctx, "nope", date("2024-01-01"), 2)
		assertKind(t, err, domain.ErrNotFound)
	})

	t.Run("Zero days", func(t *testing.T) {
		f := newFixture(t, "2024-01-01", snapshot)
		_, _, err := f.svcs.Availability.FindNextAvailable(ctx, deviceSony, date("2024-01-01"), 0)
		assertKind(t, err, domain.ErrInvalidInput)
	})

	t.Run("Horizon exhausted", func(t *testing.T) {
		f := newFixture(t, "2024-01-01", snapshot)
		avail := NewAvailabilityService(f.svcs.Registry, 5)
		_, _, err := avail.FindNextAvailable(ctx, deviceSony, date("2024-01-01"), 2)
		assertKind(t, err, domain.ErrConflict)
	})

	t.Run("Horizon just large enough", func(t *testing.T) {
		f := newFixture(t, "2024-01-01", snapshot)
		avail := NewAvailabilityService(f.svcs.Registry, 11)
		start, _, err := avail.FindNextAvailable(ctx, deviceSony, date("2024-01-01"), 2)
		require.NoError(t, err)
		assert.Equal(t, "2024-01-11", start.String())
	})

	t.Run("Unbounded", func(t *testing.T) {
		f := newFixture(t, "2024-01-01", snapshot)
		avail := NewAvailabilityService(f.svcs.Registry, 0)
		start, _, err := avail.FindNextAvailable(ctx, deviceSony, date("2024-01-01"), 2)
		require.NoError(t, err)
		assert.Equal(t, "2024-01-11", start.String())
	})

	t.Run("Cancelled context", func(t *testing.T) {
		f := newFixture(t, "2024-01-01", snapshot)
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, _, err := f.svcs.Availability.FindNextAvailable(cctx, deviceSony, date("2024-01-01"), 2)
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
	})
}
