package jobs

import (
	"context"

	"rental-manager/internal/clock"
	"rental-manager/internal/domain"
	"rental-manager/internal/logger"
)

// RefreshDeviceStatuses reloads the snapshot and re-derives every device's
// status for the current day, so rentals that started or ended since the
// last mutation are reflected.
func (jr *JobRunner) RefreshDeviceStatuses() {
	jr.runWithRecovery("RefreshDeviceStatuses", func(ctx context.Context) error {
		if err := jr.registry.Reload(ctx); err != nil {
			return err
		}

		changed, err := jr.rentals.RefreshDeviceStatuses(ctx)
		if err != nil {
			return err
		}

		logger.Info("Refreshed device statuses", "changed", changed)
		return nil
	})
}

// ReportOverdueRentals logs active rentals whose planned end has passed.
func (jr *JobRunner) ReportOverdueRentals() {
	jr.runWithRecovery("ReportOverdueRentals", func(ctx context.Context) error {
		if err := jr.registry.Reload(ctx); err != nil {
			return err
		}

		rentals, err := jr.rentals.ListRentals(ctx, domain.RentalStatusActive)
		if err != nil {
			return err
		}

		today := clock.Today(jr.clock)
		count := 0
		for _, r := range rentals {
			if !r.PlannedEndDate.Before(today) {
				continue
			}
			count++
			logger.Warn("Rental overdue",
				"rentalID", r.ID,
				"deviceID", r.DeviceID,
				"customerID", r.CustomerID,
				"plannedEnd", r.PlannedEndDate,
				"daysOverdue", today.DaysSince(r.PlannedEndDate),
			)
		}

		logger.Info("Checked overdue rentals", "count", count)
		return nil
	})
}
