package service

import (
	"context"

	"github.com/cockroachdb/errors"

	"rental-manager/internal/domain"
	"rental-manager/internal/logger"
	"rental-manager/internal/utils"
)

type availabilityService struct {
	reg *Registry
	// maxSearchDays caps how many start days FindNextAvailable tries; 0 means no cap.
	maxSearchDays int
}

func NewAvailabilityService(reg *Registry, maxSearchDays int) AvailabilityService {
	return &availabilityService{reg: reg, maxSearchDays: maxSearchDays}
}

// IsAvailable reports whether no active rental of the device overlaps
// [start, end]. Closed rentals never block.
func (s *availabilityService) IsAvailable(deviceID string, start, end domain.Date) bool {
	free := true
	s.reg.eachRental(func(r *domain.Rental) bool {
		if r.DeviceID == deviceID && r.IsActive() && r.Overlaps(start, end) {
			free = false
		}
		return free
	})
	return free
}

// FindNextAvailable returns the earliest days-long slot starting on or after
// desiredStart, moving the start forward one day at a time.
func (s *availabilityService) FindNextAvailable(ctx context.Context, deviceID string, desiredStart domain.Date, days int) (domain.Date, domain.Date, error) {
	logger.EnterMethod("availabilityService.FindNextAvailable", "deviceID", deviceID, "desiredStart", desiredStart, "days", days)

	if _, err := s.reg.device(deviceID); err != nil {
		logger.ExitMethodWithError("availabilityService.FindNextAvailable", err, "deviceID", deviceID)
		return domain.Date{}, domain.Date{}, err
	}
	if desiredStart.IsZero() {
		err := domain.InvalidInputf("desired start date is required")
		logger.ExitMethodWithError("availabilityService.FindNextAvailable", err, "deviceID", deviceID)
		return domain.Date{}, domain.Date{}, err
	}
	if days < 1 {
		err := domain.InvalidInputf("rental length must be at least 1 day, got %d", days)
		logger.ExitMethodWithError("availabilityService.FindNextAvailable", err, "deviceID", deviceID)
		return domain.Date{}, domain.Date{}, err
	}

	start := desiredStart
	for tried := 0; s.maxSearchDays == 0 || tried < s.maxSearchDays; tried++ {
		if err := ctx.Err(); err != nil {
			err = errors.Wrap(err, "search for free slot")
			logger.ExitMethodWithError("availabilityService.FindNextAvailable", err, "deviceID", deviceID, "tried", tried)
			return domain.Date{}, domain.Date{}, err
		}

		end := utils.PlannedEnd(start, days)
		if s.IsAvailable(deviceID, start, end) {
			logger.ExitMethod("availabilityService.FindNextAvailable", "deviceID", deviceID, "start", start, "end", end)
			return start, end, nil
		}
		start = start.AddDays(1)
	}

	err := domain.Conflictf("no free %d-day slot for device %s within %d days of %s", days, deviceID, s.maxSearchDays, desiredStart)
	logger.ExitMethodWithError("availabilityService.FindNextAvailable", err, "deviceID", deviceID)
	return domain.Date{}, domain.Date{}, err
}
