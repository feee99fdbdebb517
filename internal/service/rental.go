package service

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"rental-manager/internal/clock"
	"rental-manager/internal/domain"
	"rental-manager/internal/logger"
	"rental-manager/internal/prompt"
	"rental-manager/internal/utils"
)

// AutoScheduleMarker prefixes the notes of rentals placed by AutoSchedule.
const AutoScheduleMarker = "[自动排期]"

// RentRequest describes a new rental. End, when set, wins over Days.
type RentRequest struct {
	DeviceID   string
	CustomerID string
	Start      domain.Date
	End        *domain.Date
	Days       int
	Notes      string
	Address    string
}

// AutoScheduleRequest asks for the first free Days-long slot from DesiredStart on.
type AutoScheduleRequest struct {
	DeviceID     string
	CustomerID   string
	DesiredStart domain.Date
	Days         int
	Notes        string
	Address      string
}

// PromptRentRequest rents from free text. FallbackDays is used when the text
// names neither an end date nor a duration; 0 means the service default.
type PromptRentRequest struct {
	DeviceID     string
	CustomerID   string
	Prompt       string
	FallbackDays int
}

type rentalService struct {
	reg          *Registry
	availability AvailabilityService
	clock        clock.Clock
	parser       *prompt.Parser
	fallbackDays int
}

func NewRentalService(reg *Registry, availability AvailabilityService, clk clock.Clock, parser *prompt.Parser, fallbackDays int) RentalService {
	return &rentalService{
		reg:          reg,
		availability: availability,
		clock:        clk,
		parser:       parser,
		fallbackDays: fallbackDays,
	}
}

func (s *rentalService) RentDevice(ctx context.Context, req RentRequest) (*domain.Rental, error) {
	logger.EnterMethod("rentalService.RentDevice", "deviceID", req.DeviceID, "customerID", req.CustomerID, "start", req.Start)

	rental, err := s.rent(ctx, req)
	if err != nil {
		logger.ExitMethodWithError("rentalService.RentDevice", err, "deviceID", req.DeviceID)
		return nil, err
	}

	logger.ExitMethod("rentalService.RentDevice", "rentalID", rental.ID, "start", rental.StartDate, "end", rental.PlannedEndDate)
	return rental, nil
}

func (s *rentalService) rent(ctx context.Context, req RentRequest) (*domain.Rental, error) {
	device, err := s.reg.device(req.DeviceID)
	if err != nil {
		return nil, err
	}
	if _, err := s.reg.customer(req.CustomerID); err != nil {
		return nil, err
	}
	if device.InMaintenance() {
		return nil, domain.InvalidStatef("device %s is under maintenance", device.ID)
	}
	if req.Start.IsZero() {
		return nil, domain.InvalidInputf("start date is required")
	}

	end, err := plannedEnd(req.Start, req.End, req.Days)
	if err != nil {
		return nil, err
	}

	if !s.availability.IsAvailable(device.ID, req.Start, end) {
		return nil, domain.Conflictf("device %s is already booked between %s and %s", device.ID, req.Start, end)
	}

	rental := &domain.Rental{
		ID:             uuid.NewString(),
		DeviceID:       device.ID,
		CustomerID:     req.CustomerID,
		StartDate:      req.Start,
		PlannedEndDate: end,
		Status:         domain.RentalStatusActive,
		Notes:          strings.TrimSpace(req.Notes),
		Address:        strings.TrimSpace(req.Address),
	}
	s.reg.putRental(rental)
	refreshDeviceStatus(s.reg, device, clock.Today(s.clock))

	if err := s.reg.Persist(ctx); err != nil {
		return nil, err
	}

	logger.Info("Rental created", "rentalID", rental.ID, "deviceID", device.ID, "start", rental.StartDate, "end", rental.PlannedEndDate)
	out := *rental
	return &out, nil
}

// plannedEnd resolves the inclusive last day from an explicit end or a length.
func plannedEnd(start domain.Date, end *domain.Date, days int) (domain.Date, error) {
	if end != nil && !end.IsZero() {
		if end.Before(start) {
			return domain.Date{}, domain.InvalidInputf("end date %s is before start date %s", *end, start)
		}
		return *end, nil
	}
	if days < 1 {
		return domain.Date{}, domain.InvalidInputf("either an end date or at least 1 rental day is required, got %d days", days)
	}
	return utils.PlannedEnd(start, days), nil
}

func (s *rentalService) AutoSchedule(ctx context.Context, req AutoScheduleRequest) (*domain.Rental, error) {
	logger.EnterMethod("rentalService.AutoSchedule", "deviceID", req.DeviceID, "desiredStart", req.DesiredStart, "days", req.Days)

	start, end, err := s.availability.FindNextAvailable(ctx, req.DeviceID, req.DesiredStart, req.Days)
	if err != nil {
		logger.ExitMethodWithError("rentalService.AutoSchedule", err, "deviceID", req.DeviceID)
		return nil, err
	}

	notes := strings.TrimSpace(AutoScheduleMarker + " " + strings.TrimSpace(req.Notes))
	rental, err := s.rent(ctx, RentRequest{
		DeviceID:   req.DeviceID,
		CustomerID: req.CustomerID,
		Start:      start,
		End:        &end,
		Days:       req.Days,
		Notes:      notes,
		Address:    req.Address,
	})
	if err != nil {
		logger.ExitMethodWithError("rentalService.AutoSchedule", err, "deviceID", req.DeviceID)
		return nil, err
	}

	logger.ExitMethod("rentalService.AutoSchedule", "rentalID", rental.ID, "start", start, "end", end)
	return rental, nil
}

// RentFromPrompt parses free text and rents with what it found. An end date
// in the text wins over a duration, which wins over the fallback length.
func (s *rentalService) RentFromPrompt(ctx context.Context, req PromptRentRequest) (*domain.Rental, prompt.Fields, error) {
	logger.EnterMethod("rentalService.RentFromPrompt", "deviceID", req.DeviceID, "customerID", req.CustomerID)

	fields := s.parser.Parse(req.Prompt)

	days := fields.Days
	if days == 0 {
		days = req.FallbackDays
	}
	if days == 0 {
		days = s.fallbackDays
	}

	rental, err := s.rent(ctx, RentRequest{
		DeviceID:   req.DeviceID,
		CustomerID: req.CustomerID,
		Start:      fields.Start,
		End:        fields.End,
		Days:       days,
		Notes:      fields.Notes,
		Address:    fields.Address,
	})
	if err != nil {
		logger.ExitMethodWithError("rentalService.RentFromPrompt", err, "deviceID", req.DeviceID, "start", fields.Start, "days", days)
		return nil, fields, err
	}

	logger.ExitMethod("rentalService.RentFromPrompt", "rentalID", rental.ID)
	return rental, fields, nil
}

// ReturnDevice closes an active rental on returnDate and bills it.
func (s *rentalService) ReturnDevice(ctx context.Context, rentalID string, returnDate domain.Date) (*domain.Rental, error) {
	logger.EnterMethod("rentalService.ReturnDevice", "rentalID", rentalID, "returnDate", returnDate)

	rental, err := s.closeRental(ctx, rentalID, returnDate)
	if err != nil {
		logger.ExitMethodWithError("rentalService.ReturnDevice", err, "rentalID", rentalID)
		return nil, err
	}

	logger.ExitMethod("rentalService.ReturnDevice", "rentalID", rentalID, "totalCost", *rental.TotalCost)
	return rental, nil
}

func (s *rentalService) closeRental(ctx context.Context, rentalID string, returnDate domain.Date) (*domain.Rental, error) {
	rental, err := s.reg.rental(rentalID)
	if err != nil {
		return nil, err
	}
	if !rental.IsActive() {
		return nil, domain.InvalidStatef("rental %s is already closed", rental.ID)
	}
	if returnDate.IsZero() {
		return nil, domain.InvalidInputf("return date is required")
	}
	if returnDate.Before(rental.StartDate) {
		return nil, domain.InvalidInputf("return date %s is before start date %s", returnDate, rental.StartDate)
	}
	device, err := s.reg.device(rental.DeviceID)
	if err != nil {
		return nil, err
	}

	cost, err := utils.CalculateRentalCost(rental.StartDate, returnDate, device.DailyRate)
	if err != nil {
		return nil, err
	}

	end := returnDate
	rental.EndDate = &end
	rental.Status = domain.RentalStatusClosed
	rental.TotalCost = &cost
	refreshDeviceStatus(s.reg, device, clock.Today(s.clock))

	if err := s.reg.Persist(ctx); err != nil {
		return nil, err
	}

	logger.Info("Rental closed", "rentalID", rental.ID, "deviceID", device.ID, "totalCost", cost)
	out := *rental
	return &out, nil
}

func (s *rentalService) GetRental(ctx context.Context, id string) (*domain.Rental, error) {
	rental, err := s.reg.rental(id)
	if err != nil {
		return nil, err
	}
	out := *rental
	return &out, nil
}

// ListRentals returns rentals newest start first, optionally filtered by status.
func (s *rentalService) ListRentals(ctx context.Context, status domain.RentalStatus) ([]domain.Rental, error) {
	rentals := []domain.Rental{}
	s.reg.eachRental(func(r *domain.Rental) bool {
		if status == "" || r.Status == status {
			rentals = append(rentals, *r)
		}
		return true
	})
	sort.SliceStable(rentals, func(i, j int) bool {
		return rentals[i].StartDate.After(rentals[j].StartDate)
	})
	return rentals, nil
}

// RefreshDeviceStatuses re-derives every device's status for today and
// persists only when something changed.
func (s *rentalService) RefreshDeviceStatuses(ctx context.Context) (int, error) {
	logger.EnterMethod("rentalService.RefreshDeviceStatuses")

	today := clock.Today(s.clock)
	changed := 0
	s.reg.eachDevice(func(d *domain.Device) {
		before := d.Status
		if refreshDeviceStatus(s.reg, d, today) {
			changed++
			logger.Debug("Device status changed", "deviceID", d.ID, "from", before, "to", d.Status)
		}
	})

	if changed > 0 {
		if err := s.reg.Persist(ctx); err != nil {
			logger.ExitMethodWithError("rentalService.RefreshDeviceStatuses", err, "changed", changed)
			return 0, err
		}
	}

	logger.ExitMethod("rentalService.RefreshDeviceStatuses", "changed", changed)
	return changed, nil
}
