package service

import (
	"context"
	"sort"
	"time"

	"rental-manager/internal/domain"
	"rental-manager/internal/utils"
)

// Calendar is a month's occupancy grid: one row per device, one cell per day.
type Calendar struct {
	Year  int
	Month time.Month
	Days  []int
	Rows  []CalendarRow
}

// CalendarRow holds the customer label of each day in Calendar.Days, or ""
// when the device is free that day.
type CalendarRow struct {
	DeviceID   string
	DeviceName string
	Cells      []string
}

type calendarService struct {
	reg *Registry
}

func NewCalendarService(reg *Registry) CalendarService {
	return &calendarService{reg: reg}
}

func (s *calendarService) CalendarMatrix(ctx context.Context, year int, month time.Month) (*Calendar, error) {
	if month < time.January || month > time.December {
		return nil, domain.InvalidInputf("month must be between 1 and 12, got %d", int(month))
	}

	first, _ := utils.MonthBounds(year, month)
	cal := &Calendar{
		Year:  year,
		Month: month,
		Days:  make([]int, utils.DaysInMonth(year, month)),
	}
	for i := range cal.Days {
		cal.Days[i] = i + 1
	}

	var devices []*domain.Device
	s.reg.eachDevice(func(d *domain.Device) {
		devices = append(devices, d)
	})
	sort.SliceStable(devices, func(i, j int) bool {
		return devices[i].Name < devices[j].Name
	})

	for _, device := range devices {
		rentals := s.activeRentals(device.ID)
		row := CalendarRow{
			DeviceID:   device.ID,
			DeviceName: device.Name,
			Cells:      make([]string, len(cal.Days)),
		}
		for i := range cal.Days {
			row.Cells[i] = s.label(rentals, first.AddDays(i))
		}
		cal.Rows = append(cal.Rows, row)
	}
	return cal, nil
}

func (s *calendarService) activeRentals(deviceID string) []*domain.Rental {
	var out []*domain.Rental
	s.reg.eachRental(func(r *domain.Rental) bool {
		if r.DeviceID == deviceID && r.IsActive() {
			out = append(out, r)
		}
		return true
	})
	return out
}

// label returns the customer label of the first rental covering day.
func (s *calendarService) label(rentals []*domain.Rental, day domain.Date) string {
	for _, r := range rentals {
		if !r.Covers(day) {
			continue
		}
		if customer, err := s.reg.customer(r.CustomerID); err == nil {
			return customer.Label()
		}
		return "?"
	}
	return ""
}
