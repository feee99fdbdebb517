package utils

import (
	"time"

	"github.com/shopspring/decimal"

	"rental-manager/internal/domain"
)

// DaysInMonth returns the number of days in a given month, taken as the day
// before the first of the following month.
func DaysInMonth(year int, month time.Month) int {
	firstOfNext := domain.NewDate(year, month, 1).Time().AddDate(0, 1, 0)
	return domain.DateOf(firstOfNext).AddDays(-1).Day()
}

// MonthBounds returns the first and last day of a month.
func MonthBounds(year int, month time.Month) (domain.Date, domain.Date) {
	first := domain.NewDate(year, month, 1)
	return first, first.AddDays(DaysInMonth(year, month) - 1)
}

// InclusiveDays counts the days in [start, end], both ends included.
// Same-day rentals count as one day.
func InclusiveDays(start, end domain.Date) int {
	return end.DaysSince(start) + 1
}

// PlannedEnd returns the last day of a rental of the given length starting on start.
func PlannedEnd(start domain.Date, days int) domain.Date {
	return start.AddDays(days - 1)
}

// CalculateRentalCost prices an inclusive date range at a flat daily rate,
// rounded to two decimal places.
func CalculateRentalCost(start, end domain.Date, dailyRate float64) (float64, error) {
	if end.Before(start) {
		return 0, domain.InvalidInputf("end date %s is before start date %s", end, start)
	}
	if dailyRate < 0 {
		return 0, domain.InvalidInputf("daily rate must not be negative: %v", dailyRate)
	}

	days := decimal.NewFromInt(int64(InclusiveDays(start, end)))
	total := decimal.NewFromFloat(dailyRate).Mul(days).Round(2)

	return total.InexactFloat64(), nil
}
