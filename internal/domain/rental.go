package domain

import "encoding/json"

type RentalStatus string

const (
	RentalStatusActive RentalStatus = "active"
	RentalStatusClosed RentalStatus = "closed"
)

// ParseRentalStatus accepts "" as "no filter".
func ParseRentalStatus(s string) (RentalStatus, error) {
	switch st := RentalStatus(s); st {
	case "", RentalStatusActive, RentalStatusClosed:
		return st, nil
	default:
		return "", InvalidInputf("unknown rental status %q", s)
	}
}

type Rental struct {
	ID             string       `json:"id"`
	DeviceID       string       `json:"device_id"`
	CustomerID     string       `json:"customer_id"`
	StartDate      Date         `json:"start_date"`
	PlannedEndDate Date         `json:"planned_end_date"`
	EndDate        *Date        `json:"end_date"` // actual return, set on close
	Status         RentalStatus `json:"status"`
	Notes          string       `json:"notes"`
	TotalCost      *float64     `json:"total_cost"`
	Address        string       `json:"address"`
}

// UnmarshalJSON accepts records written before planned_end_date existed.
func (r *Rental) UnmarshalJSON(data []byte) error {
	type alias Rental
	a := alias{Status: RentalStatusActive}
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if a.PlannedEndDate.IsZero() {
		if a.EndDate != nil {
			a.PlannedEndDate = *a.EndDate
		} else {
			a.PlannedEndDate = a.StartDate
		}
	}
	*r = Rental(a)
	return nil
}

func (r *Rental) IsActive() bool {
	return r.Status == RentalStatusActive
}

// EffectiveEnd is the actual return date once closed, else the planned end.
func (r *Rental) EffectiveEnd() Date {
	if r.Status == RentalStatusClosed && r.EndDate != nil {
		return *r.EndDate
	}
	return r.PlannedEndDate
}

// Overlaps reports whether [start, end] intersects the rental's inclusive
// [StartDate, EffectiveEnd] range.
func (r *Rental) Overlaps(start, end Date) bool {
	return !(end.Before(r.StartDate) || start.After(r.EffectiveEnd()))
}

// Covers reports whether day falls inside the rental's inclusive range.
func (r *Rental) Covers(day Date) bool {
	return r.Overlaps(day, day)
}
