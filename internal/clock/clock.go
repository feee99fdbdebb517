package clock

import (
	"time"

	"rental-manager/internal/domain"
)

// Clock supplies "today" to status derivation and prompt parsing.
type Clock interface {
	Now() time.Time
}

// Today returns the current calendar day in the clock's local time.
func Today(c Clock) domain.Date {
	return domain.DateOf(c.Now())
}

type RealClock struct{}

func NewRealClock() Clock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time {
	return time.Now()
}

type MockClock struct {
	currentTime time.Time
}

func NewMockClock(t time.Time) *MockClock {
	return &MockClock{currentTime: t}
}

// NewMockClockOn returns a mock clock set to noon UTC of the given day.
func NewMockClockOn(day domain.Date) *MockClock {
	return NewMockClock(day.Time().Add(12 * time.Hour))
}

func (c *MockClock) Now() time.Time {
	return c.currentTime
}

func (c *MockClock) Set(t time.Time) {
	c.currentTime = t
}

// AdvanceDays moves the clock forward by n calendar days.
func (c *MockClock) AdvanceDays(n int) {
	c.currentTime = c.currentTime.AddDate(0, 0, n)
}
