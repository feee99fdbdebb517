package service

import (
	"rental-manager/internal/clock"
	"rental-manager/internal/prompt"
)

// Options tunes the scheduling behaviour of the services.
type Options struct {
	MaxSearchDays      int
	PromptFallbackDays int
}

// Services wires every service over one registry.
type Services struct {
	Registry     *Registry
	Devices      DeviceService
	Customers    CustomerService
	Availability AvailabilityService
	Rentals      RentalService
	Calendar     CalendarService

	clock clock.Clock
}

func NewServices(reg *Registry, clk clock.Clock, opts Options) *Services {
	availability := NewAvailabilityService(reg, opts.MaxSearchDays)
	return &Services{
		Registry:     reg,
		Devices:      NewDeviceService(reg, clk),
		Customers:    NewCustomerService(reg),
		Availability: availability,
		Rentals:      NewRentalService(reg, availability, clk, prompt.NewParser(clk), opts.PromptFallbackDays),
		Calendar:     NewCalendarService(reg),
		clock:        clk,
	}
}
