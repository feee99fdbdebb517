package service

import (
	"context"
	"time"

	"rental-manager/internal/domain"
	"rental-manager/internal/prompt"
)

type DeviceService interface {
	AddDevice(ctx context.Context, name, category string, dailyRate float64) (*domain.Device, error)
	GetDevice(ctx context.Context, id string) (*domain.Device, error)
	ListDevices(ctx context.Context, status domain.DeviceStatus) ([]domain.Device, error)
	SetMaintenance(ctx context.Context, id string, on bool) (*domain.Device, error)
}

type CustomerService interface {
	AddCustomer(ctx context.Context, name, phone, email string) (*domain.Customer, error)
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
}

type AvailabilityService interface {
	IsAvailable(deviceID string, start, end domain.Date) bool
	FindNextAvailable(ctx context.Context, deviceID string, desiredStart domain.Date, days int) (domain.Date, domain.Date, error) // returns slot start, slot end
}

type RentalService interface {
	RentDevice(ctx context.Context, req RentRequest) (*domain.Rental, error)
	AutoSchedule(ctx context.Context, req AutoScheduleRequest) (*domain.Rental, error)
	RentFromPrompt(ctx context.Context, req PromptRentRequest) (*domain.Rental, prompt.Fields, error)
	ReturnDevice(ctx context.Context, rentalID string, returnDate domain.Date) (*domain.Rental, error)
	GetRental(ctx context.Context, id string) (*domain.Rental, error)
	ListRentals(ctx context.Context, status domain.RentalStatus) ([]domain.Rental, error)
	RefreshDeviceStatuses(ctx context.Context) (int, error) // returns number of devices whose status changed
}

type CalendarService interface {
	CalendarMatrix(ctx context.Context, year int, month time.Month) (*Calendar, error)
}
