package service

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"rental-manager/internal/clock"
	"rental-manager/internal/domain"
	"rental-manager/internal/logger"
)

type deviceService struct {
	reg   *Registry
	clock clock.Clock
}

func NewDeviceService(reg *Registry, clk clock.Clock) DeviceService {
	return &deviceService{reg: reg, clock: clk}
}

func (s *deviceService) AddDevice(ctx context.Context, name, category string, dailyRate float64) (*domain.Device, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.InvalidInputf("device name is required")
	}
	if dailyRate < 0 {
		return nil, domain.InvalidInputf("daily rate must not be negative: %v", dailyRate)
	}
	category = strings.TrimSpace(category)
	if category == "" {
		category = "unknown"
	}

	device := &domain.Device{
		ID:        uuid.NewString(),
		Name:      name,
		Category:  category,
		DailyRate: dailyRate,
		Status:    domain.DeviceStatusAvailable,
	}
	s.reg.putDevice(device)

	if err := s.reg.Persist(ctx); err != nil {
		return nil, err
	}

	logger.Info("Device added", "deviceID", device.ID, "name", device.Name)
	out := *device
	return &out, nil
}

func (s *deviceService) GetDevice(ctx context.Context, id string) (*domain.Device, error) {
	device, err := s.reg.device(id)
	if err != nil {
		return nil, err
	}
	out := *device
	return &out, nil
}

// ListDevices returns devices sorted by name, optionally filtered by status.
func (s *deviceService) ListDevices(ctx context.Context, status domain.DeviceStatus) ([]domain.Device, error) {
	devices := []domain.Device{}
	s.reg.eachDevice(func(d *domain.Device) {
		if status == "" || d.Status == status {
			devices = append(devices, *d)
		}
	})
	sort.SliceStable(devices, func(i, j int) bool {
		return devices[i].Name < devices[j].Name
	})
	return devices, nil
}

// SetMaintenance puts a device into maintenance, or takes it out and
// re-derives its status from its rentals.
func (s *deviceService) SetMaintenance(ctx context.Context, id string, on bool) (*domain.Device, error) {
	logger.EnterMethod("deviceService.SetMaintenance", "deviceID", id, "on", on)

	device, err := s.reg.device(id)
	if err != nil {
		logger.ExitMethodWithError("deviceService.SetMaintenance", err, "deviceID", id)
		return nil, err
	}

	if on {
		device.Status = domain.DeviceStatusMaintenance
	} else {
		if device.InMaintenance() {
			device.Status = domain.DeviceStatusAvailable
		}
		refreshDeviceStatus(s.reg, device, clock.Today(s.clock))
	}

	if err := s.reg.Persist(ctx); err != nil {
		logger.ExitMethodWithError("deviceService.SetMaintenance", err, "deviceID", id)
		return nil, err
	}

	logger.ExitMethod("deviceService.SetMaintenance", "deviceID", id, "status", device.Status)
	out := *device
	return &out, nil
}
