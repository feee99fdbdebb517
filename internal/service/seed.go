package service

import (
	"context"

	"rental-manager/internal/clock"
	"rental-manager/internal/logger"
)

// Seed fills an empty registry with sample devices, customers and two
// rentals starting today, and puts the monitor into maintenance. It does
// nothing when any record exists and reports whether it seeded.
func (s *Services) Seed(ctx context.Context) (bool, error) {
	if !s.Registry.IsEmpty() {
		return false, nil
	}
	today := clock.Today(s.clock)

	camera, err := s.Devices.AddDevice(ctx, "Sony A7M4", "相机", 220)
	if err != nil {
		return false, err
	}
	lens, err := s.Devices.AddDevice(ctx, "Sigma 24-70mm", "镜头", 80)
	if err != nil {
		return false, err
	}
	monitor, err := s.Devices.AddDevice(ctx, "Atomos Ninja V", "监视器", 120)
	if err != nil {
		return false, err
	}

	studio, err := s.Customers.AddCustomer(ctx, "广州影视公司", "020-12345678", "film@example.com")
	if err != nil {
		return false, err
	}
	lilei, err := s.Customers.AddCustomer(ctx, "李雷", "18800000000", "lilei@example.com")
	if err != nil {
		return false, err
	}

	if _, err := s.Rentals.RentDevice(ctx, RentRequest{
		DeviceID:   camera.ID,
		CustomerID: studio.ID,
		Start:      today,
		Days:       5,
		Notes:      "5 天广告拍摄",
	}); err != nil {
		return false, err
	}
	if _, err := s.Rentals.RentDevice(ctx, RentRequest{
		DeviceID:   lens.ID,
		CustomerID: lilei.ID,
		Start:      today,
		Days:       3,
		Notes:      "婚礼拍摄",
	}); err != nil {
		return false, err
	}

	if _, err := s.Devices.SetMaintenance(ctx, monitor.ID, true); err != nil {
		return false, err
	}

	logger.Info("Sample data seeded")
	return true, nil
}
