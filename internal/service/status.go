package service

import (
	"rental-manager/internal/domain"
)

// deriveDeviceStatus computes a device's status from its active rentals as
// of today. Maintenance is sticky and returned unchanged.
func deriveDeviceStatus(reg *Registry, device *domain.Device, today domain.Date) domain.DeviceStatus {
	if device.InMaintenance() {
		return domain.DeviceStatusMaintenance
	}

	status := domain.DeviceStatusAvailable
	reg.eachRental(func(r *domain.Rental) bool {
		if r.DeviceID != device.ID || !r.IsActive() {
			return true
		}
		if r.Covers(today) {
			status = domain.DeviceStatusRented
			return false
		}
		if r.StartDate.After(today) {
			status = domain.DeviceStatusScheduled
		}
		return true
	})
	return status
}

// refreshDeviceStatus stores the derived status and reports whether it changed.
func refreshDeviceStatus(reg *Registry, device *domain.Device, today domain.Date) bool {
	status := deriveDeviceStatus(reg, device, today)
	if status == device.Status {
		return false
	}
	device.Status = status
	return true
}
