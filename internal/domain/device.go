package domain

import "encoding/json"

type DeviceStatus string

const (
	DeviceStatusAvailable   DeviceStatus = "available"
	DeviceStatusRented      DeviceStatus = "rented"
	DeviceStatusScheduled   DeviceStatus = "scheduled"
	DeviceStatusMaintenance DeviceStatus = "maintenance"
)

// ParseDeviceStatus accepts "" as "no filter".
func ParseDeviceStatus(s string) (DeviceStatus, error) {
	switch st := DeviceStatus(s); st {
	case "", DeviceStatusAvailable, DeviceStatusRented, DeviceStatusScheduled, DeviceStatusMaintenance:
		return st, nil
	default:
		return "", InvalidInputf("unknown device status %q", s)
	}
}

type Device struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Category  string       `json:"category"`
	DailyRate float64      `json:"daily_rate"`
	Status    DeviceStatus `json:"status"`
}

// UnmarshalJSON applies the defaults older snapshots rely on.
func (d *Device) UnmarshalJSON(data []byte) error {
	type alias Device
	a := alias{Category: "unknown", Status: DeviceStatusAvailable}
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*d = Device(a)
	return nil
}

func (d *Device) InMaintenance() bool {
	return d.Status == DeviceStatusMaintenance
}
