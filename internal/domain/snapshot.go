package domain

// Snapshot is the full persisted state. Slice order is insertion order.
type Snapshot struct {
	Devices   []Device   `json:"devices"`
	Customers []Customer `json:"customers"`
	Rentals   []Rental   `json:"rentals"`
}

// EmptySnapshot returns a snapshot whose lists encode as [] rather than null.
func EmptySnapshot() *Snapshot {
	return &Snapshot{
		Devices:   []Device{},
		Customers: []Customer{},
		Rentals:   []Rental{},
	}
}

// Normalize replaces nil lists so the snapshot encodes as empty arrays.
func (s *Snapshot) Normalize() {
	if s.Devices == nil {
		s.Devices = []Device{}
	}
	if s.Customers == nil {
		s.Customers = []Customer{}
	}
	if s.Rentals == nil {
		s.Rentals = []Rental{}
	}
}
