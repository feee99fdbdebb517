package service

import (
	"context"

	"github.com/cockroachdb/errors"

	"rental-manager/internal/domain"
	"rental-manager/internal/repository"
)

// Registry owns the in-memory records loaded from a SnapshotStore. Records
// are keyed by id; the order slices remember insertion order so a save
// writes lists back the way they were read. Not safe for concurrent use.
type Registry struct {
	store repository.SnapshotStore

	devices   map[string]*domain.Device
	customers map[string]*domain.Customer
	rentals   map[string]*domain.Rental

	deviceOrder   []string
	customerOrder []string
	rentalOrder   []string
}

func NewRegistry(store repository.SnapshotStore) *Registry {
	r := &Registry{store: store}
	r.reset()
	return r
}

// LoadRegistry builds a registry from the store's current snapshot.
func LoadRegistry(ctx context.Context, store repository.SnapshotStore) (*Registry, error) {
	r := NewRegistry(store)
	if err := r.Reload(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) reset() {
	r.devices = make(map[string]*domain.Device)
	r.customers = make(map[string]*domain.Customer)
	r.rentals = make(map[string]*domain.Rental)
	r.deviceOrder = nil
	r.customerOrder = nil
	r.rentalOrder = nil
}

// Reload discards memory and reads the store again. A record id that
// appears twice keeps its first position and its last value.
func (r *Registry) Reload(ctx context.Context) error {
	snapshot, err := r.store.Load(ctx)
	if err != nil {
		return errors.Wrap(err, "load snapshot")
	}

	r.reset()
	for i := range snapshot.Devices {
		d := snapshot.Devices[i]
		r.putDevice(&d)
	}
	for i := range snapshot.Customers {
		c := snapshot.Customers[i]
		r.putCustomer(&c)
	}
	for i := range snapshot.Rentals {
		rental := snapshot.Rentals[i]
		r.putRental(&rental)
	}
	return nil
}

// Persist saves the full record set.
func (r *Registry) Persist(ctx context.Context) error {
	if err := r.store.Save(ctx, r.Snapshot()); err != nil {
		return errors.Wrap(err, "persist snapshot")
	}
	return nil
}

// Snapshot copies the records out in insertion order.
func (r *Registry) Snapshot() *domain.Snapshot {
	s := domain.EmptySnapshot()
	for _, id := range r.deviceOrder {
		s.Devices = append(s.Devices, *r.devices[id])
	}
	for _, id := range r.customerOrder {
		s.Customers = append(s.Customers, *r.customers[id])
	}
	for _, id := range r.rentalOrder {
		s.Rentals = append(s.Rentals, *r.rentals[id])
	}
	return s
}

func (r *Registry) IsEmpty() bool {
	return len(r.devices) == 0 && len(r.customers) == 0 && len(r.rentals) == 0
}

func (r *Registry) putDevice(d *domain.Device) {
	if _, ok := r.devices[d.ID]; !ok {
		r.deviceOrder = append(r.deviceOrder, d.ID)
	}
	r.devices[d.ID] = d
}

func (r *Registry) putCustomer(c *domain.Customer) {
	if _, ok := r.customers[c.ID]; !ok {
		r.customerOrder = append(r.customerOrder, c.ID)
	}
	r.customers[c.ID] = c
}

func (r *Registry) putRental(rental *domain.Rental) {
	if _, ok := r.rentals[rental.ID]; !ok {
		r.rentalOrder = append(r.rentalOrder, rental.ID)
	}
	r.rentals[rental.ID] = rental
}

func (r *Registry) device(id string) (*domain.Device, error) {
	d, ok := r.devices[id]
	if !ok {
		return nil, domain.NotFoundf("device %s not found", id)
	}
	return d, nil
}

func (r *Registry) customer(id string) (*domain.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, domain.NotFoundf("customer %s not found", id)
	}
	return c, nil
}

func (r *Registry) rental(id string) (*domain.Rental, error) {
	rental, ok := r.rentals[id]
	if !ok {
		return nil, domain.NotFoundf("rental %s not found", id)
	}
	return rental, nil
}

func (r *Registry) eachDevice(fn func(*domain.Device)) {
	for _, id := range r.deviceOrder {
		fn(r.devices[id])
	}
}

func (r *Registry) eachCustomer(fn func(*domain.Customer)) {
	for _, id := range r.customerOrder {
		fn(r.customers[id])
	}
}

// eachRental visits rentals in insertion order until fn returns false.
func (r *Registry) eachRental(fn func(*domain.Rental) bool) {
	for _, id := range r.rentalOrder {
		if !fn(r.rentals[id]) {
			return
		}
	}
}
