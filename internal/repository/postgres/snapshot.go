package postgres

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"

	"rental-manager/internal/domain"
	"rental-manager/internal/logger"
)

// Load reads every table in position order.
func (s *Store) Load(ctx context.Context) (*domain.Snapshot, error) {
	logger.StoreCall(backend, "Load")

	snapshot, err := s.load(ctx)
	if err != nil {
		logger.StoreResult(backend, "Load", err)
		return nil, err
	}

	logger.StoreResult(backend, "Load", nil,
		"devices", len(snapshot.Devices),
		"customers", len(snapshot.Customers),
		"rentals", len(snapshot.Rentals),
	)
	return snapshot, nil
}

func (s *Store) load(ctx context.Context) (*domain.Snapshot, error) {
	snapshot := domain.EmptySnapshot()
	var err error

	if snapshot.Devices, err = s.loadDevices(ctx); err != nil {
		return nil, errors.Wrap(err, "load devices")
	}
	if snapshot.Customers, err = s.loadCustomers(ctx); err != nil {
		return nil, errors.Wrap(err, "load customers")
	}
	if snapshot.Rentals, err = s.loadRentals(ctx); err != nil {
		return nil, errors.Wrap(err, "load rentals")
	}
	snapshot.Normalize()
	return snapshot, nil
}

func (s *Store) loadDevices(ctx context.Context) ([]domain.Device, error) {
	query := `SELECT id, name, category, daily_rate, status FROM devices ORDER BY position`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var devices []domain.Device
	for rows.Next() {
		var d domain.Device
		if err := rows.Scan(&d.ID, &d.Name, &d.Category, &d.DailyRate, &d.Status); err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}
	return devices, rows.Err()
}

func (s *Store) loadCustomers(ctx context.Context) ([]domain.Customer, error) {
	query := `SELECT id, name, phone, email FROM customers ORDER BY position`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (s *Store) loadRentals(ctx context.Context) ([]domain.Rental, error) {
	query := `SELECT id, device_id, customer_id, start_date, planned_end_date, end_date, status, notes, total_cost, address
	          FROM rentals ORDER BY position`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		var (
			r         domain.Rental
			endDate   domain.Date
			totalCost sql.NullFloat64
		)
		if err := rows.Scan(&r.ID, &r.DeviceID, &r.CustomerID, &r.StartDate, &r.PlannedEndDate, &endDate, &r.Status, &r.Notes, &totalCost, &r.Address); err != nil {
			return nil, err
		}
		if !endDate.IsZero() {
			r.EndDate = &endDate
		}
		if totalCost.Valid {
			cost := totalCost.Float64
			r.TotalCost = &cost
		}
		rentals = append(rentals, r)
	}
	return rentals, rows.Err()
}

// Save replaces every row in a single transaction.
func (s *Store) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	logger.StoreCall(backend, "Save",
		"devices", len(snapshot.Devices),
		"customers", len(snapshot.Customers),
		"rentals", len(snapshot.Rentals),
	)

	err := s.save(ctx, snapshot)
	logger.StoreResult(backend, "Save", err)
	return err
}

func (s *Store) save(ctx context.Context, snapshot *domain.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer tx.Rollback()

	for _, table := range []string{"rentals", "customers", "devices"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return errors.Wrapf(err, "clear %s", table)
		}
	}

	for i, d := range snapshot.Devices {
		query := `INSERT INTO devices (id, position, name, category, daily_rate, status) VALUES ($1, $2, $3, $4, $5, $6)`
		if _, err := tx.ExecContext(ctx, query, d.ID, i, d.Name, d.Category, d.DailyRate, string(d.Status)); err != nil {
			return errors.Wrapf(err, "insert device %s", d.ID)
		}
	}

	for i, c := range snapshot.Customers {
		query := `INSERT INTO customers (id, position, name, phone, email) VALUES ($1, $2, $3, $4, $5)`
		if _, err := tx.ExecContext(ctx, query, c.ID, i, c.Name, c.Phone, c.Email); err != nil {
			return errors.Wrapf(err, "insert customer %s", c.ID)
		}
	}

	for i, r := range snapshot.Rentals {
		query := `INSERT INTO rentals (id, position, device_id, customer_id, start_date, planned_end_date, end_date, status, notes, total_cost, address)
		          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
		_, err := tx.ExecContext(ctx, query,
			r.ID, i, r.DeviceID, r.CustomerID,
			r.StartDate.String(), r.PlannedEndDate.String(), nullDate(r.EndDate),
			string(r.Status), r.Notes, nullFloat(r.TotalCost), r.Address,
		)
		if err != nil {
			return errors.Wrapf(err, "insert rental %s", r.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit snapshot")
	}
	return nil
}

func nullDate(d *domain.Date) sql.NullString {
	if d == nil || d.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
