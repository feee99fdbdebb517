package postgres

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	_ "github.com/lib/pq"

	"rental-manager/internal/logger"
	"rental-manager/internal/repository"
)

const backend = "postgres"

// Store keeps the snapshot in three tables. Each row carries its position in
// the snapshot list so loads return records in insertion order.
type Store struct {
	db *sql.DB
}

var _ repository.SnapshotStore = (*Store)(nil)

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects with the lib/pq driver and verifies the connection.
func Open(ctx context.Context, connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping database")
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS devices (
	id         TEXT PRIMARY KEY,
	position   INTEGER NOT NULL,
	name       TEXT NOT NULL,
	category   TEXT NOT NULL DEFAULT 'unknown',
	daily_rate NUMERIC(12, 2) NOT NULL DEFAULT 0,
	status     TEXT NOT NULL DEFAULT 'available'
);
CREATE TABLE IF NOT EXISTS customers (
	id       TEXT PRIMARY KEY,
	position INTEGER NOT NULL,
	name     TEXT NOT NULL,
	phone    TEXT NOT NULL DEFAULT '',
	email    TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS rentals (
	id               TEXT PRIMARY KEY,
	position         INTEGER NOT NULL,
	device_id        TEXT NOT NULL,
	customer_id      TEXT NOT NULL,
	start_date       DATE NOT NULL,
	planned_end_date DATE NOT NULL,
	end_date         DATE,
	status           TEXT NOT NULL DEFAULT 'active',
	notes            TEXT NOT NULL DEFAULT '',
	total_cost       NUMERIC(12, 2),
	address          TEXT NOT NULL DEFAULT ''
);`

// EnsureSchema creates the snapshot tables when they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	logger.EnterMethod("Store.EnsureSchema")

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		err = errors.Wrap(err, "create schema")
		logger.ExitMethodWithError("Store.EnsureSchema", err)
		return err
	}

	logger.ExitMethod("Store.EnsureSchema")
	return nil
}
