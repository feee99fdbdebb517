// Package storage selects the snapshot backend named in the configuration.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cockroachdb/errors"

	"rental-manager/internal/config"
	"rental-manager/internal/logger"
	"rental-manager/internal/repository"
	"rental-manager/internal/repository/jsonfile"
	"rental-manager/internal/repository/postgres"
)

// Backend is an open snapshot store plus whatever must be released with it.
type Backend struct {
	Store repository.SnapshotStore
	// Location is a human-readable description of where records live.
	Location string
	// Type is config.StorageTypeJSON or config.StorageTypePostgres.
	Type string

	db *sql.DB
}

// Open opens the configured backend. Postgres tables are created when missing.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.Storage.Type {
	case config.StorageTypePostgres:
		logger.Debug("Connecting to database", "host", cfg.Database.Host, "port", cfg.Database.Port)
		db, err := postgres.Open(ctx, cfg.GetDatabaseConnectionString())
		if err != nil {
			return nil, err
		}

		store := postgres.NewStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return &Backend{
			Store:    store,
			Location: fmt.Sprintf("postgres://%s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.Database),
			Type:     config.StorageTypePostgres,
			db:       db,
		}, nil

	case config.StorageTypeJSON, "":
		return &Backend{
			Store:    jsonfile.NewStore(cfg.Storage.DataFile),
			Location: cfg.Storage.DataFile,
			Type:     config.StorageTypeJSON,
		}, nil

	default:
		return nil, errors.Newf("unknown storage type: %q", cfg.Storage.Type)
	}
}

// Close releases the database connection, if any.
func (b *Backend) Close() error {
	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	return err
}
