package repository

import (
	"context"

	"rental-manager/internal/domain"
)

// SnapshotStore loads and saves the full record set. Save overwrites
// whatever was stored before.
type SnapshotStore interface {
	Load(ctx context.Context) (*domain.Snapshot, error)
	Save(ctx context.Context, snapshot *domain.Snapshot) error
}
