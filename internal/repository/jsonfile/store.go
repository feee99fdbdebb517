package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"rental-manager/internal/domain"
	"rental-manager/internal/logger"
	"rental-manager/internal/repository"
)

const backend = "jsonfile"

// Store keeps the snapshot in a single UTF-8 JSON document.
type Store struct {
	path string
}

var _ repository.SnapshotStore = (*Store)(nil)

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the file the store reads and writes.
func (s *Store) Path() string {
	return s.path
}

// Load reads the snapshot. A missing or blank file yields an empty snapshot.
func (s *Store) Load(ctx context.Context) (*domain.Snapshot, error) {
	logger.StoreCall(backend, "Load", "path", s.path)

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.StoreResult(backend, "Load", nil, "path", s.path, "missing", true)
		return domain.EmptySnapshot(), nil
	}
	if err != nil {
		err = errors.Wrapf(err, "read data file %s", s.path)
		logger.StoreResult(backend, "Load", err)
		return nil, err
	}

	snapshot := domain.EmptySnapshot()
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, snapshot); err != nil {
			err = errors.Wrapf(err, "decode data file %s", s.path)
			logger.StoreResult(backend, "Load", err)
			return nil, err
		}
	}
	snapshot.Normalize()

	logger.StoreResult(backend, "Load", nil,
		"devices", len(snapshot.Devices),
		"customers", len(snapshot.Customers),
		"rentals", len(snapshot.Rentals),
	)
	return snapshot, nil
}

// Save writes the snapshot through a temporary file in the same directory,
// creating the directory if needed.
func (s *Store) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	logger.StoreCall(backend, "Save", "path", s.path)

	err := s.write(snapshot)
	logger.StoreResult(backend, "Save", err, "path", s.path)
	return err
}

func (s *Store) write(snapshot *domain.Snapshot) error {
	snapshot.Normalize()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot); err != nil {
		return errors.Wrap(err, "encode snapshot")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create data directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temporary data file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write temporary data file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temporary data file")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.Wrapf(err, "replace data file %s", s.path)
	}
	return nil
}
