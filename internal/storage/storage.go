// Package storage persists completed sweep runs. More than one backend can
// be enabled simultaneously; each run is written to all of them.
package storage

import (
	"go.uber.org/multierr"

	"github.com/P-QI/fw-conceptual-design/internal/log"
	"github.com/P-QI/fw-conceptual-design/internal/sweep"
	"github.com/P-QI/fw-conceptual-design/internal/types"
)

// Store is a storage backend for completed sweep runs.
type Store interface {
	SaveRun(run *sweep.Run) error
	Close() error
}

// Manager fans completed runs out to every enabled backend.
type Manager struct {
	stores []Store
}

// NewManager builds the set of enabled backends from the storage config.
func NewManager(cfg *types.StorageConfig) (*Manager, error) {
	m := &Manager{}

	if cfg.SQLite.Path != "" {
		s, err := NewSQLiteStore(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		log.Infow("storage backend enabled", "backend", "sqlite", "path", cfg.SQLite.Path)
		m.stores = append(m.stores, s)
	}
	if cfg.TimescaleDB.ConnectionString != "" {
		s, err := NewTimescaleDBStore(cfg.TimescaleDB.ConnectionString)
		if err != nil {
			return nil, err
		}
		log.Infow("storage backend enabled", "backend", "timescaledb")
		m.stores = append(m.stores, s)
	}
	if cfg.Msgpack.Path != "" {
		m.stores = append(m.stores, NewMsgpackExporter(cfg.Msgpack.Path))
		log.Infow("storage backend enabled", "backend", "msgpack", "path", cfg.Msgpack.Path)
	}

	return m, nil
}

// Enabled reports whether any backend is configured.
func (m *Manager) Enabled() bool { return len(m.stores) > 0 }

// SaveRun writes the run to every backend; a failing backend does not stop
// the others.
func (m *Manager) SaveRun(run *sweep.Run) error {
	var errs error
	for _, s := range m.stores {
		errs = multierr.Append(errs, s.SaveRun(run))
	}
	return errs
}

// Close closes all backends.
func (m *Manager) Close() error {
	var errs error
	for _, s := range m.stores {
		errs = multierr.Append(errs, s.Close())
	}
	return errs
}
