package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/P-QI/fw-conceptual-design/internal/sweep"
)

// MsgpackExporter writes each run as one compact msgpack file under a
// directory, for downstream plotting tools that don't speak SQL.
type MsgpackExporter struct {
	dir string
}

// NewMsgpackExporter exports runs into dir, created on first use.
func NewMsgpackExporter(dir string) *MsgpackExporter {
	return &MsgpackExporter{dir: dir}
}

// SaveRun serializes the whole run to <dir>/run-<id>.msgpack.
func (e *MsgpackExporter) SaveRun(run *sweep.Run) error {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	raw, err := msgpack.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run %s: %w", run.ID, err)
	}

	path := filepath.Join(e.dir, fmt.Sprintf("run-%s.msgpack", run.ID))
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Close is a no-op for the file exporter.
func (e *MsgpackExporter) Close() error { return nil }
