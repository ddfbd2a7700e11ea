package storage

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/P-QI/fw-conceptual-design/internal/sweep"
	"github.com/P-QI/fw-conceptual-design/internal/types"
)

// SQLiteStore writes sweep runs to an embedded SQLite database, one row per
// grid cell.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and ensures the
// schema exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) createTables() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TIMESTAMP NOT NULL,
			axis1 TEXT, axis2 TEXT, axis3 TEXT,
			dim1 INTEGER, dim2 INTEGER, dim3 INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			run_id TEXT NOT NULL REFERENCES runs(id),
			i INTEGER NOT NULL, j INTEGER NOT NULL, k INTEGER NOT NULL,
			wingspan REAL, battery_mass REAL, aspect_ratio REAL,
			m_no_bat REAL, m_bat REAL,
			min_soc REAL, t_excess REAL, t_chargemargin REAL, t_endurance REAL,
			t_sunrise REAL, t_eq REAL, t_eq2 REAL, t_fullcharge REAL, t_sunset REAL,
			p_elec_level_tot_nom REAL,
			err TEXT,
			PRIMARY KEY (run_id, i, j, k)
		)`,
	}
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// SaveRun inserts the run header and every cell within one transaction.
func (s *SQLiteStore) SaveRun(run *sweep.Run) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO runs (id, created_at, axis1, axis2, axis3, dim1, dim2, dim3)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt,
		run.AxisNames[0], run.AxisNames[1], run.AxisNames[2],
		run.Dims[0], run.Dims[1], run.Dims[2])
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}

	stmt, err := tx.Prepare(`INSERT INTO results (
		run_id, i, j, k,
		wingspan, battery_mass, aspect_ratio,
		m_no_bat, m_bat,
		min_soc, t_excess, t_chargemargin, t_endurance,
		t_sunrise, t_eq, t_eq2, t_fullcharge, t_sunset,
		p_elec_level_tot_nom, err)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for idx := range run.Cells {
		c := &run.Cells[idx]
		perf := c.Perf
		if perf == nil {
			perf = &types.PerfResult{}
		}
		flight := c.Flight
		if flight == nil {
			flight = &types.FlightData{}
		}
		des := c.Design
		if des == nil {
			des = &types.DesignResult{}
		}
		if _, err := stmt.Exec(
			run.ID, c.I, c.J, c.K,
			flight.Wingspan, flight.BatteryMass, flight.AspectRatio,
			des.MassNoBat, des.MassBat,
			perf.MinSoC, perf.TExcess, perf.TChargeMargin, perf.TEndurance,
			perf.TSunrise, perf.TEq, perf.TEq2, perf.TFullCharge, perf.TSunset,
			perf.PElecLevelTotNom, c.Err,
		); err != nil {
			return fmt.Errorf("failed to insert cell (%d,%d,%d): %w", c.I, c.J, c.K, err)
		}
	}

	return tx.Commit()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
