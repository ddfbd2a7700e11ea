package storage

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/P-QI/fw-conceptual-design/internal/log"
	"github.com/P-QI/fw-conceptual-design/internal/sweep"
	"github.com/P-QI/fw-conceptual-design/internal/types"
)

func TestMain(m *testing.M) {
	if err := log.Init(false); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func testRun() *sweep.Run {
	run := &sweep.Run{
		ID:        "test-run-0001",
		CreatedAt: time.Date(2026, 6, 21, 12, 0, 0, 0, time.UTC),
		AxisNames: [3]string{"wingspan", "battery-mass", "none"},
		Dims:      [3]int{2, 2, 1},
		Cells:     make([]sweep.Cell, 4),
	}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			c := run.Cell(i, j, 0)
			c.I, c.J, c.K = i, j, 0
			c.Values = [3]float64{4.8 + 0.8*float64(i), 2.0 + 0.9*float64(j), 0}
			c.Flight = &types.FlightData{Wingspan: c.Values[0], BatteryMass: c.Values[1], AspectRatio: 18.5}
			c.Design = &types.DesignResult{MassNoBat: 3.9, MassBat: c.Values[1]}
			c.Perf = &types.PerfResult{
				MinSoC:     0.46,
				TEndurance: 2,
				TSunrise:   3.57 * 3600,
				TSunset:    19.35 * 3600,
			}
		}
	}
	// One failed cell with no results.
	bad := run.Cell(1, 1, 0)
	bad.Perf, bad.Design, bad.Flight = nil, nil, nil
	bad.Err = "invalid design: wingspan -1"
	return run
}

func TestSQLiteStoreSaveRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer store.Close()

	run := testRun()
	if err := store.SaveRun(run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open for verification: %v", err)
	}
	defer db.Close()

	var runs int
	if err := db.QueryRow(`SELECT COUNT(*) FROM runs WHERE id = ?`, run.ID).Scan(&runs); err != nil {
		t.Fatalf("count runs: %v", err)
	}
	if runs != 1 {
		t.Errorf("runs rows = %d, want 1", runs)
	}

	var cells int
	if err := db.QueryRow(`SELECT COUNT(*) FROM results WHERE run_id = ?`, run.ID).Scan(&cells); err != nil {
		t.Fatalf("count results: %v", err)
	}
	if cells != 4 {
		t.Errorf("results rows = %d, want 4", cells)
	}

	var minSoC float64
	if err := db.QueryRow(`SELECT min_soc FROM results WHERE run_id = ? AND i = 0 AND j = 0 AND k = 0`, run.ID).Scan(&minSoC); err != nil {
		t.Fatalf("select min_soc: %v", err)
	}
	if minSoC != 0.46 {
		t.Errorf("min_soc = %v, want 0.46", minSoC)
	}

	var cellErr string
	if err := db.QueryRow(`SELECT err FROM results WHERE run_id = ? AND i = 1 AND j = 1`, run.ID).Scan(&cellErr); err != nil {
		t.Fatalf("select err: %v", err)
	}
	if cellErr != "invalid design: wingspan -1" {
		t.Errorf("err column = %q", cellErr)
	}
}

func TestSQLiteStoreRejectsDuplicateRun(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer store.Close()

	run := testRun()
	if err := store.SaveRun(run); err != nil {
		t.Fatalf("first SaveRun: %v", err)
	}
	if err := store.SaveRun(run); err == nil {
		t.Error("second SaveRun with same ID should fail on the primary key")
	}
}

func TestMsgpackExporterRoundTrip(t *testing.T) {
	dir := t.TempDir()
	exporter := NewMsgpackExporter(dir)

	run := testRun()
	if err := exporter.SaveRun(run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "run-"+run.ID+".msgpack"))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}

	var decoded sweep.Run
	if err := msgpack.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.ID != run.ID {
		t.Errorf("decoded ID = %q, want %q", decoded.ID, run.ID)
	}
	if decoded.Dims != run.Dims {
		t.Errorf("decoded Dims = %v, want %v", decoded.Dims, run.Dims)
	}
	if len(decoded.Cells) != len(run.Cells) {
		t.Fatalf("decoded %d cells, want %d", len(decoded.Cells), len(run.Cells))
	}
	got := decoded.Cell(0, 0, 0)
	if got.Perf == nil || got.Perf.MinSoC != 0.46 {
		t.Errorf("decoded cell (0,0,0) perf = %+v", got.Perf)
	}
	if bad := decoded.Cell(1, 1, 0); bad.Err == "" || bad.Perf != nil {
		t.Errorf("decoded failed cell = %+v", bad)
	}
}

func TestManagerDisabledByDefault(t *testing.T) {
	m, err := NewManager(&types.StorageConfig{})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	defer m.Close()
	if m.Enabled() {
		t.Error("manager with no backends should report disabled")
	}
}

func TestManagerFansOut(t *testing.T) {
	dir := t.TempDir()
	cfg := &types.StorageConfig{
		SQLite:  types.SQLiteConfig{Path: filepath.Join(dir, "results.db")},
		Msgpack: types.MsgpackConfig{Path: filepath.Join(dir, "export")},
	}
	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	defer m.Close()

	if !m.Enabled() {
		t.Fatal("manager with two backends should report enabled")
	}

	run := testRun()
	if err := m.SaveRun(run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "export", "run-"+run.ID+".msgpack")); err != nil {
		t.Errorf("msgpack export missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "results.db")); err != nil {
		t.Errorf("sqlite database missing: %v", err)
	}
}
