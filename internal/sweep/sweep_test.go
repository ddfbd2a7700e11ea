package sweep

import (
	"context"
	"math"
	"os"
	"reflect"
	"testing"

	"github.com/P-QI/fw-conceptual-design/internal/log"
	"github.com/P-QI/fw-conceptual-design/internal/types"
)

func TestMain(m *testing.M) {
	if err := log.Init(false); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// sweepConfig keeps grid tests quick: coarse step, one day horizon.
func sweepConfig(axes ...types.AxisConfig) *types.Config {
	cfg := types.DefaultConfig()
	cfg.Settings.Dt = 600
	cfg.Settings.SimTimeDays = 1
	cfg.Sweep.Axes = axes
	cfg.Sweep.Workers = 4
	return cfg
}

func TestParseVariable(t *testing.T) {
	tests := []struct {
		name    string
		want    Variable
		wantErr bool
	}{
		{"wingspan", VarWingspan, false},
		{"battery-mass", VarBatteryMass, false},
		{"aspect-ratio", VarAspectRatio, false},
		{"clearness", VarClearness, false},
		{"day-of-year", VarDayOfYear, false},
		{"latitude", VarLatitude, false},
		{"none", VarNone, false},
		{"wing_span", VarNone, true},
		{"", VarNone, true},
	}
	for _, tt := range tests {
		v, err := ParseVariable(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseVariable(%q): expected error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseVariable(%q): %v", tt.name, err)
			continue
		}
		if v != tt.want {
			t.Errorf("ParseVariable(%q) = %v, want %v", tt.name, v, tt.want)
		}
	}
}

func TestAxisFromConfigSpan(t *testing.T) {
	axis, err := AxisFromConfig(types.AxisConfig{Variable: "wingspan", Min: 3, Max: 5, Count: 5})
	if err != nil {
		t.Fatalf("AxisFromConfig: %v", err)
	}
	want := []float64{3, 3.5, 4, 4.5, 5}
	if len(axis.Values) != len(want) {
		t.Fatalf("got %d values, want %d", len(axis.Values), len(want))
	}
	for i, v := range want {
		if math.Abs(axis.Values[i]-v) > 1e-12 {
			t.Errorf("Values[%d] = %v, want %v", i, axis.Values[i], v)
		}
	}

	if _, err := AxisFromConfig(types.AxisConfig{Variable: "wingspan", Min: 3, Max: 5, Count: 1}); err == nil {
		t.Error("expected error for count < 2 without explicit values")
	}
	if _, err := AxisFromConfig(types.AxisConfig{Variable: "bogus", Values: []float64{1}}); err == nil {
		t.Error("expected error for unknown variable")
	}
}

func TestSweepGridEnumeration(t *testing.T) {
	cfg := sweepConfig(
		types.AxisConfig{Variable: "wingspan", Values: []float64{4.0, 4.8, 5.6, 6.4}},
		types.AxisConfig{Variable: "battery-mass", Min: 1.5, Max: 3.5, Count: 5},
	)
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	run, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := [3]int{4, 5, 1}; run.Dims != got {
		t.Fatalf("Dims = %v, want %v", run.Dims, got)
	}
	if len(run.Cells) != 20 {
		t.Fatalf("len(Cells) = %d, want 20", len(run.Cells))
	}
	if run.ID == "" {
		t.Error("run ID not assigned")
	}
	if run.AxisNames[0] != "wingspan" || run.AxisNames[1] != "battery-mass" || run.AxisNames[2] != "none" {
		t.Errorf("AxisNames = %v", run.AxisNames)
	}

	// Every cell must carry its own coordinates and axis values back to the
	// grid that produced it.
	for i := 0; i < 4; i++ {
		for j := 0; j < 5; j++ {
			cell := run.Cell(i, j, 0)
			if cell.I != i || cell.J != j || cell.K != 0 {
				t.Fatalf("cell (%d,%d,0) carries indices (%d,%d,%d)", i, j, cell.I, cell.J, cell.K)
			}
			if cell.Values[0] != s.axes[0].Values[i] || cell.Values[1] != s.axes[1].Values[j] {
				t.Fatalf("cell (%d,%d,0) values %v do not match axes", i, j, cell.Values)
			}
			if cell.Err != "" {
				t.Fatalf("cell (%d,%d,0) failed: %s", i, j, cell.Err)
			}
			if cell.Perf == nil || cell.Design == nil || cell.Flight == nil {
				t.Fatalf("cell (%d,%d,0) missing results", i, j)
			}
			if cell.Flight.Wingspan != cell.Values[0] || cell.Flight.BatteryMass != cell.Values[1] {
				t.Fatalf("cell (%d,%d,0) flight data %+v does not echo swept values %v", i, j, cell.Flight, cell.Values)
			}
		}
	}

	if got := s.Completed(); got != 20 {
		t.Errorf("Completed() = %d, want 20", got)
	}

	// Larger wingspan at fixed battery mass means more panel area and a
	// heavier airframe; total mass must be strictly increasing along axis 0.
	for j := 0; j < 5; j++ {
		prev := -1.0
		for i := 0; i < 4; i++ {
			m := run.Cell(i, j, 0).Design.MassNoBat
			if m <= prev {
				t.Errorf("MassNoBat not increasing with wingspan at j=%d: %.3f after %.3f", j, m, prev)
			}
			prev = m
		}
	}
}

func TestSweepIsolatesInvalidCells(t *testing.T) {
	cfg := sweepConfig(
		types.AxisConfig{Variable: "wingspan", Values: []float64{-1, 5.6}},
	)
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	run, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	bad := run.Cell(0, 0, 0)
	if bad.Err == "" {
		t.Error("negative wingspan cell should record an error")
	}
	if bad.Perf != nil {
		t.Error("failed cell should carry no results")
	}

	good := run.Cell(1, 0, 0)
	if good.Err != "" {
		t.Errorf("valid cell failed: %s", good.Err)
	}
	if good.Perf == nil {
		t.Error("valid cell should carry results")
	}
}

func TestSweepCancellation(t *testing.T) {
	cfg := sweepConfig(
		types.AxisConfig{Variable: "wingspan", Min: 3, Max: 7, Count: 50},
	)
	cfg.Sweep.Workers = 1
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	run, err := s.Run(ctx)
	if err == nil {
		t.Fatal("expected context error from cancelled sweep")
	}
	if run == nil {
		t.Fatal("cancelled sweep should still return the partial run")
	}
	if got := s.Completed(); got >= 50 {
		t.Errorf("Completed() = %d, expected an interrupted sweep", got)
	}
}

func TestSweepDeterministicAcrossWorkerCounts(t *testing.T) {
	axes := []types.AxisConfig{
		{Variable: "clearness", Values: []float64{0.4, 0.7, 1.0}},
		{Variable: "battery-mass", Values: []float64{2.0, 2.9}},
	}

	runWith := func(workers int) *Run {
		cfg := sweepConfig(axes...)
		cfg.Sweep.Workers = workers
		s, err := New(cfg)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		run, err := s.Run(context.Background())
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		return run
	}

	serial := runWith(1)
	parallel := runWith(8)
	if !reflect.DeepEqual(serial.Cells, parallel.Cells) {
		t.Error("cell results differ between 1 and 8 workers")
	}
}

func TestNewRejectsTooManyAxes(t *testing.T) {
	cfg := sweepConfig(
		types.AxisConfig{Variable: "wingspan", Values: []float64{5}},
		types.AxisConfig{Variable: "battery-mass", Values: []float64{2}},
		types.AxisConfig{Variable: "clearness", Values: []float64{1}},
		types.AxisConfig{Variable: "latitude", Values: []float64{47}},
	)
	if _, err := New(cfg); err == nil {
		t.Error("expected error for 4 axes")
	}
}
