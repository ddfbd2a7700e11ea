package sweep

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/P-QI/fw-conceptual-design/internal/log"
	"github.com/P-QI/fw-conceptual-design/internal/mission"
	"github.com/P-QI/fw-conceptual-design/internal/types"
)

// Cell is the outcome of one grid cell: the three result records, or the
// error that aborted just this cell.
type Cell struct {
	I      int        `json:"i"`
	J      int        `json:"j"`
	K      int        `json:"k"`
	Values [3]float64 `json:"values"`

	Perf   *types.PerfResult   `json:"perf,omitempty"`
	Design *types.DesignResult `json:"design,omitempty"`
	Flight *types.FlightData   `json:"flight,omitempty"`
	Err    string              `json:"err,omitempty"`
}

// Run is one completed sweep: a 3-D result array in row-major cell order plus
// the axes that index it.
type Run struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Axes      [3]Axis   `json:"-"`
	AxisNames [3]string `json:"axes"`
	Dims      [3]int    `json:"dims"`
	Cells     []Cell    `json:"cells"`
}

// Cell returns the cell at the given axis indices.
func (r *Run) Cell(i, j, k int) *Cell {
	return &r.Cells[(i*r.Dims[1]+j)*r.Dims[2]+k]
}

// Sweeper owns the grid enumeration and the result collector. Evaluations
// are pure, so cells are computed by a worker pool with no ordering
// constraints; the only shared state is the atomic progress counter.
type Sweeper struct {
	cfg       *types.Config
	axes      [3]Axis
	workers   int
	completed atomic.Int64
}

// New builds a sweeper from the configured axes. Up to three variables may be
// swept; unused dimensions are held fixed.
func New(cfg *types.Config) (*Sweeper, error) {
	if len(cfg.Sweep.Axes) > 3 {
		return nil, fmt.Errorf("at most 3 sweep axes are supported, got %d", len(cfg.Sweep.Axes))
	}

	s := &Sweeper{cfg: cfg, workers: cfg.Sweep.Workers}
	if s.workers < 1 {
		s.workers = 1
	}
	for i := 0; i < 3; i++ {
		s.axes[i] = fixedAxis()
	}
	for i, ac := range cfg.Sweep.Axes {
		axis, err := AxisFromConfig(ac)
		if err != nil {
			return nil, err
		}
		s.axes[i] = axis
	}
	return s, nil
}

// Completed returns the number of cells evaluated so far.
func (s *Sweeper) Completed() int64 { return s.completed.Load() }

// Run evaluates every grid cell. A failed cell records its error and the
// sweep continues; ctx cancellation stops between cells without corrupting
// completed results.
func (s *Sweeper) Run(ctx context.Context) (*Run, error) {
	dims := [3]int{len(s.axes[0].Values), len(s.axes[1].Values), len(s.axes[2].Values)}
	total := dims[0] * dims[1] * dims[2]

	run := &Run{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Axes:      s.axes,
		Dims:      dims,
		Cells:     make([]Cell, total),
	}
	for i := 0; i < 3; i++ {
		run.AxisNames[i] = s.axes[i].Variable.String()
	}

	log.Infow("starting sweep", "run_id", run.ID, "dims", dims, "cells", total, "workers", s.workers)

	indices := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indices {
				s.evaluateCell(run, idx)
				done := s.completed.Add(1)
				if total >= 10 && done%int64(total/10) == 0 {
					log.Infof("sweep progress: %d/%d cells", done, total)
				}
			}
		}()
	}

feed:
	for idx := 0; idx < total; idx++ {
		select {
		case <-ctx.Done():
			break feed
		case indices <- idx:
		}
	}
	close(indices)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		log.Warnw("sweep cancelled", "run_id", run.ID, "completed", s.completed.Load(), "total", total)
		return run, err
	}
	log.Infow("sweep finished", "run_id", run.ID, "cells", total)
	return run, nil
}

func (s *Sweeper) evaluateCell(run *Run, idx int) {
	k := idx % run.Dims[2]
	j := (idx / run.Dims[2]) % run.Dims[1]
	i := idx / (run.Dims[1] * run.Dims[2])

	// Per-cell copies: the base records are never mutated, so cells stay
	// independent pure evaluations.
	design := s.cfg.Design
	env := s.cfg.Environment
	params := s.cfg.Params
	settings := s.cfg.Settings

	values := [3]float64{s.axes[0].Values[i], s.axes[1].Values[j], s.axes[2].Values[k]}
	s.axes[0].Variable.apply(&design, &env, values[0])
	s.axes[1].Variable.apply(&design, &env, values[1])
	s.axes[2].Variable.apply(&design, &env, values[2])

	cell := run.Cell(i, j, k)
	cell.I, cell.J, cell.K = i, j, k
	cell.Values = values

	perf, desRes, flight, err := mission.Evaluate(&design, &env, &params, &settings)
	if err != nil {
		log.Warnw("cell evaluation failed", "run_id", run.ID, "i", i, "j", j, "k", k, "error", err)
		cell.Err = err.Error()
		return
	}
	cell.Perf = perf
	cell.Design = desRes
	cell.Flight = flight
}
