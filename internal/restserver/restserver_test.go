package restserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/P-QI/fw-conceptual-design/internal/sweep"
	"github.com/P-QI/fw-conceptual-design/internal/types"
)

func testServer() *Server {
	return New(&types.RESTServerConfig{ListenAddr: "127.0.0.1", Port: 0})
}

func testRun(id string) *sweep.Run {
	return &sweep.Run{
		ID:        id,
		CreatedAt: time.Date(2026, 6, 21, 12, 0, 0, 0, time.UTC),
		AxisNames: [3]string{"wingspan", "none", "none"},
		Dims:      [3]int{2, 1, 1},
		Cells: []sweep.Cell{
			{I: 0, Values: [3]float64{4.8, 0, 0}, Perf: &types.PerfResult{MinSoC: 0.31}},
			{I: 1, Values: [3]float64{5.6, 0, 0}, Perf: &types.PerfResult{MinSoC: 0.46}},
		},
	}
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleStatus(t *testing.T) {
	s := testServer()
	s.AddRun(testRun("run-a"))

	rec := get(t, s, "/api/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v", body["status"])
	}
	if body["runs"] != float64(1) {
		t.Errorf("runs field = %v, want 1", body["runs"])
	}
}

func TestHandleRunsListsInInsertionOrder(t *testing.T) {
	s := testServer()
	s.AddRun(testRun("run-a"))
	s.AddRun(testRun("run-b"))
	s.AddRun(testRun("run-a")) // replace, must not duplicate

	rec := get(t, s, "/api/runs")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var summaries []runSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summaries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(summaries))
	}
	if summaries[0].ID != "run-a" || summaries[1].ID != "run-b" {
		t.Errorf("order = [%s %s]", summaries[0].ID, summaries[1].ID)
	}
	if summaries[0].Cells != 2 {
		t.Errorf("Cells = %d, want 2", summaries[0].Cells)
	}
}

func TestHandleRun(t *testing.T) {
	s := testServer()
	s.AddRun(testRun("run-a"))

	rec := get(t, s, "/api/runs/run-a")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var run sweep.Run
	if err := json.Unmarshal(rec.Body.Bytes(), &run); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if run.ID != "run-a" || len(run.Cells) != 2 {
		t.Errorf("run = %+v", run)
	}
	if run.Cells[1].Perf == nil || run.Cells[1].Perf.MinSoC != 0.46 {
		t.Errorf("cell payload lost: %+v", run.Cells[1])
	}

	if rec := get(t, s, "/api/runs/missing"); rec.Code != http.StatusNotFound {
		t.Errorf("missing run status = %d, want 404", rec.Code)
	}
}
