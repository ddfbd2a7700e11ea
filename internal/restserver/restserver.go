// Package restserver exposes completed sweep runs over a read-only JSON API
// for reporting and plotting collaborators.
package restserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/P-QI/fw-conceptual-design/internal/log"
	"github.com/P-QI/fw-conceptual-design/internal/sweep"
	"github.com/P-QI/fw-conceptual-design/internal/types"
)

// Server serves the in-memory run registry. Runs are finalized before they
// are added, so handlers only ever read immutable data.
type Server struct {
	server *http.Server

	mu    sync.RWMutex
	runs  map[string]*sweep.Run
	order []string
}

// New builds the server with its routes.
func New(cfg *types.RESTServerConfig) *Server {
	s := &Server{
		runs: make(map[string]*sweep.Run),
	}

	router := mux.NewRouter()
	router.HandleFunc("/api/status", s.handleStatus).Methods(http.MethodGet)
	router.HandleFunc("/api/runs", s.handleRuns).Methods(http.MethodGet)
	router.HandleFunc("/api/runs/{id}", s.handleRun).Methods(http.MethodGet)

	addr := fmt.Sprintf("%s:%d", cfg.ListenAddr, cfg.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// AddRun registers a finalized run.
func (s *Server) AddRun(run *sweep.Run) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.runs[run.ID]; !exists {
		s.order = append(s.order, run.ID)
	}
	s.runs[run.ID] = run
}

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.server.Shutdown(shutdownCtx)
	}()

	log.Infow("REST server listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("REST server error: %w", err)
	}
	return nil
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	count := len(s.runs)
	s.mu.RUnlock()

	writeJSON(w, map[string]any{
		"status": "ok",
		"runs":   count,
	})
}

// runSummary is the list view of a run, without the cell payload.
type runSummary struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Axes      [3]string `json:"axes"`
	Dims      [3]int    `json:"dims"`
	Cells     int       `json:"cells"`
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	summaries := make([]runSummary, 0, len(s.order))
	for _, id := range s.order {
		run := s.runs[id]
		summaries = append(summaries, runSummary{
			ID:        run.ID,
			CreatedAt: run.CreatedAt,
			Axes:      run.AxisNames,
			Dims:      run.Dims,
			Cells:     len(run.Cells),
		})
	}
	s.mu.RUnlock()

	writeJSON(w, summaries)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.RLock()
	run, ok := s.runs[id]
	s.mu.RUnlock()

	if !ok {
		http.Error(w, fmt.Sprintf("run %s not found", id), http.StatusNotFound)
		return
	}
	writeJSON(w, run)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("failed to encode JSON response: %v", err)
	}
}
