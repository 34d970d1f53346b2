// Package server provides the HTTP surface described in §6: job
// submission endpoints for candidate ingestion and employer matching, and
// a status/result endpoint. It is framing only — the ranking core never
// touches net/http.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/nexusats/matchengine/internal/worker"
)

// Engine is the subset of the matching engine the server depends on to
// submit jobs. Concrete wiring happens at the process entry point
// (cmd/matchengine), which constructs the real ingestion/matching tasks
// and hands them to the worker pool.
type Engine interface {
	SubmitCandidateIngestion(ctx context.Context, pdf []byte, now time.Time) *worker.Job
	SubmitEmployerMatch(ctx context.Context, jobDescription string, now time.Time) *worker.Job
	GetJob(jobID string) (*worker.Job, bool)
}

// Server wraps an Engine behind the three HTTP endpoints the spec names.
type Server struct {
	httpServer *http.Server
	engine     Engine
	now        func() time.Time
}

// Config holds server configuration.
type Config struct {
	Port int
}

// New builds a Server over the given engine. now defaults to time.Now but
// can be overridden in tests for determinism.
func New(cfg Config, engine Engine) *Server {
	s := &Server{engine: engine, now: time.Now}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /jobs/candidate", s.handleSubmitCandidate)
	mux.HandleFunc("POST /jobs/employer", s.handleSubmitEmployer)
	mux.HandleFunc("GET /jobs/{job_id}", s.handleGetJob)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

// ListenAndServe starts the HTTP server and blocks until it exits.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server. It closes nothing else; the
// store and the worker pool are left to the caller.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
