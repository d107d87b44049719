// Package server exposes the arkab decision core over HTTP JSON.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/arkab-io/arkab/internal/config"
	"github.com/arkab-io/arkab/internal/core"
	"github.com/arkab-io/arkab/internal/ingest"
	"github.com/arkab-io/arkab/internal/model"
)

// Config holds HTTP server configuration.
type Config struct {
	Port       int
	ConfigPath string
}

// Server serves the evidence, health, and memory endpoints over a
// core.System.
type Server struct {
	cfg Config
	sys *core.System
	srv *http.Server
}

// New creates an HTTP server around an existing system.
func New(cfg Config, sys *core.System) *Server {
	s := &Server{cfg: cfg, sys: sys}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/evidence/batch", s.handleBatch)
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	mux.HandleFunc("GET /v1/memory", s.handleMemory)
	mux.HandleFunc("GET /v1/decisions", s.handleDecisions)

	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: mux,
	}
	return s
}

// Start begins listening. Blocks until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.srv.Addr, err)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.srv.Shutdown(shutdownCtx)
	}()

	err = s.srv.Serve(ln)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// StartOn serves on the given listener. For testing.
func (s *Server) StartOn(ln net.Listener) error {
	err := s.srv.Serve(ln)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// ReloadConfig re-reads the config file and applies the tunable parameters.
// Called by the hot-reloader on file change.
func (s *Server) ReloadConfig() error {
	if s.cfg.ConfigPath == "" {
		return nil
	}
	cfg, hash, err := config.LoadWithHash(s.cfg.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}
	s.sys.ApplyConfig(cfg, hash)
	return nil
}

// batchResponse is the wire shape of a successful batch submission.
type batchResponse struct {
	Decisions []model.Decision `json:"decisions"`
	Processed int              `json:"processed"`
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 4<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("read body: %v", err))
		return
	}

	evs, err := ingest.ParseBatch(body)
	if err != nil {
		var verr *ingest.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	decisions := s.sys.SubmitBatch(r.Context(), evs)
	writeJSON(w, http.StatusOK, batchResponse{
		Decisions: decisions,
		Processed: len(decisions),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sys.HealthReport(r.Context()))
}

func (s *Server) handleMemory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sys.MemoryStats())
}

func (s *Server) handleDecisions(w http.ResponseWriter, r *http.Request) {
	arch := s.sys.Archive()
	if arch == nil {
		writeError(w, http.StatusNotFound, "decision archive not configured")
		return
	}

	limit := 20
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid limit %q", q))
			return
		}
		limit = n
	}

	decisions, err := arch.Recent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("archive query: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"decisions": decisions})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}
