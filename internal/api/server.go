// Package api provides the read-only HTTP observation surface over a
// running simulation: current status, per-hour stats history, and the
// event log. There is no admin control plane — the original's POST
// speed/snapshot/intervention endpoints and its narrative, LLM-backed
// routes have no equivalent here.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/townsim/townsim/internal/engine"
	"github.com/townsim/townsim/internal/persistence"
)

// Server serves simulation state over HTTP.
type Server struct {
	Sim  *engine.Simulation
	Eng  *engine.Engine
	DB   *persistence.DB
	Port int
	RunID int64
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	historyLimiter := NewRateLimiter(60, time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/stats", s.handleStats)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/stats/history", RateLimitMiddleware(historyLimiter, s.handleStatsHistory))

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr)

	go func() {
		if err := http.ListenAndServe(addr, corsMiddleware(mux)); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.Sim.Stats()
	writeJSON(w, map[string]any{
		"mode":  modeName(s.Sim.Config.Mode),
		"year":  snap.Year,
		"day":   snap.Day,
		"hour":  snap.Hour,
		"paced": s.Eng.Pacer.ShouldAdvance(),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.Stats())
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "persistence not configured", http.StatusServiceUnavailable)
		return
	}
	events, err := s.DB.LoadEvents(s.RunID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, events)
}

func (s *Server) handleStatsHistory(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "persistence not configured", http.StatusServiceUnavailable)
		return
	}
	runID := s.RunID
	if idParam := r.URL.Query().Get("run_id"); idParam != "" {
		parsed, err := strconv.ParseInt(idParam, 10, 64)
		if err != nil {
			http.Error(w, "invalid run_id", http.StatusBadRequest)
			return
		}
		runID = parsed
	}
	rows, err := s.DB.LoadHourlyStats(runID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, rows)
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func modeName(m engine.Mode) string {
	switch m {
	case engine.ModeSimple:
		return "simple"
	case engine.ModeEconomic:
		return "economic"
	case engine.ModePandemic:
		return "pandemic"
	case engine.ModeDual:
		return "dual"
	default:
		return "unknown"
	}
}
