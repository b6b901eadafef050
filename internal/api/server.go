// Package api serves the economic state of a game over HTTP.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (admin control plane).
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Kgreeven-max/Monopoly1.0-sub001/internal/bank"
	"github.com/Kgreeven-max/Monopoly1.0-sub001/internal/economy"
	"github.com/Kgreeven-max/Monopoly1.0-sub001/internal/entropy"
	"github.com/Kgreeven-max/Monopoly1.0-sub001/internal/game"
	"github.com/Kgreeven-max/Monopoly1.0-sub001/internal/persistence"
)

// Server serves one game's economic state over HTTP.
type Server struct {
	Game     *game.Context
	Ledger   *bank.Ledger
	Econ     *economy.Engine
	DB       *persistence.DB
	Rng      entropy.Source
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.

	// Mu is the per-game serialization lock shared with the turn loop.
	Mu *sync.Mutex
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	adminLimiter := NewRateLimiter(30, time.Minute)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/players", s.handlePlayers)
	mux.HandleFunc("/api/v1/properties", s.handleProperties)
	mux.HandleFunc("/api/v1/instruments", s.handleInstruments)
	mux.HandleFunc("/api/v1/phase-changes", s.handlePhaseChanges)
	mux.HandleFunc("/api/v1/decisions", s.handleDecisions)

	// Admin overrides (POST, require bearer token).
	mux.HandleFunc("/api/v1/force-phase", s.adminOnly(RateLimitMiddleware(adminLimiter, s.handleForcePhase)))
	mux.HandleFunc("/api/v1/shock", s.adminOnly(RateLimitMiddleware(adminLimiter, s.handleShock)))

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// adminOnly gates a handler behind the bearer token. With no key
// configured the admin plane stays disabled.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if s.AdminKey == "" {
			http.Error(w, "admin endpoints disabled", http.StatusForbidden)
			return
		}
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token != s.AdminKey {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	writeJSON(w, map[string]any{
		"game_id":                  s.Game.ID,
		"period":                   s.Game.Period,
		"phase":                    s.Game.Phase.String(),
		"phase_tag":                economy.Def(s.Game.Phase).Tag,
		"cycle_position":           s.Game.CyclePosition,
		"cycle_direction":          s.Game.CycleDirection,
		"aggregate_cash":           humanize.Commaf(s.Game.AggregateCash()),
		"aggregate_property_value": humanize.Commaf(s.Game.AggregatePropertyValue()),
	})
}

func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	writeJSON(w, s.Game.Players)
}

func (s *Server) handleProperties(w http.ResponseWriter, r *http.Request) {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	writeJSON(w, s.Game.Properties)
}

func (s *Server) handleInstruments(w http.ResponseWriter, r *http.Request) {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	writeJSON(w, s.Ledger.Instruments())
}

func (s *Server) handlePhaseChanges(w http.ResponseWriter, r *http.Request) {
	records, err := s.DB.RecentPhaseChanges(s.Game.ID, limitParam(r, 20))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, records)
}

func (s *Server) handleDecisions(w http.ResponseWriter, r *http.Request) {
	records, err := s.DB.RecentDecisions(s.Game.ID, limitParam(r, 50))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, records)
}

// handleForcePhase snaps the economy to a named phase, bypassing the
// gradual convergence rule.
func (s *Server) handleForcePhase(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phase string `json:"phase"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	phase, err := game.ParsePhase(req.Phase)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.Mu.Lock()
	record := s.Econ.ForcePhase(s.Game, phase)
	s.Mu.Unlock()

	if err := s.DB.SavePhaseChange(record); err != nil {
		slog.Error("save forced phase change", "error", err)
	}
	writeJSON(w, record)
}

// handleShock jumps to a random phase weighted by the phase selection
// probabilities.
func (s *Server) handleShock(w http.ResponseWriter, r *http.Request) {
	target := economy.RandomPhase(s.Rng)

	s.Mu.Lock()
	record := s.Econ.ForcePhase(s.Game, target)
	s.Mu.Unlock()

	if err := s.DB.SavePhaseChange(record); err != nil {
		slog.Error("save shock phase change", "error", err)
	}
	writeJSON(w, record)
}

func limitParam(r *http.Request, fallback int) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			return n
		}
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
