package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Kgreeven-max/Monopoly1.0-sub001/internal/bank"
	"github.com/Kgreeven-max/Monopoly1.0-sub001/internal/economy"
	"github.com/Kgreeven-max/Monopoly1.0-sub001/internal/entropy"
	"github.com/Kgreeven-max/Monopoly1.0-sub001/internal/game"
	"github.com/Kgreeven-max/Monopoly1.0-sub001/internal/persistence"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	db, err := persistence.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ctx := game.NewContext(0.01)
	ctx.Players = []*game.Player{{ID: 1, Name: "Ada", Cash: 1500, IsBot: true}}
	ctx.Properties = []*game.Property{
		{ID: 1, Name: "Boardwalk", Group: "darkblue", BasePrice: 400, CurrentPrice: 400, BaseRent: 50, CurrentRent: 50},
	}

	return &Server{
		Game:     ctx,
		Ledger:   bank.NewLedger(),
		Econ:     economy.NewEngine(slog.New(slog.NewTextHandler(io.Discard, nil))),
		DB:       db,
		Rng:      entropy.NewSeeded(1),
		AdminKey: "sekrit",
		Mu:       &sync.Mutex{},
	}
}

func TestHandleStatus(t *testing.T) {
	s := testServer(t)

	rec := httptest.NewRecorder()
	s.handleStatus(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["phase"] != "stable" {
		t.Errorf("phase = %v", body["phase"])
	}
	if body["aggregate_cash"] != "1,500" {
		t.Errorf("aggregate_cash = %v, want humanized 1,500", body["aggregate_cash"])
	}
}

func TestHandlePlayersAndProperties(t *testing.T) {
	s := testServer(t)

	rec := httptest.NewRecorder()
	s.handlePlayers(rec, httptest.NewRequest(http.MethodGet, "/api/v1/players", nil))
	var players []game.Player
	if err := json.Unmarshal(rec.Body.Bytes(), &players); err != nil {
		t.Fatalf("decode players: %v", err)
	}
	if len(players) != 1 || players[0].Name != "Ada" {
		t.Errorf("players = %+v", players)
	}

	rec = httptest.NewRecorder()
	s.handleProperties(rec, httptest.NewRequest(http.MethodGet, "/api/v1/properties", nil))
	var props []game.Property
	if err := json.Unmarshal(rec.Body.Bytes(), &props); err != nil {
		t.Fatalf("decode properties: %v", err)
	}
	if len(props) != 1 || props[0].Name != "Boardwalk" {
		t.Errorf("properties = %+v", props)
	}
}

func TestAdminOnly(t *testing.T) {
	s := testServer(t)
	called := false
	h := s.adminOnly(func(w http.ResponseWriter, r *http.Request) { called = true })

	// GET is rejected outright.
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/api/v1/force-phase", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d", rec.Code)
	}

	// Wrong token.
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/force-phase", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	h(rec, req)
	if rec.Code != http.StatusUnauthorized || called {
		t.Errorf("wrong token: status = %d, called = %v", rec.Code, called)
	}

	// Right token.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/force-phase", nil)
	req.Header.Set("Authorization", "Bearer sekrit")
	h(rec, req)
	if !called {
		t.Error("authorized request never reached the handler")
	}

	// No key configured disables the admin plane entirely.
	s.AdminKey = ""
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/force-phase", nil)
	req.Header.Set("Authorization", "Bearer sekrit")
	h(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("disabled admin plane: status = %d", rec.Code)
	}
}

func TestHandleForcePhase(t *testing.T) {
	s := testServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/force-phase", strings.NewReader(`{"phase":"boom"}`))
	s.handleForcePhase(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if s.Game.Phase != game.PhaseBoom {
		t.Errorf("phase = %v, want boom", s.Game.Phase)
	}
	// Full effect applied immediately.
	if s.Game.Properties[0].CurrentPrice != 400*1.30 {
		t.Errorf("price = %v, want 520", s.Game.Properties[0].CurrentPrice)
	}

	var out game.PhaseChange
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.Forced || out.NewPhase != game.PhaseBoom {
		t.Errorf("record = %+v", out)
	}

	recs, err := s.DB.RecentPhaseChanges(s.Game.ID, 10)
	if err != nil || len(recs) != 1 {
		t.Errorf("persisted records = %v, %v", recs, err)
	}
}

func TestHandleForcePhaseRejectsBadInput(t *testing.T) {
	s := testServer(t)

	rec := httptest.NewRecorder()
	s.handleForcePhase(rec, httptest.NewRequest(http.MethodPost, "/api/v1/force-phase", strings.NewReader(`{"phase":"bust"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown phase: status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	s.handleForcePhase(rec, httptest.NewRequest(http.MethodPost, "/api/v1/force-phase", strings.NewReader(`not json`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad body: status = %d", rec.Code)
	}
}

func TestHandleShock(t *testing.T) {
	s := testServer(t)

	rec := httptest.NewRecorder()
	s.handleShock(rec, httptest.NewRequest(http.MethodPost, "/api/v1/shock", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var out game.PhaseChange
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.Forced {
		t.Error("shock record not marked forced")
	}
}

func TestLimitParam(t *testing.T) {
	tests := []struct {
		url  string
		want int
	}{
		{"/x", 20},
		{"/x?limit=5", 5},
		{"/x?limit=0", 20},
		{"/x?limit=9999", 20},
		{"/x?limit=abc", 20},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.url, nil)
		if got := limitParam(req, 20); got != tt.want {
			t.Errorf("limitParam(%q) = %d, want %d", tt.url, got, tt.want)
		}
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("request %d denied inside the window", i)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Error("fourth request allowed past the limit")
	}
	// Other clients are tracked independently.
	if !rl.Allow("5.6.7.8") {
		t.Error("separate client denied")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	h := RateLimitMiddleware(rl, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	req.RemoteAddr = "9.9.9.9:1234"

	rec := httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("first request: status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request: status = %d, want 429", rec.Code)
	}
}
