// Package persistence provides SQLite-based storage for per-game
// economic state: cycle position and phase, players, properties,
// instruments, and the phase-change and bot-decision records the
// engines produce.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/Kgreeven-max/Monopoly1.0-sub001/internal/bank"
	"github.com/Kgreeven-max/Monopoly1.0-sub001/internal/game"
)

// DB wraps a SQLite connection for game state persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS games (
		id TEXT PRIMARY KEY,
		period INTEGER NOT NULL,
		cycle_position REAL NOT NULL,
		cycle_direction REAL NOT NULL,
		phase TEXT NOT NULL,
		players_json TEXT NOT NULL,
		properties_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS instruments (
		id TEXT PRIMARY KEY,
		game_id TEXT NOT NULL,
		owner_id INTEGER NOT NULL,
		type TEXT NOT NULL,
		principal REAL NOT NULL,
		rate REAL NOT NULL,
		original_rate REAL NOT NULL,
		term_periods INTEGER NOT NULL,
		start_period INTEGER NOT NULL,
		balance REAL NOT NULL,
		collateral_id INTEGER,
		status TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS phase_changes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		game_id TEXT NOT NULL,
		previous_phase TEXT NOT NULL,
		new_phase TEXT NOT NULL,
		period INTEGER NOT NULL,
		aggregate_cash REAL NOT NULL,
		aggregate_property_value REAL NOT NULL,
		forced INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS decisions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		game_id TEXT NOT NULL,
		player_id INTEGER NOT NULL,
		action TEXT NOT NULL,
		period INTEGER NOT NULL,
		rationale TEXT NOT NULL,
		derived_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_instruments_game ON instruments(game_id);
	CREATE INDEX IF NOT EXISTS idx_phase_changes_game ON phase_changes(game_id, period);
	CREATE INDEX IF NOT EXISTS idx_decisions_game ON decisions(game_id, period);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveGame writes the full economic state of one game (full replace).
func (db *DB) SaveGame(ctx *game.Context) error {
	playersJSON, err := json.Marshal(ctx.Players)
	if err != nil {
		return fmt.Errorf("marshal players: %w", err)
	}
	propertiesJSON, err := json.Marshal(ctx.Properties)
	if err != nil {
		return fmt.Errorf("marshal properties: %w", err)
	}

	_, err = db.conn.Exec(`INSERT OR REPLACE INTO games
		(id, period, cycle_position, cycle_direction, phase, players_json, properties_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ctx.ID.String(), ctx.Period, ctx.CyclePosition, ctx.CycleDirection,
		ctx.Phase.String(), string(playersJSON), string(propertiesJSON),
	)
	return err
}

// LoadGame restores a game's economic state. Returns game.ErrNotFound
// when the game has never been saved.
func (db *DB) LoadGame(id uuid.UUID) (*game.Context, error) {
	var row struct {
		Period         int     `db:"period"`
		CyclePosition  float64 `db:"cycle_position"`
		CycleDirection float64 `db:"cycle_direction"`
		Phase          string  `db:"phase"`
		PlayersJSON    string  `db:"players_json"`
		PropertiesJSON string  `db:"properties_json"`
	}
	err := db.conn.Get(&row, `SELECT period, cycle_position, cycle_direction, phase,
		players_json, properties_json FROM games WHERE id = ?`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, game.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	// Malformed persisted state falls back to defaults rather than
	// aborting the load.
	phase, err := game.ParsePhase(row.Phase)
	if err != nil {
		slog.Warn("persisted phase unparseable, defaulting to stable", "game", id, "phase", row.Phase)
		phase = game.PhaseStable
	}

	ctx := &game.Context{
		ID:             id,
		Period:         row.Period,
		CyclePosition:  row.CyclePosition,
		CycleDirection: row.CycleDirection,
		Phase:          phase,
	}
	if err := json.Unmarshal([]byte(row.PlayersJSON), &ctx.Players); err != nil {
		return nil, fmt.Errorf("unmarshal players: %w", err)
	}
	if err := json.Unmarshal([]byte(row.PropertiesJSON), &ctx.Properties); err != nil {
		return nil, fmt.Errorf("unmarshal properties: %w", err)
	}
	return ctx, nil
}

// SaveInstruments writes a game's full instrument set (full replace,
// settled instruments included — they are part of the audit trail).
func (db *DB) SaveInstruments(gameID uuid.UUID, ledger *bank.Ledger) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM instruments WHERE game_id = ?", gameID.String()); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO instruments
		(id, game_id, owner_id, type, principal, rate, original_rate,
		 term_periods, start_period, balance, collateral_id, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, inst := range ledger.Instruments() {
		_, err := stmt.Exec(
			inst.ID.String(), gameID.String(), inst.OwnerID, inst.Type.String(),
			inst.Principal, inst.Rate, inst.OriginalRate,
			inst.TermPeriods, inst.StartPeriod, inst.Balance,
			inst.CollateralID, inst.Status.String(),
		)
		if err != nil {
			return fmt.Errorf("insert instrument %s: %w", inst.ID, err)
		}
	}
	return tx.Commit()
}

// LoadInstruments restores a game's ledger, settled instruments included.
func (db *DB) LoadInstruments(gameID uuid.UUID) (*bank.Ledger, error) {
	rows, err := db.conn.Query(`SELECT id, owner_id, type, principal, rate, original_rate,
		term_periods, start_period, balance, collateral_id, status
		FROM instruments WHERE game_id = ?`, gameID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var instruments []*bank.Instrument
	for rows.Next() {
		inst := &bank.Instrument{}
		var id, typ, status string
		var collateral sql.NullInt64
		if err := rows.Scan(&id, &inst.OwnerID, &typ, &inst.Principal, &inst.Rate,
			&inst.OriginalRate, &inst.TermPeriods, &inst.StartPeriod, &inst.Balance,
			&collateral, &status); err != nil {
			return nil, err
		}
		inst.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("instrument id %q: %w", id, err)
		}
		inst.Type, err = bank.ParseInstrumentType(typ)
		if err != nil {
			return nil, err
		}
		inst.Status, err = bank.ParseStatus(status)
		if err != nil {
			return nil, err
		}
		if collateral.Valid {
			v := collateral.Int64
			inst.CollateralID = &v
		}
		instruments = append(instruments, inst)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ledger := bank.NewLedger()
	ledger.Restore(instruments)
	return ledger, nil
}

// SavePhaseChange appends one phase-change record.
func (db *DB) SavePhaseChange(rec *game.PhaseChange) error {
	forced := 0
	if rec.Forced {
		forced = 1
	}
	_, err := db.conn.Exec(`INSERT INTO phase_changes
		(game_id, previous_phase, new_phase, period, aggregate_cash, aggregate_property_value, forced)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.GameID.String(), rec.PreviousPhase.String(), rec.NewPhase.String(),
		rec.Period, rec.AggregateCash, rec.AggregatePropertyValue, forced,
	)
	return err
}

// SaveDecisions appends bot decision records.
func (db *DB) SaveDecisions(decisions []game.Decision) error {
	if len(decisions) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, d := range decisions {
		derivedJSON, _ := json.Marshal(d.Derived)
		_, err := tx.Exec(`INSERT INTO decisions
			(game_id, player_id, action, period, rationale, derived_json)
			VALUES (?, ?, ?, ?, ?, ?)`,
			d.GameID.String(), d.PlayerID, d.Action, d.Period, d.Rationale, string(derivedJSON),
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// RecentPhaseChanges returns the most recent phase changes for a game.
func (db *DB) RecentPhaseChanges(gameID uuid.UUID, limit int) ([]game.PhaseChange, error) {
	rows, err := db.conn.Query(`SELECT previous_phase, new_phase, period,
		aggregate_cash, aggregate_property_value, forced
		FROM phase_changes WHERE game_id = ? ORDER BY id DESC LIMIT ?`,
		gameID.String(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []game.PhaseChange
	for rows.Next() {
		rec := game.PhaseChange{GameID: gameID}
		var prev, next string
		var forced int
		if err := rows.Scan(&prev, &next, &rec.Period, &rec.AggregateCash, &rec.AggregatePropertyValue, &forced); err != nil {
			return nil, err
		}
		rec.PreviousPhase, _ = game.ParsePhase(prev)
		rec.NewPhase, _ = game.ParsePhase(next)
		rec.Forced = forced != 0
		out = append(out, rec)
	}
	return out, rows.Err()
}

// RecentDecisions returns the most recent bot decisions for a game.
func (db *DB) RecentDecisions(gameID uuid.UUID, limit int) ([]game.Decision, error) {
	rows, err := db.conn.Query(`SELECT player_id, action, period, rationale, derived_json
		FROM decisions WHERE game_id = ? ORDER BY id DESC LIMIT ?`,
		gameID.String(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []game.Decision
	for rows.Next() {
		d := game.Decision{GameID: gameID}
		var derivedJSON string
		if err := rows.Scan(&d.PlayerID, &d.Action, &d.Period, &d.Rationale, &derivedJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(derivedJSON), &d.Derived); err != nil {
			d.Derived = nil
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// SaveAll persists one game's full state and instrument set.
func (db *DB) SaveAll(ctx *game.Context, ledger *bank.Ledger) error {
	slog.Info("saving game state", "game", ctx.ID, "period", ctx.Period)
	if err := db.SaveGame(ctx); err != nil {
		return fmt.Errorf("save game: %w", err)
	}
	if err := db.SaveInstruments(ctx.ID, ledger); err != nil {
		return fmt.Errorf("save instruments: %w", err)
	}
	return nil
}
