package game

import "github.com/google/uuid"

// Record shapes produced for the caller. Persistence, wire encoding, and
// real-time delivery belong to the collaborators that consume these.

// PhaseChange is emitted when the derived phase differs from the previous
// advance, and on admin overrides.
type PhaseChange struct {
	GameID                 uuid.UUID `json:"game_id"`
	PreviousPhase          Phase     `json:"previous_phase"`
	NewPhase               Phase     `json:"new_phase"`
	Period                 int       `json:"period"`
	AggregateCash          float64   `json:"aggregate_cash"`
	AggregatePropertyValue float64   `json:"aggregate_property_value"`
	Forced                 bool      `json:"forced,omitempty"`
}

// PropertyDelta reports one property's price and rent after an adjustment.
type PropertyDelta struct {
	PropertyID int64   `json:"property_id"`
	OldPrice   float64 `json:"old_price"`
	NewPrice   float64 `json:"new_price"`
	OldRent    float64 `json:"old_rent"`
	NewRent    float64 `json:"new_rent"`
}

// CashDelta reports one player's balance after an adjustment.
type CashDelta struct {
	PlayerID int64   `json:"player_id"`
	OldCash  float64 `json:"old_cash"`
	NewCash  float64 `json:"new_cash"`
}

// Decision is a bot decision record for logging and notification.
// Derived carries the intermediate values behind the choice so replays
// and tests can see why a bot acted.
type Decision struct {
	GameID    uuid.UUID          `json:"game_id"`
	PlayerID  int64              `json:"player_id"`
	Action    string             `json:"action"`
	Period    int                `json:"period"`
	Rationale string             `json:"rationale"`
	Derived   map[string]float64 `json:"derived,omitempty"`
}
