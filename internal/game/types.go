// Package game holds the shared data model for one game instance: players,
// properties, the economic phase, and the record shapes produced for
// persistence and notification. Engines operate on an explicit Context
// keyed by game id — there is no process-wide game state.
package game

import "errors"

// ErrNotFound reports a missing game, player, or property.
var ErrNotFound = errors.New("not found")

// CreditTier is a player's credit standing, set by the banking rules
// outside this core (bankruptcies, payment history).
type CreditTier uint8

const (
	CreditExcellent CreditTier = iota
	CreditGood
	CreditFair
	CreditPoor
)

// String returns the tier name.
func (t CreditTier) String() string {
	switch t {
	case CreditExcellent:
		return "excellent"
	case CreditGood:
		return "good"
	case CreditFair:
		return "fair"
	case CreditPoor:
		return "poor"
	default:
		return "unknown"
	}
}

// Player is one participant, human or bot.
type Player struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Cash            float64    `json:"cash"`
	CreditTier      CreditTier `json:"credit_tier"`
	BankruptcyCount int        `json:"bankruptcy_count"`
	IsBot           bool       `json:"is_bot"`
	Bankrupt        bool       `json:"bankrupt"`
}

// Property is one board space that can be owned, developed, and revalued
// by the economic cycle. OwnerID is nil while the bank holds it.
type Property struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	BasePrice        float64 `json:"base_price"`
	CurrentPrice     float64 `json:"current_price"`
	BaseRent         float64 `json:"base_rent"`
	CurrentRent      float64 `json:"current_rent"`
	DevelopmentLevel int     `json:"development_level"`
	OwnerID          *int64  `json:"owner_id,omitempty"`
	Group            string  `json:"group"`
}

// Monopoly group names that are not standard color groups. Railroads and
// utilities never form rent-doubling monopolies, so bots value them
// without the monopoly-potential bonus.
const (
	GroupRailroad = "railroad"
	GroupUtility  = "utility"
)

// StandardGroup reports whether a group can form a color monopoly.
func StandardGroup(group string) bool {
	return group != GroupRailroad && group != GroupUtility
}

// OwnedBy reports whether the property is owned by the given player.
func (p *Property) OwnedBy(playerID int64) bool {
	return p.OwnerID != nil && *p.OwnerID == playerID
}
