package bots

import (
	"fmt"
	"math"

	"github.com/Kgreeven-max/Monopoly1.0-sub001/internal/entropy"
	"github.com/Kgreeven-max/Monopoly1.0-sub001/internal/game"
)

// TradeOffer is a proposal from one player to another: cash and
// properties offered against cash and properties requested.
type TradeOffer struct {
	FromPlayerID         int64   `json:"from_player_id"`
	ToPlayerID           int64   `json:"to_player_id"`
	CashOffered          float64 `json:"cash_offered"`
	CashRequested        float64 `json:"cash_requested"`
	OfferedPropertyIDs   []int64 `json:"offered_property_ids"`
	RequestedPropertyIDs []int64 `json:"requested_property_ids"`
}

// ownershipPremium inflates the value of holdings the bot would give up.
const ownershipPremium = 1.2

// completionBonus scales the extra value of offered properties that
// would complete a monopoly for the responder.
const completionBonus = 0.5

// TradeDecision is the outcome of evaluating an incoming offer. When
// the offer is close but not good enough, Counter carries the extra
// cash the responder wants on top of the original terms.
type TradeDecision struct {
	Accept        bool    `json:"accept"`
	Counter       bool    `json:"counter"`
	CounterCash   float64 `json:"counter_cash,omitempty"`
	ValueGetting  float64 `json:"value_getting"`
	ValueGiving   float64 `json:"value_giving"`
	MonopolyBonus float64 `json:"monopoly_bonus"`
	Rationale     string  `json:"rationale"`
}

// Record converts the decision into the shared record shape.
func (d TradeDecision) Record(ctx *game.Context, playerID int64) game.Decision {
	return game.Decision{
		GameID:    ctx.ID,
		PlayerID:  playerID,
		Action:    "respond_to_trade",
		Period:    ctx.Period,
		Rationale: d.Rationale,
		Derived: map[string]float64{
			"accept":         boolToFloat(d.Accept),
			"counter_cash":   d.CounterCash,
			"value_getting":  d.ValueGetting,
			"value_giving":   d.ValueGiving,
			"monopoly_bonus": d.MonopolyBonus,
		},
	}
}

// DecideTradeOffer evaluates an incoming offer from the responder's
// side. Requested properties the responder does not own, or a cash
// request beyond its balance, reject immediately. Otherwise the bot
// weighs incoming value (with a bonus for monopoly completion) against
// outgoing value (with an ownership premium, doubled for properties
// whose loss breaks a completed monopoly), scaled by risk tolerance.
func DecideTradeOffer(profile Profile, ctx *game.Context, offer TradeOffer, rng entropy.Source) (TradeDecision, error) {
	responder, err := ctx.Player(offer.ToPlayerID)
	if err != nil {
		return TradeDecision{}, fmt.Errorf("responder %d: %w", offer.ToPlayerID, err)
	}

	requested := make([]*game.Property, 0, len(offer.RequestedPropertyIDs))
	for _, id := range offer.RequestedPropertyIDs {
		p, err := ctx.Property(id)
		if err != nil {
			return TradeDecision{}, fmt.Errorf("requested property %d: %w", id, err)
		}
		if !p.OwnedBy(responder.ID) {
			return TradeDecision{Rationale: "requested property not owned"}, nil
		}
		requested = append(requested, p)
	}
	if offer.CashRequested > responder.Cash {
		return TradeDecision{Rationale: "cannot cover requested cash"}, nil
	}

	offered := make([]*game.Property, 0, len(offer.OfferedPropertyIDs))
	for _, id := range offer.OfferedPropertyIDs {
		p, err := ctx.Property(id)
		if err != nil {
			return TradeDecision{}, fmt.Errorf("offered property %d: %w", id, err)
		}
		offered = append(offered, p)
	}

	givingAway := make(map[int64]bool, len(requested))
	for _, p := range requested {
		givingAway[p.ID] = true
	}

	valueGetting := offer.CashOffered
	for _, p := range offered {
		holdings := len(ownedInGroup(ctx, responder.ID, p.Group))
		valueGetting += Estimate(p, holdings, profile.ValueEstimationError, rng)
	}

	valueGiving := offer.CashRequested
	for _, p := range requested {
		holdings := len(ownedInGroup(ctx, responder.ID, p.Group))
		contribution := Estimate(p, holdings, profile.ValueEstimationError, rng) * ownershipPremium
		if ctx.OwnsGroup(responder.ID, p.Group) {
			contribution *= 2 // Losing this breaks a completed monopoly.
		}
		valueGiving += contribution
	}

	monopolyBonus := 0.0
	for _, p := range offered {
		if completesGroup(ctx, responder.ID, p, offered, givingAway) {
			holdings := len(ownedInGroup(ctx, responder.ID, p.Group))
			monopolyBonus += Estimate(p, holdings, profile.ValueEstimationError, rng) * completionBonus
		}
	}

	d := TradeDecision{
		ValueGetting:  valueGetting,
		ValueGiving:   valueGiving,
		MonopolyBonus: monopolyBonus,
	}

	riskFactor := 0.8 + profile.RiskTolerance*0.4
	if valueGiving <= 0 {
		d.Accept = true
		d.Rationale = "nothing to give up"
		return d, nil
	}

	ratio := (valueGetting + monopolyBonus) / valueGiving
	switch {
	case ratio >= 1/riskFactor:
		d.Accept = true
		d.Rationale = "favorable value exchange"
	case ratio >= 0.8:
		d.Counter = true
		d.CounterCash = math.Ceil(valueGiving/riskFactor - (valueGetting + monopolyBonus))
		d.Rationale = "close, countering for more cash"
	default:
		d.Rationale = "value exchange too lopsided"
	}
	return d, nil
}

// ownedInGroup returns the responder's current holdings in a group.
func ownedInGroup(ctx *game.Context, playerID int64, group string) []*game.Property {
	var owned []*game.Property
	for _, p := range ctx.Properties {
		if p.Group == group && p.OwnedBy(playerID) {
			owned = append(owned, p)
		}
	}
	return owned
}

// completesGroup reports whether accepting the offer leaves the
// responder holding every property in the offered property's group:
// each member must be kept, or arrive with the offer.
func completesGroup(ctx *game.Context, playerID int64, offered *game.Property, allOffered []*game.Property, givingAway map[int64]bool) bool {
	if !game.StandardGroup(offered.Group) {
		return false
	}
	incoming := make(map[int64]bool, len(allOffered))
	for _, p := range allOffered {
		incoming[p.ID] = true
	}
	for _, p := range ctx.Properties {
		if p.Group != offered.Group {
			continue
		}
		keeps := p.OwnedBy(playerID) && !givingAway[p.ID]
		if !keeps && !incoming[p.ID] {
			return false
		}
	}
	return true
}
