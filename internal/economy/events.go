package economy

import (
	"sort"

	"github.com/Kgreeven-max/Monopoly1.0-sub001/internal/bank"
	"github.com/Kgreeven-max/Monopoly1.0-sub001/internal/entropy"
	"github.com/Kgreeven-max/Monopoly1.0-sub001/internal/game"
)

// Event is one probabilistic economic event. Multipliers default to 1
// (no effect); rate modifiers are additive deltas applied to active
// instruments of the matching type. HighValuePropertyModifier, when
// nonzero, is the combined multiplier the top price quartile ends up at.
type Event struct {
	Name                      string  `json:"name"`
	Description               string  `json:"description"`
	Weight                    float64 `json:"weight"`
	PropertyValueModifier     float64 `json:"property_value_modifier"`
	HighValuePropertyModifier float64 `json:"high_value_property_modifier,omitempty"`
	LoanInterestModifier      float64 `json:"loan_interest_modifier,omitempty"`
	CDInterestModifier        float64 `json:"cd_interest_modifier,omitempty"`
	CashModifier              float64 `json:"cash_modifier"`
}

// eventPools maps each phase to its candidate events. Weights are
// relative within a pool and need not sum to 1.
var eventPools = map[game.Phase][]Event{
	game.PhaseDepression: {
		{
			Name:                  "bank_crisis",
			Description:           "A bank crisis freezes credit; lenders raise rates to cover losses",
			Weight:                3,
			PropertyValueModifier: 0.90,
			LoanInterestModifier:  0.02,
			CashModifier:          1.0,
		},
		{
			Name:                      "fire_sale",
			Description:               "Distressed owners dump premium holdings at fire-sale prices",
			Weight:                    2,
			PropertyValueModifier:     0.95,
			HighValuePropertyModifier: 0.85,
			CashModifier:              1.0,
		},
		{
			Name:                  "public_works",
			Description:           "An emergency public works program puts cash in every pocket",
			Weight:                1,
			PropertyValueModifier: 1.0,
			CashModifier:          1.05,
		},
	},
	game.PhaseRecession: {
		{
			Name:                  "layoffs",
			Description:           "Widespread layoffs thin wallets across the board",
			Weight:                3,
			PropertyValueModifier: 0.95,
			CashModifier:          0.95,
		},
		{
			Name:                  "rate_cut",
			Description:           "The central bank cuts rates to restart lending",
			Weight:                2,
			PropertyValueModifier: 1.0,
			LoanInterestModifier:  -0.01,
			CDInterestModifier:    -0.005,
			CashModifier:          1.0,
		},
	},
	game.PhaseStable: {
		{
			Name:                  "quiet_quarter",
			Description:           "A quiet quarter; prices barely move",
			Weight:                4,
			PropertyValueModifier: 1.0,
			CashModifier:          1.0,
		},
		{
			Name:                  "tax_rebate",
			Description:           "A modest tax rebate reaches every player",
			Weight:                1,
			PropertyValueModifier: 1.0,
			CashModifier:          1.03,
		},
		{
			Name:                      "zoning_reform",
			Description:               "Zoning reform lifts values in prime districts",
			Weight:                    1,
			PropertyValueModifier:     1.02,
			HighValuePropertyModifier: 1.08,
			CashModifier:              1.0,
		},
	},
	game.PhaseGrowth: {
		{
			Name:                  "construction_boom",
			Description:           "Construction crews work overtime; property values climb",
			Weight:                3,
			PropertyValueModifier: 1.08,
			CashModifier:          1.0,
		},
		{
			Name:                  "wage_growth",
			Description:           "Strong hiring pushes wages up",
			Weight:                2,
			PropertyValueModifier: 1.02,
			CashModifier:          1.08,
		},
		{
			Name:                  "rate_hike",
			Description:           "The central bank nudges rates up to cool the expansion",
			Weight:                1,
			PropertyValueModifier: 1.0,
			LoanInterestModifier:  0.005,
			CDInterestModifier:    0.005,
			CashModifier:          1.0,
		},
	},
	game.PhaseBoom: {
		{
			Name:                      "property_bubble",
			Description:               "Speculators pile in; premium districts go vertical",
			Weight:                    3,
			PropertyValueModifier:     1.10,
			HighValuePropertyModifier: 1.25,
			CashModifier:              1.0,
		},
		{
			Name:                  "windfall",
			Description:           "Dividends and bonuses shower cash on every player",
			Weight:                2,
			PropertyValueModifier: 1.0,
			CashModifier:          1.15,
		},
		{
			Name:                  "tightening",
			Description:           "Frothy markets force an aggressive rate hike",
			Weight:                1,
			PropertyValueModifier: 1.0,
			LoanInterestModifier:  0.015,
			CDInterestModifier:    0.01,
			CashModifier:          1.0,
		},
	},
}

// Pool returns the event candidates for a phase.
func Pool(phase game.Phase) []Event {
	return eventPools[phase]
}

// SelectEvent draws one event from the phase's pool, weighted by the
// event weights: draw uniform in [0, Σweights) and walk the cumulative
// sum. Returns nil for an empty pool.
func (e *Engine) SelectEvent(phase game.Phase, rng entropy.Source) *Event {
	pool := eventPools[phase]
	if len(pool) == 0 {
		return nil
	}

	total := 0.0
	for _, ev := range pool {
		total += ev.Weight
	}

	draw := rng.Uniform(0, total)
	cumulative := 0.0
	for i := range pool {
		cumulative += pool[i].Weight
		if draw < cumulative {
			return &pool[i]
		}
	}
	return &pool[len(pool)-1]
}

// ApplyEvent applies all of an event's effects to one game: property
// values, instrument rates, and player cash. The three sub-steps are
// exposed separately below; the caller owns the transaction boundary
// that makes the sequence atomic.
func (e *Engine) ApplyEvent(ev *Event, ctx *game.Context, ledger *bank.Ledger) ([]game.PropertyDelta, []game.CashDelta) {
	propertyDeltas := e.ApplyEventToProperties(ev, ctx)
	e.ApplyEventToInstruments(ev, ledger)
	cashDeltas := e.ApplyEventToCash(ev, ctx)

	e.log.Info("economic event applied",
		"game", ctx.ID,
		"period", ctx.Period,
		"event", ev.Name,
		"properties_adjusted", len(propertyDeltas),
		"players_adjusted", len(cashDeltas),
	)
	return propertyDeltas, cashDeltas
}

// ApplyEventToProperties multiplies every property's price by the event
// modifier, then lifts the top price quartile the rest of the way to the
// high-value modifier.
func (e *Engine) ApplyEventToProperties(ev *Event, ctx *game.Context) []game.PropertyDelta {
	if ev.PropertyValueModifier == 1.0 && ev.HighValuePropertyModifier == 0 {
		return nil
	}

	highValue := topQuartileByPrice(ctx.Properties)

	var deltas []game.PropertyDelta
	for _, p := range ctx.Properties {
		old := p.CurrentPrice
		p.CurrentPrice *= ev.PropertyValueModifier
		if ev.HighValuePropertyModifier != 0 && highValue[p.ID] {
			// The base modifier is already applied, so the extra
			// factor is the quotient of the two.
			p.CurrentPrice *= ev.HighValuePropertyModifier / ev.PropertyValueModifier
		}
		if p.CurrentPrice != old {
			deltas = append(deltas, game.PropertyDelta{
				PropertyID: p.ID,
				OldPrice:   old,
				NewPrice:   p.CurrentPrice,
				OldRent:    p.CurrentRent,
				NewRent:    p.CurrentRent,
			})
		}
	}
	return deltas
}

// ApplyEventToInstruments shifts rates on active instruments of the
// matching type via the ledger.
func (e *Engine) ApplyEventToInstruments(ev *Event, ledger *bank.Ledger) {
	if ev.LoanInterestModifier != 0 {
		for _, inst := range ledger.ActiveByType(bank.TypeLoan) {
			ledger.AdjustRate(inst, ev.LoanInterestModifier)
		}
	}
	if ev.CDInterestModifier != 0 {
		for _, inst := range ledger.ActiveByType(bank.TypeCD) {
			ledger.AdjustRate(inst, ev.CDInterestModifier)
		}
	}
}

// ApplyEventToCash scales every active player's balance.
func (e *Engine) ApplyEventToCash(ev *Event, ctx *game.Context) []game.CashDelta {
	if ev.CashModifier == 1.0 {
		return nil
	}
	var deltas []game.CashDelta
	for _, p := range ctx.Players {
		if p.Bankrupt {
			continue
		}
		old := p.Cash
		p.Cash *= ev.CashModifier
		deltas = append(deltas, game.CashDelta{PlayerID: p.ID, OldCash: old, NewCash: p.Cash})
	}
	return deltas
}

// topQuartileByPrice returns the ids of the most expensive quarter of
// the properties, at least one when any exist.
func topQuartileByPrice(properties []*game.Property) map[int64]bool {
	if len(properties) == 0 {
		return nil
	}
	sorted := make([]*game.Property, len(properties))
	copy(sorted, properties)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CurrentPrice > sorted[j].CurrentPrice
	})

	count := len(sorted) / 4
	if count < 1 {
		count = 1
	}
	top := make(map[int64]bool, count)
	for _, p := range sorted[:count] {
		top[p.ID] = true
	}
	return top
}
