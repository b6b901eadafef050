// Package economy implements the cyclical macro-economy: a bounded
// oscillating cycle position, the discrete phase derived from it,
// probabilistic economic events, and gradual property-value convergence.
package economy

import (
	"github.com/Kgreeven-max/Monopoly1.0-sub001/internal/entropy"
	"github.com/Kgreeven-max/Monopoly1.0-sub001/internal/game"
)

// PhaseDef is the closed, fixed field set one phase carries. Rate
// adjustments are additive deltas; multipliers apply to base values.
type PhaseDef struct {
	// TargetPropertyMultiplier is the price level (relative to base
	// price) the cycle drifts property values toward.
	TargetPropertyMultiplier float64
	// LoanRateAdjust and CDRateAdjust shift freshly quoted rates.
	LoanRateAdjust float64
	CDRateAdjust   float64
	// CashModifier scales salary-style cash awards in this phase.
	CashModifier float64
	// Probability weights the phase in random-shock selection.
	Probability float64
	// Tag is the display label for clients.
	Tag string
}

// phaseDefs is the canonical phase table. The cycle spends most of its
// time mid-band, so stable carries the largest selection weight.
var phaseDefs = map[game.Phase]PhaseDef{
	game.PhaseDepression: {
		TargetPropertyMultiplier: 0.70,
		LoanRateAdjust:           -0.01,
		CDRateAdjust:             0.01,
		CashModifier:             0.80,
		Probability:              0.10,
		Tag:                      "Depression",
	},
	game.PhaseRecession: {
		TargetPropertyMultiplier: 0.85,
		LoanRateAdjust:           -0.005,
		CDRateAdjust:             0.005,
		CashModifier:             0.90,
		Probability:              0.20,
		Tag:                      "Recession",
	},
	game.PhaseStable: {
		TargetPropertyMultiplier: 1.00,
		LoanRateAdjust:           0,
		CDRateAdjust:             0,
		CashModifier:             1.00,
		Probability:              0.35,
		Tag:                      "Stable",
	},
	game.PhaseGrowth: {
		TargetPropertyMultiplier: 1.15,
		LoanRateAdjust:           0.005,
		CDRateAdjust:             -0.005,
		CashModifier:             1.10,
		Probability:              0.25,
		Tag:                      "Growth",
	},
	game.PhaseBoom: {
		TargetPropertyMultiplier: 1.30,
		LoanRateAdjust:           0.01,
		CDRateAdjust:             -0.01,
		CashModifier:             1.20,
		Probability:              0.10,
		Tag:                      "Boom",
	},
}

// Def returns the definition for a phase.
func Def(p game.Phase) PhaseDef {
	return phaseDefs[p]
}

// Phase thresholds over cycle position. Position below a threshold maps
// to the phase left of it; five equal bands across [0, 1].
var phaseThresholds = [game.NumPhases - 1]float64{0.2, 0.4, 0.6, 0.8}

// PhaseForPosition derives the phase from a cycle position.
func PhaseForPosition(pos float64) game.Phase {
	for i, threshold := range phaseThresholds {
		if pos < threshold {
			return game.Phase(i)
		}
	}
	return game.PhaseBoom
}

// PhaseMidpoint returns the canonical cycle position at the center of
// the phase's band, used by admin overrides.
func PhaseMidpoint(p game.Phase) float64 {
	return 0.1 + 0.2*float64(p)
}

// RandomPhase draws a phase weighted by the phase selection
// probabilities, used by the admin shock override.
func RandomPhase(rng entropy.Source) game.Phase {
	total := 0.0
	for p := game.Phase(0); p < game.NumPhases; p++ {
		total += phaseDefs[p].Probability
	}
	draw := rng.Uniform(0, total)
	cumulative := 0.0
	for p := game.Phase(0); p < game.NumPhases; p++ {
		cumulative += phaseDefs[p].Probability
		if draw < cumulative {
			return p
		}
	}
	return game.PhaseStable
}
