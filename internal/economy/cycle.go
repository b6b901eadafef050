package economy

import (
	"log/slog"

	"github.com/Kgreeven-max/Monopoly1.0-sub001/internal/game"
)

// DefaultStep is the per-period cycle movement; a full swing from trough
// to peak takes 100 periods.
const DefaultStep = 0.01

// ConvergenceFactor is the fraction of the gap to the phase target
// closed on each advance. Property values drift, never jump.
const ConvergenceFactor = 0.1

// Engine advances the economic cycle for one game per call. It holds no
// game state itself; everything lives on the game.Context.
type Engine struct {
	log *slog.Logger
}

// NewEngine creates a cycle engine.
func NewEngine(log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{log: log}
}

// Advance moves the cycle one step, bouncing off the [0, 1] boundaries,
// re-derives the phase, and drifts property values toward the phase
// target. Returns a phase-change record only when the phase actually
// changed; nil otherwise.
func (e *Engine) Advance(ctx *game.Context) *game.PhaseChange {
	pos := ctx.CyclePosition + ctx.CycleDirection
	dir := ctx.CycleDirection
	if pos >= 1.0 {
		pos = 1.0
		dir = -abs(dir)
	} else if pos <= 0.0 {
		pos = 0.0
		dir = abs(dir)
	}

	previous := ctx.Phase
	phase := PhaseForPosition(pos)

	ctx.CyclePosition = pos
	ctx.CycleDirection = dir
	ctx.Phase = phase

	e.driftPropertyValues(ctx)

	if phase == previous {
		return nil
	}

	record := &game.PhaseChange{
		GameID:                 ctx.ID,
		PreviousPhase:          previous,
		NewPhase:               phase,
		Period:                 ctx.Period,
		AggregateCash:          ctx.AggregateCash(),
		AggregatePropertyValue: ctx.AggregatePropertyValue(),
	}
	e.log.Info("phase change",
		"game", ctx.ID,
		"period", ctx.Period,
		"from", previous.String(),
		"to", phase.String(),
		"position", pos,
	)
	return record
}

// driftPropertyValues nudges every property toward the phase target.
// The effective multiplier closes ConvergenceFactor of the gap per call,
// and prices stay within [base, 3×base].
func (e *Engine) driftPropertyValues(ctx *game.Context) []game.PropertyDelta {
	target := Def(ctx.Phase).TargetPropertyMultiplier
	effective := 1 + (target-1)*ConvergenceFactor

	deltas := make([]game.PropertyDelta, 0, len(ctx.Properties))
	for _, p := range ctx.Properties {
		old := p.CurrentPrice
		p.CurrentPrice = clampPrice(p.CurrentPrice*effective, p.BasePrice)
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

// ForcePhase is the admin override: it snaps the cycle to the target
// phase's canonical midpoint and applies the full property-value effect
// immediately, bypassing gradual convergence. Always emits a record.
func (e *Engine) ForcePhase(ctx *game.Context, target game.Phase) *game.PhaseChange {
	previous := ctx.Phase

	ctx.CyclePosition = PhaseMidpoint(target)
	ctx.Phase = target

	mult := Def(target).TargetPropertyMultiplier
	for _, p := range ctx.Properties {
		p.CurrentPrice = clampPrice(p.BasePrice*mult, p.BasePrice)
	}

	e.log.Info("phase forced",
		"game", ctx.ID,
		"period", ctx.Period,
		"from", previous.String(),
		"to", target.String(),
	)
	return &game.PhaseChange{
		GameID:                 ctx.ID,
		PreviousPhase:          previous,
		NewPhase:               target,
		Period:                 ctx.Period,
		AggregateCash:          ctx.AggregateCash(),
		AggregatePropertyValue: ctx.AggregatePropertyValue(),
		Forced:                 true,
	}
}

// clampPrice bounds a price to [base, 3×base].
func clampPrice(price, base float64) float64 {
	if price < base {
		return base
	}
	if price > 3*base {
		return 3 * base
	}
	return price
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
