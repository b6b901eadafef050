package game

import (
	"errors"
	"fmt"
	"strings"
)

// Phase is a discretized point on the cyclical macro-economy. The canonical
// set is the union of the two vocabularies the banking and cycle rules use:
// depression/recession/stable from one, growth/boom from the other.
type Phase uint8

const (
	PhaseDepression Phase = iota
	PhaseRecession
	PhaseStable
	PhaseGrowth
	PhaseBoom
)

// NumPhases is the size of the canonical phase set.
const NumPhases = 5

// ErrUnknownPhase reports a phase name outside the canonical set.
var ErrUnknownPhase = errors.New("unknown phase")

// String returns the canonical phase name.
func (p Phase) String() string {
	switch p {
	case PhaseDepression:
		return "depression"
	case PhaseRecession:
		return "recession"
	case PhaseStable:
		return "stable"
	case PhaseGrowth:
		return "growth"
	case PhaseBoom:
		return "boom"
	default:
		return "unknown"
	}
}

// ParsePhase maps a phase name to its Phase. It accepts "normal" as an
// alias for stable, the term one legacy vocabulary used.
func ParsePhase(s string) (Phase, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "depression":
		return PhaseDepression, nil
	case "recession":
		return PhaseRecession, nil
	case "stable", "normal":
		return PhaseStable, nil
	case "growth":
		return PhaseGrowth, nil
	case "boom":
		return PhaseBoom, nil
	default:
		return PhaseStable, fmt.Errorf("%w: %q", ErrUnknownPhase, s)
	}
}
