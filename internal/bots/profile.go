// Package bots implements the autonomous player decision engine: pure
// heuristic functions over game state, parameterized by a per-agent
// profile and an injected randomness source. Every function returns the
// decision together with its rationale and derived values so callers can
// log, persist, and test exactly why a bot acted.
package bots

// Difficulty selects a bot's parameter profile.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
)

// Profile holds the immutable decision parameters for one agent's
// lifetime. All three scalars live in [0, 1].
type Profile struct {
	Difficulty           Difficulty `json:"difficulty"`
	RiskTolerance        float64    `json:"risk_tolerance"`
	DecisionAccuracy     float64    `json:"decision_accuracy"`
	ValueEstimationError float64    `json:"value_estimation_error"`
	PlanningHorizon      int        `json:"planning_horizon"`
}

// profiles maps each difficulty to its parameter set. Harder bots take
// more risk, misjudge less, and look further ahead.
var profiles = map[Difficulty]Profile{
	DifficultyEasy: {
		Difficulty:           DifficultyEasy,
		RiskTolerance:        0.35,
		DecisionAccuracy:     0.60,
		ValueEstimationError: 0.35,
		PlanningHorizon:      1,
	},
	DifficultyNormal: {
		Difficulty:           DifficultyNormal,
		RiskTolerance:        0.50,
		DecisionAccuracy:     0.80,
		ValueEstimationError: 0.20,
		PlanningHorizon:      2,
	},
	DifficultyHard: {
		Difficulty:           DifficultyHard,
		RiskTolerance:        0.70,
		DecisionAccuracy:     0.95,
		ValueEstimationError: 0.08,
		PlanningHorizon:      3,
	},
}

// ProfileFor returns the parameter profile for a difficulty, defaulting
// to normal for unknown values.
func ProfileFor(d Difficulty) Profile {
	if p, ok := profiles[d]; ok {
		return p
	}
	return profiles[DifficultyNormal]
}

// repayNoiseOverride is the chance decideRepayLoan replaces its computed
// probability with a uniform draw, by difficulty.
var repayNoiseOverride = map[Difficulty]float64{
	DifficultyEasy:   0.30,
	DifficultyNormal: 0.15,
	DifficultyHard:   0.05,
}
