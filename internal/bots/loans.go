package bots

import (
	"math"

	"github.com/Kgreeven-max/Monopoly1.0-sub001/internal/bank"
	"github.com/Kgreeven-max/Monopoly1.0-sub001/internal/entropy"
	"github.com/Kgreeven-max/Monopoly1.0-sub001/internal/game"
)

// LoanDecision is the outcome of a borrowing evaluation.
type LoanDecision struct {
	Take      bool    `json:"take"`
	Amount    float64 `json:"amount"`
	MaxLoan   float64 `json:"max_loan"`
	Rationale string  `json:"rationale"`
}

// Record converts the decision into the shared record shape.
func (d LoanDecision) Record(ctx *game.Context, playerID int64) game.Decision {
	return game.Decision{
		GameID:    ctx.ID,
		PlayerID:  playerID,
		Action:    "take_loan",
		Period:    ctx.Period,
		Rationale: d.Rationale,
		Derived: map[string]float64{
			"take":     boolToFloat(d.Take),
			"amount":   d.Amount,
			"max_loan": d.MaxLoan,
		},
	}
}

// opportunisticFraction sizes a loan taken without an immediate need.
const opportunisticFraction = 0.5

// DecideTakeLoan evaluates borrowing. A bot with no properties never
// borrows. With a concrete cash need it covers the shortfall with a 50%
// cushion; otherwise it occasionally borrows opportunistically when
// cash-poor but asset-rich, gated by risk tolerance.
func DecideTakeLoan(profile Profile, cashNeeded, cash float64, ownedProperties []*game.Property, rng entropy.Source) LoanDecision {
	if len(ownedProperties) == 0 {
		return LoanDecision{Rationale: "no properties to secure loan"}
	}

	propertyValue := 0.0
	for _, p := range ownedProperties {
		propertyValue += p.CurrentPrice
	}
	maxLoan := (cash + propertyValue) * 0.8

	d := LoanDecision{MaxLoan: maxLoan}

	if cashNeeded > 0 {
		if cash >= cashNeeded {
			d.Rationale = "enough cash on hand"
			return d
		}
		shortfall := cashNeeded - cash
		d.Take = true
		d.Amount = math.Min(shortfall*1.5, maxLoan)
		d.Rationale = "covering a cash shortfall with a cushion"
	} else {
		switch {
		case cash < 200 && propertyValue > 500:
			if rng.Float64() < profile.RiskTolerance {
				d.Take = true
				d.Amount = maxLoan * opportunisticFraction
				d.Rationale = "cash-poor but asset-rich, borrowing against holdings"
			} else {
				d.Rationale = "low on cash but holding off"
			}
		case profile.RiskTolerance > 0.7 && len(ownedProperties) >= 3:
			if rng.Float64() < profile.RiskTolerance-0.5 {
				d.Take = true
				d.Amount = maxLoan * opportunisticFraction
				d.Rationale = "leveraging a large portfolio"
			} else {
				d.Rationale = "portfolio is large enough already"
			}
		default:
			d.Rationale = "no reason to borrow"
		}
	}

	// Difficulty shapes appetite: hard bots cap leverage, easy bots
	// sometimes max out.
	if d.Take {
		switch profile.Difficulty {
		case DifficultyHard:
			d.Amount = math.Min(d.Amount, maxLoan*0.7)
		case DifficultyEasy:
			if rng.Float64() < 0.3 {
				d.Amount = maxLoan * 0.9
			}
		}
	}

	// Accuracy noise can flip the call either way.
	if rng.Float64() < 1-profile.DecisionAccuracy {
		d.Take = !d.Take
		if d.Take {
			d.Amount = maxLoan * opportunisticFraction
			d.Rationale = "borrowing on a whim"
		} else {
			d.Amount = 0
			d.Rationale = "got cold feet about borrowing"
		}
	}

	if d.Take && d.Amount <= 0 {
		d.Take = false
		d.Rationale = "no borrowing capacity left"
	}
	return d
}

// RepayDecision is the outcome of a repayment evaluation.
type RepayDecision struct {
	Repay       bool    `json:"repay"`
	Amount      float64 `json:"amount"`
	Probability float64 `json:"probability"`
	Rationale   string  `json:"rationale"`
}

// Record converts the decision into the shared record shape.
func (d RepayDecision) Record(ctx *game.Context, playerID int64) game.Decision {
	return game.Decision{
		GameID:    ctx.ID,
		PlayerID:  playerID,
		Action:    "repay_loan",
		Period:    ctx.Period,
		Rationale: d.Rationale,
		Derived: map[string]float64{
			"repay":       boolToFloat(d.Repay),
			"amount":      d.Amount,
			"probability": d.Probability,
		},
	}
}

// DecideRepayLoan evaluates paying down an active loan this period. The
// repayment probability blends urgency (due date and rate), the economic
// phase, and how big the balance looks next to the bot's cash, with a
// difficulty-scaled chance of replacing it with pure noise.
func DecideRepayLoan(profile Profile, loan *bank.Instrument, phase game.Phase, cash float64, currentPeriod int, rng entropy.Source) RepayDecision {
	balance := loan.Balance

	// Urgency: proximity to the due date, or the carrying cost when the
	// rate (in percent) is steep. Both contribute at most 0.5.
	elapsed := float64(currentPeriod - loan.StartPeriod)
	progress := elapsed / float64(loan.TermPeriods)
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	dueProximity := progress * 0.5
	rateUrgency := math.Min(loan.Rate*100/20, 0.5)
	urgency := math.Max(dueProximity, rateUrgency)

	var economicFactor float64
	switch phase {
	case game.PhaseBoom:
		economicFactor = 0.3
	case game.PhaseGrowth, game.PhaseStable:
		economicFactor = 0.2
	case game.PhaseRecession:
		economicFactor = -0.1
	case game.PhaseDepression:
		economicFactor = -0.2
	}

	cashFactor := -0.3
	if cash > 0 {
		switch ratio := balance / cash; {
		case ratio < 0.3:
			cashFactor = 0.4
		case ratio < 0.5:
			cashFactor = 0.3
		case ratio < 0.7:
			cashFactor = 0.1
		}
	}

	probability := 0.5 + urgency + economicFactor + cashFactor
	if probability < 0.1 {
		probability = 0.1
	}
	if probability > 0.9 {
		probability = 0.9
	}

	// Difficulty-scaled noise: sometimes the bot ignores its own math.
	if rng.Float64() < repayNoiseOverride[profile.Difficulty] {
		probability = rng.Float64()
	}

	d := RepayDecision{Probability: probability}
	if rng.Float64() >= probability {
		d.Rationale = "letting the loan ride this period"
		return d
	}

	if cash >= 1.2*balance {
		d.Repay = true
		d.Amount = balance
		d.Rationale = "paying off in full"
		return d
	}

	minPay := math.Max(0.2*balance, 100)
	maxPay := math.Min(0.7*balance, 0.7*cash)
	if minPay > maxPay {
		d.Repay = false
		d.Rationale = "insufficient funds for meaningful payment"
		return d
	}

	d.Repay = true
	d.Amount = rng.Uniform(minPay, maxPay)
	d.Rationale = "making a partial payment"
	return d
}
