// Package bank implements the financial instrument ledger and the pure
// rate-derivation rules for loans, certificates of deposit, and
// property-collateralized credit lines.
package bank

import "github.com/Kgreeven-max/Monopoly1.0-sub001/internal/game"

// Base rates per instrument family. Loan bases vary by credit tier;
// CD and HELOC rates start from a single base and shift by term or
// development level.
const (
	cdBaseRate    = 0.04
	helocBaseRate = 0.06

	// RateFloor is the minimum rate any derivation can produce.
	RateFloor = 0.01
)

// CD term tiers, in periods.
const (
	cdShortTermMax = 4  // term <= 4 is short
	cdLongTermMin  = 12 // term >= 12 is long
)

// loanBaseRates maps a credit tier to its base per-period loan rate.
var loanBaseRates = map[game.CreditTier]float64{
	game.CreditExcellent: 0.03,
	game.CreditGood:      0.05,
	game.CreditFair:      0.07,
	game.CreditPoor:      0.10,
}

// LoanRate derives the per-period rate for an unsecured loan from the
// borrower's standing, the amount, and the economic phase.
func LoanRate(tier game.CreditTier, bankruptcyCount int, amount float64, phase game.Phase) float64 {
	rate, ok := loanBaseRates[tier]
	if !ok {
		rate = loanBaseRates[game.CreditPoor]
	}

	// +1% per bankruptcy, capped at three.
	if bankruptcyCount > 3 {
		bankruptcyCount = 3
	}
	if bankruptcyCount > 0 {
		rate += 0.01 * float64(bankruptcyCount)
	}

	// Size surcharges.
	if amount > 1000 {
		rate += 0.005
	}
	if amount > 2000 {
		rate += 0.005
	}

	switch phase {
	case game.PhaseBoom:
		rate += 0.01
	case game.PhaseGrowth:
		rate += 0.005
	case game.PhaseRecession:
		rate -= 0.005
	case game.PhaseDepression:
		rate -= 0.01
	}

	if rate < RateFloor {
		rate = RateFloor
	}
	return rate
}

// CDRate derives the annual rate for a certificate of deposit from its
// term: short terms earn below base, long terms above.
func CDRate(termPeriods int) float64 {
	switch {
	case termPeriods <= cdShortTermMax:
		return cdBaseRate - 0.01
	case termPeriods >= cdLongTermMin:
		return cdBaseRate + 0.01
	default:
		return cdBaseRate
	}
}

// HELOCRate derives the per-period rate for a credit line against a
// property. Undeveloped collateral carries the biggest premium.
func HELOCRate(developmentLevel int) float64 {
	switch {
	case developmentLevel <= 0:
		return helocBaseRate + 0.015
	case developmentLevel >= 2:
		return helocBaseRate + 0.005
	default:
		return helocBaseRate + 0.01
	}
}

// MaxHELOC returns the remaining credit available against a property:
// a 60% loan-to-value ceiling plus 5% per development level, net of
// exposure already drawn against the same collateral.
func MaxHELOC(currentPropertyValue float64, developmentLevel int, existingExposure float64) float64 {
	ceiling := currentPropertyValue * (0.60 + 0.05*float64(developmentLevel))
	available := ceiling - existingExposure
	if available < 0 {
		return 0
	}
	return available
}

// MaxLoan returns the unsecured borrowing ceiling: 80% of net worth
// less current debt, floored at zero.
func MaxLoan(netWorth, currentDebt float64) float64 {
	limit := netWorth*0.80 - currentDebt
	if limit < 0 {
		return 0
	}
	return limit
}
