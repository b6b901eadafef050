package bank

import (
	"math"
	"testing"

	"github.com/Kgreeven-max/Monopoly1.0-sub001/internal/game"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestLoanRate(t *testing.T) {
	tests := []struct {
		name         string
		tier         game.CreditTier
		bankruptcies int
		amount       float64
		phase        game.Phase
		want         float64
	}{
		{"excellent base", game.CreditExcellent, 0, 500, game.PhaseStable, 0.03},
		{"good base", game.CreditGood, 0, 500, game.PhaseStable, 0.05},
		{"fair base", game.CreditFair, 0, 500, game.PhaseStable, 0.07},
		{"poor base", game.CreditPoor, 0, 500, game.PhaseStable, 0.10},
		{"one bankruptcy", game.CreditGood, 1, 500, game.PhaseStable, 0.06},
		{"bankruptcies capped at three", game.CreditGood, 5, 500, game.PhaseStable, 0.08},
		{"large amount", game.CreditGood, 0, 1500, game.PhaseStable, 0.055},
		{"very large amount", game.CreditGood, 0, 2500, game.PhaseStable, 0.06},
		{"boom surcharge", game.CreditGood, 0, 500, game.PhaseBoom, 0.06},
		{"growth surcharge", game.CreditGood, 0, 500, game.PhaseGrowth, 0.055},
		{"recession discount", game.CreditGood, 0, 500, game.PhaseRecession, 0.045},
		{"depression discount", game.CreditGood, 0, 500, game.PhaseDepression, 0.04},
		{"floor holds", game.CreditExcellent, 0, 500, game.PhaseDepression, 0.02},
		{"everything at once", game.CreditPoor, 2, 2500, game.PhaseBoom, 0.14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LoanRate(tt.tier, tt.bankruptcies, tt.amount, tt.phase)
			if !almostEqual(got, tt.want) {
				t.Errorf("LoanRate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoanRateNeverBelowFloor(t *testing.T) {
	got := LoanRate(game.CreditTier(99), 0, 100, game.PhaseDepression)
	if got < RateFloor {
		t.Errorf("LoanRate() = %v, below floor %v", got, RateFloor)
	}
}

func TestCDRate(t *testing.T) {
	tests := []struct {
		term int
		want float64
	}{
		{1, 0.03},
		{4, 0.03},
		{5, 0.04},
		{11, 0.04},
		{12, 0.05},
		{24, 0.05},
	}
	for _, tt := range tests {
		if got := CDRate(tt.term); !almostEqual(got, tt.want) {
			t.Errorf("CDRate(%d) = %v, want %v", tt.term, got, tt.want)
		}
	}
}

func TestHELOCRate(t *testing.T) {
	tests := []struct {
		level int
		want  float64
	}{
		{0, 0.075},
		{1, 0.07},
		{2, 0.065},
		{4, 0.065},
	}
	for _, tt := range tests {
		if got := HELOCRate(tt.level); !almostEqual(got, tt.want) {
			t.Errorf("HELOCRate(%d) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestMaxHELOC(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		level    int
		exposure float64
		want     float64
	}{
		{"undeveloped", 1000, 0, 0, 600},
		{"two houses", 1000, 2, 0, 700},
		{"existing exposure nets out", 1000, 0, 400, 200},
		{"overdrawn clamps to zero", 1000, 0, 700, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaxHELOC(tt.value, tt.level, tt.exposure); !almostEqual(got, tt.want) {
				t.Errorf("MaxHELOC() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMaxLoan(t *testing.T) {
	if got := MaxLoan(1000, 0); !almostEqual(got, 800) {
		t.Errorf("MaxLoan(1000, 0) = %v, want 800", got)
	}
	if got := MaxLoan(1000, 300); !almostEqual(got, 500) {
		t.Errorf("MaxLoan(1000, 300) = %v, want 500", got)
	}
	if got := MaxLoan(100, 500); got != 0 {
		t.Errorf("MaxLoan(100, 500) = %v, want 0", got)
	}
}
