package bots

import (
	"math"

	"github.com/Kgreeven-max/Monopoly1.0-sub001/internal/entropy"
	"github.com/Kgreeven-max/Monopoly1.0-sub001/internal/game"
)

// BuyDecision is the outcome of a purchase evaluation.
type BuyDecision struct {
	Buy            bool    `json:"buy"`
	EstimatedValue float64 `json:"estimated_value"`
	Threshold      float64 `json:"threshold"`
	Rationale      string  `json:"rationale"`
}

// Record converts the decision into the shared record shape.
func (d BuyDecision) Record(ctx *game.Context, playerID int64) game.Decision {
	return game.Decision{
		GameID:    ctx.ID,
		PlayerID:  playerID,
		Action:    "buy_property",
		Period:    ctx.Period,
		Rationale: d.Rationale,
		Derived: map[string]float64{
			"estimated_value": d.EstimatedValue,
			"threshold":       d.Threshold,
			"buy":             boolToFloat(d.Buy),
		},
	}
}

// DecideBuy evaluates buying an unowned property at its listed price.
// Risk tolerance widens or narrows the acceptable price threshold,
// imperfect accuracy can flip the optimal call, and the bot never buys
// beyond its cash no matter what the heuristics say.
func DecideBuy(profile Profile, property *game.Property, holdingsInGroup int, cash float64, rng entropy.Source) BuyDecision {
	estimated := Estimate(property, holdingsInGroup, profile.ValueEstimationError, rng)
	price := property.CurrentPrice
	threshold := price * (1 + (profile.RiskTolerance-0.5)*0.2)

	optimal := estimated >= threshold
	decision := optimal
	rationale := "value below threshold"
	if optimal {
		rationale = "estimated value clears threshold"
	}

	if rng.Float64() < 1-profile.DecisionAccuracy {
		decision = !decision
		rationale = "second-guessed the numbers"
	}

	if decision && cash < price {
		decision = false
		rationale = "cannot afford asking price"
	}

	return BuyDecision{
		Buy:            decision,
		EstimatedValue: estimated,
		Threshold:      threshold,
		Rationale:      rationale,
	}
}

// BidDecision is the outcome of an auction round. Bid zero means the
// bot withdraws.
type BidDecision struct {
	Bid            float64 `json:"bid"`
	EstimatedValue float64 `json:"estimated_value"`
	MaxBid         float64 `json:"max_bid"`
	Rationale      string  `json:"rationale"`
}

// Record converts the decision into the shared record shape.
func (d BidDecision) Record(ctx *game.Context, playerID int64) game.Decision {
	return game.Decision{
		GameID:    ctx.ID,
		PlayerID:  playerID,
		Action:    "auction_bid",
		Period:    ctx.Period,
		Rationale: d.Rationale,
		Derived: map[string]float64{
			"bid":             d.Bid,
			"estimated_value": d.EstimatedValue,
			"max_bid":         d.MaxBid,
		},
	}
}

// DecideAuctionBid evaluates one auction round against the current high
// bid. The bot bids up to a risk-scaled multiple of its value estimate,
// always keeps a small cash buffer, and its accuracy noise can force an
// unexpected withdrawal even from a live bid.
func DecideAuctionBid(profile Profile, property *game.Property, holdingsInGroup int, currentBid, cash float64, rng entropy.Source) BidDecision {
	estimated := Estimate(property, holdingsInGroup, profile.ValueEstimationError, rng)

	maxWillingBid := estimated * (0.8 + profile.RiskTolerance*0.4)
	cashBuffer := math.Min(50, cash*0.1)
	maxBid := math.Min(maxWillingBid, cash-cashBuffer)

	d := BidDecision{EstimatedValue: estimated, MaxBid: maxBid}

	if maxBid <= currentBid {
		d.Rationale = "bidding already past our ceiling"
		return d
	}

	increment := math.Max(10, math.Round(currentBid*0.05)+float64(rng.IntRange(1, 5)))
	switch {
	case currentBid+increment <= maxBid:
		d.Bid = currentBid + increment
		d.Rationale = "raising by a standard increment"
	case profile.RiskTolerance > 0.6 || rng.Float64() < 0.5:
		d.Bid = maxBid
		d.Rationale = "going all the way to our ceiling"
	default:
		d.Rationale = "not worth stretching to the ceiling"
		return d
	}

	// Accuracy noise: a distracted bot sometimes walks away mid-auction.
	if rng.Float64() < 1-profile.DecisionAccuracy && rng.Float64() < 0.5 {
		d.Bid = 0
		d.Rationale = "lost nerve and withdrew"
	}

	return d
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
