package bots

import (
	"github.com/Kgreeven-max/Monopoly1.0-sub001/internal/entropy"
	"github.com/Kgreeven-max/Monopoly1.0-sub001/internal/game"
)

// rentMultiple capitalizes base rent into an intrinsic value estimate.
const rentMultiple = 15

// monopolyPotentialBonus is the flat premium applied to properties in
// standard color groups, which can complete rent-doubling monopolies.
const monopolyPotentialBonus = 0.5

// Estimate returns a bot's view of a property's intrinsic worth: base
// rent capitalized, plus a monopoly-potential bonus for standard color
// groups, distorted by symmetric noise of ±baseValue×noiseFactor.
// ownerHoldingsInGroup is how many properties in the group the bot
// already holds; the bonus is flat and does not scale with it.
func Estimate(p *game.Property, ownerHoldingsInGroup int, noiseFactor float64, rng entropy.Source) float64 {
	baseValue := p.BaseRent * rentMultiple

	value := baseValue
	if game.StandardGroup(p.Group) {
		value += baseValue * monopolyPotentialBonus
	}

	if noiseFactor > 0 {
		value += rng.Uniform(-baseValue*noiseFactor, baseValue*noiseFactor)
	}

	if value < 0 {
		value = 0
	}
	return value
}
