package game

import "github.com/google/uuid"

// Context is the complete mutable economic state of one game instance.
// It is passed explicitly into every engine call; games never share state.
// The owning turn loop serializes all access within a game.
type Context struct {
	ID     uuid.UUID `json:"id"`
	Period int       `json:"period"` // Completed board laps.

	// Cycle state. Position stays in [0, 1]; Direction is ±step and
	// flips at the boundaries.
	CyclePosition  float64 `json:"cycle_position"`
	CycleDirection float64 `json:"cycle_direction"`
	Phase          Phase   `json:"phase"`

	Players    []*Player   `json:"players"`
	Properties []*Property `json:"properties"`
}

// NewContext creates a fresh game starting mid-cycle in the stable phase.
func NewContext(step float64) *Context {
	return &Context{
		ID:             uuid.New(),
		CyclePosition:  0.5,
		CycleDirection: step,
		Phase:          PhaseStable,
	}
}

// Player returns the player with the given id.
func (c *Context) Player(id int64) (*Player, error) {
	for _, p := range c.Players {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

// Property returns the property with the given id.
func (c *Context) Property(id int64) (*Property, error) {
	for _, p := range c.Properties {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

// PropertiesOwnedBy returns every property held by the player.
func (c *Context) PropertiesOwnedBy(playerID int64) []*Property {
	var owned []*Property
	for _, p := range c.Properties {
		if p.OwnedBy(playerID) {
			owned = append(owned, p)
		}
	}
	return owned
}

// OwnsGroup reports whether the player holds every property in the group.
func (c *Context) OwnsGroup(playerID int64, group string) bool {
	any := false
	for _, p := range c.Properties {
		if p.Group != group {
			continue
		}
		any = true
		if !p.OwnedBy(playerID) {
			return false
		}
	}
	return any
}

// GroupSize returns how many properties belong to the group.
func (c *Context) GroupSize(group string) int {
	n := 0
	for _, p := range c.Properties {
		if p.Group == group {
			n++
		}
	}
	return n
}

// AggregateCash sums cash across non-bankrupt players.
func (c *Context) AggregateCash() float64 {
	total := 0.0
	for _, p := range c.Players {
		if !p.Bankrupt {
			total += p.Cash
		}
	}
	return total
}

// AggregatePropertyValue sums current prices across all properties.
func (c *Context) AggregatePropertyValue() float64 {
	total := 0.0
	for _, p := range c.Properties {
		total += p.CurrentPrice
	}
	return total
}

// NetWorth is a player's cash plus the current value of their holdings.
func (c *Context) NetWorth(playerID int64) float64 {
	p, err := c.Player(playerID)
	if err != nil {
		return 0
	}
	worth := p.Cash
	for _, prop := range c.PropertiesOwnedBy(playerID) {
		worth += prop.CurrentPrice
	}
	return worth
}
