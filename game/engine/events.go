package engine

import (
	"fmt"
	"math"
)

// EventKind tags the behavior of a random event
type EventKind string

const (
	DemandSpike EventKind = "DEMAND_SPIKE"
	StormDamage EventKind = "STORM_DAMAGE"
	Subsidy     EventKind = "SUBSIDY"
)

// EventSpec is one entry of the event catalog. Only the parameter matching
// Kind is read: DemandMultiplier for DemandSpike, DamageFraction for
// StormDamage, Amount for Subsidy.
type EventSpec struct {
	Kind             EventKind `json:"kind" yaml:"kind"`
	Message          string    `json:"message" yaml:"message"`
	Duration         int       `json:"duration" yaml:"duration"`
	DemandMultiplier float64   `json:"demand_multiplier,omitempty" yaml:"demand_multiplier,omitempty"`
	DamageFraction   float64   `json:"damage_fraction,omitempty" yaml:"damage_fraction,omitempty"`
	Amount           int       `json:"amount,omitempty" yaml:"amount,omitempty"`
}

// DefaultEvents returns the built-in event catalog
func DefaultEvents() []EventSpec {
	return []EventSpec{
		{Kind: DemandSpike, Message: "Heatwave! City power demand increases by 50%.", Duration: 2, DemandMultiplier: 1.5},
		{Kind: StormDamage, Message: "Storm! Random transmission lines have been damaged.", Duration: 1, DamageFraction: 0.2},
		{Kind: Subsidy, Message: "Government Subsidy! You've received $1000.", Duration: 1, Amount: 1000},
	}
}

// Validate checks the event parameters for its kind
func (e EventSpec) Validate() error {
	if e.Duration < 1 {
		return fmt.Errorf("duration must be at least 1, got %d", e.Duration)
	}
	if e.Message == "" {
		return fmt.Errorf("message is required")
	}
	switch e.Kind {
	case DemandSpike:
		if e.DemandMultiplier <= 0 {
			return fmt.Errorf("demand_multiplier must be positive")
		}
	case StormDamage:
		if e.DamageFraction <= 0 || e.DamageFraction > 1 {
			return fmt.Errorf("damage_fraction must be within (0,1]")
		}
	case Subsidy:
	default:
		return fmt.Errorf("unknown event kind %q", e.Kind)
	}
	return nil
}

// ApplyEvent returns state with the event's effect applied
func ApplyEvent(state GameState, ev EventSpec, rng Source) GameState {
	next := state.Clone()
	switch ev.Kind {
	case DemandSpike:
		forEachCity(next.Grid, func(c *CityData) {
			c.Demand = int(math.Round(float64(c.Demand) * ev.DemandMultiplier))
		})
	case StormDamage:
		lines := eligibleLines(next.Grid)
		count := min(len(lines), int(math.Ceil(float64(len(lines))*ev.DamageFraction)))
		for i := 0; i < count; i++ {
			idx := rng.IntN(len(lines))
			target := lines[idx]
			next.Grid[target.Y][target.X].IsDamaged = true
			lines = append(lines[:idx], lines[idx+1:]...)
		}
	case Subsidy:
		next.Budget += ev.Amount
	}
	return next
}

// RevertEvent returns state with the event's lasting effect undone. Storm
// damage and subsidies are one-shot and revert to the state unchanged.
func RevertEvent(state GameState, ev EventSpec) GameState {
	if ev.Kind != DemandSpike {
		return state
	}
	next := state.Clone()
	forEachCity(next.Grid, func(c *CityData) {
		c.Demand = c.BaseDemand
	})
	return next
}

func forEachCity(grid [][]Cell, fn func(c *CityData)) {
	for y := range grid {
		for x := range grid[y] {
			if grid[y][x].Type == City && grid[y][x].City != nil {
				fn(grid[y][x].City)
			}
		}
	}
}

// eligibleLines returns every transmission cell that is not storm-proofed,
// in scan order. Already damaged lines stay eligible.
func eligibleLines(grid [][]Cell) []Position {
	var lines []Position
	for y, row := range grid {
		for x, cell := range row {
			if cell.Type != Transmission {
				continue
			}
			if cell.Line != nil && cell.Line.IsStormProof {
				continue
			}
			lines = append(lines, Position{X: x, Y: y})
		}
	}
	return lines
}
