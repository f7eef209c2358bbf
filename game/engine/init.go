package engine

import (
	"fmt"
)

// InitGame produces a fresh snapshot: cities at random empty cells with
// random demand, fixed budget and calendar, every tech locked.
func InitGame(config *GameConfig, rng Source) GameState {
	if config == nil {
		config = DefaultConfig()
	}

	grid := NewGrid(config.GridSize)
	numCities := config.MinCities + rng.IntN(config.ExtraCities)
	for placed := 0; placed < numCities; {
		x := rng.IntN(config.GridSize)
		y := rng.IntN(config.GridSize)
		if grid[y][x].Type != Empty {
			continue
		}
		demand := config.CityDemandMin + rng.IntN(config.CityDemandSpan)*config.CityDemandStep
		name := config.CityNames[placed%len(config.CityNames)]
		if config.CitySuffix != "" {
			name = fmt.Sprintf("%s %s", name, config.CitySuffix)
		}
		grid[y][x] = Cell{
			Type: City,
			City: &CityData{Name: name, Demand: demand, BaseDemand: demand},
		}
		placed++
	}

	state := GameState{
		Grid:       grid,
		Budget:     config.InitialBudget,
		TechTree:   NewTechTree(config),
		Day:        1,
		TimeOfDay:  Day,
		Weather:    Breezy,
		EventLog:   []string{"Day 1: Your journey as a Power Grid Tycoon begins!"},
		GameStatus: Playing,
		Message:    "Build a resilient power grid!",
		ConfigName: config.Name,
	}
	return RecalculatePower(state, config)
}
