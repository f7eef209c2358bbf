package main

import (
	"sort"

	"github.com/wricardo/mcp-training/gridtycoon/game/engine"
)

// maxActionsPerTurn bounds how many builds the bot attempts before each
// scheduler step
const maxActionsPerTurn = 20

// greedyBot grows a single hub network: one substation near the cities'
// centre, coal plants wired to it over transmission lines and cities wired
// to the distribution side. It only connects a city when current production
// covers the added demand, so the grid never browns out because of a build.
type greedyBot struct {
	hub     *engine.Position
	skipped map[engine.Position]bool
}

func newGreedyBot() *greedyBot {
	return &greedyBot{skipped: make(map[engine.Position]bool)}
}

// Turn performs the bot's builds for the current half day and returns how
// many actions the engine applied
func (b *greedyBot) Turn(e *engine.GameEngine) int {
	if e.IsGameOver() {
		return 0
	}
	before := appliedActions(e)

	if b.hub == nil && !b.buildHub(e) {
		return appliedActions(e) - before
	}

	b.repair(e)

	for i := 0; i < maxActionsPerTurn; i++ {
		state := e.GetState()
		if state.GameStatus != engine.Playing {
			break
		}
		city, ok := b.nextCity(state)
		if !ok {
			break
		}
		demand := state.Grid[city.Y][city.X].City.Demand
		if connectedDemand(state.Grid)+demand <= state.ProductionSupply {
			if !b.connectCity(e, city) {
				b.skipped[city] = true
			}
			continue
		}
		if !b.addPlant(e) {
			break
		}
	}
	return appliedActions(e) - before
}

func appliedActions(e *engine.GameEngine) int {
	n := 0
	for _, entry := range e.GetActionHistory() {
		if entry.Success {
			n++
		}
	}
	return n
}

// buildHub places the substation and its first plant
func (b *greedyBot) buildHub(e *engine.GameEngine) bool {
	state := e.GetState()
	config := e.GetConfig()

	coal := config.PlantCost(engine.Coal)
	if state.Budget < config.SubstationCost+coal+2*config.TransmissionLineCost {
		return false
	}

	centre, ok := cityCentre(state.Grid)
	if !ok {
		return false
	}
	site, ok := nearestEmpty(state.Grid, centre, 0)
	if !ok || !e.PlaceSubstation(site) {
		return false
	}
	b.hub = &site

	return b.addPlant(e)
}

// addPlant places a coal plant two or more cells from the hub and wires it to
// the nearest transmission-side cell
func (b *greedyBot) addPlant(e *engine.GameEngine) bool {
	state := e.GetState()
	config := e.GetConfig()
	if state.Budget < config.PlantCost(engine.Coal)+2*config.TransmissionLineCost {
		return false
	}

	site, ok := nearestEmpty(state.Grid, *b.hub, 2)
	if !ok || !e.PlacePlant(site, engine.Coal) {
		return false
	}
	target, ok := nearestOf(e.GetState().Grid, site, engine.Substation, engine.Transmission)
	if !ok || !e.BuildLine(site, target, engine.TransmissionLine) {
		e.Bulldoze(site)
		return false
	}
	return true
}

// connectCity routes a distribution line from a city to the network
func (b *greedyBot) connectCity(e *engine.GameEngine, city engine.Position) bool {
	target, ok := nearestOf(e.GetState().Grid, city, engine.Substation, engine.Distribution)
	if !ok {
		return false
	}
	return e.BuildLine(city, target, engine.DistributionLine)
}

// repair fixes every damaged segment the budget allows
func (b *greedyBot) repair(e *engine.GameEngine) {
	grid := e.GetState().Grid
	for y := range grid {
		for x := range grid[y] {
			if grid[y][x].IsDamaged {
				e.RepairLine(engine.Position{X: x, Y: y})
			}
		}
	}
}

// nextCity picks the unconnected city closest to the hub
func (b *greedyBot) nextCity(state *engine.GameState) (engine.Position, bool) {
	var candidates []engine.Position
	for y, row := range state.Grid {
		for x, cell := range row {
			p := engine.Position{X: x, Y: y}
			if cell.Type == engine.City && cell.Connections == 0 && !b.skipped[p] {
				candidates = append(candidates, p)
			}
		}
	}
	if len(candidates) == 0 {
		return engine.Position{}, false
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return engine.ManhattanDistance(*b.hub, candidates[i]) < engine.ManhattanDistance(*b.hub, candidates[j])
	})
	return candidates[0], true
}

// connectedDemand sums the demand of cities that already have a line
func connectedDemand(grid [][]engine.Cell) int {
	total := 0
	for _, row := range grid {
		for _, cell := range row {
			if cell.Type == engine.City && cell.Connections != 0 {
				total += cell.City.Demand
			}
		}
	}
	return total
}

func cityCentre(grid [][]engine.Cell) (engine.Position, bool) {
	sumX, sumY, n := 0, 0, 0
	for y, row := range grid {
		for x, cell := range row {
			if cell.Type == engine.City {
				sumX += x
				sumY += y
				n++
			}
		}
	}
	if n == 0 {
		return engine.Position{}, false
	}
	return engine.Position{X: sumX / n, Y: sumY / n}, true
}

// nearestEmpty finds the empty cell closest to from at Manhattan distance of
// at least minDist. Ties break by row then column.
func nearestEmpty(grid [][]engine.Cell, from engine.Position, minDist int) (engine.Position, bool) {
	return nearest(grid, from, func(p engine.Position, c engine.Cell) bool {
		return c.Type == engine.Empty && engine.ManhattanDistance(from, p) >= minDist
	})
}

// nearestOf finds the closest undamaged cell of one of the given types
func nearestOf(grid [][]engine.Cell, from engine.Position, types ...engine.CellType) (engine.Position, bool) {
	return nearest(grid, from, func(p engine.Position, c engine.Cell) bool {
		if c.IsDamaged || p == from {
			return false
		}
		for _, t := range types {
			if c.Type == t {
				return true
			}
		}
		return false
	})
}

func nearest(grid [][]engine.Cell, from engine.Position, match func(engine.Position, engine.Cell) bool) (engine.Position, bool) {
	best, bestDist := engine.Position{}, -1
	for y, row := range grid {
		for x, cell := range row {
			p := engine.Position{X: x, Y: y}
			if !match(p, cell) {
				continue
			}
			if d := engine.ManhattanDistance(from, p); bestDist < 0 || d < bestDist {
				best, bestDist = p, d
			}
		}
	}
	return best, bestDist >= 0
}
