package engine

// Player actions. Each returns the next snapshot and whether it applied.
// A rejected action returns the input state unchanged and false; there is no
// error channel. Applied actions are followed by a power recalculation.

func (s GameState) cellAt(p Position) (Cell, bool) {
	if !InBounds(s.Grid, p.X, p.Y) {
		return Cell{}, false
	}
	return s.Grid[p.Y][p.X], true
}

// place builds a structure on an empty cell if the budget covers its cost
func place(state GameState, config *GameConfig, p Position, cost int, cell Cell) (GameState, bool) {
	if state.GameStatus != Playing {
		return state, false
	}
	current, ok := state.cellAt(p)
	if !ok || current.Type != Empty || state.Budget < cost {
		return state, false
	}
	next := state.Clone()
	next.Grid[p.Y][p.X] = cell
	next.Budget -= cost
	return RecalculatePower(next, config), true
}

// PlacePlant builds a level 1 plant. Wind plants require the UNLOCK_WIND tech.
func PlacePlant(state GameState, config *GameConfig, p Position, kind PlantKind) (GameState, bool) {
	spec, ok := config.Plants[kind]
	if !ok {
		return state, false
	}
	if kind == Wind && !state.IsUnlocked(UnlockWind) {
		return state, false
	}
	return place(state, config, p, spec.Cost, Cell{
		Type: Plant,
		Plant: &PlantData{
			Kind:        kind,
			Output:      spec.Output,
			BaseOutput:  spec.Output,
			Cost:        spec.Cost,
			Maintenance: spec.Maintenance,
			Level:       1,
		},
	})
}

// PlaceSubstation builds a substation
func PlaceSubstation(state GameState, config *GameConfig, p Position) (GameState, bool) {
	return place(state, config, p, config.SubstationCost, Cell{
		Type:       Substation,
		Substation: &SubstationData{Maintenance: config.SubstationMaintenance},
	})
}

// PlaceBattery builds an empty battery bank
func PlaceBattery(state GameState, config *GameConfig, p Position) (GameState, bool) {
	b := config.Battery
	return place(state, config, p, config.BatteryBankCost, Cell{
		Type: Battery,
		Battery: &BatteryData{
			BaseCapacity:     b.Capacity,
			Capacity:         b.Capacity,
			MaxChargeRate:    b.MaxChargeRate,
			MaxDischargeRate: b.MaxDischargeRate,
			Maintenance:      b.Maintenance,
		},
	})
}

// BuildLine routes a line between two distinct occupied cells, charges
// (len-1) segments, turns every empty cell on the route into a line segment
// and wires each consecutive pair.
func BuildLine(state GameState, config *GameConfig, start, end Position, kind LineKind) (GameState, bool) {
	if state.GameStatus != Playing || start == end {
		return state, false
	}
	if kind != TransmissionLine && kind != DistributionLine {
		return state, false
	}
	a, okA := state.cellAt(start)
	b, okB := state.cellAt(end)
	if !okA || !okB || a.Type == Empty || b.Type == Empty {
		return state, false
	}

	path := FindPath(start, end, state.Grid, kind)
	if len(path) == 0 {
		return state, false
	}
	cost := PathCost(path, kind, config)
	if state.Budget < cost {
		return state, false
	}

	next := state.Clone()
	next.Budget -= cost
	for i, p := range path {
		if i > 0 {
			Connect(next.Grid, path[i-1], p)
		}
		cell := &next.Grid[p.Y][p.X]
		if cell.Type == Empty {
			cell.Type = kind.CellType()
			if kind == TransmissionLine {
				cell.Line = &TransmissionData{IsStormProof: false}
			}
		}
	}
	return RecalculatePower(next, config), true
}

// RepairLine clears the damage flag of a transmission segment for the price of one segment
func RepairLine(state GameState, config *GameConfig, p Position) (GameState, bool) {
	if state.GameStatus != Playing {
		return state, false
	}
	cell, ok := state.cellAt(p)
	if !ok || cell.Type != Transmission || !cell.IsDamaged || state.Budget < config.TransmissionLineCost {
		return state, false
	}
	next := state.Clone()
	next.Grid[p.Y][p.X].IsDamaged = false
	next.Budget -= config.TransmissionLineCost
	return RecalculatePower(next, config), true
}

// Bulldoze clears any structure except a city, severing its edges first
func Bulldoze(state GameState, config *GameConfig, p Position) (GameState, bool) {
	if state.GameStatus != Playing {
		return state, false
	}
	cell, ok := state.cellAt(p)
	if !ok || cell.Type == Empty || cell.Type == City || state.Budget < config.BulldozeCost {
		return state, false
	}
	next := state.Clone()
	next.Budget -= config.BulldozeCost
	Sever(next.Grid, p)
	next.Grid[p.Y][p.X] = Cell{Type: Empty}
	return RecalculatePower(next, config), true
}

// PlantUpgradeCost returns the price of the next upgrade of a plant
func PlantUpgradeCost(p *PlantData, config *GameConfig) int {
	return roundInt(float64(p.Cost) * config.PlantUpgradeCostMultiplier)
}

// UpgradePlant raises a plant one level: base output, maintenance and the
// next upgrade price all scale by their configured multipliers.
func UpgradePlant(state GameState, config *GameConfig, p Position) (GameState, bool) {
	if state.GameStatus != Playing {
		return state, false
	}
	cell, ok := state.cellAt(p)
	if !ok || cell.Type != Plant {
		return state, false
	}
	cost := PlantUpgradeCost(cell.Plant, config)
	if state.Budget < cost {
		return state, false
	}
	next := state.Clone()
	plant := next.Grid[p.Y][p.X].Plant
	plant.Level++
	plant.BaseOutput = roundInt(float64(plant.BaseOutput) * config.PlantUpgradeOutputMultiplier)
	plant.Maintenance = roundInt(float64(plant.Maintenance) * config.PlantUpgradeMaintenanceMultiplier)
	plant.Cost = cost
	next.Budget -= cost
	return RecalculatePower(next, config), true
}

// StormProofLine exempts a transmission segment from weather and storm damage
func StormProofLine(state GameState, config *GameConfig, p Position) (GameState, bool) {
	if state.GameStatus != Playing {
		return state, false
	}
	cell, ok := state.cellAt(p)
	if !ok || cell.Type != Transmission || state.Budget < config.TransmissionUpgradeCost {
		return state, false
	}
	if cell.Line != nil && cell.Line.IsStormProof {
		return state, false
	}
	next := state.Clone()
	next.Grid[p.Y][p.X].Line = &TransmissionData{IsStormProof: true}
	next.Budget -= config.TransmissionUpgradeCost
	return RecalculatePower(next, config), true
}

// BuyResearchPoints converts budget into research points at a flat price
func BuyResearchPoints(state GameState, config *GameConfig, amount int) (GameState, bool) {
	if state.GameStatus != Playing || amount <= 0 {
		return state, false
	}
	price := config.ResearchCostPerPoint
	if price > 0 && amount > state.Budget/price {
		return state, false
	}
	cost := amount * price
	next := state.Clone()
	next.Budget -= cost
	next.ResearchPoints += amount
	return RecalculatePower(next, config), true
}

// UnlockTech spends research points on a tech whose prerequisites are all
// unlocked. Unlocking is one-way; a second unlock is rejected.
func UnlockTech(state GameState, config *GameConfig, id TechID) (GameState, bool) {
	if state.GameStatus != Playing || !state.CanUnlock(id) {
		return state, false
	}
	next := state.Clone()
	tech := next.TechTree[id]
	tech.Unlocked = true
	next.TechTree[id] = tech
	next.ResearchPoints -= tech.Cost
	return RecalculatePower(next, config), true
}
