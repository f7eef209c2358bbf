package engine

import (
	"fmt"
	"math"
)

// batteryRef points at a battery payload inside the working grid
type batteryRef struct {
	pos  Position
	data *BatteryData
}

// RecalculatePower recomputes production, battery flow, connectivity, income
// and game status from the grid. It works on a copy and never modifies state.
func RecalculatePower(state GameState, config *GameConfig) GameState {
	next := state.Clone()
	grid := next.Grid

	solarBoost, batteryBoost, maintDiscount := techModifiers(next, config.Modifiers)
	windFactor := config.Weather[next.Weather].Wind

	var (
		productionSupply int
		totalDemand      int
		maintenance      float64
		plants           []Position
		substations      []Position
		cities           []Position
		batteries        []batteryRef
	)

	// 1. Categorize and compute raw values.
	for y := range grid {
		for x := range grid[y] {
			cell := &grid[y][x]
			pos := Position{X: x, Y: y}
			switch cell.Type {
			case Plant:
				p := cell.Plant
				output := float64(p.BaseOutput)
				switch p.Kind {
				case Solar:
					output *= solarBoost
					if next.TimeOfDay == Night {
						output = 0
					}
				case Wind:
					output *= windFactor
				}
				p.Output = int(math.Round(output))
				productionSupply += p.Output
				maintenance += float64(p.Maintenance)
				plants = append(plants, pos)
			case City:
				totalDemand += cell.City.Demand
				cell.City.IsPowered = false
				cities = append(cities, pos)
			case Battery:
				b := cell.Battery
				b.Capacity = int(math.Round(float64(b.BaseCapacity) * batteryBoost))
				b.Charge = max(0, min(b.Charge, b.Capacity))
				maintenance += float64(b.Maintenance)
				batteries = append(batteries, batteryRef{pos: pos, data: b})
			case Substation:
				maintenance += float64(cell.Substation.Maintenance)
				substations = append(substations, pos)
			case Transmission, Distribution:
				maintenance += float64(config.LineMaintenance)
			}
		}
	}
	maintenance *= maintDiscount

	// 2. Battery charge or discharge.
	powerFromBatteries := settleBatteries(batteries, productionSupply-totalDemand)
	effectiveSupply := productionSupply + powerFromBatteries

	// 3. Connectivity.
	powered := make(map[Position]bool)
	seeds := append([]Position{}, plants...)
	for _, b := range batteries {
		seeds = append(seeds, b.pos)
	}
	propagate(grid, powered, seeds, Transmission, Substation, Battery)

	var reachedSubstations []Position
	for _, s := range substations {
		if powered[s] {
			reachedSubstations = append(reachedSubstations, s)
		}
	}
	propagate(grid, powered, reachedSubstations, Distribution, City)

	// 4. Demand settlement.
	poweredDemand := 0
	for _, c := range cities {
		if powered[c] {
			poweredDemand += grid[c.Y][c.X].City.Demand
		}
	}

	// 5. Economics.
	dailyIncome := 0
	stabilityBonus := 0
	if effectiveSupply >= poweredDemand {
		for _, c := range cities {
			if powered[c] {
				grid[c.Y][c.X].City.IsPowered = true
			}
		}
		dailyIncome = poweredDemand * config.IncomePerMW
		if totalDemand > 0 {
			ratio := float64(effectiveSupply) / float64(totalDemand)
			if ratio >= 1 && ratio <= 1+config.StabilityThreshold {
				stabilityBonus = int(math.Floor(float64(dailyIncome) * config.StabilityBonus))
				dailyIncome += stabilityBonus
			}
		}
	} else {
		poweredDemand = 0
	}

	next.ProductionSupply = productionSupply
	next.PowerFromBatteries = powerFromBatteries
	next.EffectiveSupply = effectiveSupply
	next.TotalDemand = totalDemand
	next.PoweredDemand = poweredDemand
	next.DailyIncome = dailyIncome
	next.DailyMaintenance = int(math.Round(maintenance))
	next.GridStabilityBonus = stabilityBonus
	next.TotalBatteryCapacity = 0
	next.TotalBatteryCharge = 0
	for _, b := range batteries {
		next.TotalBatteryCapacity += b.data.Capacity
		next.TotalBatteryCharge += b.data.Charge
	}

	// 6. Win/Loss.
	if next.GameStatus == Playing {
		allPowered := len(cities) > 0
		for _, c := range cities {
			if !grid[c.Y][c.X].City.IsPowered {
				allPowered = false
				break
			}
		}
		switch {
		case allPowered:
			next.GameStatus = Won
			next.Message = fmt.Sprintf("Congratulations! You powered the whole grid in %d days!", next.Day)
		case next.Budget < 0 && next.DailyIncome < next.DailyMaintenance:
			next.GameStatus = Lost
			next.Message = "You have gone bankrupt!"
		}
	}

	return next
}

// settleBatteries charges batteries from a surplus or discharges them into a
// deficit, greedily in scan order. It returns the energy discharged.
func settleBatteries(batteries []batteryRef, balance int) int {
	switch {
	case balance > 0:
		totalRate := 0
		for _, b := range batteries {
			totalRate += b.data.MaxChargeRate
		}
		pool := min(balance, totalRate)
		for _, b := range batteries {
			take := min(pool, b.data.Capacity-b.data.Charge, b.data.MaxChargeRate)
			if take <= 0 {
				continue
			}
			b.data.Charge += take
			pool -= take
		}
		return 0
	case balance < 0:
		totalRate := 0
		for _, b := range batteries {
			totalRate += b.data.MaxDischargeRate
		}
		pool := min(-balance, totalRate)
		discharged := 0
		for _, b := range batteries {
			give := min(pool, b.data.Charge, b.data.MaxDischargeRate)
			if give <= 0 {
				continue
			}
			b.data.Charge -= give
			discharged += give
			pool -= give
		}
		return discharged
	}
	return 0
}

// propagate runs a breadth-first expansion from seeds along existing edges,
// entering only undamaged cells whose type is in allowed. Seeds are marked
// powered up front; damaged cells never expand.
func propagate(grid [][]Cell, powered map[Position]bool, seeds []Position, allowed ...CellType) {
	queue := make([]Position, 0, len(seeds))
	for _, s := range seeds {
		powered[s] = true
		queue = append(queue, s)
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		cell := grid[cur.Y][cur.X]
		if cell.IsDamaged {
			continue
		}
		for _, d := range Directions {
			if !cell.Connections.Has(d) {
				continue
			}
			n := Neighbor(cur, d)
			if powered[n] || !InBounds(grid, n.X, n.Y) {
				continue
			}
			neighbor := grid[n.Y][n.X]
			if neighbor.IsDamaged || !typeIn(neighbor.Type, allowed) {
				continue
			}
			powered[n] = true
			queue = append(queue, n)
		}
	}
}

func typeIn(t CellType, set []CellType) bool {
	for _, s := range set {
		if t == s {
			return true
		}
	}
	return false
}
