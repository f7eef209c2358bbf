package engine

import (
	"fmt"
)

// AppendLog adds a message to the event log, keeping only the last MaxEventLog entries
func (s *GameState) AppendLog(format string, args ...any) {
	s.EventLog = append(s.EventLog, fmt.Sprintf(format, args...))
	if len(s.EventLog) > MaxEventLog {
		s.EventLog = append([]string(nil), s.EventLog[len(s.EventLog)-MaxEventLog:]...)
	}
}

// AdvanceDay runs one scheduler step: event expiry, the day/night flip with
// its settlement, weather and growth rolls, random events, wind damage and
// finally a power recalculation. States that are not Playing are returned
// unchanged.
func AdvanceDay(state GameState, config *GameConfig, rng Source) GameState {
	if state.GameStatus != Playing {
		return state
	}

	next := state.Clone()

	// 1. Event expiry.
	if next.ActiveEvent != nil {
		if next.ActiveEvent.Remaining <= 1 {
			ev := next.ActiveEvent.Event
			next = RevertEvent(next, ev)
			next.AppendLog("Day %d: %s has ended.", next.Day, ev.Message)
			next.ActiveEvent = nil
		} else {
			next.ActiveEvent.Remaining--
		}
	}

	// 2. Day/night.
	if next.TimeOfDay == Night {
		next.Day++
		next.TimeOfDay = Day
		next.Budget += next.DailyIncome - next.DailyMaintenance
		next.AppendLog("Day %d: Income: $%d, Maint: $%d. Budget: $%d", next.Day, next.DailyIncome, next.DailyMaintenance, next.Budget)

		next.Weather = Weathers[rng.IntN(len(Weathers))]
		next.AppendLog("Day %d: Weather is now %s.", next.Day, next.Weather)

		growCities(&next, config, rng)
	} else {
		next.TimeOfDay = Night
	}

	// 3. Random events.
	if next.Day > 1 && next.TimeOfDay == Day && next.ActiveEvent == nil && len(config.Events) > 0 && roll(rng, config.EventChance) {
		ev := config.Events[rng.IntN(len(config.Events))]
		next.ActiveEvent = &ActiveEvent{Event: ev, Remaining: ev.Duration}
		next = ApplyEvent(next, ev, rng)
		next.AppendLog("Day %d: EVENT! %s", next.Day, ev.Message)
	}

	// 4. Weather damage.
	if chance := config.Weather[next.Weather].DamageChance; chance > 0 && roll(rng, chance) {
		if lines := eligibleLines(next.Grid); len(lines) > 0 {
			target := lines[rng.IntN(len(lines))]
			next.Grid[target.Y][target.X].IsDamaged = true
			next.AppendLog("Day %d: High winds damaged a transmission line!", next.Day)
		}
	}

	// 5. Recompute.
	return RecalculatePower(next, config)
}

// growCities rolls growth for every city independently. Growth resets demand
// to the new base demand, dropping any event multiplier on that city.
func growCities(s *GameState, config *GameConfig, rng Source) {
	for y := range s.Grid {
		for x := range s.Grid[y] {
			cell := &s.Grid[y][x]
			if cell.Type != City || !roll(rng, config.CityGrowthChance) {
				continue
			}
			cell.City.BaseDemand += config.CityGrowthAmount
			cell.City.Demand = cell.City.BaseDemand
			s.AppendLog("Day %d: %s has grown! New demand: %d MW.", s.Day, cell.City.Name, cell.City.BaseDemand)
		}
	}
}
