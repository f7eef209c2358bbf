package engine

import (
	"strings"
	"testing"
)

func TestAdvanceDay_DayNightFlip(t *testing.T) {
	state, config := createTestState(5)
	rng := &scriptedSource{}

	night := AdvanceDay(state, config, rng)
	if night.TimeOfDay != Night {
		t.Errorf("Expected Night after advancing from Day, got %s", night.TimeOfDay)
	}
	if night.Day != 1 {
		t.Errorf("Expected day counter to stay at 1, got %d", night.Day)
	}

	morning := AdvanceDay(night, config, rng)
	if morning.TimeOfDay != Day {
		t.Errorf("Expected Day after advancing from Night, got %s", morning.TimeOfDay)
	}
	if morning.Day != 2 {
		t.Errorf("Expected day 2, got %d", morning.Day)
	}
	if morning.Weather != Calm {
		t.Errorf("Expected weather roll 0 to pick Calm, got %s", morning.Weather)
	}
}

func TestAdvanceDay_Settlement(t *testing.T) {
	state, config := createTestState(7)
	buildPoweredRow(state, 0, 100, 50)
	setCity(state, 6, 6, 50)
	state = RecalculatePower(state, config)
	state.TimeOfDay = Night

	income, maint := state.DailyIncome, state.DailyMaintenance
	next := AdvanceDay(state, config, &scriptedSource{})

	want := state.Budget + income - maint
	if next.Budget != want {
		t.Errorf("Expected budget %d, got %d", want, next.Budget)
	}
	found := false
	for _, line := range next.EventLog {
		if strings.HasPrefix(line, "Day 2: Income: $") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a settlement log entry, got %v", next.EventLog)
	}
}

func TestAdvanceDay_Bankruptcy(t *testing.T) {
	state, config := createTestState(7)
	buildPoweredRow(state, 0, 100, 10)
	setCity(state, 6, 6, 50)
	state.TimeOfDay = Night
	state.Budget = -100
	state.DailyIncome = 10
	state.DailyMaintenance = 50

	next := AdvanceDay(state, config, &scriptedSource{floats: []float64{0.99, 0.99, 0.99}, ints: []int{0}})

	if next.Budget != -140 {
		t.Errorf("Expected budget -140, got %d", next.Budget)
	}
	if next.GameStatus != Lost {
		t.Fatalf("Expected game to be lost, got %s", next.GameStatus)
	}
	if next.Message != "You have gone bankrupt!" {
		t.Errorf("Unexpected message %q", next.Message)
	}

	after := AdvanceDay(next, config, &scriptedSource{})
	if after.Day != next.Day || after.TimeOfDay != next.TimeOfDay || after.Budget != next.Budget {
		t.Error("Expected AdvanceDay to be a no-op once the game is lost")
	}
}

func TestAdvanceDay_NegativeBudgetWithProfitContinues(t *testing.T) {
	state, config := createTestState(7)
	buildPoweredRow(state, 0, 100, 80)
	setCity(state, 6, 6, 10)
	state.Budget = -10

	next := AdvanceDay(state, config, &scriptedSource{})
	if next.GameStatus != Playing {
		t.Errorf("Expected game to continue while income covers maintenance, got %s", next.GameStatus)
	}
}

func TestAdvanceDay_TerminalNoop(t *testing.T) {
	for _, status := range []GameStatus{Won, Lost} {
		state, config := createTestState(5)
		state.GameStatus = status
		state.TimeOfDay = Night

		next := AdvanceDay(state, config, &scriptedSource{floats: []float64{0}})
		if next.Day != 1 || next.TimeOfDay != Night || len(next.EventLog) != 0 {
			t.Errorf("%s: expected state unchanged", status)
		}
	}
}

func TestAdvanceDay_CityGrowth(t *testing.T) {
	state, config := createTestState(5)
	setCity(state, 2, 2, 50)
	state.TimeOfDay = Night

	next := AdvanceDay(state, config, &scriptedSource{floats: []float64{0.05}, ints: []int{1}})

	city := next.Grid[2][2].City
	if city.BaseDemand != 60 || city.Demand != 60 {
		t.Errorf("Expected demand 60/60 after growth, got %d/%d", city.Demand, city.BaseDemand)
	}
	if next.Weather != Breezy {
		t.Errorf("Expected weather Breezy, got %s", next.Weather)
	}
	last := next.EventLog[len(next.EventLog)-1]
	if last != "Day 2: Test Heights has grown! New demand: 60 MW." {
		t.Errorf("Unexpected growth log %q", last)
	}
}

func TestAdvanceDay_GrowthDropsHeatwave(t *testing.T) {
	state, config := createTestState(5)
	setCity(state, 2, 2, 50)
	state.Grid[2][2].City.Demand = 75
	state.ActiveEvent = &ActiveEvent{Event: config.Events[0], Remaining: 2}
	state.TimeOfDay = Night

	next := AdvanceDay(state, config, &scriptedSource{floats: []float64{0.05}})

	if got := next.Grid[2][2].City.Demand; got != 60 {
		t.Errorf("Expected growth to reset demand to base 60, got %d", got)
	}
	if next.ActiveEvent == nil || next.ActiveEvent.Remaining != 1 {
		t.Errorf("Expected heatwave with 1 day remaining, got %+v", next.ActiveEvent)
	}
}

func TestAdvanceDay_EventTriggerAndExpiry(t *testing.T) {
	state, config := createTestState(5)
	setCity(state, 2, 2, 50)
	state.Day = 3
	state.TimeOfDay = Night

	// weather 0, growth fails, event roll passes, pick heatwave
	next := AdvanceDay(state, config, &scriptedSource{floats: []float64{0.99, 0.1}, ints: []int{0, 0}})
	if next.ActiveEvent == nil {
		t.Fatal("Expected an active event")
	}
	if next.ActiveEvent.Event.Kind != DemandSpike || next.ActiveEvent.Remaining != 2 {
		t.Errorf("Expected heatwave with 2 days remaining, got %+v", next.ActiveEvent)
	}
	if got := next.Grid[2][2].City.Demand; got != 75 {
		t.Errorf("Expected spiked demand 75, got %d", got)
	}
	if last := next.EventLog[len(next.EventLog)-1]; last != "Day 4: EVENT! Heatwave! City power demand increases by 50%." {
		t.Errorf("Unexpected event log %q", last)
	}

	next = AdvanceDay(next, config, &scriptedSource{})
	if next.ActiveEvent == nil || next.ActiveEvent.Remaining != 1 {
		t.Fatalf("Expected 1 day remaining, got %+v", next.ActiveEvent)
	}

	next = AdvanceDay(next, config, &scriptedSource{})
	if next.ActiveEvent != nil {
		t.Fatalf("Expected event to expire, got %+v", next.ActiveEvent)
	}
	if got := next.Grid[2][2].City.Demand; got != 50 {
		t.Errorf("Expected demand restored to 50, got %d", got)
	}
	found := false
	for _, line := range next.EventLog {
		if strings.HasSuffix(line, "has ended.") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected an expiry log entry, got %v", next.EventLog)
	}
}

func TestAdvanceDay_NoEventOnFirstDayOrAtNight(t *testing.T) {
	state, config := createTestState(5)
	config.EventChance = 1

	next := AdvanceDay(state, config, &scriptedSource{floats: []float64{0}})
	if next.ActiveEvent != nil {
		t.Error("Expected no event when advancing into night")
	}
}

func TestAdvanceDay_WindDamage(t *testing.T) {
	state, config := createTestState(5)
	setLine(state, 1, 1, TransmissionLine)
	setLine(state, 2, 1, TransmissionLine)
	state.Grid[1][1].Line.IsStormProof = true
	state.Weather = Windy

	// advancing into night skips growth and events, so the first roll is the damage roll
	next := AdvanceDay(state, config, &scriptedSource{floats: []float64{0.01}})

	if next.Grid[1][1].IsDamaged {
		t.Error("Storm-proof line must not be damaged")
	}
	if !next.Grid[1][2].IsDamaged {
		t.Error("Expected the unprotected line to be damaged")
	}
	if last := next.EventLog[len(next.EventLog)-1]; last != "Day 1: High winds damaged a transmission line!" {
		t.Errorf("Unexpected damage log %q", last)
	}
}

func TestAdvanceDay_LogCapped(t *testing.T) {
	state, config := createTestState(5)
	for i := 0; i < 30; i++ {
		state.AppendLog("entry %d", i)
	}
	if len(state.EventLog) != MaxEventLog {
		t.Fatalf("Expected %d entries, got %d", MaxEventLog, len(state.EventLog))
	}
	if state.EventLog[0] != "entry 20" {
		t.Errorf("Expected oldest retained entry 'entry 20', got %q", state.EventLog[0])
	}

	rng := NewSource(7)
	for i := 0; i < 40; i++ {
		state = AdvanceDay(state, config, rng)
		if len(state.EventLog) > MaxEventLog {
			t.Fatalf("Event log grew to %d", len(state.EventLog))
		}
	}
}

func TestAdvanceDay_Invariants(t *testing.T) {
	config := DefaultConfig()
	rng := NewSource(42)
	state := InitGame(config, rng)

	// a small working grid so batteries and lines exist
	var ok bool
	state.Budget = 100000
	for y := range state.Grid {
		if state.Grid[y][0].Type == Empty && state.Grid[y][1].Type == Empty && state.Grid[y][2].Type == Empty {
			state, ok = PlacePlant(state, config, Position{X: 0, Y: y}, Coal)
			if !ok {
				t.Fatal("Expected plant placement")
			}
			state, _ = PlaceBattery(state, config, Position{X: 2, Y: y})
			state, _ = BuildLine(state, config, Position{X: 0, Y: y}, Position{X: 2, Y: y}, TransmissionLine)
			break
		}
	}

	for i := 0; i < 200 && state.GameStatus == Playing; i++ {
		state = AdvanceDay(state, config, rng)
		if err := CheckSymmetry(state.Grid); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		for _, row := range state.Grid {
			for _, cell := range row {
				if cell.Type == Battery && (cell.Battery.Charge < 0 || cell.Battery.Charge > cell.Battery.Capacity) {
					t.Fatalf("step %d: battery charge %d outside [0,%d]", i, cell.Battery.Charge, cell.Battery.Capacity)
				}
			}
		}
		if state.EffectiveSupply != state.ProductionSupply+state.PowerFromBatteries {
			t.Fatalf("step %d: effective supply mismatch", i)
		}
		if len(state.EventLog) > MaxEventLog {
			t.Fatalf("step %d: event log has %d entries", i, len(state.EventLog))
		}
	}
}

func TestAdvanceDay_SeededReplay(t *testing.T) {
	config := DefaultConfig()
	run := func() GameState {
		rng := NewSource(99)
		state := InitGame(config, rng)
		for i := 0; i < 30; i++ {
			state = AdvanceDay(state, config, rng)
		}
		return state
	}

	a, b := run(), run()
	if a.Day != b.Day || a.Budget != b.Budget || a.Weather != b.Weather || a.TotalDemand != b.TotalDemand {
		t.Error("Expected identical seeds to replay identical games")
	}
	if strings.Join(a.EventLog, "|") != strings.Join(b.EventLog, "|") {
		t.Error("Expected identical event logs")
	}
}
