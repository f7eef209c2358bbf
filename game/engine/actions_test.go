package engine

import (
	"math"
	"testing"
)

func TestPlacePlant(t *testing.T) {
	t.Run("charges cost and sets level one", func(t *testing.T) {
		state, config := createTestState(5)
		next, ok := PlacePlant(state, config, Position{X: 1, Y: 1}, Nuclear)
		if !ok {
			t.Fatal("Expected placement to succeed")
		}
		if next.Budget != state.Budget-2000 {
			t.Errorf("Expected budget %d, got %d", state.Budget-2000, next.Budget)
		}
		p := next.Grid[1][1].Plant
		if p.Level != 1 || p.BaseOutput != 500 || p.Maintenance != 100 || p.Cost != 2000 {
			t.Errorf("Unexpected plant payload %+v", p)
		}
		if state.Grid[1][1].Type != Empty {
			t.Error("Input state must not change")
		}
	})

	t.Run("rejections", func(t *testing.T) {
		state, config := createTestState(5)
		setCity(state, 2, 2, 50)

		poor := state
		poor.Budget = 100

		cases := []struct {
			name  string
			state GameState
			pos   Position
			kind  PlantKind
		}{
			{"occupied", state, Position{X: 2, Y: 2}, Coal},
			{"out of bounds", state, Position{X: 5, Y: 0}, Coal},
			{"insufficient budget", poor, Position{X: 0, Y: 0}, Coal},
			{"wind locked", state, Position{X: 0, Y: 0}, Wind},
			{"unknown kind", state, Position{X: 0, Y: 0}, PlantKind("GAS")},
		}
		for _, c := range cases {
			next, ok := PlacePlant(c.state, config, c.pos, c.kind)
			if ok {
				t.Errorf("%s: expected rejection", c.name)
			}
			if next.Budget != c.state.Budget {
				t.Errorf("%s: budget changed on rejection", c.name)
			}
		}
	})

	t.Run("wind after unlock", func(t *testing.T) {
		state, config := createTestState(5)
		tech := state.TechTree[UnlockWind]
		tech.Unlocked = true
		state.TechTree[UnlockWind] = tech

		if _, ok := PlacePlant(state, config, Position{X: 0, Y: 0}, Wind); !ok {
			t.Error("Expected wind placement once unlocked")
		}
	})
}

func TestPlaceBatteryAndSubstation(t *testing.T) {
	state, config := createTestState(5)

	next, ok := PlaceBattery(state, config, Position{X: 0, Y: 0})
	if !ok {
		t.Fatal("Expected battery placement to succeed")
	}
	b := next.Grid[0][0].Battery
	if b.Charge != 0 || b.Capacity != 200 || b.MaxDischargeRate != 50 {
		t.Errorf("Unexpected battery payload %+v", b)
	}

	next, ok = PlaceSubstation(next, config, Position{X: 1, Y: 0})
	if !ok {
		t.Fatal("Expected substation placement to succeed")
	}
	if next.Budget != 5000-400-300 {
		t.Errorf("Expected budget %d, got %d", 5000-400-300, next.Budget)
	}
	if next.Grid[0][1].Substation.Maintenance != 15 {
		t.Errorf("Expected substation maintenance 15, got %d", next.Grid[0][1].Substation.Maintenance)
	}
}

func TestBuildLine(t *testing.T) {
	t.Run("wires existing endpoints", func(t *testing.T) {
		state, config := createTestState(5)
		setPlant(state, 0, 0, Coal, 100, 20)
		setSubstation(state, 0, 3)

		next, ok := BuildLine(state, config, Position{X: 0, Y: 0}, Position{X: 0, Y: 3}, TransmissionLine)
		if !ok {
			t.Fatal("Expected line to be built")
		}
		if next.Budget != state.Budget-150 {
			t.Errorf("Expected budget %d, got %d", state.Budget-150, next.Budget)
		}
		for y := 1; y <= 2; y++ {
			cell := next.Grid[y][0]
			if cell.Type != Transmission || cell.Line == nil || cell.Line.IsStormProof {
				t.Errorf("Expected plain transmission segment at (0,%d), got %+v", y, cell)
			}
		}
		if next.Grid[0][0].Type != Plant || next.Grid[3][0].Type != Substation {
			t.Error("Endpoints must keep their type")
		}
		if !next.Grid[0][0].Connections.Has(Down) || !next.Grid[3][0].Connections.Has(Up) {
			t.Error("Expected endpoints to be wired into the line")
		}
		if err := CheckSymmetry(next.Grid); err != nil {
			t.Error(err)
		}
	})

	t.Run("rejections", func(t *testing.T) {
		state, config := createTestState(5)
		setPlant(state, 0, 0, Coal, 100, 20)
		setSubstation(state, 4, 0)
		poor := state.Clone()
		poor.Budget = 100

		cases := []struct {
			name       string
			state      GameState
			start, end Position
			kind       LineKind
		}{
			{"same endpoint", state, Position{X: 0, Y: 0}, Position{X: 0, Y: 0}, TransmissionLine},
			{"empty start", state, Position{X: 1, Y: 1}, Position{X: 4, Y: 0}, TransmissionLine},
			{"empty end", state, Position{X: 0, Y: 0}, Position{X: 2, Y: 2}, TransmissionLine},
			{"out of bounds", state, Position{X: 0, Y: 0}, Position{X: 9, Y: 9}, TransmissionLine},
			{"unknown kind", state, Position{X: 0, Y: 0}, Position{X: 4, Y: 0}, LineKind("HVDC")},
			{"insufficient budget", poor, Position{X: 0, Y: 0}, Position{X: 4, Y: 0}, TransmissionLine},
		}
		for _, c := range cases {
			next, ok := BuildLine(c.state, config, c.start, c.end, c.kind)
			if ok {
				t.Errorf("%s: expected rejection", c.name)
			}
			if next.Budget != c.state.Budget {
				t.Errorf("%s: budget changed on rejection", c.name)
			}
		}
	})

	t.Run("no route", func(t *testing.T) {
		state, config := createTestState(5)
		setPlant(state, 0, 0, Coal, 100, 20)
		setSubstation(state, 4, 4)
		for y := 0; y < 5; y++ {
			setCity(state, 2, y, 10)
		}
		if _, ok := BuildLine(state, config, Position{X: 0, Y: 0}, Position{X: 4, Y: 4}, TransmissionLine); ok {
			t.Error("Expected rejection when no route exists")
		}
	})
}

func TestRepairLine(t *testing.T) {
	state, config := createTestState(5)
	buildPoweredRow(state, 0, 100, 50)
	state.Grid[0][1].IsDamaged = true
	state = RecalculatePower(state, config)
	if state.Grid[0][4].City.IsPowered {
		t.Fatal("Expected city to be unpowered behind a damaged line")
	}

	next, ok := RepairLine(state, config, Position{X: 1, Y: 0})
	if !ok {
		t.Fatal("Expected repair to succeed")
	}
	if next.Grid[0][1].IsDamaged {
		t.Error("Expected damage flag cleared")
	}
	if next.Budget != state.Budget-50 {
		t.Errorf("Expected repair to cost 50, got %d", state.Budget-next.Budget)
	}
	if !next.Grid[0][4].City.IsPowered {
		t.Error("Expected city to be powered after repair")
	}

	if _, ok := RepairLine(next, config, Position{X: 1, Y: 0}); ok {
		t.Error("Expected repairing an intact line to be rejected")
	}
}

func TestBulldoze(t *testing.T) {
	state, config := createTestState(5)
	buildPoweredRow(state, 0, 100, 50)
	setLine(state, 2, 1, DistributionLine)
	Connect(state.Grid, Position{X: 2, Y: 0}, Position{X: 2, Y: 1})

	next, ok := Bulldoze(state, config, Position{X: 2, Y: 0})
	if !ok {
		t.Fatal("Expected bulldoze to succeed")
	}
	if next.Grid[0][2].Type != Empty || next.Grid[0][2].Connections != 0 {
		t.Errorf("Expected an empty unconnected cell, got %+v", next.Grid[0][2])
	}
	if next.Grid[0][1].Connections.Has(Right) || next.Grid[0][3].Connections.Has(Left) || next.Grid[1][2].Connections.Has(Up) {
		t.Error("Expected neighbor edges toward the bulldozed cell to be cleared")
	}
	if !next.Grid[0][1].Connections.Has(Left) {
		t.Error("Unrelated edges must survive")
	}
	if err := CheckSymmetry(next.Grid); err != nil {
		t.Error(err)
	}
	if next.Budget != state.Budget-25 {
		t.Errorf("Expected bulldoze to cost 25, got %d", state.Budget-next.Budget)
	}
	if next.Grid[0][4].City.IsPowered {
		t.Error("Expected city to lose power once its substation is gone")
	}

	for _, p := range []Position{{X: 4, Y: 0}, {X: 4, Y: 4}, {X: -1, Y: 0}} {
		if _, ok := Bulldoze(next, config, p); ok {
			t.Errorf("Expected bulldoze at %v to be rejected", p)
		}
	}
}

func TestUpgradePlant(t *testing.T) {
	state, config := createTestState(5)
	state, ok := PlacePlant(state, config, Position{X: 0, Y: 0}, Coal)
	if !ok {
		t.Fatal("Expected placement to succeed")
	}

	budget := state.Budget
	next, ok := UpgradePlant(state, config, Position{X: 0, Y: 0})
	if !ok {
		t.Fatal("Expected upgrade to succeed")
	}
	p := next.Grid[0][0].Plant
	if p.Level != 2 || p.BaseOutput != 150 || p.Maintenance != 26 || p.Cost != 900 {
		t.Errorf("Expected level 2, output 150, maintenance 26, cost 900; got %+v", p)
	}
	if next.Budget != budget-900 {
		t.Errorf("Expected budget %d, got %d", budget-900, next.Budget)
	}
	if PlantUpgradeCost(p, config) != 1620 {
		t.Errorf("Expected next upgrade to cost 1620, got %d", PlantUpgradeCost(p, config))
	}

	if _, ok := UpgradePlant(next, config, Position{X: 3, Y: 3}); ok {
		t.Error("Expected upgrade of an empty cell to be rejected")
	}
}

func TestStormProofLine(t *testing.T) {
	state, config := createTestState(5)
	setLine(state, 1, 1, TransmissionLine)
	setLine(state, 2, 1, DistributionLine)

	next, ok := StormProofLine(state, config, Position{X: 1, Y: 1})
	if !ok {
		t.Fatal("Expected storm-proofing to succeed")
	}
	if !next.Grid[1][1].Line.IsStormProof {
		t.Error("Expected segment to be storm-proof")
	}
	if next.Budget != state.Budget-250 {
		t.Errorf("Expected cost 250, got %d", state.Budget-next.Budget)
	}
	if state.Grid[1][1].Line.IsStormProof {
		t.Error("Input state must not change")
	}

	if _, ok := StormProofLine(next, config, Position{X: 1, Y: 1}); ok {
		t.Error("Expected second storm-proofing to be rejected")
	}
	if _, ok := StormProofLine(next, config, Position{X: 2, Y: 1}); ok {
		t.Error("Expected distribution lines to be rejected")
	}
}

func TestResearch(t *testing.T) {
	state, config := createTestState(5)

	if _, ok := BuyResearchPoints(state, config, 0); ok {
		t.Error("Expected zero points to be rejected")
	}
	if _, ok := BuyResearchPoints(state, config, 51); ok {
		t.Error("Expected purchase beyond budget to be rejected")
	}
	broke := state.Clone()
	broke.Budget = 0
	if next, ok := BuyResearchPoints(broke, config, 1<<62); ok {
		t.Errorf("Expected huge purchase with budget 0 to be rejected, got %d points", next.ResearchPoints)
	}
	if _, ok := BuyResearchPoints(state, config, math.MaxInt); ok {
		t.Error("Expected purchase whose cost overflows to be rejected")
	}

	state, ok := BuyResearchPoints(state, config, 40)
	if !ok {
		t.Fatal("Expected purchase to succeed")
	}
	if state.ResearchPoints != 40 || state.Budget != 1000 {
		t.Errorf("Expected 40 points and budget 1000, got %d and %d", state.ResearchPoints, state.Budget)
	}

	if _, ok := UnlockTech(state, config, GridOptimization); ok {
		t.Error("Expected GRID_OPT to be rejected before its prerequisites")
	}
	if missing := state.MissingDependencies(GridOptimization); len(missing) != 2 {
		t.Errorf("Expected two missing prerequisites, got %v", missing)
	}

	state, ok = UnlockTech(state, config, ImproveSolar)
	if !ok {
		t.Fatal("Expected IMPROVE_SOLAR unlock to succeed")
	}
	if state.ResearchPoints != 15 {
		t.Errorf("Expected 15 points left, got %d", state.ResearchPoints)
	}

	again, ok := UnlockTech(state, config, ImproveSolar)
	if ok {
		t.Error("Expected second unlock to be rejected")
	}
	if again.ResearchPoints != state.ResearchPoints {
		t.Error("Second unlock must not spend points")
	}

	if _, ok := UnlockTech(state, config, ImproveBattery); ok {
		t.Error("Expected unlock without enough points to be rejected")
	}
	if _, ok := UnlockTech(state, config, TechID("FUSION")); ok {
		t.Error("Expected unknown tech to be rejected")
	}
}

func TestActionsRejectedWhenGameOver(t *testing.T) {
	state, config := createTestState(5)
	setPlant(state, 0, 0, Coal, 100, 20)
	setLine(state, 1, 1, TransmissionLine)
	state.GameStatus = Won

	if _, ok := PlacePlant(state, config, Position{X: 2, Y: 2}, Coal); ok {
		t.Error("PlacePlant accepted after game over")
	}
	if _, ok := UpgradePlant(state, config, Position{X: 0, Y: 0}); ok {
		t.Error("UpgradePlant accepted after game over")
	}
	if _, ok := Bulldoze(state, config, Position{X: 1, Y: 1}); ok {
		t.Error("Bulldoze accepted after game over")
	}
	if _, ok := BuyResearchPoints(state, config, 1); ok {
		t.Error("BuyResearchPoints accepted after game over")
	}
}
