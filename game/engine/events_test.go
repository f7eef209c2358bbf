package engine

import (
	"testing"
)

func TestApplyEvent_DemandSpike(t *testing.T) {
	state, _ := createTestState(5)
	setCity(state, 0, 0, 50)
	setCity(state, 1, 0, 70)

	next := ApplyEvent(state, DefaultEvents()[0], &scriptedSource{})
	if got := next.Grid[0][0].City.Demand; got != 75 {
		t.Errorf("Expected 75, got %d", got)
	}
	// 70 * 1.5 = 105
	if got := next.Grid[0][1].City.Demand; got != 105 {
		t.Errorf("Expected 105, got %d", got)
	}
	if got := next.Grid[0][1].City.BaseDemand; got != 70 {
		t.Errorf("Base demand must not change, got %d", got)
	}

	reverted := RevertEvent(next, DefaultEvents()[0])
	if got := reverted.Grid[0][1].City.Demand; got != 70 {
		t.Errorf("Expected demand restored to 70, got %d", got)
	}
}

func TestApplyEvent_StormDamage(t *testing.T) {
	tests := []struct {
		name      string
		lines     int
		wantCount int
	}{
		{"single line", 1, 1},
		{"five lines", 5, 1},
		{"six lines", 6, 2},
		{"ten lines", 10, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, _ := createTestState(12)
			for x := 0; x < tt.lines; x++ {
				setLine(state, x, 0, TransmissionLine)
			}
			setLine(state, 0, 1, TransmissionLine)
			state.Grid[1][0].Line.IsStormProof = true
			setLine(state, 1, 1, DistributionLine)

			next := ApplyEvent(state, DefaultEvents()[1], &scriptedSource{ints: []int{0, 0, 0}})

			if got := CountDamagedLines(next.Grid); got != tt.wantCount {
				t.Errorf("Expected %d damaged lines, got %d", tt.wantCount, got)
			}
			if next.Grid[1][0].IsDamaged || next.Grid[1][1].IsDamaged {
				t.Error("Storm-proof and distribution lines must not be damaged")
			}
		})
	}
}

func TestApplyEvent_StormWithoutLines(t *testing.T) {
	state, _ := createTestState(5)
	next := ApplyEvent(state, DefaultEvents()[1], &scriptedSource{})
	if CountDamagedLines(next.Grid) != 0 {
		t.Error("Expected no damage on a grid without lines")
	}
}

func TestApplyEvent_Subsidy(t *testing.T) {
	state, _ := createTestState(5)
	next := ApplyEvent(state, DefaultEvents()[2], &scriptedSource{})
	if next.Budget != state.Budget+1000 {
		t.Errorf("Expected budget %d, got %d", state.Budget+1000, next.Budget)
	}
	if reverted := RevertEvent(next, DefaultEvents()[2]); reverted.Budget != next.Budget {
		t.Error("Subsidy must not be clawed back when it ends")
	}
}

func TestEventSpecValidate(t *testing.T) {
	for _, ev := range DefaultEvents() {
		if err := ev.Validate(); err != nil {
			t.Errorf("Default event %s invalid: %v", ev.Kind, err)
		}
	}

	bad := []EventSpec{
		{Kind: DemandSpike, Message: "x", Duration: 1},
		{Kind: StormDamage, Message: "x", Duration: 1, DamageFraction: 2},
		{Kind: Subsidy, Message: "", Duration: 1},
		{Kind: EventKind("METEOR"), Message: "x", Duration: 1},
	}
	for _, ev := range bad {
		if err := ev.Validate(); err == nil {
			t.Errorf("Expected %+v to be invalid", ev)
		}
	}
}
