package engine

// scriptedSource replays fixed rolls. When a queue runs dry it returns 0.99
// for floats (every chance roll fails) and 0 for ints.
type scriptedSource struct {
	floats []float64
	ints   []int
}

func (s *scriptedSource) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.99
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptedSource) IntN(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	if v >= n {
		return n - 1
	}
	return v
}

// createTestState returns an empty Playing state on a size x size grid
func createTestState(size int) (GameState, *GameConfig) {
	config := DefaultConfig()
	config.GridSize = size
	state := GameState{
		Grid:       NewGrid(size),
		Budget:     config.InitialBudget,
		TechTree:   NewTechTree(config),
		Day:        1,
		TimeOfDay:  Day,
		Weather:    Breezy,
		EventLog:   []string{},
		GameStatus: Playing,
		ConfigName: config.Name,
	}
	return state, config
}

func setCity(s GameState, x, y, demand int) {
	s.Grid[y][x] = Cell{Type: City, City: &CityData{Name: "Test Heights", Demand: demand, BaseDemand: demand}}
}

func setPlant(s GameState, x, y int, kind PlantKind, output, maintenance int) {
	s.Grid[y][x] = Cell{Type: Plant, Plant: &PlantData{Kind: kind, Output: output, BaseOutput: output, Cost: 500, Maintenance: maintenance, Level: 1}}
}

func setBattery(s GameState, x, y, charge int) {
	s.Grid[y][x] = Cell{Type: Battery, Battery: &BatteryData{
		BaseCapacity: 200, Capacity: 200, Charge: charge, MaxChargeRate: 50, MaxDischargeRate: 50, Maintenance: 10,
	}}
}

func setSubstation(s GameState, x, y int) {
	s.Grid[y][x] = Cell{Type: Substation, Substation: &SubstationData{Maintenance: 15}}
}

func setLine(s GameState, x, y int, kind LineKind) {
	cell := Cell{Type: kind.CellType()}
	if kind == TransmissionLine {
		cell.Line = &TransmissionData{}
	}
	s.Grid[y][x] = cell
}

// wireRow connects every consecutive cell of row y between x0 and x1
func wireRow(s GameState, y, x0, x1 int) {
	for x := x0; x < x1; x++ {
		Connect(s.Grid, Position{X: x, Y: y}, Position{X: x + 1, Y: y})
	}
}

// buildPoweredRow lays out plant, transmission, substation, distribution and
// a city on row y starting at x=0, fully wired.
func buildPoweredRow(s GameState, y, output, demand int) {
	setPlant(s, 0, y, Coal, output, 20)
	setLine(s, 1, y, TransmissionLine)
	setSubstation(s, 2, y)
	setLine(s, 3, y, DistributionLine)
	setCity(s, 4, y, demand)
	wireRow(s, y, 0, 4)
}
