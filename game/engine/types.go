package engine

// CellType represents different types of grid cells
type CellType string

const (
	Empty        CellType = "EMPTY"
	City         CellType = "CITY"
	Plant        CellType = "PLANT"
	Transmission CellType = "TRANSMISSION"
	Substation   CellType = "SUBSTATION"
	Battery      CellType = "BATTERY"
	Distribution CellType = "DISTRIBUTION"
)

// Validation constants
const (
	MinGridSize     = 5
	MaxGridSize     = 50
	MaxEventLog     = 10
	MaxAdvanceSteps = 50
)

// PlantKind identifies the generation technology of a plant
type PlantKind string

const (
	Coal    PlantKind = "COAL"
	Solar   PlantKind = "SOLAR"
	Wind    PlantKind = "WIND"
	Nuclear PlantKind = "NUCLEAR"
)

// PlantKinds lists every plant kind in catalog order
var PlantKinds = []PlantKind{Coal, Solar, Wind, Nuclear}

// Weather is the current wind regime
type Weather string

const (
	Calm   Weather = "CALM"
	Breezy Weather = "BREEZY"
	Windy  Weather = "WINDY"
)

// Weathers lists the weather states in roll order
var Weathers = []Weather{Calm, Breezy, Windy}

// TimeOfDay is the half-day phase
type TimeOfDay string

const (
	Day   TimeOfDay = "DAY"
	Night TimeOfDay = "NIGHT"
)

// GameStatus is the game's lifecycle state. Won and Lost are terminal.
type GameStatus string

const (
	Playing GameStatus = "PLAYING"
	Won     GameStatus = "WON"
	Lost    GameStatus = "LOST"
)

// TechID identifies a research tech
type TechID string

const (
	UnlockWind       TechID = "UNLOCK_WIND"
	ImproveSolar     TechID = "IMPROVE_SOLAR"
	ImproveBattery   TechID = "IMPROVE_BATTERY"
	GridOptimization TechID = "GRID_OPTIMIZATION"
)

// TechIDs lists every tech in catalog order
var TechIDs = []TechID{UnlockWind, ImproveSolar, ImproveBattery, GridOptimization}

// LineKind selects the line tool used when routing
type LineKind string

const (
	TransmissionLine LineKind = "TRANSMISSION"
	DistributionLine LineKind = "DISTRIBUTION"
)

// CellType returns the cell type materialized for a line kind
func (k LineKind) CellType() CellType {
	if k == TransmissionLine {
		return Transmission
	}
	return Distribution
}

// Position represents x,y coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// PlantData is the payload of a Plant cell
type PlantData struct {
	Kind        PlantKind `json:"kind"`
	Output      int       `json:"output"`
	BaseOutput  int       `json:"base_output"`
	Cost        int       `json:"cost"`
	Maintenance int       `json:"maintenance"`
	Level       int       `json:"level"`
}

// CityData is the payload of a City cell
type CityData struct {
	Name       string `json:"name"`
	Demand     int    `json:"demand"`
	BaseDemand int    `json:"base_demand"`
	IsPowered  bool   `json:"is_powered"`
}

// TransmissionData is the payload of a Transmission cell
type TransmissionData struct {
	IsStormProof bool `json:"is_storm_proof"`
}

// SubstationData is the payload of a Substation cell
type SubstationData struct {
	Maintenance int `json:"maintenance"`
}

// BatteryData is the payload of a Battery cell. Capacity is recomputed from
// BaseCapacity on every solver run; Charge persists across ticks.
type BatteryData struct {
	BaseCapacity     int `json:"base_capacity"`
	Capacity         int `json:"capacity"`
	Charge           int `json:"charge"`
	MaxChargeRate    int `json:"max_charge_rate"`
	MaxDischargeRate int `json:"max_discharge_rate"`
	Maintenance      int `json:"maintenance"`
}

// Cell represents a single grid cell. Type selects which payload pointer is
// populated; every other payload is nil.
type Cell struct {
	Type        CellType          `json:"type"`
	Plant       *PlantData        `json:"plant,omitempty"`
	City        *CityData         `json:"city,omitempty"`
	Line        *TransmissionData `json:"line,omitempty"`
	Substation  *SubstationData   `json:"substation,omitempty"`
	Battery     *BatteryData      `json:"battery,omitempty"`
	Connections Connections       `json:"connections"`
	IsDamaged   bool              `json:"is_damaged,omitempty"`
}

// ResearchTech is one entry of the tech tree
type ResearchTech struct {
	ID           TechID   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Cost         int      `json:"cost"`
	Dependencies []TechID `json:"dependencies"`
	Unlocked     bool     `json:"unlocked"`
}

// ActiveEvent is the currently running random event
type ActiveEvent struct {
	Event     EventSpec `json:"event"`
	Remaining int       `json:"remaining"`
}

// GameState represents the complete game state. Engine functions take a
// GameState by value and return a new one; they never mutate the caller's grid.
type GameState struct {
	Grid           [][]Cell                `json:"grid"`
	Budget         int                     `json:"budget"`
	ResearchPoints int                     `json:"research_points"`
	TechTree       map[TechID]ResearchTech `json:"tech_tree"`
	Day            int                     `json:"day"`
	TimeOfDay      TimeOfDay               `json:"time_of_day"`
	Weather        Weather                 `json:"weather"`
	ActiveEvent    *ActiveEvent            `json:"active_event,omitempty"`
	EventLog       []string                `json:"event_log"`
	GameStatus     GameStatus              `json:"game_status"`
	Message        string                  `json:"message"`
	ConfigName     string                  `json:"config_name"`

	// Derived by RecalculatePower
	ProductionSupply     int `json:"production_supply"`
	PowerFromBatteries   int `json:"power_from_batteries"`
	EffectiveSupply      int `json:"effective_supply"`
	TotalDemand          int `json:"total_demand"`
	PoweredDemand        int `json:"powered_demand"`
	DailyIncome          int `json:"daily_income"`
	DailyMaintenance     int `json:"daily_maintenance"`
	GridStabilityBonus   int `json:"grid_stability_bonus"`
	TotalBatteryCapacity int `json:"total_battery_capacity"`
	TotalBatteryCharge   int `json:"total_battery_charge"`
}

// ActionHistoryEntry represents a single player action in the history
type ActionHistoryEntry struct {
	Action       string    `json:"action"`
	Position     *Position `json:"position,omitempty"`
	Target       *Position `json:"target,omitempty"`
	Detail       string    `json:"detail,omitempty"`
	Budget       int       `json:"budget"`
	Day          int       `json:"day"`
	Timestamp    int64     `json:"timestamp"`
	Success      bool      `json:"success"`
	ActionNumber int       `json:"action_number"`
}
