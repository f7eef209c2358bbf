package engine

import (
	"fmt"
)

// PlantSpec is the catalog entry for a plant kind
type PlantSpec struct {
	Output      int `json:"output" yaml:"output"`
	Cost        int `json:"cost" yaml:"cost"`
	Maintenance int `json:"maintenance" yaml:"maintenance"`
}

// BatterySpec is the catalog entry for a battery bank
type BatterySpec struct {
	Capacity         int `json:"capacity" yaml:"capacity"`
	MaxChargeRate    int `json:"max_charge_rate" yaml:"max_charge_rate"`
	MaxDischargeRate int `json:"max_discharge_rate" yaml:"max_discharge_rate"`
	Maintenance      int `json:"maintenance" yaml:"maintenance"`
}

// WeatherEffect holds the wind multiplier and line damage chance of a weather state
type WeatherEffect struct {
	Wind         float64 `json:"wind" yaml:"wind"`
	DamageChance float64 `json:"damage_chance" yaml:"damage_chance"`
}

// TechSpec is the catalog entry for a research tech
type TechSpec struct {
	Name         string   `json:"name" yaml:"name"`
	Description  string   `json:"description" yaml:"description"`
	Cost         int      `json:"cost" yaml:"cost"`
	Dependencies []TechID `json:"dependencies" yaml:"dependencies"`
}

// TechModifiers are the multipliers applied once the matching tech is unlocked
type TechModifiers struct {
	SolarBoost          float64 `json:"solar_boost" yaml:"solar_boost"`
	BatteryBoost        float64 `json:"battery_boost" yaml:"battery_boost"`
	MaintenanceDiscount float64 `json:"maintenance_discount" yaml:"maintenance_discount"`
}

// GameConfig holds every tunable of a game. Loaded from JSON or YAML on top of
// DefaultConfig, so files only need the fields they change.
type GameConfig struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`

	GridSize       int      `json:"grid_size" yaml:"grid_size"`
	InitialBudget  int      `json:"initial_budget" yaml:"initial_budget"`
	MinCities      int      `json:"min_cities" yaml:"min_cities"`
	ExtraCities    int      `json:"extra_cities" yaml:"extra_cities"`
	CityDemandMin  int      `json:"city_demand_min" yaml:"city_demand_min"`
	CityDemandStep int      `json:"city_demand_step" yaml:"city_demand_step"`
	CityDemandSpan int      `json:"city_demand_span" yaml:"city_demand_span"`
	CityNames      []string `json:"city_names" yaml:"city_names"`
	CitySuffix     string   `json:"city_suffix" yaml:"city_suffix"`

	TransmissionLineCost    int `json:"transmission_line_cost" yaml:"transmission_line_cost"`
	DistributionLineCost    int `json:"distribution_line_cost" yaml:"distribution_line_cost"`
	BulldozeCost            int `json:"bulldoze_cost" yaml:"bulldoze_cost"`
	SubstationCost          int `json:"substation_cost" yaml:"substation_cost"`
	BatteryBankCost         int `json:"battery_bank_cost" yaml:"battery_bank_cost"`
	TransmissionUpgradeCost int `json:"transmission_upgrade_cost" yaml:"transmission_upgrade_cost"`

	PlantUpgradeCostMultiplier        float64 `json:"plant_upgrade_cost_multiplier" yaml:"plant_upgrade_cost_multiplier"`
	PlantUpgradeOutputMultiplier      float64 `json:"plant_upgrade_output_multiplier" yaml:"plant_upgrade_output_multiplier"`
	PlantUpgradeMaintenanceMultiplier float64 `json:"plant_upgrade_maintenance_multiplier" yaml:"plant_upgrade_maintenance_multiplier"`

	IncomePerMW        int     `json:"income_per_mw" yaml:"income_per_mw"`
	StabilityBonus     float64 `json:"stability_bonus" yaml:"stability_bonus"`
	StabilityThreshold float64 `json:"stability_threshold" yaml:"stability_threshold"`
	CityGrowthChance   float64 `json:"city_growth_chance" yaml:"city_growth_chance"`
	CityGrowthAmount   int     `json:"city_growth_amount" yaml:"city_growth_amount"`
	EventChance        float64 `json:"event_chance" yaml:"event_chance"`

	ResearchCostPerPoint  int `json:"research_cost_per_point" yaml:"research_cost_per_point"`
	SubstationMaintenance int `json:"substation_maintenance" yaml:"substation_maintenance"`
	LineMaintenance       int `json:"line_maintenance" yaml:"line_maintenance"`

	Plants    map[PlantKind]PlantSpec   `json:"plants" yaml:"plants"`
	Battery   BatterySpec               `json:"battery" yaml:"battery"`
	Weather   map[Weather]WeatherEffect `json:"weather" yaml:"weather"`
	Techs     map[TechID]TechSpec       `json:"techs" yaml:"techs"`
	Modifiers TechModifiers             `json:"modifiers" yaml:"modifiers"`
	Events    []EventSpec               `json:"events" yaml:"events"`
}

// DefaultConfig returns the classic game tuning
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Name:           "classic",
		Description:    "Power a randomly seeded 15x15 region before the money runs out.",
		GridSize:       15,
		InitialBudget:  5000,
		MinCities:      5,
		ExtraCities:    3,
		CityDemandMin:  50,
		CityDemandStep: 10,
		CityDemandSpan: 6,
		CityNames: []string{
			"Aurora", "Beacon", "Cascade", "Diamond", "Emerald", "Falcon", "Garnet", "Horizon", "Ivory",
			"Jade", "Krypton", "Lagoon", "Maple", "Nova", "Onyx", "Pearl", "Quartz", "Ruby", "Sapphire",
			"Topaz", "Utopia", "Valor", "Willow", "Xenon", "Yarrow", "Zephyr",
		},
		CitySuffix: "Heights",

		TransmissionLineCost:    50,
		DistributionLineCost:    20,
		BulldozeCost:            25,
		SubstationCost:          300,
		BatteryBankCost:         400,
		TransmissionUpgradeCost: 250,

		PlantUpgradeCostMultiplier:        1.8,
		PlantUpgradeOutputMultiplier:      1.5,
		PlantUpgradeMaintenanceMultiplier: 1.3,

		IncomePerMW:        1,
		StabilityBonus:     0.15,
		StabilityThreshold: 0.2,
		CityGrowthChance:   0.1,
		CityGrowthAmount:   10,
		EventChance:        0.2,

		ResearchCostPerPoint:  100,
		SubstationMaintenance: 15,
		LineMaintenance:       1,

		Plants: map[PlantKind]PlantSpec{
			Coal:    {Output: 100, Cost: 500, Maintenance: 20},
			Solar:   {Output: 50, Cost: 350, Maintenance: 10},
			Wind:    {Output: 60, Cost: 400, Maintenance: 15},
			Nuclear: {Output: 500, Cost: 2000, Maintenance: 100},
		},
		Battery: BatterySpec{Capacity: 200, MaxChargeRate: 50, MaxDischargeRate: 50, Maintenance: 10},
		Weather: map[Weather]WeatherEffect{
			Calm:   {Wind: 0.25, DamageChance: 0},
			Breezy: {Wind: 1.0, DamageChance: 0},
			Windy:  {Wind: 1.5, DamageChance: 0.05},
		},
		Techs: map[TechID]TechSpec{
			UnlockWind:       {Name: "Advanced Turbines", Description: "Unlocks Wind Turbines for construction.", Cost: 10, Dependencies: []TechID{}},
			ImproveSolar:     {Name: "Improved Solar Panels", Description: "Increases base output of all Solar Plants by 20%.", Cost: 25, Dependencies: []TechID{}},
			ImproveBattery:   {Name: "High-Capacity Batteries", Description: "Increases capacity of all Battery Banks by 50%.", Cost: 20, Dependencies: []TechID{}},
			GridOptimization: {Name: "Grid Optimization", Description: "Reduces all maintenance costs by 10%.", Cost: 40, Dependencies: []TechID{ImproveSolar, ImproveBattery}},
		},
		Modifiers: TechModifiers{SolarBoost: 1.2, BatteryBoost: 1.5, MaintenanceDiscount: 0.9},
		Events:    DefaultEvents(),
	}
}

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}

	if config.GridSize < MinGridSize || config.GridSize > MaxGridSize {
		return fmt.Errorf("config validation: grid_size must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.GridSize)
	}
	if config.MinCities < 0 || config.ExtraCities < 1 {
		return fmt.Errorf("config validation: min_cities must be >= 0 and extra_cities >= 1")
	}
	if maxCities := config.MinCities + config.ExtraCities - 1; maxCities > config.GridSize*config.GridSize {
		return fmt.Errorf("config validation: up to %d cities do not fit a %dx%d grid", maxCities, config.GridSize, config.GridSize)
	}
	if config.CityDemandMin <= 0 || config.CityDemandStep < 0 || config.CityDemandSpan < 1 {
		return fmt.Errorf("config validation: city demand range is invalid")
	}
	if len(config.CityNames) == 0 {
		return fmt.Errorf("config validation: city_names must not be empty")
	}

	costs := map[string]int{
		"transmission_line_cost":    config.TransmissionLineCost,
		"distribution_line_cost":    config.DistributionLineCost,
		"bulldoze_cost":             config.BulldozeCost,
		"substation_cost":           config.SubstationCost,
		"battery_bank_cost":         config.BatteryBankCost,
		"transmission_upgrade_cost": config.TransmissionUpgradeCost,
		"research_cost_per_point":   config.ResearchCostPerPoint,
	}
	for name, cost := range costs {
		if cost < 0 {
			return fmt.Errorf("config validation: %s must not be negative, got %d", name, cost)
		}
	}
	if config.PlantUpgradeCostMultiplier < 1 || config.PlantUpgradeOutputMultiplier < 1 || config.PlantUpgradeMaintenanceMultiplier <= 0 {
		return fmt.Errorf("config validation: plant upgrade multipliers are invalid")
	}

	probabilities := map[string]float64{
		"city_growth_chance":  config.CityGrowthChance,
		"event_chance":        config.EventChance,
		"stability_bonus":     config.StabilityBonus,
		"stability_threshold": config.StabilityThreshold,
	}
	for name, p := range probabilities {
		if p < 0 || p > 1 {
			return fmt.Errorf("config validation: %s must be within [0,1], got %v", name, p)
		}
	}

	for _, kind := range PlantKinds {
		spec, ok := config.Plants[kind]
		if !ok {
			return fmt.Errorf("config validation: plants[%s] is required", kind)
		}
		if spec.Output < 0 || spec.Cost < 0 || spec.Maintenance < 0 {
			return fmt.Errorf("config validation: plants[%s] values must not be negative", kind)
		}
	}
	if b := config.Battery; b.Capacity <= 0 || b.MaxChargeRate < 0 || b.MaxDischargeRate < 0 || b.Maintenance < 0 {
		return fmt.Errorf("config validation: battery spec is invalid")
	}
	for _, w := range Weathers {
		effect, ok := config.Weather[w]
		if !ok {
			return fmt.Errorf("config validation: weather[%s] is required", w)
		}
		if effect.Wind < 0 || effect.DamageChance < 0 || effect.DamageChance > 1 {
			return fmt.Errorf("config validation: weather[%s] values are out of range", w)
		}
	}
	if err := validateTechs(config.Techs); err != nil {
		return err
	}
	if m := config.Modifiers; m.SolarBoost <= 0 || m.BatteryBoost <= 0 || m.MaintenanceDiscount <= 0 {
		return fmt.Errorf("config validation: tech modifiers must be positive")
	}
	for i, ev := range config.Events {
		if err := ev.Validate(); err != nil {
			return fmt.Errorf("config validation: events[%d]: %w", i, err)
		}
	}

	return nil
}

// validateTechs checks that every tech is present, dependencies are known and
// the dependency graph has no cycle.
func validateTechs(techs map[TechID]TechSpec) error {
	for _, id := range TechIDs {
		if _, ok := techs[id]; !ok {
			return fmt.Errorf("config validation: techs[%s] is required", id)
		}
	}
	for id, spec := range techs {
		if spec.Cost < 0 {
			return fmt.Errorf("config validation: techs[%s].cost must not be negative", id)
		}
		for _, dep := range spec.Dependencies {
			if _, ok := techs[dep]; !ok {
				return fmt.Errorf("config validation: techs[%s] depends on unknown tech %s", id, dep)
			}
		}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	marks := make(map[TechID]int, len(techs))
	var visit func(id TechID) error
	visit = func(id TechID) error {
		switch marks[id] {
		case visiting:
			return fmt.Errorf("config validation: tech dependency cycle through %s", id)
		case done:
			return nil
		}
		marks[id] = visiting
		for _, dep := range techs[id].Dependencies {
			if err := visit(dep); err != nil {
				return err
			}
		}
		marks[id] = done
		return nil
	}
	for id := range techs {
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}

// PlantCost returns the build price of a plant kind
func (c *GameConfig) PlantCost(kind PlantKind) int {
	return c.Plants[kind].Cost
}

// LineCost returns the per-segment price of a line kind
func (c *GameConfig) LineCost(kind LineKind) int {
	if kind == TransmissionLine {
		return c.TransmissionLineCost
	}
	return c.DistributionLineCost
}
