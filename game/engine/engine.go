package engine

import (
	"fmt"
	"time"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	SetState(state *GameState) error
	Reset() *GameState
	IsGameOver() bool
	GetBudget() int

	// Simulation
	AdvanceDay() *GameState
	Recalculate() *GameState

	// Player actions
	PlacePlant(p Position, kind PlantKind) bool
	PlaceSubstation(p Position) bool
	PlaceBattery(p Position) bool
	BuildLine(start, end Position, kind LineKind) bool
	RepairLine(p Position) bool
	Bulldoze(p Position) bool
	UpgradePlant(p Position) bool
	StormProofLine(p Position) bool
	BuyResearchPoints(amount int) bool
	UnlockTech(id TechID) bool

	// Routing preview
	FindPath(start, end Position, kind LineKind) []Position

	// Configuration
	GetConfig() *GameConfig
	SetConfig(config *GameConfig) error

	// History
	GetActionHistory() []ActionHistoryEntry
	GetLastAction() *ActionHistoryEntry
}

// GameEngine implements the Engine interface. It owns one game's current
// snapshot and replaces it wholesale on every applied action.
type GameEngine struct {
	state   *GameState
	config  *GameConfig
	rng     Source
	history []ActionHistoryEntry
}

// NewEngine creates a new game engine with the provided configuration and random source
func NewEngine(config *GameConfig, rng Source) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = NewRandomSource()
	}

	state := InitGame(config, rng)
	return &GameEngine{
		config: config,
		rng:    rng,
		state:  &state,
	}, nil
}

// GetState returns the current game state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// SetState replaces the game state. The grid must match the config's size.
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if len(state.Grid) != e.config.GridSize {
		return fmt.Errorf("state grid has %d rows, config expects %d", len(state.Grid), e.config.GridSize)
	}
	e.state = state
	return nil
}

// Reset starts a new game from the config, keeping the action history
func (e *GameEngine) Reset() *GameState {
	state := InitGame(e.config, e.rng)
	e.state = &state
	e.record("reset", nil, nil, "", true)
	return e.state
}

// IsGameOver returns whether the game has reached a terminal status
func (e *GameEngine) IsGameOver() bool {
	return e.state.GameStatus != Playing
}

// GetBudget returns the current budget
func (e *GameEngine) GetBudget() int {
	return e.state.Budget
}

// AdvanceDay runs one scheduler step
func (e *GameEngine) AdvanceDay() *GameState {
	next := AdvanceDay(*e.state, e.config, e.rng)
	e.state = &next
	return e.state
}

// Recalculate reruns the power solver on the current state
func (e *GameEngine) Recalculate() *GameState {
	next := RecalculatePower(*e.state, e.config)
	e.state = &next
	return e.state
}

// apply swaps in the result of an action when it applied, and records it
func (e *GameEngine) apply(action string, pos, target *Position, detail string, next GameState, ok bool) bool {
	if ok {
		e.state = &next
	}
	e.record(action, pos, target, detail, ok)
	return ok
}

// PlacePlant builds a plant of the given kind
func (e *GameEngine) PlacePlant(p Position, kind PlantKind) bool {
	next, ok := PlacePlant(*e.state, e.config, p, kind)
	return e.apply("place_plant", &p, nil, string(kind), next, ok)
}

// PlaceSubstation builds a substation
func (e *GameEngine) PlaceSubstation(p Position) bool {
	next, ok := PlaceSubstation(*e.state, e.config, p)
	return e.apply("place_substation", &p, nil, "", next, ok)
}

// PlaceBattery builds a battery bank
func (e *GameEngine) PlaceBattery(p Position) bool {
	next, ok := PlaceBattery(*e.state, e.config, p)
	return e.apply("place_battery", &p, nil, "", next, ok)
}

// BuildLine routes and builds a line between two occupied cells
func (e *GameEngine) BuildLine(start, end Position, kind LineKind) bool {
	next, ok := BuildLine(*e.state, e.config, start, end, kind)
	return e.apply("build_line", &start, &end, string(kind), next, ok)
}

// RepairLine repairs a damaged transmission segment
func (e *GameEngine) RepairLine(p Position) bool {
	next, ok := RepairLine(*e.state, e.config, p)
	return e.apply("repair_line", &p, nil, "", next, ok)
}

// Bulldoze clears a structure
func (e *GameEngine) Bulldoze(p Position) bool {
	next, ok := Bulldoze(*e.state, e.config, p)
	return e.apply("bulldoze", &p, nil, "", next, ok)
}

// UpgradePlant upgrades a plant by one level
func (e *GameEngine) UpgradePlant(p Position) bool {
	next, ok := UpgradePlant(*e.state, e.config, p)
	return e.apply("upgrade_plant", &p, nil, "", next, ok)
}

// StormProofLine storm-proofs a transmission segment
func (e *GameEngine) StormProofLine(p Position) bool {
	next, ok := StormProofLine(*e.state, e.config, p)
	return e.apply("storm_proof", &p, nil, "", next, ok)
}

// BuyResearchPoints buys research points
func (e *GameEngine) BuyResearchPoints(amount int) bool {
	next, ok := BuyResearchPoints(*e.state, e.config, amount)
	return e.apply("buy_research", nil, nil, fmt.Sprintf("%d", amount), next, ok)
}

// UnlockTech unlocks a research tech
func (e *GameEngine) UnlockTech(id TechID) bool {
	next, ok := UnlockTech(*e.state, e.config, id)
	return e.apply("unlock_tech", nil, nil, string(id), next, ok)
}

// FindPath previews the route a line tool would take on the current grid
func (e *GameEngine) FindPath(start, end Position, kind LineKind) []Position {
	return FindPath(start, end, e.state.Grid, kind)
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// SetConfig switches to a new configuration and starts a fresh game on it.
// The switch is recorded as a reset carrying the config name.
func (e *GameEngine) SetConfig(config *GameConfig) error {
	if err := ValidateGameConfig(config); err != nil {
		return err
	}

	previous := e.config
	e.config = config
	state := InitGame(config, e.rng)
	if err := e.SetState(&state); err != nil {
		e.config = previous
		return err
	}
	e.record("reset", nil, nil, config.Name, true)
	return nil
}

// GetActionHistory returns the complete action history
func (e *GameEngine) GetActionHistory() []ActionHistoryEntry {
	return e.history
}

// GetLastAction returns the last action taken, or nil if none
func (e *GameEngine) GetLastAction() *ActionHistoryEntry {
	if len(e.history) == 0 {
		return nil
	}
	return &e.history[len(e.history)-1]
}

func (e *GameEngine) record(action string, pos, target *Position, detail string, success bool) {
	e.history = append(e.history, ActionHistoryEntry{
		Action:       action,
		Position:     pos,
		Target:       target,
		Detail:       detail,
		Budget:       e.state.Budget,
		Day:          e.state.Day,
		Timestamp:    time.Now().Unix(),
		Success:      success,
		ActionNumber: len(e.history) + 1,
	})
}
