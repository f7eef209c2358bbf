package service

import (
	"time"

	"github.com/wricardo/mcp-training/gridtycoon/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	Seed           uint64             `json:"seed"`
	Paused         bool               `json:"paused"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// ActionResult contains the result of a player action or a day advance
type ActionResult struct {
	Success   bool                       `json:"success"`
	Action    string                     `json:"action"`
	Message   string                     `json:"message"`
	Cost      int                        `json:"cost,omitempty"`
	GameState *engine.GameState          `json:"game_state"`
	Entry     *engine.ActionHistoryEntry `json:"entry,omitempty"`
	Events    []GameEvent                `json:"events,omitempty"`
	Summary   *GridSummary               `json:"summary,omitempty"`
}

// GridSummary is a compact digest of a snapshot's economy and connectivity
type GridSummary struct {
	Day              int               `json:"day"`
	TimeOfDay        engine.TimeOfDay  `json:"time_of_day"`
	Weather          engine.Weather    `json:"weather"`
	Budget           int               `json:"budget"`
	ResearchPoints   int               `json:"research_points"`
	PoweredCities    int               `json:"powered_cities"`
	TotalCities      int               `json:"total_cities"`
	EffectiveSupply  int               `json:"effective_supply"`
	TotalDemand      int               `json:"total_demand"`
	DailyIncome      int               `json:"daily_income"`
	DailyMaintenance int               `json:"daily_maintenance"`
	DamagedLines     int               `json:"damaged_lines"`
	ActiveEvent      string            `json:"active_event,omitempty"`
	GameStatus       engine.GameStatus `json:"game_status"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string           `json:"type"` // "action", "log", "won", "lost", "reset"
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Position  *engine.Position `json:"position,omitempty"`
}

// BuildingRequest places a plant, substation or battery
type BuildingRequest struct {
	Type      engine.CellType  `json:"type"`
	PlantKind engine.PlantKind `json:"plant_kind,omitempty"`
	Position  engine.Position  `json:"position"`
}

// LineRequest routes a line between two cells
type LineRequest struct {
	Kind  engine.LineKind `json:"kind"`
	Start engine.Position `json:"start"`
	End   engine.Position `json:"end"`
}

// PathPreview is the route and price a line tool would use
type PathPreview struct {
	Kind       engine.LineKind   `json:"kind"`
	Path       []engine.Position `json:"path"`
	Segments   int               `json:"segments"`
	Cost       int               `json:"cost"`
	Affordable bool              `json:"affordable"`
	Found      bool              `json:"found"`
}

// CellInfo describes one grid cell
type CellInfo struct {
	Position    engine.Position `json:"position"`
	Cell        engine.Cell     `json:"cell"`
	Description string          `json:"description"`
	UpgradeCost int             `json:"upgrade_cost,omitempty"`
}

// HistoryOptions configures action history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated action history
type HistoryResponse struct {
	Actions      []engine.ActionHistoryEntry `json:"actions"`
	TotalActions int                         `json:"total_actions"`
	Page         int                         `json:"page"`
	PageSize     int                         `json:"page_size"`
	TotalPages   int                         `json:"total_pages"`
	HasNext      bool                        `json:"has_next"`
	HasPrevious  bool                        `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename      string `json:"filename,omitempty"`
	ConfigID      string `json:"config_id"` // The identifier to use for session creation
	Name          string `json:"name"`      // Display name
	Description   string `json:"description"`
	Format        string `json:"format,omitempty"`
	GridSize      int    `json:"grid_size"`
	InitialBudget int    `json:"initial_budget"`
}

// Summarize builds a GridSummary from a snapshot
func Summarize(state *engine.GameState) *GridSummary {
	if state == nil {
		return nil
	}
	powered, total := engine.CountPoweredCities(state.Grid)
	summary := &GridSummary{
		Day:              state.Day,
		TimeOfDay:        state.TimeOfDay,
		Weather:          state.Weather,
		Budget:           state.Budget,
		ResearchPoints:   state.ResearchPoints,
		PoweredCities:    powered,
		TotalCities:      total,
		EffectiveSupply:  state.EffectiveSupply,
		TotalDemand:      state.TotalDemand,
		DailyIncome:      state.DailyIncome,
		DailyMaintenance: state.DailyMaintenance,
		DamagedLines:     engine.CountDamagedLines(state.Grid),
		GameStatus:       state.GameStatus,
	}
	if state.ActiveEvent != nil {
		summary.ActiveEvent = state.ActiveEvent.Event.Message
	}
	return summary
}
