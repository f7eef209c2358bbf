package api

import (
	"context"
	"time"

	"github.com/wricardo/mcp-training/gridtycoon/game/engine"
	"github.com/wricardo/mcp-training/gridtycoon/game/service"
)

// MockGameService implements service.GameService for testing
type MockGameService struct {
	// Session Management
	CreateSessionFunc func(ctx context.Context, configName string, seed *uint64) (*service.SessionInfo, error)
	GetSessionFunc    func(ctx context.Context, sessionID string) (*service.SessionInfo, error)
	ListSessionsFunc  func(ctx context.Context) ([]*service.SessionInfo, error)
	DeleteSessionFunc func(ctx context.Context, sessionID string) error
	SetPausedFunc     func(ctx context.Context, sessionID string, paused bool) (*service.SessionInfo, error)

	// Simulation
	AdvanceDayFunc func(ctx context.Context, sessionID string, steps int) (*service.ActionResult, error)
	ResetFunc      func(ctx context.Context, sessionID, configName string) (*engine.GameState, error)

	// Player Actions
	PlaceBuildingFunc  func(ctx context.Context, sessionID string, req service.BuildingRequest) (*service.ActionResult, error)
	BuildLineFunc      func(ctx context.Context, sessionID string, req service.LineRequest) (*service.ActionResult, error)
	PositionActionFunc func(ctx context.Context, action, sessionID string, pos engine.Position) (*service.ActionResult, error)
	BuyResearchFunc    func(ctx context.Context, sessionID string, amount int) (*service.ActionResult, error)
	UnlockTechFunc     func(ctx context.Context, sessionID string, tech engine.TechID) (*service.ActionResult, error)

	// Inspection
	GetGameStateFunc     func(ctx context.Context, sessionID string) (*engine.GameState, error)
	PreviewPathFunc      func(ctx context.Context, sessionID string, req service.LineRequest) (*service.PathPreview, error)
	InspectCellFunc      func(ctx context.Context, sessionID string, pos engine.Position) (*service.CellInfo, error)
	GetActionHistoryFunc func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error)

	// Configuration
	ListConfigsFunc func(ctx context.Context) ([]*service.ConfigInfo, error)
	LoadConfigFunc  func(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfigFunc  func(ctx context.Context, configName string, config *engine.GameConfig) error
}

func okResult(action string) *service.ActionResult {
	state := &engine.GameState{Budget: 5000, GameStatus: engine.Playing}
	return &service.ActionResult{Success: true, Action: action, GameState: state, Summary: service.Summarize(state)}
}

func (m *MockGameService) CreateSession(ctx context.Context, configName string, seed *uint64) (*service.SessionInfo, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, configName, seed)
	}
	return &service.SessionInfo{
		ID:         "test-session",
		ConfigName: configName,
		CreatedAt:  time.Now(),
	}, nil
}

func (m *MockGameService) GetSession(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	return &service.SessionInfo{
		ID:         sessionID,
		ConfigName: "test-config",
		CreatedAt:  time.Now(),
	}, nil
}

func (m *MockGameService) ListSessions(ctx context.Context) ([]*service.SessionInfo, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx)
	}
	return []*service.SessionInfo{}, nil
}

func (m *MockGameService) DeleteSession(ctx context.Context, sessionID string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, sessionID)
	}
	return nil
}

func (m *MockGameService) SetPaused(ctx context.Context, sessionID string, paused bool) (*service.SessionInfo, error) {
	if m.SetPausedFunc != nil {
		return m.SetPausedFunc(ctx, sessionID, paused)
	}
	return &service.SessionInfo{ID: sessionID, Paused: paused}, nil
}

func (m *MockGameService) AdvanceDay(ctx context.Context, sessionID string, steps int) (*service.ActionResult, error) {
	if m.AdvanceDayFunc != nil {
		return m.AdvanceDayFunc(ctx, sessionID, steps)
	}
	return okResult("advance_day"), nil
}

func (m *MockGameService) Reset(ctx context.Context, sessionID, configName string) (*engine.GameState, error) {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, sessionID, configName)
	}
	return &engine.GameState{Day: 1}, nil
}

func (m *MockGameService) PlaceBuilding(ctx context.Context, sessionID string, req service.BuildingRequest) (*service.ActionResult, error) {
	if m.PlaceBuildingFunc != nil {
		return m.PlaceBuildingFunc(ctx, sessionID, req)
	}
	return okResult("place_plant"), nil
}

func (m *MockGameService) BuildLine(ctx context.Context, sessionID string, req service.LineRequest) (*service.ActionResult, error) {
	if m.BuildLineFunc != nil {
		return m.BuildLineFunc(ctx, sessionID, req)
	}
	return okResult("build_line"), nil
}

func (m *MockGameService) positionAction(ctx context.Context, action, sessionID string, pos engine.Position) (*service.ActionResult, error) {
	if m.PositionActionFunc != nil {
		return m.PositionActionFunc(ctx, action, sessionID, pos)
	}
	return okResult(action), nil
}

func (m *MockGameService) RepairLine(ctx context.Context, sessionID string, pos engine.Position) (*service.ActionResult, error) {
	return m.positionAction(ctx, "repair_line", sessionID, pos)
}

func (m *MockGameService) Bulldoze(ctx context.Context, sessionID string, pos engine.Position) (*service.ActionResult, error) {
	return m.positionAction(ctx, "bulldoze", sessionID, pos)
}

func (m *MockGameService) UpgradePlant(ctx context.Context, sessionID string, pos engine.Position) (*service.ActionResult, error) {
	return m.positionAction(ctx, "upgrade_plant", sessionID, pos)
}

func (m *MockGameService) StormProofLine(ctx context.Context, sessionID string, pos engine.Position) (*service.ActionResult, error) {
	return m.positionAction(ctx, "storm_proof", sessionID, pos)
}

func (m *MockGameService) BuyResearch(ctx context.Context, sessionID string, amount int) (*service.ActionResult, error) {
	if m.BuyResearchFunc != nil {
		return m.BuyResearchFunc(ctx, sessionID, amount)
	}
	return okResult("buy_research"), nil
}

func (m *MockGameService) UnlockTech(ctx context.Context, sessionID string, tech engine.TechID) (*service.ActionResult, error) {
	if m.UnlockTechFunc != nil {
		return m.UnlockTechFunc(ctx, sessionID, tech)
	}
	return okResult("unlock_tech"), nil
}

func (m *MockGameService) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.GetGameStateFunc != nil {
		return m.GetGameStateFunc(ctx, sessionID)
	}
	return &engine.GameState{}, nil
}

func (m *MockGameService) PreviewPath(ctx context.Context, sessionID string, req service.LineRequest) (*service.PathPreview, error) {
	if m.PreviewPathFunc != nil {
		return m.PreviewPathFunc(ctx, sessionID, req)
	}
	return &service.PathPreview{Kind: req.Kind}, nil
}

func (m *MockGameService) InspectCell(ctx context.Context, sessionID string, pos engine.Position) (*service.CellInfo, error) {
	if m.InspectCellFunc != nil {
		return m.InspectCellFunc(ctx, sessionID, pos)
	}
	return &service.CellInfo{Position: pos, Cell: engine.Cell{Type: engine.Empty}}, nil
}

func (m *MockGameService) GetActionHistory(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
	if m.GetActionHistoryFunc != nil {
		return m.GetActionHistoryFunc(ctx, sessionID, opts)
	}
	return &service.HistoryResponse{
		Actions:    []engine.ActionHistoryEntry{},
		Page:       opts.Page,
		PageSize:   opts.Limit,
		TotalPages: 1,
	}, nil
}

func (m *MockGameService) ListConfigs(ctx context.Context) ([]*service.ConfigInfo, error) {
	if m.ListConfigsFunc != nil {
		return m.ListConfigsFunc(ctx)
	}
	return []*service.ConfigInfo{}, nil
}

func (m *MockGameService) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	if m.LoadConfigFunc != nil {
		return m.LoadConfigFunc(ctx, configName)
	}
	config := engine.DefaultConfig()
	config.Name = configName
	return config, nil
}

func (m *MockGameService) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if m.SaveConfigFunc != nil {
		return m.SaveConfigFunc(ctx, configName, config)
	}
	return nil
}
