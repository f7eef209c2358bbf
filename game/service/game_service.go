package service

import (
	"context"
	"errors"
	"time"

	"github.com/wricardo/mcp-training/gridtycoon/game/engine"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrConfigNotFound       = errors.New("configuration not found")
	ErrInvalidConfig        = errors.New("invalid configuration")
	// ErrInvalidRequest marks malformed action parameters (unknown building
	// type, line kind or tech, non-positive amounts)
	ErrInvalidRequest = errors.New("invalid request")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string, seed *uint64) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error
	SetPaused(ctx context.Context, sessionID string, paused bool) (*SessionInfo, error)

	// Simulation
	AdvanceDay(ctx context.Context, sessionID string, steps int) (*ActionResult, error)
	Reset(ctx context.Context, sessionID, configName string) (*engine.GameState, error)

	// Player Actions
	PlaceBuilding(ctx context.Context, sessionID string, req BuildingRequest) (*ActionResult, error)
	BuildLine(ctx context.Context, sessionID string, req LineRequest) (*ActionResult, error)
	RepairLine(ctx context.Context, sessionID string, pos engine.Position) (*ActionResult, error)
	Bulldoze(ctx context.Context, sessionID string, pos engine.Position) (*ActionResult, error)
	UpgradePlant(ctx context.Context, sessionID string, pos engine.Position) (*ActionResult, error)
	StormProofLine(ctx context.Context, sessionID string, pos engine.Position) (*ActionResult, error)
	BuyResearch(ctx context.Context, sessionID string, amount int) (*ActionResult, error)
	UnlockTech(ctx context.Context, sessionID string, tech engine.TechID) (*ActionResult, error)

	// Inspection
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	PreviewPath(ctx context.Context, sessionID string, req LineRequest) (*PathPreview, error)
	InspectCell(ctx context.Context, sessionID string, pos engine.Position) (*CellInfo, error)
	GetActionHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig, seed uint64) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// Session represents an active game session
type Session struct {
	ID             string
	Engine         engine.Engine
	Config         *engine.GameConfig
	ConfigID       string
	Seed           uint64
	Paused         bool
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
