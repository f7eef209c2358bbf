package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/gridtycoon/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	logger   *slog.Logger
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		logger:   slog.Default().With("component", "service"),
	}
}

// CreateSession creates a new game session. A nil seed draws a random one;
// the seed used is reported so the game can be replayed.
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string, seed *uint64) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	configID := configName
	if configName != "" {
		var err error
		if config, err = s.loadSessionConfig(configName); err != nil {
			return nil, err
		}
	} else {
		config = s.configs.GetDefault()
		configID = config.Name
	}

	var sessionSeed uint64
	if seed != nil {
		sessionSeed = *seed
	} else {
		sessionSeed = rand.Uint64()
	}

	session, err := s.sessions.Create("", config, sessionSeed)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	session.ConfigID = configID

	s.logger.Info("session created", "session", session.ID, "config", configID, "seed", sessionSeed)
	return s.sessionInfo(session), nil
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     sess.ConfigID,
		Seed:           sess.Seed,
		Paused:         sess.Paused,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState(),
		GameConfig:     sess.Config,
	}
}

// getSession looks a session up and marks it accessed. Callers hold s.mu.
func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	_ = s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	s.logger.Info("session deleted", "session", sessionID)
	return nil
}

// SetPaused stops or resumes the wall clock for a session. Manual day
// advances still work while paused.
func (s *gameServiceImpl) SetPaused(ctx context.Context, sessionID string, paused bool) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	sess.Paused = paused
	s.logger.Debug("session clock toggled", "session", sessionID, "paused", paused)
	return s.sessionInfo(sess), nil
}

// AdvanceDay runs up to steps scheduler steps, stopping early when the game ends
func (s *gameServiceImpl) AdvanceDay(ctx context.Context, sessionID string, steps int) (*ActionResult, error) {
	if steps < 1 {
		steps = 1
	}
	if steps > engine.MaxAdvanceSteps {
		steps = engine.MaxAdvanceSteps
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	before := sess.Engine.GetState()
	if before.GameStatus != engine.Playing {
		return &ActionResult{
			Success:   false,
			Action:    "advance_day",
			Message:   "game is over",
			GameState: before,
			Summary:   Summarize(before),
		}, nil
	}

	var events []GameEvent
	executed := 0
	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			break
		}
		prev := sess.Engine.GetState()
		next := sess.Engine.AdvanceDay()
		executed++
		events = append(events, logEvents(prev, next)...)
		if next.GameStatus != engine.Playing {
			break
		}
	}

	after := sess.Engine.GetState()
	events = append(events, statusEvents(before, after)...)
	if after.GameStatus != before.GameStatus {
		s.logger.Info("game finished", "session", sessionID, "status", after.GameStatus, "day", after.Day)
	}

	return &ActionResult{
		Success:   true,
		Action:    "advance_day",
		Message:   fmt.Sprintf("Advanced %d step(s): day %d, %s", executed, after.Day, after.TimeOfDay),
		Cost:      before.Budget - after.Budget,
		GameState: after,
		Events:    events,
		Summary:   Summarize(after),
	}, nil
}

// Reset re-initialises a session's game with a fresh layout. A non-empty
// configName switches the session to that config first.
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID, configName string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	if configName == "" {
		state := sess.Engine.Reset()
		s.logger.Info("session reset", "session", sessionID)
		return state, nil
	}

	config, err := s.loadSessionConfig(configName)
	if err != nil {
		return nil, err
	}
	if err := sess.Engine.SetConfig(config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	sess.Config = config
	sess.ConfigID = configName
	s.logger.Info("session reset", "session", sessionID, "config", configName)
	return sess.Engine.GetState(), nil
}

// loadSessionConfig loads a named config, listing the available ids when it
// does not exist
func (s *gameServiceImpl) loadSessionConfig(configName string) (*engine.GameConfig, error) {
	config, err := s.configs.LoadConfig(configName)
	if err == nil {
		return config, nil
	}
	if errors.Is(err, ErrConfigNotFound) {
		availableConfigs, listErr := s.configs.ListConfigs()
		if listErr == nil && len(availableConfigs) > 0 {
			var configIDs []string
			for _, cfg := range availableConfigs {
				configIDs = append(configIDs, cfg.ConfigID)
			}
			return nil, fmt.Errorf("config '%s' not found, available configs: %v: %w", configName, configIDs, ErrConfigNotFound)
		}
	}
	return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
}

// act runs one engine action under the service lock and wraps the outcome
func (s *gameServiceImpl) act(sessionID, action string, pos *engine.Position, apply func(eng engine.Engine) bool, reject func(state *engine.GameState, config *engine.GameConfig) string) (*ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	before := sess.Engine.GetState()
	ok := apply(sess.Engine)
	after := sess.Engine.GetState()

	result := &ActionResult{
		Success:   ok,
		Action:    action,
		GameState: after,
		Summary:   Summarize(after),
	}
	if last := sess.Engine.GetLastAction(); last != nil {
		entry := *last
		result.Entry = &entry
	}
	if !ok {
		result.Message = rejectionReason(before, sess.Config, reject)
		s.logger.Debug("action rejected", "session", sessionID, "action", action, "reason", result.Message)
		return result, nil
	}

	result.Cost = before.Budget - after.Budget
	result.Message = fmt.Sprintf("%s applied for $%d", action, result.Cost)
	result.Events = append(result.Events, GameEvent{
		Type:      "action",
		Message:   result.Message,
		Timestamp: time.Now(),
		Position:  pos,
	})
	result.Events = append(result.Events, statusEvents(before, after)...)
	s.logger.Debug("action applied", "session", sessionID, "action", action, "cost", result.Cost)
	return result, nil
}

// PlaceBuilding places a plant, substation or battery bank
func (s *gameServiceImpl) PlaceBuilding(ctx context.Context, sessionID string, req BuildingRequest) (*ActionResult, error) {
	pos := req.Position
	switch req.Type {
	case engine.Plant:
		if !validPlantKind(req.PlantKind) {
			return nil, fmt.Errorf("%w: unknown plant kind %q", ErrInvalidRequest, req.PlantKind)
		}
		return s.act(sessionID, "place_plant", &pos,
			func(eng engine.Engine) bool { return eng.PlacePlant(pos, req.PlantKind) },
			func(st *engine.GameState, c *engine.GameConfig) string {
				if req.PlantKind == engine.Wind && !st.IsUnlocked(engine.UnlockWind) {
					return "wind turbines require the UNLOCK_WIND tech"
				}
				return placementReason(st, pos, c.PlantCost(req.PlantKind))
			})
	case engine.Substation:
		return s.act(sessionID, "place_substation", &pos,
			func(eng engine.Engine) bool { return eng.PlaceSubstation(pos) },
			func(st *engine.GameState, c *engine.GameConfig) string {
				return placementReason(st, pos, c.SubstationCost)
			})
	case engine.Battery:
		return s.act(sessionID, "place_battery", &pos,
			func(eng engine.Engine) bool { return eng.PlaceBattery(pos) },
			func(st *engine.GameState, c *engine.GameConfig) string {
				return placementReason(st, pos, c.BatteryBankCost)
			})
	}
	return nil, fmt.Errorf("%w: cannot place building of type %q", ErrInvalidRequest, req.Type)
}

// BuildLine routes and builds a transmission or distribution line
func (s *gameServiceImpl) BuildLine(ctx context.Context, sessionID string, req LineRequest) (*ActionResult, error) {
	if !validLineKind(req.Kind) {
		return nil, fmt.Errorf("%w: unknown line kind %q", ErrInvalidRequest, req.Kind)
	}
	start := req.Start
	return s.act(sessionID, "build_line", &start,
		func(eng engine.Engine) bool { return eng.BuildLine(req.Start, req.End, req.Kind) },
		func(st *engine.GameState, c *engine.GameConfig) string {
			if req.Start == req.End {
				return "line endpoints must differ"
			}
			for _, p := range []engine.Position{req.Start, req.End} {
				if !engine.InBounds(st.Grid, p.X, p.Y) {
					return fmt.Sprintf("(%d,%d) is outside the grid", p.X, p.Y)
				}
				if st.Grid[p.Y][p.X].Type == engine.Empty {
					return fmt.Sprintf("line endpoint (%d,%d) is empty", p.X, p.Y)
				}
			}
			path := engine.FindPath(req.Start, req.End, st.Grid, req.Kind)
			if len(path) == 0 {
				return "no route through empty cells"
			}
			if cost := engine.PathCost(path, req.Kind, c); st.Budget < cost {
				return fmt.Sprintf("insufficient budget: line costs $%d", cost)
			}
			return ""
		})
}

// RepairLine repairs a damaged transmission segment
func (s *gameServiceImpl) RepairLine(ctx context.Context, sessionID string, pos engine.Position) (*ActionResult, error) {
	return s.act(sessionID, "repair_line", &pos,
		func(eng engine.Engine) bool { return eng.RepairLine(pos) },
		func(st *engine.GameState, c *engine.GameConfig) string {
			if msg := expectType(st, pos, engine.Transmission); msg != "" {
				return msg
			}
			if !st.Grid[pos.Y][pos.X].IsDamaged {
				return "line is not damaged"
			}
			return budgetReason(st, c.TransmissionLineCost)
		})
}

// Bulldoze clears a structure
func (s *gameServiceImpl) Bulldoze(ctx context.Context, sessionID string, pos engine.Position) (*ActionResult, error) {
	return s.act(sessionID, "bulldoze", &pos,
		func(eng engine.Engine) bool { return eng.Bulldoze(pos) },
		func(st *engine.GameState, c *engine.GameConfig) string {
			if !engine.InBounds(st.Grid, pos.X, pos.Y) {
				return fmt.Sprintf("(%d,%d) is outside the grid", pos.X, pos.Y)
			}
			switch st.Grid[pos.Y][pos.X].Type {
			case engine.Empty:
				return "nothing to bulldoze"
			case engine.City:
				return "cities cannot be bulldozed"
			}
			return budgetReason(st, c.BulldozeCost)
		})
}

// UpgradePlant upgrades a plant by one level
func (s *gameServiceImpl) UpgradePlant(ctx context.Context, sessionID string, pos engine.Position) (*ActionResult, error) {
	return s.act(sessionID, "upgrade_plant", &pos,
		func(eng engine.Engine) bool { return eng.UpgradePlant(pos) },
		func(st *engine.GameState, c *engine.GameConfig) string {
			if msg := expectType(st, pos, engine.Plant); msg != "" {
				return msg
			}
			return budgetReason(st, engine.PlantUpgradeCost(st.Grid[pos.Y][pos.X].Plant, c))
		})
}

// StormProofLine storm-proofs a transmission segment
func (s *gameServiceImpl) StormProofLine(ctx context.Context, sessionID string, pos engine.Position) (*ActionResult, error) {
	return s.act(sessionID, "storm_proof", &pos,
		func(eng engine.Engine) bool { return eng.StormProofLine(pos) },
		func(st *engine.GameState, c *engine.GameConfig) string {
			if msg := expectType(st, pos, engine.Transmission); msg != "" {
				return msg
			}
			if line := st.Grid[pos.Y][pos.X].Line; line != nil && line.IsStormProof {
				return "line is already storm-proof"
			}
			return budgetReason(st, c.TransmissionUpgradeCost)
		})
}

// BuyResearch converts budget into research points
func (s *gameServiceImpl) BuyResearch(ctx context.Context, sessionID string, amount int) (*ActionResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidRequest)
	}
	return s.act(sessionID, "buy_research", nil,
		func(eng engine.Engine) bool { return eng.BuyResearchPoints(amount) },
		func(st *engine.GameState, c *engine.GameConfig) string {
			if price := c.ResearchCostPerPoint; price > 0 && amount > st.Budget/price {
				return fmt.Sprintf("insufficient budget: %d points at $%d each, have $%d", amount, price, st.Budget)
			}
			return ""
		})
}

// UnlockTech unlocks a research tech
func (s *gameServiceImpl) UnlockTech(ctx context.Context, sessionID string, tech engine.TechID) (*ActionResult, error) {
	if !validTech(tech) {
		return nil, fmt.Errorf("%w: unknown tech %q", ErrInvalidRequest, tech)
	}
	return s.act(sessionID, "unlock_tech", nil,
		func(eng engine.Engine) bool { return eng.UnlockTech(tech) },
		func(st *engine.GameState, c *engine.GameConfig) string {
			t := st.TechTree[tech]
			switch {
			case t.Unlocked:
				return fmt.Sprintf("%s is already unlocked", tech)
			case !st.DependenciesMet(tech):
				return fmt.Sprintf("%s requires %v", tech, st.MissingDependencies(tech))
			case st.ResearchPoints < t.Cost:
				return fmt.Sprintf("insufficient research points: need %d, have %d", t.Cost, st.ResearchPoints)
			}
			return ""
		})
}

// GetGameState returns the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.GetState(), nil
}

// PreviewPath returns the route and price a line tool would use, without building
func (s *gameServiceImpl) PreviewPath(ctx context.Context, sessionID string, req LineRequest) (*PathPreview, error) {
	if !validLineKind(req.Kind) {
		return nil, fmt.Errorf("%w: unknown line kind %q", ErrInvalidRequest, req.Kind)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	path := sess.Engine.FindPath(req.Start, req.End, req.Kind)
	cost := engine.PathCost(path, req.Kind, sess.Config)
	return &PathPreview{
		Kind:       req.Kind,
		Path:       path,
		Segments:   max(len(path)-1, 0),
		Cost:       cost,
		Affordable: len(path) > 0 && sess.Engine.GetBudget() >= cost,
		Found:      len(path) > 0,
	}, nil
}

// InspectCell describes one grid cell
func (s *gameServiceImpl) InspectCell(ctx context.Context, sessionID string, pos engine.Position) (*CellInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	state := sess.Engine.GetState()
	if !engine.InBounds(state.Grid, pos.X, pos.Y) {
		return nil, fmt.Errorf("%w: (%d,%d) is outside the grid", ErrInvalidRequest, pos.X, pos.Y)
	}

	cell := state.Grid[pos.Y][pos.X].Clone()
	info := &CellInfo{
		Position:    pos,
		Cell:        cell,
		Description: engine.DescribeCell(cell),
	}
	if cell.Type == engine.Plant {
		info.UpgradeCost = engine.PlantUpgradeCost(cell.Plant, sess.Config)
	}
	return info, nil
}

// GetActionHistory returns paginated action history for a session
func (s *gameServiceImpl) GetActionHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Engine.GetActionHistory()
	total := len(history)

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}
	if opts.Page > totalPages+1 {
		opts.Page = totalPages + 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := min(start+opts.Limit, total)

	actions := []engine.ActionHistoryEntry{}
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			actions = append(actions, history[i])
		}
	} else if start < total {
		actions = append(actions, history[start:end]...)
	}

	return &HistoryResponse{
		Actions:      actions,
		TotalActions: total,
		Page:         opts.Page,
		PageSize:     opts.Limit,
		TotalPages:   totalPages,
		HasNext:      opts.Page < totalPages,
		HasPrevious:  opts.Page > 1,
	}, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if err := s.configs.SaveConfig(configName, config); err != nil {
		return err
	}
	s.logger.Info("config saved", "config", configName)
	return nil
}

// logEvents turns the event log lines appended between two snapshots into events.
// The log is a sliding window, so the overlap between the old tail and the new
// head is located first.
func logEvents(prev, next *engine.GameState) []GameEvent {
	var events []GameEvent
	now := time.Now()
	for _, line := range newLogEntries(prev.EventLog, next.EventLog) {
		events = append(events, GameEvent{Type: "log", Message: line, Timestamp: now})
	}
	return events
}

func newLogEntries(before, after []string) []string {
	for k := min(len(before), len(after)); k >= 0; k-- {
		match := true
		for i := 0; i < k; i++ {
			if before[len(before)-k+i] != after[i] {
				match = false
				break
			}
		}
		if match {
			return after[k:]
		}
	}
	return after
}

// statusEvents reports a transition to Won or Lost
func statusEvents(before, after *engine.GameState) []GameEvent {
	if before.GameStatus == after.GameStatus {
		return nil
	}
	switch after.GameStatus {
	case engine.Won:
		return []GameEvent{{Type: "won", Message: after.Message, Timestamp: time.Now()}}
	case engine.Lost:
		return []GameEvent{{Type: "lost", Message: after.Message, Timestamp: time.Now()}}
	}
	return nil
}

// rejectionReason explains why an action was refused
func rejectionReason(state *engine.GameState, config *engine.GameConfig, specific func(*engine.GameState, *engine.GameConfig) string) string {
	if state.GameStatus != engine.Playing {
		return "game is over"
	}
	if msg := specific(state, config); msg != "" {
		return msg
	}
	return "action rejected"
}

func placementReason(state *engine.GameState, pos engine.Position, cost int) string {
	if !engine.InBounds(state.Grid, pos.X, pos.Y) {
		return fmt.Sprintf("(%d,%d) is outside the grid", pos.X, pos.Y)
	}
	if t := state.Grid[pos.Y][pos.X].Type; t != engine.Empty {
		return fmt.Sprintf("cell (%d,%d) is occupied by %s", pos.X, pos.Y, t)
	}
	return budgetReason(state, cost)
}

func expectType(state *engine.GameState, pos engine.Position, want engine.CellType) string {
	if !engine.InBounds(state.Grid, pos.X, pos.Y) {
		return fmt.Sprintf("(%d,%d) is outside the grid", pos.X, pos.Y)
	}
	if t := state.Grid[pos.Y][pos.X].Type; t != want {
		return fmt.Sprintf("cell (%d,%d) is %s, not %s", pos.X, pos.Y, t, want)
	}
	return ""
}

func budgetReason(state *engine.GameState, cost int) string {
	if state.Budget < cost {
		return fmt.Sprintf("insufficient budget: need $%d, have $%d", cost, state.Budget)
	}
	return ""
}

func validPlantKind(kind engine.PlantKind) bool {
	for _, k := range engine.PlantKinds {
		if k == kind {
			return true
		}
	}
	return false
}

func validLineKind(kind engine.LineKind) bool {
	return kind == engine.TransmissionLine || kind == engine.DistributionLine
}

func validTech(id engine.TechID) bool {
	for _, t := range engine.TechIDs {
		if t == id {
			return true
		}
	}
	return false
}
