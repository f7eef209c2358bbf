// Package service provides the business logic layer for Power Grid Tycoon.
//
// The service package implements:
//   - Multi-session game management with seeded, replayable games
//   - Player actions with costed results and human-readable rejections
//   - Manual day advances and the pause flag read by the wall clock
//   - Line route previews and cell inspection
//   - Paginated action history
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages game configuration loading and validation.
//
// Architecture:
//
// The service layer sits between the transports (HTTP, WebSocket, MCP, the
// wall clock) and the engine. Every call that touches a session runs under
// one service-wide lock, so a clock tick and a player action never
// interleave on the same snapshot.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "classic", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.PlaceBuilding(ctx, info.ID, service.BuildingRequest{
//		Type:      engine.Plant,
//		PlantKind: engine.Coal,
//		Position:  engine.Position{X: 3, Y: 4},
//	})
//
// A rejected action is not an error: the result carries Success false and a
// Message naming the reason. Errors are reserved for unknown sessions,
// configs and malformed requests, and wrap the sentinels declared here.
package service
