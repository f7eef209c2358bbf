// Package engine provides the core simulation of the Power Grid Tycoon game.
//
// The engine package implements the game mechanics including:
//   - Grid layout with symmetric per-cell connection edges
//   - Power flow: production, battery charge and discharge, two-tier
//     connectivity (transmission then distribution) and income settlement
//   - The daily scheduler: day/night, budget, weather, city growth,
//     random events and wind damage
//   - A* routing for line placement
//   - The research tree and every player action
//
// Core Types:
//
// GameState is an immutable-by-convention snapshot. Every operation takes a
// state and returns a new one; inputs are never modified. The Engine
// interface, implemented by GameEngine, owns one game's current snapshot,
// its GameConfig and random Source, and records an action history.
//
// Usage:
//
//	eng, err := engine.NewEngine(engine.DefaultConfig(), engine.NewSource(42))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	eng.PlacePlant(engine.Position{X: 1, Y: 1}, engine.Coal)
//	state := eng.AdvanceDay()
//
// Game Rules:
//
// Cities are placed at random with a power demand. The player builds plants,
// substations, batteries and lines to deliver power. A city is powered only
// when it is reachable through a substation and the total effective supply
// covers all reachable demand. The game is won when every city is powered
// and lost when the budget is negative and income no longer covers
// maintenance.
package engine
