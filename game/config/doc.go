// Package config provides configuration management for Power Grid Tycoon.
//
// The config package handles:
//   - Loading game tunings from JSON or YAML files
//   - Schema validation against an embedded JSON Schema
//   - Overlaying partial files on the built-in classic tuning
//   - Configuration discovery, listing and saving
//
// Configuration Format:
//
// A config file only lists the fields it changes. Every key is checked
// against the schema, so a misspelled key is an error rather than a silent
// default. After the overlay the merged tuning must also pass
// engine.ValidateGameConfig (tech dependency cycles, city counts that fit
// the grid and so on).
//
//	name: Stormy Coast
//	grid_size: 12
//	event_chance: 0.5
//	weather:
//	  WINDY: {wind: 2.0, damage_chance: 0.1}
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("stormy")
//	configs, err := manager.ListConfigs()
//
// The classic tuning is always available, with or without a classic file
// on disk.
package config
