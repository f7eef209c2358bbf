// Package mcp exposes Power Grid Tycoon to AI agents over the Model Context
// Protocol.
//
// The Client is a thin proxy: every tool call becomes a REST request against
// a running API server, and the response is rendered as text with an ASCII
// map. It holds no game state of its own.
//
// MCP Tools:
//   - create_session, list_sessions, get_session, delete_session, pause_session
//   - game_state, advance_day, reset_game, action_history
//   - place_building, build_line, preview_line
//   - repair_line, bulldoze, upgrade_plant, storm_proof_line
//   - buy_research, unlock_tech
//   - describe_cell, list_configs, game_instructions
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
// The same MCP server also answers JSON-RPC on the HTTP /mcp endpoint.
package mcp
