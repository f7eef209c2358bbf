// Package websocket provides WebSocket transport for Power Grid Tycoon.
//
// The websocket package implements:
//   - Session-scoped push of state snapshots
//   - Broadcast of action and day-step results with their log lines
//   - Connection lifecycle management
//
// Architecture:
//
// A central Hub owns every connection. Each client gets a read pump and a
// write pump goroutine; broadcasts are queued to the hub's Run loop, which
// fans them out to the clients watching that session. A full queue drops
// the message instead of stalling the caller.
//
// Message Protocol:
//
// Clients connect with ?sessionId=<id> and receive JSON frames:
//
//	{"session_id": "...", "event": "state_update", "game_state": {...},
//	 "summary": {...}, "events": [{"type": "log", "message": "..."}]}
//
// The current snapshot is sent as soon as the connection opens. Clients act
// through the REST API; incoming frames are read only to keep the
// connection alive.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	hub.BroadcastResult(sessionID, result)
//
// Hub satisfies clock.Broadcaster, so wall-clock steps reach watchers
// without going through HTTP.
package websocket
