// Package api provides the HTTP REST API for Power Grid Tycoon.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session ({"config_id", "seed"})
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session
//   - POST /api/sessions/{id}/pause - Pause or resume the clock ({"paused": true})
//
// Simulation:
//   - GET /api/sessions/{id}/state - Current snapshot
//   - POST /api/sessions/{id}/advance - Advance half-days ({"steps": N}, default 1)
//   - POST /api/sessions/{id}/reset - Start a fresh map from the session's config
//   - GET /api/sessions/{id}/history - Paginated action history
//
// Player Actions:
//   - POST /api/sessions/{id}/buildings - {"type", "plant_kind", "position"}
//   - POST /api/sessions/{id}/lines - {"kind", "start", "end"}
//   - POST /api/sessions/{id}/lines/preview - Route and price without building
//   - POST /api/sessions/{id}/repair, /bulldoze, /upgrade, /storm-proof - {"x", "y"}
//   - POST /api/sessions/{id}/research/buy - {"amount"}
//   - POST /api/sessions/{id}/research/unlock - {"tech"}
//   - GET /api/sessions/{id}/cells/{x}/{y} - Inspect a cell
//
// Configuration:
//   - GET /api/configs - List tunings
//   - GET /api/configs/{name} - Get a tuning
//   - POST /api/configs - Save a partial JSON or YAML tuning overlaid on the defaults
//
// A rejected action still answers 200 with "success": false and the reason
// in "message". Errors are JSON with an HTTP status code:
//
//	{
//	  "error": "session not found",
//	  "code": 404
//	}
//
// GET /ws?session={id} upgrades to a WebSocket that receives the snapshot
// after every applied action and clock tick.
package api
