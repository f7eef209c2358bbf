package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wricardo/mcp-training/gridtycoon/api"
	"github.com/wricardo/mcp-training/gridtycoon/game/config"
	"github.com/wricardo/mcp-training/gridtycoon/game/engine"
	"github.com/wricardo/mcp-training/gridtycoon/game/service"
	"github.com/wricardo/mcp-training/gridtycoon/game/session"
)

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), name string, args map[string]interface{}) (string, bool) {
	t.Helper()
	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}

	result, err := handler(context.Background(), request)
	if err != nil {
		t.Fatalf("%s failed: %v", name, err)
	}
	if result == nil || len(result.Content) == 0 {
		t.Fatalf("%s returned no content", name)
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("%s: expected text content in result", name)
	}
	return text.Text, result.IsError
}

// startAPI runs the real REST stack behind an httptest server
func startAPI(t *testing.T) *httptest.Server {
	t.Helper()
	configs, err := config.NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}
	gameService := service.NewGameService(session.NewManager(), configs)
	server := httptest.NewServer(api.NewServer(gameService, nil))
	t.Cleanup(server.Close)
	return server
}

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL + "/")

	if client.baseURL != baseURL {
		t.Errorf("Expected baseURL %s, got %s", baseURL, client.baseURL)
	}

	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}

	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			json.NewEncoder(w).Encode(map[string]string{"id": "test-session"})
		case "/json-error":
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]interface{}{"error": "session not found", "code": 404})
		default:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Internal Server Error"))
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	var response map[string]string
	if err := client.apiCall(ctx, "GET", "/ok", nil, &response); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if response["id"] != "test-session" {
		t.Errorf("Expected id test-session, got %v", response["id"])
	}

	tests := []struct {
		path    string
		wantErr string
	}{
		{"/json-error", "session not found"},
		{"/plain", "API error: 500"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			err := client.apiCall(ctx, "GET", tt.path, nil, nil)
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("Expected error %q, got %v", tt.wantErr, err)
			}
		})
	}

	unreachable := NewClient("http://invalid-url-that-does-not-exist:9999")
	if err := unreachable.apiCall(ctx, "GET", "/api", nil, nil); err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_Tools(t *testing.T) {
	server := startAPI(t)
	client := NewClient(server.URL)
	ctx := context.Background()

	text, isErr := callTool(t, client.handleCreateSession, "create_session", map[string]interface{}{"seed": float64(11)})
	if isErr {
		t.Fatalf("create_session failed: %s", text)
	}
	if !strings.Contains(text, "Seed: 11") || !strings.Contains(text, "Budget: $5000") {
		t.Errorf("Unexpected create_session output: %s", text)
	}

	var list struct {
		Sessions []service.SessionInfo `json:"sessions"`
	}
	if err := client.apiCall(ctx, "GET", "/api/sessions", nil, &list); err != nil || len(list.Sessions) != 1 {
		t.Fatalf("Expected one session, got %v (%v)", len(list.Sessions), err)
	}
	sessionID := list.Sessions[0].ID
	state := list.Sessions[0].GameState

	// find an empty cell to build on
	var empty *engine.Position
	for y, row := range state.Grid {
		for x, cell := range row {
			if cell.Type == engine.Empty && empty == nil {
				empty = &engine.Position{X: x, Y: y}
			}
		}
	}
	if empty == nil {
		t.Fatal("Expected an empty cell on a fresh map")
	}
	at := func(extra map[string]interface{}) map[string]interface{} {
		args := map[string]interface{}{"session_id": sessionID, "x": float64(empty.X), "y": float64(empty.Y)}
		for k, v := range extra {
			args[k] = v
		}
		return args
	}

	tests := []struct {
		name    string
		handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		args    map[string]interface{}
		want    []string
		wantErr bool
	}{
		{
			name:    "game_state",
			handler: client.handleGameState,
			args:    map[string]interface{}{"session_id": sessionID},
			want:    []string{"Day 1 (DAY)", "Weather: BREEZY", "Status: PLAYING"},
		},
		{
			name:    "place_building",
			handler: client.handlePlaceBuilding,
			args:    at(map[string]interface{}{"type": "plant", "plant_kind": "coal"}),
			want:    []string{"✓ place_plant: place_plant applied for $500", "Budget: $4500"},
		},
		{
			name:    "place_building occupied",
			handler: client.handlePlaceBuilding,
			args:    at(map[string]interface{}{"type": "SUBSTATION"}),
			want:    []string{"✗ place_substation rejected"},
		},
		{
			name:    "describe_cell",
			handler: client.handleDescribeCell,
			args:    at(nil),
			want:    []string{"Glyph: K", "PLANT COAL L1", "Upgrade cost: $900"},
		},
		{
			name:    "upgrade_plant",
			handler: client.positionHandler("/upgrade"),
			args:    at(nil),
			want:    []string{"✓ upgrade_plant", "$900"},
		},
		{
			name:    "buy_research",
			handler: client.handleBuyResearch,
			args:    map[string]interface{}{"session_id": sessionID, "amount": float64(10)},
			want:    []string{"✓ buy_research", "Research: 10 pts"},
		},
		{
			name:    "unlock_tech",
			handler: client.handleUnlockTech,
			args:    map[string]interface{}{"session_id": sessionID, "tech": "UNLOCK_WIND"},
			want:    []string{"✓ unlock_tech", "Research: 0 pts"},
		},
		{
			name:    "advance_day",
			handler: client.handleAdvance,
			args:    map[string]interface{}{"session_id": sessionID, "steps": float64(2)},
			want:    []string{"✓ advance_day", "Day 2 (DAY)"},
		},
		{
			name:    "action_history",
			handler: client.handleHistory,
			args:    map[string]interface{}{"session_id": sessionID, "order": "asc"},
			want:    []string{"place_plant", "upgrade_plant", "unlock_tech UNLOCK_WIND"},
		},
		{
			name:    "reset_game",
			handler: client.handleReset,
			args:    map[string]interface{}{"session_id": sessionID, "config_id": "classic"},
			want:    []string{"Game reset successfully", "Day 1 (DAY)", "Budget: $5000"},
		},
		{
			name:    "reset_game unknown config",
			handler: client.handleReset,
			args:    map[string]interface{}{"session_id": sessionID, "config_id": "nope"},
			want:    []string{"not found"},
			wantErr: true,
		},
		{
			name:    "pause_session",
			handler: client.handlePause,
			args:    map[string]interface{}{"session_id": sessionID, "paused": true},
			want:    []string{"paused"},
		},
		{
			name:    "list_sessions",
			handler: client.handleListSessions,
			args:    map[string]interface{}{},
			want:    []string{sessionID, "[paused]"},
		},
		{
			name:    "list_configs",
			handler: client.handleListConfigs,
			args:    map[string]interface{}{},
			want:    []string{"id: classic", "Grid: 15x15"},
		},
		{
			name:    "missing session_id",
			handler: client.handleGameState,
			args:    map[string]interface{}{},
			want:    []string{"session_id is required"},
			wantErr: true,
		},
		{
			name:    "unknown session",
			handler: client.handleGetSession,
			args:    map[string]interface{}{"session_id": "nope"},
			want:    []string{"session not found"},
			wantErr: true,
		},
		{
			name:    "delete_session",
			handler: client.handleDeleteSession,
			args:    map[string]interface{}{"session_id": sessionID},
			want:    []string{"deleted"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, isErr := callTool(t, tt.handler, tt.name, tt.args)
			if isErr != tt.wantErr {
				t.Errorf("Expected IsError=%v, got %v: %s", tt.wantErr, isErr, text)
			}
			for _, want := range tt.want {
				if !strings.Contains(text, want) {
					t.Errorf("Expected %q in output, got: %s", want, text)
				}
			}
		})
	}
}

func TestClient_PreviewAndBuildLine(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req service.LineRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Kind != engine.TransmissionLine || req.End != (engine.Position{X: 3, Y: 0}) {
			t.Errorf("Unexpected line request %+v", req)
		}
		switch r.URL.Path {
		case "/api/sessions/s1/lines/preview":
			json.NewEncoder(w).Encode(service.PathPreview{
				Kind:       req.Kind,
				Path:       []engine.Position{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}},
				Segments:   3,
				Cost:       150,
				Found:      true,
				Affordable: false,
			})
		case "/api/sessions/s1/lines":
			json.NewEncoder(w).Encode(service.ActionResult{Success: true, Action: "build_line", Message: "build_line applied for $150"})
		default:
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()
	client := NewClient(server.URL)

	args := map[string]interface{}{
		"session_id": "s1", "kind": "transmission",
		"start_x": float64(0), "start_y": float64(0), "end_x": float64(3), "end_y": float64(0),
	}

	text, _ := callTool(t, client.handlePreviewLine, "preview_line", args)
	for _, want := range []string{"3 segments", "$150", "NOT affordable", "(0,0) → (1,0)"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in preview, got: %s", want, text)
		}
	}

	text, _ = callTool(t, client.handleBuildLine, "build_line", args)
	if !strings.Contains(text, "✓ build_line") || !strings.Contains(text, "No game state available") {
		t.Errorf("Unexpected build_line output: %s", text)
	}
}

func TestFormatGameState(t *testing.T) {
	grid := engine.NewGrid(5)
	grid[0][0] = engine.Cell{Type: engine.City, City: &engine.CityData{Name: "Springfield", Demand: 20, IsPowered: true}}
	grid[0][1] = engine.Cell{Type: engine.Transmission, Line: &engine.TransmissionData{}, IsDamaged: true}
	grid[0][2] = engine.Cell{Type: engine.Transmission, Line: &engine.TransmissionData{IsStormProof: true}}
	grid[0][3] = engine.Cell{Type: engine.Plant, Plant: &engine.PlantData{Kind: engine.Solar}}
	grid[1][0] = engine.Cell{Type: engine.City, City: &engine.CityData{Name: "Shelbyville", Demand: 10}}

	tests := []struct {
		name   string
		state  *engine.GameState
		want   []string
		absent []string
	}{
		{
			name:  "nil",
			state: nil,
			want:  []string{"No game state available"},
		},
		{
			name: "playing",
			state: &engine.GameState{
				Grid: grid, Day: 3, TimeOfDay: engine.Night, Weather: engine.Windy,
				Budget: 1234, GameStatus: engine.Playing, EventLog: []string{"Storm damaged a line"},
			},
			want:   []string{"Day 3 (NIGHT)", "Budget: $1234", "Cities powered: 1/2", "Damaged lines: 1", "Cx#S.", "c....", "- Storm damaged a line"},
			absent: []string{"VICTORY", "GAME OVER"},
		},
		{
			name:  "won",
			state: &engine.GameState{Grid: engine.NewGrid(5), GameStatus: engine.Won},
			want:  []string{"🎉 VICTORY!"},
		},
		{
			name:  "lost",
			state: &engine.GameState{Grid: engine.NewGrid(5), GameStatus: engine.Lost, Message: "Bankrupt"},
			want:  []string{"💀 GAME OVER", "Message: Bankrupt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatGameState(tt.state)
			for _, want := range tt.want {
				if !strings.Contains(result, want) {
					t.Errorf("Expected %q in formatted output, got: %s", want, result)
				}
			}
			for _, absent := range tt.absent {
				if strings.Contains(result, absent) {
					t.Errorf("Did not expect %q in formatted output", absent)
				}
			}
		})
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")

	text, _ := callTool(t, client.handleGameInstructions, "game_instructions", map[string]interface{}{})

	for _, content := range []string{"GAME OBJECTIVE:", "GAME MECHANICS:", "MAP LEGEND:", "STRATEGY:"} {
		if !strings.Contains(text, content) {
			t.Errorf("Expected '%s' in instructions", content)
		}
	}
}
