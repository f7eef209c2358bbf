package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/mcp-training/gridtycoon/game/engine"
	"github.com/wricardo/mcp-training/gridtycoon/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Power Grid Tycoon",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Power Grid Tycoon - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Power every city on the map before the budget runs out. Build plants, route
transmission and distribution lines, and keep the grid alive through storms.

AVAILABLE TOOLS:
- create_session / list_sessions / get_session / delete_session / pause_session
- game_state: Current map and economy
- advance_day: Run the simulation forward by half-days
- place_building: Place a plant, substation or battery bank
- build_line / preview_line: Route a line (preview shows the price first)
- repair_line, bulldoze, upgrade_plant, storm_proof_line: Single-cell actions
- buy_research / unlock_tech: Research tree
- describe_cell: Inspect one cell
- action_history: View past actions
- list_configs: List available tunings
- game_instructions: Rules and map legend`),
	)

	c.registerTools()
}

func sessionProp() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func intProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
	}
}

// positionTool builds the schema shared by the single-cell actions
func positionTool(name, description string) mcp.Tool {
	return mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"x":          intProp("Column (0-based)"),
				"y":          intProp("Row (0-based)"),
			},
			Required: []string{"session_id", "x", "y"},
		},
	}
}

// lineTool builds the schema shared by build_line and preview_line
func lineTool(name, description string) mcp.Tool {
	return mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"kind": map[string]interface{}{
					"type":        "string",
					"enum":        []string{string(engine.TransmissionLine), string(engine.DistributionLine)},
					"description": "Line tool to use",
				},
				"start_x": intProp("Start column"),
				"start_y": intProp("Start row"),
				"end_x":   intProp("End column"),
				"end_y":   intProp("End row"),
			},
			Required: []string{"session_id", "kind", "start_x", "start_y", "end_x", "end_y"},
		},
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config and seed",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the config to use (optional)",
				},
				"seed": intProp("Random seed for a reproducible map (optional)"),
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProp()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "delete_session",
		Description: "Delete a session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProp()},
			Required:   []string{"session_id"},
		},
	}, c.handleDeleteSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "pause_session",
		Description: "Pause or resume the real-time clock for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"paused": map[string]interface{}{
					"type":        "boolean",
					"description": "true to pause, false to resume",
				},
			},
			Required: []string{"session_id", "paused"},
		},
	}, c.handlePause)

	// Simulation
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current map, economy and event log",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProp()},
			Required:   []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "advance_day",
		Description: fmt.Sprintf("Advance the simulation by half-day steps (1-%d). Income and maintenance settle at the start of each day.", engine.MaxAdvanceSteps),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"steps":      intProp("Number of half-day steps (default 1)"),
			},
			Required: []string{"session_id"},
		},
	}, c.handleAdvance)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Start a fresh map, optionally switching the session to another config",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the config to switch to (optional)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "action_history",
		Description: "Get the action history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"page":       intProp("Page number"),
				"limit":      intProp("Items per page"),
				"order": map[string]interface{}{
					"type": "string",
					"enum": []string{"asc", "desc"},
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleHistory)

	// Player actions
	plantKinds := make([]string, len(engine.PlantKinds))
	for i, k := range engine.PlantKinds {
		plantKinds[i] = string(k)
	}
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "place_building",
		Description: "Place a plant, substation or battery bank on an empty cell",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"type": map[string]interface{}{
					"type":        "string",
					"enum":        []string{string(engine.Plant), string(engine.Substation), string(engine.Battery)},
					"description": "Building type",
				},
				"plant_kind": map[string]interface{}{
					"type":        "string",
					"enum":        plantKinds,
					"description": "Generation technology (plants only)",
				},
				"x": intProp("Column (0-based)"),
				"y": intProp("Row (0-based)"),
			},
			Required: []string{"session_id", "type", "x", "y"},
		},
	}, c.handlePlaceBuilding)

	c.mcpServer.AddTool(lineTool("build_line", "Route and build a line between two occupied cells along the cheapest path through empty cells"), c.handleBuildLine)
	c.mcpServer.AddTool(lineTool("preview_line", "Show the route and price build_line would use without building anything"), c.handlePreviewLine)

	c.mcpServer.AddTool(positionTool("repair_line", "Repair a damaged transmission segment"), c.positionHandler("/repair"))
	c.mcpServer.AddTool(positionTool("bulldoze", "Demolish a building or line segment (cities cannot be bulldozed)"), c.positionHandler("/bulldoze"))
	c.mcpServer.AddTool(positionTool("upgrade_plant", "Upgrade a plant to the next level"), c.positionHandler("/upgrade"))
	c.mcpServer.AddTool(positionTool("storm_proof_line", "Harden a transmission segment against storm damage"), c.positionHandler("/storm-proof"))

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "buy_research",
		Description: "Buy research points with budget",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"amount":     intProp("Points to buy"),
			},
			Required: []string{"session_id", "amount"},
		},
	}, c.handleBuyResearch)

	techs := make([]string, len(engine.TechIDs))
	for i, id := range engine.TechIDs {
		techs[i] = string(id)
	}
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "unlock_tech",
		Description: "Spend research points to unlock a tech",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"tech": map[string]interface{}{
					"type": "string",
					"enum": techs,
				},
			},
			Required: []string{"session_id", "tech"},
		},
	}, c.handleUnlockTech)

	c.mcpServer.AddTool(positionTool("describe_cell", "Get detailed information about one grid cell, including its connections and upgrade price"), c.handleDescribeCell)

	// Configuration
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the rules, costs and map legend",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("%s", errResp.Error)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// intArg reads a numeric argument; JSON numbers arrive as float64
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

func sessionPath(args map[string]interface{}, suffix string) (string, error) {
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return "", fmt.Errorf("session_id is required")
	}
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix, nil
}

// postAction sends an action body and formats the ActionResult
func (c *Client) postAction(ctx context.Context, args map[string]interface{}, suffix string, body interface{}) (*mcp.CallToolResult, error) {
	path, err := sessionPath(args, suffix)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.ActionResult
	if err := c.apiCall(ctx, "POST", path, body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActionResult(&result)), nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	body := map[string]interface{}{}
	if configID, _ := args["config_id"].(string); configID != "" {
		body["config_id"] = configID
	}
	if seed, ok := intArg(args, "seed"); ok && seed >= 0 {
		body["seed"] = uint64(seed)
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\nSeed: %d\n\n%s",
		session.ID, session.ConfigName, session.Seed, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := ""
		if s.GameState != nil {
			status = fmt.Sprintf(", Day %d, $%d, %s", s.GameState.Day, s.GameState.Budget, s.GameState.GameStatus)
		}
		paused := ""
		if s.Paused {
			paused = " [paused]"
		}
		fmt.Fprintf(&b, "- %s (Config: %s%s)%s\n", s.ID, s.ConfigName, status, paused)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", path, nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleDeleteSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var response struct {
		Message string `json:"message"`
	}
	if err := c.apiCall(ctx, "DELETE", path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(response.Message), nil
}

func (c *Client) handlePause(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/pause")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	paused, _ := args["paused"].(bool)

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", path, map[string]bool{"paused": paused}, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if session.Paused {
		return mcp.NewToolResultText(fmt.Sprintf("Session %s paused", session.ID)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Session %s resumed", session.ID)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/state")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", path, nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleAdvance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	steps, ok := intArg(args, "steps")
	if !ok {
		steps = 1
	}
	return c.postAction(ctx, args, "/advance", map[string]int{"steps": steps})
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/reset")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var body interface{}
	if configID, _ := args["config_id"].(string); configID != "" {
		body = map[string]string{"config_id": configID}
	}

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", path, body, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/history")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	query := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		query.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		query.Set("limit", fmt.Sprint(limit))
	}
	if order, _ := args["order"].(string); order != "" {
		query.Set("order", order)
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handlePlaceBuilding(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	x, _ := intArg(args, "x")
	y, _ := intArg(args, "y")
	buildingType, _ := args["type"].(string)
	plantKind, _ := args["plant_kind"].(string)

	body := service.BuildingRequest{
		Type:      engine.CellType(strings.ToUpper(buildingType)),
		PlantKind: engine.PlantKind(strings.ToUpper(plantKind)),
		Position:  engine.Position{X: x, Y: y},
	}
	return c.postAction(ctx, args, "/buildings", body)
}

func lineRequest(args map[string]interface{}) service.LineRequest {
	kind, _ := args["kind"].(string)
	sx, _ := intArg(args, "start_x")
	sy, _ := intArg(args, "start_y")
	ex, _ := intArg(args, "end_x")
	ey, _ := intArg(args, "end_y")
	return service.LineRequest{
		Kind:  engine.LineKind(strings.ToUpper(kind)),
		Start: engine.Position{X: sx, Y: sy},
		End:   engine.Position{X: ex, Y: ey},
	}
}

func (c *Client) handleBuildLine(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	return c.postAction(ctx, args, "/lines", lineRequest(args))
}

func (c *Client) handlePreviewLine(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/lines/preview")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var preview service.PathPreview
	if err := c.apiCall(ctx, "POST", path, lineRequest(args), &preview); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatPreview(&preview)), nil
}

// positionHandler proxies a single-cell action to the given endpoint
func (c *Client) positionHandler(suffix string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := arguments(request)
		x, _ := intArg(args, "x")
		y, _ := intArg(args, "y")
		return c.postAction(ctx, args, suffix, engine.Position{X: x, Y: y})
	}
}

func (c *Client) handleBuyResearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	amount, _ := intArg(args, "amount")
	return c.postAction(ctx, args, "/research/buy", map[string]int{"amount": amount})
}

func (c *Client) handleUnlockTech(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	tech, _ := args["tech"].(string)
	return c.postAction(ctx, args, "/research/unlock", map[string]string{"tech": tech})
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	x, _ := intArg(args, "x")
	y, _ := intArg(args, "y")
	if x < 0 || y < 0 {
		return mcp.NewToolResultError(fmt.Sprintf("Coordinates (%d, %d) are out of bounds", x, y)), nil
	}
	path, err := sessionPath(args, fmt.Sprintf("/cells/%d/%d", x, y))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var info service.CellInfo
	if err := c.apiCall(ctx, "GET", path, nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCellInfo(&info)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		fmt.Fprintf(&b, "• %s (id: %s)\n  %s\n  Grid: %dx%d, Budget: $%d\n\n",
			config.Name, config.ConfigID, config.Description, config.GridSize, config.GridSize, config.InitialBudget)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const instructions = `Power Grid Tycoon - Complete Instructions

GAME OBJECTIVE:
Power every city on the map. You win when all cities are powered; you lose when
the budget drops below zero.

GAME MECHANICS:
• Time: Each step is half a day. Day follows night; income and maintenance settle at the start of each day.
• Power: Plants feed cities through connected lines. Supply is shared in proportion to demand.
• Solar: Produces during the day only.
• Wind: Output depends on the weather (CALM, BREEZY, WINDY). Requires the UNLOCK_WIND tech.
• Batteries: Store surplus and discharge when supply falls short.
• Storms: Windy nights can damage unprotected transmission lines. Repair or storm-proof them.
• Events: Heat waves, cold snaps and other events change demand or damage the grid for a few days.
• Growth: Powered cities grow over time.

MAP LEGEND:
• . - Empty
• C - City (powered) / c - City (unpowered)
• K - Coal plant / S - Solar / W - Wind / N - Nuclear
• U - Substation
• B - Battery bank
• = - Transmission line / # - Storm-proof line / x - Damaged line
• - - Distribution line

STRATEGY:
- Preview a line before building it; routes only cross empty cells.
- Connect plants to cities with transmission lines and finish with distribution lines.
- Keep daily maintenance below daily income.
- Buy research points early for wind and efficiency upgrades.

Good luck keeping the lights on!`

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	paused := ""
	if session.Paused {
		paused = " (paused)"
	}
	return fmt.Sprintf("Session: %s%s\nConfig: %s\nSeed: %d\nCreated: %s\n\n%s",
		session.ID, paused, session.ConfigName, session.Seed,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

// cellChar maps a cell to its single-character map glyph
func cellChar(cell engine.Cell) string {
	switch cell.Type {
	case engine.City:
		if cell.City != nil && cell.City.IsPowered {
			return "C"
		}
		return "c"
	case engine.Plant:
		if cell.Plant == nil {
			return "P"
		}
		switch cell.Plant.Kind {
		case engine.Coal:
			return "K"
		case engine.Solar:
			return "S"
		case engine.Wind:
			return "W"
		case engine.Nuclear:
			return "N"
		}
		return "P"
	case engine.Substation:
		return "U"
	case engine.Battery:
		return "B"
	case engine.Transmission:
		if cell.IsDamaged {
			return "x"
		}
		if cell.Line != nil && cell.Line.IsStormProof {
			return "#"
		}
		return "="
	case engine.Distribution:
		return "-"
	default:
		return "."
	}
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder
	summary := service.Summarize(state)

	fmt.Fprintf(&b, "Day %d (%s) | Weather: %s | Status: %s\n",
		state.Day, state.TimeOfDay, state.Weather, state.GameStatus)
	fmt.Fprintf(&b, "Budget: $%d | Research: %d pts | Income: $%d/day | Maintenance: $%d/day\n",
		state.Budget, state.ResearchPoints, state.DailyIncome, state.DailyMaintenance)
	fmt.Fprintf(&b, "Supply: %d MW (batteries %d) | Demand: %d MW | Cities powered: %d/%d\n",
		state.EffectiveSupply, state.PowerFromBatteries, state.TotalDemand, summary.PoweredCities, summary.TotalCities)
	if state.TotalBatteryCapacity > 0 {
		fmt.Fprintf(&b, "Storage: %d/%d MWh\n", state.TotalBatteryCharge, state.TotalBatteryCapacity)
	}
	if summary.DamagedLines > 0 {
		fmt.Fprintf(&b, "Damaged lines: %d\n", summary.DamagedLines)
	}
	if state.ActiveEvent != nil {
		fmt.Fprintf(&b, "Active event: %s (%d steps left)\n", state.ActiveEvent.Event.Message, state.ActiveEvent.Remaining)
	}
	b.WriteString("\n")

	for _, row := range state.Grid {
		for _, cell := range row {
			b.WriteString(cellChar(cell))
		}
		b.WriteString("\n")
	}

	switch state.GameStatus {
	case engine.Won:
		b.WriteString("\n🎉 VICTORY! Every city is powered.")
	case engine.Lost:
		b.WriteString("\n💀 GAME OVER: bankrupt.")
	}

	if len(state.EventLog) > 0 {
		b.WriteString("\nRecent events:\n")
		for _, line := range state.EventLog {
			fmt.Fprintf(&b, "- %s\n", line)
		}
	}

	if state.Message != "" {
		fmt.Fprintf(&b, "\nMessage: %s", state.Message)
	}

	return b.String()
}

func formatActionResult(result *service.ActionResult) string {
	var b strings.Builder
	if result.Success {
		fmt.Fprintf(&b, "✓ %s: %s\n", result.Action, result.Message)
	} else {
		fmt.Fprintf(&b, "✗ %s rejected: %s\n", result.Action, result.Message)
	}

	if len(result.Events) > 0 {
		b.WriteString("Events:\n")
		for _, event := range result.Events {
			fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
		}
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatPreview(preview *service.PathPreview) string {
	if !preview.Found {
		return fmt.Sprintf("No %s route found", preview.Kind)
	}
	steps := make([]string, len(preview.Path))
	for i, p := range preview.Path {
		steps[i] = fmt.Sprintf("(%d,%d)", p.X, p.Y)
	}
	affordable := "affordable"
	if !preview.Affordable {
		affordable = "NOT affordable"
	}
	return fmt.Sprintf("%s route: %d segments, $%d (%s)\nPath: %s",
		preview.Kind, preview.Segments, preview.Cost, affordable, strings.Join(steps, " → "))
}

func formatCellInfo(info *service.CellInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cell at position (%d, %d):\n", info.Position.X, info.Position.Y)
	b.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Fprintf(&b, "Glyph: %s\n", cellChar(info.Cell))
	fmt.Fprintf(&b, "Description: %s\n", info.Description)
	if info.UpgradeCost > 0 {
		fmt.Fprintf(&b, "Upgrade cost: $%d\n", info.UpgradeCost)
	}
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Action History (Page %d/%d) | Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalActions)

	for _, entry := range history.Actions {
		status := "✓"
		if !entry.Success {
			status = "✗"
		}
		where := ""
		if entry.Position != nil {
			where = fmt.Sprintf(" (%d,%d)", entry.Position.X, entry.Position.Y)
		}
		if entry.Target != nil {
			where += fmt.Sprintf("→(%d,%d)", entry.Target.X, entry.Target.Y)
		}
		detail := ""
		if entry.Detail != "" {
			detail = " " + entry.Detail
		}
		fmt.Fprintf(&b, "%d. %s%s%s %s [Day %d, $%d]\n",
			entry.ActionNumber, entry.Action, where, detail, status, entry.Day, entry.Budget)
	}

	return b.String()
}
