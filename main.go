// Command gridtycoon starts the Power Grid Tycoon server.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server exposing REST API, WebSocket, an /mcp HTTP
//     endpoint and the real-time clock
//  2. "mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Flags control host/port, config directory, tick interval, session expiry, debug
// logging and optional ngrok tunneling. Every flag can also be set from the
// environment or a .env file.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
	"golang.org/x/sync/errgroup"

	"github.com/wricardo/mcp-training/gridtycoon/api"
	"github.com/wricardo/mcp-training/gridtycoon/game/clock"
	"github.com/wricardo/mcp-training/gridtycoon/game/config"
	"github.com/wricardo/mcp-training/gridtycoon/game/service"
	"github.com/wricardo/mcp-training/gridtycoon/game/session"
	"github.com/wricardo/mcp-training/gridtycoon/transport/mcp"
	"github.com/wricardo/mcp-training/gridtycoon/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Power Grid Tycoon Server"
)

const (
	cleanupInterval = time.Hour
	shutdownTimeout = 10 * time.Second
)

func main() {
	// Load .env file if it exists (ignore error if not found)
	envErr := godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(envErr).Run(ctx, os.Args); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

// newRootCommand builds the CLI. envErr is the result of loading .env and is
// reported once logging is configured.
func newRootCommand(envErr error) *cli.Command {
	before := func(cmd *cli.Command) {
		setupLogging(cmd.Bool("debug"))
		if envErr == nil {
			slog.Debug("loaded environment variables from .env file")
		} else if !os.IsNotExist(envErr) {
			slog.Warn("error loading .env file", "error", envErr)
		}
	}

	serve := func(ctx context.Context, cmd *cli.Command) error {
		before(cmd)
		return runHTTPServer(ctx, cmd)
	}

	return &cli.Command{
		Name:    "gridtycoon",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "host",
				Value:   "localhost",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("HOST"),
			},
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "Directory containing game configurations",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.DurationFlag{
				Name:    "tick-interval",
				Value:   clock.DefaultInterval,
				Usage:   "Wall-clock length of one half-day step",
				Sources: cli.EnvVars("TICK_INTERVAL"),
			},
			&cli.BoolFlag{
				Name:    "clock",
				Value:   true,
				Usage:   "Advance running sessions in real time",
				Sources: cli.EnvVars("CLOCK_ENABLED"),
			},
			&cli.DurationFlag{
				Name:    "session-ttl",
				Value:   24 * time.Hour,
				Usage:   "Remove sessions not accessed for this long",
				Sources: cli.EnvVars("SESSION_TTL"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("DEBUG"),
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "Enable ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "Ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "Custom ngrok domain (optional)",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:    "server",
				Aliases: []string{"http"},
				Usage:   "Run HTTP server with API, WebSocket, MCP endpoint and clock (default)",
				Action:  serve,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "Run MCP stdio server, reusing an API at --api-url or starting an internal one",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "api-url",
						Value:   "http://localhost:8080",
						Usage:   "External API server to proxy when it is reachable",
						Sources: cli.EnvVars("API_URL"),
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					before(cmd)
					return runStdioMCP(ctx, cmd)
				},
			},
		},
	}
}

// setupLogging installs the default structured logger. Logs go to stderr so
// stdout stays free for the MCP stdio transport.
func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	}))
	slog.SetDefault(logger)
}

// initializeServices wires the session and config managers into the game service
func initializeServices(configDir string) (service.GameService, *session.Manager, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	sessionManager := session.NewManager()
	gameService := service.NewGameService(sessionManager, configManager)

	return gameService, sessionManager, nil
}

// newRouter combines the REST API and the /mcp JSON-RPC endpoint
func newRouter(apiServer http.Handler, mcpClient *mcp.Client) http.Handler {
	mainRouter := http.NewServeMux()

	// Mount API server at root
	mainRouter.Handle("/", apiServer)

	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})

	return mainRouter
}

// sessionCleanupRoutine periodically removes sessions that have not been accessed
// within the retention window
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			manager.CleanupExpiredSessions(maxAge)
		}
	}
}

// runHTTPServer starts the HTTP server, WebSocket hub, clock and session
// cleanup under one errgroup. If ngrok is enabled it also provisions a public
// tunnel. It returns when ctx is cancelled or any component fails.
func runHTTPServer(ctx context.Context, cmd *cli.Command) error {
	logger := slog.Default().With("component", "server")

	gameService, sessionManager, err := initializeServices(cmd.String("config-dir"))
	if err != nil {
		return err
	}

	hub := websocket.NewHub()
	apiServer := api.NewServer(gameService, hub)

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), int(cmd.Int("port")))
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))
	handler := newRouter(apiServer, mcpClient)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return hub.Run(gctx) })

	if cmd.Bool("clock") {
		clk := clock.New(gameService, hub, cmd.Duration("tick-interval"))
		logger.Info("clock enabled", "interval", clk.Interval())
		g.Go(func() error { return clk.Run(gctx) })
	}

	g.Go(func() error {
		sessionCleanupRoutine(gctx, sessionManager, cleanupInterval, cmd.Duration("session-ttl"))
		return nil
	})

	g.Go(func() error {
		logger.Info("HTTP server listening", "addr", addr)
		logger.Info("endpoints",
			"api", fmt.Sprintf("http://%s/api", addr),
			"websocket", fmt.Sprintf("ws://%s/ws?session=<session_id>", addr),
			"mcp", fmt.Sprintf("http://%s/mcp", addr),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if cmd.Bool("ngrok") {
		g.Go(func() error {
			runNgrok(gctx, handler, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"))
			return nil
		})
	}

	err = g.Wait()
	logger.Info("server stopped")
	return err
}

// runNgrok serves handler through an ngrok tunnel until ctx is cancelled.
// Tunnel failures are logged and do not stop the local server.
func runNgrok(ctx context.Context, handler http.Handler, authToken, domain string) {
	logger := slog.Default().With("component", "ngrok")

	if authToken == "" {
		logger.Warn("ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	logger.Info("starting ngrok tunnel")

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		logger.Info("using custom ngrok domain", "domain", domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		logger.Error("failed to start ngrok tunnel", "error", err)
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			logger.Warn("failed to close ngrok tunnel", "error", err)
		}
	}()

	ngrokURL := tun.URL()
	logger.Info("ngrok tunnel established",
		"url", ngrokURL,
		"api", ngrokURL+"/api",
		"websocket", ngrokURL+"/ws?session=<session_id>",
		"mcp", ngrokURL+"/mcp",
	)

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		logger.Error("ngrok server error", "error", err)
	}
	logger.Info("ngrok tunnel closed")
}

// apiAvailable reports whether an API server answers /health at baseURL
func apiAvailable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// startInternalAPI serves the REST API on a random loopback port and returns
// its base URL. The server, hub and clock stop when ctx is cancelled.
func startInternalAPI(ctx context.Context, g *errgroup.Group, gameService service.GameService, tickInterval time.Duration, withClock bool) (string, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("failed to get available port: %w", err)
	}

	hub := websocket.NewHub()
	httpServer := &http.Server{Handler: api.NewServer(gameService, hub)}

	g.Go(func() error { return hub.Run(ctx) })
	if withClock {
		clk := clock.New(gameService, hub, tickInterval)
		g.Go(func() error { return clk.Run(ctx) })
	}
	g.Go(func() error {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("internal HTTP server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return fmt.Sprintf("http://%s", listener.Addr().String()), nil
}

// runStdioMCP runs an MCP stdio server. It reuses an external API at --api-url
// when one answers; otherwise it starts an internal HTTP API on a loopback port.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	logger := slog.Default().With("component", "mcp")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	baseURL := cmd.String("api-url")
	logger.Info("checking for external API server", "url", baseURL)

	if apiAvailable(gctx, baseURL) {
		logger.Info("external API server found, using it for MCP", "url", baseURL)
	} else {
		logger.Info("no external API server found, starting internal HTTP server")

		gameService, sessionManager, err := initializeServices(cmd.String("config-dir"))
		if err != nil {
			return err
		}
		baseURL, err = startInternalAPI(gctx, g, gameService, cmd.Duration("tick-interval"), cmd.Bool("clock"))
		if err != nil {
			return err
		}
		g.Go(func() error {
			sessionCleanupRoutine(gctx, sessionManager, cleanupInterval, cmd.Duration("session-ttl"))
			return nil
		})
		logger.Info("internal HTTP server started", "url", baseURL)
	}

	mcpClient := mcp.NewClient(baseURL)
	logger.Info("MCP stdio server ready", "api", baseURL)

	serveErr := server.ServeStdio(mcpClient.GetMCPServer())
	cancel()
	if err := g.Wait(); err != nil {
		logger.Warn("internal server stopped with error", "error", err)
	}
	if serveErr != nil {
		return fmt.Errorf("MCP stdio server error: %w", serveErr)
	}
	return nil
}
