// Package clock drives sessions forward in wall-clock time. Each tick
// advances every running session by one half-day step, the way the browser
// game advances while the player is watching.
package clock

import (
	"context"
	"log/slog"
	"time"

	"github.com/wricardo/mcp-training/gridtycoon/game/engine"
	"github.com/wricardo/mcp-training/gridtycoon/game/service"
)

// DefaultInterval is the wall-clock length of one half-day step
const DefaultInterval = 5 * time.Second

// Advancer is the slice of service.GameService the clock needs
type Advancer interface {
	ListSessions(ctx context.Context) ([]*service.SessionInfo, error)
	AdvanceDay(ctx context.Context, sessionID string, steps int) (*service.ActionResult, error)
}

// Broadcaster receives the result of every automatic step
type Broadcaster interface {
	BroadcastResult(sessionID string, result *service.ActionResult)
}

// Clock advances every unpaused, still-playing session once per interval
type Clock struct {
	advancer    Advancer
	broadcaster Broadcaster
	interval    time.Duration
	logger      *slog.Logger
}

// New creates a clock. A non-positive interval selects DefaultInterval and a
// nil broadcaster disables broadcasting.
func New(advancer Advancer, broadcaster Broadcaster, interval time.Duration) *Clock {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Clock{
		advancer:    advancer,
		broadcaster: broadcaster,
		interval:    interval,
		logger:      slog.Default().With("component", "clock"),
	}
}

// Interval returns the tick period
func (c *Clock) Interval() time.Duration {
	return c.interval
}

// Run ticks until ctx is cancelled
func (c *Clock) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.logger.Info("clock started", "interval", c.interval)
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("clock stopped")
			return nil
		case <-ticker.C:
			c.Tick(ctx)
		}
	}
}

// Tick advances each eligible session by one step and returns how many moved
func (c *Clock) Tick(ctx context.Context) int {
	sessions, err := c.advancer.ListSessions(ctx)
	if err != nil {
		c.logger.Error("list sessions", "error", err)
		return 0
	}

	advanced := 0
	for _, s := range sessions {
		if s.Paused || s.GameState == nil || s.GameState.GameStatus != engine.Playing {
			continue
		}
		result, err := c.advancer.AdvanceDay(ctx, s.ID, 1)
		if err != nil {
			// Deleted between the listing and the step.
			c.logger.Debug("advance skipped", "session", s.ID, "error", err)
			continue
		}
		advanced++
		if c.broadcaster != nil {
			c.broadcaster.BroadcastResult(s.ID, result)
		}
	}
	return advanced
}
