// Command analyze plays seeded Power Grid Tycoon games headlessly with a
// greedy build bot and prints aggregate outcomes for a tuning. Equal seeds
// replay identical games, so a report is reproducible and two tunings can be
// compared on the same seed range.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/wricardo/mcp-training/gridtycoon/game/config"
	"github.com/wricardo/mcp-training/gridtycoon/game/engine"
)

// RunResult is the outcome of one simulated game
type RunResult struct {
	Seed          uint64            `json:"seed"`
	Status        engine.GameStatus `json:"status"`
	Day           int               `json:"day"`
	Budget        int               `json:"budget"`
	PoweredCities int               `json:"powered_cities"`
	TotalCities   int               `json:"total_cities"`
	Actions       int               `json:"actions"`
	Supply        int               `json:"supply"`
	Demand        int               `json:"demand"`
}

// Summary aggregates a batch of runs
type Summary struct {
	Config        string  `json:"config"`
	Runs          int     `json:"runs"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Unfinished    int     `json:"unfinished"`
	WinRate       float64 `json:"win_rate"`
	AvgDaysToWin  float64 `json:"avg_days_to_win"`
	AvgBudget     float64 `json:"avg_final_budget"`
	AvgPowered    float64 `json:"avg_powered_cities"`
	AvgCities     float64 `json:"avg_total_cities"`
	FastestWinDay int     `json:"fastest_win_day,omitempty"`
}

// simulate plays one game until it ends or maxDays pass. Every half day the
// bot builds first, then the scheduler steps.
func simulate(ctx context.Context, cfg *engine.GameConfig, seed uint64, maxDays int) (RunResult, error) {
	e, err := engine.NewEngine(cfg, engine.NewSource(seed))
	if err != nil {
		return RunResult{}, err
	}

	bot := newGreedyBot()
	actions := 0
	for !e.IsGameOver() && e.GetState().Day <= maxDays {
		if err := ctx.Err(); err != nil {
			return RunResult{}, err
		}
		actions += bot.Turn(e)
		if e.IsGameOver() {
			break
		}
		e.AdvanceDay()
	}

	state := e.GetState()
	powered, total := engine.CountPoweredCities(state.Grid)
	return RunResult{
		Seed:          seed,
		Status:        state.GameStatus,
		Day:           state.Day,
		Budget:        state.Budget,
		PoweredCities: powered,
		TotalCities:   total,
		Actions:       actions,
		Supply:        state.EffectiveSupply,
		Demand:        state.TotalDemand,
	}, nil
}

// runBatch simulates seeds firstSeed..firstSeed+runs-1 with at most workers
// games in flight. Results are ordered by seed.
func runBatch(ctx context.Context, cfg *engine.GameConfig, firstSeed uint64, runs, maxDays, workers int) ([]RunResult, error) {
	results := make([]RunResult, runs)

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i := 0; i < runs; i++ {
		g.Go(func() error {
			r, err := simulate(ctx, cfg, firstSeed+uint64(i), maxDays)
			if err != nil {
				return fmt.Errorf("seed %d: %w", firstSeed+uint64(i), err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// summarize folds run results into averages
func summarize(name string, results []RunResult) Summary {
	s := Summary{Config: name, Runs: len(results)}
	if len(results) == 0 {
		return s
	}

	winDays := 0
	for _, r := range results {
		switch r.Status {
		case engine.Won:
			s.Wins++
			winDays += r.Day
			if s.FastestWinDay == 0 || r.Day < s.FastestWinDay {
				s.FastestWinDay = r.Day
			}
		case engine.Lost:
			s.Losses++
		default:
			s.Unfinished++
		}
		s.AvgBudget += float64(r.Budget)
		s.AvgPowered += float64(r.PoweredCities)
		s.AvgCities += float64(r.TotalCities)
	}

	n := float64(len(results))
	s.WinRate = float64(s.Wins) / n
	s.AvgBudget /= n
	s.AvgPowered /= n
	s.AvgCities /= n
	if s.Wins > 0 {
		s.AvgDaysToWin = float64(winDays) / float64(s.Wins)
	}
	return s
}

// printReport writes a human-readable report
func printReport(w io.Writer, summary Summary, results []RunResult, verbose bool) {
	fmt.Fprintf(w, "\n=== %s: %d runs ===\n", summary.Config, summary.Runs)
	fmt.Fprintf(w, "Wins: %d (%.0f%%) | Losses: %d | Unfinished: %d\n",
		summary.Wins, summary.WinRate*100, summary.Losses, summary.Unfinished)
	if summary.Wins > 0 {
		fmt.Fprintf(w, "Average days to win: %.1f (fastest: day %d)\n", summary.AvgDaysToWin, summary.FastestWinDay)
	}
	fmt.Fprintf(w, "Average final budget: $%.0f\n", summary.AvgBudget)
	fmt.Fprintf(w, "Average cities powered: %.1f/%.1f\n", summary.AvgPowered, summary.AvgCities)

	if !verbose {
		return
	}
	for _, r := range results {
		fmt.Fprintf(w, "  seed %d: %s on day %d, budget $%d, %d/%d cities, supply %d/%d MW, %d actions\n",
			r.Seed, r.Status, r.Day, r.Budget, r.PoweredCities, r.TotalCities, r.Supply, r.Demand, r.Actions)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "Simulate seeded games with a greedy bot and report outcomes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Usage:   "Directory containing configuration files",
				Value:   "configs",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.StringSliceFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config id to simulate (repeatable)",
				Value:   []string{config.DefaultConfigName},
			},
			&cli.IntFlag{Name: "runs", Aliases: []string{"n"}, Usage: "Games per config", Value: 20},
			&cli.Uint64Flag{Name: "seed", Usage: "First seed; run i uses seed+i", Value: 1},
			&cli.IntFlag{Name: "days", Usage: "Give up on a game after this many days", Value: 60},
			&cli.IntFlag{Name: "workers", Usage: "Games simulated in parallel", Value: 4},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Print every run"},
			&cli.BoolFlag{Name: "json", Usage: "Print results as JSON"},
		},
		Action: runAnalyze,
	}
}

type report struct {
	Summary Summary     `json:"summary"`
	Results []RunResult `json:"results"`
}

func runAnalyze(ctx context.Context, cmd *cli.Command) error {
	manager, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return err
	}

	runs := int(cmd.Int("runs"))
	if runs < 1 {
		return fmt.Errorf("runs must be at least 1, got %d", runs)
	}

	var reports []report
	for _, name := range cmd.StringSlice("config") {
		cfg, err := manager.LoadConfig(name)
		if err != nil {
			return fmt.Errorf("failed to load config %s: %w", name, err)
		}

		start := time.Now()
		results, err := runBatch(ctx, cfg, cmd.Uint64("seed"), runs, int(cmd.Int("days")), int(cmd.Int("workers")))
		if err != nil {
			return err
		}
		summary := summarize(cfg.Name, results)

		if cmd.Bool("json") {
			reports = append(reports, report{Summary: summary, Results: results})
			continue
		}
		printReport(cmd.Root().Writer, summary, results, cmd.Bool("verbose"))
		fmt.Fprintf(cmd.Root().Writer, "Simulated in %v\n", time.Since(start).Round(time.Millisecond))
	}

	if cmd.Bool("json") {
		enc := json.NewEncoder(cmd.Root().Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}
	return nil
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
