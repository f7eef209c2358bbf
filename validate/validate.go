// Command validate checks the game tuning files in a config directory. Each
// .json, .yaml or .yml file is run through the same path the server uses:
//   - decoding and JSON Schema validation
//   - overlay on the classic defaults and engine validation
//   - playability checks (an affordable opening plant, nonzero output)
//   - duplicate config ids across extensions
//
// It exits non-zero when any file is invalid.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/wricardo/mcp-training/gridtycoon/game/config"
	"github.com/wricardo/mcp-training/gridtycoon/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...any) {
	r.Errors = append(r.Errors, "✓ "+fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single tuning file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	format, ok := config.FormatForPath(filePath)
	if !ok {
		result.fail("Unsupported extension %q", filepath.Ext(filePath))
		return result
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	id := strings.TrimSuffix(result.File, filepath.Ext(result.File))
	cfg, err := config.Parse(data, format, id)
	if err != nil {
		result.fail("%v", err)
		return result
	}

	checkPlayability(cfg, &result)
	if !result.Valid {
		return result
	}

	maxCities := cfg.MinCities + cfg.ExtraCities - 1
	result.info("Name: %s", cfg.Name)
	result.info("Grid: %dx%d", cfg.GridSize, cfg.GridSize)
	result.info("Budget: $%d", cfg.InitialBudget)
	result.info("Cities: %d-%d, demand %d-%d MW each", cfg.MinCities, maxCities, cfg.CityDemandMin, maxCityDemand(cfg))
	result.info("Events: %d (chance %.0f%%)", len(cfg.Events), cfg.EventChance*100)
	result.info("Tech tree: %d points total", totalTechCost(cfg))
	return result
}

// checkPlayability flags tunings that pass validation but cannot be won
func checkPlayability(cfg *engine.GameConfig, result *ValidationResult) {
	cheapest := -1
	for _, kind := range engine.PlantKinds {
		if kind == engine.Wind {
			continue
		}
		if cost := cfg.PlantCost(kind); cheapest < 0 || cost < cheapest {
			cheapest = cost
		}
	}
	if cheapest > cfg.InitialBudget {
		result.fail("initial_budget $%d cannot buy the cheapest unlocked plant ($%d)", cfg.InitialBudget, cheapest)
	}

	if cfg.InitialBudget < cfg.ResearchCostPerPoint*cfg.Techs[engine.UnlockWind].Cost && cfg.ResearchCostPerPoint > 0 {
		result.Errors = append(result.Errors, "Note: UNLOCK_WIND costs more research than the starting budget buys")
	}

	output := 0
	for _, kind := range engine.PlantKinds {
		if spec := cfg.Plants[kind]; spec.Output > output {
			output = spec.Output
		}
	}
	if output == 0 {
		result.fail("every plant kind has zero output")
	}
}

func maxCityDemand(cfg *engine.GameConfig) int {
	return cfg.CityDemandMin + (cfg.CityDemandSpan-1)*cfg.CityDemandStep
}

func totalTechCost(cfg *engine.GameConfig) int {
	total := 0
	for _, spec := range cfg.Techs {
		total += spec.Cost
	}
	return total
}

// findConfigs lists tuning files in dir, sorted by name
func findConfigs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := config.FormatForPath(entry.Name()); ok {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// validateAll validates every file concurrently and flags ids that more than
// one file claims. Results keep the order of files.
func validateAll(ctx context.Context, files []string, workers int) ([]ValidationResult, error) {
	results := make([]ValidationResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = validateConfig(file)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	owners := make(map[string]string)
	for i := range results {
		name := results[i].File
		id := strings.TrimSuffix(name, filepath.Ext(name))
		if first, taken := owners[id]; taken {
			results[i].fail("config id %q is already provided by %s", id, first)
			continue
		}
		owners[id] = name
	}
	return results, nil
}

// printReport writes a concise report and reports whether every file passed
func printReport(w io.Writer, results []ValidationResult) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Errors {
				fmt.Fprintln(w, "  "+info)
			}
			continue
		}

		fmt.Fprintln(w, "❌ INVALID")
		allValid = false
		for _, err := range result.Errors {
			if !strings.HasPrefix(err, "✓") {
				fmt.Fprintln(w, "  ❌ "+err)
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All configurations are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some configurations have errors")
	}
	return allValid
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Validate Power Grid Tycoon tuning files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Usage:   "Directory containing configuration files",
				Value:   "configs",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Maximum files validated in parallel",
				Value: 4,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			files, err := findConfigs(cmd.String("dir"))
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no configuration files found in %s", cmd.String("dir"))
			}

			results, err := validateAll(ctx, files, int(cmd.Int("workers")))
			if err != nil {
				return err
			}
			if !printReport(cmd.Root().Writer, results) {
				return fmt.Errorf("some configurations have errors")
			}
			return nil
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
