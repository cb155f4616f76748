// Package cli implements the mapfcore command-line subcommands: solve,
// bench, gen, and convert. Each command is a kong-tagged struct with a
// Run method, grounded on upside-down-research-agentic's cmd/agentic
// command layout.
package cli

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/elektrokombinacija/mapf-core/internal/algo"
	"github.com/elektrokombinacija/mapf-core/internal/core"
	"github.com/elektrokombinacija/mapf-core/internal/ioformat"
)

// SolveCommand loads an instance and runs one solver over it.
type SolveCommand struct {
	Instance string        `arg:"" help:"Path to a combined-format instance file." type:"path"`
	Solver   string        `name:"solver" help:"cbs or epea" enum:"cbs,epea" default:"cbs"`
	Split    string        `name:"split" help:"CBS split mode: local or disjoint" enum:"local,disjoint" default:"local"`
	Bypass   bool          `name:"bypass" help:"Enable CBS bypass" default:"true"`
	MaxTime  time.Duration `name:"max-time" help:"Wall-clock budget" default:"30s"`
	Output   string        `name:"output" help:"Write the solved plan's per-agent timed paths here; empty prints them to stdout"`
}

// Run solves the loaded instance and reports the outcome.
func (c *SolveCommand) Run() error {
	f, err := os.Open(c.Instance)
	if err != nil {
		return fmt.Errorf("opening instance: %w", err)
	}
	defer f.Close()

	combined, err := ioformat.ReadCombined(f, core.FiveDirections)
	if err != nil {
		return fmt.Errorf("parsing instance: %w", err)
	}

	cfg := algo.DefaultConfig()
	cfg.MaxTime = int(c.MaxTime.Milliseconds())
	if c.Split == "disjoint" {
		cfg.DisjointSplitting = true
	}
	cfg.CBSBypass = c.Bypass

	sic, err := algo.BuildSIC(combined.Grid, combined.Agents)
	if err != nil {
		log.Error("instance unsolvable", "reason", err)
		return err
	}

	inst, err := core.NewProblemInstance(combined.Grid, combined.Agents, func(i int) bool {
		return sic.H(i, combined.Agents[i].StartX, combined.Agents[i].StartY) < 1<<29
	})
	if err != nil {
		log.Error("instance rejected", "reason", err)
		return err
	}

	log.Info("solving", "solver", c.Solver, "agents", inst.N(), "grid", fmt.Sprintf("%dx%d", combined.Grid.Width, combined.Grid.Height))

	start := time.Now()
	var plan *core.Plan
	var stats algo.Stats
	switch c.Solver {
	case "epea":
		pairs := algo.BuildPairs(inst, sic, cfg, algo.SPC)
		plan, stats, err = algo.SolveEPEA(inst, sic, pairs, cfg)
	default:
		plan, stats, err = algo.SolveCBS(inst, sic, cfg)
	}
	elapsed := time.Since(start)

	if err != nil {
		log.Error("solve failed", "solver", c.Solver, "elapsed", elapsed, "error", err)
		return err
	}

	log.Info("solved", "solver", c.Solver, "cost", plan.Cost, "expanded", stats.Expanded,
		"generated", stats.Generated, "elapsed", elapsed)

	if c.Output == "" {
		for _, a := range inst.Agents {
			fmt.Printf("agent %d: ", a.ID)
			for _, tm := range plan.Paths[a.ID] {
				fmt.Printf("(%d,%d)@%d ", tm.X, tm.Y, tm.Time)
			}
			fmt.Println()
		}
		return nil
	}

	out, err := os.Create(c.Output)
	if err != nil {
		return fmt.Errorf("writing plan: %w", err)
	}
	defer out.Close()
	for _, a := range inst.Agents {
		fmt.Fprintf(out, "agent %d: ", a.ID)
		for _, tm := range plan.Paths[a.ID] {
			fmt.Fprintf(out, "(%d,%d)@%d ", tm.X, tm.Y, tm.Time)
		}
		fmt.Fprintln(out)
	}
	return nil
}

// GenCommand generates a random instance and writes it in combined format.
type GenCommand struct {
	Seed      int64   `name:"seed" help:"Random seed" default:"42"`
	Width     int     `name:"width" help:"Grid width" default:"8"`
	Height    int     `name:"height" help:"Grid height" default:"8"`
	Agents    int     `name:"agents" help:"Number of agents" default:"5"`
	Obstacles float64 `name:"obstacles" help:"Obstacle density, 0-1" default:"0.1"`
	Output    string  `arg:"" help:"Output instance file path." type:"path"`
}

// Run generates a random instance to Output.
func (c *GenCommand) Run() error {
	rng := rand.New(rand.NewSource(c.Seed))

	var grid *core.Grid
	var agents []core.Agent
	for attempt := 0; attempt < 1000; attempt++ {
		g, a, ok := tryGenerate(rng, c.Width, c.Height, c.Agents, c.Obstacles)
		if ok {
			grid, agents = g, a
			break
		}
	}
	if grid == nil {
		return fmt.Errorf("cli: could not place %d agents on a %dx%d grid after 1000 attempts", c.Agents, c.Width, c.Height)
	}

	out, err := os.Create(c.Output)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer out.Close()

	err = ioformat.WriteCombined(out, &ioformat.CombinedInstance{Grid: grid, Agents: agents})
	if err != nil {
		return err
	}
	log.Info("generated instance", "path", c.Output, "agents", len(agents), "grid", fmt.Sprintf("%dx%d", c.Width, c.Height))
	return nil
}

func tryGenerate(rng *rand.Rand, width, height, numAgents int, density float64) (*core.Grid, []core.Agent, bool) {
	obstacle := make([][]bool, height)
	for y := range obstacle {
		obstacle[y] = make([]bool, width)
		for x := range obstacle[y] {
			obstacle[y][x] = rng.Float64() < density
		}
	}
	grid, err := core.NewGrid(obstacle, core.FiveDirections)
	if err != nil || grid.NumLocations < numAgents*2 {
		return nil, nil, false
	}

	used := make(map[[2]int]bool)
	freeCell := func() (int, int, bool) {
		for i := 0; i < 1000; i++ {
			x, y := rng.Intn(width), rng.Intn(height)
			if !grid.IsObstacle(x, y) && !used[[2]int{x, y}] {
				return x, y, true
			}
		}
		return 0, 0, false
	}

	agents := make([]core.Agent, 0, numAgents)
	for i := 0; i < numAgents; i++ {
		sx, sy, ok := freeCell()
		if !ok {
			return nil, nil, false
		}
		used[[2]int{sx, sy}] = true
		gx, gy, ok := freeCell()
		if !ok {
			return nil, nil, false
		}
		used[[2]int{gx, gy}] = true
		agents = append(agents, core.NewAgent(core.AgentID(i), sx, sy, gx, gy))
	}
	return grid, agents, true
}

// BenchCommand generates a sweep of random instances across a seed range
// and appends each solver's outcome to a CSV log (spec.md §6 "Result
// log"), grounded on the teacher's tools/run_benchmarks main loop.
type BenchCommand struct {
	Seeds     int     `name:"seeds" help:"Number of seeds to sweep, starting at 0" default:"10"`
	Width     int     `name:"width" help:"Grid width" default:"8"`
	Height    int     `name:"height" help:"Grid height" default:"8"`
	Agents    int     `name:"agents" help:"Number of agents" default:"5"`
	Obstacles float64 `name:"obstacles" help:"Obstacle density, 0-1" default:"0.1"`
	MaxTime   time.Duration `name:"max-time" help:"Per-solve wall-clock budget" default:"5s"`
	Results   string  `arg:"" help:"CSV path to append results to." type:"path"`
}

// Run sweeps Seeds instances through both CBS and EPEA* and appends one
// row per (instance, solver) pair to Results.
func (c *BenchCommand) Run() error {
	out, err := os.OpenFile(c.Results, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening results file: %w", err)
	}
	defer out.Close()
	rw := ioformat.NewResultWriter(out)

	maxTimeMs := int(c.MaxTime.Milliseconds())

	for seed := int64(0); seed < int64(c.Seeds); seed++ {
		rng := rand.New(rand.NewSource(seed))

		var grid *core.Grid
		var agents []core.Agent
		for attempt := 0; attempt < 1000; attempt++ {
			g, a, ok := tryGenerate(rng, c.Width, c.Height, c.Agents, c.Obstacles)
			if ok {
				grid, agents = g, a
				break
			}
		}
		if grid == nil {
			log.Warn("could not place agents, skipping seed", "seed", seed)
			continue
		}

		instanceID := fmt.Sprintf("bench-%d", seed)
		obstacleCount := countObstacles(grid)
		row := ioformat.NewResultRow(instanceID, c.Width, c.Height, obstacleCount, len(agents))

		runOne(grid, agents, "CBS", maxTimeMs, row, rw)
		runOne(grid, agents, "EPEA*", maxTimeMs, row, rw)
		log.Info("benchmarked instance", "seed", seed, "agents", len(agents))
	}
	return nil
}

func countObstacles(grid *core.Grid) int {
	count := 0
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			if grid.IsObstacle(x, y) {
				count++
			}
		}
	}
	return count
}

func runOne(grid *core.Grid, agents []core.Agent, solver string, maxTimeMs int, row ioformat.ResultRow, rw *ioformat.ResultWriter) {
	sic, err := algo.BuildSIC(grid, agents)
	if err != nil {
		rw.Write(row.WithStats(solver, false, 0, -1, algo.Stats{}))
		return
	}
	inst, err := core.NewProblemInstance(grid, agents, func(i int) bool {
		return sic.H(i, agents[i].StartX, agents[i].StartY) < 1<<29
	})
	if err != nil {
		rw.Write(row.WithStats(solver, false, 0, -1, algo.Stats{}))
		return
	}

	cfg := algo.DefaultConfig()
	cfg.MaxTime = maxTimeMs

	start := time.Now()
	var plan *core.Plan
	var stats algo.Stats
	if solver == "EPEA*" {
		pairs := algo.BuildPairs(inst, sic, cfg, algo.SPC)
		plan, stats, err = algo.SolveEPEA(inst, sic, pairs, cfg)
	} else {
		plan, stats, err = algo.SolveCBS(inst, sic, cfg)
	}
	elapsed := time.Since(start).Seconds() * 1000

	cost := -1
	if plan != nil {
		cost = plan.Cost
	}
	rw.Write(row.WithStats(solver, err == nil, elapsed, cost, stats))
}

// ConvertCommand translates an instance between the formats of spec.md §6.
type ConvertCommand struct {
	In      string `arg:"" help:"Input instance path." type:"path"`
	InForm  string `name:"from" help:"benchmark, liron, or combined" enum:"benchmark,liron,combined" default:"combined"`
	Out     string `arg:"" help:"Output instance path." type:"path"`
	OutForm string `name:"to" help:"benchmark, liron, or combined" enum:"benchmark,liron,combined" default:"benchmark"`
}

// Run reads In in InForm and writes it to Out in OutForm. Agent data only
// survives a round trip through the combined format; converting between
// the two bare map formats carries no agents.
func (c *ConvertCommand) Run() error {
	in, err := os.Open(c.In)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer in.Close()

	var grid *core.Grid
	var agents []core.Agent

	switch c.InForm {
	case "benchmark":
		grid, err = ioformat.ReadBenchmarkMap(in, core.FiveDirections)
	case "liron":
		grid, err = ioformat.ReadLironMap(in, core.FiveDirections)
	default:
		var combined *ioformat.CombinedInstance
		combined, err = ioformat.ReadCombined(in, core.FiveDirections)
		if err == nil {
			grid, agents = combined.Grid, combined.Agents
		}
	}
	if err != nil {
		return fmt.Errorf("parsing input: %w", err)
	}

	out, err := os.Create(c.Out)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer out.Close()

	switch c.OutForm {
	case "benchmark":
		return ioformat.WriteBenchmarkMap(out, grid)
	case "liron":
		return ioformat.WriteLironMap(out, grid)
	default:
		return ioformat.WriteCombined(out, &ioformat.CombinedInstance{Grid: grid, Agents: agents})
	}
}
