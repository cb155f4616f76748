// Command genbench generates random MAPF instances and, optionally, runs
// CBS/EPEA* over them and appends the results to a CSV log. It replaces
// the teacher's separate gen_instances/run_benchmarks tools with one
// flag-driven generator-and-sweep tool, since this domain's instances are
// small enough to generate and solve in the same pass.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/elektrokombinacija/mapf-core/internal/algo"
	"github.com/elektrokombinacija/mapf-core/internal/core"
	"github.com/elektrokombinacija/mapf-core/internal/ioformat"
)

func main() {
	seed := flag.Int64("seed", 42, "random seed for deterministic generation")
	numAgents := flag.Int("agents", 5, "number of agents")
	width := flag.Int("width", 8, "grid width")
	height := flag.Int("height", 8, "grid height")
	obstacleDensity := flag.Float64("obstacles", 0.1, "fraction of cells blocked")
	instances := flag.Int("instances", 1, "number of instances to generate")
	outputDir := flag.String("output", "testdata", "directory for generated instance files")
	resultsPath := flag.String("results", "", "CSV path to append solve results to (empty = don't solve)")
	maxTime := flag.Duration("max-time", 5*time.Second, "per-solve wall-clock budget")

	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "genbench: creating output dir: %v\n", err)
		os.Exit(1)
	}

	var resultsFile *os.File
	var resultWriter *ioformat.ResultWriter
	if *resultsPath != "" {
		f, err := os.OpenFile(*resultsPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "genbench: opening results file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		resultsFile = f
		resultWriter = ioformat.NewResultWriter(f)
	}

	rng := rand.New(rand.NewSource(*seed))

	for i := 0; i < *instances; i++ {
		grid, agents, obstacleCount := generateInstance(rng, *width, *height, *numAgents, *obstacleDensity)
		instanceID := uuid.NewString()

		combined := &ioformat.CombinedInstance{
			ID:       instanceID,
			GridName: fmt.Sprintf("genbench_%d", i),
			Grid:     grid,
			Agents:   agents,
		}

		path := fmt.Sprintf("%s/%s.instance", *outputDir, instanceID)
		out, err := os.Create(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "genbench: creating %s: %v\n", path, err)
			continue
		}
		if err := ioformat.WriteCombined(out, combined); err != nil {
			fmt.Fprintf(os.Stderr, "genbench: writing %s: %v\n", path, err)
		}
		out.Close()
		fmt.Printf("generated %s (%d agents, %dx%d grid, %d obstacles)\n", path, len(agents), *width, *height, obstacleCount)

		if resultWriter == nil {
			continue
		}
		row := ioformat.NewResultRow(instanceID, *width, *height, obstacleCount, len(agents))
		solveAndLog(grid, agents, *maxTime, row, resultWriter)
	}

	if resultsFile != nil {
		fmt.Printf("results appended to %s\n", *resultsPath)
	}
}

// generateInstance builds a random grid and a set of agents with distinct,
// obstacle-free start/goal cells. It does not check that each goal is
// reachable from its start; solveAndLog logs such instances as failures.
func generateInstance(rng *rand.Rand, width, height, numAgents int, obstacleDensity float64) (*core.Grid, []core.Agent, int) {
	for {
		obstacle := make([][]bool, height)
		obstacleCount := 0
		for y := range obstacle {
			obstacle[y] = make([]bool, width)
			for x := range obstacle[y] {
				if rng.Float64() < obstacleDensity {
					obstacle[y][x] = true
					obstacleCount++
				}
			}
		}

		grid, err := core.NewGrid(obstacle, core.FiveDirections)
		if err != nil {
			continue
		}

		agents, ok := placeAgents(rng, grid, numAgents)
		if !ok {
			continue
		}
		return grid, agents, obstacleCount
	}
}

func placeAgents(rng *rand.Rand, grid *core.Grid, numAgents int) ([]core.Agent, bool) {
	if grid.NumLocations < numAgents*2 {
		return nil, false
	}

	used := make(map[[2]int]bool)
	randomFreeCell := func() (int, int, bool) {
		for attempt := 0; attempt < 1000; attempt++ {
			x, y := rng.Intn(grid.Width), rng.Intn(grid.Height)
			if grid.IsObstacle(x, y) || used[[2]int{x, y}] {
				continue
			}
			return x, y, true
		}
		return 0, 0, false
	}

	agents := make([]core.Agent, 0, numAgents)
	for i := 0; i < numAgents; i++ {
		sx, sy, ok := randomFreeCell()
		if !ok {
			return nil, false
		}
		used[[2]int{sx, sy}] = true

		gx, gy, ok := randomFreeCell()
		if !ok {
			return nil, false
		}
		used[[2]int{gx, gy}] = true

		agents = append(agents, core.NewAgent(core.AgentID(i), sx, sy, gx, gy))
	}
	return agents, true
}

func solveAndLog(grid *core.Grid, agents []core.Agent, maxTime time.Duration, row ioformat.ResultRow, rw *ioformat.ResultWriter) {
	sic, err := algo.BuildSIC(grid, agents)
	if err != nil {
		logFailure(row, "CBS", rw)
		logFailure(row, "EPEA*", rw)
		return
	}

	inst, err := core.NewProblemInstance(grid, agents, func(i int) bool {
		return sic.H(i, agents[i].StartX, agents[i].StartY) < 1<<29
	})
	if err != nil {
		logFailure(row, "CBS", rw)
		logFailure(row, "EPEA*", rw)
		return
	}

	cfg := algo.DefaultConfig()
	cfg.MaxTime = int(maxTime.Milliseconds())

	start := time.Now()
	plan, stats, err := algo.SolveCBS(inst, sic, cfg)
	elapsed := time.Since(start).Seconds() * 1000
	cost := -1
	if plan != nil {
		cost = plan.Cost
	}
	rw.Write(row.WithStats("CBS", err == nil, elapsed, cost, stats))

	pairs := algo.BuildPairs(inst, sic, cfg, algo.SPC)
	start = time.Now()
	plan, stats, err = algo.SolveEPEA(inst, sic, pairs, cfg)
	elapsed = time.Since(start).Seconds() * 1000
	cost = -1
	if plan != nil {
		cost = plan.Cost
	}
	rw.Write(row.WithStats("EPEA*", err == nil, elapsed, cost, stats))
}

func logFailure(row ioformat.ResultRow, solver string, rw *ioformat.ResultWriter) {
	rw.Write(row.WithStats(solver, false, 0, -1, algo.Stats{}))
}
