package ioformat

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/google/uuid"

	"github.com/elektrokombinacija/mapf-core/internal/algo"
)

// ResultRow is one run's entry in the benchmark CSV log: grid/instance
// identity followed by per-solver stats (spec.md §6 "Result log"),
// grounded on the teacher's tools/run_benchmarks BenchmarkResult shape but
// narrowed to this domain's fields (no makespan/deadline/task columns).
type ResultRow struct {
	RunID         string
	InstanceID    string
	GridWidth     int
	GridHeight    int
	ObstacleCount int
	NumAgents     int
	Solver        string
	Success       bool
	RuntimeMs     float64
	Cost          int
	Expanded      int
	Generated     int
	MaxSubgroup   int
	SolutionDepth int
}

// NewResultRow stamps a fresh run ID and fills in the solver-independent
// instance fields; callers then fill in the per-solver Stats fields after
// solving.
func NewResultRow(instanceID string, width, height, obstacles, numAgents int) ResultRow {
	return ResultRow{
		RunID:         uuid.NewString(),
		InstanceID:    instanceID,
		GridWidth:     width,
		GridHeight:    height,
		ObstacleCount: obstacles,
		NumAgents:     numAgents,
	}
}

// WithStats fills in a row's solver outcome from a solve call's returned
// Stats (and the cost of the plan it produced, or -1 on failure —
// spec.md §7 "Unsolvable instance").
func (r ResultRow) WithStats(solver string, success bool, elapsedMs float64, cost int, stats algo.Stats) ResultRow {
	r.Solver = solver
	r.Success = success
	r.RuntimeMs = elapsedMs
	r.Cost = cost
	r.Expanded = stats.Expanded
	r.Generated = stats.Generated
	r.MaxSubgroup = stats.MaxSubgroupSize
	r.SolutionDepth = stats.SolutionDepth
	return r
}

var resultCSVHeader = []string{
	"run_id", "instance_id", "grid_width", "grid_height", "obstacle_count",
	"num_agents", "solver", "success", "runtime_ms", "cost", "expanded",
	"generated", "max_subgroup", "solution_depth",
}

// ResultWriter appends ResultRows to a CSV stream, writing the header once
// on the first row.
type ResultWriter struct {
	w           *csv.Writer
	wroteHeader bool
}

// NewResultWriter creates a writer over w.
func NewResultWriter(w io.Writer) *ResultWriter {
	return &ResultWriter{w: csv.NewWriter(w)}
}

// Write appends one row, flushing after every write so a crash mid-run
// loses at most the in-flight row (spec.md §9 experiment-driver model: a
// long sweep over many instances/solvers should be resumable from the log).
func (rw *ResultWriter) Write(row ResultRow) error {
	if !rw.wroteHeader {
		if err := rw.w.Write(resultCSVHeader); err != nil {
			return err
		}
		rw.wroteHeader = true
	}
	record := []string{
		row.RunID,
		row.InstanceID,
		strconv.Itoa(row.GridWidth),
		strconv.Itoa(row.GridHeight),
		strconv.Itoa(row.ObstacleCount),
		strconv.Itoa(row.NumAgents),
		row.Solver,
		strconv.FormatBool(row.Success),
		strconv.FormatFloat(row.RuntimeMs, 'f', 3, 64),
		strconv.Itoa(row.Cost),
		strconv.Itoa(row.Expanded),
		strconv.Itoa(row.Generated),
		strconv.Itoa(row.MaxSubgroup),
		strconv.Itoa(row.SolutionDepth),
	}
	if err := rw.w.Write(record); err != nil {
		return err
	}
	rw.w.Flush()
	return rw.w.Error()
}
