package algo

import (
	"testing"

	"github.com/elektrokombinacija/mapf-core/internal/core"
)

// gridFromRows builds a Grid from ASCII rows ('#' obstacle, '.' free),
// mirroring the teacher's createGrid helper but over core.Grid instead of
// a weighted vertex/edge workspace.
func gridFromRows(t *testing.T, rows []string, dirs core.DirectionSet) *core.Grid {
	t.Helper()
	obstacle := make([][]bool, len(rows))
	for y, row := range rows {
		obstacle[y] = make([]bool, len(row))
		for x, c := range row {
			obstacle[y][x] = c == '#'
		}
	}
	g, err := core.NewGrid(obstacle, dirs)
	if err != nil {
		t.Fatalf("gridFromRows: %v", err)
	}
	return g
}

// buildInstance wires a grid and agents into a validated ProblemInstance
// plus its SIC table, the shape every solver test starts from.
func buildInstance(t *testing.T, grid *core.Grid, agents []core.Agent) (*core.ProblemInstance, *SIC) {
	t.Helper()
	sic, err := BuildSIC(grid, agents)
	if err != nil {
		t.Fatalf("BuildSIC: %v", err)
	}
	inst, err := core.NewProblemInstance(grid, agents, func(i int) bool {
		return sic.H(i, agents[i].StartX, agents[i].StartY) < 1<<29
	})
	if err != nil {
		t.Fatalf("NewProblemInstance: %v", err)
	}
	return inst, sic
}
