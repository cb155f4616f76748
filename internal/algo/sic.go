package algo

import (
	"github.com/elektrokombinacija/mapf-core/internal/core"
)

// SIC is the Sum-of-Individual-Costs heuristic (spec.md §4.2): for each
// agent, a backward BFS from its goal over the traversable grid gives
// dist[agent][cell] and a best-move table optMove[agent][cell]. It is
// immutable once BuildSIC returns and may be shared read-only across nested
// solver invocations (spec.md §5).
//
// Grounded on katalvlaran-lvlath/gridgraph's plain-queue BFS idiom
// (ConnectedComponents/ExpandIsland), generalized from a single grid
// traversal to N independent backward traversals, one per agent goal.
type SIC struct {
	grid *core.Grid
	// dist[agent][cardinality] = shortest distance to the agent's goal,
	// or -1 if unreachable.
	dist [][]int
	// optMove[agent][cardinality] = direction to take from this cell
	// towards the agent's goal along a shortest path.
	optMove [][]core.Direction
}

// BuildSIC runs one backward BFS per agent and returns the heuristic
// table, or an error if any agent's start cannot reach its goal
// (spec.md §4.2 "If any start has dist = -1, the instance is unsolvable").
// Cost: O(N * numLocations); memory: O(N * numLocations).
func BuildSIC(grid *core.Grid, agents []core.Agent) (*SIC, error) {
	s := &SIC{
		grid:    grid,
		dist:    make([][]int, len(agents)),
		optMove: make([][]core.Direction, len(agents)),
	}

	for i, agent := range agents {
		dist, move := bfsFromGoal(grid, agent.GoalX, agent.GoalY)
		s.dist[i] = dist
		s.optMove[i] = move

		startIdx := grid.Cardinality(agent.StartX, agent.StartY)
		if startIdx < 0 || dist[startIdx] < 0 {
			return nil, core.ErrUnreachableGoal
		}
	}

	return s, nil
}

// bfsFromGoal runs a uniform-cost backward BFS from (goalX, goalY) over
// 4-connected traversable cells (diagonals included when grid.Directions
// is NineDirections, at unit step — every direction costs 1 in this move
// model, so the BFS distances are exact, not just admissible).
// Returns dist[cardinality] (-1 if unreached) and the direction that
// moves one step closer to the goal from each cell.
func bfsFromGoal(grid *core.Grid, goalX, goalY int) ([]int, []core.Direction) {
	dist := make([]int, grid.NumLocations)
	move := make([]core.Direction, grid.NumLocations)
	for i := range dist {
		dist[i] = -1
	}

	goalIdx := grid.Cardinality(goalX, goalY)
	if goalIdx < 0 {
		return dist, move
	}

	dist[goalIdx] = 0
	queue := make([]core.Cell, 0, grid.NumLocations)
	queue = append(queue, core.Cell{X: goalX, Y: goalY})

	dirs := grid.Directions.Directions()

	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		curIdx := grid.Cardinality(cur.X, cur.Y)

		for _, d := range dirs {
			if d == core.Wait {
				continue
			}
			nx, ny := core.Move{X: cur.X, Y: cur.Y, Dir: d}.Apply()
			if grid.IsObstacle(nx, ny) {
				continue
			}
			nIdx := grid.Cardinality(nx, ny)
			if dist[nIdx] != -1 {
				continue
			}
			dist[nIdx] = dist[curIdx] + 1
			// The BFS expands from the goal outward; the move that
			// brings a solver *towards* the goal from (nx, ny) is the
			// opposite of the direction we just expanded along.
			move[nIdx] = d.Opposite()
			queue = append(queue, core.Cell{X: nx, Y: ny})
		}
	}

	return dist, move
}

// H returns the single-agent heuristic for agent i at (x, y): its BFS
// distance to the goal, or a large sentinel if unreachable (callers only
// ever query cells reachable from a validated start).
func (s *SIC) H(agentIdx, x, y int) int {
	idx := s.grid.Cardinality(x, y)
	if idx < 0 {
		return 1 << 30
	}
	d := s.dist[agentIdx][idx]
	if d < 0 {
		return 1 << 30
	}
	return d
}

// OptMove returns the direction that makes progress towards agent i's
// goal from (x, y), and whether one exists.
func (s *SIC) OptMove(agentIdx, x, y int) (core.Direction, bool) {
	idx := s.grid.Cardinality(x, y)
	if idx < 0 {
		return core.Wait, false
	}
	d := s.dist[agentIdx][idx]
	if d <= 0 {
		return core.Wait, d == 0
	}
	return s.optMove[agentIdx][idx], true
}

// HJoint returns h_SIC for a full joint state: the sum of each agent's
// single-agent distance from its current cell.
func (s *SIC) HJoint(state *WorldState) int {
	total := 0
	for i, as := range state.Agents {
		total += s.H(i, as.X, as.Y)
	}
	return total
}

// ClearStats is a no-op for SIC — it has no mutable search statistics,
// but the method exists so SIC satisfies the Heuristic capability
// (spec.md §9).
func (s *SIC) ClearStats() {}
