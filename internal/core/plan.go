package core

import "fmt"

// Plan is a joint solution: one timed path per agent. A timed path is a
// sequence of TimedMoves at consecutive integer timesteps starting at 0.
type Plan struct {
	Paths map[AgentID][]TimedMove
	Cost  int // sum-of-costs (spec.md §2 SoC)
}

// NewPlan creates an empty Plan.
func NewPlan() *Plan {
	return &Plan{Paths: make(map[AgentID][]TimedMove)}
}

// Makespan returns the max path length (in steps) across all agents.
func (p *Plan) Makespan() int {
	max := 0
	for _, path := range p.Paths {
		if len(path) > 0 && path[len(path)-1].Time > max {
			max = path[len(path)-1].Time
		}
	}
	return max
}

// PositionAt returns the agent's cell at time t, clamped to the path's
// first/last cell before/after its defined range (an agent that already
// reached its goal is considered to wait there).
func PositionAt(path []TimedMove, t int) (x, y int, ok bool) {
	if len(path) == 0 {
		return 0, 0, false
	}
	if t <= path[0].Time {
		return path[0].X, path[0].Y, true
	}
	last := path[len(path)-1]
	if t >= last.Time {
		return last.X, last.Y, true
	}
	for _, tm := range path {
		if tm.Time == t {
			return tm.X, tm.Y, true
		}
	}
	return 0, 0, false
}

// Validate checks a Plan against the grid and agent goals (spec.md §4.7 /
// C10): every consecutive step obeys grid adjacency, no two agents share a
// cell at any timestep, no two agents swap across an edge, and every
// agent's path ends at its goal.
func (p *Plan) Validate(inst *ProblemInstance) error {
	for _, a := range inst.Agents {
		path, ok := p.Paths[a.ID]
		if !ok || len(path) == 0 {
			return fmt.Errorf("core: plan: agent %d has no path", a.ID)
		}
		if path[0].X != a.StartX || path[0].Y != a.StartY {
			return fmt.Errorf("core: plan: agent %d does not start at its start cell", a.ID)
		}
		last := path[len(path)-1]
		if last.X != a.GoalX || last.Y != a.GoalY {
			return fmt.Errorf("core: plan: agent %d does not end at its goal", a.ID)
		}
		for i := 1; i < len(path); i++ {
			if !adjacentOrWait(inst.Grid, path[i-1], path[i]) {
				return fmt.Errorf("core: plan: agent %d has a non-adjacent step at t=%d", a.ID, path[i].Time)
			}
		}
	}

	conflicts := FindAllConflicts(p.Paths)
	if len(conflicts) > 0 {
		c := conflicts[0]
		return fmt.Errorf("core: plan: conflict between agents %d and %d at t=%d", c.Agent1, c.Agent2, c.Time)
	}
	return nil
}

// adjacentOrWait reports whether b is one grid step (or a wait) from a and
// the step lands on a traversable cell.
func adjacentOrWait(g *Grid, a, b TimedMove) bool {
	if b.Time != a.Time+1 {
		return false
	}
	if g.IsObstacle(b.X, b.Y) {
		return false
	}
	dx, dy := b.X-a.X, b.Y-a.Y
	for _, d := range g.Directions.Directions() {
		off := delta[d]
		if off[0] == dx && off[1] == dy {
			return true
		}
	}
	return false
}
