package algo

import (
	"time"

	"github.com/elektrokombinacija/mapf-core/internal/core"
)

// SolvePlainAStar is the un-partitioned joint-state A* control condition
// (spec.md's EPEA* vs plain-A* generated-node comparison): it generates
// every combination of per-agent directions at once (the full b^N
// branching factor EPEA*'s partial expansion exists to avoid), instead of
// expanding in f-bounded passes. Used only to measure the node-count
// reduction EPEA* buys; never the production solve path.
func SolvePlainAStar(inst *core.ProblemInstance, heur Heuristic, cfg Config) (*core.Plan, Stats, error) {
	start := time.Now()
	var stats Stats

	arena := newNodeArena()
	root := &WorldState{Agents: make([]AgentState, len(inst.Agents)), Prev: -1}
	for i, agent := range inst.Agents {
		root.Agents[i] = AgentState{X: agent.StartX, Y: agent.StartY, Dir: core.Wait}
	}
	root.H = heur.HJoint(root)
	arena.alloc(root)

	less := func(a, b *WorldState) bool {
		if a.F() != b.F() {
			return a.F() < b.F()
		}
		return a.Makespan > b.Makespan
	}
	open := NewIntrusiveHeap(less)
	closed := make(map[string]int)

	push := func(w *WorldState) {
		open.Push(w)
		closed[w.Key(cfg)] = w.G
	}
	push(root)

	dirs := inst.Grid.Directions.Directions()
	deadline := time.Duration(cfg.MaxTime) * time.Millisecond

	for open.Len() > 0 {
		if cfg.MaxTime > 0 && time.Since(start) > deadline {
			stats.Elapsed = time.Since(start)
			return nil, stats, ErrTimeLimitExceeded
		}

		cur := open.Pop()
		if cur.AllAtGoal(inst.Agents) {
			stats.Elapsed = time.Since(start)
			stats.SolutionDepth = cur.Makespan
			stats.MaxSubgroupSize = len(inst.Agents)
			return reconstructPlan(arena, inst.Agents, cur), stats, nil
		}

		stats.Expanded++
		children := plainJointChildren(arena, inst, cur, dirs)
		for _, child := range children {
			stats.Generated++
			child.H = heur.HJoint(child)
			key := child.Key(cfg)
			if bestG, seen := closed[key]; seen && bestG <= child.G {
				continue
			}
			push(child)
		}
	}

	stats.Elapsed = time.Since(start)
	return nil, stats, ErrNoSolution
}

// plainJointChildren enumerates the full cartesian product of per-agent
// directions for cur, discarding combinations that hit an obstacle or
// collide (vertex or swap) between two agents in the same step.
func plainJointChildren(arena *nodeArena, inst *core.ProblemInstance, cur *WorldState, dirs []core.Direction) []*WorldState {
	n := len(cur.Agents)
	choice := make([]int, n)
	var out []*WorldState

	var recurse func(i int)
	recurse = func(i int) {
		if i == n {
			if child := tryAssemble(arena, inst, cur, dirs, choice); child != nil {
				out = append(out, child)
			}
			return
		}
		for d := range dirs {
			choice[i] = d
			recurse(i + 1)
		}
	}
	recurse(0)

	return out
}

func tryAssemble(arena *nodeArena, inst *core.ProblemInstance, cur *WorldState, dirs []core.Direction, choice []int) *WorldState {
	n := len(cur.Agents)
	next := make([]AgentState, n)
	occupied := make(map[[2]int]core.AgentID, n)
	edges := make(map[[2][2]int]bool, n)

	for i, as := range cur.Agents {
		d := dirs[choice[i]]
		nx, ny := core.Move{X: as.X, Y: as.Y, Dir: d}.Apply()
		if inst.Grid.IsObstacle(nx, ny) {
			return nil
		}
		id := inst.Agents[i].ID
		if other, taken := occupied[[2]int{nx, ny}]; taken && other != id {
			return nil
		}
		if edges[[2][2]int{{nx, ny}, {as.X, as.Y}}] {
			return nil // swap with an agent already placed this step
		}
		occupied[[2]int{nx, ny}] = id
		edges[[2][2]int{{as.X, as.Y}, {nx, ny}}] = true

		next[i] = AgentState{X: nx, Y: ny, Dir: d, CurrentStep: as.CurrentStep + d.Cost()}
	}

	g := 0
	for _, as := range next {
		g += as.CurrentStep
	}

	return arena.alloc(&WorldState{
		Agents:   next,
		G:        g,
		Makespan: cur.Makespan + 1,
		Prev:     cur.id,
	})
}
