package algo

import (
	"github.com/elektrokombinacija/mapf-core/internal/core"
)

// VertexConstraint forbids a single agent from occupying a cell at a time
// (spec.md §4.4).
type VertexConstraint struct {
	Agent core.AgentID
	X, Y  int
	Time  int
}

// SwapConstraint forbids a single agent from moving between two cells at
// a time (the edge (A, B) at the step ending at Time), used to prevent a
// newly-introduced constraint from reopening a swap conflict CBS already
// resolved in the opposite direction.
type SwapConstraint struct {
	Agent        core.AgentID
	FromX, FromY int
	ToX, ToY     int
	Time         int
}

// ConstraintSet is everything a single-agent low-level search must avoid.
type ConstraintSet struct {
	Vertex []VertexConstraint
	Swap   []SwapConstraint
	// MustStayUntil, if > 0, is the deepest timestep at which some
	// constraint still restricts this agent; the low-level search must
	// not terminate at the goal before reaching at least this depth
	// (spec.md §4.4 "Termination").
	MustStayUntil int
}

func (c *ConstraintSet) violatesVertex(agent core.AgentID, x, y, t int) bool {
	for _, v := range c.Vertex {
		if v.Agent == agent && v.X == x && v.Y == y && v.Time == t {
			return true
		}
	}
	return false
}

func (c *ConstraintSet) violatesSwap(agent core.AgentID, fromX, fromY, toX, toY, t int) bool {
	for _, s := range c.Swap {
		if s.Agent == agent && s.FromX == fromX && s.FromY == fromY &&
			s.ToX == toX && s.ToY == toY && s.Time == t {
			return true
		}
	}
	return false
}

// llKey identifies a low-level search node by (x, y, step).
type llKey struct{ x, y, t int }

// llNode is an arena entry for the low-level A*; Prev is an arena index,
// never a pointer (spec.md §9).
type llNode struct {
	id        int
	x, y, t   int
	g         int
	f         int
	dir       core.Direction
	prev      int
	heapIndex int
}

func (n *llNode) HeapIndex() int     { return n.heapIndex }
func (n *llNode) SetHeapIndex(i int) { n.heapIndex = i }

// LowLevelAStar finds a minimum-cost timed path for one agent from start
// to its goal that obeys cs, using the SIC table as heuristic
// (spec.md §4.4). Returns nil if no such path exists within maxTime
// timesteps.
func LowLevelAStar(grid *core.Grid, agentIdx int, agent core.Agent, sic *SIC, cs *ConstraintSet, maxTime int) []core.TimedMove {
	if cs == nil {
		cs = &ConstraintSet{}
	}

	less := func(a, b *llNode) bool {
		if a.f != b.f {
			return a.f < b.f
		}
		return a.t > b.t // deeper first on ties, per spec.md §4.1 tie-break #4
	}
	open := NewIntrusiveHeap(less)
	arena := make([]*llNode, 0, 64)
	closed := make(map[llKey]int) // key -> best g seen

	push := func(n *llNode) int {
		n.id = len(arena)
		arena = append(arena, n)
		open.Push(n)
		return n.id
	}

	startH := sic.H(agentIdx, agent.StartX, agent.StartY)
	root := &llNode{x: agent.StartX, y: agent.StartY, t: 0, g: 0, f: startH, dir: core.Wait, prev: -1}
	push(root)
	closed[llKey{agent.StartX, agent.StartY, 0}] = 0

	dirs := grid.Directions.Directions()

	for open.Len() > 0 {
		cur := open.Pop()

		if cur.x == agent.GoalX && cur.y == agent.GoalY && cur.t >= cs.MustStayUntil {
			return reconstructLLPath(arena, cur.id)
		}
		if cur.t >= maxTime {
			continue
		}

		nextT := cur.t + 1
		for _, d := range dirs {
			nx, ny := core.Move{X: cur.x, Y: cur.y, Dir: d}.Apply()
			if grid.IsObstacle(nx, ny) {
				continue
			}
			if cs.violatesVertex(agent.ID, nx, ny, nextT) {
				continue
			}
			if d != core.Wait && cs.violatesSwap(agent.ID, cur.x, cur.y, nx, ny, nextT) {
				continue
			}

			g := cur.g + d.Cost()
			key := llKey{nx, ny, nextT}
			if bestG, seen := closed[key]; seen && bestG <= g {
				continue
			}
			closed[key] = g

			h := sic.H(agentIdx, nx, ny)
			child := &llNode{x: nx, y: ny, t: nextT, g: g, f: g + h, dir: d, prev: cur.id}
			push(child)
		}
	}

	return nil
}

func reconstructLLPath(arena []*llNode, goalID int) []core.TimedMove {
	var path []core.TimedMove
	for id := goalID; id != -1; id = arena[id].prev {
		n := arena[id]
		path = append([]core.TimedMove{{Move: core.Move{X: n.x, Y: n.y, Dir: n.dir}, Time: n.t}}, path...)
	}
	return path
}
