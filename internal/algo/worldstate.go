package algo

import (
	"fmt"
	"strings"

	"github.com/elektrokombinacija/mapf-core/internal/core"
)

// AgentState is one agent's mutable position during search (spec.md §3):
// current cell, the direction that produced it, its accumulated cost
// (CurrentStep), the step at which it most recently arrived at its goal
// (ArrivalTime, 0 if it never left), and its single-agent heuristic value.
type AgentState struct {
	X, Y        int
	Dir         core.Direction
	CurrentStep int
	ArrivalTime int
	H           int
}

// Equal compares two AgentStates. In CBS disjoint-splitting mode
// (compareStep = true) it additionally compares CurrentStep, per
// spec.md §3/§4.6.
func (a AgentState) Equal(b AgentState, compareStep bool) bool {
	if a.X != b.X || a.Y != b.Y {
		return false
	}
	if compareStep && a.CurrentStep != b.CurrentStep {
		return false
	}
	return true
}

// AtGoal reports whether the agent currently sits at its goal.
func (a AgentState) AtGoal(agent core.Agent) bool {
	return a.X == agent.GoalX && a.Y == agent.GoalY
}

// WorldState is a joint search node: one AgentState per agent, plus the
// bookkeeping EPEA*/CBS need. Prev is an arena index into the owning
// search's node table, never a raw pointer — back-pointers form a DAG
// rooted at the initial state and the whole arena is freed wholesale when
// the search ends (spec.md §9 Design Notes).
type WorldState struct {
	Agents    []AgentState
	G         int
	H         int
	Makespan  int
	Prev      int // arena index of parent; -1 for the root
	AgentTurn int // 0 = fully committed joint state (OD cursor)

	id         int // this node's own arena index
	heapIndex  int
	payload    *epeaPayload // set lazily on first expansion (C8)
}

// HeapIndex / SetHeapIndex implement HeapItem for *WorldState.
func (w *WorldState) HeapIndex() int      { return w.heapIndex }
func (w *WorldState) SetHeapIndex(i int)  { w.heapIndex = i }

// F returns the node's f-value, g+h.
func (w *WorldState) F() int { return w.G + w.H }

// Key returns a canonical identity string for the closed set, per
// spec.md §3: the per-agent (x, y) tuple plus AgentTurn, with Makespan
// folded in iff the cost variant is Original (wait-at-goal time is part
// of an agent's identity there, since it changes future g when the agent
// leaves again).
func (w *WorldState) Key(cfg Config) string {
	var b strings.Builder
	for _, a := range w.Agents {
		fmt.Fprintf(&b, "%d,%d|", a.X, a.Y)
	}
	fmt.Fprintf(&b, "t%d", w.AgentTurn)
	if cfg.SumOfCosts == Original {
		fmt.Fprintf(&b, "|m%d", w.Makespan)
	}
	return b.String()
}

// AllAtGoal reports whether every agent currently sits at its goal.
func (w *WorldState) AllAtGoal(agents []core.Agent) bool {
	for i, a := range w.Agents {
		if !a.AtGoal(agents[i]) {
			return false
		}
	}
	return true
}

// nodeArena owns every WorldState generated by a single search and hands
// out stable integer ids. Freed wholesale when the search returns.
type nodeArena struct {
	nodes []*WorldState
}

func newNodeArena() *nodeArena {
	return &nodeArena{}
}

// alloc stores w in the arena, stamps its id, and returns it.
func (a *nodeArena) alloc(w *WorldState) *WorldState {
	w.id = len(a.nodes)
	a.nodes = append(a.nodes, w)
	return w
}

func (a *nodeArena) get(id int) *WorldState {
	if id < 0 {
		return nil
	}
	return a.nodes[id]
}

// reconstructPlan walks Prev back-pointers from goal to root and emits a
// core.Plan with one timed path per agent.
func reconstructPlan(arena *nodeArena, agents []core.Agent, goal *WorldState) *core.Plan {
	var chain []*WorldState
	for n := goal; n != nil; n = arena.get(n.Prev) {
		chain = append(chain, n)
	}
	// chain is goal->...->root; reverse to root->...->goal.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	plan := core.NewPlan()
	for i, agent := range agents {
		path := make([]core.TimedMove, 0, len(chain))
		for _, node := range chain {
			as := node.Agents[i]
			path = append(path, core.TimedMove{
				Move: core.Move{X: as.X, Y: as.Y, Dir: as.Dir},
				Time: len(path),
			})
		}
		plan.Paths[agent.ID] = path
	}
	plan.Cost = goal.G
	return plan
}
