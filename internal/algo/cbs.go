package algo

import (
	"time"

	"github.com/elektrokombinacija/mapf-core/internal/core"
)

// cbsNode is one node of the CBS constraint tree (spec.md §4.6): a
// per-agent constraint set, the single-agent paths that satisfy it, and
// the node's total cost and conflict count. Constraint sets and paths are
// shared by reference with the parent except for the one agent (or two,
// under disjoint splitting) a branch actually re-plans — a cheap
// approximation of the "persistent map keyed by (agent, time, location)"
// the spec describes.
type cbsNode struct {
	constraints  map[core.AgentID]*ConstraintSet
	paths        map[core.AgentID][]core.TimedMove
	cost         int
	numConflicts int
	seq          int
	heapIndex    int
}

func (n *cbsNode) HeapIndex() int     { return n.heapIndex }
func (n *cbsNode) SetHeapIndex(i int) { n.heapIndex = i }

func cbsLess(a, b *cbsNode) bool {
	if a.cost != b.cost {
		return a.cost < b.cost
	}
	if a.numConflicts != b.numConflicts {
		return a.numConflicts < b.numConflicts
	}
	return a.seq < b.seq
}

// SolveCBS runs Conflict-Based Search (C9): a best-first search over a
// tree of per-agent constraint sets, each leaf validated by re-running
// the low-level single-agent search (C7) for just the branch's newly
// constrained agent(s).
func SolveCBS(inst *core.ProblemInstance, sic *SIC, cfg Config) (*core.Plan, Stats, error) {
	start := time.Now()
	var stats Stats
	seq := 0

	maxPathTime := inst.Grid.NumLocations*len(inst.Agents) + len(inst.Agents) + 16

	root := &cbsNode{constraints: make(map[core.AgentID]*ConstraintSet)}
	if !planAllPaths(inst, sic, root, maxPathTime) {
		return nil, stats, ErrNoSolution
	}
	root.numConflicts = len(core.FindAllConflicts(root.paths))

	open := NewIntrusiveHeap(cbsLess)
	open.Push(root)

	deadline := time.Duration(cfg.MaxTime) * time.Millisecond

	for open.Len() > 0 {
		if cfg.MaxTime > 0 && time.Since(start) > deadline {
			stats.Elapsed = time.Since(start)
			return nil, stats, ErrTimeLimitExceeded
		}

		node := open.Pop()

		for {
			stats.Expanded++
			conflicts := core.FindAllConflicts(node.paths)
			node.numConflicts = len(conflicts)

			if node.numConflicts == 0 {
				stats.Elapsed = time.Since(start)
				stats.SolutionDepth = maxPathCost(node.paths)
				stats.MaxSubgroupSize = len(inst.Agents)
				return assembleCBSPlan(node), stats, nil
			}

			conflict := conflicts[0]
			childA, okA := branchCBSChild(inst, sic, cfg, node, conflict, conflict.Agent1, conflict.Agent2, maxPathTime)
			childB, okB := branchCBSChild(inst, sic, cfg, node, conflict, conflict.Agent2, conflict.Agent1, maxPathTime)

			bypassed := false
			if cfg.CBSBypass {
				for _, ch := range [2]*cbsNode{childA, childB} {
					if ch != nil && ch.cost == node.cost && ch.numConflicts < node.numConflicts {
						node.paths = ch.paths
						node.numConflicts = ch.numConflicts
						bypassed = true
						break
					}
				}
			}
			if bypassed {
				continue
			}

			if okA {
				seq++
				childA.seq = seq
				stats.Generated++
				open.Push(childA)
			}
			if okB {
				seq++
				childB.seq = seq
				stats.Generated++
				open.Push(childB)
			}
			break
		}
	}

	stats.Elapsed = time.Since(start)
	return nil, stats, ErrNoSolution
}

// planAllPaths fills node.paths with a fresh low-level path per agent
// under node.constraints, failing if any agent has no feasible path.
func planAllPaths(inst *core.ProblemInstance, sic *SIC, node *cbsNode, maxPathTime int) bool {
	node.paths = make(map[core.AgentID][]core.TimedMove, len(inst.Agents))
	for i, agent := range inst.Agents {
		cs := node.constraints[agent.ID]
		path := LowLevelAStar(inst.Grid, i, agent, sic, cs, maxPathTime)
		if path == nil {
			return false
		}
		node.paths[agent.ID] = path
	}
	node.cost = maxPathCostSum(node.paths)
	return true
}

// branchCBSChild builds one of the two CBS children for a conflict between
// constrainedAgent and otherAgent. Under local splitting, this branch
// simply forbids constrainedAgent from the conflict's cell/edge/time
// (spec.md §4.6 "Local splitting"). Under disjoint splitting, this branch
// instead forbids *otherAgent* from the same cell/edge/time and leaves
// constrainedAgent free to use it — the positive requirement that makes
// disjoint splitting's two children differ by exactly one excluded agent
// instead of both children excluding both agents (spec.md §4.6 "Global /
// disjoint splitting"). The caller produces the complementary branch by
// invoking branchCBSChild again with constrainedAgent and otherAgent
// swapped.
func branchCBSChild(inst *core.ProblemInstance, sic *SIC, cfg Config, parent *cbsNode, conflict *core.Conflict, constrainedAgent, otherAgent core.AgentID, maxPathTime int) (*cbsNode, bool) {
	child := &cbsNode{
		constraints: cloneConstraintMap(parent.constraints),
		paths:       clonePathMap(parent.paths),
	}

	if cfg.DisjointSplitting {
		addOppositeConstraint(child.constraints, otherAgent, conflict)
	} else {
		addConflictConstraint(child.constraints, constrainedAgent, conflict)
	}

	idx := agentIndex(inst, constrainedAgent)
	agent := *inst.AgentByID(constrainedAgent)
	path := LowLevelAStar(inst.Grid, idx, agent, sic, child.constraints[constrainedAgent], maxPathTime)
	if path == nil {
		return nil, false
	}
	child.paths[constrainedAgent] = path

	if cfg.DisjointSplitting {
		idx2 := agentIndex(inst, otherAgent)
		agent2 := *inst.AgentByID(otherAgent)
		path2 := LowLevelAStar(inst.Grid, idx2, agent2, sic, child.constraints[otherAgent], maxPathTime)
		if path2 == nil {
			return nil, false
		}
		child.paths[otherAgent] = path2
	}

	child.cost = maxPathCostSum(child.paths)
	child.numConflicts = len(core.FindAllConflicts(child.paths))
	return child, true
}

func addConflictConstraint(constraints map[core.AgentID]*ConstraintSet, agent core.AgentID, conflict *core.Conflict) {
	cs := cloneConstraintSet(constraints[agent])
	if conflict.IsSwap {
		// From/To describe Agent1's move; Agent2 crosses the edge the other way.
		fx, fy, tx, ty := conflict.FromX, conflict.FromY, conflict.ToX, conflict.ToY
		if agent == conflict.Agent2 {
			fx, fy, tx, ty = tx, ty, fx, fy
		}
		cs.Swap = append(cs.Swap, SwapConstraint{Agent: agent, FromX: fx, FromY: fy, ToX: tx, ToY: ty, Time: conflict.Time})
	} else {
		cs.Vertex = append(cs.Vertex, VertexConstraint{Agent: agent, X: conflict.X, Y: conflict.Y, Time: conflict.Time})
	}
	if cs.MustStayUntil < conflict.Time {
		cs.MustStayUntil = conflict.Time
	}
	constraints[agent] = cs
}

// addOppositeConstraint implements disjoint splitting's positive
// requirement for the conflicting agent by forbidding the *other* agent
// the same cell/edge/time (spec.md §4.6 "Global / disjoint splitting").
func addOppositeConstraint(constraints map[core.AgentID]*ConstraintSet, agent core.AgentID, conflict *core.Conflict) {
	cs := cloneConstraintSet(constraints[agent])
	if conflict.IsSwap {
		// From/To describe Agent1's move; Agent2 crosses the edge the other way.
		fx, fy, tx, ty := conflict.FromX, conflict.FromY, conflict.ToX, conflict.ToY
		if agent == conflict.Agent2 {
			fx, fy, tx, ty = tx, ty, fx, fy
		}
		cs.Swap = append(cs.Swap, SwapConstraint{Agent: agent, FromX: fx, FromY: fy, ToX: tx, ToY: ty, Time: conflict.Time})
	} else {
		cs.Vertex = append(cs.Vertex, VertexConstraint{Agent: agent, X: conflict.X, Y: conflict.Y, Time: conflict.Time})
	}
	if cs.MustStayUntil < conflict.Time {
		cs.MustStayUntil = conflict.Time
	}
	constraints[agent] = cs
}

func cloneConstraintSet(cs *ConstraintSet) *ConstraintSet {
	if cs == nil {
		return &ConstraintSet{}
	}
	out := &ConstraintSet{MustStayUntil: cs.MustStayUntil}
	out.Vertex = append(out.Vertex, cs.Vertex...)
	out.Swap = append(out.Swap, cs.Swap...)
	return out
}

func cloneConstraintMap(m map[core.AgentID]*ConstraintSet) map[core.AgentID]*ConstraintSet {
	out := make(map[core.AgentID]*ConstraintSet, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func clonePathMap(m map[core.AgentID][]core.TimedMove) map[core.AgentID][]core.TimedMove {
	out := make(map[core.AgentID][]core.TimedMove, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func agentIndex(inst *core.ProblemInstance, id core.AgentID) int {
	for i, a := range inst.Agents {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func maxPathCostSum(paths map[core.AgentID][]core.TimedMove) int {
	total := 0
	for _, p := range paths {
		if len(p) > 0 {
			total += len(p) - 1
		}
	}
	return total
}

func maxPathCost(paths map[core.AgentID][]core.TimedMove) int {
	max := 0
	for _, p := range paths {
		if len(p)-1 > max {
			max = len(p) - 1
		}
	}
	return max
}

func assembleCBSPlan(node *cbsNode) *core.Plan {
	plan := core.NewPlan()
	for id, p := range node.paths {
		plan.Paths[id] = p
	}
	plan.Cost = maxPathCostSum(node.paths)
	return plan
}
