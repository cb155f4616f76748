package algo

import (
	"github.com/elektrokombinacija/mapf-core/internal/core"
)

// PairsVariant selects how the per-pair optimal-cost table is aggregated
// into a joint-state heuristic (spec.md §4.3).
type PairsVariant int

const (
	// SPC sums every pair's cost, falling back to SIC for a trailing
	// unpaired agent when N is odd.
	SPC PairsVariant = iota
	// MPC takes the maximum pair cost instead of the sum. HJoint applies
	// no OD monotonicity correction to it.
	MPC
)

// PairsHeuristic is the SPC/MPC heuristic (C5): a 3-tensor pairCost[k][c1][c2]
// holding the optimal joint cost for agents (2k, 2k+1) to reach their goals
// in isolation from cardinality cells c1, c2, built by recursively running
// EPEA* on every two-agent sub-instance. Grounded on spec.md §4.3;
// construction reuses SolveEPEA (C8) the same way CBS's low-level reuses
// LowLevelAStar — nested solver invocations over an immutable shared grid.
type PairsHeuristic struct {
	grid     *core.Grid
	sic      *SIC
	pairCost [][][]int // [k][c1][c2]; -1 = invalid (c1==c2) or unsolvable in isolation
	numPairs int
	oddAgent int // index of the trailing unpaired agent, or -1 if N is even
	variant  PairsVariant
}

// BuildPairs constructs the pair-cost tensor for every consecutive pair of
// agents (2k, 2k+1) in inst.Agents (spec.md §4.3 "Construction"). sic must
// already be built for inst's full agent set (used for the odd-agent
// fallback and as the low-level heuristic inside each sub-solve).
func BuildPairs(inst *core.ProblemInstance, sic *SIC, cfg Config, variant PairsVariant) *PairsHeuristic {
	n := len(inst.Agents)
	ph := &PairsHeuristic{
		grid:     inst.Grid,
		sic:      sic,
		numPairs: n / 2,
		oddAgent: -1,
		variant:  variant,
	}
	if n%2 == 1 {
		ph.oddAgent = n - 1
	}

	loc := inst.Grid.NumLocations
	ph.pairCost = make([][][]int, ph.numPairs)

	for k := 0; k < ph.numPairs; k++ {
		a0, a1 := inst.Agents[2*k], inst.Agents[2*k+1]
		tensor := make([][]int, loc)
		for c1 := 0; c1 < loc; c1++ {
			tensor[c1] = make([]int, loc)
			for c2 := 0; c2 < loc; c2++ {
				tensor[c1][c2] = -1
			}
		}

		for c1 := 0; c1 < loc; c1++ {
			x1, y1 := inst.Grid.CellAt(c1)
			if inst.Grid.IsObstacle(x1, y1) {
				continue
			}
			for c2 := 0; c2 < loc; c2++ {
				if c1 == c2 {
					continue // initial collision, left at the sentinel
				}
				x2, y2 := inst.Grid.CellAt(c2)
				if inst.Grid.IsObstacle(x2, y2) {
					continue
				}
				if cost, ok := solvePairSubproblem(inst.Grid, a0, a1, x1, y1, x2, y2, cfg); ok {
					tensor[c1][c2] = cost
				}
			}
		}
		ph.pairCost[k] = tensor
	}

	return ph
}

// solvePairSubproblem computes the optimal joint cost for two agents,
// starting at (x1,y1)/(x2,y2) and bound for a0/a1's original goals, with
// no other agents present (spec.md §4.3 "in isolation").
func solvePairSubproblem(grid *core.Grid, a0, a1 core.Agent, x1, y1, x2, y2 int, cfg Config) (int, bool) {
	sub := []core.Agent{
		core.NewAgent(0, x1, y1, a0.GoalX, a0.GoalY),
		core.NewAgent(1, x2, y2, a1.GoalX, a1.GoalY),
	}
	subInst := &core.ProblemInstance{Grid: grid, Agents: sub}

	subSIC, err := BuildSIC(grid, sub)
	if err != nil {
		return 0, false
	}
	plan, _, err := SolveEPEA(subInst, subSIC, nil, cfg)
	if err != nil {
		return 0, false
	}
	return plan.Cost, true
}

// PairCost returns pairCost[k][c1][c2], substituting 0 for the sentinel
// (spec.md §4.3 "a sentinel retrieved during h is treated as 0").
func (ph *PairsHeuristic) PairCost(k, c1, c2 int) int {
	v := ph.pairCost[k][c1][c2]
	if v < 0 {
		return 0
	}
	return v
}

// HJoint aggregates the pair-cost table for a full joint state, via SPC
// (sum) or MPC (max). HJoint is only ever called on a fully-committed
// joint state (AgentTurn == 0: the EPEA* engine derives every OD
// intermediate state's H arithmetically from the parent's f instead of
// re-invoking the heuristic, see commitFullState), so there is no
// per-agent-turn monotonicity correction to apply here.
func (ph *PairsHeuristic) HJoint(state *WorldState) int {
	total := 0
	maxVal := -1

	for k := 0; k < ph.numPairs; k++ {
		a0, a1 := state.Agents[2*k], state.Agents[2*k+1]
		c1 := ph.grid.Cardinality(a0.X, a0.Y)
		c2 := ph.grid.Cardinality(a1.X, a1.Y)
		v := ph.PairCost(k, c1, c2)

		if ph.variant == SPC {
			total += v
		} else if v > maxVal {
			maxVal = v
		}
	}

	if ph.oddAgent >= 0 {
		oa := state.Agents[ph.oddAgent]
		sicV := ph.sic.H(ph.oddAgent, oa.X, oa.Y)
		if ph.variant == SPC {
			total += sicV
		} else if sicV > maxVal {
			maxVal = sicV
		}
	}

	if ph.variant == MPC {
		total = maxVal
	}

	return total
}

// ClearStats is a no-op — PairsHeuristic has no mutable search statistics,
// but the method exists so it satisfies the Heuristic capability.
func (ph *PairsHeuristic) ClearStats() {}
