package algo

import (
	"testing"

	"github.com/elektrokombinacija/mapf-core/internal/core"
)

// TestPairs_DominatesSIC_Crossing is spec.md §8's seed scenario 2 (empty
// 3x3, two agents swapping corners): the agents must interact (one waits
// or detours), so the pair's actual joint-solve cost is strictly greater
// than the sum of their independent BFS distances, and SPC must report
// that tighter bound rather than falling back to the (inadmissible-tight)
// SIC sum.
func TestPairs_DominatesSIC_Crossing(t *testing.T) {
	grid := gridFromRows(t, []string{
		"...",
		"...",
		"...",
	}, core.FiveDirections)
	agents := []core.Agent{
		core.NewAgent(0, 0, 0, 2, 0),
		core.NewAgent(1, 2, 0, 0, 0),
	}
	inst, sic := buildInstance(t, grid, agents)
	cfg := DefaultConfig()

	sicSum := sic.H(0, 0, 0) + sic.H(1, 2, 0)
	if sicSum != 4 {
		t.Fatalf("independent BFS sum = %d, want 4 (2+2 Manhattan)", sicSum)
	}

	pairs := BuildPairs(inst, sic, cfg, SPC)
	root := &WorldState{Agents: []AgentState{
		{X: agents[0].StartX, Y: agents[0].StartY},
		{X: agents[1].StartX, Y: agents[1].StartY},
	}}
	pairH := pairs.HJoint(root)

	if pairH <= sicSum {
		t.Errorf("pairs heuristic = %d, want strictly > SIC sum %d (dominance)", pairH, sicSum)
	}

	plan, _, err := SolveCBS(inst, sic, cfg)
	if err != nil {
		t.Fatalf("SolveCBS: %v", err)
	}
	if pairH > plan.Cost {
		t.Errorf("pairs heuristic = %d is not admissible: exceeds optimal cost %d", pairH, plan.Cost)
	}
}

// TestPairs_SPCFallsBackToSICForOddAgent checks the odd-agent-out
// fallback (spec.md §4.3): with 3 agents, the trailing agent's
// contribution to SPC equals its plain SIC distance.
func TestPairs_SPCFallsBackToSICForOddAgent(t *testing.T) {
	grid := gridFromRows(t, []string{
		"....",
		"....",
		"....",
		"....",
	}, core.FiveDirections)
	agents := []core.Agent{
		core.NewAgent(0, 0, 0, 3, 0),
		core.NewAgent(1, 3, 0, 0, 0),
		core.NewAgent(2, 0, 3, 3, 3),
	}
	inst, sic := buildInstance(t, grid, agents)
	cfg := DefaultConfig()

	pairs := BuildPairs(inst, sic, cfg, SPC)
	root := &WorldState{Agents: []AgentState{
		{X: agents[0].StartX, Y: agents[0].StartY},
		{X: agents[1].StartX, Y: agents[1].StartY},
		{X: agents[2].StartX, Y: agents[2].StartY},
	}}

	pairH := pairs.HJoint(root)
	oddContribution := sic.H(2, agents[2].StartX, agents[2].StartY)
	pairPairCost := pairs.PairCost(0, grid.Cardinality(0, 0), grid.Cardinality(3, 0))

	if pairH != pairPairCost+oddContribution {
		t.Errorf("HJoint = %d, want pair(0,1) %d + odd-agent SIC %d", pairH, pairPairCost, oddContribution)
	}
}

func TestPairs_SentinelSubstitutesZeroForSharedCell(t *testing.T) {
	grid := gridFromRows(t, []string{
		"...",
		"...",
	}, core.FiveDirections)
	agents := []core.Agent{
		core.NewAgent(0, 0, 0, 2, 1),
		core.NewAgent(1, 2, 1, 0, 0),
	}
	inst, sic := buildInstance(t, grid, agents)
	pairs := BuildPairs(inst, sic, DefaultConfig(), SPC)

	c := grid.Cardinality(1, 0)
	if v := pairs.PairCost(0, c, c); v != 0 {
		t.Errorf("PairCost(c,c) = %d, want 0 (sentinel for the invalid shared-cell entry)", v)
	}
}

// TestPairs_DominatesSIC_BottleneckWithBay is seed scenario 4: a 1-wide
// corridor with a one-cell bay below its second cell. The two agents can
// only pass each other by one of them stepping into the bay, while naive
// per-agent BFS distances ignore the interaction entirely, so the pairs
// heuristic computed by actually solving the two-agent subproblem must be
// strictly tighter.
func TestPairs_DominatesSIC_BottleneckWithBay(t *testing.T) {
	grid := gridFromRows(t, []string{
		".....#",
		"#.####",
	}, core.FiveDirections)
	agents := []core.Agent{
		core.NewAgent(0, 0, 0, 3, 0),
		core.NewAgent(1, 1, 0, 0, 0),
	}
	inst, sic := buildInstance(t, grid, agents)
	cfg := DefaultConfig()

	sicSum := sic.H(0, agents[0].StartX, agents[0].StartY) + sic.H(1, agents[1].StartX, agents[1].StartY)

	pairs := BuildPairs(inst, sic, cfg, SPC)
	root := &WorldState{Agents: []AgentState{
		{X: agents[0].StartX, Y: agents[0].StartY},
		{X: agents[1].StartX, Y: agents[1].StartY},
	}}
	pairH := pairs.HJoint(root)

	if pairH <= sicSum {
		t.Errorf("pairs heuristic = %d, want strictly > SIC sum %d in the bottleneck", pairH, sicSum)
	}

	plan, _, err := SolveCBS(inst, sic, cfg)
	if err != nil {
		t.Fatalf("SolveCBS: %v", err)
	}
	if pairH > plan.Cost {
		t.Errorf("pairs heuristic = %d is not admissible: exceeds optimal cost %d", pairH, plan.Cost)
	}
}
