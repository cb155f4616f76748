package algo

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/elektrokombinacija/mapf-core/internal/core"
)

// TestSolveEPEA_SingleAgentReducesToBFS is spec.md §8 seed scenario 1 and
// boundary case "single agent: MAPF reduces to BFS; EPEA* result equals
// SIC from start."
func TestSolveEPEA_SingleAgentReducesToBFS(t *testing.T) {
	grid := gridFromRows(t, []string{
		"...",
		"...",
		"...",
	}, core.FiveDirections)
	agents := []core.Agent{core.NewAgent(0, 0, 0, 2, 2)}
	inst, sic := buildInstance(t, grid, agents)

	plan, _, err := SolveEPEA(inst, sic, nil, DefaultConfig())
	if err != nil {
		t.Fatalf("SolveEPEA: %v", err)
	}
	if plan.Cost != sic.H(0, 0, 0) {
		t.Errorf("plan cost = %d, want SIC-from-start %d", plan.Cost, sic.H(0, 0, 0))
	}
	if plan.Cost != 4 {
		t.Errorf("plan cost = %d, want 4", plan.Cost)
	}
	if got := len(plan.Paths[0]); got != 5 {
		t.Errorf("plan length = %d, want 5 (4 moves + the start cell)", got)
	}
}

// TestSolveEPEA_CorridorFaceOffIsUnsolvable is seed scenario 3: two agents
// swapping ends of a 1-wide, 4-cell corridor have no valid joint plan.
func TestSolveEPEA_CorridorFaceOffIsUnsolvable(t *testing.T) {
	grid := gridFromRows(t, []string{
		"....",
	}, core.FiveDirections)
	agents := []core.Agent{
		core.NewAgent(0, 0, 0, 3, 0),
		core.NewAgent(1, 3, 0, 0, 0),
	}
	inst, sic := buildInstance(t, grid, agents)

	cfg := DefaultConfig()
	_, _, err := SolveEPEA(inst, sic, nil, cfg)
	if !errors.Is(err, ErrNoSolution) {
		t.Errorf("SolveEPEA on a face-off corridor = %v, want ErrNoSolution", err)
	}

	_, _, err = SolveCBS(inst, sic, cfg)
	if !errors.Is(err, ErrNoSolution) {
		t.Errorf("SolveCBS on a face-off corridor = %v, want ErrNoSolution", err)
	}
}

// TestSolveEPEA_GeneratesNoMoreNodesThanPlainAStar is seed scenario 6:
// EPEA*'s partial expansion must never generate more nodes than the
// unpartitioned plain-A* baseline, and must report the same optimal cost.
func TestSolveEPEA_GeneratesNoMoreNodesThanPlainAStar(t *testing.T) {
	grid := gridFromRows(t, []string{
		"....",
		"....",
		"....",
		"....",
	}, core.FiveDirections)
	agents := []core.Agent{
		core.NewAgent(0, 0, 0, 3, 3),
		core.NewAgent(1, 3, 0, 0, 3),
		core.NewAgent(2, 0, 3, 3, 0),
	}
	inst, sic := buildInstance(t, grid, agents)
	cfg := DefaultConfig()

	epeaPlan, epeaStats, err := SolveEPEA(inst, sic, nil, cfg)
	if err != nil {
		t.Fatalf("SolveEPEA: %v", err)
	}
	plainPlan, plainStats, err := SolvePlainAStar(inst, sic, cfg)
	if err != nil {
		t.Fatalf("SolvePlainAStar: %v", err)
	}

	if epeaPlan.Cost != plainPlan.Cost {
		t.Errorf("EPEA* cost %d != plain A* cost %d", epeaPlan.Cost, plainPlan.Cost)
	}
	if epeaStats.Generated > plainStats.Generated {
		t.Errorf("EPEA* generated %d nodes, plain A* generated %d: partial expansion should never generate more",
			epeaStats.Generated, plainStats.Generated)
	}
}

// TestSolveEPEA_PairsAllowsChainMoveThroughAdjacentAgent drives the actual
// pairUnitChoices/collides code path (every other test only exercises
// Pairs via BuildPairs+HJoint, never a live SolveEPEA(pairs) solve — this
// is the path cli/commands.go, tools/genbench, and the vis toolbar all
// use). Two paired agents follow each other down a 1-wide corridor with
// no room to detour: the only optimal plan has the trailing agent step
// into the leading agent's cell the same instant the leading agent steps
// away to a third cell — a legal chain move, not a vertex or swap
// conflict. If pairUnitChoices/collides mistake this for a conflict (via
// stale same-pass occupancy), EPEA* either reports a cost above CBS's
// known-optimal SoC or fails outright.
func TestSolveEPEA_PairsAllowsChainMoveThroughAdjacentAgent(t *testing.T) {
	grid := gridFromRows(t, []string{"...."}, core.FiveDirections)
	agents := []core.Agent{
		core.NewAgent(0, 0, 0, 2, 0),
		core.NewAgent(1, 1, 0, 3, 0),
	}
	inst, sic := buildInstance(t, grid, agents)
	cfg := DefaultConfig()

	cbsPlan, _, err := SolveCBS(inst, sic, cfg)
	if err != nil {
		t.Fatalf("SolveCBS (oracle): %v", err)
	}

	pairs := BuildPairs(inst, sic, cfg, SPC)
	epeaPlan, _, err := SolveEPEA(inst, sic, pairs, cfg)
	if err != nil {
		t.Fatalf("SolveEPEA with a live Pairs heuristic: %v", err)
	}
	if err := epeaPlan.Validate(inst); err != nil {
		t.Errorf("EPEA*+Pairs plan is not conflict-free: %v", err)
	}
	if epeaPlan.Cost != cbsPlan.Cost {
		t.Errorf("EPEA*+Pairs cost = %d, want CBS-optimal %d (chain move through the adjacent agent must be allowed)",
			epeaPlan.Cost, cbsPlan.Cost)
	}
}

// stateKey identifies a joint state by its agents' positions only,
// ignoring g/bookkeeping differences between the OD engine and the plain
// full-expansion baseline.
func stateKey(w *WorldState) string {
	var b strings.Builder
	for _, a := range w.Agents {
		fmt.Fprintf(&b, "%d,%d|", a.X, a.Y)
	}
	return b.String()
}

// TestEPEA_PartitioningMatchesPlainExpansion checks spec.md §8's
// "EPEA* partitioning" and "f-monotonicity" invariants directly against
// the OD engine: the union of children emitted across every partial pass
// of a node, with no duplicates, equals the children a plain (fully
// expanded) A* step would generate, and every emitted child's f is no
// smaller than its parent's.
func TestEPEA_PartitioningMatchesPlainExpansion(t *testing.T) {
	grid := gridFromRows(t, []string{
		"...",
		"...",
		"...",
	}, core.FiveDirections)
	agents := []core.Agent{
		core.NewAgent(0, 0, 0, 2, 2),
		core.NewAgent(1, 2, 0, 0, 2),
	}
	inst, sic := buildInstance(t, grid, agents)
	cfg := DefaultConfig()

	engine := newEPEAEngine(inst.Grid, inst.Agents, sic, nil, cfg)
	arena := newNodeArena()

	root := &WorldState{Agents: make([]AgentState, len(inst.Agents)), Prev: -1}
	for i, agent := range inst.Agents {
		root.Agents[i] = AgentState{X: agent.StartX, Y: agent.StartY, Dir: core.Wait, H: sic.H(i, agent.StartX, agent.StartY)}
	}
	root.H = engine.heuristicH(root)
	arena.alloc(root)

	payload := engine.buildPayload(root)
	root.payload = payload

	seen := make(map[string]bool)
	var odChildren []*WorldState
	target := 0
	for {
		payload.targetDeltaF = target
		kids := engine.expandPass(arena, root, payload)
		for _, c := range kids {
			key := stateKey(c)
			if seen[key] {
				t.Errorf("duplicate child %s emitted across separate OD passes", key)
			}
			seen[key] = true
			odChildren = append(odChildren, c)
			if c.F() < root.F() {
				t.Errorf("child F()=%d < parent F()=%d: f must be non-decreasing", c.F(), root.F())
			}
		}
		next, ok := findNextTarget(payload, payload.maxDeltaF)
		if !ok {
			break
		}
		target = next
	}

	dirs := inst.Grid.Directions.Directions()
	plainChildren := plainJointChildren(arena, inst, root, dirs)

	odSet := make(map[string]bool, len(odChildren))
	for _, c := range odChildren {
		odSet[stateKey(c)] = true
	}
	plainSet := make(map[string]bool, len(plainChildren))
	for _, c := range plainChildren {
		plainSet[stateKey(c)] = true
	}

	if len(odSet) != len(plainSet) {
		t.Fatalf("OD partitioning produced %d distinct children, plain expansion produced %d", len(odSet), len(plainSet))
	}
	for k := range plainSet {
		if !odSet[k] {
			t.Errorf("plain-expansion child %s missing from the OD partitioning's union", k)
		}
	}
}
