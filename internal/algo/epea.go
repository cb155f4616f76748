package algo

import (
	"time"

	"github.com/elektrokombinacija/mapf-core/internal/core"
)

// Stats reports solver statistics per spec.md §5: success is conveyed by
// the caller's error return, not by this struct.
type Stats struct {
	Expanded        int
	Generated       int
	Elapsed         time.Duration
	SolutionDepth   int
	MaxSubgroupSize int
}

// odUnit is one Operator-Decomposition commit group: either a single
// agent index (plain SIC heuristic) or a pair of agent indices (Pairs
// heuristic, spec.md §4.5 "ΔF is indexed pairΔF[k][dir1][dir2]... the
// outer structure is identical" — the OD walk commits one unit per step
// regardless of whether a unit is one agent or a pair).
type odUnit struct {
	agents []int
	pairK  int // index into PairsHeuristic.pairCost; -1 for a size-1 unit
}

// choice is one legal direction assignment for a unit.
type choice struct {
	dirs  []core.Direction
	delta int            // total Δf contributed by this choice
	next  []AgentState   // resulting AgentState for each agent in the unit
}

// epeaPayload is the partial-expansion state computed once per node on
// its first expansion (spec.md §4.5).
type epeaPayload struct {
	units           []odUnit
	choices         [][]choice // choices[unitIdx] = legal choices for that unit
	maxDeltaF       int
	targetDeltaF    int
	alreadyExpanded bool
	fLookup         map[[2]int]bool // (unitIdx, remaining) -> feasible
}

// epeaEngine bundles the shared, read-only context for one EPEA* run:
// the grid, agents, the SIC table (always present, used for per-agent
// goal-transition bookkeeping and as the sole heuristic when pairs is
// nil), and optionally the Pairs heuristic.
type epeaEngine struct {
	grid   *core.Grid
	agents []core.Agent
	sic    *SIC
	pairs  *PairsHeuristic
	cfg    Config
	units  []odUnit
}

func newEPEAEngine(grid *core.Grid, agents []core.Agent, sic *SIC, pairs *PairsHeuristic, cfg Config) *epeaEngine {
	e := &epeaEngine{grid: grid, agents: agents, sic: sic, pairs: pairs, cfg: cfg}
	e.units = buildUnits(len(agents), pairs)
	return e
}

// buildUnits lays out OD commit groups: one agent per unit normally, or
// paired agents (2k, 2k+1) when the Pairs heuristic is active, with a
// trailing single-agent unit if N is odd (spec.md §4.3/§4.5).
func buildUnits(n int, pairs *PairsHeuristic) []odUnit {
	if pairs == nil {
		units := make([]odUnit, n)
		for i := 0; i < n; i++ {
			units[i] = odUnit{agents: []int{i}, pairK: -1}
		}
		return units
	}
	var units []odUnit
	k := 0
	i := 0
	for ; i+1 < n; i += 2 {
		units = append(units, odUnit{agents: []int{i, i + 1}, pairK: k})
		k++
	}
	if i < n {
		units = append(units, odUnit{agents: []int{i}, pairK: -1})
	}
	return units
}

func (e *epeaEngine) heuristicH(state *WorldState) int {
	if e.pairs != nil {
		return e.pairs.HJoint(state)
	}
	return e.sic.HJoint(state)
}

// agentDeltaG returns an agent's own g-increment and updated ArrivalTime
// for moving from a cell with single-agent heuristic hBefore to one with
// hAfter, given its current Makespan/ArrivalTime (spec.md §4.5 ΔF
// formula, g-only part).
func agentDeltaG(cfg Config, hBefore, hAfter, makespan, arrivalTime int) (deltaG int, newArrival int) {
	if cfg.SumOfCosts == WaitingAtGoalAlwaysFree {
		if hBefore == 0 && hAfter == 0 {
			return 0, arrivalTime
		}
		newArrival = arrivalTime
		if hAfter == 0 {
			newArrival = makespan + 1
		}
		return 1, newArrival
	}

	// Original variant.
	switch {
	case hBefore != 0:
		newArrival = arrivalTime
		if hAfter == 0 {
			newArrival = makespan + 1
		}
		return 1, newArrival
	case hAfter != 0: // leaving the goal
		return (makespan - arrivalTime) + 1, arrivalTime
	default: // waiting at goal
		return 0, arrivalTime
	}
}

// buildPayload computes singleAgentΔF/pairΔF and maxΔF for state on its
// first expansion (spec.md §4.5 step 1).
func (e *epeaEngine) buildPayload(state *WorldState) *epeaPayload {
	p := &epeaPayload{
		units:   e.units,
		choices: make([][]choice, len(e.units)),
		fLookup: make(map[[2]int]bool),
	}

	dirs := e.grid.Directions.Directions()

	for ui, unit := range e.units {
		var unitChoices []choice
		if len(unit.agents) == 1 {
			unitChoices = e.singleUnitChoices(state, unit.agents[0], dirs)
		} else {
			unitChoices = e.pairUnitChoices(state, unit, dirs)
		}
		p.choices[ui] = unitChoices

		max := 0
		for _, c := range unitChoices {
			if c.delta > max {
				max = c.delta
			}
		}
		p.maxDeltaF += max
	}

	return p
}

func (e *epeaEngine) singleUnitChoices(state *WorldState, agentIdx int, dirs []core.Direction) []choice {
	as := state.Agents[agentIdx]
	hBefore := e.sic.H(agentIdx, as.X, as.Y)

	var out []choice
	for _, d := range dirs {
		nx, ny := core.Move{X: as.X, Y: as.Y, Dir: d}.Apply()
		if e.grid.IsObstacle(nx, ny) {
			continue
		}
		hAfter := e.sic.H(agentIdx, nx, ny)
		deltaG, newArrival := agentDeltaG(e.cfg, hBefore, hAfter, state.Makespan, as.ArrivalTime)
		delta := deltaG + (hAfter - hBefore)

		out = append(out, choice{
			dirs:  []core.Direction{d},
			delta: delta,
			next:  []AgentState{{X: nx, Y: ny, Dir: d, CurrentStep: as.CurrentStep + deltaG, ArrivalTime: newArrival, H: hAfter}},
		})
	}
	return out
}

func (e *epeaEngine) pairUnitChoices(state *WorldState, unit odUnit, dirs []core.Direction) []choice {
	i, j := unit.agents[0], unit.agents[1]
	asI, asJ := state.Agents[i], state.Agents[j]
	hBeforeI := e.sic.H(i, asI.X, asI.Y)
	hBeforeJ := e.sic.H(j, asJ.X, asJ.Y)
	c1Before := e.grid.Cardinality(asI.X, asI.Y)
	c2Before := e.grid.Cardinality(asJ.X, asJ.Y)
	pairBefore := e.pairs.PairCost(unit.pairK, c1Before, c2Before)

	var out []choice
	for _, d1 := range dirs {
		nx1, ny1 := core.Move{X: asI.X, Y: asI.Y, Dir: d1}.Apply()
		if e.grid.IsObstacle(nx1, ny1) {
			continue
		}
		hAfterI := e.sic.H(i, nx1, ny1)
		dgI, arrI := agentDeltaG(e.cfg, hBeforeI, hAfterI, state.Makespan, asI.ArrivalTime)

		for _, d2 := range dirs {
			nx2, ny2 := core.Move{X: asJ.X, Y: asJ.Y, Dir: d2}.Apply()
			if e.grid.IsObstacle(nx2, ny2) {
				continue
			}
			if nx1 == nx2 && ny1 == ny2 {
				continue // the pair's own two agents cannot share a cell
			}
			hAfterJ := e.sic.H(j, nx2, ny2)
			dgJ, arrJ := agentDeltaG(e.cfg, hBeforeJ, hAfterJ, state.Makespan, asJ.ArrivalTime)

			c1After := e.grid.Cardinality(nx1, ny1)
			c2After := e.grid.Cardinality(nx2, ny2)
			pairAfter := e.pairs.PairCost(unit.pairK, c1After, c2After)

			delta := dgI + dgJ + (pairAfter - pairBefore)

			out = append(out, choice{
				dirs:  []core.Direction{d1, d2},
				delta: delta,
				next: []AgentState{
					{X: nx1, Y: ny1, Dir: d1, CurrentStep: asI.CurrentStep + dgI, ArrivalTime: arrI, H: hAfterI},
					{X: nx2, Y: ny2, Dir: d2, CurrentStep: asJ.CurrentStep + dgJ, ArrivalTime: arrJ, H: hAfterJ},
				},
			})
		}
	}
	return out
}

// existsChildForF is the memoized feasibility recursion (spec.md §4.5):
// can units[unitIdx:] contribute exactly remaining more Δf.
func (p *epeaPayload) existsChildForF(unitIdx, remaining int) bool {
	if remaining < 0 {
		return false
	}
	if unitIdx == len(p.units) {
		return remaining == 0
	}
	key := [2]int{unitIdx, remaining}
	if v, ok := p.fLookup[key]; ok {
		return v
	}
	for _, c := range p.choices[unitIdx] {
		if c.delta <= remaining && p.existsChildForF(unitIdx+1, remaining-c.delta) {
			p.fLookup[key] = true
			return true
		}
	}
	p.fLookup[key] = false
	return false
}

// odOccupancy tracks which cells and swap-edges are already committed
// within the current OD pass, so units processed later cannot collide
// with units already decided in this same joint step.
type odOccupancy struct {
	cell map[[2]int]bool
	from map[[2][2]int]bool // (oldCell, newCell) -> true, for swap checks
}

func newODOccupancy() *odOccupancy {
	return &odOccupancy{cell: make(map[[2]int]bool), from: make(map[[2][2]int]bool)}
}

// expandPass runs one full OD walk for the current targetDeltaF and
// returns every full joint state it can reach (spec.md §4.5 step 2).
func (e *epeaEngine) expandPass(arena *nodeArena, parent *WorldState, payload *epeaPayload) []*WorldState {
	agents := make([]AgentState, len(parent.Agents))
	copy(agents, parent.Agents)
	occ := newODOccupancy()
	for i, as := range parent.Agents {
		occ.cell[[2]int{as.X, as.Y}] = true
		_ = i
	}

	var children []*WorldState
	e.walk(arena, parent, payload, 0, payload.targetDeltaF, agents, occ, &children)
	return children
}

func (e *epeaEngine) walk(arena *nodeArena, parent *WorldState, payload *epeaPayload, unitIdx, remaining int, agents []AgentState, occ *odOccupancy, out *[]*WorldState) {
	if unitIdx == len(payload.units) {
		if remaining != 0 {
			return
		}
		child := e.commitFullState(arena, parent, agents)
		*out = append(*out, child)
		return
	}

	unit := payload.units[unitIdx]
	for _, c := range payload.choices[unitIdx] {
		if c.delta > remaining || !payload.existsChildForF(unitIdx+1, remaining-c.delta) {
			continue
		}
		if e.collides(unit, c, agents, occ) {
			continue
		}

		removed := e.commit(unit, c, agents, occ)
		e.walk(arena, parent, payload, unitIdx+1, remaining-c.delta, agents, occ, out)
		e.uncommit(unit, agents, occ, removed)
	}
}

// collides reports whether choice c (for unit) lands on a cell already
// taken by an earlier-committed unit this pass, swaps across an edge an
// earlier unit already used, or swaps directly between the unit's own two
// members. A unit's own old cells are otherwise excluded from the
// "occupied" check when the owning member vacates them as part of this
// same choice, so a legal chain move (agent i advances into the cell
// agent j is simultaneously vacating to a third cell) is not mistaken for
// a vertex or swap conflict (spec.md §4.7).
func (e *epeaEngine) collides(unit odUnit, c choice, agents []AgentState, occ *odOccupancy) bool {
	old := make([][2]int, len(unit.agents))
	moved := make([]bool, len(unit.agents))
	for idx, agentIdx := range unit.agents {
		as := agents[agentIdx]
		old[idx] = [2]int{as.X, as.Y}
		next := c.next[idx]
		moved[idx] = next.X != as.X || next.Y != as.Y
	}

	if len(unit.agents) == 2 {
		next0, next1 := c.next[0], c.next[1]
		if next0.X == old[1][0] && next0.Y == old[1][1] && next1.X == old[0][0] && next1.Y == old[0][1] {
			return true // the pair's own two members would swap cells
		}
	}

	for idx, agentIdx := range unit.agents {
		as := agents[agentIdx]
		next := c.next[idx]
		nextCell := [2]int{next.X, next.Y}

		ownVacated := false
		for pIdx := range unit.agents {
			if nextCell == old[pIdx] && (pIdx == idx || moved[pIdx]) {
				ownVacated = true
				break
			}
		}

		if occ.cell[nextCell] && !ownVacated {
			return true
		}
		if occ.from[[2][2]int{nextCell, {as.X, as.Y}}] {
			return true // swap with an earlier-committed agent
		}
	}
	return false
}

type undoEntry struct {
	agentIdx int
	old      AgentState
	oldCell  [2]int
	newCell  [2]int
}

func (e *epeaEngine) commit(unit odUnit, c choice, agents []AgentState, occ *odOccupancy) []undoEntry {
	var undo []undoEntry
	for idx, agentIdx := range unit.agents {
		old := agents[agentIdx]
		next := c.next[idx]
		undo = append(undo, undoEntry{agentIdx: agentIdx, old: old, oldCell: [2]int{old.X, old.Y}, newCell: [2]int{next.X, next.Y}})

		delete(occ.cell, [2]int{old.X, old.Y})
		occ.cell[[2]int{next.X, next.Y}] = true
		occ.from[[2][2]int{{old.X, old.Y}, {next.X, next.Y}}] = true

		agents[agentIdx] = next
	}
	return undo
}

func (e *epeaEngine) uncommit(unit odUnit, agents []AgentState, occ *odOccupancy, undo []undoEntry) {
	for _, u := range undo {
		delete(occ.cell, u.newCell)
		delete(occ.from, [2][2]int{u.oldCell, u.newCell})
		occ.cell[u.oldCell] = true
		agents[u.agentIdx] = u.old
	}
}

// commitFullState finalizes one OD walk completion into a real joint
// state. H is derived from the parent's f plus its current targetDeltaF
// rather than recomputed from scratch via the heuristic, so that
// child.F() == parent.F() + targetDeltaF holds exactly by construction
// (spec.md §4.5), independent of any rounding in the per-choice Δ terms.
func (e *epeaEngine) commitFullState(arena *nodeArena, parent *WorldState, agents []AgentState) *WorldState {
	snapshot := make([]AgentState, len(agents))
	copy(snapshot, agents)

	g := 0
	for _, as := range snapshot {
		g += as.CurrentStep
	}

	child := &WorldState{
		Agents:    snapshot,
		G:         g,
		H:         (parent.G + parent.H + parent.payload.targetDeltaF) - g,
		Makespan:  parent.Makespan + 1,
		Prev:      parent.id,
		AgentTurn: 0,
	}

	return arena.alloc(child)
}

// SolveEPEA runs Enhanced Partial Expansion A* with Operator Decomposition
// over the joint state space of inst (spec.md §4.1/§4.5). sic is always
// required (it drives per-agent goal-transition bookkeeping even when
// pairs is active); pairs may be nil to fall back to the plain SIC
// heuristic.
func SolveEPEA(inst *core.ProblemInstance, sic *SIC, pairs *PairsHeuristic, cfg Config) (*core.Plan, Stats, error) {
	start := time.Now()
	var stats Stats

	engine := newEPEAEngine(inst.Grid, inst.Agents, sic, pairs, cfg)
	arena := newNodeArena()

	root := &WorldState{Agents: make([]AgentState, len(inst.Agents)), Prev: -1}
	for i, agent := range inst.Agents {
		root.Agents[i] = AgentState{X: agent.StartX, Y: agent.StartY, Dir: core.Wait, H: sic.H(i, agent.StartX, agent.StartY)}
	}
	root.H = engine.heuristicH(root)
	arena.alloc(root)

	less := func(a, b *WorldState) bool {
		if a.F() != b.F() {
			return a.F() < b.F()
		}
		return a.Makespan > b.Makespan // deeper first on ties, spec.md §4.1
	}
	open := NewIntrusiveHeap(less)
	openIndex := make(map[string]*WorldState)
	closed := make(map[string]int)

	push := func(w *WorldState) {
		key := w.Key(cfg)
		open.Push(w)
		openIndex[key] = w
		closed[key] = w.G
	}
	push(root)

	deadline := time.Duration(cfg.MaxTime) * time.Millisecond

	for open.Len() > 0 {
		if cfg.MaxTime > 0 && time.Since(start) > deadline {
			stats.Elapsed = time.Since(start)
			return nil, stats, ErrTimeLimitExceeded
		}

		cur := open.Pop()
		delete(openIndex, cur.Key(cfg))

		if cur.AgentTurn == 0 && cur.AllAtGoal(inst.Agents) {
			stats.Elapsed = time.Since(start)
			stats.SolutionDepth = cur.Makespan
			stats.MaxSubgroupSize = len(inst.Agents)
			plan := reconstructPlan(arena, inst.Agents, cur)
			return plan, stats, nil
		}

		if cur.payload == nil {
			cur.payload = engine.buildPayload(cur)
		}

		stats.Expanded++
		children := engine.expandPass(arena, cur, cur.payload)
		for _, child := range children {
			stats.Generated++
			key := child.Key(cfg)
			if bestG, seen := closed[key]; seen && bestG <= child.G {
				continue
			}
			push(child)
		}

		if next, ok := findNextTarget(cur.payload, cur.payload.maxDeltaF); ok {
			cur.H += next - cur.payload.targetDeltaF
			cur.payload.targetDeltaF = next
			push(cur)
		}
	}

	stats.Elapsed = time.Since(start)
	return nil, stats, ErrNoSolution
}

// findNextTarget finds the smallest feasible targetDeltaF strictly
// greater than payload's current one, up to max (spec.md §4.5 "increment
// targetΔF and re-insert" — EPEA*'s partial-expansion re-insertion step).
func findNextTarget(payload *epeaPayload, max int) (int, bool) {
	for t := payload.targetDeltaF + 1; t <= max; t++ {
		if payload.existsChildForF(0, t) {
			return t, true
		}
	}
	return 0, false
}
