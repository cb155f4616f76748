package algo

// Heuristic is the capability every joint-state heuristic (SIC, SPC, MPC)
// implements, per spec.md §9: build once from the problem, evaluate a
// joint state, and reset any mutable bookkeeping between runs.
type Heuristic interface {
	HJoint(state *WorldState) int
	ClearStats()
}

var (
	_ Heuristic = (*SIC)(nil)
	_ Heuristic = (*PairsHeuristic)(nil)
)
