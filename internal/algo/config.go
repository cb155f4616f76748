// Package algo implements the MAPF search engine: the SIC and Pairs
// heuristics, EPEA* with Operator Decomposition, a plain-A* control
// condition, and the CBS two-level solver. It depends only on
// internal/core.
package algo

// SumOfCostsVariant selects how waiting at the goal is charged to g and
// how EPEA*'s delta-F is computed for an agent leaving its goal
// (spec.md §4.5/§6/§9).
type SumOfCostsVariant int

const (
	// Original charges a once-off jump in g to an agent's accumulated
	// wait-at-goal time the moment it leaves the goal again.
	Original SumOfCostsVariant = iota
	// WaitingAtGoalAlwaysFree never charges waiting at the goal to g.
	WaitingAtGoalAlwaysFree
)

// Config bundles every tunable flag from spec.md §6/§9. CBS constraint
// branching (spec.md §4.6) is a plain bool, DisjointSplitting, rather than
// an enum — there are exactly two modes and every caller already spells
// them as on/off. Grounded on
// katalvlaran-lvlath/gridgraph's GridOptions/DefaultGridOptions idiom: an
// options struct with a constructor supplying the spec's defaults, always
// passed explicitly rather than read from a package global.
type Config struct {
	SumOfCosts        SumOfCostsVariant
	MaxAgents         int
	MaxTime           int // search node expansion budget in wall-clock ms; 0 = unbounded
	MaxFailCount      int
	DisjointSplitting bool
	CBSBypass         bool
}

// DefaultConfig returns the spec's default configuration: ORIG cost
// variant, local CBS splitting, bypass enabled, no fail-count/time caps.
func DefaultConfig() Config {
	return Config{
		SumOfCosts:        Original,
		MaxAgents:         0,
		MaxTime:           0,
		MaxFailCount:      0,
		DisjointSplitting: false,
		CBSBypass:         true,
	}
}
