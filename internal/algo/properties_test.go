package algo

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/elektrokombinacija/mapf-core/internal/core"
)

// PropertiesSuite exercises spec.md §8's universal invariants (heuristic
// admissibility, pairs dominance, CBS conflict-freedom and optimality)
// across a small set of instances, in the style of
// katalvlaran-lvlath/flow's suite-based property tests.
type PropertiesSuite struct {
	suite.Suite
}

type propertyCase struct {
	name   string
	rows   []string
	agents []core.Agent
}

func (s *PropertiesSuite) cases() []propertyCase {
	return []propertyCase{
		{
			name: "empty_3x3_single_agent",
			rows: []string{"...", "...", "..."},
			agents: []core.Agent{
				core.NewAgent(0, 0, 0, 2, 2),
			},
		},
		{
			name: "empty_3x3_crossing",
			rows: []string{"...", "...", "..."},
			agents: []core.Agent{
				core.NewAgent(0, 0, 0, 2, 0),
				core.NewAgent(1, 2, 0, 0, 0),
			},
		},
		{
			name: "open_4x4_three_agents",
			rows: []string{"....", "....", "....", "...."},
			agents: []core.Agent{
				core.NewAgent(0, 0, 0, 3, 3),
				core.NewAgent(1, 3, 0, 0, 3),
				core.NewAgent(2, 0, 3, 3, 0),
			},
		},
	}
}

// TestSICAdmissible verifies h_SIC(s) <= true_cost(s) at every agent's
// start cell, using the optimal CBS cost as the true joint cost and each
// agent's own BFS distance as its share of the bound.
func (s *PropertiesSuite) TestSICAdmissible() {
	for _, tc := range s.cases() {
		grid, err := core.NewGrid(obstacleRows(tc.rows), core.FiveDirections)
		require.NoError(s.T(), err, tc.name)

		sic, err := BuildSIC(grid, tc.agents)
		require.NoError(s.T(), err, tc.name)

		inst, err := core.NewProblemInstance(grid, tc.agents, func(i int) bool {
			return sic.H(i, tc.agents[i].StartX, tc.agents[i].StartY) < 1<<29
		})
		require.NoError(s.T(), err, tc.name)

		plan, _, err := SolveCBS(inst, sic, DefaultConfig())
		require.NoError(s.T(), err, tc.name)

		sicSum := 0
		for i, a := range tc.agents {
			sicSum += sic.H(i, a.StartX, a.StartY)
		}
		require.LessOrEqualf(s.T(), sicSum, plan.Cost, "%s: SIC sum must not exceed optimal cost", tc.name)
	}
}

// TestPairsAdmissibleAndDominant verifies both h_pairs(s) <= true_cost(s)
// and (for N even) h_pairs(s) >= h_SIC(s).
func (s *PropertiesSuite) TestPairsAdmissibleAndDominant() {
	for _, tc := range s.cases() {
		grid, err := core.NewGrid(obstacleRows(tc.rows), core.FiveDirections)
		require.NoError(s.T(), err, tc.name)

		sic, err := BuildSIC(grid, tc.agents)
		require.NoError(s.T(), err, tc.name)

		inst, err := core.NewProblemInstance(grid, tc.agents, func(i int) bool {
			return sic.H(i, tc.agents[i].StartX, tc.agents[i].StartY) < 1<<29
		})
		require.NoError(s.T(), err, tc.name)

		cfg := DefaultConfig()
		plan, _, err := SolveCBS(inst, sic, cfg)
		require.NoError(s.T(), err, tc.name)

		pairs := BuildPairs(inst, sic, cfg, SPC)
		root := &WorldState{Agents: make([]AgentState, len(tc.agents))}
		for i, a := range tc.agents {
			root.Agents[i] = AgentState{X: a.StartX, Y: a.StartY}
		}
		pairH := pairs.HJoint(root)

		require.LessOrEqualf(s.T(), pairH, plan.Cost, "%s: pairs heuristic must be admissible", tc.name)

		if len(tc.agents)%2 == 0 {
			sicSum := 0
			for i, a := range tc.agents {
				sicSum += sic.H(i, a.StartX, a.StartY)
			}
			require.GreaterOrEqualf(s.T(), pairH, sicSum, "%s: pairs heuristic must dominate SIC when N is even", tc.name)
		}
	}
}

// TestCBSSolutionConflictFree verifies every returned CBS plan validates
// cleanly: it is conflict-free and every agent ends at its goal.
func (s *PropertiesSuite) TestCBSSolutionConflictFree() {
	for _, tc := range s.cases() {
		grid, err := core.NewGrid(obstacleRows(tc.rows), core.FiveDirections)
		require.NoError(s.T(), err, tc.name)

		sic, err := BuildSIC(grid, tc.agents)
		require.NoError(s.T(), err, tc.name)

		inst, err := core.NewProblemInstance(grid, tc.agents, func(i int) bool {
			return sic.H(i, tc.agents[i].StartX, tc.agents[i].StartY) < 1<<29
		})
		require.NoError(s.T(), err, tc.name)

		plan, _, err := SolveCBS(inst, sic, DefaultConfig())
		require.NoError(s.T(), err, tc.name)
		require.NoError(s.T(), plan.Validate(inst), "%s: plan must validate conflict-free", tc.name)

		conflicts := core.FindAllConflicts(plan.Paths)
		require.Emptyf(s.T(), conflicts, "%s: solved plan must have zero conflicts", tc.name)
	}
}

// TestCBSMatchesEPEAOptimalCost cross-checks CBS's reported cost against
// EPEA*'s on the same instance: spec.md §8 "CBS optimality", using EPEA*
// (a different search strategy over the same admissible SIC heuristic) as
// the independent oracle.
func (s *PropertiesSuite) TestCBSMatchesEPEAOptimalCost() {
	for _, tc := range s.cases() {
		grid, err := core.NewGrid(obstacleRows(tc.rows), core.FiveDirections)
		require.NoError(s.T(), err, tc.name)

		sic, err := BuildSIC(grid, tc.agents)
		require.NoError(s.T(), err, tc.name)

		inst, err := core.NewProblemInstance(grid, tc.agents, func(i int) bool {
			return sic.H(i, tc.agents[i].StartX, tc.agents[i].StartY) < 1<<29
		})
		require.NoError(s.T(), err, tc.name)

		cfg := DefaultConfig()
		cbsPlan, _, err := SolveCBS(inst, sic, cfg)
		require.NoError(s.T(), err, tc.name)

		epeaPlan, _, err := SolveEPEA(inst, sic, nil, cfg)
		require.NoError(s.T(), err, tc.name)

		require.Equalf(s.T(), epeaPlan.Cost, cbsPlan.Cost, "%s: CBS and EPEA* must agree on the optimal SoC", tc.name)
	}
}

func obstacleRows(rows []string) [][]bool {
	obstacle := make([][]bool, len(rows))
	for y, row := range rows {
		obstacle[y] = make([]bool, len(row))
		for x, c := range row {
			obstacle[y][x] = c == '#'
		}
	}
	return obstacle
}

func TestPropertiesSuite(t *testing.T) {
	suite.Run(t, new(PropertiesSuite))
}
