package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for instance validation (spec.md §7).
var (
	// ErrInitialCollision indicates two agents share a start cell, or a
	// start/goal lies on an obstacle.
	ErrInitialCollision = errors.New("core: initial collision")
	// ErrUnreachableGoal indicates an agent's goal is not reachable from
	// its start over the traversable grid.
	ErrUnreachableGoal = errors.New("core: unreachable goal")
)

// ProblemInstance is an immutable MAPF problem: a grid, a set of agents,
// and the grid's precomputed cardinality table. Created once per
// experiment; shared read-only across all subsearches (spec.md §3
// Lifecycle/Ownership).
type ProblemInstance struct {
	Grid   *Grid
	Agents []Agent
}

// NewProblemInstance builds an instance from a grid and agent list and
// validates it per spec.md §7. reachable(agentIdx) must report whether the
// agent's goal is reachable from its start (the caller supplies this,
// typically backed by the SIC heuristic's BFS, to avoid a core->algo
// import cycle).
func NewProblemInstance(grid *Grid, agents []Agent, reachable func(i int) bool) (*ProblemInstance, error) {
	inst := &ProblemInstance{Grid: grid, Agents: agents}
	if err := inst.validateCollisions(); err != nil {
		return nil, err
	}
	if reachable != nil {
		for i := range agents {
			if !reachable(i) {
				return nil, fmt.Errorf("%w: agent %d", ErrUnreachableGoal, agents[i].ID)
			}
		}
	}
	return inst, nil
}

// validateCollisions rejects obstacle starts/goals and agents sharing a
// start cell (spec.md §7 "Initial collision").
func (inst *ProblemInstance) validateCollisions() error {
	seen := make(map[[2]int]AgentID, len(inst.Agents))
	for _, a := range inst.Agents {
		if !inst.Grid.InBounds(a.StartX, a.StartY) {
			return fmt.Errorf("%w: agent %d start (%d,%d)", ErrOutOfBounds, a.ID, a.StartX, a.StartY)
		}
		if !inst.Grid.InBounds(a.GoalX, a.GoalY) {
			return fmt.Errorf("%w: agent %d goal (%d,%d)", ErrOutOfBounds, a.ID, a.GoalX, a.GoalY)
		}
		if inst.Grid.IsObstacle(a.StartX, a.StartY) {
			return fmt.Errorf("%w: agent %d starts on an obstacle", ErrInitialCollision, a.ID)
		}
		if inst.Grid.IsObstacle(a.GoalX, a.GoalY) {
			return fmt.Errorf("%w: agent %d goal is an obstacle", ErrInitialCollision, a.ID)
		}
		key := [2]int{a.StartX, a.StartY}
		if other, ok := seen[key]; ok {
			return fmt.Errorf("%w: agents %d and %d share a start cell", ErrInitialCollision, other, a.ID)
		}
		seen[key] = a.ID
	}
	return nil
}

// AgentByID finds an agent by its stable ID, or nil.
func (inst *ProblemInstance) AgentByID(id AgentID) *Agent {
	for i := range inst.Agents {
		if inst.Agents[i].ID == id {
			return &inst.Agents[i]
		}
	}
	return nil
}

// N returns the number of agents.
func (inst *ProblemInstance) N() int {
	return len(inst.Agents)
}
