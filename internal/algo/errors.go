package algo

import "errors"

var (
	// ErrNoSolution is returned when a search exhausts its open list
	// without reaching a goal state (the instance has no valid plan
	// under the active constraints).
	ErrNoSolution = errors.New("algo: no solution exists under the given constraints")
	// ErrTimeLimitExceeded is returned when a search runs past its
	// configured time budget (Config.MaxTime) before converging.
	ErrTimeLimitExceeded = errors.New("algo: search exceeded its time limit")
	// ErrTooManyAgents reports an instance with more agents than
	// Config.MaxAgents. No solver in this package checks MaxAgents, so none
	// of them returns it.
	ErrTooManyAgents = errors.New("algo: instance has more agents than Config.MaxAgents allows")
)
