package state

import (
	"sync"

	"github.com/elektrokombinacija/mapf-core/internal/algo"
	"github.com/elektrokombinacija/mapf-core/internal/core"
)

// AlgoState tracks a background solver run so the UI thread can poll it
// without blocking a frame on a potentially slow CBS/EPEA* search.
type AlgoState struct {
	mu sync.Mutex

	Running    bool
	SolverName string

	LastPlan  *core.Plan
	LastStats algo.Stats
	LastErr   error
}

// NewAlgoState creates a new algorithm state.
func NewAlgoState() *AlgoState {
	return &AlgoState{}
}

// Start launches run in a goroutine and records its result when it
// finishes. A Start call while already Running is a no-op.
func (a *AlgoState) Start(name string, run func() (*core.Plan, algo.Stats, error)) {
	a.mu.Lock()
	if a.Running {
		a.mu.Unlock()
		return
	}
	a.Running = true
	a.SolverName = name
	a.mu.Unlock()

	go func() {
		plan, stats, err := run()
		a.mu.Lock()
		a.Running = false
		a.LastPlan = plan
		a.LastStats = stats
		a.LastErr = err
		a.mu.Unlock()
	}()
}

// Snapshot returns a consistent copy of the solver's current status.
func (a *AlgoState) Snapshot() (running bool, name string, plan *core.Plan, stats algo.Stats, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Running, a.SolverName, a.LastPlan, a.LastStats, a.LastErr
}
