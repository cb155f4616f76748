// Package state manages the visualization state.
package state

import (
	"github.com/elektrokombinacija/mapf-core/internal/core"
)

// State holds all visualization state: the problem instance being edited,
// the last computed plan, and the playback/edit/algorithm sub-states.
type State struct {
	Grid     *core.Grid
	Agents   []core.Agent
	Plan     *core.Plan
	Playback *PlaybackState
	Edit     *EditState
	Algo     *AlgoState
}

// NewState creates a new visualization state for a grid/agent set and an
// (optional, possibly nil) solved plan.
func NewState(grid *core.Grid, agents []core.Agent, plan *core.Plan) *State {
	maxTime := 0.0
	if plan != nil {
		maxTime = float64(plan.Makespan())
	}

	return &State{
		Grid:     grid,
		Agents:   agents,
		Plan:     plan,
		Playback: NewPlaybackState(maxTime),
		Edit:     NewEditState(),
		Algo:     NewAlgoState(),
	}
}

// CurrentPositions returns each agent's interpolated cell at the current
// playback time (integer timesteps, so "interpolation" only ever snaps to
// the nearest timestep — a MAPF plan has no continuous motion between
// cells).
func (s *State) CurrentPositions() map[core.AgentID][2]int {
	positions := make(map[core.AgentID][2]int, len(s.Agents))
	if s.Plan == nil {
		for _, a := range s.Agents {
			positions[a.ID] = [2]int{a.StartX, a.StartY}
		}
		return positions
	}

	t := int(s.Playback.CurrentTime)
	for _, a := range s.Agents {
		path := s.Plan.Paths[a.ID]
		x, y, ok := core.PositionAt(path, t)
		if !ok {
			x, y = a.StartX, a.StartY
		}
		positions[a.ID] = [2]int{x, y}
	}
	return positions
}

// PathHistory returns the cells an agent has visited up to the current
// playback time, for drawing a trail.
func (s *State) PathHistory(id core.AgentID) [][2]int {
	if s.Plan == nil {
		return nil
	}
	path := s.Plan.Paths[id]
	if len(path) == 0 {
		return nil
	}

	t := int(s.Playback.CurrentTime)
	var history [][2]int
	for _, tm := range path {
		if tm.Time > t {
			break
		}
		history = append(history, [2]int{tm.X, tm.Y})
	}
	return history
}
