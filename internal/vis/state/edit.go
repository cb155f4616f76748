package state

import (
	"github.com/elektrokombinacija/mapf-core/internal/core"
)

// EditAction represents an undoable edit action against a State.
type EditAction interface {
	Do(s *State)
	Undo(s *State)
	Description() string
}

// EditMode is the current interaction mode for the workspace widget.
type EditMode int

const (
	// ModeView is plain pan/zoom/inspect, no editing.
	ModeView EditMode = iota
	// ModeSelectAgent lets clicks select an agent instead of toggling a cell.
	ModeSelectAgent
	// ModeToggleObstacle lets clicks add/remove an obstacle at the clicked cell.
	ModeToggleObstacle
)

// EditState manages interactive editing state: agent selection, obstacle
// toggling, and the undo/redo stack.
type EditState struct {
	SelectedAgents map[core.AgentID]bool

	Mode EditMode

	undoStack []EditAction
	redoStack []EditAction
}

// NewEditState creates a new edit state.
func NewEditState() *EditState {
	return &EditState{
		SelectedAgents: make(map[core.AgentID]bool),
		Mode:           ModeView,
	}
}

// SelectAgent toggles an agent's selection.
func (e *EditState) SelectAgent(id core.AgentID, multi bool) {
	if !multi {
		e.ClearSelection()
	}
	e.SelectedAgents[id] = !e.SelectedAgents[id]
	if !e.SelectedAgents[id] {
		delete(e.SelectedAgents, id)
	}
}

// ClearSelection clears the agent selection.
func (e *EditState) ClearSelection() {
	e.SelectedAgents = make(map[core.AgentID]bool)
}

// IsAgentSelected reports whether an agent is selected.
func (e *EditState) IsAgentSelected(id core.AgentID) bool {
	return e.SelectedAgents[id]
}

// Execute performs an action against s and pushes it onto the undo stack.
func (e *EditState) Execute(action EditAction, s *State) {
	action.Do(s)
	e.undoStack = append(e.undoStack, action)
	e.redoStack = nil
}

// Undo undoes the last action, if any.
func (e *EditState) Undo() EditAction {
	if len(e.undoStack) == 0 {
		return nil
	}
	action := e.undoStack[len(e.undoStack)-1]
	e.undoStack = e.undoStack[:len(e.undoStack)-1]
	e.redoStack = append(e.redoStack, action)
	return action
}

// Redo redoes the last undone action, if any.
func (e *EditState) Redo() EditAction {
	if len(e.redoStack) == 0 {
		return nil
	}
	action := e.redoStack[len(e.redoStack)-1]
	e.redoStack = e.redoStack[:len(e.redoStack)-1]
	e.undoStack = append(e.undoStack, action)
	return action
}

// CanUndo reports whether there are actions to undo.
func (e *EditState) CanUndo() bool {
	return len(e.undoStack) > 0
}

// CanRedo reports whether there are actions to redo.
func (e *EditState) CanRedo() bool {
	return len(e.redoStack) > 0
}

// ToggleObstacleAction flips a single cell's obstacle flag, rebuilding
// State.Grid (Grid is immutable once built — spec.md §3 lifecycle — so
// editing means constructing a fresh one from a copied obstacle matrix).
type ToggleObstacleAction struct {
	X, Y int
}

func (a *ToggleObstacleAction) Do(s *State)   { s.Grid = toggledGrid(s.Grid, a.X, a.Y) }
func (a *ToggleObstacleAction) Undo(s *State) { s.Grid = toggledGrid(s.Grid, a.X, a.Y) }
func (a *ToggleObstacleAction) Description() string {
	return "Toggle obstacle"
}

func toggledGrid(g *core.Grid, x, y int) *core.Grid {
	obstacle := make([][]bool, g.Height)
	for row := 0; row < g.Height; row++ {
		obstacle[row] = make([]bool, g.Width)
		for col := 0; col < g.Width; col++ {
			obstacle[row][col] = g.IsObstacle(col, row)
		}
	}
	obstacle[y][x] = !obstacle[y][x]
	next, err := core.NewGrid(obstacle, g.Directions)
	if err != nil {
		return g
	}
	return next
}
