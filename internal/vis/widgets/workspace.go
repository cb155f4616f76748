// Package widgets provides Gio UI widgets for the visualizer.
package widgets

import (
	"image"
	"image/color"

	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/widget/material"

	"github.com/elektrokombinacija/mapf-core/internal/core"
	"github.com/elektrokombinacija/mapf-core/internal/vis/draw"
	"github.com/elektrokombinacija/mapf-core/internal/vis/interact"
	"github.com/elektrokombinacija/mapf-core/internal/vis/state"
)

// CellSize is the world-space size of one grid cell, in the same units
// the Camera operates in.
const CellSize float32 = 48

// Workspace is the main 2D visualization area: a grid with obstacles,
// agents, and their plan paths.
type Workspace struct {
	state  *state.State
	camera *interact.Camera
}

// NewWorkspace creates a new workspace widget.
func NewWorkspace(st *state.State, camera *interact.Camera) *Workspace {
	return &Workspace{state: st, camera: camera}
}

// Layout renders the workspace.
func (w *Workspace) Layout(gtx layout.Context, th *material.Theme) layout.Dimensions {
	bounds := gtx.Constraints.Max
	defer clip.Rect(image.Rect(0, 0, bounds.X, bounds.Y)).Push(gtx.Ops).Pop()

	paint.Fill(gtx.Ops, color.NRGBA{R: 18, G: 20, B: 23, A: 255})

	w.handlePointerEvents(gtx)

	if w.state.Grid != nil {
		draw.DrawGridCells(gtx, w.state.Grid, w.camera, CellSize)
	}

	for _, a := range w.state.Agents {
		draw.DrawGoalMarker(gtx, a.GoalX, a.GoalY, a.ID, w.camera, CellSize)
	}

	if w.state.Plan != nil {
		for _, a := range w.state.Agents {
			history := w.state.PathHistory(a.ID)
			if len(history) > 1 {
				draw.DrawPathTrail(gtx, history, w.camera, CellSize, draw.AgentColor(a.ID), 6)
			}
			path := w.state.Plan.Paths[a.ID]
			if len(path) > 0 {
				draw.DrawFuturePath(gtx, path, int(w.state.Playback.CurrentTime), w.camera, CellSize, draw.AgentColor(a.ID))
			}
		}
		conflicts := core.FindAllConflicts(w.state.Plan.Paths)
		draw.DrawAllConflicts(gtx, conflicts, w.camera, CellSize, int(w.state.Playback.CurrentTime))
	}

	positions := w.state.CurrentPositions()
	draw.DrawAgents(gtx, w.state.Agents, positions, w.camera, CellSize, w.state.Edit.SelectedAgents)

	return layout.Dimensions{Size: bounds}
}

func (w *Workspace) handlePointerEvents(gtx layout.Context) {
	area := clip.Rect(image.Rect(0, 0, gtx.Constraints.Max.X, gtx.Constraints.Max.Y)).Push(gtx.Ops)
	event.Op(gtx.Ops, w)
	area.Pop()

	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: w,
			Kinds:  pointer.Press | pointer.Drag | pointer.Release | pointer.Scroll | pointer.Move,
		})
		if !ok {
			break
		}
		if pe, ok := ev.(pointer.Event); ok {
			w.handlePointerEvent(gtx, pe)
		}
	}
}

func (w *Workspace) handlePointerEvent(gtx layout.Context, ev pointer.Event) {
	w.camera.HandleEvent(gtx, ev)

	if ev.Kind != pointer.Press || !ev.Buttons.Contain(pointer.ButtonPrimary) {
		return
	}

	multiSelect := false
	for {
		ke, ok := gtx.Event(key.Filter{Optional: key.ModShift})
		if !ok {
			break
		}
		if _, ok := ke.(key.Event); ok {
			multiSelect = true
		}
	}

	w.handleClick(ev.Position.X, ev.Position.Y, multiSelect)
}

func (w *Workspace) handleClick(screenX, screenY float32, multiSelect bool) {
	if w.state.Grid == nil {
		return
	}

	if agent, ok := w.agentAt(screenX, screenY); ok {
		w.state.Edit.SelectAgent(agent, multiSelect)
		return
	}

	if w.state.Edit.Mode == state.ModeToggleObstacle {
		if x, y, ok := draw.FindCellAt(screenX, screenY, w.state.Grid, w.camera, CellSize); ok {
			w.state.Edit.Execute(&state.ToggleObstacleAction{X: x, Y: y}, w.state)
		}
		return
	}

	if !multiSelect {
		w.state.Edit.ClearSelection()
	}
}

func (w *Workspace) agentAt(screenX, screenY float32) (core.AgentID, bool) {
	positions := w.state.CurrentPositions()
	for _, a := range w.state.Agents {
		pos := positions[a.ID]
		if draw.HitTestCell(screenX, screenY, pos[0], pos[1], w.camera, CellSize) {
			return a.ID, true
		}
	}
	return 0, false
}
