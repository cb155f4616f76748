package draw

import (
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"

	"github.com/elektrokombinacija/mapf-core/internal/core"
	"github.com/elektrokombinacija/mapf-core/internal/vis/interact"
)

// agentPalette cycles a small set of distinguishable colors across agent
// IDs — agents are homogeneous (spec.md Non-goals exclude heterogeneous
// speeds/capabilities), so color exists only to tell them apart on screen.
var agentPalette = []color.NRGBA{
	{R: 100, G: 200, B: 255, A: 255},
	{R: 255, G: 150, B: 100, A: 255},
	{R: 140, G: 220, B: 140, A: 255},
	{R: 220, G: 140, B: 220, A: 255},
	{R: 230, G: 220, B: 120, A: 255},
	{R: 160, G: 160, B: 255, A: 255},
}

// ColorSelected highlights a selected agent.
var ColorSelected = color.NRGBA{R: 255, G: 255, B: 100, A: 255}

// AgentColor returns a stable color for an agent ID.
func AgentColor(id core.AgentID) color.NRGBA {
	return agentPalette[int(id)%len(agentPalette)]
}

// DrawAgent draws a single agent as a filled circle at a grid cell, with a
// small dot offset above it standing in for its ID.
func DrawAgent(gtx layout.Context, cellX, cellY int, id core.AgentID, camera *interact.Camera, cellSize float32, selected bool) {
	screenX, screenY := camera.WorldToScreen(float64(cellX)*float64(cellSize)+float64(cellSize)/2, float64(cellY)*float64(cellSize)+float64(cellSize)/2)
	radius := cellSize * 0.35 * camera.Zoom

	col := AgentColor(id)
	if selected {
		col = ColorSelected
	}

	drawFilledCircle(gtx, screenX, screenY, radius, col)
	drawFilledCircle(gtx, screenX, screenY-radius-4, radius*0.25, col)
}

// DrawAgents draws every agent at its current cell.
func DrawAgents(gtx layout.Context, agents []core.Agent, positions map[core.AgentID][2]int, camera *interact.Camera, cellSize float32, selected map[core.AgentID]bool) {
	for _, a := range agents {
		pos, ok := positions[a.ID]
		if !ok {
			pos = [2]int{a.StartX, a.StartY}
		}
		DrawAgent(gtx, pos[0], pos[1], a.ID, camera, cellSize, selected[a.ID])
	}
}

// DrawGoalMarker draws a hollow diamond at an agent's goal cell.
func DrawGoalMarker(gtx layout.Context, cellX, cellY int, id core.AgentID, camera *interact.Camera, cellSize float32) {
	cx, cy := camera.WorldToScreen(float64(cellX)*float64(cellSize)+float64(cellSize)/2, float64(cellY)*float64(cellSize)+float64(cellSize)/2)
	size := cellSize * 0.3 * camera.Zoom
	col := AgentColor(id)
	col.A = 150

	var path clip.Path
	path.Begin(gtx.Ops)
	path.MoveTo(f32.Pt(cx, cy-size))
	path.LineTo(f32.Pt(cx+size, cy))
	path.LineTo(f32.Pt(cx, cy+size))
	path.LineTo(f32.Pt(cx-size, cy))
	path.Close()

	paint.FillShape(gtx.Ops, col, clip.Outline{Path: path.End()}.Op())
}

func drawFilledCircle(gtx layout.Context, cx, cy, radius float32, col color.NRGBA) {
	var path clip.Path
	path.Begin(gtx.Ops)
	path.Move(f32.Pt(cx+radius, cy))

	segments := 12
	for i := 1; i <= segments; i++ {
		angle := float64(i) * 2 * math.Pi / float64(segments)
		x := cx + radius*float32(math.Cos(angle))
		y := cy + radius*float32(math.Sin(angle))
		path.Line(f32.Pt(x-path.Pos().X, y-path.Pos().Y))
	}
	path.Close()

	paint.FillShape(gtx.Ops, col, clip.Outline{Path: path.End()}.Op())
}
