// Package draw provides rendering functions for visualization.
package draw

import (
	"image"
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"

	"github.com/elektrokombinacija/mapf-core/internal/core"
	"github.com/elektrokombinacija/mapf-core/internal/vis/interact"
)

// Colors for grid cells.
var (
	ColorCellFree     = color.NRGBA{R: 45, G: 48, B: 54, A: 255}
	ColorCellObstacle = color.NRGBA{R: 90, G: 95, B: 100, A: 255}
	ColorCellLine     = color.NRGBA{R: 60, G: 65, B: 70, A: 255}
)

// DrawGridCells renders every grid cell as a filled square, obstacles in a
// distinct color, with thin separator lines between cells.
func DrawGridCells(gtx layout.Context, grid *core.Grid, camera *interact.Camera, cellSize float32) {
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			col := ColorCellFree
			if grid.IsObstacle(x, y) {
				col = ColorCellObstacle
			}
			drawCell(gtx, x, y, camera, cellSize, col)
		}
	}
}

func drawCell(gtx layout.Context, x, y int, camera *interact.Camera, cellSize float32, col color.NRGBA) {
	x0, y0 := camera.WorldToScreen(float64(x)*float64(cellSize), float64(y)*float64(cellSize))
	x1, y1 := camera.WorldToScreen(float64(x+1)*float64(cellSize), float64(y+1)*float64(cellSize))

	rect := image.Rect(int(x0), int(y0), int(x1), int(y1))
	paint.FillShape(gtx.Ops, col, clip.Rect(rect).Op())
}

// DrawCircleOutline draws a ring (stroked circle) at a screen position.
func DrawCircleOutline(gtx layout.Context, centerX, centerY float32, radius float32, col color.NRGBA, strokeWidth float32) {
	var outerPath clip.Path
	outerPath.Begin(gtx.Ops)
	outerPath.Move(f32.Pt(centerX+radius, centerY))

	segments := 24
	for i := 1; i <= segments; i++ {
		angle := float64(i) * 2 * math.Pi / float64(segments)
		x := centerX + radius*float32(math.Cos(angle))
		y := centerY + radius*float32(math.Sin(angle))
		outerPath.Line(f32.Pt(x-outerPath.Pos().X, y-outerPath.Pos().Y))
	}
	outerPath.Close()

	innerR := radius - strokeWidth
	if innerR < 0 {
		innerR = 0
	}
	outerPath.Move(f32.Pt(centerX+innerR-outerPath.Pos().X, centerY-outerPath.Pos().Y))
	for i := 1; i <= segments; i++ {
		angle := float64(i) * 2 * math.Pi / float64(segments)
		x := centerX + innerR*float32(math.Cos(angle))
		y := centerY + innerR*float32(math.Sin(angle))
		outerPath.Line(f32.Pt(x-outerPath.Pos().X, y-outerPath.Pos().Y))
	}
	outerPath.Close()

	paint.FillShape(gtx.Ops, col, clip.Outline{Path: outerPath.End()}.Op())
}

// HitTestCell reports whether a screen point falls within the given grid
// cell.
func HitTestCell(screenX, screenY float32, cellX, cellY int, camera *interact.Camera, cellSize float32) bool {
	x0, y0 := camera.WorldToScreen(float64(cellX)*float64(cellSize), float64(cellY)*float64(cellSize))
	x1, y1 := camera.WorldToScreen(float64(cellX+1)*float64(cellSize), float64(cellY+1)*float64(cellSize))
	return screenX >= x0 && screenX < x1 && screenY >= y0 && screenY < y1
}

// FindCellAt returns the grid cell under a screen point, or ok=false if it
// falls outside the grid.
func FindCellAt(screenX, screenY float32, grid *core.Grid, camera *interact.Camera, cellSize float32) (x, y int, ok bool) {
	wx, wy := camera.ScreenToWorld(screenX, screenY)
	cx := int(math.Floor(wx / float64(cellSize)))
	cy := int(math.Floor(wy / float64(cellSize)))
	if !grid.InBounds(cx, cy) {
		return 0, 0, false
	}
	return cx, cy, true
}
