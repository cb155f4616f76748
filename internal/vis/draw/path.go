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

// cellCenter converts a grid cell to its world-space center.
func cellCenter(x, y int, cellSize float32) (float64, float64) {
	return float64(x)*float64(cellSize) + float64(cellSize)/2, float64(y)*float64(cellSize) + float64(cellSize)/2
}

// DrawPath draws a sequence of cells as a connected line.
func DrawPath(gtx layout.Context, cells [][2]int, camera *interact.Camera, cellSize float32, col color.NRGBA, width float32) {
	if len(cells) < 2 {
		return
	}
	w := width * camera.Zoom

	for i := 0; i < len(cells)-1; i++ {
		wx1, wy1 := cellCenter(cells[i][0], cells[i][1], cellSize)
		wx2, wy2 := cellCenter(cells[i+1][0], cells[i+1][1], cellSize)
		x1, y1 := camera.WorldToScreen(wx1, wy1)
		x2, y2 := camera.WorldToScreen(wx2, wy2)
		drawPathSegment(gtx, x1, y1, x2, y2, w, col)
	}
}

// DrawPathTrail draws a fading trail behind an agent over cells already
// visited.
func DrawPathTrail(gtx layout.Context, cells [][2]int, camera *interact.Camera, cellSize float32, baseColor color.NRGBA, maxWidth float32) {
	n := len(cells)
	if n < 2 {
		return
	}

	for i := 0; i < n-1; i++ {
		alpha := uint8(50 + float64(i)/float64(n)*150)
		col := baseColor
		col.A = alpha
		w := maxWidth * camera.Zoom * (0.3 + 0.7*float32(i)/float32(n))

		wx1, wy1 := cellCenter(cells[i][0], cells[i][1], cellSize)
		wx2, wy2 := cellCenter(cells[i+1][0], cells[i+1][1], cellSize)
		x1, y1 := camera.WorldToScreen(wx1, wy1)
		x2, y2 := camera.WorldToScreen(wx2, wy2)
		drawPathSegment(gtx, x1, y1, x2, y2, w, col)
	}
}

func drawPathSegment(gtx layout.Context, x1, y1, x2, y2, width float32, col color.NRGBA) {
	dx := x2 - x1
	dy := y2 - y1
	length := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if length < 0.1 {
		return
	}

	dx /= length
	dy /= length
	px := -dy * width / 2
	py := dx * width / 2

	var path clip.Path
	path.Begin(gtx.Ops)
	path.MoveTo(f32.Pt(x1+px, y1+py))
	path.LineTo(f32.Pt(x2+px, y2+py))
	path.LineTo(f32.Pt(x2-px, y2-py))
	path.LineTo(f32.Pt(x1-px, y1-py))
	path.Close()

	paint.FillShape(gtx.Ops, col, clip.Outline{Path: path.End()}.Op())
}

// DrawFuturePath draws the remaining path after t in a dimmer color.
func DrawFuturePath(gtx layout.Context, path []core.TimedMove, t int, camera *interact.Camera, cellSize float32, col color.NRGBA) {
	if len(path) < 2 {
		return
	}

	startIdx := 0
	for i, tm := range path {
		if tm.Time > t {
			startIdx = i
			break
		}
	}
	if startIdx == 0 {
		startIdx = 1
	}

	var cells [][2]int
	for i := startIdx - 1; i < len(path); i++ {
		if i < 0 {
			continue
		}
		cells = append(cells, [2]int{path[i].X, path[i].Y})
	}

	dim := col
	dim.A = 80
	DrawPath(gtx, cells, camera, cellSize, dim, 1.5)
}

// DrawAllPaths draws every agent's full plan path in a dim tone, useful as
// a static overview independent of playback position.
func DrawAllPaths(gtx layout.Context, plan *core.Plan, agents []core.Agent, camera *interact.Camera, cellSize float32) {
	if plan == nil {
		return
	}
	for _, a := range agents {
		path := plan.Paths[a.ID]
		if len(path) == 0 {
			continue
		}
		col := AgentColor(a.ID)
		col.A = 100

		cells := make([][2]int, len(path))
		for i, tm := range path {
			cells[i] = [2]int{tm.X, tm.Y}
		}
		DrawPath(gtx, cells, camera, cellSize, col, 2)
	}
}
