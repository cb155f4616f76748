package draw

import (
	"image/color"
	"math"
	"time"

	"gioui.org/layout"

	"github.com/elektrokombinacija/mapf-core/internal/core"
	"github.com/elektrokombinacija/mapf-core/internal/vis/interact"
)

// Conflict colors.
var (
	ColorConflictVertex = color.NRGBA{R: 255, G: 80, B: 80, A: 200}
	ColorConflictSwap   = color.NRGBA{R: 255, G: 150, B: 80, A: 200}
)

// DrawConflict highlights a conflict at its cell with a pulsing ring.
func DrawConflict(gtx layout.Context, conflict *core.Conflict, camera *interact.Camera, cellSize float32) {
	if conflict == nil {
		return
	}

	wx, wy := cellCenter(conflict.X, conflict.Y, cellSize)
	screenX, screenY := camera.WorldToScreen(wx, wy)

	pulse := float32(math.Sin(float64(time.Now().UnixMilli())/200.0)*0.3 + 0.7)
	col := ColorConflictVertex
	if conflict.IsSwap {
		col = ColorConflictSwap
	}

	radius := cellSize * 0.5 * camera.Zoom * pulse
	DrawCircleOutline(gtx, screenX, screenY, radius, col, 3*camera.Zoom)

	inner := radius * 0.4 * pulse
	drawFilledCircle(gtx, screenX, screenY, inner, col)
}

// DrawAllConflicts highlights every conflict active at time t (a vertex
// conflict is active only at its own timestep; a swap conflict spans the
// two timesteps it straddles).
func DrawAllConflicts(gtx layout.Context, conflicts []*core.Conflict, camera *interact.Camera, cellSize float32, t int) {
	for _, c := range conflicts {
		lo := c.Time
		if c.IsSwap {
			lo = c.Time - 1
		}
		if t >= lo && t <= c.Time {
			DrawConflict(gtx, c, camera, cellSize)
		}
	}
}

// DrawActiveConflict draws the currently highlighted conflict with extra
// emphasis (expanding rings), for use outside of playback — e.g. right
// after a solve, to draw attention to a conflict the solver reported.
func DrawActiveConflict(gtx layout.Context, conflict *core.Conflict, camera *interact.Camera, cellSize float32) {
	if conflict == nil {
		return
	}

	wx, wy := cellCenter(conflict.X, conflict.Y, cellSize)
	screenX, screenY := camera.WorldToScreen(wx, wy)

	t := float64(time.Now().UnixMilli()) / 1000.0
	for i := 0; i < 3; i++ {
		phase := float64(i) * 0.3
		ripple := float32(math.Mod(t+phase, 1.0))
		radius := float32(10+30*ripple) * camera.Zoom
		alpha := uint8((1.0 - ripple) * 200)

		col := ColorConflictVertex
		col.A = alpha
		DrawCircleOutline(gtx, screenX, screenY, radius, col, 2*camera.Zoom)
	}

	drawFilledCircle(gtx, screenX, screenY, 6*camera.Zoom, ColorConflictVertex)
}
