// Package vis implements a Gio-based visualization for the MAPF solvers.
package vis

import (
	"image/color"

	"gioui.org/app"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/widget/material"

	"github.com/elektrokombinacija/mapf-core/internal/algo"
	"github.com/elektrokombinacija/mapf-core/internal/core"
	"github.com/elektrokombinacija/mapf-core/internal/vis/interact"
	"github.com/elektrokombinacija/mapf-core/internal/vis/state"
	"github.com/elektrokombinacija/mapf-core/internal/vis/widgets"
)

// App is the main visualization application.
type App struct {
	state     *state.State
	theme     *material.Theme
	workspace *widgets.Workspace
	timeline  *widgets.Timeline
	toolbar   *widgets.Toolbar
	camera    *interact.Camera
}

// NewApp creates a new visualization application, preloaded with a small
// default grid/agent set and its CBS solution so the window has something
// to show before the user loads or edits an instance.
func NewApp() *App {
	th := material.NewTheme()

	grid, agents := defaultInstance()
	camera := interact.NewCamera()

	var plan *core.Plan
	sic, err := algo.BuildSIC(grid, agents)
	if err == nil {
		inst, err := core.NewProblemInstance(grid, agents, func(i int) bool {
			return sic.H(i, agents[i].StartX, agents[i].StartY) < 1<<29
		})
		if err == nil {
			if p, _, err := algo.SolveCBS(inst, sic, algo.DefaultConfig()); err == nil {
				plan = p
			}
		}
	}

	st := state.NewState(grid, agents, plan)

	return &App{
		state:     st,
		theme:     th,
		workspace: widgets.NewWorkspace(st, camera),
		timeline:  widgets.NewTimeline(st),
		toolbar:   widgets.NewToolbar(st),
		camera:    camera,
	}
}

// Run starts the application event loop.
func (a *App) Run(w *app.Window) error {
	var ops op.Ops

	tag := new(int)

	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			return e.Err

		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)

			for {
				ev, ok := gtx.Event(key.Filter{Focus: tag, Optional: key.ModCtrl | key.ModShift})
				if !ok {
					break
				}
				if ke, ok := ev.(key.Event); ok && ke.State == key.Press {
					a.handleKeyEvent(gtx, ke)
				}
			}

			event.Op(gtx.Ops, tag)

			a.layout(gtx)
			e.Frame(gtx.Ops)

			if a.state.Playback.Playing {
				a.state.Playback.Advance()
				w.Invalidate()
			}
			if running, _, _, _, _ := a.state.Algo.Snapshot(); running {
				w.Invalidate()
			}
		}
	}
}

func (a *App) handleKeyEvent(gtx layout.Context, e key.Event) {
	switch e.Name {
	case key.NameSpace:
		a.state.Playback.TogglePlay()
	case key.NameLeftArrow:
		a.state.Playback.StepBack()
	case key.NameRightArrow:
		a.state.Playback.StepForward()
	case key.NameHome:
		a.state.Playback.Reset()
	case "R":
		a.camera.Reset()
	case "F":
		size := gtx.Constraints.Max
		a.camera.FitGrid(a.state.Grid, widgets.CellSize, float32(size.X), float32(size.Y), 40)
	case "Z":
		if e.Modifiers.Contain(key.ModCtrl) {
			if action := a.state.Edit.Undo(); action != nil {
				action.Undo(a.state)
			}
		}
	case "Y":
		if e.Modifiers.Contain(key.ModCtrl) {
			if action := a.state.Edit.Redo(); action != nil {
				action.Do(a.state)
			}
		}
	}
}

func (a *App) layout(gtx layout.Context) layout.Dimensions {
	paint.Fill(gtx.Ops, color.NRGBA{R: 30, G: 30, B: 35, A: 255})

	if _, _, plan, _, err := a.state.Algo.Snapshot(); err == nil && plan != nil && plan != a.state.Plan {
		a.state.Plan = plan
		a.state.Playback.SetMaxTime(float64(plan.Makespan()))
	}

	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return a.toolbar.Layout(gtx, a.theme)
		}),
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			return a.workspace.Layout(gtx, a.theme)
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return a.timeline.Layout(gtx, a.theme)
		}),
	)
}

// defaultInstance builds a small 7x7 grid with a handful of agents for the
// visualizer to show on startup.
func defaultInstance() (*core.Grid, []core.Agent) {
	const size = 7
	obstacle := make([][]bool, size)
	for y := range obstacle {
		obstacle[y] = make([]bool, size)
	}
	// A short wall with a gap, to make the solvers' path choices visible.
	for y := 1; y < size-1; y++ {
		if y == size/2 {
			continue
		}
		obstacle[y][size/2] = true
	}

	grid, err := core.NewGrid(obstacle, core.FiveDirections)
	if err != nil {
		grid, _ = core.NewGrid([][]bool{{false}}, core.FiveDirections)
	}

	agents := []core.Agent{
		core.NewAgent(0, 0, 0, size-1, size-1),
		core.NewAgent(1, size-1, 0, 0, size-1),
		core.NewAgent(2, 0, size-1, size-1, 0),
	}

	return grid, agents
}
