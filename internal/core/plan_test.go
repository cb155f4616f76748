package core

import "testing"

func TestPlan_Makespan(t *testing.T) {
	p := NewPlan()
	p.Paths[0] = []TimedMove{{Move: Move{X: 0, Y: 0}, Time: 0}, {Move: Move{X: 1, Y: 0}, Time: 1}}
	p.Paths[1] = []TimedMove{{Move: Move{X: 0, Y: 1}, Time: 0}, {Move: Move{X: 1, Y: 1}, Time: 1}, {Move: Move{X: 2, Y: 1}, Time: 2}}

	if m := p.Makespan(); m != 2 {
		t.Errorf("Makespan() = %d, want 2", m)
	}
}

func TestPositionAt_ClampsBeforeAndAfter(t *testing.T) {
	path := []TimedMove{
		{Move: Move{X: 0, Y: 0}, Time: 2},
		{Move: Move{X: 1, Y: 0}, Time: 3},
		{Move: Move{X: 2, Y: 0}, Time: 4},
	}

	if x, y, ok := PositionAt(path, 0); !ok || x != 0 || y != 0 {
		t.Errorf("PositionAt before start = (%d,%d,%v), want (0,0,true)", x, y, ok)
	}
	if x, y, ok := PositionAt(path, 10); !ok || x != 2 || y != 0 {
		t.Errorf("PositionAt after end = (%d,%d,%v), want (2,0,true)", x, y, ok)
	}
	if x, y, ok := PositionAt(path, 3); !ok || x != 1 || y != 0 {
		t.Errorf("PositionAt mid = (%d,%d,%v), want (1,0,true)", x, y, ok)
	}
}

func TestPositionAt_EmptyPath(t *testing.T) {
	if _, _, ok := PositionAt(nil, 0); ok {
		t.Error("PositionAt on an empty path should report ok=false")
	}
}

func TestPlan_Validate_Success(t *testing.T) {
	g := openGrid(t, 3, 1)
	agents := []Agent{NewAgent(0, 0, 0, 2, 0)}
	inst, err := NewProblemInstance(g, agents, alwaysReachable)
	if err != nil {
		t.Fatalf("NewProblemInstance: %v", err)
	}

	p := NewPlan()
	p.Paths[0] = []TimedMove{
		{Move: Move{X: 0, Y: 0, Dir: East}, Time: 0},
		{Move: Move{X: 1, Y: 0, Dir: East}, Time: 1},
		{Move: Move{X: 2, Y: 0, Dir: East}, Time: 2},
	}
	if err := p.Validate(inst); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestPlan_Validate_MissingAgentPath(t *testing.T) {
	g := openGrid(t, 3, 1)
	agents := []Agent{NewAgent(0, 0, 0, 2, 0)}
	inst, err := NewProblemInstance(g, agents, alwaysReachable)
	if err != nil {
		t.Fatalf("NewProblemInstance: %v", err)
	}

	p := NewPlan()
	if err := p.Validate(inst); err == nil {
		t.Error("Validate should fail when an agent has no path")
	}
}

func TestPlan_Validate_WrongGoalRejected(t *testing.T) {
	g := openGrid(t, 3, 1)
	agents := []Agent{NewAgent(0, 0, 0, 2, 0)}
	inst, err := NewProblemInstance(g, agents, alwaysReachable)
	if err != nil {
		t.Fatalf("NewProblemInstance: %v", err)
	}

	p := NewPlan()
	p.Paths[0] = []TimedMove{
		{Move: Move{X: 0, Y: 0, Dir: East}, Time: 0},
		{Move: Move{X: 1, Y: 0, Dir: East}, Time: 1},
	}
	if err := p.Validate(inst); err == nil {
		t.Error("Validate should fail when the path doesn't end at the goal")
	}
}

func TestPlan_Validate_NonAdjacentStepRejected(t *testing.T) {
	g := openGrid(t, 3, 1)
	agents := []Agent{NewAgent(0, 0, 0, 2, 0)}
	inst, err := NewProblemInstance(g, agents, alwaysReachable)
	if err != nil {
		t.Fatalf("NewProblemInstance: %v", err)
	}

	p := NewPlan()
	p.Paths[0] = []TimedMove{
		{Move: Move{X: 0, Y: 0, Dir: East}, Time: 0},
		{Move: Move{X: 2, Y: 0, Dir: East}, Time: 1}, // jumps two cells in one step
	}
	if err := p.Validate(inst); err == nil {
		t.Error("Validate should reject a non-adjacent step")
	}
}

func TestPlan_Validate_ConflictRejected(t *testing.T) {
	g := openGrid(t, 3, 1)
	agents := []Agent{
		NewAgent(0, 0, 0, 2, 0),
		NewAgent(1, 2, 0, 0, 0),
	}
	inst, err := NewProblemInstance(g, agents, alwaysReachable)
	if err != nil {
		t.Fatalf("NewProblemInstance: %v", err)
	}

	p := NewPlan()
	p.Paths[0] = []TimedMove{
		{Move: Move{X: 0, Y: 0, Dir: East}, Time: 0},
		{Move: Move{X: 1, Y: 0, Dir: East}, Time: 1},
		{Move: Move{X: 2, Y: 0, Dir: East}, Time: 2},
	}
	p.Paths[1] = []TimedMove{
		{Move: Move{X: 2, Y: 0, Dir: West}, Time: 0},
		{Move: Move{X: 1, Y: 0, Dir: West}, Time: 1},
		{Move: Move{X: 0, Y: 0, Dir: West}, Time: 2},
	}
	if err := p.Validate(inst); err == nil {
		t.Error("Validate should reject a swap conflict between the two agents")
	}
}
