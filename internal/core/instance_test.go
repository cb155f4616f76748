package core

import (
	"errors"
	"testing"
)

func openGrid(t *testing.T, w, h int) *Grid {
	t.Helper()
	obstacle := make([][]bool, h)
	for y := range obstacle {
		obstacle[y] = make([]bool, w)
	}
	g, err := NewGrid(obstacle, FiveDirections)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return g
}

func alwaysReachable(int) bool { return true }

func TestNewProblemInstance_Valid(t *testing.T) {
	g := openGrid(t, 4, 4)
	agents := []Agent{
		NewAgent(0, 0, 0, 3, 3),
		NewAgent(1, 3, 0, 0, 3),
	}
	inst, err := NewProblemInstance(g, agents, alwaysReachable)
	if err != nil {
		t.Fatalf("NewProblemInstance: %v", err)
	}
	if inst.N() != 2 {
		t.Errorf("N() = %d, want 2", inst.N())
	}
	if a := inst.AgentByID(1); a == nil || a.GoalX != 0 {
		t.Errorf("AgentByID(1) = %+v", a)
	}
	if inst.AgentByID(99) != nil {
		t.Error("AgentByID should return nil for an unknown id")
	}
}

func TestNewProblemInstance_SharedStartRejected(t *testing.T) {
	g := openGrid(t, 4, 4)
	agents := []Agent{
		NewAgent(0, 0, 0, 3, 3),
		NewAgent(1, 0, 0, 0, 3),
	}
	_, err := NewProblemInstance(g, agents, alwaysReachable)
	if !errors.Is(err, ErrInitialCollision) {
		t.Errorf("err = %v, want ErrInitialCollision", err)
	}
}

func TestNewProblemInstance_ObstacleStartRejected(t *testing.T) {
	obstacle := [][]bool{
		{true, false},
		{false, false},
	}
	g, err := NewGrid(obstacle, FiveDirections)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	agents := []Agent{NewAgent(0, 0, 0, 1, 1)}
	_, err = NewProblemInstance(g, agents, alwaysReachable)
	if !errors.Is(err, ErrInitialCollision) {
		t.Errorf("err = %v, want ErrInitialCollision", err)
	}
}

func TestNewProblemInstance_OutOfBoundsGoalRejected(t *testing.T) {
	g := openGrid(t, 4, 4)
	agents := []Agent{NewAgent(0, 0, 0, 4, 4)}
	_, err := NewProblemInstance(g, agents, alwaysReachable)
	if !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("err = %v, want ErrOutOfBounds", err)
	}
}

func TestNewProblemInstance_UnreachableGoalRejected(t *testing.T) {
	g := openGrid(t, 4, 4)
	agents := []Agent{NewAgent(0, 0, 0, 3, 3)}
	_, err := NewProblemInstance(g, agents, func(int) bool { return false })
	if !errors.Is(err, ErrUnreachableGoal) {
		t.Errorf("err = %v, want ErrUnreachableGoal", err)
	}
}

func TestNewProblemInstance_NilReachableSkipsCheck(t *testing.T) {
	g := openGrid(t, 4, 4)
	agents := []Agent{NewAgent(0, 0, 0, 3, 3)}
	if _, err := NewProblemInstance(g, agents, nil); err != nil {
		t.Errorf("NewProblemInstance with nil reachable: %v", err)
	}
}
