package core

import "testing"

func TestNewAgent(t *testing.T) {
	a := NewAgent(3, 1, 2, 5, 6)
	if a.ID != 3 || a.StartX != 1 || a.StartY != 2 || a.GoalX != 5 || a.GoalY != 6 {
		t.Errorf("NewAgent produced unexpected fields: %+v", a)
	}
}
