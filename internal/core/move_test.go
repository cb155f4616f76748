package core

import "testing"

func TestDirectionSet_Directions(t *testing.T) {
	five := FiveDirections.Directions()
	if len(five) != 5 {
		t.Fatalf("FiveDirections.Directions() has %d entries, want 5", len(five))
	}

	nine := NineDirections.Directions()
	if len(nine) != 9 {
		t.Fatalf("NineDirections.Directions() has %d entries, want 9", len(nine))
	}
	for _, d := range five {
		found := false
		for _, d2 := range nine[:5] {
			if d == d2 {
				found = true
			}
		}
		if !found {
			t.Errorf("NineDirections should retain %v among its first five", d)
		}
	}
}

func TestDirection_CostIsUnitForEveryDirection(t *testing.T) {
	for _, d := range NineDirections.Directions() {
		if d.Cost() != 1 {
			t.Errorf("%v.Cost() = %d, want 1 (unit-cost move model)", d, d.Cost())
		}
	}
}

func TestDirection_OppositeIsInvolution(t *testing.T) {
	for _, d := range NineDirections.Directions() {
		if d.Opposite().Opposite() != d {
			t.Errorf("%v.Opposite().Opposite() != %v", d, d)
		}
	}
	if Wait.Opposite() != Wait {
		t.Error("Wait.Opposite() should be Wait")
	}
	if North.Opposite() != South || South.Opposite() != North {
		t.Error("North/South should be opposites")
	}
	if NorthEast.Opposite() != SouthWest {
		t.Error("NorthEast's opposite should be SouthWest")
	}
}

func TestMove_Apply(t *testing.T) {
	cases := []struct {
		dir  Direction
		x, y int
	}{
		{North, 2, 1},
		{South, 2, 3},
		{East, 3, 2},
		{West, 1, 2},
		{Wait, 2, 2},
		{NorthEast, 3, 1},
		{SouthWest, 1, 3},
	}
	for _, tc := range cases {
		x, y := Move{X: 2, Y: 2, Dir: tc.dir}.Apply()
		if x != tc.x || y != tc.y {
			t.Errorf("Move{2,2,%v}.Apply() = (%d,%d), want (%d,%d)", tc.dir, x, y, tc.x, tc.y)
		}
	}
}

func TestGetNextMoves_OneSuccessorPerDirection(t *testing.T) {
	m := TimedMove{Move: Move{X: 1, Y: 1}, Time: 4}

	five := GetNextMoves(m, FiveDirections)
	if len(five) != 5 {
		t.Fatalf("GetNextMoves(five) has %d entries, want 5", len(five))
	}
	for _, tm := range five {
		if tm.Time != 5 {
			t.Errorf("successor time = %d, want 5", tm.Time)
		}
	}

	nine := GetNextMoves(m, NineDirections)
	if len(nine) != 9 {
		t.Fatalf("GetNextMoves(nine) has %d entries, want 9", len(nine))
	}
}

func TestTimedMove_Equal(t *testing.T) {
	a := TimedMove{Move: Move{X: 1, Y: 2, Dir: North}, Time: 3}
	b := TimedMove{Move: Move{X: 1, Y: 2, Dir: South}, Time: 3}
	c := TimedMove{Move: Move{X: 1, Y: 2, Dir: North}, Time: 4}

	if !a.Equal(b) {
		t.Error("Equal should ignore the direction that produced the move")
	}
	if a.Equal(c) {
		t.Error("Equal should compare time")
	}
}
