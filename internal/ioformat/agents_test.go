package ioformat

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/elektrokombinacija/mapf-core/internal/core"
)

func TestAgentsFile_RoundTrip(t *testing.T) {
	input := "2\n3,4,0,0\n0,0,3,4\n"
	agents, err := ReadAgentsFile(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadAgentsFile: %v", err)
	}
	if len(agents) != 2 {
		t.Fatalf("got %d agents, want 2", len(agents))
	}
	if agents[0].StartX != 0 || agents[0].StartY != 0 || agents[0].GoalX != 3 || agents[0].GoalY != 4 {
		t.Errorf("agent 0 = %+v, want start(0,0) goal(3,4)", agents[0])
	}
	if agents[1].StartX != 3 || agents[1].StartY != 4 || agents[1].GoalX != 0 || agents[1].GoalY != 0 {
		t.Errorf("agent 1 = %+v, want start(3,4) goal(0,0)", agents[1])
	}

	var buf bytes.Buffer
	if err := WriteAgentsFile(&buf, agents); err != nil {
		t.Fatalf("WriteAgentsFile: %v", err)
	}
	agents2, err := ReadAgentsFile(&buf)
	if err != nil {
		t.Fatalf("re-reading written agents file: %v", err)
	}
	if len(agents2) != len(agents) {
		t.Fatalf("round trip produced %d agents, want %d", len(agents2), len(agents))
	}
	for i := range agents {
		if agents[i] != agents2[i] {
			t.Errorf("agent %d mismatch after round trip: %+v != %+v", i, agents[i], agents2[i])
		}
	}
}

func TestReadAgentsFile_CountMismatch(t *testing.T) {
	input := "2\n3,4,0,0\n"
	if _, err := ReadAgentsFile(strings.NewReader(input)); !errors.Is(err, ErrRowCountMismatch) {
		t.Errorf("err = %v, want ErrRowCountMismatch", err)
	}
}

func TestReadAgentsFile_MalformedLine(t *testing.T) {
	input := "1\n3,4,0\n"
	if _, err := ReadAgentsFile(strings.NewReader(input)); !errors.Is(err, ErrMalformedAgentLine) {
		t.Errorf("err = %v, want ErrMalformedAgentLine", err)
	}
}

func TestScenFile_RoundTrip(t *testing.T) {
	grid := openTestGrid(t, 8, 8)
	agents := []core.Agent{
		core.NewAgent(0, 1, 2, 5, 6),
		core.NewAgent(1, 5, 6, 1, 2),
	}

	var buf bytes.Buffer
	if err := WriteScenFile(&buf, "mymap.map", grid, agents); err != nil {
		t.Fatalf("WriteScenFile: %v", err)
	}

	entries, err := ReadScenFile(&buf)
	if err != nil {
		t.Fatalf("ReadScenFile: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	got := ScenAgents(entries)
	for i, a := range agents {
		if got[i].StartX != a.StartX || got[i].StartY != a.StartY || got[i].GoalX != a.GoalX || got[i].GoalY != a.GoalY {
			t.Errorf("agent %d = %+v, want %+v", i, got[i], a)
		}
	}
}

func TestWriteScenFile_RequiresMapName(t *testing.T) {
	grid := openTestGrid(t, 4, 4)
	var buf bytes.Buffer
	err := WriteScenFile(&buf, "", grid, nil)
	if !errors.Is(err, ErrMissingMapName) {
		t.Errorf("err = %v, want ErrMissingMapName", err)
	}
}

func TestReadScenFile_RequiresVersionHeader(t *testing.T) {
	if _, err := ReadScenFile(strings.NewReader("not a version line\n")); !errors.Is(err, ErrMalformedHeader) {
		t.Errorf("err = %v, want ErrMalformedHeader", err)
	}
}

func openTestGrid(t *testing.T, w, h int) *core.Grid {
	t.Helper()
	obstacle := make([][]bool, h)
	for y := range obstacle {
		obstacle[y] = make([]bool, w)
	}
	g, err := core.NewGrid(obstacle, core.FiveDirections)
	if err != nil {
		t.Fatalf("core.NewGrid: %v", err)
	}
	return g
}
