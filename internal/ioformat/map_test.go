package ioformat

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/elektrokombinacija/mapf-core/internal/core"
)

func TestBenchmarkMap_RoundTrip(t *testing.T) {
	input := "type octile\nheight 3\nwidth 4\nmap\n....\n.@T.\n....\n"
	grid, err := ReadBenchmarkMap(strings.NewReader(input), core.FiveDirections)
	if err != nil {
		t.Fatalf("ReadBenchmarkMap: %v", err)
	}
	if grid.Width != 4 || grid.Height != 3 {
		t.Fatalf("grid = %dx%d, want 4x3", grid.Width, grid.Height)
	}
	if !grid.IsObstacle(1, 1) || !grid.IsObstacle(2, 1) {
		t.Error("expected obstacles at (1,1) and (2,1)")
	}
	if grid.IsObstacle(0, 0) {
		t.Error("(0,0) should be free")
	}

	var buf bytes.Buffer
	if err := WriteBenchmarkMap(&buf, grid); err != nil {
		t.Fatalf("WriteBenchmarkMap: %v", err)
	}

	grid2, err := ReadBenchmarkMap(&buf, core.FiveDirections)
	if err != nil {
		t.Fatalf("re-reading written map: %v", err)
	}
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			if grid.IsObstacle(x, y) != grid2.IsObstacle(x, y) {
				t.Errorf("obstacle mismatch after round trip at (%d,%d)", x, y)
			}
		}
	}
}

func TestReadBenchmarkMap_MalformedHeader(t *testing.T) {
	if _, err := ReadBenchmarkMap(strings.NewReader("not a map\n"), core.FiveDirections); !errors.Is(err, ErrMalformedHeader) {
		t.Errorf("err = %v, want ErrMalformedHeader", err)
	}
}

func TestReadBenchmarkMap_RowLengthMismatch(t *testing.T) {
	input := "height 2\nwidth 3\nmap\n...\n..\n"
	if _, err := ReadBenchmarkMap(strings.NewReader(input), core.FiveDirections); !errors.Is(err, ErrRowLengthMismatch) {
		t.Errorf("err = %v, want ErrRowLengthMismatch", err)
	}
}

func TestReadBenchmarkMap_RowCountMismatch(t *testing.T) {
	input := "height 3\nwidth 3\nmap\n...\n...\n"
	if _, err := ReadBenchmarkMap(strings.NewReader(input), core.FiveDirections); !errors.Is(err, ErrRowCountMismatch) {
		t.Errorf("err = %v, want ErrRowCountMismatch", err)
	}
}

func TestLironMap_RoundTrip(t *testing.T) {
	// Header is "width,height"; each of the width rows holds height chars,
	// so the on-disk layout is column-major relative to core.Grid.
	input := "3,3\n010\n000\n101\n"
	grid, err := ReadLironMap(strings.NewReader(input), core.FiveDirections)
	if err != nil {
		t.Fatalf("ReadLironMap: %v", err)
	}
	if grid.Width != 3 || grid.Height != 3 {
		t.Fatalf("grid = %dx%d, want 3x3", grid.Width, grid.Height)
	}
	// column x=0 ("010"): obstacle at y=1 only.
	if grid.IsObstacle(0, 0) || !grid.IsObstacle(0, 1) || grid.IsObstacle(0, 2) {
		t.Error("column 0 should be obstacle only at y=1")
	}
	// column x=1 ("000"): entirely free.
	if grid.IsObstacle(1, 0) || grid.IsObstacle(1, 1) || grid.IsObstacle(1, 2) {
		t.Error("column 1 should be entirely free")
	}
	// column x=2 ("101"): obstacle at y=0 and y=2.
	if !grid.IsObstacle(2, 0) || grid.IsObstacle(2, 1) || !grid.IsObstacle(2, 2) {
		t.Error("column 2 should be obstacle at y=0 and y=2")
	}

	var buf bytes.Buffer
	if err := WriteLironMap(&buf, grid); err != nil {
		t.Fatalf("WriteLironMap: %v", err)
	}
	grid2, err := ReadLironMap(&buf, core.FiveDirections)
	if err != nil {
		t.Fatalf("re-reading written Liron map: %v", err)
	}
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			if grid.IsObstacle(x, y) != grid2.IsObstacle(x, y) {
				t.Errorf("obstacle mismatch after round trip at (%d,%d)", x, y)
			}
		}
	}
}

func TestReadLironMap_MalformedHeader(t *testing.T) {
	if _, err := ReadLironMap(strings.NewReader("not-a-header\n"), core.FiveDirections); !errors.Is(err, ErrMalformedHeader) {
		t.Errorf("err = %v, want ErrMalformedHeader", err)
	}
}
