package ioformat

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/elektrokombinacija/mapf-core/internal/core"
)

// obstacleChars are the benchmark-map glyphs that mark a blocked cell
// (spec.md §6: "Obstacles are @, O, T, W; anything else is traversable").
const obstacleChars = "@OTW"

// ReadBenchmarkMap parses a `type octile`-style map: `height H`, `width W`,
// `map`, then H rows of W characters.
func ReadBenchmarkMap(r io.Reader, dirs core.DirectionSet) (*core.Grid, error) {
	scanner := bufio.NewScanner(r)

	var height, width int
	sawHeight, sawWidth, sawMap := false, false, false

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "map":
			sawMap = true
		case strings.HasPrefix(line, "height "):
			h, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "height ")))
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrMalformedHeader, line)
			}
			height, sawHeight = h, true
		case strings.HasPrefix(line, "width "):
			w, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "width ")))
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrMalformedHeader, line)
			}
			width, sawWidth = w, true
		case strings.HasPrefix(line, "type "):
			// ignored: the octile/euclidean movement-cost label is not
			// part of this domain's move model (spec.md §4.4 unit cost).
		}
		if sawMap {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !sawHeight || !sawWidth || !sawMap {
		return nil, fmt.Errorf("%w: missing height/width/map section", ErrMalformedHeader)
	}

	obstacle := make([][]bool, 0, height)
	for scanner.Scan() {
		row := scanner.Text()
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has length %d, want %d", ErrRowLengthMismatch, len(obstacle), len(row), width)
		}
		obstacle = append(obstacle, parseObstacleRow(row))
	}
	if len(obstacle) != height {
		return nil, fmt.Errorf("%w: got %d rows, want %d", ErrRowCountMismatch, len(obstacle), height)
	}

	return core.NewGrid(obstacle, dirs)
}

func parseObstacleRow(row string) []bool {
	out := make([]bool, len(row))
	for i, c := range row {
		out[i] = strings.ContainsRune(obstacleChars, c)
	}
	return out
}

// WriteBenchmarkMap writes a grid in the `type octile` benchmark-map
// format.
func WriteBenchmarkMap(w io.Writer, grid *core.Grid) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "type octile")
	fmt.Fprintf(bw, "height %d\n", grid.Height)
	fmt.Fprintf(bw, "width %d\n", grid.Width)
	fmt.Fprintln(bw, "map")
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			if grid.IsObstacle(x, y) {
				bw.WriteByte('@')
			} else {
				bw.WriteByte('.')
			}
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ReadLironMap parses a Liron-style map: a `W,H` header, then W rows of H
// characters, `1` marking an obstacle (spec.md §6). Note the header gives
// columns first, rows second — the opposite order of ReadBenchmarkMap.
func ReadLironMap(r io.Reader, dirs core.DirectionSet) (*core.Grid, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedHeader)
	}
	header := strings.TrimSpace(scanner.Text())
	parts := strings.Split(header, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: %q", ErrMalformedHeader, header)
	}
	width, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	height, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformedHeader, header)
	}

	obstacle := make([][]bool, 0, width)
	for scanner.Scan() {
		row := scanner.Text()
		if len(row) != height {
			return nil, fmt.Errorf("%w: row %d has length %d, want %d", ErrRowLengthMismatch, len(obstacle), len(row), height)
		}
		cells := make([]bool, height)
		for i, c := range row {
			cells[i] = c == '1'
		}
		obstacle = append(obstacle, cells)
	}
	if len(obstacle) != width {
		return nil, fmt.Errorf("%w: got %d rows, want %d", ErrRowCountMismatch, len(obstacle), width)
	}

	// obstacle is currently row-major over (column, then character-index);
	// Liron's "W rows of H chars" is column-major relative to core.Grid's
	// obstacle[y][x] convention, so transpose it.
	transposed := make([][]bool, height)
	for y := 0; y < height; y++ {
		transposed[y] = make([]bool, width)
		for x := 0; x < width; x++ {
			transposed[y][x] = obstacle[x][y]
		}
	}

	return core.NewGrid(transposed, dirs)
}

// WriteLironMap writes a grid in the Liron `W,H` format.
func WriteLironMap(w io.Writer, grid *core.Grid) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d,%d\n", grid.Width, grid.Height)
	for x := 0; x < grid.Width; x++ {
		for y := 0; y < grid.Height; y++ {
			if grid.IsObstacle(x, y) {
				bw.WriteByte('1')
			} else {
				bw.WriteByte('0')
			}
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
