package ioformat

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/elektrokombinacija/mapf-core/internal/core"
)

// CombinedInstance is a single self-contained instance file: an optional
// id/grid name, a grid, and its agents (spec.md §6 "Combined").
type CombinedInstance struct {
	ID       string
	GridName string
	Grid     *core.Grid
	Agents   []core.Agent
}

// ReadCombined parses the combined format: an optional `id,gridName` line,
// a `Grid:` block (`W,H` then H rows of W Liron-style `1`/other chars),
// then an `Agents:` block (a count, then `agentNum,goalX,goalY,startX,startY`
// rows).
func ReadCombined(r io.Reader, dirs core.DirectionSet) (*CombinedInstance, error) {
	scanner := bufio.NewScanner(r)
	inst := &CombinedInstance{}

	if !scanner.Scan() {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedHeader)
	}
	first := strings.TrimSpace(scanner.Text())
	if first != "Grid:" {
		parts := strings.Split(first, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: %q", ErrMalformedHeader, first)
		}
		inst.ID, inst.GridName = parts[0], parts[1]
		if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "Grid:" {
			return nil, fmt.Errorf("%w: expected \"Grid:\" section", ErrMalformedHeader)
		}
	}

	if !scanner.Scan() {
		return nil, fmt.Errorf("%w: missing grid dimensions", ErrMalformedHeader)
	}
	dims := strings.Split(strings.TrimSpace(scanner.Text()), ",")
	if len(dims) != 2 {
		return nil, fmt.Errorf("%w: %q", ErrMalformedHeader, scanner.Text())
	}
	width, err1 := strconv.Atoi(strings.TrimSpace(dims[0]))
	height, err2 := strconv.Atoi(strings.TrimSpace(dims[1]))
	if err1 != nil || err2 != nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformedHeader, scanner.Text())
	}

	obstacle := make([][]bool, 0, height)
	for len(obstacle) < height && scanner.Scan() {
		row := scanner.Text()
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has length %d, want %d", ErrRowLengthMismatch, len(obstacle), len(row), width)
		}
		cells := make([]bool, width)
		for i, c := range row {
			cells[i] = c == '1'
		}
		obstacle = append(obstacle, cells)
	}
	if len(obstacle) != height {
		return nil, fmt.Errorf("%w: got %d grid rows, want %d", ErrRowCountMismatch, len(obstacle), height)
	}

	grid, err := core.NewGrid(obstacle, dirs)
	if err != nil {
		return nil, err
	}
	inst.Grid = grid

	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "Agents:" {
		return nil, fmt.Errorf("%w: expected \"Agents:\" section", ErrMalformedHeader)
	}
	if !scanner.Scan() {
		return nil, fmt.Errorf("%w: missing agent count", ErrMalformedHeader)
	}
	count, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return nil, fmt.Errorf("%w: agent count %q", ErrMalformedHeader, scanner.Text())
	}

	agents := make([]core.Agent, 0, count)
	for len(agents) < count && scanner.Scan() {
		fields := strings.Split(strings.TrimSpace(scanner.Text()), ",")
		if len(fields) != 5 {
			return nil, fmt.Errorf("%w: %q", ErrMalformedAgentLine, scanner.Text())
		}
		nums, err := parseInts(fields)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedAgentLine, scanner.Text())
		}
		agents = append(agents, core.NewAgent(core.AgentID(nums[0]), nums[3], nums[4], nums[1], nums[2]))
	}
	if len(agents) != count {
		return nil, fmt.Errorf("%w: declared %d agents, found %d", ErrRowCountMismatch, count, len(agents))
	}
	inst.Agents = agents

	return inst, nil
}

// WriteCombined writes the combined format.
func WriteCombined(w io.Writer, inst *CombinedInstance) error {
	bw := bufio.NewWriter(w)
	if inst.ID != "" || inst.GridName != "" {
		fmt.Fprintf(bw, "%s,%s\n", inst.ID, inst.GridName)
	}
	fmt.Fprintln(bw, "Grid:")
	fmt.Fprintf(bw, "%d,%d\n", inst.Grid.Width, inst.Grid.Height)
	for y := 0; y < inst.Grid.Height; y++ {
		for x := 0; x < inst.Grid.Width; x++ {
			if inst.Grid.IsObstacle(x, y) {
				bw.WriteByte('1')
			} else {
				bw.WriteByte('0')
			}
		}
		bw.WriteByte('\n')
	}
	fmt.Fprintln(bw, "Agents:")
	fmt.Fprintln(bw, len(inst.Agents))
	for _, a := range inst.Agents {
		fmt.Fprintf(bw, "%d,%d,%d,%d,%d\n", a.ID, a.GoalX, a.GoalY, a.StartX, a.StartY)
	}
	return bw.Flush()
}
