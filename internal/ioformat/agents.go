package ioformat

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/elektrokombinacija/mapf-core/internal/core"
)

// ReadAgentsFile parses a `.agents` scenario: a count line, then one line
// per agent of `goalX,goalY,startX,startY` (spec.md §6 — note goal comes
// before start in this format).
func ReadAgentsFile(r io.Reader) ([]core.Agent, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedHeader)
	}
	count, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return nil, fmt.Errorf("%w: agent count %q", ErrMalformedHeader, scanner.Text())
	}

	agents := make([]core.Agent, 0, count)
	for scanner.Scan() {
		fields := strings.Split(strings.TrimSpace(scanner.Text()), ",")
		if len(fields) != 4 {
			return nil, fmt.Errorf("%w: %q", ErrMalformedAgentLine, scanner.Text())
		}
		nums, err := parseInts(fields)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedAgentLine, scanner.Text())
		}
		goalX, goalY, startX, startY := nums[0], nums[1], nums[2], nums[3]
		agents = append(agents, core.NewAgent(core.AgentID(len(agents)), startX, startY, goalX, goalY))
	}
	if len(agents) != count {
		return nil, fmt.Errorf("%w: declared %d agents, found %d", ErrRowCountMismatch, count, len(agents))
	}
	return agents, nil
}

// WriteAgentsFile writes agents in the `.agents` format.
func WriteAgentsFile(w io.Writer, agents []core.Agent) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, len(agents))
	for _, a := range agents {
		fmt.Fprintf(bw, "%d,%d,%d,%d\n", a.GoalX, a.GoalY, a.StartX, a.StartY)
	}
	return bw.Flush()
}

// ScenEntry is one row of a `.scen` scenario file.
type ScenEntry struct {
	Bucket                 int
	MapName                string
	Cols, Rows             int
	StartX, StartY         int
	GoalX, GoalY            int
	OptimalCost            float64
}

// ReadScenFile parses a `.scen` scenario: a `version 1` header, then rows
// of `block\tmapName\tcols\trows\tstartY\tstartX\tgoalY\tgoalX\toptimalCost`.
// Coordinates in the file are (column,row); they are inverted here to the
// (x,y) convention core.Agent uses (spec.md §6: "inverted on load").
func ReadScenFile(r io.Reader) ([]ScenEntry, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedHeader)
	}
	header := strings.TrimSpace(scanner.Text())
	if !strings.HasPrefix(header, "version") {
		return nil, fmt.Errorf("%w: %q", ErrMalformedHeader, header)
	}

	var entries []ScenEntry
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 9 {
			return nil, fmt.Errorf("%w: %q", ErrMalformedAgentLine, line)
		}

		bucket, err1 := strconv.Atoi(fields[0])
		cols, err2 := strconv.Atoi(fields[2])
		rows, err3 := strconv.Atoi(fields[3])
		startY, err4 := strconv.Atoi(fields[4])
		startX, err5 := strconv.Atoi(fields[5])
		goalY, err6 := strconv.Atoi(fields[6])
		goalX, err7 := strconv.Atoi(fields[7])
		cost, err8 := strconv.ParseFloat(fields[8], 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil || err6 != nil || err7 != nil || err8 != nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedAgentLine, line)
		}

		entries = append(entries, ScenEntry{
			Bucket: bucket, MapName: fields[1], Cols: cols, Rows: rows,
			StartX: startX, StartY: startY, GoalX: goalX, GoalY: goalY,
			OptimalCost: cost,
		})
	}
	return entries, nil
}

// ScenAgents converts parsed .scen rows to agents, assigning IDs by file
// order.
func ScenAgents(entries []ScenEntry) []core.Agent {
	agents := make([]core.Agent, len(entries))
	for i, e := range entries {
		agents[i] = core.NewAgent(core.AgentID(i), e.StartX, e.StartY, e.GoalX, e.GoalY)
	}
	return agents
}

// WriteScenFile writes agents as `.scen` rows against a named map file.
func WriteScenFile(w io.Writer, mapName string, grid *core.Grid, agents []core.Agent) error {
	if mapName == "" {
		return ErrMissingMapName
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "version 1")
	for _, a := range agents {
		fmt.Fprintf(bw, "%d\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
			0, mapName, grid.Width, grid.Height, a.StartY, a.StartX, a.GoalY, a.GoalX, 0)
	}
	return bw.Flush()
}

func parseInts(fields []string) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}
