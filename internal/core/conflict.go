package core

import "sort"

// Conflict is a collision between two agents' paths (spec.md §4.6/C11).
type Conflict struct {
	Agent1, Agent2 AgentID
	X, Y           int // vertex conflict location
	Time           int
	IsSwap         bool // edge/swap conflict instead of a vertex conflict
	// For swap conflicts: the two cells being exchanged between Time-1 and Time.
	FromX, FromY int
	ToX, ToY     int
}

// sortedAgentIDs returns agent IDs from a path map in ascending order, so
// conflict detection is deterministic regardless of map iteration order.
func sortedAgentIDs(paths map[AgentID][]TimedMove) []AgentID {
	ids := make([]AgentID, 0, len(paths))
	for id := range paths {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// maxTime returns the largest Time across all paths.
func maxTime(paths map[AgentID][]TimedMove) int {
	max := 0
	for _, path := range paths {
		if len(path) > 0 && path[len(path)-1].Time > max {
			max = path[len(path)-1].Time
		}
	}
	return max
}

// FindFirstConflict returns the first vertex or swap conflict across all
// paths (earliest by time, then by agent-pair order), or nil if the joint
// plan is conflict-free.
func FindFirstConflict(paths map[AgentID][]TimedMove) *Conflict {
	agents := sortedAgentIDs(paths)
	horizon := maxTime(paths)

	for t := 0; t <= horizon; t++ {
		for i := 0; i < len(agents); i++ {
			for j := i + 1; j < len(agents); j++ {
				x1, y1, ok1 := PositionAt(paths[agents[i]], t)
				x2, y2, ok2 := PositionAt(paths[agents[j]], t)
				if ok1 && ok2 && x1 == x2 && y1 == y2 {
					return &Conflict{Agent1: agents[i], Agent2: agents[j], X: x1, Y: y1, Time: t}
				}
			}
		}
		if t > 0 {
			for i := 0; i < len(agents); i++ {
				for j := i + 1; j < len(agents); j++ {
					if c := swapConflictAt(paths, agents[i], agents[j], t); c != nil {
						return c
					}
				}
			}
		}
	}

	return nil
}

// FindAllConflicts returns every vertex and swap conflict across all
// paths, ordered by time then agent pair.
func FindAllConflicts(paths map[AgentID][]TimedMove) []*Conflict {
	agents := sortedAgentIDs(paths)
	horizon := maxTime(paths)
	var conflicts []*Conflict

	for t := 0; t <= horizon; t++ {
		for i := 0; i < len(agents); i++ {
			for j := i + 1; j < len(agents); j++ {
				x1, y1, ok1 := PositionAt(paths[agents[i]], t)
				x2, y2, ok2 := PositionAt(paths[agents[j]], t)
				if ok1 && ok2 && x1 == x2 && y1 == y2 {
					conflicts = append(conflicts, &Conflict{Agent1: agents[i], Agent2: agents[j], X: x1, Y: y1, Time: t})
				}
			}
		}
		if t > 0 {
			for i := 0; i < len(agents); i++ {
				for j := i + 1; j < len(agents); j++ {
					if c := swapConflictAt(paths, agents[i], agents[j], t); c != nil {
						conflicts = append(conflicts, c)
					}
				}
			}
		}
	}

	return conflicts
}

// swapConflictAt reports a swap conflict between a and b across
// [t-1, t], if any: a moves to where b was and b moves to where a was.
func swapConflictAt(paths map[AgentID][]TimedMove, a, b AgentID, t int) *Conflict {
	ax0, ay0, ok1 := PositionAt(paths[a], t-1)
	ax1, ay1, ok2 := PositionAt(paths[a], t)
	bx0, by0, ok3 := PositionAt(paths[b], t-1)
	bx1, by1, ok4 := PositionAt(paths[b], t)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return nil
	}
	if ax0 == bx1 && ay0 == by1 && ax1 == bx0 && ay1 == by0 && (ax0 != ax1 || ay0 != ay1) {
		return &Conflict{
			Agent1: a, Agent2: b,
			X: ax0, Y: ay0, Time: t,
			IsSwap: true,
			FromX:  ax0, FromY: ay0,
			ToX: ax1, ToY: ay1,
		}
	}
	return nil
}
