// Package core defines the domain model for grid-based multi-agent
// pathfinding: the grid, agents, plans, and conflict checks. It has no
// dependency on any search algorithm.
package core

import "errors"

// Sentinel errors for grid/instance construction.
var (
	// ErrEmptyGrid indicates a grid with no rows or no columns.
	ErrEmptyGrid = errors.New("core: grid must have at least one row and one column")
	// ErrNonRectangular indicates obstacle rows of differing lengths.
	ErrNonRectangular = errors.New("core: all obstacle rows must have the same length")
	// ErrOutOfBounds indicates a coordinate outside the grid.
	ErrOutOfBounds = errors.New("core: coordinate out of grid bounds")
)

// Grid is a rectangular 4-connected (optionally 8-connected) grid with
// obstacles. It is immutable once built via NewGrid.
//
// cardinality maps a traversable cell to a dense index in [0, NumLocations);
// obstacle cells map to -1. The mapping is bijective over the traversable
// subset and stable for the grid's lifetime.
type Grid struct {
	Width, Height int
	obstacle      [][]bool // obstacle[y][x]
	cardinality   [][]int  // cardinality[y][x], -1 for obstacles
	cellOf        []Cell   // cellOf[idx] = (x, y), inverse of cardinality

	// NumLocations is the count of traversable cells.
	NumLocations int

	// Directions controls whether GetNextMoves and heuristic construction
	// use 5 moves (N,E,S,W,Wait) or 9 (+ four diagonals).
	Directions DirectionSet
}

// NewGrid builds a Grid from a row-major obstacle matrix (obstacle[y][x]).
// Returns ErrEmptyGrid / ErrNonRectangular on malformed input.
func NewGrid(obstacle [][]bool, dirs DirectionSet) (*Grid, error) {
	height := len(obstacle)
	if height == 0 || len(obstacle[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	width := len(obstacle[0])
	for _, row := range obstacle {
		if len(row) != width {
			return nil, ErrNonRectangular
		}
	}

	g := &Grid{
		Width:      width,
		Height:     height,
		obstacle:   obstacle,
		Directions: dirs,
	}
	g.buildCardinality()
	return g, nil
}

// buildCardinality assigns a dense index to every traversable cell in
// row-major order. O(Width*Height).
func (g *Grid) buildCardinality() {
	g.cardinality = make([][]int, g.Height)
	next := 0
	for y := 0; y < g.Height; y++ {
		g.cardinality[y] = make([]int, g.Width)
		for x := 0; x < g.Width; x++ {
			if g.obstacle[y][x] {
				g.cardinality[y][x] = -1
				continue
			}
			g.cardinality[y][x] = next
			g.cellOf = append(g.cellOf, Cell{X: x, Y: y})
			next++
		}
	}
	g.NumLocations = next
}

// Cell is an (x, y) grid coordinate.
type Cell struct {
	X, Y int
}

// InBounds reports whether (x, y) lies within the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// IsObstacle reports whether (x, y) is blocked. Out-of-bounds counts as
// obstacle.
func (g *Grid) IsObstacle(x, y int) bool {
	if !g.InBounds(x, y) {
		return true
	}
	return g.obstacle[y][x]
}

// Cardinality returns the dense index of a traversable cell, or -1 for an
// obstacle or out-of-bounds cell.
func (g *Grid) Cardinality(x, y int) int {
	if !g.InBounds(x, y) {
		return -1
	}
	return g.cardinality[y][x]
}

// CellAt returns the (x, y) coordinate for a cardinality index. Panics if
// idx is out of [0, NumLocations) — callers only ever pass indices they
// obtained from Cardinality.
func (g *Grid) CellAt(idx int) (x, y int) {
	c := g.cellOf[idx]
	return c.X, c.Y
}
