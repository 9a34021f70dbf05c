package physics

import "math"

// Grid is a uniform broad-phase grid over the play field.
// Boxes are inserted by index into every cell they cover, then candidate
// overlaps for another box are found by visiting only the cells it covers.
// Boxes reaching past the field are clamped to the border cells, which keeps
// overlapping boxes in at least one shared cell.
type Grid struct {
	cellSize    float64
	invCellSize float64 // 1 / cellSize (precomputed to avoid division)
	cols        int
	rows        int
	cells       [][]int

	// Per-query dedup: seen[i] == stamp means index i was already reported.
	seen  []uint32
	stamp uint32
}

// NewGrid creates a grid covering a width×height field.
func NewGrid(width, height, cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = math.Max(width, height)
	}
	cols := int(math.Ceil(width / cellSize))
	rows := int(math.Ceil(height / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	return &Grid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       make([][]int, cols*rows),
	}
}

// Clear removes all items without releasing cell memory.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds the item with the given index covering box.
func (g *Grid) Insert(box Rect, index int) {
	if index >= len(g.seen) {
		g.seen = append(g.seen, make([]uint32, index+1-len(g.seen))...)
	}
	c0, r0, c1, r1 := g.span(box)
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			idx := r*g.cols + c
			g.cells[idx] = append(g.cells[idx], index)
		}
	}
}

// Query calls fn once for each inserted index sharing a cell with box.
// Candidates are not overlap-tested; callers do the narrow phase.
// If fn returns true, iteration stops early.
func (g *Grid) Query(box Rect, fn func(index int) bool) {
	g.stamp++
	if g.stamp == 0 {
		clear(g.seen)
		g.stamp = 1
	}

	c0, r0, c1, r1 := g.span(box)
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			for _, idx := range g.cells[r*g.cols+c] {
				if g.seen[idx] == g.stamp {
					continue
				}
				g.seen[idx] = g.stamp
				if fn(idx) {
					return
				}
			}
		}
	}
}

// span converts a box into an inclusive, clamped cell range.
func (g *Grid) span(box Rect) (c0, r0, c1, r1 int) {
	c0 = g.clampCol(box.MinX)
	c1 = g.clampCol(box.MaxX)
	r0 = g.clampRow(box.MinY)
	r1 = g.clampRow(box.MaxY)
	return c0, r0, c1, r1
}

func (g *Grid) clampCol(x float64) int {
	col := int(math.Floor(x * g.invCellSize))
	if col < 0 {
		return 0
	}
	if col >= g.cols {
		return g.cols - 1
	}
	return col
}

func (g *Grid) clampRow(y float64) int {
	row := int(math.Floor(y * g.invCellSize))
	if row < 0 {
		return 0
	}
	if row >= g.rows {
		return g.rows - 1
	}
	return row
}
