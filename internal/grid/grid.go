// Package grid holds the punch card cell matrix.
package grid

// Card geometry: 12 punch rows by 80 columns.
const (
	Rows = 12
	Cols = 80
)

// Grid is a fixed-size boolean cell matrix. It is created once and
// cleared and reused across messages; it is never resized. Writes and
// reads outside the grid degrade to no-ops rather than errors.
type Grid struct {
	rows, cols int
	cells      [][]bool
}

// New returns a cleared rows × cols grid.
func New(rows, cols int) *Grid {
	cells := make([][]bool, rows)
	for i := range cells {
		cells[i] = make([]bool, cols)
	}
	return &Grid{rows: rows, cols: cols, cells: cells}
}

// NewCard returns a cleared card-sized grid.
func NewCard() *Grid { return New(Rows, Cols) }

// Rows returns the row count.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the column count.
func (g *Grid) Cols() int { return g.cols }

// Set writes one cell and reports whether its value actually changed.
// Out-of-range coordinates are ignored and report false.
func (g *Grid) Set(row, col int, on bool) bool {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return false
	}
	if g.cells[row][col] == on {
		return false
	}
	g.cells[row][col] = on
	return true
}

// Get reads one cell; out-of-range coordinates read as off.
func (g *Grid) Get(row, col int) bool {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return false
	}
	return g.cells[row][col]
}

// Clear turns every cell off and reports whether any cell changed, so
// callers can skip redundant redraw signaling.
func (g *Grid) Clear() bool {
	changed := false
	for r := range g.cells {
		for c := range g.cells[r] {
			if g.cells[r][c] {
				g.cells[r][c] = false
				changed = true
			}
		}
	}
	return changed
}

// Count returns the number of lit cells.
func (g *Grid) Count() int {
	n := 0
	for r := range g.cells {
		for c := range g.cells[r] {
			if g.cells[r][c] {
				n++
			}
		}
	}
	return n
}
