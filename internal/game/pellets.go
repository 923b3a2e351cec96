package game

import "maze-chase/internal/maze"

// PelletLayer tracks the regular pellets still on the board.
type PelletLayer struct {
	width     int
	cells     []bool
	remaining int
}

// NewPelletLayer creates a layer sized to the grid and fills it.
func NewPelletLayer(grid *maze.Grid) *PelletLayer {
	l := &PelletLayer{
		width: grid.Width(),
		cells: make([]bool, grid.Width()*grid.Height()),
	}
	l.Populate(grid)
	return l
}

// Populate places a pellet on every path cell outside the safe zone,
// except the power pellet cells.
func (l *PelletLayer) Populate(grid *maze.Grid) {
	clear(l.cells)
	l.remaining = 0
	grid.PathCells(func(p maze.Position) {
		if grid.IsInsideSafeZone(p.X, p.Y) {
			return
		}
		l.cells[p.Y*l.width+p.X] = true
		l.remaining++
	})
	for _, p := range grid.PowerPelletPositions() {
		if l.Has(p) {
			l.cells[p.Y*l.width+p.X] = false
			l.remaining--
		}
	}
}

// Has reports whether a pellet is on the cell.
func (l *PelletLayer) Has(p maze.Position) bool {
	idx := p.Y*l.width + p.X
	if p.X < 0 || p.X >= l.width || idx < 0 || idx >= len(l.cells) {
		return false
	}
	return l.cells[idx]
}

// Consume removes the pellet on the cell and reports whether one was there.
func (l *PelletLayer) Consume(p maze.Position) bool {
	if !l.Has(p) {
		return false
	}
	l.cells[p.Y*l.width+p.X] = false
	l.remaining--
	return true
}

// Remaining returns the number of pellets left.
func (l *PelletLayer) Remaining() int {
	return l.remaining
}

// Rows copies the layer as a row-major matrix.
func (l *PelletLayer) Rows() [][]bool {
	height := len(l.cells) / l.width
	out := make([][]bool, height)
	for y := range out {
		row := make([]bool, l.width)
		copy(row, l.cells[y*l.width:(y+1)*l.width])
		out[y] = row
	}
	return out
}
