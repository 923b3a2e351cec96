package maze

import (
	"errors"
	"fmt"
)

// Cell kinds in a layout row.
const (
	WallRune = '#'
	PathRune = '.'
)

// Rect is an inclusive cell rectangle.
type Rect struct {
	MinX, MinY int
	MaxX, MaxY int
}

// Contains reports whether the cell lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
}

// Layout describes a maze before it is validated into a Grid.
type Layout struct {
	Rows         []string
	TunnelRow    int
	SafeZone     Rect
	SafeZoneExit Position
	PowerPellets []Position
	PlayerStart  Position
	GhostSpawns  [4]Position
	// FleeCorner is the retreat target of the cautious adversary.
	FleeCorner Position
}

// Grid is the immutable cell matrix shared by every entity.
type Grid struct {
	width, height int
	walls         []bool
	layout        Layout
}

// ErrInvalidLayout is returned when a layout cannot form a playable grid.
var ErrInvalidLayout = errors.New("invalid maze layout")

// NewGrid validates a layout and builds the grid.
func NewGrid(l Layout) (*Grid, error) {
	if len(l.Rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidLayout)
	}
	width := len(l.Rows[0])
	g := &Grid{
		width:  width,
		height: len(l.Rows),
		walls:  make([]bool, width*len(l.Rows)),
		layout: l,
	}
	for y, row := range l.Rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has width %d, want %d", ErrInvalidLayout, y, len(row), width)
		}
		for x, c := range row {
			switch c {
			case WallRune:
				g.walls[y*width+x] = true
			case PathRune:
			default:
				return nil, fmt.Errorf("%w: unexpected cell %q at %d,%d", ErrInvalidLayout, c, x, y)
			}
		}
	}
	if l.TunnelRow < 0 || l.TunnelRow >= g.height {
		return nil, fmt.Errorf("%w: tunnel row %d out of range", ErrInvalidLayout, l.TunnelRow)
	}

	named := map[string]Position{
		"safe zone exit": l.SafeZoneExit,
		"player start":   l.PlayerStart,
		"flee corner":    l.FleeCorner,
	}
	for i, p := range l.GhostSpawns {
		named[fmt.Sprintf("ghost spawn %d", i)] = p
	}
	for i, p := range l.PowerPellets {
		named[fmt.Sprintf("power pellet %d", i)] = p
	}
	for name, p := range named {
		if !g.InBounds(p) || g.IsWall(p.X, p.Y) {
			return nil, fmt.Errorf("%w: %s %s is not a path cell", ErrInvalidLayout, name, p)
		}
	}
	if l.SafeZone.Contains(l.PlayerStart.X, l.PlayerStart.Y) {
		return nil, fmt.Errorf("%w: player start inside safe zone", ErrInvalidLayout)
	}
	if l.SafeZone.Contains(l.SafeZoneExit.X, l.SafeZoneExit.Y) {
		return nil, fmt.Errorf("%w: safe zone exit inside safe zone", ErrInvalidLayout)
	}
	return g, nil
}

// Width is the number of columns.
func (g *Grid) Width() int { return g.width }

// Height is the number of rows.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether p addresses a cell of the grid.
func (g *Grid) InBounds(p Position) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

// IsWall reports whether the cell is a wall. Cells outside the grid count as walls.
func (g *Grid) IsWall(x, y int) bool {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return true
	}
	return g.walls[y*g.width+x]
}

// IsInsideSafeZone reports whether the cell is part of the adversary pen.
func (g *Grid) IsInsideSafeZone(x, y int) bool {
	return g.layout.SafeZone.Contains(x, y)
}

// IsTunnelRow reports whether horizontal movement wraps on row y.
func (g *Grid) IsTunnelRow(y int) bool {
	return y == g.layout.TunnelRow
}

// SafeZone returns the pen rectangle.
func (g *Grid) SafeZone() Rect { return g.layout.SafeZone }

// SafeZoneExit is the cell where released adversaries are placed.
func (g *Grid) SafeZoneExit() Position { return g.layout.SafeZoneExit }

// PlayerStart is the player's spawn cell.
func (g *Grid) PlayerStart() Position { return g.layout.PlayerStart }

// GhostSpawn returns the spawn cell for adversary slot i.
func (g *Grid) GhostSpawn(i int) Position { return g.layout.GhostSpawns[i] }

// FleeCorner returns the retreat corner used by cautious targeting.
func (g *Grid) FleeCorner() Position { return g.layout.FleeCorner }

// PowerPelletPositions returns a copy of the power pellet cells.
func (g *Grid) PowerPelletPositions() []Position {
	out := make([]Position, len(g.layout.PowerPellets))
	copy(out, g.layout.PowerPellets)
	return out
}

// Rows returns the layout rows for rendering.
func (g *Grid) Rows() []string {
	out := make([]string, len(g.layout.Rows))
	copy(out, g.layout.Rows)
	return out
}

// Step returns the cell reached by moving one step in direction d.
// Horizontal movement on the tunnel row wraps to the opposite edge.
// The result may be out of bounds on any other row.
func (g *Grid) Step(from Position, d Direction) Position {
	next := from.Add(d)
	if d.DY == 0 && g.IsTunnelRow(from.Y) {
		switch {
		case next.X < 0:
			next.X = g.width - 1
		case next.X >= g.width:
			next.X = 0
		}
	}
	return next
}

// PathCells calls fn for every non-wall cell in row-major order.
func (g *Grid) PathCells(fn func(p Position)) {
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if !g.walls[y*g.width+x] {
				fn(Position{X: x, Y: y})
			}
		}
	}
}
