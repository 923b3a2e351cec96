package maze

import (
	"fmt"
	"strings"
)

// Position is a cell coordinate. X grows to the right, Y grows downward.
type Position struct {
	X int `json:"x" msgpack:"x"`
	Y int `json:"y" msgpack:"y"`
}

// Add returns p translated by d.
func (p Position) Add(d Direction) Position {
	return Position{X: p.X + d.DX, Y: p.Y + d.DY}
}

// Manhattan returns the grid distance between two cells.
func (p Position) Manhattan(o Position) int {
	return abs(p.X-o.X) + abs(p.Y-o.Y)
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Direction is a unit step on the grid. The zero value means "no movement".
type Direction struct {
	DX int `json:"dx" msgpack:"dx"`
	DY int `json:"dy" msgpack:"dy"`
}

var (
	None  = Direction{}
	Up    = Direction{DX: 0, DY: -1}
	Down  = Direction{DX: 0, DY: 1}
	Left  = Direction{DX: -1, DY: 0}
	Right = Direction{DX: 1, DY: 0}
)

// Cardinals lists the four movement directions in scan order.
var Cardinals = [4]Direction{Up, Right, Down, Left}

// IsZero reports whether d is the stationary direction.
func (d Direction) IsZero() bool {
	return d.DX == 0 && d.DY == 0
}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	return Direction{DX: -d.DX, DY: -d.DY}
}

// Scale multiplies the step by n, used for look-ahead targets.
func (d Direction) Scale(n int) Position {
	return Position{X: d.DX * n, Y: d.DY * n}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	case None:
		return "none"
	}
	return fmt.Sprintf("(%d,%d)", d.DX, d.DY)
}

// ParseDirection converts a direction name into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return None, fmt.Errorf("unknown direction %q", s)
}

// Toward returns the single-axis unit step from one cell toward another.
// The axis with the larger absolute delta wins; ties resolve vertically.
func Toward(from, to Position) Direction {
	dx := to.X - from.X
	dy := to.Y - from.Y
	if abs(dx) > abs(dy) {
		return Direction{DX: sign(dx)}
	}
	return Direction{DY: sign(dy)}
}

// Away returns the single-axis unit step that increases distance from threat.
func Away(from, threat Position) Direction {
	return Toward(from, threat).Reverse()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
