package game

import "maze-chase/internal/maze"

// animation cycles through this many frames, advancing every animTicks ticks.
const (
	animFrames = 3
	animTicks  = 2
)

// Player is the user-controlled entity.
type Player struct {
	start    maze.Position
	pos      maze.Position
	dir      maze.Direction
	buffered maze.Direction

	animFrame   int
	animCounter int
}

// NewPlayer creates a player standing on start.
func NewPlayer(start maze.Position) *Player {
	return &Player{start: start, pos: start}
}

// Position returns the current cell.
func (p *Player) Position() maze.Position { return p.pos }

// Direction returns the direction of the last successful move.
func (p *Player) Direction() maze.Direction { return p.dir }

// Buffered returns the requested direction awaiting an opening.
func (p *Player) Buffered() maze.Direction { return p.buffered }

// AnimFrame returns the current mouth animation frame.
func (p *Player) AnimFrame() int { return p.animFrame }

// SetDirection buffers a requested direction. It takes effect on the first
// tick where the neighbor in that direction is enterable.
func (p *Player) SetDirection(d maze.Direction) {
	if d.IsZero() {
		return
	}
	p.buffered = d
}

// Move advances one cell, preferring the buffered direction over the
// current one. It reports whether the player changed cell.
func (p *Player) Move(grid *maze.Grid) bool {
	p.animCounter++
	if p.animCounter >= animTicks {
		p.animCounter = 0
		p.animFrame = (p.animFrame + 1) % animFrames
	}

	if !p.buffered.IsZero() {
		next := grid.Step(p.pos, p.buffered)
		if canEnter(grid, next, true) {
			p.pos = next
			p.dir = p.buffered
			return true
		}
	}
	if !p.dir.IsZero() {
		next := grid.Step(p.pos, p.dir)
		if canEnter(grid, next, true) {
			p.pos = next
			return true
		}
	}
	return false
}

// Reset returns the player to its start cell, stationary.
func (p *Player) Reset() {
	p.pos = p.start
	p.dir = maze.None
	p.buffered = maze.None
	p.animFrame = 0
	p.animCounter = 0
}
