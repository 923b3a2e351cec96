package game

import "maze-chase/internal/maze"

// Personality is one of the four adversary targeting strategies.
type Personality uint8

const (
	Chaser Personality = iota
	Ambusher
	TeamPlayer
	Unpredictable
)

// Personalities lists every adversary in slot and release order.
var Personalities = [...]Personality{Chaser, Ambusher, TeamPlayer, Unpredictable}

func (p Personality) String() string {
	switch p {
	case Chaser:
		return "chaser"
	case Ambusher:
		return "ambusher"
	case TeamPlayer:
		return "team_player"
	case Unpredictable:
		return "unpredictable"
	default:
		return "unknown"
	}
}

// TargetContext is everything a strategy may look at when picking a target.
type TargetContext struct {
	Self      maze.Position
	Player    maze.Position
	PlayerDir maze.Direction
	Positions *PositionTable
}

// Targeter picks the cell an adversary steers toward.
type Targeter interface {
	Target(ctx TargetContext) maze.Position
}

// directTarget aims straight at the player.
type directTarget struct{}

func (directTarget) Target(ctx TargetContext) maze.Position {
	return ctx.Player
}

// leadTarget aims ahead of the player along its facing.
type leadTarget struct {
	lead int
}

func (t leadTarget) Target(ctx TargetContext) maze.Position {
	return lookAhead(ctx.Player, ctx.PlayerDir, t.lead)
}

// pincerTarget reflects a partner's position through a point ahead of the player.
type pincerTarget struct {
	lead    int
	partner Personality
}

func (t pincerTarget) Target(ctx TargetContext) maze.Position {
	pivot := lookAhead(ctx.Player, ctx.PlayerDir, t.lead)
	partner, ok := ctx.Positions.Lookup(t.partner)
	if !ok {
		partner = ctx.Self
	}
	return maze.Position{
		X: partner.X + 2*(pivot.X-partner.X),
		Y: partner.Y + 2*(pivot.Y-partner.Y),
	}
}

// shyTarget chases from afar and retreats to a corner when close.
type shyTarget struct {
	threshold int
	corner    maze.Position
}

func (t shyTarget) Target(ctx TargetContext) maze.Position {
	if ctx.Self.Manhattan(ctx.Player) > t.threshold {
		return ctx.Player
	}
	return t.corner
}

// lookAhead projects n cells along dir. Facing up also shifts the point n
// cells left, reproducing the arcade overflow.
func lookAhead(from maze.Position, dir maze.Direction, n int) maze.Position {
	off := dir.Scale(n)
	target := maze.Position{X: from.X + off.X, Y: from.Y + off.Y}
	if dir == maze.Up {
		target.X -= n
	}
	return target
}

func targeterFor(p Personality, grid *maze.Grid) Targeter {
	switch p {
	case Ambusher:
		return leadTarget{lead: 4}
	case TeamPlayer:
		return pincerTarget{lead: 2, partner: Chaser}
	case Unpredictable:
		return shyTarget{threshold: 8, corner: grid.FleeCorner()}
	default:
		return directTarget{}
	}
}
