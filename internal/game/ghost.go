package game

import (
	"math/rand"

	"maze-chase/internal/maze"
)

// GhostState is the observable lifecycle state of an adversary.
type GhostState uint8

const (
	// Confined adversaries wait in the safe zone for release.
	Confined GhostState = iota
	// Patrolling adversaries pursue the player.
	Patrolling
	// Fleeing adversaries are vulnerable and run from the player.
	Fleeing
)

func (s GhostState) String() string {
	switch s {
	case Confined:
		return "confined"
	case Patrolling:
		return "patrolling"
	case Fleeing:
		return "fleeing"
	default:
		return "unknown"
	}
}

// randomOrder is the pick table for random directions.
var randomOrder = [4]maze.Direction{maze.Right, maze.Left, maze.Down, maze.Up}

// Ghost is an autonomous adversary.
type Ghost struct {
	personality Personality
	spawn       maze.Position
	targeter    Targeter
	rng         *rand.Rand

	pos        maze.Position
	dir        maze.Direction
	released   bool
	hasLeft    bool
	vulnerable bool

	difficulty Difficulty
	profile    aiProfile
	counter    int
}

// NewGhost creates an adversary on its spawn cell and records it in table.
func NewGhost(p Personality, grid *maze.Grid, rng *rand.Rand, table *PositionTable) *Ghost {
	g := &Ghost{
		personality: p,
		spawn:       grid.GhostSpawn(int(p)),
		targeter:    targeterFor(p, grid),
		rng:         rng,
		difficulty:  Easy,
		profile:     Easy.profile(),
	}
	g.Reset(table)
	return g
}

func (g *Ghost) Personality() Personality  { return g.personality }
func (g *Ghost) Position() maze.Position   { return g.pos }
func (g *Ghost) Direction() maze.Direction { return g.dir }
func (g *Ghost) IsVulnerable() bool        { return g.vulnerable }
func (g *Ghost) HasLeftSafeZone() bool     { return g.hasLeft }
func (g *Ghost) Released() bool            { return g.released }

// State derives the lifecycle state from the flags.
func (g *Ghost) State() GhostState {
	switch {
	case !g.released:
		return Confined
	case g.vulnerable:
		return Fleeing
	default:
		return Patrolling
	}
}

// SetDifficulty applies new tuning and offsets the cadence counter.
func (g *Ghost) SetDifficulty(d Difficulty) {
	g.difficulty = d
	g.profile = d.profile()
	g.counter = g.profile.startCounter
}

// SetVulnerable toggles the fleeing flag. Becoming vulnerable also picks
// a fresh random direction.
func (g *Ghost) SetVulnerable(v bool) {
	g.vulnerable = v
	if v {
		g.RandomizeDirection()
	}
}

// RandomizeDirection picks one of the four directions uniformly. The
// result may reverse the current heading.
func (g *Ghost) RandomizeDirection() {
	g.dir = randomOrder[g.rng.Intn(len(randomOrder))]
}

// Release places the adversary on the safe-zone exit and lets it move.
func (g *Ghost) Release(exit maze.Position, table *PositionTable) {
	g.pos = exit
	g.released = true
	g.hasLeft = true
	g.RandomizeDirection()
	table.Set(g.personality, g.pos)
}

// Reset returns the adversary to its spawn cell, confined and not vulnerable.
// Difficulty is kept.
func (g *Ghost) Reset(table *PositionTable) {
	g.pos = g.spawn
	g.released = false
	g.hasLeft = false
	g.vulnerable = false
	g.counter = 0
	g.RandomizeDirection()
	table.Set(g.personality, g.pos)
}

// Move advances a released adversary by at most one cell. It reports
// whether the adversary changed cell.
func (g *Ghost) Move(grid *maze.Grid, table *PositionTable, player maze.Position, playerDir maze.Direction) bool {
	if !g.released {
		return false
	}

	g.counter++
	if g.counter >= g.profile.cadence {
		g.counter = 0
		g.recompute(table, player, playerDir)
	}
	if n := g.profile.intersectionEvery; n > 0 && !g.vulnerable && g.counter%n == 0 {
		g.checkIntersection(grid, table, player, playerDir)
	}

	if !g.dir.IsZero() {
		next := grid.Step(g.pos, g.dir)
		if g.open(grid, table, next) {
			g.moveTo(grid, table, next)
			if g.profile.checkAfterMove && !g.vulnerable {
				g.checkIntersection(grid, table, player, playerDir)
			}
			return true
		}
	}

	back := g.dir.Reverse()
	for _, d := range maze.Cardinals {
		if !g.dir.IsZero() && d == back {
			continue
		}
		next := grid.Step(g.pos, d)
		if g.open(grid, table, next) {
			g.dir = d
			g.moveTo(grid, table, next)
			return true
		}
	}
	return false
}

// recompute runs at each cadence boundary.
func (g *Ghost) recompute(table *PositionTable, player maze.Position, playerDir maze.Direction) {
	if g.vulnerable {
		g.dir = maze.Away(g.pos, player)
		return
	}
	if g.profile.intelligence >= 1 || g.rng.Float64() < g.profile.intelligence {
		g.decide(table, player, playerDir)
		return
	}
	g.RandomizeDirection()
}

// decide steers toward the personality's target, or away from the player
// while vulnerable.
func (g *Ghost) decide(table *PositionTable, player maze.Position, playerDir maze.Direction) {
	if g.vulnerable {
		g.dir = maze.Away(g.pos, player)
		return
	}
	target := g.targeter.Target(TargetContext{
		Self:      g.pos,
		Player:    player,
		PlayerDir: playerDir,
		Positions: table,
	})
	g.dir = maze.Toward(g.pos, target)
	if g.profile.chaserRush && g.personality == Chaser {
		g.counter = -2
	}
}

// checkIntersection decides immediately when more than one non-reversing
// exit is enterable.
func (g *Ghost) checkIntersection(grid *maze.Grid, table *PositionTable, player maze.Position, playerDir maze.Direction) {
	back := g.dir.Reverse()
	exits := 0
	for _, d := range maze.Cardinals {
		if d == back {
			continue
		}
		if canEnter(grid, grid.Step(g.pos, d), g.hasLeft) {
			exits++
		}
	}
	if exits > 1 {
		g.decide(table, player, playerDir)
	}
}

func (g *Ghost) open(grid *maze.Grid, table *PositionTable, cell maze.Position) bool {
	return canEnter(grid, cell, g.hasLeft) && !table.Occupied(cell, g.pos)
}

func (g *Ghost) moveTo(grid *maze.Grid, table *PositionTable, cell maze.Position) {
	g.pos = cell
	if !grid.IsInsideSafeZone(cell.X, cell.Y) {
		g.hasLeft = true
	}
	table.Set(g.personality, cell)
}
