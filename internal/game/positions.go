package game

import "maze-chase/internal/maze"

// PositionTable records the last known cell of every adversary.
// It is owned by the engine and only written by the adversary it describes.
type PositionTable struct {
	cells [len(Personalities)]maze.Position
	known [len(Personalities)]bool
}

// Set records the cell of one adversary.
func (t *PositionTable) Set(p Personality, pos maze.Position) {
	t.cells[p] = pos
	t.known[p] = true
}

// Lookup returns the recorded cell of one adversary.
func (t *PositionTable) Lookup(p Personality) (maze.Position, bool) {
	if int(p) >= len(t.cells) {
		return maze.Position{}, false
	}
	return t.cells[p], t.known[p]
}

// Occupied reports whether an adversary other than the one standing on
// self is recorded at cell.
func (t *PositionTable) Occupied(cell, self maze.Position) bool {
	for i, pos := range t.cells {
		if t.known[i] && pos == cell && pos != self {
			return true
		}
	}
	return false
}

// Reset forgets every entry.
func (t *PositionTable) Reset() {
	*t = PositionTable{}
}
