package game

import (
	"testing"

	"maze-chase/internal/maze"
)

func TestPelletLayer(t *testing.T) {
	grid := maze.Classic()
	l := NewPelletLayer(grid)

	if l.Remaining() != 296 {
		t.Fatalf("Expected 296 pellets, got %d", l.Remaining())
	}
	for _, p := range grid.PowerPelletPositions() {
		if l.Has(p) {
			t.Errorf("Power pellet cell %s also holds a pellet", p)
		}
	}
	if l.Has(maze.Position{X: 14, Y: 14}) {
		t.Error("Safe zone should hold no pellets")
	}
	if l.Has(maze.Position{X: 0, Y: 0}) || l.Has(maze.Position{X: -1, Y: 3}) {
		t.Error("Walls and out-of-range cells hold no pellets")
	}

	cell := maze.Position{X: 1, Y: 1}
	if !l.Consume(cell) || l.Consume(cell) {
		t.Error("Expected exactly one successful consume")
	}
	if l.Remaining() != 295 {
		t.Errorf("Expected 295, got %d", l.Remaining())
	}

	rows := l.Rows()
	rows[2][1] = false
	if !l.Has(maze.Position{X: 1, Y: 2}) {
		t.Error("Rows must return a copy")
	}

	l.Populate(grid)
	if l.Remaining() != 296 {
		t.Errorf("Expected repopulated layer, got %d", l.Remaining())
	}
}
