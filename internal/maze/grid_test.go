package maze

import (
	"errors"
	"testing"
)

func TestClassicDimensions(t *testing.T) {
	g := Classic()
	if g.Width() != 28 || g.Height() != 31 {
		t.Fatalf("Expected 28x31 grid, got %dx%d", g.Width(), g.Height())
	}

	paths := 0
	outside := 0
	g.PathCells(func(p Position) {
		paths++
		if !g.IsInsideSafeZone(p.X, p.Y) {
			outside++
		}
	})
	if paths != 320 {
		t.Errorf("Expected 320 path cells, got %d", paths)
	}
	if outside != 300 {
		t.Errorf("Expected 300 path cells outside the safe zone, got %d", outside)
	}
}

func TestIsWall(t *testing.T) {
	g := Classic()
	tests := []struct {
		name string
		x, y int
		want bool
	}{
		{"corner", 0, 0, true},
		{"first corridor", 1, 1, false},
		{"tunnel left edge", 0, 14, false},
		{"tunnel right edge", 27, 14, false},
		{"pen wall", 10, 14, true},
		{"out of bounds left", -1, 5, true},
		{"out of bounds below", 5, 31, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.IsWall(tt.x, tt.y); got != tt.want {
				t.Errorf("IsWall(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestSafeZone(t *testing.T) {
	g := Classic()
	for _, p := range []Position{{11, 12}, {17, 16}, {14, 14}} {
		if !g.IsInsideSafeZone(p.X, p.Y) {
			t.Errorf("Expected %s inside safe zone", p)
		}
	}
	for _, p := range []Position{{10, 12}, {18, 14}, {14, 11}, {14, 17}} {
		if g.IsInsideSafeZone(p.X, p.Y) {
			t.Errorf("Expected %s outside safe zone", p)
		}
	}
	if exit := g.SafeZoneExit(); exit != (Position{14, 11}) {
		t.Errorf("Expected exit (14,11), got %s", exit)
	}
}

func TestStepTunnelWrap(t *testing.T) {
	g := Classic()
	tests := []struct {
		name string
		from Position
		dir  Direction
		want Position
	}{
		{"wrap left", Position{0, 14}, Left, Position{27, 14}},
		{"wrap right", Position{27, 14}, Right, Position{0, 14}},
		{"plain step", Position{1, 1}, Right, Position{2, 1}},
		{"no wrap off tunnel row", Position{0, 5}, Left, Position{-1, 5}},
		{"vertical on tunnel row", Position{5, 14}, Up, Position{5, 13}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.Step(tt.from, tt.dir); got != tt.want {
				t.Errorf("Step(%s, %s) = %s, want %s", tt.from, tt.dir, got, tt.want)
			}
		})
	}
}

func TestPowerPelletPositionsIsCopy(t *testing.T) {
	g := Classic()
	pp := g.PowerPelletPositions()
	if len(pp) != 4 {
		t.Fatalf("Expected 4 power pellets, got %d", len(pp))
	}
	pp[0] = Position{0, 0}
	if g.PowerPelletPositions()[0] != (Position{1, 3}) {
		t.Error("Mutating the returned slice changed the grid")
	}
}

func TestNewGridRejectsBadLayouts(t *testing.T) {
	base := ClassicLayout()

	ragged := ClassicLayout()
	ragged.Rows[3] = ragged.Rows[3][:10]

	walledStart := ClassicLayout()
	walledStart.PlayerStart = Position{0, 0}

	badRune := ClassicLayout()
	badRune.Rows[1] = "#x" + badRune.Rows[1][2:]

	startInPen := ClassicLayout()
	startInPen.PlayerStart = Position{14, 14}

	tests := []struct {
		name   string
		layout Layout
	}{
		{"ragged row", ragged},
		{"player start in wall", walledStart},
		{"unknown cell", badRune},
		{"player start in pen", startInPen},
		{"empty", Layout{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGrid(tt.layout)
			if !errors.Is(err, ErrInvalidLayout) {
				t.Errorf("Expected ErrInvalidLayout, got %v", err)
			}
		})
	}

	if _, err := NewGrid(base); err != nil {
		t.Fatalf("Classic layout rejected: %v", err)
	}
}

func TestToward(t *testing.T) {
	tests := []struct {
		name     string
		from, to Position
		want     Direction
	}{
		{"horizontal dominant", Position{0, 0}, Position{5, 2}, Right},
		{"vertical dominant", Position{0, 0}, Position{1, -4}, Up},
		{"tie goes vertical", Position{3, 3}, Position{0, 0}, Up},
		{"same cell", Position{3, 3}, Position{3, 3}, None},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Toward(tt.from, tt.to); got != tt.want {
				t.Errorf("Toward = %s, want %s", got, tt.want)
			}
		})
	}

	if got := Away(Position{0, 0}, Position{5, 2}); got != Left {
		t.Errorf("Away = %s, want left", got)
	}
}

func TestParseDirection(t *testing.T) {
	for _, name := range []string{"up", "DOWN", " left ", "right"} {
		if _, err := ParseDirection(name); err != nil {
			t.Errorf("ParseDirection(%q) failed: %v", name, err)
		}
	}
	if _, err := ParseDirection("sideways"); err == nil {
		t.Error("Expected error for unknown direction")
	}
}
