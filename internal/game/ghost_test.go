package game

import (
	"math/rand"
	"testing"

	"maze-chase/internal/maze"
)

func newTestGhost(t *testing.T, p Personality, pos maze.Position, dir maze.Direction) (*Ghost, *maze.Grid, *PositionTable) {
	t.Helper()
	grid := maze.Classic()
	table := &PositionTable{}
	g := NewGhost(p, grid, rand.New(rand.NewSource(1)), table)
	g.Release(grid.SafeZoneExit(), table)
	g.pos = pos
	g.dir = dir
	table.Set(p, pos)
	return g, grid, table
}

func TestTargetStrategies(t *testing.T) {
	grid := maze.Classic()
	table := &PositionTable{}
	table.Set(Chaser, maze.Position{X: 4, Y: 4})

	tests := []struct {
		name string
		p    Personality
		ctx  TargetContext
		want maze.Position
	}{
		{
			name: "chaser aims at player",
			p:    Chaser,
			ctx:  TargetContext{Self: maze.Position{X: 1, Y: 1}, Player: maze.Position{X: 10, Y: 10}, PlayerDir: maze.Left},
			want: maze.Position{X: 10, Y: 10},
		},
		{
			name: "ambusher leads four cells",
			p:    Ambusher,
			ctx:  TargetContext{Player: maze.Position{X: 10, Y: 10}, PlayerDir: maze.Right},
			want: maze.Position{X: 14, Y: 10},
		},
		{
			name: "ambusher up-facing offset",
			p:    Ambusher,
			ctx:  TargetContext{Player: maze.Position{X: 10, Y: 10}, PlayerDir: maze.Up},
			want: maze.Position{X: 6, Y: 6},
		},
		{
			name: "team player reflects chaser",
			p:    TeamPlayer,
			ctx:  TargetContext{Self: maze.Position{X: 20, Y: 20}, Player: maze.Position{X: 10, Y: 10}, PlayerDir: maze.Left},
			want: maze.Position{X: 12, Y: 16},
		},
		{
			name: "unpredictable chases from afar",
			p:    Unpredictable,
			ctx:  TargetContext{Self: maze.Position{X: 1, Y: 1}, Player: maze.Position{X: 10, Y: 10}},
			want: maze.Position{X: 10, Y: 10},
		},
		{
			name: "unpredictable retreats when close",
			p:    Unpredictable,
			ctx:  TargetContext{Self: maze.Position{X: 8, Y: 10}, Player: maze.Position{X: 10, Y: 10}},
			want: maze.Position{X: 1, Y: 29},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.ctx.Positions = table
			if got := targeterFor(tt.p, grid).Target(tt.ctx); got != tt.want {
				t.Errorf("Target = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTeamPlayerWithoutPartner(t *testing.T) {
	ctx := TargetContext{
		Self:      maze.Position{X: 20, Y: 20},
		Player:    maze.Position{X: 10, Y: 10},
		PlayerDir: maze.Left,
		Positions: &PositionTable{},
	}
	// Pivot (8,10) reflected through self (20,20).
	want := maze.Position{X: -4, Y: 0}
	if got := (pincerTarget{lead: 2, partner: Chaser}).Target(ctx); got != want {
		t.Errorf("Target = %s, want %s", got, want)
	}
}

func TestGhostBlockedFallback(t *testing.T) {
	g, grid, table := newTestGhost(t, Ambusher, maze.Position{X: 1, Y: 1}, maze.Left)

	if !g.Move(grid, table, maze.Position{X: 20, Y: 20}, maze.None) {
		t.Fatal("Expected the ghost to take an alternative")
	}
	// Left is a wall, up is a wall, right is the reverse: down remains.
	if g.Position() != (maze.Position{X: 1, Y: 2}) || g.Direction() != maze.Down {
		t.Errorf("Expected (1,2) heading down, got %s %s", g.Position(), g.Direction())
	}
	if pos, _ := table.Lookup(Ambusher); pos != g.Position() {
		t.Error("Position table not updated")
	}
}

func TestGhostRespectsOccupancy(t *testing.T) {
	g, grid, table := newTestGhost(t, Ambusher, maze.Position{X: 1, Y: 1}, maze.Left)
	table.Set(Chaser, maze.Position{X: 1, Y: 2})

	if g.Move(grid, table, maze.Position{X: 20, Y: 20}, maze.None) {
		t.Fatal("Ghost should stay put when every exit is blocked")
	}
	if g.Position() != (maze.Position{X: 1, Y: 1}) {
		t.Errorf("Ghost moved to %s", g.Position())
	}
}

func TestGhostNeverReentersSafeZone(t *testing.T) {
	g, grid, table := newTestGhost(t, Chaser, maze.Position{X: 14, Y: 11}, maze.Down)

	g.Move(grid, table, maze.Position{X: 14, Y: 20}, maze.None)
	if grid.IsInsideSafeZone(g.Position().X, g.Position().Y) {
		t.Errorf("Released ghost entered the safe zone at %s", g.Position())
	}
}

func TestVulnerableGhostFlees(t *testing.T) {
	g, grid, table := newTestGhost(t, Chaser, maze.Position{X: 10, Y: 5}, maze.Right)
	g.vulnerable = true
	g.counter = g.profile.cadence - 1

	g.Move(grid, table, maze.Position{X: 15, Y: 5}, maze.Left)
	if g.Direction() != maze.Left || g.Position() != (maze.Position{X: 9, Y: 5}) {
		t.Errorf("Expected flight to (9,5), got %s %s", g.Position(), g.Direction())
	}
	if g.State() != Fleeing {
		t.Errorf("Expected fleeing state, got %s", g.State())
	}
}

func TestHardChaserRush(t *testing.T) {
	g, grid, table := newTestGhost(t, Chaser, maze.Position{X: 10, Y: 5}, maze.Right)
	g.SetDifficulty(Hard)
	g.counter = g.profile.cadence - 1

	g.Move(grid, table, maze.Position{X: 20, Y: 5}, maze.Left)
	if g.counter != -2 {
		t.Errorf("Expected counter -2 after a hard chaser decision, got %d", g.counter)
	}
	if g.Position() != (maze.Position{X: 11, Y: 5}) {
		t.Errorf("Expected chase to (11,5), got %s", g.Position())
	}
}

func TestSetDifficultyOffsetsCounter(t *testing.T) {
	tests := []struct {
		d    Difficulty
		want int
	}{
		{Easy, 0},
		{Medium, 13},
		{Hard, 10},
	}
	for _, tt := range tests {
		t.Run(tt.d.String(), func(t *testing.T) {
			g, _, _ := newTestGhost(t, Chaser, maze.Position{X: 10, Y: 5}, maze.Right)
			g.SetDifficulty(tt.d)
			if g.counter != tt.want {
				t.Errorf("Expected counter %d, got %d", tt.want, g.counter)
			}
		})
	}
}

func TestConfinedGhostDoesNotMove(t *testing.T) {
	grid := maze.Classic()
	table := &PositionTable{}
	g := NewGhost(TeamPlayer, grid, rand.New(rand.NewSource(3)), table)

	for i := 0; i < 50; i++ {
		if g.Move(grid, table, grid.PlayerStart(), maze.None) {
			t.Fatal("Confined ghost moved")
		}
	}
	if g.Position() != grid.GhostSpawn(int(TeamPlayer)) {
		t.Errorf("Confined ghost left spawn: %s", g.Position())
	}
}

// crossLayout is a single four-way junction at (3,3) with a one-cell pen at
// (1,1) and a dead end at (3,1).
var crossLayout = maze.Layout{
	Rows: []string{
		"#######",
		"#.#.###",
		"###.###",
		"#.....#",
		"###.###",
		"###.###",
		"#######",
	},
	SafeZone:     maze.Rect{MinX: 1, MinY: 1, MaxX: 1, MaxY: 1},
	SafeZoneExit: maze.Position{X: 3, Y: 1},
	PlayerStart:  maze.Position{X: 5, Y: 3},
	GhostSpawns:  [4]maze.Position{{X: 1, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 1}},
	FleeCorner:   maze.Position{X: 1, Y: 3},
}

func newCrossGhost(t *testing.T, d Difficulty, pos maze.Position, dir maze.Direction, seed int64) (*Ghost, *maze.Grid, *PositionTable) {
	t.Helper()
	grid, err := maze.NewGrid(crossLayout)
	if err != nil {
		t.Fatalf("Failed to build cross layout: %v", err)
	}
	table := &PositionTable{}
	g := NewGhost(Chaser, grid, rand.New(rand.NewSource(seed)), table)
	g.Release(grid.SafeZoneExit(), table)
	g.SetDifficulty(d)
	g.counter = 0
	g.pos = pos
	g.dir = dir
	table.Set(Chaser, pos)
	return g, grid, table
}

func TestGhostDecidesAfterMoveOnHard(t *testing.T) {
	player := maze.Position{X: 5, Y: 3}

	tests := []struct {
		name    string
		d       Difficulty
		from    maze.Position
		wantPos maze.Position
		wantDir maze.Direction
	}{
		{"hard turns at junction", Hard, maze.Position{X: 3, Y: 4}, maze.Position{X: 3, Y: 3}, maze.Right},
		{"hard keeps heading in corridor", Hard, maze.Position{X: 3, Y: 5}, maze.Position{X: 3, Y: 4}, maze.Up},
		{"medium waits for its check", Medium, maze.Position{X: 3, Y: 4}, maze.Position{X: 3, Y: 3}, maze.Up},
		{"easy never checks", Easy, maze.Position{X: 3, Y: 4}, maze.Position{X: 3, Y: 3}, maze.Up},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, grid, table := newCrossGhost(t, tt.d, tt.from, maze.Up, 7)

			if !g.Move(grid, table, player, maze.None) {
				t.Fatal("Expected the ghost to move")
			}
			if g.Position() != tt.wantPos || g.Direction() != tt.wantDir {
				t.Errorf("Expected %s heading %s, got %s heading %s", tt.wantPos, tt.wantDir, g.Position(), g.Direction())
			}
		})
	}
}

func TestGhostIntersectionCheckCadence(t *testing.T) {
	player := maze.Position{X: 5, Y: 3}

	tests := []struct {
		name    string
		d       Difficulty
		counter int
		wantPos maze.Position
		wantDir maze.Direction
	}{
		{"medium checks on fifth tick", Medium, 4, maze.Position{X: 4, Y: 3}, maze.Right},
		{"medium checks on tenth tick", Medium, 9, maze.Position{X: 4, Y: 3}, maze.Right},
		{"medium skips other ticks", Medium, 5, maze.Position{X: 3, Y: 2}, maze.Up},
		{"easy never checks", Easy, 4, maze.Position{X: 3, Y: 2}, maze.Up},
		{"easy never checks on tenth tick", Easy, 9, maze.Position{X: 3, Y: 2}, maze.Up},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, grid, table := newCrossGhost(t, tt.d, maze.Position{X: 3, Y: 3}, maze.Up, 7)
			g.counter = tt.counter

			if !g.Move(grid, table, player, maze.None) {
				t.Fatal("Expected the ghost to move")
			}
			if g.Position() != tt.wantPos || g.Direction() != tt.wantDir {
				t.Errorf("Expected %s heading %s, got %s heading %s", tt.wantPos, tt.wantDir, g.Position(), g.Direction())
			}
		})
	}
}

func TestGhostReversal(t *testing.T) {
	t.Run("random pick may reverse", func(t *testing.T) {
		g, _, _ := newCrossGhost(t, Easy, maze.Position{X: 3, Y: 3}, maze.Up, 11)
		reversed := 0
		for i := 0; i < 400; i++ {
			g.dir = maze.Up
			g.RandomizeDirection()
			if g.dir == maze.Down {
				reversed++
			}
		}
		if reversed == 0 {
			t.Error("Expected some random picks to reverse")
		}
	})

	t.Run("target behind is followed", func(t *testing.T) {
		g, _, table := newCrossGhost(t, Hard, maze.Position{X: 3, Y: 2}, maze.Up, 11)
		g.decide(table, maze.Position{X: 3, Y: 5}, maze.None)
		if g.Direction() != maze.Down {
			t.Errorf("Expected the target to pull the ghost down, got %s", g.Direction())
		}
	})

	fallback := []struct {
		name     string
		pos      maze.Position
		dir      maze.Direction
		occupied maze.Position
		moved    bool
		wantPos  maze.Position
		wantDir  maze.Direction
	}{
		// Down is the only exit from the dead end, and it is the reverse.
		{"dead end holds", maze.Position{X: 3, Y: 1}, maze.Up, maze.Position{}, false, maze.Position{X: 3, Y: 1}, maze.Up},
		{"blocked junction scans forward", maze.Position{X: 3, Y: 3}, maze.Right, maze.Position{X: 4, Y: 3}, true, maze.Position{X: 3, Y: 2}, maze.Up},
		{"blocked junction skips reverse", maze.Position{X: 3, Y: 3}, maze.Down, maze.Position{X: 3, Y: 4}, true, maze.Position{X: 4, Y: 3}, maze.Right},
	}
	for _, tt := range fallback {
		t.Run(tt.name, func(t *testing.T) {
			g, grid, table := newCrossGhost(t, Easy, tt.pos, tt.dir, 11)
			if tt.occupied != (maze.Position{}) {
				table.Set(Ambusher, tt.occupied)
			}

			if got := g.Move(grid, table, maze.Position{X: 5, Y: 3}, maze.None); got != tt.moved {
				t.Fatalf("Move = %v, want %v", got, tt.moved)
			}
			if g.Position() != tt.wantPos || g.Direction() != tt.wantDir {
				t.Errorf("Expected %s heading %s, got %s heading %s", tt.wantPos, tt.wantDir, g.Position(), g.Direction())
			}
			if g.Direction() == tt.dir.Reverse() {
				t.Errorf("Fallback reversed from %s", tt.dir)
			}
		})
	}
}

type countingTarget struct {
	calls int
}

func (c *countingTarget) Target(ctx TargetContext) maze.Position {
	c.calls++
	return ctx.Player
}

func TestGhostIntelligenceMix(t *testing.T) {
	const rounds = 2000

	tests := []struct {
		d    Difficulty
		want float64
	}{
		{Easy, 0.2},
		{Medium, 0.65},
		{Hard, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.d.String(), func(t *testing.T) {
			g, _, table := newCrossGhost(t, tt.d, maze.Position{X: 3, Y: 3}, maze.Up, 99)
			ct := &countingTarget{}
			g.targeter = ct

			for i := 0; i < rounds; i++ {
				g.recompute(table, maze.Position{X: 5, Y: 3}, maze.None)
			}
			ratio := float64(ct.calls) / rounds
			if ratio < tt.want-0.05 || ratio > tt.want+0.05 {
				t.Errorf("Targeted ratio %.3f, want about %.2f", ratio, tt.want)
			}
		})
	}
}
