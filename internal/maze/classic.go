package maze

// classicRows is the 28x31 arcade board. Row 14 is the wrap-around tunnel.
var classicRows = []string{
	"############################",
	"#............##............#",
	"#.####.#####.##.#####.####.#",
	"#.####.#####.##.#####.####.#",
	"#.####.#####.##.#####.####.#",
	"#..........................#",
	"#.####.##.########.##.####.#",
	"#.####.##.########.##.####.#",
	"#......##....##....##......#",
	"######.#####.##.#####.######",
	"######.#####.##.#####.######",
	"######.##..........##.######",
	"######.##.###..###.##.######",
	"######.##.#......#.##.######",
	"..........#......#..........",
	"######.##.#......#.##.######",
	"######.##.########.##.######",
	"######.##..........##.######",
	"######.##.########.##.######",
	"######.##.########.##.######",
	"#............##............#",
	"#.####.#####.##.#####.####.#",
	"#.####.#####.##.#####.####.#",
	"#...##................##...#",
	"###.##.##.########.##.##.###",
	"###.##.##.########.##.##.###",
	"#......##....##....##......#",
	"#.##########.##.##########.#",
	"#.##########.##.##########.#",
	"#..........................#",
	"############################",
}

// ClassicLayout returns the standard board configuration.
func ClassicLayout() Layout {
	rows := make([]string, len(classicRows))
	copy(rows, classicRows)
	return Layout{
		Rows:         rows,
		TunnelRow:    14,
		SafeZone:     Rect{MinX: 11, MinY: 12, MaxX: 17, MaxY: 16},
		SafeZoneExit: Position{X: 14, Y: 11},
		PowerPellets: []Position{{X: 1, Y: 3}, {X: 26, Y: 3}, {X: 1, Y: 23}, {X: 26, Y: 23}},
		PlayerStart:  Position{X: 14, Y: 23},
		GhostSpawns: [4]Position{
			{X: 11, Y: 13},
			{X: 16, Y: 13},
			{X: 11, Y: 15},
			{X: 16, Y: 15},
		},
		FleeCorner: Position{X: 1, Y: 29},
	}
}

// Classic builds the standard board.
func Classic() *Grid {
	g, err := NewGrid(ClassicLayout())
	if err != nil {
		panic("maze: classic layout: " + err.Error())
	}
	return g
}
