package game

import "maze-chase/internal/maze"

// canEnter reports whether a mover may occupy cell. Walls and cells outside
// the grid are never enterable; the safe zone is closed when barSafeZone is set.
func canEnter(grid *maze.Grid, cell maze.Position, barSafeZone bool) bool {
	if !grid.InBounds(cell) || grid.IsWall(cell.X, cell.Y) {
		return false
	}
	if barSafeZone && grid.IsInsideSafeZone(cell.X, cell.Y) {
		return false
	}
	return true
}
