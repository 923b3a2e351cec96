// Package render draws game snapshots as raster images.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/fogleman/gg"

	"maze-chase/internal/game"
)

// hudRows is the number of cell-high rows reserved under the maze.
const hudRows = 2

var (
	colorBackground = color.RGBA{0, 0, 0, 255}
	colorWall       = color.RGBA{33, 33, 222, 255}
	colorPellet     = color.RGBA{255, 184, 151, 255}
	colorPlayer     = color.RGBA{255, 255, 0, 255}
	colorFruit      = color.RGBA{222, 0, 0, 255}
	colorVulnerable = color.RGBA{33, 33, 255, 255}
	colorPowerBar   = color.RGBA{255, 255, 255, 200}
	colorOverlay    = color.RGBA{0, 0, 0, 160}
)

// ghostColors by personality name
var ghostColors = map[string]color.RGBA{
	"chaser":        {255, 0, 0, 255},
	"ambusher":      {255, 184, 255, 255},
	"team_player":   {0, 255, 255, 255},
	"unpredictable": {255, 184, 82, 255},
}

// Size returns the pixel size of a frame for snap at cellSize.
func Size(snap *game.GameSnapshot, cellSize int) (int, int) {
	return snap.Width * cellSize, (snap.Height + hudRows) * cellSize
}

// Frame renders snap with each maze cell cellSize pixels wide.
func Frame(snap *game.GameSnapshot, cellSize int) image.Image {
	if cellSize < 4 {
		cellSize = 4
	}
	w, h := Size(snap, cellSize)
	dc := gg.NewContext(w, h)
	cs := float64(cellSize)

	dc.SetColor(colorBackground)
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	dc.Fill()

	drawWalls(dc, snap, cs)
	drawPellets(dc, snap, cs)
	drawFruit(dc, snap, cs)
	drawPlayer(dc, snap, cs)
	drawGhosts(dc, snap, cs)
	drawHUD(dc, snap, cs)

	switch snap.Phase {
	case game.PhaseLevelTransition.String():
		drawBanner(dc, snap, cs, fmt.Sprintf("LEVEL %d", snap.Level))
	case game.PhaseGameOver.String():
		msg := "GAME OVER"
		if snap.GameOver != nil && snap.GameOver.NewHighScore {
			msg = fmt.Sprintf("NEW HIGH SCORE #%d", snap.GameOver.Rank)
		}
		drawBanner(dc, snap, cs, msg)
	}
	return dc.Image()
}

// drawBanner dims the maze and centers msg over it
func drawBanner(dc *gg.Context, snap *game.GameSnapshot, cs float64, msg string) {
	w, h := float64(snap.Width)*cs, float64(snap.Height)*cs
	dc.SetColor(colorOverlay)
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()

	if face := hudFace(cs * 1.5); face != nil {
		dc.SetFontFace(face)
		dc.SetColor(colorPlayer)
		dc.DrawStringAnchored(msg, w/2, h/2, 0.5, 0.5)
	}
}

// WritePNG encodes Frame(snap, cellSize) to w.
func WritePNG(w io.Writer, snap *game.GameSnapshot, cellSize int) error {
	return png.Encode(w, Frame(snap, cellSize))
}

func center(x, y int, cs float64) (float64, float64) {
	return float64(x)*cs + cs/2, float64(y)*cs + cs/2
}

func drawWalls(dc *gg.Context, snap *game.GameSnapshot, cs float64) {
	dc.SetColor(colorWall)
	for y, row := range snap.Maze {
		for x, r := range row {
			if r != '#' {
				continue
			}
			dc.DrawRectangle(float64(x)*cs+1, float64(y)*cs+1, cs-2, cs-2)
		}
	}
	dc.Fill()
}

func drawPellets(dc *gg.Context, snap *game.GameSnapshot, cs float64) {
	dc.SetColor(colorPellet)
	for y, row := range snap.Pellets {
		for x, ok := range row {
			if ok {
				cx, cy := center(x, y, cs)
				dc.DrawCircle(cx, cy, cs/8)
			}
		}
	}
	dc.Fill()

	for _, pp := range snap.PowerPellets {
		if !pp.Active {
			continue
		}
		cx, cy := center(pp.X, pp.Y, cs)
		dc.DrawCircle(cx, cy, cs/3)
	}
	dc.Fill()
}

func drawFruit(dc *gg.Context, snap *game.GameSnapshot, cs float64) {
	if !snap.Fruit.Active {
		return
	}
	cx, cy := center(snap.Fruit.X, snap.Fruit.Y, cs)
	dc.SetColor(colorFruit)
	dc.DrawCircle(cx, cy, cs/3)
	dc.Fill()
}

// drawPlayer draws a wedge whose mouth opens with the animation frame
func drawPlayer(dc *gg.Context, snap *game.GameSnapshot, cs float64) {
	p := snap.Player
	cx, cy := center(p.X, p.Y, cs)
	r := cs/2 - 1

	heading := 0.0
	switch p.Facing {
	case "down":
		heading = math.Pi / 2
	case "left":
		heading = math.Pi
	case "up":
		heading = -math.Pi / 2
	}
	mouth := float64(p.AnimFrame) * math.Pi / 8

	if p.Immune && snap.TickNumber%2 == 1 {
		return
	}
	dc.SetColor(colorPlayer)
	if mouth == 0 {
		dc.DrawCircle(cx, cy, r)
	} else {
		dc.MoveTo(cx, cy)
		dc.DrawArc(cx, cy, r, heading+mouth, heading+2*math.Pi-mouth)
		dc.ClosePath()
	}
	dc.Fill()
}

func drawGhosts(dc *gg.Context, snap *game.GameSnapshot, cs float64) {
	for _, g := range snap.Ghosts {
		cx, cy := center(g.X, g.Y, cs)
		r := cs/2 - 1

		c := ghostColors[g.Personality]
		if g.Vulnerable {
			c = colorVulnerable
			// flash white near the end of the window
			if snap.Power.RemainingRatio < 0.25 && snap.TickNumber%4 < 2 {
				c = color.RGBA{255, 255, 255, 255}
			}
		}

		dc.SetColor(c)
		dc.DrawArc(cx, cy, r, math.Pi, 2*math.Pi)
		dc.LineTo(cx+r, cy+r)
		dc.LineTo(cx-r, cy+r)
		dc.ClosePath()
		dc.Fill()

		// eyes look where the ghost is heading
		dc.SetColor(color.White)
		ex, ey := float64(g.DX)*r/4, float64(g.DY)*r/4
		dc.DrawCircle(cx-r/3+ex, cy-r/4+ey, r/5)
		dc.DrawCircle(cx+r/3+ex, cy-r/4+ey, r/5)
		dc.Fill()
	}
}

// drawHUD draws lives as dots, the score and level as text, and the
// power window as a bar
func drawHUD(dc *gg.Context, snap *game.GameSnapshot, cs float64) {
	top := float64(snap.Height) * cs

	dc.SetColor(colorPlayer)
	for i := 0; i < snap.Lives; i++ {
		dc.DrawCircle(cs*float64(i+1), top+cs, cs/3)
	}
	dc.Fill()

	if face := hudFace(cs * 0.8); face != nil {
		dc.SetFontFace(face)
		dc.SetColor(color.White)
		dc.DrawStringAnchored(fmt.Sprintf("SCORE %d  LEVEL %d", snap.Score, snap.Level),
			float64(snap.Width)*cs/2, top+cs, 0.5, 0.5)
	}

	if snap.Power.Active {
		width := float64(snap.Width) * cs / 5
		dc.SetColor(colorPowerBar)
		dc.DrawRectangle(float64(snap.Width)*cs-width-cs/2, top+cs*0.75, width*snap.Power.RemainingRatio, cs/2)
		dc.Fill()
	}
}
