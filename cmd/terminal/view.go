package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"maze-chase/internal/game"
)

var (
	styleDefault    = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	styleWall       = styleDefault.Foreground(tcell.ColorBlue)
	stylePellet     = styleDefault.Foreground(tcell.ColorPeachPuff)
	stylePower      = styleDefault.Foreground(tcell.ColorPeachPuff).Bold(true)
	stylePlayer     = styleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleFruit      = styleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleVulnerable = styleDefault.Foreground(tcell.ColorBlue).Bold(true)
	styleFlash      = styleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleHUD        = styleDefault.Foreground(tcell.ColorLime)
	styleBanner     = styleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
)

var ghostStyles = map[string]tcell.Style{
	"chaser":        styleDefault.Foreground(tcell.ColorRed).Bold(true),
	"ambusher":      styleDefault.Foreground(tcell.ColorHotPink).Bold(true),
	"team_player":   styleDefault.Foreground(tcell.ColorAqua).Bold(true),
	"unpredictable": styleDefault.Foreground(tcell.ColorOrange).Bold(true),
}

var playerRunes = map[string]rune{
	"right": '<',
	"left":  '>',
	"up":    'v',
	"down":  '^',
}

// Each maze cell is two columns wide so the board keeps its proportions.
const cellWidth = 2

func put(s tcell.Screen, x, y int, r rune, style tcell.Style) {
	s.SetContent(x*cellWidth, y, r, nil, style)
	s.SetContent(x*cellWidth+1, y, ' ', nil, style)
}

func text(s tcell.Screen, x, y int, str string, style tcell.Style) {
	for i, r := range []rune(str) {
		s.SetContent(x+i, y, r, nil, style)
	}
}

func draw(s tcell.Screen, snap *game.GameSnapshot) {
	s.Clear()

	for y, row := range snap.Maze {
		for x, r := range row {
			if r == '#' {
				s.SetContent(x*cellWidth, y, '█', nil, styleWall)
				s.SetContent(x*cellWidth+1, y, '█', nil, styleWall)
			}
		}
	}
	for y, row := range snap.Pellets {
		for x, ok := range row {
			if ok {
				put(s, x, y, '·', stylePellet)
			}
		}
	}
	for _, pp := range snap.PowerPellets {
		if pp.Active {
			put(s, pp.X, pp.Y, '●', stylePower)
		}
	}
	if snap.Fruit.Active {
		put(s, snap.Fruit.X, snap.Fruit.Y, '%', styleFruit)
	}

	p := snap.Player
	if !p.Immune || snap.TickNumber%2 == 0 {
		r := playerRunes[p.Facing]
		if r == 0 || p.AnimFrame == 0 {
			r = 'O'
		}
		put(s, p.X, p.Y, r, stylePlayer)
	}

	for _, g := range snap.Ghosts {
		style := ghostStyles[g.Personality]
		if g.Vulnerable {
			style = styleVulnerable
			if snap.Power.RemainingRatio < 0.25 && snap.TickNumber%4 < 2 {
				style = styleFlash
			}
		}
		put(s, g.X, g.Y, 'M', style)
	}

	hud := snap.Height
	text(s, 0, hud, fmt.Sprintf("SCORE %-7d LIVES %d  LEVEL %d  %s", snap.Score, snap.Lives, snap.Level, snap.Difficulty), styleHUD)
	if snap.Power.Active {
		text(s, 0, hud+1, fmt.Sprintf("POWER %ds", snap.Power.SecondsLeft), stylePower)
	}
	text(s, 0, hud+2, "arrows/wasd move  1-3 difficulty  r restart  q quit", styleDefault)

	switch snap.Phase {
	case game.PhaseLevelTransition.String():
		banner(s, snap, fmt.Sprintf(" LEVEL %d ", snap.Level))
	case game.PhaseGameOver.String():
		msg := " GAME OVER - press r "
		if snap.GameOver != nil && snap.GameOver.NewHighScore {
			msg = fmt.Sprintf(" NEW HIGH SCORE %d (#%d) - press r ", snap.GameOver.FinalScore, snap.GameOver.Rank)
		}
		banner(s, snap, msg)
	}

	s.Show()
}

func banner(s tcell.Screen, snap *game.GameSnapshot, msg string) {
	x := (snap.Width*cellWidth - len([]rune(msg))) / 2
	if x < 0 {
		x = 0
	}
	text(s, x, snap.Height/2, msg, styleBanner)
}
