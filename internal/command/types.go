// Package command turns text sent by remote clients into engine input.
package command

import (
	"strings"
	"time"

	"maze-chase/internal/maze"
)

// CommandType for routing
type CommandType int

const (
	CmdDirection CommandType = iota
	CmdRestart
	CmdUnknown
)

func (t CommandType) String() string {
	switch t {
	case CmdDirection:
		return "direction"
	case CmdRestart:
		return "restart"
	default:
		return "unknown"
	}
}

// Command is a parsed client instruction.
type Command struct {
	Type       CommandType
	Direction  maze.Direction // set for CmdDirection
	ClientID   string
	ReceivedAt time.Time
}

// directionAliases maps direction words and keys to a direction
var directionAliases = map[string]maze.Direction{
	"up":     maze.Up,
	"u":      maze.Up,
	"w":      maze.Up,
	"arriba": maze.Up,

	"down":  maze.Down,
	"s":     maze.Down,
	"abajo": maze.Down,

	"left":      maze.Left,
	"a":         maze.Left,
	"izquierda": maze.Left,

	"right":   maze.Right,
	"d":       maze.Right,
	"derecha": maze.Right,
}

// restartAliases lists words that request a new game
var restartAliases = map[string]bool{
	"restart":   true,
	"r":         true,
	"reiniciar": true,
}

// Parse reads one command. Leading "!" or "/" prefixes are accepted.
func Parse(text string) (Command, bool) {
	word := strings.ToLower(strings.TrimSpace(text))
	word = strings.TrimLeft(word, "!/")
	if d, ok := directionAliases[word]; ok {
		return Command{Type: CmdDirection, Direction: d}, true
	}
	if restartAliases[word] {
		return Command{Type: CmdRestart}, true
	}
	return Command{Type: CmdUnknown}, false
}
