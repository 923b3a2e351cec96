// Command terminal plays the game locally in a text terminal.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"

	"maze-chase/internal/config"
	"maze-chase/internal/game"
	"maze-chase/internal/highscore"
	"maze-chase/internal/maze"
)

const frameInterval = 50 * time.Millisecond

func main() {
	_ = godotenv.Load(".env")

	// The screen owns stdout; send logs to a file or drop them.
	if path := os.Getenv("TERMINAL_LOG"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			defer f.Close()
			log.SetOutput(f)
		}
	} else {
		log.SetOutput(io.Discard)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "maze-chase: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	appConfig, err := config.Load()
	if err != nil {
		return err
	}

	var store highscore.Store = highscore.NewMemoryStore()
	if path := appConfig.Storage.HighScoreDB; path != "" {
		sqliteStore, err := highscore.OpenSQLite(path)
		if err != nil {
			return err
		}
		defer sqliteStore.Close()
		store = sqliteStore
	}

	engineCfg := appConfig.Game.EngineConfig()
	engineCfg.Scores = highscore.NewBoard(store)
	engine := game.NewEngine(engineCfg)

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.SetStyle(styleDefault)
	screen.HideCursor()

	engine.Start()
	defer engine.Stop()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventKey:
				if quit := handleKey(engine, ev); quit {
					return nil
				}
			}
		case <-ticker.C:
			if snap := engine.GetSnapshot(); snap != nil {
				draw(screen, snap)
			}
		}
	}
}

// handleKey applies a key press and reports whether to quit
func handleKey(engine *game.Engine, ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		engine.SetDirection(maze.Up)
	case tcell.KeyDown:
		engine.SetDirection(maze.Down)
	case tcell.KeyLeft:
		engine.SetDirection(maze.Left)
	case tcell.KeyRight:
		engine.SetDirection(maze.Right)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return true
		case 'w', 'W':
			engine.SetDirection(maze.Up)
		case 's', 'S':
			engine.SetDirection(maze.Down)
		case 'a', 'A':
			engine.SetDirection(maze.Left)
		case 'd', 'D':
			engine.SetDirection(maze.Right)
		case 'r', 'R':
			engine.Restart()
		case '1':
			engine.SetDifficulty(game.Easy)
		case '2':
			engine.SetDifficulty(game.Medium)
		case '3':
			engine.SetDifficulty(game.Hard)
		}
	}
	return false
}
