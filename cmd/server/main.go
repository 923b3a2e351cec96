package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"maze-chase/internal/api"
	"maze-chase/internal/config"
	"maze-chase/internal/game"
	"maze-chase/internal/highscore"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("💡 No .env file found, using environment variables only")
	} else {
		log.Println("✅ Loaded environment from .env")
	}

	log.Println("🎮 ================================")
	log.Println("🎮  MAZE CHASE - GO ENGINE")
	log.Println("🎮 ================================")

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	gameCfg := appConfig.Game
	serverCfg := appConfig.Server
	storageCfg := appConfig.Storage

	// High scores
	var store highscore.Store
	if storageCfg.HighScoreDB != "" {
		sqliteStore, err := highscore.OpenSQLite(storageCfg.HighScoreDB)
		if err != nil {
			log.Fatalf("❌ Failed to open high score database: %v", err)
		}
		defer sqliteStore.Close()
		store = sqliteStore
		log.Printf("🏆 High scores: %s", storageCfg.HighScoreDB)
	} else {
		store = highscore.NewMemoryStore()
		log.Println("🏆 High scores kept in memory")
	}
	board := highscore.NewBoard(store)

	// Engine
	engineCfg := gameCfg.EngineConfig()
	engineCfg.Scores = board
	engine := game.NewEngine(engineCfg)
	log.Printf("🎮 Config: tick %v, %d lives, difficulty %s, fruit chance %.3f",
		gameCfg.TickInterval, gameCfg.StartingLives, gameCfg.Difficulty, gameCfg.FruitChance)

	wireMetrics(engine)

	if storageCfg.EventLogPath != "" {
		if err := engine.StartEventLog(storageCfg.EventLogPath); err != nil {
			log.Printf("⚠️ Event log disabled: %v", err)
		}
	}

	debugCfg := api.DefaultObservabilityConfig()
	debugCfg.Enabled = serverCfg.DebugServer
	debugCfg.ListenAddr = serverCfg.DebugAddr
	if err := api.StartDebugServer(debugCfg); err != nil {
		log.Printf("⚠️ Debug server disabled: %v", err)
	}

	server := api.NewServer(engine, api.ServerOptions{
		Scores:            board,
		CORSOrigins:       serverCfg.CORSOrigins,
		BroadcastInterval: serverCfg.BroadcastInterval,
		FrameCellSize:     serverCfg.FrameCellSize,
	})

	engine.Start()
	log.Println("✅ Game Engine started")

	go func() {
		addr := ":" + strconv.Itoa(serverCfg.Port)
		log.Printf("🌐 API server on http://localhost%s", addr)
		if err := server.Start(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("✅ Server ready! Press Ctrl+C to stop.")
	<-quit

	log.Println("🛑 Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("⚠️ HTTP shutdown: %v", err)
	}
	engine.Stop()
	engine.StopEventLog()
	log.Println("👋 Goodbye!")
}

// wireMetrics feeds engine callbacks into the Prometheus collectors.
func wireMetrics(engine *game.Engine) {
	var ticks uint64
	engine.OnTick = func(d time.Duration, snap *game.GameSnapshot) {
		api.RecordTick(d)
		api.ObserveSnapshot(snap)

		ticks++
		if ticks%50 != 0 {
			return
		}
		if stats := engine.GetEventLogStats(); stats != nil {
			total, _ := stats["total"].(uint64)
			dropped, _ := stats["dropped"].(uint64)
			api.UpdateEventLogStats(total, dropped)
		}
	}
	engine.OnGhostEaten = func(p game.Personality) {
		api.RecordGhostEaten(p)
	}
	engine.OnPlayerDeath = func(livesLeft int) {
		api.RecordPlayerDeath()
	}
	engine.OnLevelCleared = func(level int) {
		api.RecordLevelCleared()
	}
	engine.OnGameOver = func(score int, newHighScore bool) {
		api.RecordGameOver(newHighScore)
	}
}
