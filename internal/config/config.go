// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for game timing, server and storage settings.
//
// Precedence: compiled defaults, then the optional YAML tuning file,
// then environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"maze-chase/internal/game"
)

// =============================================================================
// GAME CONFIGURATION
// =============================================================================

// GameConfig holds simulation timing and tuning.
type GameConfig struct {
	TickInterval        time.Duration   `yaml:"tick_interval"`
	PowerDuration       time.Duration   `yaml:"power_duration"`
	ImmunityDuration    time.Duration   `yaml:"immunity_duration"`
	FruitDuration       time.Duration   `yaml:"fruit_duration"`
	FruitNoticeDuration time.Duration   `yaml:"fruit_notice_duration"`
	TransitionDuration  time.Duration   `yaml:"transition_duration"`
	ReleaseInterval     time.Duration   `yaml:"release_interval"`
	RespawnDelay        time.Duration   `yaml:"respawn_delay"`
	FruitChance         float64         `yaml:"fruit_chance"`
	StartingLives       int             `yaml:"starting_lives"`
	Difficulty          game.Difficulty `yaml:"difficulty"`
	Seed                int64           `yaml:"seed"` // 0 = time based
}

// DefaultGame returns the arcade timings.
func DefaultGame() GameConfig {
	d := game.DefaultEngineConfig()
	return GameConfig{
		TickInterval:        d.TickInterval, // ~8 ticks per second
		PowerDuration:       d.PowerDuration,
		ImmunityDuration:    d.ImmunityDuration,
		FruitDuration:       d.FruitDuration,
		FruitNoticeDuration: d.FruitNoticeDuration,
		TransitionDuration:  d.TransitionDuration,
		ReleaseInterval:     d.ReleaseInterval,
		RespawnDelay:        d.RespawnDelay,
		FruitChance:         d.FruitChance, // per Playing tick
		StartingLives:       d.StartingLives,
		Difficulty:          d.Difficulty,
	}
}

// GameFromEnv applies environment variable overrides on top of base.
func GameFromEnv(base GameConfig) GameConfig {
	cfg := base

	if ms := getEnvInt("TICK_MS", 0); ms > 0 {
		cfg.TickInterval = time.Duration(ms) * time.Millisecond
	}
	if lives := getEnvInt("STARTING_LIVES", 0); lives > 0 {
		cfg.StartingLives = lives
	}
	if chance := getEnvFloat("FRUIT_CHANCE", -1); chance >= 0 && chance <= 1 {
		cfg.FruitChance = chance
	}
	if v := os.Getenv("DIFFICULTY"); v != "" {
		if d, err := game.ParseDifficulty(v); err == nil {
			cfg.Difficulty = d
		}
	}
	if v := os.Getenv("RNG_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Seed = seed
		}
	}

	return cfg
}

// EngineConfig converts the settings for game.NewEngine.
func (g GameConfig) EngineConfig() game.EngineConfig {
	return game.EngineConfig{
		TickInterval:        g.TickInterval,
		PowerDuration:       g.PowerDuration,
		ImmunityDuration:    g.ImmunityDuration,
		FruitDuration:       g.FruitDuration,
		FruitNoticeDuration: g.FruitNoticeDuration,
		TransitionDuration:  g.TransitionDuration,
		ReleaseInterval:     g.ReleaseInterval,
		RespawnDelay:        g.RespawnDelay,
		FruitChance:         g.FruitChance,
		StartingLives:       g.StartingLives,
		Difficulty:          g.Difficulty,
		Seed:                g.Seed,
	}
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port              int
	DebugServer       bool
	DebugAddr         string
	CORSOrigins       []string
	BroadcastInterval time.Duration
	FrameCellSize     int // pixels per maze cell in /api/frame.png
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:              3000,
		DebugServer:       true,
		DebugAddr:         "127.0.0.1:6060",
		CORSOrigins:       []string{"http://localhost:*", "http://127.0.0.1:*"},
		BroadcastInterval: 120 * time.Millisecond,
		FrameCellSize:     16,
	}
}

// ServerFromEnv returns server configuration with environment variable overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if os.Getenv("DISABLE_DEBUG_SERVER") == "true" {
		cfg.DebugServer = false
	}
	if addr := os.Getenv("DEBUG_ADDR"); addr != "" {
		cfg.DebugAddr = addr
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = splitList(origins)
	}
	if ms := getEnvInt("BROADCAST_MS", 0); ms > 0 {
		cfg.BroadcastInterval = time.Duration(ms) * time.Millisecond
	}
	if cs := getEnvInt("FRAME_CELL_SIZE", 0); cs > 0 {
		cfg.FrameCellSize = cs
	}

	return cfg
}

// =============================================================================
// STORAGE CONFIGURATION
// =============================================================================

// StorageConfig holds persistence settings.
type StorageConfig struct {
	HighScoreDB  string // SQLite file; empty keeps scores in memory
	EventLogPath string // JSONL audit trail; empty disables it
}

// DefaultStorage returns the default storage configuration.
func DefaultStorage() StorageConfig {
	return StorageConfig{
		HighScoreDB:  "highscores.db",
		EventLogPath: "",
	}
}

// StorageFromEnv returns storage configuration with environment variable overrides.
func StorageFromEnv() StorageConfig {
	cfg := DefaultStorage()

	if v, ok := os.LookupEnv("HIGHSCORE_DB"); ok {
		cfg.HighScoreDB = v
	}
	if v, ok := os.LookupEnv("EVENT_LOG_PATH"); ok {
		cfg.EventLogPath = v
	}

	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Game    GameConfig
	Server  ServerConfig
	Storage StorageConfig
}

// Load returns the complete configuration. TUNING_FILE names an optional
// YAML file whose values sit between the defaults and the environment.
func Load() (AppConfig, error) {
	gameCfg := DefaultGame()
	if path := os.Getenv("TUNING_FILE"); path != "" {
		var err error
		gameCfg, err = LoadTuning(path, gameCfg)
		if err != nil {
			return AppConfig{}, err
		}
	}

	return AppConfig{
		Game:    GameFromEnv(gameCfg),
		Server:  ServerFromEnv(),
		Storage: StorageFromEnv(),
	}, nil
}

// LoadTuning reads a YAML tuning file over base. Keys absent from the file
// keep their base value.
func LoadTuning(path string, base GameConfig) (GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read tuning file: %w", err)
	}
	return ParseTuning(data, base)
}

// ParseTuning decodes YAML tuning over base.
func ParseTuning(data []byte, base GameConfig) (GameConfig, error) {
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, fmt.Errorf("parse tuning file: %w", err)
	}
	if cfg.FruitChance < 0 || cfg.FruitChance > 1 {
		return base, fmt.Errorf("fruit_chance %v outside [0,1]", cfg.FruitChance)
	}
	if cfg.StartingLives <= 0 {
		return base, fmt.Errorf("starting_lives must be positive, got %d", cfg.StartingLives)
	}
	return cfg, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
