package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"maze-chase/internal/game"
	"maze-chase/internal/maze"
)

// EngineInterface is the slice of *game.Engine the HTTP layer needs.
// Tests satisfy it with a mock so no tick loop runs.
type EngineInterface interface {
	// GetSnapshot returns the latest immutable snapshot (nil before the first)
	GetSnapshot() *game.GameSnapshot
	// SetDirection buffers the player's desired direction
	SetDirection(d maze.Direction)
	// Restart starts a new session; only honored after game over
	Restart() bool
	// SetDifficulty retunes every adversary
	SetDifficulty(d game.Difficulty)
	// Difficulty returns the current difficulty
	Difficulty() game.Difficulty
}

// ScoresInterface is the read side of the high-score board.
type ScoresInterface interface {
	TopScores() []int
	Rank(score int) int
}

// DefaultCORSOrigins allows local development front ends.
var DefaultCORSOrigins = []string{
	"http://localhost:*",
	"http://127.0.0.1:*",
}

// RouterConfig lists what NewRouter wires into the routes.
//
//	router := api.NewRouter(api.RouterConfig{Engine: engine, Scores: board})
//	ts := httptest.NewServer(router)
type RouterConfig struct {
	Engine EngineInterface // required

	// Scores serves /api/highscores. If nil the endpoint answers 503.
	Scores ScoresInterface

	// RateLimiter is shared with the caller so it can be stopped. When nil,
	// one is built from RateLimitConfig (or DefaultRateLimitConfig).
	RateLimiter     *IPRateLimiter
	RateLimitConfig *RateLimitConfig

	// CORSOrigins defaults to DefaultCORSOrigins when nil.
	CORSOrigins []string

	// FrameCellSize is the pixel size of one maze cell in /api/frame.png.
	FrameCellSize int

	DisableLogging bool // drop the request logger
}

type routerHandlers struct {
	engine   EngineInterface
	scores   ScoresInterface
	cellSize int
}

// NewRouter builds the chi router with middleware and the /api routes.
// It opens no listeners; the only goroutine it may start is the cleanup
// loop of a rate limiter it had to create itself.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)

	// rate limit before CORS so floods are rejected first
	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = DefaultCORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	cellSize := cfg.FrameCellSize
	if cellSize <= 0 {
		cellSize = 16
	}
	h := &routerHandlers{
		engine:   cfg.Engine,
		scores:   cfg.Scores,
		cellSize: cellSize,
	}

	r.Route("/api", func(r chi.Router) {
		// Read model
		r.Get("/state", h.handleGetState)
		r.Get("/stats", h.handleGetStats)
		r.Get("/frame.png", h.handleGetFrame)
		r.Get("/highscores", h.handleGetHighScores)

		// Input
		r.Post("/input/direction", h.handleSetDirection)
		r.Post("/restart", h.handleRestart)

		// Settings
		r.Get("/difficulty", h.handleGetDifficulty)
		r.Put("/difficulty", h.handleSetDifficulty)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	})

	return r
}
