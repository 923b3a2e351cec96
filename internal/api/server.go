package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"maze-chase/internal/command"
)

// ServerOptions tunes NewServer. Zero values fall back to defaults.
type ServerOptions struct {
	Scores            ScoresInterface
	CORSOrigins       []string
	BroadcastInterval time.Duration
	FrameCellSize     int
	RateLimitConfig   *RateLimitConfig
	CommandRateLimit  *command.RateLimitConfig
}

// Server is the HTTP API server with WebSocket support.
// It combines the HTTP router with WebSocket hub for real-time updates.
type Server struct {
	engine      EngineInterface
	router      *chi.Mux
	wsHub       *WebSocketHub
	rateLimiter *IPRateLimiter
	cmdLimiter  *command.RateLimiter
	commands    *command.Queue
	interval    time.Duration
	httpServer  *http.Server
}

// NewServer creates a new API server.
//
// IMPORTANT: Background workers other than the rate limiter cleanup loops
// do NOT start until Start() is called. For testing HTTP endpoints
// without WebSocket support, use NewRouter() directly.
func NewServer(engine EngineInterface, opts ServerOptions) *Server {
	interval := opts.BroadcastInterval
	if interval <= 0 {
		interval = 120 * time.Millisecond
	}

	rateCfg := DefaultRateLimitConfig
	if opts.RateLimitConfig != nil {
		rateCfg = *opts.RateLimitConfig
	}
	cmdCfg := command.DefaultRateLimitConfig
	if opts.CommandRateLimit != nil {
		cmdCfg = *opts.CommandRateLimit
	}

	s := &Server{
		engine:      engine,
		rateLimiter: NewIPRateLimiter(rateCfg),
		cmdLimiter:  command.NewRateLimiter(cmdCfg),
		interval:    interval,
	}
	s.commands = command.NewQueue(command.NewHandler(engine, s.cmdLimiter), command.DefaultBufferSize)
	s.wsHub = NewWebSocketHub(opts.CORSOrigins, s.commands)

	s.router = NewRouter(RouterConfig{
		Engine:        engine,
		Scores:        opts.Scores,
		RateLimiter:   s.rateLimiter,
		CORSOrigins:   opts.CORSOrigins,
		FrameCellSize: opts.FrameCellSize,
	})

	s.setupWebSocketRoutes()
	return s
}

// setupWebSocketRoutes adds routes that need the wsHub instance
func (s *Server) setupWebSocketRoutes() {
	s.router.Get("/ws", s.wsHub.HandleWebSocket)
}

// StartWorkers launches the hub, the command queue and the broadcast loop.
func (s *Server) StartWorkers() {
	go s.wsHub.Run()
	s.commands.Start()
	s.wsHub.StartBroadcastLoop(s.engine, s.interval)
}

// Start starts the workers and serves until Shutdown. It returns nil
// after a clean shutdown.
func (s *Server) Start(addr string) error {
	s.StartWorkers()

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("🌐 API server starting on %s", addr)
	log.Printf("🕹️ WebSocket: ws://localhost%s/ws", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Router returns the HTTP handler for use with httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Hub exposes the WebSocket hub
func (s *Server) Hub() *WebSocketHub {
	return s.wsHub
}

// Shutdown stops accepting requests and then stops background workers.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	s.Stop()
	return err
}

// Stop stops background workers. Pending commands are drained first.
func (s *Server) Stop() {
	s.wsHub.Stop()
	s.commands.Stop()
	s.cmdLimiter.Stop()
	s.rateLimiter.Stop()
}
