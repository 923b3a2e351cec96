package command

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter implements per-client command rate limiting
type RateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*clientLimit
	config   RateLimitConfig
	stopChan chan struct{}
	stopOnce sync.Once
}

type clientLimit struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitConfig configures rate limiting behavior
type RateLimitConfig struct {
	// PerSecond is the sustained command rate per client
	PerSecond float64
	// Burst is the number of commands allowed at once
	Burst int
	// IdleTimeout drops state for clients quiet this long
	IdleTimeout time.Duration
}

// DefaultRateLimitConfig allows a few turns per tick with short bursts
var DefaultRateLimitConfig = RateLimitConfig{
	PerSecond:   20,
	Burst:       10,
	IdleTimeout: 5 * time.Minute,
}

// NewRateLimiter creates a new rate limiter and starts its cleanup loop
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{
		clients:  make(map[string]*clientLimit),
		config:   cfg,
		stopChan: make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Allow checks if a client can execute a command
func (rl *RateLimiter) Allow(clientID string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.clients[clientID]
	if !ok {
		cl = &clientLimit{limiter: rate.NewLimiter(rate.Limit(rl.config.PerSecond), rl.config.Burst)}
		rl.clients[clientID] = cl
	}
	cl.lastSeen = time.Now()
	return cl.limiter.Allow()
}

// Stop ends the cleanup loop
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopChan) })
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stopChan:
			return
		case <-ticker.C:
			rl.cleanup(time.Now())
		}
	}
}

// cleanup forgets clients idle since before now-IdleTimeout
func (rl *RateLimiter) cleanup(now time.Time) {
	cutoff := now.Add(-rl.config.IdleTimeout)
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for id, cl := range rl.clients {
		if cl.lastSeen.Before(cutoff) {
			delete(rl.clients, id)
		}
	}
}

// Tracked returns the number of clients with limiter state
func (rl *RateLimiter) Tracked() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}
