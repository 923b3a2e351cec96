package command

import (
	"log"
	"sync/atomic"

	"maze-chase/internal/maze"
)

// Target is the part of the engine commands act on.
type Target interface {
	SetDirection(d maze.Direction)
	Restart() bool
}

// Handler applies commands to the engine
type Handler struct {
	target  Target
	limiter *RateLimiter

	applied  atomic.Uint64
	limited  atomic.Uint64
	rejected atomic.Uint64
}

// NewHandler creates a handler. A nil limiter disables rate limiting.
func NewHandler(target Target, limiter *RateLimiter) *Handler {
	return &Handler{target: target, limiter: limiter}
}

// Process applies cmd and reports whether it took effect.
func (h *Handler) Process(cmd Command) bool {
	if h.limiter != nil && cmd.ClientID != "" && !h.limiter.Allow(cmd.ClientID) {
		h.limited.Add(1)
		return false
	}

	switch cmd.Type {
	case CmdDirection:
		h.target.SetDirection(cmd.Direction)
	case CmdRestart:
		if !h.target.Restart() {
			h.rejected.Add(1)
			return false
		}
		log.Printf("🔄 Restart requested by %s", cmd.ClientID)
	default:
		h.rejected.Add(1)
		return false
	}
	h.applied.Add(1)
	return true
}

// HandlerStats holds handler counters
type HandlerStats struct {
	Applied  uint64 `json:"applied"`
	Limited  uint64 `json:"limited"`
	Rejected uint64 `json:"rejected"`
}

// Stats returns handler counters
func (h *Handler) Stats() HandlerStats {
	return HandlerStats{
		Applied:  h.applied.Load(),
		Limited:  h.limited.Load(),
		Rejected: h.rejected.Load(),
	}
}
