package game

import (
	"encoding/json"
	"time"
)

// EventType enum for event classification
type EventType uint8

const (
	EventTypeUnknown EventType = iota
	EventTypeTick              // Sampled tick summary
	EventTypeSessionStart
	EventTypeGhostReleased
	EventTypePowerPellet
	EventTypeGhostEaten
	EventTypeFruitSpawned
	EventTypeFruitEaten
	EventTypePlayerDeath
	EventTypeLevelCleared
	EventTypeLevelStart
	EventTypeGameOver
	EventTypeDifficulty
)

// EventVersion for backwards compatibility in replay
const EventVersion uint8 = 1

// Event is the core event structure for the event log
type Event struct {
	Version   uint8     `json:"version"`
	Type      EventType `json:"type"`
	Name      string    `json:"name"`
	Timestamp int64     `json:"timestamp"` // Unix nano
	Sequence  uint64    `json:"sequence"`  // Assigned by the log
	TickNum   uint64    `json:"tickNum"`
	SessionID string    `json:"sessionId"`
	Payload   []byte    `json:"payload"` // JSON-encoded payload
}

// String returns human-readable event type
func (t EventType) String() string {
	switch t {
	case EventTypeTick:
		return "tick"
	case EventTypeSessionStart:
		return "session_start"
	case EventTypeGhostReleased:
		return "ghost_released"
	case EventTypePowerPellet:
		return "power_pellet"
	case EventTypeGhostEaten:
		return "ghost_eaten"
	case EventTypeFruitSpawned:
		return "fruit_spawned"
	case EventTypeFruitEaten:
		return "fruit_eaten"
	case EventTypePlayerDeath:
		return "player_death"
	case EventTypeLevelCleared:
		return "level_cleared"
	case EventTypeLevelStart:
		return "level_start"
	case EventTypeGameOver:
		return "game_over"
	case EventTypeDifficulty:
		return "difficulty"
	default:
		return "unknown"
	}
}

// TickPayload summarizes the board every tickSampleEvery ticks.
type TickPayload struct {
	RNGSeed          int64  `json:"rngSeed"`
	Score            int    `json:"score"`
	Lives            int    `json:"lives"`
	Level            int    `json:"level"`
	PelletsRemaining int    `json:"pelletsRemaining"`
	Phase            string `json:"phase"`
}

// SessionPayload is emitted when a session starts or restarts.
type SessionPayload struct {
	Difficulty string `json:"difficulty"`
	Lives      int    `json:"lives"`
	Restart    bool   `json:"restart"`
}

// GhostPayload describes an event concerning one adversary.
type GhostPayload struct {
	Personality string `json:"personality"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Score       int    `json:"score,omitempty"`
}

// ScorePayload describes a pickup.
type ScorePayload struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Points int `json:"points"`
	Score  int `json:"score"`
}

// DeathPayload describes a lost life.
type DeathPayload struct {
	Killer    string `json:"killer"`
	LivesLeft int    `json:"livesLeft"`
	PlayerX   int    `json:"playerX"`
	PlayerY   int    `json:"playerY"`
}

// LevelPayload describes a level boundary.
type LevelPayload struct {
	Level int `json:"level"`
	Score int `json:"score"`
}

// GameOverPayload records the final result.
type GameOverPayload struct {
	Score        int  `json:"score"`
	Level        int  `json:"level"`
	NewHighScore bool `json:"newHighScore"`
	Rank         int  `json:"rank"`
}

// DifficultyPayload records a difficulty change.
type DifficultyPayload struct {
	Difficulty string `json:"difficulty"`
}

// EncodePayload marshals a payload to JSON bytes
func EncodePayload(payload interface{}) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}

// NewEvent creates a new event stamped with at.
func NewEvent(eventType EventType, at time.Time, tickNum uint64, sessionID string, payload interface{}) Event {
	return Event{
		Version:   EventVersion,
		Type:      eventType,
		Name:      eventType.String(),
		Timestamp: at.UnixNano(),
		TickNum:   tickNum,
		SessionID: sessionID,
		Payload:   EncodePayload(payload),
	}
}
