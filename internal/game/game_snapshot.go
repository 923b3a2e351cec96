package game

import (
	"sync/atomic"
	"time"
)

// PlayerSnapshot is an immutable copy of player state for rendering
type PlayerSnapshot struct {
	X         int    `json:"x"`
	Y         int    `json:"y"`
	DX        int    `json:"dx"`
	DY        int    `json:"dy"`
	Facing    string `json:"facing"`
	// Buffered is the requested turn still waiting for an opening, if any.
	Buffered  string `json:"buffered,omitempty"`
	AnimFrame int    `json:"animFrame"`
	Immune    bool   `json:"immune"`
}

// GhostSnapshot is an immutable copy of one adversary
type GhostSnapshot struct {
	Personality     string `json:"personality"`
	X               int    `json:"x"`
	Y               int    `json:"y"`
	DX              int    `json:"dx"`
	DY              int    `json:"dy"`
	State           string `json:"state"`
	Vulnerable      bool   `json:"vulnerable"`
	HasLeftSafeZone bool   `json:"hasLeftSafeZone"`
}

// PowerPelletSnapshot is one power pellet slot
type PowerPelletSnapshot struct {
	X      int  `json:"x"`
	Y      int  `json:"y"`
	Active bool `json:"active"`
}

// FruitSnapshot is the bonus fruit state
type FruitSnapshot struct {
	Active         bool    `json:"active"`
	X              int     `json:"x"`
	Y              int     `json:"y"`
	RemainingRatio float64 `json:"remainingRatio"`
	// Notice is set for a short while after the fruit is eaten.
	Notice      bool    `json:"notice"`
	NoticeRatio float64 `json:"noticeRatio"`
}

// PowerSnapshot is the power window state
type PowerSnapshot struct {
	Active         bool    `json:"active"`
	RemainingRatio float64 `json:"remainingRatio"`
	SecondsLeft    int     `json:"secondsLeft"`
}

// GameOverSnapshot carries the final result once the session ends
type GameOverSnapshot struct {
	FinalScore   int   `json:"finalScore"`
	NewHighScore bool  `json:"newHighScore"`
	Rank         int   `json:"rank"`
	TopScores    []int `json:"topScores"`
}

// GameSnapshot is a complete immutable game state for rendering.
// Every field is a copy; the engine never touches a published snapshot.
type GameSnapshot struct {
	Sequence   uint64    `json:"sequence"`
	Timestamp  time.Time `json:"timestamp"`
	TickNumber uint64    `json:"tickNumber"`
	SessionID  string    `json:"sessionId"`

	Width  int      `json:"width"`
	Height int      `json:"height"`
	Maze   []string `json:"maze"`

	Pellets          [][]bool              `json:"pellets"`
	PelletsRemaining int                   `json:"pelletsRemaining"`
	PowerPellets     []PowerPelletSnapshot `json:"powerPellets"`

	Player PlayerSnapshot  `json:"player"`
	Ghosts []GhostSnapshot `json:"ghosts"`
	Fruit  FruitSnapshot   `json:"fruit"`
	Power  PowerSnapshot   `json:"power"`

	Score      int    `json:"score"`
	Lives      int    `json:"lives"`
	Level      int    `json:"level"`
	Phase      string `json:"phase"`
	Difficulty string `json:"difficulty"`

	TransitionProgress float64           `json:"transitionProgress"`
	GameOver           *GameOverSnapshot `json:"gameOver,omitempty"`
}

// SnapshotPool publishes snapshots from the tick goroutine to readers.
// Each tick writes a fresh snapshot, so readers may keep the one they
// hold for as long as they like.
type SnapshotPool struct {
	pending  *GameSnapshot
	latest   atomic.Pointer[GameSnapshot]
	sequence atomic.Uint64
}

// NewSnapshotPool creates an empty pool
func NewSnapshotPool() *SnapshotPool {
	return &SnapshotPool{}
}

// AcquireWrite returns a blank snapshot stamped with the next sequence
// (producer only, called from the game tick).
func (p *SnapshotPool) AcquireWrite(now time.Time) *GameSnapshot {
	p.pending = &GameSnapshot{
		Sequence:  p.sequence.Add(1),
		Timestamp: now,
	}
	return p.pending
}

// PublishWrite makes the snapshot from the last AcquireWrite visible.
func (p *SnapshotPool) PublishWrite() {
	if p.pending == nil {
		return
	}
	p.latest.Store(p.pending)
	p.pending = nil
}

// AcquireRead returns the latest published snapshot, or nil before the first.
func (p *SnapshotPool) AcquireRead() *GameSnapshot {
	return p.latest.Load()
}
