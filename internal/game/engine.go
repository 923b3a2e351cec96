package game

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"maze-chase/internal/maze"
)

// Point values awarded by the collision pass.
const (
	PelletPoints      = 10
	PowerPelletPoints = 50
	FruitPoints       = 100
	GhostPoints       = 200
)

const (
	fruitPlacementAttempts = 100
	tickSampleEvery        = 50 // ticks between sampled tick events
)

// Phase is the session state machine position.
type Phase uint8

const (
	PhasePlaying Phase = iota
	PhaseLevelTransition
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhaseLevelTransition:
		return "level_transition"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// ScoreBoard is the high-score collaborator consulted at game over.
type ScoreBoard interface {
	AddScore(score int) (bool, error)
	TopScores() []int
	Rank(score int) int
}

// EngineConfig holds timing and tuning for the simulation.
// Zero durations and counts fall back to DefaultEngineConfig values.
type EngineConfig struct {
	TickInterval        time.Duration
	PowerDuration       time.Duration
	ImmunityDuration    time.Duration
	FruitDuration       time.Duration
	FruitNoticeDuration time.Duration
	TransitionDuration  time.Duration
	ReleaseInterval     time.Duration
	RespawnDelay        time.Duration
	FruitChance         float64
	StartingLives       int
	Difficulty          Difficulty
	// Seed drives every random decision. Zero picks a time-based seed.
	Seed int64

	Grid   *maze.Grid
	Clock  Clock
	Scores ScoreBoard
}

// DefaultEngineConfig returns the arcade timings.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		TickInterval:        120 * time.Millisecond,
		PowerDuration:       10 * time.Second,
		ImmunityDuration:    1500 * time.Millisecond,
		FruitDuration:       10 * time.Second,
		FruitNoticeDuration: 2 * time.Second,
		TransitionDuration:  3 * time.Second,
		ReleaseInterval:     5 * time.Second,
		RespawnDelay:        5 * time.Second,
		FruitChance:         0.01,
		StartingLives:       3,
		Difficulty:          Easy,
	}
}

func (c EngineConfig) withDefaults() EngineConfig {
	d := DefaultEngineConfig()
	durations := []struct{ v, def *time.Duration }{
		{&c.TickInterval, &d.TickInterval},
		{&c.PowerDuration, &d.PowerDuration},
		{&c.ImmunityDuration, &d.ImmunityDuration},
		{&c.FruitDuration, &d.FruitDuration},
		{&c.FruitNoticeDuration, &d.FruitNoticeDuration},
		{&c.TransitionDuration, &d.TransitionDuration},
		{&c.ReleaseInterval, &d.ReleaseInterval},
		{&c.RespawnDelay, &d.RespawnDelay},
	}
	for _, dur := range durations {
		if *dur.v <= 0 {
			*dur.v = *dur.def
		}
	}
	if c.StartingLives <= 0 {
		c.StartingLives = d.StartingLives
	}
	if c.Difficulty == 0 {
		c.Difficulty = d.Difficulty
	}
	if c.FruitChance < 0 {
		c.FruitChance = 0
	}
	if c.Grid == nil {
		c.Grid = maze.Classic()
	}
	if c.Clock == nil {
		c.Clock = SystemClock()
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	return c
}

type fruit struct {
	active bool
	pos    maze.Position
}

// Engine runs the chase simulation on a fixed tick.
type Engine struct {
	mu  sync.Mutex
	cfg EngineConfig

	grid      *maze.Grid
	clock     Clock
	rng       *rand.Rand
	rngSeed   int64
	scheduler *Scheduler
	scores    ScoreBoard

	player      *Player
	ghosts      [len(Personalities)]*Ghost
	positions   PositionTable
	pellets     *PelletLayer
	powerActive []bool
	fruit       fruit
	// vulnTimers holds each adversary's pending vulnerability-end event.
	vulnTimers [len(Personalities)]TimerID

	power       TimedEffect
	immunity    TimedEffect
	fruitLife   TimedEffect
	fruitNotice TimedEffect
	transition  TimedEffect

	sessionID  string
	score      int
	lives      int
	level      int
	phase      Phase
	difficulty Difficulty
	result     *GameOverSnapshot

	tickCount uint64
	now       time.Time

	running  bool
	ticker   *time.Ticker
	stopChan chan struct{}
	doneChan chan struct{}

	// Callbacks run after the tick releases the engine lock, in event order.
	OnTick         func(d time.Duration, snap *GameSnapshot)
	OnGhostEaten   func(p Personality)
	OnPlayerDeath  func(livesLeft int)
	OnLevelCleared func(level int)
	OnGameOver     func(score int, newHighScore bool)
	notify         []func()

	snapshotPool *SnapshotPool
	eventLog     *EventLog
}

// NewEngine creates an engine with a fresh session in the Playing phase.
func NewEngine(cfg EngineConfig) *Engine {
	cfg = cfg.withDefaults()
	e := &Engine{
		cfg:          cfg,
		grid:         cfg.Grid,
		clock:        cfg.Clock,
		rng:          rand.New(rand.NewSource(cfg.Seed)),
		rngSeed:      cfg.Seed,
		scheduler:    NewScheduler(),
		scores:       cfg.Scores,
		difficulty:   cfg.Difficulty,
		power:        NewTimedEffect(cfg.PowerDuration),
		immunity:     NewTimedEffect(cfg.ImmunityDuration),
		fruitLife:    NewTimedEffect(cfg.FruitDuration),
		fruitNotice:  NewTimedEffect(cfg.FruitNoticeDuration),
		transition:   NewTimedEffect(cfg.TransitionDuration),
		snapshotPool: NewSnapshotPool(),
	}
	e.player = NewPlayer(e.grid.PlayerStart())
	e.pellets = NewPelletLayer(e.grid)
	e.powerActive = make([]bool, len(e.grid.PowerPelletPositions()))
	for i, p := range Personalities {
		rng := rand.New(rand.NewSource(cfg.Seed + int64(i) + 1))
		e.ghosts[i] = NewGhost(p, e.grid, rng, &e.positions)
		e.ghosts[i].SetDifficulty(e.difficulty)
	}

	e.now = e.clock.Now()
	e.newSession(e.now, false)
	e.produceSnapshot()
	return e
}

// Start begins the tick loop.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.ticker = time.NewTicker(e.cfg.TickInterval)
	e.stopChan = make(chan struct{})
	e.doneChan = make(chan struct{})
	ticker, stop, done := e.ticker, e.stopChan, e.doneChan
	difficulty := e.difficulty
	e.mu.Unlock()

	go func() {
		defer close(done)
		for {
			select {
			case <-ticker.C:
				e.tick()
			case <-stop:
				return
			}
		}
	}()

	log.Printf("🎮 Game engine started (tick %v, difficulty %s, seed %d)", e.cfg.TickInterval, difficulty, e.rngSeed)
}

// Stop halts the tick loop. Safe to call more than once.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	e.ticker.Stop()
	close(e.stopChan)
	done := e.doneChan
	e.mu.Unlock()

	<-done
	log.Println("🛑 Game engine stopped")
}

// tick runs one simulation step and publishes a snapshot.
func (e *Engine) tick() {
	started := time.Now()

	e.mu.Lock()
	e.step()
	snap := e.produceSnapshot()
	notify := e.notify
	e.notify = nil
	onTick := e.OnTick
	e.mu.Unlock()

	for _, fn := range notify {
		fn()
	}
	if onTick != nil {
		onTick(time.Since(started), snap)
	}
}

// step applies one tick in fixed order: due timers, player move, collisions,
// adversary moves, collisions, timed effects.
func (e *Engine) step() {
	now := e.clock.Now()
	e.now = now
	e.tickCount++

	e.applyTimers(now)

	switch e.phase {
	case PhaseLevelTransition:
		if e.transition.Expired(now) {
			e.startNextLevel(now)
		}
		e.updateEffects(now)
		return
	case PhaseGameOver:
		e.updateEffects(now)
		return
	}

	e.player.Move(e.grid)
	if e.resolveCollisions(now) {
		e.updateEffects(now)
		return
	}

	player, facing := e.player.Position(), e.player.Direction()
	for _, g := range e.ghosts {
		g.Move(e.grid, &e.positions, player, facing)
	}
	if e.resolveCollisions(now) {
		e.updateEffects(now)
		return
	}

	e.updateEffects(now)
	e.maybeSpawnFruit(now)

	if e.tickCount%tickSampleEvery == 0 {
		e.emit(EventTypeTick, TickPayload{
			RNGSeed:          e.rngSeed,
			Score:            e.score,
			Lives:            e.lives,
			Level:            e.level,
			PelletsRemaining: e.pellets.Remaining(),
			Phase:            e.phase.String(),
		})
	}
}

// applyTimers consumes scheduler events that came due since the last tick.
func (e *Engine) applyTimers(now time.Time) {
	for _, ev := range e.scheduler.Due(now) {
		g := e.ghosts[ev.Ghost]
		switch ev.Kind {
		case TimerRelease:
			if e.phase != PhasePlaying || g.Released() {
				continue
			}
			g.Release(e.grid.SafeZoneExit(), &e.positions)
			e.emit(EventTypeGhostReleased, GhostPayload{
				Personality: g.Personality().String(),
				X:           g.Position().X,
				Y:           g.Position().Y,
			})
		case TimerVulnerabilityEnd:
			g.SetVulnerable(false)
		}
	}
}

// resolveCollisions applies pickups and contacts at the player's cell.
// It reports whether the phase left Playing.
func (e *Engine) resolveCollisions(now time.Time) bool {
	pos := e.player.Position()

	if e.pellets.Consume(pos) {
		e.score += PelletPoints
		if e.pellets.Remaining() == 0 {
			e.levelCleared(now)
			return true
		}
	}

	for i, pp := range e.grid.PowerPelletPositions() {
		if e.powerActive[i] && pp == pos {
			e.powerActive[i] = false
			e.score += PowerPelletPoints
			e.activatePower(now)
			e.emit(EventTypePowerPellet, ScorePayload{X: pos.X, Y: pos.Y, Points: PowerPelletPoints, Score: e.score})
		}
	}

	if e.fruit.active && e.fruit.pos == pos {
		e.fruit.active = false
		e.fruitLife.Stop()
		e.score += FruitPoints
		e.fruitNotice.Start(now)
		e.emit(EventTypeFruitEaten, ScorePayload{X: pos.X, Y: pos.Y, Points: FruitPoints, Score: e.score})
	}

	if e.immunity.ActiveAt(now) {
		return false
	}
	for i, g := range e.ghosts {
		if g.Position() != pos {
			continue
		}
		if g.IsVulnerable() {
			e.eatGhost(i, now)
			continue
		}
		e.loseLife(g, now)
		return e.phase != PhasePlaying
	}
	return false
}

func (e *Engine) activatePower(now time.Time) {
	e.power.Start(now)
	for i, g := range e.ghosts {
		g.SetVulnerable(true)
		e.scheduler.Cancel(e.vulnTimers[i])
		e.vulnTimers[i] = e.scheduler.Schedule(now.Add(e.cfg.PowerDuration), TimerVulnerabilityEnd, i)
	}
}

func (e *Engine) endPower() {
	e.power.Stop()
	for i, g := range e.ghosts {
		g.SetVulnerable(false)
		e.scheduler.Cancel(e.vulnTimers[i])
	}
}

func (e *Engine) eatGhost(i int, now time.Time) {
	g := e.ghosts[i]
	at := g.Position()
	g.Reset(&e.positions)
	e.scheduler.CancelGhost(i, TimerRelease)
	e.scheduler.Cancel(e.vulnTimers[i])
	e.scheduler.Schedule(now.Add(e.cfg.RespawnDelay), TimerRelease, i)
	e.score += GhostPoints

	e.emit(EventTypeGhostEaten, GhostPayload{Personality: g.Personality().String(), X: at.X, Y: at.Y, Score: e.score})
	if fn := e.OnGhostEaten; fn != nil {
		p := g.Personality()
		e.notify = append(e.notify, func() { fn(p) })
	}
}

func (e *Engine) loseLife(killer *Ghost, now time.Time) {
	e.lives--
	pos := e.player.Position()
	e.emit(EventTypePlayerDeath, DeathPayload{
		Killer:    killer.Personality().String(),
		LivesLeft: e.lives,
		PlayerX:   pos.X,
		PlayerY:   pos.Y,
	})
	if fn := e.OnPlayerDeath; fn != nil {
		left := e.lives
		e.notify = append(e.notify, func() { fn(left) })
	}

	if e.lives <= 0 {
		e.gameOver()
		return
	}
	e.resetPositions(now)
	e.immunity.Start(now)
}

// resetPositions returns every entity to its spawn, clears the power
// window and restarts the release stagger.
func (e *Engine) resetPositions(now time.Time) {
	e.scheduler.CancelAll()
	e.power.Stop()
	e.player.Reset()
	for _, g := range e.ghosts {
		g.Reset(&e.positions)
	}
	e.scheduleReleases(now)
}

func (e *Engine) scheduleReleases(now time.Time) {
	for i := range e.ghosts {
		e.scheduler.Schedule(now.Add(time.Duration(i)*e.cfg.ReleaseInterval), TimerRelease, i)
	}
}

func (e *Engine) levelCleared(now time.Time) {
	e.level++
	e.phase = PhaseLevelTransition
	e.transition.Start(now)
	e.scheduler.CancelAll()
	e.endPower()

	log.Printf("🏁 Level cleared, advancing to level %d (score %d)", e.level, e.score)
	e.emit(EventTypeLevelCleared, LevelPayload{Level: e.level, Score: e.score})
	if fn := e.OnLevelCleared; fn != nil {
		level := e.level
		e.notify = append(e.notify, func() { fn(level) })
	}
}

func (e *Engine) startNextLevel(now time.Time) {
	e.phase = PhasePlaying
	e.transition.Stop()
	e.prepareBoard(now)
	e.immunity.Start(now)
	e.emit(EventTypeLevelStart, LevelPayload{Level: e.level, Score: e.score})
}

func (e *Engine) gameOver() {
	e.phase = PhaseGameOver
	e.scheduler.CancelAll()
	e.endPower()
	e.result = &GameOverSnapshot{FinalScore: e.score}

	log.Printf("💀 Game over: score %d, level %d", e.score, e.level)
	session, score, level, at, tick := e.sessionID, e.score, e.level, e.now, e.tickCount
	e.notify = append(e.notify, func() { e.recordResult(session, score, level, at, tick) })
}

// recordResult submits the final score and completes the game-over result.
// It runs after the tick releases the lock, so the board may block on I/O.
func (e *Engine) recordResult(session string, score, level int, at time.Time, tick uint64) {
	result := GameOverSnapshot{FinalScore: score}
	if e.scores != nil {
		isNew, err := e.scores.AddScore(score)
		if err != nil {
			log.Printf("⚠️ Failed to record high score %d: %v", score, err)
		}
		result.NewHighScore = isNew
		result.TopScores = e.scores.TopScores()
		result.Rank = e.scores.Rank(score)
	}

	e.mu.Lock()
	// A restart may have started a new session in the meantime.
	if e.sessionID == session && e.result != nil {
		e.result = &result
		e.produceSnapshot()
	}
	if e.eventLog != nil {
		e.eventLog.Emit(NewEvent(EventTypeGameOver, at, tick, session, GameOverPayload{
			Score:        score,
			Level:        level,
			NewHighScore: result.NewHighScore,
			Rank:         result.Rank,
		}))
	}
	fn := e.OnGameOver
	e.mu.Unlock()

	if fn != nil {
		fn(score, result.NewHighScore)
	}
}

// prepareBoard repopulates the board and returns entities to their spawns.
func (e *Engine) prepareBoard(now time.Time) {
	e.pellets.Populate(e.grid)
	for i := range e.powerActive {
		e.powerActive[i] = true
	}
	e.fruit = fruit{}
	e.fruitLife.Stop()
	e.fruitNotice.Stop()
	e.transition.Stop()
	e.resetPositions(now)
}

// newSession resets every piece of session state.
func (e *Engine) newSession(now time.Time, restart bool) {
	e.sessionID = uuid.NewString()
	e.score = 0
	e.lives = e.cfg.StartingLives
	e.level = 1
	e.phase = PhasePlaying
	e.result = nil
	e.prepareBoard(now)
	if restart {
		e.immunity.Start(now)
	} else {
		e.immunity.Stop()
	}
	e.emit(EventTypeSessionStart, SessionPayload{
		Difficulty: e.difficulty.String(),
		Lives:      e.lives,
		Restart:    restart,
	})
}

// updateEffects polls every wall-clock effect.
func (e *Engine) updateEffects(now time.Time) {
	if e.power.Expired(now) {
		e.endPower()
	}
	if e.fruitLife.Expired(now) {
		e.fruitLife.Stop()
		e.fruit.active = false
	}
	if e.fruitNotice.Expired(now) {
		e.fruitNotice.Stop()
	}
	if e.immunity.Active() && !e.immunity.ActiveAt(now) {
		e.immunity.Stop()
	}
}

func (e *Engine) maybeSpawnFruit(now time.Time) {
	if e.fruit.active || e.rng.Float64() >= e.cfg.FruitChance {
		return
	}
	for i := 0; i < fruitPlacementAttempts; i++ {
		p := maze.Position{X: e.rng.Intn(e.grid.Width()), Y: e.rng.Intn(e.grid.Height())}
		if e.grid.IsWall(p.X, p.Y) || e.grid.IsInsideSafeZone(p.X, p.Y) {
			continue
		}
		e.fruit = fruit{active: true, pos: p}
		e.fruitLife.Start(now)
		e.emit(EventTypeFruitSpawned, ScorePayload{X: p.X, Y: p.Y, Points: FruitPoints, Score: e.score})
		return
	}
}

// SetDirection buffers the player's desired direction.
func (e *Engine) SetDirection(d maze.Direction) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.player.SetDirection(d)
}

// SetDifficulty retunes every adversary. The level is kept across resets.
func (e *Engine) SetDifficulty(d Difficulty) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.difficulty = d
	for _, g := range e.ghosts {
		g.SetDifficulty(d)
	}
	e.emit(EventTypeDifficulty, DifficultyPayload{Difficulty: d.String()})
	log.Printf("🎚️ Difficulty set to %s", d)
}

// Difficulty returns the current difficulty.
func (e *Engine) Difficulty() Difficulty {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.difficulty
}

// Restart starts a new session. It is only honored in the GameOver phase.
func (e *Engine) Restart() bool {
	e.mu.Lock()
	if e.phase != PhaseGameOver {
		e.mu.Unlock()
		return false
	}
	now := e.clock.Now()
	e.now = now
	e.newSession(now, true)
	e.produceSnapshot()
	e.mu.Unlock()

	log.Println("🔄 Game restarted")
	return true
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// SessionID returns the identifier of the running session.
func (e *Engine) SessionID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sessionID
}

// GetSnapshot returns the latest published snapshot.
func (e *Engine) GetSnapshot() *GameSnapshot {
	return e.snapshotPool.AcquireRead()
}

// produceSnapshot copies the session into a new snapshot and publishes it.
// Must be called with mu held.
func (e *Engine) produceSnapshot() *GameSnapshot {
	now := e.now
	snap := e.snapshotPool.AcquireWrite(now)

	snap.TickNumber = e.tickCount
	snap.SessionID = e.sessionID
	snap.Width = e.grid.Width()
	snap.Height = e.grid.Height()
	snap.Maze = e.grid.Rows()
	snap.Pellets = e.pellets.Rows()
	snap.PelletsRemaining = e.pellets.Remaining()

	for i, pp := range e.grid.PowerPelletPositions() {
		snap.PowerPellets = append(snap.PowerPellets, PowerPelletSnapshot{X: pp.X, Y: pp.Y, Active: e.powerActive[i]})
	}

	pp, dir := e.player.Position(), e.player.Direction()
	facing := dir
	if facing.IsZero() {
		facing = maze.Right
	}
	snap.Player = PlayerSnapshot{
		X:         pp.X,
		Y:         pp.Y,
		DX:        dir.DX,
		DY:        dir.DY,
		Facing:    facing.String(),
		Buffered:  pendingTurn(e.player),
		AnimFrame: e.player.AnimFrame(),
		Immune:    e.immunity.ActiveAt(now),
	}

	snap.Ghosts = make([]GhostSnapshot, 0, len(e.ghosts))
	for _, g := range e.ghosts {
		pos, d := g.Position(), g.Direction()
		snap.Ghosts = append(snap.Ghosts, GhostSnapshot{
			Personality:     g.Personality().String(),
			X:               pos.X,
			Y:               pos.Y,
			DX:              d.DX,
			DY:              d.DY,
			State:           g.State().String(),
			Vulnerable:      g.IsVulnerable(),
			HasLeftSafeZone: g.HasLeftSafeZone(),
		})
	}

	snap.Fruit = FruitSnapshot{
		Active:      e.fruit.active,
		X:           e.fruit.pos.X,
		Y:           e.fruit.pos.Y,
		Notice:      e.fruitNotice.Active(),
		NoticeRatio: e.fruitNotice.RemainingRatio(now),
	}
	if e.fruit.active {
		snap.Fruit.RemainingRatio = e.fruitLife.RemainingRatio(now)
	}

	snap.Power = PowerSnapshot{
		Active:         e.power.Active(),
		RemainingRatio: e.power.RemainingRatio(now),
		SecondsLeft:    int(e.power.Remaining(now).Seconds()),
	}

	snap.Score = e.score
	snap.Lives = e.lives
	snap.Level = e.level
	snap.Phase = e.phase.String()
	snap.Difficulty = e.difficulty.String()
	if e.phase == PhaseLevelTransition {
		snap.TransitionProgress = e.transition.Progress(now)
	}
	if e.result != nil {
		result := *e.result
		result.TopScores = append([]int(nil), e.result.TopScores...)
		snap.GameOver = &result
	}

	e.snapshotPool.PublishWrite()
	return snap
}

// pendingTurn names the buffered direction while it differs from the
// current heading.
func pendingTurn(p *Player) string {
	b := p.Buffered()
	if b.IsZero() || b == p.Direction() {
		return ""
	}
	return b.String()
}

// StartEventLog enables the JSONL audit trail.
func (e *Engine) StartEventLog(filePath string) error {
	el := NewEventLog()
	if err := el.Start(filePath); err != nil {
		return err
	}
	e.mu.Lock()
	e.eventLog = el
	e.mu.Unlock()
	log.Printf("📝 Event log started: %s", filePath)
	return nil
}

// StopEventLog flushes and closes the audit trail.
func (e *Engine) StopEventLog() {
	e.mu.Lock()
	el := e.eventLog
	e.eventLog = nil
	e.mu.Unlock()
	if el != nil {
		el.Stop()
	}
}

// GetEventLogStats returns event log counters, or nil when disabled.
func (e *Engine) GetEventLogStats() map[string]interface{} {
	e.mu.Lock()
	el := e.eventLog
	e.mu.Unlock()
	if el == nil {
		return nil
	}
	return el.GetStats()
}

func (e *Engine) emit(t EventType, payload interface{}) {
	if e.eventLog == nil {
		return
	}
	e.eventLog.Emit(NewEvent(t, e.now, e.tickCount, e.sessionID, payload))
}
