package game

import "time"

// TimedEffect is a countdown started at a wall-clock instant and polled
// once per tick. It is used for the power window, post-death immunity,
// fruit lifetime, the fruit notification and the level transition pause.
type TimedEffect struct {
	active   bool
	start    time.Time
	duration time.Duration
}

// NewTimedEffect creates an inactive effect lasting d once started.
func NewTimedEffect(d time.Duration) TimedEffect {
	return TimedEffect{duration: d}
}

// Start (re)starts the countdown at now.
func (t *TimedEffect) Start(now time.Time) {
	t.active = true
	t.start = now
}

// Stop deactivates the effect.
func (t *TimedEffect) Stop() {
	t.active = false
}

// Active reports whether the effect was started and not yet stopped.
func (t *TimedEffect) Active() bool {
	return t.active
}

// ActiveAt reports whether the effect is active and has not run past its
// duration at now. The boundary instant itself still counts as active.
func (t *TimedEffect) ActiveAt(now time.Time) bool {
	return t.active && now.Sub(t.start) <= t.duration
}

// Expired reports whether an active effect has run its full duration.
func (t *TimedEffect) Expired(now time.Time) bool {
	return t.active && now.Sub(t.start) >= t.duration
}

// Remaining returns the time left, or zero when inactive.
func (t *TimedEffect) Remaining(now time.Time) time.Duration {
	if !t.active {
		return 0
	}
	left := t.duration - now.Sub(t.start)
	if left < 0 {
		return 0
	}
	return left
}

// RemainingRatio returns the fraction of the duration left, in [0,1].
func (t *TimedEffect) RemainingRatio(now time.Time) float64 {
	if !t.active || t.duration <= 0 {
		return 0
	}
	return float64(t.Remaining(now)) / float64(t.duration)
}

// Progress returns the fraction of the duration elapsed, in [0,1].
func (t *TimedEffect) Progress(now time.Time) float64 {
	if !t.active {
		return 0
	}
	return 1 - t.RemainingRatio(now)
}
