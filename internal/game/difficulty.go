package game

import (
	"fmt"
	"strings"
)

// Difficulty selects how aggressively adversaries pursue the player.
type Difficulty uint8

const (
	Easy Difficulty = iota + 1
	Medium
	Hard
)

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return "unknown"
	}
}

// ParseDifficulty converts a level name into a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return 0, fmt.Errorf("unknown difficulty %q", s)
}

func (d Difficulty) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Difficulty) UnmarshalText(text []byte) error {
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// aiProfile holds the movement tuning for one difficulty level.
type aiProfile struct {
	// cadence is the number of ticks between direction recomputations.
	cadence int
	// intelligence is the probability of a targeted (rather than random) decision.
	intelligence float64
	// startCounter offsets the cadence counter when difficulty is applied.
	startCounter int
	// intersectionEvery re-checks intersections when counter%n == 0. Zero disables it.
	intersectionEvery int
	// checkAfterMove re-checks intersections after every successful move.
	checkAfterMove bool
	// chaserRush makes the Chaser recompute two ticks sooner after each decision.
	chaserRush bool
}

func (d Difficulty) profile() aiProfile {
	switch d {
	case Hard:
		return aiProfile{cadence: 10, intelligence: 1.0, startCounter: 10, checkAfterMove: true, chaserRush: true}
	case Medium:
		return aiProfile{cadence: 15, intelligence: 0.65, startCounter: 13, intersectionEvery: 5}
	default:
		return aiProfile{cadence: 20, intelligence: 0.2}
	}
}
