package game

import "math"

// Scoreboard tracks the session's raw score and shot accuracy.
type Scoreboard struct {
	Score int
	Fired int
	Hit   int
}

// Add credits points. Negative amounts are ignored so the score never drops.
func (s *Scoreboard) Add(points int) {
	if points > 0 {
		s.Score += points
	}
}

// RecordShot counts a resolved projectile: hit when it struck something,
// miss when it ran out of range.
func (s *Scoreboard) RecordShot(hit bool) {
	s.Fired++
	if hit {
		s.Hit++
	}
}

// Accuracy returns Hit/Fired, or 0 before any shot resolved.
func (s Scoreboard) Accuracy() float64 {
	if s.Fired == 0 {
		return 0
	}
	return float64(s.Hit) / float64(s.Fired)
}

// FinalScore is the raw score plus an accuracy bonus.
func (s Scoreboard) FinalScore() int {
	return s.Score + int(math.Round(float64(s.Score)*s.Accuracy()))
}

// Reset zeroes everything for a new game.
func (s *Scoreboard) Reset() {
	*s = Scoreboard{}
}
