// internal/stats/stats.go
//
// Per-player statistics: games played and won, current and best win streak,
// and the distribution of winning attempt counts.

package stats

import "github.com/stevethucpham/worldle/internal/game"

// Stats is one player's record.
type Stats struct {
	GamesPlayed   int         `json:"gamesPlayed"`
	GamesWon      int         `json:"gamesWon"`
	CurrentStreak int         `json:"currentStreak"`
	MaxStreak     int         `json:"maxStreak"`
	Distribution  map[int]int `json:"distribution"` // attempts (1..MaxAttempts) → wins
}

// New returns empty stats with every distribution bucket present.
func New() Stats {
	s := Stats{Distribution: make(map[int]int, game.MaxAttempts)}
	for i := 1; i <= game.MaxAttempts; i++ {
		s.Distribution[i] = 0
	}
	return s
}

// Record folds one finished game into s. attempts is the number of accepted
// guesses; it only feeds the distribution for wins.
func (s *Stats) Record(won bool, attempts int) {
	if s.Distribution == nil {
		s.Distribution = New().Distribution
	}
	s.GamesPlayed++
	if !won {
		s.CurrentStreak = 0
		return
	}
	s.GamesWon++
	s.CurrentStreak++
	if s.CurrentStreak > s.MaxStreak {
		s.MaxStreak = s.CurrentStreak
	}
	if attempts >= 1 && attempts <= game.MaxAttempts {
		s.Distribution[attempts]++
	}
}

// WinPercentage is the integer percentage of games won, 0 with no games.
func (s Stats) WinPercentage() int {
	if s.GamesPlayed == 0 {
		return 0
	}
	return s.GamesWon * 100 / s.GamesPlayed
}
