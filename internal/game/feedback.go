// internal/game/feedback.go
//
// Letter feedback.
//
// Keyboard aggregation (updateKeyboard) is a two-pass scan:
//   Pass 1: every exact-position match marks its letter correct.
//   Pass 2: every other position marks its letter misplaced if the letter occurs
//           anywhere in the target and is not already correct, wrong otherwise.
//
// Occurrences are NOT counted: a letter that appears once in the target but
// twice in the guess is misplaced at both non-matching positions. Board cells
// (cellStatus) use the same containment rule per cell, without the
// "already correct" suppression.

package game

import "strings"

// updateKeyboard folds guess into kb. Both strings are uppercase and equal length.
func updateKeyboard(kb map[rune]Status, guess, target string) {
	g, t := []rune(guess), []rune(target)

	for i := range g {
		if g[i] == t[i] {
			kb[g[i]] = StatusCorrect
		}
	}

	for i := range g {
		if g[i] == t[i] {
			continue
		}
		if strings.ContainsRune(target, g[i]) {
			if kb[g[i]] != StatusCorrect {
				kb[g[i]] = StatusMisplaced
			}
		} else {
			kb[g[i]] = StatusWrong
		}
	}
}

// cellStatus evaluates a single submitted cell on its own.
func cellStatus(letter rune, col int, target string) Status {
	t := []rune(target)
	switch {
	case col < len(t) && letter == t[col]:
		return StatusCorrect
	case strings.ContainsRune(target, letter):
		return StatusMisplaced
	default:
		return StatusWrong
	}
}

// Score returns the per-cell feedback for a whole guess.
func Score(guess, target string) []Status {
	out := make([]Status, 0, len(guess))
	for i, r := range []rune(guess) {
		out = append(out, cellStatus(r, i, target))
	}
	return out
}

// newKeyboard returns A–Z all unused.
func newKeyboard() map[rune]Status {
	kb := make(map[rune]Status, 26)
	for r := 'A'; r <= 'Z'; r++ {
		kb[r] = StatusUnused
	}
	return kb
}
