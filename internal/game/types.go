// internal/game/types.go
//
// Core type definitions for the Hardle game engine.
// Defines:
//   - Status: per-letter / per-key feedback (correct, misplaced, wrong, unused).
//   - Result: outcome of an accepted guess.
//   - State:  read-only snapshot used by renderers.
//   - Event:  notifications emitted to subscribers after each mutation.

package game

import "errors"

const (
	WordLength  = 5 // letters per word
	MaxAttempts = 6 // rows on the board
)

// Status is the feedback for one letter.
//   - "correct":   right letter in the right position.
//   - "misplaced": letter occurs in the target at another position.
//   - "wrong":     letter does not occur in the target.
//   - "unused":    no feedback yet.
type Status string

const (
	StatusCorrect   Status = "correct"
	StatusMisplaced Status = "misplaced"
	StatusWrong     Status = "wrong"
	StatusUnused    Status = "unused"
)

var (
	// ErrInvalidSubmission: the row is incomplete or the game is not in progress.
	ErrInvalidSubmission = errors.New("invalid submission")
	// ErrWordNotValid: the guess is neither in the dictionary nor known to the remote lookup.
	ErrWordNotValid = errors.New("word not valid")
	// ErrSubmissionPending: another submission is still being validated.
	ErrSubmissionPending = errors.New("submission pending")
	// ErrStaleSubmission: the game was reset while the guess was being validated.
	ErrStaleSubmission = errors.New("stale submission")
)

// Result describes an accepted guess.
type Result struct {
	Guess   string   `json:"guess"`
	Marks   []Status `json:"marks"`   // per-cell feedback, same rule as LetterStatus
	Attempt int      `json:"attempt"` // attempt index after the guess
	Over    bool     `json:"over"`
	Won     bool     `json:"won"`
}

// Cell is one board square in a snapshot.
type Cell struct {
	Letter string `json:"letter"` // "" when empty
	Status Status `json:"status"`
}

// State is a point-in-time copy of the engine for rendering.
type State struct {
	Board       [][]Cell          `json:"board"`
	Keyboard    map[string]Status `json:"keyboard"`
	Attempt     int               `json:"attempt"`
	WordLength  int               `json:"wordLength"`
	MaxAttempts int               `json:"maxAttempts"`
	Over        bool              `json:"over"`
	Won         bool              `json:"won"`
	Pending     bool              `json:"pending"`
	Target      string            `json:"target,omitempty"` // revealed once Over
}

// EventKind names what changed.
type EventKind string

const (
	EventLetterAdded   EventKind = "letter_added"
	EventLetterRemoved EventKind = "letter_removed"
	EventGuessAccepted EventKind = "guess_accepted"
	EventGuessRejected EventKind = "guess_rejected"
	EventGameOver      EventKind = "game_over"
	EventReset         EventKind = "reset"
)

// Event is delivered to subscribers after the engine state has been updated.
type Event struct {
	Kind    EventKind
	Attempt int    // attempt index after the change
	Guess   string // set for guess events
	Won     bool   // set for EventGameOver
}
