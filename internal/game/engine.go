// internal/game/engine.go
//
// Core game engine for a single Hardle session.
// Responsibilities:
//   - Pick a target word and hold the 6x5 board.
//   - Letter entry / backspace on the current row.
//   - Validate and apply submitted guesses (see Validator).
//   - Track keyboard feedback and the in-progress → over transition.
//   - Notify subscribers after every mutation.
//
// Concurrency:
//   - All state is guarded by one mutex; queries may be called from any goroutine.
//   - SubmitGuess releases the lock while the validator runs. At most one submission
//     is outstanding; a second one fails with ErrSubmissionPending, and the row is
//     frozen (AddLetter/RemoveLetter are no-ops) until it resolves.
//   - Reset does not cancel an outstanding validation. The engine tracks a generation
//     number and a submission that resolves after a reset returns ErrStaleSubmission
//     without touching the new game.

package game

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"unicode"

	"github.com/stevethucpham/worldle/internal/cryptorand"
	"github.com/stevethucpham/worldle/internal/words"
)

// Validator decides whether a full-row guess is a real word.
// It may block (remote lookup); the engine is unlocked while it runs.
type Validator interface {
	Validate(ctx context.Context, word string) bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the random source used to pick targets from the dictionary.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithTargetPicker overrides target selection entirely (daily games, tests).
// Picks that are not WordLength letters fall back to words.DefaultTarget.
func WithTargetPicker(pick func() string) Option {
	return func(e *Engine) { e.pick = pick }
}

// Engine is the game state machine. Create with New.
type Engine struct {
	validator Validator
	rng       *rand.Rand
	pick      func() string

	mu         sync.Mutex
	target     string
	board      [MaxAttempts][WordLength]rune // 0 = empty
	attempt    int
	won        bool
	keyboard   map[rune]Status
	pending    bool
	generation uint64

	subMu  sync.Mutex
	subs   map[int]func(Event)
	nextID int
}

// New starts a game with a random target from dict.
func New(dict *words.List, v Validator, opts ...Option) *Engine {
	e := &Engine{
		validator: v,
		subs:      make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = cryptorand.New()
	}
	if e.pick == nil {
		e.pick = func() string { return dict.Random(e.rng) }
	}
	e.resetLocked()
	return e
}

// resetLocked starts a fresh game. Caller holds mu (or has exclusive access).
func (e *Engine) resetLocked() {
	e.target = normalizeTarget(e.pick())
	e.board = [MaxAttempts][WordLength]rune{}
	e.attempt = 0
	e.won = false
	e.keyboard = newKeyboard()
	e.pending = false
	e.generation++
}

// normalizeTarget uppercases t and enforces the fixed word length.
func normalizeTarget(t string) string {
	t = words.Normalize(t)
	if len([]rune(t)) != WordLength {
		return words.DefaultTarget
	}
	return t
}

func (e *Engine) overLocked() bool {
	return e.won || e.attempt >= MaxAttempts
}

// AddLetter puts letter in the first empty cell of the current row and reports
// whether the board changed. Non A–Z input, a full row, a finished game or an
// outstanding submission make it a no-op.
func (e *Engine) AddLetter(letter rune) bool {
	letter = unicode.ToUpper(letter)
	if letter < 'A' || letter > 'Z' {
		return false
	}

	e.mu.Lock()
	if e.overLocked() || e.pending {
		e.mu.Unlock()
		return false
	}
	row := &e.board[e.attempt]
	col := -1
	for i, r := range row {
		if r == 0 {
			col = i
			break
		}
	}
	if col < 0 {
		e.mu.Unlock()
		return false
	}
	row[col] = letter
	ev := Event{Kind: EventLetterAdded, Attempt: e.attempt}
	e.mu.Unlock()

	e.emit(ev)
	return true
}

// RemoveLetter clears the last filled cell of the current row and reports
// whether the board changed.
func (e *Engine) RemoveLetter() bool {
	e.mu.Lock()
	if e.overLocked() || e.pending {
		e.mu.Unlock()
		return false
	}
	row := &e.board[e.attempt]
	col := -1
	for i := len(row) - 1; i >= 0; i-- {
		if row[i] != 0 {
			col = i
			break
		}
	}
	if col < 0 {
		e.mu.Unlock()
		return false
	}
	row[col] = 0
	ev := Event{Kind: EventLetterRemoved, Attempt: e.attempt}
	e.mu.Unlock()

	e.emit(ev)
	return true
}

// SubmitGuess validates the current row and, if it is a word, scores it and
// advances to the next attempt. It blocks while the validator runs.
//
// Errors (match with errors.Is):
//   - ErrInvalidSubmission: game over or row incomplete. Nothing changes.
//   - ErrSubmissionPending: another submission is outstanding. Nothing changes.
//   - ErrWordNotValid: not a word. Attempt index unchanged; the row stays editable.
//   - ErrStaleSubmission: the game was reset meanwhile. The new game is untouched.
func (e *Engine) SubmitGuess(ctx context.Context) (Result, error) {
	e.mu.Lock()
	if e.overLocked() {
		e.mu.Unlock()
		return Result{}, fmt.Errorf("%w: game is over", ErrInvalidSubmission)
	}
	if e.pending {
		e.mu.Unlock()
		return Result{}, ErrSubmissionPending
	}
	row := e.board[e.attempt]
	for _, r := range row {
		if r == 0 {
			e.mu.Unlock()
			return Result{}, fmt.Errorf("%w: row %d is incomplete", ErrInvalidSubmission, e.attempt)
		}
	}
	guess := words.Normalize(string(row[:]))
	gen := e.generation
	e.pending = true
	e.mu.Unlock()

	valid := e.validator.Validate(ctx, guess)

	e.mu.Lock()
	if gen != e.generation {
		e.mu.Unlock()
		return Result{}, fmt.Errorf("%w: %s", ErrStaleSubmission, guess)
	}
	e.pending = false

	if !valid {
		ev := Event{Kind: EventGuessRejected, Attempt: e.attempt, Guess: guess}
		e.mu.Unlock()
		e.emit(ev)
		return Result{}, fmt.Errorf("%w: %s", ErrWordNotValid, guess)
	}

	updateKeyboard(e.keyboard, guess, e.target)
	marks := Score(guess, e.target)
	e.attempt++
	e.won = guess == e.target
	res := Result{
		Guess:   guess,
		Marks:   marks,
		Attempt: e.attempt,
		Over:    e.overLocked(),
		Won:     e.won,
	}
	evs := []Event{{Kind: EventGuessAccepted, Attempt: e.attempt, Guess: guess}}
	if res.Over {
		evs = append(evs, Event{Kind: EventGameOver, Attempt: e.attempt, Guess: guess, Won: e.won})
	}
	e.mu.Unlock()

	e.emit(evs...)
	return res, nil
}

// IsGameOver reports whether the game was won or all attempts are used.
func (e *Engine) IsGameOver() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.overLocked()
}

// Won reports whether the last accepted guess matched the target.
func (e *Engine) Won() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.won
}

// Attempt returns the index of the current (unsubmitted) row.
func (e *Engine) Attempt() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.attempt
}

// Target returns the secret word.
func (e *Engine) Target() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.target
}

// Reset starts a new game with a new target. The validator (and its cache)
// is kept. An outstanding submission is not cancelled; it resolves as stale.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.resetLocked()
	e.mu.Unlock()

	e.emit(Event{Kind: EventReset})
}

// LetterStatus returns the feedback for a board cell. Only submitted rows
// (row < Attempt) have feedback; anything else, including out-of-range
// coordinates, is StatusUnused.
func (e *Engine) LetterStatus(row, col int) Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.letterStatusLocked(row, col)
}

func (e *Engine) letterStatusLocked(row, col int) Status {
	if row < 0 || row >= e.attempt || col < 0 || col >= WordLength {
		return StatusUnused
	}
	letter := e.board[row][col]
	if letter == 0 {
		return StatusUnused
	}
	return cellStatus(letter, col, e.target)
}

// Keyboard returns a copy of the per-letter keyboard feedback.
func (e *Engine) Keyboard() map[rune]Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	kb := make(map[rune]Status, len(e.keyboard))
	for k, v := range e.keyboard {
		kb[k] = v
	}
	return kb
}

// Row returns the letters of row r; empty cells are 0. Out-of-range rows return nil.
func (e *Engine) Row(r int) []rune {
	e.mu.Lock()
	defer e.mu.Unlock()
	if r < 0 || r >= MaxAttempts {
		return nil
	}
	out := make([]rune, WordLength)
	copy(out, e.board[r][:])
	return out
}

// Snapshot returns a copy of the full game state for rendering.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := State{
		Board:       make([][]Cell, MaxAttempts),
		Keyboard:    make(map[string]Status, len(e.keyboard)),
		Attempt:     e.attempt,
		WordLength:  WordLength,
		MaxAttempts: MaxAttempts,
		Over:        e.overLocked(),
		Won:         e.won,
		Pending:     e.pending,
	}
	for r := range e.board {
		cells := make([]Cell, WordLength)
		for c, letter := range e.board[r] {
			if letter != 0 {
				cells[c].Letter = string(letter)
			}
			cells[c].Status = e.letterStatusLocked(r, c)
		}
		st.Board[r] = cells
	}
	for k, v := range e.keyboard {
		st.Keyboard[string(k)] = v
	}
	if st.Over {
		st.Target = e.target
	}
	return st
}

// Subscribe registers fn for every subsequent Event and returns a function
// that removes it. fn runs on the goroutine that made the change, after the
// engine lock is released, so it may call back into the engine.
func (e *Engine) Subscribe(fn func(Event)) (unsubscribe func()) {
	e.subMu.Lock()
	id := e.nextID
	e.nextID++
	e.subs[id] = fn
	e.subMu.Unlock()

	return func() {
		e.subMu.Lock()
		delete(e.subs, id)
		e.subMu.Unlock()
	}
}

func (e *Engine) emit(evs ...Event) {
	e.subMu.Lock()
	fns := make([]func(Event), 0, len(e.subs))
	for _, fn := range e.subs {
		fns = append(fns, fn)
	}
	e.subMu.Unlock()

	for _, ev := range evs {
		for _, fn := range fns {
			fn(ev)
		}
	}
}
