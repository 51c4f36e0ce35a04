package game

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/stevethucpham/worldle/internal/validator"
	"github.com/stevethucpham/worldle/internal/words"
)

// setValidator accepts exactly the words in its set.
type setValidator map[string]bool

func (s setValidator) Validate(_ context.Context, w string) bool { return s[w] }

// blockingValidator parks every call until release is closed.
type blockingValidator struct {
	entered chan struct{}
	release chan struct{}
	valid   bool
}

func newBlockingValidator(valid bool) *blockingValidator {
	return &blockingValidator{entered: make(chan struct{}, 1), release: make(chan struct{}), valid: valid}
}

func (b *blockingValidator) Validate(context.Context, string) bool {
	b.entered <- struct{}{}
	<-b.release
	return b.valid
}

func fixedTarget(target string, v Validator) *Engine {
	return New(words.New(WordLength, target), v, WithTargetPicker(func() string { return target }))
}

func typeWord(t *testing.T, e *Engine, w string) {
	t.Helper()
	for _, r := range w {
		if !e.AddLetter(r) {
			t.Fatalf("AddLetter(%q) did not change the board", r)
		}
	}
}

func allUnused() map[rune]Status {
	return newKeyboard()
}

func TestNewGame(t *testing.T) {
	e := New(words.New(WordLength, "crane", "slate"), setValidator{})

	if e.IsGameOver() {
		t.Fatal("new game is already over")
	}
	if e.Attempt() != 0 {
		t.Errorf("Attempt() = %d, want 0", e.Attempt())
	}
	if tg := e.Target(); tg != "CRANE" && tg != "SLATE" {
		t.Errorf("Target() = %q, want an uppercase dictionary word", tg)
	}
	if diff := cmp.Diff(allUnused(), e.Keyboard()); diff != "" {
		t.Errorf("unexpected keyboard (-want +got)\n%s", diff)
	}
}

func TestBoardDimensions(t *testing.T) {
	e := fixedTarget("SWIFT", setValidator{})
	st := e.Snapshot()
	if len(st.Board) != MaxAttempts {
		t.Fatalf("board has %d rows, want %d", len(st.Board), MaxAttempts)
	}
	for i, row := range st.Board {
		if len(row) != WordLength {
			t.Errorf("row %d has %d cells, want %d", i, len(row), WordLength)
		}
	}
}

func TestBadTargetFallsBack(t *testing.T) {
	e := fixedTarget("TOOLONG", setValidator{})
	if got := e.Target(); got != words.DefaultTarget {
		t.Errorf("Target() = %q, want %q", got, words.DefaultTarget)
	}
}

func TestAddAndRemoveLetter(t *testing.T) {
	e := fixedTarget("SWIFT", setValidator{})

	if e.RemoveLetter() {
		t.Error("RemoveLetter on an empty row changed the board")
	}
	if e.AddLetter('1') || e.AddLetter('é') {
		t.Error("AddLetter accepted a non A–Z letter")
	}

	before := e.Row(0)
	e.AddLetter('q')
	e.RemoveLetter()
	if diff := cmp.Diff(before, e.Row(0)); diff != "" {
		t.Errorf("add then remove did not restore the row (-want +got)\n%s", diff)
	}

	typeWord(t, e, "hello")
	if e.AddLetter('x') {
		t.Error("AddLetter on a full row changed the board")
	}
	if diff := cmp.Diff([]rune("HELLO"), e.Row(0)); diff != "" {
		t.Errorf("unexpected row (-want +got)\n%s", diff)
	}

	e.RemoveLetter()
	e.RemoveLetter()
	if diff := cmp.Diff([]rune{'H', 'E', 'L', 0, 0}, e.Row(0)); diff != "" {
		t.Errorf("unexpected row after backspace (-want +got)\n%s", diff)
	}
	if e.Row(-1) != nil || e.Row(MaxAttempts) != nil {
		t.Error("Row out of range should be nil")
	}
}

func TestSubmitIncompleteRow(t *testing.T) {
	e := fixedTarget("SWIFT", setValidator{"SWIFT": true})
	typeWord(t, e, "SWI")

	_, err := e.SubmitGuess(context.Background())
	if !errors.Is(err, ErrInvalidSubmission) {
		t.Fatalf("SubmitGuess error = %v, want ErrInvalidSubmission", err)
	}
	if e.Attempt() != 0 {
		t.Errorf("Attempt() = %d, want 0", e.Attempt())
	}
	if diff := cmp.Diff(allUnused(), e.Keyboard()); diff != "" {
		t.Errorf("keyboard changed on incomplete submit (-want +got)\n%s", diff)
	}
}

func TestSubmitInvalidWord(t *testing.T) {
	e := fixedTarget("SWIFT", setValidator{"SWIFT": true})
	typeWord(t, e, "QXZZY")

	_, err := e.SubmitGuess(context.Background())
	if !errors.Is(err, ErrWordNotValid) {
		t.Fatalf("SubmitGuess error = %v, want ErrWordNotValid", err)
	}
	if e.Attempt() != 0 {
		t.Errorf("Attempt() = %d, want 0", e.Attempt())
	}
	if diff := cmp.Diff(allUnused(), e.Keyboard()); diff != "" {
		t.Errorf("keyboard changed on invalid word (-want +got)\n%s", diff)
	}

	// The player can edit and resubmit.
	for i := 0; i < WordLength; i++ {
		e.RemoveLetter()
	}
	typeWord(t, e, "swift")
	res, err := e.SubmitGuess(context.Background())
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if !res.Won {
		t.Error("resubmitted target should win")
	}
}

func TestWinningGuess(t *testing.T) {
	e := fixedTarget("SWIFT", setValidator{"SWIFT": true})
	typeWord(t, e, "SWIFT")

	got, err := e.SubmitGuess(context.Background())
	if err != nil {
		t.Fatalf("SubmitGuess: %v", err)
	}
	want := Result{
		Guess:   "SWIFT",
		Marks:   []Status{StatusCorrect, StatusCorrect, StatusCorrect, StatusCorrect, StatusCorrect},
		Attempt: 1,
		Over:    true,
		Won:     true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected result (-want +got)\n%s", diff)
	}

	kb := allUnused()
	for _, r := range "SWIFT" {
		kb[r] = StatusCorrect
	}
	if diff := cmp.Diff(kb, e.Keyboard()); diff != "" {
		t.Errorf("unexpected keyboard (-want +got)\n%s", diff)
	}
	if !e.IsGameOver() || e.Attempt() != 1 {
		t.Errorf("IsGameOver=%v Attempt=%d, want true/1", e.IsGameOver(), e.Attempt())
	}

	if e.AddLetter('A') {
		t.Error("AddLetter after a win changed the board")
	}
	if e.RemoveLetter() {
		t.Error("RemoveLetter after a win changed the board")
	}
	if _, err := e.SubmitGuess(context.Background()); !errors.Is(err, ErrInvalidSubmission) {
		t.Errorf("SubmitGuess after a win = %v, want ErrInvalidSubmission", err)
	}
}

func TestLossAfterMaxAttempts(t *testing.T) {
	e := fixedTarget("SWIFT", setValidator{"APPLE": true})

	for i := 0; i < MaxAttempts; i++ {
		if e.IsGameOver() {
			t.Fatalf("game over after %d guesses", i)
		}
		typeWord(t, e, "APPLE")
		res, err := e.SubmitGuess(context.Background())
		if err != nil {
			t.Fatalf("guess %d: %v", i, err)
		}
		if res.Attempt != i+1 {
			t.Errorf("guess %d: Attempt = %d, want %d", i, res.Attempt, i+1)
		}
	}
	if !e.IsGameOver() || e.Won() {
		t.Errorf("IsGameOver=%v Won=%v, want true/false", e.IsGameOver(), e.Won())
	}
	if st := e.Snapshot(); st.Target != "SWIFT" {
		t.Errorf("snapshot target = %q, want SWIFT revealed after a loss", st.Target)
	}
}

func TestFeedbackPlaneAgainstApple(t *testing.T) {
	e := fixedTarget("APPLE", setValidator{"PLANE": true})
	typeWord(t, e, "PLANE")

	res, err := e.SubmitGuess(context.Background())
	if err != nil {
		t.Fatalf("SubmitGuess: %v", err)
	}

	// P, L, A occur in APPLE at other positions; N does not occur; E is in place.
	wantKB := allUnused()
	wantKB['P'] = StatusMisplaced
	wantKB['L'] = StatusMisplaced
	wantKB['A'] = StatusMisplaced
	wantKB['N'] = StatusWrong
	wantKB['E'] = StatusCorrect
	if diff := cmp.Diff(wantKB, e.Keyboard()); diff != "" {
		t.Errorf("unexpected keyboard (-want +got)\n%s", diff)
	}

	wantCells := []Status{StatusMisplaced, StatusMisplaced, StatusMisplaced, StatusWrong, StatusCorrect}
	if diff := cmp.Diff(wantCells, res.Marks); diff != "" {
		t.Errorf("unexpected marks (-want +got)\n%s", diff)
	}
	var cells []Status
	for c := 0; c < WordLength; c++ {
		cells = append(cells, e.LetterStatus(0, c))
	}
	if diff := cmp.Diff(wantCells, cells); diff != "" {
		t.Errorf("unexpected letter statuses (-want +got)\n%s", diff)
	}
}

func TestDuplicateLettersAreNotCounted(t *testing.T) {
	tests := []struct {
		target, guess string
		cells         []Status
		keys          map[rune]Status
	}{
		{
			// One S in the target: the extra S's still show as misplaced,
			// and the key stays correct.
			target: "SWIFT",
			guess:  "SASSY",
			cells:  []Status{StatusCorrect, StatusWrong, StatusMisplaced, StatusMisplaced, StatusWrong},
			keys:   map[rune]Status{'S': StatusCorrect, 'A': StatusWrong, 'Y': StatusWrong},
		},
		{
			// One A in the target, two misplaced A's in the guess.
			target: "CRANE",
			guess:  "KAYAK",
			cells:  []Status{StatusWrong, StatusMisplaced, StatusWrong, StatusMisplaced, StatusWrong},
			keys:   map[rune]Status{'K': StatusWrong, 'A': StatusMisplaced, 'Y': StatusWrong},
		},
	}
	for _, test := range tests {
		t.Run(test.guess, func(t *testing.T) {
			e := fixedTarget(test.target, setValidator{test.guess: true})
			typeWord(t, e, test.guess)
			res, err := e.SubmitGuess(context.Background())
			if err != nil {
				t.Fatalf("SubmitGuess: %v", err)
			}
			if diff := cmp.Diff(test.cells, res.Marks); diff != "" {
				t.Errorf("unexpected marks (-want +got)\n%s", diff)
			}
			want := allUnused()
			for k, v := range test.keys {
				want[k] = v
			}
			if diff := cmp.Diff(want, e.Keyboard()); diff != "" {
				t.Errorf("unexpected keyboard (-want +got)\n%s", diff)
			}
		})
	}
}

func TestKeyboardNeverDowngradesCorrect(t *testing.T) {
	guesses := []string{"SPOTS", "ASSET", "TWIST", "FIRST", "WAIST"}
	valid := setValidator{}
	for _, g := range guesses {
		valid[g] = true
	}
	e := fixedTarget("SWIFT", valid)

	correct := map[rune]bool{}
	for _, g := range guesses {
		typeWord(t, e, g)
		if _, err := e.SubmitGuess(context.Background()); err != nil {
			t.Fatalf("SubmitGuess(%s): %v", g, err)
		}
		kb := e.Keyboard()
		for r := range correct {
			if kb[r] != StatusCorrect {
				t.Errorf("after %s: key %q downgraded from correct to %s", g, r, kb[r])
			}
		}
		for r, s := range kb {
			if s == StatusCorrect {
				correct[r] = true
			}
		}
	}
	if !correct['S'] || !correct['T'] {
		t.Errorf("expected S and T to have been marked correct, got %v", correct)
	}
}

func TestLetterStatusOnlyForSubmittedRows(t *testing.T) {
	e := fixedTarget("SWIFT", setValidator{"SWIFT": true, "TWIST": true})
	typeWord(t, e, "TWIST")

	for c := 0; c < WordLength; c++ {
		if s := e.LetterStatus(0, c); s != StatusUnused {
			t.Errorf("unsubmitted cell (0,%d) = %s, want unused", c, s)
		}
	}
	if _, err := e.SubmitGuess(context.Background()); err != nil {
		t.Fatalf("SubmitGuess: %v", err)
	}

	// TWIST vs SWIFT: T elsewhere, W in place, I in place, S elsewhere, T in place.
	want := []Status{StatusMisplaced, StatusCorrect, StatusCorrect, StatusMisplaced, StatusCorrect}
	var got []Status
	for c := 0; c < WordLength; c++ {
		got = append(got, e.LetterStatus(0, c))
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected statuses (-want +got)\n%s", diff)
	}

	for _, rc := range [][2]int{{1, 0}, {-1, 0}, {0, -1}, {0, WordLength}, {MaxAttempts, 0}} {
		if s := e.LetterStatus(rc[0], rc[1]); s != StatusUnused {
			t.Errorf("LetterStatus(%d,%d) = %s, want unused", rc[0], rc[1], s)
		}
	}
}

func TestResetGame(t *testing.T) {
	dict := words.New(WordLength, "APPLE", "CRANE", "SWIFT")
	v := validator.New(words.New(WordLength, "PLANE"), nil, nil)
	e := New(dict, v)

	typeWord(t, e, "PLANE")
	if _, err := e.SubmitGuess(context.Background()); err != nil {
		t.Fatalf("SubmitGuess: %v", err)
	}
	typeWord(t, e, "AP")
	cached := v.CacheLen()

	e.Reset()

	if tg := e.Target(); len(tg) != WordLength || !dict.Contains(tg) {
		t.Errorf("Target() after reset = %q, want a %d-letter dictionary word", tg, WordLength)
	}
	if e.Attempt() != 0 || e.IsGameOver() {
		t.Errorf("Attempt=%d IsGameOver=%v after reset, want 0/false", e.Attempt(), e.IsGameOver())
	}
	st := e.Snapshot()
	for r, row := range st.Board {
		for c, cell := range row {
			if cell != (Cell{Status: StatusUnused}) {
				t.Errorf("cell (%d,%d) = %+v after reset, want empty", r, c, cell)
			}
		}
	}
	if diff := cmp.Diff(allUnused(), e.Keyboard()); diff != "" {
		t.Errorf("keyboard not reset (-want +got)\n%s", diff)
	}
	if len(st.Keyboard) != 26 {
		t.Errorf("snapshot keyboard has %d keys, want 26", len(st.Keyboard))
	}
	if v.CacheLen() != cached {
		t.Errorf("validator cache has %d entries after reset, want %d", v.CacheLen(), cached)
	}
	if valid, ok := v.Cached("PLANE"); !ok || !valid {
		t.Error("validator forgot PLANE across reset")
	}
}

func TestSecondSubmissionIsRejectedWhilePending(t *testing.T) {
	bv := newBlockingValidator(true)
	e := fixedTarget("SWIFT", bv)
	typeWord(t, e, "CRANE")

	var (
		wg  sync.WaitGroup
		res Result
		err error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		res, err = e.SubmitGuess(context.Background())
	}()
	<-bv.entered

	if _, err := e.SubmitGuess(context.Background()); !errors.Is(err, ErrSubmissionPending) {
		t.Errorf("second SubmitGuess = %v, want ErrSubmissionPending", err)
	}
	if e.AddLetter('A') || e.RemoveLetter() {
		t.Error("row changed while its submission was pending")
	}
	if !e.Snapshot().Pending {
		t.Error("snapshot should report a pending submission")
	}

	close(bv.release)
	wg.Wait()
	if err != nil {
		t.Fatalf("first SubmitGuess: %v", err)
	}
	if res.Attempt != 1 || e.Attempt() != 1 {
		t.Errorf("Attempt = %d/%d, want 1", res.Attempt, e.Attempt())
	}
}

func TestResetDuringValidationDiscardsResult(t *testing.T) {
	bv := newBlockingValidator(true)
	e := fixedTarget("SWIFT", bv)
	typeWord(t, e, "SWIFT")

	var (
		wg  sync.WaitGroup
		err error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err = e.SubmitGuess(context.Background())
	}()
	<-bv.entered

	e.Reset()
	// The new game is immediately playable.
	if !e.AddLetter('A') {
		t.Error("AddLetter after reset was blocked by the stale submission")
	}

	close(bv.release)
	wg.Wait()
	if !errors.Is(err, ErrStaleSubmission) {
		t.Fatalf("SubmitGuess = %v, want ErrStaleSubmission", err)
	}
	if e.Attempt() != 0 || e.IsGameOver() {
		t.Errorf("stale result leaked into the new game: Attempt=%d IsGameOver=%v", e.Attempt(), e.IsGameOver())
	}
	if diff := cmp.Diff(allUnused(), e.Keyboard()); diff != "" {
		t.Errorf("stale result changed the keyboard (-want +got)\n%s", diff)
	}
}

func TestEvents(t *testing.T) {
	e := fixedTarget("SWIFT", setValidator{"SWIFT": true, "TWIST": true})

	var got []Event
	unsubscribe := e.Subscribe(func(ev Event) { got = append(got, ev) })

	typeWord(t, e, "QXZZY")
	if _, err := e.SubmitGuess(context.Background()); !errors.Is(err, ErrWordNotValid) {
		t.Fatalf("SubmitGuess(QXZZY) = %v, want ErrWordNotValid", err)
	}
	for i := 0; i < WordLength; i++ {
		e.RemoveLetter()
	}
	typeWord(t, e, "SWIFT")
	if _, err := e.SubmitGuess(context.Background()); err != nil {
		t.Fatalf("SubmitGuess(SWIFT): %v", err)
	}

	var want []Event
	for i := 0; i < WordLength; i++ {
		want = append(want, Event{Kind: EventLetterAdded})
	}
	want = append(want, Event{Kind: EventGuessRejected, Guess: "QXZZY"})
	for i := 0; i < WordLength; i++ {
		want = append(want, Event{Kind: EventLetterRemoved})
	}
	for i := 0; i < WordLength; i++ {
		want = append(want, Event{Kind: EventLetterAdded})
	}
	want = append(want,
		Event{Kind: EventGuessAccepted, Attempt: 1, Guess: "SWIFT"},
		Event{Kind: EventGameOver, Attempt: 1, Guess: "SWIFT", Won: true},
	)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected events (-want +got)\n%s", diff)
	}

	unsubscribe()
	e.Reset()
	if len(got) != len(want) {
		t.Errorf("received %d events after unsubscribe", len(got)-len(want))
	}
}

func TestSnapshotHidesTargetUntilOver(t *testing.T) {
	e := fixedTarget("SWIFT", setValidator{"SWIFT": true})
	if st := e.Snapshot(); st.Target != "" {
		t.Errorf("target %q revealed before the game is over", st.Target)
	}
	typeWord(t, e, "SWIFT")
	if _, err := e.SubmitGuess(context.Background()); err != nil {
		t.Fatalf("SubmitGuess: %v", err)
	}
	st := e.Snapshot()
	if st.Target != "SWIFT" || !st.Over || !st.Won {
		t.Errorf("snapshot = %+v, want over/won with target", st)
	}
	if st.Board[0][0] != (Cell{Letter: "S", Status: StatusCorrect}) {
		t.Errorf("cell (0,0) = %+v", st.Board[0][0])
	}
}
