// internal/words/words.go
//
// Dictionary management for the game engine.
//
// Responsibilities:
//   - Load a newline-delimited word list from WORDS_FILE or the embedded default.
//   - Normalize entries to uppercase and keep only alphabetic words of the game length.
//   - Fall back to a tiny built-in list when nothing usable can be loaded.
//   - Support session-scoped growth (Add) for words confirmed by the remote lookup.
//
// A List is safe for concurrent use.

package words

import (
	"bufio"
	"bytes"
	"io"
	"math/rand"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/stevethucpham/worldle/assets"
)

// Fallback is used when no dictionary could be loaded.
var Fallback = []string{"SWIFT", "APPLE", "XCODE", "WORLD", "HELLO"}

// DefaultTarget is picked by Random on an empty list.
const DefaultTarget = "SWIFT"

// List is an ordered, de-duplicated set of uppercase words of a fixed length.
type List struct {
	mu     sync.RWMutex
	length int
	words  []string
	set    map[string]struct{}
}

// New builds a List from ws, dropping entries that are not alphabetic or not length letters long.
func New(length int, ws ...string) *List {
	l := &List{length: length, set: make(map[string]struct{}, len(ws))}
	for _, w := range ws {
		l.add(w)
	}
	return l
}

// Load reads the dictionary from path, or from the embedded word list if path is empty.
// A missing/unreadable source or one with no usable words yields the Fallback list.
func Load(path string, length int) *List {
	var (
		src []byte
		err error
	)
	if path == "" {
		src, err = assets.Words()
	} else {
		src, err = os.ReadFile(path)
	}
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("dictionary unavailable, using built-in words")
		return New(length, Fallback...)
	}

	ws, err := Parse(bytes.NewReader(src))
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("dictionary unreadable, using built-in words")
		return New(length, Fallback...)
	}
	l := New(length, ws...)
	if l.Len() == 0 {
		log.Warn().Str("path", path).Int("length", length).Msg("dictionary has no usable words, using built-in words")
		return New(length, Fallback...)
	}
	return l
}

// Parse splits r into trimmed lines, skipping blanks and '#' comments.
// No length filtering or case normalization happens here.
func Parse(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// Normalize uppercases and trims w.
func Normalize(w string) string {
	return strings.ToUpper(strings.TrimSpace(w))
}

// add inserts w if valid; callers hold mu (or own l exclusively).
func (l *List) add(w string) bool {
	w = Normalize(w)
	if len(w) != l.length || !isAlpha(w) {
		return false
	}
	if _, ok := l.set[w]; ok {
		return false
	}
	l.set[w] = struct{}{}
	l.words = append(l.words, w)
	return true
}

// Add inserts w, reporting whether it was new and valid.
func (l *List) Add(w string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.add(w)
}

// Contains reports whether w (case-insensitive) is in the list.
func (l *List) Contains(w string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.set[Normalize(w)]
	return ok
}

// Len returns the number of words.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.words)
}

// WordLength returns the fixed word length of the list.
func (l *List) WordLength() int { return l.length }

// At returns the i-th word in load order.
func (l *List) At(i int) string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.words[i]
}

// Random returns a uniformly chosen word, or DefaultTarget if the list is empty.
func (l *List) Random(r *rand.Rand) string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.words) == 0 {
		return DefaultTarget
	}
	return l.words[r.Intn(len(l.words))]
}

// Clone returns an independent copy; growth of the copy does not affect l.
func (l *List) Clone() *List {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c := &List{
		length: l.length,
		words:  append([]string(nil), l.words...),
		set:    make(map[string]struct{}, len(l.set)),
	}
	for w := range l.set {
		c.set[w] = struct{}{}
	}
	return c
}

// isAlpha reports whether s is all uppercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
