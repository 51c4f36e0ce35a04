// internal/daily/daily.go
//
// Word-of-the-day selection. Every player gets the same target on the same
// UTC date: index = HMAC-SHA256(salt, "YYYY-MM-DD") mod len(list).

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/stevethucpham/worldle/internal/words"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % n.
func WordIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Picker returns a target picker for game.WithTargetPicker that yields the
// word of the day from list. The list length is captured up front so later
// dictionary growth does not shift the day's word.
func Picker(list *words.List, salt string, now func() time.Time) func() string {
	n := list.Len()
	return func() string {
		if n == 0 {
			return words.DefaultTarget
		}
		return list.At(WordIndex(now(), salt, n))
	}
}
