// Package cryptorand provides a math/rand Source backed by crypto/rand, so
// target words are unpredictable while callers keep the *rand.Rand API.
package cryptorand

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"
)

// NewSource returns a crypto-backed Source.
func NewSource() Source {
	return Source{}
}

// New is shorthand for mrand.New(NewSource()).
func New() *mrand.Rand {
	return mrand.New(NewSource())
}

type Source struct{}

func (Source) Int63() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic(err)
	}
	return int64(binary.LittleEndian.Uint64(buf[:]) &^ (1 << 63))
}

// Seed is a no-op; the source cannot be seeded.
func (Source) Seed(int64) {}
