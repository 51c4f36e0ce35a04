// internal/validator/validator.go
//
// Word validation for submitted guesses.
//
// Checks, in order:
//   1. the validation cache (answers immediately if the word was seen before),
//   2. the local dictionary (hit → cached as valid),
//   3. the remote lookup (exists → cached valid and added to the dictionary;
//      not found or any error → cached invalid).
//
// Remote failures and "not found" are deliberately indistinguishable to callers.
// Concurrent validations of the same uncached word share one remote request.

package validator

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/stevethucpham/worldle/internal/metrics"
	"github.com/stevethucpham/worldle/internal/words"
)

// Lookup is the remote existence check (see dictapi.Client).
type Lookup interface {
	Exists(ctx context.Context, word string) (bool, error)
}

// Validator answers whether a word is acceptable as a guess.
type Validator struct {
	dict    *words.List
	lookup  Lookup
	metrics *metrics.Metrics

	mu    sync.RWMutex
	cache map[string]bool // append-only for the validator's lifetime

	group singleflight.Group
}

// New returns a validator over dict. lookup may be nil, in which case
// words missing from dict are invalid. m may be nil.
func New(dict *words.List, lookup Lookup, m *metrics.Metrics) *Validator {
	return &Validator{
		dict:    dict,
		lookup:  lookup,
		metrics: m,
		cache:   make(map[string]bool),
	}
}

// Validate reports whether word is valid. It blocks on the remote lookup when
// the word is neither cached nor in the dictionary. Cancelling ctx does not
// abort an in-flight lookup; the result is still cached.
func (v *Validator) Validate(ctx context.Context, word string) bool {
	w := words.Normalize(word)

	if valid, ok := v.Cached(w); ok {
		v.metrics.ObserveValidation(metrics.SourceCache, valid)
		return valid
	}

	if v.dict.Contains(w) {
		v.remember(w, true)
		v.metrics.ObserveValidation(metrics.SourceDictionary, true)
		return true
	}

	res, _, _ := v.group.Do(w, func() (any, error) {
		// Another caller may have resolved w between our cache miss and now.
		if valid, ok := v.Cached(w); ok {
			return valid, nil
		}
		valid := v.remote(context.WithoutCancel(ctx), w)
		v.remember(w, valid)
		if valid {
			v.dict.Add(w)
		}
		return valid, nil
	})
	valid := res.(bool)
	v.metrics.ObserveValidation(metrics.SourceRemote, valid)
	return valid
}

// remote asks the lookup service; errors collapse into false.
func (v *Validator) remote(ctx context.Context, w string) bool {
	if v.lookup == nil {
		return false
	}
	ok, err := v.lookup.Exists(ctx, w)
	if err != nil {
		v.metrics.ObserveLookupError()
		log.Debug().Err(err).Str("word", w).Msg("remote lookup failed")
		return false
	}
	log.Debug().Str("word", w).Bool("exists", ok).Msg("remote lookup")
	return ok
}

func (v *Validator) remember(w string, valid bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.cache[w]; !ok {
		v.cache[w] = valid
	}
}

// Cached returns the memoized result for word, if any.
func (v *Validator) Cached(word string) (valid, ok bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	valid, ok = v.cache[words.Normalize(word)]
	return valid, ok
}

// CacheLen returns the number of memoized words.
func (v *Validator) CacheLen() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.cache)
}

// Dictionary returns the (growing) local word list.
func (v *Validator) Dictionary() *words.List { return v.dict }
