// internal/store/sweep.go
//
// Background eviction of expired sessions.

package store

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Sweep deletes sessions older than ttl every interval until ctx is done.
// Each session holds an engine and a dictionary clone, so abandoned games
// must not accumulate.
func Sweep(ctx context.Context, st Store, ttl, interval time.Duration) {
	if ttl <= 0 {
		return
	}
	if interval <= 0 {
		interval = ttl / 4
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := st.DeleteOlderThan(ctx, now.Add(-ttl)); n > 0 {
				log.Info().Int("evicted", n).Int("live", st.Len()).Msg("expired sessions swept")
			}
		}
	}
}
