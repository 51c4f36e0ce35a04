// internal/stats/store.go
//
// SQLite persistence for player statistics (player_stats + guess_distribution)
// and the once-per-day daily results (daily_results).
// Player IDs are either user IDs or anonymous cookie IDs; both are opaque here.

package stats

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Store reads and updates stats rows.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Get returns the player's stats; unknown players get empty stats.
func (s *Store) Get(ctx context.Context, playerID string) (Stats, error) {
	return load(ctx, s.db, playerID)
}

// Record adds a finished game to the player's stats and returns the new totals.
func (s *Store) Record(ctx context.Context, playerID string, won bool, attempts int) (Stats, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, err
	}
	defer func() { _ = tx.Rollback() }()

	st, err := record(ctx, tx, playerID, won, attempts)
	if err != nil {
		return Stats{}, err
	}
	return st, tx.Commit()
}

// PlayedDaily reports whether the player already finished the daily game for date (YYYY-MM-DD).
func (s *Store) PlayedDaily(ctx context.Context, playerID, date string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM daily_results WHERE player_id=? AND date=?`, playerID, date,
	).Scan(&n)
	return n > 0, err
}

// RecordDaily records the player's daily result for date. Only the first
// result per day counts; later ones leave the stats alone and report false.
func (s *Store) RecordDaily(ctx context.Context, playerID, date string, won bool, attempts int) (Stats, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, false, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO daily_results (player_id, date, won, attempts) VALUES (?, ?, ?, ?)`,
		playerID, date, won, attempts,
	)
	if err != nil {
		return Stats{}, false, fmt.Errorf("insert daily_results: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		st, lerr := load(ctx, tx, playerID)
		if lerr != nil {
			return Stats{}, false, lerr
		}
		return st, false, err
	}

	st, err := record(ctx, tx, playerID, won, attempts)
	if err != nil {
		return Stats{}, false, err
	}
	if err := tx.Commit(); err != nil {
		return Stats{}, false, err
	}
	return st, true, nil
}

func record(ctx context.Context, tx *sql.Tx, playerID string, won bool, attempts int) (Stats, error) {
	st, err := load(ctx, tx, playerID)
	if err != nil {
		return Stats{}, err
	}
	st.Record(won, attempts)

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO player_stats (player_id, games_played, games_won, current_streak, max_streak, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(player_id) DO UPDATE SET
			games_played = excluded.games_played,
			games_won = excluded.games_won,
			current_streak = excluded.current_streak,
			max_streak = excluded.max_streak,
			updated_at = excluded.updated_at`,
		playerID, st.GamesPlayed, st.GamesWon, st.CurrentStreak, st.MaxStreak, now,
	); err != nil {
		return Stats{}, fmt.Errorf("upsert player_stats: %w", err)
	}

	if won {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO guess_distribution (player_id, attempts, wins) VALUES (?, ?, 1)
			ON CONFLICT(player_id, attempts) DO UPDATE SET wins = wins + 1`,
			playerID, attempts,
		); err != nil {
			return Stats{}, fmt.Errorf("upsert guess_distribution: %w", err)
		}
	}
	return st, nil
}

func load(ctx context.Context, q queryer, playerID string) (Stats, error) {
	st := New()
	err := q.QueryRowContext(ctx, `
		SELECT games_played, games_won, current_streak, max_streak
		FROM player_stats WHERE player_id=?`, playerID,
	).Scan(&st.GamesPlayed, &st.GamesWon, &st.CurrentStreak, &st.MaxStreak)
	if errors.Is(err, sql.ErrNoRows) {
		return st, nil
	}
	if err != nil {
		return Stats{}, fmt.Errorf("load stats: %w", err)
	}

	rows, err := q.QueryContext(ctx, `SELECT attempts, wins FROM guess_distribution WHERE player_id=?`, playerID)
	if err != nil {
		return Stats{}, fmt.Errorf("load distribution: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var attempts, wins int
		if err := rows.Scan(&attempts, &wins); err != nil {
			return Stats{}, err
		}
		st.Distribution[attempts] = wins
	}
	return st, rows.Err()
}
