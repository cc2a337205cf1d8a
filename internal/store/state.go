package store

import (
	"context"
	"fmt"
	"time"
)

// SyncState is the persisted per-account sync bookkeeping.
type SyncState struct {
	// LastSync is the start time of the last successful run, zero if none.
	LastSync time.Time

	// FullResync requests that the next run download everything.
	FullResync bool
}

// SyncState reads the state of account. A missing row is the zero state.
func (s *Store) SyncState(ctx context.Context, account string) (SyncState, error) {
	var (
		last int64
		full int
	)
	rows, err := s.db.QueryContext(ctx, "SELECT last_sync, full_resync FROM sync_state WHERE account = ?", account)
	if err != nil {
		return SyncState{}, fmt.Errorf("query sync state: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&last, &full); err != nil {
			return SyncState{}, fmt.Errorf("scan sync state: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return SyncState{}, fmt.Errorf("query sync state: %w", err)
	}

	st := SyncState{FullResync: full != 0}
	if last != 0 {
		st.LastSync = time.UnixMilli(last)
	}
	return st, nil
}

// MarkSynced records a successful run that started at t and clears a
// pending full resync request.
func (s *Store) MarkSynced(ctx context.Context, account string, t time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sync_state (account, last_sync, full_resync) VALUES (?, ?, 0)
		 ON CONFLICT(account) DO UPDATE SET last_sync = excluded.last_sync, full_resync = 0`,
		account, t.UnixMilli())
	if err != nil {
		return fmt.Errorf("save last sync: %w", err)
	}
	return nil
}

// RequestFullResync asks the next successful run to download everything.
// The flag stays set until MarkSynced.
func (s *Store) RequestFullResync(ctx context.Context, account string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sync_state (account, full_resync) VALUES (?, 1)
		 ON CONFLICT(account) DO UPDATE SET full_resync = 1`,
		account)
	if err != nil {
		return fmt.Errorf("request full resync: %w", err)
	}
	return nil
}
