package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"gtasksync/internal/store"
)

// Clock is a settable clock for stores and syncers under test.
type Clock struct {
	Now time.Time
}

// Func returns the clock as a time source.
func (c *Clock) Func() func() time.Time {
	return func() time.Time { return c.Now }
}

// OpenStore opens a fresh database in a temporary directory.
// Due dates are read back in UTC.
func OpenStore(t testing.TB, clock *Clock) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "gtasksync.db"),
		store.WithClock(clock.Func()),
		store.WithLocation(time.UTC))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}
