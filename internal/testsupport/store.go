package testsupport

import (
	"context"
	"testing"

	"tichme/internal/config"
	"tichme/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// MustCounts returns the row count of every table keyed by table name.
func MustCounts(t testing.TB, st *store.Store) map[string]int64 {
	t.Helper()

	counts, err := st.CountMap(context.Background())
	if err != nil {
		t.Fatalf("store.CountMap: %v", err)
	}
	return counts
}
