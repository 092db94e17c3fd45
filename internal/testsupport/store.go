package testsupport

import (
	"testing"

	"surveymatch/internal/config"
	"surveymatch/internal/history"
)

// MustOpenStore opens the run journal for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg.HistoryDBPath())
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
