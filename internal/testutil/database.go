// Package testutil provides shared helpers for tests that need a real,
// migrated store.
package testutil

import (
	"context"
	"testing"

	"github.com/verdantlabs/ecocycle/internal/rewards"
	"github.com/verdantlabs/ecocycle/internal/storage"
)

// SetupTestStore creates an in-memory SQLite store with migrations applied and
// cleanup registered. Points are computed with the default reward config.
func SetupTestStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()

	store, err := storage.NewSQLiteStore(":memory:", rewards.New(rewards.DefaultConfig()))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}
