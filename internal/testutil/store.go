// Package testutil provides shared helpers for package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/quadmind/ingestwatch/internal/stats"
)

// SetupTestStore creates a migrated in-memory stats store and registers its
// cleanup with the test.
func SetupTestStore(t *testing.T) *stats.SQLiteStore {
	t.Helper()

	store, err := stats.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create test stats store: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate test stats store: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}
