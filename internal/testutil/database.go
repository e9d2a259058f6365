package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/bankdash/internal/state"
)

// NewStateStore opens a migrated state store in a temporary directory. It is
// closed when the test ends.
//
// Example:
//
//	store := testutil.NewStateStore(t)
//	loader := loader.New(client, store)
func NewStateStore(t *testing.T) *state.Store {
	t.Helper()

	store, err := state.Open(context.Background(), filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("failed to create state store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close state store: %v", err)
		}
	})
	return store
}

// StateValue reads key from store and fails the test on error.
func StateValue(t *testing.T, store *state.Store, key string) (string, bool) {
	t.Helper()
	v, ok, err := store.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("failed to read %s: %v", key, err)
	}
	return v, ok
}
