package badger

import (
	"testing"
)

// NewMemoryStore opens an in-memory store for tests and registers cleanup.
func NewMemoryStore(t *testing.T) *Store {
	t.Helper()

	store, err := OpenStore("", true)
	if err != nil {
		t.Fatalf("failed to open in-memory store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return store
}
