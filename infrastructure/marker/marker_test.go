package marker

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "markers.db"))
	if err != nil {
		t.Fatalf("Open() unexpected error: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestStore_MarkAndLookup(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	posted, err := store.IsPosted(ctx, "3|2025-03-14 09:30")
	if err != nil {
		t.Fatalf("IsPosted() unexpected error: %v", err)
	}
	if posted {
		t.Fatalf("IsPosted() on fresh store = true, want false")
	}

	if err := store.MarkPosted(ctx, "3|2025-03-14 09:30", "555"); err != nil {
		t.Fatalf("MarkPosted() unexpected error: %v", err)
	}

	posted, err = store.IsPosted(ctx, "3|2025-03-14 09:30")
	if err != nil {
		t.Fatalf("IsPosted() unexpected error: %v", err)
	}
	if !posted {
		t.Fatalf("IsPosted() after MarkPosted = false, want true")
	}

	// Distinct keys stay independent.
	posted, err = store.IsPosted(ctx, "4|2025-03-14 09:30")
	if err != nil {
		t.Fatalf("IsPosted() unexpected error: %v", err)
	}
	if posted {
		t.Fatalf("IsPosted() for unmarked key = true, want false")
	}
}

func TestStore_MarkPostedIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.MarkPosted(ctx, "k", "1"); err != nil {
		t.Fatalf("MarkPosted() unexpected error: %v", err)
	}
	if err := store.MarkPosted(ctx, "k", "1"); err != nil {
		t.Fatalf("MarkPosted() repeat unexpected error: %v", err)
	}
}
