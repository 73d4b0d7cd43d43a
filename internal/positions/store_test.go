package positions

import (
	"context"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, "album:5"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := store.Set(ctx, "album:5", 3); err != nil {
		t.Fatalf("set: %v", err)
	}

	position, ok, err := store.Get(ctx, "album:5")
	if err != nil || !ok || position != 3 {
		t.Fatalf("expected 3, got %d ok=%v err=%v", position, ok, err)
	}

	if err := store.Clear(ctx, "album:5"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "album:5"); ok {
		t.Fatal("expected cleared position to miss")
	}
}

func TestMemoryStoreKeysAreIndependent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Set(ctx, "album:1", 1); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, "primary:9", 4); err != nil {
		t.Fatalf("set: %v", err)
	}

	if position, _, _ := store.Get(ctx, "album:1"); position != 1 {
		t.Fatalf("unexpected position %d", position)
	}
	if position, _, _ := store.Get(ctx, "primary:9"); position != 4 {
		t.Fatalf("unexpected position %d", position)
	}
}
