package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	store := NewMemoryStore(0)
	defer store.Close()
	store.now = func() time.Time { return now }

	if err := store.Set(ctx, "agenda:1", "cached", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, ok, err := store.Get(ctx, "agenda:1")
	if err != nil || !ok || got != "cached" {
		t.Fatalf("Get() = %q, %v, %v; want cached, true, nil", got, ok, err)
	}

	now = now.Add(2 * time.Minute)
	if _, ok, _ := store.Get(ctx, "agenda:1"); ok {
		t.Error("Get() after expiry ok = true, want false")
	}

	store.sweep()
	if store.Len() != 0 {
		t.Errorf("Len() after sweep = %d, want 0", store.Len())
	}
}

func TestMemoryStoreDeleteAndNoExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	defer store.Close()

	_ = store.Set(ctx, "k", "v", 0)
	store.now = func() time.Time { return time.Now().Add(24 * time.Hour) }
	if _, ok, _ := store.Get(ctx, "k"); !ok {
		t.Error("Get() of key without ttl ok = false, want true")
	}

	_ = store.Delete(ctx, "k")
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Error("Get() after Delete ok = true, want false")
	}
}

func TestMemoryStoreCloseIsIdempotent(t *testing.T) {
	store := NewMemoryStore(time.Millisecond)
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}
