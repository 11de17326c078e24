package kvstore

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryGetMissing(t *testing.T) {
	store := NewMemory()
	_, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryCopiesValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	value := []byte("abc")
	if err := store.Set(ctx, "k", value); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	value[0] = 'z'

	stored, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(stored) != "abc" {
		t.Fatalf("expected stored value to be isolated, got %q", stored)
	}
}

func TestCacheDiscardLeavesParentUntouched(t *testing.T) {
	ctx := context.Background()
	parent := NewMemory()
	cache := NewCache(parent)

	if err := cache.Set(ctx, "denom", []byte(`"sub"`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cache.Dirty() {
		t.Fatal("expected dirty cache after write")
	}
	if _, err := cache.Get(ctx, "denom"); err != nil {
		t.Fatalf("expected cache read-your-writes, got %v", err)
	}

	cache.Discard()
	if parent.Len() != 0 {
		t.Fatalf("expected empty parent, got %d keys", parent.Len())
	}
	if _, err := cache.Get(ctx, "denom"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after discard, got %v", err)
	}
}

func TestCacheCommitFlushesWrites(t *testing.T) {
	ctx := context.Background()
	parent := NewMemory()
	cache := NewCache(parent)

	_ = cache.Set(ctx, "a", []byte("1"))
	_ = cache.Set(ctx, "b", []byte("2"))
	_ = cache.Set(ctx, "a", []byte("3"))

	if err := cache.Commit(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.Dirty() {
		t.Fatal("expected clean cache after commit")
	}
	value, err := parent.Get(ctx, "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(value) != "3" {
		t.Fatalf("expected last write to win, got %q", value)
	}
	if parent.Len() != 2 {
		t.Fatalf("expected 2 keys, got %d", parent.Len())
	}
}

func TestItemRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	item := NewItem[[]string]("answers")

	_, ok, err := item.MayLoad(ctx, store)
	if err != nil || ok {
		t.Fatalf("expected missing item, got ok=%v err=%v", ok, err)
	}

	if err := item.Save(ctx, store, []string{"a", "c"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	loaded, err := item.Load(ctx, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(loaded) != 2 || loaded[0] != "a" || loaded[1] != "c" {
		t.Fatalf("unexpected value: %v", loaded)
	}
}

func TestItemLoadCorrupt(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	_ = store.Set(ctx, "n", []byte("{not-json"))

	item := NewItem[int]("n")
	if _, err := item.Load(ctx, store); err == nil {
		t.Fatal("expected decode error")
	}
}
