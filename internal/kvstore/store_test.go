package kvstore_test

import (
	"context"
	"path/filepath"
	"testing"

	"mxvoice/internal/kvstore"
)

func openStore(t *testing.T) *kvstore.Store {
	t.Helper()
	store, err := kvstore.OpenPath(filepath.Join(t.TempDir(), "mxvoice.db"))
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestSetGetRoundTrip(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "music_directory", "/srv/music"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	value, ok, err := store.Get(ctx, "music_directory")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected key to exist")
	}
	if value != "/srv/music" {
		t.Fatalf("expected /srv/music, got %#v", value)
	}
}

func TestGetMissingKey(t *testing.T) {
	store := openStore(t)

	value, ok, err := store.Get(context.Background(), "never_set")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok || value != nil {
		t.Fatalf("expected missing key, got ok=%v value=%#v", ok, value)
	}
}

func TestSetReplacesValue(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "first_run_completed", false); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Set(ctx, "first_run_completed", true); err != nil {
		t.Fatalf("Set replace: %v", err)
	}
	value, ok, err := store.Get(ctx, "first_run_completed")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if value != true {
		t.Fatalf("expected true, got %#v", value)
	}
}

func TestHasAndDelete(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "hotkey_directory", "/srv/hotkeys"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	has, err := store.Has(ctx, "hotkey_directory")
	if err != nil || !has {
		t.Fatalf("expected key present, has=%v err=%v", has, err)
	}

	if err := store.Delete(ctx, "hotkey_directory"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	has, err = store.Has(ctx, "hotkey_directory")
	if err != nil || has {
		t.Fatalf("expected key removed, has=%v err=%v", has, err)
	}

	// Deleting an absent key is a no-op.
	if err := store.Delete(ctx, "hotkey_directory"); err != nil {
		t.Fatalf("Delete absent: %v", err)
	}
}

func TestKeysSorted(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	for _, key := range []string{"zeta", "alpha", "mid"} {
		if err := store.Set(ctx, key, 1); err != nil {
			t.Fatalf("Set %s: %v", key, err)
		}
	}
	keys, err := store.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	want := []string{"alpha", "mid", "zeta"}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(keys))
	}
	for i, key := range want {
		if keys[i] != key {
			t.Fatalf("expected %s at %d, got %s", key, i, keys[i])
		}
	}
}

func TestJSONNumbersDecodeAsFloat(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "browser_width", 1280); err != nil {
		t.Fatalf("Set: %v", err)
	}
	value, ok, err := store.Get(ctx, "browser_width")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if value != float64(1280) {
		t.Fatalf("expected float64(1280) from JSON decode, got %#v", value)
	}
}
