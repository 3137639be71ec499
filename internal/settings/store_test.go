package settings_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"mxvoice/internal/kvstore"
	"mxvoice/internal/logging"
	"mxvoice/internal/profiles"
	"mxvoice/internal/settings"
)

type fixture struct {
	store    *settings.Store
	global   *kvstore.Store
	profiles *profiles.Manager
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	global, err := kvstore.OpenPath(filepath.Join(dir, "mxvoice.db"))
	if err != nil {
		t.Fatalf("kvstore.OpenPath: %v", err)
	}
	t.Cleanup(func() {
		_ = global.Close()
	})
	mgr, err := profiles.NewManager(filepath.Join(dir, "profiles"), global, logging.NewNop())
	if err != nil {
		t.Fatalf("profiles.NewManager: %v", err)
	}
	store, err := settings.NewStore(global, mgr, logging.NewNop())
	if err != nil {
		t.Fatalf("settings.NewStore: %v", err)
	}
	return fixture{store: store, global: global, profiles: mgr}
}

func TestProfileKeyNeverTouchesGlobalStore(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	if !fx.store.Set(ctx, "browser_width", 1280) {
		t.Fatal("Set browser_width failed")
	}

	// The preference document for the active ("default") profile has the key.
	doc, err := fx.profiles.LoadPreferences(profiles.DefaultProfile)
	if err != nil {
		t.Fatalf("LoadPreferences: %v", err)
	}
	if doc["browser_width"] != float64(1280) {
		t.Fatalf("expected 1280 in profile document, got %#v", doc["browser_width"])
	}

	// The global store stays empty apart from nothing at all.
	keys, err := fx.global.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("expected empty global store, got keys %v", keys)
	}
}

func TestGlobalKeyNeverTouchesProfileDocument(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	if !fx.store.Set(ctx, "music_directory", "/srv/music") {
		t.Fatal("Set music_directory failed")
	}
	doc, err := fx.profiles.LoadPreferences(profiles.DefaultProfile)
	if err != nil {
		t.Fatalf("LoadPreferences: %v", err)
	}
	if len(doc) != 0 {
		t.Fatalf("expected empty profile document, got %#v", doc)
	}
	if got := fx.store.Get(ctx, "music_directory"); got != "/srv/music" {
		t.Fatalf("round trip failed, got %#v", got)
	}
}

func TestProfileRoundTrip(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	if !fx.store.Set(ctx, "holding_tank_mode", "playlist") {
		t.Fatal("Set failed")
	}
	if got := fx.store.Get(ctx, "holding_tank_mode"); got != "playlist" {
		t.Fatalf("expected playlist, got %#v", got)
	}
}

func TestProfileDefaults(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	if got := fx.store.Get(ctx, "fade_out_seconds"); got != 2 {
		t.Fatalf("fade_out_seconds = %#v, want 2", got)
	}
	if got := fx.store.Get(ctx, "holding_tank_mode"); got != "storage" {
		t.Fatalf("holding_tank_mode = %#v, want storage", got)
	}
	if got := fx.store.Get(ctx, "window_state"); got != nil {
		t.Fatalf("window_state = %#v, want nil", got)
	}
}

func TestGlobalGetHasNoDefaultSubstitution(t *testing.T) {
	fx := newFixture(t)

	if got := fx.store.Get(context.Background(), "music_directory"); got != nil {
		t.Fatalf("unset global key = %#v, want nil", got)
	}
}

func TestHasIgnoresDefaults(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	if fx.store.Has(ctx, "fade_out_seconds") {
		t.Fatal("never-written profile key should not report present")
	}
	if !fx.store.Set(ctx, "fade_out_seconds", 5) {
		t.Fatal("Set failed")
	}
	if !fx.store.Has(ctx, "fade_out_seconds") {
		t.Fatal("written key should report present")
	}
}

func TestDeleteSemantics(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	// Deleting a key that never existed succeeds, for both scopes.
	if !fx.store.Delete(ctx, "window_state") {
		t.Fatal("delete of absent profile key should succeed")
	}
	if !fx.store.Delete(ctx, "hotkey_directory") {
		t.Fatal("delete of absent global key should succeed")
	}

	fx.store.Set(ctx, "window_state", map[string]any{"x": 10})
	if !fx.store.Delete(ctx, "window_state") {
		t.Fatal("Delete failed")
	}
	if fx.store.Has(ctx, "window_state") {
		t.Fatal("deleted key still present")
	}

	fx.store.Set(ctx, "hotkey_directory", "/srv/hotkeys")
	if !fx.store.Delete(ctx, "hotkey_directory") {
		t.Fatal("Delete global failed")
	}
	if fx.store.Has(ctx, "hotkey_directory") {
		t.Fatal("deleted global key still present")
	}
}

func TestUnclassifiedKeyRoutesToGlobalStore(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	if !fx.store.Set(ctx, "experimental_flag", true) {
		t.Fatal("Set failed")
	}
	value, ok, err := fx.global.Get(ctx, "experimental_flag")
	if err != nil || !ok {
		t.Fatalf("expected key in global store, ok=%v err=%v", ok, err)
	}
	if value != true {
		t.Fatalf("expected true, got %#v", value)
	}
	doc, err := fx.profiles.LoadPreferences(profiles.DefaultProfile)
	if err != nil {
		t.Fatalf("LoadPreferences: %v", err)
	}
	if len(doc) != 0 {
		t.Fatalf("profile document should be untouched, got %#v", doc)
	}
}

func TestSwitchProfileIsolatesDocuments(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	fx.store.Set(ctx, "browser_width", 800)

	if !fx.store.SwitchProfile(ctx, "wedding") {
		t.Fatal("SwitchProfile failed")
	}
	if fx.store.ActiveProfile(ctx) != "wedding" {
		t.Fatalf("active profile = %s", fx.store.ActiveProfile(ctx))
	}

	// New profile sees the static default, not the other profile's value.
	if got := fx.store.Get(ctx, "browser_width"); got != 1280 {
		t.Fatalf("expected default 1280 on fresh profile, got %#v", got)
	}

	fx.store.Set(ctx, "browser_width", 640)

	// Previous profile's stored document is unchanged.
	doc, err := fx.profiles.LoadPreferences(profiles.DefaultProfile)
	if err != nil {
		t.Fatalf("LoadPreferences: %v", err)
	}
	if doc["browser_width"] != float64(800) {
		t.Fatalf("default profile document mutated: %#v", doc["browser_width"])
	}

	fx.store.SwitchProfile(ctx, profiles.DefaultProfile)
	if got := fx.store.Get(ctx, "browser_width"); got != float64(800) {
		t.Fatalf("expected 800 after switching back, got %#v", got)
	}
}

func TestSwitchProfileRejectsBadName(t *testing.T) {
	fx := newFixture(t)
	if fx.store.SwitchProfile(context.Background(), "../escape") {
		t.Fatal("expected SwitchProfile to fail for path-like name")
	}
}

func TestBulkPreferences(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	if !fx.store.SaveProfilePreferences(ctx, profiles.Document{"font_size": 14, "screen_mode": "dark"}) {
		t.Fatal("SaveProfilePreferences failed")
	}
	doc := fx.store.ProfilePreferences(ctx)
	if doc["screen_mode"] != "dark" || doc["font_size"] != float64(14) {
		t.Fatalf("unexpected document: %#v", doc)
	}
}

func TestConcurrentProfileWritesDoNotLoseUpdates(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		fx.store.Set(ctx, "browser_width", 1024)
	}()
	go func() {
		defer wg.Done()
		fx.store.Set(ctx, "font_size", 16)
	}()
	wg.Wait()

	doc, err := fx.profiles.LoadPreferences(profiles.DefaultProfile)
	if err != nil {
		t.Fatalf("LoadPreferences: %v", err)
	}
	if doc["browser_width"] != float64(1024) {
		t.Fatalf("browser_width lost: %#v", doc)
	}
	if doc["font_size"] != float64(16) {
		t.Fatalf("font_size lost: %#v", doc)
	}
}
