package main

import (
	"testing"
)

func TestSettingSetGetRoundTrip(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"setting", "set", "browser_width", "1280"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("setting set: %v", err)
	}
	requireContains(t, out, "browser_width updated")

	out, _, err = runCLI(t, []string{"setting", "get", "browser_width"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("setting get: %v", err)
	}
	requireContains(t, out, "browser_width = 1280")
	requireContains(t, out, "scope: profile")
}

func TestSettingGetDefault(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"setting", "get", "fade_out_seconds"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("setting get: %v", err)
	}
	requireContains(t, out, "fade_out_seconds = 2")
	requireContains(t, out, "default")

	// Once written, the same key reports its scope and profile instead.
	if _, _, err := runCLI(t, []string{"setting", "set", "fade_out_seconds", "5"}, env.socketPath, env.configPath); err != nil {
		t.Fatalf("setting set: %v", err)
	}
	out, _, err = runCLI(t, []string{"setting", "get", "fade_out_seconds"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("setting get after set: %v", err)
	}
	requireContains(t, out, "fade_out_seconds = 5")
	requireContains(t, out, "profile: default")
}

func TestSettingGetUnsetGlobal(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"setting", "get", "music_directory"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("setting get: %v", err)
	}
	requireContains(t, out, "music_directory is not set")
	requireContains(t, out, "scope: global")
}

func TestSettingHasAndDelete(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"setting", "has", "font_size"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("setting has: %v", err)
	}
	requireContains(t, out, "no")

	if _, _, err := runCLI(t, []string{"setting", "set", "font_size", "14"}, env.socketPath, env.configPath); err != nil {
		t.Fatalf("setting set: %v", err)
	}

	out, _, err = runCLI(t, []string{"setting", "has", "font_size"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("setting has: %v", err)
	}
	requireContains(t, out, "yes")

	out, _, err = runCLI(t, []string{"setting", "delete", "font_size"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("setting delete: %v", err)
	}
	requireContains(t, out, "font_size deleted")

	// Deleting an absent key still succeeds.
	out, _, err = runCLI(t, []string{"setting", "delete", "font_size"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	requireContains(t, out, "font_size deleted")
}

func TestSettingList(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"setting", "list"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("setting list: %v", err)
	}
	requireContains(t, out, "browser_width")
	requireContains(t, out, "music_directory")
}

func TestSettingSetStringValue(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"setting", "set", "holding_tank_mode", "playlist"}, env.socketPath, env.configPath); err != nil {
		t.Fatalf("setting set: %v", err)
	}

	out, _, err := runCLI(t, []string{"setting", "get", "holding_tank_mode"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("setting get: %v", err)
	}
	requireContains(t, out, `holding_tank_mode = "playlist"`)
}
