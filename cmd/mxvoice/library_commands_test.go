package main

import (
	"testing"
)

func TestLibraryAddSearchRemove(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{
		"library", "add", "Entrance Theme", "entrance.mp3",
		"--artist", "House Band", "--category", "Walk-on", "--duration", "93",
	}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("library add: %v", err)
	}
	requireContains(t, out, "Added song 1: Entrance Theme")

	out, _, err = runCLI(t, []string{"library", "search", "house"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("library search: %v", err)
	}
	requireContains(t, out, "Entrance Theme")
	requireContains(t, out, "1:33")

	out, _, err = runCLI(t, []string{"library", "list"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("library list: %v", err)
	}
	requireContains(t, out, "House Band")

	out, _, err = runCLI(t, []string{"library", "remove", "1"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("library remove: %v", err)
	}
	requireContains(t, out, "Removed song 1")

	out, _, err = runCLI(t, []string{"library", "list"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("library list: %v", err)
	}
	requireContains(t, out, "No songs found")
}

func TestLibraryRemoveInvalidID(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"library", "remove", "abc"}, env.socketPath, env.configPath); err == nil {
		t.Fatal("expected error for non-numeric id")
	}
}
