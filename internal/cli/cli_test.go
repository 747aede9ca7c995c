package cli

import (
	"io"
	"testing"
)

func TestRootCommand(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	if root.Use != "netgen" {
		t.Errorf("Use = %q, want %q", root.Use, "netgen")
	}

	want := []string{"generate", "render", "serve", "runs", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestGenerateFlags(t *testing.T) {
	c := New(io.Discard, LogInfo)
	cmd := c.generateCommand()

	for _, flag := range []string{
		"tips", "beta", "reticulations", "local", "seed", "format",
		"output", "profile", "config", "interactive", "max-tries",
		"max-steps", "no-cache", "refresh", "archive", "mongo-uri",
	} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("flag --%s not registered", flag)
		}
	}

	if got := cmd.Flags().Lookup("tips").DefValue; got != "100" {
		t.Errorf("tips default = %s, want 100", got)
	}
	if got := cmd.Flags().Lookup("reticulations").DefValue; got != "10" {
		t.Errorf("reticulations default = %s, want 10", got)
	}
	if got := cmd.Flags().Lookup("format").DefValue; got != "el" {
		t.Errorf("format default = %s, want el", got)
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir: %v", err)
	}
	if dir != "/tmp/xdg-cache/netgen" {
		t.Errorf("cacheDir() = %q, want %q", dir, "/tmp/xdg-cache/netgen")
	}
}
