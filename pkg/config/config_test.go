package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/RemieJanssen/NetworkGenerators/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		path := writeConfig(t, `
[defaults]
tips = 200
beta = -1.0

[profile.benchmark]
reticulations = 25
stop_prob = 0.3
seed = 42

[profile.small]
tips = 10
`)
		f, err := Load(path)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}

		if f.Defaults.Tips == nil || *f.Defaults.Tips != 200 {
			t.Errorf("Defaults.Tips = %v, want 200", f.Defaults.Tips)
		}
		if f.Defaults.Beta == nil || *f.Defaults.Beta != -1.0 {
			t.Errorf("Defaults.Beta = %v, want -1.0", f.Defaults.Beta)
		}
		if f.Defaults.Reticulations != nil {
			t.Errorf("Defaults.Reticulations = %v, want nil", f.Defaults.Reticulations)
		}

		if got := f.Names(); !slices.Equal(got, []string{"benchmark", "small"}) {
			t.Errorf("Names() = %v, want [benchmark small]", got)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		path := writeConfig(t, `tips = [not toml`)
		if _, err := Load(path); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("err = %v, want INVALID_INPUT", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := Load("nonexistent.toml"); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestResolve(t *testing.T) {
	path := writeConfig(t, `
[defaults]
tips = 200
beta = -1.0

[profile.benchmark]
tips = 500
seed = 42
`)
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	t.Run("empty name returns defaults", func(t *testing.T) {
		p, err := f.Resolve("")
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if p.Tips == nil || *p.Tips != 200 {
			t.Errorf("Tips = %v, want 200", p.Tips)
		}
		if p.Seed != nil {
			t.Errorf("Seed = %v, want nil", p.Seed)
		}
	})

	t.Run("profile overrides defaults", func(t *testing.T) {
		p, err := f.Resolve("benchmark")
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if p.Tips == nil || *p.Tips != 500 {
			t.Errorf("Tips = %v, want 500 (profile wins)", p.Tips)
		}
		if p.Beta == nil || *p.Beta != -1.0 {
			t.Errorf("Beta = %v, want -1.0 (inherited from defaults)", p.Beta)
		}
		if p.Seed == nil || *p.Seed != 42 {
			t.Errorf("Seed = %v, want 42", p.Seed)
		}
	})

	t.Run("unknown profile", func(t *testing.T) {
		_, err := f.Resolve("missing")
		if !errors.Is(err, errors.ErrCodeNotFound) {
			t.Errorf("err = %v, want NOT_FOUND", err)
		}
	})
}

func TestLocate(t *testing.T) {
	t.Run("explicit path", func(t *testing.T) {
		path := writeConfig(t, "[defaults]\n")
		got, found := Locate(path)
		if !found || got != path {
			t.Errorf("Locate(%q) = (%q, %v), want (%q, true)", path, got, found, path)
		}
	})

	t.Run("explicit missing", func(t *testing.T) {
		if _, found := Locate("does-not-exist.toml"); found {
			t.Error("found = true for missing explicit path")
		}
	})

	t.Run("xdg fallback", func(t *testing.T) {
		configHome := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", configHome)

		dir := filepath.Join(configHome, "netgen")
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
		path := filepath.Join(dir, FileName)
		if err := os.WriteFile(path, []byte("[defaults]\n"), 0644); err != nil {
			t.Fatal(err)
		}

		got, found := Locate("")
		if !found || got != path {
			t.Errorf("Locate(\"\") = (%q, %v), want (%q, true)", got, found, path)
		}
	})
}
