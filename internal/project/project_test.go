package project

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ConfigName), `
[run]
max_depth = 50
[repl]
prompt = ">> "
history = ""
[log]
level = "debug"
[extra]
thing = 1
`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Discover(nested)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Run.MaxDepth != 50 || cfg.REPL.Prompt != ">> " || cfg.Log.Level != "debug" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.HistoryPath() != "" {
		t.Fatalf("empty history should disable persistence, got %q", cfg.HistoryPath())
	}
	// untouched sections keep their defaults
	if !cfg.Cache.Enabled {
		t.Fatalf("cache default lost")
	}
	if !slices.Contains(cfg.Unknown, "extra.thing") {
		t.Fatalf("unknown = %v", cfg.Unknown)
	}

	got, ok, err := FindProjectRoot(nested)
	if err != nil || !ok {
		t.Fatalf("FindProjectRoot: %v %v", ok, err)
	}
	want, _ := filepath.Abs(root)
	if got != want {
		t.Fatalf("root = %q, want %q", got, want)
	}
}

func TestDiscoverDefaults(t *testing.T) {
	cfg, err := Discover(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path != "" || cfg.Run.MaxDepth != 2000 || cfg.REPL.Prompt != "knot> " {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadRejects(t *testing.T) {
	cases := map[string]string{
		"syntax":         "[run\nmax_depth = 1",
		"negative depth": "[run]\nmax_depth = -1",
		"negative jobs":  "[check]\njobs = -2",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ConfigName)
			writeFile(t, path, src)
			if _, err := Load(path); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestCacheDir(t *testing.T) {
	cfg := Default()
	cfg.Cache.Dir = "/tmp/knot-cache"
	if cfg.CacheDir() != "/tmp/knot-cache" {
		t.Fatalf("CacheDir = %q", cfg.CacheDir())
	}
	cfg.Cache.Enabled = false
	if cfg.CacheDir() != "" {
		t.Fatalf("disabled cache still has a dir")
	}
}

func TestCombine(t *testing.T) {
	var d Digest
	d[0] = 1
	if Combine(d, "a", "b") == Combine(d, "ab") {
		t.Fatalf("salt boundaries are not separated")
	}
	if Combine(d, "v1") != Combine(d, "v1") {
		t.Fatalf("Combine is not deterministic")
	}
}
