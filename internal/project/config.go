package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config mirrors knot.toml. Zero values mean "use the default".
type Config struct {
	Run   RunConfig   `toml:"run"`
	REPL  REPLConfig  `toml:"repl"`
	Cache CacheConfig `toml:"cache"`
	Log   LogConfig   `toml:"log"`
	Check CheckConfig `toml:"check"`

	// Path is the file the config was read from, "" for defaults.
	Path string `toml:"-"`
	// Unknown lists keys present in the file that knot does not understand.
	Unknown []string `toml:"-"`
}

type RunConfig struct {
	MaxDepth int `toml:"max_depth"`
}

type REPLConfig struct {
	Prompt  string `toml:"prompt"`
	History string `toml:"history"` // "" disables persistence
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type CheckConfig struct {
	Jobs int `toml:"jobs"`
}

// Default returns the configuration used when no knot.toml exists.
func Default() Config {
	return Config{
		Run:   RunConfig{MaxDepth: 2000},
		REPL:  REPLConfig{Prompt: "knot> ", History: "~/.knot_history.db"},
		Cache: CacheConfig{Enabled: true},
		Log:   LogConfig{Level: "warn"},
	}
}

// Load decodes path on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	cfg.Path = path
	for _, key := range meta.Undecoded() {
		cfg.Unknown = append(cfg.Unknown, key.String())
	}
	if cfg.Run.MaxDepth < 0 {
		return Config{}, fmt.Errorf("%s: [run].max_depth must not be negative", path)
	}
	if cfg.Check.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [check].jobs must not be negative", path)
	}
	return cfg, nil
}

// Discover finds knot.toml above startDir and loads it; without one it
// returns the defaults.
func Discover(startDir string) (Config, error) {
	path, ok, err := FindConfig(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// HistoryPath resolves the REPL history database path, "" when disabled.
func (c Config) HistoryPath() string {
	return ExpandHome(strings.TrimSpace(c.REPL.History))
}

// CacheDir resolves the token cache directory, "" when the cache is off.
func (c Config) CacheDir() string {
	if !c.Cache.Enabled {
		return ""
	}
	if dir := strings.TrimSpace(c.Cache.Dir); dir != "" {
		return ExpandHome(dir)
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "knot")
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
