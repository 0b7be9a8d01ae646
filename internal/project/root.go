package project

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ConfigName is the file that marks a knot project root.
const ConfigName = "knot.toml"

// FindConfig looks for knot.toml in startDir ("" is the working
// directory) and then in each parent up to the filesystem root.
func FindConfig(startDir string) (path string, ok bool, err error) {
	dir, err := filepath.Abs(cmp.Or(startDir, "."))
	if err != nil {
		return "", false, fmt.Errorf("resolve %q: %w", startDir, err)
	}
	for prev := ""; dir != prev; prev, dir = dir, filepath.Dir(dir) {
		path = filepath.Join(dir, ConfigName)
		switch _, err := os.Stat(path); {
		case err == nil:
			return path, true, nil
		case !errors.Is(err, fs.ErrNotExist):
			return "", false, fmt.Errorf("stat %q: %w", path, err)
		}
	}
	return "", false, nil
}

// FindProjectRoot is FindConfig returning the directory.
func FindProjectRoot(startDir string) (root string, ok bool, err error) {
	path, ok, err := FindConfig(startDir)
	if !ok {
		return "", false, err
	}
	return filepath.Dir(path), true, nil
}
