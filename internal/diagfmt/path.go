package diagfmt

import (
	"os"
	"path/filepath"

	"knot/internal/source"
)

// displayPath renders f.Path per mode. Virtual files (REPL lines, stdin)
// keep their name in every mode; failures fall back to the loaded path.
func displayPath(f *source.File, mode PathMode, base string) string {
	switch {
	case f == nil:
		return "<unknown>"
	case f.Flags&source.FileVirtual != 0, mode == PathModeAuto:
		return f.Path
	case mode == PathModeBasename:
		return filepath.Base(f.Path)
	}
	abs, err := filepath.Abs(f.Path)
	if err != nil {
		return f.Path
	}
	if mode == PathModeRelative {
		if base == "" {
			base, _ = os.Getwd()
		}
		rel, err := filepath.Rel(base, abs)
		if err != nil {
			return f.Path
		}
		abs = rel
	}
	return filepath.ToSlash(abs)
}
