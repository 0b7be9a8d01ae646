package source

import (
	"bytes"
	"fmt"
	"path/filepath"
	"slices"

	"fortio.org/safecast"
)

// FileID indexes a FileSet. Reloading a path yields a new ID; old spans
// keep pointing at the content they were lexed from.
type FileID uint32

// FileFlags records what happened to a file on the way in.
type FileFlags uint8

const (
	FileVirtual        FileFlags = 1 << iota // REPL line, stdin, test
	FileHadBOM                               // a UTF-8 BOM was stripped
	FileNormalizedCRLF                       // \r\n became \n
)

// Digest is the blake3 sum of normalized content; the token cache keys on it.
type Digest [32]byte

type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of every '\n', ascending
	Hash    Digest
	Flags   FileFlags
}

// LineCol is a 1-based position for humans.
type LineCol struct {
	Line, Col uint32
}

// position maps a byte offset; a '\n' belongs to the line it ends.
func (f *File) position(off uint32) LineCol {
	before, _ := slices.BinarySearch(f.LineIdx, off)
	var lineStart uint32
	if before > 0 {
		lineStart = f.LineIdx[before-1] + 1
	}
	return LineCol{Line: offset(before) + 1, Col: off - lineStart + 1}
}

// GetLine returns line n (1-based) without its '\n', or "" past the end.
func (f *File) GetLine(n uint32) string {
	if n == 0 || int(n) > len(f.LineIdx)+1 {
		return ""
	}
	start, end := 0, len(f.Content)
	if n > 1 {
		start = int(f.LineIdx[n-2]) + 1
	}
	if int(n) <= len(f.LineIdx) {
		end = int(f.LineIdx[n-1])
	}
	if start > end {
		return ""
	}
	return string(f.Content[start:end])
}

func indexLines(content []byte) []uint32 {
	idx := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for off, b := range content {
		if b == '\n' {
			idx = append(idx, offset(off))
		}
	}
	return idx
}

// offset converts a length or index; files past 4 GiB are not supported.
func offset(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("source offset overflow: %w", err))
	}
	return v
}

var bom = []byte{0xEF, 0xBB, 0xBF}

// normalize strips a leading BOM and folds \r\n to \n; lone \r stays.
func normalize(content []byte) ([]byte, FileFlags) {
	var flags FileFlags
	if rest, ok := bytes.CutPrefix(content, bom); ok {
		content, flags = rest, flags|FileHadBOM
	}
	if bytes.Contains(content, []byte("\r\n")) {
		content, flags = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n")), flags|FileNormalizedCRLF
	}
	return content, flags
}

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
