package source

import (
	"os"

	"github.com/zeebo/blake3"
)

// FileSet owns every source a session has seen. REPL lines and stdin
// scripts are added as virtual files so that any span resolves to a line.
type FileSet struct {
	files  []File
	latest map[string]FileID
}

func NewFileSet() *FileSet {
	return &FileSet{latest: map[string]FileID{}}
}

// Add stores content as is under a fresh ID, even when path is known.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	id := FileID(offset(len(fs.files)))
	path = normalizePath(path)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    path,
		Content: content,
		LineIdx: indexLines(content),
		Hash:    Digest(blake3.Sum256(content)),
		Flags:   flags,
	})
	fs.latest[path] = id
	return id
}

// AddBytes is Add after BOM and CRLF normalization.
func (fs *FileSet) AddBytes(path string, content []byte, flags FileFlags) FileID {
	content, extra := normalize(content)
	return fs.Add(path, content, flags|extra)
}

// AddVirtual adds in-memory text (stdin, a REPL line, a test).
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.AddBytes(name, content, FileVirtual)
}

// Load reads path from disk.
func (fs *FileSet) Load(path string) (FileID, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- user-supplied program path
	if err != nil {
		return 0, err
	}
	return fs.AddBytes(path, content, 0), nil
}

// Get returns nil for an unknown id.
func (fs *FileSet) Get(id FileID) *File {
	if int(id) < len(fs.files) {
		return &fs.files[id]
	}
	return nil
}

// GetLatest finds the newest version of path.
func (fs *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fs.latest[normalizePath(path)]
	return id, ok
}

func (fs *FileSet) Len() int { return len(fs.files) }

// Resolve turns a span into line/column pairs; unknown files map to 1:1.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fs.Get(span.File)
	if f == nil {
		return LineCol{1, 1}, LineCol{1, 1}
	}
	return f.position(span.Start), f.position(span.End)
}
