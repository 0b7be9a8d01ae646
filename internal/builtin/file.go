package builtin

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"knot/internal/diag"
	"knot/internal/source"
	"knot/internal/value"
)

const (
	fileTypeKey = "__type__"
	fileIDKey   = "__id__"
)

type openFile struct {
	file   *os.File
	path   string
	mode   string
	reader *bufio.Reader
	writer *bufio.Writer
}

// FileTable is the registry of open handles. Handle values are dicts
// {__type__: "file", __id__: N} that index into it.
type FileTable struct {
	files map[int64]*openFile
	next  int64
}

func NewFileTable() *FileTable {
	return &FileTable{files: make(map[int64]*openFile)}
}

func fileErr(format string, args ...any) error {
	return diag.Newf(diag.RunFileHandle, 0, source.Span{}, format, args...)
}

// openFlags maps r w a r+ w+ a+ to os flags.
func openFlags(mode string) (int, bool) {
	switch strings.TrimSuffix(mode, "b") {
	case "r":
		return os.O_RDONLY, true
	case "w":
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC, true
	case "a":
		return os.O_WRONLY | os.O_CREATE | os.O_APPEND, true
	case "r+":
		return os.O_RDWR, true
	case "w+":
		return os.O_RDWR | os.O_CREATE | os.O_TRUNC, true
	case "a+":
		return os.O_RDWR | os.O_CREATE | os.O_APPEND, true
	}
	return 0, false
}

// Open opens path and returns the handle value.
func (t *FileTable) Open(path, mode string) (value.Value, error) {
	if path == "" || strings.IndexByte(path, 0) >= 0 {
		return value.Value{}, fileErr("invalid path %s", value.Quote(path))
	}
	flags, ok := openFlags(mode)
	if !ok {
		return value.Value{}, fileErr("invalid file mode %s", value.Quote(mode))
	}
	// #nosec G302,G304 -- permissions follow POSIX defaults; path comes from program input.
	f, err := os.OpenFile(path, flags, 0o666)
	if err != nil {
		return value.Value{}, fileErr("cannot open %s: %v", value.Quote(path), unwrapPathErr(err))
	}
	t.next++
	id := t.next
	entry := &openFile{file: f, path: path, mode: mode}
	if flags == os.O_RDONLY || flags&os.O_RDWR != 0 {
		entry.reader = bufio.NewReader(f)
	}
	if flags != os.O_RDONLY {
		entry.writer = bufio.NewWriter(f)
	}
	t.files[id] = entry
	return handleValue(id)
}

func unwrapPathErr(err error) error {
	var pe *os.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	return err
}

func handleValue(id int64) (value.Value, error) {
	return value.DictFrom(
		[]value.Value{value.StringValue(fileTypeKey), value.StringValue(fileIDKey)},
		[]value.Value{value.StringValue("file"), value.IntValue(id)},
	)
}

// IsFileHandle reports whether v has the file-handle dict shape.
func IsFileHandle(v value.Value) bool {
	_, ok := handleID(v)
	return ok
}

func handleID(v value.Value) (int64, bool) {
	if v.Kind() != value.Dict || v.Len() != 2 {
		return 0, false
	}
	tag, ok, err := v.Get(value.StringValue(fileTypeKey))
	if err != nil || !ok || tag.Kind() != value.String || tag.Str() != "file" {
		return 0, false
	}
	id, ok, err := v.Get(value.StringValue(fileIDKey))
	if err != nil || !ok || !id.Kind().IsInteger() {
		return 0, false
	}
	return id.Int(), true
}

func (t *FileTable) entry(v value.Value) (*openFile, error) {
	id, ok := handleID(v)
	if !ok {
		return nil, fileErr("expected a file handle, got '%s'", v.Kind())
	}
	f := t.files[id]
	if f == nil {
		return nil, fileErr("file handle %d is closed", id)
	}
	return f, nil
}

// IsOpen reports whether the handle refers to an open file.
func (t *FileTable) IsOpen(v value.Value) bool {
	id, ok := handleID(v)
	return ok && t.files[id] != nil
}

// Close flushes and closes the handle.
func (t *FileTable) Close(v value.Value) error {
	f, err := t.entry(v)
	if err != nil {
		return err
	}
	id, _ := handleID(v)
	delete(t.files, id)
	var flushErr error
	if f.writer != nil {
		flushErr = f.writer.Flush()
	}
	if cerr := f.file.Close(); cerr != nil && flushErr == nil {
		flushErr = cerr
	}
	if flushErr != nil {
		return fileErr("close %s: %v", value.Quote(f.path), flushErr)
	}
	return nil
}

// Release is the cleanup hook of `let NAME be EXPR`: open handles are
// closed, anything else is left alone.
func (t *FileTable) Release(v value.Value) error {
	if !t.IsOpen(v) {
		return nil
	}
	return t.Close(v)
}

// CloseAll closes every open handle (interpreter shutdown, wipe).
func (t *FileTable) CloseAll() error {
	var errs []error
	for id, f := range t.files {
		if f.writer != nil {
			errs = append(errs, f.writer.Flush())
		}
		errs = append(errs, f.file.Close())
		delete(t.files, id)
	}
	return errors.Join(errs...)
}

// Len is the number of open handles.
func (t *FileTable) Len() int { return len(t.files) }

func (f *openFile) readable() error {
	if f.reader == nil {
		return fileErr("file %s is not open for reading (mode %s)", value.Quote(f.path), value.Quote(f.mode))
	}
	// pending writes must reach the file before reading it back
	if f.writer != nil {
		if err := f.writer.Flush(); err != nil {
			return fileErr("flush %s: %v", value.Quote(f.path), err)
		}
	}
	return nil
}

func (f *openFile) writable() error {
	if f.writer == nil {
		return fileErr("file %s is not open for writing (mode %s)", value.Quote(f.path), value.Quote(f.mode))
	}
	return nil
}

func openHandle(env *Env, path, mode value.Value) (value.Value, error) {
	p, err := wantString("open", path)
	if err != nil {
		return value.Value{}, err
	}
	m, err := wantString("open", mode)
	if err != nil {
		return value.Value{}, err
	}
	return env.Files.Open(p, m)
}

func fileMethod(fn func(f *openFile, args []value.Value) (value.Value, error)) Method {
	return func(env *Env, recv value.Value, args []value.Value) (Result, error) {
		f, err := env.Files.entry(recv)
		if err != nil {
			return Result{}, err
		}
		v, err := fn(f, args)
		return ret(v), err
	}
}

func registerFile(r *Registry) {
	t := r.file
	t.add("read", 0, fileMethod(func(f *openFile, _ []value.Value) (value.Value, error) {
		if err := f.readable(); err != nil {
			return value.Value{}, err
		}
		data, err := io.ReadAll(f.reader)
		if err != nil {
			return value.Value{}, fileErr("read %s: %v", value.Quote(f.path), err)
		}
		return value.StringValue(string(data)), nil
	}))
	t.add("readline", 0, fileMethod(func(f *openFile, _ []value.Value) (value.Value, error) {
		if err := f.readable(); err != nil {
			return value.Value{}, err
		}
		line, err := f.reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return value.Value{}, fileErr("readline %s: %v", value.Quote(f.path), err)
		}
		return value.StringValue(line), nil
	}))
	t.add("readlines", 0, fileMethod(func(f *openFile, _ []value.Value) (value.Value, error) {
		if err := f.readable(); err != nil {
			return value.Value{}, err
		}
		var lines []value.Value
		for {
			line, err := f.reader.ReadString('\n')
			if line != "" {
				lines = append(lines, value.StringValue(line))
			}
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return value.Value{}, fileErr("readlines %s: %v", value.Quote(f.path), err)
			}
		}
		return value.NewList(lines), nil
	}))
	t.add("write", 1, fileMethod(func(f *openFile, args []value.Value) (value.Value, error) {
		if err := f.writable(); err != nil {
			return value.Value{}, err
		}
		n, err := f.writer.WriteString(args[0].String())
		if err != nil {
			return value.Value{}, fileErr("write %s: %v", value.Quote(f.path), err)
		}
		return value.IntValue(int64(n)), nil
	}))
	t.add("writelines", 1, fileMethod(func(f *openFile, args []value.Value) (value.Value, error) {
		if err := f.writable(); err != nil {
			return value.Value{}, err
		}
		lines, err := stringsOf(args[0])
		if err != nil {
			return value.Value{}, err
		}
		for _, l := range lines {
			if _, err := f.writer.WriteString(l); err != nil {
				return value.Value{}, fileErr("writelines %s: %v", value.Quote(f.path), err)
			}
		}
		return value.NoneValue(), nil
	}))
	t.add("flush", 0, fileMethod(func(f *openFile, _ []value.Value) (value.Value, error) {
		if f.writer != nil {
			if err := f.writer.Flush(); err != nil {
				return value.Value{}, fileErr("flush %s: %v", value.Quote(f.path), err)
			}
		}
		return value.NoneValue(), nil
	}))
	t.add("close", 0, func(env *Env, recv value.Value, _ []value.Value) (Result, error) {
		return ret(value.NoneValue()), env.Files.Close(recv)
	})
	// is_open must answer for closed handles too, so it is resolved before
	// the entry lookup.
	t.add("is_open", 0, func(env *Env, recv value.Value, _ []value.Value) (Result, error) {
		return ret(value.BoolValue(env.Files.IsOpen(recv))), nil
	})
}
