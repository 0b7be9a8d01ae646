package observ

import (
	"io"
	"os"
	"sync"

	"github.com/oarkflow/log"
)

var (
	loggerMu sync.Mutex
	logger   = newLogger(os.Stderr, "warn")
)

func newLogger(w io.Writer, level string) *log.Logger {
	return &log.Logger{
		Level:  log.ParseLevel(level),
		Writer: &log.IOWriter{Writer: w},
	}
}

// Logger returns the process logger. It never writes to stdout: stdout
// belongs to the program's own print calls.
func Logger() *log.Logger {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	return logger
}

// SetupLogger replaces the process logger (--log-level, knot.toml [log]).
func SetupLogger(w io.Writer, level string) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	l := newLogger(w, level)
	loggerMu.Lock()
	logger = l
	loggerMu.Unlock()
	return l
}
