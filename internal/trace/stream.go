package trace

import (
	"io"
	"sync"
)

// StreamTracer writes every admitted event to w as it happens.
type StreamTracer struct {
	level  Level
	format Format

	mu sync.Mutex
	w  io.Writer
}

func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return &StreamTracer{w: w, level: level, format: format}
}

func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) {
		return
	}
	line := FormatEvent(ev, t.format)
	t.mu.Lock()
	_, _ = t.w.Write(line) // a broken trace sink never fails the program
	t.mu.Unlock()
}

type flusher interface{ Flush() error }

func (t *StreamTracer) Flush() error {
	if f, ok := t.w.(flusher); ok {
		return f.Flush()
	}
	return nil
}

// Close flushes, then closes w when it is an io.Closer.
func (t *StreamTracer) Close() error {
	err := t.Flush()
	if c, ok := t.w.(io.Closer); ok && err == nil {
		err = c.Close()
	}
	return err
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
