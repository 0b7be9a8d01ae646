package trace

import (
	"fmt"
	"io"
	"sync"

	"github.com/edwingeng/deque"
)

// RingTracer keeps the last N events in memory. With --trace-mode=ring
// the CLI dumps it only when the program fails.
type RingTracer struct {
	mu       sync.Mutex
	events   deque.Deque // of Event, oldest at the front
	capacity int
	dropped  uint64
	level    Level
}

// NewRingTracer creates a ring of the given capacity (4096 when <= 0).
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = 4096
	}
	return &RingTracer{events: deque.NewDeque(), capacity: capacity, level: level}
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events.PushBack(*ev)
	if t.events.Len() > t.capacity {
		t.events.PopFront()
		t.dropped++
	}
}

// Snapshot copies the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := t.events.Len()
	out := make([]Event, 0, n)
	// полный оборот очереди оставляет её в исходном порядке
	for range n {
		ev := t.events.PopFront().(Event)
		out = append(out, ev)
		t.events.PushBack(ev)
	}
	return out
}

// Dropped counts events pushed out by newer ones.
func (t *RingTracer) Dropped() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dropped
}

// Dump writes the stored events to w in format.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	if n := t.Dropped(); n > 0 && format == FormatText {
		if _, err := fmt.Fprintf(w, "... %d earlier events dropped\n", n); err != nil {
			return err
		}
	}
	events := t.Snapshot()
	for i := range events {
		if _, err := w.Write(FormatEvent(&events[i], format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
