package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Timer records how long each phase of a run took (--timings). `knot
// check` ends phases from several goroutines, so every method locks. A
// nil *Timer ignores everything.
type Timer struct {
	mu      sync.Mutex
	started []time.Time
	phases  []PhaseReport
}

func NewTimer() *Timer { return &Timer{} }

// Begin opens phase name; pass the returned index to End.
func (t *Timer) Begin(name string) int {
	if t == nil {
		return -1
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.started = append(t.started, time.Now())
	t.phases = append(t.phases, PhaseReport{Name: name})
	return len(t.phases) - 1
}

// End closes phase idx. Unknown indexes are ignored.
func (t *Timer) End(idx int, note string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	t.phases[idx].DurationMS = millis(time.Since(t.started[idx]))
	t.phases[idx].Note = note
}

// Time wraps fn in a phase noted "failed" when fn returns an error.
func (t *Timer) Time(name string, fn func() error) error {
	idx := t.Begin(name)
	err := fn()
	if err != nil {
		t.End(idx, "failed")
	} else {
		t.End(idx, "")
	}
	return err
}

type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report copies the phases recorded so far.
func (t *Timer) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	var r Report
	if len(t.phases) > 0 {
		r.Phases = append([]PhaseReport(nil), t.phases...)
	}
	for _, p := range r.Phases {
		r.TotalMS += p.DurationMS
	}
	return r
}

// Summary renders the report as an aligned table.
func (t *Timer) Summary() string {
	r := t.Report()
	var sb strings.Builder
	row := func(name string, ms float64, note string) {
		fmt.Fprintf(&sb, "  %-20s %7.2f ms", name, ms)
		if note != "" {
			fmt.Fprintf(&sb, "  // %s", note)
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("timings:\n")
	for _, p := range r.Phases {
		row(p.Name, p.DurationMS, p.Note)
	}
	row("total", r.TotalMS, "")
	return sb.String()
}

func millis(d time.Duration) float64 { return d.Seconds() * 1e3 }
