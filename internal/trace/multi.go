package trace

import "errors"

// MultiTracer fans events out to several tracers; each one applies its own
// level filter.
type MultiTracer struct {
	tracers []Tracer
}

// NewMultiTracer drops nil and disabled tracers from the list.
func NewMultiTracer(tracers ...Tracer) *MultiTracer {
	m := &MultiTracer{}
	for _, t := range tracers {
		if t != nil && t.Enabled() {
			m.tracers = append(m.tracers, t)
		}
	}
	return m
}

func (m *MultiTracer) Emit(ev *Event) {
	for _, t := range m.tracers {
		t.Emit(ev)
	}
}

func (m *MultiTracer) Flush() error {
	var errs []error
	for _, t := range m.tracers {
		errs = append(errs, t.Flush())
	}
	return errors.Join(errs...)
}

func (m *MultiTracer) Close() error {
	var errs []error
	for _, t := range m.tracers {
		errs = append(errs, t.Close())
	}
	return errors.Join(errs...)
}

// Level is the most detailed level of the inner tracers.
func (m *MultiTracer) Level() Level {
	level := LevelOff
	for _, t := range m.tracers {
		level = max(level, t.Level())
	}
	return level
}

func (m *MultiTracer) Enabled() bool { return m.Level() > LevelOff }
