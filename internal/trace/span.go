package trace

import (
	"sync/atomic"
	"time"
)

// process-wide counters; seq orders events across tracers
var seqCounter, spanCounter atomic.Uint64

// Span is an open begin/end pair. The zero of a disabled tracer is a
// span bound to Nop, so callers never check for nil.
type Span struct {
	tracer Tracer
	ev     Event // template for the end event
	start  time.Time
}

func (s *Span) live() bool {
	return s != nil && s.tracer != nil && s.tracer.Enabled()
}

func admits(t Tracer, scope Scope) bool {
	return t != nil && t.Enabled() && t.Level().ShouldEmit(scope)
}

func stamp(ev *Event) *Event {
	ev.Time = time.Now()
	ev.Seq = seqCounter.Add(1)
	return ev
}

// Begin opens a span under parent (0 for a root span).
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if !admits(t, scope) {
		return &Span{tracer: Nop}
	}
	s := &Span{tracer: t, ev: Event{
		Scope:    scope,
		SpanID:   spanCounter.Add(1),
		ParentID: parent,
		Name:     name,
	}}
	begin := s.ev
	begin.Kind = KindSpanBegin
	t.Emit(stamp(&begin))
	s.start = begin.Time
	return s
}

// End closes the span and reports how long it was open.
func (s *Span) End(detail string) time.Duration {
	if !s.live() {
		return 0
	}
	end := s.ev
	end.Kind = KindSpanEnd
	end.Detail = detail
	s.tracer.Emit(stamp(&end))
	return end.Time.Sub(s.start)
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if !s.live() {
		return s
	}
	if s.ev.Extra == nil {
		s.ev.Extra = map[string]string{}
	}
	s.ev.Extra[key] = value
	return s
}

func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.ev.SpanID
}

// Point emits a single instant event.
func Point(t Tracer, scope Scope, name, detail string) {
	if admits(t, scope) {
		t.Emit(stamp(&Event{Kind: KindPoint, Scope: scope, Name: name, Detail: detail}))
	}
}
