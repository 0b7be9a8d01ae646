package trace

import "time"

// Kind says whether an event opens, closes or stands alone.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

// Scope is the granularity of an event; smaller is coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // whole command (run, check)
	ScopePhase                   // lex, parse, exec
	ScopeFile                    // per-file work inside `knot check`
	ScopeCall                    // user function calls in the VM
)

var (
	kindNames  = [...]string{KindSpanBegin: "begin", KindSpanEnd: "end", KindPoint: "point"}
	scopeNames = [...]string{ScopeDriver: "driver", ScopePhase: "phase", ScopeFile: "file", ScopeCall: "call"}
)

func nameOf(names []string, i int) string {
	if i > 0 && i < len(names) {
		return names[i]
	}
	return "unknown"
}

func (k Kind) String() string  { return nameOf(kindNames[:], int(k)) }
func (s Scope) String() string { return nameOf(scopeNames[:], int(s)) }

// Event is one record in the trace. SpanID and ParentID link begin/end
// pairs into a tree; Seq orders events across goroutines.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	Name     string // "parse", "file:main.kn", "call:fib/1"
	Detail   string
	Extra    map[string]string
}
