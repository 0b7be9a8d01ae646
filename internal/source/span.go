package source

import "fmt"

// Span is a half-open byte range [Start, End) in one file.
type Span struct {
	File       FileID
	Start, End uint32
}

func (s Span) Len() uint32 { return s.End - s.Start }

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover widens s to include other. Spans from different files do not mix.
func (s Span) Cover(other Span) Span {
	if s.File == other.File {
		s.Start = min(s.Start, other.Start)
		s.End = max(s.End, other.End)
	}
	return s
}

// Adjacent reports whether other begins exactly where s ends, with no
// whitespace between.
func (s Span) Adjacent(other Span) bool {
	return s.File == other.File && s.End == other.Start
}
