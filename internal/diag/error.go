package diag

import (
	"errors"
	"fmt"

	"knot/internal/source"
)

// Error is a lexical, syntax or runtime failure tagged with its source line.
type Error struct {
	Code    Code
	Line    uint32 // 0 when unknown
	Span    source.Span
	Message string
}

func (e *Error) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.Code.Kind(), e.Message)
	}
	return fmt.Sprintf("%s (line %d): %s", e.Code.Kind(), e.Line, e.Message)
}

// Newf builds an Error with a formatted message.
func Newf(code Code, line uint32, sp source.Span, format string, args ...any) *Error {
	return &Error{Code: code, Line: line, Span: sp, Message: fmt.Sprintf(format, args...)}
}

// AtLine attaches a line to an error that does not carry one yet. Errors that
// are not *Error are wrapped as generic runtime failures.
func AtLine(err error, line uint32, sp source.Span) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		if de.Line == 0 {
			de.Line = line
			de.Span = sp
		}
		return de
	}
	return &Error{Code: RunValue, Line: line, Span: sp, Message: err.Error()}
}

// CodeOf extracts the code of an engine error, or UnknownCode.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return UnknownCode
}

// Diagnostic converts the error to its batch form.
func (e *Error) Diagnostic() Diagnostic {
	return Diagnostic{Severity: SevError, Code: e.Code, Message: e.Message, Primary: e.Span}
}
