package lexer

import (
	"knot/internal/diag"
	"knot/internal/source"
)

type Options struct {
	Reporter diag.Reporter // может быть nil
}

// fail records the first lexical error and forwards it to the reporter.
func (lx *Lexer) fail(code diag.Code, line uint32, sp source.Span, format string, args ...any) {
	err := diag.Newf(code, line, sp, format, args...)
	if lx.err == nil {
		lx.err = err
	}
	diag.ReportError(lx.opts.Reporter, err)
}
