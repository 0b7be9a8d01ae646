package lexer

import (
	"knot/internal/diag"
)

// skipTrivia drops everything that never reaches the parser:
//   - ' ', '\t', '\r'
//   - '#' ... up to (not including) '\n'
//   - '-->' ... '<--' block comments; embedded newlines still move the line counter
//   - '`' followed by optional spaces and '\n' (line continuation)
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); {
		case b == ' ' || b == '\t' || b == '\r':
			lx.cursor.Bump()
		case b == '#':
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
		case b == '-':
			if !lx.skipBlockComment() {
				return
			}
		case b == '`':
			if !lx.skipContinuation() {
				return
			}
		default:
			return
		}
	}
}

func (lx *Lexer) skipBlockComment() bool {
	start := lx.cursor.Mark()
	if !lx.tryLit("-->") {
		return false
	}
	for !lx.cursor.EOF() {
		if lx.tryLit("<--") {
			return true
		}
		lx.cursor.Bump()
	}
	lx.fail(diag.LexUnterminatedBlockComment, start.Line, lx.cursor.SpanFrom(start), "unterminated block comment")
	return false
}

// skipContinuation consumes "`  \n". A backtick anywhere else is not trivia.
func (lx *Lexer) skipContinuation() bool {
	var n uint32 = 1
	for {
		switch lx.cursor.PeekAt(n) {
		case ' ', '\t', '\r':
			n++
			continue
		case '\n':
			for range n + 1 {
				lx.cursor.Bump()
			}
			return true
		}
		if lx.cursor.Off+n >= lx.cursor.Limit {
			// trailing backtick at end of input
			for range n {
				lx.cursor.Bump()
			}
			return true
		}
		return false
	}
}
