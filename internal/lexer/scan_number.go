package lexer

import (
	"knot/internal/token"
)

// scanNumber reads [0-9]* ('.' [0-9]+)? ('e' [0-9]+)?
//
// A '.' belongs to the number only when a digit follows it; otherwise it is
// left for the statement terminator. The exponent is taken only when 'e' is
// directly followed by a digit, so "2e" stays 2 * e.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	if lx.isNumberAfterDot() {
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	if b0, b1 := lx.cursor.Peek(), lx.cursor.PeekAt(1); (b0 == 'e' || b0 == 'E') && isDec(b1) {
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.Number, Span: sp, Text: lx.text(sp)}
}
