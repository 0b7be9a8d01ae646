package lexer

import (
	"strings"

	"knot/internal/diag"
	"knot/internal/token"
)

// scanString reads a literal delimited by double or single quotes.
// Token.Text holds the unescaped contents. Unknown escapes are kept verbatim.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	quote := lx.cursor.Bump()
	var sb strings.Builder
	for {
		if lx.cursor.EOF() {
			sp := lx.cursor.SpanFrom(start)
			lx.fail(diag.LexUnterminatedString, start.Line, sp, "unterminated string")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		}
		b := lx.cursor.Bump()
		switch b {
		case quote:
			return token.Token{Kind: token.String, Span: lx.cursor.SpanFrom(start), Text: sb.String()}
		case '\\':
			if lx.cursor.EOF() {
				continue
			}
			esc := lx.cursor.Bump()
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\', '"', '\'':
				sb.WriteByte(esc)
			default:
				sb.WriteByte('\\')
				sb.WriteByte(esc)
			}
		default:
			sb.WriteByte(b)
		}
	}
}
