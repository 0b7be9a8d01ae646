package lexer

import (
	"knot/internal/diag"
	"knot/internal/token"
)

// multiOps is tried in order, so every operator precedes its own prefixes.
// "-->" never reaches here: skipTrivia has already taken it as a comment.
var multiOps = [...]struct {
	text string
	kind token.Kind
}{
	{"---", token.Line},
	{"<->", token.BiArrow},
	{"->", token.Arrow},
	{"--", token.MinusMinus},
	{"++", token.PlusPlus},
	{"&&", token.AndAnd},
	{"||", token.OrOr},
	{"==", token.EqEq},
	{"!=", token.BangEq},
	{"<=", token.LtEq},
	{">=", token.GtEq},
	{"+=", token.PlusAssign},
	{"-=", token.MinusAssign},
	{"*=", token.StarAssign},
	{"/=", token.SlashAssign},
	{"%=", token.PercentAssign},
}

var singleOps = [256]token.Kind{
	'+': token.Plus, '-': token.Minus, '*': token.Star, '/': token.Slash,
	'%': token.Percent, '^': token.Caret, '=': token.Assign, '!': token.Bang,
	'<': token.Lt, '>': token.Gt,
	'(': token.LParen, ')': token.RParen, '[': token.LBracket, ']': token.RBracket,
	'{': token.LBrace, '}': token.RBrace,
	',': token.Comma, '.': token.Dot, ':': token.Colon, ';': token.Semicolon, '@': token.At,
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	emit := func(k token.Kind) token.Token {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: k, Span: sp, Text: lx.text(sp)}
	}

	for _, op := range multiOps {
		if lx.tryLit(op.text) {
			return emit(op.kind)
		}
	}
	if k := singleOps[lx.cursor.Peek()]; k != token.Invalid {
		lx.cursor.Bump()
		return emit(k)
	}

	// неизвестный символ: берём руну целиком, чтобы сообщение было читаемым
	lx.bumpRune()
	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)
	lx.fail(diag.LexUnknownChar, start.Line, sp, "unexpected character %q", text)
	return token.Token{Kind: token.Invalid, Span: sp, Text: text}
}
