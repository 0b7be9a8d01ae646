package token

import (
	"knot/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Text string
	Span source.Span
	Line uint32
	// Argc is the argument (or element) count of a synthetic call/literal marker.
	Argc int `msgpack:",omitempty"`
	// Implicit marks a '*' inserted by implicit multiplication.
	Implicit bool `msgpack:",omitempty"`
}

// IsLiteral reports whether the token is a literal value.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case Number, String, KwTrue, KwFalse, KwNone:
		return true
	default:
		return false
	}
}

// EndsValue reports whether the token can end an operand.
func (t Token) EndsValue() bool {
	switch t.Kind {
	case Number, Ident, RParen, RBracket, RBrace:
		return true
	default:
		return false
	}
}

// StartsValue reports whether the token can begin an operand for implicit multiplication.
func (t Token) StartsValue() bool {
	switch t.Kind {
	case Number, Ident, LParen, LBracket:
		return true
	default:
		return false
	}
}

// IsOpenBracket reports whether the token opens one of the three bracket families.
func (t Token) IsOpenBracket() bool {
	return t.Kind == LParen || t.Kind == LBracket || t.Kind == LBrace
}

// IsCloseBracket reports whether the token closes one of the three bracket families.
func (t Token) IsCloseBracket() bool {
	return t.Kind == RParen || t.Kind == RBracket || t.Kind == RBrace
}

// Synthetic builds a parser-made token positioned at origin.
func Synthetic(k Kind, text string, argc int, origin Token) Token {
	return Token{Kind: k, Text: text, Span: origin.Span, Line: origin.Line, Argc: argc}
}
