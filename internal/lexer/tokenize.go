package lexer

import (
	"knot/internal/source"
	"knot/internal/token"
)

// Tokenize lexes the whole file and inserts the implicit multiplication
// stars. The result always ends with EOF. On a lexical error the tokens read
// so far are discarded and the error is returned.
func Tokenize(file *source.File, opts Options) ([]token.Token, error) {
	lx := New(file, opts)
	var toks []token.Token
	for {
		tok := lx.Next()
		if err := lx.Err(); err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return InsertImplicitStars(toks), nil
}

// InsertImplicitStars puts a synthetic '*' between a token that ends a value
// and an adjacent token that starts one: "2(3+1)", "2x", "(a)(b)".
// An identifier directly followed by '(' is a call, not a product, and a
// method name right after its dot never starts a product.
func InsertImplicitStars(toks []token.Token) []token.Token {
	out := make([]token.Token, 0, len(toks))
	for i, tok := range toks {
		if i > 0 && needsStar(toks, i) {
			prev := toks[i-1]
			star := token.Token{
				Kind:     token.Star,
				Text:     "*",
				Span:     source.Span{File: prev.Span.File, Start: prev.Span.End, End: prev.Span.End},
				Line:     prev.Line,
				Implicit: true,
			}
			out = append(out, star)
		}
		out = append(out, tok)
	}
	return out
}

func needsStar(toks []token.Token, i int) bool {
	prev, cur := toks[i-1], toks[i]
	if !prev.EndsValue() || !cur.StartsValue() {
		return false
	}
	if prev.Kind == token.Ident && cur.Kind == token.LParen {
		return false
	}
	// ".name" after a receiver: the name is a method, never a factor.
	if prev.Kind == token.Ident && i >= 2 && toks[i-2].Kind == token.Dot && toks[i-2].Span.Adjacent(prev.Span) {
		return false
	}
	return true
}
