package lexer

import (
	"knot/internal/token"
)

const utf8RuneSelf = 0x80

// scanIdentOrKeyword сканирует идентификатор и проверяет через LookupKeyword.
// Multi-word type names ("unsigned long long", "long double") fold into one Ident.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	if !lx.bumpWord() {
		return lx.scanOperatorOrPunct()
	}
	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)

	if text == "long" || text == "unsigned" {
		if folded, ok := lx.foldCompound(text); ok {
			return token.Token{Kind: token.Ident, Span: lx.cursor.SpanFrom(start), Text: folded}
		}
	}

	if k, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: k, Span: sp, Text: text}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}

// bumpWord consumes one identifier; false if the cursor is not on one.
func (lx *Lexer) bumpWord() bool {
	r, sz := lx.peekRune()
	if sz == 0 || !isIdentStartRune(r) {
		return false
	}
	lx.bumpRune()
	for {
		r2, sz2 := lx.peekRune()
		if sz2 == 0 || !isIdentContinueRune(r2) {
			return true
		}
		lx.bumpRune()
	}
}

// foldCompound tries every compound keyword starting with first, longest
// first. Words may be separated by spaces or tabs only.
func (lx *Lexer) foldCompound(first string) (string, bool) {
	after := lx.cursor.Mark()
	for _, ck := range token.CompoundKeywords {
		if ck.Words[0] != first {
			continue
		}
		matched := true
		for _, w := range ck.Words[1:] {
			if !lx.eatSpacedWord(w) {
				matched = false
				break
			}
		}
		if matched {
			return ck.Folded, true
		}
		lx.cursor.Reset(after)
	}
	return "", false
}

func (lx *Lexer) eatSpacedWord(w string) bool {
	sawSpace := false
	for b := lx.cursor.Peek(); b == ' ' || b == '\t'; b = lx.cursor.Peek() {
		lx.cursor.Bump()
		sawSpace = true
	}
	if !sawSpace {
		return false
	}
	m := lx.cursor.Mark()
	if !lx.bumpWord() {
		return false
	}
	return lx.text(lx.cursor.SpanFrom(m)) == w
}
