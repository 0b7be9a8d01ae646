package lexer

import (
	"knot/internal/diag"
	"knot/internal/source"
	"knot/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token // 1 элементный буфер для токена
	err    *diag.Error
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Err returns the first lexical error seen so far.
func (lx *Lexer) Err() *diag.Error {
	return lx.err
}

// Next returns the next significant token. Newlines are significant.
// After EOF it keeps returning EOF; after an error it returns Invalid.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	if lx.err != nil {
		return token.Token{Kind: token.Invalid, Span: lx.emptySpan(), Line: lx.cursor.Line}
	}

	lx.skipTrivia()
	if lx.err != nil {
		return token.Token{Kind: token.Invalid, Span: lx.emptySpan(), Line: lx.cursor.Line}
	}

	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.emptySpan(), Line: lx.cursor.Line}
	}

	line := lx.cursor.Line
	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case ch == '\n':
		start := lx.cursor.Mark()
		lx.cursor.Bump()
		tok = token.Token{Kind: token.Newline, Span: lx.cursor.SpanFrom(start), Text: "\n"}
	case isIdentStartByte(ch) || ch >= utf8RuneSelf:
		tok = lx.scanIdentOrKeyword()
	case isDec(ch):
		tok = lx.scanNumber()
	case ch == '.' && lx.isNumberAfterDot():
		tok = lx.scanNumber()
	case ch == '"' || ch == '\'':
		tok = lx.scanString()
	default:
		tok = lx.scanOperatorOrPunct()
	}
	tok.Line = line
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}
