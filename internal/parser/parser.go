package parser

import (
	"fmt"

	"knot/internal/ast"
	"knot/internal/diag"
	"knot/internal/source"
	"knot/internal/token"
)

type Options struct {
	Reporter diag.Reporter // может быть nil
}

// Parser хранит состояние разбора одного файла.
type Parser struct {
	toks []token.Token
	pos  int
	nest int // open brackets; newlines are insignificant inside them
	file source.FileID
	opts Options
	err  *diag.Error
}

// bailout unwinds the recursive descent after the first syntax error.
type bailout struct{}

func newParser(file source.FileID, toks []token.Token, opts Options) *Parser {
	if n := len(toks); n == 0 || toks[n-1].Kind != token.EOF {
		eof := token.Token{Kind: token.EOF}
		if n > 0 {
			last := toks[n-1]
			eof.Line = last.Line
			eof.Span = source.Span{File: last.Span.File, Start: last.Span.End, End: last.Span.End}
		}
		toks = append(toks[:n:n], eof)
	}
	return &Parser{toks: toks, file: file, opts: opts}
}

// Parse builds the program from a token stream produced by lexer.Tokenize.
// The first syntax error stops parsing and is returned as *diag.Error.
func Parse(file source.FileID, toks []token.Token, opts Options) (prog *ast.Program, err error) {
	p := newParser(file, toks, opts)
	defer p.recover(&err)
	stmts := p.parseStmtList(nil)
	return &ast.Program{File: file, Stmts: stmts}, nil
}

// ParseExpr parses a single expression that must span the whole input
// (a trailing terminator is allowed).
func ParseExpr(toks []token.Token, opts Options) (e ast.Expr, err error) {
	p := newParser(0, toks, opts)
	defer p.recover(&err)
	e = p.parseExpr()
	p.accept(token.Dot)
	p.skipNewlines()
	if t := p.peek(); t.Kind != token.EOF {
		p.fail(diag.SynUnexpectedToken, t, "unexpected %s after expression", describe(t))
	}
	return e, nil
}

func (p *Parser) recover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if _, ok := r.(bailout); !ok {
		panic(r)
	}
	diag.ReportError(p.opts.Reporter, p.err)
	*err = p.err
}

func (p *Parser) fail(code diag.Code, at token.Token, format string, args ...any) {
	p.err = diag.Newf(code, at.Line, at.Span, format, args...)
	panic(bailout{})
}

// peek returns the current token, skipping newlines inside brackets.
func (p *Parser) peek() token.Token {
	if p.nest > 0 {
		for p.toks[p.pos].Kind == token.Newline {
			p.pos++
		}
	}
	return p.toks[p.pos]
}

// peekAt looks n raw tokens past the current one.
func (p *Parser) peekAt(n int) token.Token {
	p.peek()
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *Parser) next() token.Token {
	t := p.peek()
	if t.Kind != token.EOF {
		p.pos++
	}
	return t
}

// prev is the last consumed token.
func (p *Parser) prev() token.Token {
	if p.pos == 0 {
		return token.Token{}
	}
	return p.toks[p.pos-1]
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) accept(k token.Kind) bool {
	if p.at(k) {
		p.next()
		return true
	}
	return false
}

func (p *Parser) expect(k token.Kind, code diag.Code, what string) token.Token {
	t := p.peek()
	if t.Kind != k {
		p.fail(code, t, "expected %s, got %s", what, describe(t))
	}
	return p.next()
}

func (p *Parser) skipNewlines() {
	for p.toks[p.pos].Kind == token.Newline {
		p.pos++
	}
}

// expectClose consumes the bracket closing open.
func (p *Parser) expectClose(open token.Token, closer token.Kind) token.Token {
	t := p.peek()
	switch {
	case t.Kind == closer:
		return p.next()
	case t.Kind == token.EOF:
		p.fail(diag.SynUnclosedDelimiter, open, "unclosed '%s' opened on line %d", open.Text, open.Line)
	case t.IsCloseBracket():
		p.fail(diag.SynMismatchedBracket, t, "mismatched '%s': expected '%s' to close '%s' from line %d",
			t.Text, closer, open.Text, open.Line)
	default:
		p.fail(diag.SynUnexpectedToken, t, "expected '%s', got %s", closer, describe(t))
	}
	return t
}

// expectTerminator accepts '.' or a newline after a simple statement. The
// terminator is forgiven at end of input, before ';' and when the next
// token sits on a later line.
func (p *Parser) expectTerminator() {
	t := p.peek()
	switch {
	case t.Kind == token.Dot || t.Kind == token.Newline:
		p.next()
	case t.Kind == token.EOF || t.Kind == token.Semicolon:
	case t.Line > p.prev().Line:
	default:
		p.fail(diag.SynExpectTerminator, t, "expected '.' or newline after statement, got %s", describe(t))
	}
}

func describe(t token.Token) string {
	switch t.Kind {
	case token.EOF:
		return "end of input"
	case token.Newline:
		return "newline"
	case token.String:
		return fmt.Sprintf("string %q", t.Text)
	}
	return fmt.Sprintf("'%s'", t.Text)
}

func posOf(t token.Token) ast.Pos {
	return ast.Pos{Line: t.Line, Span: t.Span}
}
