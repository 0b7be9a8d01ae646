package parser

import (
	"knot/internal/ast"
	"knot/internal/diag"
	"knot/internal/token"
	"knot/internal/value"
)

// parseStmtList reads statements until EOF (open == nil) or until the ';'
// closing the block opened by open. The ';' itself is left in place.
func (p *Parser) parseStmtList(open *token.Token) []ast.Stmt {
	var stmts []ast.Stmt
	for {
		p.skipNewlines()
		t := p.peek()
		switch {
		case t.Kind == token.EOF && open == nil:
			return stmts
		case t.Kind == token.EOF:
			p.fail(diag.SynExpectBlockEnd, t, "expected ';' to close block opened on line %d", open.Line)
		case t.Kind == token.Semicolon && open != nil:
			return stmts
		case t.Kind == token.Semicolon:
			p.fail(diag.SynUnexpectedBlockEnd, t, "unexpected ';' outside of a block")
		}
		stmts = append(stmts, p.parseStmt())
	}
}

// parseBlock reads ': stmts ;' and an optional '.' after the ';'.
func (p *Parser) parseBlock() *ast.Block {
	colon := p.expect(token.Colon, diag.SynExpectColon, "':' to open block")
	stmts := p.parseStmtList(&colon)
	p.next() // ';'
	p.accept(token.Dot)
	return &ast.Block{Pos: posOf(colon), Stmts: stmts}
}

func (p *Parser) parseStmt() ast.Stmt {
	t := p.peek()
	switch t.Kind {
	case token.KwVar:
		return p.parseDecl()
	case token.KwLet:
		if p.peekAt(1).Kind == token.Ident && p.peekAt(2).Kind == token.KwBe {
			return p.parseWith()
		}
		return p.parseDecl()
	case token.KwFn:
		return p.parseFunc()
	case token.KwIf:
		return p.parseIf()
	case token.KwFor:
		return p.parseFor()
	case token.KwWhile:
		p.next()
		cond := p.parseExpr()
		return &ast.While{Pos: posOf(t), Cond: cond, Body: p.parseBlock()}
	case token.KwGive:
		return p.parseGive()
	case token.KwPass:
		p.next()
		p.expectTerminator()
		return &ast.Pass{Pos: posOf(t)}
	case token.PlusPlus, token.MinusMinus:
		p.next()
		name := p.expect(token.Ident, diag.SynExpectIdentifier, "variable name")
		p.expectTerminator()
		return p.increment(t, name)
	case token.Ident:
		switch nt := p.peekAt(1); {
		case nt.Kind == token.Assign:
			return p.parseAssign(ast.DeclNone)
		case nt.Kind.IsCompoundAssign():
			return p.parseCompound()
		case nt.Kind == token.PlusPlus || nt.Kind == token.MinusMinus:
			p.next()
			op := p.next()
			p.expectTerminator()
			return p.increment(op, t)
		}
	}
	x := p.parseExpr()
	p.expectTerminator()
	return &ast.ExprStmt{Pos: posOf(t), X: x}
}

// juxtaposed reports an implicit '*' followed by `name =`: the boundary
// between two declarations written without a comma.
func (p *Parser) juxtaposed() bool {
	t := p.peek()
	return t.Kind == token.Star && t.Implicit &&
		p.peekAt(1).Kind == token.Ident && p.peekAt(2).Kind == token.Assign
}

// parseAssign reads `name = expr` (or a bare `name` inside declarations).
func (p *Parser) parseAssign(decl ast.DeclKind) *ast.Assign {
	name := p.expect(token.Ident, diag.SynExpectIdentifier, "variable name")
	a := &ast.Assign{Pos: posOf(name), Decl: decl, Name: name.Text}
	if p.accept(token.Assign) {
		a.Value = p.parseExpr()
	} else if decl == ast.DeclNone {
		p.fail(diag.SynBadAssignTarget, p.peek(), "expected '=' after %s", name.Text)
	}
	if decl == ast.DeclNone {
		if p.juxtaposed() {
			p.next()
		} else {
			p.expectTerminator()
		}
	}
	return a
}

func (p *Parser) parseDecl() ast.Stmt {
	kw := p.next()
	decl := ast.DeclVar
	if kw.Kind == token.KwLet {
		decl = ast.DeclLet
	}
	var items []*ast.Assign
	for {
		items = append(items, p.parseAssign(decl))
		if p.accept(token.Comma) {
			continue
		}
		if p.juxtaposed() {
			p.next()
			continue
		}
		break
	}
	p.expectTerminator()
	if len(items) == 1 {
		items[0].Pos = posOf(kw)
		return items[0]
	}
	return &ast.MultiDecl{Pos: posOf(kw), Decl: decl, Items: items}
}

// parseCompound desugars `x op= e` into `x = x op e`.
func (p *Parser) parseCompound() ast.Stmt {
	name := p.next()
	op := p.next()
	rhs := p.parseExpr()
	p.expectTerminator()
	code := []ast.Instr{{Tok: name}}
	code = splice(code, rhs)
	code = append(code, ast.Instr{Tok: token.Synthetic(op.Kind.BinaryOf(), op.Kind.BinaryOf().String(), 0, op)})
	return &ast.Assign{Pos: posOf(name), Name: name.Text, Value: &ast.RPN{Code: code}}
}

// increment desugars ++x, x++, --x and x-- into x = x ± 1.
func (p *Parser) increment(op, name token.Token) ast.Stmt {
	kind := token.Plus
	if op.Kind == token.MinusMinus {
		kind = token.Minus
	}
	one := token.Synthetic(token.Number, "1", 0, op)
	code := []ast.Instr{
		{Tok: name},
		{Tok: one, Const: value.IntValue(1)},
		{Tok: token.Synthetic(kind, kind.String(), 0, op)},
	}
	return &ast.Assign{Pos: posOf(name), Name: name.Text, Value: &ast.RPN{Code: code}}
}

func (p *Parser) parseGive() ast.Stmt {
	kw := p.next()
	g := &ast.Give{Pos: posOf(kw)}
	switch p.peek().Kind {
	case token.Dot, token.Newline, token.Semicolon, token.EOF:
	default:
		g.Value = p.parseExpr()
	}
	p.expectTerminator()
	return g
}

func (p *Parser) parseFunc() ast.Stmt {
	kw := p.next()
	name := p.expect(token.Ident, diag.SynExpectIdentifier, "function name")
	open := p.expect(token.LParen, diag.SynUnexpectedToken, "'(' after function name")
	fn := &ast.FuncDef{Pos: posOf(kw), Name: name.Text}
	seen := make(map[string]bool)
	p.nest++
	for !p.at(token.RParen) {
		ref := p.accept(token.At)
		pn := p.expect(token.Ident, diag.SynExpectIdentifier, "parameter name")
		if seen[pn.Text] {
			p.fail(diag.SynDuplicateParam, pn, "duplicate parameter '%s' in function '%s'", pn.Text, name.Text)
		}
		seen[pn.Text] = true
		fn.Params = append(fn.Params, ast.Param{Name: pn.Text, Ref: ref})
		if !p.accept(token.Comma) {
			break
		}
	}
	p.expectClose(open, token.RParen)
	p.nest--

	if !p.at(token.Colon) {
		p.expectTerminator()
		return fn
	}
	fn.Body = p.parseBlock()
	if len(fn.Body.Stmts) == 0 {
		p.fail(diag.SynEmptyBody, name, "empty body in function '%s' (use pass)", name.Text)
	}
	return fn
}

func (p *Parser) parseIf() ast.Stmt {
	kw := p.next()
	cond := p.parseExpr()
	st := &ast.If{Pos: posOf(kw)}
	st.Branches = append(st.Branches, ast.CondBranch{Cond: cond, Body: p.parseBlock()})
	for {
		save := p.pos
		p.skipNewlines()
		switch p.peek().Kind {
		case token.KwElif:
			p.next()
			c := p.parseExpr()
			st.Branches = append(st.Branches, ast.CondBranch{Cond: c, Body: p.parseBlock()})
			continue
		case token.KwElse:
			p.next()
			st.Else = p.parseBlock()
		default:
			p.pos = save
		}
		return st
	}
}

func (p *Parser) parseFor() ast.Stmt {
	kw := p.next()
	v := p.expect(token.Ident, diag.SynExpectIdentifier, "loop variable")
	p.expect(token.KwIn, diag.SynForBadHeader, "'in' after loop variable")

	if p.at(token.KwRange) && p.peekAt(1).Kind == token.LParen {
		if st := p.parseRangeHeader(kw, v); st != nil {
			return st
		}
	}
	iter := p.parseExpr()
	return &ast.ForIn{Pos: posOf(kw), Var: v.Text, Iter: iter, Body: p.parseBlock()}
}

// parseRangeHeader handles range(N), range(from A to B) and
// range(from A to B step S). Anything else (e.g. range(a, b) * 2) is
// rewound and parsed as an ordinary iterable.
func (p *Parser) parseRangeHeader(kw, v token.Token) ast.Stmt {
	save, saveNest := p.pos, p.nest
	rangeTok := p.next()
	open := p.next()
	p.nest++
	st := &ast.ForRange{Pos: posOf(kw), Var: v.Text}
	if p.accept(token.KwFrom) {
		st.From = p.parseExpr()
		p.expect(token.KwTo, diag.SynForBadHeader, "'to' in range header")
		st.To = p.parseExpr()
		if p.accept(token.KwStep) {
			st.Step = p.parseExpr()
		}
		p.expectClose(open, token.RParen)
		p.nest--
		st.Body = p.parseBlock()
		return st
	}
	n := p.parseExpr()
	if p.at(token.RParen) && p.peekAt(1).Kind == token.Colon {
		p.next()
		p.nest--
		zero := token.Synthetic(token.Number, "0", 0, rangeTok)
		st.From = &ast.RPN{Code: []ast.Instr{{Tok: zero, Const: value.IntValue(0)}}}
		st.To = n
		st.Upto = true
		st.Body = p.parseBlock()
		return st
	}
	p.pos, p.nest = save, saveNest
	return nil
}

func (p *Parser) parseWith() ast.Stmt {
	kw := p.next()
	name := p.next()
	p.next() // be
	val := p.parseExpr()
	return &ast.With{Pos: posOf(kw), Name: name.Text, Value: val, Body: p.parseBlock()}
}
