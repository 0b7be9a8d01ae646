package parser

import (
	"knot/internal/ast"
	"knot/internal/diag"
	"knot/internal/token"
	"knot/internal/value"
)

type exprFlags uint8

// stopAtArrow ends the expression before '->' (dict keys).
const stopAtArrow exprFlags = 1

func (p *Parser) parseExpr() ast.Expr { return p.parseOr(0) }

// parseOr and parseAnd peel the short-circuit operators off before the
// shunting-yard pass runs on what is left.
func (p *Parser) parseOr(fl exprFlags) ast.Expr {
	left := p.parseAnd(fl)
	for p.at(token.OrOr) {
		op := p.next()
		right := p.parseAnd(fl)
		left = &ast.Logical{Op: token.OrOr, Tok: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAnd(fl exprFlags) ast.Expr {
	var left ast.Expr = p.parseRPN(fl)
	for p.at(token.AndAnd) {
		op := p.next()
		right := p.parseRPN(fl)
		left = &ast.Logical{Op: token.AndAnd, Tok: op, Left: left, Right: right}
	}
	return left
}

// splice appends a sub-expression: RPN code inline, logical trees as a Lazy
// entry.
func splice(code []ast.Instr, e ast.Expr) []ast.Instr {
	switch x := e.(type) {
	case *ast.RPN:
		return append(code, x.Code...)
	case *ast.Logical:
		return append(code, ast.Instr{Tok: token.Synthetic(token.Lazy, "", 0, x.Tok), Sub: x})
	}
	return code
}

type pending struct {
	tok  token.Token
	info opInfo
}

// shunter is the state of one shunting-yard pass. starts holds, for every
// operand currently represented in out, the index where its code begins;
// the 'of' rewrite needs those boundaries.
type shunter struct {
	p      *Parser
	out    []ast.Instr
	ops    []pending
	starts []int
}

func (p *Parser) parseRPN(fl exprFlags) *ast.RPN {
	s := &shunter{p: p}
	expectOperand := true
	for {
		if expectOperand {
			t := p.peek()
			switch t.Kind {
			case token.Minus:
				p.next()
				s.ops = append(s.ops, pending{tok: token.Synthetic(token.Neg, "-", 0, t), info: unaryOp})
				continue
			case token.Bang, token.KwNot:
				p.next()
				s.ops = append(s.ops, pending{tok: token.Synthetic(token.Bang, "!", 0, t), info: unaryOp})
				continue
			}
			s.operand()
			expectOperand = false
			continue
		}
		op, ok := p.binaryOp(fl)
		if !ok {
			break
		}
		s.pushBinary(op)
		expectOperand = true
	}
	for len(s.ops) > 0 {
		s.pop()
	}
	return &ast.RPN{Code: s.out}
}

// binaryOp consumes the binary operator at the cursor, if any.
func (p *Parser) binaryOp(fl exprFlags) (token.Token, bool) {
	t := p.peek()
	switch t.Kind {
	case token.Star:
		if p.juxtaposed() {
			return t, false
		}
	case token.Arrow:
		if fl&stopAtArrow != 0 {
			return t, false
		}
	case token.KwIs:
		p.next()
		if p.at(token.KwNot) {
			p.next()
			return token.Synthetic(token.IsNot, "is not", 0, t), true
		}
		return t, true
	case token.KwNot:
		if p.peekAt(1).Kind != token.KwPoints {
			return t, false
		}
		p.next()
		p.next()
		return token.Synthetic(token.NotPoints, "not points", 0, t), true
	}
	if _, ok := binaryOps[t.Kind]; !ok {
		return t, false
	}
	return p.next(), true
}

func (s *shunter) pushBinary(op token.Token) {
	info := binaryOps[op.Kind]
	for len(s.ops) > 0 {
		top := s.ops[len(s.ops)-1].info
		if top.prec > info.prec || (top.prec == info.prec && !info.right) {
			s.pop()
			continue
		}
		break
	}
	s.ops = append(s.ops, pending{tok: op, info: info})
}

// pop emits the operator on top of the stack.
func (s *shunter) pop() {
	op := s.ops[len(s.ops)-1]
	s.ops = s.ops[:len(s.ops)-1]
	if op.tok.Kind == token.KwOf {
		s.rewriteOf(op.tok)
		return
	}
	n := len(s.starts)
	if n < op.info.arity {
		panic("parser: operand stack underflow")
	}
	first := s.starts[n-op.info.arity]
	s.starts = append(s.starts[:n-op.info.arity], first)
	s.out = append(s.out, ast.Instr{Tok: op.tok})
}

// rewriteOf turns `f(args) of r` into the code of `r.f(args)` and a bare
// `f of r` into `r.f()`.
func (s *shunter) rewriteOf(of token.Token) {
	n := len(s.starts)
	ls, rs := s.starts[n-2], s.starts[n-1]
	left := s.out[ls:rs]
	last := left[len(left)-1]

	var args []ast.Instr
	switch {
	case len(left) == 1 && last.Tok.Kind == token.Ident:
	case last.Tok.Kind == token.Call:
		args = left[:len(left)-1]
	default:
		s.p.fail(diag.SynBadOfOperand, of, "left side of 'of' must be a function call or a function name")
	}
	code := make([]ast.Instr, 0, len(s.out)-ls)
	code = append(code, s.out[rs:]...)
	code = append(code, args...)
	code = append(code, ast.Instr{Tok: token.Synthetic(token.MethodCall, last.Tok.Text, last.Tok.Argc, last.Tok)})

	s.out = append(s.out[:ls], code...)
	s.starts = s.starts[:n-1]
}

// operand parses one operand followed by any dotted method calls.
func (s *shunter) operand() {
	p := s.p
	start := len(s.out)
	t := p.next()
	switch t.Kind {
	case token.Number:
		v, err := value.ParseLiteral(t.Text)
		if err != nil {
			p.fail(diag.LexBadNumber, t, "malformed number %q", t.Text)
		}
		s.out = append(s.out, ast.Instr{Tok: t, Const: v})
	case token.String:
		s.out = append(s.out, ast.Instr{Tok: t, Const: value.StringValue(t.Text)})
	case token.KwTrue, token.KwFalse:
		s.out = append(s.out, ast.Instr{Tok: t, Const: value.BoolValue(t.Kind == token.KwTrue)})
	case token.KwNone:
		s.out = append(s.out, ast.Instr{Tok: t, Const: value.NoneValue()})
	case token.Ident:
		if p.at(token.LParen) {
			s.call(token.Call, t)
		} else {
			s.out = append(s.out, ast.Instr{Tok: t})
		}
	case token.KwRange:
		if !p.at(token.LParen) {
			p.fail(diag.SynUnexpectedToken, t, "expected '(' after range")
		}
		if p.peekAt(1).Kind == token.KwFrom {
			p.fail(diag.SynForBadHeader, t, "range(from ...) is only allowed in a for header")
		}
		t.Kind = token.Ident
		s.call(token.Call, t)
	case token.LParen:
		p.nest++
		e := p.parseExpr()
		p.expectClose(t, token.RParen)
		p.nest--
		s.out = splice(s.out, e)
	case token.LBracket:
		s.listLiteral(t)
	case token.LBrace:
		s.braceLiteral(t)
	default:
		p.fail(diag.SynExpectExpression, t, "expected expression, got %s", describe(t))
	}
	for p.atMethodCall() {
		p.next() // '.'
		name := p.next()
		s.call(token.MethodCall, name)
	}
	s.starts = append(s.starts, start)
}

// atMethodCall: '.' glued to a name that is followed by '('.
func (p *Parser) atMethodCall() bool {
	dot := p.peek()
	if dot.Kind != token.Dot {
		return false
	}
	name := p.peekAt(1)
	return name.Kind == token.Ident && dot.Span.Adjacent(name.Span) && p.peekAt(2).Kind == token.LParen
}

// call parses '(' args ')' and emits the args followed by the call marker.
func (s *shunter) call(kind token.Kind, name token.Token) {
	p := s.p
	open := p.next()
	p.nest++
	argc := 0
	for !p.at(token.RParen) {
		s.out = splice(s.out, p.parseExpr())
		argc++
		if !p.accept(token.Comma) {
			break
		}
	}
	p.expectClose(open, token.RParen)
	p.nest--
	s.out = append(s.out, ast.Instr{Tok: token.Synthetic(kind, name.Text, argc, name)})
}

func (s *shunter) listLiteral(open token.Token) {
	p := s.p
	p.nest++
	n := 0
	for !p.at(token.RBracket) {
		s.out = splice(s.out, p.parseExpr())
		n++
		if !p.accept(token.Comma) {
			break
		}
	}
	p.expectClose(open, token.RBracket)
	p.nest--
	s.out = append(s.out, ast.Instr{Tok: token.Synthetic(token.ListLit, "[]", n, open)})
}

// braceLiteral decides between a set and a dict by checking whether the
// first element is followed by '->'. An empty pair of braces is a dict.
func (s *shunter) braceLiteral(open token.Token) {
	p := s.p
	p.nest++
	defer func() { p.nest-- }()
	if p.at(token.RBrace) {
		p.next()
		s.out = append(s.out, ast.Instr{Tok: token.Synthetic(token.DictLit, "{}", 0, open)})
		return
	}
	first := p.parseOr(stopAtArrow)
	if p.at(token.Arrow) {
		key, pairs := first, 0
		for {
			p.next() // '->'
			val := p.parseExpr()
			s.out = splice(s.out, key)
			s.out = splice(s.out, val)
			pairs++
			if !p.accept(token.Comma) || p.at(token.RBrace) {
				break
			}
			key = p.parseOr(stopAtArrow)
			if !p.at(token.Arrow) {
				p.fail(diag.SynUnexpectedToken, p.peek(), "expected '->' in dict literal, got %s", describe(p.peek()))
			}
		}
		p.expectClose(open, token.RBrace)
		s.out = append(s.out, ast.Instr{Tok: token.Synthetic(token.DictLit, "{}", pairs, open)})
		return
	}
	s.out = splice(s.out, first)
	n := 1
	for p.accept(token.Comma) && !p.at(token.RBrace) {
		s.out = splice(s.out, p.parseExpr())
		n++
	}
	p.expectClose(open, token.RBrace)
	s.out = append(s.out, ast.Instr{Tok: token.Synthetic(token.SetLit, "{}", n, open)})
}
