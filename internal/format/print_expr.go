package format

import (
	"strings"

	"knot/internal/ast"
	"knot/internal/parser"
	"knot/internal/token"
)

// Binding strengths of printed fragments. Operators use parser.Precedence;
// logical operators bind below everything in the RPN layer.
const (
	precOr      = -2
	precAnd     = -1
	precEdge    = 2
	precOperand = 100
)

type frag struct {
	text string
	prec int
}

// Expr renders an expression as source text with the minimal parentheses
// needed to parse back to the same tree.
func Expr(e ast.Expr) string {
	return expr(e).text
}

func expr(e ast.Expr) frag {
	switch x := e.(type) {
	case *ast.Logical:
		return logical(x)
	case *ast.RPN:
		return rpn(x)
	}
	return frag{text: "none", prec: precOperand}
}

func logical(l *ast.Logical) frag {
	prec, op := precOr, " || "
	if l.Op == token.AndAnd {
		prec, op = precAnd, " && "
	}
	left, right := expr(l.Left), expr(l.Right)
	return frag{text: paren(left, left.prec < prec) + op + paren(right, right.prec <= prec), prec: prec}
}

func rpn(r *ast.RPN) frag {
	var st []frag
	pop := func(n int) []frag {
		if len(st) < n {
			panic("format: malformed RPN")
		}
		args := append([]frag(nil), st[len(st)-n:]...)
		st = st[:len(st)-n]
		return args
	}
	for _, in := range r.Code {
		tok := in.Tok
		switch tok.Kind {
		case token.Number:
			st = append(st, frag{text: tok.Text, prec: precOperand})
		case token.String:
			st = append(st, frag{text: quote(in.Const.Str()), prec: precOperand})
		case token.KwTrue, token.KwFalse, token.KwNone, token.Ident:
			text := tok.Text
			if tok.Kind != token.Ident {
				text = tok.Kind.String()
			}
			st = append(st, frag{text: text, prec: precOperand})
		case token.Lazy:
			st = append(st, expr(in.Sub))
		case token.Call:
			args := pop(tok.Argc)
			st = append(st, frag{text: tok.Text + "(" + joinArgs(args) + ")", prec: precOperand})
		case token.MethodCall:
			args := pop(tok.Argc)
			recv := pop(1)[0]
			st = append(st, frag{
				text: paren(recv, recv.prec < precOperand) + "." + tok.Text + "(" + joinArgs(args) + ")",
				prec: precOperand,
			})
		case token.ListLit:
			st = append(st, frag{text: "[" + joinArgs(pop(tok.Argc)) + "]", prec: precOperand})
		case token.SetLit:
			if tok.Argc == 0 {
				st = append(st, frag{text: "set()", prec: precOperand})
				break
			}
			st = append(st, frag{text: "{" + joinArgs(pop(tok.Argc)) + "}", prec: precOperand})
		case token.DictLit:
			items := pop(2 * tok.Argc)
			pairs := make([]string, 0, tok.Argc)
			for i := 0; i < len(items); i += 2 {
				k, v := items[i], items[i+1]
				pairs = append(pairs, paren(k, k.prec <= precEdge)+" -> "+v.text)
			}
			st = append(st, frag{text: "{" + strings.Join(pairs, ", ") + "}", prec: precOperand})
		case token.Neg, token.Bang:
			x := pop(1)[0]
			prec, _ := parser.Precedence(tok.Kind)
			sym := "-"
			if tok.Kind == token.Bang {
				sym = "!"
			}
			body := paren(x, x.prec < prec)
			if strings.HasPrefix(body, "-") || strings.HasPrefix(body, "!") {
				body = " " + body
			}
			st = append(st, frag{text: sym + body, prec: prec})
		default:
			ab := pop(2)
			a, b := ab[0], ab[1]
			prec, right := parser.Precedence(tok.Kind)
			lp := a.prec < prec || (a.prec == prec && right)
			rp := b.prec < prec || (b.prec == prec && !right)
			st = append(st, frag{text: paren(a, lp) + " " + tok.Kind.String() + " " + paren(b, rp), prec: prec})
		}
	}
	if len(st) != 1 {
		panic("format: malformed RPN")
	}
	return st[0]
}

func paren(f frag, need bool) string {
	if need {
		return "(" + f.text + ")"
	}
	return f.text
}

func joinArgs(args []frag) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.text
	}
	return strings.Join(parts, ", ")
}

// quote escapes only what the lexer understands: \n \t \\ and the quote.
func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
