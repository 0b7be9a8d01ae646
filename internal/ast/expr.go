package ast

import (
	"strconv"
	"strings"

	"knot/internal/token"
	"knot/internal/value"
)

// Expr is either an RPN sequence or a Logical short-circuit node.
type Expr interface {
	exprNode()
	// Line is the line of the first token of the expression.
	Line() uint32
}

// Instr is one RPN entry.
//
//	Number, String, true/false/none  push Const
//	Ident                            load variable Tok.Text
//	operators                        pop operands, push result
//	Call, MethodCall                 Tok.Text is the name, Tok.Argc the argument count
//	ListLit, SetLit, DictLit         Tok.Argc elements (pairs for dicts)
//	Lazy                             evaluate Sub (a Logical) and push its result
type Instr struct {
	Tok   token.Token
	Const value.Value
	Sub   Expr
}

// RPN is a flat operand-before-operator sequence.
type RPN struct {
	Code []Instr
}

// Logical keeps && and || as a tree so the right side is evaluated lazily.
type Logical struct {
	Op    token.Kind // AndAnd or OrOr
	Tok   token.Token
	Left  Expr
	Right Expr
}

func (*RPN) exprNode()     {}
func (*Logical) exprNode() {}

func (r *RPN) Line() uint32 {
	if len(r.Code) == 0 {
		return 0
	}
	return r.Code[0].Tok.Line
}

func (l *Logical) Line() uint32 { return l.Left.Line() }

// Dump renders an expression in a compact debug form: RPN entries separated
// by spaces, logical nodes as (op left right).
func Dump(e Expr) string {
	var sb strings.Builder
	dump(&sb, e)
	return sb.String()
}

func dump(sb *strings.Builder, e Expr) {
	switch x := e.(type) {
	case *Logical:
		sb.WriteString("(" + x.Op.String() + " ")
		dump(sb, x.Left)
		sb.WriteByte(' ')
		dump(sb, x.Right)
		sb.WriteByte(')')
	case *RPN:
		for i, in := range x.Code {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(in.String())
		}
	}
}

// String renders one instruction for Dump.
func (in Instr) String() string {
	switch in.Tok.Kind {
	case token.Number, token.String, token.KwTrue, token.KwFalse, token.KwNone:
		return in.Const.Repr()
	case token.Ident:
		return in.Tok.Text
	case token.Call:
		return in.Tok.Text + "/" + strconv.Itoa(in.Tok.Argc)
	case token.MethodCall:
		return "." + in.Tok.Text + "/" + strconv.Itoa(in.Tok.Argc)
	case token.ListLit, token.SetLit, token.DictLit:
		return in.Tok.Kind.String() + "/" + strconv.Itoa(in.Tok.Argc)
	case token.Lazy:
		return Dump(in.Sub)
	}
	return in.Tok.Kind.String()
}
