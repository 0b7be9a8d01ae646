package vm

import (
	"fmt"

	"knot/internal/ast"
	"knot/internal/diag"
	"knot/internal/scope"
	"knot/internal/source"
	"knot/internal/token"
	"knot/internal/value"
)

// slot is one evaluation stack entry. origin is the variable the value was
// loaded from, "" for temporaries; mutations are written back through it.
type slot struct {
	v      value.Value
	origin string
}

type stack []slot

func (s *stack) push(v value.Value, origin string) { *s = append(*s, slot{v: v, origin: origin}) }

// popN removes the top n slots and returns them in push order.
func (s *stack) popN(n int, tok token.Token) ([]slot, error) {
	if n > len(*s) {
		return nil, diag.Newf(diag.RunStackUnderflow, tok.Line, tok.Span,
			"'%s' needs %d operand(s), stack has %d", describeTok(tok), n, len(*s))
	}
	top := len(*s) - n
	out := append([]slot(nil), (*s)[top:]...)
	*s = (*s)[:top]
	return out, nil
}

func describeTok(tok token.Token) string {
	if tok.Text != "" {
		return tok.Text
	}
	return tok.Kind.String()
}

func (vm *VM) eval(e ast.Expr, sc *scope.Scope) (value.Value, error) {
	switch x := e.(type) {
	case *ast.Logical:
		return vm.evalLogical(x, sc)
	case *ast.RPN:
		return vm.evalRPN(x, sc)
	case nil:
		return value.NoneValue(), nil
	}
	panic(fmt.Sprintf("vm: unknown expression node %T", e))
}

// evalLogical never touches the right operand when the left one decides.
func (vm *VM) evalLogical(x *ast.Logical, sc *scope.Scope) (value.Value, error) {
	left, err := vm.eval(x.Left, sc)
	if err != nil {
		return left, err
	}
	switch x.Op {
	case token.AndAnd:
		if !left.Truthy() {
			return value.BoolValue(false), nil
		}
	case token.OrOr:
		if left.Truthy() {
			return value.BoolValue(true), nil
		}
	default:
		panic("vm: logical node with operator " + x.Op.String())
	}
	right, err := vm.eval(x.Right, sc)
	if err != nil {
		return right, err
	}
	return value.BoolValue(right.Truthy()), nil
}

func (vm *VM) evalRPN(x *ast.RPN, sc *scope.Scope) (value.Value, error) {
	st := make(stack, 0, len(x.Code))
	for _, in := range x.Code {
		if err := vm.step(&st, in, sc); err != nil {
			return value.NoneValue(), diag.AtLine(err, in.Tok.Line, in.Tok.Span)
		}
	}
	if len(st) != 1 {
		return value.NoneValue(), diag.Newf(diag.RunStackUnderflow, x.Line(), firstSpan(x),
			"malformed expression leaves %d values on the stack", len(st))
	}
	return st[0].v, nil
}

func firstSpan(x *ast.RPN) source.Span {
	if len(x.Code) > 0 {
		return x.Code[0].Tok.Span
	}
	return source.Span{}
}

// step executes one RPN instruction.
func (vm *VM) step(st *stack, in ast.Instr, sc *scope.Scope) error {
	tok := in.Tok
	switch tok.Kind {
	case token.Number, token.String, token.KwTrue, token.KwFalse, token.KwNone:
		st.push(in.Const, "")
	case token.Ident:
		st.push(sc.Get(tok.Text), tok.Text)
	case token.Lazy:
		v, err := vm.eval(in.Sub, sc)
		if err != nil {
			return err
		}
		st.push(v, "")
	case token.Neg, token.Bang:
		ops, err := st.popN(1, tok)
		if err != nil {
			return err
		}
		v, err := unary(tok.Kind, ops[0].v)
		if err != nil {
			return err
		}
		st.push(v, "")
	case token.Call:
		args, err := st.popN(tok.Argc, tok)
		if err != nil {
			return err
		}
		v, err := vm.call(tok, args, sc)
		if err != nil {
			return err
		}
		st.push(v, "")
	case token.MethodCall:
		args, err := st.popN(tok.Argc+1, tok)
		if err != nil {
			return err
		}
		v, err := vm.callMethod(tok, args[0], args[1:], sc)
		if err != nil {
			return err
		}
		st.push(v, "")
	case token.ListLit, token.SetLit, token.DictLit:
		n := tok.Argc
		if tok.Kind == token.DictLit {
			n *= 2
		}
		elems, err := st.popN(n, tok)
		if err != nil {
			return err
		}
		v, err := literal(tok.Kind, values(elems))
		if err != nil {
			return err
		}
		st.push(v, "")
	default:
		fn, ok := binaryOps[tok.Kind]
		if !ok {
			return diag.Newf(diag.RunValue, tok.Line, tok.Span, "unsupported operator '%s'", describeTok(tok))
		}
		ops, err := st.popN(2, tok)
		if err != nil {
			return err
		}
		v, err := fn(ops[0].v, ops[1].v)
		if err != nil {
			return err
		}
		st.push(v, "")
	}
	return nil
}

func values(slots []slot) []value.Value {
	out := make([]value.Value, len(slots))
	for i, s := range slots {
		out[i] = s.v
	}
	return out
}

func literal(k token.Kind, elems []value.Value) (value.Value, error) {
	switch k {
	case token.ListLit:
		return value.NewList(elems), nil
	case token.SetLit:
		return value.NewSet(elems)
	default:
		keys := make([]value.Value, 0, len(elems)/2)
		vals := make([]value.Value, 0, len(elems)/2)
		for i := 0; i+1 < len(elems); i += 2 {
			keys = append(keys, elems[i])
			vals = append(vals, elems[i+1])
		}
		return value.DictFrom(keys, vals)
	}
}
