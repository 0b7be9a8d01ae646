package vm

import (
	"errors"

	"knot/internal/ast"
	"knot/internal/diag"
	"knot/internal/scope"
	"knot/internal/source"
	"knot/internal/value"
)

// Flow is the completion of a statement. Return marks a give that unwinds
// to the nearest function call; loops and blocks pass it through untouched.
type Flow struct {
	Return bool
	Value  value.Value
}

var normal = Flow{}

func (vm *VM) interrupted(pos ast.Pos) error {
	if vm.opts.Interrupt.IsSet() {
		return diag.Newf(diag.RunInterrupted, pos.Line, pos.Span, "interrupted")
	}
	return nil
}

// hoist registers every function defined directly in stmts, so calls may
// precede the definition inside the same block.
func hoist(stmts []ast.Stmt, sc *scope.Scope) {
	for _, st := range stmts {
		if fn, ok := st.(*ast.FuncDef); ok {
			sc.DefineFunc(fn)
		}
	}
}

// execStmts runs stmts directly in sc.
func (vm *VM) execStmts(stmts []ast.Stmt, sc *scope.Scope) (Flow, error) {
	hoist(stmts, sc)
	for _, st := range stmts {
		f, err := vm.exec(st, sc)
		if err != nil || f.Return {
			return f, err
		}
	}
	return normal, nil
}

// execBlock runs b in a fresh child scope of sc.
func (vm *VM) execBlock(b *ast.Block, sc *scope.Scope, kind scope.Kind) (Flow, error) {
	return vm.execStmts(b.Stmts, scope.New(sc, kind))
}

func (vm *VM) exec(st ast.Stmt, sc *scope.Scope) (Flow, error) {
	switch x := st.(type) {
	case *ast.Block:
		return vm.execBlock(x, sc, scope.KindBlock)
	case *ast.Assign:
		return normal, vm.assign(x, x.Decl, sc)
	case *ast.MultiDecl:
		for _, item := range x.Items {
			if err := vm.assign(item, x.Decl, sc); err != nil {
				return normal, err
			}
		}
		return normal, nil
	case *ast.ExprStmt:
		_, err := vm.eval(x.X, sc)
		return normal, err
	case *ast.Pass:
		return normal, nil
	case *ast.Give:
		v := value.NoneValue()
		if x.Value != nil {
			var err error
			if v, err = vm.eval(x.Value, sc); err != nil {
				return normal, err
			}
		}
		return Flow{Return: true, Value: v}, nil
	case *ast.If:
		return vm.execIf(x, sc)
	case *ast.While:
		return vm.execWhile(x, sc)
	case *ast.ForRange:
		return vm.execForRange(x, sc)
	case *ast.ForIn:
		return vm.execForIn(x, sc)
	case *ast.FuncDef:
		// already hoisted; re-registering keeps later redefinitions in order
		sc.DefineFunc(x)
		return normal, nil
	case *ast.With:
		return vm.execWith(x, sc)
	}
	pos := st.Position()
	panic(diag.Newf(diag.UnknownCode, pos.Line, pos.Span, "vm: unhandled statement %T", st))
}

func (vm *VM) assign(a *ast.Assign, decl ast.DeclKind, sc *scope.Scope) error {
	v := value.NoneValue()
	if a.Value != nil {
		var err error
		if v, err = vm.eval(a.Value, sc); err != nil {
			return err
		}
	}
	if decl != ast.DeclNone {
		sc.Define(a.Name, v)
		return nil
	}
	return diag.AtLine(sc.Set(a.Name, v), a.Line, a.Span)
}

func (vm *VM) execIf(x *ast.If, sc *scope.Scope) (Flow, error) {
	for _, br := range x.Branches {
		cond, err := vm.eval(br.Cond, sc)
		if err != nil {
			return normal, err
		}
		if cond.Truthy() {
			return vm.execBlock(br.Body, sc, scope.KindBlock)
		}
	}
	if x.Else != nil {
		return vm.execBlock(x.Else, sc, scope.KindBlock)
	}
	return normal, nil
}

func (vm *VM) execWhile(x *ast.While, sc *scope.Scope) (Flow, error) {
	for {
		if err := vm.interrupted(x.Pos); err != nil {
			return normal, err
		}
		cond, err := vm.eval(x.Cond, sc)
		if err != nil {
			return normal, err
		}
		if !cond.Truthy() {
			return normal, nil
		}
		if f, err := vm.execBlock(x.Body, sc, scope.KindBlock); err != nil || f.Return {
			return f, err
		}
	}
}

// execForRange: range(N) runs 0..N-1, range(from A to B [step S]) is
// inclusive on both ends. Without a step it counts down when A > B.
func (vm *VM) execForRange(x *ast.ForRange, sc *scope.Scope) (Flow, error) {
	from, err := vm.evalNumber(x.From, sc, "range start")
	if err != nil {
		return normal, err
	}
	to, err := vm.evalNumber(x.To, sc, "range end")
	if err != nil {
		return normal, err
	}
	step := value.IntValue(1)
	if x.Step != nil {
		if step, err = vm.evalNumber(x.Step, sc, "range step"); err != nil {
			return normal, err
		}
	} else if !x.Upto && from.Float() > to.Float() {
		step = value.IntValue(-1)
	}
	s := step.Float()
	if s > -value.Epsilon && s < value.Epsilon {
		return normal, diag.Newf(diag.RunValue, x.Line, x.Span, "range step must not be zero")
	}

	done := func(cur float64) bool {
		end := to.Float()
		switch {
		case x.Upto:
			return cur >= end
		case s > 0:
			return cur > end
		default:
			return cur < end
		}
	}
	for cur := from; !done(cur.Float()); {
		if err := vm.interrupted(x.Pos); err != nil {
			return normal, err
		}
		body := scope.New(sc, scope.KindBlock)
		body.Define(x.Var, cur)
		if f, err := vm.execStmts(x.Body.Stmts, body); err != nil || f.Return {
			return f, err
		}
		if cur, err = value.Add(cur, step); err != nil {
			return normal, diag.AtLine(err, x.Line, x.Span)
		}
	}
	return normal, nil
}

func (vm *VM) evalNumber(e ast.Expr, sc *scope.Scope, what string) (value.Value, error) {
	v, err := vm.eval(e, sc)
	if err != nil {
		return v, err
	}
	if !v.IsNumber() {
		return v, diag.Newf(diag.RunTypeMismatch, e.Line(), source.Span{}, "%s must be a number, got '%s'", what, v.Kind())
	}
	return v, nil
}

func (vm *VM) execForIn(x *ast.ForIn, sc *scope.Scope) (Flow, error) {
	it, err := vm.eval(x.Iter, sc)
	if err != nil {
		return normal, err
	}
	items, err := value.Iterate(it)
	if err != nil {
		return normal, diag.AtLine(err, x.Line, x.Span)
	}
	for _, item := range items {
		if err := vm.interrupted(x.Pos); err != nil {
			return normal, err
		}
		body := scope.New(sc, scope.KindBlock)
		body.Define(x.Var, item)
		if f, err := vm.execStmts(x.Body.Stmts, body); err != nil || f.Return {
			return f, err
		}
	}
	return normal, nil
}

// execWith binds the resource for the block and releases it exactly once,
// whichever way the block is left. A body error wins over a release error.
func (vm *VM) execWith(x *ast.With, sc *scope.Scope) (f Flow, err error) {
	res, err := vm.eval(x.Value, sc)
	if err != nil {
		return normal, err
	}
	defer func() {
		rerr := diag.AtLine(vm.env.Files.Release(res), x.Line, x.Span)
		if err == nil {
			err = rerr
		} else if rerr != nil {
			err = errors.Join(err, rerr)
		}
	}()
	inner := scope.New(sc, scope.KindWith)
	inner.Define(x.Name, res)
	return vm.execStmts(x.Body.Stmts, inner)
}
