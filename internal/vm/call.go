package vm

import (
	"knot/internal/ast"
	"knot/internal/builtin"
	"knot/internal/diag"
	"knot/internal/scope"
	"knot/internal/token"
	"knot/internal/trace"
	"knot/internal/value"
)

// call resolves a free call: math built-ins, other built-ins, then user
// functions by name/arity through the scope chain.
func (vm *VM) call(tok token.Token, args []slot, sc *scope.Scope) (value.Value, error) {
	name, argc := tok.Text, len(args)
	if fn, ok := vm.reg.Func(name, argc); ok {
		return fn(vm.env, values(args))
	}
	def, res := sc.LookupFunc(name, argc)
	switch res {
	case scope.Found:
		return vm.callUser(tok, def, args, sc)
	case scope.ForwardOnly:
		return value.NoneValue(), diag.Newf(diag.RunForwardDeclared, tok.Line, tok.Span,
			"function '%s' is declared but not defined", ast.FuncKey(name, argc))
	}
	arities := append(vm.reg.FuncArities(name), sc.FuncArities(name)...)
	if len(arities) > 0 {
		return value.NoneValue(), diag.Newf(diag.RunWrongArity, tok.Line, tok.Span,
			"function '%s' takes %s, got %d", name, builtin.DescribeArities(arities), argc)
	}
	return value.NoneValue(), diag.Newf(diag.RunUnknownFunction, tok.Line, tok.Span, "unknown function '%s'", name)
}

// callUser runs def in a barrier scope whose parent is the caller's scope.
// After the body finishes, reference parameters are written back to the
// caller variables their arguments were loaded from.
func (vm *VM) callUser(tok token.Token, def *ast.FuncDef, args []slot, caller *scope.Scope) (value.Value, error) {
	if vm.depth >= vm.opts.MaxDepth {
		return value.NoneValue(), diag.Newf(diag.RunRecursionLimit, tok.Line, tok.Span, "maximum recursion depth exceeded")
	}
	if vm.opts.Interrupt.IsSet() {
		return value.NoneValue(), diag.Newf(diag.RunInterrupted, tok.Line, tok.Span, "interrupted")
	}

	fsc := scope.New(caller, scope.KindFunction)
	for i, p := range def.Params {
		fsc.Define(p.Name, args[i].v)
	}

	span := trace.Begin(vm.opts.Tracer, trace.ScopeCall, "call:"+def.Key(), 0)
	vm.depth++
	f, err := vm.execStmts(def.Body.Stmts, fsc)
	vm.depth--
	if err != nil {
		span.End("error")
		return value.NoneValue(), err
	}
	span.End("")

	for i, p := range def.Params {
		if !p.Ref || args[i].origin == "" {
			continue
		}
		if err := caller.Set(args[i].origin, fsc.Get(p.Name)); err != nil {
			return value.NoneValue(), diag.AtLine(err, tok.Line, tok.Span)
		}
	}
	if !f.Return {
		return value.NoneValue(), nil
	}
	return f.Value, nil
}

// callMethod dispatches recv.name(args) by dtype. In-place methods return
// the new receiver, which is written back when recv came from a variable.
func (vm *VM) callMethod(tok token.Token, recv slot, args []slot, sc *scope.Scope) (value.Value, error) {
	m, err := vm.reg.Method(recv.v, tok.Text, len(args))
	if err != nil {
		return value.NoneValue(), err
	}
	res, err := m(vm.env, recv.v, values(args))
	if err != nil {
		return value.NoneValue(), err
	}
	if res.Mutated && recv.origin != "" {
		if err := sc.Set(recv.origin, res.Recv); err != nil {
			return value.NoneValue(), err
		}
	}
	return res.Value, nil
}
