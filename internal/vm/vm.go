package vm

import (
	"github.com/tevino/abool/v2"

	"knot/internal/ast"
	"knot/internal/builtin"
	"knot/internal/diag"
	"knot/internal/scope"
	"knot/internal/source"
	"knot/internal/trace"
	"knot/internal/value"
)

// DefaultMaxDepth bounds nested user function calls.
const DefaultMaxDepth = 2000

// Options configures a VM.
type Options struct {
	MaxDepth  int               // 0 = DefaultMaxDepth
	Tracer    trace.Tracer      // optional; user calls are emitted at ScopeCall
	Interrupt *abool.AtomicBool // optional; set from a signal handler to abort the running program
}

// VM executes parsed programs against one persistent global scope.
// It is not safe for concurrent use.
type VM struct {
	env    *builtin.Env
	reg    *builtin.Registry
	global *scope.Scope
	opts   Options
	depth  int
}

// New creates a VM with a fresh global scope holding the built-in constants.
func New(env *builtin.Env, opts Options) *VM {
	if env == nil {
		env = builtin.NewEnv()
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Interrupt == nil {
		opts.Interrupt = abool.NewBool(false)
	}
	if opts.Tracer == nil {
		opts.Tracer = trace.Nop
	}
	vm := &VM{env: env, reg: builtin.NewRegistry(), opts: opts}
	vm.global = newGlobal()
	return vm
}

func newGlobal() *scope.Scope {
	g := scope.NewGlobal()
	for name, v := range builtin.Globals() {
		g.Define(name, v)
	}
	return g
}

// Global returns the session scope.
func (vm *VM) Global() *scope.Scope { return vm.global }

// Registry exposes the built-in tables (REPL completion).
func (vm *VM) Registry() *builtin.Registry { return vm.reg }

// Env returns the host environment of built-ins.
func (vm *VM) Env() *builtin.Env { return vm.env }

// Interrupt returns the flag checked by loops and calls.
func (vm *VM) Interrupt() *abool.AtomicBool { return vm.opts.Interrupt }

// Reset drops every user binding and closes all open file handles (REPL `wipe`).
func (vm *VM) Reset() error {
	vm.global = newGlobal()
	vm.depth = 0
	return vm.env.Files.CloseAll()
}

// Outcome of a top-level run. Returned is set when the program executed a
// top-level give; Value then holds the given value.
type Outcome struct {
	Value    value.Value
	Returned bool
}

// Run executes prog in the global scope. Functions defined anywhere at the
// top level are registered before the first statement runs.
func (vm *VM) Run(prog *ast.Program) (out Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{}
			err = diag.Newf(diag.RunValue, 0, source.Span{}, "internal error: %v", r)
		}
	}()
	vm.opts.Interrupt.UnSet()
	vm.depth = 0
	f, err := vm.execStmts(prog.Stmts, vm.global)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Value: f.Value, Returned: f.Return}, nil
}

// Eval evaluates a single expression in sc (global scope when nil).
func (vm *VM) Eval(e ast.Expr, sc *scope.Scope) (value.Value, error) {
	if sc == nil {
		sc = vm.global
	}
	return vm.eval(e, sc)
}
