// Package scope implements the chained variable environment of the
// interpreter.
//
// Reads walk the whole chain and yield none for unknown names. Writes walk
// outwards only while no barrier is crossed; a function-call scope is a
// barrier, so callee code sees caller variables but cannot assign them.
// New bindings are created only by Define.
package scope

import (
	"slices"
	"sort"

	"knot/internal/ast"
	"knot/internal/diag"
	"knot/internal/source"
	"knot/internal/value"
)

// Kind enumerates scope categories.
type Kind uint8

const (
	KindGlobal   Kind = iota // session-wide root
	KindBlock                // if/while/for bodies
	KindFunction             // user function call, always a barrier
	KindWith                 // let NAME be EXPR
)

func (k Kind) String() string {
	switch k {
	case KindGlobal:
		return "global"
	case KindBlock:
		return "block"
	case KindFunction:
		return "function"
	case KindWith:
		return "with"
	default:
		return "invalid"
	}
}

// Scope is one link in the environment chain.
type Scope struct {
	kind    Kind
	parent  *Scope
	barrier bool
	vars    map[string]value.Value
	funcs   map[string]*ast.FuncDef
	forward map[string]bool
}

// NewGlobal creates a root scope.
func NewGlobal() *Scope {
	return &Scope{kind: KindGlobal}
}

// New creates a child scope. Function scopes are always barriers.
func New(parent *Scope, kind Kind) *Scope {
	return &Scope{kind: kind, parent: parent, barrier: kind == KindFunction}
}

func (s *Scope) Kind() Kind     { return s.kind }
func (s *Scope) Parent() *Scope { return s.parent }
func (s *Scope) Barrier() bool  { return s.barrier }
func (s *Scope) IsGlobal() bool { return s.parent == nil }

// Depth counts the links above s.
func (s *Scope) Depth() int {
	n := 0
	for p := s.parent; p != nil; p = p.parent {
		n++
	}
	return n
}

// Define creates or overwrites name in s itself.
func (s *Scope) Define(name string, v value.Value) {
	if s.vars == nil {
		s.vars = make(map[string]value.Value)
	}
	s.vars[name] = v
}

// Lookup searches s and its ancestors.
func (s *Scope) Lookup(name string) (value.Value, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return value.NoneValue(), false
}

// Get is Lookup without the presence flag: unknown names read as none.
func (s *Scope) Get(name string) value.Value {
	v, _ := s.Lookup(name)
	return v
}

// Set assigns to the nearest writable scope that owns name.
func (s *Scope) Set(name string, v value.Value) error {
	for cur := s; cur != nil; cur = cur.parent {
		if _, ok := cur.vars[name]; ok {
			cur.vars[name] = v
			return nil
		}
		if cur.barrier {
			break
		}
	}
	return diag.Newf(diag.RunUndefinedVariable, 0, source.Span{}, "undefined variable '%s'", name)
}

// Delete removes name from s itself.
func (s *Scope) Delete(name string) {
	delete(s.vars, name)
}

// DefineFunc registers fn under name/arity. A forward declaration does not
// shadow an existing body in the same scope.
func (s *Scope) DefineFunc(fn *ast.FuncDef) {
	key := fn.Key()
	if fn.Body == nil {
		if _, ok := s.funcs[key]; ok {
			return
		}
		if s.forward == nil {
			s.forward = make(map[string]bool)
		}
		s.forward[key] = true
		return
	}
	if s.funcs == nil {
		s.funcs = make(map[string]*ast.FuncDef)
	}
	s.funcs[key] = fn
	delete(s.forward, key)
}

// Resolution is the outcome of a function lookup.
type Resolution uint8

const (
	NotFound Resolution = iota
	Found
	ForwardOnly // declared without a body
)

// LookupFunc resolves name/arity through the chain. The nearest scope that
// knows the key wins, whether it holds a body or only a declaration.
func (s *Scope) LookupFunc(name string, arity int) (*ast.FuncDef, Resolution) {
	key := ast.FuncKey(name, arity)
	for cur := s; cur != nil; cur = cur.parent {
		if fn, ok := cur.funcs[key]; ok {
			return fn, Found
		}
		if cur.forward[key] {
			return nil, ForwardOnly
		}
	}
	return nil, NotFound
}

// FuncArities lists the arities under which name is defined or declared
// anywhere in the chain.
func (s *Scope) FuncArities(name string) []int {
	var out []int
	add := func(key string) {
		n, arity, ok := splitKey(key)
		if ok && n == name && !slices.Contains(out, arity) {
			out = append(out, arity)
		}
	}
	for cur := s; cur != nil; cur = cur.parent {
		for key := range cur.funcs {
			add(key)
		}
		for key := range cur.forward {
			add(key)
		}
	}
	sort.Ints(out)
	return out
}

// Names lists every visible variable and function name, sorted.
func (s *Scope) Names() []string {
	seen := make(map[string]bool)
	for cur := s; cur != nil; cur = cur.parent {
		for name := range cur.vars {
			seen[name] = true
		}
		for key := range cur.funcs {
			if n, _, ok := splitKey(key); ok {
				seen[n] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
