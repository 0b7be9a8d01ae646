package builtin

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"slices"
	"sort"
	"strings"

	"knot/internal/diag"
	"knot/internal/source"
	"knot/internal/value"
)

// Variadic marks a table entry that accepts any argument count.
const Variadic = -1

// Env is the host state visible to built-ins.
type Env struct {
	Out   io.Writer
	In    *bufio.Reader
	Files *FileTable
	Rand  *rand.Rand
}

// NewEnv wires an Env to the process streams.
func NewEnv() *Env {
	return &Env{
		Out:   os.Stdout,
		In:    bufio.NewReader(os.Stdin),
		Files: NewFileTable(),
		// #nosec G404 -- random() is not used for anything security related.
		Rand: rand.New(rand.NewSource(rand.Int63())),
	}
}

// Func is a free built-in.
type Func func(env *Env, args []value.Value) (value.Value, error)

// Result of a method call. When Mutated is set the evaluator writes Recv
// back to the variable the receiver was loaded from.
type Result struct {
	Value   value.Value
	Recv    value.Value
	Mutated bool
}

// Method is a dtype-specific built-in.
type Method func(env *Env, recv value.Value, args []value.Value) (Result, error)

func ret(v value.Value) Result { return Result{Value: v} }

// mutate returns the new receiver as both the result and the write-back.
func mutate(recv value.Value) Result {
	return Result{Value: recv, Recv: recv, Mutated: true}
}

// table maps name -> arity -> implementation.
type table[F any] map[string]map[int]F

func (t table[F]) add(name string, arity int, fn F) {
	if t[name] == nil {
		t[name] = make(map[int]F)
	}
	t[name][arity] = fn
}

func (t table[F]) lookup(name string, argc int) (F, bool) {
	byArity := t[name]
	if fn, ok := byArity[argc]; ok {
		return fn, true
	}
	fn, ok := byArity[Variadic]
	return fn, ok
}

func (t table[F]) arities(name string) []int {
	out := make([]int, 0, len(t[name]))
	for a := range t[name] {
		out = append(out, a)
	}
	return out
}

func (t table[F]) names() []string {
	out := make([]string, 0, len(t))
	for n := range t {
		out = append(out, n)
	}
	return out
}

// Registry holds every built-in table.
type Registry struct {
	math      table[Func]
	free      table[Func]
	methods   map[value.Kind]table[Method]
	universal table[Method]
	file      table[Method]
	numeric   table[Method]
}

// NewRegistry builds the default tables.
func NewRegistry() *Registry {
	r := &Registry{
		math:      make(table[Func]),
		free:      make(table[Func]),
		methods:   make(map[value.Kind]table[Method]),
		universal: make(table[Method]),
		file:      make(table[Method]),
		numeric:   make(table[Method]),
	}
	registerMath(r)
	registerFree(r)
	registerString(r)
	registerList(r)
	registerSet(r)
	registerDict(r)
	registerNumeric(r)
	registerGraph(r)
	registerUniversal(r)
	registerFile(r)
	return r
}

func (r *Registry) kindTable(k value.Kind) table[Method] {
	if k.IsNumeric() || k == value.Bool {
		return r.numeric
	}
	t := r.methods[k]
	if t == nil {
		t = make(table[Method])
		r.methods[k] = t
	}
	return t
}

// Func resolves a free built-in: math functions shadow the rest.
func (r *Registry) Func(name string, argc int) (Func, bool) {
	if fn, ok := r.math.lookup(name, argc); ok {
		return fn, true
	}
	return r.free.lookup(name, argc)
}

// FuncArities lists arities registered for a free built-in name.
func (r *Registry) FuncArities(name string) []int {
	return append(r.math.arities(name), r.free.arities(name)...)
}

// Method resolves name/argc for recv. File handles are checked before the
// dict table; the universal table is the last resort. An existing name with
// a different arity yields RunWrongArity, an absent one RunUnknownMethod.
func (r *Registry) Method(recv value.Value, name string, argc int) (Method, error) {
	var chain []table[Method]
	if IsFileHandle(recv) {
		chain = append(chain, r.file)
	}
	chain = append(chain, r.kindTable(recv.Kind()), r.universal)
	var arities []int
	for _, t := range chain {
		if fn, ok := t.lookup(name, argc); ok {
			return fn, nil
		}
		arities = append(arities, t.arities(name)...)
	}
	kind := recv.Kind().String()
	if IsFileHandle(recv) {
		kind = "file"
	}
	if len(arities) > 0 {
		return nil, diag.Newf(diag.RunWrongArity, 0, source.Span{},
			"method '%s' of '%s' takes %s, got %d", name, kind, describeArities(arities), argc)
	}
	return nil, diag.Newf(diag.RunUnknownMethod, 0, source.Span{}, "unknown method '%s' for '%s'", name, kind)
}

// Names lists every free built-in name, sorted (REPL completion).
func (r *Registry) Names() []string {
	out := append(r.math.names(), r.free.names()...)
	sort.Strings(out)
	return slices.Compact(out)
}

// MethodNames lists the method names available on a dtype (REPL completion).
func (r *Registry) MethodNames(k value.Kind) []string {
	out := append(r.kindTable(k).names(), r.universal.names()...)
	sort.Strings(out)
	return slices.Compact(out)
}

// describeArities renders "1 argument", "1 or 2 arguments", ...
func describeArities(arities []int) string {
	sort.Ints(arities)
	arities = slices.Compact(arities)
	if len(arities) == 1 && arities[0] == Variadic {
		return "any number of arguments"
	}
	parts := make([]string, 0, len(arities))
	for _, a := range arities {
		if a != Variadic {
			parts = append(parts, fmt.Sprint(a))
		}
	}
	noun := "arguments"
	if len(parts) == 1 && parts[0] == "1" {
		noun = "argument"
	}
	return strings.Join(parts, " or ") + " " + noun
}

// DescribeArities is describeArities for callers outside the package.
func DescribeArities(arities []int) string {
	return describeArities(append([]int(nil), arities...))
}
