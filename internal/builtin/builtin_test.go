package builtin

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"knot/internal/diag"
	"knot/internal/value"
)

func testEnv(stdin string) (*Env, *bytes.Buffer) {
	var out bytes.Buffer
	env := NewEnv()
	env.Out = &out
	env.In = bufio.NewReader(strings.NewReader(stdin))
	return env, &out
}

func callFunc(t *testing.T, r *Registry, env *Env, name string, args ...value.Value) value.Value {
	t.Helper()
	fn, ok := r.Func(name, len(args))
	if !ok {
		t.Fatalf("%s/%d not registered", name, len(args))
	}
	v, err := fn(env, args)
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	return v
}

func callMethod(t *testing.T, r *Registry, env *Env, recv value.Value, name string, args ...value.Value) Result {
	t.Helper()
	m, err := r.Method(recv, name, len(args))
	if err != nil {
		t.Fatalf("%s.%s: %v", recv.Kind(), name, err)
	}
	res, err := m(env, recv, args)
	if err != nil {
		t.Fatalf("%s.%s: %v", recv.Kind(), name, err)
	}
	return res
}

func str(s string) value.Value { return value.StringValue(s) }
func num(n int64) value.Value  { return value.IntValue(n) }

func TestMathFunctions(t *testing.T) {
	r := NewRegistry()
	env, _ := testEnv("")
	cases := []struct {
		name string
		args []value.Value
		want string
	}{
		{"sqrt", []value.Value{num(16)}, "4"},
		{"abs", []value.Value{num(-3)}, "3"},
		{"floor", []value.Value{value.FloatValue(2.7)}, "2"},
		{"round", []value.Value{value.FloatValue(2.375), num(2)}, "2.38"},
		{"log", []value.Value{num(8), num(2)}, "3"},
		{"log", []value.Value{num(1000)}, "3"},
		{"max", []value.Value{num(1), num(7), num(3)}, "7"},
		{"min", []value.Value{value.NewList([]value.Value{num(4), num(2)})}, "2"},
		{"pow", []value.Value{num(2), num(10)}, "1024"},
	}
	for _, tc := range cases {
		if got := callFunc(t, r, env, tc.name, tc.args...).Repr(); got != tc.want {
			t.Errorf("%s%v = %s, want %s", tc.name, tc.args, got, tc.want)
		}
	}
	fn, _ := r.Func("sqrt", 1)
	if _, err := fn(env, []value.Value{num(-1)}); diag.CodeOf(err) != diag.RunValue {
		t.Fatalf("sqrt(-1) err = %v", err)
	}
}

func TestPrintAndInput(t *testing.T) {
	r := NewRegistry()
	env, out := testEnv("alice\n")
	callFunc(t, r, env, "print", str("a"), num(1), value.NewList([]value.Value{str("x")}))
	name := callFunc(t, r, env, "input", str("name? "))
	if name.Str() != "alice" {
		t.Fatalf("input = %q", name.Str())
	}
	if got, want := out.String(), "a 1 [\"x\"]\nname? "; got != want {
		t.Fatalf("stdout = %q, want %q", got, want)
	}
}

func TestRange(t *testing.T) {
	r := NewRegistry()
	env, _ := testEnv("")
	if got := callFunc(t, r, env, "range", num(4)).Repr(); got != "[0, 1, 2, 3]" {
		t.Errorf("range(4) = %s", got)
	}
	if got := callFunc(t, r, env, "range", num(5), num(1), num(-2)).Repr(); got != "[5, 3]" {
		t.Errorf("range(5, 1, -2) = %s", got)
	}
	fn, _ := r.Func("range", 3)
	if _, err := fn(env, []value.Value{num(0), num(3), num(0)}); err == nil {
		t.Errorf("zero step must fail")
	}
}

func TestArityVersusUnknown(t *testing.T) {
	r := NewRegistry()
	_, err := r.Method(value.NewList(nil), "append", 2)
	if diag.CodeOf(err) != diag.RunWrongArity || !strings.Contains(err.Error(), "takes 1 argument, got 2") {
		t.Fatalf("wrong arity err = %v", err)
	}
	_, err = r.Method(value.NewList(nil), "frobnicate", 0)
	if diag.CodeOf(err) != diag.RunUnknownMethod {
		t.Fatalf("unknown method err = %v", err)
	}
	_, err = r.Method(str("x"), "split", 3)
	if !strings.Contains(err.Error(), "0 or 1 arguments") {
		t.Fatalf("split arity err = %v", err)
	}
	if got := r.FuncArities("round"); len(got) != 2 {
		t.Fatalf("round arities = %v", got)
	}
}

func TestStringMethods(t *testing.T) {
	r := NewRegistry()
	env, _ := testEnv("")
	cases := []struct {
		recv, name string
		args       []value.Value
		want       string
	}{
		{"straße", "upper", nil, `"STRASSE"`},
		{"HeLLo", "lower", nil, `"hello"`},
		{"hello world", "title", nil, `"Hello World"`},
		{"  pad  ", "strip", nil, `"pad"`},
		{"a,b,c", "split", []value.Value{str(",")}, `["a", "b", "c"]`},
		{"a  b", "split", nil, `["a", "b"]`},
		{"héllo", "find", []value.Value{str("l")}, "2"},
		{"abc", "reverse", nil, `"cba"`},
		{"ab", "repeat", []value.Value{num(3)}, `"ababab"`},
		{"-", "join", []value.Value{value.NewList([]value.Value{num(1), num(2)})}, `"1-2"`},
		{"é", "normalize", nil, `"é"`},
		{"abc", "len", nil, "3"},
		{"abc", "startswith", []value.Value{str("ab")}, "true"},
	}
	for _, tc := range cases {
		res := callMethod(t, r, env, str(tc.recv), tc.name, tc.args...)
		if res.Mutated {
			t.Errorf("%q.%s must not mutate", tc.recv, tc.name)
		}
		if got := res.Value.Repr(); got != tc.want {
			t.Errorf("%q.%s = %s, want %s", tc.recv, tc.name, got, tc.want)
		}
	}
}

func TestListMutationsWriteBack(t *testing.T) {
	r := NewRegistry()
	env, _ := testEnv("")
	xs := value.NewList([]value.Value{num(3), num(1)})

	res := callMethod(t, r, env, xs, "append", num(2))
	if !res.Mutated || res.Recv.Repr() != "[3, 1, 2]" {
		t.Fatalf("append = %+v", res)
	}
	if xs.Repr() != "[3, 1]" {
		t.Fatalf("original list changed: %s", xs.Repr())
	}
	res = callMethod(t, r, env, res.Recv, "sort")
	if res.Recv.Repr() != "[1, 2, 3]" {
		t.Fatalf("sort = %s", res.Recv.Repr())
	}
	res = callMethod(t, r, env, res.Recv, "pop")
	if res.Value.Repr() != "3" || res.Recv.Repr() != "[1, 2]" {
		t.Fatalf("pop = %s, rest %s", res.Value.Repr(), res.Recv.Repr())
	}
	if got := callMethod(t, r, env, res.Recv, "contains", num(2)); got.Mutated || !got.Value.Bool() {
		t.Fatalf("contains = %+v", got)
	}
}

func TestDictAndSetMethods(t *testing.T) {
	r := NewRegistry()
	env, _ := testEnv("")
	d := value.NewDict()
	d = callMethod(t, r, env, d, "set", str("a"), num(1)).Recv
	if got := callMethod(t, r, env, d, "get", str("zz"), num(0)).Value; got.Int() != 0 {
		t.Fatalf("get default = %s", got.Repr())
	}
	if got := callMethod(t, r, env, d, "keys").Value.Repr(); got != `["a"]` {
		t.Fatalf("keys = %s", got)
	}

	s, _ := value.NewSet([]value.Value{num(1)})
	s = callMethod(t, r, env, s, "add", num(2)).Recv
	s = callMethod(t, r, env, s, "discard", num(9)).Recv
	if got := s.Repr(); got != "{1, 2}" {
		t.Fatalf("set = %s", got)
	}
	m, _ := r.Method(s, "remove", 1)
	if _, err := m(env, s, []value.Value{num(9)}); err == nil {
		t.Fatalf("remove of a missing element must fail")
	}
}

func TestUniversalFallback(t *testing.T) {
	r := NewRegistry()
	env, _ := testEnv("")
	if got := callMethod(t, r, env, num(3), "type").Value.Str(); got != "int" {
		t.Fatalf("type = %s", got)
	}
	if got := callMethod(t, r, env, value.FloatValue(2.9), "long").Value; got.Kind() != value.Long || got.Int() != 2 {
		t.Fatalf("long() = %s", got.Repr())
	}
	if got := callMethod(t, r, env, value.FloatValue(2.5), "is_integer").Value; got.Bool() {
		t.Fatalf("2.5.is_integer() = true")
	}
}

func TestFileHandles(t *testing.T) {
	r := NewRegistry()
	env, _ := testEnv("")
	path := filepath.Join(t.TempDir(), "notes.txt")

	h := callFunc(t, r, env, "open", str(path), str("w"))
	if !IsFileHandle(h) || TypeName(h) != "file" {
		t.Fatalf("open returned %s", h.Repr())
	}
	callMethod(t, r, env, h, "write", str("one\n"))
	callMethod(t, r, env, h, "writelines", value.NewList([]value.Value{str("two\n"), str("three\n")}))
	callMethod(t, r, env, h, "close")
	if got := callMethod(t, r, env, h, "is_open").Value; got.Bool() {
		t.Fatalf("handle still open after close")
	}
	m, _ := r.Method(h, "write", 1)
	if _, err := m(env, h, []value.Value{str("x")}); diag.CodeOf(err) != diag.RunFileHandle {
		t.Fatalf("write after close err = %v", err)
	}

	h = callFunc(t, r, env, "open", str(path), str("r"))
	if got := callMethod(t, r, env, h, "readline").Value.Str(); got != "one\n" {
		t.Fatalf("readline = %q", got)
	}
	if got := callMethod(t, r, env, h, "readlines").Value.Repr(); got != `["two\n", "three\n"]` {
		t.Fatalf("readlines = %s", got)
	}
	if err := env.Files.Release(h); err != nil {
		t.Fatalf("release: %v", err)
	}
	if env.Files.Len() != 0 {
		t.Fatalf("open handles = %d", env.Files.Len())
	}

	fn, _ := r.Func("open", 2)
	if _, err := fn(env, []value.Value{str(path), str("rw")}); diag.CodeOf(err) != diag.RunFileHandle {
		t.Fatalf("bad mode err = %v", err)
	}
	if _, err := fn(env, []value.Value{str(filepath.Join(t.TempDir(), "missing")), str("r")}); err == nil {
		t.Fatalf("opening a missing file for reading must fail")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}
}
