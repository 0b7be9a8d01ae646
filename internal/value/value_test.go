package value

import (
	"math"
	"testing"

	"knot/internal/diag"
)

// must unwraps a (Value, error) pair: must(t)(Add(a, b)).
func must(t *testing.T) func(Value, error) Value {
	return func(v Value, err error) Value {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return v
	}
}

func ints(ns ...int64) []Value {
	out := make([]Value, len(ns))
	for i, n := range ns {
		out[i] = IntValue(n)
	}
	return out
}

func TestArithmeticPromotion(t *testing.T) {
	cases := []struct {
		name string
		got  Value
		kind Kind
		repr string
	}{
		{"int+int", must(t)(Add(IntValue(2), IntValue(3))), Int, "5"},
		{"int+double", must(t)(Add(IntValue(2), FloatValue(0.5))), Double, "2.5"},
		{"long*int", must(t)(Mul(Signed(Long, 4), IntValue(3))), Long, "12"},
		{"uint+int", must(t)(Add(Unsigned(UInt, 1), IntValue(1))), UInt, "2"},
		{"int/int truncates", must(t)(Div(IntValue(7), IntValue(2))), Int, "3"},
		{"double/int", must(t)(Div(FloatValue(7), IntValue(2))), Double, "3.5"},
		{"mod", must(t)(Mod(IntValue(-7), IntValue(3))), Int, "-1"},
		{"pow int", must(t)(Pow(IntValue(2), IntValue(10))), Int, "1024"},
		{"pow negative exp", must(t)(Pow(IntValue(2), IntValue(-1))), Double, "0.5"},
		{"pow overflow", must(t)(Pow(IntValue(2), IntValue(81))), Double, "2.41785163922926e+24"},
		{"neg", must(t)(Neg(IntValue(3))), Int, "-3"},
		{"string concat", must(t)(Add(StringValue("n="), IntValue(3))), String, `"n=3"`},
		{"string repeat", must(t)(Mul(IntValue(2), StringValue("ab"))), String, `"abab"`},
		{"list concat", must(t)(Add(NewList(ints(1)), NewList(ints(2)))), List, "[1, 2]"},
		{"list repeat", must(t)(Mul(NewList(ints(0)), IntValue(3))), List, "[0, 0, 0]"},
	}
	for _, tc := range cases {
		if tc.got.Kind() != tc.kind || tc.got.Repr() != tc.repr {
			t.Errorf("%s: got %s %s, want %s %s", tc.name, tc.got.Kind(), tc.got.Repr(), tc.kind, tc.repr)
		}
	}
}

func TestIntegerOverflowBecomesDouble(t *testing.T) {
	cases := []struct {
		name string
		got  Value
		kind Kind
		repr string
	}{
		{"max+1", must(t)(Add(IntValue(math.MaxInt64), IntValue(1))), Double, "9.22337203685478e+18"},
		{"min-1", must(t)(Sub(IntValue(math.MinInt64), IntValue(1))), Double, "-9.22337203685478e+18"},
		{"max*2", must(t)(Mul(IntValue(math.MaxInt64), IntValue(2))), Double, "1.84467440737096e+19"},
		{"min*-1", must(t)(Mul(IntValue(math.MinInt64), IntValue(-1))), Double, "9.22337203685478e+18"},
		{"min/-1", must(t)(Div(IntValue(math.MinInt64), IntValue(-1))), Double, "9.22337203685478e+18"},
		{"min%-1", must(t)(Mod(IntValue(math.MinInt64), IntValue(-1))), Int, "0"},
		{"neg min", must(t)(Neg(IntValue(math.MinInt64))), Double, "9.22337203685478e+18"},
		{"uint 0-1", must(t)(Sub(Unsigned(UInt, 0), Unsigned(UInt, 1))), Double, "-1"},
		{"uint max+1", must(t)(Add(Unsigned(ULong, math.MaxUint64), Unsigned(UInt, 1))), Double, "1.84467440737096e+19"},
		{"in range", must(t)(Mul(IntValue(-3), IntValue(4))), Int, "-12"},
	}
	for _, tc := range cases {
		if tc.got.Kind() != tc.kind || tc.got.Repr() != tc.repr {
			t.Errorf("%s: got %s %s, want %s %s", tc.name, tc.got.Kind(), tc.got.Repr(), tc.kind, tc.repr)
		}
	}
}

func TestRepetitionCountTooLarge(t *testing.T) {
	const huge = 4611686018427387904
	for _, v := range []Value{StringValue("ab"), NewList(ints(1, 2))} {
		if _, err := Mul(v, IntValue(huge)); diag.CodeOf(err) != diag.RunValue {
			t.Errorf("%s * huge: expected a value error, got %v", v.Repr(), err)
		}
		if _, err := Mul(IntValue(huge), v); diag.CodeOf(err) != diag.RunValue {
			t.Errorf("huge * %s: expected a value error, got %v", v.Repr(), err)
		}
	}
	if got := must(t)(Mul(StringValue("ab"), IntValue(-2))); got.Repr() != `""` {
		t.Errorf("negative count: got %s", got.Repr())
	}
}

func TestDivisionByNearZero(t *testing.T) {
	for _, div := range []Value{IntValue(0), FloatValue(1e-12)} {
		if _, err := Div(IntValue(1), div); diag.CodeOf(err) != diag.RunDivisionByZero {
			t.Errorf("1 / %s: expected division by zero, got %v", div.Repr(), err)
		}
		if _, err := Mod(IntValue(1), div); diag.CodeOf(err) != diag.RunDivisionByZero {
			t.Errorf("1 %% %s: expected modulo by zero, got %v", div.Repr(), err)
		}
	}
	if _, err := Sub(StringValue("a"), IntValue(1)); diag.CodeOf(err) != diag.RunTypeMismatch {
		t.Errorf("string - int must be a type mismatch, got %v", err)
	}
}

func TestEqualityFamilies(t *testing.T) {
	third := must(t)(Add(FloatValue(0.1), FloatValue(0.2)))
	if !Equal(third, FloatValue(0.3)) {
		t.Errorf("0.1+0.2 == 0.3 within epsilon")
	}
	if Is(third, FloatValue(0.3)) {
		t.Errorf("is must not use tolerance")
	}
	if !Equal(IntValue(1), FloatValue(1)) || Is(IntValue(1), FloatValue(1)) {
		t.Errorf("1 == 1.0 but not 1 is 1.0")
	}
	a := NewList(ints(1, 2))
	b := a
	c := NewList(ints(1, 2))
	if !Points(a, b) || Points(a, c) {
		t.Errorf("points compares backing storage")
	}
	if !Is(a, c) || !Equal(a, c) {
		t.Errorf("structurally equal lists")
	}
	if !Points(IntValue(4), IntValue(4)) || Points(IntValue(4), Signed(Long, 4)) {
		t.Errorf("points on primitives is exact and same-dtype")
	}
}

func TestTruthiness(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{NoneValue(), false},
		{IntValue(0), false},
		{FloatValue(1e-12), false},
		{FloatValue(0.5), true},
		{StringValue(""), false},
		{StringValue("x"), true},
		{NewList(nil), false},
		{NewDict(), false},
		{MakeEdge(Directed, IntValue(1), IntValue(2)), true},
	}
	for _, tc := range cases {
		if got := tc.v.Truthy(); got != tc.want {
			t.Errorf("Truthy(%s) = %v", tc.v.Repr(), got)
		}
	}
}

func TestMutatorsCloneFirst(t *testing.T) {
	orig := NewList(ints(1, 2, 3))
	appended := orig.Append(IntValue(4))
	if orig.Len() != 3 || appended.Len() != 4 {
		t.Fatalf("append mutated the original: %s / %s", orig.Repr(), appended.Repr())
	}
	rest, popped, err := orig.Pop(-1)
	if err != nil || popped.Int() != 3 || rest.Repr() != "[1, 2]" || orig.Len() != 3 {
		t.Fatalf("pop: %s %s %v", rest.Repr(), popped.Repr(), err)
	}
	if _, _, err := NewList(nil).Pop(-1); diag.CodeOf(err) != diag.RunIndexOutOfRange {
		t.Errorf("pop on empty list: %v", err)
	}
	ins := orig.Insert(1, IntValue(9))
	if ins.Repr() != "[1, 9, 2, 3]" {
		t.Errorf("insert: %s", ins.Repr())
	}
	if s := orig.Slice(-2, 100); s.Repr() != "[2, 3]" {
		t.Errorf("slice: %s", s.Repr())
	}
	sorted := must(t)(NewList(ints(3, 1, 2)).Sorted())
	if sorted.Repr() != "[1, 2, 3]" {
		t.Errorf("sorted: %s", sorted.Repr())
	}
	if _, err := NewList([]Value{IntValue(1), StringValue("a")}).Sorted(); diag.CodeOf(err) != diag.RunTypeMismatch {
		t.Errorf("mixed sort must fail: %v", err)
	}
}

func TestSetsAndDicts(t *testing.T) {
	s := must(t)(NewSet(ints(3, 1, 3, 2)))
	if s.Repr() != "{3, 1, 2}" {
		t.Errorf("set keeps insertion order without duplicates: %s", s.Repr())
	}
	if _, err := NewSet([]Value{NewList(nil)}); diag.CodeOf(err) != diag.RunUnhashable {
		t.Errorf("lists are unhashable: %v", err)
	}
	u := must(t)(s.Union(NewList(ints(4))))
	if u.Len() != 4 || s.Len() != 3 {
		t.Errorf("union must not touch the receiver")
	}
	inter := must(t)(u.Intersection(must(t)(NewSet(ints(1, 4, 7)))))
	if inter.Repr() != "{1, 4}" {
		t.Errorf("intersection: %s", inter.Repr())
	}
	if _, err := s.SetRemove(IntValue(9), true); diag.CodeOf(err) != diag.RunValue {
		t.Errorf("remove of a missing element: %v", err)
	}

	d := must(t)(NewDict().Put(StringValue("b"), IntValue(2)))
	d = must(t)(d.Put(StringValue("a"), IntValue(1)))
	d = must(t)(d.Put(StringValue("b"), IntValue(3)))
	if d.Repr() != `{"b" -> 3, "a" -> 1}` {
		t.Errorf("dict: %s", d.Repr())
	}
	if got, ok, _ := d.Get(StringValue("a")); !ok || got.Int() != 1 {
		t.Errorf("get a: %v %v", got, ok)
	}
	d2 := must(t)(d.Delete(StringValue("b")))
	if d2.Len() != 1 || d.Len() != 2 {
		t.Errorf("delete clones")
	}
	if d.Entries().Repr() != `[["b", 3], ["a", 1]]` {
		t.Errorf("entries: %s", d.Entries().Repr())
	}
	if empty := must(t)(NewSet(nil)); empty.Repr() != "set()" || NewDict().Repr() != "{}" {
		t.Errorf("empty forms")
	}
}

func TestConvert(t *testing.T) {
	cases := []struct {
		k    Kind
		in   Value
		repr string
	}{
		{Int, StringValue(" 42 "), "42"},
		{Int, FloatValue(3.9), "3"},
		{Double, StringValue("2.5"), "2.5"},
		{ULong, IntValue(7), "7"},
		{String, NewList(ints(1)), `"[1]"`},
		{List, StringValue("ab"), `["a", "b"]`},
		{Set, NewList(ints(1, 1)), "{1}"},
		{Bool, StringValue(""), "false"},
	}
	for _, tc := range cases {
		got := must(t)(Convert(tc.k, tc.in))
		if got.Kind() != tc.k || got.Repr() != tc.repr {
			t.Errorf("%s(%s) = %s %s", tc.k, tc.in.Repr(), got.Kind(), got.Repr())
		}
	}
	if _, err := Convert(Int, StringValue("abc")); diag.CodeOf(err) != diag.RunValue {
		t.Errorf("bad literal: %v", err)
	}
	if v, _ := ParseLiteral("12"); v.Kind() != Int {
		t.Errorf("integer literal dtype %s", v.Kind())
	}
	if v, _ := ParseLiteral("1.5"); v.Kind() != Double {
		t.Errorf("decimal literal dtype %s", v.Kind())
	}
}

func TestReprQuoting(t *testing.T) {
	v := NewList([]Value{StringValue("a\"b\n"), NoneValue(), BoolValue(true), FloatValue(3)})
	if got := v.Repr(); got != `["a\"b\n", none, true, 3]` {
		t.Errorf("repr: %s", got)
	}
	if StringValue("raw").String() != "raw" {
		t.Errorf("String of a string is raw")
	}
}

func TestHashConsistency(t *testing.T) {
	if StringValue("x").Hash() != StringValue("x").Hash() {
		t.Errorf("equal strings hash equally")
	}
	if IntValue(1).Hash() == FloatValue(1).Hash() {
		t.Errorf("dtype takes part in the hash")
	}
	if _, err := NewList(nil).KeyHash(); diag.CodeOf(err) != diag.RunUnhashable {
		t.Errorf("KeyHash of list: %v", err)
	}
	if NewList(ints(1)).Hash() == 0 {
		t.Errorf("Hash works for any value")
	}
}
