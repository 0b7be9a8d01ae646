package value

import (
	"sort"

	"knot/internal/diag"
	"knot/internal/source"
)

type listData struct {
	items []Value
}

// NewList wraps items; the slice is owned by the new value.
func NewList(items []Value) Value {
	return Value{k: List, l: &listData{items: items}}
}

func (v Value) list() []Value {
	if v.l == nil {
		return nil
	}
	return v.l.items
}

// Items returns the elements of a list. Callers must not modify the slice.
func (v Value) Items() []Value { return v.list() }

func (v Value) cloneItems(extra int) []Value {
	src := v.list()
	out := make([]Value, len(src), len(src)+extra)
	copy(out, src)
	return out
}

// normIndex maps a possibly negative index onto [0, n).
func normIndex(i int64, n int) (int, error) {
	if i < 0 {
		i += int64(n)
	}
	if i < 0 || i >= int64(n) {
		return 0, diag.Newf(diag.RunIndexOutOfRange, 0, source.Span{}, "index %d out of range for length %d", i, n)
	}
	return int(i), nil
}

// clampIndex maps a possibly negative bound onto [0, n].
func clampIndex(i int64, n int) int {
	if i < 0 {
		i += int64(n)
	}
	return int(max(0, min(i, int64(n))))
}

func (v Value) Append(x Value) Value {
	items := v.cloneItems(1)
	return NewList(append(items, x))
}

// Extend appends every element of an iterable.
func (v Value) Extend(other Value) (Value, error) {
	more, err := Iterate(other)
	if err != nil {
		return v, err
	}
	items := v.cloneItems(len(more))
	return NewList(append(items, more...)), nil
}

func (v Value) Insert(i int64, x Value) Value {
	items := v.cloneItems(1)
	at := clampIndex(i, len(items))
	items = append(items, Value{})
	copy(items[at+1:], items[at:])
	items[at] = x
	return NewList(items)
}

// RemoveValue drops the first element equal to x.
func (v Value) RemoveValue(x Value) (Value, error) {
	idx := v.IndexOf(x)
	if idx < 0 {
		return v, diag.Newf(diag.RunValue, 0, source.Span{}, "%s not in list", x.Repr())
	}
	items := v.cloneItems(0)
	return NewList(append(items[:idx], items[idx+1:]...)), nil
}

// Pop removes the element at i and returns the shortened list and the element.
func (v Value) Pop(i int64) (Value, Value, error) {
	items := v.cloneItems(0)
	if len(items) == 0 {
		return v, Value{}, diag.Newf(diag.RunIndexOutOfRange, 0, source.Span{}, "pop from empty list")
	}
	at, err := normIndex(i, len(items))
	if err != nil {
		return v, Value{}, err
	}
	x := items[at]
	return NewList(append(items[:at], items[at+1:]...)), x, nil
}

// IndexOf returns the position of the first element equal to x, or -1.
func (v Value) IndexOf(x Value) int {
	for i, it := range v.list() {
		if Equal(it, x) {
			return i
		}
	}
	return -1
}

func (v Value) At(i int64) (Value, error) {
	items := v.list()
	at, err := normIndex(i, len(items))
	if err != nil {
		return Value{}, err
	}
	return items[at], nil
}

func (v Value) SetAt(i int64, x Value) (Value, error) {
	items := v.cloneItems(0)
	at, err := normIndex(i, len(items))
	if err != nil {
		return v, err
	}
	items[at] = x
	return NewList(items), nil
}

// Slice returns items [from, to) with Python-like clamping.
func (v Value) Slice(from, to int64) Value {
	items := v.list()
	a, b := clampIndex(from, len(items)), clampIndex(to, len(items))
	if a >= b {
		return NewList(nil)
	}
	return NewList(append([]Value(nil), items[a:b]...))
}

// Sorted returns a sorted copy; elements must be mutually ordered.
func (v Value) Sorted() (Value, error) {
	items := v.cloneItems(0)
	var cmpErr error
	sort.SliceStable(items, func(i, j int) bool {
		c, err := Compare(items[i], items[j])
		if err != nil && cmpErr == nil {
			cmpErr = err
		}
		return c < 0
	})
	if cmpErr != nil {
		return v, cmpErr
	}
	return NewList(items), nil
}

func (v Value) Reversed() Value {
	src := v.list()
	out := make([]Value, len(src))
	for i, it := range src {
		out[len(src)-1-i] = it
	}
	return NewList(out)
}

// Iterate yields the elements visited by a for-in loop: list items, string
// characters, set elements, dict keys and graph nodes.
func Iterate(v Value) ([]Value, error) {
	switch v.k {
	case List:
		return v.list(), nil
	case String:
		rs := []rune(v.s)
		out := make([]Value, len(rs))
		for i, r := range rs {
			out[i] = StringValue(string(r))
		}
		return out, nil
	case Set, Dict:
		if v.m == nil {
			return nil, nil
		}
		return v.m.keys, nil
	case Graph:
		if v.g == nil {
			return nil, nil
		}
		return v.g.nodes.keys, nil
	}
	return nil, diag.Newf(diag.RunTypeMismatch, 0, source.Span{}, "'%s' is not iterable", v.k)
}
