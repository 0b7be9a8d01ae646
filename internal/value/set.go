package value

import (
	"strings"

	"knot/internal/diag"
	"knot/internal/source"
)

// NewSet builds a set from items, dropping duplicates.
func NewSet(items []Value) (Value, error) {
	m := newOmap()
	for _, it := range items {
		if err := m.put(it, Value{}); err != nil {
			return Value{}, err
		}
	}
	return Value{k: Set, m: m}, nil
}

func (v Value) omapClone() *omap {
	if v.m == nil {
		return newOmap()
	}
	return v.m.clone()
}

// Contains is membership: list elements by ==, set elements and dict keys by
// key identity, substrings for strings, nodes for graphs.
func (v Value) Contains(x Value) (bool, error) {
	switch v.k {
	case List:
		return v.IndexOf(x) >= 0, nil
	case String:
		if x.k != String {
			return false, diag.Newf(diag.RunTypeMismatch, 0, source.Span{}, "'in <string>' requires string, got '%s'", x.k)
		}
		return strings.Contains(v.s, x.s), nil
	case Set, Dict:
		if v.m == nil {
			return false, checkHashable(x)
		}
		idx, err := v.m.index(x)
		return idx >= 0, err
	case Graph:
		return v.HasNode(x)
	}
	return false, diag.Newf(diag.RunTypeMismatch, 0, source.Span{}, "'%s' does not support membership", v.k)
}

// SetAdd inserts x into a set.
func (v Value) SetAdd(x Value) (Value, error) {
	m := v.omapClone()
	if err := m.put(x, Value{}); err != nil {
		return v, err
	}
	return Value{k: Set, m: m}, nil
}

// SetRemove deletes x and fails when it is absent; SetDiscard does not fail.
func (v Value) SetRemove(x Value, mustExist bool) (Value, error) {
	m := v.omapClone()
	ok, err := m.del(x)
	if err != nil {
		return v, err
	}
	if !ok && mustExist {
		return v, diag.Newf(diag.RunValue, 0, source.Span{}, "%s not in set", x.Repr())
	}
	return Value{k: Set, m: m}, nil
}

// Union adds every element of an iterable.
func (v Value) Union(other Value) (Value, error) {
	more, err := Iterate(other)
	if err != nil {
		return v, err
	}
	m := v.omapClone()
	for _, it := range more {
		if err := m.put(it, Value{}); err != nil {
			return v, err
		}
	}
	return Value{k: Set, m: m}, nil
}

func (v Value) Intersection(other Value) (Value, error) {
	return v.filterBy(other, true)
}

func (v Value) Difference(other Value) (Value, error) {
	return v.filterBy(other, false)
}

func (v Value) filterBy(other Value, keep bool) (Value, error) {
	m := newOmap()
	if v.m != nil {
		for _, it := range v.m.keys {
			in, err := other.Contains(it)
			if err != nil {
				return v, err
			}
			if in == keep {
				if err := m.put(it, Value{}); err != nil {
					return v, err
				}
			}
		}
	}
	return Value{k: Set, m: m}, nil
}

// Elements returns set elements (or dict keys) in insertion order.
func (v Value) Elements() []Value {
	if v.m == nil {
		return nil
	}
	return v.m.keys
}

// Cleared returns an empty container of the same dtype.
func (v Value) Cleared() Value {
	switch v.k {
	case List:
		return NewList(nil)
	case Set, Dict:
		return Value{k: v.k, m: newOmap()}
	case Graph:
		return NewGraph()
	}
	return v
}

// Copy returns a value that no longer shares backing storage with v.
func (v Value) Copy() Value {
	switch v.k {
	case List:
		return NewList(v.cloneItems(0))
	case Set, Dict:
		return Value{k: v.k, m: v.omapClone()}
	case Graph:
		return Value{k: Graph, g: v.graph().clone()}
	case Edge:
		e := *v.e
		return Value{k: Edge, e: &e}
	}
	return v
}
