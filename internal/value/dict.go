package value

import (
	"knot/internal/diag"
	"knot/internal/source"
)

// NewDict creates an empty dict.
func NewDict() Value {
	return Value{k: Dict, m: newOmap()}
}

// DictFrom builds a dict from parallel key and value slices.
func DictFrom(keys, vals []Value) (Value, error) {
	m := newOmap()
	for i := range keys {
		if err := m.put(keys[i], vals[i]); err != nil {
			return Value{}, err
		}
	}
	return Value{k: Dict, m: m}, nil
}

// Get looks up a dict key.
func (v Value) Get(k Value) (Value, bool, error) {
	if v.m == nil {
		return Value{}, false, checkHashable(k)
	}
	idx, err := v.m.index(k)
	if err != nil || idx < 0 {
		return Value{}, false, err
	}
	return v.m.vals[idx], true, nil
}

// Put returns a dict with k bound to x.
func (v Value) Put(k, x Value) (Value, error) {
	m := v.omapClone()
	if err := m.put(k, x); err != nil {
		return v, err
	}
	return Value{k: Dict, m: m}, nil
}

// Delete returns a dict without k; k must exist.
func (v Value) Delete(k Value) (Value, error) {
	m := v.omapClone()
	ok, err := m.del(k)
	if err != nil {
		return v, err
	}
	if !ok {
		return v, diag.Newf(diag.RunValue, 0, source.Span{}, "key %s not found", k.Repr())
	}
	return Value{k: Dict, m: m}, nil
}

// Merge copies every entry of other into the dict.
func (v Value) Merge(other Value) (Value, error) {
	if other.k != Dict {
		return v, diag.Newf(diag.RunTypeMismatch, 0, source.Span{}, "update expects dict, got '%s'", other.k)
	}
	m := v.omapClone()
	if other.m != nil {
		for i := range other.m.keys {
			if err := m.put(other.m.keys[i], other.m.vals[i]); err != nil {
				return v, err
			}
		}
	}
	return Value{k: Dict, m: m}, nil
}

func (v Value) Keys() Value {
	return NewList(append([]Value(nil), v.Elements()...))
}

func (v Value) Values() Value {
	if v.m == nil {
		return NewList(nil)
	}
	return NewList(append([]Value(nil), v.m.vals...))
}

// Entries returns [key, value] pairs as a list of two-element lists.
func (v Value) Entries() Value {
	if v.m == nil {
		return NewList(nil)
	}
	out := make([]Value, len(v.m.keys))
	for i := range v.m.keys {
		out[i] = NewList([]Value{v.m.keys[i], v.m.vals[i]})
	}
	return NewList(out)
}
