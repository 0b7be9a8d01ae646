package value

import (
	"math"
	"strings"

	"knot/internal/diag"
	"knot/internal/source"
)

// Equal is the == relation: numerics compare by value across dtypes with
// Epsilon tolerance, containers compare element-wise with Equal.
func Equal(a, b Value) bool {
	if a.IsNumber() && b.IsNumber() {
		return numEqual(a, b)
	}
	if a.k != b.k {
		return false
	}
	return structEqual(a, b, Equal)
}

func numEqual(a, b Value) bool {
	k := promote(a.k, b.k)
	switch {
	case k.IsFloat():
		return math.Abs(a.Float()-b.Float()) <= Epsilon
	case k.IsUnsigned():
		return a.uint() == b.uint()
	}
	return a.Int() == b.Int()
}

// Is requires the same dtype and strict structural equality: no tolerance
// and no cross-dtype numeric comparison.
func Is(a, b Value) bool {
	if a.k != b.k {
		return false
	}
	switch {
	case a.k == None:
		return true
	case a.k == Bool || a.k.IsSigned():
		return a.i == b.i
	case a.k.IsUnsigned():
		return a.u == b.u
	case a.k.IsFloat():
		return a.f == b.f
	}
	return structEqual(a, b, Is)
}

// Points requires the same dtype and, for containers, the same backing
// storage. Primitives compare exactly.
func Points(a, b Value) bool {
	if a.k != b.k {
		return false
	}
	switch a.k {
	case List:
		return a.l == b.l
	case Set, Dict:
		return a.m == b.m
	case Graph:
		return a.g == b.g
	case Edge:
		return a.e == b.e
	}
	return Is(a, b)
}

func structEqual(a, b Value, elem func(x, y Value) bool) bool {
	switch a.k {
	case None:
		return true
	case Bool:
		return a.i == b.i
	case String:
		return a.s == b.s
	case List:
		x, y := a.list(), b.list()
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if !elem(x[i], y[i]) {
				return false
			}
		}
		return true
	case Set:
		if a.Len() != b.Len() {
			return false
		}
		for _, it := range a.Elements() {
			if ok, _ := b.Contains(it); !ok {
				return false
			}
		}
		return true
	case Dict:
		if a.Len() != b.Len() {
			return false
		}
		for i, k := range a.Elements() {
			bv, ok, _ := b.Get(k)
			if !ok || !elem(a.m.vals[i], bv) {
				return false
			}
		}
		return true
	case Edge:
		return a.e.kind == b.e.kind && a.e.weight == b.e.weight &&
			elem(a.e.from, b.e.from) && elem(a.e.to, b.e.to)
	case Graph:
		return a.Hash() == b.Hash()
	}
	return false
}

// Compare orders numbers (by value) and strings (lexicographically).
func Compare(a, b Value) (int, error) {
	switch {
	case a.IsNumber() && b.IsNumber():
		if numEqual(a, b) {
			return 0, nil
		}
		k := promote(a.k, b.k)
		var less bool
		switch {
		case k.IsFloat():
			less = a.Float() < b.Float()
		case k.IsUnsigned():
			less = a.uint() < b.uint()
		default:
			less = a.Int() < b.Int()
		}
		if less {
			return -1, nil
		}
		return 1, nil
	case a.k == String && b.k == String:
		return strings.Compare(a.s, b.s), nil
	case a.k == List && b.k == List:
		x, y := a.list(), b.list()
		for i := 0; i < len(x) && i < len(y); i++ {
			c, err := Compare(x[i], y[i])
			if err != nil || c != 0 {
				return c, err
			}
		}
		return len(x) - len(y), nil
	}
	return 0, diag.Newf(diag.RunTypeMismatch, 0, source.Span{}, "cannot compare '%s' and '%s'", a.k, b.k)
}
