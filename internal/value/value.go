package value

import (
	"math"
)

// Epsilon is the tolerance used for float equality, float truthiness and the
// division guard.
const Epsilon = 1e-9

// Value is one dynamic value. The zero Value is none.
type Value struct {
	k Kind
	i int64   // bool and signed integers
	u uint64  // unsigned integers
	f float64 // floats
	s string
	l *listData
	m *omap // set (keys only) and dict
	g *graphData
	e *edgeData
}

func NoneValue() Value { return Value{} }

func BoolValue(b bool) Value {
	v := Value{k: Bool}
	if b {
		v.i = 1
	}
	return v
}

// IntValue creates an int.
func IntValue(n int64) Value { return Value{k: Int, i: n} }

// FloatValue creates a double, the dtype of decimal literals.
func FloatValue(f float64) Value { return Value{k: Double, f: f} }

func StringValue(s string) Value { return Value{k: String, s: s} }

// Signed creates a signed integer of kind k.
func Signed(k Kind, n int64) Value {
	switch k {
	case Long, LongLong:
		return Value{k: k, i: n}
	}
	return Value{k: Int, i: n}
}

// Unsigned creates an unsigned integer of kind k.
func Unsigned(k Kind, n uint64) Value {
	switch k {
	case ULong, ULongLong:
		return Value{k: k, u: n}
	}
	return Value{k: UInt, u: n}
}

// Floating creates a float of kind k.
func Floating(k Kind, f float64) Value {
	switch k {
	case Float:
		return Value{k: Float, f: float64(float32(f))}
	case LongDouble:
		return Value{k: LongDouble, f: f}
	}
	return Value{k: Double, f: f}
}

// Number creates a numeric value of kind k from a float, truncating for
// integer kinds.
func Number(k Kind, f float64) Value {
	switch {
	case k.IsSigned():
		return Signed(k, int64(f))
	case k.IsUnsigned():
		if f < 0 {
			return Unsigned(k, uint64(int64(f)))
		}
		return Unsigned(k, uint64(f))
	}
	return Floating(k, f)
}

func (v Value) Kind() Kind   { return v.k }
func (v Value) IsNone() bool { return v.k == None }
func (v Value) IsString() bool {
	return v.k == String
}

// Str returns the raw string of a string value.
func (v Value) Str() string { return v.s }

// Bool returns the payload of a bool value.
func (v Value) Bool() bool { return v.i != 0 }

// Float returns any numeric (or bool) value as float64.
func (v Value) Float() float64 {
	switch {
	case v.k == Bool || v.k.IsSigned():
		return float64(v.i)
	case v.k.IsUnsigned():
		return float64(v.u)
	case v.k.IsFloat():
		return v.f
	}
	return math.NaN()
}

// Int returns any numeric (or bool) value as int64, truncating floats.
func (v Value) Int() int64 {
	switch {
	case v.k == Bool || v.k.IsSigned():
		return v.i
	case v.k.IsUnsigned():
		return int64(v.u)
	case v.k.IsFloat():
		return int64(v.f)
	}
	return 0
}

func (v Value) uint() uint64 {
	switch {
	case v.k == Bool || v.k.IsSigned():
		return uint64(v.i)
	case v.k.IsUnsigned():
		return v.u
	case v.k.IsFloat():
		if v.f < 0 {
			return uint64(int64(v.f))
		}
		return uint64(v.f)
	}
	return 0
}

// IsNumber reports whether v takes part in arithmetic (numerics and bool).
func (v Value) IsNumber() bool { return v.k == Bool || v.k.IsNumeric() }

// Truthy is the boolean coercion used by conditions and logical operators.
func (v Value) Truthy() bool {
	switch {
	case v.k == None:
		return false
	case v.k == Bool || v.k.IsSigned():
		return v.i != 0
	case v.k.IsUnsigned():
		return v.u != 0
	case v.k.IsFloat():
		return math.Abs(v.f) > Epsilon
	case v.k == String:
		return v.s != ""
	case v.k == List:
		return v.l != nil && len(v.l.items) > 0
	case v.k == Set || v.k == Dict:
		return v.m != nil && v.m.len() > 0
	case v.k == Graph:
		return v.g != nil && v.g.nodes.len() > 0
	}
	return true
}

// Len is the element count of strings and containers, -1 otherwise.
func (v Value) Len() int {
	switch v.k {
	case String:
		return len([]rune(v.s))
	case List:
		if v.l == nil {
			return 0
		}
		return len(v.l.items)
	case Set, Dict:
		if v.m == nil {
			return 0
		}
		return v.m.len()
	case Graph:
		if v.g == nil {
			return 0
		}
		return v.g.nodes.len()
	}
	return -1
}
