package value

import (
	"math"
	"math/bits"
	"strings"

	"knot/internal/diag"
	"knot/internal/source"
)

func mismatch(op string, a, b Value) error {
	return diag.Newf(diag.RunTypeMismatch, 0, source.Span{},
		"unsupported operand types for %s: '%s' and '%s'", op, a.k, b.k)
}

// Add is '+': string concatenation when either side is a string, list
// concatenation, set union, numeric addition otherwise.
func Add(a, b Value) (Value, error) {
	switch {
	case a.k == String || b.k == String:
		return StringValue(a.String() + b.String()), nil
	case a.k == List && b.k == List:
		items := a.cloneItems(b.Len())
		return NewList(append(items, b.list()...)), nil
	case a.k == Set && b.k == Set:
		return a.Union(b)
	case a.IsNumber() && b.IsNumber():
		return arith('+', a, b)
	}
	return Value{}, mismatch("+", a, b)
}

// Sub is '-': numeric subtraction or set difference.
func Sub(a, b Value) (Value, error) {
	switch {
	case a.k == Set && b.k == Set:
		return a.Difference(b)
	case a.IsNumber() && b.IsNumber():
		return arith('-', a, b)
	}
	return Value{}, mismatch("-", a, b)
}

// Mul is '*': numeric product, string or list repetition by an integer.
func Mul(a, b Value) (Value, error) {
	switch {
	case a.IsNumber() && b.IsNumber():
		return arith('*', a, b)
	case (a.k == String || a.k == List) && b.k.IsInteger():
		return repeat(a, b.Int())
	case a.k.IsInteger() && (b.k == String || b.k == List):
		return repeat(b, a.Int())
	}
	return Value{}, mismatch("*", a, b)
}

func repeat(v Value, n int64) (Value, error) {
	if n < 0 {
		n = 0
	}
	size := len(v.s)
	if v.k == List {
		size = v.Len()
	}
	if n > 0 && int64(size) > math.MaxInt/n {
		return Value{}, diag.Newf(diag.RunValue, 0, source.Span{},
			"repetition count %d too large for a %s of length %d", n, v.k, size)
	}
	if v.k == String {
		return StringValue(strings.Repeat(v.s, int(n))), nil
	}
	src := v.list()
	out := make([]Value, 0, len(src)*int(n))
	for range n {
		out = append(out, src...)
	}
	return NewList(out), nil
}

// Div is '/'. Integer operands divide with truncation.
func Div(a, b Value) (Value, error) {
	if !a.IsNumber() || !b.IsNumber() {
		return Value{}, mismatch("/", a, b)
	}
	if math.Abs(b.Float()) < Epsilon {
		return Value{}, diag.Newf(diag.RunDivisionByZero, 0, source.Span{}, "division by zero")
	}
	return arith('/', a, b)
}

// Mod is '%' with the sign of the dividend.
func Mod(a, b Value) (Value, error) {
	if !a.IsNumber() || !b.IsNumber() {
		return Value{}, mismatch("%", a, b)
	}
	if math.Abs(b.Float()) < Epsilon {
		return Value{}, diag.Newf(diag.RunDivisionByZero, 0, source.Span{}, "modulo by zero")
	}
	return arith('%', a, b)
}

// Pow is '^'. Integer powers stay integral until they overflow, then the
// result becomes a double.
func Pow(a, b Value) (Value, error) {
	if !a.IsNumber() || !b.IsNumber() {
		return Value{}, mismatch("^", a, b)
	}
	k := promote(a.k, b.k)
	switch {
	case k.IsFloat():
		return Floating(k, math.Pow(a.Float(), b.Float())), nil
	case b.Int() < 0 && !b.k.IsUnsigned():
		return FloatValue(math.Pow(a.Float(), b.Float())), nil
	case k.IsUnsigned():
		if r, ok := powUint(a.uint(), b.uint()); ok {
			return Unsigned(k, r), nil
		}
	default:
		if r, ok := powInt(a.Int(), b.Int()); ok {
			return Signed(k, r), nil
		}
	}
	return FloatValue(math.Pow(a.Float(), b.Float())), nil
}

func powUint(base, exp uint64) (uint64, bool) {
	result := uint64(1)
	for exp > 0 {
		if exp&1 == 1 {
			hi, lo := bits.Mul64(result, base)
			if hi != 0 {
				return 0, false
			}
			result = lo
		}
		exp >>= 1
		if exp > 0 {
			hi, lo := bits.Mul64(base, base)
			if hi != 0 {
				return 0, false
			}
			base = lo
		}
	}
	return result, true
}

func powInt(base, exp int64) (int64, bool) {
	neg := base < 0 && exp%2 == 1
	mag := base
	if mag < 0 {
		mag = -mag
	}
	r, ok := powUint(uint64(mag), uint64(exp))
	if !ok || r > math.MaxInt64 {
		return 0, false
	}
	if neg {
		return -int64(r), true
	}
	return int64(r), true
}

func arith(op byte, a, b Value) (Value, error) {
	k := promote(a.k, b.k)
	switch {
	case k.IsFloat():
		x, y := a.Float(), b.Float()
		var r float64
		switch op {
		case '+':
			r = x + y
		case '-':
			r = x - y
		case '*':
			r = x * y
		case '/':
			r = x / y
		case '%':
			r = math.Mod(x, y)
		}
		return Floating(k, r), nil
	case k.IsUnsigned():
		x, y := a.uint(), b.uint()
		var r uint64
		switch op {
		case '+':
			var carry uint64
			if r, carry = bits.Add64(x, y, 0); carry != 0 {
				return FloatValue(float64(x) + float64(y)), nil
			}
		case '-':
			var borrow uint64
			if r, borrow = bits.Sub64(x, y, 0); borrow != 0 {
				return FloatValue(float64(x) - float64(y)), nil
			}
		case '*':
			var hi uint64
			if hi, r = bits.Mul64(x, y); hi != 0 {
				return FloatValue(float64(x) * float64(y)), nil
			}
		case '/':
			r = x / y
		case '%':
			r = x % y
		}
		return Unsigned(k, r), nil
	}
	x, y := a.Int(), b.Int()
	r, ok := signedArith(op, x, y)
	if !ok {
		fx, fy := float64(x), float64(y)
		var f float64
		switch op {
		case '+':
			f = fx + fy
		case '-':
			f = fx - fy
		case '*':
			f = fx * fy
		case '/':
			f = fx / fy
		}
		return FloatValue(f), nil
	}
	return Signed(k, r), nil
}

// signedArith reports false when the int64 result overflows. MinInt64 % -1
// is 0 in Go, so '%' never does.
func signedArith(op byte, x, y int64) (int64, bool) {
	switch op {
	case '+':
		r := x + y
		return r, (r > x) == (y > 0)
	case '-':
		r := x - y
		return r, (r < x) == (y > 0)
	case '*':
		if x == 0 || y == 0 {
			return 0, true
		}
		r := x * y
		return r, r/y == x && !(x == -1 && y == math.MinInt64) && !(y == -1 && x == math.MinInt64)
	case '/':
		if x == math.MinInt64 && y == -1 {
			return 0, false
		}
		return x / y, true
	case '%':
		return x % y, true
	}
	return 0, false
}

// Neg is unary minus.
func Neg(a Value) (Value, error) {
	switch {
	case a.k == Bool:
		return IntValue(-a.i), nil
	case a.k.IsSigned():
		if a.i == math.MinInt64 {
			return FloatValue(-float64(a.i)), nil
		}
		return Signed(a.k, -a.i), nil
	case a.k.IsUnsigned():
		return Unsigned(a.k, -a.u), nil
	case a.k.IsFloat():
		return Floating(a.k, -a.f), nil
	}
	return Value{}, diag.Newf(diag.RunTypeMismatch, 0, source.Span{}, "bad operand type for unary -: '%s'", a.k)
}

// Not is unary '!'.
func Not(a Value) Value { return BoolValue(!a.Truthy()) }

// Less and friends implement the ordering operators.
func Less(a, b Value) (Value, error) {
	c, err := Compare(a, b)
	return BoolValue(c < 0), err
}

func LessEq(a, b Value) (Value, error) {
	c, err := Compare(a, b)
	return BoolValue(c <= 0), err
}

func Greater(a, b Value) (Value, error) {
	c, err := Compare(a, b)
	return BoolValue(c > 0), err
}

func GreaterEq(a, b Value) (Value, error) {
	c, err := Compare(a, b)
	return BoolValue(c >= 0), err
}
