package builtin

import (
	"math"

	"knot/internal/value"
)

// Globals are the constants bound in every fresh global scope.
func Globals() map[string]value.Value {
	return map[string]value.Value{
		"pi": value.FloatValue(math.Pi),
		"e":  value.FloatValue(math.E),
	}
}

func unaryMath(name string, f func(float64) float64, domain func(float64) bool) Func {
	return func(_ *Env, args []value.Value) (value.Value, error) {
		x, err := wantNumber(name, args[0])
		if err != nil {
			return value.Value{}, err
		}
		if domain != nil && !domain(x) {
			return value.Value{}, valueErr("math domain error in %s(%s)", name, args[0].Repr())
		}
		return value.FloatValue(f(x)), nil
	}
}

func nonNegative(x float64) bool { return x >= 0 }
func positive(x float64) bool    { return x > 0 }
func unitRange(x float64) bool   { return x >= -1 && x <= 1 }

// keepKind applies f and keeps integer dtypes integral.
func keepKind(name string, f func(float64) float64) Func {
	return func(_ *Env, args []value.Value) (value.Value, error) {
		v := args[0]
		if _, err := wantNumber(name, v); err != nil {
			return value.Value{}, err
		}
		if v.Kind() == value.Bool {
			return value.IntValue(v.Int()), nil
		}
		if v.Kind().IsInteger() {
			return v, nil
		}
		return value.Floating(v.Kind(), f(v.Float())), nil
	}
}

func absValue(v value.Value) (value.Value, error) {
	if _, err := wantNumber("abs", v); err != nil {
		return value.Value{}, err
	}
	if v.Kind().IsUnsigned() {
		return v, nil
	}
	lt, err := value.Less(v, value.IntValue(0))
	if err != nil {
		return value.Value{}, err
	}
	if lt.Bool() {
		return value.Neg(v)
	}
	if v.Kind() == value.Bool {
		return value.IntValue(v.Int()), nil
	}
	return v, nil
}

func roundTo(v value.Value, digits int64) (value.Value, error) {
	x, err := wantNumber("round", v)
	if err != nil {
		return value.Value{}, err
	}
	if digits <= 0 && (v.Kind().IsInteger() || v.Kind() == value.Bool) {
		return value.IntValue(v.Int()), nil
	}
	p := math.Pow(10, float64(digits))
	k := v.Kind()
	if !k.IsFloat() {
		k = value.Double
	}
	return value.Floating(k, math.Round(x*p)/p), nil
}

// extreme implements min and max over the arguments, or over the single
// iterable argument.
func extreme(name string, want int) Func {
	return func(_ *Env, args []value.Value) (value.Value, error) {
		items := args
		if len(args) == 1 {
			var err error
			if items, err = value.Iterate(args[0]); err != nil {
				return value.Value{}, err
			}
		}
		if len(items) == 0 {
			return value.Value{}, valueErr("%s() of an empty sequence", name)
		}
		best := items[0]
		for _, it := range items[1:] {
			c, err := value.Compare(it, best)
			if err != nil {
				return value.Value{}, err
			}
			if c*want > 0 {
				best = it
			}
		}
		return best, nil
	}
}

func registerMath(r *Registry) {
	m := r.math
	m.add("sqrt", 1, unaryMath("sqrt", math.Sqrt, nonNegative))
	m.add("sin", 1, unaryMath("sin", math.Sin, nil))
	m.add("cos", 1, unaryMath("cos", math.Cos, nil))
	m.add("tan", 1, unaryMath("tan", math.Tan, nil))
	m.add("asin", 1, unaryMath("asin", math.Asin, unitRange))
	m.add("acos", 1, unaryMath("acos", math.Acos, unitRange))
	m.add("atan", 1, unaryMath("atan", math.Atan, nil))
	m.add("exp", 1, unaryMath("exp", math.Exp, nil))
	m.add("ln", 1, unaryMath("ln", math.Log, positive))
	m.add("log", 1, unaryMath("log", math.Log10, positive))
	m.add("log", 2, func(_ *Env, args []value.Value) (value.Value, error) {
		x, err := wantNumber("log", args[0])
		if err != nil {
			return value.Value{}, err
		}
		base, err := wantNumber("log", args[1])
		if err != nil {
			return value.Value{}, err
		}
		if x <= 0 || base <= 0 || base == 1 {
			return value.Value{}, valueErr("math domain error in log(%s, %s)", args[0].Repr(), args[1].Repr())
		}
		return value.FloatValue(math.Log(x) / math.Log(base)), nil
	})
	m.add("atan2", 2, func(_ *Env, args []value.Value) (value.Value, error) {
		y, err := wantNumber("atan2", args[0])
		if err != nil {
			return value.Value{}, err
		}
		x, err := wantNumber("atan2", args[1])
		if err != nil {
			return value.Value{}, err
		}
		return value.FloatValue(math.Atan2(y, x)), nil
	})
	m.add("floor", 1, keepKind("floor", math.Floor))
	m.add("ceil", 1, keepKind("ceil", math.Ceil))
	m.add("abs", 1, func(_ *Env, args []value.Value) (value.Value, error) { return absValue(args[0]) })
	m.add("round", 1, func(_ *Env, args []value.Value) (value.Value, error) { return roundTo(args[0], 0) })
	m.add("round", 2, func(_ *Env, args []value.Value) (value.Value, error) {
		n, err := wantInt("round", args[1])
		if err != nil {
			return value.Value{}, err
		}
		return roundTo(args[0], n)
	})
	m.add("pow", 2, func(_ *Env, args []value.Value) (value.Value, error) { return value.Pow(args[0], args[1]) })
	m.add("min", Variadic, extreme("min", -1))
	m.add("max", Variadic, extreme("max", 1))
}
