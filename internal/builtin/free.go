package builtin

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"knot/internal/diag"
	"knot/internal/source"
	"knot/internal/value"
)

func registerFree(r *Registry) {
	f := r.free
	f.add("print", Variadic, builtinPrint)
	f.add("input", 0, func(env *Env, _ []value.Value) (value.Value, error) { return readInput(env, "") })
	f.add("input", 1, func(env *Env, args []value.Value) (value.Value, error) {
		return readInput(env, args[0].String())
	})
	f.add("len", 1, func(_ *Env, args []value.Value) (value.Value, error) {
		n := args[0].Len()
		if n < 0 {
			return value.Value{}, typeErr("object of type '%s' has no len()", args[0].Kind())
		}
		return value.IntValue(int64(n)), nil
	})
	f.add("type", 1, func(_ *Env, args []value.Value) (value.Value, error) {
		return value.StringValue(TypeName(args[0])), nil
	})
	f.add("repr", 1, func(_ *Env, args []value.Value) (value.Value, error) {
		return value.StringValue(args[0].Repr()), nil
	})
	f.add("hash", 1, func(_ *Env, args []value.Value) (value.Value, error) {
		h, err := args[0].KeyHash()
		if err != nil {
			return value.Value{}, err
		}
		return value.Unsigned(value.ULongLong, h), nil
	})

	// conversions: str(x), int(x), ..., graph(edges); the container
	// constructors also accept zero arguments.
	for _, k := range []value.Kind{
		value.Bool, value.Int, value.Long, value.LongLong, value.UInt, value.ULong, value.ULongLong,
		value.Float, value.Double, value.LongDouble, value.String,
		value.List, value.Set, value.Dict, value.Graph,
	} {
		f.add(k.String(), 1, func(_ *Env, args []value.Value) (value.Value, error) {
			return value.Convert(k, args[0])
		})
	}
	f.add("str", 1, func(_ *Env, args []value.Value) (value.Value, error) {
		return value.StringValue(args[0].String()), nil
	})
	f.add("list", 0, func(*Env, []value.Value) (value.Value, error) { return value.NewList(nil), nil })
	f.add("set", 0, func(*Env, []value.Value) (value.Value, error) { return value.NewSet(nil) })
	f.add("dict", 0, func(*Env, []value.Value) (value.Value, error) { return value.NewDict(), nil })
	f.add("graph", 0, func(*Env, []value.Value) (value.Value, error) { return value.NewGraph(), nil })

	f.add("sorted", 1, func(_ *Env, args []value.Value) (value.Value, error) {
		l, err := value.Convert(value.List, args[0])
		if err != nil {
			return value.Value{}, err
		}
		return l.Sorted()
	})
	f.add("sum", 1, func(_ *Env, args []value.Value) (value.Value, error) { return sumOf(args[0]) })
	f.add("range", 1, func(_ *Env, args []value.Value) (value.Value, error) {
		return rangeList("range", value.IntValue(0), args[0], value.IntValue(1))
	})
	f.add("range", 2, func(_ *Env, args []value.Value) (value.Value, error) {
		return rangeList("range", args[0], args[1], value.IntValue(1))
	})
	f.add("range", 3, func(_ *Env, args []value.Value) (value.Value, error) {
		return rangeList("range", args[0], args[1], args[2])
	})
	f.add("assert", 1, func(_ *Env, args []value.Value) (value.Value, error) {
		return assertTrue(args[0], "assertion failed")
	})
	f.add("assert", 2, func(_ *Env, args []value.Value) (value.Value, error) {
		return assertTrue(args[0], args[1].String())
	})
	f.add("open", 1, func(env *Env, args []value.Value) (value.Value, error) {
		return openHandle(env, args[0], value.StringValue("r"))
	})
	f.add("open", 2, func(env *Env, args []value.Value) (value.Value, error) {
		return openHandle(env, args[0], args[1])
	})
	f.add("close", 1, func(env *Env, args []value.Value) (value.Value, error) {
		return value.NoneValue(), env.Files.Close(args[0])
	})
	f.add("random", 0, func(env *Env, _ []value.Value) (value.Value, error) {
		return value.FloatValue(env.Rand.Float64()), nil
	})
}

// TypeName is the dtype name, with file handles reported as "file".
func TypeName(v value.Value) string {
	if IsFileHandle(v) {
		return "file"
	}
	return v.Kind().String()
}

func builtinPrint(env *Env, args []value.Value) (value.Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	if _, err := fmt.Fprintln(env.Out, strings.Join(parts, " ")); err != nil {
		return value.Value{}, diag.Newf(diag.RunValue, 0, source.Span{}, "print: %v", err)
	}
	return value.NoneValue(), nil
}

func readInput(env *Env, prompt string) (value.Value, error) {
	if prompt != "" {
		if _, err := io.WriteString(env.Out, prompt); err != nil {
			return value.Value{}, valueErr("input: %v", err)
		}
	}
	line, err := env.In.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return value.Value{}, valueErr("input: %v", err)
	}
	line = strings.TrimRight(line, "\r\n")
	return value.StringValue(line), nil
}

func sumOf(v value.Value) (value.Value, error) {
	items, err := value.Iterate(v)
	if err != nil {
		return value.Value{}, err
	}
	acc := value.IntValue(0)
	for _, it := range items {
		if acc, err = value.Add(acc, it); err != nil {
			return value.Value{}, err
		}
	}
	return acc, nil
}

// rangeList builds [from, to) with the given step.
func rangeList(fn string, from, to, step value.Value) (value.Value, error) {
	a, err := wantInt(fn, from)
	if err != nil {
		return value.Value{}, err
	}
	b, err := wantInt(fn, to)
	if err != nil {
		return value.Value{}, err
	}
	s, err := wantInt(fn, step)
	if err != nil {
		return value.Value{}, err
	}
	if s == 0 {
		return value.Value{}, valueErr("%s() step must not be zero", fn)
	}
	var out []value.Value
	for i := a; (s > 0 && i < b) || (s < 0 && i > b); i += s {
		out = append(out, value.IntValue(i))
	}
	return value.NewList(out), nil
}

func assertTrue(cond value.Value, msg string) (value.Value, error) {
	if !cond.Truthy() {
		return value.Value{}, diag.Newf(diag.RunAssertion, 0, source.Span{}, "%s", msg)
	}
	return value.NoneValue(), nil
}
