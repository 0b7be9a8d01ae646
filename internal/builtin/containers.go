package builtin

import (
	"strings"

	"knot/internal/value"
)

// pure wraps a method that does not touch the receiver.
func pure(fn func(recv value.Value, args []value.Value) (value.Value, error)) Method {
	return func(_ *Env, recv value.Value, args []value.Value) (Result, error) {
		v, err := fn(recv, args)
		return ret(v), err
	}
}

// inPlace wraps a method that produces a new receiver.
func inPlace(fn func(recv value.Value, args []value.Value) (value.Value, error)) Method {
	return func(_ *Env, recv value.Value, args []value.Value) (Result, error) {
		v, err := fn(recv, args)
		if err != nil {
			return Result{}, err
		}
		return mutate(v), nil
	}
}

func registerList(r *Registry) {
	t := r.kindTable(value.List)
	t.add("append", 1, inPlace(func(l value.Value, args []value.Value) (value.Value, error) {
		return l.Append(args[0]), nil
	}))
	t.add("extend", 1, inPlace(func(l value.Value, args []value.Value) (value.Value, error) {
		return l.Extend(args[0])
	}))
	t.add("insert", 2, inPlace(func(l value.Value, args []value.Value) (value.Value, error) {
		i, err := wantInt("insert", args[0])
		if err != nil {
			return value.Value{}, err
		}
		return l.Insert(i, args[1]), nil
	}))
	t.add("remove", 1, inPlace(func(l value.Value, args []value.Value) (value.Value, error) {
		return l.RemoveValue(args[0])
	}))
	t.add("set", 2, inPlace(func(l value.Value, args []value.Value) (value.Value, error) {
		i, err := wantInt("set", args[0])
		if err != nil {
			return value.Value{}, err
		}
		return l.SetAt(i, args[1])
	}))
	t.add("sort", 0, inPlace(func(l value.Value, _ []value.Value) (value.Value, error) { return l.Sorted() }))
	t.add("reverse", 0, inPlace(func(l value.Value, _ []value.Value) (value.Value, error) { return l.Reversed(), nil }))
	t.add("clear", 0, inPlace(func(l value.Value, _ []value.Value) (value.Value, error) { return l.Cleared(), nil }))

	pop := func(l value.Value, i int64) (Result, error) {
		rest, x, err := l.Pop(i)
		if err != nil {
			return Result{}, err
		}
		return Result{Value: x, Recv: rest, Mutated: true}, nil
	}
	t.add("pop", 0, func(_ *Env, l value.Value, _ []value.Value) (Result, error) { return pop(l, -1) })
	t.add("pop", 1, func(_ *Env, l value.Value, args []value.Value) (Result, error) {
		i, err := wantInt("pop", args[0])
		if err != nil {
			return Result{}, err
		}
		return pop(l, i)
	})

	t.add("len", 0, pure(func(l value.Value, _ []value.Value) (value.Value, error) {
		return value.IntValue(int64(l.Len())), nil
	}))
	t.add("contains", 1, pure(func(l value.Value, args []value.Value) (value.Value, error) {
		return value.BoolValue(l.IndexOf(args[0]) >= 0), nil
	}))
	t.add("index", 1, pure(func(l value.Value, args []value.Value) (value.Value, error) {
		return value.IntValue(int64(l.IndexOf(args[0]))), nil
	}))
	t.add("get", 1, pure(func(l value.Value, args []value.Value) (value.Value, error) {
		i, err := wantInt("get", args[0])
		if err != nil {
			return value.Value{}, err
		}
		return l.At(i)
	}))
	t.add("slice", 2, pure(func(l value.Value, args []value.Value) (value.Value, error) {
		a, err := wantInt("slice", args[0])
		if err != nil {
			return value.Value{}, err
		}
		b, err := wantInt("slice", args[1])
		if err != nil {
			return value.Value{}, err
		}
		return l.Slice(a, b), nil
	}))
	t.add("first", 0, pure(func(l value.Value, _ []value.Value) (value.Value, error) { return l.At(0) }))
	t.add("last", 0, pure(func(l value.Value, _ []value.Value) (value.Value, error) { return l.At(-1) }))
	t.add("sum", 0, pure(func(l value.Value, _ []value.Value) (value.Value, error) { return sumOf(l) }))
	t.add("join", 1, pure(func(l value.Value, args []value.Value) (value.Value, error) {
		parts, err := stringsOf(l)
		if err != nil {
			return value.Value{}, err
		}
		return value.StringValue(strings.Join(parts, args[0].String())), nil
	}))
}

func registerSet(r *Registry) {
	t := r.kindTable(value.Set)
	t.add("add", 1, inPlace(func(s value.Value, args []value.Value) (value.Value, error) { return s.SetAdd(args[0]) }))
	t.add("remove", 1, inPlace(func(s value.Value, args []value.Value) (value.Value, error) {
		return s.SetRemove(args[0], true)
	}))
	t.add("discard", 1, inPlace(func(s value.Value, args []value.Value) (value.Value, error) {
		return s.SetRemove(args[0], false)
	}))
	t.add("update", 1, inPlace(func(s value.Value, args []value.Value) (value.Value, error) {
		other, err := value.Convert(value.Set, args[0])
		if err != nil {
			return value.Value{}, err
		}
		return s.Union(other)
	}))
	t.add("clear", 0, inPlace(func(s value.Value, _ []value.Value) (value.Value, error) { return s.Cleared(), nil }))

	t.add("len", 0, pure(func(s value.Value, _ []value.Value) (value.Value, error) {
		return value.IntValue(int64(s.Len())), nil
	}))
	t.add("contains", 1, pure(func(s value.Value, args []value.Value) (value.Value, error) {
		ok, err := s.Contains(args[0])
		return value.BoolValue(ok), err
	}))
	setOp := func(op func(a, b value.Value) (value.Value, error)) Method {
		return pure(func(s value.Value, args []value.Value) (value.Value, error) {
			if err := wantKind("set operation", args[0], value.Set); err != nil {
				return value.Value{}, err
			}
			return op(s, args[0])
		})
	}
	t.add("union", 1, setOp(value.Value.Union))
	t.add("intersection", 1, setOp(value.Value.Intersection))
	t.add("difference", 1, setOp(value.Value.Difference))
	t.add("to_list", 0, pure(func(s value.Value, _ []value.Value) (value.Value, error) {
		return value.NewList(append([]value.Value(nil), s.Elements()...)), nil
	}))
}

func registerDict(r *Registry) {
	t := r.kindTable(value.Dict)
	t.add("set", 2, inPlace(func(d value.Value, args []value.Value) (value.Value, error) { return d.Put(args[0], args[1]) }))
	t.add("remove", 1, inPlace(func(d value.Value, args []value.Value) (value.Value, error) { return d.Delete(args[0]) }))
	t.add("update", 1, inPlace(func(d value.Value, args []value.Value) (value.Value, error) { return d.Merge(args[0]) }))
	t.add("clear", 0, inPlace(func(d value.Value, _ []value.Value) (value.Value, error) { return d.Cleared(), nil }))

	t.add("len", 0, pure(func(d value.Value, _ []value.Value) (value.Value, error) {
		return value.IntValue(int64(d.Len())), nil
	}))
	t.add("keys", 0, pure(func(d value.Value, _ []value.Value) (value.Value, error) { return d.Keys(), nil }))
	t.add("values", 0, pure(func(d value.Value, _ []value.Value) (value.Value, error) { return d.Values(), nil }))
	t.add("items", 0, pure(func(d value.Value, _ []value.Value) (value.Value, error) { return d.Entries(), nil }))
	t.add("contains", 1, pure(func(d value.Value, args []value.Value) (value.Value, error) {
		_, ok, err := d.Get(args[0])
		return value.BoolValue(ok), err
	}))
	t.add("get", 1, pure(func(d value.Value, args []value.Value) (value.Value, error) {
		v, ok, err := d.Get(args[0])
		if err != nil {
			return value.Value{}, err
		}
		if !ok {
			return value.Value{}, valueErr("key %s not found", args[0].Repr())
		}
		return v, nil
	}))
	t.add("get", 2, pure(func(d value.Value, args []value.Value) (value.Value, error) {
		v, ok, err := d.Get(args[0])
		if err != nil || !ok {
			return args[1], err
		}
		return v, nil
	}))
}
