package builtin

import (
	"math"

	"knot/internal/value"
)

func registerNumeric(r *Registry) {
	t := r.numeric
	fromFree := func(name string, arity int) {
		fn, _ := r.math.lookup(name, arity+1)
		t.add(name, arity, func(env *Env, recv value.Value, args []value.Value) (Result, error) {
			v, err := fn(env, append([]value.Value{recv}, args...))
			return ret(v), err
		})
	}
	fromFree("abs", 0)
	fromFree("floor", 0)
	fromFree("ceil", 0)
	fromFree("round", 0)
	fromFree("round", 1)
	fromFree("sqrt", 0)
	fromFree("pow", 1)
	t.add("is_integer", 0, pure(func(n value.Value, _ []value.Value) (value.Value, error) {
		if !n.Kind().IsFloat() {
			return value.BoolValue(true), nil
		}
		f := n.Float()
		return value.BoolValue(!math.IsInf(f, 0) && f == math.Trunc(f)), nil
	}))
}

func registerGraph(r *Registry) {
	e := r.kindTable(value.Edge)
	e.add("source", 0, pure(func(v value.Value, _ []value.Value) (value.Value, error) {
		from, _, _, _ := v.EdgeParts()
		return from, nil
	}))
	e.add("target", 0, pure(func(v value.Value, _ []value.Value) (value.Value, error) {
		_, to, _, _ := v.EdgeParts()
		return to, nil
	}))
	e.add("kind", 0, pure(func(v value.Value, _ []value.Value) (value.Value, error) {
		_, _, kind, _ := v.EdgeParts()
		return value.StringValue(kind.String()), nil
	}))
	e.add("weight", 0, pure(func(v value.Value, _ []value.Value) (value.Value, error) {
		_, _, _, w := v.EdgeParts()
		return value.FloatValue(w), nil
	}))
	e.add("weight", 1, pure(func(v value.Value, args []value.Value) (value.Value, error) {
		w, err := wantNumber("weight", args[0])
		if err != nil {
			return value.Value{}, err
		}
		return v.WithWeight(w), nil
	}))

	g := r.kindTable(value.Graph)
	g.add("add_node", 1, inPlace(func(v value.Value, args []value.Value) (value.Value, error) { return v.AddNode(args[0]) }))
	g.add("add_edge", 1, inPlace(func(v value.Value, args []value.Value) (value.Value, error) {
		if err := wantKind("add_edge", args[0], value.Edge); err != nil {
			return value.Value{}, err
		}
		return v.AddEdge(args[0])
	}))
	g.add("add_edge", 2, inPlace(func(v value.Value, args []value.Value) (value.Value, error) {
		return v.AddEdge(value.MakeEdge(value.Directed, args[0], args[1]))
	}))
	g.add("remove_node", 1, inPlace(func(v value.Value, args []value.Value) (value.Value, error) {
		return v.RemoveNode(args[0])
	}))
	g.add("remove_edge", 2, inPlace(func(v value.Value, args []value.Value) (value.Value, error) {
		return v.RemoveEdge(args[0], args[1])
	}))
	g.add("has_node", 1, pure(func(v value.Value, args []value.Value) (value.Value, error) {
		ok, err := v.HasNode(args[0])
		return value.BoolValue(ok), err
	}))
	g.add("has_edge", 2, pure(func(v value.Value, args []value.Value) (value.Value, error) {
		ok, err := v.HasEdge(args[0], args[1])
		return value.BoolValue(ok), err
	}))
	g.add("nodes", 0, pure(func(v value.Value, _ []value.Value) (value.Value, error) { return v.Nodes(), nil }))
	g.add("edges", 0, pure(func(v value.Value, _ []value.Value) (value.Value, error) { return v.Edges(), nil }))
	g.add("neighbors", 1, pure(func(v value.Value, args []value.Value) (value.Value, error) { return v.Neighbors(args[0]) }))
	g.add("degree", 1, pure(func(v value.Value, args []value.Value) (value.Value, error) {
		n, err := v.Degree(args[0])
		return value.IntValue(int64(n)), err
	}))
	g.add("dfs", 1, pure(func(v value.Value, args []value.Value) (value.Value, error) { return v.DFS(args[0]) }))
	g.add("bfs", 1, pure(func(v value.Value, args []value.Value) (value.Value, error) { return v.BFS(args[0]) }))
	g.add("topo_sort", 0, pure(func(v value.Value, _ []value.Value) (value.Value, error) { return v.TopoSort() }))
	g.add("components", 0, pure(func(v value.Value, _ []value.Value) (value.Value, error) { return v.Components(), nil }))
	g.add("shortest_path", 2, pure(func(v value.Value, args []value.Value) (value.Value, error) {
		return v.ShortestPath(args[0], args[1])
	}))
	g.add("mst", 0, pure(func(v value.Value, _ []value.Value) (value.Value, error) { return v.MST(), nil }))
	g.add("to_mermaid", 0, pure(func(v value.Value, _ []value.Value) (value.Value, error) {
		return value.StringValue(v.ToMermaid()), nil
	}))
	g.add("len", 0, pure(func(v value.Value, _ []value.Value) (value.Value, error) {
		return value.IntValue(int64(v.Len())), nil
	}))
}

func registerUniversal(r *Registry) {
	u := r.universal
	u.add("type", 0, pure(func(v value.Value, _ []value.Value) (value.Value, error) {
		return value.StringValue(TypeName(v)), nil
	}))
	u.add("str", 0, pure(func(v value.Value, _ []value.Value) (value.Value, error) { return value.StringValue(v.String()), nil }))
	u.add("repr", 0, pure(func(v value.Value, _ []value.Value) (value.Value, error) { return value.StringValue(v.Repr()), nil }))
	u.add("bool", 0, pure(func(v value.Value, _ []value.Value) (value.Value, error) { return value.BoolValue(v.Truthy()), nil }))
	u.add("is_none", 0, pure(func(v value.Value, _ []value.Value) (value.Value, error) { return value.BoolValue(v.IsNone()), nil }))
	u.add("copy", 0, pure(func(v value.Value, _ []value.Value) (value.Value, error) { return v.Copy(), nil }))
	u.add("hash", 0, pure(func(v value.Value, _ []value.Value) (value.Value, error) {
		h, err := v.KeyHash()
		return value.Unsigned(value.ULongLong, h), err
	}))
	for _, k := range []value.Kind{
		value.Int, value.Long, value.LongLong, value.UInt, value.ULong, value.ULongLong,
		value.Float, value.Double, value.LongDouble, value.List, value.Set,
	} {
		u.add(k.String(), 0, pure(func(v value.Value, _ []value.Value) (value.Value, error) {
			return value.Convert(k, v)
		}))
	}
}
