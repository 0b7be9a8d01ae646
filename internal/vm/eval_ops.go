package vm

import (
	"knot/internal/token"
	"knot/internal/value"
)

type binaryFn func(a, b value.Value) (value.Value, error)

// binaryOps maps operator kinds to their implementation; a is the operand
// pushed first.
var binaryOps = map[token.Kind]binaryFn{
	token.Plus:    value.Add,
	token.Minus:   value.Sub,
	token.Star:    value.Mul,
	token.Slash:   value.Div,
	token.Percent: value.Mod,
	token.Caret:   value.Pow,

	token.Lt:   value.Less,
	token.LtEq: value.LessEq,
	token.Gt:   value.Greater,
	token.GtEq: value.GreaterEq,

	token.EqEq:      predicate(value.Equal, false),
	token.BangEq:    predicate(value.Equal, true),
	token.KwIs:      predicate(value.Is, false),
	token.IsNot:     predicate(value.Is, true),
	token.KwPoints:  predicate(value.Points, false),
	token.NotPoints: predicate(value.Points, true),

	token.Arrow:   edge(value.Directed),
	token.BiArrow: edge(value.Bidirectional),
	token.Line:    edge(value.Undirected),
}

func predicate(fn func(a, b value.Value) bool, negate bool) binaryFn {
	return func(a, b value.Value) (value.Value, error) {
		return value.BoolValue(fn(a, b) != negate), nil
	}
}

// edge builds an edge specification; it only becomes part of a graph
// through add_edge or graph(list).
func edge(kind value.EdgeKind) binaryFn {
	return func(a, b value.Value) (value.Value, error) {
		return value.MakeEdge(kind, a, b), nil
	}
}

func unary(k token.Kind, v value.Value) (value.Value, error) {
	if k == token.Neg {
		return value.Neg(v)
	}
	return value.Not(v), nil
}
