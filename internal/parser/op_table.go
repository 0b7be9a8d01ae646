package parser

import "knot/internal/token"

type opInfo struct {
	prec  int
	right bool
	arity int
}

const unaryPrec = 8

// Приоритеты бинарных операторов (больше связывает сильнее).
var binaryOps = map[token.Kind]opInfo{
	token.KwOf:      {prec: 1, right: true, arity: 2},
	token.Arrow:     {prec: 2, arity: 2},
	token.BiArrow:   {prec: 2, arity: 2},
	token.Line:      {prec: 2, arity: 2},
	token.EqEq:      {prec: 3, arity: 2},
	token.BangEq:    {prec: 3, arity: 2},
	token.KwIs:      {prec: 3, arity: 2},
	token.IsNot:     {prec: 3, arity: 2},
	token.KwPoints:  {prec: 3, arity: 2},
	token.NotPoints: {prec: 3, arity: 2},
	token.Lt:        {prec: 4, arity: 2},
	token.LtEq:      {prec: 4, arity: 2},
	token.Gt:        {prec: 4, arity: 2},
	token.GtEq:      {prec: 4, arity: 2},
	token.Plus:      {prec: 5, arity: 2},
	token.Minus:     {prec: 5, arity: 2},
	token.Star:      {prec: 6, arity: 2},
	token.Slash:     {prec: 6, arity: 2},
	token.Percent:   {prec: 6, arity: 2},
	token.Caret:     {prec: 7, right: true, arity: 2},
}

var unaryOp = opInfo{prec: unaryPrec, right: true, arity: 1}

// Precedence exposes operator binding strength to the printer. Unary
// operators (Neg, Bang) report unaryPrec.
func Precedence(k token.Kind) (prec int, right bool) {
	if k == token.Neg || k == token.Bang {
		return unaryPrec, true
	}
	info := binaryOps[k]
	return info.prec, info.right
}
