package token

import "sort"

var keywords = map[string]Kind{
	"var":    KwVar,
	"let":    KwLet,
	"fn":     KwFn,
	"if":     KwIf,
	"elif":   KwElif,
	"else":   KwElse,
	"for":    KwFor,
	"in":     KwIn,
	"while":  KwWhile,
	"give":   KwGive,
	"pass":   KwPass,
	"range":  KwRange,
	"from":   KwFrom,
	"to":     KwTo,
	"step":   KwStep,
	"be":     KwBe,
	"of":     KwOf,
	"is":     KwIs,
	"not":    KwNot,
	"points": KwPoints,
	"true":   KwTrue,
	"false":  KwFalse,
	"none":   KwNone,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// Keywords lists every reserved word in sorted order (REPL completion).
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for k := range keywords {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// CompoundKeyword is a multi-word type name folded into one identifier.
type CompoundKeyword struct {
	Words  []string
	Folded string
}

// CompoundKeywords is ordered longest first so greedy matching picks
// "unsigned long long" before "unsigned long".
var CompoundKeywords = []CompoundKeyword{
	{Words: []string{"unsigned", "long", "long"}, Folded: "ulong_long"},
	{Words: []string{"unsigned", "long"}, Folded: "ulong"},
	{Words: []string{"unsigned", "int"}, Folded: "uint"},
	{Words: []string{"long", "double"}, Folded: "long_double"},
	{Words: []string{"long", "long"}, Folded: "long_long"},
}
