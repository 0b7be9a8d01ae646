package token_test

import (
	"testing"

	"knot/internal/token"
)

func TestLookupKeyword(t *testing.T) {
	cases := map[string]token.Kind{
		"var":    token.KwVar,
		"give":   token.KwGive,
		"points": token.KwPoints,
		"none":   token.KwNone,
		"be":     token.KwBe,
	}
	for lexeme, want := range cases {
		got, ok := token.LookupKeyword(lexeme)
		if !ok || got != want {
			t.Fatalf("LookupKeyword(%q) = %v, %v; want %v", lexeme, got, ok, want)
		}
	}
	for _, s := range []string{"Var", "GIVE", "long", "unsigned", "print", "int"} {
		if _, ok := token.LookupKeyword(s); ok {
			t.Errorf("LookupKeyword(%q) must not be a keyword", s)
		}
	}
}

func TestKindString(t *testing.T) {
	cases := map[token.Kind]string{
		token.BiArrow:    "<->",
		token.Line:       "---",
		token.MinusMinus: "--",
		token.KwElif:     "elif",
		token.Newline:    "Newline",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", k, got, want)
		}
	}
}

func TestCompoundAssign(t *testing.T) {
	pairs := map[token.Kind]token.Kind{
		token.PlusAssign:    token.Plus,
		token.MinusAssign:   token.Minus,
		token.StarAssign:    token.Star,
		token.SlashAssign:   token.Slash,
		token.PercentAssign: token.Percent,
	}
	for k, want := range pairs {
		if !k.IsCompoundAssign() {
			t.Errorf("%v should be compound assignment", k)
		}
		if got := k.BinaryOf(); got != want {
			t.Errorf("%v.BinaryOf() = %v, want %v", k, got, want)
		}
	}
	if token.Assign.IsCompoundAssign() || token.EqEq.IsCompoundAssign() {
		t.Errorf("plain '=' and '==' are not compound assignments")
	}
}

func TestValueBoundaries(t *testing.T) {
	tok := func(k token.Kind) token.Token { return token.Token{Kind: k} }
	for _, k := range []token.Kind{token.Number, token.Ident, token.RParen, token.RBracket} {
		if !tok(k).EndsValue() {
			t.Errorf("%v should end a value", k)
		}
	}
	for _, k := range []token.Kind{token.Number, token.Ident, token.LParen, token.LBracket} {
		if !tok(k).StartsValue() {
			t.Errorf("%v should start a value", k)
		}
	}
	if tok(token.String).EndsValue() || tok(token.Plus).StartsValue() {
		t.Errorf("strings and operators do not take part in implicit multiplication")
	}
}

func TestKeywordsSorted(t *testing.T) {
	kws := token.Keywords()
	if len(kws) != 23 {
		t.Fatalf("len(Keywords()) = %d", len(kws))
	}
	for i := 1; i < len(kws); i++ {
		if kws[i-1] >= kws[i] {
			t.Fatalf("not sorted at %d: %q >= %q", i, kws[i-1], kws[i])
		}
	}
}
