package lexer_test

import (
	"errors"
	"strings"
	"testing"

	"knot/internal/diag"
	"knot/internal/lexer"
	"knot/internal/source"
	"knot/internal/token"
)

func tokenize(t *testing.T, src string) []token.Token {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.kn", []byte(src)))
	toks, err := lexer.Tokenize(file, lexer.Options{})
	if err != nil {
		t.Fatalf("tokenize %q: %v", src, err)
	}
	return toks
}

func lexError(t *testing.T, src string) *diag.Error {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.kn", []byte(src)))
	_, err := lexer.Tokenize(file, lexer.Options{})
	var de *diag.Error
	if !errors.As(err, &de) {
		t.Fatalf("expected lex error for %q, got %v", src, err)
	}
	return de
}

// render joins kinds and texts as "Kind:text" pairs without the final EOF.
func render(toks []token.Token) string {
	parts := make([]string, 0, len(toks))
	for _, tok := range toks {
		switch tok.Kind {
		case token.EOF:
			continue
		case token.Newline:
			parts = append(parts, "NL")
		case token.Number, token.String, token.Ident:
			parts = append(parts, tok.Kind.String()+"("+tok.Text+")")
		default:
			parts = append(parts, tok.Kind.String())
		}
	}
	return strings.Join(parts, " ")
}

func TestImplicitMultiplicationBeforeParen(t *testing.T) {
	toks := tokenize(t, "2(3+1)")
	if got, want := render(toks), "Number(2) * ( Number(3) + Number(1) )"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if !toks[1].Implicit {
		t.Errorf("inserted star must be flagged implicit")
	}
}

func TestDotTerminatorVersusDecimal(t *testing.T) {
	got := render(tokenize(t, "var a=1. b=2."))
	want := "var Ident(a) = Number(1) . Ident(b) = Number(2) ."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if got := render(tokenize(t, "x = 1.5 .5")); got != "Ident(x) = Number(1.5) * Number(.5)" {
		t.Fatalf("decimals: got %q", got)
	}
}

func TestImplicitMultiplicationCases(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"2x", "Number(2) * Ident(x)"},
		{"(a)(b)", "( Ident(a) ) * ( Ident(b) )"},
		{"f(x)", "Ident(f) ( Ident(x) )"},
		{"a b", "Ident(a) * Ident(b)"},
		{"2e", "Number(2) * Ident(e)"},
		{"2e3", "Number(2e3)"},
		{"s.len()", "Ident(s) . Ident(len) ( )"},
		{"[1] 2", "[ Number(1) ] * Number(2)"},
		{"\"a\" b", "String(a) Ident(b)"},
	}
	for _, tc := range cases {
		if got := render(tokenize(t, tc.src)); got != tc.want {
			t.Errorf("%q: got %q, want %q", tc.src, got, tc.want)
		}
	}
}

func TestOperators(t *testing.T) {
	got := render(tokenize(t, "== != <= >= && || += -= *= /= %= ++ -> <-> --- ^ ! @"))
	want := "== != <= >= && || += -= *= /= %= ++ -> <-> --- ^ ! @"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTripleDashVersusCommentVersusDecrement(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"a --- b", "Ident(a) --- Ident(b)"},
		{"a --> hidden <-- b", "Ident(a) * Ident(b)"},
		{"x-- y", "Ident(x) -- Ident(y)"},
		{"x----y", "Ident(x) --- - Ident(y)"},
	}
	for _, tc := range cases {
		if got := render(tokenize(t, tc.src)); got != tc.want {
			t.Errorf("%q: got %q, want %q", tc.src, got, tc.want)
		}
	}
}

func TestCommentsAdvanceLines(t *testing.T) {
	toks := tokenize(t, "a # note\n--> one\ntwo <-- b")
	if got := render(toks); got != "Ident(a) NL Ident(b)" {
		t.Fatalf("got %q", got)
	}
	if toks[2].Line != 3 {
		t.Errorf("b must be on line 3, got %d", toks[2].Line)
	}
}

func TestBacktickContinuation(t *testing.T) {
	toks := tokenize(t, "x = 1 + `  \n 2\ny")
	if got := render(toks); got != "Ident(x) = Number(1) + Number(2) NL Ident(y)" {
		t.Fatalf("got %q", got)
	}
	if toks[4].Line != 2 {
		t.Errorf("2 must be on line 2, got %d", toks[4].Line)
	}
}

func TestStrings(t *testing.T) {
	toks := tokenize(t, `"a\tb\n" 'it\'s' "q\"x" "back\\slash" "\z"`)
	want := []string{"a\tb\n", "it's", `q"x`, `back\slash`, `\z`}
	for i, w := range want {
		if toks[i].Kind != token.String || toks[i].Text != w {
			t.Errorf("string %d: got %v %q, want %q", i, toks[i].Kind, toks[i].Text, w)
		}
	}
}

func TestCompoundKeywords(t *testing.T) {
	got := render(tokenize(t, "unsigned long long x. unsigned long y. unsigned int z. long double w. long long v. long u"))
	want := "Ident(ulong_long) * Ident(x) . Ident(ulong) * Ident(y) . Ident(uint) * Ident(z) . " +
		"Ident(long_double) * Ident(w) . Ident(long_long) * Ident(v) . Ident(long) * Ident(u)"
	if got != want {
		t.Fatalf("got  %q\nwant %q", got, want)
	}
	if got := render(tokenize(t, "long(3)")); got != "Ident(long) ( Number(3) )" {
		t.Fatalf("conversion call: %q", got)
	}
}

func TestKeywords(t *testing.T) {
	got := render(tokenize(t, "fn give pass range from to step be of is not points true false none"))
	want := "fn give pass range from to step be of is not points true false none"
	if got != want {
		t.Fatalf("got %q", got)
	}
}

func TestLexErrors(t *testing.T) {
	cases := []struct {
		src  string
		code diag.Code
		line uint32
	}{
		{"x = $", diag.LexUnknownChar, 1},
		{"a\n\"open", diag.LexUnterminatedString, 2},
		{"a\n\n--> never closed", diag.LexUnterminatedBlockComment, 3},
		{"a ` b", diag.LexUnknownChar, 1},
	}
	for _, tc := range cases {
		err := lexError(t, tc.src)
		if err.Code != tc.code || err.Line != tc.line {
			t.Errorf("%q: got %v line %d, want %v line %d", tc.src, err.Code, err.Line, tc.code, tc.line)
		}
		if err.Code.Kind() != "LexError" {
			t.Errorf("%q: kind %s", tc.src, err.Code.Kind())
		}
	}
	if err := lexError(t, "x = $"); !strings.Contains(err.Message, `"$"`) {
		t.Errorf("message must name the character: %q", err.Message)
	}
}

func TestReporterReceivesErrors(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.kn", []byte("a ~")))
	bag := diag.NewBag(0)
	lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	for tok := lx.Next(); tok.Kind != token.EOF && tok.Kind != token.Invalid; tok = lx.Next() {
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexUnknownChar {
		t.Fatalf("bag = %+v", bag.Items())
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.kn", []byte("a b")))
	lx := lexer.New(file, lexer.Options{})
	if p := lx.Peek(); p.Text != "a" {
		t.Fatalf("peek = %q", p.Text)
	}
	if n := lx.Next(); n.Text != "a" {
		t.Fatalf("next = %q", n.Text)
	}
	if n := lx.Next(); n.Text != "b" {
		t.Fatalf("next = %q", n.Text)
	}
	if n := lx.Next(); n.Kind != token.EOF {
		t.Fatalf("expected EOF, got %v", n.Kind)
	}
	if n := lx.Next(); n.Kind != token.EOF {
		t.Fatalf("EOF must repeat, got %v", n.Kind)
	}
}
