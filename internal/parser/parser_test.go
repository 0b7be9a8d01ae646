package parser_test

import (
	"errors"
	"testing"

	"knot/internal/ast"
	"knot/internal/diag"
	"knot/internal/lexer"
	"knot/internal/parser"
	"knot/internal/source"
	"knot/internal/testkit"
)

func parseSrc(t *testing.T, src string) *ast.Program {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.kn", []byte(src)))
	toks, err := lexer.Tokenize(file, lexer.Options{})
	if err != nil {
		t.Fatalf("tokenize %q: %v", src, err)
	}
	prog, err := parser.Parse(file.ID, toks, parser.Options{})
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return prog
}

func parseErr(t *testing.T, src string) *diag.Error {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.kn", []byte(src)))
	toks, err := lexer.Tokenize(file, lexer.Options{})
	if err != nil {
		t.Fatalf("tokenize %q: %v", src, err)
	}
	_, err = parser.Parse(file.ID, toks, parser.Options{})
	var de *diag.Error
	if !errors.As(err, &de) {
		t.Fatalf("expected syntax error for %q, got %v", src, err)
	}
	return de
}

// exprOf parses src as a single expression statement and dumps it.
func exprOf(t *testing.T, src string) string {
	t.Helper()
	prog := parseSrc(t, src)
	if len(prog.Stmts) != 1 {
		t.Fatalf("%q: want 1 statement, got %d", src, len(prog.Stmts))
	}
	st, ok := prog.Stmts[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("%q: want expression statement, got %T", src, prog.Stmts[0])
	}
	return ast.Dump(st.X)
}

func TestExpressionRPN(t *testing.T) {
	cases := []struct {
		src, want string
	}{
		{"1 + 2 * 3", "1 2 3 * +"},
		{"(1 + 2) * 3", "1 2 + 3 *"},
		{"2^3^4", "2 3 4 ^ ^"},
		{"10 - 4 - 3", "10 4 - 3 -"},
		{"-2^2", "2 neg 2 ^"},
		{"2^-1", "2 1 neg ^"},
		{"!a == b", "a ! b =="},
		{"not a", "a !"},
		{"2x", "2 x *"},
		{"2(3+1)", "2 3 1 + *"},
		{"a is not b", "a b is not"},
		{"a not points b", "a b not points"},
		{"a points b", "a b points"},
		{"1 < 2 == true", "1 2 < true =="},
		{"a -> b", "a b ->"},
		{"a <-> b + 1", "a b 1 + <->"},
		{"a --- b", "a b ---"},
		{"f(1, 2 + 3)", "1 2 3 + f/2"},
		{"g()", "g/0"},
		{"x.append(1)", "x 1 .append/1"},
		{"x.upper().len()", "x .upper/0 .len/0"},
		{"[1, 2, 3]", "1 2 3 list/3"},
		{"[]", "list/0"},
		{"{1, 2}", "1 2 set/2"},
		{"{'a' -> 1, 'b' -> 2}", `"a" 1 "b" 2 dict/2`},
		{"{}", "dict/0"},
		{"range(5)", "5 range/1"},
		{"'a' + \"b\"", `"a" "b" +`},
		{"none", "none"},
	}
	for _, tc := range cases {
		if got := exprOf(t, tc.src); got != tc.want {
			t.Errorf("%q: got %q, want %q", tc.src, got, tc.want)
		}
	}
}

func TestLogicalTree(t *testing.T) {
	cases := []struct {
		src, want string
	}{
		{"a && b()", "(&& a b/0)"},
		{"a || b && c", "(|| a (&& b c))"},
		{"a && b || c", "(|| (&& a b) c)"},
		{"a && b && c", "(&& (&& a b) c)"},
		{"a || b || c", "(|| (|| a b) c)"},
		{"a && b && c || d", "(|| (&& (&& a b) c) d)"},
		{"(a || b) + 1", "(|| a b) 1 +"},
		{"f(a && b)", "(&& a b) f/1"},
	}
	for _, tc := range cases {
		if got := exprOf(t, tc.src); got != tc.want {
			t.Errorf("%q: got %q, want %q", tc.src, got, tc.want)
		}
	}
}

func TestOfMatchesMethodCall(t *testing.T) {
	pairs := [][2]string{
		{"append(1) of xs", "xs.append(1)"},
		{"upper of s", "s.upper()"},
		{"upper() of s", "s.upper()"},
		{"replace('a', 'b') of s + t", "(s + t).replace('a', 'b')"},
		{"len of xs.copy()", "xs.copy().len()"},
	}
	for _, p := range pairs {
		if got, want := exprOf(t, p[0]), exprOf(t, p[1]); got != want {
			t.Errorf("%q => %q, but %q => %q", p[0], got, p[1], want)
		}
	}
}

func TestOfRejectsComputedLeft(t *testing.T) {
	de := parseErr(t, "1 + 2 of xs")
	if de.Code != diag.SynBadOfOperand {
		t.Fatalf("code = %v, want SynBadOfOperand", de.Code)
	}
}

func TestJuxtaposedDeclarations(t *testing.T) {
	prog := parseSrc(t, "var a = 1 b = 2.")
	md, ok := prog.Stmts[0].(*ast.MultiDecl)
	if !ok || len(md.Items) != 2 {
		t.Fatalf("want MultiDecl with 2 items, got %#v", prog.Stmts[0])
	}
	if md.Items[0].Name != "a" || ast.Dump(md.Items[0].Value) != "1" {
		t.Errorf("first item = %s = %s", md.Items[0].Name, ast.Dump(md.Items[0].Value))
	}
	if md.Items[1].Name != "b" || ast.Dump(md.Items[1].Value) != "2" {
		t.Errorf("second item = %s = %s", md.Items[1].Name, ast.Dump(md.Items[1].Value))
	}

	prog = parseSrc(t, "var a=1. b=2.")
	if len(prog.Stmts) != 2 {
		t.Fatalf("want 2 statements, got %d", len(prog.Stmts))
	}
	if a, ok := prog.Stmts[0].(*ast.Assign); !ok || a.Decl != ast.DeclVar || a.Name != "a" {
		t.Errorf("first = %#v", prog.Stmts[0])
	}
	if b, ok := prog.Stmts[1].(*ast.Assign); !ok || b.Decl != ast.DeclNone || b.Name != "b" {
		t.Errorf("second = %#v", prog.Stmts[1])
	}
}

func TestDesugaring(t *testing.T) {
	cases := []struct {
		src, name, want string
	}{
		{"x += 2 * y.", "x", "x 2 y * +"},
		{"x %= 3.", "x", "x 3 %"},
		{"n++.", "n", "n 1 +"},
		{"--n.", "n", "n 1 -"},
	}
	for _, tc := range cases {
		prog := parseSrc(t, tc.src)
		a, ok := prog.Stmts[0].(*ast.Assign)
		if !ok {
			t.Fatalf("%q: want Assign, got %T", tc.src, prog.Stmts[0])
		}
		if a.Name != tc.name || ast.Dump(a.Value) != tc.want {
			t.Errorf("%q: got %s = %s, want %s = %s", tc.src, a.Name, ast.Dump(a.Value), tc.name, tc.want)
		}
	}
}

func TestTerminatorForgiveness(t *testing.T) {
	srcs := []string{
		"var x = 1",                   // end of input
		"if true: print(1);",          // before ';'
		"var x = 1\nvar y = 2",        // newline
		"fn f(): give 1;\nprint(f())", // give before ';'
		"var x = (1 +\n 2)\nprint(x)", // newline inside brackets
		"var s = [1,\n2,\n3].",        // multiline list
		"print(1 + `\n 2)",            // continuation
	}
	for _, src := range srcs {
		parseSrc(t, src)
	}
	de := parseErr(t, `var x = "a" print(x)`)
	if de.Code != diag.SynExpectTerminator {
		t.Fatalf("code = %v, want SynExpectTerminator (%v)", de.Code, de)
	}
}

func TestStatements(t *testing.T) {
	src := `
fn add(x, y): give(x + y). ;
fn inc(@x): x = x + 1. ;
fn later(a).
if x > 1: pass. ;
elif x < 0: pass. ;
else: pass. ;
while n: n -= 1. ;
for i in range(3): print(i). ;
for i in range(from 5 to 1): print(i). ;
for i in range(from 0 to 10 step 2): pass. ;
for c in "abc": print(c). ;
for v in range(1, 4): pass. ;
let f be open("x.txt", "r"): print(f.read()). ;
let k = 3.
give.
`
	prog := parseSrc(t, src)
	wantTypes := []string{
		"*ast.FuncDef", "*ast.FuncDef", "*ast.FuncDef", "*ast.If", "*ast.While",
		"*ast.ForRange", "*ast.ForRange", "*ast.ForRange", "*ast.ForIn", "*ast.ForIn",
		"*ast.With", "*ast.Assign", "*ast.Give",
	}
	if len(prog.Stmts) != len(wantTypes) {
		t.Fatalf("got %d statements, want %d", len(prog.Stmts), len(wantTypes))
	}
	for i, st := range prog.Stmts {
		if got := typeName(st); got != wantTypes[i] {
			t.Errorf("stmt %d: got %s, want %s", i, got, wantTypes[i])
		}
	}

	inc := prog.Stmts[1].(*ast.FuncDef)
	if len(inc.Params) != 1 || !inc.Params[0].Ref || inc.Key() != "inc/1" {
		t.Errorf("inc = %+v", inc)
	}
	if later := prog.Stmts[2].(*ast.FuncDef); later.Body != nil {
		t.Errorf("forward declaration must have no body")
	}
	if st := prog.Stmts[3].(*ast.If); len(st.Branches) != 2 || st.Else == nil {
		t.Errorf("if chain = %+v", st)
	}
	if fr := prog.Stmts[5].(*ast.ForRange); !fr.Upto || ast.Dump(fr.From) != "0" || ast.Dump(fr.To) != "3" {
		t.Errorf("range(3) header = %+v", fr)
	}
	if fr := prog.Stmts[6].(*ast.ForRange); fr.Upto || fr.Step != nil {
		t.Errorf("range(from 5 to 1) header = %+v", fr)
	}
	if fr := prog.Stmts[7].(*ast.ForRange); fr.Step == nil || ast.Dump(fr.Step) != "2" {
		t.Errorf("step header = %+v", fr)
	}
	if fi := prog.Stmts[9].(*ast.ForIn); ast.Dump(fi.Iter) != "1 4 range/2" {
		t.Errorf("range(1, 4) must stay an iterable, got %s", ast.Dump(fi.Iter))
	}
	if g := prog.Stmts[12].(*ast.Give); g.Value != nil {
		t.Errorf("bare give must have nil value")
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *ast.FuncDef:
		return "*ast.FuncDef"
	case *ast.If:
		return "*ast.If"
	case *ast.While:
		return "*ast.While"
	case *ast.ForRange:
		return "*ast.ForRange"
	case *ast.ForIn:
		return "*ast.ForIn"
	case *ast.With:
		return "*ast.With"
	case *ast.Assign:
		return "*ast.Assign"
	case *ast.MultiDecl:
		return "*ast.MultiDecl"
	case *ast.Give:
		return "*ast.Give"
	case *ast.ExprStmt:
		return "*ast.ExprStmt"
	case *ast.Pass:
		return "*ast.Pass"
	}
	return "?"
}

func TestSyntaxErrors(t *testing.T) {
	cases := []struct {
		src  string
		code diag.Code
		line uint32
	}{
		{"print(1", diag.SynUnclosedDelimiter, 1},
		{"var x = [1, 2)", diag.SynMismatchedBracket, 1},
		{"fn f(a, a): pass. ;", diag.SynDuplicateParam, 1},
		{"fn f():\n;", diag.SynEmptyBody, 1},
		{"var x = 1.\nvar = 2.", diag.SynExpectIdentifier, 2},
		{"if x: pass.", diag.SynExpectBlockEnd, 1},
		{"pass. ;", diag.SynUnexpectedBlockEnd, 1},
		{"var y = range(from 1 to 2).", diag.SynForBadHeader, 1},
		{"var z = 1 +.", diag.SynExpectExpression, 1},
		{"if x print(x). ;", diag.SynExpectColon, 1},
	}
	for _, tc := range cases {
		de := parseErr(t, tc.src)
		if de.Code != tc.code || de.Line != tc.line {
			t.Errorf("%q: got %v at line %d (%s), want %v at line %d",
				tc.src, de.Code, de.Line, de.Message, tc.code, tc.line)
		}
	}
}

func TestParseExpr(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("expr", []byte("1 + 2 * 3")))
	toks, err := lexer.Tokenize(file, lexer.Options{})
	if err != nil {
		t.Fatal(err)
	}
	e, err := parser.ParseExpr(toks, parser.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got := ast.Dump(e); got != "1 2 3 * +" {
		t.Fatalf("got %q", got)
	}
}

func TestSpanInvariants(t *testing.T) {
	src := `# header comment
var a = 1, b = 2.
fn f(x, @y):
    if x > 0:
        y = y + x.
    ;
    elif x == 0: pass. ;
    else:
        give -x.
    ;
    while y > 100: y = y / 2. ;
    give y.
;
for i in range(from 1 to 10 step 3):
    let h be open("x.txt", "w"): h.write(str(i)). ;
;
for c in "abc": print(c). ;
`
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("spans.kn", []byte(src)))
	toks, err := lexer.Tokenize(file, lexer.Options{})
	if err != nil {
		t.Fatal(err)
	}
	prog, err := parser.Parse(file.ID, toks, parser.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if err := testkit.CheckSpanInvariants(prog, file); err != nil {
		t.Fatal(err)
	}
}
