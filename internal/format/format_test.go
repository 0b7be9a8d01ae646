package format

import (
	"testing"

	"knot/internal/source"
)

func virtual(src string) *source.File {
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual("fmt.kn", []byte(src)))
}

func TestFormatCanonical(t *testing.T) {
	src := "var a=1 b=2.\nfn add(x,y): give(x+y). ;\nif a>b: print(a). ; else: print(b). ;\n"
	out, err := FormatSource(virtual(src), Options{})
	if err != nil {
		t.Fatalf("FormatSource: %v", err)
	}
	want := "var a = 1, b = 2.\n" +
		"fn add(x, y):\n" +
		"    give x + y.\n" +
		";\n" +
		"if a > b:\n" +
		"    print(a).\n" +
		";\n" +
		"else:\n" +
		"    print(b).\n" +
		";\n"
	if string(out) != want {
		t.Fatalf("format mismatch:\nwant %q\ngot  %q", want, string(out))
	}
}

func TestFormatParentheses(t *testing.T) {
	cases := map[string]string{
		"(1 + 2) * 3":       "(1 + 2) * 3",
		"1 + (2 * 3)":       "1 + 2 * 3",
		"(2^3)^4":           "(2 ^ 3) ^ 4",
		"2^3^4":             "2 ^ 3 ^ 4",
		"10 - (4 - 3)":      "10 - (4 - 3)",
		"-(2^2)":            "-(2 ^ 2)",
		"- -x":              "- -x",
		"2x":                "2 * x",
		"(a || b) && c":     "(a || b) && c",
		"a || b && c":       "a || b && c",
		"(s + t).upper()":   "(s + t).upper()",
		"upper of s":        "s.upper()",
		"{1, 2}":            "{1, 2}",
		"{(a -> b) -> 1}":   "{(a -> b) -> 1}",
		"f(a && b, [1, 2])": "f(a && b, [1, 2])",
		"a is not b":        "a is not b",
		"'a\\tb'":           `"a\tb"`,
	}
	for src, want := range cases {
		out, err := FormatSource(virtual(src), Options{})
		if err != nil {
			t.Fatalf("%q: %v", src, err)
		}
		if got := string(out); got != want+".\n" {
			t.Errorf("%q: got %q, want %q", src, got, want+".\n")
		}
	}
}

func TestRoundTrip(t *testing.T) {
	programs := []string{
		"var a = 1 b = 2.\nprint(a + b).",
		"fn f(@x, y): x = x * y. give. ;\nfn g(a).\nvar n = 3.\nf(n, 2).",
		"for i in range(from 5 to 1): print(i). ;\nfor i in range(3): pass. ;",
		"for i in range(from 0 to 9 step 3): print(i). ;",
		"for c in (range(4)): print(c). ;",
		"var d = {'k' -> [1, 2], 'z' -> {3}}.\nd = d.set('q', -1).",
		"while n > 0 && !done: n -= 1. ;",
		"let h be open('x', 'w'): h.write('hi'). ;",
		"var e = (1 -> 2) <-> 3.\nprint(e, 2^-1, - -4).",
		"if a is b: pass. ; elif a points b: pass. ; elif a not points b: pass. ;",
		"print(len of [1, 2] + 1, append(3) of xs).",
		"var x = 1.5e3. x++. --x. x %= 7.",
	}
	for _, src := range programs {
		if ok, msg := CheckRoundTrip(virtual(src), Options{}); !ok {
			t.Errorf("%q: %s", src, msg)
		}
	}
}

func TestUseTabs(t *testing.T) {
	out, err := FormatSource(virtual("while x: x = x - 1. ;"), Options{UseTabs: true})
	if err != nil {
		t.Fatal(err)
	}
	if want := "while x:\n\tx = x - 1.\n;\n"; string(out) != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}
