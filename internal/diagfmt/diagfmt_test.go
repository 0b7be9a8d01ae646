package diagfmt

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/oarkflow/json"
	"gopkg.in/yaml.v3"

	"knot/internal/diag"
	"knot/internal/lexer"
	"knot/internal/source"
)

func unterminated(t *testing.T, path string) (*source.FileSet, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.Add(path, []byte("var a = 1.\nvar s = \"open"), 0)
	_, err := lexer.Tokenize(fs.Get(id), lexer.Options{})
	var de *diag.Error
	if !errors.As(err, &de) {
		t.Fatalf("expected a lex error, got %v", err)
	}
	bag := diag.NewBag(0)
	bag.Add(de.Diagnostic())
	return fs, bag
}

func TestPretty(t *testing.T) {
	fs, bag := unterminated(t, "/home/user/project/src/test.kn")
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeAuto})
	out := buf.String()

	for _, want := range []string{
		"/home/user/project/src/test.kn:2:9: ERROR LEX1002:",
		" 1 | var a = 1.",
		" 2 | var s = \"open",
		"   |         ^",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("color escapes without Color:\n%q", out)
	}
}

func TestPathModes(t *testing.T) {
	fs, bag := unterminated(t, "/home/user/project/src/test.kn")
	tests := []struct {
		name string
		mode PathMode
		want string
	}{
		{"absolute", PathModeAbsolute, "/home/user/project/src/test.kn:2:9"},
		{"relative", PathModeRelative, "src/test.kn:2:9"},
		{"basename", PathModeBasename, "test.kn:2:9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode, BaseDir: "/home/user/project"})
			if !strings.HasPrefix(buf.String(), tt.want) {
				t.Fatalf("output %q does not start with %q", buf.String(), tt.want)
			}
		})
	}
}

func TestVirtualFileKeepsName(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("<repl:3>", []byte("x = 1."))
	bag := diag.NewBag(0)
	bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.RunUndefinedVariable,
		Message: "undefined variable 'x'", Primary: source.Span{File: id, Start: 0, End: 1}})
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeAbsolute})
	if !strings.HasPrefix(buf.String(), "<repl:3>:1:1: ERROR RUN3001") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestUnderlineWidth(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.kn", []byte("\tvar total = nosuch(1)."))
	bag := diag.NewBag(0)
	bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.RunUnknownFunction,
		Message: "unknown function 'nosuch'", Primary: source.Span{File: id, Start: 13, End: 19}})
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	last := lines[len(lines)-1]
	if !strings.HasSuffix(last, "| \t            ^~~~~~") {
		t.Fatalf("underline %q", last)
	}
}

func TestErrorWithoutSpan(t *testing.T) {
	var buf bytes.Buffer
	Error(&buf, errors.New("disk on fire"), source.NewFileSet(), PrettyOpts{})
	if got := buf.String(); got != "ERROR E0000: disk on fire\n" {
		t.Fatalf("got %q", got)
	}
}

func TestJSON(t *testing.T) {
	fs, bag := unterminated(t, "main.kn")
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true}); err != nil {
		t.Fatal(err)
	}
	var out Report
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, buf.String())
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("count = %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Code != "LEX1002" || d.Kind != "LexError" || d.Location.File != "main.kn" || d.Location.StartLine != 2 {
		t.Fatalf("diagnostic = %+v", d)
	}
}

func TestTokenFormats(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("t.kn", []byte("var r = 2x.")))
	toks, err := lexer.Tokenize(file, lexer.Options{})
	if err != nil {
		t.Fatal(err)
	}

	var pretty bytes.Buffer
	if err := FormatTokens(&pretty, toks, fs, TokensPretty); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(pretty.String(), "(implicit)") || !strings.Contains(pretty.String(), `"r" at 1:5-1:6`) {
		t.Fatalf("pretty dump:\n%s", pretty.String())
	}

	var js bytes.Buffer
	if err := FormatTokens(&js, toks, fs, TokensJSON); err != nil {
		t.Fatal(err)
	}
	var fromJSON []TokenOutput
	if err := json.Unmarshal(js.Bytes(), &fromJSON); err != nil {
		t.Fatalf("invalid json: %v", err)
	}

	var ym bytes.Buffer
	if err := FormatTokens(&ym, toks, fs, TokensYAML); err != nil {
		t.Fatal(err)
	}
	var fromYAML []TokenOutput
	if err := yaml.Unmarshal(ym.Bytes(), &fromYAML); err != nil {
		t.Fatalf("invalid yaml: %v", err)
	}

	if len(fromJSON) != len(toks) || len(fromYAML) != len(toks) {
		t.Fatalf("json %d, yaml %d, tokens %d", len(fromJSON), len(fromYAML), len(toks))
	}
	if fromJSON[0].Kind != "var" || fromYAML[len(fromYAML)-1].Kind != "EOF" {
		t.Fatalf("first/last kinds: %q %q", fromJSON[0].Kind, fromYAML[len(fromYAML)-1].Kind)
	}
}

func TestParseTokenFormat(t *testing.T) {
	for in, want := range map[string]TokenFormat{"": TokensPretty, "JSON": TokensJSON, "yaml": TokensYAML} {
		got, err := ParseTokenFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseTokenFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseTokenFormat("xml"); err == nil {
		t.Errorf("expected error for xml")
	}
}
