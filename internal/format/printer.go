package format

import (
	"errors"
	"fmt"
	"strings"

	"knot/internal/ast"
	"knot/internal/lexer"
	"knot/internal/parser"
	"knot/internal/source"
)

type Options struct {
	IndentWidth int
	UseTabs     bool
}

func (o Options) withDefaults() Options {
	if o.IndentWidth == 0 {
		o.IndentWidth = 4
	}
	return o
}

type printer struct {
	w *Writer
}

// FormatProgram renders prog as knot source. Every simple statement ends
// with '.', every block closes with ';' on its own line.
func FormatProgram(prog *ast.Program, opt Options) ([]byte, error) {
	if prog == nil {
		return nil, errors.New("format: nil program")
	}
	p := printer{w: NewWriter(opt)}
	p.stmts(prog.Stmts)
	return p.w.Bytes(), nil
}

// FormatSource parses src and prints it back.
func FormatSource(sf *source.File, opt Options) ([]byte, error) {
	prog, err := parseOnce(sf)
	if err != nil {
		return nil, err
	}
	return FormatProgram(prog, opt)
}

// CheckRoundTrip formats the file, re-parses the output and compares the
// statement trees (expressions compared by their RPN dumps).
func CheckRoundTrip(sf *source.File, opt Options) (ok bool, msg string) {
	orig, err := parseOnce(sf)
	if err != nil {
		return false, "fmt-check: initial parse failed: " + err.Error()
	}
	formatted, err := FormatProgram(orig, opt)
	if err != nil {
		return false, "fmt-check: formatter failed: " + err.Error()
	}

	fs2 := source.NewFileSet()
	rebuilt := fs2.Get(fs2.AddVirtual(sf.Path, formatted))
	again, err := parseOnce(rebuilt)
	if err != nil {
		return false, "fmt-check: reparse failed: " + err.Error()
	}
	if a, b := Outline(orig), Outline(again); a != b {
		return false, fmt.Sprintf("fmt-check: trees differ after round-trip:\n%s\n---\n%s", a, b)
	}
	return true, "fmt-check: OK"
}

func parseOnce(sf *source.File) (*ast.Program, error) {
	toks, err := lexer.Tokenize(sf, lexer.Options{})
	if err != nil {
		return nil, err
	}
	return parser.Parse(sf.ID, toks, parser.Options{})
}

// Outline is a position-free rendering of the statement tree, used to
// compare programs structurally.
func Outline(prog *ast.Program) string {
	var sb strings.Builder
	for _, st := range prog.Stmts {
		outline(&sb, st, 0)
	}
	return sb.String()
}

func outline(sb *strings.Builder, st ast.Stmt, depth int) {
	pad := strings.Repeat("  ", depth)
	block := func(b *ast.Block) {
		if b == nil {
			return
		}
		for _, s := range b.Stmts {
			outline(sb, s, depth+1)
		}
	}
	switch s := st.(type) {
	case *ast.Assign:
		fmt.Fprintf(sb, "%sassign %d %s = %s\n", pad, s.Decl, s.Name, dumpOpt(s.Value))
	case *ast.MultiDecl:
		fmt.Fprintf(sb, "%sdecl %d\n", pad, s.Decl)
		for _, it := range s.Items {
			outline(sb, it, depth+1)
		}
	case *ast.ExprStmt:
		fmt.Fprintf(sb, "%sexpr %s\n", pad, ast.Dump(s.X))
	case *ast.Pass:
		fmt.Fprintf(sb, "%spass\n", pad)
	case *ast.Give:
		fmt.Fprintf(sb, "%sgive %s\n", pad, dumpOpt(s.Value))
	case *ast.If:
		for _, br := range s.Branches {
			fmt.Fprintf(sb, "%sif %s\n", pad, ast.Dump(br.Cond))
			block(br.Body)
		}
		if s.Else != nil {
			fmt.Fprintf(sb, "%selse\n", pad)
			block(s.Else)
		}
	case *ast.While:
		fmt.Fprintf(sb, "%swhile %s\n", pad, ast.Dump(s.Cond))
		block(s.Body)
	case *ast.ForRange:
		fmt.Fprintf(sb, "%sfor %s %v %s %s %s\n", pad, s.Var, s.Upto, ast.Dump(s.From), ast.Dump(s.To), dumpOpt(s.Step))
		block(s.Body)
	case *ast.ForIn:
		fmt.Fprintf(sb, "%sfor %s in %s\n", pad, s.Var, ast.Dump(s.Iter))
		block(s.Body)
	case *ast.FuncDef:
		fmt.Fprintf(sb, "%sfn %s %v forward=%v\n", pad, s.Name, s.Params, s.Body == nil)
		block(s.Body)
	case *ast.With:
		fmt.Fprintf(sb, "%swith %s = %s\n", pad, s.Name, ast.Dump(s.Value))
		block(s.Body)
	case *ast.Block:
		fmt.Fprintf(sb, "%sblock\n", pad)
		block(s)
	}
}

func dumpOpt(e ast.Expr) string {
	if e == nil {
		return "<nil>"
	}
	return ast.Dump(e)
}
