package format

import (
	"strings"

	"knot/internal/ast"
)

func (p *printer) stmts(list []ast.Stmt) {
	for _, st := range list {
		p.stmt(st)
	}
}

func (p *printer) stmt(st ast.Stmt) {
	w := p.w
	switch s := st.(type) {
	case *ast.Assign:
		w.Line(declPrefix(s.Decl) + assignText(s) + ".")
	case *ast.MultiDecl:
		items := make([]string, len(s.Items))
		for i, it := range s.Items {
			items[i] = assignText(it)
		}
		w.Line(declPrefix(s.Decl) + strings.Join(items, ", ") + ".")
	case *ast.ExprStmt:
		w.Line(Expr(s.X) + ".")
	case *ast.Pass:
		w.Line("pass.")
	case *ast.Give:
		if s.Value == nil {
			w.Line("give.")
		} else {
			w.Line("give " + Expr(s.Value) + ".")
		}
	case *ast.If:
		for i, br := range s.Branches {
			kw := "if "
			if i > 0 {
				kw = "elif "
			}
			p.block(kw+Expr(br.Cond), br.Body)
		}
		if s.Else != nil {
			p.block("else", s.Else)
		}
	case *ast.While:
		p.block("while "+Expr(s.Cond), s.Body)
	case *ast.ForRange:
		var head string
		if s.Upto {
			head = "for " + s.Var + " in range(" + Expr(s.To) + ")"
		} else {
			head = "for " + s.Var + " in range(from " + Expr(s.From) + " to " + Expr(s.To)
			if s.Step != nil {
				head += " step " + Expr(s.Step)
			}
			head += ")"
		}
		p.block(head, s.Body)
	case *ast.ForIn:
		iter := Expr(s.Iter)
		if strings.HasPrefix(iter, "range(") {
			// не путать с заголовком range(N)
			iter = "(" + iter + ")"
		}
		p.block("for "+s.Var+" in "+iter, s.Body)
	case *ast.FuncDef:
		params := make([]string, len(s.Params))
		for i, prm := range s.Params {
			if prm.Ref {
				params[i] = "@" + prm.Name
			} else {
				params[i] = prm.Name
			}
		}
		head := "fn " + s.Name + "(" + strings.Join(params, ", ") + ")"
		if s.Body == nil {
			w.Line(head + ".")
			return
		}
		p.block(head, s.Body)
	case *ast.With:
		p.block("let "+s.Name+" be "+Expr(s.Value), s.Body)
	case *ast.Block:
		p.stmts(s.Stmts)
	}
}

// block prints `head:`, the indented body and the closing ';'.
func (p *printer) block(head string, b *ast.Block) {
	p.w.Line(head + ":")
	p.w.IndentPush()
	if b != nil {
		p.stmts(b.Stmts)
	}
	p.w.IndentPop()
	p.w.Line(";")
}

func declPrefix(d ast.DeclKind) string {
	switch d {
	case ast.DeclVar:
		return "var "
	case ast.DeclLet:
		return "let "
	}
	return ""
}

func assignText(a *ast.Assign) string {
	if a.Value == nil {
		return a.Name
	}
	return a.Name + " = " + Expr(a.Value)
}
