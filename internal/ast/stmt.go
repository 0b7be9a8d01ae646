package ast

import (
	"strconv"

	"knot/internal/source"
)

// Pos locates a statement.
type Pos struct {
	Line uint32
	Span source.Span
}

func (p Pos) Position() Pos { return p }

// Stmt is one of the statement node types below.
type Stmt interface {
	Position() Pos
}

// DeclKind records which keyword introduced an assignment.
type DeclKind uint8

const (
	DeclNone DeclKind = iota // plain assignment
	DeclVar                  // var
	DeclLet                  // let
)

type (
	// Block is a statement list with its own scope.
	Block struct {
		Pos
		Stmts []Stmt
	}

	// Assign is `name = value`, optionally declaring. Value is nil for a bare
	// declaration (`var x.`), which binds none.
	Assign struct {
		Pos
		Decl  DeclKind
		Name  string
		Value Expr
	}

	// MultiDecl is `var a = 1, b = 2.` or `var a = 1 b = 2.`
	MultiDecl struct {
		Pos
		Decl  DeclKind
		Items []*Assign
	}

	ExprStmt struct {
		Pos
		X Expr
	}

	Pass struct {
		Pos
	}

	// Give returns from the enclosing function. Value is nil for a bare give.
	Give struct {
		Pos
		Value Expr
	}

	CondBranch struct {
		Cond Expr
		Body *Block
	}

	// If holds the if branch followed by every elif branch.
	If struct {
		Pos
		Branches []CondBranch
		Else     *Block
	}

	While struct {
		Pos
		Cond Expr
		Body *Block
	}

	// ForRange is a counted loop. Upto loops (range(N)) run From..To-1;
	// the from/to form is inclusive. Step nil means 1, or -1 when From > To.
	ForRange struct {
		Pos
		Var            string
		From, To, Step Expr
		Upto           bool
		Body           *Block
	}

	ForIn struct {
		Pos
		Var  string
		Iter Expr
		Body *Block
	}

	Param struct {
		Name string
		Ref  bool
	}

	// FuncDef defines (Body != nil) or forward-declares (Body == nil) a function.
	FuncDef struct {
		Pos
		Name   string
		Params []Param
		Body   *Block
	}

	// With is `let NAME be EXPR: BLOCK;` and releases NAME when the block exits.
	With struct {
		Pos
		Name  string
		Value Expr
		Body  *Block
	}
)

// Key is the arity-qualified name under which the function is registered.
func (f *FuncDef) Key() string { return FuncKey(f.Name, len(f.Params)) }

// FuncKey builds "name/arity".
func FuncKey(name string, arity int) string {
	return name + "/" + strconv.Itoa(arity)
}

// Program is a parsed source file.
type Program struct {
	File  source.FileID
	Stmts []Stmt
}

// Blocks returns the bodies nested directly in st, in source order.
func Blocks(st Stmt) []*Block {
	switch x := st.(type) {
	case *Block:
		return []*Block{x}
	case *If:
		out := make([]*Block, 0, len(x.Branches)+1)
		for _, br := range x.Branches {
			out = append(out, br.Body)
		}
		if x.Else != nil {
			out = append(out, x.Else)
		}
		return out
	case *While:
		return []*Block{x.Body}
	case *ForRange:
		return []*Block{x.Body}
	case *ForIn:
		return []*Block{x.Body}
	case *FuncDef:
		if x.Body != nil {
			return []*Block{x.Body}
		}
	case *With:
		return []*Block{x.Body}
	}
	return nil
}
