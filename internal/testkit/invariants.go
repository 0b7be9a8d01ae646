// Package testkit holds structural checks shared by parser and driver tests.
package testkit

import (
	"bytes"
	"fmt"

	"fortio.org/safecast"

	"knot/internal/ast"
	"knot/internal/source"
)

// CheckSpanInvariants walks every statement of prog and verifies:
// 1) the span points into sf and is non-empty
// 2) Line is the line of the span start
// 3) siblings appear in source order
// 4) a nested statement starts after the statement that owns its block
func CheckSpanInvariants(prog *ast.Program, sf *source.File) error {
	if prog == nil || sf == nil {
		return fmt.Errorf("nil program or file")
	}
	if prog.File != sf.ID {
		return fmt.Errorf("program file id %d, want %d", prog.File, sf.ID)
	}
	size, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	c := checker{sf: sf, size: size}
	return c.stmts(prog.Stmts, nil)
}

type checker struct {
	sf   *source.File
	size uint32
}

func (c checker) stmts(list []ast.Stmt, owner *ast.Pos) error {
	var prev *ast.Pos
	for _, st := range list {
		pos := st.Position()
		if err := c.pos(pos, st); err != nil {
			return err
		}
		if owner != nil && pos.Span.Start <= owner.Span.Start {
			return fmt.Errorf("%T at %v starts before its owner at %v", st, pos.Span, owner.Span)
		}
		if prev != nil && pos.Span.Start < prev.Span.Start {
			return fmt.Errorf("%T at %v is out of order after %v", st, pos.Span, prev.Span)
		}
		for _, b := range ast.Blocks(st) {
			if err := c.stmts(b.Stmts, &pos); err != nil {
				return err
			}
		}
		prev = &pos
	}
	return nil
}

func (c checker) pos(p ast.Pos, st ast.Stmt) error {
	sp := p.Span
	if sp.File != c.sf.ID {
		return fmt.Errorf("%T span file mismatch: got=%d want=%d", st, sp.File, c.sf.ID)
	}
	if sp.End <= sp.Start {
		return fmt.Errorf("%T has an empty span %v", st, sp)
	}
	if sp.End > c.size {
		return fmt.Errorf("%T span end beyond content: %d > %d", st, sp.End, c.size)
	}
	line, err := safecast.Conv[uint32](bytes.Count(c.sf.Content[:sp.Start], []byte{'\n'}) + 1)
	if err != nil {
		return fmt.Errorf("line overflow: %w", err)
	}
	if p.Line != line {
		return fmt.Errorf("%T at %v reports line %d, span starts on line %d", st, sp, p.Line, line)
	}
	return nil
}
