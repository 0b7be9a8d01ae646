package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"knot/internal/source"
)

// Pos is a position the lexer can return to.
type Pos struct {
	Off  uint32
	Line uint32 // 1-based, advanced by Bump on '\n'
}

// Cursor walks the bytes of one file.
type Cursor struct {
	Pos
	File  *source.File
	Limit uint32 // exclusive bound for Off
}

func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("file too large: %w", err))
	}
	return Cursor{Pos: Pos{Line: 1}, File: f, Limit: limit}
}

func (c *Cursor) EOF() bool { return c.Off >= c.Limit }

// PeekAt returns the byte n ahead of the cursor; 0 past the end.
func (c *Cursor) PeekAt(n uint32) byte {
	if c.Off+n < c.Limit {
		return c.File.Content[c.Off+n]
	}
	return 0
}

func (c *Cursor) Peek() byte { return c.PeekAt(0) }

// Bump consumes one byte and returns it, 0 at EOF.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.File.Content[c.Off]
	c.Off++
	if b == '\n' {
		c.Line++
	}
	return b
}

// Eat bumps only when the next byte is b.
func (c *Cursor) Eat(b byte) bool {
	ok := !c.EOF() && c.Peek() == b
	if ok {
		c.Bump()
	}
	return ok
}

func (c *Cursor) Mark() Pos   { return c.Pos }
func (c *Cursor) Reset(p Pos) { c.Pos = p }

// SpanFrom covers everything consumed since m.
func (c *Cursor) SpanFrom(m Pos) source.Span {
	return source.Span{File: c.File.ID, Start: m.Off, End: c.Off}
}
