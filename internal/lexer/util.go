package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"fortio.org/safecast"
)

// peekRune decodes the rune under the cursor; size 0 at EOF.
func (lx *Lexer) peekRune() (r rune, size int) {
	if lx.cursor.EOF() {
		return utf8.RuneError, 0
	}
	if b := lx.cursor.Peek(); b < utf8.RuneSelf {
		return rune(b), 1
	}
	return utf8.DecodeRune(lx.file.Content[lx.cursor.Off:lx.cursor.Limit])
}

func (lx *Lexer) bumpRune() {
	_, sz := lx.peekRune()
	if sz == 0 {
		return
	}
	usz, err := safecast.Conv[uint32](sz)
	if err != nil {
		panic(fmt.Errorf("bumpRune overflow: %w", err))
	}
	lx.cursor.Off += usz
}

// tryLit consumes lit if the input continues with it.
func (lx *Lexer) tryLit(lit string) bool {
	for i := 0; i < len(lit); i++ {
		if lx.cursor.PeekAt(uint32(i)) != lit[i] {
			return false
		}
	}
	for range len(lit) {
		lx.cursor.Bump()
	}
	return true
}

// ASCII идентификаторы проверяются по байту, остальное через unicode.
func isIdentStartByte(b byte) bool {
	return b == '_' || b >= 'A' && b <= 'Z' || b >= 'a' && b <= 'z'
}

func isIdentStartRune(r rune) bool    { return r == '_' || unicode.IsLetter(r) }
func isIdentContinueRune(r rune) bool { return isIdentStartRune(r) || unicode.IsDigit(r) }
func isDec(b byte) bool               { return b >= '0' && b <= '9' }

// isNumberAfterDot matches ".5".
func (lx *Lexer) isNumberAfterDot() bool {
	b0, b1 := lx.cursor.Peek(), lx.cursor.PeekAt(1)
	return b0 == '.' && isDec(b1)
}
