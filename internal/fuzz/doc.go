// Package fuzztests houses Go fuzz harnesses for the front end of knot
// (source -> lexer -> parser -> formatter). They guard against panics and
// hangs on arbitrary input; errors are expected and ignored.
//
// Не делает: выполнение программ. Файлы и input() не трогаются.
package fuzztests
