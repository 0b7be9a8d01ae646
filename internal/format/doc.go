// Package format prints a parsed program back to canonical knot source.
//
// Назначение: `knot fmt` и проверка round-trip (print -> tokenize -> parse).
// Не делает: сохранения комментариев и исходных пробелов; вывод строится
// целиком из AST.
// Зависимости: internal/ast, internal/parser (приоритеты операторов).
package format
