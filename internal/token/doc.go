// Package token defines lexical token kinds for the knot language.
// Invariants:
//   - Token.Text is the exact source slice for lexical tokens; synthetic tokens
//     (implicit '*', folded compound keywords, RPN markers) carry a canonical text.
//   - Token.Line is the 1-based line of the token start.
//   - Newline is a real token: it is an alternative statement terminator.
//   - Compound type keywords ("long double", "unsigned long long", ...) are folded
//     into single Ident tokens ("long_double", "ulong_long", ...).
package token
