// Package diag defines the error and diagnostic model shared by the lexer,
// the parser and the evaluator.
//
// # Data model
//
// Error is what the engine returns: a Code, the 1-based line of the token or
// operation that failed, its span and a message. Code ranges map onto the
// three user-facing kinds:
//
//   - 1xxx: LexError (unexpected character, unterminated string or comment)
//   - 2xxx: SyntaxError (unexpected/missing token, mismatched brackets, ...)
//   - 3xxx: RuntimeError (undefined variable, arity, division by zero, ...)
//
// Diagnostic is the batch form used by `knot check`: a Severity plus the same
// code/span/message, collected through a Reporter into a Bag.
//
// Package diag does not perform any formatting or IO. Rendering lives in
// internal/diagfmt.
package diag
