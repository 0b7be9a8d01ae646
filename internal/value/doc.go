// Package value implements the dynamic value of the language: a tagged union
// over none, bool, nine numeric dtypes, strings, lists, sets, dicts, graphs
// and edge specifications.
//
// Values are passed by value. Containers share their backing storage until a
// mutating operation runs; every mutator clones first, so a mutation is only
// visible through the value it returns. The evaluator writes that value back
// into the variable the receiver was loaded from.
//
// Errors returned by this package are *diag.Error values without a line; the
// caller attaches the line of the failing operation.
package value
