// Package trace records what knot is doing: driver commands, the lex/parse/exec
// phases, per-file work of `knot check` and, at debug level, every user
// function call made by the VM.
//
// Enable it with
//
//	knot --trace=- --trace-level=phase main.kn
//	knot --trace=calls.ndjson --trace-level=debug main.kn
//
// Tracers:
//
//   - Nop: used when tracing is off
//   - StreamTracer: writes each event immediately (text or NDJSON)
//   - RingTracer: keeps the last events in memory, dumped when a run fails
//   - MultiTracer: fans out to several tracers
//
// A Tracer travels through context.Context with WithTracer/FromContext.
package trace
