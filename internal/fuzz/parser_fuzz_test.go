package fuzztests

import (
	"context"
	"testing"
	"time"

	"knot/internal/format"
	"knot/internal/lexer"
	"knot/internal/parser"
	"knot/internal/source"
	"knot/internal/testkit"
)

// parseTimeout bounds a single parse; longer means a loop in error recovery.
const parseTimeout = 5 * time.Second

func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)

	f.Add([]byte("fn f(x):"))                        // unclosed block
	f.Add([]byte(";;;;"))                            // stray block ends
	f.Add([]byte("((((((((((1"))                     // unclosed parens
	f.Add([]byte("a.b.c.d(1)(2)[3]."))               // chained postfix
	f.Add([]byte("if: elif: else: ;"))               // empty conditions
	f.Add([]byte("var var var = = ."))               // keyword soup
	f.Add([]byte("for i in range(from to step): ;")) // empty range header

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampSeed(input)
		if len(input) > maxFuzzInput {
			input = input[:maxFuzzInput]
		}

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan error, 1)
		go func() {
			fs := source.NewFileSet()
			file := fs.Get(fs.AddVirtual("fuzz.kn", input))
			toks, err := lexer.Tokenize(file, lexer.Options{})
			if err != nil {
				done <- nil
				return
			}
			prog, err := parser.Parse(file.ID, toks, parser.Options{})
			if err != nil {
				done <- nil
				return
			}
			done <- testkit.CheckSpanInvariants(prog, file)
		}()

		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("span invariants on %q: %v", truncateForLog(input, 200), err)
			}
		case <-ctx.Done():
			t.Fatalf("parser hang detected: parsing took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

// FuzzFormatterNoPanic runs the print/reparse round trip; only panics fail.
func FuzzFormatterNoPanic(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(_ *testing.T, input []byte) {
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.kn", clampSeed(input)))
		_, _ = format.CheckRoundTrip(file, format.Options{})
	})
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
