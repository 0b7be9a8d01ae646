package fuzztests

import (
	"testing"

	"knot/internal/diag"
	"knot/internal/lexer"
	"knot/internal/source"
	"knot/internal/token"
)

const maxFuzzInput = 1 << 16 // 64 KiB

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampSeed(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.kn", input))

		bag := diag.NewBag(64)
		lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		for i := 0; ; i++ {
			tok := lx.Next()
			if tok.Kind == token.EOF || lx.Err() != nil {
				break
			}
			if i > len(input)+1 {
				t.Fatalf("lexer does not advance on %q", truncateForLog(input, 200))
			}
		}
	})
}

func FuzzImplicitStars(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampSeed(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.kn", input))
		toks, err := lexer.Tokenize(file, lexer.Options{})
		if err != nil {
			return
		}
		if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
			t.Fatalf("token stream must end with EOF: %q", truncateForLog(input, 200))
		}
		for _, tok := range toks {
			if tok.Implicit && tok.Kind != token.Star {
				t.Fatalf("implicit token of kind %s", tok.Kind)
			}
		}
	})
}
