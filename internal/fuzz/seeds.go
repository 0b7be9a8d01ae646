package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const maxSeedBytes = 64 << 10 // 64 KiB

var languageSeeds = []string{
	"",
	"2(3+1).",
	"var x = 2x + 3.",
	"var a = 1, b = 2.\nx += 4. y++. --z.",
	"fn fact(n):\n if n < 2: give 1. ;\n give n * fact(n - 1).\n;",
	"fn inc(@x): x = x + 1. ;\nfn later(a).",
	"if a && b || !c: pass. ;\nelif a is not none: pass. ;\nelse: pass. ;",
	"for i in range(from 0 to 10 step 2): print(i). ;",
	"for c in \"abc\": print(c.upper()). ;",
	"while n > 0: n -= 1. ;",
	"let f be open(\"x.txt\", \"w\"): f.write(\"hi\"). ;",
	"var g = graph of (1 -> 2, 2 <-> 3, 3 --- 4).",
	"var d = {\"a\" -> 1, \"b\" -> [1, 2, {3}]}.",
	"x points y. x not points y.",
	"--> block\ncomment <-- # line comment\nvar s = 'multi\nline'.",
	"print(1, \\\n 2).",
	"give.",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
	for _, dir := range []string{"testdata", "cmd"} {
		addSourceSeeds(f, filepath.Join("..", "..", dir))
	}
}

// addSourceSeeds adds every *.kn file under root.
func addSourceSeeds(f *testing.F, root string) {
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".kn" {
			return nil
		}
		// #nosec G304 -- path comes from a repository walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
