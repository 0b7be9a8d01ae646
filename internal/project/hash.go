package project

import (
	"github.com/zeebo/blake3"

	"knot/internal/source"
)

// Digest - фиксированный 256 битный хеш (совместим с source.File.Hash)
type Digest = source.Digest

// Combine строит ключ кеша: H( content || salt1 || salt2 ... ).
// Соли (версия, опции лексера) должны идти в детерминированном порядке.
func Combine(content Digest, salts ...string) Digest {
	h := blake3.New()
	_, _ = h.Write(content[:])
	for _, s := range salts {
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(s))
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
