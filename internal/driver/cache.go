package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"knot/internal/project"
	"knot/internal/source"
	"knot/internal/token"
	"knot/internal/version"
)

// Current schema version - increment when the cached token format changes.
const tokenCacheSchema uint16 = 1

// TokenCache stores token streams on disk keyed by the blake3 digest of the
// file content. Safe for concurrent use.
type TokenCache struct {
	mu  sync.RWMutex
	dir string
}

// tokenPayload is what a cache entry holds.
type tokenPayload struct {
	Schema uint16
	Path   string
	Tokens []token.Token
}

// OpenTokenCache opens (creating if needed) a cache rooted at dir.
// An empty dir returns a nil cache, which every method accepts.
func OpenTokenCache(dir string) (*TokenCache, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Join(dir, "tokens"), 0o750); err != nil {
		return nil, fmt.Errorf("token cache: %w", err)
	}
	return &TokenCache{dir: dir}, nil
}

// Key derives the cache key of a file.
func (c *TokenCache) Key(f *source.File) project.Digest {
	return project.Combine(f.Hash, "tokens", fmt.Sprint(tokenCacheSchema), version.Version)
}

func (c *TokenCache) pathFor(key project.Digest) string {
	return filepath.Join(c.dir, "tokens", hex.EncodeToString(key[:])+".mp")
}

// Put serializes tokens next to key, replacing the entry atomically.
func (c *TokenCache) Put(key project.Digest, path string, toks []token.Token) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(&tokenPayload{Schema: tokenCacheSchema, Path: path, Tokens: toks}); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get loads the tokens stored under key. Spans are rebased onto file, since
// the same content gets a different FileID in every FileSet.
func (c *TokenCache) Get(key project.Digest, file source.FileID) ([]token.Token, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload tokenPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, err
	}
	if payload.Schema != tokenCacheSchema {
		return nil, false, nil
	}
	for i := range payload.Tokens {
		payload.Tokens[i].Span.File = file
	}
	return payload.Tokens, true, nil
}

// DropAll removes every cached entry.
func (c *TokenCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.RemoveAll(filepath.Join(c.dir, "tokens")); err != nil {
		return err
	}
	return os.MkdirAll(filepath.Join(c.dir, "tokens"), 0o750)
}
