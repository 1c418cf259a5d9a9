// Package cache stores serialized pipeline outputs keyed by the content
// that produced them.
package cache

import (
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/ppiankov/layergraph/internal/model"
	"github.com/zeebo/blake3"
)

// KeyPrefix versions the key space; bump it when output layout changes
const KeyPrefix = "lg1-"

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key hashes the parts with blake3. Each part is length-prefixed so
// ("ab", "c") and ("a", "bc") produce different keys.
func Key(parts ...[]byte) string {
	h := blake3.New()
	var size [8]byte
	for _, p := range parts {
		binary.BigEndian.PutUint64(size[:], uint64(len(p)))
		_, _ = h.Write(size[:])
		_, _ = h.Write(p)
	}
	return KeyPrefix + hex.EncodeToString(h.Sum(nil))
}

// New builds the cache described by cfg: a memory+disk LayeredCache,
// or a no-op cache when caching is disabled
func New(cfg model.CacheConfig) Cache {
	if !cfg.Enabled {
		return Noop{}
	}
	return NewLayeredCache(cfg.MemoryTTL, cfg.Dir, cfg.DiskTTL)
}

// Noop never stores anything
type Noop struct{}

func (Noop) Get(string) ([]byte, bool)               { return nil, false }
func (Noop) Set(string, []byte, time.Duration) error { return nil }
func (Noop) Delete(string) error                     { return nil }
func (Noop) Clear() error                            { return nil }
