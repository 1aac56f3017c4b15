// Package listcache is a process-local, TTL-bounded cache for rendered
// character/evidence list pages, grounded in the teacher's
// pkg/metadata/store/badger usage of dgraph-io/badger/v4 (txn.Get/Set over
// an embedded KV store) but used here purely as a read-through cache, not
// a system of record: a cache miss always falls back to the backing gorm
// store.
package listcache

import (
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/aoserver/aoserver/internal/logger"
)

// Cache wraps an embedded badger database keyed by opaque byte keys built
// from a kind/page pair by callers (see Key).
type Cache struct {
	db  *badger.DB
	ttl time.Duration
}

// Open opens (creating if absent) a badger database at dir. ttl bounds how
// long a cached page entry is considered fresh.
func Open(dir string, ttl time.Duration) (*Cache, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening list cache: %w", err)
	}
	logger.Info("list cache ready", logger.Route(dir))
	return &Cache{db: db, ttl: ttl}, nil
}

// Key builds the cache key for one page of one list kind.
func Key(kind string, page uint32) []byte {
	return fmt.Appendf(nil, "%s:%d", kind, page)
}

// Get returns the cached bytes for key, and whether they were present and
// unexpired.
func (c *Cache) Get(key []byte) ([]byte, bool) {
	var val []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			val = append([]byte(nil), v...)
			return nil
		})
	})
	if err != nil {
		return nil, false
	}
	return val, true
}

// Set stores val under key with the cache's configured TTL.
func (c *Cache) Set(key, val []byte) error {
	return c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(key, val).WithTTL(c.ttl)
		return txn.SetEntry(entry)
	})
}

// Invalidate drops a cached page, used after a write (e.g. AddEvidence)
// changes the set of pages a kind produces.
func (c *Cache) Invalidate(key []byte) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// Close releases the underlying database files.
func (c *Cache) Close() error {
	return c.db.Close()
}
