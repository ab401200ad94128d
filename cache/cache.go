// Package cache stores decoded query results in a badger database.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"os"

	"github.com/dgraph-io/badger"
	"github.com/pkg/errors"

	bin "github.com/omniscale/osmrender/cache/binary"
	"github.com/omniscale/osmrender/element"
	"github.com/omniscale/osmrender/logging"
	"github.com/omniscale/osmrender/parser"
)

var log = logging.NewLogger("cache")

var NotFound = errors.New("not found")

// badgerLogger logs the info messages of badger as debug.
type badgerLogger struct {
	*logging.Logger
}

func (l badgerLogger) Infof(msg string, args ...interface{}) {
	l.Logger.Debugf(msg, args...)
}

type Cache struct {
	dir string
	db  *badger.DB
}

// Open opens or creates the cache in dir.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	opts := badger.DefaultOptions
	opts.Dir, opts.ValueDir = dir, dir
	opts.Logger = badgerLogger{logging.NewLogger("badger")}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "opening cache %s", dir)
	}
	return &Cache{dir: dir, db: db}, nil
}

func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

// Remove closes and deletes the cache.
func (c *Cache) Remove() error {
	if err := c.Close(); err != nil {
		return err
	}
	return os.RemoveAll(c.dir)
}

// Get returns the collection stored for key. It returns NotFound if there
// is no entry. Composites of the collection have no rings.
func (c *Cache) Get(key []byte) (*element.Collection, error) {
	var data []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return NotFound
		}
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	coll, err := bin.Unmarshal(data)
	if err != nil {
		return nil, errors.Wrapf(err, "loading cache entry %x", key[:4])
	}
	log.Debugf("loaded %d features for %x", coll.Len(), key[:4])
	return coll, nil
}

// Put stores coll for key, replacing any existing entry.
func (c *Cache) Put(key []byte, coll *element.Collection) error {
	data, err := bin.Marshal(coll)
	if err != nil {
		return err
	}
	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
	if err != nil {
		return errors.Wrapf(err, "storing cache entry %x", key[:4])
	}
	log.Debugf("stored %d features (%d bytes) for %x", coll.Len(), len(data), key[:4])
	return nil
}

// Key returns the cache key of a query. It is the sha256 of the source
// name and the sorted IDs of the selection, so the order in which IDs were
// selected does not matter. A nil set is encoded differently from an
// empty set.
func Key(source string, sel parser.Selection) []byte {
	h := sha256.New()
	var buf [binary.MaxVarintLen64]byte
	writeVarint := func(v int64) {
		n := binary.PutVarint(buf[:], v)
		h.Write(buf[:n])
	}

	writeVarint(int64(len(source)))
	h.Write([]byte(source))
	for _, set := range []parser.IDSet{sel.Points, sel.Lines, sel.Composites} {
		if set == nil {
			writeVarint(-1)
			continue
		}
		ids := set.IDs()
		writeVarint(int64(len(ids)))
		for _, id := range ids {
			writeVarint(id)
		}
	}
	return h.Sum(nil)
}
