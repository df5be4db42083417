package buffer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Store keeps buffered task writes in a BoltDB file until they can be replayed.
type Store struct {
	db      *bolt.DB
	bucket  []byte
	maxSize int
}

// Option tweaks a Store at Open time.
type Option func(*Store)

// WithMaxSize caps the number of buffered items. Zero means unbounded.
func WithMaxSize(n int) Option {
	return func(s *Store) { s.maxSize = n }
}

// Open creates the file and bucket when missing.
func Open(path string, bucket string, opts ...Option) (*Store, error) {
	if bucket == "" {
		bucket = "buffer"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	store := &Store{
		db:     db,
		bucket: []byte(bucket),
	}
	for _, opt := range opts {
		opt(store)
	}
	return store, nil
}

// Enqueue stores item under a key ordered by priority, then arrival.
func (s *Store) Enqueue(item Item) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	item.normalize()

	payload, err := json.Marshal(item)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if s.maxSize > 0 && b.Stats().KeyN >= s.maxSize {
			return ErrFull
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(buildKey(item.Priority, seq), payload)
	})
}

// GetBatch returns up to limit items without removing them.
func (s *Store) GetBatch(limit int) ([]Item, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	if limit <= 0 {
		limit = 50
	}

	var items []Item
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(s.bucket).Cursor()
		for k, v := c.First(); k != nil && len(items) < limit; k, v = c.Next() {
			var item Item
			if err := json.Unmarshal(v, &item); err != nil {
				continue
			}
			item.bucketKey = append([]byte(nil), k...)
			items = append(items, item)
		}
		return nil
	})
	return items, err
}

// Remove deletes the provided item from the buffer.
func (s *Store) Remove(item Item) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	if len(item.bucketKey) == 0 {
		return s.deleteByID(item.ID)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Delete(item.bucketKey)
	})
}

// Requeue moves item to the back of its priority band.
func (s *Store) Requeue(item Item) error {
	if err := s.Remove(item); err != nil {
		return err
	}
	item.bucketKey = nil
	return s.Enqueue(item)
}

// Discard drops pending items for ref with the given entity and operation.
func (s *Store) Discard(entity, operation, ref string) (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	if ref == "" {
		return 0, nil
	}
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		keys := s.matching(tx, func(item Item) bool {
			return item.Ref == ref && item.Entity == entity && item.Operation == operation
		})
		removed = len(keys)
		return deleteKeys(tx.Bucket(s.bucket), keys)
	})
	return removed, err
}

// Size returns the number of buffered items.
func (s *Store) Size() (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(s.bucket).Stats().KeyN
		return nil
	})
	return count, err
}

// Cleanup drops items buffered before olderThan and reports how many went.
func (s *Store) Cleanup(olderThan time.Time) (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		stale := s.matching(tx, func(item Item) bool {
			return item.Timestamp.Before(olderThan)
		})
		removed = len(stale)
		return deleteKeys(tx.Bucket(s.bucket), stale)
	})
	return removed, err
}

// Close closes the Bolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) deleteByID(id string) error {
	if id == "" {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		keys := s.matching(tx, func(item Item) bool { return item.ID == id })
		return deleteKeys(tx.Bucket(s.bucket), keys)
	})
}

// matching collects keys first; bolt cursors skip entries when deleting mid-scan.
func (s *Store) matching(tx *bolt.Tx, keep func(Item) bool) [][]byte {
	var keys [][]byte
	c := tx.Bucket(s.bucket).Cursor()
	for k, v := c.First(); k != nil; k, v = c.Next() {
		var item Item
		if err := json.Unmarshal(v, &item); err != nil {
			continue
		}
		if keep(item) {
			keys = append(keys, append([]byte(nil), k...))
		}
	}
	return keys
}

func deleteKeys(b *bolt.Bucket, keys [][]byte) error {
	for _, k := range keys {
		if err := b.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

func buildKey(priority int, seq uint64) []byte {
	return []byte(fmt.Sprintf("%d_%020d", priority, seq))
}
