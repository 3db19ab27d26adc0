package queue

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	bolt "go.etcd.io/bbolt"

	"github.com/prioritylivinglabs/priority-living-cli/pkg/types"
)

var bucketRequests = []byte("requests")

// BoltStore implements Store using BoltDB. Entries are keyed by a
// big-endian bucket sequence number so cursor order equals insertion
// order.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) the queue database at path.
func NewBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create queue directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open queue database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRequests)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create queue bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Load returns all queued requests in insertion order.
func (s *BoltStore) Load() ([]types.QueuedRequest, error) {
	var entries []types.QueuedRequest
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRequests)
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var entry types.QueuedRequest
			if err := json.Unmarshal(v, &entry); err != nil {
				// Unreadable entries are dropped rather than wedging
				// the whole queue.
				continue
			}
			entries = append(entries, entry)
		}
		return nil
	})
	return entries, err
}

// Replace swaps the stored queue for entries in a single transaction.
func (s *BoltStore) Replace(entries []types.QueuedRequest) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketRequests); err != nil {
			return err
		}
		b, err := tx.CreateBucket(bucketRequests)
		if err != nil {
			return err
		}
		for i := range entries {
			seq, err := b.NextSequence()
			if err != nil {
				return err
			}
			data, err := json.Marshal(entries[i])
			if err != nil {
				return err
			}
			key := make([]byte, 8)
			binary.BigEndian.PutUint64(key, seq)
			if err := b.Put(key, data); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close closes the database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
