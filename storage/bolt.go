package storage

import (
	"encoding/binary"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

// Bucket and key names.
const (
	BucketState   = "state"
	BucketHistory = "history"
	KeySnapshot   = "snapshot"
)

// HistorySize is the number of previous snapshots kept by BoltStorage.
const HistorySize = 20

// BoltStorage keeps the snapshot in a bbolt database, along with the
// HistorySize previous ones.
type BoltStorage struct {
	db *bolt.DB
}

// NewBoltStorage opens (or creates) the database at path.
func NewBoltStorage(path string) (*BoltStorage, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range []string{BucketState, BucketHistory} {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltStorage{db: db}, nil
}

func (s *BoltStorage) Load() ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(BucketState)).Get([]byte(KeySnapshot)); v != nil {
			data = append([]byte(nil), v...) // v is only valid during the transaction
		}
		return nil
	})
	return data, err
}

// Save replaces the snapshot and moves the previous one to the history, in a
// single transaction.
func (s *BoltStorage) Save(data []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		state := tx.Bucket([]byte(BucketState))
		history := tx.Bucket([]byte(BucketHistory))
		if prev := state.Get([]byte(KeySnapshot)); prev != nil {
			seq, err := history.NextSequence()
			if err != nil {
				return err
			}
			if err := history.Put(itob(seq), append([]byte(nil), prev...)); err != nil {
				return fmt.Errorf("failed to archive snapshot: %w", err)
			}
			if err := trim(history, HistorySize); err != nil {
				return err
			}
		}
		if err := state.Put([]byte(KeySnapshot), data); err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}
		return nil
	})
}

// History returns the previous snapshots, most recent first.
func (s *BoltStorage) History() ([][]byte, error) {
	var list [][]byte
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(BucketHistory)).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			list = append(list, append([]byte(nil), v...))
		}
		return nil
	})
	return list, err
}

func (s *BoltStorage) Close() error { return s.db.Close() }

// trim deletes the oldest entries of b until at most n remain.
func trim(b *bolt.Bucket, n int) error {
	c := b.Cursor()
	count := 0
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		count++
	}
	extra := count - n
	for k, _ := c.First(); k != nil && extra > 0; k, _ = c.First() {
		if err := c.Delete(); err != nil {
			return err
		}
		extra--
	}
	return nil
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
