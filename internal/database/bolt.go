package database

import (
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

// BoltKVStore provides simple kv store interface based on boltdb.
// Each key is a single storage slot.
type BoltKVStore struct {
	db         *bbolt.DB
	bucketName []byte
}

// NewBoltKVStore creates new BoltKVStore instance.
func NewBoltKVStore(dbPath string, bucketName string) (*BoltKVStore, error) {
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketName)); err != nil {
			return err
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating database bucket: %w", err)
	}

	return &BoltKVStore{
		db:         db,
		bucketName: []byte(bucketName),
	}, nil
}

// ReadKey returns data saved for given key. Returns nil if there's no data stored.
func (s *BoltKVStore) ReadKey(key []byte) ([]byte, error) {
	var data []byte
	if err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucketName)
		// Value is only valid during the transaction.
		if v := b.Get(key); v != nil {
			data = append([]byte{}, v...)
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("reading from db: %w", err)
	}

	return data, nil
}

// UpdateKey stores given data under given key.
func (s *BoltKVStore) UpdateKey(key []byte, data []byte) error {
	if err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucketName)
		return b.Put(key, data)
	}); err != nil {
		return fmt.Errorf("writing to db: %w", err)
	}

	return nil
}

// DeleteKey removes data stored under given key. Missing key is not an error.
func (s *BoltKVStore) DeleteKey(key []byte) error {
	if err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucketName)
		return b.Delete(key)
	}); err != nil {
		return fmt.Errorf("deleting from db: %w", err)
	}

	return nil
}

// Close closes database.
func (s *BoltKVStore) Close() error {
	return s.db.Close()
}
