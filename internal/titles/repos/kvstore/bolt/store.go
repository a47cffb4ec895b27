// Package bolt provides a kvstore.Store persisted in a bbolt database file.
package bolt

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bbolt "go.etcd.io/bbolt"
	bberrors "go.etcd.io/bbolt/errors"

	"github.com/haukened/tabrename/internal/titles/repos/kvstore"
)

var bucketValues = []byte("values")

type boltStore struct {
	db *bbolt.DB
}

// New opens (or creates) a Bolt database at path and ensures the values
// bucket exists. A second process holding the file makes New fail after one
// second instead of blocking.
func New(path string) (kvstore.Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt store %s: %w", path, err)
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketValues)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}
	return &boltStore{db: db}, nil
}

func (s *boltStore) Get(key, def string) (string, error) {
	val := def
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketValues)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			// v is only valid inside the transaction
			val = string(v)
		}
		return nil
	})
	if err != nil {
		return def, mapErr(err)
	}
	return val, nil
}

func (s *boltStore) Set(key, value string) error {
	return mapErr(s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketValues).Put([]byte(key), []byte(value))
	}))
}

func (s *boltStore) Delete(key string) error {
	return mapErr(s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketValues).Delete([]byte(key))
	}))
}

func (s *boltStore) Close() error { return s.db.Close() }

func mapErr(err error) error {
	if errors.Is(err, bberrors.ErrDatabaseNotOpen) {
		return kvstore.ErrClosed
	}
	return err
}

var _ kvstore.Store = (*boltStore)(nil)
