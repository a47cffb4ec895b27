// Package kvstore declares the flat string key-value store that holds title
// rules. Backends live in subpackages.
package kvstore

import "errors"

// ErrClosed is returned by operations on a store after Close.
var ErrClosed = errors.New("kvstore: store is closed")

// Store is a flat string key-value store.
//
// Get returns def when the key is absent. Delete of an absent key is not an
// error. Writes are visible to the next read on the same store.
type Store interface {
	Get(key, def string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}

// Backend names accepted by configuration.
const (
	BackendMemory = "memory"
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
)
