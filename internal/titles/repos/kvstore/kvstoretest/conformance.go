// Package kvstoretest holds the behavior every kvstore.Store backend must
// share, run from each backend's tests.
package kvstoretest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/tabrename/internal/titles/repos/kvstore"
)

// Opener returns a fresh, empty store. The caller closes it.
type Opener func(t *testing.T) kvstore.Store

// Run exercises get/set/delete semantics against stores from open.
func Run(t *testing.T, open Opener) {
	t.Run("GetMissingReturnsDefault", func(t *testing.T) {
		s := open(t)
		defer s.Close()
		v, err := s.Get("domains", "fallback")
		require.NoError(t, err)
		assert.Equal(t, "fallback", v)
	})

	t.Run("SetThenGet", func(t *testing.T) {
		s := open(t)
		defer s.Close()
		require.NoError(t, s.Set("a.com-find", "Hello"))
		v, err := s.Get("a.com-find", "")
		require.NoError(t, err)
		assert.Equal(t, "Hello", v)
	})

	t.Run("Overwrite", func(t *testing.T) {
		s := open(t)
		defer s.Close()
		require.NoError(t, s.Set("domains", "a.com"))
		require.NoError(t, s.Set("domains", "a.com|b.com"))
		v, err := s.Get("domains", "")
		require.NoError(t, err)
		assert.Equal(t, "a.com|b.com", v)
	})

	t.Run("EmptyValueIsStored", func(t *testing.T) {
		s := open(t)
		defer s.Close()
		require.NoError(t, s.Set("k", ""))
		v, err := s.Get("k", "default")
		require.NoError(t, err)
		assert.Equal(t, "", v)
	})

	t.Run("DeleteThenGet", func(t *testing.T) {
		s := open(t)
		defer s.Close()
		require.NoError(t, s.Set("a.com-with", "World"))
		require.NoError(t, s.Delete("a.com-with"))
		v, err := s.Get("a.com-with", "")
		require.NoError(t, err)
		assert.Equal(t, "", v)
	})

	t.Run("DeleteMissingIsNoop", func(t *testing.T) {
		s := open(t)
		defer s.Close()
		assert.NoError(t, s.Delete("never-set"))
	})

	t.Run("UnicodeAndDollarValues", func(t *testing.T) {
		s := open(t)
		defer s.Close()
		val := "价格 $$1 — regex:^Foo\\d+$"
		require.NoError(t, s.Set("x.cn-with", val))
		v, err := s.Get("x.cn-with", "")
		require.NoError(t, err)
		assert.Equal(t, val, v)
	})

	t.Run("UseAfterClose", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Close())
		_, err := s.Get("k", "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, kvstore.ErrClosed), "got %v", err)
		assert.Error(t, s.Set("k", "v"))
	})
}
