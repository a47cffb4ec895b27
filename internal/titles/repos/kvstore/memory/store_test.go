package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/tabrename/internal/titles/repos/kvstore"
	"github.com/haukened/tabrename/internal/titles/repos/kvstore/kvstoretest"
)

func TestMemStore_Conformance(t *testing.T) {
	kvstoretest.Run(t, func(t *testing.T) kvstore.Store { return New(nil) })
}

func TestMemStore_SeedIsCopied(t *testing.T) {
	seed := map[string]string{"domains": "a.com"}
	s := New(seed)
	require.NoError(t, s.Set("domains", "b.com"))
	assert.Equal(t, "a.com", seed["domains"])
	assert.Equal(t, map[string]string{"domains": "b.com"}, Snapshot(s))
}

type otherStore struct{ kvstore.Store }

func TestSnapshot_ForeignStore(t *testing.T) {
	assert.Nil(t, Snapshot(otherStore{}))
}
