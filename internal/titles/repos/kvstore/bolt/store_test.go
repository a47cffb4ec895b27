package bolt

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/tabrename/internal/titles/repos/kvstore"
	"github.com/haukened/tabrename/internal/titles/repos/kvstore/kvstoretest"
)

func tempDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "rules.db")
}

func TestBoltStore_Conformance(t *testing.T) {
	kvstoretest.Run(t, func(t *testing.T) kvstore.Store {
		st, err := New(tempDB(t))
		require.NoError(t, err)
		return st
	})
}

func TestBoltStore_PersistsAcrossReopen(t *testing.T) {
	path := tempDB(t)
	st, err := New(path)
	require.NoError(t, err)
	require.NoError(t, st.Set("domains", "a.com|b.com"))
	require.NoError(t, st.Close())

	st, err = New(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	v, err := st.Get("domains", "")
	require.NoError(t, err)
	assert.Equal(t, "a.com|b.com", v)
}

func TestBoltStore_OpenBadPath(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "dir", "rules.db"))
	assert.Error(t, err)
}
