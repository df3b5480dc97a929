package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoltKVStore(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "test.data")
	store, err := NewBoltKVStore(path, "portfolio")
	require.NoError(t, err)
	defer store.Close()

	key := []byte("portfolio_projects_db")

	data, err := store.ReadKey(key)
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, store.UpdateKey(key, []byte(`[]`)))
	data, err = store.ReadKey(key)
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), data)

	require.NoError(t, store.UpdateKey(key, []byte(`[{"number":"01"}]`)))
	data, err = store.ReadKey(key)
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"number":"01"}]`), data)

	require.NoError(t, store.DeleteKey(key))
	data, err = store.ReadKey(key)
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, store.DeleteKey([]byte("missing")))
}

func TestBoltKVStoreReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "test.data")
	store, err := NewBoltKVStore(path, "portfolio")
	require.NoError(t, err)
	require.NoError(t, store.UpdateKey([]byte("k"), []byte("v")))
	require.NoError(t, store.Close())

	store, err = NewBoltKVStore(path, "portfolio")
	require.NoError(t, err)
	defer store.Close()

	data, err := store.ReadKey([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), data)
}
