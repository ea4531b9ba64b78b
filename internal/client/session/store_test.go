package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_GetMissingKey(t *testing.T) {
	store := newMemoryStore(t)

	value, err := store.Get(context.Background(), "token")
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestSQLiteStore_SetGetRoundTrip(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "token", []byte("abc")))

	value, err := store.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), value)
}

func TestSQLiteStore_SetOverwrites(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "token", []byte("old")))
	require.NoError(t, store.Set(ctx, "token", []byte("new")))

	value, err := store.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), value)
}

func TestSQLiteStore_Delete(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "token", []byte("abc")))
	require.NoError(t, store.Delete(ctx, "token"))

	value, err := store.Get(ctx, "token")
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestSQLiteStore_Clear(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "token", []byte("abc")))
	require.NoError(t, store.Set(ctx, "user", []byte(`{"id":"user_1"}`)))
	require.NoError(t, store.Clear(ctx))

	for _, key := range []string{"token", "user"} {
		value, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Nil(t, value, "key %q should be gone", key)
	}
}
