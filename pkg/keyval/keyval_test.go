package keyval

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidcastaneda/clubsync/pkg/config"
)

func setupStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewInMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSetGetRoundTrip(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "session", `{"token":"abc"}`))

	value, ok, err := store.Get(ctx, "session")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"token":"abc"}`, value)
}

func TestSetOverwritesExistingKey(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "theme", "light"))
	require.NoError(t, store.Set(ctx, "theme", "dark"))

	value, ok, err := store.Get(ctx, "theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", value)
}

func TestGetMissingKey(t *testing.T) {
	store := setupStore(t)

	value, ok, err := store.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "pending_join", "CLUB42"))
	require.NoError(t, store.Delete(ctx, "pending_join"))
	require.NoError(t, store.Delete(ctx, "pending_join"))

	_, ok, err := store.Get(ctx, "pending_join")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewCreatesFileBackedStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	store, err := New(ctx, config.StateConfig{DBPath: path}, nil)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "k", "v"))
	require.NoError(t, store.Close())

	reopened, err := New(ctx, config.StateConfig{DBPath: path}, nil)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	value, ok, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", value)
}

func TestNewRequiresPath(t *testing.T) {
	_, err := New(context.Background(), config.StateConfig{}, nil)
	require.Error(t, err)
}
