package state

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func TestStore_SetGet(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, ok, err := s.Get(ctx, KeyOldURL)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, KeyOldURL, "/bank/3"))
	require.NoError(t, s.Set(ctx, KeyOldURL, "/bank/contract"))
	require.NoError(t, s.Set(ctx, KeyLanguage, "German"))

	v, ok, err := s.Get(ctx, KeyOldURL)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/bank/contract", v)

	entries, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, KeyLanguage, entries[0].Key)
	assert.False(t, entries[0].UpdatedAt.IsZero())
}

func TestStore_Delete(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, KeyOldURL, "/dashboard"))
	require.NoError(t, s.Set(ctx, KeyLanguage, "English"))
	require.NoError(t, s.Delete(ctx, KeyOldURL, "never-set"))

	_, ok, err := s.Get(ctx, KeyOldURL)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = s.Get(ctx, KeyLanguage)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.db")
	ctx := context.Background()

	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, KeyOldURL, "/settings"))
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer func() {
		_ = s.Close()
	}()

	v, ok, err := s.Get(ctx, KeyOldURL)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/settings", v)

	var version int
	require.NoError(t, s.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, ExpectedSchemaVersion, version)
}

func TestStore_Validation(t *testing.T) {
	s, err := Open(context.Background(), MemoryPath)
	require.NoError(t, err)
	defer func() {
		_ = s.Close()
	}()

	_, _, err = s.Get(context.Background(), " ")
	assert.ErrorIs(t, err, ErrEmptyString)

	//nolint:staticcheck // nil context is the case under test
	err = s.Set(nil, KeyOldURL, "/")
	assert.ErrorIs(t, err, ErrNilContext)

	_, err = Open(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyString)
}
