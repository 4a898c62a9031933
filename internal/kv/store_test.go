package kv

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonnoweb/nonnoweb/internal/testutil"
)

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	key := "test_" + testutil.UniqueSuffix()

	_, err := s.Get(ctx, key)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, key, []byte(`{"a":1}`)))
	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(got))

	require.NoError(t, s.Set(ctx, key, []byte(`[]`)))
	got, err = s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))

	require.NoError(t, s.Delete(ctx, key))
	_, err = s.Get(ctx, key)
	require.ErrorIs(t, err, ErrNotFound)

	// Deleting twice is fine.
	require.NoError(t, s.Delete(ctx, key))
	require.NoError(t, s.Ping(ctx))
}

func TestMemory(t *testing.T) {
	t.Parallel()
	exerciseStore(t, NewMemory())
}

func TestMemory_CopiesValues(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory()

	value := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", value))
	value[0] = 'x'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[0] = 'y'
	again, _ := m.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

func TestPrefixed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	base := NewMemory()
	s := Prefixed(base, "tenant1:")

	exerciseStore(t, s)

	require.NoError(t, s.Set(ctx, "users", []byte("x")))
	_, err := base.Get(ctx, "users")
	assert.ErrorIs(t, err, ErrNotFound)
	raw, err := base.Get(ctx, "tenant1:users")
	require.NoError(t, err)
	assert.Equal(t, "x", string(raw))

	assert.Same(t, base, Prefixed(base, ""))
}

func TestSQLite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	exerciseStore(t, s)
}

func TestOpen_UnknownBackend(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), Options{Backend: "etcd"})
	assert.True(t, errors.Is(err, ErrUnknownBackend))
}

func TestOpen_RedisWithoutClient(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), Options{Backend: BackendRedis})
	assert.Error(t, err)
}

func TestOpen_DefaultsToMemory(t *testing.T) {
	t.Parallel()

	s, err := Open(context.Background(), Options{})
	require.NoError(t, err)
	_, ok := s.(*Memory)
	assert.True(t, ok, "expected *Memory, got %T", s)
}
