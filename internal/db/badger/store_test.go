package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/talentdex/internal/db"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{InMemory: true}, nil)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestStore_SetGet(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v")))
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestStore_GetMissing(t *testing.T) {
	s := openMemory(t)

	_, err := s.Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, db.ErrKeyNotFound))
}

func TestStore_TTL(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	require.NoError(t, s.SetWithTTL(ctx, "k", []byte("v"), time.Second))
	_, err := s.Get(ctx, "k")
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)
	_, err = s.Get(ctx, "k")
	assert.True(t, errors.Is(err, db.ErrKeyNotFound))
}

func TestStore_Del(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v")))
	require.NoError(t, s.Del(ctx, "k"))
	require.NoError(t, s.Del(ctx, "never-set"))

	_, err := s.Get(ctx, "k")
	assert.True(t, errors.Is(err, db.ErrKeyNotFound))
}

func TestStore_OnDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(Config{Path: dir}, nil)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "k", []byte("persisted")))
	s.Close()

	s, err = Open(Config{Path: dir}, nil)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "persisted", string(got))
}

func TestStore_PingAfterClose(t *testing.T) {
	s, err := Open(Config{InMemory: true}, nil)
	require.NoError(t, err)
	require.NoError(t, s.WaitForReady(context.Background(), time.Second))

	s.Close()
	assert.True(t, errors.Is(s.Ping(context.Background()), db.ErrClosed))
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(Config{}, nil)
	assert.Error(t, err)
}
