package store

import (
	"context"
	"testing"

	"github.com/mmcdole/youhub/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]domain.KV {
	t.Helper()

	bolt, err := NewBoltStore(t.TempDir())
	require.NoError(t, err)
	sqlite, err := NewSqliteStore(t.TempDir() + "/kv.sqlite")
	require.NoError(t, err)

	stores := map[string]domain.KV{
		"bolt":   bolt,
		"sqlite": sqlite,
		"memory": NewMemoryStore(),
	}
	t.Cleanup(func() {
		for _, s := range stores {
			_ = s.Close()
		}
	})
	return stores
}

func TestKVRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := kv.Get(ctx, "ui-lang")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, kv.Set(ctx, "ui-lang", "vi"))
			require.NoError(t, kv.Set(ctx, "ui-lang", "en"))
			v, ok, err := kv.Get(ctx, "ui-lang")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "en", v)

			require.NoError(t, kv.Delete(ctx, "ui-lang"))
			_, ok, err = kv.Get(ctx, "ui-lang")
			require.NoError(t, err)
			assert.False(t, ok)

			// deleting a missing key is not an error
			require.NoError(t, kv.Delete(ctx, "ui-lang"))
		})
	}
}

func TestKVListPrefix(t *testing.T) {
	ctx := context.Background()
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, kv.Set(ctx, "cv:resume:aaaaaaaaaaa", "12.5"))
			require.NoError(t, kv.Set(ctx, "cv:resume:bbbbbbbbbbb", "40"))
			require.NoError(t, kv.Set(ctx, "cv_resume_x", "1"))
			require.NoError(t, kv.Set(ctx, "CV:RESUME:ccccccccccc", "7"))
			require.NoError(t, kv.Set(ctx, "safe-mode", "0"))

			got, err := kv.List(ctx, "cv:resume:")
			require.NoError(t, err)
			assert.Equal(t, map[string]string{
				"cv:resume:aaaaaaaaaaa": "12.5",
				"cv:resume:bbbbbbbbbbb": "40",
			}, got)
		})
	}
}

func TestBoltPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := NewBoltStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "cookies-consent", "accepted"))
	require.NoError(t, s.Close())

	s, err = NewBoltStore(dir)
	require.NoError(t, err)
	defer s.Close()
	v, ok, err := s.Get(ctx, "cookies-consent")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "accepted", v)
}

func TestNewStore(t *testing.T) {
	s, err := NewStore("", "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = NewStore(BackendSqlite, t.TempDir())
	require.NoError(t, err)
	assert.IsType(t, &SqliteStore{}, s)
	require.NoError(t, s.Close())

	s, err = NewStore("", t.TempDir())
	require.NoError(t, err)
	assert.IsType(t, &BoltStore{}, s)
	require.NoError(t, s.Close())

	_, err = NewStore("redis", t.TempDir())
	assert.ErrorContains(t, err, "unknown store backend")
}
