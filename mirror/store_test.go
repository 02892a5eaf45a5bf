package mirror

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "mirror.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_PutGet(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	_, ok, err := s.Get(ctx, "nodebook:concepts")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, "nodebook:concepts", []byte(`[1]`)))
	require.NoError(t, s.Put(ctx, "nodebook:concepts", []byte(`[1,2]`)))

	v, ok, err := s.Get(ctx, "nodebook:concepts")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[1,2]`, string(v))
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "mirror.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.PutAll(ctx, map[string][]byte{
		"nodebook:cards": []byte(`[]`),
		"nodebook:notes": []byte(`[{"id":1}]`),
	}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	v, ok, err := s.Get(ctx, "nodebook:notes")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"id":1}]`, string(v))
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	require.NoError(t, s.Put(ctx, "k", []byte(`1`)))
	require.NoError(t, s.Delete(ctx, "k"))
	require.NoError(t, s.Delete(ctx, "missing"))

	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}
