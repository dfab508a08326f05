package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	file, err := OpenFile(filepath.Join(dir, "state.json"))
	require.NoError(t, err)
	db, err := OpenSQLite(filepath.Join(dir, "state.db"))
	require.NoError(t, err)

	stores := map[string]Store{
		"memory": NewMemory(),
		"file":   file,
		"sqlite": db,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			s.Close()
		}
	})
	return stores
}

func TestStore_SetGetDelete(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := s.Get("theme")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Set("theme", "dark"))
			v, ok, err := s.Get("theme")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "dark", v)

			require.NoError(t, s.Set("theme", "light"))
			v, _, _ = s.Get("theme")
			assert.Equal(t, "light", v)

			require.NoError(t, s.Delete("theme"))
			_, ok, _ = s.Get("theme")
			assert.False(t, ok)

			assert.NoError(t, s.Delete("never-set"))
		})
	}
}

func TestFile_persistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	f, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Set("k", "v"))
	require.NoError(t, f.Close())

	f2, err := OpenFile(path)
	require.NoError(t, err)
	v, ok, err := f2.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestFile_corruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := OpenFile(path)
	assert.Error(t, err)
}

func TestSQLite_persistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("ai_conversation_1", `[{"question":"q"}]`))
	require.NoError(t, s.Close())

	s2, err := OpenSQLite(path)
	require.NoError(t, err)
	defer s2.Close()
	v, ok, err := s2.Get("ai_conversation_1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"question":"q"}]`, v)
}

func TestMemory_closed(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Close())
	assert.ErrorIs(t, m.Set("a", "b"), ErrClosed)
	_, _, err := m.Get("a")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	for _, kind := range []string{"memory", "json", "sqlite"} {
		s, err := Open(kind, dir)
		require.NoError(t, err, kind)
		require.NoError(t, s.Set("k", kind))
		s.Close()
	}
	_, err := Open("redis", dir)
	assert.Error(t, err)
}
