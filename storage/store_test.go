package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// broken fails every operation, standing in for a full or disabled medium.
type broken struct{}

func (broken) Get(string) (string, error) { return "", errors.New("storage disabled") }
func (broken) Set(string, string) error { return errors.New("quota exceeded") }
func (broken) Close() error { return nil }

func TestStore_MissingKey(t *testing.T) {
	s := NewStore(NewMemory(), nil)

	_, ok := s.Get("nope")
	assert.False(t, ok)
}

func TestStore_RoundTrip(t *testing.T) {
	s := NewStore(NewMemory(), nil)

	assert.True(t, s.Set("k", "v"))

	v, ok := s.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestStore_FailuresDoNotEscape(t *testing.T) {
	s := NewStore(broken{}, nil)

	_, ok := s.Get("k")
	assert.False(t, ok)
	assert.False(t, s.Set("k", "v"))
}

func TestSQLite_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.db")

	db, err := OpenSQLite(path)
	require.NoError(t, err)

	_, err = db.Get("k")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, db.Set("k", "one"))
	require.NoError(t, db.Set("k", "two"))
	require.NoError(t, db.Close())

	db, err = OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()

	v, err := db.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "two", v)
}

func TestSQLite_Memory(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Set("a", "1"))

	v, err := db.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}
