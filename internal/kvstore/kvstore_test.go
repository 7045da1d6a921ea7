package kvstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRoundTrip(t *testing.T) {
	store, err := NewFile(t.TempDir())
	require.NoError(t, err)

	_, ok, err := store.Get("session")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set("session", []byte(`{"token":"abc"}`)))

	data, ok, err := store.Get("session")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"token":"abc"}`, string(data))
}

func TestFileSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewFile(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("cart", []byte(`[]`)))

	reopened, err := NewFile(dir)
	require.NoError(t, err)

	data, ok, err := reopened.Get("cart")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[]`, string(data))
}

func TestFileOverwrite(t *testing.T) {
	store, err := NewFile(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("k", []byte("one")))
	require.NoError(t, store.Set("k", []byte("two")))

	data, _, err := store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func TestFileDeleteAbsentKeyIsNoop(t *testing.T) {
	store, err := NewFile(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Delete("missing"))

	require.NoError(t, store.Set("k", []byte("v")))
	require.NoError(t, store.Delete("k"))
	_, ok, err := store.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemorySetErr(t *testing.T) {
	store := NewMemory()
	require.NoError(t, store.Set("k", []byte("v")))

	store.SetErr = assert.AnError
	assert.ErrorIs(t, store.Set("k", []byte("w")), assert.AnError)

	data, ok, err := store.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v", string(data), "failed set must not clobber the stored value")
}
