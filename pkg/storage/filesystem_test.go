package storage

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	name, err := store.SaveStream("announcements/1/a.txt", strings.NewReader("hello"))
	require.NoError(t, err)
	require.Equal(t, "announcements/1/a.txt", name)

	file, err := store.Open(name)
	require.NoError(t, err)
	body, err := io.ReadAll(file)
	require.NoError(t, err)
	require.NoError(t, file.Close())
	require.Equal(t, "hello", string(body))

	require.NoError(t, store.Delete(name))
	require.NoError(t, store.Delete(name))
	_, err = store.Open(name)
	require.Error(t, err)
}

func TestLocalStorageRefusesOverwrite(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.SaveStream("a.txt", strings.NewReader("one"))
	require.NoError(t, err)
	_, err = store.SaveStream("a.txt", strings.NewReader("two"))
	require.Error(t, err)
}

func TestLocalStorageRejectsEscapingPaths(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"../outside.txt", "a/../../outside.txt", "/etc/passwd", ""} {
		_, err := store.SaveStream(name, strings.NewReader("x"))
		require.ErrorIs(t, err, ErrInvalidPath, name)
		_, err = store.Open(name)
		require.ErrorIs(t, err, ErrInvalidPath, name)
	}
}
