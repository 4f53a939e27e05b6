package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"
)

func newLocal(t *testing.T) (*LocalStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	require.NoError(t, err)
	return store, dir
}

func TestSavePrefixThenStream(t *testing.T) {
	store, dir := newLocal(t)

	prefix := []byte("consumed-during-sniffing-")
	rest := []byte("rest of the stream")
	n, err := store.Save(context.Background(), "abc1234.bin", prefix, bytes.NewReader(rest))
	require.NoError(t, err)
	require.Equal(t, int64(len(prefix)+len(rest)), n)

	got, err := os.ReadFile(filepath.Join(dir, "abc1234.bin"))
	require.NoError(t, err)
	require.Equal(t, append(append([]byte{}, prefix...), rest...), got)
}

func TestSaveNoPrefix(t *testing.T) {
	store, dir := newLocal(t)

	_, err := store.Save(context.Background(), "abc1234.txt", nil, bytes.NewReader([]byte("hello")))
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(dir, "abc1234.txt"))
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), got)
}

func TestSaveExclusive(t *testing.T) {
	store, _ := newLocal(t)

	_, err := store.Save(context.Background(), "abc1234.txt", nil, bytes.NewReader([]byte("first")))
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "abc1234.txt", nil, bytes.NewReader([]byte("second")))
	require.ErrorIs(t, err, ErrExists)
}

func TestSaveStreamErrorLeavesPartialFile(t *testing.T) {
	store, dir := newLocal(t)

	boom := errors.New("client went away")
	r := io.MultiReader(bytes.NewReader([]byte("partial content")), iotest.ErrReader(boom))

	_, err := store.Save(context.Background(), "abc1234.bin", nil, r)
	require.ErrorIs(t, err, boom)

	// No rollback: whatever was written stays visible.
	got, readErr := os.ReadFile(filepath.Join(dir, "abc1234.bin"))
	require.NoError(t, readErr)
	require.Equal(t, []byte("partial content"), got)
}

func TestOpenRoundTrip(t *testing.T) {
	store, _ := newLocal(t)

	_, err := store.Save(context.Background(), "abc1234.txt", []byte("pre"), bytes.NewReader([]byte("fix")))
	require.NoError(t, err)

	f, modTime, err := store.Open(context.Background(), "abc1234.txt")
	require.NoError(t, err)
	defer f.Close()
	require.False(t, modTime.IsZero())

	got, err := io.ReadAll(f)
	require.NoError(t, err)
	require.Equal(t, []byte("prefix"), got)
}

func TestOpenMissing(t *testing.T) {
	store, _ := newLocal(t)
	_, _, err := store.Open(context.Background(), "nothere.txt")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRemove(t *testing.T) {
	store, dir := newLocal(t)

	_, err := store.Save(context.Background(), "abc1234.txt", nil, bytes.NewReader([]byte("x")))
	require.NoError(t, err)
	require.NoError(t, store.Remove(context.Background(), "abc1234.txt"))

	_, statErr := os.Stat(filepath.Join(dir, "abc1234.txt"))
	require.True(t, os.IsNotExist(statErr))

	require.ErrorIs(t, store.Remove(context.Background(), "abc1234.txt"), ErrNotFound)
}

func TestPathTraversalRejected(t *testing.T) {
	store, _ := newLocal(t)

	for _, name := range []string{"", ".", "..", "a/b.txt", `a\b.txt`} {
		_, err := store.Save(context.Background(), name, nil, bytes.NewReader(nil))
		require.ErrorIs(t, err, ErrNotFound, "name %q", name)
		require.ErrorIs(t, store.Remove(context.Background(), name), ErrNotFound, "name %q", name)
	}
}
