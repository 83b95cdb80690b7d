package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	d, err := newDiskCache(t.TempDir())
	require.NoError(t, err)

	uri := "https://cdn.test/images/cat.png?size=large"
	payload := []byte{0x89, 'P', 'N', 'G', 1, 2, 3}

	_, err = d.read(uri)
	assert.ErrorIs(t, err, ErrNotCached)
	assert.False(t, d.contains(uri))

	require.NoError(t, d.write(uri, payload))
	assert.True(t, d.contains(uri))

	got, err := d.read(uri)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestDiskCacheKeysAreFilesystemSafe(t *testing.T) {
	d, err := newDiskCache(t.TempDir())
	require.NoError(t, err)

	// Slashes, queries, and unicode must not leak into the filename.
	uri := "https://cdn.test/a/b/../c.png?q=x&r=%2F#frag-ü"
	require.NoError(t, d.write(uri, []byte{1}))

	entries, err := os.ReadDir(d.dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	name := entries[0].Name()
	assert.NotContains(t, name, "/")
	assert.Len(t, name, 64, "sha256 hex digest")
	assert.Equal(t, filepath.Join(d.dir, name), d.path(uri))
}

func TestDiskCacheDistinctURIsDistinctFiles(t *testing.T) {
	d, err := newDiskCache(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, d.write("https://cdn.test/a.png", []byte("a")))
	require.NoError(t, d.write("https://cdn.test/b.png", []byte("b")))

	a, err := d.read("https://cdn.test/a.png")
	require.NoError(t, err)
	b, err := d.read("https://cdn.test/b.png")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDiskCacheOverwrite(t *testing.T) {
	d, err := newDiskCache(t.TempDir())
	require.NoError(t, err)
	uri := "https://cdn.test/a.png"

	require.NoError(t, d.write(uri, []byte("old")))
	require.NoError(t, d.write(uri, []byte("new")))

	got, err := d.read(uri)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), got)
}

func TestDiskCacheLeavesNoTempFiles(t *testing.T) {
	d, err := newDiskCache(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, d.write("https://cdn.test/a.png", []byte("a")))
	require.NoError(t, d.write("https://cdn.test/b.png", []byte("b")))

	entries, err := os.ReadDir(d.dir)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.False(t, strings.HasPrefix(entry.Name(), ".tmp-"),
			"temp file %s survived a write", entry.Name())
	}
	assert.Len(t, entries, 2)
}

func TestDiskCacheClear(t *testing.T) {
	d, err := newDiskCache(t.TempDir())
	require.NoError(t, err)
	uri := "https://cdn.test/a.png"

	require.NoError(t, d.write(uri, []byte("a")))
	require.NoError(t, d.clear())

	assert.False(t, d.contains(uri))
	_, err = d.read(uri)
	assert.ErrorIs(t, err, ErrNotCached)

	// The directory is usable again immediately.
	require.NoError(t, d.write(uri, []byte("a2")))
	assert.True(t, d.contains(uri))
}

func TestDiskCacheRemove(t *testing.T) {
	d, err := newDiskCache(t.TempDir())
	require.NoError(t, err)
	uri := "https://cdn.test/a.png"

	require.NoError(t, d.write(uri, []byte("a")))
	d.remove(uri)
	assert.False(t, d.contains(uri))

	d.remove(uri) // removing a missing entry is fine
}

func TestNewDiskCacheRejectsEmptyDir(t *testing.T) {
	_, err := newDiskCache("")
	assert.Error(t, err)
}
