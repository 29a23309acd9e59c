package fsutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCreatesParentsAndOverwrites(t *testing.T) {
	fs := NewMemory()
	path := filepath.Join("flakes", "hello", "src_files", "bin", "hello")

	require.NoError(t, fs.Write(path, []byte("first")))
	require.NoError(t, fs.Write(path, []byte("second")))

	data, err := fs.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
	assert.True(t, fs.IsDir(filepath.Join("flakes", "hello", "src_files", "bin")))
}

func TestReadMissingAndDirectory(t *testing.T) {
	fs := NewMemory()
	require.NoError(t, fs.MakeDirs("recipes"))

	_, err := fs.Read("nope.hcl")
	require.Error(t, err)
	assert.True(t, IsNotExist(err))

	_, err = fs.Read("recipes")
	require.Error(t, err)
	assert.False(t, IsNotExist(err))
}

func TestRemoveAll(t *testing.T) {
	fs := NewMemory()
	require.NoError(t, fs.Write("out/a/b.txt", []byte("x")))

	require.NoError(t, fs.RemoveAll("out/a"))
	assert.False(t, fs.Exists("out/a/b.txt"))
	assert.False(t, fs.Exists("out/a"))

	// Removing something that never existed is fine.
	require.NoError(t, fs.RemoveAll("out/missing"))
}

func TestListFilesSkipsDirsAndHidden(t *testing.T) {
	fs := NewMemory()
	require.NoError(t, fs.Write("recipes/b.star", nil))
	require.NoError(t, fs.Write("recipes/a.hcl", nil))
	require.NoError(t, fs.Write("recipes/.swp", nil))
	require.NoError(t, fs.Write("recipes/nested/c.hcl", nil))

	files, err := fs.ListFiles("recipes")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("recipes", "a.hcl"),
		filepath.Join("recipes", "b.star"),
	}, files)
}
