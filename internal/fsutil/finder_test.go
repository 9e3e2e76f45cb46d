package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFilesByExtension(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"b/two.hcl", "a/one.hcl", "a/doc.xml", "notes.txt"} {
		p := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
	}

	files, err := FindFilesByExtension(root, ".hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a/one.hcl"),
		filepath.Join(root, "b/two.hcl"),
	}, files)

	files, err = FindFilesByExtension(root, ".hcl", ".xml")
	require.NoError(t, err)
	assert.Len(t, files, 3)
}

func TestFindFilesByExtension_SingleFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "one.hcl")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0644))

	files, err := FindFilesByExtension(p, ".hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{p}, files)

	files, err = FindFilesByExtension(p, ".xml")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFindFilesByExtension_MissingPath(t *testing.T) {
	files, err := FindFilesByExtension(filepath.Join(t.TempDir(), "nope"), ".hcl")
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestFindFilesByExtension_PanicsOnEmptyExtension(t *testing.T) {
	assert.Panics(t, func() { _, _ = FindFilesByExtension(t.TempDir(), "") })
}
