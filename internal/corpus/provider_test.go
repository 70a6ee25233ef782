package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "image_names.txt")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0644))
	return path
}

func TestManifestSourceFiltersByGroupPrefix(t *testing.T) {
	path := writeManifest(t, `Group_1/a.jpg
Group_1/b.jpg
Group_2/x.jpg
Group_1/c.jpg

Group_10/zz.jpg
`)

	src := NewManifestSource(path)

	images, err := src.Images("Group 1")
	require.NoError(t, err)
	// File order preserved; "Group_10/" must not match the "Group_1/" prefix.
	assert.Equal(t, []string{"Group_1/a.jpg", "Group_1/b.jpg", "Group_1/c.jpg"}, images)

	images, err = src.Images("Group 2")
	require.NoError(t, err)
	assert.Equal(t, []string{"Group_2/x.jpg"}, images)
}

func TestManifestSourceEmptyPartition(t *testing.T) {
	path := writeManifest(t, "Group_1/a.jpg\n")

	images, err := NewManifestSource(path).Images("Group 3")
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestManifestSourceMissingFile(t *testing.T) {
	_, err := NewManifestSource(filepath.Join(t.TempDir(), "nope.txt")).Images("Group 1")
	assert.Error(t, err)
}

func TestDirectorySourceListsSortedImages(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "Group_1")
	require.NoError(t, os.MkdirAll(dir, 0755))
	for _, name := range []string{"c.JPG", "a.png", "b.jpeg", "notes.txt", "d.bmp", "thumb.db"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "subdir"), 0755))

	images, err := NewDirectorySource(root).Images("Group 1")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Group_1/a.png", "Group_1/b.jpeg", "Group_1/c.JPG", "Group_1/d.bmp",
	}, images)
}

func TestDirectorySourceMissingGroupFolder(t *testing.T) {
	_, err := NewDirectorySource(t.TempDir()).Images("Group 1")
	assert.Error(t, err)
}
