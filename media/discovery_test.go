package media

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreadableDirFS fails ReadDir for a single directory
type unreadableDirFS struct {
	fs.FS
	bad string
}

var errUnreadable = errors.New("permission denied")

func (f unreadableDirFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if name == f.bad {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: errUnreadable}
	}
	return fs.ReadDir(f.FS, name)
}

func buildCard(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, name := range []string{
		"DCIM/100MSDCF/DSC0001.JPG",
		"DCIM/100MSDCF/DSC0001.ARW",
		"DCIM/101MSDCF/DSC0002.JPG",
		"PRIVATE/M4ROOT/CLIP/C0001.MP4",
		"PRIVATE/AVCHD/BDMV/STREAM/00000.MTS",
		"PRIVATE/M4ROOT/CLIP/C0001M01.XML",
		"MISC/notes.txt",
	} {
		writeFile(t, filepath.Join(root, filepath.FromSlash(name)), "x", time.Time{})
	}
	return root
}

func TestScan_ClassifiesRecursively(t *testing.T) {
	root := buildCard(t)

	result, err := Scan(root)
	require.NoError(t, err)

	assert.Len(t, result.Stills, 3)
	assert.Len(t, result.Videos, 2)
	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, 5, result.Len())

	for _, item := range result.Stills {
		_, statErr := os.Stat(item.Path())
		assert.NoError(t, statErr, "item path %s must point at the real file", item.Path())
	}
}

func TestScan_EmptyDirectory(t *testing.T) {
	result, err := Scan(t.TempDir())
	require.NoError(t, err)
	assert.Zero(t, result.Len())
	assert.Zero(t, result.Skipped)
}

func TestScanFS_UnreadableDirectoryKeepsSiblings(t *testing.T) {
	root := buildCard(t)
	fsys := unreadableDirFS{FS: os.DirFS(root), bad: "DCIM/100MSDCF"}

	result, err := ScanFS(fsys, root)
	require.Error(t, err)

	var traversal TraversalErrors
	require.ErrorAs(t, err, &traversal)
	require.Len(t, traversal, 1)
	assert.Equal(t, filepath.Join(root, "DCIM", "100MSDCF"), traversal[0].Path)
	assert.ErrorIs(t, err, errUnreadable)

	// Only the still in the sibling directory is left
	require.Len(t, result.Stills, 1)
	assert.Equal(t, "DSC0002.JPG", result.Stills[0].Name)
	assert.Len(t, result.Videos, 2)
}

func TestScan_MissingRoot(t *testing.T) {
	result, err := Scan(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Zero(t, result.Len())
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestScan_NonUTF8NamesAreWalked(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("needs a filesystem that accepts arbitrary bytes in names")
	}
	root := t.TempDir()
	card := filepath.Join(root, "card\xff")
	if err := os.Mkdir(card, 0o755); err != nil {
		t.Skipf("filesystem rejects non UTF-8 names: %v", err)
	}
	writeFile(t, filepath.Join(card, "IMG_001.JPG"), "x", time.Time{})
	writeFile(t, filepath.Join(root, "IMG_\xfe002.JPG"), "x", time.Time{})

	result, err := Scan(root)
	require.NoError(t, err)
	require.Len(t, result.Stills, 2)

	for _, item := range result.Stills {
		_, statErr := os.Stat(item.Path())
		assert.NoError(t, statErr)
	}
}
