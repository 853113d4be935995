package media

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plannedFor(src, targetDir, targetName string) PlannedItem {
	return PlannedItem{
		SequencedItem: SequencedItem{
			ResolvedItem: ResolvedItem{Item: Classify(filepath.Dir(src), filepath.Base(src))},
			Index:        NoIndex,
		},
		TargetDir:  targetDir,
		TargetName: targetName,
	}
}

func TestCommit_CopyPreservesContentAndTimes(t *testing.T) {
	src := filepath.Join(t.TempDir(), "IMG_0001.JPG")
	mtime := time.Date(2021, 6, 1, 14, 30, 5, 0, time.UTC)
	writeFile(t, src, "pixels", mtime)
	require.NoError(t, os.Chmod(src, 0o640))

	dest := filepath.Join(t.TempDir(), "2021_06_01")
	c := &Committer{Mode: ModeCopy, Logger: zerolog.Nop()}
	report := c.Commit([]PlannedItem{plannedFor(src, dest, "2021-06-01 14-30-05.JPG")})

	require.False(t, report.Failed())
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, int64(len("pixels")), report.Bytes)

	target := filepath.Join(dest, "2021-06-01 14-30-05.JPG")
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(data))

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
	assert.True(t, info.ModTime().Equal(mtime))

	_, err = os.Stat(src)
	assert.NoError(t, err, "copy must leave the source in place")

	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestCommit_MoveRemovesSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "C0001.MP4")
	writeFile(t, src, "frames", time.Time{})

	c := &Committer{Mode: ModeMove, Logger: zerolog.Nop()}
	report := c.Commit([]PlannedItem{plannedFor(src, filepath.Join(dir, "out"), "V0_21-06-01 14-30-05.MP4")})

	require.False(t, report.Failed())
	_, err := os.Stat(src)
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = os.Stat(filepath.Join(dir, "out", "V0_21-06-01 14-30-05.MP4"))
	assert.NoError(t, err)
}

func TestCommit_RefusesExistingTarget(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "IMG_0001.JPG")
	writeFile(t, src, "new", time.Time{})
	existing := filepath.Join(dir, "out", "taken.JPG")
	writeFile(t, existing, "old", time.Time{})

	c := &Committer{Mode: ModeCopy, Logger: zerolog.Nop()}
	report := c.Commit([]PlannedItem{plannedFor(src, filepath.Join(dir, "out"), "taken.JPG")})

	require.Len(t, report.Failures, 1)
	assert.ErrorIs(t, report.Failures[0], ErrDestinationExists)
	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))

	c.Overwrite = true
	report = c.Commit([]PlannedItem{plannedFor(src, filepath.Join(dir, "out"), "taken.JPG")})
	require.False(t, report.Failed())
	data, err = os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestCommit_SamePathIsNoop(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "2021-06-01 14-30-05.JPG")
	writeFile(t, src, "pixels", time.Time{})

	c := &Committer{Mode: ModeMove, Logger: zerolog.Nop()}
	report := c.Commit([]PlannedItem{plannedFor(src, dir, "2021-06-01 14-30-05.JPG")})

	require.False(t, report.Failed())
	assert.Equal(t, 1, report.Succeeded)
	data, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(data))
}

func TestCommit_FailuresAreIsolated(t *testing.T) {
	dir := t.TempDir()
	var items []PlannedItem
	for i, name := range []string{"a.JPG", "b.JPG", "c.JPG", "d.JPG"} {
		src := filepath.Join(dir, "src", name)
		writeFile(t, src, name, time.Time{})
		items = append(items, plannedFor(src, filepath.Join(dir, "out"), string(rune('0'+i))+".JPG"))
	}

	// A regular file where a directory is needed blocks MkdirAll even for root
	blocker := filepath.Join(dir, "blocker")
	writeFile(t, blocker, "", time.Time{})
	blockedSrc := filepath.Join(dir, "src", "e.JPG")
	writeFile(t, blockedSrc, "e", time.Time{})
	items = append(items[:2], append([]PlannedItem{plannedFor(blockedSrc, filepath.Join(blocker, "sub"), "x.JPG")}, items[2:]...)...)

	var seen []string
	c := &Committer{Mode: ModeCopy, Logger: zerolog.Nop(), OnItem: func(item PlannedItem, err error) {
		seen = append(seen, item.Name)
	}}
	report := c.Commit(items)

	assert.Equal(t, 4, report.Succeeded)
	require.Len(t, report.Failures, 1)
	require.Len(t, report.DirFailures, 1)
	assert.ErrorIs(t, report.Failures[0], ErrDirectoryUnavailable)
	assert.Equal(t, blockedSrc, report.Failures[0].Path)
	assert.Equal(t, []string{"a.JPG", "b.JPG", "e.JPG", "c.JPG", "d.JPG"}, seen)
}

func TestCommit_MissingSource(t *testing.T) {
	dir := t.TempDir()
	c := &Committer{Mode: ModeCopy, Logger: zerolog.Nop()}
	report := c.Commit([]PlannedItem{plannedFor(filepath.Join(dir, "gone.JPG"), filepath.Join(dir, "out"), "x.JPG")})

	require.Len(t, report.Failures, 1)
	assert.ErrorIs(t, report.Failures[0], os.ErrNotExist)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("move")
	require.NoError(t, err)
	assert.Equal(t, ModeMove, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeCopy, m)

	_, err = ParseMode("link")
	assert.Error(t, err)
	assert.Equal(t, "move", ModeMove.String())
}
