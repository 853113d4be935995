package media

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/djherbis/times"
	"github.com/rs/zerolog"
)

// Mode selects how files reach their destination
type Mode int

const (
	// ModeCopy leaves the source untouched
	ModeCopy Mode = iota
	// ModeMove renames, copying and removing the source across devices
	ModeMove
)

func (m Mode) String() string {
	if m == ModeMove {
		return "move"
	}
	return "copy"
}

// ParseMode maps a config or flag value to a Mode
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "copy":
		return ModeCopy, nil
	case "move":
		return ModeMove, nil
	}
	return ModeCopy, fmt.Errorf("unknown mode %q (expected copy or move)", s)
}

// CommitReport summarises one commit
type CommitReport struct {
	Succeeded   int
	Bytes       int64
	Committed   []PlannedItem
	Failures    []*ItemError
	DirFailures []*ItemError
}

// Failed reports whether anything in the batch went wrong
func (r CommitReport) Failed() bool {
	return len(r.Failures) > 0 || len(r.DirFailures) > 0
}

// Committer applies planned items to disk one at a time
type Committer struct {
	Mode      Mode
	Overwrite bool
	Logger    zerolog.Logger

	// OnItem is called after every item with its outcome
	OnItem func(item PlannedItem, err error)
}

// Commit creates all target directories and then transfers every item.
// A failing item is recorded and the next one is attempted.
func (c *Committer) Commit(items []PlannedItem) CommitReport {
	var report CommitReport

	failedDirs := make(map[string]error)
	seen := make(map[string]bool)
	for _, item := range items {
		dir := item.TargetDir
		if seen[dir] {
			continue
		}
		seen[dir] = true
		if err := os.MkdirAll(dir, 0o755); err != nil {
			failedDirs[dir] = err
			report.DirFailures = append(report.DirFailures, &ItemError{Path: dir, Op: "mkdir", Err: err})
			c.Logger.Error().Err(err).Str("dir", dir).Msg("Cannot create target directory")
		}
	}

	for _, item := range items {
		var err error
		if dirErr, ok := failedDirs[item.TargetDir]; ok {
			err = &ItemError{Path: item.Path(), Op: c.Mode.String(), Err: fmt.Errorf("%w: %w", ErrDirectoryUnavailable, dirErr)}
		} else {
			var n int64
			n, err = c.commitOne(item)
			if err == nil {
				report.Bytes += n
			}
		}

		if err != nil {
			var itemErr *ItemError
			if !errors.As(err, &itemErr) {
				itemErr = &ItemError{Path: item.Path(), Op: c.Mode.String(), Err: err}
			}
			report.Failures = append(report.Failures, itemErr)
			c.Logger.Error().Err(itemErr.Err).Str("path", item.Path()).Str("target", item.Target()).Msg("Commit failed")
		} else {
			report.Succeeded++
			report.Committed = append(report.Committed, item)
			c.Logger.Debug().Str("path", item.Path()).Str("target", item.Target()).Msg("Committed")
		}

		if c.OnItem != nil {
			c.OnItem(item, err)
		}
	}

	return report
}

func (c *Committer) commitOne(item PlannedItem) (int64, error) {
	src := item.Path()
	dst := item.Target()

	info, err := os.Stat(src)
	if err != nil {
		return 0, err
	}

	// Re-running over an already renamed tree plans every file onto itself
	if filepath.Clean(src) == filepath.Clean(dst) {
		return 0, nil
	}

	if _, err := os.Lstat(dst); err == nil {
		if !c.Overwrite {
			return 0, fmt.Errorf("%w: %s", ErrDestinationExists, dst)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return 0, fmt.Errorf("stat target: %w", err)
	}

	if c.Mode == ModeMove {
		return info.Size(), moveFile(src, dst)
	}
	return info.Size(), CopyFile(src, dst)
}

// moveFile renames src to dst, copying and removing the source when they are on different devices
func moveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return fmt.Errorf("rename: %w", err)
	}

	if err := CopyFile(src, dst); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("remove source after copy: %w", err)
	}
	return nil
}

// CopyFile copies src to dst through a temporary file in the target directory,
// keeping the permission bits and access/modification times of the source.
func CopyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*.part")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, in); err != nil {
		return fmt.Errorf("copy data: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	if err = os.Chmod(tmp.Name(), info.Mode().Perm()); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}

	ts := times.Get(info)
	if err = os.Chtimes(tmp.Name(), ts.AccessTime(), ts.ModTime()); err != nil {
		return fmt.Errorf("chtimes: %w", err)
	}

	if err = os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
