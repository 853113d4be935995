package media

import (
	"io/fs"
	"path/filepath"
)

// ScanResult holds the classified media found under a source directory
type ScanResult struct {
	Stills  []Item
	Videos  []Item
	Skipped int // files of unknown kind
	Errors  TraversalErrors
}

// Len returns the number of classified media items
func (r ScanResult) Len() int {
	return len(r.Stills) + len(r.Videos)
}

// Scan recursively walks root and collects still and video files in traversal order.
// Unreadable directories are recorded and their siblings are still visited; when any
// were recorded the returned error is a TraversalErrors holding them.
func Scan(root string) (ScanResult, error) {
	var s scanner
	_ = filepath.WalkDir(root, s.visit)
	return s.finish()
}

// ScanFS walks fsys from its root. Item directories are reported relative to root.
func ScanFS(fsys fs.FS, root string) (ScanResult, error) {
	var s scanner
	_ = fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		return s.visit(filepath.Join(root, filepath.FromSlash(p)), d, err)
	})
	return s.finish()
}

type scanner struct {
	result ScanResult
}

// visit records walk errors instead of returning them, so the walk itself never fails
func (s *scanner) visit(p string, d fs.DirEntry, err error) error {
	if err != nil {
		s.result.Errors = append(s.result.Errors, &TraversalError{Path: p, Err: err})
		if d != nil && d.IsDir() {
			return fs.SkipDir
		}
		return nil
	}

	if d.IsDir() {
		return nil
	}

	item := Classify(filepath.Dir(p), d.Name())
	switch item.Kind {
	case Still:
		s.result.Stills = append(s.result.Stills, item)
	case Video:
		s.result.Videos = append(s.result.Videos, item)
	default:
		s.result.Skipped++
	}
	return nil
}

func (s *scanner) finish() (ScanResult, error) {
	if len(s.result.Errors) > 0 {
		return s.result, s.result.Errors
	}
	return s.result, nil
}
